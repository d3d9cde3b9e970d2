package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCOARepository implements partner.COARepository using GORM
type GormCOARepository struct {
	db *gorm.DB
}

// NewGormCOARepository creates a new GORM certificate-of-analysis repository
func NewGormCOARepository(db *gorm.DB) *GormCOARepository {
	return &GormCOARepository{db: db}
}

// FindByID finds a certificate by ID
func (r *GormCOARepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CertificateOfAnalysis, error) {
	var coa partner.CertificateOfAnalysis
	if err := r.db.WithContext(ctx).First(&coa, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return &coa, nil
}

// FindBySupplier finds all certificates for a supplier, newest first
func (r *GormCOARepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]partner.CertificateOfAnalysis, error) {
	var coas []partner.CertificateOfAnalysis
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("issued_at DESC").
		Find(&coas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find certificates: %w", err)
	}
	return coas, nil
}

// FindLatestBySupplier finds the most recent certificate for a supplier
func (r *GormCOARepository) FindLatestBySupplier(ctx context.Context, supplierID uuid.UUID) (*partner.CertificateOfAnalysis, error) {
	var coa partner.CertificateOfAnalysis
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("issued_at DESC").
		First(&coa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest certificate: %w", err)
	}
	return &coa, nil
}

// Save creates or updates a certificate
func (r *GormCOARepository) Save(ctx context.Context, coa *partner.CertificateOfAnalysis) error {
	if err := r.db.WithContext(ctx).Save(coa).Error; err != nil {
		return fmt.Errorf("failed to save certificate: %w", err)
	}
	return nil
}

// Delete removes a certificate
func (r *GormCOARepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&partner.CertificateOfAnalysis{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	return nil
}
