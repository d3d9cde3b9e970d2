package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplyPaymentRepository implements supply.SupplyPaymentRepository using GORM
type GormSupplyPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplyPaymentRepository creates a new GORM supply payment repository
func NewGormSupplyPaymentRepository(db *gorm.DB) *GormSupplyPaymentRepository {
	return &GormSupplyPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormSupplyPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.SupplyPayment, error) {
	var payment supply.SupplyPayment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

// FindBySupplyID finds the payment attached to a supply
func (r *GormSupplyPaymentRepository) FindBySupplyID(ctx context.Context, supplyID uuid.UUID) (*supply.SupplyPayment, error) {
	var payment supply.SupplyPayment
	if err := r.db.WithContext(ctx).First(&payment, "supply_id = ?", supplyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

// FindAll finds payments with filtering
func (r *GormSupplyPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.SupplyPayment, error) {
	var payments []supply.SupplyPayment
	query := r.applyFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormSupplyPaymentRepository) Save(ctx context.Context, payment *supply.SupplyPayment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// SaveWithLock saves a payment with an optimistic version check
func (r *GormSupplyPaymentRepository) SaveWithLock(ctx context.Context, payment *supply.SupplyPayment) error {
	currentVersion := payment.Version - 1

	result := r.db.WithContext(ctx).Model(&supply.SupplyPayment{}).
		Where("id = ? AND version = ?", payment.ID, currentVersion).
		Updates(map[string]interface{}{
			"amount_due": payment.AmountDue,
			"status":     payment.Status,
			"paid_at":    payment.PaidAt,
			"version":    payment.Version,
			"updated_at": payment.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "Payment was modified by another process")
	}
	return nil
}

// Count counts payments matching the filter
func (r *GormSupplyPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&supply.SupplyPayment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}

func (r *GormSupplyPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	return query
}

func (r *GormSupplyPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}
