package partner

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByCode finds a supplier by its code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindAll finds suppliers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// Delete removes a supplier
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts suppliers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a supplier code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// COARepository defines the interface for certificate-of-analysis persistence
type COARepository interface {
	// FindByID finds a certificate by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CertificateOfAnalysis, error)

	// FindBySupplier finds all certificates for a supplier, newest first
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]CertificateOfAnalysis, error)

	// FindLatestBySupplier finds the most recent certificate for a supplier,
	// or shared.ErrNotFound when none exists
	FindLatestBySupplier(ctx context.Context, supplierID uuid.UUID) (*CertificateOfAnalysis, error)

	// Save creates or updates a certificate
	Save(ctx context.Context, coa *CertificateOfAnalysis) error

	// Delete removes a certificate
	Delete(ctx context.Context, id uuid.UUID) error
}
