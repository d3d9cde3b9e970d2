package catalog

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds products with filtering; an optional product type filter
	// is passed through shared.Filter ("product_type")
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a product code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Unit, error)
	Save(ctx context.Context, unit *Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// QualityParameterRepository defines the interface for quality parameter persistence
type QualityParameterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QualityParameter, error)
	FindAllActive(ctx context.Context) ([]QualityParameter, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]QualityParameter, error)
	Save(ctx context.Context, parameter *QualityParameter) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PackagingParameterRepository defines the interface for packaging parameter persistence
type PackagingParameterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PackagingParameter, error)
	FindAllActive(ctx context.Context) ([]PackagingParameter, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PackagingParameter, error)
	Save(ctx context.Context, parameter *PackagingParameter) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
