package catalog

import (
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductType classifies where a product sits in the processing pipeline.
// Batch intake only accepts RAW products.
type ProductType string

const (
	ProductTypeRaw       ProductType = "RAW"
	ProductTypeProcessed ProductType = "PROCESSED"
	ProductTypePackaged  ProductType = "PACKAGED"
)

// IsValid checks if the value is a valid ProductType
func (t ProductType) IsValid() bool {
	return t == ProductTypeRaw || t == ProductTypeProcessed || t == ProductTypePackaged
}

// String returns the string representation of ProductType
func (t ProductType) String() string {
	return string(t)
}

// Product represents a material/SKU in the catalog
type Product struct {
	shared.BaseAggregateRoot
	Code        string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string      `gorm:"type:varchar(200);not null"`
	Description string      `gorm:"type:text"`
	ProductType ProductType `gorm:"type:varchar(20);not null;index"`
	UnitID      *uuid.UUID  `gorm:"type:uuid"` // default unit for intake entry
	Active      bool        `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, productType ProductType) (*Product, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be RAW, PROCESSED, or PACKAGED")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		ProductType:       productType,
		Active:            true,
	}, nil
}

// Update changes the mutable product fields
func (p *Product) Update(name, description string, unitID *uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UnitID = unitID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate hides the product from intake selection without deleting it
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate re-enables the product for intake selection
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsRaw reports whether the product can be selected for supply batches
func (p *Product) IsRaw() bool {
	return p.ProductType == ProductTypeRaw
}
