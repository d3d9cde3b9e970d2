package catalog

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ProductType string     `json:"product_type"`
	UnitID      *uuid.UUID `json:"unit_id,omitempty"`
}

// UpdateProductRequest updates the mutable product fields
type UpdateProductRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	UnitID      *uuid.UUID `json:"unit_id,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// ProductResponse mirrors a catalog product
type ProductResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ProductType string     `json:"product_type"`
	UnitID      *uuid.UUID `json:"unit_id,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateWarehouseRequest creates a warehouse
type CreateWarehouseRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// UpdateWarehouseRequest updates a warehouse
type UpdateWarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// WarehouseResponse mirrors a warehouse
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest creates a unit of measure
type CreateUnitRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UnitResponse mirrors a unit of measure
type UnitResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// CreateQualityParameterRequest creates a quality parameter
type CreateQualityParameterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// QualityParameterResponse mirrors a quality parameter
type QualityParameterResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
}

// CreatePackagingParameterRequest creates a packaging parameter
type CreatePackagingParameterRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Options   string `json:"options,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// PackagingParameterResponse mirrors a packaging parameter
type PackagingParameterResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Options   string    `json:"options,omitempty"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
}

// ToProductResponse maps a product to its response
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		ProductType: p.ProductType.String(),
		UnitID:      p.UnitID,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToWarehouseResponse maps a warehouse to its response
func ToWarehouseResponse(w *catalog.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Location:  w.Location,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
	}
}

// ToUnitResponse maps a unit to its response
func ToUnitResponse(u *catalog.Unit) *UnitResponse {
	return &UnitResponse{
		ID:     u.ID,
		Code:   u.Code,
		Name:   u.Name,
		Active: u.Active,
	}
}

// ToQualityParameterResponse maps a quality parameter to its response
func ToQualityParameterResponse(p *catalog.QualityParameter) *QualityParameterResponse {
	return &QualityParameterResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		SortOrder:   p.SortOrder,
	}
}

// ToPackagingParameterResponse maps a packaging parameter to its response
func ToPackagingParameterResponse(p *catalog.PackagingParameter) *PackagingParameterResponse {
	return &PackagingParameterResponse{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		Options:   p.Options,
		Active:    p.Active,
		SortOrder: p.SortOrder,
	}
}
