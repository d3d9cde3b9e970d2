package catalog

import (
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
)

// Warehouse represents a receiving location
type Warehouse struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Location string `gorm:"type:varchar(500)"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name, location string) (*Warehouse, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Location:          location,
		Active:            true,
	}, nil
}

// Update changes the mutable warehouse fields
func (w *Warehouse) Update(name, location string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	w.Name = strings.TrimSpace(name)
	w.Location = location
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Deactivate removes the warehouse from intake selection
func (w *Warehouse) Deactivate() {
	w.Active = false
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}
