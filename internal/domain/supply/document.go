package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplyDocument holds delivery paperwork metadata for a supply: invoice and
// driver details, the supplier batch reference, shelf-life dates, and the
// object-storage path of an uploaded scan when one was attached
type SupplyDocument struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	SupplyID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceNumber  string     `gorm:"type:varchar(100)"`
	DriverName     string     `gorm:"type:varchar(200)"`
	LicenseNumber  string     `gorm:"type:varchar(100)"`
	BatchNumber    string     `gorm:"type:varchar(100)"`
	ProductionDate *time.Time
	ExpiryDate     *time.Time
	FilePath       string    `gorm:"type:varchar(500)"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplyDocument) TableName() string {
	return "supply_documents"
}

// NewSupplyDocument creates a document record. At least one metadata field
// or a file must be present; fully empty rows are never stored.
func NewSupplyDocument(supplyID uuid.UUID, invoiceNumber, driverName, licenseNumber, batchNumber string, productionDate, expiryDate *time.Time, filePath string) (*SupplyDocument, error) {
	if invoiceNumber == "" && driverName == "" && licenseNumber == "" && batchNumber == "" &&
		productionDate == nil && expiryDate == nil && filePath == "" {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Supply document must carry at least one field")
	}
	if productionDate != nil && expiryDate != nil && expiryDate.Before(*productionDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Expiry date cannot precede production date")
	}

	now := time.Now()
	return &SupplyDocument{
		ID:             uuid.New(),
		SupplyID:       supplyID,
		InvoiceNumber:  invoiceNumber,
		DriverName:     driverName,
		LicenseNumber:  licenseNumber,
		BatchNumber:    batchNumber,
		ProductionDate: productionDate,
		ExpiryDate:     expiryDate,
		FilePath:       filePath,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
