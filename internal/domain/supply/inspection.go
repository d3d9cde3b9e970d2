package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InspectionAnswer is a yes/no/not-applicable checklist answer
type InspectionAnswer string

const (
	AnswerYes InspectionAnswer = "YES"
	AnswerNo  InspectionAnswer = "NO"
	AnswerNA  InspectionAnswer = "NA"
)

// IsValid checks if the answer is a valid InspectionAnswer
func (a InspectionAnswer) IsValid() bool {
	return a == AnswerYes || a == AnswerNo || a == AnswerNA
}

// VehicleInspection is the fixed delivery-vehicle checklist, at most one per
// supply, upserted on supply_id
type VehicleInspection struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key"`
	SupplyID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	Cleanliness        InspectionAnswer `gorm:"type:varchar(3);not null"`
	PestFree           InspectionAnswer `gorm:"type:varchar(3);not null"`
	TemperatureControl InspectionAnswer `gorm:"type:varchar(3);not null"`
	Remarks            string           `gorm:"type:varchar(500)"`
	CreatedAt          time.Time        `gorm:"not null"`
	UpdatedAt          time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VehicleInspection) TableName() string {
	return "supply_vehicle_inspections"
}

// NewVehicleInspection creates a vehicle inspection; all three answers are required
func NewVehicleInspection(supplyID uuid.UUID, cleanliness, pestFree, temperatureControl InspectionAnswer, remarks string) (*VehicleInspection, error) {
	if !cleanliness.IsValid() || !pestFree.IsValid() || !temperatureControl.IsValid() {
		return nil, shared.NewDomainError("INVALID_INSPECTION", "Vehicle inspection answers must be YES, NO, or NA")
	}

	now := time.Now()
	return &VehicleInspection{
		ID:                 uuid.New(),
		SupplyID:           supplyID,
		Cleanliness:        cleanliness,
		PestFree:           pestFree,
		TemperatureControl: temperatureControl,
		Remarks:            remarks,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// PackagingCheckItem is one recorded packaging parameter value
type PackagingCheckItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CheckID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ParameterID   uuid.UUID `gorm:"type:uuid;not null"`
	ParameterName string    `gorm:"type:varchar(200);not null"`
	Value         string    `gorm:"type:varchar(200);not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PackagingCheckItem) TableName() string {
	return "supply_packaging_quality_check_items"
}

// PackagingCheck is the packaging quality header, at most one per supply.
// The header is upserted; items are replaced on edit.
type PackagingCheck struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	SupplyID  uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	Remarks   string               `gorm:"type:varchar(500)"`
	Items     []PackagingCheckItem `gorm:"foreignKey:CheckID;references:ID"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PackagingCheck) TableName() string {
	return "supply_packaging_quality_checks"
}

// NewPackagingCheck creates an empty packaging check for a supply
func NewPackagingCheck(supplyID uuid.UUID, remarks string) *PackagingCheck {
	now := time.Now()
	return &PackagingCheck{
		ID:        uuid.New(),
		SupplyID:  supplyID,
		Remarks:   remarks,
		Items:     make([]PackagingCheckItem, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem records a packaging parameter value on this check
func (c *PackagingCheck) AddItem(parameterID uuid.UUID, parameterName, value string) error {
	if parameterID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARAMETER", "Packaging parameter ID cannot be empty")
	}
	if value == "" {
		return shared.NewDomainError("INVALID_VALUE", "Packaging parameter value cannot be empty")
	}

	now := time.Now()
	c.Items = append(c.Items, PackagingCheckItem{
		ID:            uuid.New(),
		CheckID:       c.ID,
		ParameterID:   parameterID,
		ParameterName: parameterName,
		Value:         value,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	c.UpdatedAt = now

	return nil
}

// SignatureType distinguishes a captured e-signature from an uploaded
// signed document
type SignatureType string

const (
	SignatureTypeESignature       SignatureType = "E_SIGNATURE"
	SignatureTypeUploadedDocument SignatureType = "UPLOADED_DOCUMENT"
)

// IsValid checks if the value is a valid SignatureType
func (t SignatureType) IsValid() bool {
	return t == SignatureTypeESignature || t == SignatureTypeUploadedDocument
}

// SupplierSignOff is the supplier acknowledgement of the delivery, at most
// one per supply, upserted on supply_id
type SupplierSignOff struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key"`
	SupplyID      uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	SignatureType SignatureType `gorm:"type:varchar(20);not null"`
	SignerName    string        `gorm:"type:varchar(200);not null"`
	SignatureData string        `gorm:"type:text"`
	FilePath      string        `gorm:"type:varchar(500)"`
	Remarks       string        `gorm:"type:varchar(500)"`
	SignedAt      time.Time     `gorm:"not null"`
	CreatedAt     time.Time     `gorm:"not null"`
	UpdatedAt     time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierSignOff) TableName() string {
	return "supply_supplier_sign_offs"
}

// NewSupplierSignOff creates a sign-off. An e-signature requires captured
// signature data; an uploaded document requires the stored file path.
func NewSupplierSignOff(supplyID uuid.UUID, signatureType SignatureType, signerName, signatureData, filePath, remarks string) (*SupplierSignOff, error) {
	if !signatureType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SIGNATURE_TYPE", "Signature type must be E_SIGNATURE or UPLOADED_DOCUMENT")
	}
	if signerName == "" {
		return nil, shared.NewDomainError("INVALID_SIGNER", "Signer name cannot be empty")
	}
	if signatureType == SignatureTypeESignature && signatureData == "" {
		return nil, shared.NewDomainError("MISSING_SIGNATURE", "E-signature requires captured signature data")
	}
	if signatureType == SignatureTypeUploadedDocument && filePath == "" {
		return nil, shared.NewDomainError("MISSING_SIGNATURE_FILE", "Uploaded signature requires a document file")
	}

	now := time.Now()
	return &SupplierSignOff{
		ID:            uuid.New(),
		SupplyID:      supplyID,
		SignatureType: signatureType,
		SignerName:    signerName,
		SignatureData: signatureData,
		FilePath:      filePath,
		Remarks:       remarks,
		SignedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
