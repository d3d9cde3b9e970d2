package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStatus represents the overall status of a supply receiving document
type DocumentStatus string

const (
	DocumentStatusAccepted DocumentStatus = "ACCEPTED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	return s == DocumentStatusAccepted || s == DocumentStatusRejected
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// QualityStatus is the supply-level quality verdict, derived from the
// quality check scores and the batch rejections
type QualityStatus string

const (
	QualityStatusPassed QualityStatus = "PASSED"
	QualityStatusFailed QualityStatus = "FAILED"
)

// String returns the string representation of QualityStatus
func (s QualityStatus) String() string {
	return string(s)
}

// BatchQualityStatus is the per-batch quality verdict
type BatchQualityStatus string

const (
	BatchQualityPassed BatchQualityStatus = "PASSED"
	BatchQualityFailed BatchQualityStatus = "FAILED"
	BatchQualityHold   BatchQualityStatus = "HOLD"
)

// String returns the string representation of BatchQualityStatus
func (s BatchQualityStatus) String() string {
	return string(s)
}

// ErrAcceptedExceedsReceived is returned when an accepted quantity is set
// above the received quantity; the caller receives the clamped state
var ErrAcceptedExceedsReceived = shared.NewDomainError("QUANTITY_EXCEEDED", "Accepted quantity cannot exceed received quantity")

// SupplyLine represents one received line on a supply document
type SupplyLine struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	SupplyID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	UnitID      uuid.UUID        `gorm:"type:uuid;not null"`
	Unit        string           `gorm:"type:varchar(20);not null"`
	OrderedQty  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedQty decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	AcceptedQty decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RejectedQty decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Position    int              `gorm:"not null"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplyLine) TableName() string {
	return "supply_lines"
}

// NewSupplyLine creates a new supply line. Accepted quantity is applied
// through SetAcceptedQuantity so the clamp rule holds from the start.
func NewSupplyLine(supplyID, productID uuid.UUID, productName string, unitID uuid.UUID, unit string, ordered, received, accepted decimal.Decimal, unitPrice *decimal.Decimal, position int) (*SupplyLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if received.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	if accepted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Accepted quantity cannot be negative")
	}
	if ordered.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be negative")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	line := &SupplyLine{
		ID:          uuid.New(),
		SupplyID:    supplyID,
		ProductID:   productID,
		ProductName: productName,
		UnitID:      unitID,
		Unit:        unit,
		OrderedQty:  ordered,
		ReceivedQty: received,
		AcceptedQty: decimal.Zero,
		RejectedQty: received,
		UnitPrice:   unitPrice,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := line.SetAcceptedQuantity(accepted); err != nil {
		return nil, err
	}

	return line, nil
}

// SetAcceptedQuantity sets the accepted quantity and re-derives the rejected
// quantity as max(received - accepted, 0). A value above the received
// quantity clamps accepted to received, zeroes rejected, and returns
// ErrAcceptedExceedsReceived.
func (l *SupplyLine) SetAcceptedQuantity(accepted decimal.Decimal) error {
	if accepted.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Accepted quantity cannot be negative")
	}

	if accepted.GreaterThan(l.ReceivedQty) {
		l.AcceptedQty = l.ReceivedQty
		l.RejectedQty = decimal.Zero
		l.UpdatedAt = time.Now()
		return ErrAcceptedExceedsReceived
	}

	l.AcceptedQty = accepted
	l.RejectedQty = l.deriveRejected()
	l.UpdatedAt = time.Now()

	return nil
}

// SetReceivedQuantity updates the received quantity and re-derives rejected.
// If accepted now exceeds received it is clamped down silently: the received
// figure is the authoritative one on an edit.
func (l *SupplyLine) SetReceivedQuantity(received decimal.Decimal) error {
	if received.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}

	l.ReceivedQty = received
	if l.AcceptedQty.GreaterThan(received) {
		l.AcceptedQty = received
	}
	l.RejectedQty = l.deriveRejected()
	l.UpdatedAt = time.Now()

	return nil
}

func (l *SupplyLine) deriveRejected() decimal.Decimal {
	rejected := l.ReceivedQty.Sub(l.AcceptedQty)
	if rejected.IsNegative() {
		return decimal.Zero
	}
	return rejected
}

// LineAmount returns accepted quantity times unit price, or zero when no
// price was recorded
func (l *SupplyLine) LineAmount() decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.AcceptedQty.Mul(*l.UnitPrice)
}

// SupplyBatch is the traceable lot created for a supply line, 1:1 by position
type SupplyBatch struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key"`
	SupplyID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	LineID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID          `gorm:"type:uuid;not null"`
	LotNumber     string             `gorm:"type:varchar(100);not null;uniqueIndex"`
	CurrentQty    decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	ReceivedQty   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	AcceptedQty   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	RejectedQty   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	QualityStatus BatchQualityStatus `gorm:"type:varchar(20);not null"`
	Position      int                `gorm:"not null"`
	CreatedAt     time.Time          `gorm:"not null"`
	UpdatedAt     time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplyBatch) TableName() string {
	return "supply_batches"
}

// NewSupplyBatch creates the batch for a line, carrying the line quantities.
// Current quantity starts at the accepted quantity: rejected goods never
// enter stock.
func NewSupplyBatch(line *SupplyLine, lotNumber string) *SupplyBatch {
	now := time.Now()
	batch := &SupplyBatch{
		ID:          uuid.New(),
		SupplyID:    line.SupplyID,
		LineID:      line.ID,
		ProductID:   line.ProductID,
		LotNumber:   lotNumber,
		CurrentQty:  line.AcceptedQty,
		ReceivedQty: line.ReceivedQty,
		AcceptedQty: line.AcceptedQty,
		RejectedQty: line.RejectedQty,
		Position:    line.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	batch.QualityStatus = batch.deriveQualityStatus()
	return batch
}

// deriveQualityStatus: PASSED when nothing was rejected, FAILED when nothing
// was accepted, HOLD for a partial rejection
func (b *SupplyBatch) deriveQualityStatus() BatchQualityStatus {
	if b.RejectedQty.IsZero() {
		return BatchQualityPassed
	}
	if b.AcceptedQty.IsZero() {
		return BatchQualityFailed
	}
	return BatchQualityHold
}

// IsQualityPassed returns true when the whole batch passed inspection
func (b *SupplyBatch) IsQualityPassed() bool {
	return b.QualityStatus == BatchQualityPassed
}

// Supply is the aggregate root for one inbound receiving document. It owns
// the full intake graph: lines, batches, the quality check, document
// attachments, the vehicle inspection, the packaging check, and the supplier
// sign-off. The whole graph is persisted in one transaction.
type Supply struct {
	shared.BaseAggregateRoot
	DocumentNumber    string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	SupplierID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	SupplierName      string         `gorm:"type:varchar(200);not null"`
	ReceivedAt        time.Time      `gorm:"not null;index"`
	ReceiverID        uuid.UUID      `gorm:"type:uuid;not null"`
	ReceiverName      string         `gorm:"type:varchar(200);not null"`
	DocumentStatus    DocumentStatus `gorm:"type:varchar(20);not null;default:'ACCEPTED'"`
	QualityStatus     QualityStatus  `gorm:"type:varchar(20);not null;default:'PASSED'"`
	Remarks           string         `gorm:"type:text"`
	Lines             []SupplyLine       `gorm:"foreignKey:SupplyID;references:ID"`
	Batches           []SupplyBatch      `gorm:"foreignKey:SupplyID;references:ID"`
	QualityCheck      *QualityCheck      `gorm:"foreignKey:SupplyID;references:ID"`
	Documents         []SupplyDocument   `gorm:"foreignKey:SupplyID;references:ID"`
	VehicleInspection *VehicleInspection `gorm:"foreignKey:SupplyID;references:ID"`
	PackagingCheck    *PackagingCheck    `gorm:"foreignKey:SupplyID;references:ID"`
	SignOff           *SupplierSignOff   `gorm:"foreignKey:SupplyID;references:ID"`
}

// TableName returns the table name for GORM
func (Supply) TableName() string {
	return "supplies"
}

// NewSupply creates a new supply document. The document number is assigned
// by the repository inside the save transaction, not here.
func NewSupply(warehouseID, supplierID uuid.UUID, supplierName string, receivedAt time.Time, receiverID uuid.UUID, receiverName string) (*Supply, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if receivedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECEIVED_AT", "Received timestamp cannot be empty")
	}
	if receiverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIVER", "Receiver cannot be empty")
	}

	return &Supply{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		ReceivedAt:        receivedAt,
		ReceiverID:        receiverID,
		ReceiverName:      receiverName,
		DocumentStatus:    DocumentStatusAccepted,
		QualityStatus:     QualityStatusPassed,
		Lines:             make([]SupplyLine, 0),
		Batches:           make([]SupplyBatch, 0),
		Documents:         make([]SupplyDocument, 0),
	}, nil
}

// SetDocumentNumber assigns the server-generated document number
func (s *Supply) SetDocumentNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	s.DocumentNumber = number
	s.UpdatedAt = time.Now()
	return nil
}

// AddBatch appends a line and its 1:1 batch. The lot number is derived from
// the supply ID and the batch position.
func (s *Supply) AddBatch(productID uuid.UUID, productName string, unitID uuid.UUID, unit string, ordered, received, accepted decimal.Decimal, unitPrice *decimal.Decimal) (*SupplyBatch, error) {
	position := len(s.Lines)

	line, err := NewSupplyLine(s.ID, productID, productName, unitID, unit, ordered, received, accepted, unitPrice, position)
	if err != nil {
		return nil, err
	}

	batch := NewSupplyBatch(line, FormatLotNumber(s.ID, position+1))

	s.Lines = append(s.Lines, *line)
	s.Batches = append(s.Batches, *batch)
	s.UpdatedAt = time.Now()

	return batch, nil
}

// ClearBatches drops all lines and batches. Edit mode replaces the whole
// collection rather than diffing it.
func (s *Supply) ClearBatches() {
	s.Lines = make([]SupplyLine, 0)
	s.Batches = make([]SupplyBatch, 0)
	s.UpdatedAt = time.Now()
}

// AttachQualityCheck replaces the quality check for this supply
func (s *Supply) AttachQualityCheck(check *QualityCheck) {
	s.QualityCheck = check
	s.UpdatedAt = time.Now()
}

// AddDocument appends a document metadata record
func (s *Supply) AddDocument(doc *SupplyDocument) {
	s.Documents = append(s.Documents, *doc)
	s.UpdatedAt = time.Now()
}

// ClearDocuments drops all document records for replacement on edit
func (s *Supply) ClearDocuments() {
	s.Documents = make([]SupplyDocument, 0)
	s.UpdatedAt = time.Now()
}

// SetVehicleInspection records the vehicle inspection (at most one per supply)
func (s *Supply) SetVehicleInspection(inspection *VehicleInspection) {
	s.VehicleInspection = inspection
	s.UpdatedAt = time.Now()
}

// SetPackagingCheck records the packaging quality check (at most one per supply)
func (s *Supply) SetPackagingCheck(check *PackagingCheck) {
	s.PackagingCheck = check
	s.UpdatedAt = time.Now()
}

// SetSignOff records the supplier sign-off (at most one per supply)
func (s *Supply) SetSignOff(signOff *SupplierSignOff) {
	s.SignOff = signOff
	s.UpdatedAt = time.Now()
}

// SetRemarks sets the document remarks
func (s *Supply) SetRemarks(remarks string) {
	s.Remarks = remarks
	s.UpdatedAt = time.Now()
}

// RecalculateQualityStatus derives the supply-level verdict: FAILED when any
// quality item scored below 3 (N/A excluded) or any batch has a rejection,
// PASSED otherwise
func (s *Supply) RecalculateQualityStatus() {
	status := QualityStatusPassed
	if s.QualityCheck != nil && s.QualityCheck.HasFailingScore() {
		status = QualityStatusFailed
	}
	for i := range s.Batches {
		if s.Batches[i].RejectedQty.GreaterThan(decimal.Zero) {
			status = QualityStatusFailed
			break
		}
	}
	s.QualityStatus = status
	s.UpdatedAt = time.Now()
}

// Finalize sets the document status, derives the quality verdict, and
// records the received event. Called once per submit or edit.
func (s *Supply) Finalize(status DocumentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Document status must be ACCEPTED or REJECTED")
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_BATCHES", "A supply must contain at least one batch")
	}

	s.DocumentStatus = status
	s.RecalculateQualityStatus()
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewSupplyReceivedEvent(s))

	return nil
}

// AcceptedBatches returns the batches that passed quality with accepted stock;
// these are the ones that enter the processing pipeline
func (s *Supply) AcceptedBatches() []SupplyBatch {
	accepted := make([]SupplyBatch, 0, len(s.Batches))
	for i := range s.Batches {
		b := s.Batches[i]
		if b.IsQualityPassed() && b.AcceptedQty.GreaterThan(decimal.Zero) {
			accepted = append(accepted, b)
		}
	}
	return accepted
}

// TotalAcceptedAmount sums accepted quantity times unit price over all lines
func (s *Supply) TotalAcceptedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lines {
		total = total.Add(s.Lines[i].LineAmount())
	}
	return total
}
