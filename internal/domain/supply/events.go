package supply

import (
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSupply        = "Supply"
	AggregateTypeSupplyPayment = "SupplyPayment"
)

// Event type constants
const (
	EventTypeSupplyReceived = "SupplyReceived"
	EventTypeSupplyUpdated  = "SupplyUpdated"
	EventTypeSupplyPaid     = "SupplyPaid"
)

// SupplyBatchInfo carries batch details on supply events
type SupplyBatchInfo struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	LotNumber   string          `json:"lot_number"`
	ProductID   uuid.UUID       `json:"product_id"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Status      string          `json:"status"`
}

// SupplyReceivedEvent is raised when an intake is finalized
type SupplyReceivedEvent struct {
	shared.BaseDomainEvent
	SupplyID       uuid.UUID         `json:"supply_id"`
	DocumentNumber string            `json:"document_number"`
	WarehouseID    uuid.UUID         `json:"warehouse_id"`
	SupplierID     uuid.UUID         `json:"supplier_id"`
	QualityStatus  string            `json:"quality_status"`
	Batches        []SupplyBatchInfo `json:"batches"`
}

// NewSupplyReceivedEvent creates a new SupplyReceivedEvent
func NewSupplyReceivedEvent(s *Supply) *SupplyReceivedEvent {
	batches := make([]SupplyBatchInfo, 0, len(s.Batches))
	for i := range s.Batches {
		b := s.Batches[i]
		batches = append(batches, SupplyBatchInfo{
			BatchID:     b.ID,
			LotNumber:   b.LotNumber,
			ProductID:   b.ProductID,
			AcceptedQty: b.AcceptedQty,
			RejectedQty: b.RejectedQty,
			Status:      b.QualityStatus.String(),
		})
	}

	return &SupplyReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyReceived, AggregateTypeSupply, s.ID),
		SupplyID:        s.ID,
		DocumentNumber:  s.DocumentNumber,
		WarehouseID:     s.WarehouseID,
		SupplierID:      s.SupplierID,
		QualityStatus:   s.QualityStatus.String(),
		Batches:         batches,
	}
}

// EventType returns the event type name
func (e *SupplyReceivedEvent) EventType() string {
	return EventTypeSupplyReceived
}

// SupplyUpdatedEvent is raised when an existing supply is edited
type SupplyUpdatedEvent struct {
	shared.BaseDomainEvent
	SupplyID       uuid.UUID `json:"supply_id"`
	DocumentNumber string    `json:"document_number"`
	QualityStatus  string    `json:"quality_status"`
}

// NewSupplyUpdatedEvent creates a new SupplyUpdatedEvent
func NewSupplyUpdatedEvent(s *Supply) *SupplyUpdatedEvent {
	return &SupplyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyUpdated, AggregateTypeSupply, s.ID),
		SupplyID:        s.ID,
		DocumentNumber:  s.DocumentNumber,
		QualityStatus:   s.QualityStatus.String(),
	}
}

// EventType returns the event type name
func (e *SupplyUpdatedEvent) EventType() string {
	return EventTypeSupplyUpdated
}

// SupplyPaidEvent is raised when a supply payment is marked paid
type SupplyPaidEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	SupplyID  uuid.UUID       `json:"supply_id"`
	AmountDue decimal.Decimal `json:"amount_due"`
}

// NewSupplyPaidEvent creates a new SupplyPaidEvent
func NewSupplyPaidEvent(p *SupplyPayment) *SupplyPaidEvent {
	return &SupplyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplyPaid, AggregateTypeSupplyPayment, p.ID),
		PaymentID:       p.ID,
		SupplyID:        p.SupplyID,
		AmountDue:       p.AmountDue,
	}
}

// EventType returns the event type name
func (e *SupplyPaidEvent) EventType() string {
	return EventTypeSupplyPaid
}
