package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement state of a supply payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// SupplyPayment tracks the amount owed to the supplier for one supply.
// It is created best-effort after the intake commits; its lifecycle is
// independent of the supply document.
type SupplyPayment struct {
	shared.BaseAggregateRoot
	SupplyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AmountDue  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status     PaymentStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (SupplyPayment) TableName() string {
	return "supply_payments"
}

// NewSupplyPayment creates a pending payment for a supply
func NewSupplyPayment(supplyID, supplierID uuid.UUID, amountDue decimal.Decimal) (*SupplyPayment, error) {
	if supplyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLY", "Supply ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if amountDue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount due cannot be negative")
	}

	return &SupplyPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplyID:          supplyID,
		SupplierID:        supplierID,
		AmountDue:         amountDue,
		Status:            PaymentStatusPending,
	}, nil
}

// MarkPaid settles the payment. Marking an already-paid payment is an error.
func (p *SupplyPayment) MarkPaid() error {
	if p.Status == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Payment has already been settled")
	}

	now := time.Now()
	p.Status = PaymentStatusPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewSupplyPaidEvent(p))

	return nil
}
