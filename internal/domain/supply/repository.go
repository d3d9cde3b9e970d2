package supply

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplyRepository defines the interface for supply persistence. Create and
// SaveWithLock persist the whole aggregate graph (lines, batches, quality
// check, documents, inspection records, sign-off) in one transaction.
type SupplyRepository interface {
	// FindByID finds a supply by ID with the full graph preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Supply, error)

	// FindByDocumentNumber finds a supply by its document number
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*Supply, error)

	// FindAll finds supplies with filtering; children are preloaded
	FindAll(ctx context.Context, filter shared.Filter) ([]Supply, error)

	// Create inserts a new supply graph; the per-day document number is
	// generated inside the same transaction
	Create(ctx context.Context, s *Supply) error

	// SaveWithLock updates a supply graph with an optimistic version check;
	// replaceable child collections are deleted and reinserted, one-row
	// children are upserted
	SaveWithLock(ctx context.Context, s *Supply) error

	// Delete removes a supply and its children
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts supplies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByDocumentNumber checks if a document number is taken
	ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error)
}

// SupplyPaymentRepository defines the interface for supply payment persistence
type SupplyPaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SupplyPayment, error)

	// FindBySupplyID finds the payment attached to a supply
	FindBySupplyID(ctx context.Context, supplyID uuid.UUID) (*SupplyPayment, error)

	// FindAll finds payments with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]SupplyPayment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *SupplyPayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *SupplyPayment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
