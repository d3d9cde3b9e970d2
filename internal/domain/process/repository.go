package process

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LotRunRepository defines the interface for lot run persistence
type LotRunRepository interface {
	// FindByID finds a lot run by ID with transitions preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*LotRun, error)

	// FindByBatchID finds the run created for a supply batch
	FindByBatchID(ctx context.Context, batchID uuid.UUID) (*LotRun, error)

	// FindByLotNumber finds the run for a lot number. Lot numbers identify
	// the physical lot and survive intake edits, unlike batch row IDs.
	FindByLotNumber(ctx context.Context, lotNumber string) (*LotRun, error)

	// FindAll finds lot runs with filtering; stage and status filters come
	// through shared.Filter
	FindAll(ctx context.Context, filter shared.Filter) ([]LotRun, error)

	// Save creates or updates a lot run
	Save(ctx context.Context, run *LotRun) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, run *LotRun) error

	// Count counts lot runs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
