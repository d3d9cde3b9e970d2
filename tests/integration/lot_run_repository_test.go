package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/infrastructure/persistence"
)

func newTestLotRun(t *testing.T) *process.LotRun {
	t.Helper()

	// lot numbers carry a unique index, every run gets its own
	lotNumber := "LOT-" + uuid.NewString()[:8] + "-1"
	run, err := process.NewLotRun(uuid.New(), uuid.New(), lotNumber, uuid.New(), decimal.NewFromInt(500))
	require.NoError(t, err)
	return run
}

func TestLotRunRepository_SaveAndFind(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.BatchID, found.BatchID)
	assert.Equal(t, process.StageReceiving, found.Stage)
	assert.Equal(t, process.RunStatusActive, found.Status)

	byBatch, err := repo.FindByBatchID(ctx, run.BatchID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, byBatch.ID)

	_, err = repo.FindByBatchID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	byLot, err := repo.FindByLotNumber(ctx, run.LotNumber)
	require.NoError(t, err)
	assert.Equal(t, run.ID, byLot.ID)

	_, err = repo.FindByLotNumber(ctx, "LOT-missing-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLotRunRepository_ReattachBatchPersists(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	replacement := uuid.New()
	require.NoError(t, run.ReattachBatch(replacement, decimal.NewFromInt(420)))
	require.NoError(t, repo.SaveWithLock(ctx, run))

	found, err := repo.FindByLotNumber(ctx, run.LotNumber)
	require.NoError(t, err)
	assert.Equal(t, replacement, found.BatchID)
	assert.True(t, decimal.NewFromInt(420).Equal(found.Quantity))
	assert.Equal(t, 2, found.Version)
}

func TestLotRunRepository_LotNumberUnique(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	dup, err := process.NewLotRun(uuid.New(), run.SupplyID, run.LotNumber, uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Error(t, repo.Save(ctx, dup), "a second run for the same lot must be rejected")
}

func TestLotRunRepository_AdvanceRecordsTransitions(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	operator := uuid.New()
	require.NoError(t, run.Advance(&operator, "cleaned and sorted"))
	require.NoError(t, repo.SaveWithLock(ctx, run))

	found, err := repo.FindByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, process.StageCleaning, found.Stage)
	require.Len(t, found.Transitions, 1)
	assert.Equal(t, process.StageReceiving, found.Transitions[0].FromStage)
	assert.Equal(t, process.StageCleaning, found.Transitions[0].ToStage)
	require.NotNil(t, found.Transitions[0].MovedBy)
	assert.Equal(t, operator, *found.Transitions[0].MovedBy)
}

func TestLotRunRepository_AdvanceToCompletion(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	// RECEIVING -> ... -> ALLOCATION is six advances
	for i := 0; i < len(process.Pipeline)-1; i++ {
		require.NoError(t, run.Advance(nil, ""))
		require.NoError(t, repo.SaveWithLock(ctx, run))
	}

	found, err := repo.FindByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, process.StageAllocation, found.Stage)
	assert.Equal(t, process.RunStatusCompleted, found.Status)
	assert.NotNil(t, found.CompletedAt)
	assert.Len(t, found.Transitions, len(process.Pipeline)-1)

	// Completed runs cannot advance further
	assert.Error(t, run.Advance(nil, ""))
}

func TestLotRunRepository_SaveWithLock_StaleVersion(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	run := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, run))

	require.NoError(t, run.Hold())
	require.NoError(t, repo.SaveWithLock(ctx, run))

	stale := *run
	require.Error(t, repo.SaveWithLock(ctx, &stale))
}

func TestLotRunRepository_FilterByStageAndStatus(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormLotRunRepository(tdb.DB)
	ctx := context.Background()

	receiving := newTestLotRun(t)
	require.NoError(t, repo.Save(ctx, receiving))

	cleaning := newTestLotRun(t)
	require.NoError(t, cleaning.Advance(nil, ""))
	require.NoError(t, repo.Save(ctx, cleaning))

	held := newTestLotRun(t)
	require.NoError(t, held.Hold())
	require.NoError(t, repo.Save(ctx, held))

	filter := shared.DefaultFilter()
	filter.Filters["stage"] = process.StageCleaning.String()
	byStage, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, cleaning.ID, byStage[0].ID)

	filter = shared.DefaultFilter()
	filter.Filters["status"] = process.RunStatusOnHold.String()
	byStatus, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, held.ID, byStatus[0].ID)

	total, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
