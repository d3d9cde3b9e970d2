package integration

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/agrisupply/backend/internal/infrastructure/persistence"
)

var documentNumberPattern = regexp.MustCompile(`^SUP-\d{8}-\d{3}$`)

// buildTestSupply creates a supply aggregate with one accepted batch,
// backed by seeded warehouse, supplier, product, and unit rows.
func buildTestSupply(t *testing.T, tdb *TestDB) *supply.Supply {
	t.Helper()

	warehouseID := uuid.New()
	supplierID := uuid.New()
	productID := uuid.New()
	unitID := uuid.New()

	tdb.CreateTestWarehouse(warehouseID)
	tdb.CreateTestSupplier(supplierID)
	tdb.CreateTestProduct(productID)
	tdb.CreateTestUnit(unitID)

	s, err := supply.NewSupply(warehouseID, supplierID, "Green Valley Farms", time.Now(), uuid.New(), "Jordan Reed")
	require.NoError(t, err)

	price := decimal.NewFromFloat(12.50)
	_, err = s.AddBatch(productID, "Raw Wheat", unitID, "kg",
		decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(100), &price)
	require.NoError(t, err)

	return s
}

func TestSupplyRepository_Create_AssignsDocumentNumber(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	s := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, s))

	assert.Regexp(t, documentNumberPattern, s.DocumentNumber)

	// Same-day numbers are a per-day sequence
	s2 := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, s2))
	assert.Regexp(t, documentNumberPattern, s2.DocumentNumber)
	assert.NotEqual(t, s.DocumentNumber, s2.DocumentNumber)
	assert.Equal(t, s.DocumentNumber[:12], s2.DocumentNumber[:12], "same day prefix expected")
}

func TestSupplyRepository_Create_ConcurrentSubmissions(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	// build first so the reference rows are seeded serially, then race the
	// inserts; the unique index on document_number plus the retry in Create
	// must keep every number distinct
	const submissions = 4
	docs := make([]*supply.Supply, submissions)
	for i := range docs {
		docs[i] = buildTestSupply(t, tdb)
	}

	var wg sync.WaitGroup
	errs := make([]error, submissions)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, docs[i])
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, submissions)
	for i := range docs {
		require.NoError(t, errs[i])
		assert.Regexp(t, documentNumberPattern, docs[i].DocumentNumber)
		assert.False(t, seen[docs[i].DocumentNumber], "document number %s minted twice", docs[i].DocumentNumber)
		seen[docs[i].DocumentNumber] = true
	}
}

func TestSupplyRepository_FindByDocumentNumber(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	s := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByDocumentNumber(ctx, s.DocumentNumber)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Len(t, found.Lines, 1)
	assert.Len(t, found.Batches, 1)

	_, err = repo.FindByDocumentNumber(ctx, "SUP-19700101-001")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSupplyRepository_FindByID_PreloadsGraph(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	s := buildTestSupply(t, tdb)

	check := supply.NewQualityCheck(s.ID, nil, "standard intake inspection")
	require.NoError(t, check.AddItem(uuid.New(), "Moisture", 8, "", ""))
	require.NoError(t, check.AddItem(uuid.New(), "Color", 9, "", ""))
	s.AttachQualityCheck(check)

	inspection, err := supply.NewVehicleInspection(s.ID, supply.AnswerYes, supply.AnswerYes, supply.AnswerNA, "")
	require.NoError(t, err)
	s.SetVehicleInspection(inspection)

	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, found.Lines, 1)
	assert.Len(t, found.Batches, 1)
	require.NotNil(t, found.QualityCheck)
	assert.Len(t, found.QualityCheck.Items, 2)
	require.NotNil(t, found.VehicleInspection)
	assert.Equal(t, supply.AnswerNA, found.VehicleInspection.TemperatureControl)
}

func TestSupplyRepository_SaveWithLock(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	s := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, s))

	s.SetRemarks("re-counted on dock")
	s.IncrementVersion()
	require.NoError(t, repo.SaveWithLock(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "re-counted on dock", found.Remarks)
	assert.Equal(t, 2, found.Version)

	// Stale writer: same version again must be rejected
	stale := *s
	require.Error(t, repo.SaveWithLock(ctx, &stale))
}

func TestSupplyRepository_Delete(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	s := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, s))

	exists, err := repo.ExistsByDocumentNumber(ctx, s.DocumentNumber)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err = repo.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err = repo.ExistsByDocumentNumber(ctx, s.DocumentNumber)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSupplyRepository_FindAll_Filtering(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormSupplyRepository(tdb.DB)
	ctx := context.Background()

	first := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, first))
	second := buildTestSupply(t, tdb)
	require.NoError(t, repo.Create(ctx, second))

	filter := shared.DefaultFilter()
	all, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	filter.Filters["supplier_id"] = first.SupplierID
	bySupplier, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, first.ID, bySupplier[0].ID)
}
