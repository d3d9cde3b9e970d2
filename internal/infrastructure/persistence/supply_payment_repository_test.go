package persistence

import (
	"context"
	"testing"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&supply.SupplyPayment{}))
	return db
}

func newTestPayment(t *testing.T, amount int64) *supply.SupplyPayment {
	t.Helper()
	payment, err := supply.NewSupplyPayment(uuid.New(), uuid.New(), decimal.NewFromInt(amount))
	require.NoError(t, err)
	return payment
}

func TestSupplyPaymentRepository_Save(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormSupplyPaymentRepository(db)
	ctx := context.Background()

	payment := newTestPayment(t, 250)
	require.NoError(t, repo.Save(ctx, payment))

	found, err := repo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.SupplyID, found.SupplyID)
	assert.True(t, found.AmountDue.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, supply.PaymentStatusPending, found.Status)
	assert.Nil(t, found.PaidAt)
}

func TestSupplyPaymentRepository_FindBySupplyID(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormSupplyPaymentRepository(db)
	ctx := context.Background()

	payment := newTestPayment(t, 100)
	require.NoError(t, repo.Save(ctx, payment))

	found, err := repo.FindBySupplyID(ctx, payment.SupplyID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, found.ID)

	_, err = repo.FindBySupplyID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSupplyPaymentRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a payment under the version check", func(t *testing.T) {
		db := setupPaymentTestDB(t)
		repo := NewGormSupplyPaymentRepository(db)

		payment := newTestPayment(t, 100)
		require.NoError(t, repo.Save(ctx, payment))

		require.NoError(t, payment.MarkPaid())
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, supply.PaymentStatusPaid, found.Status)
		assert.NotNil(t, found.PaidAt)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		db := setupPaymentTestDB(t)
		repo := NewGormSupplyPaymentRepository(db)

		payment := newTestPayment(t, 100)
		require.NoError(t, repo.Save(ctx, payment))

		stale := *payment
		require.NoError(t, payment.MarkPaid())
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		require.NoError(t, stale.MarkPaid())
		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another process")
	})
}

func TestSupplyPaymentRepository_FilterByStatus(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormSupplyPaymentRepository(db)
	ctx := context.Background()

	pending := newTestPayment(t, 100)
	require.NoError(t, repo.Save(ctx, pending))

	paid := newTestPayment(t, 200)
	require.NoError(t, paid.MarkPaid())
	require.NoError(t, repo.Save(ctx, paid))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = supply.PaymentStatusPaid.String()
	found, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, paid.ID, found[0].ID)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter = shared.DefaultFilter()
	filter.Filters["supplier_id"] = pending.SupplierID.String()
	found, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)
}
