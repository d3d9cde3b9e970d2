package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return db
}

func TestProductRepository_SaveAndFind(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct("RCN-001", "Raw Cashew Nuts", catalog.ProductTypeRaw)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "RCN-001", found.Code)
		assert.Equal(t, catalog.ProductTypeRaw, found.ProductType)
		assert.True(t, found.Active)
	})

	t.Run("finds by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "RCN-001")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("reports existing codes", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "RCN-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "UNKNOWN")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct("RCN-002", "Raw Cashew Nuts", catalog.ProductTypeRaw)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductRepository_FindAll(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		product, err := catalog.NewProduct(fmt.Sprintf("RAW-%03d", i), "Raw Material", catalog.ProductTypeRaw)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))
	}
	processed, err := catalog.NewProduct("PRC-001", "Roasted Cashews", catalog.ProductTypeProcessed)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, processed))

	t.Run("filters by product type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_type"] = catalog.ProductTypeRaw.String()

		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, found, 3)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2

		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 2)
	})

	t.Run("filters by active flag", func(t *testing.T) {
		processed.Deactivate()
		require.NoError(t, repo.Save(ctx, processed))

		filter := shared.DefaultFilter()
		filter.Filters["active"] = false
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, processed.ID, found[0].ID)
	})
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "code", ValidateSortField("code", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password; DROP TABLE products", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "DESC", ValidateSortOrder("junk"))
}
