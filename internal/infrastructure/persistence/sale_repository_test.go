package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/domain/shared"
)

func setupSaleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sales.Sale{}))
	return db
}

func newTestSale(t *testing.T, contractNumber string, saleDate time.Time, createdBy uuid.UUID) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale(sales.NewSaleParams{
		ContractNumber:    contractNumber,
		CustomerName:      "Ayşe",
		CustomerSurname:   "Yılmaz",
		BlockNumber:       "A",
		ApartmentNumber:   "12",
		SaleDate:          saleDate,
		ListPrice:         decimal.NewFromInt(500000),
		ActivitySalePrice: decimal.NewFromInt(480000),
		CommissionRate:    decimal.NewFromInt(2),
	}, createdBy)
	require.NoError(t, err)
	return sale
}

func TestGormSaleRepository_SaveAndFind(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	t.Run("saves and finds by ID", func(t *testing.T) {
		sale := newTestSale(t, "SZL-2026-001", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), uuid.New())
		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, sale.ID, found.ID)
		assert.Equal(t, "SZL-2026-001", found.ContractNumber)
		assert.Equal(t, sales.SaleStatusActive, found.Status)
		assert.True(t, sale.Commission.Equal(found.Commission))
		assert.True(t, sale.CommissionRate.Equal(found.CommissionRate))
	})

	t.Run("returns nil for unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("finds by contract number", func(t *testing.T) {
		sale := newTestSale(t, "SZL-2026-002", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), uuid.New())
		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByContractNumber(ctx, "SZL-2026-002")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, sale.ID, found.ID)

		missing, err := repo.FindByContractNumber(ctx, "SZL-YOK")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestGormSaleRepository_ExistsByContractNumber(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := newTestSale(t, "SZL-2026-010", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), uuid.New())
	require.NoError(t, repo.Save(ctx, sale))

	exists, err := repo.ExistsByContractNumber(ctx, "SZL-2026-010")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByContractNumber(ctx, "SZL-2026-999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormSaleRepository_FindAll(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	active := newTestSale(t, "SZL-100", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, repo.Save(ctx, active))

	cancelled := newTestSale(t, "SZL-101", time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, cancelled.Cancel(owner))
	require.NoError(t, repo.Save(ctx, cancelled))

	deleted := newTestSale(t, "SZL-102", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, deleted.SoftDelete())
	require.NoError(t, repo.Save(ctx, deleted))

	other := newTestSale(t, "SZL-103", time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), uuid.New())
	require.NoError(t, other.MarkCommissionPaid(owner))
	require.NoError(t, repo.Save(ctx, other))

	t.Run("excludes deleted sales by default", func(t *testing.T) {
		filter := shared.DefaultFilter()
		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 3)
		for _, s := range result {
			assert.NotEqual(t, sales.SaleStatusDeleted, s.Status)
		}

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(sales.SaleStatusCancelled)

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, cancelled.ID, result[0].ID)
	})

	t.Run("filters by creator", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["created_by"] = owner.String()

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("filters by commission payment state", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["commission_paid"] = "true"

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, other.ID, result[0].ID)

		filter.Filters["commission_paid"] = "false"
		result, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("filters by date range", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["start_date"] = "2026-05-03"
		filter.Filters["end_date"] = "2026-05-05"

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})
}

func TestGormSaleRepository_FindInWindow(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	inside := newTestSale(t, "SZL-200", time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, repo.Save(ctx, inside))

	cancelledInside := newTestSale(t, "SZL-201", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, cancelledInside.Cancel(owner))
	require.NoError(t, repo.Save(ctx, cancelledInside))

	outside := newTestSale(t, "SZL-202", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, repo.Save(ctx, outside))

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	t.Run("active only", func(t *testing.T) {
		result, err := repo.FindInWindow(ctx, from, to, true)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, inside.ID, result[0].ID)
	})

	t.Run("including cancelled", func(t *testing.T) {
		result, err := repo.FindInWindow(ctx, from, to, false)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})
}

func TestGormSaleRepository_SaveWithLock(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	sale := newTestSale(t, "SZL-300", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), owner)
	require.NoError(t, repo.Save(ctx, sale))

	t.Run("bumps the version on a matching write", func(t *testing.T) {
		stale := *sale // loaded before the write below

		require.NoError(t, sale.Cancel(owner))
		require.NoError(t, repo.SaveWithLock(ctx, sale))
		assert.Equal(t, 2, sale.Version)

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sales.SaleStatusCancelled, found.Status)
		assert.Equal(t, 2, found.Version)

		// the copy still carries version 1, so its write must miss
		require.NoError(t, stale.SoftDelete())
		err = repo.SaveWithLock(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("a fresh reload can write again", func(t *testing.T) {
		reloaded, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		require.NoError(t, reloaded.Restore(owner))

		require.NoError(t, repo.SaveWithLock(ctx, reloaded))
		assert.Equal(t, 3, reloaded.Version)
	})
}
