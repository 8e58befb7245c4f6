package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/commission"
)

func setupRateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&commission.Rate{}))
	return db
}

func TestGormRateRepository_FindActive(t *testing.T) {
	db := setupRateTestDB(t)
	repo := NewGormRateRepository(db)
	ctx := context.Background()

	t.Run("returns nil when no rate configured", func(t *testing.T) {
		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("returns the active rate", func(t *testing.T) {
		rate, err := commission.NewRate(decimal.NewFromFloat(2.5), "Standart oran", uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rate))

		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, rate.ID, active.ID)
		assert.True(t, decimal.NewFromFloat(2.5).Equal(active.Rate))
	})
}

func TestGormRateRepository_ReplaceActive(t *testing.T) {
	db := setupRateTestDB(t)
	repo := NewGormRateRepository(db)
	ctx := context.Background()
	createdBy := uuid.New()

	first, err := commission.NewRate(decimal.NewFromInt(1), "İlk oran", createdBy)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := commission.NewRate(decimal.NewFromInt(3), "Yeni oran", createdBy)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceActive(ctx, second))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	old, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.False(t, old.IsActive)
}

func TestGormRateRepository_FindHistory(t *testing.T) {
	db := setupRateTestDB(t)
	repo := NewGormRateRepository(db)
	ctx := context.Background()
	createdBy := uuid.New()

	for _, value := range []int64{1, 2, 3} {
		rate, err := commission.NewRate(decimal.NewFromInt(value), "", createdBy)
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceActive(ctx, rate))
	}

	history, err := repo.FindHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest first, only the latest still active
	assert.True(t, history[0].IsActive)
	assert.False(t, history[1].IsActive)
	assert.False(t, history[2].IsActive)
}
