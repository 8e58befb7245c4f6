package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/sales"
)

func setupPaymentTypeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sales.PaymentType{}))
	return db
}

func seedPaymentType(t *testing.T, repo *GormPaymentTypeRepository, name string, sortOrder int) *sales.PaymentType {
	t.Helper()
	pt, err := sales.NewPaymentType(name, "", sortOrder, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), pt))
	return pt
}

func TestGormPaymentTypeRepository_FindAll(t *testing.T) {
	db := setupPaymentTypeTestDB(t)
	repo := NewGormPaymentTypeRepository(db)
	ctx := context.Background()

	seedPaymentType(t, repo, "Taksit", 3)
	seedPaymentType(t, repo, "Nakit", 1)
	kredi := seedPaymentType(t, repo, "Kredi", 2)
	require.NoError(t, kredi.Deactivate())
	require.NoError(t, repo.Save(ctx, kredi))

	t.Run("active only, ordered by sort order", func(t *testing.T) {
		result, err := repo.FindAll(ctx, false)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Nakit", result[0].Name)
		assert.Equal(t, "Taksit", result[1].Name)
	})

	t.Run("includes inactive when asked", func(t *testing.T) {
		result, err := repo.FindAll(ctx, true)
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})
}

func TestGormPaymentTypeRepository_FindActiveByNormalizedName(t *testing.T) {
	db := setupPaymentTypeTestDB(t)
	repo := NewGormPaymentTypeRepository(db)
	ctx := context.Background()

	seedPaymentType(t, repo, "Diğer", 4)

	t.Run("matches case-insensitively with Turkish folding", func(t *testing.T) {
		found, err := repo.FindActiveByNormalizedName(ctx, sales.NormalizePaymentTypeName("DİĞER"))
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Diğer", found.Name)
	})

	t.Run("ignores deactivated types", func(t *testing.T) {
		pt := seedPaymentType(t, repo, "Havale", 5)
		require.NoError(t, pt.Deactivate())
		require.NoError(t, repo.Save(ctx, pt))

		found, err := repo.FindActiveByNormalizedName(ctx, sales.NormalizePaymentTypeName("havale"))
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
