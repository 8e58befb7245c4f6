package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	periodapp "github.com/primtakip/backend/internal/application/period"
	salesapp "github.com/primtakip/backend/internal/application/sales"
	"github.com/primtakip/backend/internal/domain/commission"
	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/period"
	"github.com/primtakip/backend/internal/domain/sales"
)

// These tests drive the application services against the real gorm
// repositories, so the locking handshake between service and repository
// is exercised end to end instead of through mocks.

func setupFlowTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&sales.Sale{},
		&sales.PaymentType{},
		&commission.Rate{},
		&period.Period{},
		&period.TransferredSale{},
	))
	return db
}

func flowAdmin() identity.Actor {
	return identity.Actor{ID: uuid.New(), Username: "yonetici", Role: identity.RoleAdmin}
}

func TestSaleLifecycleThroughService(t *testing.T) {
	db := setupFlowTestDB(t)
	svc := salesapp.NewSaleService(
		NewGormSaleRepository(db),
		NewGormPaymentTypeRepository(db),
		NewGormRateRepository(db),
	)
	ctx := context.Background()
	admin := flowAdmin()

	created, err := svc.Create(ctx, admin, salesapp.CreateSaleRequest{
		ContractNumber:    "SZL-2026-500",
		CustomerName:      "Ayşe",
		CustomerSurname:   "Yılmaz",
		SaleDate:          time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		ListPrice:         decimal.NewFromInt(500000),
		ActivitySalePrice: decimal.NewFromInt(480000),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	cancelled, err := svc.Cancel(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, 2, cancelled.Version)

	restored, err := svc.Restore(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", restored.Status)
	assert.Equal(t, 3, restored.Version)

	newPrice := decimal.NewFromInt(550000)
	modified, err := svc.Modify(ctx, admin, created.ID, salesapp.ModifySaleRequest{
		ActivitySalePrice: &newPrice,
		Note:              "Fiyat düzeltmesi",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, modified.Sale.Version)
	require.NotNil(t, modified.Sale.OriginalData)

	paid, err := svc.SetCommissionPaid(ctx, admin, created.ID, true)
	require.NoError(t, err)
	assert.True(t, paid.CommissionPaid)
	assert.Equal(t, 5, paid.Version)
}

func TestPeriodLifecycleThroughService(t *testing.T) {
	db := setupFlowTestDB(t)
	saleRepo := NewGormSaleRepository(db)
	svc := periodapp.NewPeriodService(NewGormPeriodRepository(db), saleRepo, zap.NewNop())
	saleSvc := salesapp.NewSaleService(saleRepo, NewGormPaymentTypeRepository(db), NewGormRateRepository(db))
	ctx := context.Background()
	admin := flowAdmin()

	july, err := svc.Create(ctx, admin, periodapp.CreatePeriodRequest{Year: 2026, Month: 7})
	require.NoError(t, err)
	august, err := svc.Create(ctx, admin, periodapp.CreatePeriodRequest{Year: 2026, Month: 8})
	require.NoError(t, err)

	_, err = saleSvc.Create(ctx, admin, salesapp.CreateSaleRequest{
		ContractNumber:    "SZL-2026-600",
		CustomerName:      "Mehmet",
		SaleDate:          time.Date(2026, 7, 10, 12, 0, 0, 0, time.Local),
		ListPrice:         decimal.NewFromInt(100000),
		ActivitySalePrice: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	activated, err := svc.Activate(ctx, admin, july.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", activated.Status)
	assert.Equal(t, 2, activated.Version)

	stats, err := svc.CalculateStats(ctx, admin, july.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SalesCount)
	assert.Equal(t, 3, stats.Version)

	transfer, err := svc.TransferUnpaid(ctx, admin, july.ID, periodapp.TransferRequest{
		TargetPeriodID: august.ID,
		Reason:         "Ödenmemiş prim devri",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, transfer.TransferredCount)
	require.Len(t, transfer.TargetPeriod.TransferredSales, 1)

	closed, err := svc.Close(ctx, admin, august.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", closed.Status)
	assert.Equal(t, 1, closed.SalesCount)

	paidPeriod, err := svc.MarkPaid(ctx, admin, august.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paidPeriod.Status)
	require.NotNil(t, paidPeriod.CommissionPaidDate)
}
