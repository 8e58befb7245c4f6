package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primtakip/backend/internal/domain/shared"
)

// Test helpers
func createTestSale(t *testing.T) *Sale {
	sale, err := NewSale(NewSaleParams{
		ContractNumber:    "SZL-2024-001",
		CustomerName:      "Ahmet",
		CustomerSurname:   "Yılmaz",
		BlockNumber:       "B",
		ApartmentNumber:   "12",
		SaleDate:          time.Date(2024, 8, 10, 0, 0, 0, 0, time.Local),
		ListPrice:         decimal.NewFromInt(100000),
		ActivitySalePrice: decimal.NewFromInt(95000),
		CommissionRate:    decimal.NewFromFloat(1.5),
	}, uuid.New())
	require.NoError(t, err)
	return sale
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// ============================================
// SaleStatus Tests
// ============================================

func TestSaleStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  SaleStatus
		isValid bool
	}{
		{SaleStatusActive, true},
		{SaleStatusCancelled, true},
		{SaleStatusDeleted, true},
		{SaleStatus("INVALID"), false},
		{SaleStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestSaleStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     SaleStatus
		to       SaleStatus
		canTrans bool
	}{
		// From ACTIVE
		{SaleStatusActive, SaleStatusCancelled, true},
		{SaleStatusActive, SaleStatusDeleted, true},
		{SaleStatusActive, SaleStatusActive, false},
		// From CANCELLED
		{SaleStatusCancelled, SaleStatusActive, true},
		{SaleStatusCancelled, SaleStatusDeleted, true},
		{SaleStatusCancelled, SaleStatusCancelled, false},
		// From DELETED (terminal)
		{SaleStatusDeleted, SaleStatusActive, false},
		{SaleStatusDeleted, SaleStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// Commission Calculator Tests
// ============================================

func TestComputeCommission(t *testing.T) {
	tests := []struct {
		name              string
		listPrice         float64
		activitySalePrice float64
		rate              float64
		expected          string
		wantErr           bool
	}{
		{"activity price lower", 100000, 95000, 1.5, "1425", false},
		{"list price lower", 90000, 95000, 1.5, "1350", false},
		{"equal prices", 80000, 80000, 2, "1600", false},
		{"full rate", 1000, 1000, 100, "1000", false},
		{"zero prices", 0, 0, 1.5, "0", false},
		{"fractional result", 33333, 33333, 1.5, "500", false},
		{"negative list price", -1, 95000, 1.5, "", true},
		{"negative activity price", 100000, -1, 1.5, "", true},
		{"zero rate", 100000, 95000, 0, "", true},
		{"rate above 100", 100000, 95000, 100.5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCommission(
				decimal.NewFromFloat(tt.listPrice),
				decimal.NewFromFloat(tt.activitySalePrice),
				decimal.NewFromFloat(tt.rate),
			)
			if tt.wantErr {
				require.Error(t, err)
				de, ok := shared.IsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, "VALIDATION_ERROR", de.Code)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestComputeCommission_FractionalRounding(t *testing.T) {
	// 33335 * 1.5% = 500.025, rounds to 500.03
	got, err := ComputeCommission(
		decimal.NewFromInt(33335),
		decimal.NewFromInt(33335),
		decimal.NewFromFloat(1.5),
	)
	require.NoError(t, err)
	assert.Equal(t, "500.03", got.StringFixed(2))
}

func TestBasePrice(t *testing.T) {
	assert.True(t, BasePrice(decimal.NewFromInt(100), decimal.NewFromInt(95)).Equal(decimal.NewFromInt(95)))
	assert.True(t, BasePrice(decimal.NewFromInt(90), decimal.NewFromInt(95)).Equal(decimal.NewFromInt(90)))
}

// ============================================
// Sale Creation Tests
// ============================================

func TestNewSale(t *testing.T) {
	sale := createTestSale(t)

	assert.Equal(t, SaleStatusActive, sale.Status)
	assert.Equal(t, "1425", sale.Commission.String())
	assert.True(t, sale.CommissionAdjustment.IsZero())
	assert.False(t, sale.HasModifications)
	assert.False(t, sale.IsCommissionPaid())
	assert.False(t, sale.IsTransferred())
}

func TestNewSale_Validation(t *testing.T) {
	base := NewSaleParams{
		ContractNumber:    "SZL-2024-002",
		CustomerName:      "Test",
		SaleDate:          time.Now(),
		ListPrice:         decimal.NewFromInt(100),
		ActivitySalePrice: decimal.NewFromInt(100),
		CommissionRate:    decimal.NewFromInt(1),
	}

	t.Run("empty contract number", func(t *testing.T) {
		params := base
		params.ContractNumber = ""
		_, err := NewSale(params, uuid.New())
		assert.Error(t, err)
	})

	t.Run("empty customer name", func(t *testing.T) {
		params := base
		params.CustomerName = ""
		_, err := NewSale(params, uuid.New())
		assert.Error(t, err)
	})

	t.Run("missing sale date", func(t *testing.T) {
		params := base
		params.SaleDate = time.Time{}
		_, err := NewSale(params, uuid.New())
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		params := base
		params.ListPrice = decimal.NewFromInt(-1)
		_, err := NewSale(params, uuid.New())
		assert.Error(t, err)
	})

	t.Run("missing creator", func(t *testing.T) {
		_, err := NewSale(base, uuid.Nil)
		assert.Error(t, err)
	})
}

// ============================================
// Modification Tests
// ============================================

func TestSale_Modify_RecomputesCommission(t *testing.T) {
	sale := createTestSale(t)
	actor := uuid.New()

	result, err := sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(90000)),
	}, "Fiyat düzeltmesi", actor)
	require.NoError(t, err)

	assert.Equal(t, "1350", sale.Commission.String())
	assert.Equal(t, "-75", result.Delta.String())
	assert.Equal(t, ModificationDecrease, result.Kind)
	assert.Equal(t, "-75", sale.CommissionAdjustment.String())
	assert.True(t, sale.HasModifications)
	assert.Equal(t, &actor, sale.ModifiedBy)
	assert.NotNil(t, sale.ModifiedAt)
	assert.Equal(t, "Fiyat düzeltmesi", sale.ModificationNote)
}

func TestSale_Modify_CapturesOriginalDataOnce(t *testing.T) {
	sale := createTestSale(t)
	actor := uuid.New()

	_, err := sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(90000)),
	}, "first edit", actor)
	require.NoError(t, err)

	assert.Equal(t, "95000", sale.Original.ActivitySalePrice.String())
	assert.Equal(t, "1425", sale.Original.Commission.String())
	assert.Equal(t, "SZL-2024-001", sale.Original.ContractNumber)

	// Second modification must not overwrite the snapshot
	_, err = sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(85000)),
	}, "second edit", actor)
	require.NoError(t, err)

	assert.Equal(t, "95000", sale.Original.ActivitySalePrice.String())
	assert.Equal(t, "1425", sale.Original.Commission.String())
	assert.Equal(t, "85000", sale.ActivitySalePrice.String())
}

func TestSale_Modify_AccumulatesAdjustment(t *testing.T) {
	sale := createTestSale(t)
	actor := uuid.New()

	_, err := sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(90000)),
	}, "down", actor)
	require.NoError(t, err)

	result, err := sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(98000)),
	}, "up", actor)
	require.NoError(t, err)

	// min(100000, 98000)*1.5% = 1470; delta from 1350 is +120
	assert.Equal(t, "120", result.Delta.String())
	assert.Equal(t, ModificationIncrease, result.Kind)
	// -75 + 120
	assert.Equal(t, "45", sale.CommissionAdjustment.String())
}

func TestSale_Modify_NoChange(t *testing.T) {
	sale := createTestSale(t)

	result, err := sale.Modify(ModificationChanges{
		BlockNumber: strPtr("C"),
	}, "block fix", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ModificationNoChange, result.Kind)
	assert.True(t, result.Delta.IsZero())
	assert.Equal(t, "C", sale.BlockNumber)
	assert.True(t, sale.CommissionAdjustment.IsZero())
}

func TestSale_Modify_RequiresNote(t *testing.T) {
	sale := createTestSale(t)

	_, err := sale.Modify(ModificationChanges{
		BlockNumber: strPtr("C"),
	}, "", uuid.New())
	require.Error(t, err)
	de, ok := shared.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
}

func TestSale_Modify_CancelledFails(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.Cancel(uuid.New()))
	before := *sale

	_, err := sale.Modify(ModificationChanges{
		BlockNumber: strPtr("C"),
	}, "note", uuid.New())
	require.Error(t, err)
	de, ok := shared.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE", de.Code)

	// Sale is unchanged
	assert.Equal(t, before.BlockNumber, sale.BlockNumber)
	assert.Equal(t, before.Commission.String(), sale.Commission.String())
	assert.False(t, sale.HasModifications)
}

func TestSale_Modify_RateNeverResnapshotted(t *testing.T) {
	sale := createTestSale(t)

	_, err := sale.Modify(ModificationChanges{
		ActivitySalePrice: decPtr(decimal.NewFromInt(90000)),
	}, "edit", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "1.5", sale.CommissionRate.String())
}

// ============================================
// Cancel / Restore Tests
// ============================================

func TestSale_Cancel(t *testing.T) {
	sale := createTestSale(t)
	actor := uuid.New()

	require.NoError(t, sale.Cancel(actor))
	assert.Equal(t, SaleStatusCancelled, sale.Status)
	assert.Equal(t, &actor, sale.CancelledBy)
	assert.NotNil(t, sale.CancelledAt)

	// One-way: a second cancel fails
	err := sale.Cancel(actor)
	require.Error(t, err)
	de, _ := shared.IsDomainError(err)
	assert.Equal(t, "INVALID_STATE", de.Code)
}

func TestSale_Restore(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.Cancel(uuid.New()))

	require.NoError(t, sale.Restore(uuid.New()))
	assert.Equal(t, SaleStatusActive, sale.Status)
	assert.Nil(t, sale.CancelledBy)
	assert.Nil(t, sale.CancelledAt)
}

func TestSale_Restore_NotCancelledFails(t *testing.T) {
	sale := createTestSale(t)
	assert.Error(t, sale.Restore(uuid.New()))
}

// ============================================
// Commission Paid Tests
// ============================================

func TestSale_MarkCommissionPaid(t *testing.T) {
	sale := createTestSale(t)
	actor := uuid.New()

	require.NoError(t, sale.MarkCommissionPaid(actor))
	assert.True(t, sale.IsCommissionPaid())
	assert.Equal(t, &actor, sale.CommissionPaidBy)

	assert.Error(t, sale.MarkCommissionPaid(actor))
}

func TestSale_MarkCommissionPaid_CancelledFails(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.Cancel(uuid.New()))

	err := sale.MarkCommissionPaid(uuid.New())
	require.Error(t, err)
	de, _ := shared.IsDomainError(err)
	assert.Equal(t, "INVALID_STATE", de.Code)
	assert.False(t, sale.IsCommissionPaid())
}

func TestSale_UnmarkCommissionPaid(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.MarkCommissionPaid(uuid.New()))

	require.NoError(t, sale.UnmarkCommissionPaid())
	assert.False(t, sale.IsCommissionPaid())
	assert.Nil(t, sale.CommissionPaidBy)

	assert.Error(t, sale.UnmarkCommissionPaid())
}

// ============================================
// Transfer Tests
// ============================================

func TestSale_MarkTransferred(t *testing.T) {
	sale := createTestSale(t)
	periodID := uuid.New()

	require.NoError(t, sale.MarkTransferred(periodID, "Dönem kapandı"))
	assert.True(t, sale.IsTransferred())
	assert.Equal(t, &periodID, sale.TransferredToPeriodID)
	assert.NotNil(t, sale.TransferDate)

	// Already transferred
	err := sale.MarkTransferred(uuid.New(), "again")
	require.Error(t, err)
	de, _ := shared.IsDomainError(err)
	assert.Equal(t, "INVALID_STATE", de.Code)
	assert.Equal(t, &periodID, sale.TransferredToPeriodID)
}

func TestSale_MarkTransferred_PaidFails(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.MarkCommissionPaid(uuid.New()))

	assert.Error(t, sale.MarkTransferred(uuid.New(), "reason"))
	assert.False(t, sale.IsTransferred())
}

// ============================================
// Soft Delete / Recalculate Tests
// ============================================

func TestSale_SoftDelete(t *testing.T) {
	sale := createTestSale(t)

	require.NoError(t, sale.SoftDelete())
	assert.Equal(t, SaleStatusDeleted, sale.Status)

	assert.Error(t, sale.SoftDelete())
	assert.Error(t, sale.Cancel(uuid.New()))
}

func TestSale_Recalculate(t *testing.T) {
	sale := createTestSale(t)

	changed, err := sale.Recalculate()
	require.NoError(t, err)
	assert.False(t, changed)

	// Simulate a stored amount derived under an older base-price policy
	sale.Commission = decimal.NewFromInt(1500)
	changed, err = sale.Recalculate()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "1425", sale.Commission.String())
}
