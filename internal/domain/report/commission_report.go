package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionSummary is a read model for dashboard statistics
// This is a CQRS read model optimized for querying
type CommissionSummary struct {
	PeriodStart       *time.Time      `json:"period_start,omitempty"`
	PeriodEnd         *time.Time      `json:"period_end,omitempty"`
	TotalSales        int64           `json:"total_sales"`
	CancelledSales    int64           `json:"cancelled_sales"`
	CancellationRate  decimal.Decimal `json:"cancellation_rate"` // Percentage
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	PaidCommission    decimal.Decimal `json:"paid_commission"`
	UnpaidCommission  decimal.Decimal `json:"unpaid_commission"`
	TotalAdjustment   decimal.Decimal `json:"total_adjustment"`
	ModifiedSales     int64           `json:"modified_sales"`
	TransferredSales  int64           `json:"transferred_sales"`
}

// MonthlyCommission represents one month's aggregates in a yearly trend
type MonthlyCommission struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	SalesCount      int64           `json:"sales_count"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// UserCommission represents per-user sale and commission aggregates
type UserCommission struct {
	UserID          uuid.UUID       `json:"user_id"`
	Username        string          `json:"username"`
	SalesCount      int64           `json:"sales_count"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// Filter defines the date window for report queries. Nil bounds mean
// an open-ended window.
type Filter struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Repository defines the interface for commission report queries
type Repository interface {
	// GetSummary returns aggregated statistics for the window
	GetSummary(filter Filter) (*CommissionSummary, error)

	// GetMonthlyTrend returns per-month aggregates for a year
	GetMonthlyTrend(year int) ([]MonthlyCommission, error)

	// GetUserBreakdown returns per-user aggregates for the window
	GetUserBreakdown(filter Filter) ([]UserCommission, error)
}
