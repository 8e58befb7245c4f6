package persistence

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/report"
	"github.com/primtakip/backend/internal/domain/sales"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// GetSummary returns aggregated statistics for the window. Deleted sales
// never count; cancelled sales count only toward the cancellation rate.
func (r *GormReportRepository) GetSummary(filter report.Filter) (*report.CommissionSummary, error) {
	type summaryResult struct {
		TotalSales       int64
		CancelledSales   int64
		ModifiedSales    int64
		TransferredSales int64
		TotalRevenue     decimal.Decimal
		TotalCommission  decimal.Decimal
		PaidCommission   decimal.Decimal
		TotalAdjustment  decimal.Decimal
	}

	var result summaryResult

	query := r.db.Model(&sales.Sale{}).
		Select(`
			COUNT(*) FILTER (WHERE status = 'ACTIVE') as total_sales,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') as cancelled_sales,
			COUNT(*) FILTER (WHERE status = 'ACTIVE' AND has_modifications) as modified_sales,
			COUNT(*) FILTER (WHERE status = 'ACTIVE' AND transferred_to_period_id IS NOT NULL) as transferred_sales,
			COALESCE(SUM(activity_sale_price) FILTER (WHERE status = 'ACTIVE'), 0) as total_revenue,
			COALESCE(SUM(commission) FILTER (WHERE status = 'ACTIVE'), 0) as total_commission,
			COALESCE(SUM(commission) FILTER (WHERE status = 'ACTIVE' AND commission_paid_at IS NOT NULL), 0) as paid_commission,
			COALESCE(SUM(commission_adjustment) FILTER (WHERE status = 'ACTIVE'), 0) as total_adjustment
		`).
		Where("status <> ?", sales.SaleStatusDeleted)

	if filter.StartDate != nil {
		query = query.Where("sale_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("sale_date <= ?", *filter.EndDate)
	}

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	var cancellationRate decimal.Decimal
	recorded := result.TotalSales + result.CancelledSales
	if recorded > 0 {
		cancellationRate = decimal.NewFromInt(result.CancelledSales).
			Div(decimal.NewFromInt(recorded)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &report.CommissionSummary{
		PeriodStart:      filter.StartDate,
		PeriodEnd:        filter.EndDate,
		TotalSales:       result.TotalSales,
		CancelledSales:   result.CancelledSales,
		CancellationRate: cancellationRate,
		TotalRevenue:     result.TotalRevenue,
		TotalCommission:  result.TotalCommission,
		PaidCommission:   result.PaidCommission,
		UnpaidCommission: result.TotalCommission.Sub(result.PaidCommission),
		TotalAdjustment:  result.TotalAdjustment,
		ModifiedSales:    result.ModifiedSales,
		TransferredSales: result.TransferredSales,
	}, nil
}

// GetMonthlyTrend returns per-month aggregates for a year
func (r *GormReportRepository) GetMonthlyTrend(year int) ([]report.MonthlyCommission, error) {
	type monthlyResult struct {
		Month           int
		SalesCount      int64
		TotalRevenue    decimal.Decimal
		TotalCommission decimal.Decimal
	}

	var rows []monthlyResult

	err := r.db.Model(&sales.Sale{}).
		Select(`
			EXTRACT(MONTH FROM sale_date)::int as month,
			COUNT(*) as sales_count,
			COALESCE(SUM(activity_sale_price), 0) as total_revenue,
			COALESCE(SUM(commission), 0) as total_commission
		`).
		Where("status = ?", sales.SaleStatusActive).
		Where("EXTRACT(YEAR FROM sale_date) = ?", year).
		Group("EXTRACT(MONTH FROM sale_date)").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	trend := make([]report.MonthlyCommission, 0, len(rows))
	for _, row := range rows {
		trend = append(trend, report.MonthlyCommission{
			Year:            year,
			Month:           row.Month,
			SalesCount:      row.SalesCount,
			TotalRevenue:    row.TotalRevenue,
			TotalCommission: row.TotalCommission,
		})
	}
	return trend, nil
}

// GetUserBreakdown returns per-user aggregates for the window
func (r *GormReportRepository) GetUserBreakdown(filter report.Filter) ([]report.UserCommission, error) {
	type userResult struct {
		UserID          uuid.UUID
		Username        string
		SalesCount      int64
		TotalRevenue    decimal.Decimal
		TotalCommission decimal.Decimal
	}

	var rows []userResult

	query := r.db.Table("sales s").
		Select(`
			s.created_by as user_id,
			u.username as username,
			COUNT(*) as sales_count,
			COALESCE(SUM(s.activity_sale_price), 0) as total_revenue,
			COALESCE(SUM(s.commission), 0) as total_commission
		`).
		Joins("LEFT JOIN users u ON u.id = s.created_by").
		Where("s.status = ?", sales.SaleStatusActive).
		Group("s.created_by, u.username").
		Order("total_commission DESC")

	if filter.StartDate != nil {
		query = query.Where("s.sale_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("s.sale_date <= ?", *filter.EndDate)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	breakdown := make([]report.UserCommission, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, report.UserCommission{
			UserID:          row.UserID,
			Username:        row.Username,
			SalesCount:      row.SalesCount,
			TotalRevenue:    row.TotalRevenue,
			TotalCommission: row.TotalCommission,
		})
	}
	return breakdown, nil
}
