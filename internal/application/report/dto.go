package report

import (
	"time"

	"github.com/primtakip/backend/internal/domain/report"
)

// StatisticsRequest carries the optional date window for the dashboard
type StatisticsRequest struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Year      int        `form:"year"`
}

// StatisticsResponse is the dashboard payload
type StatisticsResponse struct {
	Summary      report.CommissionSummary   `json:"summary"`
	MonthlyTrend []report.MonthlyCommission `json:"monthlyTrend"`
	ByUser       []report.UserCommission    `json:"byUser"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
	FromCache    bool                       `json:"fromCache"`
}
