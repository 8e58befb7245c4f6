package period

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/period"
)

// CreatePeriodRequest represents the input for creating a period with an
// explicit sales window
type CreatePeriodRequest struct {
	Year              int        `json:"year" binding:"required"`
	Month             int        `json:"month" binding:"required,min=1,max=12"`
	SalesStartDate    *time.Time `json:"sales_start_date"`
	SalesEndDate      *time.Time `json:"sales_end_date"`
	CommissionDueDate *time.Time `json:"commission_due_date"`
}

// TransferRequest represents the input for moving unpaid commissions
type TransferRequest struct {
	TargetPeriodID uuid.UUID `json:"target_period_id" binding:"required"`
	Reason         string    `json:"reason" binding:"required,max=500"`
}

// AddSaleRequest represents the input for manually pulling a sale into a period
type AddSaleRequest struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
	Reason string    `json:"reason" binding:"required,max=500"`
}

// PeriodListFilter represents the query options for listing periods
type PeriodListFilter struct {
	Status   *period.PeriodStatus `form:"status"`
	Year     *int                 `form:"year"`
	Page     int                  `form:"page" binding:"omitempty,min=1"`
	PageSize int                  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransferredSaleResponse represents a transfer list entry in API responses
type TransferredSaleResponse struct {
	SaleID         uuid.UUID  `json:"sale_id"`
	FromPeriodID   *uuid.UUID `json:"from_period_id,omitempty"`
	TransferDate   time.Time  `json:"transfer_date"`
	TransferReason string     `json:"transfer_reason,omitempty"`
}

// PeriodResponse represents a commission period in API responses
type PeriodResponse struct {
	ID          uuid.UUID `json:"id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`

	SalesStartDate     time.Time  `json:"sales_start_date"`
	SalesEndDate       time.Time  `json:"sales_end_date"`
	CommissionDueDate  time.Time  `json:"commission_due_date"`
	CommissionPaidDate *time.Time `json:"commission_paid_date,omitempty"`

	TotalSales            decimal.Decimal `json:"total_sales"`
	TotalCommission       decimal.Decimal `json:"total_commission"`
	TotalUnpaidCommission decimal.Decimal `json:"total_unpaid_commission"`
	SalesCount            int             `json:"sales_count"`
	LastCalculatedAt      *time.Time      `json:"last_calculated_at,omitempty"`

	ClosedBy *uuid.UUID `json:"closed_by,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	TransferredSales []TransferredSaleResponse `json:"transferred_sales,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// TransferResponse reports the outcome of an unpaid-commission transfer
type TransferResponse struct {
	TransferredCount int             `json:"transferred_count"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TargetPeriod     PeriodResponse  `json:"target_period"`
}

// ToPeriodResponse converts a domain period to a response DTO
func ToPeriodResponse(p *period.Period) PeriodResponse {
	transferred := make([]TransferredSaleResponse, len(p.TransferredSales))
	for i, ts := range p.TransferredSales {
		transferred[i] = TransferredSaleResponse{
			SaleID:         ts.SaleID,
			FromPeriodID:   ts.FromPeriodID,
			TransferDate:   ts.TransferDate,
			TransferReason: ts.TransferReason,
		}
	}

	return PeriodResponse{
		ID:                    p.ID,
		Year:                  p.Year,
		Month:                 p.Month,
		DisplayName:           p.DisplayName(),
		Status:                string(p.Status),
		SalesStartDate:        p.SalesStartDate,
		SalesEndDate:          p.SalesEndDate,
		CommissionDueDate:     p.CommissionDueDate,
		CommissionPaidDate:    p.CommissionPaidDate,
		TotalSales:            p.TotalSales,
		TotalCommission:       p.TotalCommission,
		TotalUnpaidCommission: p.TotalUnpaidCommission,
		SalesCount:            p.SalesCount,
		LastCalculatedAt:      p.LastCalculatedAt,
		ClosedBy:              p.ClosedBy,
		ClosedAt:              p.ClosedAt,
		TransferredSales:      transferred,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		Version:               p.Version,
	}
}

// ToPeriodResponses converts a slice of domain periods to response DTOs
func ToPeriodResponses(items []period.Period) []PeriodResponse {
	responses := make([]PeriodResponse, len(items))
	for i := range items {
		responses[i] = ToPeriodResponse(&items[i])
	}
	return responses
}
