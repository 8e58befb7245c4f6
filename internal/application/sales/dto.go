package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/sales"
)

// CreateSaleRequest represents the input for recording a sale
type CreateSaleRequest struct {
	ContractNumber    string          `json:"contract_number" binding:"required,max=100"`
	CustomerName      string          `json:"customer_name" binding:"required,max=100"`
	CustomerSurname   string          `json:"customer_surname" binding:"max=100"`
	BlockNumber       string          `json:"block_number" binding:"max=50"`
	ApartmentNumber   string          `json:"apartment_number" binding:"max=50"`
	PeriodNumber      string          `json:"period_number" binding:"max=50"`
	SaleDate          time.Time       `json:"sale_date" binding:"required"`
	PaymentTypeID     *uuid.UUID      `json:"payment_type_id"`
	ListPrice         decimal.Decimal `json:"list_price"`
	ActivitySalePrice decimal.Decimal `json:"activity_sale_price"`
}

// ModifySaleRequest represents a partial update to a committed sale.
// Nil fields are left untouched.
type ModifySaleRequest struct {
	BlockNumber       *string          `json:"block_number"`
	ApartmentNumber   *string          `json:"apartment_number"`
	ListPrice         *decimal.Decimal `json:"list_price"`
	ActivitySalePrice *decimal.Decimal `json:"activity_sale_price"`
	ContractNumber    *string          `json:"contract_number"`
	Note              string           `json:"note" binding:"required,max=500"`
}

// SetCommissionPaidRequest toggles the commission payout mark
type SetCommissionPaidRequest struct {
	Paid bool `json:"paid"`
}

// SaleListFilter represents the query options for listing sales
type SaleListFilter struct {
	Search         string            `form:"search"`
	Status         *sales.SaleStatus `form:"status"`
	CommissionPaid *bool             `form:"commission_paid"`
	CreatedBy      *uuid.UUID        `form:"created_by"`
	StartDate      *time.Time        `form:"start_date"`
	EndDate        *time.Time        `form:"end_date"`
	Page           int               `form:"page" binding:"omitempty,min=1"`
	PageSize       int               `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string            `form:"order_by"`
	OrderDir       string            `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OriginalDataResponse is the first-modification snapshot in API responses
type OriginalDataResponse struct {
	BlockNumber       string          `json:"block_number"`
	ApartmentNumber   string          `json:"apartment_number"`
	ListPrice         decimal.Decimal `json:"list_price"`
	ActivitySalePrice decimal.Decimal `json:"activity_sale_price"`
	ContractNumber    string          `json:"contract_number"`
	Commission        decimal.Decimal `json:"commission"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID              uuid.UUID  `json:"id"`
	ContractNumber  string     `json:"contract_number"`
	CustomerName    string     `json:"customer_name"`
	CustomerSurname string     `json:"customer_surname"`
	BlockNumber     string     `json:"block_number,omitempty"`
	ApartmentNumber string     `json:"apartment_number,omitempty"`
	PeriodNumber    string     `json:"period_number,omitempty"`
	SaleDate        time.Time  `json:"sale_date"`
	PaymentTypeID   *uuid.UUID `json:"payment_type_id,omitempty"`

	ListPrice         decimal.Decimal `json:"list_price"`
	ActivitySalePrice decimal.Decimal `json:"activity_sale_price"`

	CommissionRate             decimal.Decimal `json:"commission_rate"`
	Commission                 decimal.Decimal `json:"commission"`
	CommissionAdjustment       decimal.Decimal `json:"commission_adjustment"`
	CommissionAdjustmentReason string          `json:"commission_adjustment_reason,omitempty"`

	Status      string     `json:"status"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CommissionPaid   bool       `json:"commission_paid"`
	CommissionPaidBy *uuid.UUID `json:"commission_paid_by,omitempty"`
	CommissionPaidAt *time.Time `json:"commission_paid_at,omitempty"`

	HasModifications bool                  `json:"has_modifications"`
	ModifiedBy       *uuid.UUID            `json:"modified_by,omitempty"`
	ModifiedAt       *time.Time            `json:"modified_at,omitempty"`
	ModificationNote string                `json:"modification_note,omitempty"`
	OriginalData     *OriginalDataResponse `json:"original_data,omitempty"`

	TransferredToPeriodID *uuid.UUID `json:"transferred_to_period_id,omitempty"`
	TransferDate          *time.Time `json:"transfer_date,omitempty"`
	TransferReason        string     `json:"transfer_reason,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ModificationResponse reports the commission impact of a modification
type ModificationResponse struct {
	Sale               SaleResponse    `json:"sale"`
	PreviousCommission decimal.Decimal `json:"previous_commission"`
	NewCommission      decimal.Decimal `json:"new_commission"`
	Delta              decimal.Decimal `json:"delta"`
	Kind               string          `json:"kind"`
}

// RecalculateResponse reports a bulk commission recalculation
type RecalculateResponse struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:                         s.ID,
		ContractNumber:             s.ContractNumber,
		CustomerName:               s.CustomerName,
		CustomerSurname:            s.CustomerSurname,
		BlockNumber:                s.BlockNumber,
		ApartmentNumber:            s.ApartmentNumber,
		PeriodNumber:               s.PeriodNumber,
		SaleDate:                   s.SaleDate,
		PaymentTypeID:              s.PaymentTypeID,
		ListPrice:                  s.ListPrice,
		ActivitySalePrice:          s.ActivitySalePrice,
		CommissionRate:             s.CommissionRate,
		Commission:                 s.Commission,
		CommissionAdjustment:       s.CommissionAdjustment,
		CommissionAdjustmentReason: s.CommissionAdjustmentReason,
		Status:                     string(s.Status),
		CancelledBy:                s.CancelledBy,
		CancelledAt:                s.CancelledAt,
		CommissionPaid:             s.IsCommissionPaid(),
		CommissionPaidBy:           s.CommissionPaidBy,
		CommissionPaidAt:           s.CommissionPaidAt,
		HasModifications:           s.HasModifications,
		ModifiedBy:                 s.ModifiedBy,
		ModifiedAt:                 s.ModifiedAt,
		ModificationNote:           s.ModificationNote,
		TransferredToPeriodID:      s.TransferredToPeriodID,
		TransferDate:               s.TransferDate,
		TransferReason:             s.TransferReason,
		CreatedBy:                  s.CreatedBy,
		CreatedAt:                  s.CreatedAt,
		UpdatedAt:                  s.UpdatedAt,
		Version:                    s.Version,
	}

	if s.HasModifications {
		resp.OriginalData = &OriginalDataResponse{
			BlockNumber:       s.Original.BlockNumber,
			ApartmentNumber:   s.Original.ApartmentNumber,
			ListPrice:         s.Original.ListPrice,
			ActivitySalePrice: s.Original.ActivitySalePrice,
			ContractNumber:    s.Original.ContractNumber,
			Commission:        s.Original.Commission,
		}
	}

	return resp
}

// ToSaleResponses converts a slice of domain sales to response DTOs
func ToSaleResponses(items []sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(items))
	for i := range items {
		responses[i] = ToSaleResponse(&items[i])
	}
	return responses
}

// CreatePaymentTypeRequest represents the input for a new payment type
type CreatePaymentTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

// UpdatePaymentTypeRequest represents payment type updates
type UpdatePaymentTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

// PaymentTypeResponse represents a payment type in API responses
type PaymentTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPaymentTypeResponse converts a domain payment type to a response DTO
func ToPaymentTypeResponse(pt *sales.PaymentType) PaymentTypeResponse {
	return PaymentTypeResponse{
		ID:          pt.ID,
		Name:        pt.Name,
		Description: pt.Description,
		SortOrder:   pt.SortOrder,
		IsActive:    pt.IsActive,
		CreatedAt:   pt.CreatedAt,
	}
}

// ToPaymentTypeResponses converts a slice of payment types to response DTOs
func ToPaymentTypeResponses(items []sales.PaymentType) []PaymentTypeResponse {
	responses := make([]PaymentTypeResponse, len(items))
	for i := range items {
		responses[i] = ToPaymentTypeResponse(&items[i])
	}
	return responses
}
