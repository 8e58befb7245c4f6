package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/commission"
)

// SetRateRequest represents the input for setting a new commission rate
type SetRateRequest struct {
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// RateResponse represents a commission rate in API responses
type RateResponse struct {
	ID            uuid.UUID       `json:"id"`
	Rate          decimal.Decimal `json:"rate"`
	IsActive      bool            `json:"is_active"`
	EffectiveDate time.Time       `json:"effective_date"`
	Description   string          `json:"description,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToRateResponse converts a domain rate to a response DTO
func ToRateResponse(rate *commission.Rate) RateResponse {
	return RateResponse{
		ID:            rate.ID,
		Rate:          rate.Rate,
		IsActive:      rate.IsActive,
		EffectiveDate: rate.EffectiveDate,
		Description:   rate.Description,
		CreatedBy:     rate.CreatedBy,
		CreatedAt:     rate.CreatedAt,
	}
}

// ToRateResponses converts a slice of domain rates to response DTOs
func ToRateResponses(rates []commission.Rate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}
