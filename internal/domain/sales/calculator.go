package sales

import (
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// BasePrice returns the price the commission is derived from: the lesser
// of the list price and the activity sale price.
func BasePrice(listPrice, activitySalePrice decimal.Decimal) decimal.Decimal {
	if listPrice.LessThan(activitySalePrice) {
		return listPrice
	}
	return activitySalePrice
}

// ComputeCommission derives the commission amount from the two price
// fields and a rate percentage, rounded to 2 decimal places. Negative
// prices are rejected rather than clamped.
func ComputeCommission(listPrice, activitySalePrice, ratePercent decimal.Decimal) (decimal.Decimal, error) {
	if listPrice.IsNegative() {
		return decimal.Zero, shared.NewValidationError("list price cannot be negative")
	}
	if activitySalePrice.IsNegative() {
		return decimal.Zero, shared.NewValidationError("activity sale price cannot be negative")
	}
	if ratePercent.LessThanOrEqual(decimal.Zero) || ratePercent.GreaterThan(oneHundred) {
		return decimal.Zero, shared.NewValidationError("commission rate must be in (0, 100], got %s", ratePercent.String())
	}

	return BasePrice(listPrice, activitySalePrice).Mul(ratePercent).Div(oneHundred).Round(2), nil
}
