package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/shared"
)

var (
	minRate = decimal.NewFromFloat(0.1)
	maxRate = decimal.NewFromInt(100)

	// DefaultRate is materialized lazily when no rate has ever been configured.
	DefaultRate = decimal.NewFromInt(1)
)

// Rate is a commission percentage with effective dating. Rates are
// append-only: setting a new rate deactivates the previous one instead of
// overwriting it, so the full history stays queryable.
type Rate struct {
	shared.BaseAggregateRoot
	Rate          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive      bool            `gorm:"not null;default:true;index"`
	EffectiveDate time.Time       `gorm:"not null;index"`
	Description   string          `gorm:"size:500"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the database table name
func (Rate) TableName() string {
	return "commission_rates"
}

// NewRate creates a new active commission rate effective immediately
func NewRate(rate decimal.Decimal, description string, createdBy uuid.UUID) (*Rate, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("created by is required")
	}

	return &Rate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Rate:              rate,
		IsActive:          true,
		EffectiveDate:     time.Now(),
		Description:       description,
		CreatedBy:         createdBy,
	}, nil
}

// NewDefaultRate creates the fallback 1% rate used before any rate is configured
func NewDefaultRate(createdBy uuid.UUID) *Rate {
	return &Rate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Rate:              DefaultRate,
		IsActive:          true,
		EffectiveDate:     time.Now(),
		Description:       "Varsayılan komisyon oranı",
		CreatedBy:         createdBy,
	}
}

// ValidateRate checks that a percentage lies within the accepted range
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThan(minRate) || rate.GreaterThan(maxRate) {
		return shared.NewValidationError("commission rate must be between 0.1 and 100, got %s", rate.String())
	}
	return nil
}

// Deactivate retires the rate when a newer one takes effect
func (r *Rate) Deactivate() {
	r.IsActive = false
	r.Touch()
}
