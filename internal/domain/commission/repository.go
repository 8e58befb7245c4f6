package commission

import (
	"context"

	"github.com/google/uuid"
)

// RateRepository defines persistence operations for commission rates
type RateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Rate, error)
	// FindActive returns the active rate with the most recent effective
	// date, or nil when no rate has been configured yet.
	FindActive(ctx context.Context) (*Rate, error)
	// FindHistory returns all rates, newest first.
	FindHistory(ctx context.Context) ([]Rate, error)
	Save(ctx context.Context, rate *Rate) error
	// ReplaceActive deactivates every active rate and inserts the new one
	// as active within a single transaction.
	ReplaceActive(ctx context.Context, rate *Rate) error
}
