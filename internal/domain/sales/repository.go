package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/primtakip/backend/internal/domain/shared"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByContractNumber(ctx context.Context, contractNumber string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindInWindow returns non-deleted sales whose sale date falls within
	// the inclusive range, optionally restricted to active (non-cancelled).
	FindInWindow(ctx context.Context, from, to time.Time, activeOnly bool) ([]Sale, error)
	// FindByIDs returns the sales for the given IDs, skipping missing ones.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock persists the sale only if its version matches the
	// stored one, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, sale *Sale) error
	// ExistsByContractNumber checks the unique business key across all
	// sales, deleted ones included.
	ExistsByContractNumber(ctx context.Context, contractNumber string) (bool, error)
}

// PaymentTypeRepository defines persistence operations for payment types
type PaymentTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentType, error)
	FindAll(ctx context.Context, includeInactive bool) ([]PaymentType, error)
	// FindActiveByNormalizedName resolves the unique-active-name rule.
	FindActiveByNormalizedName(ctx context.Context, normalizedName string) (*PaymentType, error)
	Save(ctx context.Context, paymentType *PaymentType) error
}
