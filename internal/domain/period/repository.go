package period

import (
	"context"

	"github.com/google/uuid"

	"github.com/primtakip/backend/internal/domain/shared"
)

// PeriodRepository defines persistence operations for commission periods
type PeriodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Period, error)
	FindByYearMonth(ctx context.Context, year, month int) (*Period, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Period, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, period *Period) error
	// SaveWithLock persists the period only if its version matches the
	// stored one, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, period *Period) error
	// ActivateExclusive atomically demotes every other active period to
	// draft and promotes the given one, preserving the single-active
	// invariant under concurrent activations.
	ActivateExclusive(ctx context.Context, period *Period) error
	ExistsByYearMonth(ctx context.Context, year, month int) (bool, error)
}
