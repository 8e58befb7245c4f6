package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/primtakip/backend/internal/domain/shared"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
	CountAll(ctx context.Context) (int64, error)
}
