package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/shared"
)

func adminActor() identity.Actor {
	return identity.Actor{ID: uuid.New(), Username: "admin", Role: identity.RoleAdmin}
}

func TestUserService_Create(t *testing.T) {
	t.Run("creates user with permissions", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		userRepo.On("FindByUsername", ctx, "newuser").Return(nil, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		svc := NewUserService(userRepo, zap.NewNop())

		resp, err := svc.Create(ctx, adminActor(), CreateUserRequest{
			Username:       "newuser",
			Password:       "Password123",
			FullName:       "New User",
			CanCancelSales: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "newuser", resp.Username)
		assert.Equal(t, "user", resp.Role)
		assert.True(t, resp.CanCancelSales)
		assert.False(t, resp.CanMarkCommissionPaid)
		userRepo.AssertExpectations(t)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		actor := identity.Actor{ID: uuid.New(), Role: identity.RoleUser}
		_, err := svc.Create(ctx, actor, CreateUserRequest{
			Username: "newuser",
			Password: "Password123",
			FullName: "New User",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		existing := createTestUser(identity.RoleUser)
		userRepo.On("FindByUsername", ctx, "testuser").Return(existing, nil)

		svc := NewUserService(userRepo, zap.NewNop())

		_, err := svc.Create(ctx, adminActor(), CreateUserRequest{
			Username: "testuser",
			Password: "Password123",
			FullName: "Dup",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("applies partial changes", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		user := createTestUser(identity.RoleUser)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		svc := NewUserService(userRepo, zap.NewNop())

		fullName := "Renamed User"
		role := "admin"
		resp, err := svc.Update(ctx, adminActor(), user.ID, UpdateUserRequest{
			FullName: &fullName,
			Role:     &role,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed User", resp.FullName)
		assert.Equal(t, "admin", resp.Role)
	})

	t.Run("admin cannot demote self", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		user := createTestUser(identity.RoleAdmin)
		actor := identity.ActorFromUser(user)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		svc := NewUserService(userRepo, zap.NewNop())

		role := "user"
		_, err := svc.Update(ctx, actor, user.ID, UpdateUserRequest{Role: &role})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		id := uuid.New()
		userRepo.On("FindByID", ctx, id).Return(nil, nil)

		svc := NewUserService(userRepo, zap.NewNop())

		_, err := svc.Update(ctx, adminActor(), id, UpdateUserRequest{})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestUserService_SetPermissions(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(identity.RoleUser)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	svc := NewUserService(userRepo, zap.NewNop())

	resp, err := svc.SetPermissions(ctx, adminActor(), user.ID, SetPermissionsRequest{
		CanCancelSales:        true,
		CanMarkCommissionPaid: true,
	})

	require.NoError(t, err)
	assert.True(t, resp.CanCancelSales)
	assert.True(t, resp.CanMarkCommissionPaid)
}

func TestUserService_Deactivate(t *testing.T) {
	t.Run("deactivates another user", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		user := createTestUser(identity.RoleUser)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		svc := NewUserService(userRepo, zap.NewNop())

		require.NoError(t, svc.Deactivate(ctx, adminActor(), user.ID))
		assert.Equal(t, identity.UserStatusDeactivated, user.Status)
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)

		user := createTestUser(identity.RoleAdmin)
		actor := identity.ActorFromUser(user)

		svc := NewUserService(userRepo, zap.NewNop())

		err := svc.Deactivate(ctx, actor, user.ID)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	u1 := createTestUser(identity.RoleUser)
	users := []identity.User{*u1}

	userRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(users, nil)
	userRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	svc := NewUserService(userRepo, zap.NewNop())

	page, err := svc.List(ctx, adminActor(), UserListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "testuser", page.Items[0].Username)
}
