package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/shared"
)

// UserService handles administrative user management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// List returns a paginated list of users. Admin only.
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can list users")
	}

	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = "created_at"
	f.OrderDir = "desc"
	f.Search = filter.Search
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToUserResponses(users), total, f.Page, f.PageSize)
	return &page, nil
}

// Get returns a single user by ID. Admin only.
func (s *UserService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can view users")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Create creates a new user account. Admin only.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can create users")
	}

	if existing, err := s.userRepo.FindByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.NewConflictError("username %s is already taken", req.Username)
	}

	role := identity.RoleUser
	if req.Role != "" {
		role = identity.UserRole(req.Role)
	}

	user, err := identity.NewUser(req.Username, req.Password, req.FullName, role)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	user.SetPermissions(identity.Permissions{
		CanCancelSales:        req.CanCancelSales,
		CanMarkCommissionPaid: req.CanMarkCommissionPaid,
	})

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("created_by", actor.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update applies partial changes to a user. Admin only.
func (s *UserService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can update users")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if err := user.SetFullName(*req.FullName); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		// An admin cannot demote themselves, so the system always keeps
		// at least one admin.
		if user.ID == actor.ID && identity.UserRole(*req.Role) != identity.RoleAdmin {
			return nil, shared.NewInvalidStateError("admins cannot change their own role")
		}
		if err := user.SetRole(identity.UserRole(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated",
		zap.String("user_id", id.String()),
		zap.String("updated_by", actor.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// SetPermissions replaces a user's capability flags. Admin only.
func (s *UserService) SetPermissions(ctx context.Context, actor identity.Actor, id uuid.UUID, req SetPermissionsRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can change permissions")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.SetPermissions(identity.Permissions{
		CanCancelSales:        req.CanCancelSales,
		CanMarkCommissionPaid: req.CanMarkCommissionPaid,
	})

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User permissions changed",
		zap.String("user_id", id.String()),
		zap.Bool("can_cancel_sales", req.CanCancelSales),
		zap.Bool("can_mark_commission_paid", req.CanMarkCommissionPaid),
		zap.String("changed_by", actor.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate disables a user account. Admin only.
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewForbiddenError("only admins can deactivate users")
	}
	if id == actor.ID {
		return shared.NewInvalidStateError("admins cannot deactivate their own account")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User deactivated",
		zap.String("user_id", id.String()),
		zap.String("deactivated_by", actor.Username))
	return nil
}

// Activate re-enables a deactivated or locked user account. Admin only.
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewForbiddenError("only admins can activate users")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := user.Activate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User activated",
		zap.String("user_id", id.String()),
		zap.String("activated_by", actor.Username))
	return nil
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewNotFoundError("user %s not found", id)
	}
	return user, nil
}
