package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/primtakip/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID                    uuid.UUID
	Username              string
	FullName              string
	Email                 string
	Role                  string
	CanCancelSales        bool
	CanMarkCommissionPaid bool
}

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserRequest is the admin request to create a user
type CreateUserRequest struct {
	Username              string `json:"username" binding:"required,min=3,max=50"`
	Password              string `json:"password" binding:"required,min=8"`
	FullName              string `json:"fullName" binding:"required"`
	Email                 string `json:"email" binding:"omitempty,email"`
	Role                  string `json:"role" binding:"omitempty,oneof=user admin"`
	CanCancelSales        bool   `json:"canCancelSales"`
	CanMarkCommissionPaid bool   `json:"canMarkCommissionPaid"`
}

// UpdateUserRequest is the admin request to update a user. Nil fields
// are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// SetPermissionsRequest is the admin request to change a user's capabilities
type SetPermissionsRequest struct {
	CanCancelSales        bool `json:"canCancelSales"`
	CanMarkCommissionPaid bool `json:"canMarkCommissionPaid"`
}

// UserListFilter carries listing parameters for users
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Username              string     `json:"username"`
	FullName              string     `json:"fullName"`
	Email                 string     `json:"email,omitempty"`
	Role                  string     `json:"role"`
	Status                string     `json:"status"`
	CanCancelSales        bool       `json:"canCancelSales"`
	CanMarkCommissionPaid bool       `json:"canMarkCommissionPaid"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// ToUserInfo converts a user aggregate to the login payload shape
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:                    u.ID,
		Username:              u.Username,
		FullName:              u.FullName,
		Email:                 u.Email,
		Role:                  string(u.Role),
		CanCancelSales:        u.CanCancelSales(),
		CanMarkCommissionPaid: u.CanMarkCommissionPaid(),
	}
}

// ToUserResponse converts a user aggregate to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Username:              u.Username,
		FullName:              u.FullName,
		Email:                 u.Email,
		Role:                  string(u.Role),
		Status:                string(u.Status),
		CanCancelSales:        u.CanCancelSales(),
		CanMarkCommissionPaid: u.CanMarkCommissionPaid(),
		LastLoginAt:           u.LastLoginAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
