package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/primtakip/backend/internal/domain/shared"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is a valid UserRole
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

// Permissions are the per-user capability flags an admin may grant.
// Admins implicitly hold every permission.
type Permissions struct {
	CanCancelSales        bool `gorm:"not null;default:false"`
	CanMarkCommissionPaid bool `gorm:"not null;default:false"`
}

// User represents an account that records sales. It is the aggregate root
// for authentication and authorization decisions.
type User struct {
	shared.BaseAggregateRoot
	Username       string     `gorm:"size:100;not null;uniqueIndex"`
	Email          string     `gorm:"size:200"`
	FullName       string     `gorm:"size:200"`
	PasswordHash   string     `gorm:"size:200;not null"`
	Role           UserRole   `gorm:"size:20;not null;default:'user'"`
	Status         UserStatus `gorm:"size:20;not null;default:'active';index"`
	Permissions    Permissions `gorm:"embedded;embeddedPrefix:perm_"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with the given role
func NewUser(username, password, fullName string, role UserRole) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("invalid role %q", role)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		FullName:          strings.TrimSpace(fullName),
		PasswordHash:      passwordHash,
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanCancelSales checks the cancel-sales capability
func (u *User) CanCancelSales() bool {
	return u.IsAdmin() || u.Permissions.CanCancelSales
}

// CanMarkCommissionPaid checks the mark-commission-paid capability
func (u *User) CanMarkCommissionPaid() bool {
	return u.IsAdmin() || u.Permissions.CanMarkCommissionPaid
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	u.Email = email
	u.Touch()
	return nil
}

// SetFullName sets the user's display name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 200 {
		return shared.NewValidationError("full name cannot exceed 200 characters")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.Touch()
	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role UserRole) error {
	if !role.IsValid() {
		return shared.NewValidationError("invalid role %q", role)
	}

	u.Role = role
	u.Touch()
	return nil
}

// SetPermissions replaces the capability flags
func (u *User) SetPermissions(perms Permissions) {
	u.Permissions = perms
	u.Touch()
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Activate re-enables the user and clears any lock
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewInvalidStateError("user is already active")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	return nil
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewInvalidStateError("user is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.Touch()
	return nil
}

// RecordLoginSuccess resets the failure counter and stamps the login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
	u.Touch()
}

// RecordLoginFailure bumps the failure counter, locking the account when
// the limit is reached. Returns true if the account is now locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()

	if u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		return true
	}
	return false
}

// IsLocked checks if the account is currently locked
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin checks if the user may authenticate right now
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive || (u.Status == UserStatusLocked && !u.IsLocked())
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewValidationError("username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewValidationError("username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewValidationError("username cannot exceed 100 characters")
	}

	// Allow alphanumeric, underscore, hyphen, and dot
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewValidationError("password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewValidationError("password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
