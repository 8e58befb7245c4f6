package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/primtakip/backend/internal/application/identity"
	"github.com/primtakip/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration request body
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required,max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// RefreshRequest is the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is the token payload returned by login and refresh
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
}

// LoginResponse is the login response payload
type LoginResponse struct {
	TokenResponse
	User UserInfoResponse `json:"user"`
}

// UserInfoResponse is the authenticated user summary
type UserInfoResponse struct {
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	FullName              string    `json:"fullName"`
	Email                 string    `json:"email,omitempty"`
	Role                  string    `json:"role"`
	CanCancelSales        bool      `json:"canCancelSales"`
	CanMarkCommissionPaid bool      `json:"canMarkCommissionPaid"`
}

// RegisterPublicRoutes registers the unauthenticated auth endpoints.
// Registration takes an optional-auth middleware so an admin's token is
// recognized while first-user bootstrap still works without one.
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.POST("/register", optionalAuth, h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
}

// RegisterProtectedRoutes registers the auth endpoints that need a token
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)
}

// Register creates a new account. The very first account becomes the admin;
// afterwards only an authenticated admin may register users here.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	input := identityapp.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
	}

	user, err := h.authService.Register(c.Request.Context(), actorFromContext(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		TokenResponse: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: UserInfoResponse{
			ID:                    result.User.ID,
			Username:              result.User.Username,
			FullName:              result.User.FullName,
			Email:                 result.User.Email,
			Role:                  result.User.Role,
			CanCancelSales:        result.User.CanCancelSales,
			CanMarkCommissionPaid: result.User.CanMarkCommissionPaid,
		},
	})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	})
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	input := identityapp.LogoutInput{UserID: actor.ID}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		if claims.ExpiresAt != nil {
			input.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Çıkış yapıldı"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
