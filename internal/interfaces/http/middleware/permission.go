package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/interfaces/http/dto"
)

// RequireAdmin rejects requests whose actor does not hold the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireCapability(func(actor identity.Actor) bool {
		return actor.IsAdmin()
	})
}

// RequireCapability rejects requests whose actor fails the capability check.
// Must run after JWTAuthMiddleware.
func RequireCapability(check func(identity.Actor) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if !check(actor) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Bu işlem için yetkiniz yok"))
			return
		}

		c.Next()
	}
}
