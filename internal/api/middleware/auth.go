package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"go.uber.org/zap"
)

const (
	// HeaderUserRole carries the caller-asserted role claim. It is trusted
	// as supplied; see the login response for where the frontend gets it.
	HeaderUserRole = "X-User-Role"

	// HeaderUserEmail identifies the caller for per-user state such as
	// notification read markers.
	HeaderUserEmail = "X-User-Email"

	ContextRole      = "role"
	ContextUserEmail = "userEmail"
)

type AuthMiddleware struct {
	logger *zap.Logger
}

func NewAuthMiddleware(logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{logger: logger}
}

// RequireRole admits the request only when the role claim header is present
// and listed. Missing claim responds 401, unlisted claim 403; both halt the
// chain.
func (am *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		claim := c.GetHeader(HeaderUserRole)
		if claim == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		role := models.UserRole(claim)
		if !allowed[role] {
			am.logger.Warn("Role not permitted for route",
				zap.String("role", claim),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Set(ContextRole, role)
		c.Set(ContextUserEmail, c.GetHeader(HeaderUserEmail))
		c.Next()
	}
}
