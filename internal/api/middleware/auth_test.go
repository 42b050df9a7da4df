package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newAuthTestRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	am := NewAuthMiddleware(zap.NewNop())
	engine.GET("/protected", am.RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"role":  c.MustGet(ContextRole),
			"email": c.GetString(ContextUserEmail),
		})
	})
	return engine
}

func TestRequireRoleMissingClaim(t *testing.T) {
	engine := newAuthTestRouter(models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
}

func TestRequireRoleForbidden(t *testing.T) {
	engine := newAuthTestRouter(models.RoleAdmin, models.RoleAnalyst)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderUserRole, "client")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")
}

func TestRequireRoleUnknownRoleForbidden(t *testing.T) {
	engine := newAuthTestRouter(models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderUserRole, "superuser")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAndSetsContext(t *testing.T) {
	engine := newAuthTestRouter(models.RoleAdmin, models.RoleAnalyst)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderUserRole, "analyst")
	req.Header.Set(HeaderUserEmail, "analyst@reqgen.app")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analyst")
	assert.Contains(t, rec.Body.String(), "analyst@reqgen.app")
}
