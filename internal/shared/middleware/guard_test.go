package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vasilestie-backend/internal/rbac"
	"vasilestie-backend/internal/shared/middleware"
)

func guardedRouter(role string, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	})
	handlers := append(guards, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return rec
}

func TestRequireCapabilityAllows(t *testing.T) {
	router := guardedRouter(string(rbac.RoleModerator), middleware.RequireCapability(rbac.CapViewContent))
	assert.Equal(t, http.StatusOK, get(router).Code)
}

func TestRequireCapabilityDeniesInsufficientRole(t *testing.T) {
	router := guardedRouter(string(rbac.RoleSupport), middleware.RequireCapability(rbac.CapManageTeam))

	rec := get(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acces interzis")
}

func TestRequireCapabilityDeniesMissingRole(t *testing.T) {
	router := guardedRouter("", middleware.RequireCapability(rbac.CapViewUsers))

	rec := get(router)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Autentificare necesară")
}

func TestRequireCapabilityDeniesUnknownRole(t *testing.T) {
	// A role outside the registry fails closed.
	router := guardedRouter("hacker", middleware.RequireCapability(rbac.CapViewUsers))
	assert.Equal(t, http.StatusForbidden, get(router).Code)
}

func TestRequireAdminTier(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{string(rbac.RoleSuperAdmin), http.StatusOK},
		{string(rbac.RoleAdmin), http.StatusOK},
		{string(rbac.RoleModerator), http.StatusForbidden},
		{string(rbac.RoleCollaborator), http.StatusForbidden},
		{string(rbac.RoleUser), http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		router := guardedRouter(tc.role, middleware.RequireAdminTier())
		assert.Equal(t, tc.want, get(router).Code, "role %q", tc.role)
	}
}

func TestGuardsStack(t *testing.T) {
	// Admin tier gate plus a capability: both must pass.
	router := guardedRouter(string(rbac.RoleAdmin),
		middleware.RequireAdminTier(),
		middleware.RequireCapability(rbac.CapManageTeam),
	)
	assert.Equal(t, http.StatusOK, get(router).Code)
}
