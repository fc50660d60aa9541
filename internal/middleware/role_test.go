package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallbooking/internal/model"
)

func runRole(t *testing.T, allowed []model.Role, set interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if set != nil {
		c.Set("role", set)
	}

	reached := false
	h := RequireRole(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached
}

func TestRequireRole(t *testing.T) {
	adminOnly := []model.Role{model.RoleAdmin}

	rec, reached := runRole(t, adminOnly, model.RoleAdmin)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Customers are rejected from admin operations regardless of what
	// they own.
	rec, reached = runRole(t, adminOnly, model.RoleCustomer)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, reached = runRole(t, adminOnly, model.RoleStaff)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MultipleAllowed(t *testing.T) {
	both := []model.Role{model.RoleAdmin, model.RoleStaff}

	for _, r := range both {
		rec, reached := runRole(t, both, r)
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, reached := runRole(t, both, model.RoleCustomer)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MissingOrUnknown(t *testing.T) {
	allowed := []model.Role{model.RoleAdmin, model.RoleStaff, model.RoleCustomer}

	// No role in context at all.
	rec, reached := runRole(t, allowed, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A value of the wrong type is treated as no role.
	rec, reached = runRole(t, allowed, 42)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
