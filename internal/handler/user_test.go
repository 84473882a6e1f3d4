package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/testutil"
)

func (f *apiFixture) bearerFor(t *testing.T, userID uint, role string) map[string]string {
	t.Helper()
	access, err := f.tokens.IssueAccessToken(userID, role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + access}
}

func TestAPI_UsersListAdminOnly(t *testing.T) {
	f := newAPIFixture(t)

	customer := testutil.CreateUser(t, f.db, "Cust", "cust@example.com", "p1", constants.RoleCustomer)
	vendor := testutil.CreateUser(t, f.db, "Vend", "vend@example.com", "p2", constants.RoleVendor)
	admin := testutil.CreateUser(t, f.db, "Admin", "admin@example.com", "p3", constants.RoleAdmin)

	// No credential: 401.
	rec, _ := f.do(t, http.MethodGet, "/api/v1/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Customers are not staff: 403.
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users", nil, f.bearerFor(t, customer.ID, customer.Role))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Vendors are staff but listing is admin only: 403.
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users", nil, f.bearerFor(t, vendor.ID, vendor.Role))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin sees the paginated directory.
	rec, body := f.do(t, http.MethodGet, "/api/v1/users?limit=2", nil, f.bearerFor(t, admin.ID, admin.Role))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["total"])
	assert.Len(t, body["data"].([]any), 2)
}

func TestAPI_UserByIDStaffAccess(t *testing.T) {
	f := newAPIFixture(t)

	customer := testutil.CreateUser(t, f.db, "Cust", "cust@example.com", "p1", constants.RoleCustomer)
	vendor := testutil.CreateUser(t, f.db, "Vend", "vend@example.com", "p2", constants.RoleVendor)

	// Vendors may look up individual users.
	rec, body := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", customer.ID), nil,
		f.bearerFor(t, vendor.ID, vendor.Role))
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "cust@example.com", data["email"])

	// Customers may not.
	rec, _ = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", customer.ID), nil,
		f.bearerFor(t, customer.ID, customer.Role))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown ID: 404.
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/99999", nil, f.bearerFor(t, vendor.ID, vendor.Role))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed ID: 400.
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/abc", nil, f.bearerFor(t, vendor.ID, vendor.Role))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
