package handlers_test

import (
	"net/http"
	"testing"

	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleHandler(t *testing.T) {
	router, tc := setupTestRouter(t)

	var created envelope[accounts.RoleView]
	t.Run("create", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/roles", map[string]string{"name": "Moderador", "description": "keeps order"})
		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.ParseJSONResponse(t, rr, &created)
		assert.Equal(t, "Moderador", created.Data.Name)
	})
	require.NotEmpty(t, created.Data.ID)
	path := "/api/v1/roles/" + created.Data.ID.String()

	t.Run("duplicate name", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/roles", map[string]string{"name": "Moderador"})
		testutil.AssertStatus(t, rr, http.StatusConflict)
	})

	t.Run("name too short", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/roles", map[string]string{"name": "M"})
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("update clears description", func(t *testing.T) {
		rr := serve(t, router, http.MethodPut, path, `{"description":null}`)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[accounts.RoleView]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Nil(t, resp.Data.Description)
	})

	t.Run("list", func(t *testing.T) {
		rr := serve(t, router, http.MethodGet, "/api/v1/roles?active=true", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[[]accounts.RoleView]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("users of role", func(t *testing.T) {
		role := testutil.CreateTestRole(t, tc.DB, "Usuario")
		u := testutil.CreateTestUser(t, tc.DB, role)
		testutil.AssignTestRole(t, tc.DB, role, u)

		rr := serve(t, router, http.MethodGet, "/api/v1/roles/"+role.ID.String()+"/users", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[accounts.RoleUsersView]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp.Data.PrimaryUsers, 1)
		assert.Len(t, resp.Data.Assigned, 1)

		t.Run("simple delete blocked", func(t *testing.T) {
			rr := serve(t, router, http.MethodDelete, "/api/v1/roles/"+role.ID.String(), nil)
			testutil.AssertStatus(t, rr, http.StatusConflict)

			var body errorBody
			testutil.ParseJSONResponse(t, rr, &body)
			assert.Equal(t, "ROLE_IN_USE", body.Code)
			assert.Equal(t, float64(1), body.Details["users"])
		})
	})

	t.Run("delete", func(t *testing.T) {
		rr := serve(t, router, http.MethodDelete, path, nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = serve(t, router, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestHealthHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := serve(t, router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"database":"healthy"`)

	rr = serve(t, router, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}
