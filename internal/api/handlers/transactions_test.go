package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/api/dto"
	"github.com/hugh/go-roster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_AssignAndTransfer(t *testing.T) {
	router, tc := setupTestRouter(t)
	src := testutil.CreateTestRole(t, tc.DB, "Source")
	dst := testutil.CreateTestRole(t, tc.DB, "Target")
	u1 := testutil.CreateTestUser(t, tc.DB, nil)
	u2 := testutil.CreateTestUser(t, tc.DB, nil)

	assign := map[string]interface{}{
		"roleId":  src.ID.String(),
		"userIds": []string{u1.ID.String(), u2.ID.String()},
	}

	t.Run("assign", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/assign-users-to-role", assign)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[dto.AssignResponse]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Data.Assigned)
		assert.Equal(t, "Source", resp.Data.Role.Name)
	})

	t.Run("assign again is idempotent", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/assign-users-to-role", assign)
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, int64(2), testutil.CountRows(t, tc.DB).UserRoles)
	})

	t.Run("assign with unknown user", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/assign-users-to-role", map[string]interface{}{
			"roleId":  dst.ID.String(),
			"userIds": []string{u1.ID.String(), uuid.NewString()},
		})
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var body errorBody
		testutil.ParseJSONResponse(t, rr, &body)
		assert.Equal(t, "USERS_NOT_FOUND", body.Code)
	})

	t.Run("assign with empty list", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/assign-users-to-role", map[string]interface{}{
			"roleId": dst.ID.String(), "userIds": []string{},
		})
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("transfer", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/transfer-users-between-roles", map[string]string{
			"sourceRoleId": src.ID.String(), "targetRoleId": dst.ID.String(),
		})
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[dto.TransferResponse]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 2, resp.Data.Transferred)
	})

	t.Run("transfer from emptied role", func(t *testing.T) {
		rr := serve(t, router, http.MethodPost, "/api/v1/transactions/transfer-users-between-roles", map[string]string{
			"sourceRoleId": src.ID.String(), "targetRoleId": dst.ID.String(),
		})
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var body errorBody
		testutil.ParseJSONResponse(t, rr, &body)
		assert.Equal(t, "NO_USERS_TO_TRANSFER", body.Code)
	})
}

func TestTransactionHandler_DeleteRole(t *testing.T) {
	router, tc := setupTestRouter(t)
	r1 := testutil.CreateTestRole(t, tc.DB, "R1")
	r2 := testutil.CreateTestRole(t, tc.DB, "R2")
	r3 := testutil.CreateTestRole(t, tc.DB, "R3")
	u1 := testutil.CreateTestUser(t, tc.DB, nil)
	u2 := testutil.CreateTestUser(t, tc.DB, nil)
	testutil.AssignTestRole(t, tc.DB, r1, u1, u2)

	t.Run("with replacement", func(t *testing.T) {
		rr := serve(t, router, http.MethodDelete, "/api/v1/transactions/roles/"+r1.ID.String(),
			map[string]string{"replacementRoleId": r2.ID.String()})
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[dto.RoleDeletionResponse]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 2, resp.Data.Affected)
		require.NotNil(t, resp.Data.ReplacementRoleID)
		assert.Equal(t, r2.ID, *resp.Data.ReplacementRoleID)
	})

	t.Run("without body", func(t *testing.T) {
		rr := serve(t, router, http.MethodDelete, "/api/v1/transactions/roles/"+r3.ID.String(), nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope[dto.RoleDeletionResponse]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 0, resp.Data.Affected)
		assert.Nil(t, resp.Data.ReplacementRoleID)
	})

	t.Run("unknown role", func(t *testing.T) {
		rr := serve(t, router, http.MethodDelete, "/api/v1/transactions/roles/"+uuid.NewString(), nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("invalid replacement id", func(t *testing.T) {
		rr := serve(t, router, http.MethodDelete, "/api/v1/transactions/roles/"+r2.ID.String(),
			map[string]string{"replacementRoleId": "7"})
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestTransactionHandler_CreateUserWithRole(t *testing.T) {
	router, tc := setupTestRouter(t)

	body := map[string]interface{}{
		"user": map[string]string{"name": "Root Admin", "email": "root@example.com", "password": "secret123"},
		"role": map[string]string{"name": "Administrador"},
	}

	rr := serve(t, router, http.MethodPost, "/api/v1/transactions/create-user-with-role", body)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var resp envelope[dto.UserWithRoleResponse]
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.True(t, resp.Data.RoleCreated)
	require.NotNil(t, resp.Data.User)
	require.NotNil(t, resp.Data.User.PrimaryRole)
	assert.Equal(t, "Administrador", resp.Data.User.PrimaryRole.Name)

	rr = serve(t, router, http.MethodPost, "/api/v1/transactions/create-user-with-role", body)
	testutil.AssertStatus(t, rr, http.StatusConflict)
	assert.Equal(t, int64(1), testutil.CountRows(t, tc.DB).Users)

	rr = serve(t, router, http.MethodPost, "/api/v1/transactions/create-user-with-role", map[string]interface{}{
		"user": map[string]string{"name": "X", "email": "bad", "password": "1"},
		"role": map[string]string{},
	})
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var errBody errorBody
	testutil.ParseJSONResponse(t, rr, &errBody)
	assert.Contains(t, errBody.Details, "user.email")
	assert.Contains(t, errBody.Details, "role.name")
}
