package accounts_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/apperr"
	"github.com/hugh/go-roster/internal/patch"
	"github.com/hugh/go-roster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCRUD(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	desc := "full access"
	created, err := ts.Service.CreateRole(ctx, accounts.RoleInput{Name: "Administrador", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Administrador", created.Role.Name)
	assert.True(t, created.Role.Active)
	id := created.Role.ID

	t.Run("duplicate name", func(t *testing.T) {
		_, err := ts.Service.CreateRole(ctx, accounts.RoleInput{Name: "Administrador"})
		assert.ErrorIs(t, err, accounts.ErrDuplicateRoleName)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	})

	t.Run("update clears description", func(t *testing.T) {
		res, err := ts.Service.UpdateRole(ctx, id, accounts.UpdateRoleInput{
			Name:        patch.Value("Admin"),
			Description: patch.Null[string](),
			Active:      patch.Value(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Admin", res.Role.Name)
		assert.Nil(t, res.Role.Description)
		assert.False(t, res.Role.Active)
	})

	t.Run("rename onto another role", func(t *testing.T) {
		other := testutil.CreateTestRole(t, ts.DB, "Usuario")
		_, err := ts.Service.UpdateRole(ctx, other.ID, accounts.UpdateRoleInput{Name: patch.Value("Admin")})
		assert.ErrorIs(t, err, accounts.ErrDuplicateRoleName)
	})

	t.Run("list filtered by active", func(t *testing.T) {
		active := true
		roles, err := ts.Service.ListRoles(ctx, accounts.RoleFilter{Active: &active})
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "Usuario", roles[0].Name)
	})

	t.Run("get with primary users", func(t *testing.T) {
		u := testutil.CreateTestUser(t, ts.DB, nil)
		_, err := ts.Service.UpdateUser(ctx, u.ID, accounts.UpdateUserInput{PrimaryRoleID: patch.Value(id)})
		require.NoError(t, err)

		role, err := ts.Service.GetRole(ctx, id)
		require.NoError(t, err)
		require.Len(t, role.Users, 1)
		assert.Equal(t, u.ID, role.Users[0].ID)
	})

	t.Run("simple delete refuses while primary holders exist", func(t *testing.T) {
		_, err := ts.Service.DeleteRole(ctx, id)
		require.ErrorIs(t, err, accounts.ErrRoleInUse)
		e, _ := apperr.As(err)
		assert.Equal(t, int64(1), e.Details["users"])
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := ts.Service.GetRole(ctx, uuid.New())
		assert.ErrorIs(t, err, accounts.ErrRoleNotFound)
	})
}

func TestDeleteRole_RemovesAssignments(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	role := testutil.CreateTestRole(t, ts.DB, "Temp")
	u := testutil.CreateTestUser(t, ts.DB, nil)
	testutil.AssignTestRole(t, ts.DB, role, u)

	_, err := ts.Service.DeleteRole(ctx, role.ID)
	require.NoError(t, err)

	counts := testutil.CountRows(t, ts.DB)
	assert.Equal(t, int64(0), counts.Roles)
	assert.Equal(t, int64(0), counts.UserRoles)
}

func TestRoleUsers(t *testing.T) {
	ts := testutil.NewTestContext(t)
	ctx := testutil.TestContext(t)

	role := testutil.CreateTestRole(t, ts.DB, "Moderador")
	primary := testutil.CreateTestUser(t, ts.DB, role)
	assigned := testutil.CreateTestUser(t, ts.DB, nil)
	testutil.AssignTestRole(t, ts.DB, role, assigned)

	view, err := ts.Service.RoleUsers(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moderador", view.Role.Name)
	require.Len(t, view.PrimaryUsers, 1)
	assert.Equal(t, primary.ID, view.PrimaryUsers[0].ID)
	require.Len(t, view.Assigned, 1)
	assert.Equal(t, assigned.ID, view.Assigned[0].ID)
}
