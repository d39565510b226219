package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/tasks"
	"github.com/hugh/go-roster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewPrimaryRoleSweepTask(t *testing.T) {
	task, err := tasks.NewPrimaryRoleSweepTask("cron")
	require.NoError(t, err)
	assert.Equal(t, tasks.TypePrimaryRoleSweep, task.Type())

	var payload tasks.PrimaryRoleSweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "cron", payload.Trigger)
	assert.False(t, payload.RequestedAt.IsZero())
}

func TestHandlePrimaryRoleSweep(t *testing.T) {
	tc := testutil.NewTestContext(t)
	role := testutil.CreateTestRole(t, tc.DB, "Ghost")
	user := testutil.CreateTestUser(t, tc.DB, role)

	// Remove the role behind the constraint's back to leave a dangling reference.
	require.NoError(t, tc.DB.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, tc.DB.Exec("DELETE FROM roles WHERE id = ?", role.ID).Error)
	require.NoError(t, tc.DB.Exec("PRAGMA foreign_keys = ON").Error)

	handler := tasks.NewHandler(tc.Service, tc.Logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	task, err := tasks.NewPrimaryRoleSweepTask("test")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	var reloaded models.User
	require.NoError(t, tc.DB.First(&reloaded, "id = ?", user.ID).Error)
	assert.Nil(t, reloaded.PrimaryRoleID)
}

func TestHandlePrimaryRoleSweep_BadPayload(t *testing.T) {
	handler := tasks.NewHandler(stubSweeper{}, testutil.DiscardLogger())

	err := handler.HandlePrimaryRoleSweep(context.Background(), asynq.NewTask(tasks.TypePrimaryRoleSweep, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlePrimaryRoleSweep_PropagatesFailure(t *testing.T) {
	handler := tasks.NewHandler(stubSweeper{err: gorm.ErrInvalidDB}, testutil.DiscardLogger())

	err := handler.HandlePrimaryRoleSweep(context.Background(), asynq.NewTask(tasks.TypePrimaryRoleSweep, nil))
	assert.True(t, errors.Is(err, gorm.ErrInvalidDB))
}

type stubSweeper struct {
	err error
}

func (s stubSweeper) SweepDanglingPrimaryRoles(context.Context) (int64, error) {
	return 0, s.err
}
