package util

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronExpr(t *testing.T) {
	assert.NoError(t, ValidateCronExpr("30 3 * * *"))
	assert.NoError(t, ValidateCronExpr("*/15 * * * 1-5"))
	assert.Error(t, ValidateCronExpr("not a cron"))
	assert.Error(t, ValidateCronExpr("* * * * * *"))
}

func TestNextCronTime(t *testing.T) {
	from := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	next, err := NextCronTime("30 3 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 3, 30, 0, 0, time.UTC), next)

	_, err = NextCronTime("bogus", from)
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	ctx := context.Background()

	dev := NewLogger("development", "")
	assert.True(t, dev.Enabled(ctx, slog.LevelDebug))

	prod := NewLogger("production", "")
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prod.Enabled(ctx, slog.LevelInfo))

	quiet := NewLogger("development", "error")
	assert.False(t, quiet.Enabled(ctx, slog.LevelWarn))
}
