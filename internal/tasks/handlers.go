package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Sweeper is the part of the accounts service the worker needs.
type Sweeper interface {
	SweepDanglingPrimaryRoles(ctx context.Context) (int64, error)
}

type Handler struct {
	accounts Sweeper
	logger   *slog.Logger
}

func NewHandler(accounts Sweeper, logger *slog.Logger) *Handler {
	return &Handler{accounts: accounts, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePrimaryRoleSweep, h.HandlePrimaryRoleSweep)
}

func (h *Handler) HandlePrimaryRoleSweep(ctx context.Context, t *asynq.Task) error {
	var payload PrimaryRoleSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	h.logger.Info("starting primary role sweep", "trigger", payload.Trigger)

	cleared, err := h.accounts.SweepDanglingPrimaryRoles(ctx)
	if err != nil {
		h.logger.Error("primary role sweep failed", "error", err)
		return err
	}

	h.logger.Info("primary role sweep completed", "cleared", cleared)
	return nil
}
