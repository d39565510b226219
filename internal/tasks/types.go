package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypePrimaryRoleSweep = "maintenance:primary_role_sweep"
)

// PrimaryRoleSweepPayload identifies what scheduled a sweep.
type PrimaryRoleSweepPayload struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewPrimaryRoleSweepTask(trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(PrimaryRoleSweepPayload{Trigger: trigger, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	// A sweep that overlaps a running one is pointless.
	return asynq.NewTask(TypePrimaryRoleSweep, data,
		asynq.Queue("low"),
		asynq.MaxRetry(3),
		asynq.Unique(10*time.Minute),
	), nil
}
