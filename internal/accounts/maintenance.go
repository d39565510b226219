package accounts

import (
	"context"

	"github.com/hugh/go-roster/internal/store"
)

// SweepDanglingPrimaryRoles clears primary role references that point at a
// role that no longer exists. Only reachable when the database did not
// enforce the foreign key.
func (s *Service) SweepDanglingPrimaryRoles(ctx context.Context) (int64, error) {
	var cleared int64
	err := s.run(ctx, "sweep_primary_roles", func(tx *store.Tx) error {
		var err error
		cleared, err = tx.SweepDanglingPrimaryRoles()
		return err
	})
	if err != nil {
		return 0, err
	}

	if cleared > 0 {
		s.logger.Warn("cleared dangling primary roles", "users", cleared)
	} else {
		s.logger.Debug("no dangling primary roles")
	}

	return cleared, nil
}
