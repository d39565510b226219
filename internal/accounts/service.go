// Package accounts runs every user and role operation as a single unit of
// work against the store and classifies its failures.
package accounts

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/apperr"
	"github.com/hugh/go-roster/internal/store"
	"github.com/hugh/go-roster/pkg/credential"
)

type Service struct {
	store  *store.Store
	hasher credential.Hasher
	logger *slog.Logger
}

func NewService(st *store.Store, hasher credential.Hasher, logger *slog.Logger) *Service {
	return &Service{store: st, hasher: hasher, logger: logger}
}

// run executes fn as one unit of work and logs the outcome when it aborts.
func (s *Service) run(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	err := s.store.Atomic(ctx, fn)
	if err == nil {
		return nil
	}

	kind := apperr.KindOf(err)
	if kind == apperr.Persistence {
		s.logger.Error("unit of work failed", "op", op, "error", err)
	} else {
		s.logger.Warn("unit of work aborted", "op", op, "kind", kind.String(), "code", apperr.CodeOf(err))
	}
	return err
}

// hashPassword is called before the unit of work opens.
func (s *Service) hashPassword(plaintext string) (string, error) {
	hash, err := s.hasher.Hash(plaintext)
	if errors.Is(err, credential.ErrEmptyPassword) {
		return "", ErrInvalidPassword
	}
	if err != nil {
		return "", apperr.New(apperr.Persistence, "HASH_FAILURE", "could not hash password").Wrap(err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dedupe drops repeated ids, keeping first occurrence order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missing returns the requested ids absent from found.
func missing(requested []uuid.UUID, found []uuid.UUID) []string {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var out []string
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			out = append(out, id.String())
		}
	}
	return out
}

// requireRole loads a role or fails with ErrRoleNotFound naming field.
func requireRole(tx *store.Tx, id uuid.UUID, field string) (*RoleSummary, error) {
	role, err := tx.RoleByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound.WithDetail(field, id.String())
	}
	s := newRoleSummary(role)
	return &s, nil
}

// requireRoles resolves every id or fails with ErrRolesNotFound.
func requireRoles(tx *store.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	roles, err := tx.RolesByIDs(ids)
	if err != nil {
		return err
	}
	if len(roles) != len(ids) {
		found := make([]uuid.UUID, 0, len(roles))
		for _, r := range roles {
			found = append(found, r.ID)
		}
		return ErrRolesNotFound.WithDetail("missing", missing(ids, found))
	}
	return nil
}

func (s *Service) loadUser(tx *store.Tx, id uuid.UUID) (*UserView, error) {
	user, err := tx.UserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound.WithDetail("userId", id.String())
	}
	roles, err := tx.RolesOfUser(id)
	if err != nil {
		return nil, err
	}
	return newUserView(user, roles), nil
}
