package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/store"
)

func (s *Service) CreateRole(ctx context.Context, in RoleInput) (*RoleResult, error) {
	var view *RoleView
	err := s.run(ctx, "create_role", func(tx *store.Tx) error {
		taken, err := tx.RoleNameTaken(in.Name, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateRoleName.WithDetail("name", in.Name)
		}

		role := &models.Role{Name: in.Name, Description: emptyToNil(in.Description), Active: true}
		if err := tx.CreateRole(role); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return ErrDuplicateRoleName.WithDetail("name", in.Name).Wrap(err)
			}
			return err
		}
		view = newRoleView(role, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role_id", view.ID, "name", view.Name)

	return &RoleResult{Message: "role created", Role: view}, nil
}

// UpdateRole applies a partial update. A null description clears it; name
// and active cannot be nulled.
func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, in UpdateRoleInput) (*RoleResult, error) {
	if in.Name.IsNull() {
		return nil, ErrFieldNotClearable.WithDetail("field", "name")
	}
	if in.Active.IsNull() {
		return nil, ErrFieldNotClearable.WithDetail("field", "active")
	}

	var view *RoleView
	err := s.run(ctx, "update_role", func(tx *store.Tx) error {
		role, err := tx.RoleByID(id)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound.WithDetail("roleId", id.String())
		}

		fields := map[string]any{}
		if name, ok := in.Name.Get(); ok && name != role.Name {
			taken, err := tx.RoleNameTaken(name, &id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateRoleName.WithDetail("name", name)
			}
			fields["name"] = name
		}
		if in.Description.Set {
			if in.Description.Null || in.Description.Value == "" {
				fields["description"] = nil
			} else {
				fields["description"] = in.Description.Value
			}
		}
		if active, ok := in.Active.Get(); ok {
			fields["active"] = active
		}

		if err := tx.UpdateRoleFields(id, fields); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return ErrDuplicateRoleName.Wrap(err)
			}
			return err
		}

		view, err = loadRole(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role updated", "role_id", id)

	return &RoleResult{Message: "role updated", Role: view}, nil
}

// GetRole returns the role with the users that have it as primary role.
func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (*RoleView, error) {
	return loadRole(s.store.Reader(ctx), id)
}

func loadRole(tx *store.Tx, id uuid.UUID) (*RoleView, error) {
	role, err := tx.RoleByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound.WithDetail("roleId", id.String())
	}
	users, err := tx.UsersWithPrimaryRole(id)
	if err != nil {
		return nil, err
	}
	return newRoleView(role, users), nil
}

func (s *Service) ListRoles(ctx context.Context, filter RoleFilter) ([]RoleView, error) {
	tx := s.store.Reader(ctx)
	roles, err := tx.ListRoles(store.RoleFilter{Active: filter.Active})
	if err != nil {
		return nil, err
	}
	out := make([]RoleView, 0, len(roles))
	for i := range roles {
		users, err := tx.UsersWithPrimaryRole(roles[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *newRoleView(&roles[i], users))
	}
	return out, nil
}

// DeleteRole refuses while any user has the role as primary role. Otherwise
// the role's assignments and the role itself go in one unit of work.
func (s *Service) DeleteRole(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	var assignments int64
	err := s.run(ctx, "delete_role", func(tx *store.Tx) error {
		role, err := tx.RoleByID(id)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound.WithDetail("roleId", id.String())
		}

		holders, err := tx.CountPrimaryHolders(id)
		if err != nil {
			return err
		}
		if holders > 0 {
			return ErrRoleInUse.WithDetail("users", holders)
		}

		if assignments, err = tx.ClearRoleAssignments(id); err != nil {
			return err
		}
		_, err = tx.DeleteRole(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role deleted", "role_id", id, "assignments", assignments)

	return &DeleteResult{Message: "role deleted"}, nil
}

// RoleUsers lists who holds the role, as primary role and through assignment.
func (s *Service) RoleUsers(ctx context.Context, id uuid.UUID) (*RoleUsersView, error) {
	tx := s.store.Reader(ctx)
	role, err := tx.RoleByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound.WithDetail("roleId", id.String())
	}

	primary, err := tx.UsersWithPrimaryRole(id)
	if err != nil {
		return nil, err
	}
	assigned, err := tx.Holders(id)
	if err != nil {
		return nil, err
	}

	return &RoleUsersView{
		Role:         newRoleSummary(role),
		PrimaryUsers: newUserSummaries(primary),
		Assigned:     newUserSummaries(assigned),
	}, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
