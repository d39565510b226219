package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/store"
)

// AssignUsersToRole gives roleID to every listed user. Either every user
// resolves or nothing is written. Users already holding the role are left
// as they are.
func (s *Service) AssignUsersToRole(ctx context.Context, roleID uuid.UUID, userIDs []uuid.UUID) (*AssignResult, error) {
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return nil, ErrUsersNotFound.WithMessage("at least one user is required")
	}

	res := &AssignResult{}
	err := s.run(ctx, "assign_users_to_role", func(tx *store.Tx) error {
		role, err := requireRole(tx, roleID, "roleId")
		if err != nil {
			return err
		}

		users, err := tx.UsersByIDs(ids)
		if err != nil {
			return err
		}
		if len(users) != len(ids) {
			found := make([]uuid.UUID, 0, len(users))
			for _, u := range users {
				found = append(found, u.ID)
			}
			return ErrUsersNotFound.WithDetail("missing", missing(ids, found))
		}

		added, err := tx.AddAssignments(roleID, ids)
		if err != nil {
			return err
		}

		res.Role = *role
		res.Assigned = len(users)
		res.Added = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Message = fmt.Sprintf("%d users assigned to role %q", res.Assigned, res.Role.Name)
	s.logger.Info("users assigned to role", "role_id", roleID, "assigned", res.Assigned, "added", res.Added)

	return res, nil
}

// TransferUsersBetweenRoles moves every holder of sourceID to targetID.
// All holders move together or none do.
func (s *Service) TransferUsersBetweenRoles(ctx context.Context, sourceID, targetID uuid.UUID) (*TransferResult, error) {
	if sourceID == targetID {
		return nil, ErrSameRole.WithDetail("roleId", sourceID.String())
	}

	res := &TransferResult{}
	err := s.run(ctx, "transfer_users_between_roles", func(tx *store.Tx) error {
		source, err := requireRole(tx, sourceID, "sourceRoleId")
		if err != nil {
			return err
		}
		target, err := requireRole(tx, targetID, "targetRoleId")
		if err != nil {
			return err
		}

		holders, err := tx.HolderIDs(sourceID)
		if err != nil {
			return err
		}
		if len(holders) == 0 {
			return ErrNoUsersToTransfer.WithDetail("sourceRoleId", sourceID.String())
		}

		if err := moveHolders(tx, sourceID, &targetID, holders); err != nil {
			return err
		}

		res.Source = *source
		res.Target = *target
		res.Transferred = len(holders)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Message = fmt.Sprintf("%d users transferred from %q to %q", res.Transferred, res.Source.Name, res.Target.Name)
	s.logger.Info("users transferred between roles",
		"source_role_id", sourceID, "target_role_id", targetID, "transferred", res.Transferred)

	return res, nil
}

// moveHolders drops fromID from the users and, when toID is set, gives them toID.
func moveHolders(tx *store.Tx, fromID uuid.UUID, toID *uuid.UUID, userIDs []uuid.UUID) error {
	if _, err := tx.RemoveAssignments(fromID, userIDs); err != nil {
		return err
	}
	if toID == nil {
		return nil
	}
	_, err := tx.AddAssignments(*toID, userIDs)
	return err
}

// DeleteRoleWithReassignment deletes roleID after moving its holders to
// replacementID, or just dropping the role from them when replacementID is
// nil. Users with roleID as primary role have it cleared in the same unit
// of work.
func (s *Service) DeleteRoleWithReassignment(ctx context.Context, roleID uuid.UUID, replacementID *uuid.UUID) (*RoleDeletionResult, error) {
	if replacementID != nil && *replacementID == roleID {
		return nil, ErrSameRole.
			WithMessage("replacement role must differ from the deleted role").
			WithDetail("replacementRoleId", replacementID.String())
	}

	res := &RoleDeletionResult{ReplacementID: replacementID}
	var roleName string
	err := s.run(ctx, "delete_role_with_reassignment", func(tx *store.Tx) error {
		role, err := requireRole(tx, roleID, "roleId")
		if err != nil {
			return err
		}
		roleName = role.Name

		if replacementID != nil {
			if _, err := requireRole(tx, *replacementID, "replacementRoleId"); err != nil {
				return err
			}
		}

		holders, err := tx.HolderIDs(roleID)
		if err != nil {
			return err
		}
		if len(holders) > 0 {
			if err := moveHolders(tx, roleID, replacementID, holders); err != nil {
				return err
			}
		}

		cleared, err := tx.ClearPrimaryRole(roleID)
		if err != nil {
			return err
		}

		deleted, err := tx.DeleteRole(roleID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrRoleNotFound.WithDetail("roleId", roleID.String())
		}

		res.Affected = len(holders)
		res.PrimaryCleared = cleared
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replacementID != nil {
		res.Message = fmt.Sprintf("role %q deleted, %d users reassigned", roleName, res.Affected)
	} else {
		res.Message = fmt.Sprintf("role %q deleted, removed from %d users", roleName, res.Affected)
	}
	s.logger.Info("role deleted with reassignment",
		"role_id", roleID, "replacement_role_id", replacementID,
		"affected", res.Affected, "primary_cleared", res.PrimaryCleared)

	return res, nil
}

// CreateUserWithRole creates a user whose primary and additional role is the
// named role, creating that role first when it does not exist yet.
func (s *Service) CreateUserWithRole(ctx context.Context, in CreateUserWithRoleInput) (*CreateUserWithRoleResult, error) {
	email := normalizeEmail(in.Email)

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	res := &CreateUserWithRoleResult{}
	err = s.run(ctx, "create_user_with_role", func(tx *store.Tx) error {
		taken, err := tx.EmailTaken(email, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail.WithDetail("email", email)
		}

		role, err := tx.RoleByName(in.Role.Name)
		if err != nil {
			return err
		}
		if role == nil {
			role = &models.Role{Name: in.Role.Name, Description: in.Role.Description, Active: true}
			if err := tx.CreateRole(role); err != nil {
				if errors.Is(err, store.ErrDuplicateKey) {
					return ErrDuplicateRoleName.WithDetail("name", in.Role.Name).Wrap(err)
				}
				return err
			}
			res.RoleCreated = true
		}

		user := &models.User{
			Name:          in.Name,
			Email:         email,
			PasswordHash:  hash,
			Active:        true,
			PrimaryRoleID: &role.ID,
		}
		if err := tx.CreateUser(user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return ErrDuplicateEmail.WithDetail("email", email).Wrap(err)
			}
			return err
		}

		if in.Profile != nil {
			profile := &models.Profile{UserID: user.ID}
			mergeProfile(profile, *in.Profile)
			if err := tx.CreateProfile(profile); err != nil {
				return err
			}
		}

		if _, err := tx.AssignRoles(user.ID, []uuid.UUID{role.ID}); err != nil {
			return err
		}

		res.User, err = s.loadUser(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	res.Message = "user created with role"
	s.logger.Info("user created with role",
		"user_id", res.User.ID, "role_id", *res.User.PrimaryRoleID, "role_created", res.RoleCreated)

	return res, nil
}
