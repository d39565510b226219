package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/patch"
	"github.com/hugh/go-roster/internal/store"
)

// CreateUser inserts a user with its optional profile and additional roles.
// Nothing is written unless the email is free and every role resolves.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*UserResult, error) {
	email := normalizeEmail(in.Email)
	roleIDs := dedupe(in.RoleIDs)

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var view *UserView
	err = s.run(ctx, "create_user", func(tx *store.Tx) error {
		taken, err := tx.EmailTaken(email, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail.WithDetail("email", email)
		}

		if in.PrimaryRoleID != nil {
			if _, err := requireRole(tx, *in.PrimaryRoleID, "roleId"); err != nil {
				return err
			}
		}
		if err := requireRoles(tx, roleIDs); err != nil {
			return err
		}

		user := &models.User{
			Name:          in.Name,
			Email:         email,
			PasswordHash:  hash,
			Active:        true,
			PrimaryRoleID: in.PrimaryRoleID,
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

		if _, err := tx.AssignRoles(user.ID, roleIDs); err != nil {
			return err
		}

		view, err = s.loadUser(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", view.ID, "roles", len(roleIDs), "profile", in.Profile != nil)

	return &UserResult{Message: "user created", User: view}, nil
}

// UpdateUser applies a partial update. Omitted fields stay as they are.
// Name, email and active cannot be nulled. A null or empty password is
// ignored. A null primary role clears it. Null or empty role ids clear the
// additional roles, any other value replaces them. A null profile deletes
// it, a value is merged over the existing one.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*UserResult, error) {
	for _, f := range []struct {
		name string
		null bool
	}{
		{"name", in.Name.IsNull()},
		{"email", in.Email.IsNull()},
		{"active", in.Active.IsNull()},
	} {
		if f.null {
			return nil, ErrFieldNotClearable.WithDetail("field", f.name)
		}
	}

	var hash string
	if pw, ok := in.Password.Get(); ok && pw != "" {
		h, err := s.hashPassword(pw)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var roleIDs []uuid.UUID
	if ids, ok := in.RoleIDs.Get(); ok {
		roleIDs = dedupe(ids)
	}

	var view *UserView
	err := s.run(ctx, "update_user", func(tx *store.Tx) error {
		user, err := tx.UserByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound.WithDetail("userId", id.String())
		}

		fields := map[string]any{}

		if name, ok := in.Name.Get(); ok {
			fields["name"] = name
		}
		if raw, ok := in.Email.Get(); ok {
			email := normalizeEmail(raw)
			if email != user.Email {
				taken, err := tx.EmailTaken(email, &id)
				if err != nil {
					return err
				}
				if taken {
					return ErrDuplicateEmail.WithDetail("email", email)
				}
				fields["email"] = email
			}
		}
		if hash != "" {
			fields["password_hash"] = hash
		}
		if active, ok := in.Active.Get(); ok {
			fields["active"] = active
		}
		if in.PrimaryRoleID.IsNull() {
			fields["primary_role_id"] = nil
		} else if rid, ok := in.PrimaryRoleID.Get(); ok {
			if _, err := requireRole(tx, rid, "roleId"); err != nil {
				return err
			}
			fields["primary_role_id"] = rid
		}
		if err := requireRoles(tx, roleIDs); err != nil {
			return err
		}

		if err := tx.UpdateUserFields(id, fields); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return ErrDuplicateEmail.Wrap(err)
			}
			return err
		}

		if err := s.applyProfile(tx, id, in.Profile); err != nil {
			return err
		}

		if in.RoleIDs.Set {
			if _, err := tx.ClearUserAssignments(id); err != nil {
				return err
			}
			if _, err := tx.AssignRoles(id, roleIDs); err != nil {
				return err
			}
		}

		view, err = s.loadUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "fields", in.changedFields(), "roles_replaced", in.RoleIDs.Set)

	return &UserResult{Message: "user updated", User: view}, nil
}

func (in UpdateUserInput) changedFields() []string {
	var out []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", in.Name.Set},
		{"email", in.Email.Set},
		{"password", in.Password.HasValue() && in.Password.Value != ""},
		{"active", in.Active.Set},
		{"roleId", in.PrimaryRoleID.Set},
		{"rolesIds", in.RoleIDs.Set},
		{"profile", in.Profile.Set},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}

func (s *Service) applyProfile(tx *store.Tx, userID uuid.UUID, f patch.Field[ProfileInput]) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		_, err := tx.DeleteProfileByUserID(userID)
		return err
	}

	profile, err := tx.ProfileByUserID(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &models.Profile{UserID: userID}
		mergeProfile(profile, f.Value)
		return tx.CreateProfile(profile)
	}
	mergeProfile(profile, f.Value)
	return tx.SaveProfile(profile)
}

// mergeProfile applies supplied profile fields. Null and empty strings clear.
func mergeProfile(p *models.Profile, in ProfileInput) {
	p.Bio = mergeText(p.Bio, in.Bio)
	p.AvatarURL = mergeText(p.AvatarURL, in.AvatarURL)
}

func mergeText(current *string, f patch.Field[string]) *string {
	if !f.Set {
		return current
	}
	if f.Null || f.Value == "" {
		return nil
	}
	v := f.Value
	return &v
}

// DeleteUser removes the profile, the role assignments and the user, in
// that order, in one unit of work.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	var profiles, assignments int64
	err := s.run(ctx, "delete_user", func(tx *store.Tx) error {
		user, err := tx.UserByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound.WithDetail("userId", id.String())
		}

		if profiles, err = tx.DeleteProfileByUserID(id); err != nil {
			return err
		}
		if assignments, err = tx.ClearUserAssignments(id); err != nil {
			return err
		}

		deleted, err := tx.DeleteUser(id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUserNotFound.WithDetail("userId", id.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user deleted", "user_id", id, "profiles", profiles, "assignments", assignments)

	return &DeleteResult{Message: "user deleted"}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*UserView, error) {
	return s.loadUser(s.store.Reader(ctx), id)
}

// ListUsers returns users newest first with their primary role expanded.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]UserView, error) {
	users, err := s.store.Reader(ctx).ListUsers(store.UserFilter{Active: filter.Active, RoleID: filter.RoleID})
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(users))
	for i := range users {
		v := newUserView(&users[i], nil)
		v.Roles = nil
		out = append(out, *v)
	}
	return out, nil
}
