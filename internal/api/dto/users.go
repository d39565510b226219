package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/validation"
	"github.com/hugh/go-roster/internal/patch"
)

type ProfileRequest struct {
	Bio       patch.Field[string] `json:"bio"`
	AvatarURL patch.Field[string] `json:"avatarUrl"`
}

func (p ProfileRequest) validate(errors map[string]string) {
	if bio, ok := p.Bio.Get(); ok && !validation.LengthBetween(bio, 0, 1000) {
		errors["profile.bio"] = "Bio must be at most 1000 characters"
	}
	if avatar, ok := p.AvatarURL.Get(); ok && avatar != "" {
		if len(avatar) > 500 {
			errors["profile.avatarUrl"] = "Avatar URL must be at most 500 characters"
		} else if !validation.IsValidHTTPURL(avatar) {
			errors["profile.avatarUrl"] = "Avatar URL must be an absolute http(s) URL"
		}
	}
}

func (p ProfileRequest) toInput() accounts.ProfileInput {
	in := accounts.ProfileInput{Bio: p.Bio, AvatarURL: p.AvatarURL}
	if v, ok := in.AvatarURL.Get(); ok {
		in.AvatarURL.Value = strings.TrimSpace(v)
	}
	return in
}

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	RoleID   *string         `json:"roleId"`
	RolesIDs []string        `json:"rolesIds"`
	Profile  *ProfileRequest `json:"profile"`
}

func validateIdentity(errors map[string]string, name, email string) {
	if !validation.LengthBetween(validation.SanitizeString(name), 2, 100) {
		errors["name"] = "Name must be between 2 and 100 characters"
	}
	if !validation.IsValidEmail(strings.TrimSpace(email)) {
		errors["email"] = "Email must be valid"
	}
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	validateIdentity(errors, r.Name, r.Email)
	if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.RoleID != nil {
		checkID(errors, "roleId", *r.RoleID)
	}
	checkIDs(errors, "rolesIds", r.RolesIDs)
	if r.Profile != nil {
		r.Profile.validate(errors)
	}

	return errors
}

func (r CreateUserRequest) ToInput() accounts.CreateUserInput {
	in := accounts.CreateUserInput{
		Name:     validation.SanitizeString(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		RoleIDs:  parseIDs(r.RolesIDs),
	}
	if r.RoleID != nil {
		id := uuid.MustParse(*r.RoleID)
		in.PrimaryRoleID = &id
	}
	if r.Profile != nil {
		p := r.Profile.toInput()
		in.Profile = &p
	}
	return in
}

// UpdateUserRequest tells apart omitted keys, null keys and values.
type UpdateUserRequest struct {
	Name     patch.Field[string]         `json:"name"`
	Email    patch.Field[string]         `json:"email"`
	Password patch.Field[string]         `json:"password"`
	Active   patch.Field[bool]           `json:"active"`
	RoleID   patch.Field[string]         `json:"roleId"`
	RolesIDs patch.Field[[]string]       `json:"rolesIds"`
	Profile  patch.Field[ProfileRequest] `json:"profile"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if name, ok := r.Name.Get(); ok && !validation.LengthBetween(validation.SanitizeString(name), 2, 100) {
		errors["name"] = "Name must be between 2 and 100 characters"
	}
	if email, ok := r.Email.Get(); ok && !validation.IsValidEmail(strings.TrimSpace(email)) {
		errors["email"] = "Email must be valid"
	}
	if pw, ok := r.Password.Get(); ok && pw != "" {
		if valid, msg := validation.IsValidPassword(pw); !valid {
			errors["password"] = msg
		}
	}
	if id, ok := r.RoleID.Get(); ok {
		checkID(errors, "roleId", id)
	}
	if ids, ok := r.RolesIDs.Get(); ok {
		checkIDs(errors, "rolesIds", ids)
	}
	if p, ok := r.Profile.Get(); ok {
		p.validate(errors)
	}

	return errors
}

func (r UpdateUserRequest) ToInput() accounts.UpdateUserInput {
	in := accounts.UpdateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Active:   r.Active,
	}
	if v, ok := in.Name.Get(); ok {
		in.Name.Value = validation.SanitizeString(v)
	}
	if v, ok := in.Email.Get(); ok {
		in.Email.Value = strings.TrimSpace(v)
	}

	switch {
	case r.RoleID.IsNull():
		in.PrimaryRoleID = patch.Null[uuid.UUID]()
	case r.RoleID.HasValue():
		in.PrimaryRoleID = patch.Value(uuid.MustParse(r.RoleID.Value))
	}

	switch {
	case r.RolesIDs.IsNull():
		in.RoleIDs = patch.Value([]uuid.UUID{})
	case r.RolesIDs.HasValue():
		in.RoleIDs = patch.Value(parseIDs(r.RolesIDs.Value))
	}

	switch {
	case r.Profile.IsNull():
		in.Profile = patch.Null[accounts.ProfileInput]()
	case r.Profile.HasValue():
		in.Profile = patch.Value(r.Profile.Value.toInput())
	}

	return in
}
