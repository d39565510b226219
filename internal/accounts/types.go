package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/patch"
)

type ProfileInput struct {
	Bio       patch.Field[string]
	AvatarURL patch.Field[string]
}

type CreateUserInput struct {
	Name          string
	Email         string
	Password      string
	PrimaryRoleID *uuid.UUID
	RoleIDs       []uuid.UUID
	Profile       *ProfileInput
}

// UpdateUserInput carries only the fields the caller sent. See UpdateUser
// for how null is treated per field.
type UpdateUserInput struct {
	Name          patch.Field[string]
	Email         patch.Field[string]
	Password      patch.Field[string]
	Active        patch.Field[bool]
	PrimaryRoleID patch.Field[uuid.UUID]
	RoleIDs       patch.Field[[]uuid.UUID]
	Profile       patch.Field[ProfileInput]
}

type RoleInput struct {
	Name        string
	Description *string
}

type UpdateRoleInput struct {
	Name        patch.Field[string]
	Description patch.Field[string]
	Active      patch.Field[bool]
}

type CreateUserWithRoleInput struct {
	Name     string
	Email    string
	Password string
	Profile  *ProfileInput
	Role     RoleInput
}

type UserFilter struct {
	Active *bool
	RoleID *uuid.UUID
}

type RoleFilter struct {
	Active *bool
}

type RoleSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

type ProfileView struct {
	ID        uuid.UUID `json:"id"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatarUrl"`
}

// UserView is the outward shape of a user. It never carries the password digest.
type UserView struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Active        bool          `json:"active"`
	PrimaryRoleID *uuid.UUID    `json:"roleId"`
	PrimaryRole   *RoleSummary  `json:"role"`
	Roles         []RoleSummary `json:"roles"`
	Profile       *ProfileView  `json:"profile"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Active bool      `json:"active"`
}

type RoleView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Active      bool          `json:"active"`
	Users       []UserSummary `json:"users"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// RoleUsersView lists both ways a user can hold a role.
type RoleUsersView struct {
	Role         RoleSummary   `json:"role"`
	PrimaryUsers []UserSummary `json:"primaryUsers"`
	Assigned     []UserSummary `json:"assignedUsers"`
}

type UserResult struct {
	Message string
	User    *UserView
}

type RoleResult struct {
	Message string
	Role    *RoleView
}

type DeleteResult struct {
	Message string
}

type AssignResult struct {
	Message  string
	Role     RoleSummary
	Assigned int
	// Added counts associations that did not exist before the call.
	Added int64
}

type TransferResult struct {
	Message     string
	Source      RoleSummary
	Target      RoleSummary
	Transferred int
}

type RoleDeletionResult struct {
	Message        string
	Affected       int
	ReplacementID  *uuid.UUID
	PrimaryCleared int64
}

type CreateUserWithRoleResult struct {
	Message     string
	User        *UserView
	RoleCreated bool
}

func newRoleSummary(r *models.Role) RoleSummary {
	return RoleSummary{ID: r.ID, Name: r.Name, Description: r.Description}
}

func newUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Active: u.Active})
	}
	return out
}

func newUserView(u *models.User, roles []models.Role) *UserView {
	v := &UserView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Active:        u.Active,
		PrimaryRoleID: u.PrimaryRoleID,
		Roles:         make([]RoleSummary, 0, len(roles)),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.PrimaryRole != nil {
		s := newRoleSummary(u.PrimaryRole)
		v.PrimaryRole = &s
	}
	for i := range roles {
		v.Roles = append(v.Roles, newRoleSummary(&roles[i]))
	}
	if u.Profile != nil {
		v.Profile = &ProfileView{ID: u.Profile.ID, Bio: u.Profile.Bio, AvatarURL: u.Profile.AvatarURL}
	}
	return v
}

func newRoleView(r *models.Role, users []models.User) *RoleView {
	return &RoleView{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		Users:       newUserSummaries(users),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
