package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/validation"
)

type AssignUsersRequest struct {
	RoleID  string   `json:"roleId"`
	UserIDs []string `json:"userIds"`
}

func (r AssignUsersRequest) Validate() map[string]string {
	errors := make(map[string]string)

	checkID(errors, "roleId", r.RoleID)
	if len(r.UserIDs) == 0 {
		errors["userIds"] = "userIds must contain at least one user"
	} else {
		checkIDs(errors, "userIds", r.UserIDs)
	}

	return errors
}

func (r AssignUsersRequest) IDs() (uuid.UUID, []uuid.UUID) {
	return uuid.MustParse(r.RoleID), parseIDs(r.UserIDs)
}

type TransferUsersRequest struct {
	SourceRoleID string `json:"sourceRoleId"`
	TargetRoleID string `json:"targetRoleId"`
}

func (r TransferUsersRequest) Validate() map[string]string {
	errors := make(map[string]string)
	checkID(errors, "sourceRoleId", r.SourceRoleID)
	checkID(errors, "targetRoleId", r.TargetRoleID)
	return errors
}

func (r TransferUsersRequest) IDs() (uuid.UUID, uuid.UUID) {
	return uuid.MustParse(r.SourceRoleID), uuid.MustParse(r.TargetRoleID)
}

type DeleteRoleRequest struct {
	ReplacementRoleID *string `json:"replacementRoleId"`
}

func (r DeleteRoleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.ReplacementRoleID != nil {
		checkID(errors, "replacementRoleId", *r.ReplacementRoleID)
	}
	return errors
}

func (r DeleteRoleRequest) Replacement() *uuid.UUID {
	if r.ReplacementRoleID == nil {
		return nil
	}
	id := uuid.MustParse(*r.ReplacementRoleID)
	return &id
}

type NewUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Profile  *ProfileRequest `json:"profile"`
}

type CreateUserWithRoleRequest struct {
	User NewUserRequest    `json:"user"`
	Role CreateRoleRequest `json:"role"`
}

func (r CreateUserWithRoleRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.LengthBetween(validation.SanitizeString(r.User.Name), 2, 100) {
		errors["user.name"] = "Name must be between 2 and 100 characters"
	}
	if !validation.IsValidEmail(strings.TrimSpace(r.User.Email)) {
		errors["user.email"] = "Email must be valid"
	}
	if ok, msg := validation.IsValidPassword(r.User.Password); !ok {
		errors["user.password"] = msg
	}
	if r.User.Profile != nil {
		r.User.Profile.validate(errors)
	}
	r.Role.validate(errors, "role.")

	return errors
}

func (r CreateUserWithRoleRequest) ToInput() accounts.CreateUserWithRoleInput {
	in := accounts.CreateUserWithRoleInput{
		Name:     validation.SanitizeString(r.User.Name),
		Email:    strings.TrimSpace(r.User.Email),
		Password: r.User.Password,
		Role:     r.Role.ToInput(),
	}
	if r.User.Profile != nil {
		p := r.User.Profile.toInput()
		in.Profile = &p
	}
	return in
}

type AssignResponse struct {
	Role     accounts.RoleSummary `json:"role"`
	Assigned int                  `json:"assigned"`
	Added    int64                `json:"added"`
}

type TransferResponse struct {
	Source      accounts.RoleSummary `json:"sourceRole"`
	Target      accounts.RoleSummary `json:"targetRole"`
	Transferred int                  `json:"transferred"`
}

type RoleDeletionResponse struct {
	Affected          int        `json:"affected"`
	ReplacementRoleID *uuid.UUID `json:"replacementRoleId"`
	PrimaryCleared    int64      `json:"primaryCleared"`
}

type UserWithRoleResponse struct {
	User        *accounts.UserView `json:"user"`
	RoleCreated bool               `json:"roleCreated"`
}
