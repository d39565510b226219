package dto

import (
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/validation"
	"github.com/hugh/go-roster/internal/patch"
)

type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r CreateRoleRequest) validate(errors map[string]string, prefix string) {
	if !validation.LengthBetween(validation.SanitizeString(r.Name), 2, 50) {
		errors[prefix+"name"] = "Role name must be between 2 and 50 characters"
	}
	if r.Description != nil && !validation.LengthBetween(*r.Description, 0, 500) {
		errors[prefix+"description"] = "Description must be at most 500 characters"
	}
}

func (r CreateRoleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	r.validate(errors, "")
	return errors
}

func (r CreateRoleRequest) ToInput() accounts.RoleInput {
	return accounts.RoleInput{Name: validation.SanitizeString(r.Name), Description: r.Description}
}

type UpdateRoleRequest struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
	Active      patch.Field[bool]   `json:"active"`
}

func (r UpdateRoleRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if name, ok := r.Name.Get(); ok && !validation.LengthBetween(validation.SanitizeString(name), 2, 50) {
		errors["name"] = "Role name must be between 2 and 50 characters"
	}
	if desc, ok := r.Description.Get(); ok && !validation.LengthBetween(desc, 0, 500) {
		errors["description"] = "Description must be at most 500 characters"
	}

	return errors
}

func (r UpdateRoleRequest) ToInput() accounts.UpdateRoleInput {
	in := accounts.UpdateRoleInput{Name: r.Name, Description: r.Description, Active: r.Active}
	if v, ok := in.Name.Get(); ok {
		in.Name.Value = validation.SanitizeString(v)
	}
	return in
}
