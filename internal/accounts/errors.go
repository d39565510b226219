package accounts

import "github.com/hugh/go-roster/internal/apperr"

var (
	ErrUserNotFound      = apperr.New(apperr.NotFound, "USER_NOT_FOUND", "user not found")
	ErrRoleNotFound      = apperr.New(apperr.NotFound, "ROLE_NOT_FOUND", "role not found")
	ErrRolesNotFound     = apperr.New(apperr.Validation, "ROLES_NOT_FOUND", "some of the given roles do not exist")
	ErrUsersNotFound     = apperr.New(apperr.Validation, "USERS_NOT_FOUND", "some of the given users do not exist")
	ErrDuplicateEmail    = apperr.New(apperr.Conflict, "DUPLICATE_EMAIL", "email is already registered")
	ErrDuplicateRoleName = apperr.New(apperr.Conflict, "DUPLICATE_ROLE_NAME", "a role with that name already exists")
	ErrNoUsersToTransfer = apperr.New(apperr.Validation, "NO_USERS_TO_TRANSFER", "no users hold the source role")
	ErrSameRole          = apperr.New(apperr.Validation, "SAME_ROLE", "source and target role must differ")
	ErrRoleInUse         = apperr.New(apperr.Conflict, "ROLE_IN_USE", "role is the primary role of one or more users")
	ErrFieldNotClearable = apperr.New(apperr.Validation, "FIELD_NOT_CLEARABLE", "field cannot be cleared")
	ErrInvalidPassword   = apperr.New(apperr.Validation, "INVALID_PASSWORD", "password is required")
)
