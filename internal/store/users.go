package store

import (
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
)

type UserFilter struct {
	Active *bool
	RoleID *uuid.UUID
}

// UserByID loads the user with its primary role and profile. A missing
// user is returned as nil with no error.
func (t *Tx) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := t.db.
		Preload("PrimaryRole").
		Preload("Profile").
		Where("id = ?", id).
		First(&user).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// EmailTaken reports whether email belongs to a user other than exceptID.
func (t *Tx) EmailTaken(email string, exceptID *uuid.UUID) (bool, error) {
	q := t.db.Model(&models.User{}).Where("email = ?", email)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (t *Tx) UsersByIDs(ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := t.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (t *Tx) CreateUser(user *models.User) error {
	return classify(t.db.Create(user).Error)
}

// UpdateUserFields applies column updates. Keys are column names.
func (t *Tx) UpdateUserFields(id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return classify(t.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error)
}

// DeleteUser removes the user row and reports whether it existed.
func (t *Tx) DeleteUser(id uuid.UUID) (bool, error) {
	res := t.db.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListUsers returns users newest first with their primary role.
func (t *Tx) ListUsers(filter UserFilter) ([]models.User, error) {
	q := t.db.Preload("PrimaryRole").Order("created_at DESC")
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.RoleID != nil {
		q = q.Where("primary_role_id = ?", *filter.RoleID)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// UsersWithPrimaryRole returns the users whose primary role is roleID.
func (t *Tx) UsersWithPrimaryRole(roleID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := t.db.Where("primary_role_id = ?", roleID).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (t *Tx) CountPrimaryHolders(roleID uuid.UUID) (int64, error) {
	var count int64
	if err := t.db.Model(&models.User{}).Where("primary_role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// ClearPrimaryRole nulls every primary role reference to roleID.
func (t *Tx) ClearPrimaryRole(roleID uuid.UUID) (int64, error) {
	res := t.db.Model(&models.User{}).
		Where("primary_role_id = ?", roleID).
		Update("primary_role_id", nil)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// SweepDanglingPrimaryRoles nulls primary role references that point at no
// existing role.
func (t *Tx) SweepDanglingPrimaryRoles() (int64, error) {
	roleIDs := t.db.Model(&models.Role{}).Select("id")
	res := t.db.Model(&models.User{}).
		Where("primary_role_id IS NOT NULL AND primary_role_id NOT IN (?)", roleIDs).
		Update("primary_role_id", nil)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}
