package store

import (
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
)

type RoleFilter struct {
	Active *bool
}

// RoleByID returns nil with no error when the role does not exist.
func (t *Tx) RoleByID(id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := t.db.Where("id = ?", id).First(&role).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &role, nil
}

func (t *Tx) RoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := t.db.Where("name = ?", name).First(&role).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &role, nil
}

// RoleNameTaken reports whether name belongs to a role other than exceptID.
func (t *Tx) RoleNameTaken(name string, exceptID *uuid.UUID) (bool, error) {
	q := t.db.Model(&models.Role{}).Where("name = ?", name)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (t *Tx) RolesByIDs(ids []uuid.UUID) ([]models.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []models.Role
	if err := t.db.Where("id IN ?", ids).Order("name").Find(&roles).Error; err != nil {
		return nil, classify(err)
	}
	return roles, nil
}

func (t *Tx) CreateRole(role *models.Role) error {
	return classify(t.db.Create(role).Error)
}

func (t *Tx) UpdateRoleFields(id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return classify(t.db.Model(&models.Role{}).Where("id = ?", id).Updates(fields).Error)
}

func (t *Tx) DeleteRole(id uuid.UUID) (bool, error) {
	res := t.db.Where("id = ?", id).Delete(&models.Role{})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListRoles returns roles newest first.
func (t *Tx) ListRoles(filter RoleFilter) ([]models.Role, error) {
	q := t.db.Order("created_at DESC")
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	var roles []models.Role
	if err := q.Find(&roles).Error; err != nil {
		return nil, classify(err)
	}
	return roles, nil
}
