package store

import (
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
	"gorm.io/gorm/clause"
)

var userRolePair = []clause.Column{{Name: "user_id"}, {Name: "role_id"}}

// AddAssignments gives roleID to every user in userIDs. Pairs that already
// exist are skipped, so the call is idempotent. It returns the number of
// rows actually inserted.
func (t *Tx) AddAssignments(roleID uuid.UUID, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	rows := make([]models.UserRole, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, models.UserRole{UserID: uid, RoleID: roleID})
	}
	res := t.db.Clauses(clause.OnConflict{Columns: userRolePair, DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// AssignRoles gives every role in roleIDs to userID.
func (t *Tx) AssignRoles(userID uuid.UUID, roleIDs []uuid.UUID) (int64, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}
	rows := make([]models.UserRole, 0, len(roleIDs))
	for _, rid := range roleIDs {
		rows = append(rows, models.UserRole{UserID: userID, RoleID: rid})
	}
	res := t.db.Clauses(clause.OnConflict{Columns: userRolePair, DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// RemoveAssignments takes roleID away from the given users.
func (t *Tx) RemoveAssignments(roleID uuid.UUID, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := t.db.Where("role_id = ? AND user_id IN ?", roleID, userIDs).Delete(&models.UserRole{})
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// ClearUserAssignments removes every additional role of userID.
func (t *Tx) ClearUserAssignments(userID uuid.UUID) (int64, error) {
	res := t.db.Where("user_id = ?", userID).Delete(&models.UserRole{})
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// ClearRoleAssignments removes roleID from every user holding it.
func (t *Tx) ClearRoleAssignments(roleID uuid.UUID) (int64, error) {
	res := t.db.Where("role_id = ?", roleID).Delete(&models.UserRole{})
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// HolderIDs returns the ids of users holding roleID through the association.
func (t *Tx) HolderIDs(roleID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := t.db.Model(&models.UserRole{}).Where("role_id = ?", roleID).Pluck("user_id", &ids).Error; err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

// Holders returns the users holding roleID through the association.
func (t *Tx) Holders(roleID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := t.db.
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Order("users.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// RolesOfUser returns the additional roles of userID, by name.
func (t *Tx) RolesOfUser(userID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	err := t.db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, classify(err)
	}
	return roles, nil
}

func (t *Tx) CountAssignments(userID, roleID uuid.UUID) (int64, error) {
	var count int64
	err := t.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}
