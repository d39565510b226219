package models

import "github.com/google/uuid"

// UserRole is the additional-role association. A (user, role) pair is stored once.
type UserRole struct {
	Base
	UserID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_user_roles_user_role" json:"userId"`
	RoleID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_user_roles_user_role;index" json:"roleId"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
