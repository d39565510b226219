package models

import "github.com/google/uuid"

type User struct {
	Base
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Active        bool       `gorm:"not null;default:true" json:"active"`
	PrimaryRoleID *uuid.UUID `gorm:"type:char(36);index" json:"roleId"`

	// Relationships
	PrimaryRole *Role    `gorm:"foreignKey:PrimaryRoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role,omitempty"`
	Profile     *Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
