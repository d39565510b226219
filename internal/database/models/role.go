package models

type Role struct {
	Base
	Name        string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:500" json:"description"`
	Active      bool    `gorm:"not null;default:true" json:"active"`
}

func (Role) TableName() string {
	return "roles"
}
