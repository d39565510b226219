package models

import "github.com/google/uuid"

// Profile is owned by exactly one user and goes away with it.
type Profile struct {
	Base
	UserID    uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"userId"`
	Bio       *string   `gorm:"size:1000" json:"bio"`
	AvatarURL *string   `gorm:"size:500" json:"avatarUrl"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
