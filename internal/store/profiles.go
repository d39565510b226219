package store

import (
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/database/models"
)

func (t *Tx) ProfileByUserID(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := t.db.Where("user_id = ?", userID).First(&profile).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &profile, nil
}

func (t *Tx) CreateProfile(profile *models.Profile) error {
	return classify(t.db.Create(profile).Error)
}

// SaveProfile writes every column of an existing profile, nulls included.
func (t *Tx) SaveProfile(profile *models.Profile) error {
	return classify(t.db.Save(profile).Error)
}

func (t *Tx) DeleteProfileByUserID(userID uuid.UUID) (int64, error) {
	res := t.db.Where("user_id = ?", userID).Delete(&models.Profile{})
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}
