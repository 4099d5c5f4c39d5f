package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type SettingsRepository interface {
	Get() (*model.AppSetting, error)
	Update(settings *model.AppSetting) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db}
}

// Get returns the singleton settings row, creating it with defaults on first use.
func (r *settingsRepository) Get() (*model.AppSetting, error) {
	var settings model.AppSetting
	if err := r.db.FirstOrCreate(&settings, model.AppSetting{}).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(settings *model.AppSetting) error {
	return r.db.Save(settings).Error
}
