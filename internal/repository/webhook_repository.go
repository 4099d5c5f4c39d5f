package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type WebhookRepository interface {
	GetAll() ([]model.WebhookConfig, error)
	FindActive() (*model.WebhookConfig, error)
	FindByID(id uint) (*model.WebhookConfig, error)
	Create(config *model.WebhookConfig) error
	Update(config *model.WebhookConfig) error
}

type webhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db}
}

func (r *webhookRepository) GetAll() ([]model.WebhookConfig, error) {
	var configs []model.WebhookConfig
	err := r.db.Order("created_at asc").Find(&configs).Error
	return configs, err
}

// FindActive returns the active webhook config, or gorm.ErrRecordNotFound
// when none is active. Analysis requests must fail locally in that case.
func (r *webhookRepository) FindActive() (*model.WebhookConfig, error) {
	var config model.WebhookConfig
	if err := r.db.Where("is_active = ?", true).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *webhookRepository) FindByID(id uint) (*model.WebhookConfig, error) {
	var config model.WebhookConfig
	if err := r.db.First(&config, id).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *webhookRepository) Create(config *model.WebhookConfig) error {
	return r.db.Create(config).Error
}

func (r *webhookRepository) Update(config *model.WebhookConfig) error {
	return r.db.Save(config).Error
}
