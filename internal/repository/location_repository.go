package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type LocationRepository interface {
	GetActive() ([]model.WorkLocation, error)
	GetAll() ([]model.WorkLocation, error)
	FindByID(id uint) (*model.WorkLocation, error)
	Create(location *model.WorkLocation) error
	Update(location *model.WorkLocation) error
	GetMapBackgrounds() ([]model.MapBackground, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db}
}

func (r *locationRepository) GetActive() ([]model.WorkLocation, error) {
	var locations []model.WorkLocation
	err := r.db.Where("is_active = ?", true).Order("name asc").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) GetAll() ([]model.WorkLocation, error) {
	var locations []model.WorkLocation
	err := r.db.Order("name asc").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) FindByID(id uint) (*model.WorkLocation, error) {
	var location model.WorkLocation
	if err := r.db.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) Create(location *model.WorkLocation) error {
	return r.db.Create(location).Error
}

func (r *locationRepository) Update(location *model.WorkLocation) error {
	return r.db.Save(location).Error
}

func (r *locationRepository) GetMapBackgrounds() ([]model.MapBackground, error) {
	var backgrounds []model.MapBackground
	err := r.db.Order("is_default desc, name asc").Find(&backgrounds).Error
	return backgrounds, err
}
