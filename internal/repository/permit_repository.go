package repository

import (
	"time"

	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type PermitRepository interface {
	Create(permit *model.Permit) error
	Update(permit *model.Permit) error
	Delete(id uint) error
	FindByID(id uint) (*model.Permit, error)
	GetAll(status string) ([]model.Permit, error)
	GetMapped() ([]model.Permit, error)
	CountByStatus() (map[string]int64, error)
	CountCreatedInYear(year int) (int64, error)
	GetExpirable() ([]model.Permit, error)
}

type permitRepository struct {
	db *gorm.DB
}

func NewPermitRepository(db *gorm.DB) PermitRepository {
	return &permitRepository{db}
}

func (r *permitRepository) Create(permit *model.Permit) error {
	return r.db.Create(permit).Error
}

func (r *permitRepository) Update(permit *model.Permit) error {
	return r.db.Save(permit).Error
}

func (r *permitRepository) Delete(id uint) error {
	return r.db.Delete(&model.Permit{}, id).Error
}

func (r *permitRepository) FindByID(id uint) (*model.Permit, error) {
	var permit model.Permit
	err := r.db.Preload("WorkLocation").Preload("Attachments").First(&permit, id).Error
	if err != nil {
		return nil, err
	}
	return &permit, nil
}

func (r *permitRepository) GetAll(status string) ([]model.Permit, error) {
	var permits []model.Permit
	query := r.db.Preload("WorkLocation").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&permits).Error
	return permits, err
}

// GetMapped returns only permits placed on the site map.
func (r *permitRepository) GetMapped() ([]model.Permit, error) {
	var permits []model.Permit
	err := r.db.Where("map_position_x IS NOT NULL AND map_position_y IS NOT NULL").
		Order("created_at desc").
		Find(&permits).Error
	return permits, err
}

func (r *permitRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.Permit{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *permitRepository) CountCreatedInYear(year int) (int64, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)
	var count int64
	err := r.db.Model(&model.Permit{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// GetExpirable returns permits in the statuses the expiry sweeper may lapse.
func (r *permitRepository) GetExpirable() ([]model.Permit, error) {
	var permits []model.Permit
	err := r.db.Where("status IN ?", []model.PermitStatus{model.StatusApproved, model.StatusActive}).
		Find(&permits).Error
	return permits, err
}
