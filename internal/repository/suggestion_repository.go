package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type SuggestionRepository interface {
	CreateMany(suggestions []model.Suggestion) error
	FindByID(id uint) (*model.Suggestion, error)
	GetByPermitID(permitID uint) ([]model.Suggestion, error)
	GetPendingByPermitID(permitID uint) ([]model.Suggestion, error)
	Update(suggestion *model.Suggestion) error
	RejectAllPending(permitID uint) (int64, error)
	DeleteByPermitID(permitID uint) error
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db}
}

func (r *suggestionRepository) CreateMany(suggestions []model.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	return r.db.Create(&suggestions).Error
}

func (r *suggestionRepository) FindByID(id uint) (*model.Suggestion, error) {
	var suggestion model.Suggestion
	if err := r.db.First(&suggestion, id).Error; err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepository) GetByPermitID(permitID uint) ([]model.Suggestion, error) {
	var list []model.Suggestion
	err := r.db.Where("permit_id = ?", permitID).Order("created_at asc").Find(&list).Error
	return list, err
}

func (r *suggestionRepository) GetPendingByPermitID(permitID uint) ([]model.Suggestion, error) {
	var list []model.Suggestion
	err := r.db.Where("permit_id = ? AND status = ?", permitID, model.SuggestionPending).
		Order("created_at asc").Find(&list).Error
	return list, err
}

func (r *suggestionRepository) Update(suggestion *model.Suggestion) error {
	return r.db.Save(suggestion).Error
}

// RejectAllPending flips every pending suggestion of the permit to rejected.
// Zero pending suggestions is not an error; the call just reports 0 affected.
func (r *suggestionRepository) RejectAllPending(permitID uint) (int64, error) {
	result := r.db.Model(&model.Suggestion{}).
		Where("permit_id = ? AND status = ?", permitID, model.SuggestionPending).
		Update("status", model.SuggestionRejected)
	return result.RowsAffected, result.Error
}

func (r *suggestionRepository) DeleteByPermitID(permitID uint) error {
	return r.db.Where("permit_id = ?", permitID).Delete(&model.Suggestion{}).Error
}
