package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type AttachmentRepository interface {
	Create(attachment *model.Attachment) error
	FindByID(id uint) (*model.Attachment, error)
	GetByPermitID(permitID uint) ([]model.Attachment, error)
	Delete(id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db}
}

func (r *attachmentRepository) Create(attachment *model.Attachment) error {
	return r.db.Create(attachment).Error
}

func (r *attachmentRepository) FindByID(id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) GetByPermitID(permitID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.Where("permit_id = ?", permitID).Order("created_at asc").Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(id uint) error {
	return r.db.Delete(&model.Attachment{}, id).Error
}
