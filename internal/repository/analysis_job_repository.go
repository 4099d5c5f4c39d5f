package repository

import (
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type AnalysisJobRepository interface {
	Create(job *model.AnalysisJob) error
	Update(job *model.AnalysisJob) error
	FindByJobID(jobID string) (*model.AnalysisJob, error)
	LatestByPermitID(permitID uint) (*model.AnalysisJob, error)
}

type analysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) AnalysisJobRepository {
	return &analysisJobRepository{db}
}

func (r *analysisJobRepository) Create(job *model.AnalysisJob) error {
	return r.db.Create(job).Error
}

func (r *analysisJobRepository) Update(job *model.AnalysisJob) error {
	return r.db.Save(job).Error
}

func (r *analysisJobRepository) FindByJobID(jobID string) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	if err := r.db.Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *analysisJobRepository) LatestByPermitID(permitID uint) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.Where("permit_id = ?", permitID).Order("created_at desc").First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}
