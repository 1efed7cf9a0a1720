package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

type JobRequirementRepository interface {
	Create(ctx context.Context, job *models.JobRequirement) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobRequirement, error)
}

type jobRequirementRepository struct {
	db *gorm.DB
}

func NewJobRequirementRepository(db *gorm.DB) JobRequirementRepository {
	return &jobRequirementRepository{db: db}
}

// Create implements JobRequirementRepository.
func (j *jobRequirementRepository) Create(ctx context.Context, job *models.JobRequirement) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if err := j.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job requirement: %w", err)
	}
	return nil
}

// FindByID implements JobRequirementRepository.
func (j *jobRequirementRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobRequirement, error) {
	var job models.JobRequirement
	if err := j.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job requirement %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job requirement: %w", err)
	}
	return &job, nil
}
