package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("record not found")

type EvaluationRepository interface {
	Create(ctx context.Context, eval *models.Evaluation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Evaluation, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, q models.ResultQuery) ([]*models.Evaluation, error)
	AllByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Evaluation, error)
	UpdateCandidateName(ctx context.Context, id uuid.UUID, name string) error
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

var sortColumns = map[string]string{
	"overall_score":  "overall_score",
	"evaluated_at":   "evaluated_at",
	"candidate_name": "candidate_name",
}

func (r *evaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&eval).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) ListByJob(ctx context.Context, jobID uuid.UUID, q models.ResultQuery) ([]*models.Evaluation, error) {
	q.Normalize()

	tx := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("job_requirement_id = ?", jobID)

	if q.MinScore != nil {
		tx = tx.Where("overall_score >= ?", *q.MinScore)
	}
	if q.MaxScore != nil {
		tx = tx.Where("overall_score <= ?", *q.MaxScore)
	}
	if q.Recommendation != "" {
		tx = tx.Where("recommendation = ?", q.Recommendation)
	}
	if q.Status != "" {
		tx = tx.Where("processing_status = ?", q.Status)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "overall_score"
	}
	direction := "DESC NULLS LAST"
	if q.SortOrder == "asc" {
		direction = "ASC NULLS FIRST"
	}

	var evals []*models.Evaluation
	err := tx.
		Order(fmt.Sprintf("%s %s", column, direction)).
		Order("evaluated_at ASC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	return evals, nil
}

func (r *evaluationRepository) AllByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Evaluation, error) {
	var evals []*models.Evaluation
	err := r.db.WithContext(ctx).
		Where("job_requirement_id = ?", jobID).
		Order("created_at ASC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	return evals, nil
}

func (r *evaluationRepository) UpdateCandidateName(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"candidate_name": name,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate name: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}

	return nil
}
