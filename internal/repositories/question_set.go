package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/cv-screener/internal/models"
)

type QuestionSetRepository interface {
	Upsert(ctx context.Context, set *models.InterviewQuestionSet) error
	FindByEvaluation(ctx context.Context, evaluationID uuid.UUID) (*models.InterviewQuestionSet, error)
}

type questionSetRepository struct {
	db *gorm.DB
}

func NewQuestionSetRepository(db *gorm.DB) QuestionSetRepository {
	return &questionSetRepository{db: db}
}

// Upsert replaces the question set stored for the same evaluation and job.
func (q *questionSetRepository) Upsert(ctx context.Context, set *models.InterviewQuestionSet) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "evaluation_id"}, {Name: "job_requirement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"duration_minutes", "allocation", "questions", "greeting_message", "updated_at"}),
	}).Create(set).Error
	if err != nil {
		return fmt.Errorf("failed to save question set: %w", err)
	}
	return nil
}

func (q *questionSetRepository) FindByEvaluation(ctx context.Context, evaluationID uuid.UUID) (*models.InterviewQuestionSet, error) {
	var set models.InterviewQuestionSet
	if err := q.db.WithContext(ctx).Where("evaluation_id = ?", evaluationID).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question set for %s: %w", evaluationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find question set: %w", err)
	}
	return &set, nil
}
