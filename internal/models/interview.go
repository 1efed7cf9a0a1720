package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionAllocation struct {
	Screening           int `json:"screening"`
	Technical           int `json:"technical"`
	HR                  int `json:"hr"`
	BaseTotal           int `json:"base_total"`
	TotalWithVariations int `json:"total_with_variations"`
}

type QuestionCategory string

const (
	CategoryScreening QuestionCategory = "screening"
	CategoryTechnical QuestionCategory = "technical"
	CategoryHR        QuestionCategory = "hr"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "EASY"
	DifficultyMedium    Difficulty = "MEDIUM"
	DifficultyDifficult Difficulty = "DIFFICULT"
)

type QuestionVariation struct {
	Difficulty      Difficulty `json:"difficulty"`
	Question        string     `json:"question"`
	DurationSeconds int        `json:"duration_seconds"`
}

type BaseQuestion struct {
	Category   QuestionCategory    `json:"category"`
	Number     int                 `json:"question_number"`
	Question   string              `json:"base_question"`
	Variations []QuestionVariation `json:"variations"`
}

// InterviewQuestionSet is the generated question bank for one candidate and job.
type InterviewQuestionSet struct {
	ID               uuid.UUID                              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EvaluationID     uuid.UUID                              `gorm:"type:uuid;not null;uniqueIndex:idx_question_set_candidate_job" json:"evaluation_id"`
	JobRequirementID uuid.UUID                              `gorm:"type:uuid;not null;uniqueIndex:idx_question_set_candidate_job" json:"job_requirement_id"`
	DurationMinutes  int                                    `json:"duration_minutes"`
	Allocation       datatypes.JSONType[QuestionAllocation] `gorm:"type:jsonb" json:"allocation"`
	Questions        datatypes.JSONSlice[BaseQuestion]      `gorm:"type:jsonb" json:"questions"`
	GreetingMessage  string                                 `gorm:"type:text" json:"greeting_message"`
	CreatedAt        time.Time                              `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time                              `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewQuestionSet) TableName() string {
	return "interview_question_sets"
}
