package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessingStatus string

const (
	StatusPending   ProcessingStatus = "pending"
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

type Recommendation string

const (
	RecommendationStrongMatch Recommendation = "STRONG_MATCH"
	RecommendationGoodMatch   Recommendation = "GOOD_MATCH"
	RecommendationFairMatch   Recommendation = "FAIR_MATCH"
	RecommendationNoMatch     Recommendation = "NO_MATCH"
)

// UnknownCandidate is stored when no name could be extracted.
const UnknownCandidate = "Unknown"

type ExperienceDetails struct {
	Years     float64  `json:"years"`
	Relevance string   `json:"relevance"`
	KeyRoles  []string `json:"key_roles,omitempty"`
}

type EducationDetails struct {
	HighestDegree string `json:"highest_degree"`
	Relevance     string `json:"relevance"`
}

type EvaluationMetadata struct {
	JobTitle                string   `json:"job_title"`
	RequiredExperienceYears int      `json:"required_experience_years"`
	RequiredSkillsCount     int      `json:"required_skills_count"`
	JobLevel                JobLevel `json:"job_level"`
	DifficultyScore         int      `json:"difficulty_score"`
	UsedAIAnalysis          bool     `json:"used_ai_analysis"`
	FallbackReason          string   `json:"fallback_reason,omitempty"`
}

// Evaluation is the outcome of scoring one resume against one job requirement.
// Failed records carry ProcessingError and leave every score nil.
type Evaluation struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobRequirementID uuid.UUID `gorm:"type:uuid;not null;index" json:"job_requirement_id"`

	CandidateName    string `gorm:"type:text;not null;default:'Unknown'" json:"candidate_name"`
	CandidateEmail   string `gorm:"type:text" json:"candidate_email,omitempty"`
	CandidatePhone   string `gorm:"type:text" json:"candidate_phone,omitempty"`
	ResumeFileName   string `gorm:"type:text" json:"resume_file_name"`
	ResumeFileURL    string `gorm:"type:text" json:"resume_file_url,omitempty"`
	ParsedResumeText string `gorm:"type:text" json:"parsed_resume_text,omitempty"`

	SkillsScore     *int `json:"skills_score,omitempty"`
	ExperienceScore *int `json:"experience_score,omitempty"`
	EducationScore  *int `json:"education_score,omitempty"`
	OverallScore    *int `gorm:"index" json:"overall_score,omitempty"`

	SkillsMatched     datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"skills_matched"`
	SkillsMissing     datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"skills_missing"`
	ExperienceDetails datatypes.JSONType[ExperienceDetails]  `gorm:"type:jsonb" json:"experience_details"`
	EducationDetails  datatypes.JSONType[EducationDetails]   `gorm:"type:jsonb" json:"education_details"`
	KeyStrengths      datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"key_strengths"`
	ImprovementAreas  datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"improvement_areas"`
	Metadata          datatypes.JSONType[EvaluationMetadata] `gorm:"type:jsonb" json:"evaluation_metadata"`
	EvaluationSummary string                                 `gorm:"type:text" json:"evaluation_summary,omitempty"`
	Recommendation    Recommendation                         `gorm:"type:text;index" json:"recommendation,omitempty"`

	ProcessingStatus ProcessingStatus `gorm:"type:text;not null;default:'pending';index" json:"processing_status"`
	ProcessingError  string           `gorm:"type:text" json:"processing_error,omitempty"`
	ProcessingTimeMs *int64           `json:"processing_time_ms,omitempty"`
	AIModel          string           `gorm:"type:text" json:"ai_model,omitempty"`

	// AIRawResponse is kept in memory for debugging and never written to the store.
	AIRawResponse string `gorm:"-" json:"-"`

	EvaluatedAt time.Time `json:"evaluated_at"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// Scored reports whether the record carries an overall score.
func (e *Evaluation) Scored() bool {
	return e != nil && e.OverallScore != nil
}
