package models

import "github.com/google/uuid"

// ResultQuery filters and pages evaluation records for one job.
type ResultQuery struct {
	MinScore       *int             `query:"min_score" json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
	MaxScore       *int             `query:"max_score" json:"max_score,omitempty" validate:"omitempty,min=0,max=100"`
	Recommendation Recommendation   `query:"recommendation" json:"recommendation,omitempty" validate:"omitempty,oneof=STRONG_MATCH GOOD_MATCH FAIR_MATCH NO_MATCH"`
	Status         ProcessingStatus `query:"status" json:"status,omitempty" validate:"omitempty,oneof=pending completed failed"`
	Limit          int              `query:"limit" json:"limit" validate:"omitempty,min=1,max=1000"`
	Offset         int              `query:"offset" json:"offset" validate:"gte=0"`
	SortBy         string           `query:"sort_by" json:"sort_by,omitempty" validate:"omitempty,oneof=overall_score evaluated_at candidate_name"`
	SortOrder      string           `query:"sort_order" json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
}

const (
	DefaultResultLimit = 100
	MaxResultLimit     = 1000
)

// Normalize fills defaults for unset paging and sort fields.
func (q *ResultQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultResultLimit
	}
	if q.Limit > MaxResultLimit {
		q.Limit = MaxResultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.SortBy == "" {
		q.SortBy = "overall_score"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

type BatchItemError struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

type BatchEvaluationResponse struct {
	JobRequirementID uuid.UUID        `json:"job_requirement_id"`
	TotalProcessed   int              `json:"total_processed"`
	Successful       int              `json:"successful"`
	Failed           int              `json:"failed"`
	Results          []*Evaluation    `json:"results"`
	Errors           []BatchItemError `json:"errors,omitempty"`
}

type BatchAcceptedResponse struct {
	BatchID string `json:"batch_id"`
	State   string `json:"state"`
	Total   int    `json:"total"`
	Chunks  int    `json:"chunks"`
}

type InterviewPlanRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"required,min=1,max=240"`
	ScreeningPct    int `json:"screening_pct" validate:"min=0,max=100"`
	TechnicalPct    int `json:"technical_pct" validate:"min=0,max=100"`
	HRPct           int `json:"hr_pct" validate:"min=0,max=100"`
}

type InterviewQuestionsRequest struct {
	EvaluationID string `json:"evaluation_id" validate:"required,uuid"`
	InterviewPlanRequest
}

type SearchHit struct {
	EvaluationID  string  `json:"evaluation_id"`
	CandidateName string  `json:"candidate_name"`
	Score         float32 `json:"score"`
	Snippet       string  `json:"snippet,omitempty"`
}

type FixNamesResponse struct {
	Checked int `json:"checked"`
	Fixed   int `json:"fixed"`
}
