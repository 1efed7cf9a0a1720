package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/repositories"
)

// ExtractionError means the document could not be opened or decoded at all.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ScoringError means the external scorer could not be reached or exhausted its retries.
// A reachable scorer returning malformed content is not a ScoringError.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %v", e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// JobNotFoundError fails a whole batch: there is no baseline to score against.
type JobNotFoundError struct {
	JobID uuid.UUID
	Err   error
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job requirement %s not found", e.JobID)
}

func (e *JobNotFoundError) Unwrap() error { return e.Err }

// PersistenceError is logged and swallowed; the scored record is still returned.
type PersistenceError struct {
	EvaluationID uuid.UUID
	Err          error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist evaluation %s: %v", e.EvaluationID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means a referenced record does not exist.
func IsNotFound(err error) bool {
	var jobErr *JobNotFoundError
	return errors.As(err, &jobErr) || errors.Is(err, repositories.ErrNotFound)
}
