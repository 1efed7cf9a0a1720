package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

// ResumeEvaluator runs one resume through extraction, scoring, persistence and indexing.
type ResumeEvaluator interface {
	// Evaluate never fails: extraction and scoring errors come back as a failed record.
	Evaluate(ctx context.Context, job *models.JobRequirement, doc models.ResumeDocument) *models.Evaluation
	// EvaluateSingle resolves the job first and surfaces a failed record's error.
	EvaluateSingle(ctx context.Context, jobID uuid.UUID, doc models.ResumeDocument) (*models.Evaluation, error)
}

type resumeEvaluator struct {
	extractor DocumentExtractor
	scorer    ScoringEngine
	jobRepo   repositories.JobRequirementRepository
	evalRepo  repositories.EvaluationRepository
	index     CandidateIndex
	now       func() time.Time
	log       *zap.Logger
}

// NewResumeEvaluator wires the pipeline. index may be nil.
func NewResumeEvaluator(
	extractor DocumentExtractor,
	scorer ScoringEngine,
	jobRepo repositories.JobRequirementRepository,
	evalRepo repositories.EvaluationRepository,
	index CandidateIndex,
	log *zap.Logger,
) ResumeEvaluator {
	return &resumeEvaluator{
		extractor: extractor,
		scorer:    scorer,
		jobRepo:   jobRepo,
		evalRepo:  evalRepo,
		index:     index,
		now:       time.Now,
		log:       logger.OrNop(log),
	}
}

// Evaluate implements ResumeEvaluator.
func (r *resumeEvaluator) Evaluate(ctx context.Context, job *models.JobRequirement, doc models.ResumeDocument) *models.Evaluation {
	log := r.log.With(zap.Stringer(logger.FieldJobID, job.ID), zap.String(logger.FieldFile, doc.FileName))
	start := r.now()

	resume, err := r.extractor.Extract(ctx, doc.Path)
	if err != nil {
		log.Warn("resume extraction failed", zap.Error(err))
		return r.persist(ctx, log, r.failed(job, doc, nil, err, start))
	}

	eval, err := r.scorer.Evaluate(ctx, resume, job)
	if err != nil {
		log.Warn("resume scoring failed", zap.Error(err))
		return r.persist(ctx, log, r.failed(job, doc, resume, err, start))
	}

	eval.ResumeFileName = doc.FileName
	eval.ResumeFileURL = doc.URL
	stampCandidate(eval, resume)

	log.Info("resume evaluated",
		zap.Stringer(logger.FieldEvaluationID, eval.ID),
		zap.Int("overall_score", *eval.OverallScore),
		zap.String("recommendation", string(eval.Recommendation)),
	)

	eval = r.persist(ctx, log, eval)
	r.indexCandidate(ctx, log, eval)

	return eval
}

// EvaluateSingle implements ResumeEvaluator.
func (r *resumeEvaluator) EvaluateSingle(ctx context.Context, jobID uuid.UUID, doc models.ResumeDocument) (*models.Evaluation, error) {
	job, err := findJob(ctx, r.jobRepo, jobID)
	if err != nil {
		return nil, err
	}

	eval := r.Evaluate(ctx, job, doc)
	if eval.ProcessingStatus == models.StatusFailed {
		return eval, errors.New(eval.ProcessingError)
	}
	return eval, nil
}

func (r *resumeEvaluator) failed(job *models.JobRequirement, doc models.ResumeDocument, resume *models.ExtractedResume, cause error, start time.Time) *models.Evaluation {
	elapsed := r.now().Sub(start).Milliseconds()
	eval := &models.Evaluation{
		ID:               uuid.New(),
		JobRequirementID: job.ID,
		CandidateName:    models.UnknownCandidate,
		ResumeFileName:   doc.FileName,
		ResumeFileURL:    doc.URL,
		ProcessingStatus: models.StatusFailed,
		ProcessingError:  cause.Error(),
		ProcessingTimeMs: &elapsed,
		EvaluatedAt:      r.now(),
	}
	if resume != nil {
		eval.ParsedResumeText = resume.RawText
		stampCandidate(eval, resume)
	}
	return eval
}

// persist stores the record. Store failures are logged and swallowed.
func (r *resumeEvaluator) persist(ctx context.Context, log *zap.Logger, eval *models.Evaluation) *models.Evaluation {
	if r.evalRepo == nil {
		return eval
	}
	if err := r.evalRepo.Create(ctx, eval); err != nil {
		perr := &PersistenceError{EvaluationID: eval.ID, Err: err}
		log.Error("evaluation not persisted", zap.Stringer(logger.FieldEvaluationID, eval.ID), zap.Error(perr))
	}
	return eval
}

func (r *resumeEvaluator) indexCandidate(ctx context.Context, log *zap.Logger, eval *models.Evaluation) {
	if r.index == nil || strings.TrimSpace(eval.ParsedResumeText) == "" {
		return
	}
	if err := r.index.IndexEvaluation(ctx, eval); err != nil {
		log.Warn("candidate not indexed", zap.Stringer(logger.FieldEvaluationID, eval.ID), zap.Error(err))
	}
}

func stampCandidate(eval *models.Evaluation, resume *models.ExtractedResume) {
	name := strings.TrimSpace(resume.PersonalInfo.Name)
	if name == "" {
		name = models.UnknownCandidate
	}
	eval.CandidateName = name
	eval.CandidateEmail = resume.PersonalInfo.Email
	eval.CandidatePhone = resume.PersonalInfo.Phone
}

func findJob(ctx context.Context, repo repositories.JobRequirementRepository, jobID uuid.UUID) (*models.JobRequirement, error) {
	job, err := repo.FindByID(ctx, jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &JobNotFoundError{JobID: jobID, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job requirement: %w", err)
	}
	return job, nil
}
