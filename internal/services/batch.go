package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

type BatchState string

const (
	BatchQueued    BatchState = "queued"
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
	BatchCancelled BatchState = "cancelled"
)

// BatchStatus is the progress of one batch, foreground or background.
type BatchStatus struct {
	ID               string     `json:"batch_id"`
	JobRequirementID uuid.UUID  `json:"job_requirement_id"`
	State            BatchState `json:"state"`
	Total            int        `json:"total"`
	Completed        int        `json:"completed"`
	Failed           int        `json:"failed"`
	ChunksDone       int        `json:"chunks_done"`
	ChunksTotal      int        `json:"chunks_total"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

// BatchTracker keeps batch progress in memory, keyed by batch id.
type BatchTracker struct {
	mu      sync.RWMutex
	batches map[string]*BatchStatus
}

func NewBatchTracker() *BatchTracker {
	return &BatchTracker{batches: make(map[string]*BatchStatus)}
}

func (t *BatchTracker) register(status BatchStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches[status.ID] = &status
}

func (t *BatchTracker) update(id string, fn func(*BatchStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if status, ok := t.batches[id]; ok {
		fn(status)
	}
}

// Get returns a copy of the batch's status.
func (t *BatchTracker) Get(id string) (BatchStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	status, ok := t.batches[id]
	if !ok {
		return BatchStatus{}, false
	}
	return *status, true
}

type BatchOptions struct {
	ForegroundConcurrency int
	BackgroundThreshold   int
	ChunkSize             int
}

// SubmitResult carries the records of a foreground batch, or only the status
// of a batch handed to the background worker.
type SubmitResult struct {
	Status     BatchStatus
	Records    []*models.Evaluation
	Background bool
}

// BatchCoordinator scores many resumes against one job with bounded concurrency.
type BatchCoordinator interface {
	// RunBatch returns exactly one record per document, in input order. The
	// only error is a missing job requirement.
	RunBatch(ctx context.Context, jobID uuid.UUID, docs []models.ResumeDocument, concurrencyLimit int) ([]*models.Evaluation, error)
	Submit(ctx context.Context, jobID uuid.UUID, docs []models.ResumeDocument) (*SubmitResult, error)
	Status(id string) (BatchStatus, bool)
}

type batchCoordinator struct {
	evaluator ResumeEvaluator
	jobRepo   repositories.JobRequirementRepository
	worker    Worker
	tracker   *BatchTracker
	opts      BatchOptions
	log       *zap.Logger
}

// NewBatchCoordinator wires the coordinator. A nil worker keeps every batch in the foreground.
func NewBatchCoordinator(
	evaluator ResumeEvaluator,
	jobRepo repositories.JobRequirementRepository,
	worker Worker,
	tracker *BatchTracker,
	opts BatchOptions,
	log *zap.Logger,
) BatchCoordinator {
	if opts.ForegroundConcurrency <= 0 {
		opts.ForegroundConcurrency = 5
	}
	if opts.BackgroundThreshold <= 0 {
		opts.BackgroundThreshold = 100
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 50
	}
	if tracker == nil {
		tracker = NewBatchTracker()
	}
	return &batchCoordinator{
		evaluator: evaluator,
		jobRepo:   jobRepo,
		worker:    worker,
		tracker:   tracker,
		opts:      opts,
		log:       logger.OrNop(log),
	}
}

// RunBatch implements BatchCoordinator.
func (b *batchCoordinator) RunBatch(ctx context.Context, jobID uuid.UUID, docs []models.ResumeDocument, concurrencyLimit int) ([]*models.Evaluation, error) {
	job, err := findJob(ctx, b.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if concurrencyLimit <= 0 {
		concurrencyLimit = b.opts.ForegroundConcurrency
	}
	return evaluateAll(ctx, b.evaluator, job, docs, concurrencyLimit), nil
}

// Submit implements BatchCoordinator.
func (b *batchCoordinator) Submit(ctx context.Context, jobID uuid.UUID, docs []models.ResumeDocument) (*SubmitResult, error) {
	job, err := findJob(ctx, b.jobRepo, jobID)
	if err != nil {
		return nil, err
	}

	status := BatchStatus{
		ID:               uuid.NewString(),
		JobRequirementID: jobID,
		State:            BatchQueued,
		Total:            len(docs),
		ChunksTotal:      chunkCount(len(docs), b.opts.ChunkSize),
		SubmittedAt:      time.Now(),
	}
	log := b.log.With(zap.String(logger.FieldBatchID, status.ID), zap.Stringer(logger.FieldJobID, jobID))

	if b.worker != nil && len(docs) > b.opts.BackgroundThreshold {
		b.tracker.register(status)
		if err := b.worker.Enqueue(BatchJob{ID: status.ID, Job: job, Docs: docs}); err != nil {
			b.tracker.update(status.ID, func(s *BatchStatus) { finish(s, BatchCancelled) })
			return nil, err
		}
		log.Info("batch queued for background processing", zap.Int("total", status.Total), zap.Int("chunks", status.ChunksTotal))
		return &SubmitResult{Status: status, Background: true}, nil
	}

	status.State = BatchRunning
	status.ChunksTotal = 1
	b.tracker.register(status)

	records := evaluateAll(ctx, b.evaluator, job, docs, b.opts.ForegroundConcurrency)

	b.tracker.update(status.ID, func(s *BatchStatus) {
		countOutcomes(s, records)
		s.ChunksDone = 1
		finish(s, BatchCompleted)
	})
	status, _ = b.tracker.Get(status.ID)
	log.Info("batch completed", zap.Int("completed", status.Completed), zap.Int("failed", status.Failed))

	return &SubmitResult{Status: status, Records: records}, nil
}

// Status implements BatchCoordinator.
func (b *batchCoordinator) Status(id string) (BatchStatus, bool) {
	return b.tracker.Get(id)
}

// Summarize builds the API response for a finished batch.
func Summarize(jobID uuid.UUID, records []*models.Evaluation) models.BatchEvaluationResponse {
	resp := models.BatchEvaluationResponse{
		JobRequirementID: jobID,
		TotalProcessed:   len(records),
		Results:          records,
	}
	for _, r := range records {
		if r.ProcessingStatus == models.StatusCompleted {
			resp.Successful++
			continue
		}
		resp.Failed++
		resp.Errors = append(resp.Errors, models.BatchItemError{FileName: r.ResumeFileName, Error: r.ProcessingError})
	}
	return resp
}

// evaluateAll runs at most limit evaluations at once. Workers never return an
// error, so one bad resume cannot cancel its siblings.
func evaluateAll(ctx context.Context, evaluator ResumeEvaluator, job *models.JobRequirement, docs []models.ResumeDocument, limit int) []*models.Evaluation {
	results := make([]*models.Evaluation, len(docs))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = evaluator.Evaluate(ctx, job, doc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func countOutcomes(s *BatchStatus, records []*models.Evaluation) {
	for _, r := range records {
		if r.ProcessingStatus == models.StatusCompleted {
			s.Completed++
		} else {
			s.Failed++
		}
	}
}

func finish(s *BatchStatus, state BatchState) {
	now := time.Now()
	s.State = state
	s.FinishedAt = &now
}

func chunkCount(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}
