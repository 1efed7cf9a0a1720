package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

var (
	ErrQueueFull     = errors.New("batch queue is full")
	ErrWorkerStopped = errors.New("worker stopped")
)

// BatchJob is one large batch handed to the background worker.
type BatchJob struct {
	ID   string
	Job  *models.JobRequirement
	Docs []models.ResumeDocument
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job BatchJob) error
}

type WorkerOptions struct {
	Workers          int
	QueueSize        int
	ChunkSize        int
	ChunkConcurrency int
	ChunkPause       time.Duration
}

type worker struct {
	evaluator ResumeEvaluator
	tracker   *BatchTracker
	opts      WorkerOptions
	jobQueue  chan BatchJob
	wg        sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
	cancel    context.CancelFunc
	log       *zap.Logger
}

func NewWorker(evaluator ResumeEvaluator, tracker *BatchTracker, opts WorkerOptions, log *zap.Logger) Worker {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 50
	}
	if opts.ChunkConcurrency <= 0 {
		opts.ChunkConcurrency = 10
	}
	return &worker{
		evaluator: evaluator,
		tracker:   tracker,
		opts:      opts,
		jobQueue:  make(chan BatchJob, opts.QueueSize),
		stopChan:  make(chan struct{}),
		log:       logger.OrNop(log),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.log.Info("starting batch worker", zap.Int("workers", w.opts.Workers), zap.Int("queue_size", w.opts.QueueSize))

	for i := 0; i < w.opts.Workers; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker. Batches in flight stop at their next chunk boundary.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping batch worker")
		close(w.stopChan)
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
		w.log.Info("batch worker stopped")
	})
}

// Enqueue implements Worker. It never blocks.
func (w *worker) Enqueue(job BatchJob) error {
	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobQueue:
			w.log.Info("worker picked up batch", zap.Int("worker", workerID), zap.String(logger.FieldBatchID, job.ID))
			w.runChunks(ctx, job)
		}
	}
}

// runChunks processes the batch chunk by chunk. A chunk fully completes before
// the next starts, with a cooldown in between.
func (w *worker) runChunks(ctx context.Context, job BatchJob) {
	log := w.log.With(zap.String(logger.FieldBatchID, job.ID), zap.Stringer(logger.FieldJobID, job.Job.ID))
	w.tracker.update(job.ID, func(s *BatchStatus) { s.State = BatchRunning })

	chunks := splitChunks(job.Docs, w.opts.ChunkSize)
	for i, chunk := range chunks {
		if i > 0 && !w.pause(ctx) {
			log.Warn("batch cancelled between chunks", zap.Int("chunks_done", i), zap.Int("chunks_total", len(chunks)))
			w.tracker.update(job.ID, func(s *BatchStatus) { finish(s, BatchCancelled) })
			return
		}

		records := evaluateAll(ctx, w.evaluator, job.Job, chunk, w.opts.ChunkConcurrency)
		w.tracker.update(job.ID, func(s *BatchStatus) {
			countOutcomes(s, records)
			s.ChunksDone++
		})
		log.Info("batch chunk done", zap.Int("chunk", i+1), zap.Int("chunks_total", len(chunks)))
	}

	w.tracker.update(job.ID, func(s *BatchStatus) { finish(s, BatchCompleted) })
	log.Info("batch completed", zap.Int("total", len(job.Docs)))
}

// pause waits out the cooldown and reports whether processing may continue.
func (w *worker) pause(ctx context.Context) bool {
	if w.opts.ChunkPause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(w.opts.ChunkPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func splitChunks(docs []models.ResumeDocument, size int) [][]models.ResumeDocument {
	var chunks [][]models.ResumeDocument
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}
