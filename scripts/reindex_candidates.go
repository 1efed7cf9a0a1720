package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

// Rebuilds the candidate vector index for one job from stored evaluations.
//
//	go run ./scripts/reindex_candidates.go -job <job_requirement_id>
func main() {
	jobFlag := flag.String("job", "", "job requirement id to reindex")
	flag.Parse()

	cfg := config.Load()
	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	jobID, err := uuid.Parse(*jobFlag)
	if err != nil {
		zl.Fatal("invalid -job", zap.String("job", *jobFlag), zap.Error(err))
	}

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	evalRepo := repositories.NewEvaluationRepository(db)

	ctx := context.Background()
	gemini, _, err := services.NewProviders(ctx, cfg, zl)
	if err != nil || gemini == nil {
		zl.Fatal("gemini is required for embeddings", zap.Error(err))
	}

	index := services.NewCandidateIndexFromConfig(ctx, cfg, gemini, zl)
	if index == nil {
		zl.Fatal("candidate index is not available, check QDRANT_URL")
	}

	records, err := evalRepo.AllByJob(ctx, jobID)
	if err != nil {
		zl.Fatal("failed to load evaluations", zap.Error(err))
	}

	successCount, failCount, skipped := 0, 0, 0
	for i, record := range records {
		if record.ProcessingStatus != models.StatusCompleted || strings.TrimSpace(record.ParsedResumeText) == "" {
			skipped++
			continue
		}

		if err := index.IndexEvaluation(ctx, record); err != nil {
			zl.Warn("failed to index evaluation", zap.Stringer(logger.FieldEvaluationID, record.ID), zap.Error(err))
			failCount++
			continue
		}
		successCount++

		if (i+1)%10 == 0 || i == len(records)-1 {
			zl.Info("reindex progress", zap.Int("done", i+1), zap.Int("total", len(records)))
		}
	}

	zl.Info("reindex summary",
		zap.Stringer(logger.FieldJobID, jobID),
		zap.Int("indexed", successCount),
		zap.Int("failed", failCount),
		zap.Int("skipped", skipped),
	)

	if failCount > 0 {
		os.Exit(1)
	}
}
