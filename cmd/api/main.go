package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/handlers"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if !cfg.DotEnvLoaded {
		zl.Info("no .env file found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	jobRepo := repositories.NewJobRequirementRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	setRepo := repositories.NewQuestionSetRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.PublicURL)
	if err := storageService.EnsureUploadDir(); err != nil {
		zl.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	gemini, completer, err := services.NewProviders(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize AI provider", zap.Error(err))
	}

	var remoteParser services.DocumentParser
	if cfg.Parser.RemoteEnabled && gemini != nil {
		remoteParser = gemini
	}
	extractor := services.NewDocumentExtractor(remoteParser, services.NewLocalTextExtractor(), zl)

	index := services.NewCandidateIndexFromConfig(ctx, cfg, gemini, zl)

	scorer := services.NewScoringEngine(completer, services.ScoringOptionsFrom(cfg), zl)
	evaluator := services.NewResumeEvaluator(extractor, scorer, jobRepo, evalRepo, index, zl)

	tracker := services.NewBatchTracker()
	worker := services.NewWorker(evaluator, tracker, services.WorkerOptions{
		Workers:          cfg.Batch.Workers,
		QueueSize:        cfg.Batch.QueueSize,
		ChunkSize:        cfg.Batch.ChunkSize,
		ChunkConcurrency: cfg.Batch.BackgroundConcurrency,
		ChunkPause:       cfg.Batch.ChunkPause,
	}, zl)
	coordinator := services.NewBatchCoordinator(evaluator, jobRepo, worker, tracker, services.BatchOptions{
		ForegroundConcurrency: cfg.Batch.ForegroundConcurrency,
		BackgroundThreshold:   cfg.Batch.BackgroundThreshold,
		ChunkSize:             cfg.Batch.ChunkSize,
	}, zl)

	worker.Start(ctx)

	validate := validator.New()
	routes := handlers.Handlers{
		Job:        handlers.NewJobHandler(jobRepo, validate),
		Evaluation: handlers.NewEvaluationHandler(evaluator, coordinator, storageService, cfg.Storage.MaxFileSize, zl),
		Result: handlers.NewResultHandler(
			evalRepo,
			jobRepo,
			index,
			services.NewNameResolver(completer, jobRepo, evalRepo, zl),
			validate,
		),
		Interview: handlers.NewInterviewHandler(
			services.NewQuestionGenerator(completer, evalRepo, jobRepo, setRepo, zl),
			validate,
		),
	}

	app := fiber.New(fiber.Config{
		AppName:      "CV Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		// batch uploads carry many files
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app.Group("/api/v1"))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Screener API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr), zap.String("scoring_provider", cfg.Scoring.Provider))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
