package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Job        *JobHandler
	Evaluation *EvaluationHandler
	Result     *ResultHandler
	Interview  *InterviewHandler
}

// Register mounts every endpoint on router, normally the /api/v1 group.
func (h Handlers) Register(router fiber.Router) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Post("/jobs", h.Job.HandleCreateJob)
	router.Get("/jobs/:id", h.Job.HandleGetJob)

	router.Post("/jobs/:id/evaluate", h.Evaluation.HandleEvaluate)
	router.Post("/jobs/:id/batch", h.Evaluation.HandleBatch)
	router.Get("/batches/:id", h.Evaluation.HandleBatchStatus)

	router.Get("/jobs/:id/results", h.Result.HandleListResults)
	router.Get("/jobs/:id/rankings", h.Result.HandleRankings)
	router.Get("/jobs/:id/statistics", h.Result.HandleStatistics)
	router.Get("/jobs/:id/search", h.Result.HandleSearch)
	router.Post("/jobs/:id/fix-names", h.Result.HandleFixNames)
	router.Get("/result/:id", h.Result.HandleGetResult)

	router.Post("/interview/plan", h.Interview.HandlePlan)
	router.Post("/interview/questions", h.Interview.HandleQuestions)
}

// ErrorHandler renders errors that escape a handler as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
