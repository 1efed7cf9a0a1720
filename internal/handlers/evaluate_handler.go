package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

type EvaluationHandler struct {
	evaluator   services.ResumeEvaluator
	coordinator services.BatchCoordinator
	uploader    *resumeUploader
	log         *zap.Logger
}

func NewEvaluationHandler(
	evaluator services.ResumeEvaluator,
	coordinator services.BatchCoordinator,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator:   evaluator,
		coordinator: coordinator,
		uploader:    &resumeUploader{storageService: storageService, maxFileSize: maxFileSize},
		log:         logger.OrNop(log),
	}
}

// HandleEvaluate handles POST /jobs/:id/evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job requirement ID format",
		})
	}

	docs, uerr := h.uploader.save(c, "resume")
	if uerr != nil {
		return uerr.respond(c)
	}
	if len(docs) > 1 {
		h.uploader.discard(docs)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Send exactly one resume; use the batch endpoint for more",
		})
	}

	eval, err := h.evaluator.EvaluateSingle(c.UserContext(), jobID, docs[0])
	if err != nil {
		var jobErr *services.JobNotFoundError
		if errors.As(err, &jobErr) || eval == nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  fmt.Sprintf("Evaluation failed: %s", eval.ProcessingError),
			"result": eval,
		})
	}

	return c.JSON(eval)
}

// HandleBatch handles POST /jobs/:id/batch
func (h *EvaluationHandler) HandleBatch(c *fiber.Ctx) error {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job requirement ID format",
		})
	}

	docs, uerr := h.uploader.save(c, "resumes")
	if uerr != nil {
		return uerr.respond(c)
	}

	result, err := h.coordinator.Submit(c.UserContext(), jobID, docs)
	if err != nil {
		return respondError(c, err)
	}

	if result.Background {
		return c.Status(fiber.StatusAccepted).JSON(models.BatchAcceptedResponse{
			BatchID: result.Status.ID,
			State:   string(result.Status.State),
			Total:   result.Status.Total,
			Chunks:  result.Status.ChunksTotal,
		})
	}

	h.log.Info("foreground batch finished",
		zap.String(logger.FieldBatchID, result.Status.ID),
		zap.Int("total", result.Status.Total),
		zap.Int("failed", result.Status.Failed),
	)
	return c.JSON(services.Summarize(jobID, result.Records))
}

// HandleBatchStatus handles GET /batches/:id
func (h *EvaluationHandler) HandleBatchStatus(c *fiber.Ctx) error {
	status, ok := h.coordinator.Status(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}
	return c.JSON(status)
}
