package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

type JobHandler struct {
	jobRepo  repositories.JobRequirementRepository
	validate *validator.Validate
}

func NewJobHandler(jobRepo repositories.JobRequirementRepository, validate *validator.Validate) *JobHandler {
	return &JobHandler{
		jobRepo:  jobRepo,
		validate: validate,
	}
}

// HandleCreateJob handles POST /jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var job models.JobRequirement
	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	job.ID = uuid.Nil
	job.ApplyDefaults()
	if err := h.validate.Struct(&job); err != nil {
		return validationError(c, err)
	}

	if err := h.jobRepo.Create(c.UserContext(), &job); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleGetJob handles GET /jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job requirement ID format",
		})
	}

	job, err := h.jobRepo.FindByID(c.UserContext(), jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(job)
}
