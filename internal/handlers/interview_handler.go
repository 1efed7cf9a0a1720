package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screener/internal/interview"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

type InterviewHandler struct {
	generator services.QuestionGenerator
	validate  *validator.Validate
}

func NewInterviewHandler(generator services.QuestionGenerator, validate *validator.Validate) *InterviewHandler {
	return &InterviewHandler{
		generator: generator,
		validate:  validate,
	}
}

// HandlePlan handles POST /interview/plan
func (h *InterviewHandler) HandlePlan(c *fiber.Ctx) error {
	var req models.InterviewPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	return c.JSON(interview.Plan(req.DurationMinutes, req.ScreeningPct, req.TechnicalPct, req.HRPct))
}

// HandleQuestions handles POST /interview/questions
func (h *InterviewHandler) HandleQuestions(c *fiber.Ctx) error {
	var req models.InterviewQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	set, err := h.generator.Generate(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(set)
}
