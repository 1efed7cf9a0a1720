package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/ranking"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
	jobRepo  repositories.JobRequirementRepository
	index    services.CandidateIndex
	names    services.NameResolver
	validate *validator.Validate
}

// NewResultHandler builds the read side of the API. index may be nil, which
// disables search.
func NewResultHandler(
	evalRepo repositories.EvaluationRepository,
	jobRepo repositories.JobRequirementRepository,
	index services.CandidateIndex,
	names services.NameResolver,
	validate *validator.Validate,
) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
		jobRepo:  jobRepo,
		index:    index,
		names:    names,
		validate: validate,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	evalID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(c.UserContext(), evalID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(evaluation)
}

// HandleListResults handles GET /jobs/:id/results
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	jobID, ok := h.existingJob(c)
	if !ok {
		return nil
	}

	var q models.ResultQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}
	if err := h.validate.Struct(&q); err != nil {
		return validationError(c, err)
	}
	q.Normalize()

	records, err := h.evalRepo.ListByJob(c.UserContext(), jobID, q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"job_requirement_id": jobID,
		"count":              len(records),
		"limit":              q.Limit,
		"offset":             q.Offset,
		"results":            records,
	})
}

// HandleRankings handles GET /jobs/:id/rankings
func (h *ResultHandler) HandleRankings(c *fiber.Ctx) error {
	jobID, ok := h.existingJob(c)
	if !ok {
		return nil
	}

	records, err := h.evalRepo.AllByJob(c.UserContext(), jobID)
	if err != nil {
		return respondError(c, err)
	}

	ranked := ranking.Rank(records)
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	return c.JSON(fiber.Map{
		"job_requirement_id": jobID,
		"rankings":           ranked,
	})
}

// HandleStatistics handles GET /jobs/:id/statistics
func (h *ResultHandler) HandleStatistics(c *fiber.Ctx) error {
	jobID, ok := h.existingJob(c)
	if !ok {
		return nil
	}

	records, err := h.evalRepo.AllByJob(c.UserContext(), jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ranking.Aggregate(records))
}

// HandleSearch handles GET /jobs/:id/search?q=
func (h *ResultHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "Candidate search is not configured",
		})
	}

	jobID, ok := h.existingJob(c)
	if !ok {
		return nil
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	hits, err := h.index.Search(c.UserContext(), jobID, query, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"query": query,
		"hits":  hits,
	})
}

// HandleFixNames handles POST /jobs/:id/fix-names
func (h *ResultHandler) HandleFixNames(c *fiber.Ctx) error {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job requirement ID format",
		})
	}

	resp, err := h.names.FixNames(c.UserContext(), jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// existingJob parses :id and checks the job exists. It writes the error
// response itself and reports false when the handler should stop.
func (h *ResultHandler) existingJob(c *fiber.Ctx) (uuid.UUID, bool) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job requirement ID format",
		})
		return uuid.Nil, false
	}

	if _, err := h.jobRepo.FindByID(c.UserContext(), jobID); err != nil {
		_ = respondError(c, err)
		return uuid.Nil, false
	}

	return jobID, true
}
