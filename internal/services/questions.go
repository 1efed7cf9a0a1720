package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/cv-screener/internal/interview"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

// Answer time budgets per difficulty, in seconds.
var variationDurations = map[models.Difficulty]int{
	models.DifficultyEasy:      75,
	models.DifficultyMedium:    105,
	models.DifficultyDifficult: 150,
}

var difficultyOrder = []models.Difficulty{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyDifficult,
}

const fallbackQuestion = "Please describe your relevant experience"

var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)

// QuestionGenerator builds and stores the interview question bank for one evaluated candidate.
type QuestionGenerator interface {
	Generate(ctx context.Context, req models.InterviewQuestionsRequest) (*models.InterviewQuestionSet, error)
}

type questionGenerator struct {
	completer     Completer
	evalRepo      repositories.EvaluationRepository
	jobRepo       repositories.JobRequirementRepository
	setRepo       repositories.QuestionSetRepository
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewQuestionGenerator(
	completer Completer,
	evalRepo repositories.EvaluationRepository,
	jobRepo repositories.JobRequirementRepository,
	setRepo repositories.QuestionSetRepository,
	log *zap.Logger,
) QuestionGenerator {
	return &questionGenerator{
		completer:     completer,
		evalRepo:      evalRepo,
		jobRepo:       jobRepo,
		setRepo:       setRepo,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
	}
}

// Generate implements QuestionGenerator.
func (q *questionGenerator) Generate(ctx context.Context, req models.InterviewQuestionsRequest) (*models.InterviewQuestionSet, error) {
	evalID, err := uuid.Parse(req.EvaluationID)
	if err != nil {
		return nil, fmt.Errorf("invalid evaluation id: %w", err)
	}

	eval, err := q.evalRepo.FindByID(ctx, evalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}
	job, err := findJob(ctx, q.jobRepo, eval.JobRequirementID)
	if err != nil {
		return nil, err
	}

	alloc := interview.Plan(req.DurationMinutes, req.ScreeningPct, req.TechnicalPct, req.HRPct)
	log := q.log.With(zap.Stringer(logger.FieldEvaluationID, evalID), zap.Int("base_total", alloc.BaseTotal))

	counts := []struct {
		category models.QuestionCategory
		n        int
	}{
		{models.CategoryScreening, alloc.Screening},
		{models.CategoryTechnical, alloc.Technical},
		{models.CategoryHR, alloc.HR},
	}

	var questions []models.BaseQuestion
	for _, c := range counts {
		base, err := q.baseQuestions(ctx, c.category, c.n, job, eval.CandidateName)
		if err != nil {
			return nil, err
		}
		for i, text := range base {
			questions = append(questions, models.BaseQuestion{
				Category:   c.category,
				Number:     i + 1,
				Question:   text,
				Variations: q.variations(ctx, log, c.category, text),
			})
		}
	}

	set := &models.InterviewQuestionSet{
		ID:               uuid.New(),
		EvaluationID:     evalID,
		JobRequirementID: job.ID,
		DurationMinutes:  req.DurationMinutes,
		Allocation:       datatypes.NewJSONType(alloc),
		Questions:        datatypes.JSONSlice[models.BaseQuestion](questions),
		GreetingMessage:  q.greeting(ctx, log, job, eval.CandidateName, req.DurationMinutes),
	}

	if err := q.setRepo.Upsert(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to save question set: %w", err)
	}

	log.Info("interview questions generated", zap.Int("questions", len(questions)))
	return set, nil
}

func (q *questionGenerator) baseQuestions(ctx context.Context, category models.QuestionCategory, n int, job *models.JobRequirement, candidate string) ([]string, error) {
	out, err := q.completer.Complete(ctx, CompletionRequest{
		Prompt:      q.promptBuilder.BuildBaseQuestionsPrompt(category, n, job, candidate),
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, &ScoringError{Err: fmt.Errorf("%s questions: %w", category, err)}
	}
	return parseBaseQuestions(out, n), nil
}

func (q *questionGenerator) variations(ctx context.Context, log *zap.Logger, category models.QuestionCategory, base string) []models.QuestionVariation {
	out, err := q.completer.Complete(ctx, CompletionRequest{
		Prompt:      q.promptBuilder.BuildVariationsPrompt(category, base),
		Temperature: 0.6,
		MaxTokens:   512,
	})
	if err != nil {
		log.Warn("variation generation failed, using fallback", zap.Error(err))
		return fallbackVariations()
	}
	return parseVariations(out)
}

func (q *questionGenerator) greeting(ctx context.Context, log *zap.Logger, job *models.JobRequirement, candidate string, minutes int) string {
	out, err := q.completer.Complete(ctx, CompletionRequest{
		Prompt:      q.promptBuilder.BuildGreetingPrompt(job, candidate, minutes),
		Temperature: 0.7,
		MaxTokens:   256,
	})
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out)
	}
	if err != nil {
		log.Warn("greeting generation failed, using default", zap.Error(err))
	}
	return fmt.Sprintf("Hello %s, welcome to your %d-minute interview for the %s position. Take a moment to get comfortable, and let's begin whenever you're ready.",
		candidate, minutes, job.Title)
}

// parseBaseQuestions takes the first n non-empty lines, dropping headings and
// list markers. Missing questions are filled with a generic one.
func parseBaseQuestions(out string, n int) []string {
	questions := make([]string, 0, n)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == n {
			break
		}
	}
	for len(questions) < n {
		questions = append(questions, fallbackQuestion)
	}
	return questions
}

// parseVariations reads EASY:/MEDIUM:/DIFFICULT: lines. Anything short of all
// three yields the fallback triple.
func parseVariations(out string) []models.QuestionVariation {
	found := make(map[models.Difficulty]string, len(difficultyOrder))
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*-"))
		for _, d := range difficultyOrder {
			prefix := string(d) + ":"
			if len(line) > len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
				if text := strings.TrimSpace(line[len(prefix):]); text != "" {
					if _, dup := found[d]; !dup {
						found[d] = text
					}
				}
			}
		}
	}

	if len(found) < len(difficultyOrder) {
		return fallbackVariations()
	}

	variations := make([]models.QuestionVariation, 0, len(difficultyOrder))
	for _, d := range difficultyOrder {
		variations = append(variations, models.QuestionVariation{
			Difficulty:      d,
			Question:        found[d],
			DurationSeconds: variationDurations[d],
		})
	}
	return variations
}

func fallbackVariations() []models.QuestionVariation {
	variations := make([]models.QuestionVariation, 0, len(difficultyOrder))
	for _, d := range difficultyOrder {
		variations = append(variations, models.QuestionVariation{
			Difficulty:      d,
			Question:        fallbackQuestion,
			DurationSeconds: variationDurations[d],
		})
	}
	return variations
}
