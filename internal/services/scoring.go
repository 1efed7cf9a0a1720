package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

// Recommendation thresholds on the overall score.
const (
	StrongMatchThreshold = 85
	GoodMatchThreshold   = 70
	FairMatchThreshold   = 50
)

// ScoringEngine turns an extracted resume and a job requirement into a scored
// evaluation via one call to the external scorer.
type ScoringEngine interface {
	Evaluate(ctx context.Context, resume *models.ExtractedResume, job *models.JobRequirement) (*models.Evaluation, error)
}

type ScoringOptions struct {
	Temperature float64
	MaxTokens   int
	// Timeout bounds one resume's scoring call, retries included.
	Timeout time.Duration
}

type scoringEngine struct {
	completer     Completer
	promptBuilder *PromptBuilder
	opts          ScoringOptions
	now           func() time.Time
	log           *zap.Logger
}

func NewScoringEngine(completer Completer, opts ScoringOptions, log *zap.Logger) ScoringEngine {
	if opts.Temperature <= 0 {
		opts.Temperature = 0.3
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &scoringEngine{
		completer:     completer,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
		now:           time.Now,
		log:           logger.OrNop(log),
	}
}

// Evaluate implements ScoringEngine. A scorer that cannot be reached yields a
// *ScoringError; a scorer that answers with garbage yields a neutral evaluation.
func (s *scoringEngine) Evaluate(ctx context.Context, resume *models.ExtractedResume, job *models.JobRequirement) (*models.Evaluation, error) {
	start := s.now()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	prompt := s.promptBuilder.BuildEvaluationPrompt(resume, job)
	s.log.Debug("scoring prompt built",
		zap.Stringer(logger.FieldJobID, job.ID),
		zap.Int("prompt_chars", len(prompt)),
	)

	raw, err := s.completer.Complete(ctx, CompletionRequest{
		System:      s.promptBuilder.EvaluationSystemPrompt(),
		Prompt:      prompt,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return nil, &ScoringError{Err: err}
	}

	metadata := models.EvaluationMetadata{
		JobTitle:                job.Title,
		RequiredExperienceYears: job.RequiredExperienceYears,
		RequiredSkillsCount:     len(job.RequiredSkills),
		JobLevel:                job.JobLevel,
		DifficultyScore:         job.DifficultyScore,
		UsedAIAnalysis:          true,
	}

	parsed, err := parseScoreResponse(raw)
	if err != nil {
		s.log.Warn("unusable scorer response, using neutral evaluation",
			zap.Stringer(logger.FieldJobID, job.ID),
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(raw, 300)),
		)
		parsed = neutralResponse()
		metadata.UsedAIAnalysis = false
		metadata.FallbackReason = err.Error()
	}

	skills := ClampScore(parsed.SkillsScore)
	experience := ClampScore(parsed.ExperienceScore)
	education := ClampScore(parsed.EducationScore)
	overall := OverallScore(skills, experience, education)
	elapsed := s.now().Sub(start).Milliseconds()

	return &models.Evaluation{
		ID:                uuid.New(),
		JobRequirementID:  job.ID,
		ParsedResumeText:  resume.RawText,
		SkillsScore:       &skills,
		ExperienceScore:   &experience,
		EducationScore:    &education,
		OverallScore:      &overall,
		SkillsMatched:     datatypes.JSONSlice[string](parsed.SkillsMatched),
		SkillsMissing:     datatypes.JSONSlice[string](parsed.SkillsMissing),
		ExperienceDetails: datatypes.NewJSONType(parsed.ExperienceDetails),
		EducationDetails:  datatypes.NewJSONType(parsed.EducationDetails),
		KeyStrengths:      datatypes.JSONSlice[string](parsed.Strengths),
		ImprovementAreas:  datatypes.JSONSlice[string](parsed.Improvements),
		Metadata:          datatypes.NewJSONType(metadata),
		EvaluationSummary: parsed.Summary,
		Recommendation:    RecommendationFor(overall),
		ProcessingStatus:  models.StatusCompleted,
		ProcessingTimeMs:  &elapsed,
		AIModel:           s.completer.Model(),
		AIRawResponse:     raw,
		EvaluatedAt:       s.now(),
	}, nil
}

// OverallScore weighs skills 60%, experience 30% and education 10%. The sum is
// kept in integer tenths so x.5 ties round to even exactly.
func OverallScore(skills, experience, education int) int {
	tenths := 6*skills + 3*experience + education
	return ClampScore(int(math.RoundToEven(float64(tenths) / 10)))
}

// ClampScore bounds a score to [0, 100].
func ClampScore(score int) int {
	return min(max(score, 0), 100)
}

// RecommendationFor maps an overall score to its recommendation band.
func RecommendationFor(overall int) models.Recommendation {
	switch {
	case overall >= StrongMatchThreshold:
		return models.RecommendationStrongMatch
	case overall >= GoodMatchThreshold:
		return models.RecommendationGoodMatch
	case overall >= FairMatchThreshold:
		return models.RecommendationFairMatch
	default:
		return models.RecommendationNoMatch
	}
}
