package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
)

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name                         string
		skills, experience, education int
		want                         int
	}{
		{"weighted sum", 80, 70, 60, 75},
		{"half rounds to even down", 85, 80, 75, 82},
		{"half rounds to even up", 85, 80, 85, 84},
		{"all max", 100, 100, 100, 100},
		{"all zero", 0, 0, 0, 0},
		{"skills only", 100, 0, 0, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallScore(tt.skills, tt.experience, tt.education))
		})
	}
}

func TestRecommendationBoundaries(t *testing.T) {
	assert.Equal(t, models.RecommendationStrongMatch, RecommendationFor(100))
	assert.Equal(t, models.RecommendationStrongMatch, RecommendationFor(85))
	assert.Equal(t, models.RecommendationGoodMatch, RecommendationFor(84))
	assert.Equal(t, models.RecommendationGoodMatch, RecommendationFor(70))
	assert.Equal(t, models.RecommendationFairMatch, RecommendationFor(69))
	assert.Equal(t, models.RecommendationFairMatch, RecommendationFor(50))
	assert.Equal(t, models.RecommendationNoMatch, RecommendationFor(49))
	assert.Equal(t, models.RecommendationNoMatch, RecommendationFor(0))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 100, ClampScore(150))
	assert.Equal(t, 42, ClampScore(42))
}

func TestScoringEngineEvaluate(t *testing.T) {
	completer := staticCompleter("Here is the evaluation:\n```json\n" + validScoreJSON + "\n```")
	engine := NewScoringEngine(completer, ScoringOptions{}, nil)
	job := sampleJob()

	eval, err := engine.Evaluate(context.Background(), &models.ExtractedResume{RawText: "resume"}, job)
	require.NoError(t, err)

	require.True(t, eval.Scored())
	assert.Equal(t, 80, *eval.SkillsScore)
	assert.Equal(t, 70, *eval.ExperienceScore)
	assert.Equal(t, 60, *eval.EducationScore)
	assert.Equal(t, 75, *eval.OverallScore)
	assert.Equal(t, models.RecommendationGoodMatch, eval.Recommendation)
	assert.Equal(t, models.StatusCompleted, eval.ProcessingStatus)
	assert.Equal(t, "fake-model", eval.AIModel)
	assert.Equal(t, job.ID, eval.JobRequirementID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(eval.SkillsMatched))
	assert.Equal(t, "BSc", eval.EducationDetails.Data().HighestDegree)
	assert.Equal(t, "Solid backend engineer.", eval.EvaluationSummary)
	assert.NotEmpty(t, eval.AIRawResponse)
	require.NotNil(t, eval.ProcessingTimeMs)
	assert.GreaterOrEqual(t, *eval.ProcessingTimeMs, int64(0))
	assert.True(t, eval.Metadata.Data().UsedAIAnalysis)
}

func TestScoringEngineIgnoresSuppliedOverallAndClamps(t *testing.T) {
	completer := staticCompleter(`{"skills_score": 150, "experience_score": "-10", "education_score": "90%", "overall_score": 3}`)
	engine := NewScoringEngine(completer, ScoringOptions{}, nil)

	eval, err := engine.Evaluate(context.Background(), &models.ExtractedResume{}, sampleJob())
	require.NoError(t, err)

	assert.Equal(t, 100, *eval.SkillsScore)
	assert.Equal(t, 0, *eval.ExperienceScore)
	assert.Equal(t, 90, *eval.EducationScore)
	assert.Equal(t, 69, *eval.OverallScore)
	assert.Equal(t, models.RecommendationFairMatch, eval.Recommendation)
}

func TestScoringEngineClampsHugeScores(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		skills  int
		overall int
	}{
		{"huge number", `{"skills_score": 1e20, "experience_score": 100, "education_score": 100}`, 100, 100},
		{"huge string", `{"skills_score": "1e20", "experience_score": 100, "education_score": 100}`, 100, 100},
		{"huge negative", `{"skills_score": -1e20, "experience_score": 100, "education_score": 100}`, 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewScoringEngine(staticCompleter(tt.out), ScoringOptions{}, nil)

			eval, err := engine.Evaluate(context.Background(), &models.ExtractedResume{}, sampleJob())
			require.NoError(t, err)

			assert.True(t, eval.Metadata.Data().UsedAIAnalysis)
			assert.Equal(t, tt.skills, *eval.SkillsScore)
			assert.Equal(t, tt.overall, *eval.OverallScore)
		})
	}
}

func TestScoringEngineNeutralFallback(t *testing.T) {
	for name, out := range map[string]string{
		"prose":          "I cannot evaluate this resume.",
		"missing scores": `{"summary": "ok"}`,
		"non numeric":    `{"skills_score": "high", "experience_score": 1, "education_score": 1}`,
		"empty":          "",
	} {
		t.Run(name, func(t *testing.T) {
			engine := NewScoringEngine(staticCompleter(out), ScoringOptions{}, nil)

			eval, err := engine.Evaluate(context.Background(), &models.ExtractedResume{}, sampleJob())
			require.NoError(t, err)

			assert.Equal(t, 50, *eval.SkillsScore)
			assert.Equal(t, 50, *eval.ExperienceScore)
			assert.Equal(t, 50, *eval.EducationScore)
			assert.Equal(t, 50, *eval.OverallScore)
			assert.Equal(t, models.RecommendationFairMatch, eval.Recommendation)
			assert.Equal(t, "Evaluation could not be completed", eval.EvaluationSummary)
			assert.Equal(t, "Unknown", eval.EducationDetails.Data().HighestDegree)
			assert.Empty(t, eval.SkillsMatched)
			assert.Equal(t, models.StatusCompleted, eval.ProcessingStatus)
			assert.False(t, eval.Metadata.Data().UsedAIAnalysis)
			assert.NotEmpty(t, eval.Metadata.Data().FallbackReason)
		})
	}
}

func TestScoringEngineUnreachableScorer(t *testing.T) {
	boom := errors.New("connection refused")
	completer := &fakeCompleter{respond: func(CompletionRequest) (string, error) { return "", boom }}
	engine := NewScoringEngine(completer, ScoringOptions{}, nil)

	eval, err := engine.Evaluate(context.Background(), &models.ExtractedResume{}, sampleJob())
	assert.Nil(t, eval)

	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	assert.ErrorIs(t, err, boom)
}

func TestScoringEngineTimeout(t *testing.T) {
	completer := staticCompleter(validScoreJSON)
	completer.delay = time.Second
	engine := NewScoringEngine(completer, ScoringOptions{Timeout: 20 * time.Millisecond}, nil)

	_, err := engine.Evaluate(context.Background(), &models.ExtractedResume{}, sampleJob())

	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
