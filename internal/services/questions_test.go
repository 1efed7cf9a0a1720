package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

func TestParseBaseQuestions(t *testing.T) {
	out := "# Technical questions\n1. How do you design an API?\n\n2) What is a goroutine?\n- Explain indexes.\n* Extra question"

	got := parseBaseQuestions(out, 3)

	assert.Equal(t, []string{
		"How do you design an API?",
		"What is a goroutine?",
		"Explain indexes.",
	}, got)
}

func TestParseBaseQuestionsPadsShortAnswers(t *testing.T) {
	got := parseBaseQuestions("Why this role?", 3)

	assert.Equal(t, []string{"Why this role?", fallbackQuestion, fallbackQuestion}, got)
	assert.Equal(t, []string{fallbackQuestion}, parseBaseQuestions("", 1))
}

func TestParseVariations(t *testing.T) {
	out := "Here you go:\nEASY: What is Go?\n**MEDIUM: How do channels work?**\ndifficult: Design a scheduler."

	got := parseVariations(out)

	assert.Equal(t, []models.QuestionVariation{
		{Difficulty: models.DifficultyEasy, Question: "What is Go?", DurationSeconds: 75},
		{Difficulty: models.DifficultyMedium, Question: "How do channels work?", DurationSeconds: 105},
		{Difficulty: models.DifficultyDifficult, Question: "Design a scheduler.", DurationSeconds: 150},
	}, got)
}

func TestParseVariationsIncompleteFallsBack(t *testing.T) {
	got := parseVariations("EASY: What is Go?\nMEDIUM: How do channels work?")

	require.Len(t, got, 3)
	for _, v := range got {
		assert.Equal(t, fallbackQuestion, v.Question)
	}
	assert.Equal(t, fallbackVariations(), got)
}

func promptRouter(base, variations, greeting string) *fakeCompleter {
	return &fakeCompleter{respond: func(req CompletionRequest) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "Generate EXACTLY"):
			return base, nil
		case strings.Contains(req.Prompt, "Write three versions"):
			return variations, nil
		default:
			return greeting, nil
		}
	}}
}

func TestQuestionGeneratorGenerate(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	job := sampleJob()
	require.NoError(t, store.Jobs().Create(ctx, job))
	eval := &models.Evaluation{JobRequirementID: job.ID, CandidateName: "Jane Doe", ProcessingStatus: models.StatusCompleted}
	require.NoError(t, store.Evaluations().Create(ctx, eval))

	completer := promptRouter(
		"1. Tell me about yourself.",
		"EASY: e\nMEDIUM: m\nDIFFICULT: d",
		"Welcome, Jane!",
	)
	generator := NewQuestionGenerator(completer, store.Evaluations(), store.Jobs(), store.QuestionSets(), nil)

	set, err := generator.Generate(ctx, models.InterviewQuestionsRequest{
		EvaluationID: eval.ID.String(),
		InterviewPlanRequest: models.InterviewPlanRequest{
			DurationMinutes: 10,
			ScreeningPct:    30,
			TechnicalPct:    50,
			HRPct:           20,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, eval.ID, set.EvaluationID)
	assert.Equal(t, job.ID, set.JobRequirementID)
	assert.Equal(t, "Welcome, Jane!", set.GreetingMessage)
	assert.Equal(t, 3, set.Allocation.Data().BaseTotal)

	require.Len(t, set.Questions, 3)
	categories := []models.QuestionCategory{models.CategoryScreening, models.CategoryTechnical, models.CategoryHR}
	for i, q := range set.Questions {
		assert.Equal(t, categories[i], q.Category)
		assert.Equal(t, 1, q.Number)
		assert.Equal(t, "Tell me about yourself.", q.Question)
		require.Len(t, q.Variations, 3)
		assert.Equal(t, "d", q.Variations[2].Question)
	}

	// base prompts, one variations prompt per question, one greeting
	assert.Equal(t, int32(3+3+1), completer.calls.Load())

	stored, err := store.QuestionSets().FindByEvaluation(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, set.ID, stored.ID)
}

func TestQuestionGeneratorUnknownEvaluation(t *testing.T) {
	store := repositories.NewMemoryStore()
	generator := NewQuestionGenerator(staticCompleter(""), store.Evaluations(), store.Jobs(), store.QuestionSets(), nil)

	_, err := generator.Generate(context.Background(), models.InterviewQuestionsRequest{
		EvaluationID:         "0b0f3c52-8f4e-4c51-9d6a-3d2b8a3b5e10",
		InterviewPlanRequest: models.InterviewPlanRequest{DurationMinutes: 10},
	})

	assert.True(t, IsNotFound(err))
}
