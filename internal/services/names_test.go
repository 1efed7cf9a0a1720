package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

func seedNames(t *testing.T) (*repositories.MemoryStore, *models.JobRequirement, []*models.Evaluation) {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	job := sampleJob()
	require.NoError(t, store.Jobs().Create(ctx, job))

	records := []*models.Evaluation{
		{JobRequirementID: job.ID, CandidateName: models.UnknownCandidate, ParsedResumeText: sampleResumeText},
		{JobRequirementID: job.ID, CandidateName: "Curriculum Vitae 2024", ParsedResumeText: sampleResumeText},
		{JobRequirementID: job.ID, CandidateName: "John Smith", ParsedResumeText: "John Smith\nGo developer"},
		{JobRequirementID: job.ID, CandidateName: models.UnknownCandidate},
	}
	for _, r := range records {
		require.NoError(t, store.Evaluations().Create(ctx, r))
	}
	return store, job, records
}

func TestFixNamesUsesCompleter(t *testing.T) {
	store, job, records := seedNames(t)
	completer := staticCompleter("Name: Jane A. Doe\n")
	resolver := NewNameResolver(completer, store.Jobs(), store.Evaluations(), nil)

	resp, err := resolver.FixNames(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.FixNamesResponse{Checked: 2, Fixed: 2}, resp)
	assert.Equal(t, int32(2), completer.calls.Load())

	for i, want := range []string{"Jane A. Doe", "Jane A. Doe", "John Smith", models.UnknownCandidate} {
		got, err := store.Evaluations().FindByID(context.Background(), records[i].ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.CandidateName)
	}
}

func TestFixNamesFallsBackToHeuristic(t *testing.T) {
	store, job, records := seedNames(t)
	resolver := NewNameResolver(staticCompleter("Unknown"), store.Jobs(), store.Evaluations(), nil)

	resp, err := resolver.FixNames(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Fixed)

	got, err := store.Evaluations().FindByID(context.Background(), records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.CandidateName)
}

func TestFixNamesUnknownJob(t *testing.T) {
	store := repositories.NewMemoryStore()
	resolver := NewNameResolver(nil, store.Jobs(), store.Evaluations(), nil)

	_, err := resolver.FixNames(context.Background(), sampleJob().ID)
	assert.True(t, IsNotFound(err))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Jane Doe", cleanName(`"Jane Doe"`))
	assert.Equal(t, "Jane Doe", cleanName("Name: Jane Doe\nextra"))
	assert.Empty(t, cleanName("Unknown"))
	assert.Empty(t, cleanName("jane@example.com"))
	assert.Empty(t, cleanName(""))
}
