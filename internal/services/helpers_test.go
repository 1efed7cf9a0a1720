package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

const validScoreJSON = `{
  "skills_score": 80,
  "experience_score": 70,
  "education_score": 60,
  "skills_matched": ["Go", "PostgreSQL"],
  "skills_missing": ["Kubernetes"],
  "experience_details": {"years": 6, "relevance": "High", "key_roles": ["Backend Engineer"]},
  "education_details": {"highest_degree": "BSc", "relevance": "Meets requirement"},
  "summary": "Solid backend engineer.",
  "strengths": ["Go", "SQL"],
  "improvements": ["Cloud"]
}`

const sampleResumeText = `Jane Doe
jane.doe@example.com | +1 555 123 4567

Senior Software Engineer with 6 years of experience building backend systems.

Skills
Go, PostgreSQL, Docker, gRPC

Education
BSc Computer Science, State University, 2016
`

type fakeCompleter struct {
	respond  func(req CompletionRequest) (string, error)
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.respond(req)
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func staticCompleter(out string) *fakeCompleter {
	return &fakeCompleter{respond: func(CompletionRequest) (string, error) { return out, nil }}
}

func sampleJob() *models.JobRequirement {
	return &models.JobRequirement{
		Title:                   "Backend Engineer",
		RequiredSkills:          []string{"Go", "PostgreSQL", "Kubernetes"},
		RequiredExperienceYears: 5,
		EducationRequirements:   []string{"Bachelor's degree in Computer Science"},
		Responsibilities:        []string{"Build APIs", "Own services"},
		JobLevel:                models.JobLevelSenior,
		DifficultyScore:         7,
	}
}

// writeResumes creates count text resumes, empty ones at the given indexes.
func writeResumes(t *testing.T, count int, empty ...int) []models.ResumeDocument {
	t.Helper()
	dir := t.TempDir()
	isEmpty := make(map[int]bool, len(empty))
	for _, i := range empty {
		isEmpty[i] = true
	}

	docs := make([]models.ResumeDocument, 0, count)
	for i := 0; i < count; i++ {
		name := filepath.Join(dir, fmt.Sprintf("resume_%02d.txt", i))
		content := sampleResumeText
		if isEmpty[i] {
			content = ""
		}
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
		docs = append(docs, models.ResumeDocument{Path: name, FileName: filepath.Base(name)})
	}
	return docs
}

type pipeline struct {
	store     *repositories.MemoryStore
	job       *models.JobRequirement
	evaluator ResumeEvaluator
}

func newPipeline(t *testing.T, completer Completer) *pipeline {
	t.Helper()
	store := repositories.NewMemoryStore()
	job := sampleJob()
	require.NoError(t, store.Jobs().Create(context.Background(), job))

	evaluator := NewResumeEvaluator(
		NewDocumentExtractor(nil, NewLocalTextExtractor(), nil),
		NewScoringEngine(completer, ScoringOptions{Timeout: 5 * time.Second}, nil),
		store.Jobs(),
		store.Evaluations(),
		nil,
		nil,
	)
	return &pipeline{store: store, job: job, evaluator: evaluator}
}
