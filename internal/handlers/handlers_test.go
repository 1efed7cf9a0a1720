package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/ranking"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

const scoreJSON = `{"skills_score": 90, "experience_score": 80, "education_score": 70, "summary": "Strong fit."}`

const resumeText = "Jane Doe\njane.doe@example.com\n\n7 years of experience in Go.\n"

type stubCompleter struct{ out string }

func (s stubCompleter) Complete(context.Context, services.CompletionRequest) (string, error) {
	return s.out, nil
}

func (stubCompleter) Model() string { return "stub" }

type testServer struct {
	app       *fiber.App
	store     *repositories.MemoryStore
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repositories.NewMemoryStore()
	completer := stubCompleter{out: scoreJSON}
	validate := validator.New()

	uploadDir := t.TempDir()
	storage := services.NewStorageService(uploadDir, "")
	evaluator := services.NewResumeEvaluator(
		services.NewDocumentExtractor(nil, services.NewLocalTextExtractor(), nil),
		services.NewScoringEngine(completer, services.ScoringOptions{}, nil),
		store.Jobs(),
		store.Evaluations(),
		nil,
		nil,
	)
	coordinator := services.NewBatchCoordinator(evaluator, store.Jobs(), nil, nil, services.BatchOptions{}, nil)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Handlers{
		Job:        NewJobHandler(store.Jobs(), validate),
		Evaluation: NewEvaluationHandler(evaluator, coordinator, storage, 1<<20, nil),
		Result: NewResultHandler(
			store.Evaluations(),
			store.Jobs(),
			nil,
			services.NewNameResolver(completer, store.Jobs(), store.Evaluations(), nil),
			validate,
		),
		Interview: NewInterviewHandler(
			services.NewQuestionGenerator(completer, store.Evaluations(), store.Jobs(), store.QuestionSets(), nil),
			validate,
		),
	}.Register(app.Group("/api/v1"))

	return &testServer{app: app, store: store, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func jsonRequest(method, path string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, path, field string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (s *testServer) createJob(t *testing.T) models.JobRequirement {
	t.Helper()
	status, body := s.do(t, jsonRequest(http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":                     "Backend Engineer",
		"required_skills":           []string{"Go", "PostgreSQL"},
		"required_experience_years": 5,
	}))
	require.Equal(t, http.StatusCreated, status, string(body))

	var job models.JobRequirement
	require.NoError(t, json.Unmarshal(body, &job))
	return job
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestCreateAndGetJob(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, models.JobLevelMid, job.JobLevel)
	assert.Equal(t, 5, job.DifficultyScore)

	status, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID.String(), nil))
	require.Equal(t, http.StatusOK, status)

	var got models.JobRequirement
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(got.RequiredSkills))
}

func TestCreateJobValidation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, jsonRequest(http.MethodPost, "/api/v1/jobs", map[string]any{
		"required_experience_years": 5,
		"difficulty_score":          11,
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Validation failed")
	assert.Contains(t, string(body), "Title failed on required")
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEvaluateSingleResume(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, body := s.do(t, uploadRequest(t, "/api/v1/jobs/"+job.ID.String()+"/evaluate", "resume",
		map[string]string{"jane.txt": resumeText}))
	require.Equal(t, http.StatusOK, status, string(body))

	var eval models.Evaluation
	require.NoError(t, json.Unmarshal(body, &eval))
	assert.Equal(t, "Jane Doe", eval.CandidateName)
	assert.Equal(t, "jane.txt", eval.ResumeFileName)
	require.NotNil(t, eval.OverallScore)
	assert.Equal(t, 85, *eval.OverallScore)
	assert.Equal(t, models.RecommendationStrongMatch, eval.Recommendation)

	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/"+eval.ID.String(), nil))
	assert.Equal(t, http.StatusOK, status)
}

func TestEvaluateRejectsEmptyResume(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, body := s.do(t, uploadRequest(t, "/api/v1/jobs/"+job.ID.String()+"/evaluate", "resume",
		map[string]string{"blank.txt": ""}))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "Evaluation failed")
}

func TestEvaluateRejectsSeveralResumes(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, body := s.do(t, uploadRequest(t, "/api/v1/jobs/"+job.ID.String()+"/evaluate", "resume",
		map[string]string{"a.txt": resumeText, "b.txt": resumeText}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "exactly one resume")

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	stored, err := s.store.Evaluations().AllByJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBatchRejectedUploadLeavesNoFiles(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, _ := s.do(t, uploadRequest(t, "/api/v1/jobs/"+job.ID.String()+"/batch", "resumes",
		map[string]string{"a.txt": resumeText, "b.txt": resumeText, "c.exe": "MZ"}))
	assert.Equal(t, http.StatusBadRequest, status)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvaluateRejectsUnsupportedExtension(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, _ := s.do(t, uploadRequest(t, "/api/v1/jobs/"+job.ID.String()+"/evaluate", "resume",
		map[string]string{"cv.exe": "MZ"}))

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBatchThenStatisticsAndRankings(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)
	base := "/api/v1/jobs/" + job.ID.String()

	status, body := s.do(t, uploadRequest(t, base+"/batch", "resumes", map[string]string{
		"a.txt": resumeText,
		"b.txt": resumeText,
		"c.txt": "",
	}))
	require.Equal(t, http.StatusOK, status, string(body))

	var summary models.BatchEvaluationResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 3, summary.TotalProcessed)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "c.txt", summary.Errors[0].FileName)

	status, body = s.do(t, httptest.NewRequest(http.MethodGet, base+"/statistics", nil))
	require.Equal(t, http.StatusOK, status)

	var stats ranking.Statistics
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 3, stats.TotalEvaluations)
	assert.Equal(t, 2, stats.ScoredEvaluations)
	assert.Equal(t, 1, stats.FailedEvaluations)
	assert.Equal(t, 85.0, stats.AverageScore)

	status, body = s.do(t, httptest.NewRequest(http.MethodGet, base+"/rankings", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"rankings"`)

	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, base+"/results?min_score=101", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStatisticsUnknownJob(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+uuid.NewString()+"/statistics", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearchNotConfigured(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t)

	status, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID.String()+"/search?q=go", nil))
	assert.Equal(t, http.StatusNotImplemented, status)
}

func TestBatchStatusNotFound(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/batches/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInterviewPlan(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, jsonRequest(http.MethodPost, "/api/v1/interview/plan", map[string]any{
		"duration_minutes": 60,
		"screening_pct":    30,
		"technical_pct":    50,
		"hr_pct":           20,
	}))
	require.Equal(t, http.StatusOK, status, string(body))

	var alloc models.QuestionAllocation
	require.NoError(t, json.Unmarshal(body, &alloc))
	assert.Equal(t, models.QuestionAllocation{
		Screening:           6,
		Technical:           10,
		HR:                  4,
		BaseTotal:           20,
		TotalWithVariations: 60,
	}, alloc)
}

func TestInterviewPlanValidation(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, jsonRequest(http.MethodPost, "/api/v1/interview/plan", map[string]any{
		"screening_pct": 30,
	}))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestInterviewQuestionsUnknownEvaluation(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, jsonRequest(http.MethodPost, "/api/v1/interview/questions", map[string]any{
		"evaluation_id":    uuid.NewString(),
		"duration_minutes": 10,
	}))
	assert.Equal(t, http.StatusNotFound, status)
}
