package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/ranking"
)

// MemoryStore keeps job requirements, evaluations and question sets in process.
// The CLI uses it for offline runs and tests use it in place of postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]models.JobRequirement
	evals     map[uuid.UUID]models.Evaluation
	evalOrder []uuid.UUID
	questions map[uuid.UUID]models.InterviewQuestionSet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:      make(map[uuid.UUID]models.JobRequirement),
		evals:     make(map[uuid.UUID]models.Evaluation),
		questions: make(map[uuid.UUID]models.InterviewQuestionSet),
	}
}

// Jobs returns the store as a JobRequirementRepository.
func (m *MemoryStore) Jobs() JobRequirementRepository { return memoryJobs{m} }

// Evaluations returns the store as an EvaluationRepository.
func (m *MemoryStore) Evaluations() EvaluationRepository { return memoryEvaluations{m} }

// QuestionSets returns the store as a QuestionSetRepository.
func (m *MemoryStore) QuestionSets() QuestionSetRepository { return memoryQuestionSets{m} }

type memoryJobs struct{ m *MemoryStore }

func (r memoryJobs) Create(_ context.Context, job *models.JobRequirement) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now()
	job.CreatedAt, job.UpdatedAt = now, now
	r.m.jobs[job.ID] = *job
	return nil
}

func (r memoryJobs) FindByID(_ context.Context, id uuid.UUID) (*models.JobRequirement, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	job, ok := r.m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job requirement %s: %w", id, ErrNotFound)
	}
	return &job, nil
}

type memoryEvaluations struct{ m *MemoryStore }

func (r memoryEvaluations) Create(_ context.Context, eval *models.Evaluation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	now := time.Now()
	eval.CreatedAt, eval.UpdatedAt = now, now

	stored := *eval
	stored.AIRawResponse = ""
	if _, exists := r.m.evals[eval.ID]; !exists {
		r.m.evalOrder = append(r.m.evalOrder, eval.ID)
	}
	r.m.evals[eval.ID] = stored
	return nil
}

func (r memoryEvaluations) FindByID(_ context.Context, id uuid.UUID) (*models.Evaluation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	eval, ok := r.m.evals[id]
	if !ok {
		return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	return &eval, nil
}

func (r memoryEvaluations) AllByJob(_ context.Context, jobID uuid.UUID) ([]*models.Evaluation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []*models.Evaluation
	for _, id := range r.m.evalOrder {
		eval := r.m.evals[id]
		if eval.JobRequirementID == jobID {
			out = append(out, &eval)
		}
	}
	return out, nil
}

func (r memoryEvaluations) ListByJob(ctx context.Context, jobID uuid.UUID, q models.ResultQuery) ([]*models.Evaluation, error) {
	all, err := r.AllByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return ranking.Filter(all, q), nil
}

func (r memoryEvaluations) UpdateCandidateName(_ context.Context, id uuid.UUID, name string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	eval, ok := r.m.evals[id]
	if !ok {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	eval.CandidateName = name
	eval.UpdatedAt = time.Now()
	r.m.evals[id] = eval
	return nil
}

type memoryQuestionSets struct{ m *MemoryStore }

func (r memoryQuestionSets) Upsert(_ context.Context, set *models.InterviewQuestionSet) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := time.Now()
	if existing, ok := r.m.questions[set.EvaluationID]; ok && existing.JobRequirementID == set.JobRequirementID {
		set.ID = existing.ID
		set.CreatedAt = existing.CreatedAt
	} else {
		if set.ID == uuid.Nil {
			set.ID = uuid.New()
		}
		set.CreatedAt = now
	}
	set.UpdatedAt = now
	r.m.questions[set.EvaluationID] = *set
	return nil
}

func (r memoryQuestionSets) FindByEvaluation(_ context.Context, evaluationID uuid.UUID) (*models.InterviewQuestionSet, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	set, ok := r.m.questions[evaluationID]
	if !ok {
		return nil, fmt.Errorf("question set for %s: %w", evaluationID, ErrNotFound)
	}
	return &set, nil
}
