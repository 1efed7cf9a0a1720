package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func scored(name string, score int, at time.Time, skills ...string) *models.Evaluation {
	return &models.Evaluation{
		CandidateName:    name,
		OverallScore:     ptr(score),
		Recommendation:   models.RecommendationFairMatch,
		ProcessingStatus: models.StatusCompleted,
		ProcessingTimeMs: ptr(int64(1000)),
		SkillsMatched:    skills,
		EvaluatedAt:      at,
	}
}

func failed(name string) *models.Evaluation {
	return &models.Evaluation{
		CandidateName:    name,
		ProcessingStatus: models.StatusFailed,
		ProcessingError:  "document is empty",
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Equal(t, 0, stats.TotalEvaluations)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Empty(t, stats.ScoreDistribution)
	assert.NotNil(t, stats.ScoreDistribution)
	assert.Empty(t, stats.RecommendationDistribution)
	assert.Empty(t, stats.TopSkills)
	assert.Nil(t, stats.EvaluationPeriod)
}

func TestAggregateHistogramBoundaries(t *testing.T) {
	records := []*models.Evaluation{
		scored("a", 0, t0), scored("b", 19, t0), scored("c", 20, t0),
		scored("d", 79, t0), scored("e", 80, t0), scored("f", 100, t0),
	}

	stats := Aggregate(records)

	assert.Equal(t, map[string]int{
		"0-19":   2,
		"20-39":  1,
		"40-59":  0,
		"60-79":  1,
		"80-100": 2,
	}, stats.ScoreDistribution)
}

func TestAggregateExcludesUnscoredFromAverages(t *testing.T) {
	a := scored("a", 90, t0)
	a.Recommendation = models.RecommendationStrongMatch
	a.ProcessingTimeMs = ptr(int64(3000))
	b := scored("b", 60, t0.Add(time.Hour))
	b.ProcessingTimeMs = ptr(int64(1000))

	stats := Aggregate([]*models.Evaluation{a, failed("c"), b})

	assert.Equal(t, 3, stats.TotalEvaluations)
	assert.Equal(t, 2, stats.ScoredEvaluations)
	assert.Equal(t, 1, stats.FailedEvaluations)
	assert.InDelta(t, 75.0, stats.AverageScore, 1e-9)
	assert.InDelta(t, 2000.0, stats.AverageProcessingTimeMs, 1e-9)
	assert.Equal(t, map[string]int{"STRONG_MATCH": 1, "FAIR_MATCH": 1}, stats.RecommendationDistribution)
	require.NotNil(t, stats.EvaluationPeriod)
	assert.Equal(t, t0, stats.EvaluationPeriod.Start)
	assert.Equal(t, t0.Add(time.Hour), stats.EvaluationPeriod.End)
}

func TestAggregateTopSkillsStableOnFirstEncounter(t *testing.T) {
	records := []*models.Evaluation{
		scored("a", 50, t0, "Go", "Docker", "SQL"),
		scored("b", 50, t0, "sql", "go ", "Kafka"),
		scored("c", 50, t0, "Kafka"),
	}

	stats := Aggregate(records)

	assert.Equal(t, []SkillCount{
		{Skill: "Go", Count: 2},
		{Skill: "SQL", Count: 2},
		{Skill: "Kafka", Count: 2},
		{Skill: "Docker", Count: 1},
	}, stats.TopSkills)
}

func TestAggregateTopSkillsLimit(t *testing.T) {
	var skills []string
	for _, s := range "abcdefghijkl" {
		skills = append(skills, string(s)+"-skill")
	}

	stats := Aggregate([]*models.Evaluation{scored("a", 50, t0, skills...)})

	require.Len(t, stats.TopSkills, 10)
	assert.Equal(t, "a-skill", stats.TopSkills[0].Skill)
	assert.Equal(t, "j-skill", stats.TopSkills[9].Skill)
}

func TestRankCompletedOnlyWithExplicitTiebreak(t *testing.T) {
	late := scored("Zed", 80, t0.Add(time.Minute))
	earlyB := scored("bob", 80, t0)
	earlyA := scored("Alice", 80, t0)
	top := scored("Top", 95, t0.Add(time.Hour))
	pending := scored("Pending", 99, t0)
	pending.ProcessingStatus = models.StatusPending

	ranked := Rank([]*models.Evaluation{late, earlyB, failed("x"), earlyA, top, pending})

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.CandidateName)
	}
	assert.Equal(t, []string{"Top", "Alice", "bob", "Zed"}, names)
}

func TestFilter(t *testing.T) {
	records := []*models.Evaluation{
		scored("a", 40, t0), scored("b", 70, t0), scored("c", 90, t0), failed("d"),
	}
	records[2].Recommendation = models.RecommendationStrongMatch

	got := Filter(records, models.ResultQuery{MinScore: ptr(50)})
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].CandidateName)
	assert.Equal(t, "b", got[1].CandidateName)

	got = Filter(records, models.ResultQuery{Recommendation: models.RecommendationStrongMatch})
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].CandidateName)

	got = Filter(records, models.ResultQuery{Status: models.StatusFailed})
	require.Len(t, got, 1)
	assert.Equal(t, "d", got[0].CandidateName)

	got = Filter(records, models.ResultQuery{SortBy: "candidate_name", SortOrder: "asc", Offset: 1, Limit: 2})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CandidateName)
	assert.Equal(t, "c", got[1].CandidateName)

	assert.Empty(t, Filter(records, models.ResultQuery{Offset: 10}))
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, "0-19", BucketFor(-5))
	assert.Equal(t, "40-59", BucketFor(59))
	assert.Equal(t, "80-100", BucketFor(100))
	assert.Equal(t, "80-100", BucketFor(140))
}
