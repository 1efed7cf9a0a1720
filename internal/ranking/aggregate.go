// Package ranking derives statistics and ranked views from evaluation records.
// Everything here is a pure function of its input.
package ranking

import (
	"sort"
	"strings"
	"time"

	"alfredoptarigan/cv-screener/internal/models"
)

// ScoreBuckets are the histogram labels in ascending order. The last bucket is closed on both ends.
var ScoreBuckets = []string{"0-19", "20-39", "40-59", "60-79", "80-100"}

const topSkillsLimit = 10

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Statistics struct {
	TotalEvaluations           int            `json:"total_evaluations"`
	ScoredEvaluations          int            `json:"scored_evaluations"`
	FailedEvaluations          int            `json:"failed_evaluations"`
	AverageScore               float64        `json:"average_score"`
	ScoreDistribution          map[string]int `json:"score_distribution"`
	RecommendationDistribution map[string]int `json:"recommendation_distribution"`
	AverageProcessingTimeMs    float64        `json:"average_processing_time_ms"`
	TopSkills                  []SkillCount   `json:"top_skills"`
	EvaluationPeriod           *Period        `json:"evaluation_period,omitempty"`
}

// Aggregate computes statistics over records. Unscored records count toward
// the total but are excluded from score averages and the histogram.
func Aggregate(records []*models.Evaluation) Statistics {
	stats := Statistics{
		TotalEvaluations:           len(records),
		ScoreDistribution:          map[string]int{},
		RecommendationDistribution: map[string]int{},
		TopSkills:                  []SkillCount{},
	}

	var (
		scoreSum    int
		timeSum     int64
		timeCount   int
		skillIndex  = map[string]int{}
		skillCounts []SkillCount
	)

	for _, r := range records {
		if r == nil {
			continue
		}
		if r.ProcessingStatus == models.StatusFailed {
			stats.FailedEvaluations++
		}

		if r.OverallScore != nil {
			if stats.ScoredEvaluations == 0 {
				for _, b := range ScoreBuckets {
					stats.ScoreDistribution[b] = 0
				}
			}
			stats.ScoredEvaluations++
			scoreSum += *r.OverallScore
			stats.ScoreDistribution[BucketFor(*r.OverallScore)]++
		}

		if r.Recommendation != "" {
			stats.RecommendationDistribution[string(r.Recommendation)]++
		}

		if r.ProcessingTimeMs != nil {
			timeSum += *r.ProcessingTimeMs
			timeCount++
		}

		for _, skill := range r.SkillsMatched {
			display := strings.TrimSpace(skill)
			if display == "" {
				continue
			}
			key := strings.ToLower(display)
			if i, ok := skillIndex[key]; ok {
				skillCounts[i].Count++
				continue
			}
			skillIndex[key] = len(skillCounts)
			skillCounts = append(skillCounts, SkillCount{Skill: display, Count: 1})
		}

		if !r.EvaluatedAt.IsZero() {
			if stats.EvaluationPeriod == nil {
				stats.EvaluationPeriod = &Period{Start: r.EvaluatedAt, End: r.EvaluatedAt}
			} else {
				if r.EvaluatedAt.Before(stats.EvaluationPeriod.Start) {
					stats.EvaluationPeriod.Start = r.EvaluatedAt
				}
				if r.EvaluatedAt.After(stats.EvaluationPeriod.End) {
					stats.EvaluationPeriod.End = r.EvaluatedAt
				}
			}
		}
	}

	if stats.ScoredEvaluations > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.ScoredEvaluations)
	}
	if timeCount > 0 {
		stats.AverageProcessingTimeMs = float64(timeSum) / float64(timeCount)
	}

	sort.SliceStable(skillCounts, func(i, j int) bool {
		return skillCounts[i].Count > skillCounts[j].Count
	})
	if len(skillCounts) > topSkillsLimit {
		skillCounts = skillCounts[:topSkillsLimit]
	}
	stats.TopSkills = append(stats.TopSkills, skillCounts...)

	return stats
}

// BucketFor returns the histogram label for score, clamping out-of-range values.
func BucketFor(score int) string {
	switch {
	case score < 0:
		score = 0
	case score > 100:
		score = 100
	}
	i := score / 20
	if i >= len(ScoreBuckets) {
		i = len(ScoreBuckets) - 1
	}
	return ScoreBuckets[i]
}
