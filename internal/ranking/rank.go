package ranking

import (
	"sort"
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

// Rank returns the completed, scored records ordered by overall score descending.
// Ties go to the earlier evaluation, then to the candidate name, then to input order.
func Rank(records []*models.Evaluation) []*models.Evaluation {
	ranked := make([]*models.Evaluation, 0, len(records))
	for _, r := range records {
		if r != nil && r.ProcessingStatus == models.StatusCompleted && r.OverallScore != nil {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if *a.OverallScore != *b.OverallScore {
			return *a.OverallScore > *b.OverallScore
		}
		if !a.EvaluatedAt.Equal(b.EvaluatedAt) {
			return a.EvaluatedAt.Before(b.EvaluatedAt)
		}
		return strings.ToLower(a.CandidateName) < strings.ToLower(b.CandidateName)
	})

	return ranked
}

// Filter applies q to records in memory: score range, recommendation and
// status filters, then sorting and paging. q is normalized first.
func Filter(records []*models.Evaluation, q models.ResultQuery) []*models.Evaluation {
	q.Normalize()

	out := make([]*models.Evaluation, 0, len(records))
	for _, r := range records {
		if r == nil || !matches(r, q) {
			continue
		}
		out = append(out, r)
	}

	desc := q.SortOrder == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], q.SortBy)
		if desc {
			return c > 0
		}
		return c < 0
	})

	if q.Offset >= len(out) {
		return []*models.Evaluation{}
	}
	out = out[q.Offset:]
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matches(r *models.Evaluation, q models.ResultQuery) bool {
	if q.MinScore != nil && (r.OverallScore == nil || *r.OverallScore < *q.MinScore) {
		return false
	}
	if q.MaxScore != nil && (r.OverallScore == nil || *r.OverallScore > *q.MaxScore) {
		return false
	}
	if q.Recommendation != "" && r.Recommendation != q.Recommendation {
		return false
	}
	if q.Status != "" && r.ProcessingStatus != q.Status {
		return false
	}
	return true
}

// compare orders two records by field. Unscored records sort below every score.
func compare(a, b *models.Evaluation, field string) int {
	switch field {
	case "evaluated_at":
		return a.EvaluatedAt.Compare(b.EvaluatedAt)
	case "candidate_name":
		return strings.Compare(strings.ToLower(a.CandidateName), strings.ToLower(b.CandidateName))
	default:
		as, bs := -1, -1
		if a.OverallScore != nil {
			as = *a.OverallScore
		}
		if b.OverallScore != nil {
			bs = *b.OverallScore
		}
		return as - bs
	}
}
