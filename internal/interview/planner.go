// Package interview allocates an interview's time budget across question categories.
package interview

import "alfredoptarigan/cv-screener/internal/models"

// VariationsPerQuestion is the number of difficulty variants generated per base question.
const VariationsPerQuestion = 3

const defaultBaseQuestions = 7

var baseQuestionsByDuration = map[int]int{
	10: 3,
	20: 7,
	30: 10,
	45: 15,
	60: 20,
}

// BaseQuestionCount returns the number of base questions that fit in durationMinutes.
func BaseQuestionCount(durationMinutes int) int {
	if n, ok := baseQuestionsByDuration[durationMinutes]; ok {
		return n
	}
	return defaultBaseQuestions
}

// Plan splits the base question count for durationMinutes across screening,
// technical and HR questions by percentage. Each category gets at least one
// question; rounding shortfall goes to technical, and any excess is taken back
// from the larger of technical and HR first.
func Plan(durationMinutes, screeningPct, technicalPct, hrPct int) models.QuestionAllocation {
	base := BaseQuestionCount(durationMinutes)

	screening := share(base, screeningPct)
	technical := share(base, technicalPct)
	hr := share(base, hrPct)

	sum := screening + technical + hr
	switch {
	case sum < base:
		technical += base - sum
	case sum > base:
		excess := sum - base
		if technical >= hr {
			excess = takeDown(&technical, excess)
			excess = takeDown(&hr, excess)
		} else {
			excess = takeDown(&hr, excess)
			excess = takeDown(&technical, excess)
		}
		takeDown(&screening, excess)
	}

	total := screening + technical + hr
	return models.QuestionAllocation{
		Screening:           screening,
		Technical:           technical,
		HR:                  hr,
		BaseTotal:           total,
		TotalWithVariations: total * VariationsPerQuestion,
	}
}

func share(base, pct int) int {
	return max(1, base*pct/100)
}

// takeDown lowers *n by up to excess without going below one and returns what is left.
func takeDown(n *int, excess int) int {
	if excess <= 0 {
		return 0
	}
	cut := min(excess, *n-1)
	if cut < 0 {
		cut = 0
	}
	*n -= cut
	return excess - cut
}
