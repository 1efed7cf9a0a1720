package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/cv-screener/internal/models"
)

// scoreResponseSchema only pins what scoring cannot do without. Everything
// else is coerced leniently.
const scoreResponseSchema = `{
  "type": "object",
  "required": ["skills_score", "experience_score", "education_score"],
  "properties": {
    "skills_score":     {"type": ["number", "string"]},
    "experience_score": {"type": ["number", "string"]},
    "education_score":  {"type": ["number", "string"]},
    "skills_matched":   {"type": ["array", "null"]},
    "skills_missing":   {"type": ["array", "null"]},
    "strengths":        {"type": ["array", "null"]},
    "improvements":     {"type": ["array", "null"]},
    "experience_details": {"type": ["object", "null"]},
    "education_details":  {"type": ["object", "null"]}
  }
}`

var scoreSchema = gojsonschema.NewStringLoader(scoreResponseSchema)

var (
	errNoJSONObject = errors.New("no JSON object found in response")
	errNotNumeric   = errors.New("score is not numeric")
)

// scoredResponse is the scorer's answer after coercion. Sub-scores are not yet clamped.
type scoredResponse struct {
	SkillsScore       int
	ExperienceScore   int
	EducationScore    int
	SkillsMatched     []string
	SkillsMissing     []string
	ExperienceDetails models.ExperienceDetails
	EducationDetails  models.EducationDetails
	Summary           string
	Strengths         []string
	Improvements      []string
}

// neutralResponse is used whenever the scorer answers with something unusable.
func neutralResponse() scoredResponse {
	return scoredResponse{
		SkillsScore:     50,
		ExperienceScore: 50,
		EducationScore:  50,
		SkillsMatched:   []string{},
		SkillsMissing:   []string{},
		ExperienceDetails: models.ExperienceDetails{
			Years:     0,
			Relevance: "Unable to evaluate",
			KeyRoles:  []string{},
		},
		EducationDetails: models.EducationDetails{
			HighestDegree: "Unknown",
			Relevance:     "Unable to evaluate",
		},
		Summary:      "Evaluation could not be completed",
		Strengths:    []string{},
		Improvements: []string{},
	}
}

// parseScoreResponse pulls the first JSON object out of raw, checks it against
// the schema and coerces its fields.
func parseScoreResponse(raw string) (scoredResponse, error) {
	object, err := extractJSONObject(raw)
	if err != nil {
		return scoredResponse{}, err
	}

	result, err := gojsonschema.Validate(scoreSchema, gojsonschema.NewStringLoader(object))
	if err != nil {
		return scoredResponse{}, fmt.Errorf("failed to decode response JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return scoredResponse{}, fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(object), &data); err != nil {
		return scoredResponse{}, fmt.Errorf("failed to decode response JSON: %w", err)
	}

	out := scoredResponse{
		SkillsMatched: coerceStringSlice(data["skills_matched"]),
		SkillsMissing: coerceStringSlice(data["skills_missing"]),
		Summary:       coerceString(data["summary"]),
		Strengths:     coerceStringSlice(data["strengths"]),
		Improvements:  coerceStringSlice(data["improvements"]),
	}

	if out.SkillsScore, err = coerceInt(data["skills_score"]); err != nil {
		return scoredResponse{}, fmt.Errorf("skills_score: %w", err)
	}
	if out.ExperienceScore, err = coerceInt(data["experience_score"]); err != nil {
		return scoredResponse{}, fmt.Errorf("experience_score: %w", err)
	}
	if out.EducationScore, err = coerceInt(data["education_score"]); err != nil {
		return scoredResponse{}, fmt.Errorf("education_score: %w", err)
	}

	if exp, ok := data["experience_details"].(map[string]any); ok {
		years, _ := coerceFloat(exp["years"])
		out.ExperienceDetails = models.ExperienceDetails{
			Years:     years,
			Relevance: coerceString(exp["relevance"]),
			KeyRoles:  coerceStringSlice(exp["key_roles"]),
		}
	} else {
		out.ExperienceDetails = models.ExperienceDetails{KeyRoles: []string{}}
	}
	if edu, ok := data["education_details"].(map[string]any); ok {
		out.EducationDetails = models.EducationDetails{
			HighestDegree: coerceString(edu["highest_degree"]),
			Relevance:     coerceString(edu["relevance"]),
		}
	}

	return out, nil
}

// extractJSONObject returns the first balanced {...} span in text that is
// valid JSON. Braces inside string literals are ignored, so fenced or chatty
// answers still parse.
func extractJSONObject(text string) (string, error) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end := balancedEnd(text, start)
		if end < 0 {
			continue
		}
		if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", errNoJSONObject
}

// balancedEnd returns the index of the brace closing the one at start, or -1.
func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func coerceFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case json.Number:
		return val.Float64()
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotNumeric
		}
		return f, nil
	default:
		return 0, errNotNumeric
	}
}

func coerceInt(v any) (int, error) {
	f, err := coerceFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	// bound before converting; out-of-range floats do not convert to int
	return int(math.RoundToEven(math.Max(0, math.Min(100, f)))), nil
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
