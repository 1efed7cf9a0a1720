// Package extraction pulls best-effort structured fields out of plain resume text.
//
// Every extractor is a pure function of the text. A miss yields a zero value,
// never an error.
package extraction

import (
	"strings"
	"time"
	"unicode"

	"alfredoptarigan/cv-screener/internal/models"
)

// Parse runs every field extractor over text.
func Parse(text string, now time.Time) *models.ExtractedResume {
	return &models.ExtractedResume{
		PersonalInfo:   PersonalInfo(text),
		Education:      Education(text),
		Experience:     Experience(text),
		Skills:         Skills(text),
		Certifications: Certifications(text),
		Projects:       Projects(text),
		RawText:        text,
		ParsedAt:       now,
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// window returns lines[start:start+n] clipped to the slice bounds.
func window(lines []string, start, n int) []string {
	if start < 0 {
		start = 0
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return lines[start:end]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// containsToken reports whether token occurs in s with no letter or digit
// directly before or after it, so "go" does not match "google".
func containsToken(s, token string) bool {
	if token == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(s[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		if !isWordByteBefore(s, start) && !isWordByteAt(s, end) {
			return true
		}
		from = start + 1
		if from >= len(s) {
			return false
		}
	}
}

func isWordByteBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	return isWordRune(rune(s[i-1]))
}

func isWordByteAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	return isWordRune(rune(s[i]))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func appendUnique(list []string, seen map[string]struct{}, v string) []string {
	if _, ok := seen[v]; ok {
		return list
	}
	seen[v] = struct{}{}
	return append(list, v)
}
