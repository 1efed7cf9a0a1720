package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"alfredoptarigan/cv-screener/internal/models"
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,4}([-.\s]?\d{1,4})?`)
	linkedInPattern = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	gitHubPattern   = regexp.MustCompile(`github\.com/[\w-]+`)
)

var nameStopWords = map[string]struct{}{
	"resume":     {},
	"cv":         {},
	"curriculum": {},
	"page":       {},
}

const (
	nameScanLines = 10
	nameMaxTokens = 4
	phoneMinDigit = 7
)

func PersonalInfo(text string) models.PersonalInfo {
	lower := strings.ToLower(text)
	return models.PersonalInfo{
		Name:     Name(text),
		Email:    emailPattern.FindString(text),
		Phone:    Phone(text),
		LinkedIn: linkedInPattern.FindString(lower),
		GitHub:   gitHubPattern.FindString(lower),
	}
}

// Phone returns the first separator-tolerant number with enough digits to be a
// phone number. Bare years such as "2019" are skipped.
func Phone(text string) string {
	for _, m := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits >= phoneMinDigit {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// Name picks the first short, digit-free line among the first non-empty lines.
func Name(text string) string {
	seen := 0
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > nameScanLines {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

// LooksLikeName applies the name heuristic to a single line.
func LooksLikeName(line string) bool {
	return looksLikeName(strings.TrimSpace(line))
}

func looksLikeName(line string) bool {
	if line == "" {
		return false
	}
	tokens := strings.Fields(line)
	if len(tokens) > nameMaxTokens {
		return false
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	for _, tok := range tokens {
		if _, stop := nameStopWords[strings.ToLower(strings.Trim(tok, ".,;-|"))]; stop {
			return false
		}
	}
	return true
}
