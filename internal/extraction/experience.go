package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

var (
	yearsOfExperiencePattern = regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`)
	jobTitlePattern          = regexp.MustCompile(`\b(software engineer|developer|programmer|analyst|manager|designer|architect|consultant|specialist|lead|senior|junior|intern|associate)s?\b`)
)

// Experience collects job-title lines and, when the text states one, prepends
// the largest "N years of experience" figure as a synthetic entry.
func Experience(text string) []models.ExperienceEntry {
	var entries []models.ExperienceEntry

	if years, ok := YearsOfExperience(text); ok {
		entries = append(entries, models.ExperienceEntry{TotalYears: &years})
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if jobTitlePattern.MatchString(strings.ToLower(trimmed)) {
			entries = append(entries, models.ExperienceEntry{Title: trimmed, Raw: line})
		}
	}

	return entries
}

// YearsOfExperience returns the maximum stated years of experience.
func YearsOfExperience(text string) (int, bool) {
	best, found := 0, false
	for _, m := range yearsOfExperiencePattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}
