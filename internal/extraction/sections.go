package extraction

import (
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

var (
	certificationKeywords = []string{"certification", "certified", "certificate", "license"}
	certificationNames    = []string{
		"aws", "azure", "gcp", "ccna", "ccnp", "pmp", "cissp",
		"comptia", "oracle", "microsoft", "google", "cisco",
		"scrum master", "product owner", "itil", "six sigma",
	}
	projectKeywords = []string{"projects", "portfolio", "personal projects", "academic projects"}
	sectionHeadings = map[string]struct{}{
		"education": {}, "experience": {}, "work experience": {}, "professional experience": {},
		"skills": {}, "technical skills": {}, "certifications": {}, "awards": {}, "languages": {},
		"references": {}, "interests": {}, "summary": {},
	}
)

const (
	projectWindow       = 14
	projectTitleMaxWord = 10
)

// Certifications returns every line near a certification keyword that names a
// known certifying body, in order of appearance.
func Certifications(text string) []string {
	lines := splitLines(text)
	seen := make(map[string]struct{})
	var certs []string

	for i, line := range lines {
		if !containsAny(strings.ToLower(line), certificationKeywords) {
			continue
		}
		for j := max(0, i-1); j < min(i+3, len(lines)); j++ {
			candidate := strings.TrimSpace(lines[j])
			if candidate == "" {
				continue
			}
			if containsAny(strings.ToLower(candidate), certificationNames) {
				certs = appendUnique(certs, seen, candidate)
			}
		}
	}

	return certs
}

// Projects groups the lines after a projects heading. A title-like line opens
// a project; bullet or long lines that follow become its description. A blank
// line closes the current project.
func Projects(text string) []models.ProjectEntry {
	lines := splitLines(text)
	start := -1
	for i, line := range lines {
		if containsAny(strings.ToLower(line), projectKeywords) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var (
		projects []models.ProjectEntry
		current  *models.ProjectEntry
		desc     []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.Join(desc, " ")
		projects = append(projects, *current)
		current, desc = nil, nil
	}

	for _, line := range window(lines, start+1, projectWindow) {
		trimmed := strings.TrimSpace(line)
		if isSectionHeading(trimmed) {
			break
		}
		switch {
		case trimmed == "":
			flush()
		case current == nil || isProjectTitle(line):
			flush()
			current = &models.ProjectEntry{Title: strings.TrimSpace(stripBullet(trimmed))}
		default:
			desc = append(desc, stripBullet(trimmed))
		}
	}
	flush()

	return projects
}

func isSectionHeading(line string) bool {
	_, ok := sectionHeadings[strings.ToLower(strings.TrimRight(line, ": "))]
	return ok
}

func isProjectTitle(line string) bool {
	if line != strings.TrimLeft(line, " \t") {
		return false
	}
	trimmed := strings.TrimSpace(line)
	if stripBullet(trimmed) != trimmed {
		return false
	}
	if strings.HasSuffix(trimmed, ".") {
		return false
	}
	return len(strings.Fields(trimmed)) <= projectTitleMaxWord
}

func stripBullet(s string) string {
	for _, b := range []string{"•", "-", "*", "·", "–", "▪"} {
		if strings.HasPrefix(s, b) {
			return strings.TrimSpace(strings.TrimPrefix(s, b))
		}
	}
	return s
}
