package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"alfredoptarigan/cv-screener/internal/models"
)

var educationKeywords = []string{
	"education", "academic", "qualification", "degree",
	"bachelor", "master", "phd", "diploma", "certificate",
}

var (
	degreePattern = regexp.MustCompile(`\b((?i:bachelor(?:'s|s)?|master(?:'s|s)?|phd|ph\.d\.?|doctorate)|MBA|B\.?Tech|M\.?Tech|B\.S\.?|M\.S\.?|BSc|MSc|BS|MS|B\.E\.?|M\.E\.?)`)
	fieldPattern  = regexp.MustCompile(`(?i)(computer science|engineering|information technology|software|data science)`)
	yearPattern   = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

const educationWindow = 5

// Education scans a short window after every education keyword line and keeps
// the entries that name a degree or a year.
func Education(text string) []models.EducationEntry {
	lines := splitLines(text)
	var entries []models.EducationEntry
	seen := make(map[models.EducationEntry]struct{})

	for i, line := range lines {
		if !containsAny(strings.ToLower(line), educationKeywords) {
			continue
		}
		block := strings.Join(window(lines, i, educationWindow), "\n")

		entry := models.EducationEntry{
			Degree: firstDegree(block),
			Field:  fieldPattern.FindString(block),
			Year:   yearPattern.FindString(block),
		}
		if entry.Degree == "" && entry.Year == "" {
			continue
		}
		entry.Raw = strings.TrimSpace(line)

		key := entry
		key.Raw = ""
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}

// firstDegree returns the first degree token that is not the prefix of a longer word.
func firstDegree(block string) string {
	for _, loc := range degreePattern.FindAllStringIndex(block, -1) {
		if loc[1] < len(block) {
			r, _ := utf8.DecodeRuneInString(block[loc[1]:])
			if unicode.IsLetter(r) {
				continue
			}
		}
		return block[loc[0]:loc[1]]
	}
	return ""
}
