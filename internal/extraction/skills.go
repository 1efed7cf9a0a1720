package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// SkillVocabulary is the fixed set of technology tokens matched case-insensitively.
var SkillVocabulary = []string{
	// languages
	"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
	"ruby", "php", "swift", "kotlin", "scala", "r", "matlab", "perl",
	// web
	"html", "css", "react", "angular", "vue", "node.js", "express",
	"django", "flask", "fastapi", "spring", "asp.net", "rails",
	// data stores
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
	"oracle", "cassandra", "dynamodb", "firebase", "supabase",
	// cloud and ops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "gitlab",
	"terraform", "ansible", "ci/cd", "linux", "bash", "powershell",
	// ml
	"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
	"scikit-learn", "pandas", "numpy", "opencv", "nlp", "computer vision",
	"langchain", "llamaindex", "openai", "gpt", "llm",
	// other
	"git", "agile", "scrum", "rest api", "graphql", "microservices",
	"blockchain", "android", "ios", "unity", "unreal engine",
}

var skillsKeywords = []string{"skills", "technical skills", "core competencies", "technologies"}

// Items end at a comma or at the end of a line; newlines never join two items.
var commaItemPattern = regexp.MustCompile(`(?m)[A-Za-z][A-Za-z \t+#.\-]+(?:,|$)`)

const (
	skillsWindow       = 10
	minFreeSkillLength = 2
	maxFreeSkillLength = 29
)

// Skills matches the vocabulary inside the skills section when one is found,
// or over the whole text otherwise. Comma-separated items of the section are
// added as free-form skills. The result is de-duplicated and sorted.
func Skills(text string) []string {
	lines := splitLines(text)
	start := skillsSectionStart(lines)

	search := strings.ToLower(text)
	var section string
	if start >= 0 {
		section = strings.Join(window(lines, start, skillsWindow), "\n")
		search = strings.ToLower(section)
	}

	seen := make(map[string]struct{})
	var skills []string
	for _, skill := range SkillVocabulary {
		if containsToken(search, skill) {
			skills = appendUnique(skills, seen, skill)
		}
	}

	if start >= 0 {
		for _, raw := range commaItemPattern.FindAllString(section, -1) {
			item := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ",")))
			if len(item) < minFreeSkillLength || len(item) > maxFreeSkillLength {
				continue
			}
			if isSkillsHeading(item) || isSectionHeading(item) {
				continue
			}
			skills = appendUnique(skills, seen, item)
		}
	}

	sort.Strings(skills)
	return skills
}

func skillsSectionStart(lines []string) int {
	for i, line := range lines {
		if containsAny(strings.ToLower(line), skillsKeywords) {
			return i
		}
	}
	return -1
}

func isSkillsHeading(item string) bool {
	for _, k := range skillsKeywords {
		if item == k {
			return true
		}
	}
	return false
}
