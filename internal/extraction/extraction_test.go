package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Senior Backend Engineer
jane.doe@example.com | +1 (555) 123-4567
linkedin.com/in/Jane-Doe | github.com/janedoe

SUMMARY
Backend developer with 7+ years of experience building distributed systems.
Over 5 years experience with cloud platforms.

TECHNICAL SKILLS
Go, Python, PostgreSQL, Kubernetes, Docker
gRPC, Event Sourcing

EXPERIENCE
Senior Software Engineer, Acme Corp (2019 - 2024)
Software Developer, Initech (2016 - 2019)

EDUCATION
Bachelor of Science in Computer Science
State University, 2016

CERTIFICATIONS
AWS Certified Solutions Architect
Certified Kubernetes Administrator

PROJECTS
Resume Ranker
- Scores resumes with an LLM backed pipeline.
  Handles thousands of documents per batch.

Chess Engine
- Bitboard move generator written in Rust.
`

func TestPersonalInfo(t *testing.T) {
	info := PersonalInfo(sampleResume)

	assert.Equal(t, "Jane Doe", info.Name)
	assert.Equal(t, "jane.doe@example.com", info.Email)
	assert.Equal(t, "+1 (555) 123-4567", info.Phone)
	assert.Equal(t, "linkedin.com/in/jane-doe", info.LinkedIn)
	assert.Equal(t, "github.com/janedoe", info.GitHub)
}

func TestNameSkipsStopWordsAndDigits(t *testing.T) {
	text := "Curriculum Vitae\nPage 1\nRESUME\nJohn Smith\n"
	assert.Equal(t, "John Smith", Name(text))

	assert.Equal(t, "", Name("Experienced engineer with a long track record\n2024"))
}

func TestNameAcceptsContactPunctuation(t *testing.T) {
	assert.Equal(t, "Jane Doe | jane@x.io", Name("Jane Doe | jane@x.io\nBackend Engineer 2020"))
	assert.True(t, LooksLikeName("Jane Doe / Berlin"))
	assert.False(t, LooksLikeName("Jane Doe, born 1990"))
}

func TestNameOnlyScansFirstTenLines(t *testing.T) {
	text := ""
	for i := 0; i < 10; i++ {
		text += "line number 1 with digits and many tokens here\n"
	}
	text += "Late Name\n"
	assert.Equal(t, "", Name(text))
}

func TestPhoneSkipsYears(t *testing.T) {
	assert.Equal(t, "", Phone("Graduated 2019, joined 2020"))
	assert.Equal(t, "+62 812 3456 7890", Phone("Call +62 812 3456 7890 anytime"))
}

func TestEducation(t *testing.T) {
	entries := Education(sampleResume)
	require.NotEmpty(t, entries)

	first := entries[0]
	assert.Equal(t, "Bachelor", first.Degree)
	assert.Equal(t, "Computer Science", first.Field)
	assert.Equal(t, "2016", first.Year)
}

func TestEducationRequiresDegreeOrYear(t *testing.T) {
	assert.Empty(t, Education("Education\nSelf taught through online courses"))
	assert.Empty(t, Education("No relevant section here"))
}

func TestExperience(t *testing.T) {
	entries := Experience(sampleResume)
	require.NotEmpty(t, entries)

	require.NotNil(t, entries[0].TotalYears)
	assert.Equal(t, 7, *entries[0].TotalYears)

	var titles []string
	for _, e := range entries[1:] {
		titles = append(titles, e.Title)
	}
	assert.Contains(t, titles, "Senior Software Engineer, Acme Corp (2019 - 2024)")
	assert.Contains(t, titles, "Software Developer, Initech (2016 - 2019)")
}

func TestExperienceWithoutYears(t *testing.T) {
	entries := Experience("Junior Analyst at Foo")
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].TotalYears)
	assert.Equal(t, "Junior Analyst at Foo", entries[0].Title)
}

func TestSkillsFromSection(t *testing.T) {
	skills := Skills(sampleResume)

	for _, want := range []string{"go", "python", "postgresql", "kubernetes", "docker", "grpc", "event sourcing"} {
		assert.Contains(t, skills, want)
	}
	assert.NotContains(t, skills, "technical skills")
	assert.IsNonDecreasing(t, skills)
}

func TestSkillsWholeTextWithoutSection(t *testing.T) {
	skills := Skills("Built services in Rust and TypeScript, deployed on AWS.\nMentored on Google products.")

	assert.Equal(t, []string{"aws", "rust", "typescript"}, skills)
}

func TestSkillsVocabularyTokenBoundaries(t *testing.T) {
	skills := Skills("Skills\nC++, C#, Node.js, CI/CD")

	for _, want := range []string{"c++", "c#", "node.js", "ci/cd"} {
		assert.Contains(t, skills, want)
	}
	assert.NotContains(t, skills, "r")
}

func TestSkillsFreeFormLengthBounds(t *testing.T) {
	skills := Skills("Skills\nX, Kafka, a very long skill name that exceeds the bound")

	assert.Contains(t, skills, "kafka")
	assert.NotContains(t, skills, "x")
	for _, s := range skills {
		assert.LessOrEqual(t, len(s), maxFreeSkillLength)
	}
}

func TestCertifications(t *testing.T) {
	certs := Certifications(sampleResume)

	assert.Contains(t, certs, "AWS Certified Solutions Architect")
	assert.NotContains(t, certs, "Certified Kubernetes Administrator")
}

func TestProjects(t *testing.T) {
	projects := Projects(sampleResume)
	require.Len(t, projects, 2)

	assert.Equal(t, "Resume Ranker", projects[0].Title)
	assert.Equal(t, "Scores resumes with an LLM backed pipeline. Handles thousands of documents per batch.", projects[0].Description)
	assert.Equal(t, "Chess Engine", projects[1].Title)
}

func TestProjectsAbsentSection(t *testing.T) {
	assert.Nil(t, Projects("Jane Doe\nEngineer"))
}

func TestParseEmptyText(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := Parse("", now)

	assert.Equal(t, "", r.RawText)
	assert.Empty(t, r.Skills)
	assert.Empty(t, r.Education)
	assert.Equal(t, 0, r.TotalYears())
	assert.Equal(t, now, r.ParsedAt)
}
