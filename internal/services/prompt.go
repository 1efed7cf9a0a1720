package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

// RawTextExcerptLimit caps the resume text embedded in the scoring request, in characters.
const RawTextExcerptLimit = 2000

const requirementListLimit = 5

const evaluationSystemPrompt = `You are an expert technical recruiter. You score resumes against structured job requirements and answer with a single JSON object and nothing else.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// EvaluationSystemPrompt returns the system instruction for scoring calls.
func (pb *PromptBuilder) EvaluationSystemPrompt() string {
	return evaluationSystemPrompt
}

// BuildEvaluationPrompt creates the scoring request from already-extracted
// requirement lists and resume fields. Candidate skills are embedded in full.
func (pb *PromptBuilder) BuildEvaluationPrompt(resume *models.ExtractedResume, job *models.JobRequirement) string {
	education := "Not found"
	if len(resume.Education) > 0 {
		if b, err := json.Marshal(resume.Education); err == nil {
			education = string(b)
		}
	}

	return fmt.Sprintf(`Evaluate this resume against the job requirements below. The requirements are already analyzed; do not re-derive them.

JOB REQUIREMENTS:
- Title: %s
- Level: %s (difficulty: %d/10)
- Required Experience: %d years
- Required Skills: %s
- Education Requirements: %s
- Key Responsibilities: %s
- Required Qualifications: %s
- Nice to Have: %s

CANDIDATE RESUME DATA:
- Skills Found: %s
- Total Experience: %d years
- Education: %s
- Certifications: %s
- Projects: %d projects found

RESUME TEXT EXCERPT:
%s

EVALUATION INSTRUCTIONS:
Compare the candidate directly against the requirements above.
Scoring weights: 60%% skills, 30%% experience, 10%% education.

Respond with JSON using exactly these keys:
{
  "skills_score": <0-100 based on match with required skills>,
  "experience_score": <0-100 based on the %d years requirement>,
  "education_score": <0-100 based on education requirements>,
  "skills_matched": [<required skills the candidate has>],
  "skills_missing": [<required skills the candidate lacks>],
  "experience_details": {
    "years": <actual years>,
    "relevance": "<relevance to a %s level role>",
    "key_roles": [<relevant roles>]
  },
  "education_details": {
    "highest_degree": "<degree>",
    "relevance": "<match with education requirements>"
  },
  "summary": "<2-3 sentence evaluation summary>",
  "strengths": [<top 3 strengths>],
  "improvements": [<top 3 gaps>]
}`,
		job.Title,
		job.JobLevel, job.DifficultyScore,
		job.RequiredExperienceYears,
		joinOr(job.RequiredSkills, 0, "None specified"),
		joinOr(job.EducationRequirements, 0, "Not specified"),
		joinOr(job.Responsibilities, requirementListLimit, "Not specified"),
		joinOr(job.Qualifications, requirementListLimit, "Not specified"),
		joinOr(job.NiceToHave, requirementListLimit, "None specified"),
		joinOr(resume.Skills, 0, "None identified"),
		resume.TotalYears(),
		education,
		joinOr(resume.Certifications, 0, "None"),
		len(resume.Projects),
		Excerpt(resume.RawText, RawTextExcerptLimit),
		job.RequiredExperienceYears,
		job.JobLevel,
	)
}

// BuildNameExtractionPrompt asks for the candidate's full name from the top of a resume.
func (pb *PromptBuilder) BuildNameExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract the candidate's full name from this resume text.
Return ONLY the name, with no label, punctuation or explanation.
If no name is present, return exactly: Unknown

RESUME TEXT:
%s`, Excerpt(resumeText, 1000))
}

var categoryFocus = map[models.QuestionCategory]struct{ focus, style string }{
	models.CategoryScreening: {
		focus: "Basic qualifications, background, motivation, communication skills and general understanding of the role",
		style: "open-ended questions to get to know the candidate",
	},
	models.CategoryTechnical: {
		focus: "Technical skills and expertise, problem-solving ability, experience with the required technologies and depth of knowledge in key areas",
		style: "specific questions about the job requirements, mixing theory and practice",
	},
	models.CategoryHR: {
		focus: "Teamwork and leadership, conflict resolution, career goals, work ethic and adaptability",
		style: "behavioral questions compatible with the STAR method",
	},
}

// BuildBaseQuestionsPrompt asks for count base questions of one category.
func (pb *PromptBuilder) BuildBaseQuestionsPrompt(category models.QuestionCategory, count int, job *models.JobRequirement, candidateName string) string {
	cfg := categoryFocus[category]
	return fmt.Sprintf(`You are an expert interviewer preparing %s questions for %s.

Job Title: %s (%s level)
Required Skills: %s
Key Responsibilities: %s

Generate EXACTLY %d %s questions that assess:
%s

Rules:
1. Use %s
2. One question per line, no numbering, no commentary
3. Make the questions progressively more challenging`,
		strings.ToUpper(string(category)), candidateName,
		job.Title, job.JobLevel,
		joinOr(job.RequiredSkills, 0, "None specified"),
		joinOr(job.Responsibilities, requirementListLimit, "Not specified"),
		count, category, cfg.focus, cfg.style,
	)
}

// BuildVariationsPrompt asks for easy, medium and difficult phrasings of one base question.
func (pb *PromptBuilder) BuildVariationsPrompt(category models.QuestionCategory, question string) string {
	return fmt.Sprintf(`Given this base interview question for a %s round:
"%s"

Write three versions of it:
- EASY: simpler phrasing for entry-level candidates, answerable in 60-90 seconds
- MEDIUM: standard professional phrasing, answerable in 90-120 seconds
- DIFFICULT: multi-layered, for senior candidates, answerable in 120-180 seconds

Format the answer EXACTLY as:
EASY: <question>
MEDIUM: <question>
DIFFICULT: <question>`, category, question)
}

// BuildGreetingPrompt asks for the interviewer's opening message.
func (pb *PromptBuilder) BuildGreetingPrompt(job *models.JobRequirement, candidateName string, durationMinutes int) string {
	return fmt.Sprintf(`Write a warm, professional two or three sentence greeting from an AI interviewer to %s, starting a %d-minute interview for the %s position. Mention the duration and invite the candidate to get comfortable. Return only the greeting.`,
		candidateName, durationMinutes, job.Title)
}

// Excerpt returns at most limit characters of text.
func Excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func joinOr(items []string, limit int, empty string) string {
	if len(items) == 0 {
		return empty
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
