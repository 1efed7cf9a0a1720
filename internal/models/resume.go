package models

import "time"

// ResumeDocument is a resolved local file awaiting evaluation.
type ResumeDocument struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
}

type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type EducationEntry struct {
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	Year   string `json:"year,omitempty"`
	Raw    string `json:"raw_text"`
}

// ExperienceEntry is either the synthetic total-years entry or one job-title line.
type ExperienceEntry struct {
	TotalYears *int   `json:"total_years,omitempty"`
	Title      string `json:"title,omitempty"`
	Raw        string `json:"raw_text,omitempty"`
}

type ProjectEntry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ExtractedResume holds the best-effort fields pulled from one document.
type ExtractedResume struct {
	PersonalInfo   PersonalInfo      `json:"personal_info"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Skills         []string          `json:"skills"`
	Certifications []string          `json:"certifications"`
	Projects       []ProjectEntry    `json:"projects"`
	RawText        string            `json:"raw_text"`
	ParsedAt       time.Time         `json:"parsed_at"`
}

// TotalYears returns the stated years of experience, or 0 when none was found.
func (r *ExtractedResume) TotalYears() int {
	if r == nil {
		return 0
	}
	for _, e := range r.Experience {
		if e.TotalYears != nil {
			return *e.TotalYears
		}
	}
	return 0
}
