package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobLevel string

const (
	JobLevelEntry  JobLevel = "entry"
	JobLevelMid    JobLevel = "mid"
	JobLevelSenior JobLevel = "senior"
	JobLevelExpert JobLevel = "expert"
)

// JobRequirement is the read-only baseline every resume in a batch is scored against.
type JobRequirement struct {
	ID                      uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id" yaml:"-"`
	Title                   string                      `gorm:"type:text;not null" json:"title" yaml:"title" validate:"required,max=255"`
	RequiredSkills          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"required_skills" yaml:"required_skills"`
	RequiredExperienceYears int                         `gorm:"not null;default:0" json:"required_experience_years" yaml:"required_experience_years" validate:"gte=0,lte=60"`
	EducationRequirements   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"education_requirements" yaml:"education_requirements"`
	Responsibilities        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"responsibilities" yaml:"responsibilities"`
	Qualifications          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"qualifications" yaml:"qualifications"`
	NiceToHave              datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"nice_to_have" yaml:"nice_to_have"`
	JobLevel                JobLevel                    `gorm:"type:text;not null;default:'mid'" json:"job_level" yaml:"job_level" validate:"oneof=entry mid senior expert"`
	DifficultyScore         int                         `gorm:"not null;default:5" json:"difficulty_score" yaml:"difficulty_score" validate:"min=1,max=10"`
	CreatedAt               time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at" yaml:"-"`
	UpdatedAt               time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at" yaml:"-"`
}

func (JobRequirement) TableName() string {
	return "job_requirements"
}

// ApplyDefaults fills the level and difficulty when a caller left them out.
func (j *JobRequirement) ApplyDefaults() {
	if j.JobLevel == "" {
		j.JobLevel = JobLevelMid
	}
	if j.DifficultyScore == 0 {
		j.DifficultyScore = 5
	}
}
