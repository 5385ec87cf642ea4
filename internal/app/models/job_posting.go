package models

import "time"

// JobPosting is published by a TPO user
type JobPosting struct {
	ID          int64     `json:"id" db:"id"`
	TPOUserID   int64     `json:"tpo_user_id" db:"tpo_user_id"`
	Title       string    `json:"title" db:"title"`
	Company     string    `json:"company" db:"company"`
	Description string    `json:"description" db:"description"`
	PostedOn    time.Time `json:"posted_on" db:"posted_on"`

	TPOUser        *User            `json:"tpo_user,omitempty"`
	RequiredSkills []*RequiredSkill `json:"required_skills,omitempty"`
}

// RequiredSkill links a job posting to a skill with the expected level
type RequiredSkill struct {
	ID            int64 `json:"id" db:"id"`
	JobPostingID  int64 `json:"job_posting_id" db:"job_posting_id"`
	SkillID       int64 `json:"skill_id" db:"skill_id"`
	RequiredLevel int   `json:"required_level" db:"required_level"`

	Skill *Skill `json:"skill,omitempty"`
}
