package models

import "time"

// StudentProfile is owned 1:1 by a non-TPO user
type StudentProfile struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	FullName   string    `json:"full_name" db:"full_name"`
	Phone      string    `json:"phone" db:"phone"`
	CGPA       float64   `json:"cgpa" db:"cgpa"`
	ResumeURL  string    `json:"resume_url" db:"resume_url"`
	CareerGoal string    `json:"career_goal" db:"career_goal"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	User             *User              `json:"user,omitempty"`
	SkillAssignments []*StudentSkillSet `json:"skill_assignments,omitempty"`
}

// DefaultProfileFor builds the profile materialized for a user without bootstrap data.
func DefaultProfileFor(user *User) *StudentProfile {
	return &StudentProfile{
		UserID:   user.ID,
		FullName: user.DisplayName(),
		Phone:    "",
		CGPA:     0,
	}
}

// StudentSkillSet assigns a skill with a level to a student profile
type StudentSkillSet struct {
	ID               int64 `json:"id" db:"id"`
	StudentProfileID int64 `json:"student_profile_id" db:"student_profile_id"`
	SkillID          int64 `json:"skill_id" db:"skill_id"`
	SkillLevel       int   `json:"skill_level" db:"skill_level"`

	Skill *Skill `json:"skill,omitempty"`
}
