package dto

import (
	"time"

	"github.com/yigit/acroconnect/internal/app/models"
)

// CreateStudentProfileRequest creates a profile. UserID is only honoured for TPO
// callers; students always create their own.
type CreateStudentProfileRequest struct {
	UserID     *int64  `json:"user_id" binding:"omitempty,min=1"`
	FullName   string  `json:"full_name" binding:"required,max=255" example:"Asha Rao"`
	Phone      string  `json:"phone" binding:"max=20" example:"9876543210"`
	CGPA       float64 `json:"cgpa" binding:"gte=0,lte=10" example:"8.4"`
	ResumeURL  string  `json:"resume_url" binding:"max=500"`
	CareerGoal string  `json:"career_goal" example:"Backend engineer"`
}

// UpdateStudentProfileRequest is a partial update of a profile
type UpdateStudentProfileRequest struct {
	FullName   *string  `json:"full_name" binding:"omitempty,min=1,max=255"`
	Phone      *string  `json:"phone" binding:"omitempty,max=20"`
	CGPA       *float64 `json:"cgpa" binding:"omitempty,gte=0,lte=10"`
	ResumeURL  *string  `json:"resume_url" binding:"omitempty,max=500"`
	CareerGoal *string  `json:"career_goal"`
}

// StudentProfileResponse is a profile with its owner and skill assignments
type StudentProfileResponse struct {
	ID               int64                      `json:"id" example:"7"`
	User             *UserResponse              `json:"user"`
	FullName         string                     `json:"full_name" example:"Asha Rao"`
	Phone            string                     `json:"phone" example:"9876543210"`
	CGPA             float64                    `json:"cgpa" example:"8.4"`
	ResumeURL        string                     `json:"resume_url"`
	CareerGoal       string                     `json:"career_goal" example:"Backend engineer"`
	SkillAssignments []*StudentSkillSetResponse `json:"skill_assignments"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// ProfileSummaryResponse is the short form embedded in roadmaps
type ProfileSummaryResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
}

// NewStudentProfileResponse maps a profile model
func NewStudentProfileResponse(p *models.StudentProfile) *StudentProfileResponse {
	if p == nil {
		return nil
	}
	return &StudentProfileResponse{
		ID:               p.ID,
		User:             NewUserResponse(p.User),
		FullName:         p.FullName,
		Phone:            p.Phone,
		CGPA:             p.CGPA,
		ResumeURL:        p.ResumeURL,
		CareerGoal:       p.CareerGoal,
		SkillAssignments: NewStudentSkillSetResponses(p.SkillAssignments),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// NewStudentProfileResponses maps a list of profiles
func NewStudentProfileResponses(profiles []*models.StudentProfile) []*StudentProfileResponse {
	out := make([]*StudentProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewStudentProfileResponse(p))
	}
	return out
}

// NewProfileSummaryResponse maps a profile to its short form
func NewProfileSummaryResponse(p *models.StudentProfile) *ProfileSummaryResponse {
	if p == nil {
		return nil
	}
	return &ProfileSummaryResponse{ID: p.ID, UserID: p.UserID, FullName: p.FullName}
}

// CreateStudentSkillSetRequest assigns a skill to a profile. StudentProfileID
// defaults to the caller's own profile.
type CreateStudentSkillSetRequest struct {
	StudentProfileID *int64 `json:"student_profile_id" binding:"omitempty,min=1"`
	SkillID          int64  `json:"skill_id" binding:"required,min=1" example:"3"`
	SkillLevel       int    `json:"skill_level" binding:"required,min=1,max=5" example:"4"`
}

// UpdateStudentSkillSetRequest changes the level of an assignment
type UpdateStudentSkillSetRequest struct {
	SkillLevel *int `json:"skill_level" binding:"omitempty,min=1,max=5"`
}

// StudentSkillSetResponse is a skill assignment with the nested skill
type StudentSkillSetResponse struct {
	ID               int64          `json:"id"`
	StudentProfileID int64          `json:"student_profile_id"`
	Skill            *SkillResponse `json:"skill"`
	SkillLevel       int            `json:"skill_level" example:"4"`
}

// NewStudentSkillSetResponse maps an assignment model
func NewStudentSkillSetResponse(s *models.StudentSkillSet) *StudentSkillSetResponse {
	if s == nil {
		return nil
	}
	skill := NewSkillResponse(s.Skill)
	if skill == nil {
		skill = &SkillResponse{ID: s.SkillID}
	}
	return &StudentSkillSetResponse{
		ID:               s.ID,
		StudentProfileID: s.StudentProfileID,
		Skill:            skill,
		SkillLevel:       s.SkillLevel,
	}
}

// NewStudentSkillSetResponses maps a list of assignments
func NewStudentSkillSetResponses(sets []*models.StudentSkillSet) []*StudentSkillSetResponse {
	out := make([]*StudentSkillSetResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, NewStudentSkillSetResponse(s))
	}
	return out
}
