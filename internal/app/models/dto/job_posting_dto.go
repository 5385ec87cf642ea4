package dto

import (
	"time"

	"github.com/yigit/acroconnect/internal/app/models"
)

// RequiredSkillInput is an inline requirement on posting creation. A zero level
// defaults to 1.
type RequiredSkillInput struct {
	SkillID       int64 `json:"skill_id" binding:"required,min=1"`
	RequiredLevel int   `json:"required_level" binding:"omitempty,min=1,max=5"`
}

// CreateJobPostingRequest publishes a posting as the calling TPO
type CreateJobPostingRequest struct {
	Title          string               `json:"title" binding:"required,max=255" example:"Backend Intern"`
	Company        string               `json:"company" binding:"max=255" example:"Acme"`
	Description    string               `json:"description"`
	RequiredSkills []RequiredSkillInput `json:"required_skills" binding:"omitempty,dive"`
}

// UpdateJobPostingRequest is a partial update of a posting
type UpdateJobPostingRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Company     *string `json:"company" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// JobPostingResponse is a posting with its author and requirements
type JobPostingResponse struct {
	ID             int64                    `json:"id"`
	TPOUser        *UserResponse            `json:"tpo_user"`
	Title          string                   `json:"title" example:"Backend Intern"`
	Company        string                   `json:"company" example:"Acme"`
	Description    string                   `json:"description"`
	PostedOn       time.Time                `json:"posted_on"`
	RequiredSkills []*RequiredSkillResponse `json:"required_skills"`
}

// NewJobPostingResponse maps a posting model
func NewJobPostingResponse(p *models.JobPosting) *JobPostingResponse {
	if p == nil {
		return nil
	}
	tpo := NewUserResponse(p.TPOUser)
	if tpo == nil {
		tpo = &UserResponse{ID: p.TPOUserID, IsTPO: true}
	}
	reqs := make([]*RequiredSkillResponse, 0, len(p.RequiredSkills))
	for _, r := range p.RequiredSkills {
		reqs = append(reqs, NewRequiredSkillResponse(r))
	}
	return &JobPostingResponse{
		ID:             p.ID,
		TPOUser:        tpo,
		Title:          p.Title,
		Company:        p.Company,
		Description:    p.Description,
		PostedOn:       p.PostedOn,
		RequiredSkills: reqs,
	}
}

// NewJobPostingResponses maps a list of postings
func NewJobPostingResponses(postings []*models.JobPosting) []*JobPostingResponse {
	out := make([]*JobPostingResponse, 0, len(postings))
	for _, p := range postings {
		out = append(out, NewJobPostingResponse(p))
	}
	return out
}

// CreateRequiredSkillRequest attaches a requirement to an existing posting
type CreateRequiredSkillRequest struct {
	JobPostingID  int64 `json:"job_posting_id" binding:"required,min=1"`
	SkillID       int64 `json:"skill_id" binding:"required,min=1"`
	RequiredLevel int   `json:"required_level" binding:"omitempty,min=1,max=5"`
}

// UpdateRequiredSkillRequest changes the expected level
type UpdateRequiredSkillRequest struct {
	RequiredLevel *int `json:"required_level" binding:"omitempty,min=1,max=5"`
}

// RequiredSkillResponse is a requirement with the nested skill
type RequiredSkillResponse struct {
	ID            int64          `json:"id"`
	JobPostingID  int64          `json:"job_posting_id"`
	Skill         *SkillResponse `json:"skill"`
	RequiredLevel int            `json:"required_level"`
}

// NewRequiredSkillResponse maps a requirement model
func NewRequiredSkillResponse(r *models.RequiredSkill) *RequiredSkillResponse {
	if r == nil {
		return nil
	}
	skill := NewSkillResponse(r.Skill)
	if skill == nil {
		skill = &SkillResponse{ID: r.SkillID}
	}
	return &RequiredSkillResponse{
		ID:            r.ID,
		JobPostingID:  r.JobPostingID,
		Skill:         skill,
		RequiredLevel: r.RequiredLevel,
	}
}

// NewRequiredSkillResponses maps a list of requirements
func NewRequiredSkillResponses(reqs []*models.RequiredSkill) []*RequiredSkillResponse {
	out := make([]*RequiredSkillResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, NewRequiredSkillResponse(r))
	}
	return out
}
