package dto

import "github.com/yigit/acroconnect/internal/app/models"

// CreateSkillRequest adds a catalog entry
type CreateSkillRequest struct {
	SkillName string `json:"skill_name" binding:"required,max=100" example:"Python"`
	Category  string `json:"category" binding:"max=100" example:"Programming"`
}

// UpdateSkillRequest is a partial update of a catalog entry
type UpdateSkillRequest struct {
	SkillName *string `json:"skill_name" binding:"omitempty,min=1,max=100"`
	Category  *string `json:"category" binding:"omitempty,max=100"`
}

// SkillResponse is a catalog entry
type SkillResponse struct {
	ID        int64  `json:"id" example:"3"`
	SkillName string `json:"skill_name" example:"Python"`
	Category  string `json:"category" example:"Programming"`
}

// NewSkillResponse maps a skill model
func NewSkillResponse(s *models.Skill) *SkillResponse {
	if s == nil {
		return nil
	}
	return &SkillResponse{ID: s.ID, SkillName: s.SkillName, Category: s.Category}
}

// NewSkillResponses maps a list of skills
func NewSkillResponses(skills []*models.Skill) []*SkillResponse {
	out := make([]*SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, NewSkillResponse(s))
	}
	return out
}
