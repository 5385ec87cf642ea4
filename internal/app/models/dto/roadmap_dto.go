package dto

import (
	"time"

	"github.com/yigit/acroconnect/internal/app/models"
)

// CreateRoadmapRequest stores a roadmap text directly. ProfileID defaults to the
// caller's profile.
type CreateRoadmapRequest struct {
	ProfileID   *int64 `json:"profile_id" binding:"omitempty,min=1"`
	RoadmapText string `json:"roadmap_text" binding:"required"`
}

// RoadmapResponse is a stored roadmap
type RoadmapResponse struct {
	ID          int64                   `json:"id"`
	Profile     *ProfileSummaryResponse `json:"profile"`
	RoadmapText string                  `json:"roadmap_text"`
	GeneratedOn time.Time               `json:"generated_on"`
}

// GenAIModelsResponse lists the models the configured provider exposes
type GenAIModelsResponse struct {
	AvailableModels []string `json:"available_models"`
}

// NewRoadmapResponse maps a roadmap model
func NewRoadmapResponse(r *models.Roadmap) *RoadmapResponse {
	if r == nil {
		return nil
	}
	profile := NewProfileSummaryResponse(r.Profile)
	if profile == nil {
		profile = &ProfileSummaryResponse{ID: r.ProfileID}
	}
	return &RoadmapResponse{
		ID:          r.ID,
		Profile:     profile,
		RoadmapText: r.RoadmapText,
		GeneratedOn: r.GeneratedOn,
	}
}

// NewRoadmapResponses maps a list of roadmaps
func NewRoadmapResponses(roadmaps []*models.Roadmap) []*RoadmapResponse {
	out := make([]*RoadmapResponse, 0, len(roadmaps))
	for _, r := range roadmaps {
		out = append(out, NewRoadmapResponse(r))
	}
	return out
}
