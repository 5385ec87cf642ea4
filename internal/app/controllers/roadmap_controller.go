package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// RoadmapController handles stored and generated roadmaps
type RoadmapController struct {
	roadmapService services.RoadmapService
	logger         zerolog.Logger
}

// NewRoadmapController creates a new RoadmapController
func NewRoadmapController(roadmapService services.RoadmapService, logger zerolog.Logger) *RoadmapController {
	return &RoadmapController{
		roadmapService: roadmapService,
		logger:         logger,
	}
}

// ListRoadmaps lists roadmaps visible to the caller, newest first
// @Summary List roadmaps
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RoadmapResponse} "Roadmaps"
// @Router /v1/roadmaps/ [get]
func (c *RoadmapController) ListRoadmaps(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	roadmaps, err := c.roadmapService.List(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewRoadmapResponses(roadmaps))
}

// GetRoadmap retrieves one roadmap
// @Summary Get roadmap
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 200 {object} dto.APIResponse{data=dto.RoadmapResponse} "Roadmap"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/roadmaps/{id}/ [get]
func (c *RoadmapController) GetRoadmap(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	roadmap, err := c.roadmapService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewRoadmapResponse(roadmap))
}

// CreateRoadmap stores a hand-written roadmap on the caller's profile
// @Summary Create roadmap
// @Tags roadmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoadmapRequest true "Roadmap"
// @Success 201 {object} dto.APIResponse{data=dto.RoadmapResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the profile owner"
// @Router /v1/roadmaps/ [post]
func (c *RoadmapController) CreateRoadmap(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.CreateRoadmapRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	roadmap, err := c.roadmapService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewRoadmapResponse(roadmap))
}

// DeleteRoadmap removes a roadmap
// @Summary Delete roadmap
// @Tags roadmaps
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/roadmaps/{id}/ [delete]
func (c *RoadmapController) DeleteRoadmap(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.roadmapService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}

// GenerateRoadmap asks the generative models for a roadmap based on the caller's profile
// @Summary Generate roadmap
// @Description Candidate models are tried in order; the first non-empty answer is stored.
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.RoadmapResponse} "Generated"
// @Failure 404 {object} dto.ErrorResponse "Student profile not found for the current user."
// @Failure 502 {object} dto.ErrorResponse "No usable model available"
// @Failure 503 {object} dto.ErrorResponse "Generation is not configured"
// @Router /v1/generate-roadmap/ [post]
func (c *RoadmapController) GenerateRoadmap(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	roadmap, err := c.roadmapService.Generate(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("userID", p.UserID).Int64("roadmapID", roadmap.ID).Msg("Roadmap generated for user")
	created(ctx, dto.NewRoadmapResponse(roadmap))
}

// ListModels lists the models the configured provider exposes
// @Summary List generative models
// @Tags roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GenAIModelsResponse} "Models"
// @Failure 503 {object} dto.ErrorResponse "Generation is not configured"
// @Router /v1/genai-models/ [get]
func (c *RoadmapController) ListModels(ctx *gin.Context) {
	models, err := c.roadmapService.ListModels(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.GenAIModelsResponse{AvailableModels: models})
}
