package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// SkillController serves the skill catalog
type SkillController struct {
	skillService services.SkillService
}

// NewSkillController creates a new SkillController
func NewSkillController(skillService services.SkillService) *SkillController {
	return &SkillController{skillService: skillService}
}

// ListSkills lists the catalog ordered by name
// @Summary List skills
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.SkillResponse} "Skills"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /v1/skills/ [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	skills, err := c.skillService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewSkillResponses(skills))
}

// GetSkill retrieves one skill
// @Summary Get skill
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.SkillResponse} "Skill"
// @Failure 404 {object} dto.ErrorResponse "Skill not found"
// @Router /v1/skills/{id}/ [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	skill, err := c.skillService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewSkillResponse(skill))
}

// CreateSkill adds a catalog entry (TPO only)
// @Summary Create skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSkillRequest true "Skill"
// @Success 201 {object} dto.APIResponse{data=dto.SkillResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or name taken"
// @Failure 403 {object} dto.ErrorResponse "TPO only"
// @Router /v1/skills/ [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.CreateSkillRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	skill, err := c.skillService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewSkillResponse(skill))
}

// UpdateSkill renames or recategorizes a skill (TPO only)
// @Summary Update skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Param request body dto.UpdateSkillRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.SkillResponse} "Updated"
// @Failure 403 {object} dto.ErrorResponse "TPO only"
// @Failure 404 {object} dto.ErrorResponse "Skill not found"
// @Router /v1/skills/{id}/ [patch]
func (c *SkillController) UpdateSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	var req dto.UpdateSkillRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	skill, err := c.skillService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewSkillResponse(skill))
}

// DeleteSkill removes a skill and every assignment or requirement naming it
// @Summary Delete skill
// @Tags skills
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "TPO only"
// @Failure 404 {object} dto.ErrorResponse "Skill not found"
// @Router /v1/skills/{id}/ [delete]
func (c *SkillController) DeleteSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.skillService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}
