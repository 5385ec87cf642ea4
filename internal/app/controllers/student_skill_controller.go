package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// StudentSkillController handles skill assignments on profiles
type StudentSkillController struct {
	skillSetService services.StudentSkillService
}

// NewStudentSkillController creates a new StudentSkillController
func NewStudentSkillController(skillSetService services.StudentSkillService) *StudentSkillController {
	return &StudentSkillController{skillSetService: skillSetService}
}

// ListSkillSets lists assignments visible to the caller
// @Summary List student skill sets
// @Tags student-skill-sets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSkillSetResponse} "Assignments"
// @Router /v1/student-skill-sets/ [get]
func (c *StudentSkillController) ListSkillSets(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	sets, err := c.skillSetService.List(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentSkillSetResponses(sets))
}

// GetSkillSet retrieves one assignment
// @Summary Get student skill set
// @Tags student-skill-sets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentSkillSetResponse} "Assignment"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/student-skill-sets/{id}/ [get]
func (c *StudentSkillController) GetSkillSet(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	set, err := c.skillSetService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentSkillSetResponse(set))
}

// CreateSkillSet assigns a skill at a level; student_profile_id defaults to the caller's profile
// @Summary Create student skill set
// @Tags student-skill-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentSkillSetRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=dto.StudentSkillSetResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or skill already assigned"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Router /v1/student-skill-sets/ [post]
func (c *StudentSkillController) CreateSkillSet(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.CreateStudentSkillSetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	set, err := c.skillSetService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewStudentSkillSetResponse(set))
}

// UpdateSkillSet changes an assignment's level
// @Summary Update student skill set
// @Tags student-skill-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateStudentSkillSetRequest true "New level"
// @Success 200 {object} dto.APIResponse{data=dto.StudentSkillSetResponse} "Updated"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/student-skill-sets/{id}/ [patch]
func (c *StudentSkillController) UpdateSkillSet(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	var req dto.UpdateStudentSkillSetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	set, err := c.skillSetService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentSkillSetResponse(set))
}

// DeleteSkillSet removes an assignment
// @Summary Delete student skill set
// @Tags student-skill-sets
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/student-skill-sets/{id}/ [delete]
func (c *StudentSkillController) DeleteSkillSet(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.skillSetService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}
