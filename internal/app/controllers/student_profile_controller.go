package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// StudentProfileController handles student profiles
type StudentProfileController struct {
	profileService services.StudentProfileService
}

// NewStudentProfileController creates a new StudentProfileController
func NewStudentProfileController(profileService services.StudentProfileService) *StudentProfileController {
	return &StudentProfileController{profileService: profileService}
}

// ListProfiles lists profiles visible to the caller
// @Summary List student profiles
// @Description A TPO sees every profile, a student only their own.
// @Tags student-profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentProfileResponse} "Profiles"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /v1/student-profiles/ [get]
func (c *StudentProfileController) ListProfiles(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	profiles, err := c.profileService.List(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentProfileResponses(profiles))
}

// GetProfile retrieves one profile
// @Summary Get student profile
// @Tags student-profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Profile"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /v1/student-profiles/{id}/ [get]
func (c *StudentProfileController) GetProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	profile, err := c.profileService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentProfileResponse(profile))
}

// CreateProfile creates a profile for the caller, or for user_id when the caller is a TPO
// @Summary Create student profile
// @Tags student-profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentProfileRequest true "Profile"
// @Success 201 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or profile exists"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Router /v1/student-profiles/ [post]
func (c *StudentProfileController) CreateProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.CreateStudentProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	profile, err := c.profileService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewStudentProfileResponse(profile))
}

// UpdateProfile partially updates a profile
// @Summary Update student profile
// @Tags student-profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateStudentProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /v1/student-profiles/{id}/ [patch]
func (c *StudentProfileController) UpdateProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	var req dto.UpdateStudentProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	profile, err := c.profileService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentProfileResponse(profile))
}

// DeleteProfile removes a profile with its skills and roadmaps
// @Summary Delete student profile
// @Tags student-profiles
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /v1/student-profiles/{id}/ [delete]
func (c *StudentProfileController) DeleteProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.profileService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}

// GetMyProfile returns the caller's profile, creating it on first access
// @Summary Current student profile
// @Tags student-profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Profile"
// @Failure 403 {object} dto.ErrorResponse "TPO accounts have no profile"
// @Router /v1/student-profiles/me/ [get]
func (c *StudentProfileController) GetMyProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	profile, err := c.profileService.GetMine(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentProfileResponse(profile))
}

// UpdateMyProfile partially updates the caller's profile
// @Summary Update current student profile
// @Tags student-profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "TPO accounts have no profile"
// @Router /v1/student-profiles/me/ [patch]
func (c *StudentProfileController) UpdateMyProfile(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.UpdateStudentProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	profile, err := c.profileService.UpdateMine(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewStudentProfileResponse(profile))
}
