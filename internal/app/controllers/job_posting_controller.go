package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// JobPostingController handles job postings and their required skills
type JobPostingController struct {
	postingService  services.JobPostingService
	requiredService services.RequiredSkillService
}

// NewJobPostingController creates a new JobPostingController
func NewJobPostingController(postingService services.JobPostingService, requiredService services.RequiredSkillService) *JobPostingController {
	return &JobPostingController{
		postingService:  postingService,
		requiredService: requiredService,
	}
}

// ListPostings lists postings, newest first
// @Summary List job postings
// @Tags job-postings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.JobPostingResponse} "Postings"
// @Router /v1/job-postings/ [get]
func (c *JobPostingController) ListPostings(ctx *gin.Context) {
	postings, err := c.postingService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewJobPostingResponses(postings))
}

// GetPosting retrieves one posting
// @Summary Get job posting
// @Tags job-postings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Posting ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobPostingResponse} "Posting"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/job-postings/{id}/ [get]
func (c *JobPostingController) GetPosting(ctx *gin.Context) {
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	posting, err := c.postingService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewJobPostingResponse(posting))
}

// CreatePosting publishes a posting owned by the calling TPO
// @Summary Create job posting
// @Description required_skills is optional and is written in the same transaction.
// @Tags job-postings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobPostingRequest true "Posting"
// @Success 201 {object} dto.APIResponse{data=dto.JobPostingResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "TPO only"
// @Router /v1/job-postings/ [post]
func (c *JobPostingController) CreatePosting(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var req dto.CreateJobPostingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	posting, err := c.postingService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewJobPostingResponse(posting))
}

// UpdatePosting edits a posting; posted_on never changes
// @Summary Update job posting
// @Tags job-postings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Posting ID"
// @Param request body dto.UpdateJobPostingRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.JobPostingResponse} "Updated"
// @Failure 403 {object} dto.ErrorResponse "Not the owning TPO"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/job-postings/{id}/ [patch]
func (c *JobPostingController) UpdatePosting(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	var req dto.UpdateJobPostingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	posting, err := c.postingService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewJobPostingResponse(posting))
}

// DeletePosting removes a posting and its requirements
// @Summary Delete job posting
// @Tags job-postings
// @Security BearerAuth
// @Param id path int true "Posting ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owning TPO"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/job-postings/{id}/ [delete]
func (c *JobPostingController) DeletePosting(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.postingService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}

// ListRequiredSkills lists requirements, optionally for one posting
// @Summary List required skills
// @Tags required-skills
// @Produce json
// @Security BearerAuth
// @Param job_posting query int false "Filter by posting ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RequiredSkillResponse} "Requirements"
// @Router /v1/required-skills/ [get]
func (c *JobPostingController) ListRequiredSkills(ctx *gin.Context) {
	postingID, valid := queryID(ctx, "job_posting")
	if !valid {
		return
	}
	reqs, err := c.requiredService.List(ctx.Request.Context(), postingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewRequiredSkillResponses(reqs))
}

// GetRequiredSkill retrieves one requirement
// @Summary Get required skill
// @Tags required-skills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requirement ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequiredSkillResponse} "Requirement"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/required-skills/{id}/ [get]
func (c *JobPostingController) GetRequiredSkill(ctx *gin.Context) {
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	req, err := c.requiredService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewRequiredSkillResponse(req))
}

// CreateRequiredSkill attaches a requirement to a posting owned by the caller
// @Summary Create required skill
// @Tags required-skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequiredSkillRequest true "Requirement"
// @Success 201 {object} dto.APIResponse{data=dto.RequiredSkillResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or already required"
// @Failure 403 {object} dto.ErrorResponse "Not the owning TPO"
// @Router /v1/required-skills/ [post]
func (c *JobPostingController) CreateRequiredSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	var body dto.CreateRequiredSkillRequest
	if !middleware.BindJSON(ctx, &body) {
		return
	}
	req, err := c.requiredService.Create(ctx.Request.Context(), p, &body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, dto.NewRequiredSkillResponse(req))
}

// UpdateRequiredSkill changes a requirement's level
// @Summary Update required skill
// @Tags required-skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requirement ID"
// @Param request body dto.UpdateRequiredSkillRequest true "New level"
// @Success 200 {object} dto.APIResponse{data=dto.RequiredSkillResponse} "Updated"
// @Failure 403 {object} dto.ErrorResponse "Not the owning TPO"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/required-skills/{id}/ [patch]
func (c *JobPostingController) UpdateRequiredSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	var body dto.UpdateRequiredSkillRequest
	if !middleware.BindJSON(ctx, &body) {
		return
	}
	req, err := c.requiredService.Update(ctx.Request.Context(), p, id, &body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewRequiredSkillResponse(req))
}

// DeleteRequiredSkill removes a requirement
// @Summary Delete required skill
// @Tags required-skills
// @Security BearerAuth
// @Param id path int true "Requirement ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owning TPO"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /v1/required-skills/{id}/ [delete]
func (c *JobPostingController) DeleteRequiredSkill(ctx *gin.Context) {
	p, found := middleware.MustPrincipal(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx)
	if !valid {
		return
	}
	if err := c.requiredService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	noContent(ctx)
}
