package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// JobPostingService manages job postings. Only the publishing TPO may change or
// remove a posting.
type JobPostingService interface {
	List(ctx context.Context) ([]*models.JobPosting, error)
	GetByID(ctx context.Context, id int64) (*models.JobPosting, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateJobPostingRequest) (*models.JobPosting, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateJobPostingRequest) (*models.JobPosting, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

type jobPostingServiceImpl struct {
	postingRepo repositories.IJobPostingRepository
	authz       *appauth.AuthorizationService
	logger      zerolog.Logger
}

// NewJobPostingService creates a new JobPostingService
func NewJobPostingService(postingRepo repositories.IJobPostingRepository, authz *appauth.AuthorizationService, logger zerolog.Logger) JobPostingService {
	return &jobPostingServiceImpl{postingRepo: postingRepo, authz: authz, logger: logger}
}

func (s *jobPostingServiceImpl) List(ctx context.Context) ([]*models.JobPosting, error) {
	return s.postingRepo.List(ctx)
}

func (s *jobPostingServiceImpl) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	return s.postingRepo.GetByID(ctx, id)
}

func (s *jobPostingServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateJobPostingRequest) (*models.JobPosting, error) {
	if err := s.authz.RequireTPO(p); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "This field may not be blank.")
	}

	requirements := make([]*models.RequiredSkill, 0, len(req.RequiredSkills))
	for _, in := range req.RequiredSkills {
		level := levelOrDefault(in.RequiredLevel)
		if !models.ValidSkillLevel(level) {
			return nil, apperrors.NewValidationError("required_level", "Ensure this value is between 1 and 5.")
		}
		requirements = append(requirements, &models.RequiredSkill{SkillID: in.SkillID, RequiredLevel: level})
	}

	posting := &models.JobPosting{
		TPOUserID:   p.UserID,
		Title:       title,
		Company:     strings.TrimSpace(req.Company),
		Description: req.Description,
	}
	if err := s.postingRepo.CreateWithRequirements(ctx, posting, requirements); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("postingID", posting.ID).Int64("tpoUserID", p.UserID).Int("requirements", len(requirements)).Msg("Job posting created")
	return s.postingRepo.GetByID(ctx, posting.ID)
}

func (s *jobPostingServiceImpl) owned(ctx context.Context, p appauth.Principal, id int64) (*models.JobPosting, error) {
	posting, err := s.postingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyPosting(p, posting); err != nil {
		return nil, err
	}
	return posting, nil
}

func (s *jobPostingServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateJobPostingRequest) (*models.JobPosting, error) {
	posting, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title", "This field may not be blank.")
		}
		posting.Title = title
	}
	if req.Company != nil {
		posting.Company = strings.TrimSpace(*req.Company)
	}
	if req.Description != nil {
		posting.Description = *req.Description
	}
	if err := s.postingRepo.Update(ctx, posting); err != nil {
		return nil, err
	}
	return posting, nil
}

func (s *jobPostingServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			s.logger.Warn().Int64("postingID", id).Int64("userID", p.UserID).Msg("Rejected delete of foreign job posting")
		}
		return err
	}
	return s.postingRepo.Delete(ctx, id)
}
