package services

import (
	"context"
	"errors"

	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// RequiredSkillService manages the skill requirements of job postings
type RequiredSkillService interface {
	List(ctx context.Context, postingID *int64) ([]*models.RequiredSkill, error)
	GetByID(ctx context.Context, id int64) (*models.RequiredSkill, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateRequiredSkillRequest) (*models.RequiredSkill, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateRequiredSkillRequest) (*models.RequiredSkill, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

type requiredSkillServiceImpl struct {
	reqRepo     repositories.IRequiredSkillRepository
	postingRepo repositories.IJobPostingRepository
	authz       *appauth.AuthorizationService
}

// NewRequiredSkillService creates a new RequiredSkillService
func NewRequiredSkillService(
	reqRepo repositories.IRequiredSkillRepository,
	postingRepo repositories.IJobPostingRepository,
	authz *appauth.AuthorizationService,
) RequiredSkillService {
	return &requiredSkillServiceImpl{reqRepo: reqRepo, postingRepo: postingRepo, authz: authz}
}

func (s *requiredSkillServiceImpl) List(ctx context.Context, postingID *int64) ([]*models.RequiredSkill, error) {
	return s.reqRepo.List(ctx, postingID)
}

func (s *requiredSkillServiceImpl) GetByID(ctx context.Context, id int64) (*models.RequiredSkill, error) {
	return s.reqRepo.GetByID(ctx, id)
}

func (s *requiredSkillServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateRequiredSkillRequest) (*models.RequiredSkill, error) {
	posting, err := s.postingRepo.GetByID(ctx, req.JobPostingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewValidationError("job_posting_id", invalidPK)
		}
		return nil, err
	}
	if err := s.authz.CanModifyPosting(p, posting); err != nil {
		return nil, err
	}

	level := levelOrDefault(req.RequiredLevel)
	if !models.ValidSkillLevel(level) {
		return nil, apperrors.NewValidationError("required_level", "Ensure this value is between 1 and 5.")
	}

	rs := &models.RequiredSkill{JobPostingID: posting.ID, SkillID: req.SkillID, RequiredLevel: level}
	if err := s.reqRepo.Create(ctx, rs); err != nil {
		return nil, err
	}
	return s.reqRepo.GetByID(ctx, rs.ID)
}

func (s *requiredSkillServiceImpl) owned(ctx context.Context, p appauth.Principal, id int64) (*models.RequiredSkill, error) {
	rs, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posting, err := s.postingRepo.GetByID(ctx, rs.JobPostingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyPosting(p, posting); err != nil {
		return nil, err
	}
	return rs, nil
}

func (s *requiredSkillServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateRequiredSkillRequest) (*models.RequiredSkill, error) {
	rs, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.RequiredLevel == nil {
		return rs, nil
	}
	if !models.ValidSkillLevel(*req.RequiredLevel) {
		return nil, apperrors.NewValidationError("required_level", "Ensure this value is between 1 and 5.")
	}
	if err := s.reqRepo.UpdateLevel(ctx, id, *req.RequiredLevel); err != nil {
		return nil, err
	}
	rs.RequiredLevel = *req.RequiredLevel
	return rs, nil
}

func (s *requiredSkillServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	return s.reqRepo.Delete(ctx, id)
}
