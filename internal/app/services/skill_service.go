package services

import (
	"context"
	"strings"

	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// SkillService manages the skill catalog. Mutations are reserved to TPOs.
type SkillService interface {
	List(ctx context.Context) ([]*models.Skill, error)
	GetByID(ctx context.Context, id int64) (*models.Skill, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateSkillRequest) (*models.Skill, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateSkillRequest) (*models.Skill, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

type skillServiceImpl struct {
	skillRepo repositories.ISkillRepository
	authz     *appauth.AuthorizationService
}

// NewSkillService creates a new SkillService
func NewSkillService(skillRepo repositories.ISkillRepository, authz *appauth.AuthorizationService) SkillService {
	return &skillServiceImpl{skillRepo: skillRepo, authz: authz}
}

func (s *skillServiceImpl) List(ctx context.Context) ([]*models.Skill, error) {
	return s.skillRepo.List(ctx)
}

func (s *skillServiceImpl) GetByID(ctx context.Context, id int64) (*models.Skill, error) {
	return s.skillRepo.GetByID(ctx, id)
}

func (s *skillServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateSkillRequest) (*models.Skill, error) {
	if err := s.authz.RequireTPO(p); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.SkillName)
	if name == "" {
		return nil, apperrors.NewValidationError("skill_name", "This field may not be blank.")
	}

	skill := &models.Skill{SkillName: name, Category: strings.TrimSpace(req.Category)}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *skillServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateSkillRequest) (*models.Skill, error) {
	if err := s.authz.RequireTPO(p); err != nil {
		return nil, err
	}
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SkillName != nil {
		name := strings.TrimSpace(*req.SkillName)
		if name == "" {
			return nil, apperrors.NewValidationError("skill_name", "This field may not be blank.")
		}
		skill.SkillName = name
	}
	if req.Category != nil {
		skill.Category = strings.TrimSpace(*req.Category)
	}
	if err := s.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete removes a skill together with every assignment and requirement using it
func (s *skillServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	if err := s.authz.RequireTPO(p); err != nil {
		return err
	}
	return s.skillRepo.Delete(ctx, id)
}
