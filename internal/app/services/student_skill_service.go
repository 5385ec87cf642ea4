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

// StudentSkillService manages skill assignments on student profiles
type StudentSkillService interface {
	List(ctx context.Context, p appauth.Principal) ([]*models.StudentSkillSet, error)
	GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.StudentSkillSet, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateStudentSkillSetRequest) (*models.StudentSkillSet, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateStudentSkillSetRequest) (*models.StudentSkillSet, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

type studentSkillServiceImpl struct {
	setRepo     repositories.IStudentSkillRepository
	profileRepo repositories.IStudentProfileRepository
	authz       *appauth.AuthorizationService
}

// NewStudentSkillService creates a new StudentSkillService
func NewStudentSkillService(
	setRepo repositories.IStudentSkillRepository,
	profileRepo repositories.IStudentProfileRepository,
	authz *appauth.AuthorizationService,
) StudentSkillService {
	return &studentSkillServiceImpl{setRepo: setRepo, profileRepo: profileRepo, authz: authz}
}

func (s *studentSkillServiceImpl) List(ctx context.Context, p appauth.Principal) ([]*models.StudentSkillSet, error) {
	if p.IsTPO {
		return s.setRepo.List(ctx, nil)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return []*models.StudentSkillSet{}, nil
		}
		return nil, err
	}
	return s.setRepo.List(ctx, &profile.ID)
}

// load returns the assignment after checking the caller may act on its profile
func (s *studentSkillServiceImpl) load(ctx context.Context, p appauth.Principal, id int64) (*models.StudentSkillSet, error) {
	set, err := s.setRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByID(ctx, set.StudentProfileID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyProfile(p, profile); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *studentSkillServiceImpl) GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.StudentSkillSet, error) {
	return s.load(ctx, p, id)
}

func (s *studentSkillServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateStudentSkillSetRequest) (*models.StudentSkillSet, error) {
	var (
		profile *models.StudentProfile
		err     error
	)
	switch {
	case req.StudentProfileID != nil:
		profile, err = referencedProfile(ctx, s.profileRepo, "student_profile_id", *req.StudentProfileID)
	case p.IsTPO:
		return nil, apperrors.NewValidationError("student_profile_id", "This field is required.")
	default:
		profile, err = ownProfile(ctx, s.profileRepo, p)
	}
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyProfile(p, profile); err != nil {
		return nil, err
	}
	if !models.ValidSkillLevel(req.SkillLevel) {
		return nil, apperrors.NewValidationError("skill_level", "Ensure this value is between 1 and 5.")
	}

	set := &models.StudentSkillSet{
		StudentProfileID: profile.ID,
		SkillID:          req.SkillID,
		SkillLevel:       req.SkillLevel,
	}
	if err := s.setRepo.Create(ctx, set); err != nil {
		return nil, err
	}
	return s.setRepo.GetByID(ctx, set.ID)
}

func (s *studentSkillServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateStudentSkillSetRequest) (*models.StudentSkillSet, error) {
	set, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.SkillLevel == nil {
		return set, nil
	}
	if !models.ValidSkillLevel(*req.SkillLevel) {
		return nil, apperrors.NewValidationError("skill_level", "Ensure this value is between 1 and 5.")
	}
	if err := s.setRepo.UpdateLevel(ctx, id, *req.SkillLevel); err != nil {
		return nil, err
	}
	set.SkillLevel = *req.SkillLevel
	return set, nil
}

func (s *studentSkillServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	if _, err := s.load(ctx, p, id); err != nil {
		return err
	}
	return s.setRepo.Delete(ctx, id)
}
