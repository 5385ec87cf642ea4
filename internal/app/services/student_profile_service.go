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

// StudentProfileService handles student profiles. TPOs see every profile, students
// only their own.
type StudentProfileService interface {
	List(ctx context.Context, p appauth.Principal) ([]*models.StudentProfile, error)
	GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.StudentProfile, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateStudentProfileRequest) (*models.StudentProfile, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
	// GetMine returns the caller's profile, creating it with defaults on first access.
	GetMine(ctx context.Context, p appauth.Principal) (*models.StudentProfile, error)
	UpdateMine(ctx context.Context, p appauth.Principal, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error)
}

type studentProfileServiceImpl struct {
	profileRepo repositories.IStudentProfileRepository
	userRepo    repositories.IUserRepository
	authz       *appauth.AuthorizationService
	logger      zerolog.Logger
}

// NewStudentProfileService creates a new StudentProfileService
func NewStudentProfileService(
	profileRepo repositories.IStudentProfileRepository,
	userRepo repositories.IUserRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) StudentProfileService {
	return &studentProfileServiceImpl{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		authz:       authz,
		logger:      logger,
	}
}

func (s *studentProfileServiceImpl) List(ctx context.Context, p appauth.Principal) ([]*models.StudentProfile, error) {
	if p.IsTPO {
		return s.profileRepo.List(ctx, nil)
	}
	return s.profileRepo.List(ctx, &p.UserID)
}

func (s *studentProfileServiceImpl) GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewProfile(p, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *studentProfileServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateStudentProfileRequest) (*models.StudentProfile, error) {
	ownerID := p.UserID
	if req.UserID != nil && *req.UserID != p.UserID {
		if err := s.authz.RequireTPO(p); err != nil {
			return nil, err
		}
		ownerID = *req.UserID
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewValidationError("user_id", invalidPK)
		}
		return nil, err
	}
	if owner.IsTPO {
		return nil, apperrors.NewValidationError("user_id", "TPO accounts cannot own a student profile.")
	}

	fields := apperrors.FieldErrors{}
	if strings.TrimSpace(req.FullName) == "" {
		fields.Add("full_name", "This field may not be blank.")
	}
	if !validResumeURL(req.ResumeURL) {
		fields.Add("resume_url", "Enter a valid URL.")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	profile := &models.StudentProfile{
		UserID:     owner.ID,
		FullName:   strings.TrimSpace(req.FullName),
		Phone:      req.Phone,
		CGPA:       req.CGPA,
		ResumeURL:  req.ResumeURL,
		CareerGoal: req.CareerGoal,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profile.ID)
}

func (s *studentProfileServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyProfile(p, profile); err != nil {
		return nil, err
	}
	return s.apply(ctx, profile, req)
}

func (s *studentProfileServiceImpl) apply(ctx context.Context, profile *models.StudentProfile, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	fields := apperrors.FieldErrors{}
	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name == "" {
			fields.Add("full_name", "This field may not be blank.")
		} else {
			profile.FullName = name
		}
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.CGPA != nil {
		profile.CGPA = *req.CGPA
	}
	if req.ResumeURL != nil {
		if !validResumeURL(*req.ResumeURL) {
			fields.Add("resume_url", "Enter a valid URL.")
		} else {
			profile.ResumeURL = *req.ResumeURL
		}
	}
	if req.CareerGoal != nil {
		profile.CareerGoal = *req.CareerGoal
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *studentProfileServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanModifyProfile(p, profile); err != nil {
		return err
	}
	return s.profileRepo.Delete(ctx, id)
}

func (s *studentProfileServiceImpl) GetMine(ctx context.Context, p appauth.Principal) (*models.StudentProfile, error) {
	if err := s.authz.RequireStudent(p); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	profile, created, err := s.profileRepo.GetOrCreate(ctx, models.DefaultProfileFor(user))
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info().Int64("userID", user.ID).Int64("profileID", profile.ID).Msg("Materialized student profile")
	}
	return profile, nil
}

func (s *studentProfileServiceImpl) UpdateMine(ctx context.Context, p appauth.Principal, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.GetMine(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, profile, req)
}
