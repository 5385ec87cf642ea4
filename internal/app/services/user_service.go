package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
)

// UserService handles account operations
type UserService interface {
	// Register creates an account; caller is nil for anonymous sign-up. Student
	// accounts get their profile in the same transaction.
	Register(ctx context.Context, caller *appauth.Principal, req *dto.CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

type userServiceImpl struct {
	userRepo repositories.IUserRepository
	authz    *appauth.AuthorizationService
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, authz *appauth.AuthorizationService, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		authz:    authz,
		logger:   logger,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, caller *appauth.Principal, req *dto.CreateUserRequest) (*models.User, error) {
	if err := s.authz.CanRegister(caller, req.IsTPO); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsTPO:        req.IsTPO,
		IsActive:     true,
	}

	var profile *models.StudentProfile
	if !user.IsTPO {
		if req.HasProfileBootstrap() {
			profile = &models.StudentProfile{FullName: req.Name, Phone: req.Phone}
			if req.CGPA != nil {
				profile.CGPA = *req.CGPA
			}
		} else {
			profile = models.DefaultProfileFor(user)
		}
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", user.ID).Bool("isTPO", user.IsTPO).Msg("User registered")
	return user, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userServiceImpl) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyUser(p, user); err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanModifyUser(p, user); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Int64("by", p.UserID).Msg("User deleted")
	return nil
}
