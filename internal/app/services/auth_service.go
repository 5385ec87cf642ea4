package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

// AuthService exchanges credentials and refresh tokens for token pairs
type AuthService interface {
	// Login accepts a username or an email as identifier.
	Login(ctx context.Context, identifier, password string) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
}

type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// noActiveAccount is the single failure for every login error, so callers cannot
// tell unknown, inactive and wrong-password apart.
func noActiveAccount() error {
	return &apperrors.CustomError{Err: apperrors.ErrInvalidCredentials, Message: apperrors.MsgNoActiveAccount}
}

// Login resolves the identifier as a username first, then as an email
func (s *authServiceImpl) Login(ctx context.Context, identifier, password string) (*dto.TokenPairResponse, error) {
	if identifier == "" || password == "" {
		return nil, noActiveAccount()
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Debug().Msg("Login attempt for unknown identifier")
			return nil, noActiveAccount()
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info().Int64("userID", user.ID).Bool("active", user.IsActive).Msg("Rejected login")
		return nil, noActiveAccount()
	}

	return s.issue(ctx, user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.tokenRepo.GetActiveTokenOwner(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if ownerID != claims.UserID {
		s.logger.Warn().Int64("claimUserID", claims.UserID).Int64("ownerID", ownerID).Msg("Refresh token owner mismatch")
		return nil, apperrors.ErrTokenInvalid
	}

	if err := s.tokenRepo.RevokeToken(ctx, claims.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, noActiveAccount()
	}

	return s.issue(ctx, user)
}

func (s *authServiceImpl) issue(ctx context.Context, user *models.User) (*dto.TokenPairResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign token pair")
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshID, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &dto.TokenPairResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken}, nil
}
