package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

// hashPassword is swapped for a cheaper cost in tests
var hashPassword = auth.HashPassword

// ownProfile resolves the caller's profile without materializing it
func ownProfile(ctx context.Context, repo repositories.IStudentProfileRepository, p appauth.Principal) (*models.StudentProfile, error) {
	profile, err := repo.GetByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, &apperrors.CustomError{Err: apperrors.ErrProfileNotFound, Message: apperrors.MsgProfileNotFound}
		}
		return nil, err
	}
	return profile, nil
}

// referencedProfile loads a profile named by a write payload. An unknown id is a
// field error rather than a 404.
func referencedProfile(ctx context.Context, repo repositories.IStudentProfileRepository, field string, id int64) (*models.StudentProfile, error) {
	profile, err := repo.GetByID(ctx, id)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.NewValidationError(field, invalidPK)
	}
	return profile, err
}

const invalidPK = "Invalid pk - object does not exist."

// validResumeURL accepts an empty value or an absolute http(s) URL
func validResumeURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// levelOrDefault returns level, or the minimum level when unset
func levelOrDefault(level int) int {
	if level == 0 {
		return models.MinSkillLevel
	}
	return level
}
