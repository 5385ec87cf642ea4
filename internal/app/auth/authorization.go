package auth

import (
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// Principal is the authenticated caller as resolved from the access token
type Principal struct {
	UserID   int64
	Username string
	IsTPO    bool
}

// Forbidden messages
const (
	msgTPOOnly       = "Only TPO accounts can perform this action."
	msgNotOwner      = "You do not have permission to perform this action."
	msgTPOHasProfile = "TPO accounts do not have a student profile."
	msgTPORegister   = "Registering TPO accounts is disabled."
)

// AuthorizationService holds the ownership rules of the resource API. It only
// compares ids; loading the resources is the caller's job.
type AuthorizationService struct {
	allowTPORegistration bool
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(allowTPORegistration bool) *AuthorizationService {
	return &AuthorizationService{allowTPORegistration: allowTPORegistration}
}

// RequireTPO fails unless the caller is a TPO
func (s *AuthorizationService) RequireTPO(p Principal) error {
	if !p.IsTPO {
		return apperrors.NewForbiddenError(msgTPOOnly)
	}
	return nil
}

// RequireStudent fails for TPO callers, who own no student profile
func (s *AuthorizationService) RequireStudent(p Principal) error {
	if p.IsTPO {
		return apperrors.NewForbiddenError(msgTPOHasProfile)
	}
	return nil
}

// CanRegister checks whether caller (nil when anonymous) may create an account
// with the requested TPO flag.
func (s *AuthorizationService) CanRegister(caller *Principal, wantTPO bool) error {
	if !wantTPO || s.allowTPORegistration || (caller != nil && caller.IsTPO) {
		return nil
	}
	return apperrors.NewForbiddenError(msgTPORegister)
}

// CanModifyUser allows self service, and TPOs acting on student accounts
func (s *AuthorizationService) CanModifyUser(p Principal, target *models.User) error {
	if p.UserID == target.ID || (p.IsTPO && !target.IsTPO) {
		return nil
	}
	return apperrors.NewForbiddenError(msgNotOwner)
}

// CanViewProfile allows the owner and any TPO
func (s *AuthorizationService) CanViewProfile(p Principal, profile *models.StudentProfile) error {
	return s.CanModifyProfile(p, profile)
}

// CanModifyProfile allows the owner and any TPO. It also covers the profile's
// skill assignments and roadmaps.
func (s *AuthorizationService) CanModifyProfile(p Principal, profile *models.StudentProfile) error {
	if p.IsTPO || profile.UserID == p.UserID {
		return nil
	}
	return apperrors.NewForbiddenError(msgNotOwner)
}

// CanCreateRoadmap allows only the profile owner
func (s *AuthorizationService) CanCreateRoadmap(p Principal, profile *models.StudentProfile) error {
	if profile.UserID == p.UserID {
		return nil
	}
	return apperrors.NewForbiddenError(msgNotOwner)
}

// CanModifyPosting allows only the TPO who published the posting
func (s *AuthorizationService) CanModifyPosting(p Principal, posting *models.JobPosting) error {
	if p.IsTPO && posting.TPOUserID == p.UserID {
		return nil
	}
	return apperrors.NewForbiddenError(msgNotOwner)
}
