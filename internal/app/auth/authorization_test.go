package auth

import (
	"errors"
	"testing"

	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

var (
	student = Principal{UserID: 1, Username: "asha"}
	other   = Principal{UserID: 2, Username: "ravi"}
	tpo     = Principal{UserID: 10, Username: "tpo", IsTPO: true}
	tpo2    = Principal{UserID: 11, Username: "tpo2", IsTPO: true}
)

func allowed(t *testing.T, name string, err error, want bool) {
	t.Helper()
	if want && err != nil {
		t.Fatalf("%s: expected allowed, got %v", name, err)
	}
	if !want && !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("%s: expected permission denied, got %v", name, err)
	}
}

func TestCanModifyUser(t *testing.T) {
	s := NewAuthorizationService(false)
	studentUser := &models.User{ID: 1}
	tpoUser := &models.User{ID: 11, IsTPO: true}

	tests := []struct {
		name   string
		caller Principal
		target *models.User
		want   bool
	}{
		{"self", student, studentUser, true},
		{"other student", other, studentUser, false},
		{"tpo on student", tpo, studentUser, true},
		{"tpo on other tpo", tpo, tpoUser, false},
		{"tpo on self", tpo2, tpoUser, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed(t, tt.name, s.CanModifyUser(tt.caller, tt.target), tt.want)
		})
	}
}

func TestCanRegister(t *testing.T) {
	closed := NewAuthorizationService(false)
	open := NewAuthorizationService(true)

	allowed(t, "anonymous student", closed.CanRegister(nil, false), true)
	allowed(t, "anonymous tpo closed", closed.CanRegister(nil, true), false)
	allowed(t, "student creating tpo", closed.CanRegister(&student, true), false)
	allowed(t, "tpo creating tpo", closed.CanRegister(&tpo, true), true)
	allowed(t, "anonymous tpo open", open.CanRegister(nil, true), true)
}

func TestProfileAndPostingOwnership(t *testing.T) {
	s := NewAuthorizationService(false)
	profile := &models.StudentProfile{ID: 5, UserID: student.UserID}
	posting := &models.JobPosting{ID: 9, TPOUserID: tpo.UserID}

	allowed(t, "owner modifies profile", s.CanModifyProfile(student, profile), true)
	allowed(t, "stranger modifies profile", s.CanModifyProfile(other, profile), false)
	allowed(t, "tpo views profile", s.CanViewProfile(tpo, profile), true)
	allowed(t, "owner creates roadmap", s.CanCreateRoadmap(student, profile), true)
	allowed(t, "tpo creates roadmap", s.CanCreateRoadmap(tpo, profile), false)

	allowed(t, "owning tpo", s.CanModifyPosting(tpo, posting), true)
	allowed(t, "other tpo", s.CanModifyPosting(tpo2, posting), false)
	allowed(t, "student", s.CanModifyPosting(student, posting), false)

	allowed(t, "student requires tpo", s.RequireTPO(student), false)
	allowed(t, "tpo requires student", s.RequireStudent(tpo), false)
}
