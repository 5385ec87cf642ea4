package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	hashPassword = func(password string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		return string(hash), err
	}
}

func TestRegisterCreatesExactlyOneProfile(t *testing.T) {
	cgpa := 8.7
	tests := []struct {
		name         string
		req          dto.CreateUserRequest
		wantProfiles int
		wantName     string
		wantPhone    string
		wantCGPA     float64
	}{
		{
			name:         "bootstrap fields",
			req:          dto.CreateUserRequest{Username: "asha", Email: "asha@example.com", Password: "pw-123456", Name: "Asha Rao", Phone: "98765", CGPA: &cgpa},
			wantProfiles: 1, wantName: "Asha Rao", wantPhone: "98765", wantCGPA: 8.7,
		},
		{
			name:         "defaults from names",
			req:          dto.CreateUserRequest{Username: "ravi", Email: "ravi@example.com", Password: "pw-123456", FirstName: "Ravi", LastName: "K"},
			wantProfiles: 1, wantName: "Ravi K",
		},
		{
			name:         "defaults from username",
			req:          dto.CreateUserRequest{Username: "neha", Email: "neha@example.com", Password: "pw-123456", Name: "Only Name"},
			wantProfiles: 1, wantName: "neha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := newFakeProfileRepo()
			users := newFakeUserRepo(profiles)
			svc := NewUserService(users, appauth.NewAuthorizationService(false), zerolog.Nop())
			profileSvc := NewStudentProfileService(profiles, users, appauth.NewAuthorizationService(false), zerolog.Nop())

			user, err := svc.Register(context.Background(), nil, &tt.req)
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if user.PasswordHash == tt.req.Password || !user.IsActive {
				t.Fatalf("expected hashed password and active account, got %+v", user)
			}

			// the self lookup must reuse the profile created with the account
			mine, err := profileSvc.GetMine(context.Background(), appauth.Principal{UserID: user.ID, Username: user.Username})
			if err != nil {
				t.Fatalf("GetMine: %v", err)
			}
			if got := profiles.count(); got != tt.wantProfiles {
				t.Fatalf("expected %d profile, got %d", tt.wantProfiles, got)
			}
			if mine.FullName != tt.wantName || mine.Phone != tt.wantPhone || mine.CGPA != tt.wantCGPA {
				t.Fatalf("unexpected profile %+v", mine)
			}
		})
	}
}

func TestRegisterTPO(t *testing.T) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "tpo", Email: "tpo@example.com", Password: "pw-123456", IsTPO: true}

	closed := NewUserService(users, appauth.NewAuthorizationService(false), zerolog.Nop())
	if _, err := closed.Register(ctx, nil, &req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected anonymous TPO sign-up to be denied, got %v", err)
	}

	admin := &appauth.Principal{UserID: 99, IsTPO: true}
	user, err := closed.Register(ctx, admin, &req)
	if err != nil {
		t.Fatalf("TPO creating TPO: %v", err)
	}
	if !user.IsTPO {
		t.Fatalf("expected TPO account")
	}
	if profiles.count() != 0 {
		t.Fatalf("TPO accounts must not get a student profile")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo(newFakeProfileRepo())
	svc := NewUserService(users, appauth.NewAuthorizationService(false), zerolog.Nop())
	ctx := context.Background()

	req := dto.CreateUserRequest{Username: "asha", Email: "a@example.com", Password: "pw-123456"}
	if _, err := svc.Register(ctx, nil, &req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	req.Email = "b@example.com"
	if _, err := svc.Register(ctx, nil, &req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateUserPermissions(t *testing.T) {
	users := newFakeUserRepo(newFakeProfileRepo())
	svc := NewUserService(users, appauth.NewAuthorizationService(false), zerolog.Nop())
	ctx := context.Background()

	asha, _ := svc.Register(ctx, nil, &dto.CreateUserRequest{Username: "asha", Email: "asha@example.com", Password: "pw-123456"})
	ravi, _ := svc.Register(ctx, nil, &dto.CreateUserRequest{Username: "ravi", Email: "ravi@example.com", Password: "pw-123456"})

	first := "Asha"
	if _, err := svc.Update(ctx, appauth.Principal{UserID: ravi.ID}, asha.ID, &dto.UpdateUserRequest{FirstName: &first}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected cross-user update to be denied, got %v", err)
	}
	updated, err := svc.Update(ctx, appauth.Principal{UserID: asha.ID}, asha.ID, &dto.UpdateUserRequest{FirstName: &first})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.FirstName != "Asha" {
		t.Fatalf("expected first name to change, got %q", updated.FirstName)
	}
}
