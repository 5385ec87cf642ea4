package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

func TestGetMineIsIdempotent(t *testing.T) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	u := &models.User{Username: "kiran", Email: "kiran@example.com", FirstName: "Kiran", IsActive: true}
	if err := users.CreateWithProfile(context.Background(), u, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewStudentProfileService(profiles, users, appauth.NewAuthorizationService(false), zerolog.Nop())
	caller := appauth.Principal{UserID: u.ID, Username: u.Username}

	var firstID int64
	for i := 0; i < 5; i++ {
		p, err := svc.GetMine(context.Background(), caller)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if i == 0 {
			firstID = p.ID
			if p.FullName != "Kiran" || p.Phone != "" || p.CGPA != 0 {
				t.Fatalf("unexpected defaults %+v", p)
			}
		} else if p.ID != firstID {
			t.Fatalf("call %d returned %d, want %d", i, p.ID, firstID)
		}
	}
	if profiles.count() != 1 {
		t.Fatalf("expected exactly one profile, got %d", profiles.count())
	}
}

func TestGetMineRejectsTPO(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewStudentProfileService(profiles, newFakeUserRepo(profiles), appauth.NewAuthorizationService(false), zerolog.Nop())

	_, err := svc.GetMine(context.Background(), appauth.Principal{UserID: 1, IsTPO: true})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if profiles.count() != 0 {
		t.Fatalf("no profile should be materialized for a TPO")
	}
}

func TestUpdateMineValidatesFields(t *testing.T) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	u := &models.User{Username: "asha", Email: "asha@example.com", IsActive: true}
	_ = users.CreateWithProfile(context.Background(), u, &models.StudentProfile{FullName: "Asha"})
	svc := NewStudentProfileService(profiles, users, appauth.NewAuthorizationService(false), zerolog.Nop())
	caller := appauth.Principal{UserID: u.ID}

	bad := "not a url"
	blank := "  "
	_, err := svc.UpdateMine(context.Background(), caller, &dto.UpdateStudentProfileRequest{ResumeURL: &bad, FullName: &blank})
	var ce *apperrors.CustomError
	if !errors.As(err, &ce) || ce.Fields["resume_url"] == "" || ce.Fields["full_name"] == "" {
		t.Fatalf("expected resume_url and full_name field errors, got %v", err)
	}

	goal := "Data engineer"
	link := "https://example.com/cv.pdf"
	p, err := svc.UpdateMine(context.Background(), caller, &dto.UpdateStudentProfileRequest{CareerGoal: &goal, ResumeURL: &link})
	if err != nil {
		t.Fatalf("UpdateMine: %v", err)
	}
	if p.CareerGoal != goal || p.ResumeURL != link || p.FullName != "Asha" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestProfileVisibility(t *testing.T) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	ctx := context.Background()
	a := &models.User{Username: "a", Email: "a@example.com", IsActive: true}
	b := &models.User{Username: "b", Email: "b@example.com", IsActive: true}
	_ = users.CreateWithProfile(ctx, a, &models.StudentProfile{FullName: "A"})
	_ = users.CreateWithProfile(ctx, b, &models.StudentProfile{FullName: "B"})
	svc := NewStudentProfileService(profiles, users, appauth.NewAuthorizationService(false), zerolog.Nop())

	own, _ := svc.List(ctx, appauth.Principal{UserID: a.ID})
	if len(own) != 1 || own[0].UserID != a.ID {
		t.Fatalf("student should only see their own profile, got %d", len(own))
	}
	all, _ := svc.List(ctx, appauth.Principal{UserID: 100, IsTPO: true})
	if len(all) != 2 {
		t.Fatalf("TPO should see every profile, got %d", len(all))
	}

	bProfile, _ := profiles.GetByUserID(ctx, b.ID)
	if _, err := svc.GetByID(ctx, appauth.Principal{UserID: a.ID}, bProfile.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, appauth.Principal{UserID: 100, IsTPO: true}, bProfile.ID); err != nil {
		t.Fatalf("TPO delete: %v", err)
	}
}
