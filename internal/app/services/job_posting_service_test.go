package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

type fakePostingRepo struct {
	nextID   int64
	postings map[int64]*models.JobPosting
}

func (r *fakePostingRepo) CreateWithRequirements(ctx context.Context, p *models.JobPosting, reqs []*models.RequiredSkill) error {
	seen := map[int64]bool{}
	for _, req := range reqs {
		if seen[req.SkillID] {
			return apperrors.NewValidationError("non_field_errors", "The fields job_posting, skill must make a unique set.")
		}
		seen[req.SkillID] = true
	}
	r.nextID++
	p.ID = r.nextID
	p.PostedOn = time.Now()
	for _, req := range reqs {
		req.JobPostingID = p.ID
	}
	c := *p
	c.RequiredSkills = reqs
	r.postings[p.ID] = &c
	return nil
}

func (r *fakePostingRepo) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	p, ok := r.postings[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePostingRepo) List(ctx context.Context) ([]*models.JobPosting, error) {
	out := make([]*models.JobPosting, 0, len(r.postings))
	for _, p := range r.postings {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePostingRepo) Update(ctx context.Context, p *models.JobPosting) error {
	if _, ok := r.postings[p.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	c := *p
	r.postings[p.ID] = &c
	return nil
}

func (r *fakePostingRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.postings[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.postings, id)
	return nil
}

func TestJobPostingOwnership(t *testing.T) {
	repo := &fakePostingRepo{postings: map[int64]*models.JobPosting{}}
	svc := NewJobPostingService(repo, appauth.NewAuthorizationService(false), zerolog.Nop())
	ctx := context.Background()

	owner := appauth.Principal{UserID: 1, IsTPO: true}
	otherTPO := appauth.Principal{UserID: 2, IsTPO: true}
	student := appauth.Principal{UserID: 3}

	if _, err := svc.Create(ctx, student, &dto.CreateJobPostingRequest{Title: "Dev"}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("student create should be denied, got %v", err)
	}

	posting, err := svc.Create(ctx, owner, &dto.CreateJobPostingRequest{
		Title:          "Backend Intern",
		RequiredSkills: []dto.RequiredSkillInput{{SkillID: 7}, {SkillID: 8, RequiredLevel: 4}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if posting.TPOUserID != owner.UserID {
		t.Fatalf("posting must belong to the caller, got %d", posting.TPOUserID)
	}
	if len(posting.RequiredSkills) != 2 || posting.RequiredSkills[0].RequiredLevel != 1 {
		t.Fatalf("expected defaulted requirement level, got %+v", posting.RequiredSkills)
	}

	title := "Hijacked"
	if _, err := svc.Update(ctx, otherTPO, posting.ID, &dto.UpdateJobPostingRequest{Title: &title}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("foreign update should be denied, got %v", err)
	}
	if err := svc.Delete(ctx, otherTPO, posting.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("foreign delete should be denied, got %v", err)
	}
	if err := svc.Delete(ctx, owner, posting.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, posting.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestJobPostingDuplicateRequirement(t *testing.T) {
	repo := &fakePostingRepo{postings: map[int64]*models.JobPosting{}}
	svc := NewJobPostingService(repo, appauth.NewAuthorizationService(false), zerolog.Nop())

	_, err := svc.Create(context.Background(), appauth.Principal{UserID: 1, IsTPO: true}, &dto.CreateJobPostingRequest{
		Title:          "Dev",
		RequiredSkills: []dto.RequiredSkillInput{{SkillID: 7}, {SkillID: 7, RequiredLevel: 3}},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.postings) != 0 {
		t.Fatalf("no posting should be stored")
	}
}
