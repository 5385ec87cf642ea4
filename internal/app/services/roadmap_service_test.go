package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

type roadmapFixture struct {
	svc      RoadmapService
	client   *fakeGenAI
	roadmaps *fakeRoadmapRepo
	caller   appauth.Principal
}

func newRoadmapFixture(t *testing.T, candidates []string, outcomes map[string]scriptedOutcome, available bool) *roadmapFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	u := &models.User{Username: "asha", Email: "asha@example.com", IsActive: true}
	if err := users.CreateWithProfile(context.Background(), u, &models.StudentProfile{FullName: "Asha", CGPA: 8.5}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	client := &fakeGenAI{outcomes: outcomes, models: []string{"models/a", "models/b"}}
	roadmaps := &fakeRoadmapRepo{profiles: profiles}
	svc := NewRoadmapService(roadmaps, profiles, client, RoadmapConfig{
		Available:        available,
		Candidates:       candidates,
		CandidateTimeout: 50 * time.Millisecond,
	}, appauth.NewAuthorizationService(false), zerolog.Nop())

	return &roadmapFixture{svc: svc, client: client, roadmaps: roadmaps, caller: appauth.Principal{UserID: u.ID, Username: u.Username}}
}

func TestGenerateFallsBackInOrder(t *testing.T) {
	f := newRoadmapFixture(t, []string{"A", "B", "C"}, map[string]scriptedOutcome{
		"A": {err: errors.New("model A not found")},
		"B": {text: "   "},
		"C": {text: "Step 1..."},
	}, true)

	roadmap, err := f.svc.Generate(context.Background(), f.caller)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if roadmap.RoadmapText != "Step 1..." {
		t.Fatalf("expected C's text, got %q", roadmap.RoadmapText)
	}
	if got := strings.Join(f.client.called(), ","); got != "A,B,C" {
		t.Fatalf("expected attempts A,B,C, got %s", got)
	}
	if f.roadmaps.count() != 1 {
		t.Fatalf("expected one stored roadmap, got %d", f.roadmaps.count())
	}
}

func TestGenerateStopsAtFirstSuccess(t *testing.T) {
	f := newRoadmapFixture(t, []string{"A", "B", "C"}, map[string]scriptedOutcome{
		"A": {text: "plan"},
		"B": {text: "other"},
	}, true)

	if _, err := f.svc.Generate(context.Background(), f.caller); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := strings.Join(f.client.called(), ","); got != "A" {
		t.Fatalf("expected only A to be tried, got %s", got)
	}
}

func TestGenerateAllCandidatesFail(t *testing.T) {
	tests := []struct {
		name     string
		outcomes map[string]scriptedOutcome
		wantTail string
	}{
		{
			name: "errors and empty text",
			outcomes: map[string]scriptedOutcome{
				"A": {err: errors.New("boom")},
				"B": {text: ""},
				"C": {err: errors.New("quota exceeded")},
			},
			wantTail: "last error: quota exceeded",
		},
		{
			name: "only empty text",
			outcomes: map[string]scriptedOutcome{
				"A": {text: ""}, "B": {text: "\n"}, "C": {text: " "},
			},
			wantTail: "no exception captured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoadmapFixture(t, []string{"A", "B", "C"}, tt.outcomes, true)

			_, err := f.svc.Generate(context.Background(), f.caller)
			var genErr *apperrors.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			want := "No usable model available. Tried models: A, B, C, " + tt.wantTail
			if err.Error() != want {
				t.Fatalf("got %q, want %q", err.Error(), want)
			}
			if got := strings.Join(genErr.Tried, ","); got != "A,B,C" {
				t.Fatalf("tried: got %s, want A,B,C", got)
			}
			if f.roadmaps.count() != 0 {
				t.Fatalf("no roadmap must be stored on failure")
			}
		})
	}
}

func TestGenerateTimesOutSlowCandidate(t *testing.T) {
	f := newRoadmapFixture(t, []string{"slow", "fast"}, map[string]scriptedOutcome{
		"slow": {block: true},
		"fast": {text: "plan"},
	}, true)

	roadmap, err := f.svc.Generate(context.Background(), f.caller)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if roadmap.RoadmapText != "plan" {
		t.Fatalf("unexpected text %q", roadmap.RoadmapText)
	}
}

func TestGenerateStopsWhenCallerCancels(t *testing.T) {
	f := newRoadmapFixture(t, []string{"A", "B"}, map[string]scriptedOutcome{"A": {text: "x"}}, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Generate(ctx, f.caller)
	var genErr *apperrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	if len(f.client.called()) != 0 {
		t.Fatalf("no candidate should be tried after cancellation")
	}
	if len(genErr.Tried) != 0 {
		t.Fatalf("uncalled candidates reported as tried: %v", genErr.Tried)
	}
	if !errors.Is(genErr.LastErr, context.Canceled) {
		t.Fatalf("expected context.Canceled as last error, got %v", genErr.LastErr)
	}
}

func TestGenerateUnavailable(t *testing.T) {
	f := newRoadmapFixture(t, []string{"A"}, nil, false)

	if _, err := f.svc.Generate(context.Background(), f.caller); !errors.Is(err, apperrors.ErrGenerationUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := f.svc.ListModels(context.Background()); !errors.Is(err, apperrors.ErrGenerationUnavailable) {
		t.Fatalf("expected unavailable listing, got %v", err)
	}
}

func TestGenerateWithoutProfile(t *testing.T) {
	f := newRoadmapFixture(t, []string{"A"}, map[string]scriptedOutcome{"A": {text: "x"}}, true)

	_, err := f.svc.Generate(context.Background(), appauth.Principal{UserID: 404})
	if !errors.Is(err, apperrors.ErrProfileNotFound) || err.Error() != apperrors.MsgProfileNotFound {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestBuildRoadmapPrompt(t *testing.T) {
	profile := &models.StudentProfile{
		FullName: "Asha Rao",
		CGPA:     9,
		SkillAssignments: []*models.StudentSkillSet{
			{SkillLevel: 4, Skill: &models.Skill{SkillName: "Python"}},
			{SkillLevel: 2, Skill: &models.Skill{SkillName: "SQL"}},
		},
	}

	prompt, err := BuildRoadmapPrompt(profile)
	if err != nil {
		t.Fatalf("BuildRoadmapPrompt: %v", err)
	}
	for _, want := range []string{
		"- Name: Asha Rao\n",
		"- CGPA: 9.0\n",
		"- Career Goal: Not specified\n",
		"- Current Skills: Python: 4/5, SQL: 2/5\n",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.HasPrefix(prompt, "You are a career guidance AI assistant.") ||
		!strings.HasSuffix(prompt, "with sections and bullet points.") {
		t.Fatalf("unexpected prompt framing:\n%s", prompt)
	}
}

func TestSummarizeSkillsAndCGPA(t *testing.T) {
	if got := summarizeSkills(nil); got != "No skills specified yet." {
		t.Fatalf("empty skills: %q", got)
	}
	tests := map[float64]string{0: "0.0", 8.25: "8.25", 10: "10.0", 7.5: "7.5"}
	for in, want := range tests {
		if got := formatCGPA(in); got != want {
			t.Fatalf("formatCGPA(%v) = %q, want %q", in, got, want)
		}
	}
}
