package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/acroconnect/internal/app/migrations"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/db"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// newTestDB connects to TEST_POSTGRES_DSN, migrates and empties the schema.
func newTestDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	database, err := db.Connect(poolConfig)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(database.Close)

	ctx := context.Background()
	if err := migrations.NewMigrator(database.Pool).Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.Pool.Exec(ctx, "TRUNCATE users, skills RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return database
}

func createUser(t *testing.T, repos *Repositories, username string, isTPO bool, profile *models.StudentProfile) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsTPO:        isTPO,
		IsActive:     true,
	}
	if err := repos.UserRepository.CreateWithProfile(context.Background(), u, profile); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func createSkill(t *testing.T, repos *Repositories, name string) *models.Skill {
	t.Helper()
	s := &models.Skill{SkillName: name, Category: "Programming"}
	if err := repos.SkillRepository.Create(context.Background(), s); err != nil {
		t.Fatalf("create skill %s: %v", name, err)
	}
	return s
}

func fieldOf(err error) string {
	var ce *apperrors.CustomError
	if !errors.As(err, &ce) {
		return ""
	}
	for f := range ce.Fields {
		return f
	}
	return ""
}

func TestUserCreationYieldsExactlyOneProfile(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	u := createUser(t, repos, "asha", false, &models.StudentProfile{FullName: "Asha Rao", Phone: "123", CGPA: 8.1})

	again, created, err := repos.StudentProfileRepository.GetOrCreate(ctx, &models.StudentProfile{UserID: u.ID, FullName: "asha"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Fatalf("expected existing profile to be reused")
	}
	if again.FullName != "Asha Rao" || again.CGPA != 8.1 {
		t.Fatalf("unexpected profile %+v", again)
	}

	profiles, err := repos.StudentProfileRepository.List(ctx, &u.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	u := createUser(t, repos, "ravi", false, nil)

	var firstID int64
	for i := 0; i < 3; i++ {
		p, created, err := repos.StudentProfileRepository.GetOrCreate(ctx, models.DefaultProfileFor(u))
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if created != (i == 0) {
			t.Fatalf("call %d: created=%v", i, created)
		}
		if i == 0 {
			firstID = p.ID
		} else if p.ID != firstID {
			t.Fatalf("call %d returned profile %d, want %d", i, p.ID, firstID)
		}
	}
}

func TestDuplicateUsernameIsValidationError(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	createUser(t, repos, "meera", false, nil)

	dup := &models.User{Username: "meera", Email: "other@example.com", PasswordHash: "x", IsActive: true}
	err := repos.UserRepository.CreateWithProfile(context.Background(), dup, &models.StudentProfile{FullName: "x"})
	if !errors.Is(err, apperrors.ErrValidationFailed) || fieldOf(err) != "username" {
		t.Fatalf("expected username validation error, got %v", err)
	}
}

func TestDuplicateSkillAssignmentRejected(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	u := createUser(t, repos, "kiran", false, &models.StudentProfile{FullName: "Kiran"})
	profile, err := repos.StudentProfileRepository.GetByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	skill := createSkill(t, repos, "Go")

	first := &models.StudentSkillSet{StudentProfileID: profile.ID, SkillID: skill.ID, SkillLevel: 3}
	if err := repos.StudentSkillRepository.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	second := &models.StudentSkillSet{StudentProfileID: profile.ID, SkillID: skill.ID, SkillLevel: 5}
	err = repos.StudentSkillRepository.Create(ctx, second)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}

	sets, err := repos.StudentSkillRepository.List(ctx, &profile.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sets) != 1 || sets[0].SkillLevel != 3 {
		t.Fatalf("expected the original single assignment, got %+v", sets)
	}
}

func TestPostingWithDuplicateRequirementRollsBack(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	tpo := createUser(t, repos, "tpo", true, nil)
	skill := createSkill(t, repos, "SQL")

	posting := &models.JobPosting{TPOUserID: tpo.ID, Title: "Analyst"}
	err := repos.JobPostingRepository.CreateWithRequirements(ctx, posting, []*models.RequiredSkill{
		{SkillID: skill.ID, RequiredLevel: 2},
		{SkillID: skill.ID, RequiredLevel: 4},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}

	postings, err := repos.JobPostingRepository.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected no posting after rollback, got %d", len(postings))
	}
}

func TestCascadeDeletes(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	tpo := createUser(t, repos, "placement", true, nil)
	student := createUser(t, repos, "neha", false, &models.StudentProfile{FullName: "Neha"})
	profile, err := repos.StudentProfileRepository.GetByUserID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	python := createSkill(t, repos, "Python")
	java := createSkill(t, repos, "Java")

	for _, s := range []*models.Skill{python, java} {
		if err := repos.StudentSkillRepository.Create(ctx, &models.StudentSkillSet{StudentProfileID: profile.ID, SkillID: s.ID, SkillLevel: 2}); err != nil {
			t.Fatalf("assign %s: %v", s.SkillName, err)
		}
	}
	posting := &models.JobPosting{TPOUserID: tpo.ID, Title: "Dev"}
	if err := repos.JobPostingRepository.CreateWithRequirements(ctx, posting, []*models.RequiredSkill{
		{SkillID: python.ID, RequiredLevel: 3},
		{SkillID: java.ID, RequiredLevel: 1},
	}); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	if err := repos.RoadmapRepository.Create(ctx, &models.Roadmap{ProfileID: profile.ID, RoadmapText: "Step 1"}); err != nil {
		t.Fatalf("create roadmap: %v", err)
	}

	// deleting a skill removes assignments and requirements that reference it
	if err := repos.SkillRepository.Delete(ctx, python.ID); err != nil {
		t.Fatalf("delete skill: %v", err)
	}
	sets, _ := repos.StudentSkillRepository.List(ctx, &profile.ID)
	if len(sets) != 1 || sets[0].SkillID != java.ID {
		t.Fatalf("expected only the java assignment, got %+v", sets)
	}
	reqs, _ := repos.RequiredSkillRepository.List(ctx, &posting.ID)
	if len(reqs) != 1 || reqs[0].SkillID != java.ID {
		t.Fatalf("expected only the java requirement, got %+v", reqs)
	}

	// deleting the profile removes assignments and roadmaps but not skills
	if err := repos.StudentProfileRepository.Delete(ctx, profile.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if sets, _ := repos.StudentSkillRepository.List(ctx, &profile.ID); len(sets) != 0 {
		t.Fatalf("expected assignments to cascade, got %d", len(sets))
	}
	if roadmaps, _ := repos.RoadmapRepository.List(ctx, &profile.ID); len(roadmaps) != 0 {
		t.Fatalf("expected roadmaps to cascade, got %d", len(roadmaps))
	}
	if _, err := repos.SkillRepository.GetByID(ctx, java.ID); err != nil {
		t.Fatalf("skill catalog should be untouched: %v", err)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	u := createUser(t, repos, "tok", false, nil)

	tokens := repos.TokenRepository
	if err := tokens.CreateToken(ctx, "jti-1", u.ID, u.DateJoined.AddDate(1, 0, 0)); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	owner, err := tokens.GetActiveTokenOwner(ctx, "jti-1")
	if err != nil || owner != u.ID {
		t.Fatalf("GetActiveTokenOwner = %d, %v", owner, err)
	}
	if err := tokens.RevokeToken(ctx, "jti-1"); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if _, err := tokens.GetActiveTokenOwner(ctx, "jti-1"); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("expected revoked, got %v", err)
	}
	if err := tokens.RevokeToken(ctx, "jti-1"); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("second revoke should fail, got %v", err)
	}
	if _, err := tokens.GetActiveTokenOwner(ctx, "missing"); !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
