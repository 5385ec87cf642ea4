package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/acroconnect/internal/app/models"
	appRepos "github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

// DefaultSkills is the starter catalog inserted on an empty database
var DefaultSkills = []appModels.Skill{
	{SkillName: "Python", Category: "Programming"},
	{SkillName: "Java", Category: "Programming"},
	{SkillName: "Go", Category: "Programming"},
	{SkillName: "JavaScript", Category: "Programming"},
	{SkillName: "SQL", Category: "Databases"},
	{SkillName: "Data Structures", Category: "Computer Science"},
	{SkillName: "Algorithms", Category: "Computer Science"},
	{SkillName: "Machine Learning", Category: "Data Science"},
	{SkillName: "Git", Category: "Tools"},
	{SkillName: "Communication", Category: "Soft Skills"},
}

// TPOAccount describes the optional bootstrap TPO login
type TPOAccount struct {
	Username string
	Email    string
	Password string
}

// CreateDefaultData inserts the skill catalog and, when configured, a TPO account.
// Rows that already exist are left alone, so it is safe to run on every start.
func CreateDefaultData(ctx context.Context, skillRepo appRepos.ISkillRepository, userRepo appRepos.IUserRepository, tpo TPOAccount, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (skill catalog)...")
	var finalErr error

	existing, err := skillRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing skills: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s.SkillName] = true
	}

	created := 0
	for _, s := range DefaultSkills {
		if known[s.SkillName] {
			continue
		}
		skill := s
		err := skillRepo.Create(ctx, &skill)
		if err != nil && !errors.Is(err, apperrors.ErrValidationFailed) {
			lgr.Error().Err(err).Str("skill", s.SkillName).Msg("Error creating default skill")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if err == nil {
			created++
		}
	}
	lgr.Info().Int("created", created).Msg("Default skills ensured")

	if tpo.Username != "" {
		if err := ensureTPO(ctx, userRepo, tpo, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func ensureTPO(ctx context.Context, userRepo appRepos.IUserRepository, tpo TPOAccount, lgr zerolog.Logger) error {
	_, err := userRepo.GetByUsername(ctx, tpo.Username)
	if err == nil {
		lgr.Debug().Str("username", tpo.Username).Msg("Seed TPO account already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("error looking up seed TPO account: %w", err)
	}
	if tpo.Password == "" || tpo.Email == "" {
		return errors.New("seed TPO account needs an email and a password")
	}

	hash, err := auth.HashPassword(tpo.Password)
	if err != nil {
		return fmt.Errorf("error hashing seed TPO password: %w", err)
	}

	user := &appModels.User{
		Username:     tpo.Username,
		Email:        tpo.Email,
		PasswordHash: hash,
		IsTPO:        true,
		IsActive:     true,
	}
	if err := userRepo.CreateWithProfile(ctx, user, nil); err != nil {
		return fmt.Errorf("error creating seed TPO account: %w", err)
	}
	lgr.Info().Str("username", tpo.Username).Int64("userID", user.ID).Msg("Seed TPO account created")
	return nil
}
