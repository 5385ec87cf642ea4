package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/logger"
)

// SkillRepository handles skill catalog database operations
type SkillRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(db *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a skill
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	sql, args, err := r.sb.Insert("skills").
		Columns("skill_name", "category").
		Values(skill.SkillName, skill.Category).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create skill SQL")
		return fmt.Errorf("failed to build create skill query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&skill.ID); err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		logger.Error().Err(err).Str("skillName", skill.SkillName).Msg("Error executing create skill query")
		return fmt.Errorf("error creating skill: %w", err)
	}
	return nil
}

// GetByID retrieves a skill by ID
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*models.Skill, error) {
	sql, args, err := r.sb.Select("id", "skill_name", "category").
		From("skills").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get skill SQL")
		return nil, fmt.Errorf("failed to build get skill query: %w", err)
	}

	skill := &models.Skill{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&skill.ID, &skill.SkillName, &skill.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("skillID", id).Msg("Error scanning skill row")
		return nil, fmt.Errorf("error retrieving skill: %w", err)
	}
	return skill, nil
}

// List returns the catalog ordered by name
func (r *SkillRepository) List(ctx context.Context) ([]*models.Skill, error) {
	sql, args, err := r.sb.Select("id", "skill_name", "category").
		From("skills").
		OrderBy("skill_name").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list skills SQL")
		return nil, fmt.Errorf("failed to build list skills query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list skills query")
		return nil, fmt.Errorf("error listing skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*models.Skill, 0)
	for rows.Next() {
		s := &models.Skill{}
		if err := rows.Scan(&s.ID, &s.SkillName, &s.Category); err != nil {
			return nil, fmt.Errorf("error scanning skill row: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// Update writes name and category
func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	sql, args, err := r.sb.Update("skills").
		Set("skill_name", skill.SkillName).
		Set("category", skill.Category).
		Where(squirrel.Eq{"id": skill.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update skill SQL")
		return fmt.Errorf("failed to build update skill query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		logger.Error().Err(err).Int64("skillID", skill.ID).Msg("Error executing update skill query")
		return fmt.Errorf("error updating skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a skill; assignments and requirements referencing it cascade
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "skills", id)
}
