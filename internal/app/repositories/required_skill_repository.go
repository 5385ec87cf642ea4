package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/logger"
)

// selectRequiredSkills loads requirements joined with their skill, ordered by id
func selectRequiredSkills(ctx context.Context, q querier, sb squirrel.StatementBuilderType, where squirrel.Sqlizer) ([]*models.RequiredSkill, error) {
	qb := sb.Select(
		"rs.id", "rs.job_posting_id", "rs.skill_id", "rs.required_level",
		"s.id", "s.skill_name", "s.category",
	).
		From("required_skills rs").
		Join("skills s ON s.id = rs.skill_id").
		OrderBy("rs.id")
	if where != nil {
		qb = qb.Where(where)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building select required skills SQL")
		return nil, fmt.Errorf("failed to build select required skills query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing select required skills query")
		return nil, fmt.Errorf("error selecting required skills: %w", err)
	}
	defer rows.Close()

	reqs := make([]*models.RequiredSkill, 0)
	for rows.Next() {
		rs := &models.RequiredSkill{Skill: &models.Skill{}}
		if err := rows.Scan(
			&rs.ID, &rs.JobPostingID, &rs.SkillID, &rs.RequiredLevel,
			&rs.Skill.ID, &rs.Skill.SkillName, &rs.Skill.Category,
		); err != nil {
			return nil, fmt.Errorf("error scanning required skill row: %w", err)
		}
		reqs = append(reqs, rs)
	}
	return reqs, rows.Err()
}

// insertRequiredSkill writes one requirement through q, which may be a transaction
func insertRequiredSkill(ctx context.Context, q querier, sb squirrel.StatementBuilderType, req *models.RequiredSkill) error {
	sql, args, err := sb.Insert("required_skills").
		Columns("job_posting_id", "skill_id", "required_level").
		Values(req.JobPostingID, req.SkillID, req.RequiredLevel).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create required skill SQL")
		return fmt.Errorf("failed to build create required skill query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&req.ID); err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		if ferr := foreignKeyError(err, "skill_id"); ferr != nil {
			return ferr
		}
		logger.Error().Err(err).Int64("postingID", req.JobPostingID).Int64("skillID", req.SkillID).Msg("Error executing create required skill query")
		return fmt.Errorf("error creating required skill: %w", err)
	}
	return nil
}

// RequiredSkillRepository handles posting requirement database operations
type RequiredSkillRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequiredSkillRepository creates a new RequiredSkillRepository
func NewRequiredSkillRepository(db *pgxpool.Pool) *RequiredSkillRepository {
	return &RequiredSkillRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create attaches a requirement to a posting
func (r *RequiredSkillRepository) Create(ctx context.Context, req *models.RequiredSkill) error {
	return insertRequiredSkill(ctx, r.db, r.sb, req)
}

// GetByID retrieves a requirement with its skill
func (r *RequiredSkillRepository) GetByID(ctx context.Context, id int64) (*models.RequiredSkill, error) {
	reqs, err := selectRequiredSkills(ctx, r.db, r.sb, squirrel.Eq{"rs.id": id})
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return reqs[0], nil
}

// List returns requirements, optionally for one posting
func (r *RequiredSkillRepository) List(ctx context.Context, postingID *int64) ([]*models.RequiredSkill, error) {
	var where squirrel.Sqlizer
	if postingID != nil {
		where = squirrel.Eq{"rs.job_posting_id": *postingID}
	}
	return selectRequiredSkills(ctx, r.db, r.sb, where)
}

// UpdateLevel changes the expected level
func (r *RequiredSkillRepository) UpdateLevel(ctx context.Context, id int64, level int) error {
	return updateLevel(ctx, r.db, r.sb, "required_skills", "required_level", id, level)
}

// Delete removes a requirement
func (r *RequiredSkillRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "required_skills", id)
}
