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

// selectSkillSets loads assignments joined with their skill, ordered by id
func selectSkillSets(ctx context.Context, q querier, sb squirrel.StatementBuilderType, where squirrel.Sqlizer) ([]*models.StudentSkillSet, error) {
	qb := sb.Select(
		"ss.id", "ss.student_profile_id", "ss.skill_id", "ss.skill_level",
		"s.id", "s.skill_name", "s.category",
	).
		From("student_skill_sets ss").
		Join("skills s ON s.id = ss.skill_id").
		OrderBy("ss.id")
	if where != nil {
		qb = qb.Where(where)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building select skill sets SQL")
		return nil, fmt.Errorf("failed to build select skill sets query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing select skill sets query")
		return nil, fmt.Errorf("error selecting skill sets: %w", err)
	}
	defer rows.Close()

	sets := make([]*models.StudentSkillSet, 0)
	for rows.Next() {
		s := &models.StudentSkillSet{Skill: &models.Skill{}}
		if err := rows.Scan(
			&s.ID, &s.StudentProfileID, &s.SkillID, &s.SkillLevel,
			&s.Skill.ID, &s.Skill.SkillName, &s.Skill.Category,
		); err != nil {
			return nil, fmt.Errorf("error scanning skill set row: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// StudentSkillRepository handles skill assignment database operations
type StudentSkillRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentSkillRepository creates a new StudentSkillRepository
func NewStudentSkillRepository(db *pgxpool.Pool) *StudentSkillRepository {
	return &StudentSkillRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create assigns a skill to a profile. A repeated (profile, skill) pair is a
// validation error.
func (r *StudentSkillRepository) Create(ctx context.Context, set *models.StudentSkillSet) error {
	sql, args, err := r.sb.Insert("student_skill_sets").
		Columns("student_profile_id", "skill_id", "skill_level").
		Values(set.StudentProfileID, set.SkillID, set.SkillLevel).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create skill set SQL")
		return fmt.Errorf("failed to build create skill set query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&set.ID); err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		if ferr := foreignKeyError(err, "skill_id"); ferr != nil {
			return ferr
		}
		logger.Error().Err(err).Int64("profileID", set.StudentProfileID).Int64("skillID", set.SkillID).Msg("Error executing create skill set query")
		return fmt.Errorf("error creating skill set: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment with its skill
func (r *StudentSkillRepository) GetByID(ctx context.Context, id int64) (*models.StudentSkillSet, error) {
	sets, err := selectSkillSets(ctx, r.db, r.sb, squirrel.Eq{"ss.id": id})
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return sets[0], nil
}

// List returns assignments, optionally for one profile
func (r *StudentSkillRepository) List(ctx context.Context, profileID *int64) ([]*models.StudentSkillSet, error) {
	var where squirrel.Sqlizer
	if profileID != nil {
		where = squirrel.Eq{"ss.student_profile_id": *profileID}
	}
	return selectSkillSets(ctx, r.db, r.sb, where)
}

// UpdateLevel changes the level of an assignment
func (r *StudentSkillRepository) UpdateLevel(ctx context.Context, id int64, level int) error {
	return updateLevel(ctx, r.db, r.sb, "student_skill_sets", "skill_level", id, level)
}

// Delete removes an assignment
func (r *StudentSkillRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "student_skill_sets", id)
}

// updateLevel sets a 1..5 level column on the row with id
func updateLevel(ctx context.Context, q querier, sb squirrel.StatementBuilderType, table, column string, id int64, level int) error {
	sql, args, err := sb.Update(table).
		Set(column, level).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building update level SQL")
		return fmt.Errorf("failed to build update level query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing update level query")
		return fmt.Errorf("error updating %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
