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

var profileColumns = []string{
	"id", "user_id", "full_name", "phone", "cgpa", "resume_url", "career_goal", "created_at", "updated_at",
}

func profileScanTargets(p *models.StudentProfile) []any {
	return []any{
		&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.CGPA, &p.ResumeURL, &p.CareerGoal, &p.CreatedAt, &p.UpdatedAt,
	}
}

// insertProfileIfAbsent inserts profile unless its user already owns one. It
// reports whether a row was written; on conflict profile is left untouched.
func insertProfileIfAbsent(ctx context.Context, q querier, sb squirrel.StatementBuilderType, profile *models.StudentProfile) (bool, error) {
	sql, args, err := sb.Insert("student_profiles").
		Columns("user_id", "full_name", "phone", "cgpa", "resume_url", "career_goal").
		Values(profile.UserID, profile.FullName, profile.Phone, profile.CGPA, profile.ResumeURL, profile.CareerGoal).
		Suffix("ON CONFLICT (user_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return false, fmt.Errorf("failed to build create profile query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	}
	if ferr := foreignKeyError(err, "user_id"); ferr != nil {
		return false, ferr
	}
	logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error executing create profile query")
	return false, fmt.Errorf("error creating profile: %w", err)
}

// StudentProfileRepository handles student profile database operations
type StudentProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentProfileRepository creates a new StudentProfileRepository
func NewStudentProfileRepository(db *pgxpool.Pool) *StudentProfileRepository {
	return &StudentProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a profile; a second profile for the same user is a validation error
func (r *StudentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	created, err := insertProfileIfAbsent(ctx, r.db, r.sb, profile)
	if err != nil {
		return err
	}
	if !created {
		return apperrors.NewValidationError("user_id", "student profile with this user already exists.")
	}
	return nil
}

// GetOrCreate returns the profile of defaults.UserID, inserting defaults first when
// the user has none. The boolean reports whether a row was created.
func (r *StudentProfileRepository) GetOrCreate(ctx context.Context, defaults *models.StudentProfile) (*models.StudentProfile, bool, error) {
	created, err := insertProfileIfAbsent(ctx, r.db, r.sb, defaults)
	if err != nil {
		return nil, false, err
	}
	profile, err := r.GetByUserID(ctx, defaults.UserID)
	if err != nil {
		return nil, false, err
	}
	return profile, created, nil
}

func (r *StudentProfileRepository) selectProfiles() squirrel.SelectBuilder {
	columns := append(prefixed("p", profileColumns), prefixed("u", userColumns)...)
	return r.sb.Select(columns...).
		From("student_profiles p").
		Join("users u ON u.id = p.user_id")
}

func (r *StudentProfileRepository) query(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.StudentProfile, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building select profiles SQL")
		return nil, fmt.Errorf("failed to build select profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing select profiles query")
		return nil, fmt.Errorf("error selecting profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.StudentProfile, 0)
	for rows.Next() {
		p := &models.StudentProfile{User: &models.User{}}
		if err := rows.Scan(append(profileScanTargets(p), userScanTargets(p.User)...)...); err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachAssignments(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// attachAssignments loads the skill assignments of all profiles in one query
func (r *StudentProfileRepository) attachAssignments(ctx context.Context, profiles []*models.StudentProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	byID := make(map[int64]*models.StudentProfile, len(profiles))
	ids := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		p.SkillAssignments = make([]*models.StudentSkillSet, 0)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	sets, err := selectSkillSets(ctx, r.db, r.sb, squirrel.Eq{"ss.student_profile_id": ids})
	if err != nil {
		return err
	}
	for _, s := range sets {
		if p, ok := byID[s.StudentProfileID]; ok {
			p.SkillAssignments = append(p.SkillAssignments, s)
		}
	}
	return nil
}

func (r *StudentProfileRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.StudentProfile, error) {
	profiles, err := r.query(ctx, r.selectProfiles().Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return profiles[0], nil
}

// GetByID retrieves a profile with its user and assignments
func (r *StudentProfileRepository) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return r.getOne(ctx, squirrel.Eq{"p.id": id})
}

// GetByUserID retrieves the profile owned by a user
func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	profile, err := r.getOne(ctx, squirrel.Eq{"p.user_id": userID})
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, err
}

// List returns profiles ordered by full name, optionally restricted to one user
func (r *StudentProfileRepository) List(ctx context.Context, userID *int64) ([]*models.StudentProfile, error) {
	qb := r.selectProfiles().OrderBy("p.full_name", "p.id")
	if userID != nil {
		qb = qb.Where(squirrel.Eq{"p.user_id": *userID})
	}
	return r.query(ctx, qb)
}

// Update writes the editable profile fields and bumps updated_at
func (r *StudentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	sql, args, err := r.sb.Update("student_profiles").
		Set("full_name", profile.FullName).
		Set("phone", profile.Phone).
		Set("cgpa", profile.CGPA).
		Set("resume_url", profile.ResumeURL).
		Set("career_goal", profile.CareerGoal).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": profile.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("profileID", profile.ID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// Delete removes a profile; assignments and roadmaps cascade
func (r *StudentProfileRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "student_profiles", id)
}
