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

// RoadmapRepository handles roadmap database operations. Roadmaps are insert-only.
type RoadmapRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRoadmapRepository creates a new RoadmapRepository
func NewRoadmapRepository(db *pgxpool.Pool) *RoadmapRepository {
	return &RoadmapRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a roadmap; generated_on is assigned by the database
func (r *RoadmapRepository) Create(ctx context.Context, roadmap *models.Roadmap) error {
	sql, args, err := r.sb.Insert("roadmaps").
		Columns("profile_id", "roadmap_text").
		Values(roadmap.ProfileID, roadmap.RoadmapText).
		Suffix("RETURNING id, generated_on").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create roadmap SQL")
		return fmt.Errorf("failed to build create roadmap query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&roadmap.ID, &roadmap.GeneratedOn); err != nil {
		if ferr := foreignKeyError(err, "profile_id"); ferr != nil {
			return ferr
		}
		logger.Error().Err(err).Int64("profileID", roadmap.ProfileID).Msg("Error executing create roadmap query")
		return fmt.Errorf("error creating roadmap: %w", err)
	}
	return nil
}

func (r *RoadmapRepository) query(ctx context.Context, where squirrel.Sqlizer, limit uint64) ([]*models.Roadmap, error) {
	qb := r.sb.Select(
		"r.id", "r.profile_id", "r.roadmap_text", "r.generated_on",
		"p.id", "p.user_id", "p.full_name",
	).
		From("roadmaps r").
		Join("student_profiles p ON p.id = r.profile_id").
		OrderBy("r.generated_on DESC", "r.id DESC")
	if where != nil {
		qb = qb.Where(where)
	}
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building select roadmaps SQL")
		return nil, fmt.Errorf("failed to build select roadmaps query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing select roadmaps query")
		return nil, fmt.Errorf("error selecting roadmaps: %w", err)
	}
	defer rows.Close()

	roadmaps := make([]*models.Roadmap, 0)
	for rows.Next() {
		rm := &models.Roadmap{Profile: &models.StudentProfile{}}
		if err := rows.Scan(
			&rm.ID, &rm.ProfileID, &rm.RoadmapText, &rm.GeneratedOn,
			&rm.Profile.ID, &rm.Profile.UserID, &rm.Profile.FullName,
		); err != nil {
			return nil, fmt.Errorf("error scanning roadmap row: %w", err)
		}
		roadmaps = append(roadmaps, rm)
	}
	return roadmaps, rows.Err()
}

// GetByID retrieves a roadmap with its profile summary
func (r *RoadmapRepository) GetByID(ctx context.Context, id int64) (*models.Roadmap, error) {
	roadmaps, err := r.query(ctx, squirrel.Eq{"r.id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(roadmaps) == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return roadmaps[0], nil
}

// List returns roadmaps newest first, optionally for one profile
func (r *RoadmapRepository) List(ctx context.Context, profileID *int64) ([]*models.Roadmap, error) {
	var where squirrel.Sqlizer
	if profileID != nil {
		where = squirrel.Eq{"r.profile_id": *profileID}
	}
	return r.query(ctx, where, 0)
}

// Delete removes a roadmap
func (r *RoadmapRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "roadmaps", id)
}
