package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/db"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/logger"
)

var postingColumns = []string{"id", "tpo_user_id", "title", "company", "description", "posted_on"}

// JobPostingRepository handles job posting database operations
type JobPostingRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewJobPostingRepository creates a new JobPostingRepository
func NewJobPostingRepository(database *db.PostgresDB) *JobPostingRepository {
	return &JobPostingRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateWithRequirements inserts the posting and its inline requirements in one
// transaction. posted_on is assigned by the database.
func (r *JobPostingRepository) CreateWithRequirements(ctx context.Context, posting *models.JobPosting, requirements []*models.RequiredSkill) error {
	sql, args, err := r.sb.Insert("job_postings").
		Columns("tpo_user_id", "title", "company", "description").
		Values(posting.TPOUserID, posting.Title, posting.Company, posting.Description).
		Suffix("RETURNING id, posted_on").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create job posting SQL")
		return fmt.Errorf("failed to build create job posting query: %w", err)
	}

	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&posting.ID, &posting.PostedOn); err != nil {
			if ferr := foreignKeyError(err, "tpo_user_id"); ferr != nil {
				return ferr
			}
			logger.Error().Err(err).Int64("tpoUserID", posting.TPOUserID).Msg("Error executing create job posting query")
			return fmt.Errorf("error creating job posting: %w", err)
		}

		for _, req := range requirements {
			req.JobPostingID = posting.ID
			if err := insertRequiredSkill(ctx, tx, r.sb, req); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *JobPostingRepository) query(ctx context.Context, where squirrel.Sqlizer, limit uint64) ([]*models.JobPosting, error) {
	qb := r.sb.Select(append(prefixed("jp", postingColumns), prefixed("u", userColumns)...)...).
		From("job_postings jp").
		Join("users u ON u.id = jp.tpo_user_id").
		OrderBy("jp.posted_on DESC", "jp.id DESC")
	if where != nil {
		qb = qb.Where(where)
	}
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building select job postings SQL")
		return nil, fmt.Errorf("failed to build select job postings query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing select job postings query")
		return nil, fmt.Errorf("error selecting job postings: %w", err)
	}
	defer rows.Close()

	postings := make([]*models.JobPosting, 0)
	byID := make(map[int64]*models.JobPosting)
	ids := make([]int64, 0)
	for rows.Next() {
		p := &models.JobPosting{TPOUser: &models.User{}, RequiredSkills: make([]*models.RequiredSkill, 0)}
		targets := append([]any{&p.ID, &p.TPOUserID, &p.Title, &p.Company, &p.Description, &p.PostedOn}, userScanTargets(p.TPOUser)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning job posting row: %w", err)
		}
		postings = append(postings, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return postings, nil
	}

	reqs, err := selectRequiredSkills(ctx, r.database.Pool, r.sb, squirrel.Eq{"rs.job_posting_id": ids})
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if p, ok := byID[req.JobPostingID]; ok {
			p.RequiredSkills = append(p.RequiredSkills, req)
		}
	}
	return postings, nil
}

// GetByID retrieves a posting with its TPO and requirements
func (r *JobPostingRepository) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	postings, err := r.query(ctx, squirrel.Eq{"jp.id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return postings[0], nil
}

// List returns postings newest first
func (r *JobPostingRepository) List(ctx context.Context) ([]*models.JobPosting, error) {
	return r.query(ctx, nil, 0)
}

// Update writes title, company and description. posted_on is never touched.
func (r *JobPostingRepository) Update(ctx context.Context, posting *models.JobPosting) error {
	sql, args, err := r.sb.Update("job_postings").
		Set("title", posting.Title).
		Set("company", posting.Company).
		Set("description", posting.Description).
		Where(squirrel.Eq{"id": posting.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update job posting SQL")
		return fmt.Errorf("failed to build update job posting query: %w", err)
	}

	tag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postingID", posting.ID).Msg("Error executing update job posting query")
		return fmt.Errorf("error updating job posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a posting; its requirements cascade
func (r *JobPostingRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.database.Pool, r.sb, "job_postings", id)
}
