package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/db"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IUserRepository defines the persistence operations on accounts
type IUserRepository interface {
	// CreateWithProfile inserts the user and, when profile is non-nil, its student
	// profile in the same transaction.
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.StudentProfile) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// ITokenRepository stores refresh token identifiers
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetActiveTokenOwner(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// ISkillRepository defines the persistence operations on the skill catalog
type ISkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id int64) (*models.Skill, error)
	List(ctx context.Context) ([]*models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id int64) error
}

// IStudentProfileRepository defines the persistence operations on student profiles.
// Reads embed the owning user and the skill assignments.
type IStudentProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetOrCreate(ctx context.Context, defaults *models.StudentProfile) (*models.StudentProfile, bool, error)
	GetByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	List(ctx context.Context, userID *int64) ([]*models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, id int64) error
}

// IStudentSkillRepository defines the persistence operations on skill assignments
type IStudentSkillRepository interface {
	Create(ctx context.Context, set *models.StudentSkillSet) error
	GetByID(ctx context.Context, id int64) (*models.StudentSkillSet, error)
	List(ctx context.Context, profileID *int64) ([]*models.StudentSkillSet, error)
	UpdateLevel(ctx context.Context, id int64, level int) error
	Delete(ctx context.Context, id int64) error
}

// IJobPostingRepository defines the persistence operations on job postings.
// Reads embed the posting TPO and the required skills.
type IJobPostingRepository interface {
	CreateWithRequirements(ctx context.Context, posting *models.JobPosting, requirements []*models.RequiredSkill) error
	GetByID(ctx context.Context, id int64) (*models.JobPosting, error)
	List(ctx context.Context) ([]*models.JobPosting, error)
	Update(ctx context.Context, posting *models.JobPosting) error
	Delete(ctx context.Context, id int64) error
}

// IRequiredSkillRepository defines the persistence operations on posting requirements
type IRequiredSkillRepository interface {
	Create(ctx context.Context, req *models.RequiredSkill) error
	GetByID(ctx context.Context, id int64) (*models.RequiredSkill, error)
	List(ctx context.Context, postingID *int64) ([]*models.RequiredSkill, error)
	UpdateLevel(ctx context.Context, id int64, level int) error
	Delete(ctx context.Context, id int64) error
}

// IRoadmapRepository defines the persistence operations on roadmaps. There is no
// update operation.
type IRoadmapRepository interface {
	Create(ctx context.Context, roadmap *models.Roadmap) error
	GetByID(ctx context.Context, id int64) (*models.Roadmap, error)
	List(ctx context.Context, profileID *int64) ([]*models.Roadmap, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	TokenRepository          *TokenRepository
	SkillRepository          *SkillRepository
	StudentProfileRepository *StudentProfileRepository
	StudentSkillRepository   *StudentSkillRepository
	JobPostingRepository     *JobPostingRepository
	RequiredSkillRepository  *RequiredSkillRepository
	RoadmapRepository        *RoadmapRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(database),
		TokenRepository:          NewTokenRepository(database.Pool),
		SkillRepository:          NewSkillRepository(database.Pool),
		StudentProfileRepository: NewStudentProfileRepository(database.Pool),
		StudentSkillRepository:   NewStudentSkillRepository(database.Pool),
		JobPostingRepository:     NewJobPostingRepository(database),
		RequiredSkillRepository:  NewRequiredSkillRepository(database.Pool),
		RoadmapRepository:        NewRoadmapRepository(database.Pool),
	}
}
