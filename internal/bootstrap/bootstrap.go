package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appAuth "github.com/yigit/acroconnect/internal/app/auth"
	appControllers "github.com/yigit/acroconnect/internal/app/controllers"
	appMigrations "github.com/yigit/acroconnect/internal/app/migrations"
	appRepos "github.com/yigit/acroconnect/internal/app/repositories"
	appRoutes "github.com/yigit/acroconnect/internal/app/routes"
	appServices "github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/config"
	"github.com/yigit/acroconnect/internal/db"
	appMiddleware "github.com/yigit/acroconnect/internal/middleware"
	pkgAuth "github.com/yigit/acroconnect/internal/pkg/auth"
	"github.com/yigit/acroconnect/internal/pkg/genai"
	"github.com/yigit/acroconnect/internal/pkg/helpers"
	"github.com/yigit/acroconnect/internal/pkg/logger"
	"github.com/yigit/acroconnect/internal/pkg/tracing"
	"github.com/yigit/acroconnect/internal/seed"
)

// tokenCleanupInterval is how often expired refresh tokens are purged
const tokenCleanupInterval = time.Hour

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	UserService           appServices.UserService
	SkillService          appServices.SkillService
	StudentProfileService appServices.StudentProfileService
	StudentSkillService   appServices.StudentSkillService
	JobPostingService     appServices.JobPostingService
	RequiredSkillService  appServices.RequiredSkillService
	RoadmapService        appServices.RoadmapService
	Controllers           appRoutes.Controllers
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	AuthzService          *appAuth.AuthorizationService
	GenAIClient           genai.Client
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: cfg.Tracing.ServiceName,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupTracing installs the tracer provider described by cfg.Tracing
func SetupTracing(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (tracing.ShutdownFunc, error) {
	return tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Server.Mode,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, lgr)
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	if err := seed.CreateDefaultData(ctx, deps.Repos.SkillRepository, deps.Repos.UserRepository, seed.TPOAccount{
		Username: cfg.Auth.SeedTPOUsername,
		Email:    cfg.Auth.SeedTPOEmail,
		Password: cfg.Auth.SeedTPOPassword,
	}, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.AuthzService = appAuth.NewAuthorizationService(cfg.Auth.AllowTPORegistration)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration("jwt.access_token_expiration", cfg.JWT.AccessTokenExpiration, 5*time.Minute),
		RefreshTokenExp: helpers.ParseDuration("jwt.refresh_token_expiration", cfg.JWT.RefreshTokenExpiration, 24*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	genAIAvailable := cfg.GenAIAvailable()
	if genAIAvailable {
		client, err := genai.New(ctx, genai.Options{Provider: cfg.GenAI.Provider, APIKey: cfg.GenAI.APIKey})
		if err != nil {
			lgr.Warn().Err(err).Str("provider", cfg.GenAI.Provider).Msg("Generative client unavailable, roadmap generation disabled")
			genAIAvailable = false
		} else {
			deps.GenAIClient = client
		}
	}
	lgr.Info().Bool("available", genAIAvailable).Strs("candidates", cfg.GenAI.CandidateModels).Msg("Roadmap generation configured")

	serviceLogger := logger.Component("services")

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		serviceLogger,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.AuthzService, serviceLogger)
	deps.SkillService = appServices.NewSkillService(deps.Repos.SkillRepository, deps.AuthzService)
	deps.StudentProfileService = appServices.NewStudentProfileService(
		deps.Repos.StudentProfileRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
		serviceLogger,
	)
	deps.StudentSkillService = appServices.NewStudentSkillService(
		deps.Repos.StudentSkillRepository,
		deps.Repos.StudentProfileRepository,
		deps.AuthzService,
	)
	deps.JobPostingService = appServices.NewJobPostingService(deps.Repos.JobPostingRepository, deps.AuthzService, serviceLogger)
	deps.RequiredSkillService = appServices.NewRequiredSkillService(
		deps.Repos.RequiredSkillRepository,
		deps.Repos.JobPostingRepository,
		deps.AuthzService,
	)
	deps.RoadmapService = appServices.NewRoadmapService(
		deps.Repos.RoadmapRepository,
		deps.Repos.StudentProfileRepository,
		deps.GenAIClient,
		appServices.RoadmapConfig{
			Available:        genAIAvailable,
			Candidates:       cfg.GenAI.CandidateModels,
			CandidateTimeout: helpers.ParseDuration("genai.candidate_timeout", cfg.GenAI.CandidateTimeout, 30*time.Second),
		},
		deps.AuthzService,
		logger.Component("roadmap"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:           appControllers.NewAuthController(deps.AuthService, lgr),
		User:           appControllers.NewUserController(deps.UserService),
		Skill:          appControllers.NewSkillController(deps.SkillService),
		StudentProfile: appControllers.NewStudentProfileController(deps.StudentProfileService),
		StudentSkill:   appControllers.NewStudentSkillController(deps.StudentSkillService),
		JobPosting:     appControllers.NewJobPostingController(deps.JobPostingService, deps.RequiredSkillService),
		Roadmap:        appControllers.NewRoadmapController(deps.RoadmapService, lgr),
	}

	return deps, nil
}

// Close releases resources held by the dependencies
func (d *Dependencies) Close() {
	if d.GenAIClient != nil {
		if err := genai.Close(d.GenAIClient); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close generative client")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterJSONTagNames()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.CORS(cfg.CORS.AllowedOrigins),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}

// StartTokenCleanup purges expired refresh tokens until ctx is cancelled
func StartTokenCleanup(ctx context.Context, tokenRepo appRepos.ITokenRepository, lgr zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(tokenCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := tokenRepo.CleanupExpiredTokens(ctx)
				if err != nil {
					lgr.Error().Err(err).Msg("Refresh token cleanup failed")
					continue
				}
				if removed > 0 {
					lgr.Info().Int64("removed", removed).Msg("Expired refresh tokens removed")
				}
			}
		}
	}()
}
