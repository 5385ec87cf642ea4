package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/repositories"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:embed prompts/roadmap.tmpl
var roadmapPromptText string

var roadmapPrompt = template.Must(template.New("roadmap").Parse(roadmapPromptText))

var tracer = otel.Tracer("github.com/yigit/acroconnect/internal/app/services")

// Sentinel texts substituted into the prompt
const (
	noSkillsText   = "No skills specified yet."
	noGoalText     = "Not specified"
	skillSeparator = ", "
)

// RoadmapConfig configures generation. Available is the capability flag resolved at
// startup; Candidates are tried strictly in order.
type RoadmapConfig struct {
	Available        bool
	Candidates       []string
	CandidateTimeout time.Duration
}

// RoadmapService stores and generates learning roadmaps
type RoadmapService interface {
	List(ctx context.Context, p appauth.Principal) ([]*models.Roadmap, error)
	GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.Roadmap, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateRoadmapRequest) (*models.Roadmap, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
	// Generate builds a prompt from the caller's profile, asks the candidate models
	// in order and stores the first non-blank answer.
	Generate(ctx context.Context, p appauth.Principal) (*models.Roadmap, error)
	ListModels(ctx context.Context) ([]string, error)
}

type roadmapServiceImpl struct {
	roadmapRepo repositories.IRoadmapRepository
	profileRepo repositories.IStudentProfileRepository
	client      genai.Client
	cfg         RoadmapConfig
	authz       *appauth.AuthorizationService
	logger      zerolog.Logger
}

// NewRoadmapService creates a new RoadmapService. client may be nil when
// generation is unavailable.
func NewRoadmapService(
	roadmapRepo repositories.IRoadmapRepository,
	profileRepo repositories.IStudentProfileRepository,
	client genai.Client,
	cfg RoadmapConfig,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) RoadmapService {
	return &roadmapServiceImpl{
		roadmapRepo: roadmapRepo,
		profileRepo: profileRepo,
		client:      client,
		cfg:         cfg,
		authz:       authz,
		logger:      logger,
	}
}

func (s *roadmapServiceImpl) List(ctx context.Context, p appauth.Principal) ([]*models.Roadmap, error) {
	if p.IsTPO {
		return s.roadmapRepo.List(ctx, nil)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return []*models.Roadmap{}, nil
		}
		return nil, err
	}
	return s.roadmapRepo.List(ctx, &profile.ID)
}

func (s *roadmapServiceImpl) GetByID(ctx context.Context, p appauth.Principal, id int64) (*models.Roadmap, error) {
	roadmap, err := s.roadmapRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewProfile(p, roadmap.Profile); err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (s *roadmapServiceImpl) Create(ctx context.Context, p appauth.Principal, req *dto.CreateRoadmapRequest) (*models.Roadmap, error) {
	var (
		profile *models.StudentProfile
		err     error
	)
	if req.ProfileID != nil {
		profile, err = referencedProfile(ctx, s.profileRepo, "profile_id", *req.ProfileID)
	} else {
		profile, err = ownProfile(ctx, s.profileRepo, p)
	}
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanCreateRoadmap(p, profile); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.RoadmapText) == "" {
		return nil, apperrors.NewValidationError("roadmap_text", "This field may not be blank.")
	}

	return s.store(ctx, profile.ID, req.RoadmapText)
}

func (s *roadmapServiceImpl) store(ctx context.Context, profileID int64, text string) (*models.Roadmap, error) {
	roadmap := &models.Roadmap{ProfileID: profileID, RoadmapText: text}
	if err := s.roadmapRepo.Create(ctx, roadmap); err != nil {
		return nil, err
	}
	return s.roadmapRepo.GetByID(ctx, roadmap.ID)
}

func (s *roadmapServiceImpl) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	roadmap, err := s.roadmapRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanModifyProfile(p, roadmap.Profile); err != nil {
		return err
	}
	return s.roadmapRepo.Delete(ctx, id)
}

func (s *roadmapServiceImpl) unavailable() error {
	return &apperrors.CustomError{Err: apperrors.ErrGenerationUnavailable, Message: apperrors.MsgGenAIUnavailable}
}

func (s *roadmapServiceImpl) Generate(ctx context.Context, p appauth.Principal) (*models.Roadmap, error) {
	profile, err := ownProfile(ctx, s.profileRepo, p)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildRoadmapPrompt(profile)
	if err != nil {
		return nil, err
	}

	if !s.cfg.Available || s.client == nil {
		return nil, s.unavailable()
	}

	text, model, err := s.firstUsable(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Int64("profileID", profile.ID).Msg("Roadmap generation exhausted all candidates")
		return nil, err
	}
	s.logger.Info().Str("model", model).Int64("profileID", profile.ID).Msg("Roadmap generated")

	return s.store(ctx, profile.ID, text)
}

// firstUsable walks the candidates in order and returns the first non-blank text.
// Blank answers are skipped without replacing the last recorded error. The
// returned GenerationError names only the candidates actually called.
func (s *roadmapServiceImpl) firstUsable(ctx context.Context, prompt string) (string, string, error) {
	ctx, span := tracer.Start(ctx, "roadmap.generate",
		trace.WithAttributes(attribute.Int("genai.candidates", len(s.cfg.Candidates))))
	defer span.End()

	var lastErr error
	tried := make([]string, 0, len(s.cfg.Candidates))
	for _, model := range s.cfg.Candidates {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		tried = append(tried, model)
		text, err := s.attempt(ctx, model, prompt)
		if err != nil {
			lastErr = err
			s.logger.Warn().Err(err).Str("model", model).Msg("Roadmap candidate failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			s.logger.Warn().Str("model", model).Msg("Roadmap candidate returned empty text")
			continue
		}

		span.SetAttributes(attribute.String("genai.model", model))
		return text, model, nil
	}

	err := &apperrors.GenerationError{Tried: tried, LastErr: lastErr}
	span.SetStatus(codes.Error, err.Error())
	return "", "", err
}

func (s *roadmapServiceImpl) attempt(ctx context.Context, model, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "roadmap.candidate", trace.WithAttributes(attribute.String("genai.model", model)))
	defer span.End()

	if s.cfg.CandidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CandidateTimeout)
		defer cancel()
	}

	text, err := s.client.GenerateText(ctx, model, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

func (s *roadmapServiceImpl) ListModels(ctx context.Context) ([]string, error) {
	if !s.cfg.Available || s.client == nil {
		return nil, s.unavailable()
	}
	names, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing models: %w", err)
	}
	return names, nil
}

type roadmapPromptData struct {
	Name       string
	CGPA       string
	CareerGoal string
	Skills     string
}

// BuildRoadmapPrompt renders the generation prompt for a profile with its skill
// assignments loaded.
func BuildRoadmapPrompt(profile *models.StudentProfile) (string, error) {
	goal := profile.CareerGoal
	if strings.TrimSpace(goal) == "" {
		goal = noGoalText
	}

	var b strings.Builder
	err := roadmapPrompt.Execute(&b, roadmapPromptData{
		Name:       profile.FullName,
		CGPA:       formatCGPA(profile.CGPA),
		CareerGoal: goal,
		Skills:     summarizeSkills(profile.SkillAssignments),
	})
	if err != nil {
		return "", fmt.Errorf("error rendering roadmap prompt: %w", err)
	}
	return b.String(), nil
}

// summarizeSkills renders "name: level/5" entries in assignment order
func summarizeSkills(sets []*models.StudentSkillSet) string {
	if len(sets) == 0 {
		return noSkillsText
	}
	parts := make([]string, 0, len(sets))
	for _, set := range sets {
		name := ""
		if set.Skill != nil {
			name = set.Skill.SkillName
		}
		parts = append(parts, fmt.Sprintf("%s: %d/5", name, set.SkillLevel))
	}
	return strings.Join(parts, skillSeparator)
}

// formatCGPA prints the shortest representation, always with a decimal point
// (8 => "8.0", 8.25 => "8.25").
func formatCGPA(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
