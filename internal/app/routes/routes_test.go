package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/app/controllers"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/middleware"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

// stubRoadmapService answers Generate and ListModels with canned values
type stubRoadmapService struct {
	generated *models.Roadmap
	genErr    error
	models    []string
	modelsErr error
}

func (s *stubRoadmapService) List(context.Context, appauth.Principal) ([]*models.Roadmap, error) {
	return []*models.Roadmap{}, nil
}

func (s *stubRoadmapService) GetByID(context.Context, appauth.Principal, int64) (*models.Roadmap, error) {
	return nil, apperrors.ErrResourceNotFound
}

func (s *stubRoadmapService) Create(context.Context, appauth.Principal, *dto.CreateRoadmapRequest) (*models.Roadmap, error) {
	return nil, errors.New("not used")
}

func (s *stubRoadmapService) Delete(context.Context, appauth.Principal, int64) error {
	return nil
}

func (s *stubRoadmapService) Generate(context.Context, appauth.Principal) (*models.Roadmap, error) {
	return s.generated, s.genErr
}

func (s *stubRoadmapService) ListModels(context.Context) ([]string, error) {
	return s.models, s.modelsErr
}

func newTestRouter(t *testing.T, roadmaps *stubRoadmapService) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "acroconnect-test",
	})
	pair, err := jwtService.GenerateTokenPair(&models.User{ID: 7, Username: "asha", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	router := gin.New()
	SetupRouter(router, Controllers{
		Roadmap: controllers.NewRoadmapController(roadmaps, zerolog.Nop()),
	}, middleware.NewAuthMiddleware(jwtService))
	return router, pair.AccessToken
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	if body.Success || body.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	return body
}

func TestRoutingEnvelopes(t *testing.T) {
	router, token := newTestRouter(t, &stubRoadmapService{})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   dto.ErrorCode
	}{
		{"missing token", http.MethodGet, "/api/v1/skills/", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/roadmaps/", "not-a-jwt", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"roadmaps are immutable", http.MethodPatch, "/api/v1/roadmaps/1/", token, http.StatusMethodNotAllowed, dto.ErrorCodeMethodNotAllowed},
		{"non-numeric id", http.MethodGet, "/api/v1/roadmaps/abc/", token, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nope/", token, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.token)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Error.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}

func TestMethodNotAllowedMessage(t *testing.T) {
	router, token := newTestRouter(t, &stubRoadmapService{})

	body := decodeError(t, serve(router, http.MethodPut, "/api/v1/roadmaps/3/", token))
	if body.Error.Message != `Method "PUT" not allowed.` {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t, &stubRoadmapService{})

	rec := serve(router, http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected ping response %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateRoadmapStatuses(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubRoadmapService
		status  int
		contain string
	}{
		{
			name: "generated",
			stub: &stubRoadmapService{generated: &models.Roadmap{
				ID: 4, ProfileID: 2, RoadmapText: "Week 1: Go basics", GeneratedOn: time.Now(),
			}},
			status:  http.StatusCreated,
			contain: "Week 1: Go basics",
		},
		{
			name: "every candidate failed",
			stub: &stubRoadmapService{genErr: &apperrors.GenerationError{
				Tried:   []string{"gemini-flash-latest", "gemini-pro-latest"},
				LastErr: errors.New("quota exceeded"),
			}},
			status:  http.StatusBadGateway,
			contain: "Tried models: gemini-flash-latest, gemini-pro-latest, last error: quota exceeded",
		},
		{
			name: "generation disabled",
			stub: &stubRoadmapService{genErr: &apperrors.CustomError{
				Err: apperrors.ErrGenerationUnavailable, Message: apperrors.MsgGenAIUnavailable,
			}},
			status:  http.StatusServiceUnavailable,
			contain: "Gemini API is not available",
		},
		{
			name: "caller has no profile",
			stub: &stubRoadmapService{genErr: &apperrors.CustomError{
				Err: apperrors.ErrProfileNotFound, Message: apperrors.MsgProfileNotFound,
			}},
			status:  http.StatusNotFound,
			contain: string(dto.ErrorCodeProfileNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, token := newTestRouter(t, tt.stub)
			rec := serve(router, http.MethodPost, "/api/v1/generate-roadmap/", token)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contain) {
				t.Fatalf("expected body to contain %q, got %s", tt.contain, rec.Body.String())
			}
		})
	}
}

func TestListModels(t *testing.T) {
	router, token := newTestRouter(t, &stubRoadmapService{models: []string{"models/gemini-2.5-flash"}})

	rec := serve(router, http.MethodGet, "/api/v1/genai-models/", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool                    `json:"success"`
		Data    dto.GenAIModelsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.AvailableModels) != 1 || body.Data.AvailableModels[0] != "models/gemini-2.5-flash" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
