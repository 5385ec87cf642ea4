package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldDetails(t *testing.T, env errorEnvelope) []fieldDetail {
	t.Helper()
	var details []fieldDetail
	if len(env.Error.Details) == 0 {
		return details
	}
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("decode field details %s: %v", env.Error.Details, err)
	}
	return details
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if env.Success {
		t.Fatalf("error envelope has success=true: %s", rec.Body.String())
	}
	return env
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		status   int
		code     dto.ErrorCode
		contains string
		details  string
	}{
		{"field validation", apperrors.NewValidationError("username", "A user with that username already exists."), 400, dto.ErrorCodeValidationFailed, "already exists", ""},
		{"bad request", apperrors.NewBadRequestError("Request body is empty"), 400, dto.ErrorCodeBadRequest, "empty", ""},
		{"bad credentials", &apperrors.CustomError{Err: apperrors.ErrInvalidCredentials, Message: apperrors.MsgNoActiveAccount}, 401, dto.ErrorCodeInvalidCredentials, "No active account", ""},
		{"unauthenticated", apperrors.ErrUnauthenticated, 401, dto.ErrorCodeUnauthorized, "not provided", ""},
		{"expired", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken, "expired", ""},
		{"forbidden", apperrors.NewForbiddenError("Only TPO accounts can perform this action."), 403, dto.ErrorCodeForbidden, "Only TPO", ""},
		{"missing profile", &apperrors.CustomError{Err: apperrors.ErrProfileNotFound, Message: apperrors.MsgProfileNotFound}, 404, dto.ErrorCodeProfileNotFound, apperrors.MsgProfileNotFound, ""},
		{"not found", apperrors.ErrResourceNotFound, 404, dto.ErrorCodeResourceNotFound, "Not found", ""},
		{"generation exhausted", &apperrors.GenerationError{Tried: []string{"a", "b"}, LastErr: errors.New("quota")}, 502, dto.ErrorCodeExternalServiceError, "Tried models: a, b, last error: quota", `["a","b"]`},
		{"generation unavailable", &apperrors.CustomError{Err: apperrors.ErrGenerationUnavailable, Message: apperrors.MsgGenAIUnavailable}, 503, dto.ErrorCodeGenerationUnavailable, "not available", ""},
		{"unexpected", errors.New("connection reset by peer"), 500, dto.ErrorCodeInternalServer, "connection reset by peer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { HandleAPIError(c, tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			if rec.Code != tt.status {
				t.Fatalf("status: got=%d want=%d", rec.Code, tt.status)
			}
			env := decodeError(t, rec)
			if env.Error.Code != string(tt.code) {
				t.Fatalf("code: got=%q want=%q", env.Error.Code, tt.code)
			}
			if !strings.Contains(env.Error.Message, tt.contains) {
				t.Fatalf("message %q does not contain %q", env.Error.Message, tt.contains)
			}
			if tt.details != "" && string(env.Error.Details) != tt.details {
				t.Fatalf("details: got=%s want=%s", env.Error.Details, tt.details)
			}
		})
	}
}

func TestHandleAPIErrorListsEveryField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fields := apperrors.FieldErrors{}
	fields.Add("resume_url", "Enter a valid URL.")
	fields.Add("cgpa", "cgpa must be less than or equal to 10")

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { HandleAPIError(c, fields.Err()) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	details := fieldDetails(t, decodeError(t, rec))
	if len(details) != 2 {
		t.Fatalf("details: got=%d want=2", len(details))
	}
	if details[0].Field != "cgpa" || details[1].Field != "resume_url" {
		t.Fatalf("details not sorted by field: %+v", details)
	}
}

type bindProbe struct {
	SkillID    int64  `json:"skill_id" binding:"required,min=1"`
	SkillLevel int    `json:"skill_level" binding:"required,min=1,max=5"`
	Note       string `json:"note" binding:"max=3"`
}

func TestBindJSONReportsJSONFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterJSONTagNames()

	tests := []struct {
		name   string
		body   string
		status int
		fields []string
	}{
		{"valid", `{"skill_id":1,"skill_level":3}`, http.StatusOK, nil},
		{"level out of range", `{"skill_id":1,"skill_level":9}`, http.StatusBadRequest, []string{"skill_level"}},
		{"missing both", `{"note":"toolong"}`, http.StatusBadRequest, []string{"note", "skill_id", "skill_level"}},
		{"wrong type", `{"skill_id":"x","skill_level":3}`, http.StatusBadRequest, []string{"skill_id"}},
		{"empty body", ``, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/x", func(c *gin.Context) {
				var req bindProbe
				if !BindJSON(c, &req) {
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.fields == nil {
				return
			}
			env := decodeError(t, rec)
			details := fieldDetails(t, env)
			got := make([]string, 0, len(details))
			for _, d := range details {
				got = append(got, d.Field)
			}
			if len(got) == 0 && env.Error.Field != "" {
				got = append(got, env.Error.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Fatalf("fields: got=%v want=%v", got, tt.fields)
			}
		})
	}
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "acroconnect-test",
	})
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWT()
	pair, err := jwtService.GenerateTokenPair(&models.User{ID: 7, Username: "tpo", Email: "tpo@example.com", IsTPO: true})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"refresh token as access", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
				p, ok := MustPrincipal(c)
				if !ok {
					return
				}
				if p.UserID != 7 || !p.IsTPO || p.Username != "tpo" {
					t.Errorf("unexpected principal: %+v", p)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWT()

	r := gin.New()
	r.POST("/users/", NewAuthMiddleware(jwtService).OptionalAuth(), func(c *gin.Context) {
		if _, ok := GetPrincipal(c); ok {
			c.Status(http.StatusAccepted)
			return
		}
		c.Status(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("anonymous: got=%d want=%d", rec.Code, http.StatusCreated)
	}

	req := httptest.NewRequest(http.MethodPost, "/users/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCORSAllowsDashboardOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origin := "http://localhost:8501"

	r := gin.New()
	r.Use(CORS([]string{origin}))
	r.POST("/api/token/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/token/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
	}
}

func TestRequestIDPropagatesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-123" || rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() == "" || rec.Body.String() != rec.Header().Get("X-Request-Id") {
		t.Fatalf("fresh request id missing: body=%q", rec.Body.String())
	}
}
