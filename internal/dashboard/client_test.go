package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/acroconnect/internal/app/models/dto"
)

// fakeAPI mimics the REST API closely enough for the client and the handlers.
// Access tokens listed in expired answer 401 until refreshed.
type fakeAPI struct {
	mu        sync.Mutex
	expired   map[string]bool
	refreshes int
	deleted   []string
	created   []dto.CreateJobPostingRequest
	lastReqID string
	isTPO     bool
}

// with runs fn while holding the fake's lock
func (a *fakeAPI) with(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
}

func newFakeAPI(t *testing.T, isTPO bool) (*fakeAPI, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &fakeAPI{expired: map[string]bool{}, isTPO: isTPO}
	r := gin.New()

	fail := func(c *gin.Context, status int, code dto.ErrorCode, msg, field string) {
		detail := dto.NewErrorDetail(code, msg)
		detail.Field = field
		c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
	}
	authed := func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		api.mu.Lock()
		api.lastReqID = c.GetHeader("X-Request-Id")
		stale := api.expired[token]
		api.mu.Unlock()
		if token == "" || stale {
			fail(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token is invalid or expired", "")
			return
		}
		c.Next()
	}

	r.POST("/api/token/", func(c *gin.Context) {
		var req dto.TokenObtainRequest
		_ = c.ShouldBindJSON(&req)
		if req.Password != "secret" {
			fail(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "No active account found with the given credentials", "")
			return
		}
		c.JSON(http.StatusOK, dto.NewAPIResponse(dto.TokenPairResponse{Access: "access-1", Refresh: "refresh-1"}))
	})
	r.POST("/api/token/refresh/", func(c *gin.Context) {
		var req dto.TokenRefreshRequest
		_ = c.ShouldBindJSON(&req)
		api.mu.Lock()
		api.refreshes++
		api.mu.Unlock()
		if req.Refresh != "refresh-1" {
			fail(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token is blacklisted", "")
			return
		}
		c.JSON(http.StatusOK, dto.NewAPIResponse(dto.TokenPairResponse{Access: "access-2", Refresh: "refresh-2"}))
	})
	r.POST("/api/v1/users/", func(c *gin.Context) {
		var req dto.CreateUserRequest
		_ = c.ShouldBindJSON(&req)
		if req.Username == "taken" {
			fail(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "A user with that username already exists.", "username")
			return
		}
		c.JSON(http.StatusCreated, dto.NewAPIResponse(dto.UserResponse{ID: 5, Username: req.Username, Email: req.Email}))
	})

	v1 := r.Group("/api/v1", authed)
	v1.GET("/users/me/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(dto.UserResponse{ID: 10, Username: "asha", Email: "asha@example.com", IsTPO: api.isTPO}))
	})
	v1.GET("/student-profiles/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse([]*dto.StudentProfileResponse{
			{ID: 1, FullName: "Asha Rao", User: &dto.UserResponse{ID: 10, Email: "asha@example.com"},
				SkillAssignments: []*dto.StudentSkillSetResponse{assignment("Python", 4)}},
		}))
	})
	v1.DELETE("/student-profiles/:id/", func(c *gin.Context) {
		api.mu.Lock()
		api.deleted = append(api.deleted, "profile:"+c.Param("id"))
		api.mu.Unlock()
		c.Status(http.StatusNoContent)
	})
	v1.GET("/job-postings/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse([]*dto.JobPostingResponse{
			{ID: 1, Title: "Backend Intern", TPOUser: &dto.UserResponse{ID: 10}, PostedOn: time.Date(2025, 4, 23, 0, 0, 0, 0, time.UTC)},
			{ID: 2, Title: "Data Analyst", TPOUser: &dto.UserResponse{ID: 99}},
		}))
	})
	v1.POST("/job-postings/", func(c *gin.Context) {
		var req dto.CreateJobPostingRequest
		_ = c.ShouldBindJSON(&req)
		api.mu.Lock()
		api.created = append(api.created, req)
		api.mu.Unlock()
		c.JSON(http.StatusCreated, dto.NewAPIResponse(dto.JobPostingResponse{ID: 3, Title: req.Title}))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func TestClientObtainToken(t *testing.T) {
	_, srv := newFakeAPI(t, false)
	client := NewClient(srv.URL+"/", 5*time.Second)

	pair, err := client.ObtainToken(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("ObtainToken: %v", err)
	}
	if pair.Access != "access-1" || pair.Refresh != "refresh-1" {
		t.Fatalf("unexpected pair %+v", pair)
	}

	_, err = client.ObtainToken(context.Background(), "asha", "wrong")
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if !strings.Contains(err.Error(), "No active account") {
		t.Fatalf("expected the API message, got %q", err.Error())
	}
}

func TestClientDecodesFieldErrors(t *testing.T) {
	_, srv := newFakeAPI(t, false)
	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Register(context.Background(), dto.CreateUserRequest{Username: "taken", Email: "t@example.com", Password: "password1"})
	apiErr, found := err.(*APIError)
	if !found {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Field != "username" || apiErr.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if got := apiErr.Error(); got != "username: A user with that username already exists." {
		t.Fatalf("Error() = %q", got)
	}
}

func TestClientForwardsRequestIDAndHandlesNoContent(t *testing.T) {
	api, srv := newFakeAPI(t, true)
	client := NewClient(srv.URL, 5*time.Second)

	ctx := withRequestID(context.Background(), "req-123")
	if err := client.DeleteProfile(ctx, "access-1", 9); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	api.with(func() {
		if api.lastReqID != "req-123" {
			t.Fatalf("X-Request-Id = %q, want req-123", api.lastReqID)
		}
		if len(api.deleted) != 1 || api.deleted[0] != "profile:9" {
			t.Fatalf("unexpected deletes %v", api.deleted)
		}
	})

	profiles, err := client.ListProfiles(ctx, "access-1")
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].SkillAssignments[0].Skill.SkillName != "Python" {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
}
