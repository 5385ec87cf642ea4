package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/yigit/acroconnect/internal/app/models/dto"
)

// APIError is a non-2xx answer from the API, decoded from its error envelope
type APIError struct {
	Status  int
	Code    dto.ErrorCode
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" && !strings.HasPrefix(e.Message, e.Field) {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.Status)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

// Client is a typed client for the AcroConnect REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client rooted at baseURL (scheme and host, no /api suffix).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ObtainToken exchanges credentials for a token pair
func (c *Client) ObtainToken(ctx context.Context, username, password string) (*dto.TokenPairResponse, error) {
	var out dto.TokenPairResponse
	err := c.do(ctx, http.MethodPost, "/api/token/", "", dto.TokenObtainRequest{Username: username, Password: password}, &out)
	return &out, err
}

// RefreshToken rotates a refresh token
func (c *Client) RefreshToken(ctx context.Context, refresh string) (*dto.TokenPairResponse, error) {
	var out dto.TokenPairResponse
	err := c.do(ctx, http.MethodPost, "/api/token/refresh/", "", dto.TokenRefreshRequest{Refresh: refresh}, &out)
	return &out, err
}

// Register creates an account; name and phone bootstrap the student profile
func (c *Client) Register(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/users/", "", req, &out)
	return &out, err
}

// Me returns the user behind token
func (c *Client) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/users/me/", token, nil, &out)
	return &out, err
}

func (c *Client) MyProfile(ctx context.Context, token string) (*dto.StudentProfileResponse, error) {
	var out dto.StudentProfileResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/student-profiles/me/", token, nil, &out)
	return &out, err
}

func (c *Client) UpdateMyProfile(ctx context.Context, token string, req dto.UpdateStudentProfileRequest) (*dto.StudentProfileResponse, error) {
	var out dto.StudentProfileResponse
	err := c.do(ctx, http.MethodPatch, "/api/v1/student-profiles/me/", token, req, &out)
	return &out, err
}

func (c *Client) ListProfiles(ctx context.Context, token string) ([]*dto.StudentProfileResponse, error) {
	var out []*dto.StudentProfileResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/student-profiles/", token, nil, &out)
	return out, err
}

func (c *Client) DeleteProfile(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/student-profiles/"+strconv.FormatInt(id, 10)+"/", token, nil, nil)
}

func (c *Client) ListSkills(ctx context.Context, token string) ([]*dto.SkillResponse, error) {
	var out []*dto.SkillResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/skills/", token, nil, &out)
	return out, err
}

// AddSkill assigns a skill to the caller's own profile
func (c *Client) AddSkill(ctx context.Context, token string, skillID int64, level int) (*dto.StudentSkillSetResponse, error) {
	var out dto.StudentSkillSetResponse
	req := dto.CreateStudentSkillSetRequest{SkillID: skillID, SkillLevel: level}
	err := c.do(ctx, http.MethodPost, "/api/v1/student-skill-sets/", token, req, &out)
	return &out, err
}

func (c *Client) RemoveSkill(ctx context.Context, token string, assignmentID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/student-skill-sets/"+strconv.FormatInt(assignmentID, 10)+"/", token, nil, nil)
}

func (c *Client) ListRoadmaps(ctx context.Context, token string) ([]*dto.RoadmapResponse, error) {
	var out []*dto.RoadmapResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/roadmaps/", token, nil, &out)
	return out, err
}

// GenerateRoadmap blocks until the API has walked its candidate models
func (c *Client) GenerateRoadmap(ctx context.Context, token string) (*dto.RoadmapResponse, error) {
	var out dto.RoadmapResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/generate-roadmap/", token, nil, &out)
	return &out, err
}

func (c *Client) ListJobPostings(ctx context.Context, token string) ([]*dto.JobPostingResponse, error) {
	var out []*dto.JobPostingResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/job-postings/", token, nil, &out)
	return out, err
}

func (c *Client) CreateJobPosting(ctx context.Context, token string, req dto.CreateJobPostingRequest) (*dto.JobPostingResponse, error) {
	var out dto.JobPostingResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/job-postings/", token, req, &out)
	return &out, err
}

func (c *Client) DeleteJobPosting(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/job-postings/"+strconv.FormatInt(id, 10)+"/", token, nil, nil)
}

// do sends one request and decodes the envelope's data into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID, ok := ctx.Value(requestIDContextKey{}).(string); ok && reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 300 {
				return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Field = env.Error.Field
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type requestIDContextKey struct{}

// withRequestID makes the client forward the dashboard's request id to the API
func withRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, reqID)
}
