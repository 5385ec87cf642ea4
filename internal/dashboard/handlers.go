package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/middleware"
)

const (
	sessionCookie = "acroconnect_session"
	sessionKey    = "dashboard_session"
)

// Options configures the dashboard handlers
type Options struct {
	CookieSecure  bool
	SessionMaxAge int // seconds
}

// Handler serves the dashboard pages on top of the REST API
type Handler struct {
	client   *Client
	sessions *SessionStore
	pages    pageSet
	opts     Options
	logger   zerolog.Logger
}

// NewHandler parses the embedded templates and returns a ready Handler
func NewHandler(client *Client, sessions *SessionStore, opts Options, lgr zerolog.Logger) (*Handler, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		client:   client,
		sessions: sessions,
		pages:    pages,
		opts:     opts,
		logger:   lgr,
	}, nil
}

// Routes mounts every dashboard page. Role checks only steer navigation; the
// API rejects anything the caller may not do.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	student := r.Group("", h.requireSession(), h.requireRole(false))
	{
		student.GET("/profile", h.profilePage)
		student.POST("/profile", h.updateProfile)
		student.POST("/profile/skills", h.addSkill)
		student.POST("/profile/skills/:id/delete", h.removeSkill)
		student.GET("/roadmaps", h.roadmapsPage)
		student.POST("/roadmaps/generate", h.generateRoadmap)
		student.GET("/jobs", h.jobBoard)
	}

	tpo := r.Group("", h.requireSession(), h.requireRole(true))
	{
		tpo.GET("/dashboard", h.tpoDashboard)
		tpo.POST("/dashboard/profiles/:id/delete", h.deleteProfile)
		tpo.GET("/job-management", h.jobManagement)
		tpo.POST("/job-management", h.postJob)
		tpo.POST("/job-management/:id/delete", h.deleteJob)
	}
}

// --- session plumbing ---

func (h *Handler) loadSession(c *gin.Context) *Session {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		return nil
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			h.logger.Error().Err(err).Msg("Failed to load dashboard session")
		}
		h.clearCookie(c)
		return nil
	}
	return sess
}

func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := h.loadSession(c)
		if sess == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (h *Handler) requireRole(tpo bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).IsTPO != tpo {
			c.Redirect(http.StatusSeeOther, homeFor(currentSession(c)))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *Session {
	value, _ := c.Get(sessionKey)
	sess, _ := value.(*Session)
	return sess
}

func homeFor(sess *Session) string {
	switch {
	case sess == nil:
		return "/login"
	case sess.IsTPO:
		return "/dashboard"
	default:
		return "/profile"
	}
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, value, maxAge, "/", "", h.opts.CookieSecure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}

func apiContext(c *gin.Context) context.Context {
	return withRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

// call runs fn with the session's access token, rotating the token pair once
// when the API answers 401.
func (h *Handler) call(c *gin.Context, fn func(ctx context.Context, token string) error) error {
	sess := currentSession(c)
	ctx := apiContext(c)

	err := fn(ctx, sess.AccessToken)
	if !IsUnauthorized(err) {
		return err
	}

	pair, refreshErr := h.client.RefreshToken(ctx, sess.RefreshToken)
	if refreshErr != nil {
		h.logger.Debug().Err(refreshErr).Int64("userID", sess.UserID).Msg("Token refresh failed")
		return err
	}
	if err := h.sessions.UpdateTokens(ctx, sess.ID, pair.Access, pair.Refresh); err != nil {
		return err
	}
	sess.AccessToken, sess.RefreshToken = pair.Access, pair.Refresh

	return fn(ctx, sess.AccessToken)
}

// expire ends the session after the API rejected its tokens for good
func (h *Handler) expire(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
			h.logger.Error().Err(err).Msg("Failed to delete dashboard session")
		}
	}
	h.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// redirectWith finishes a form post: flash the outcome and send the browser back
// to target so the page re-fetches.
func (h *Handler) redirectWith(c *gin.Context, target, message string, err error) {
	if IsUnauthorized(err) {
		h.expire(c)
		return
	}
	sess := currentSession(c)
	if err != nil {
		message = message + ": " + err.Error()
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status >= 500 {
			h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Dashboard action failed")
		}
	}
	if ferr := h.sessions.SetFlash(c.Request.Context(), sess.ID, message, err != nil); ferr != nil {
		h.logger.Warn().Err(ferr).Msg("Failed to store flash message")
	}
	c.Redirect(http.StatusSeeOther, target)
}

func pathInt(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// --- public pages ---

func (h *Handler) home(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, homeFor(h.loadSession(c)))
}

func (h *Handler) loginPage(c *gin.Context) {
	if sess := h.loadSession(c); sess != nil {
		c.Redirect(http.StatusSeeOther, homeFor(sess))
		return
	}
	data := gin.H{}
	if c.Query("registered") != "" {
		data["Notice"] = "Registration successful. Please log in."
	}
	h.render(c, http.StatusOK, "login", data)
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		h.render(c, http.StatusBadRequest, "login", gin.H{"Error": "Username and password are required.", "Username": form.Username})
		return
	}

	ctx := apiContext(c)
	pair, err := h.client.ObtainToken(ctx, form.Username, form.Password)
	if err != nil {
		h.render(c, statusFor(err), "login", gin.H{"Error": "Login failed: " + err.Error(), "Username": form.Username})
		return
	}

	me, err := h.client.Me(ctx, pair.Access)
	if err != nil {
		h.render(c, statusFor(err), "login", gin.H{"Error": "Could not load your account: " + err.Error(), "Username": form.Username})
		return
	}

	sess, err := h.sessions.Create(ctx, Session{
		UserID:       me.ID,
		Username:     me.Username,
		Email:        me.Email,
		IsTPO:        me.IsTPO,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create dashboard session")
		h.render(c, http.StatusInternalServerError, "login", gin.H{"Error": "Could not start a session, please retry."})
		return
	}

	h.logger.Info().Int64("userID", me.ID).Bool("isTPO", me.IsTPO).Msg("Dashboard login")
	h.setCookie(c, sess.ID, h.opts.SessionMaxAge)
	c.Redirect(http.StatusSeeOther, homeFor(sess))
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register", gin.H{})
}

type registerForm struct {
	FullName  string `form:"name"`
	Username  string `form:"username"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Password  string `form:"password"`
	Confirm   string `form:"confirm_password"`
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	_ = c.ShouldBind(&form)

	var problems []string
	if strings.TrimSpace(form.FullName) == "" || strings.TrimSpace(form.Username) == "" ||
		strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Phone) == "" || form.Password == "" {
		problems = append(problems, "All fields are required.")
	}
	if form.Password != form.Confirm {
		problems = append(problems, "Passwords do not match.")
	}
	if len(problems) > 0 {
		h.render(c, http.StatusBadRequest, "register", gin.H{"Error": strings.Join(problems, " "), "Form": form})
		return
	}

	_, err := h.client.Register(apiContext(c), dto.CreateUserRequest{
		Username:  strings.TrimSpace(form.Username),
		Email:     strings.TrimSpace(form.Email),
		Password:  form.Password,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Name:      strings.TrimSpace(form.FullName),
		Phone:     strings.TrimSpace(form.Phone),
	})
	if err != nil {
		h.render(c, statusFor(err), "register", gin.H{"Error": "Registration failed: " + err.Error(), "Form": form})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *Handler) logout(c *gin.Context) {
	if sess := h.loadSession(c); sess != nil {
		if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
			h.logger.Error().Err(err).Msg("Failed to delete dashboard session")
		}
	}
	h.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// --- student pages ---

func (h *Handler) profilePage(c *gin.Context) {
	var (
		profile *dto.StudentProfileResponse
		skills  []*dto.SkillResponse
	)
	err := h.call(c, func(ctx context.Context, token string) error {
		var err error
		if profile, err = h.client.MyProfile(ctx, token); err != nil {
			return err
		}
		skills, err = h.client.ListSkills(ctx, token)
		return err
	})
	if h.pageFailed(c, "profile", err) {
		return
	}

	assigned := make(map[int64]bool, len(profile.SkillAssignments))
	for _, a := range profile.SkillAssignments {
		if a.Skill != nil {
			assigned[a.Skill.ID] = true
		}
	}
	available := make([]*dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		if !assigned[s.ID] {
			available = append(available, s)
		}
	}

	h.render(c, http.StatusOK, "profile", gin.H{"Profile": profile, "Available": available})
}

type profileForm struct {
	FullName   string `form:"full_name"`
	Phone      string `form:"phone"`
	CGPA       string `form:"cgpa"`
	ResumeURL  string `form:"resume_url"`
	CareerGoal string `form:"career_goal"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var form profileForm
	_ = c.ShouldBind(&form)

	req := dto.UpdateStudentProfileRequest{
		Phone:      &form.Phone,
		ResumeURL:  &form.ResumeURL,
		CareerGoal: &form.CareerGoal,
	}
	if name := strings.TrimSpace(form.FullName); name != "" {
		req.FullName = &name
	}
	if raw := strings.TrimSpace(form.CGPA); raw != "" {
		cgpa, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.redirectWith(c, "/profile", "Failed to update profile", errors.New("CGPA must be a number"))
			return
		}
		req.CGPA = &cgpa
	}

	err := h.call(c, func(ctx context.Context, token string) error {
		_, err := h.client.UpdateMyProfile(ctx, token, req)
		return err
	})
	if err != nil {
		h.redirectWith(c, "/profile", "Failed to update profile", err)
		return
	}
	h.redirectWith(c, "/profile", "Profile updated successfully!", nil)
}

type addSkillForm struct {
	SkillID int64 `form:"skill_id"`
	Level   int   `form:"skill_level"`
}

func (h *Handler) addSkill(c *gin.Context) {
	var form addSkillForm
	if err := c.ShouldBind(&form); err != nil || form.SkillID <= 0 {
		h.redirectWith(c, "/profile", "Failed to add skill", errors.New("pick a skill from the list"))
		return
	}
	if form.Level == 0 {
		form.Level = 3
	}

	err := h.call(c, func(ctx context.Context, token string) error {
		_, err := h.client.AddSkill(ctx, token, form.SkillID, form.Level)
		return err
	})
	if err != nil {
		h.redirectWith(c, "/profile", "Failed to add skill", err)
		return
	}
	h.redirectWith(c, "/profile", "Skill added successfully!", nil)
}

func (h *Handler) removeSkill(c *gin.Context) {
	id, valid := pathInt(c, "id")
	if !valid {
		h.redirectWith(c, "/profile", "Failed to remove skill", errors.New("invalid skill assignment"))
		return
	}
	err := h.call(c, func(ctx context.Context, token string) error {
		return h.client.RemoveSkill(ctx, token, id)
	})
	if err != nil {
		h.redirectWith(c, "/profile", "Failed to remove skill", err)
		return
	}
	h.redirectWith(c, "/profile", "Skill removed.", nil)
}

func (h *Handler) roadmapsPage(c *gin.Context) {
	var roadmaps []*dto.RoadmapResponse
	err := h.call(c, func(ctx context.Context, token string) error {
		var err error
		roadmaps, err = h.client.ListRoadmaps(ctx, token)
		return err
	})
	if h.pageFailed(c, "roadmaps", err) {
		return
	}
	h.render(c, http.StatusOK, "roadmaps", gin.H{"Roadmaps": roadmaps})
}

func (h *Handler) generateRoadmap(c *gin.Context) {
	err := h.call(c, func(ctx context.Context, token string) error {
		_, err := h.client.GenerateRoadmap(ctx, token)
		return err
	})
	if err != nil {
		h.redirectWith(c, "/roadmaps", "Failed to generate roadmap", err)
		return
	}
	h.redirectWith(c, "/roadmaps", "Roadmap generated successfully!", nil)
}

func (h *Handler) jobBoard(c *gin.Context) {
	var jobs []*dto.JobPostingResponse
	err := h.call(c, func(ctx context.Context, token string) error {
		var err error
		jobs, err = h.client.ListJobPostings(ctx, token)
		return err
	})
	if h.pageFailed(c, "jobs", err) {
		return
	}
	h.render(c, http.StatusOK, "jobs", gin.H{"Jobs": jobs})
}

// --- TPO pages ---

func (h *Handler) tpoDashboard(c *gin.Context) {
	var profiles []*dto.StudentProfileResponse
	err := h.call(c, func(ctx context.Context, token string) error {
		var err error
		profiles, err = h.client.ListProfiles(ctx, token)
		return err
	})
	if h.pageFailed(c, "dashboard", err) {
		return
	}
	h.render(c, http.StatusOK, "dashboard", gin.H{"Analytics": Summarize(profiles)})
}

func (h *Handler) deleteProfile(c *gin.Context) {
	id, valid := pathInt(c, "id")
	if !valid {
		h.redirectWith(c, "/dashboard", "Delete failed", errors.New("invalid profile id"))
		return
	}
	err := h.call(c, func(ctx context.Context, token string) error {
		return h.client.DeleteProfile(ctx, token, id)
	})
	if err != nil {
		h.redirectWith(c, "/dashboard", "Delete failed", err)
		return
	}
	h.redirectWith(c, "/dashboard", "Student profile "+strconv.FormatInt(id, 10)+" deleted successfully!", nil)
}

func (h *Handler) jobManagement(c *gin.Context) {
	var jobs []*dto.JobPostingResponse
	err := h.call(c, func(ctx context.Context, token string) error {
		var err error
		jobs, err = h.client.ListJobPostings(ctx, token)
		return err
	})
	if h.pageFailed(c, "job_management", err) {
		return
	}

	userID := currentSession(c).UserID
	own := make([]*dto.JobPostingResponse, 0, len(jobs))
	for _, j := range jobs {
		if j.TPOUser != nil && j.TPOUser.ID == userID {
			own = append(own, j)
		}
	}
	h.render(c, http.StatusOK, "job_management", gin.H{"Jobs": own})
}

type jobForm struct {
	Title       string `form:"title"`
	Company     string `form:"company"`
	Description string `form:"description"`
}

func (h *Handler) postJob(c *gin.Context) {
	var form jobForm
	_ = c.ShouldBind(&form)
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	if form.Title == "" || form.Description == "" {
		h.redirectWith(c, "/job-management", "Failed to post job", errors.New("title and description are required"))
		return
	}

	err := h.call(c, func(ctx context.Context, token string) error {
		_, err := h.client.CreateJobPosting(ctx, token, dto.CreateJobPostingRequest{
			Title:       form.Title,
			Company:     strings.TrimSpace(form.Company),
			Description: form.Description,
		})
		return err
	})
	if err != nil {
		h.redirectWith(c, "/job-management", "Failed to post job", err)
		return
	}
	h.redirectWith(c, "/job-management", "Job posted successfully!", nil)
}

func (h *Handler) deleteJob(c *gin.Context) {
	id, valid := pathInt(c, "id")
	if !valid {
		h.redirectWith(c, "/job-management", "Failed to delete job", errors.New("invalid job posting id"))
		return
	}
	err := h.call(c, func(ctx context.Context, token string) error {
		return h.client.DeleteJobPosting(ctx, token, id)
	})
	if err != nil {
		h.redirectWith(c, "/job-management", "Failed to delete job", err)
		return
	}
	h.redirectWith(c, "/job-management", "Job deleted successfully!", nil)
}

// pageFailed renders page with the error and reports true when err is set. A
// rejected session goes back to the login page instead.
func (h *Handler) pageFailed(c *gin.Context, page string, err error) bool {
	if err == nil {
		return false
	}
	if IsUnauthorized(err) {
		h.expire(c)
		return true
	}
	h.logger.Warn().Err(err).Str("page", page).Msg("Dashboard page load failed")
	h.render(c, statusFor(err), page, gin.H{"Error": err.Error()})
	return true
}

func statusFor(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
