package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/acroconnect/internal/app/models"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// In-memory repositories mirroring the constraints of the SQL schema.

type fakeUserRepo struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	profiles *fakeProfileRepo
}

func newFakeUserRepo(profiles *fakeProfileRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, profiles: profiles}
}

func (r *fakeUserRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Username == user.Username {
			r.mu.Unlock()
			return apperrors.NewValidationError("username", "A user with that username already exists.")
		}
		if u.Email == user.Email {
			r.mu.Unlock()
			return apperrors.NewValidationError("email", "user with this email already exists.")
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.DateJoined = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	r.mu.Unlock()

	if profile != nil {
		profile.UserID = user.ID
		r.profiles.insertIfAbsent(profile)
	}
	return nil
}

func (r *fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[int64]*models.StudentProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[int64]*models.StudentProfile{}}
}

func (r *fakeProfileRepo) insertIfAbsent(p *models.StudentProfile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.UserID == p.UserID {
			return false
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	c := *p
	r.profiles[p.ID] = &c
	return true
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *models.StudentProfile) error {
	if !r.insertIfAbsent(p) {
		return apperrors.NewValidationError("user_id", "student profile with this user already exists.")
	}
	return nil
}

func (r *fakeProfileRepo) GetOrCreate(ctx context.Context, defaults *models.StudentProfile) (*models.StudentProfile, bool, error) {
	created := r.insertIfAbsent(defaults)
	p, err := r.GetByUserID(ctx, defaults.UserID)
	return p, created, err
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (r *fakeProfileRepo) List(ctx context.Context, userID *int64) ([]*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.StudentProfile, 0)
	for _, p := range r.profiles {
		if userID == nil || p.UserID == *userID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *models.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	c := *p
	r.profiles[p.ID] = &c
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeProfileRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

type fakeToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*fakeToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*fakeToken{}}
}

func (r *fakeTokenRepo) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &fakeToken{userID: userID, expiry: expiryDate}
	return nil
}

func (r *fakeTokenRepo) GetActiveTokenOwner(ctx context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	switch {
	case !ok:
		return 0, apperrors.ErrTokenNotFound
	case t.revoked:
		return 0, apperrors.ErrTokenRevoked
	case t.expiry.Before(time.Now()):
		return 0, apperrors.ErrTokenExpired
	}
	return t.userID, nil
}

func (r *fakeTokenRepo) RevokeToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.revoked {
		return apperrors.ErrTokenRevoked
	}
	t.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeRoadmapRepo struct {
	mu       sync.Mutex
	nextID   int64
	roadmaps []*models.Roadmap
	profiles *fakeProfileRepo
}

func (r *fakeRoadmapRepo) Create(ctx context.Context, rm *models.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rm.ID = r.nextID
	rm.GeneratedOn = time.Now()
	c := *rm
	r.roadmaps = append(r.roadmaps, &c)
	return nil
}

func (r *fakeRoadmapRepo) withProfile(rm *models.Roadmap) *models.Roadmap {
	c := *rm
	if p, err := r.profiles.GetByID(context.Background(), rm.ProfileID); err == nil {
		c.Profile = p
	}
	return &c
}

func (r *fakeRoadmapRepo) GetByID(ctx context.Context, id int64) (*models.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rm := range r.roadmaps {
		if rm.ID == id {
			return r.withProfile(rm), nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeRoadmapRepo) List(ctx context.Context, profileID *int64) ([]*models.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Roadmap, 0)
	for i := len(r.roadmaps) - 1; i >= 0; i-- {
		rm := r.roadmaps[i]
		if profileID == nil || rm.ProfileID == *profileID {
			out = append(out, r.withProfile(rm))
		}
	}
	return out, nil
}

func (r *fakeRoadmapRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rm := range r.roadmaps {
		if rm.ID == id {
			r.roadmaps = append(r.roadmaps[:i], r.roadmaps[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (r *fakeRoadmapRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roadmaps)
}

// scriptedOutcome is what the fake generative client answers for one model
type scriptedOutcome struct {
	text  string
	err   error
	block bool
}

type fakeGenAI struct {
	mu       sync.Mutex
	outcomes map[string]scriptedOutcome
	calls    []string
	models   []string
}

func (f *fakeGenAI) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	out, ok := f.outcomes[model]
	f.mu.Unlock()

	if !ok {
		return "", context.DeadlineExceeded
	}
	if out.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return out.text, out.err
}

func (f *fakeGenAI) ListModels(ctx context.Context) ([]string, error) {
	return f.models, nil
}

func (f *fakeGenAI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
