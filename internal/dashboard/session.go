package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned for unknown and expired session ids
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind a dashboard cookie
type Session struct {
	ID           string
	UserID       int64
	Username     string
	Email        string
	IsTPO        bool
	AccessToken  string
	RefreshToken string
	Flash        string
	FlashError   bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// SessionStore keeps dashboard sessions in a local SQLite file
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

const sessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	user_id       INTEGER NOT NULL,
	username      TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	is_tpo        INTEGER NOT NULL DEFAULT 0,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	flash         TEXT NOT NULL DEFAULT '',
	flash_error   INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL,
	expires_at    INTEGER NOT NULL
)`

// OpenSessionStore opens (creating when needed) the database at path
func OpenSessionStore(path string, ttl time.Duration) (*SessionStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	return &SessionStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Create stores sess under a fresh random id and returns it with the id and
// expiry filled in.
func (s *SessionStore) Create(ctx context.Context, sess Session) (*Session, error) {
	now := s.now()
	sess.ID = uuid.NewString()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	sess.Flash = ""
	sess.FlashError = false

	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions
		(id, user_id, username, email, is_tpo, access_token, refresh_token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Username, sess.Email, sess.IsTPO,
		sess.AccessToken, sess.RefreshToken, sess.CreatedAt.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &sess, nil
}

// Get loads a live session. Expired rows are removed and reported as not found.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	var (
		sess               Session
		isTPO, flashError  int
		createdAt, expires int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, user_id, username, email, is_tpo, access_token,
		refresh_token, flash, flash_error, created_at, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.Email, &isTPO, &sess.AccessToken,
			&sess.RefreshToken, &sess.Flash, &flashError, &createdAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess.IsTPO = isTPO != 0
	sess.FlashError = flashError != 0
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.ExpiresAt = time.Unix(expires, 0)

	if !s.now().Before(sess.ExpiresAt) {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// UpdateTokens stores a rotated token pair
func (s *SessionStore) UpdateTokens(ctx context.Context, id, access, refresh string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET access_token = ?, refresh_token = ? WHERE id = ?`,
		access, refresh, id)
	if err != nil {
		return fmt.Errorf("update session tokens: %w", err)
	}
	return requireRow(res)
}

// SetFlash records a one-shot message shown on the next rendered page
func (s *SessionStore) SetFlash(ctx context.Context, id, message string, isError bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET flash = ?, flash_error = ? WHERE id = ?`,
		message, isError, id)
	if err != nil {
		return fmt.Errorf("set flash: %w", err)
	}
	return requireRow(res)
}

// ClearFlash drops the pending message once it has been rendered
func (s *SessionStore) ClearFlash(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET flash = '', flash_error = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear flash: %w", err)
	}
	return nil
}

// Delete removes a session; deleting an unknown id is not an error
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes every expired session and returns how many went
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
