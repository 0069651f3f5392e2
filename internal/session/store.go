// Package session persists browser sessions in SQLite. Each session row
// holds the backend bearer token and the user's theme preference, so state
// survives restarts without keeping anything in the browser beyond a cookie.
package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a session ID has no row, typically because it
// expired or the user logged out elsewhere.
var ErrNotFound = errors.New("session not found")

// Themes accepted by SetTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is a SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create inserts a new anonymous session and returns its ID.
func (s *Store) Create(ctx context.Context) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// Token returns the bearer token stored for a session; "" when logged out.
func (s *Store) Token(ctx context.Context, id string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM sessions WHERE id = ?`, id).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return token, nil
}

// SetToken stores the bearer token for a session after login or signup.
func (s *Store) SetToken(ctx context.Context, id, token string) error {
	return s.update(ctx, id, `UPDATE sessions SET token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, token)
}

// ClearToken logs a session out but keeps its preferences.
func (s *Store) ClearToken(ctx context.Context, id string) error {
	return s.update(ctx, id, `UPDATE sessions SET token = '', updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
}

// Theme returns the stored theme preference for a session.
func (s *Store) Theme(ctx context.Context, id string) (string, error) {
	var theme string
	err := s.db.QueryRowContext(ctx, `SELECT theme FROM sessions WHERE id = ?`, id).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select theme: %w", err)
	}
	return theme, nil
}

// SetTheme stores the theme preference for a session.
func (s *Store) SetTheme(ctx context.Context, id, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.update(ctx, id, `UPDATE sessions SET theme = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, theme)
}

// Delete removes a session row entirely.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeStale removes sessions not touched within maxAge and returns the
// number removed.
func (s *Store) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge stale sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge stale sessions: %w", err)
	}
	return n, nil
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Binding adapts one session row to the api client's TokenSource.
type Binding struct {
	Store *Store
	ID    string
}

// Token implements api.TokenSource. Lookup failures read as logged out.
func (b Binding) Token() string {
	token, err := b.Store.Token(context.Background(), b.ID)
	if err != nil {
		return ""
	}
	return token
}
