package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coin-admin-api/internal/model"
)

// Common errors for session operations.
var (
	ErrSessionNotFound = errors.New("session not found")
)

const sessionColumns = `id, username, username_key, email, sign_in_at, sign_out_at`

// SessionRepository handles login session persistence.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID,
		&s.Username,
		&s.UsernameKey,
		&s.Email,
		&s.SignInAt,
		&s.SignOutAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new open session.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	const query = `
		INSERT INTO sessions (id, username, username_key, email, sign_in_at, sign_out_at)
		VALUES ($1, $2, $3, $4, $5, NULL)
		RETURNING ` + sessionColumns

	session, err := scanSession(r.pool.QueryRow(ctx, query, s.ID, s.Username, s.UsernameKey, s.Email, s.SignInAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// CloseOpen signs out every open session for a username key.
// Returns the number of sessions closed (normally 0 or 1).
func (r *SessionRepository) CloseOpen(ctx context.Context, usernameKey string, at time.Time) (int64, error) {
	const query = `
		UPDATE sessions
		SET sign_out_at = $2
		WHERE username_key = $1 AND sign_out_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, usernameKey, at)
	if err != nil {
		return 0, fmt.Errorf("failed to close open sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

// GetByID retrieves a session by its identifier.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// CloseByID signs out a specific session if it is still open.
// Closing an already-closed session leaves it untouched; the session is
// returned either way. Returns ErrSessionNotFound for unknown ids.
func (r *SessionRepository) CloseByID(ctx context.Context, id string, at time.Time) (*model.Session, error) {
	const query = `
		UPDATE sessions
		SET sign_out_at = COALESCE(sign_out_at, $2)
		WHERE id = $1
		RETURNING ` + sessionColumns

	session, err := scanSession(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	return session, nil
}

// LatestForAll retrieves each username key's most recent session by
// sign-in time. Feeds the roster's online/offline column.
func (r *SessionRepository) LatestForAll(ctx context.Context) (map[string]*model.Session, error) {
	const query = `
		SELECT DISTINCT ON (username_key) ` + sessionColumns + `
		FROM sessions
		ORDER BY username_key, sign_in_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sessions: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]*model.Session)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		latest[session.UsernameKey] = session
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating latest sessions: %w", err)
	}

	return latest, nil
}

// List retrieves sessions newest first, optionally restricted to one
// username key. When latestOnly is set, only each user's most recent
// session is returned.
func (r *SessionRepository) List(ctx context.Context, usernameKey string, latestOnly bool) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE ($1 = '' OR username_key = $1)
		ORDER BY sign_in_at DESC
	`
	if latestOnly {
		query = `
			SELECT DISTINCT ON (username_key) ` + sessionColumns + `
			FROM sessions
			WHERE ($1 = '' OR username_key = $1)
			ORDER BY username_key, sign_in_at DESC
		`
	}

	rows, err := r.pool.Query(ctx, query, usernameKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// DeleteByUsernameKey removes all sessions for an identity key.
// Used by the user purge flow; returns the number of deleted rows.
func (r *SessionRepository) DeleteByUsernameKey(ctx context.Context, usernameKey string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE username_key = $1`, usernameKey)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions for user: %w", err)
	}
	return result.RowsAffected(), nil
}
