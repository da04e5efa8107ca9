package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coin-admin-api/internal/model"
)

// Common errors for user account operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, username, username_key, email, status, is_approved, role, created_at, updated_at`

// UserRepository handles user account and tombstone persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.UserAccount, error) {
	var u model.UserAccount
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.UsernameKey,
		&u.Email,
		&u.Status,
		&u.IsApproved,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List retrieves all user accounts, optionally filtered by status.
func (r *UserRepository) List(ctx context.Context, status string) ([]*model.UserAccount, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM user_accounts
		WHERE ($1 = '' OR status = $1)
		ORDER BY username_key
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.UserAccount
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetByID retrieves a user account by its numeric ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.UserAccount, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByKey retrieves a user account by its normalized username key.
func (r *UserRepository) GetByKey(ctx context.Context, usernameKey string) (*model.UserAccount, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_accounts WHERE username_key = $1`, usernameKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by key: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user account by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_accounts WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// CreatePlaceholder inserts a synthesized pending account.
// Returns ErrDuplicateUser when the username key or email is taken, which
// callers treat as "already synthesized by a concurrent pass".
func (r *UserRepository) CreatePlaceholder(ctx context.Context, username, usernameKey, email string) (*model.UserAccount, error) {
	const query = `
		INSERT INTO user_accounts (username, username_key, email, status, is_approved, role, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', FALSE, 'user', NOW(), NOW())
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, username, usernameKey, email))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create placeholder user: %w", err)
	}
	return user, nil
}

// SetStatus updates a user's status and keeps is_approved in sync
// (active implies approved).
func (r *UserRepository) SetStatus(ctx context.Context, id int64, status string) (*model.UserAccount, error) {
	const query = `
		UPDATE user_accounts
		SET status = $2, is_approved = ($2 = 'active'), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set user status: %w", err)
	}
	return user, nil
}

// DeleteByKey removes a user account by its username key. Returns the
// number of deleted rows; deleting a non-existent account is not an
// error because virtual users may have no account row.
func (r *UserRepository) DeleteByKey(ctx context.Context, usernameKey string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM user_accounts WHERE username_key = $1`, usernameKey)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return result.RowsAffected(), nil
}

// ExistingKeysAndEmails loads the full set of taken username keys and
// emails in one pass. Input to the synthesis dedupe check.
func (r *UserRepository) ExistingKeysAndEmails(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT username_key, email FROM user_accounts`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load existing users: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	emails := make(map[string]struct{})
	for rows.Next() {
		var key, email string
		if err := rows.Scan(&key, &email); err != nil {
			return nil, nil, fmt.Errorf("failed to scan existing user: %w", err)
		}
		keys[key] = struct{}{}
		emails[email] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating existing users: %w", err)
	}

	return keys, emails, nil
}

// AddTombstone records a username key as permanently deleted.
// Idempotent: re-deleting the same key is a no-op.
func (r *UserRepository) AddTombstone(ctx context.Context, usernameKey string) error {
	const query = `
		INSERT INTO deleted_usernames (username_key, deleted_at)
		VALUES ($1, NOW())
		ON CONFLICT (username_key) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, usernameKey); err != nil {
		return fmt.Errorf("failed to add tombstone: %w", err)
	}
	return nil
}

// Tombstones loads the set of username keys excluded from synthesis.
func (r *UserRepository) Tombstones(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT username_key FROM deleted_usernames`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tombstones: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan tombstone: %w", err)
		}
		keys[key] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tombstones: %w", err)
	}

	return keys, nil
}

// IsTombstoned reports whether a username key is tombstoned.
func (r *UserRepository) IsTombstoned(ctx context.Context, usernameKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM deleted_usernames WHERE username_key = $1)`, usernameKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tombstone: %w", err)
	}
	return exists, nil
}
