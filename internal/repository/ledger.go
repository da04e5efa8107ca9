// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coin-admin-api/internal/model"
)

// Common errors for ledger operations.
var (
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// DistinctUsername is one distinct identity key seen in the ledger with
// its first-seen display casing.
type DistinctUsername struct {
	Key     string
	Display string
}

// LedgerRepository handles ledger entry persistence. Entries are
// append-only; the only deletions are admin entry removal and user purge.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create inserts a new ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, e *model.LedgerEntry) (*model.LedgerEntry, error) {
	const query = `
		INSERT INTO ledger_entries (username, username_key, game_name, type, amount, amount_final, entry_date, created_by, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, username, username_key, game_name, type, amount, amount_final, entry_date, created_by, method, created_at
	`

	var entry model.LedgerEntry
	err := r.pool.QueryRow(ctx, query,
		e.Username, e.UsernameKey, e.GameName, e.Type, e.Amount, e.AmountFinal, e.EntryDate, e.CreatedBy, e.Method,
	).Scan(
		&entry.ID,
		&entry.Username,
		&entry.UsernameKey,
		&entry.GameName,
		&entry.Type,
		&entry.Amount,
		&entry.AmountFinal,
		&entry.EntryDate,
		&entry.CreatedBy,
		&entry.Method,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return &entry, nil
}

// List retrieves ledger entries, newest first, optionally restricted to a
// username key and/or a YYYY-MM month prefix. Empty filters match all.
func (r *LedgerRepository) List(ctx context.Context, usernameKey, monthPrefix string) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, username, username_key, game_name, type, amount, amount_final, entry_date, created_by, method, created_at
		FROM ledger_entries
		WHERE ($1 = '' OR username_key = $1)
		  AND ($2 = '' OR entry_date LIKE $2 || '%')
		ORDER BY entry_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, usernameKey, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.UsernameKey,
			&entry.GameName,
			&entry.Type,
			&entry.Amount,
			&entry.AmountFinal,
			&entry.EntryDate,
			&entry.CreatedBy,
			&entry.Method,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

// Delete removes a single ledger entry by ID.
// Returns ErrEntryNotFound if no such entry exists.
func (r *LedgerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteByUsernameKey removes all ledger entries for an identity key.
// Used by the user purge flow; returns the number of deleted rows.
func (r *LedgerRepository) DeleteByUsernameKey(ctx context.Context, usernameKey string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE username_key = $1`, usernameKey)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries for user: %w", err)
	}
	return result.RowsAffected(), nil
}

// DistinctUsernames retrieves every distinct identity key in the ledger
// with its first-seen display casing, skipping empty usernames. This is
// the input to roster synthesis.
func (r *LedgerRepository) DistinctUsernames(ctx context.Context) ([]DistinctUsername, error) {
	const query = `
		SELECT DISTINCT ON (username_key) username_key, username
		FROM ledger_entries
		WHERE username_key <> ''
		ORDER BY username_key, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct usernames: %w", err)
	}
	defer rows.Close()

	var names []DistinctUsername
	for rows.Next() {
		var name DistinctUsername
		if err := rows.Scan(&name.Key, &name.Display); err != nil {
			return nil, fmt.Errorf("failed to scan distinct username: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct usernames: %w", err)
	}

	return names, nil
}

// UserTotals retrieves flat per-user sums of deposit, redeem and freeplay
// amounts, using amount_final over amount when present. An optional
// YYYY-MM prefix restricts entries to one month.
func (r *LedgerRepository) UserTotals(ctx context.Context, monthPrefix string) (map[string]*model.UserTotals, error) {
	const query = `
		SELECT username_key,
		       COALESCE(SUM(CASE WHEN type = 'deposit' THEN COALESCE(amount_final, amount) END), 0) AS total_deposit,
		       COALESCE(SUM(CASE WHEN type = 'redeem' THEN COALESCE(amount_final, amount) END), 0) AS total_redeem,
		       COALESCE(SUM(CASE WHEN type = 'freeplay' THEN COALESCE(amount_final, amount) END), 0) AS total_freeplay
		FROM ledger_entries
		WHERE ($1 = '' OR entry_date LIKE $1 || '%')
		GROUP BY username_key
	`

	rows, err := r.pool.Query(ctx, query, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get user totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]*model.UserTotals)
	for rows.Next() {
		var t model.UserTotals
		if err := rows.Scan(&t.UsernameKey, &t.TotalDeposit, &t.TotalRedeem, &t.TotalFreeplay); err != nil {
			return nil, fmt.Errorf("failed to scan user totals: %w", err)
		}
		totals[t.UsernameKey] = &t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user totals: %w", err)
	}

	return totals, nil
}

// DayNets retrieves ledger sums grouped by (game, user, day), using
// amount_final over amount. The per-group and flat game totals are
// derived from these rows in the service layer.
func (r *LedgerRepository) DayNets(ctx context.Context, monthPrefix string) ([]*model.DayNet, error) {
	const query = `
		SELECT game_name, username_key, entry_date,
		       COALESCE(SUM(CASE WHEN type = 'deposit' THEN COALESCE(amount_final, amount) END), 0) AS deposit,
		       COALESCE(SUM(CASE WHEN type = 'redeem' THEN COALESCE(amount_final, amount) END), 0) AS redeem,
		       COALESCE(SUM(CASE WHEN type = 'freeplay' THEN COALESCE(amount_final, amount) END), 0) AS freeplay
		FROM ledger_entries
		WHERE ($1 = '' OR entry_date LIKE $1 || '%')
		GROUP BY game_name, username_key, entry_date
		ORDER BY game_name, entry_date
	`

	rows, err := r.pool.Query(ctx, query, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get day nets: %w", err)
	}
	defer rows.Close()

	var nets []*model.DayNet
	for rows.Next() {
		var n model.DayNet
		if err := rows.Scan(&n.GameName, &n.UsernameKey, &n.EntryDate, &n.Deposit, &n.Redeem, &n.Freeplay); err != nil {
			return nil, fmt.Errorf("failed to scan day net: %w", err)
		}
		nets = append(nets, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day nets: %w", err)
	}

	return nets, nil
}

// GameDeposits retrieves the deposit entries for one game in date order.
// Feeds the recharge history's running balance.
func (r *LedgerRepository) GameDeposits(ctx context.Context, gameName, monthPrefix string) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, username, username_key, game_name, type, amount, amount_final, entry_date, created_by, method, created_at
		FROM ledger_entries
		WHERE game_name = $1
		  AND type = 'deposit'
		  AND ($2 = '' OR entry_date LIKE $2 || '%')
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, gameName, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get game deposits: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.UsernameKey,
			&entry.GameName,
			&entry.Type,
			&entry.Amount,
			&entry.AmountFinal,
			&entry.EntryDate,
			&entry.CreatedBy,
			&entry.Method,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game deposit: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game deposits: %w", err)
	}

	return entries, nil
}

// GetByID retrieves a single ledger entry.
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*model.LedgerEntry, error) {
	const query = `
		SELECT id, username, username_key, game_name, type, amount, amount_final, entry_date, created_by, method, created_at
		FROM ledger_entries
		WHERE id = $1
	`

	var entry model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Username,
		&entry.UsernameKey,
		&entry.GameName,
		&entry.Type,
		&entry.Amount,
		&entry.AmountFinal,
		&entry.EntryDate,
		&entry.CreatedBy,
		&entry.Method,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return &entry, nil
}
