package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coin-admin-api/internal/model"
)

// Common errors for game operations.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrDuplicateGame = errors.New("game name already exists")
)

const gameColumns = `id, name, coins_recharged, last_recharge_date, created_at, updated_at`

// GameRepository handles game record persistence. Totals are never
// stored here; they are derived from the ledger at read time.
type GameRepository struct {
	pool *pgxpool.Pool
}

// NewGameRepository creates a new GameRepository instance.
func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.CoinsRecharged,
		&g.LastRechargeDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List retrieves all games ordered by name, optionally filtered by a
// case-insensitive name substring.
func (r *GameRepository) List(ctx context.Context, q string) ([]*model.Game, error) {
	const query = `
		SELECT ` + gameColumns + `
		FROM games
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// GetByID retrieves a game by ID.
// Returns ErrGameNotFound if the game does not exist.
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	game, err := scanGame(r.pool.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// Create inserts a new game.
// Returns ErrDuplicateGame when the name is already taken.
func (r *GameRepository) Create(ctx context.Context, name string, coinsRecharged float64) (*model.Game, error) {
	const query = `
		INSERT INTO games (name, coins_recharged, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + gameColumns

	game, err := scanGame(r.pool.QueryRow(ctx, query, name, coinsRecharged))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateGame
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

// Update modifies a game's recharge baseline and/or last recharge date.
// Nil fields are left unchanged.
func (r *GameRepository) Update(ctx context.Context, id int64, coinsRecharged *float64, lastRechargeDate *string) (*model.Game, error) {
	const query = `
		UPDATE games
		SET coins_recharged = COALESCE($2, coins_recharged),
		    last_recharge_date = COALESCE($3, last_recharge_date),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + gameColumns

	game, err := scanGame(r.pool.QueryRow(ctx, query, id, coinsRecharged, lastRechargeDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return game, nil
}

// Delete removes a game and returns the deleted record.
// Returns ErrGameNotFound if the game does not exist.
func (r *GameRepository) Delete(ctx context.Context, id int64) (*model.Game, error) {
	const query = `
		DELETE FROM games
		WHERE id = $1
		RETURNING ` + gameColumns

	game, err := scanGame(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to delete game: %w", err)
	}
	return game, nil
}
