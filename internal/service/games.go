package service

import (
	"context"
	"fmt"
	"strings"

	"coin-admin-api/internal/model"
	"coin-admin-api/internal/repository"
)

// GameService derives per-game financial totals from the ledger. Game
// records only carry the manual recharge baseline; everything else is
// computed at read time.
type GameService struct {
	gameRepo   *repository.GameRepository
	ledgerRepo *repository.LedgerRepository
}

// NewGameService creates a new GameService instance.
func NewGameService(gameRepo *repository.GameRepository, ledgerRepo *repository.LedgerRepository) *GameService {
	return &GameService{
		gameRepo:   gameRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Names returns the names of games matching a search query.
func (s *GameService) Names(ctx context.Context, q string) ([]string, error) {
	games, err := s.gameRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(games))
	for _, game := range games {
		names = append(names, game.Name)
	}
	return names, nil
}

// List returns every game enriched with its derived totals: the
// group-then-sum net, the floored coin balance, and the flat deposit
// total. year/month restrict the ledger to one YYYY-MM when both are
// numeric.
func (s *GameService) List(ctx context.Context, year, month string) ([]*model.GameSummary, error) {
	games, err := s.gameRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	nets, err := s.ledgerRepo.DayNets(ctx, MonthPrefix(year, month))
	if err != nil {
		return nil, err
	}
	totals := AggregateGames(nets)

	summaries := make([]*model.GameSummary, 0, len(games))
	for _, game := range games {
		t := totals[game.Name]
		summaries = append(summaries, &model.GameSummary{
			Game:           *game,
			Net:            t.Net,
			TotalCoins:     TotalCoins(game.CoinsRecharged, t.Net),
			TotalRecharged: t.Deposit,
		})
	}
	return summaries, nil
}

// Create adds a new game with an optional starting baseline.
func (s *GameService) Create(ctx context.Context, name string, coinsRecharged float64) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}
	return s.gameRepo.Create(ctx, name, coinsRecharged)
}

// Update changes a game's recharge baseline and/or last recharge date.
func (s *GameService) Update(ctx context.Context, id int64, coinsRecharged *float64, lastRechargeDate *string) (*model.Game, error) {
	return s.gameRepo.Update(ctx, id, coinsRecharged, lastRechargeDate)
}

// Delete removes a game and returns the deleted record.
func (s *GameService) Delete(ctx context.Context, id int64) (*model.Game, error) {
	return s.gameRepo.Delete(ctx, id)
}

// RechargeHistory returns a game's deposits in date order with a running
// balance. The running balance starts at zero for the selected window;
// the manual baseline is reported on the game record, not here.
func (s *GameService) RechargeHistory(ctx context.Context, id int64, year, month string) ([]*model.RechargeHistoryRow, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deposits, err := s.ledgerRepo.GameDeposits(ctx, game.Name, MonthPrefix(year, month))
	if err != nil {
		return nil, err
	}

	rows := make([]*model.RechargeHistoryRow, 0, len(deposits))
	running := 0.0
	for _, entry := range deposits {
		amount := entry.EffectiveAmount()
		rows = append(rows, &model.RechargeHistoryRow{
			EntryID:     entry.ID,
			Username:    entry.Username,
			EntryDate:   entry.EntryDate,
			Amount:      amount,
			BeforeCoins: running,
			AfterCoins:  running + amount,
		})
		running += amount
	}
	return rows, nil
}
