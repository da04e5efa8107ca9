// Package service provides business logic implementations.
package service

import (
	"fmt"
	"strconv"

	"coin-admin-api/internal/model"
)

// MonthPrefix builds the YYYY-MM entry-date prefix for a month filter.
// Returns "" (no restriction) unless both year and month are numeric and
// the month is in 1..12.
func MonthPrefix(year, month string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", y, m)
}

// GameTotals accumulates a game's derived ledger figures.
type GameTotals struct {
	Net     float64 // Σ per-(user, day) group of redeem - deposit - freeplay
	Deposit float64 // flat Σ deposit, never reduced by net
}

// AggregateGames folds (game, user, day) ledger groups into per-game
// totals. Net is summed group by group rather than from flat sums so one
// user's same-day redemption is never netted against another user's
// deposit on a different day.
func AggregateGames(nets []*model.DayNet) map[string]GameTotals {
	totals := make(map[string]GameTotals)
	for _, n := range nets {
		t := totals[n.GameName]
		t.Net += n.Net()
		t.Deposit += n.Deposit
		totals[n.GameName] = t
	}
	return totals
}

// TotalCoins computes a game's displayed coin balance: the manual
// baseline plus the ledger net, floored at zero.
func TotalCoins(baseline, net float64) float64 {
	total := baseline + net
	if total < 0 {
		return 0
	}
	return total
}
