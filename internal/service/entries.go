package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coin-admin-api/internal/identity"
	"coin-admin-api/internal/model"
	"coin-admin-api/internal/repository"
)

// Common errors for service operations.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotApproved  = errors.New("account is not approved")
)

// EntryService is the ledger write path: validated submission of
// deposit/redeem/freeplay records.
type EntryService struct {
	ledgerRepo *repository.LedgerRepository
}

// NewEntryService creates a new EntryService instance.
func NewEntryService(ledgerRepo *repository.LedgerRepository) *EntryService {
	return &EntryService{ledgerRepo: ledgerRepo}
}

// EntryInput is a validated ledger submission.
type EntryInput struct {
	Username    string
	GameName    string
	Type        string
	Amount      float64
	AmountFinal *float64
	Date        string // YYYY-MM-DD; defaults to today (UTC)
	CreatedBy   *string
	Method      *string
}

// Create validates and appends one ledger entry. The username keeps its
// submitted casing for display; the normalized key is stored alongside
// for every comparison.
func (s *EntryService) Create(ctx context.Context, in EntryInput) (*model.LedgerEntry, error) {
	username := strings.TrimSpace(in.Username)
	key := identity.Normalize(in.Username)
	if key == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	gameName := strings.TrimSpace(in.GameName)
	if gameName == "" {
		return nil, fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}

	if !model.ValidEntryType(in.Type) {
		return nil, fmt.Errorf("%w: entry type %q", ErrInvalidInput, in.Type)
	}

	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.AmountFinal != nil && *in.AmountFinal < 0 {
		return nil, fmt.Errorf("%w: final amount must not be negative", ErrInvalidInput)
	}

	date := in.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, in.Date)
	}

	return s.ledgerRepo.Create(ctx, &model.LedgerEntry{
		Username:    username,
		UsernameKey: key,
		GameName:    gameName,
		Type:        in.Type,
		Amount:      in.Amount,
		AmountFinal: in.AmountFinal,
		EntryDate:   date,
		CreatedBy:   in.CreatedBy,
		Method:      in.Method,
	})
}

// List returns ledger entries, newest first, optionally restricted to a
// username and/or a year+month window.
func (s *EntryService) List(ctx context.Context, username, year, month string) ([]*model.LedgerEntry, error) {
	return s.ledgerRepo.List(ctx, identity.Normalize(username), MonthPrefix(year, month))
}

// Delete removes a single mis-entered ledger row.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	return s.ledgerRepo.Delete(ctx, id)
}
