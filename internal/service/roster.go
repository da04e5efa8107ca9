package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"coin-admin-api/internal/identity"
	"coin-admin-api/internal/model"
	"coin-admin-api/internal/repository"
)

// VirtualIDPrefix marks roster ids that refer to a ledger-synthesized
// user by name instead of a numeric account id.
const VirtualIDPrefix = "virtual:"

// PlannedAccount is one placeholder account the synthesis pass intends
// to insert.
type PlannedAccount struct {
	Username    string // first-seen display casing from the ledger
	UsernameKey string
	Email       string
}

// SynthesisResult reports the outcome of one roster synthesis pass.
// Failures are per-account and never abort the pass.
type SynthesisResult struct {
	Created []string         // username keys inserted by this pass
	Skipped []string         // username keys lost to a concurrent pass
	Failed  map[string]error // username key -> insert error
}

// PlanSynthesis decides which placeholder accounts to create: every
// distinct ledger identity that has no account and no tombstone. Emails
// are deterministic placeholders, suffixed +1, +2, ... on collision with
// existing or just-planned emails. Pure; the dedupe-before-insert check
// here is what makes synthesis idempotent.
func PlanSynthesis(
	ledgerNames []repository.DistinctUsername,
	existingKeys map[string]struct{},
	tombstoned map[string]struct{},
	existingEmails map[string]struct{},
) []PlannedAccount {
	claimedEmails := make(map[string]struct{}, len(existingEmails))
	for email := range existingEmails {
		claimedEmails[email] = struct{}{}
	}

	var planned []PlannedAccount
	seen := make(map[string]struct{}, len(ledgerNames))
	for _, name := range ledgerNames {
		key := identity.Normalize(name.Key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := existingKeys[key]; ok {
			continue
		}
		if _, ok := tombstoned[key]; ok {
			continue
		}

		local := identity.PlaceholderLocal(name.Key)
		email := identity.PlaceholderEmail(local, 0)
		for n := 1; ; n++ {
			if _, taken := claimedEmails[email]; !taken {
				break
			}
			email = identity.PlaceholderEmail(local, n)
		}
		claimedEmails[email] = struct{}{}

		display := strings.TrimSpace(name.Display)
		if display == "" {
			display = key
		}
		planned = append(planned, PlannedAccount{
			Username:    display,
			UsernameKey: key,
			Email:       email,
		})
	}
	return planned
}

// RosterService is the reconciliation engine: it derives the
// authoritative user roster from the identity, ledger and tombstone
// stores and enriches it with totals and session state.
type RosterService struct {
	userRepo    *repository.UserRepository
	ledgerRepo  *repository.LedgerRepository
	sessionRepo *repository.SessionRepository
}

// NewRosterService creates a new RosterService instance.
func NewRosterService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	sessionRepo *repository.SessionRepository,
) *RosterService {
	return &RosterService{
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		sessionRepo: sessionRepo,
	}
}

// Synthesize creates placeholder accounts for ledger identities that
// have neither an account nor a tombstone. Inserts are best-effort: a
// duplicate-key failure means a concurrent pass won the race and is
// recorded as skipped; other failures are logged and reported without
// failing the pass. Running it twice with unchanged data creates
// nothing the second time.
func (s *RosterService) Synthesize(ctx context.Context) (*SynthesisResult, error) {
	existingKeys, existingEmails, err := s.userRepo.ExistingKeysAndEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing accounts: %w", err)
	}

	tombstoned, err := s.userRepo.Tombstones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tombstones: %w", err)
	}

	ledgerNames, err := s.ledgerRepo.DistinctUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger usernames: %w", err)
	}

	planned := PlanSynthesis(ledgerNames, existingKeys, tombstoned, existingEmails)

	result := &SynthesisResult{Failed: make(map[string]error)}
	for _, p := range planned {
		_, err := s.userRepo.CreatePlaceholder(ctx, p.Username, p.UsernameKey, p.Email)
		switch {
		case err == nil:
			result.Created = append(result.Created, p.UsernameKey)
		case errors.Is(err, repository.ErrDuplicateUser):
			result.Skipped = append(result.Skipped, p.UsernameKey)
		default:
			log.Error().Err(err).Str("username", p.UsernameKey).Msg("Failed to synthesize placeholder account")
			result.Failed[p.UsernameKey] = err
		}
	}

	if len(result.Created) > 0 {
		log.Info().Strs("usernames", result.Created).Msg("Synthesized placeholder accounts from ledger activity")
	}

	return result, nil
}

// ListUsers returns the full roster: synthesis first, then accounts
// (optionally filtered by status) joined with flat ledger totals and
// each user's latest session.
func (s *RosterService) ListUsers(ctx context.Context, status string) ([]*model.UserSummary, error) {
	if _, err := s.Synthesize(ctx); err != nil {
		// Synthesis is best-effort; the roster is still served from
		// whatever accounts exist.
		log.Error().Err(err).Msg("Roster synthesis failed, serving existing accounts")
	}

	users, err := s.userRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	totals, err := s.ledgerRepo.UserTotals(ctx, "")
	if err != nil {
		return nil, err
	}

	latest, err := s.sessionRepo.LatestForAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.UserSummary, 0, len(users))
	for _, user := range users {
		summary := &model.UserSummary{
			UserAccount: *user,
			IsVirtual:   user.IsVirtual(),
		}
		if t, ok := totals[user.UsernameKey]; ok {
			summary.TotalDeposit = t.TotalDeposit
			summary.TotalRedeem = t.TotalRedeem
			summary.TotalFreeplay = t.TotalFreeplay
			summary.TotalPayments = t.TotalRedeem
		}
		if session, ok := latest[user.UsernameKey]; ok {
			summary.LastSignInAt = &session.SignInAt
			summary.LastSignOutAt = session.SignOutAt
			summary.IsOnline = session.SignOutAt == nil
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// resolveAccount finds the account referred to by a roster id, which is
// either numeric or virtual:<name>. For virtual ids the account is
// synthesized on the spot when missing, unless the name is tombstoned.
func (s *RosterService) resolveAccount(ctx context.Context, id string) (*model.UserAccount, error) {
	if !strings.HasPrefix(id, VirtualIDPrefix) {
		numericID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: user id %q", ErrInvalidInput, id)
		}
		return s.userRepo.GetByID(ctx, numericID)
	}

	key := identity.Normalize(strings.TrimPrefix(id, VirtualIDPrefix))
	if key == "" {
		return nil, fmt.Errorf("%w: empty virtual username", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByKey(ctx, key)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	tombstoned, err := s.userRepo.IsTombstoned(ctx, key)
	if err != nil {
		return nil, err
	}
	if tombstoned {
		return nil, repository.ErrUserNotFound
	}

	email := identity.PlaceholderEmail(identity.PlaceholderLocal(key), 0)
	user, err = s.userRepo.CreatePlaceholder(ctx, key, key, email)
	if errors.Is(err, repository.ErrDuplicateUser) {
		// Lost a race against a synthesis pass; the account exists now.
		return s.userRepo.GetByKey(ctx, key)
	}
	return user, err
}

// Approve activates a user account. Accepts numeric and virtual ids.
func (s *RosterService) Approve(ctx context.Context, id string) (*model.UserAccount, error) {
	user, err := s.resolveAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.userRepo.SetStatus(ctx, user.ID, model.StatusActive)
}

// Block marks a user account blocked. Accepts numeric and virtual ids.
func (s *RosterService) Block(ctx context.Context, id string) (*model.UserAccount, error) {
	user, err := s.resolveAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.userRepo.SetStatus(ctx, user.ID, model.StatusBlocked)
}

// PurgeResult reports what a user deletion removed.
type PurgeResult struct {
	UsernameKey     string `json:"username"`
	AccountDeleted  bool   `json:"accountDeleted"`
	SessionsDeleted int64  `json:"sessionsDeleted"`
	EntriesDeleted  int64  `json:"entriesDeleted"`
}

// Delete purges a user: tombstone first (so a partial failure can never
// resurrect the identity), then sessions, ledger entries, and the
// account row itself. Works for virtual:<name> even when no account row
// exists; a numeric id must refer to an existing account.
func (s *RosterService) Delete(ctx context.Context, id string) (*PurgeResult, error) {
	var key string
	if strings.HasPrefix(id, VirtualIDPrefix) {
		key = identity.Normalize(strings.TrimPrefix(id, VirtualIDPrefix))
		if key == "" {
			return nil, fmt.Errorf("%w: empty virtual username", ErrInvalidInput)
		}
	} else {
		numericID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: user id %q", ErrInvalidInput, id)
		}
		user, err := s.userRepo.GetByID(ctx, numericID)
		if err != nil {
			return nil, err
		}
		key = user.UsernameKey
	}

	if err := s.userRepo.AddTombstone(ctx, key); err != nil {
		return nil, err
	}

	result := &PurgeResult{UsernameKey: key}

	sessions, err := s.sessionRepo.DeleteByUsernameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	result.SessionsDeleted = sessions

	entries, err := s.ledgerRepo.DeleteByUsernameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	result.EntriesDeleted = entries

	deleted, err := s.userRepo.DeleteByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	result.AccountDeleted = deleted > 0

	log.Info().
		Str("username", key).
		Bool("account_deleted", result.AccountDeleted).
		Int64("sessions_deleted", result.SessionsDeleted).
		Int64("entries_deleted", result.EntriesDeleted).
		Msg("User purged")

	return result, nil
}
