// Tests use testcontainers-go to spin up a PostgreSQL container and run
// the real schema against it.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"coin-admin-api/internal/model"
	"coin-admin-api/internal/pkg/db"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func mustEntry(t *testing.T, repo *LedgerRepository, username, usernameKey, game, entryType string, amount float64, date string) *model.LedgerEntry {
	t.Helper()
	entry, err := repo.Create(context.Background(), &model.LedgerEntry{
		Username:    username,
		UsernameKey: usernameKey,
		GameName:    game,
		Type:        entryType,
		Amount:      amount,
		EntryDate:   date,
	})
	require.NoError(t, err)
	return entry
}

// ============================================================================
// LedgerRepository Tests
// ============================================================================

func TestLedgerRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	final := 80.0
	by := "admin"
	created, err := repo.Create(ctx, &model.LedgerEntry{
		Username:    "Alice",
		UsernameKey: "alice",
		GameName:    "Lucky7",
		Type:        model.EntryTypeDeposit,
		Amount:      100,
		AmountFinal: &final,
		EntryDate:   "2024-03-05",
		CreatedBy:   &by,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Alice", created.Username)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucky7", got.GameName)
	require.NotNil(t, got.AmountFinal)
	assert.Equal(t, 80.0, *got.AmountFinal)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "admin", *got.CreatedBy)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestLedgerRepository_ListFilters(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")
	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeRedeem, 50, "2024-04-01")
	mustEntry(t, repo, "Bob", "bob", "Orion", model.EntryTypeDeposit, 30, "2024-03-20")

	all, err := repo.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest entry date first.
	assert.Equal(t, "2024-04-01", all[0].EntryDate)

	alice, err := repo.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	march, err := repo.List(ctx, "", "2024-03")
	require.NoError(t, err)
	assert.Len(t, march, 2)

	aliceMarch, err := repo.List(ctx, "alice", "2024-03")
	require.NoError(t, err)
	require.Len(t, aliceMarch, 1)
	assert.Equal(t, 100.0, aliceMarch[0].Amount)
}

func TestLedgerRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	entry := mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), ErrEntryNotFound)
}

func TestLedgerRepository_DistinctUsernames(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	// Two casings of the same identity; first-seen display wins.
	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")
	mustEntry(t, repo, "ALICE", "alice", "Lucky7", model.EntryTypeRedeem, 20, "2024-03-06")
	mustEntry(t, repo, "Bob", "bob", "Orion", model.EntryTypeDeposit, 30, "2024-03-07")

	names, err := repo.DistinctUsernames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "alice", names[0].Key)
	assert.Equal(t, "Alice", names[0].Display)
	assert.Equal(t, "bob", names[1].Key)
}

func TestLedgerRepository_UserTotals(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")
	mustEntry(t, repo, "Alice", "alice", "Orion", model.EntryTypeRedeem, 40, "2024-03-06")
	mustEntry(t, repo, "Alice", "alice", "Orion", model.EntryTypeFreeplay, 10, "2024-04-01")

	// amount_final overrides amount in every total.
	final := 70.0
	_, err := repo.Create(ctx, &model.LedgerEntry{
		Username:    "Alice",
		UsernameKey: "alice",
		GameName:    "Lucky7",
		Type:        model.EntryTypeDeposit,
		Amount:      100,
		AmountFinal: &final,
		EntryDate:   "2024-03-07",
	})
	require.NoError(t, err)

	totals, err := repo.UserTotals(ctx, "")
	require.NoError(t, err)
	require.Contains(t, totals, "alice")
	assert.Equal(t, 170.0, totals["alice"].TotalDeposit) // 100 + 70
	assert.Equal(t, 40.0, totals["alice"].TotalRedeem)
	assert.Equal(t, 10.0, totals["alice"].TotalFreeplay)

	march, err := repo.UserTotals(ctx, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, 0.0, march["alice"].TotalFreeplay)
	assert.Equal(t, 170.0, march["alice"].TotalDeposit)
}

func TestLedgerRepository_DayNets(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	// Same (game, user, day) group collapses into one row.
	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")
	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeRedeem, 150, "2024-03-05")
	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 20, "2024-03-06")
	mustEntry(t, repo, "Bob", "bob", "Lucky7", model.EntryTypeDeposit, 5, "2024-03-05")

	nets, err := repo.DayNets(ctx, "")
	require.NoError(t, err)
	require.Len(t, nets, 3)

	byGroup := make(map[string]*model.DayNet)
	for _, n := range nets {
		byGroup[n.UsernameKey+"|"+n.EntryDate] = n
	}
	group := byGroup["alice|2024-03-05"]
	require.NotNil(t, group)
	assert.Equal(t, 100.0, group.Deposit)
	assert.Equal(t, 150.0, group.Redeem)
	assert.Equal(t, 50.0, group.Net())
}

func TestLedgerRepository_GameDeposits(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-06")
	mustEntry(t, repo, "Bob", "bob", "Lucky7", model.EntryTypeDeposit, 50, "2024-03-05")
	mustEntry(t, repo, "Bob", "bob", "Lucky7", model.EntryTypeRedeem, 30, "2024-03-05")
	mustEntry(t, repo, "Bob", "bob", "Orion", model.EntryTypeDeposit, 99, "2024-03-05")

	deposits, err := repo.GameDeposits(ctx, "Lucky7", "")
	require.NoError(t, err)
	require.Len(t, deposits, 2)
	// Date order, redeems and other games excluded.
	assert.Equal(t, 50.0, deposits[0].Amount)
	assert.Equal(t, 100.0, deposits[1].Amount)
}

func TestLedgerRepository_DeleteByUsernameKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	mustEntry(t, repo, "Alice", "alice", "Lucky7", model.EntryTypeDeposit, 100, "2024-03-05")
	mustEntry(t, repo, "ALICE", "alice", "Orion", model.EntryTypeRedeem, 40, "2024-03-06")
	mustEntry(t, repo, "Bob", "bob", "Lucky7", model.EntryTypeDeposit, 5, "2024-03-05")

	deleted, err := repo.DeleteByUsernameKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "bob", remaining[0].UsernameKey)
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_CreatePlaceholder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, model.StatusPending, user.Status)
	assert.False(t, user.IsApproved)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsVirtual())

	// Same key again, regardless of display casing.
	_, err = repo.CreatePlaceholder(ctx, "ALICE", "alice", "alice2@noemail.local")
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// Same email under a different key.
	_, err = repo.CreatePlaceholder(ctx, "Alicia", "alicia", "alice@noemail.local")
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUserRepository_GetByKeyAndEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	created, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)

	byKey, err := repo.GetByKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@noemail.local")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByKey(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@noemail.local")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_SetStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	created, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)

	active, err := repo.SetStatus(ctx, created.ID, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, active.Status)
	assert.True(t, active.IsApproved)
	assert.False(t, active.IsVirtual())

	blocked, err := repo.SetStatus(ctx, created.ID, model.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, blocked.Status)
	assert.False(t, blocked.IsApproved)

	_, err = repo.SetStatus(ctx, 99999, model.StatusActive)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_ListByStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	alice, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)
	_, err = repo.CreatePlaceholder(ctx, "Bob", "bob", "bob@noemail.local")
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, alice.ID, model.StatusActive)
	require.NoError(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := repo.List(ctx, model.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bob", pending[0].UsernameKey)
}

func TestUserRepository_Tombstones(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	tombstoned, err := repo.IsTombstoned(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, tombstoned)

	require.NoError(t, repo.AddTombstone(ctx, "alice"))
	// Idempotent.
	require.NoError(t, repo.AddTombstone(ctx, "alice"))

	tombstoned, err = repo.IsTombstoned(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, tombstoned)

	keys, err := repo.Tombstones(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.Contains(t, keys, "alice")
}

func TestUserRepository_ExistingKeysAndEmails(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)
	_, err = repo.CreatePlaceholder(ctx, "Bob", "bob", "bob@noemail.local")
	require.NoError(t, err)

	keys, emails, err := repo.ExistingKeysAndEmails(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "alice")
	assert.Contains(t, keys, "bob")
	assert.Contains(t, emails, "alice@noemail.local")
	assert.Len(t, emails, 2)
}

func TestUserRepository_DeleteByKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.CreatePlaceholder(ctx, "Alice", "alice", "alice@noemail.local")
	require.NoError(t, err)

	deleted, err := repo.DeleteByKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Deleting a key with no account row is not an error.
	deleted, err = repo.DeleteByKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

// ============================================================================
// SessionRepository Tests
// ============================================================================

func newSession(username, usernameKey, email string, signInAt time.Time) *model.Session {
	return &model.Session{
		ID:          uuid.NewString(),
		Username:    username,
		UsernameKey: usernameKey,
		Email:       email,
		SignInAt:    signInAt,
	}
}

func TestSessionRepository_CreateAndClose(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSessionRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now))
	require.NoError(t, err)
	assert.Nil(t, created.SignOutAt)

	out := now.Add(time.Hour)
	closed, err := repo.CloseByID(ctx, created.ID, out)
	require.NoError(t, err)
	require.NotNil(t, closed.SignOutAt)
	assert.WithinDuration(t, out, *closed.SignOutAt, time.Second)

	// Closing again keeps the original sign-out time.
	reclose, err := repo.CloseByID(ctx, created.ID, out.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, reclose.SignOutAt)
	assert.WithinDuration(t, out, *reclose.SignOutAt, time.Second)

	_, err = repo.CloseByID(ctx, uuid.NewString(), out)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_SingleOpenSession(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSessionRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now))
	require.NoError(t, err)

	// A second open session for the same key violates the partial unique
	// index; the service closes open sessions before inserting.
	_, err = repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now.Add(time.Minute)))
	require.Error(t, err)

	closed, err := repo.CloseOpen(ctx, "alice", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	_, err = repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now.Add(2*time.Minute)))
	require.NoError(t, err)

	// Different key is unaffected.
	_, err = repo.Create(ctx, newSession("Bob", "bob", "bob@noemail.local", now))
	require.NoError(t, err)
}

func TestSessionRepository_LatestForAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSessionRepository(pool)
	ctx := context.Background()
	base := time.Now().UTC().Add(-3 * time.Hour)

	first, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", base))
	require.NoError(t, err)
	_, err = repo.CloseByID(ctx, first.ID, base.Add(time.Hour))
	require.NoError(t, err)

	second, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", base.Add(2*time.Hour)))
	require.NoError(t, err)

	latest, err := repo.LatestForAll(ctx)
	require.NoError(t, err)
	require.Contains(t, latest, "alice")
	assert.Equal(t, second.ID, latest["alice"].ID)
	assert.Nil(t, latest["alice"].SignOutAt)
}

func TestSessionRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSessionRepository(pool)
	ctx := context.Background()
	base := time.Now().UTC().Add(-3 * time.Hour)

	first, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", base))
	require.NoError(t, err)
	_, err = repo.CloseByID(ctx, first.ID, base.Add(time.Minute))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newSession("Bob", "bob", "bob@noemail.local", base))
	require.NoError(t, err)

	all, err := repo.List(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alice, err := repo.List(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, alice, 2)
	// Newest first.
	assert.Equal(t, second.ID, alice[0].ID)

	latestOnly, err := repo.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, latestOnly, 2)
}

func TestSessionRepository_DeleteByUsernameKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSessionRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	s, err := repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now.Add(-2*time.Hour)))
	require.NoError(t, err)
	_, err = repo.CloseByID(ctx, s.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newSession("Alice", "alice", "alice@noemail.local", now))
	require.NoError(t, err)

	deleted, err := repo.DeleteByUsernameKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

// ============================================================================
// GameRepository Tests
// ============================================================================

func TestGameRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewGameRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Lucky7", 500)
	require.NoError(t, err)
	assert.Equal(t, "Lucky7", created.Name)
	assert.Equal(t, 500.0, created.CoinsRecharged)
	assert.Nil(t, created.LastRechargeDate)

	_, err = repo.Create(ctx, "Lucky7", 0)
	assert.ErrorIs(t, err, ErrDuplicateGame)

	_, err = repo.Create(ctx, "Orion", 0)
	require.NoError(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := repo.List(ctx, "luck")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Lucky7", matched[0].Name)
}

func TestGameRepository_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewGameRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Lucky7", 500)
	require.NoError(t, err)

	date := "2024-03-05"
	updated, err := repo.Update(ctx, created.ID, nil, &date)
	require.NoError(t, err)
	// Nil coins leaves the baseline untouched.
	assert.Equal(t, 500.0, updated.CoinsRecharged)
	require.NotNil(t, updated.LastRechargeDate)
	assert.Equal(t, date, *updated.LastRechargeDate)

	coins := 750.0
	updated, err = repo.Update(ctx, created.ID, &coins, nil)
	require.NoError(t, err)
	assert.Equal(t, 750.0, updated.CoinsRecharged)
	assert.Equal(t, date, *updated.LastRechargeDate)

	_, err = repo.Update(ctx, 99999, &coins, nil)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewGameRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Lucky7", 500)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucky7", deleted.Name)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
}
