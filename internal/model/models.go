// Package model defines the data models for the coin admin API.
package model

import "time"

// Ledger entry types for categorizing financial activity.
const (
	EntryTypeDeposit  = "deposit"  // Coins paid in by a user
	EntryTypeRedeem   = "redeem"   // Coins paid out to a user
	EntryTypeFreeplay = "freeplay" // Promotional credit, never paid in
)

// EntryTypes returns all valid ledger entry types.
func EntryTypes() []string {
	return []string{EntryTypeDeposit, EntryTypeRedeem, EntryTypeFreeplay}
}

// ValidEntryType reports whether t is a known ledger entry type.
func ValidEntryType(t string) bool {
	switch t {
	case EntryTypeDeposit, EntryTypeRedeem, EntryTypeFreeplay:
		return true
	}
	return false
}

// User account statuses.
const (
	StatusPending = "pending" // Awaiting admin approval (all synthesized accounts)
	StatusActive  = "active"  // Approved, may open sessions
	StatusBlocked = "blocked" // Locked out by an admin
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// LedgerEntry is one append-only financial transaction record tied to a
// user and a game. AmountFinal, when set, is a post-adjustment value that
// overrides Amount in every total.
type LedgerEntry struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	UsernameKey string    `db:"username_key" json:"-"`
	GameName    string    `db:"game_name" json:"gameName"`
	Type        string    `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	AmountFinal *float64  `db:"amount_final" json:"amountFinal,omitempty"`
	EntryDate   string    `db:"entry_date" json:"date"` // YYYY-MM-DD
	CreatedBy   *string   `db:"created_by" json:"createdBy,omitempty"`
	Method      *string   `db:"method" json:"method,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// EffectiveAmount returns AmountFinal when present, falling back to Amount.
func (e *LedgerEntry) EffectiveAmount() float64 {
	if e.AmountFinal != nil {
		return *e.AmountFinal
	}
	return e.Amount
}

// UserAccount is a user record. Username keeps the first-seen display
// casing; UsernameKey is the normalized unique identity key.
type UserAccount struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	UsernameKey string    `db:"username_key" json:"-"`
	Email       string    `db:"email" json:"email"`
	Status      string    `db:"status" json:"status"`
	IsApproved  bool      `db:"is_approved" json:"isApproved"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// IsVirtual reports whether the account looks synthesized from ledger
// activity rather than explicitly registered.
func (u *UserAccount) IsVirtual() bool {
	return u.Status == StatusPending && !u.IsApproved
}

// Session is one login record. A user is online iff their most recent
// session by SignInAt has a nil SignOutAt.
type Session struct {
	ID          string     `db:"id" json:"sessionId"`
	Username    string     `db:"username" json:"username"`
	UsernameKey string     `db:"username_key" json:"-"`
	Email       string     `db:"email" json:"email"`
	SignInAt    time.Time  `db:"sign_in_at" json:"signInAt"`
	SignOutAt   *time.Time `db:"sign_out_at" json:"signOutAt"`
}

// Game is one game record. CoinsRecharged is a manually-set baseline;
// financial totals are derived from the ledger at read time.
type Game struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	CoinsRecharged   float64   `db:"coins_recharged" json:"coinsRecharged"`
	LastRechargeDate *string   `db:"last_recharge_date" json:"lastRechargeDate,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// UserTotals holds flat per-user ledger sums.
type UserTotals struct {
	UsernameKey   string  `db:"username_key" json:"-"`
	TotalDeposit  float64 `db:"total_deposit" json:"totalDeposit"`
	TotalRedeem   float64 `db:"total_redeem" json:"totalRedeem"`
	TotalFreeplay float64 `db:"total_freeplay" json:"totalFreeplay"`
}

// UserSummary is one roster row: the account enriched with ledger totals
// and the latest session. TotalPayments mirrors TotalRedeem.
type UserSummary struct {
	UserAccount
	TotalDeposit  float64    `json:"totalDeposit"`
	TotalRedeem   float64    `json:"totalRedeem"`
	TotalFreeplay float64    `json:"totalFreeplay"`
	TotalPayments float64    `json:"totalPayments"`
	IsVirtual     bool       `json:"isVirtual"`
	LastSignInAt  *time.Time `json:"lastSignInAt"`
	LastSignOutAt *time.Time `json:"lastSignOutAt"`
	IsOnline      bool       `json:"isOnline"`
}

// GameSummary is one game listing row with derived totals.
type GameSummary struct {
	Game
	Net            float64 `json:"net"`
	TotalCoins     float64 `json:"totalCoins"`
	TotalRecharged float64 `json:"totalRecharged"`
}

// DayNet is one (game, user, day) ledger group with its per-type sums.
// The per-day net is redeem - deposit - freeplay.
type DayNet struct {
	GameName    string  `db:"game_name"`
	UsernameKey string  `db:"username_key"`
	EntryDate   string  `db:"entry_date"`
	Deposit     float64 `db:"deposit"`
	Redeem      float64 `db:"redeem"`
	Freeplay    float64 `db:"freeplay"`
}

// Net returns the group's net value.
func (d *DayNet) Net() float64 {
	return d.Redeem - d.Deposit - d.Freeplay
}

// RechargeHistoryRow is one deposit in a game's running recharge ledger.
type RechargeHistoryRow struct {
	EntryID     int64   `json:"entryId"`
	Username    string  `json:"username"`
	EntryDate   string  `json:"date"`
	Amount      float64 `json:"amount"`
	BeforeCoins float64 `json:"beforeCoins"`
	AfterCoins  float64 `json:"afterCoins"`
}
