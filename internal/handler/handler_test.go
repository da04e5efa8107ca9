package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-admin-api/internal/config"
	"coin-admin-api/internal/model"
	"coin-admin-api/internal/repository"
	"coin-admin-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Stub services record calls and return canned results so the HTTP
// contract can be tested without a database.

type stubRoster struct {
	users     []*model.UserSummary
	lastID    string
	user      *model.UserAccount
	purge     *service.PurgeResult
	err       error
	gotStatus string
}

func (s *stubRoster) ListUsers(_ context.Context, status string) ([]*model.UserSummary, error) {
	s.gotStatus = status
	return s.users, s.err
}

func (s *stubRoster) Approve(_ context.Context, id string) (*model.UserAccount, error) {
	s.lastID = id
	return s.user, s.err
}

func (s *stubRoster) Block(_ context.Context, id string) (*model.UserAccount, error) {
	s.lastID = id
	return s.user, s.err
}

func (s *stubRoster) Delete(_ context.Context, id string) (*service.PurgeResult, error) {
	s.lastID = id
	return s.purge, s.err
}

type stubGames struct {
	names     []string
	summaries []*model.GameSummary
	game      *model.Game
	rows      []*model.RechargeHistoryRow
	err       error
	gotQ      string
	gotYear   string
	gotMonth  string
}

func (s *stubGames) Names(_ context.Context, q string) ([]string, error) {
	s.gotQ = q
	return s.names, s.err
}

func (s *stubGames) List(_ context.Context, year, month string) ([]*model.GameSummary, error) {
	s.gotYear, s.gotMonth = year, month
	return s.summaries, s.err
}

func (s *stubGames) Create(_ context.Context, name string, coinsRecharged float64) (*model.Game, error) {
	return s.game, s.err
}

func (s *stubGames) Update(_ context.Context, id int64, coinsRecharged *float64, lastRechargeDate *string) (*model.Game, error) {
	return s.game, s.err
}

func (s *stubGames) Delete(_ context.Context, id int64) (*model.Game, error) {
	return s.game, s.err
}

func (s *stubGames) RechargeHistory(_ context.Context, id int64, year, month string) ([]*model.RechargeHistoryRow, error) {
	return s.rows, s.err
}

type stubSessions struct {
	session *model.Session
	list    []*model.Session
	err     error
}

func (s *stubSessions) Start(_ context.Context, email string, signInAt *time.Time) (*model.Session, error) {
	return s.session, s.err
}

func (s *stubSessions) End(_ context.Context, sessionID string, signOutAt *time.Time) (*model.Session, error) {
	return s.session, s.err
}

func (s *stubSessions) List(_ context.Context, username string, latestOnly bool) ([]*model.Session, error) {
	return s.list, s.err
}

type stubEntries struct {
	entry *model.LedgerEntry
	list  []*model.LedgerEntry
	err   error
}

func (s *stubEntries) Create(_ context.Context, in service.EntryInput) (*model.LedgerEntry, error) {
	return s.entry, s.err
}

func (s *stubEntries) List(_ context.Context, username, year, month string) ([]*model.LedgerEntry, error) {
	return s.list, s.err
}

func (s *stubEntries) Delete(_ context.Context, id int64) error {
	return s.err
}

func newTestRouter(deps *Dependencies) *gin.Engine {
	if deps.Roster == nil {
		deps.Roster = &stubRoster{}
	}
	if deps.Games == nil {
		deps.Games = &stubGames{}
	}
	if deps.Sessions == nil {
		deps.Sessions = &stubSessions{}
	}
	if deps.Entries == nil {
		deps.Entries = &stubEntries{}
	}
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}
	return NewRouter(cfg, deps)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&Dependencies{})
	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListGamesWithSearchReturnsNames(t *testing.T) {
	games := &stubGames{names: []string{"Lucky7", "Orion"}}
	router := newTestRouter(&Dependencies{Games: games})

	w := doRequest(router, http.MethodGet, "/api/games?q=lu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lu", games.gotQ)

	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"Lucky7", "Orion"}, names)
}

func TestListGamesPassesMonthFilter(t *testing.T) {
	games := &stubGames{summaries: []*model.GameSummary{}}
	router := newTestRouter(&Dependencies{Games: games})

	w := doRequest(router, http.MethodGet, "/api/games?year=2024&month=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024", games.gotYear)
	assert.Equal(t, "3", games.gotMonth)
}

func TestCreateGameValidation(t *testing.T) {
	router := newTestRouter(&Dependencies{})
	w := doRequest(router, http.MethodPost, "/api/games", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestCreateGameDuplicateConflict(t *testing.T) {
	games := &stubGames{err: repository.ErrDuplicateGame}
	router := newTestRouter(&Dependencies{Games: games})

	w := doRequest(router, http.MethodPost, "/api/games", `{"name":"Lucky7"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateGameNotFound(t *testing.T) {
	games := &stubGames{err: repository.ErrGameNotFound}
	router := newTestRouter(&Dependencies{Games: games})

	w := doRequest(router, http.MethodPut, "/api/games/42", `{"coinsRecharged":100}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersPassesStatus(t *testing.T) {
	roster := &stubRoster{users: []*model.UserSummary{}}
	router := newTestRouter(&Dependencies{Roster: roster})

	w := doRequest(router, http.MethodGet, "/api/admin/users?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", roster.gotStatus)
}

func TestApproveVirtualUserPassesID(t *testing.T) {
	roster := &stubRoster{user: &model.UserAccount{ID: 1, Username: "Carol", Status: model.StatusActive}}
	router := newTestRouter(&Dependencies{Roster: roster})

	w := doRequest(router, http.MethodPatch, "/api/admin/users/virtual:Carol/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "virtual:Carol", roster.lastID)
}

func TestDeleteVirtualUser(t *testing.T) {
	roster := &stubRoster{purge: &service.PurgeResult{UsernameKey: "carol"}}
	router := newTestRouter(&Dependencies{Roster: roster})

	w := doRequest(router, http.MethodDelete, "/api/admin/users/virtual:Carol", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "virtual:Carol", roster.lastID)
	assert.Contains(t, w.Body.String(), "carol")
}

func TestStartLoginRequiresEmail(t *testing.T) {
	router := newTestRouter(&Dependencies{})
	w := doRequest(router, http.MethodPost, "/api/logins/start", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartLoginUnapprovedForbidden(t *testing.T) {
	sessions := &stubSessions{err: service.ErrNotApproved}
	router := newTestRouter(&Dependencies{Sessions: sessions})

	w := doRequest(router, http.MethodPost, "/api/logins/start", `{"email":"bob@noemail.local"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEndLoginUnknownSessionNotFound(t *testing.T) {
	sessions := &stubSessions{err: repository.ErrSessionNotFound}
	router := newTestRouter(&Dependencies{Sessions: sessions})

	w := doRequest(router, http.MethodPost, "/api/logins/end",
		`{"sessionId":"00000000-0000-0000-0000-000000000000"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEntryValidation(t *testing.T) {
	router := newTestRouter(&Dependencies{})
	w := doRequest(router, http.MethodPost, "/api/entries", `{"username":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEntryInvalidTypeBadRequest(t *testing.T) {
	entries := &stubEntries{err: service.ErrInvalidInput}
	router := newTestRouter(&Dependencies{Entries: entries})

	w := doRequest(router, http.MethodPost, "/api/entries",
		`{"username":"bob","gameName":"Lucky7","type":"bonus","amount":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnexpectedErrorIsGeneric(t *testing.T) {
	roster := &stubRoster{err: assert.AnError}
	router := newTestRouter(&Dependencies{Roster: roster})

	w := doRequest(router, http.MethodGet, "/api/admin/users", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
