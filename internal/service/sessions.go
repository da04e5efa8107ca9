package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coin-admin-api/internal/identity"
	"coin-admin-api/internal/model"
	"coin-admin-api/internal/pkg/lock"
	"coin-admin-api/internal/repository"
)

// SessionService tracks login sessions. Session mutations for one
// username are serialized through a per-key lock so concurrent starts
// cannot leave two sessions open.
type SessionService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	userLock    *lock.KeyLock
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	userLock *lock.KeyLock,
) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		userLock:    userLock,
	}
}

// Start opens a session for the account with the given email. Only
// approved (active) accounts may sign in. Any session left open for the
// same username is signed out first, keeping at most one open session
// per identity.
func (s *SessionService) Start(ctx context.Context, email string, signInAt *time.Time) (*model.Session, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Status != model.StatusActive && !user.IsApproved {
		return nil, ErrNotApproved
	}

	at := time.Now().UTC()
	if signInAt != nil {
		at = signInAt.UTC()
	}

	var session *model.Session
	err = s.userLock.WithLock(user.UsernameKey, func() error {
		if _, err := s.sessionRepo.CloseOpen(ctx, user.UsernameKey, time.Now().UTC()); err != nil {
			return err
		}
		created, err := s.sessionRepo.Create(ctx, &model.Session{
			ID:          uuid.NewString(),
			Username:    user.Username,
			UsernameKey: user.UsernameKey,
			Email:       user.Email,
			SignInAt:    at,
		})
		if err != nil {
			return err
		}
		session = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// End signs out a session by id. A malformed id is a validation error,
// an unknown id is not found, and ending an already-closed session
// returns it unchanged.
func (s *SessionService) End(ctx context.Context, sessionID string, signOutAt *time.Time) (*model.Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidInput, sessionID)
	}

	at := time.Now().UTC()
	if signOutAt != nil {
		at = signOutAt.UTC()
	}

	return s.sessionRepo.CloseByID(ctx, sessionID, at)
}

// List returns sessions for approved users, newest first. An optional
// username restricts to one identity; latestOnly keeps only each user's
// most recent session.
func (s *SessionService) List(ctx context.Context, username string, latestOnly bool) ([]*model.Session, error) {
	sessions, err := s.sessionRepo.List(ctx, identity.Normalize(username), latestOnly)
	if err != nil {
		return nil, err
	}

	approved, err := s.userRepo.List(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}
	approvedKeys := make(map[string]struct{}, len(approved))
	for _, user := range approved {
		approvedKeys[user.UsernameKey] = struct{}{}
	}

	filtered := make([]*model.Session, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := approvedKeys[session.UsernameKey]; ok {
			filtered = append(filtered, session)
		}
	}
	return filtered, nil
}
