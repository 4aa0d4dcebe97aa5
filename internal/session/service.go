// Package session owns the per-user conversational record: idempotent
// get-or-create, persistence of state changes and retention.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/store"
	"github.com/google/uuid"
)

var (
	// ErrStoreUnavailable wraps any failure of the backing repository.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrNoUser is returned for requests that carry no user id.
	ErrNoUser = errors.New("request has no user id")
)

// Session attribute keys mirrored into the host session.
const (
	AttrUserSessionID     = "userSessionId"
	AttrLanguage          = "language"
	AttrConversationState = "conversationState"
)

// Service is the session store used by handlers.
type Service struct {
	repo  store.Repository
	now   func() time.Time
	newID func() string
}

// NewService creates a session service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// GetOrCreate returns the user's session, creating it on first contact.
// Concurrent first contacts converge on a single stored session.
func (s *Service) GetOrCreate(ctx context.Context, env *alexa.RequestEnvelope) (*domain.Session, error) {
	userID := env.UserID()
	if userID == "" {
		return nil, ErrNoUser
	}

	existing, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now()
	fresh := &domain.Session{
		ID:                s.newID(),
		UserID:            userID,
		Language:          domain.LanguageFromLocale(env.Locale()),
		ConversationState: domain.StateAwaitingDescription,
		ImageHistory:      []domain.ImageRef{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	inserted, err := s.repo.CreateSession(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if inserted {
		slog.Info("Session created", "user_id", userID, "session_id", fresh.ID, "language", fresh.Language)
		return fresh, nil
	}

	// Another request created the session first.
	winner, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if winner == nil {
		return nil, fmt.Errorf("%w: session for %s vanished after create", ErrStoreUnavailable, userID)
	}
	return winner, nil
}

// Save persists conversation state and image history.
func (s *Service) Save(ctx context.Context, sess *domain.Session) error {
	if err := s.repo.UpdateSession(ctx, sess); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// StartOver resets the user's conversation and forgets generated images.
func (s *Service) StartOver(ctx context.Context, sess *domain.Session) error {
	sess.StartOver()
	slog.Info("Session reset", "user_id", sess.UserID, "session_id", sess.ID)
	return s.Save(ctx, sess)
}

// Mirror copies session identity fields into host session attributes so
// later requests in the same host session can read them without a lookup.
func Mirror(attrs map[string]any, sess *domain.Session) {
	attrs[AttrUserSessionID] = sess.ID
	attrs[AttrLanguage] = string(sess.Language)
	attrs[AttrConversationState] = string(sess.ConversationState)
}
