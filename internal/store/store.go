// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
)

// Repository defines the interface for persisting conversational sessions.
type Repository interface {
	// GetSession retrieves the session of a user. Returns nil, nil if none exists.
	GetSession(ctx context.Context, userID string) (*domain.Session, error)

	// CreateSession inserts a session unless the user already has one.
	// Reports whether the row was inserted.
	CreateSession(ctx context.Context, session *domain.Session) (bool, error)

	// UpdateSession persists language, conversation state and image history.
	// The session ID of an existing record is never changed.
	UpdateSession(ctx context.Context, session *domain.Session) error

	// DeleteIdleSessions removes sessions not updated within olderThan.
	DeleteIdleSessions(ctx context.Context, olderThan time.Duration) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
