package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/shared"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned when updating a session that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	retry   shared.RetryPolicy
	writeMu sync.Mutex // Serializes writers to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteWithRetry(dbPath, shared.DefaultRetryPolicy())
}

// NewSQLiteWithRetry creates a SQLite-backed repository with a custom retry policy.
func NewSQLiteWithRetry(dbPath string, retry shared.RetryPolicy) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, retry: retry}, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetSession retrieves the session of a user.
func (s *SQLiteStore) GetSession(ctx context.Context, userID string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, language, conversation_state,
		       image_history_json, created_at, updated_at
		FROM sessions WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var session domain.Session
	var language, state, historyJSON string
	var createdAt, updatedAt int64

	err := row.Scan(
		&session.ID, &session.UserID, &language, &state,
		&historyJSON, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	if err := json.Unmarshal([]byte(historyJSON), &session.ImageHistory); err != nil {
		return nil, fmt.Errorf("decode image history for %s: %w", userID, err)
	}

	session.Language = domain.Language(language)
	session.ConversationState = domain.ConversationState(state)
	session.CreatedAt = time.Unix(createdAt, 0)
	session.UpdatedAt = time.Unix(updatedAt, 0)

	return &session, nil
}

// CreateSession inserts a session unless one already exists for the user.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) (bool, error) {
	historyJSON, err := encodeHistory(session.ImageHistory)
	if err != nil {
		return false, err
	}

	query := `
	INSERT INTO sessions (user_id, session_id, language, conversation_state,
		image_history_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO NOTHING`

	var inserted bool
	err = s.write(ctx, "create session", func() error {
		result, err := s.db.ExecContext(ctx, query,
			session.UserID, session.ID, string(session.Language),
			string(session.ConversationState), historyJSON,
			session.CreatedAt.Unix(), session.UpdatedAt.Unix(),
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		inserted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// UpdateSession persists the mutable fields of a session.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	historyJSON, err := encodeHistory(session.ImageHistory)
	if err != nil {
		return err
	}

	query := `
	UPDATE sessions SET language = ?, conversation_state = ?,
		image_history_json = ?, updated_at = ?
	WHERE user_id = ?`

	return s.write(ctx, "update session", func() error {
		result, err := s.db.ExecContext(ctx, query,
			string(session.Language), string(session.ConversationState),
			historyJSON, time.Now().Unix(), session.UserID,
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			slog.Warn("UpdateSession affected 0 rows", "user_id", session.UserID)
			return ErrSessionNotFound
		}
		return nil
	})
}

// DeleteIdleSessions removes sessions not updated within olderThan.
func (s *SQLiteStore) DeleteIdleSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	threshold := time.Now().Add(-olderThan).Unix()

	var deleted int64
	err := s.write(ctx, "delete idle sessions", func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, threshold)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	return deleted, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) write(ctx context.Context, op string, fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return shared.RetryOnConflict(ctx, s.retry, op, fn)
}

func encodeHistory(history []domain.ImageRef) (string, error) {
	if history == nil {
		history = []domain.ImageRef{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("encode image history: %w", err)
	}
	return string(data), nil
}

var _ Repository = (*SQLiteStore)(nil)
