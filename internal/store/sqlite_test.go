package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newSession(userID, sessionID string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:                sessionID,
		UserID:            userID,
		Language:          domain.LanguageEnglish,
		ConversationState: domain.StateAwaitingDescription,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestGetSessionMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSession(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil session, got %+v", got)
	}
}

func TestCreateSessionIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inserted, err := s.CreateSession(ctx, newSession("user-1", "sess-a"))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if !inserted {
		t.Fatal("Expected first create to insert")
	}

	inserted, err = s.CreateSession(ctx, newSession("user-1", "sess-b"))
	if err != nil {
		t.Fatalf("second CreateSession failed: %v", err)
	}
	if inserted {
		t.Error("Expected second create to be a no-op")
	}

	got, err := s.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != "sess-a" {
		t.Errorf("Expected stable session id sess-a, got %s", got.ID)
	}
	if got.HasHistory() {
		t.Errorf("Expected empty history, got %v", got.ImageHistory)
	}
}

func TestUpdateSessionPersistsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := newSession("user-1", "sess-a")
	if _, err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sess.Language = domain.LanguageGerman
	sess.RecordImage(domain.ImageRef{ID: "img-1", Prompt: "ein Einhorn", URL: "https://img/1.png"})
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	got, err := s.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Language != domain.LanguageGerman {
		t.Errorf("Expected de, got %s", got.Language)
	}
	if got.ConversationState != domain.StateAwaitingApproval {
		t.Errorf("Expected awaiting_approval, got %s", got.ConversationState)
	}
	if len(got.ImageHistory) != 1 || got.ImageHistory[0].URL != "https://img/1.png" {
		t.Errorf("Unexpected history: %+v", got.ImageHistory)
	}
}

func TestUpdateSessionMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateSession(context.Background(), newSession("ghost", "sess-x"))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteIdleSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := newSession("old-user", "sess-old")
	old.UpdatedAt = time.Now().Add(-48 * time.Hour)
	if _, err := s.CreateSession(ctx, old); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := s.CreateSession(ctx, newSession("new-user", "sess-new")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	deleted, err := s.DeleteIdleSessions(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("DeleteIdleSessions failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted, got %d", deleted)
	}

	if got, _ := s.GetSession(ctx, "new-user"); got == nil {
		t.Error("Expected fresh session to survive")
	}
}

func TestReopenKeepsSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if _, err := first.CreateSession(ctx, newSession("user-1", "sess-1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Migrations already applied; opening again must not fail or reset data.
	second, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.ID != "sess-1" {
		t.Fatalf("GetSession after reopen = %+v, want sess-1", got)
	}
}
