package domain

import "testing"

func TestLanguageFromLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   Language
	}{
		{"de-DE", LanguageGerman},
		{"de-AT", LanguageGerman},
		{"en-US", LanguageEnglish},
		{"en-GB", LanguageEnglish},
		{"fr-FR", LanguageEnglish},
		{"", LanguageEnglish},
	}

	for _, tt := range tests {
		if got := LanguageFromLocale(tt.locale); got != tt.want {
			t.Errorf("LanguageFromLocale(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestSessionRecordImage(t *testing.T) {
	s := &Session{ID: "s1", ConversationState: StateAwaitingDescription}
	if s.HasHistory() {
		t.Fatal("Expected empty history")
	}
	if s.LastImage() != nil {
		t.Fatal("Expected no last image")
	}

	s.RecordImage(ImageRef{ID: "img-1", Prompt: "a cat"})
	s.RecordImage(ImageRef{ID: "img-2", Prompt: "a cat with a hat"})

	if !s.HasHistory() {
		t.Fatal("Expected history after recording")
	}
	if s.LastImage().ID != "img-2" {
		t.Errorf("Expected last image img-2, got %s", s.LastImage().ID)
	}
	if s.ConversationState != StateAwaitingApproval {
		t.Errorf("Expected awaiting approval, got %s", s.ConversationState)
	}
}

func TestSessionStartOverKeepsID(t *testing.T) {
	s := &Session{ID: "s1", ConversationState: StateApproved}
	s.RecordImage(ImageRef{ID: "img-1"})
	s.StartOver()

	if s.ID != "s1" {
		t.Errorf("Expected ID to survive start over, got %s", s.ID)
	}
	if s.HasHistory() {
		t.Error("Expected history to be cleared")
	}
	if s.ConversationState != StateAwaitingDescription {
		t.Errorf("Expected awaiting description, got %s", s.ConversationState)
	}
}

func TestMarkLastPrinted(t *testing.T) {
	s := &Session{}
	if s.MarkLastPrinted() {
		t.Fatal("Expected false without images")
	}
	s.RecordImage(ImageRef{ID: "img-1"})
	if !s.MarkLastPrinted() || !s.LastImage().Printed {
		t.Error("Expected last image to be printed")
	}
}

func TestRetryStateRecord(t *testing.T) {
	var r RetryState
	r.Record(OpSessionSave)
	r.Record(OpSessionSave)
	if r.Count != 2 {
		t.Errorf("Expected count 2, got %d", r.Count)
	}
	r.Record(OpImageGeneration)
	if r.Category != OpImageGeneration || r.Count != 1 {
		t.Errorf("Expected reset on category change, got %+v", r)
	}
}
