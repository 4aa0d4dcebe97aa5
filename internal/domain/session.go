package domain

import (
	"time"
)

// ConversationState is the phase a user's conversation is in.
type ConversationState string

const (
	StateAwaitingDescription ConversationState = "awaiting_description"
	StateAwaitingApproval    ConversationState = "awaiting_approval"
	StateApproved            ConversationState = "approved"
)

// ImageRef references one generated coloring page.
type ImageRef struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Printed   bool      `json:"printed,omitempty"`
}

// Session is the persisted conversational record of a user.
type Session struct {
	ID                string
	UserID            string
	Language          Language
	ConversationState ConversationState
	ImageHistory      []ImageRef
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasHistory returns true if the user has generated at least one image.
func (s *Session) HasHistory() bool {
	return len(s.ImageHistory) > 0
}

// LastImage returns the most recent image, or nil if there is none.
func (s *Session) LastImage() *ImageRef {
	if len(s.ImageHistory) == 0 {
		return nil
	}
	return &s.ImageHistory[len(s.ImageHistory)-1]
}

// RecordImage appends a generated image and waits for the user's verdict.
func (s *Session) RecordImage(img ImageRef) {
	s.ImageHistory = append(s.ImageHistory, img)
	s.ConversationState = StateAwaitingApproval
}

// Approve marks the current image as accepted.
func (s *Session) Approve() {
	s.ConversationState = StateApproved
}

// MarkLastPrinted flags the most recent image as printed.
// Returns false if there is no image.
func (s *Session) MarkLastPrinted() bool {
	img := s.LastImage()
	if img == nil {
		return false
	}
	img.Printed = true
	return true
}

// StartOver drops the conversation back to its initial phase and forgets
// all generated images. The session ID is kept.
func (s *Session) StartOver() {
	s.ConversationState = StateAwaitingDescription
	s.ImageHistory = nil
}
