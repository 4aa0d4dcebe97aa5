// Package imagegen talks to the coloring-page image backend.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashureev/color-magic/internal/domain"
)

var (
	// ErrBackendUnavailable is returned when the backend cannot be reached
	// or generation is disabled.
	ErrBackendUnavailable = errors.New("image backend unavailable")
	// ErrEmptyPrompt is returned for blank descriptions.
	ErrEmptyPrompt = errors.New("image prompt is empty")
	// ErrInvalidResponse is returned when the backend answers without an image.
	ErrInvalidResponse = errors.New("image backend returned no image")
)

// Request describes one coloring page to generate.
type Request struct {
	Prompt   string
	Style    string
	Language domain.Language
	// ParentID is the image being modified, if any.
	ParentID string
}

// Generator produces coloring page images.
type Generator interface {
	Generate(ctx context.Context, req Request) (domain.ImageRef, error)
}

// Disabled is the Generator used when no backend is configured.
type Disabled struct{}

// Generate always fails with ErrBackendUnavailable.
func (Disabled) Generate(context.Context, Request) (domain.ImageRef, error) {
	return domain.ImageRef{}, fmt.Errorf("%w: no backend configured", ErrBackendUnavailable)
}

// ColoringPagePrompt turns a spoken description into a backend prompt.
func ColoringPagePrompt(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	return "A black and white coloring page for children showing " + description +
		". Thick clean outlines, no shading, no color, plain white background."
}

// ModifiedPrompt applies a spoken change to an earlier prompt.
func ModifiedPrompt(previous, modification string) string {
	modification = strings.TrimSpace(modification)
	if modification == "" {
		return previous
	}
	return previous + " Change: " + modification + "."
}
