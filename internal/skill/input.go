// Package skill dispatches Alexa requests to an ordered chain of handlers.
package skill

import (
	"context"

	"github.com/ashureev/color-magic/internal/alexa"
)

// Input is everything a handler sees for one request.
type Input struct {
	Ctx             context.Context
	Envelope        *alexa.RequestEnvelope
	Attributes      *AttributesManager
	ResponseBuilder *alexa.ResponseBuilder
}

// NewInput prepares the handler input for an envelope.
func NewInput(ctx context.Context, env *alexa.RequestEnvelope) *Input {
	return &Input{
		Ctx:             ctx,
		Envelope:        env,
		Attributes:      newAttributesManager(env),
		ResponseBuilder: alexa.NewResponseBuilder(),
	}
}

// RequestType returns the request type of the envelope.
func (in *Input) RequestType() string {
	return in.Envelope.Request.Type
}

// IsIntent reports whether the request is an IntentRequest for any of names.
func (in *Input) IsIntent(names ...string) bool {
	name := in.Envelope.IntentName()
	if name == "" {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// AttributesManager holds session attributes, which round-trip through the
// host for the lifetime of its session, and request attributes, which live
// for a single dispatch.
type AttributesManager struct {
	session map[string]any
	request map[string]any
}

func newAttributesManager(env *alexa.RequestEnvelope) *AttributesManager {
	m := &AttributesManager{
		session: make(map[string]any),
		request: make(map[string]any),
	}
	if env.Session != nil {
		for k, v := range env.Session.Attributes {
			m.session[k] = v
		}
	}
	return m
}

// SessionAttributes returns the live session attribute map.
func (m *AttributesManager) SessionAttributes() map[string]any {
	return m.session
}

// SetSessionAttributes replaces the session attributes.
func (m *AttributesManager) SetSessionAttributes(attrs map[string]any) {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	m.session = attrs
}

// RequestAttributes returns the per-request attribute map.
func (m *AttributesManager) RequestAttributes() map[string]any {
	return m.request
}
