// Package alexa defines the request and response envelopes exchanged with
// the Alexa Skills Kit and a builder for responses.
package alexa

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/ashureev/color-magic/internal/domain"
)

// Request types.
const (
	RequestTypeLaunch          = "LaunchRequest"
	RequestTypeIntent          = "IntentRequest"
	RequestTypeSessionEnded    = "SessionEndedRequest"
	RequestTypeAPLRuntimeError = "Alexa.Presentation.APL.RuntimeError"
	RequestTypeAPLUserEvent    = "Alexa.Presentation.APL.UserEvent"
)

// InterfaceAPL is the device capability required for visual responses.
const InterfaceAPL = "Alexa.Presentation.APL"

// RequestEnvelope is the JSON body Alexa posts for every skill invocation.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context Context  `json:"context"`
	Request Request  `json:"request"`
}

// Session is the host-managed session block of a request.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

// Application identifies the skill.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// User identifies the account linked to the device.
type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
	GivenName   string `json:"givenName,omitempty"`
}

// Context carries the device and system state.
type Context struct {
	System System `json:"System"`
}

// System describes the calling device and user.
type System struct {
	Application Application `json:"application"`
	User        User        `json:"user"`
	Device      Device      `json:"device"`
	APIEndpoint string      `json:"apiEndpoint,omitempty"`
}

// Device describes the calling device.
type Device struct {
	DeviceID            string                     `json:"deviceId"`
	SupportedInterfaces map[string]json.RawMessage `json:"supportedInterfaces,omitempty"`
}

// Request is the request block of an envelope.
type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp"`
	Locale    string  `json:"locale,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Error     *Error  `json:"error,omitempty"`
	Errors    []Error `json:"errors,omitempty"`
}

// Intent is a recognized user request category.
type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

// Slot is a named value captured for an intent.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Error is reported by SessionEnded and APL runtime error requests.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SupportsInterface reports whether the device declares the named interface.
// A missing or null entry counts as unsupported.
func (e *RequestEnvelope) SupportsInterface(name string) bool {
	raw, ok := e.Context.System.Device.SupportedInterfaces[name]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// SupportsAPL reports whether the device can render APL documents.
func (e *RequestEnvelope) SupportsAPL() bool {
	return e.SupportsInterface(InterfaceAPL)
}

// Locale returns the request locale or domain.DefaultLocale.
func (e *RequestEnvelope) Locale() string {
	if e.Request.Locale == "" {
		return domain.DefaultLocale
	}
	return e.Request.Locale
}

// UserID returns the Alexa user id from the system context, falling back to
// the session block.
func (e *RequestEnvelope) UserID() string {
	if id := e.Context.System.User.UserID; id != "" {
		return id
	}
	if e.Session != nil {
		return e.Session.User.UserID
	}
	return ""
}

// GivenName returns the user's first name if the host shared it.
func (e *RequestEnvelope) GivenName() string {
	return e.Context.System.User.GivenName
}

// ApplicationID returns the skill id the request was addressed to.
func (e *RequestEnvelope) ApplicationID() string {
	if id := e.Context.System.Application.ApplicationID; id != "" {
		return id
	}
	if e.Session != nil {
		return e.Session.Application.ApplicationID
	}
	return ""
}

// IntentName returns the intent name, or "" for non-intent requests.
func (e *RequestEnvelope) IntentName() string {
	if e.Request.Type != RequestTypeIntent || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Name
}

// SlotValue returns the trimmed value of a slot, or "".
func (e *RequestEnvelope) SlotValue(name string) string {
	if e.Request.Intent == nil {
		return ""
	}
	return strings.TrimSpace(e.Request.Intent.Slots[name].Value)
}

// RequestTime parses the request timestamp.
func (e *RequestEnvelope) RequestTime() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Request.Timestamp)
}
