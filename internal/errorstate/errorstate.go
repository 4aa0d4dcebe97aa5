// Package errorstate tracks failed operations per host session and turns
// them into spoken recovery responses.
package errorstate

import (
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/messages"
	"github.com/ashureev/color-magic/internal/skill"
)

// AttrRetryState is the session attribute holding the retry state.
const AttrRetryState = "retryState"

var failureMessages = map[domain.OperationCategory]messages.Text{
	domain.OpSessionSave: {
		EN: "Sorry, I had trouble getting your coloring book ready.",
		DE: "Entschuldigung, ich konnte dein Malbuch gerade nicht vorbereiten.",
	},
	domain.OpImageGeneration: {
		EN: "Sorry, my magic pencils couldn't draw that picture.",
		DE: "Entschuldigung, meine Zauberstifte konnten das Bild nicht zeichnen.",
	},
	domain.OpImageModification: {
		EN: "Sorry, I couldn't change your picture.",
		DE: "Entschuldigung, ich konnte dein Bild nicht ändern.",
	},
	domain.OpPrint: {
		EN: "Sorry, I couldn't send your coloring page.",
		DE: "Entschuldigung, ich konnte deine Malvorlage nicht schicken.",
	},
}

var (
	unknownFailure = messages.Text{
		EN: "Sorry, something went wrong.",
		DE: "Entschuldigung, da ist etwas schiefgelaufen.",
	}
	firstRetry = messages.Text{
		EN: "Let's try that again.",
		DE: "Lass es uns noch einmal versuchen.",
	}
	repeatedRetry = messages.Text{
		EN: "It still didn't work, let's give it one more try.",
		DE: "Es hat wieder nicht geklappt, lass es uns noch ein letztes Mal versuchen.",
	}
	giveUp = messages.Text{
		EN: "It seems my magic isn't working right now. Please try again later.",
		DE: "Meine Zauberei funktioniert gerade leider nicht. Bitte versuche es später noch einmal.",
	}
	retryReprompt = messages.Text{
		EN: "What would you like to do?",
		DE: "Was möchtest du tun?",
	}
)

// Handler manages the retry state kept in session attributes.
type Handler struct {
	maxFailures int
}

// New creates a handler that gives up after maxFailures consecutive
// failures of one category.
func New(maxFailures int) *Handler {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &Handler{maxFailures: maxFailures}
}

// ClearRetryState forgets previous failures. It is a no-op when none exist.
func (h *Handler) ClearRetryState(in *skill.Input) {
	attrs := in.Attributes.SessionAttributes()
	if _, ok := attrs[AttrRetryState]; !ok {
		return
	}
	delete(attrs, AttrRetryState)
	in.Attributes.SetSessionAttributes(attrs)
}

// RetryState returns the current retry state of the host session.
func (h *Handler) RetryState(in *skill.Input) domain.RetryState {
	switch v := in.Attributes.SessionAttributes()[AttrRetryState].(type) {
	case domain.RetryState:
		return v
	case map[string]any:
		// Round-tripped through the host as JSON.
		var state domain.RetryState
		if c, ok := v["category"].(string); ok {
			state.Category = domain.OperationCategory(c)
		}
		if n, ok := v["count"].(float64); ok {
			state.Count = int(n)
		}
		return state
	default:
		return domain.RetryState{}
	}
}

// HandleOperationFailure records a failure of category and returns the
// spoken recovery response. The first failures invite a retry; after
// maxFailures the session ends with a suggestion to come back later.
func (h *Handler) HandleOperationFailure(in *skill.Input, category domain.OperationCategory, err error) *alexa.Response {
	lang := domain.LanguageFromLocale(in.Envelope.Locale())

	state := h.RetryState(in)
	state.Record(category)

	attrs := in.Attributes.SessionAttributes()
	attrs[AttrRetryState] = state
	in.Attributes.SetSessionAttributes(attrs)

	slog.Error("Operation failed",
		"category", category,
		"attempt", state.Count,
		"user_id", in.Envelope.UserID(),
		"error", err)

	failure, ok := failureMessages[category]
	if !ok {
		failure = unknownFailure
	}

	if state.Count > h.maxFailures {
		return in.ResponseBuilder.
			Speak(failure.For(lang) + " " + giveUp.For(lang)).
			WithShouldEndSession(true).
			GetResponse()
	}

	retry := firstRetry
	if state.Count > 1 {
		retry = repeatedRetry
	}
	return in.ResponseBuilder.
		Speak(failure.For(lang) + " " + retry.For(lang)).
		Reprompt(retryReprompt.For(lang)).
		GetResponse()
}
