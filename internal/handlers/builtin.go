package handlers

import (
	"errors"
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/messages"
	"github.com/ashureev/color-magic/internal/skill"
)

// StartOverHandler forgets the current picture history on request.
type StartOverHandler struct {
	deps Deps
}

// CanHandle implements skill.Handler.
func (h *StartOverHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentStartOver, IntentBuiltinRestart)
}

// Handle implements skill.Handler.
func (h *StartOverHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)

	sess, err := h.deps.Sessions.GetOrCreate(in.Ctx, in.Envelope)
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}
	if err := h.deps.Sessions.StartOver(in.Ctx, sess); err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}
	h.deps.Errors.ClearRetryState(in)
	mirrorSession(in, sess)

	return in.ResponseBuilder.
		Speak(messages.StartOver.For(lang)).
		Reprompt(messages.LaunchReprompt.For(lang)).
		GetResponse(), nil
}

// HelpHandler explains how to use the skill.
type HelpHandler struct{}

// CanHandle implements skill.Handler.
func (HelpHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentHelp)
}

// Handle implements skill.Handler.
func (HelpHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)
	return in.ResponseBuilder.
		Speak(messages.Help.For(lang)).
		Reprompt(messages.LaunchReprompt.For(lang)).
		GetResponse(), nil
}

// CancelAndStopHandler says goodbye and ends the session.
type CancelAndStopHandler struct{}

// CanHandle implements skill.Handler.
func (CancelAndStopHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentCancel, IntentStop)
}

// Handle implements skill.Handler.
func (CancelAndStopHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	return in.ResponseBuilder.
		Speak(messages.Goodbye.For(languageOf(in))).
		WithShouldEndSession(true).
		GetResponse(), nil
}

// SessionEndedHandler acknowledges the end of a host session.
type SessionEndedHandler struct{}

// CanHandle implements skill.Handler.
func (SessionEndedHandler) CanHandle(in *skill.Input) bool {
	return in.RequestType() == alexa.RequestTypeSessionEnded
}

// Handle implements skill.Handler.
func (SessionEndedHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	req := in.Envelope.Request
	attrs := []any{"user_id", in.Envelope.UserID(), "reason", req.Reason}
	if req.Error != nil {
		attrs = append(attrs, "error_type", req.Error.Type, "error_message", req.Error.Message)
	}
	slog.Info("Session ended", attrs...)
	return in.ResponseBuilder.GetResponse(), nil
}

// UnrecognizedHandler catches every intent no other handler claimed,
// including AMAZON.FallbackIntent. It must be registered last.
type UnrecognizedHandler struct{}

// CanHandle implements skill.Handler.
func (UnrecognizedHandler) CanHandle(in *skill.Input) bool {
	return in.RequestType() == alexa.RequestTypeIntent
}

// Handle implements skill.Handler.
func (UnrecognizedHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)
	slog.Info("Unrecognized intent", "intent", in.Envelope.IntentName())
	return in.ResponseBuilder.
		Speak(messages.Unrecognized.For(lang)).
		Reprompt(messages.LaunchReprompt.For(lang)).
		GetResponse(), nil
}

// ErrorHandler is the terminal error handler. It accepts every failure so
// the user always hears something.
type ErrorHandler struct{}

// CanHandle implements skill.ErrorHandler.
func (ErrorHandler) CanHandle(*skill.Input, error) bool {
	return true
}

// Handle implements skill.ErrorHandler.
func (ErrorHandler) Handle(in *skill.Input, err error) (*alexa.Response, error) {
	level := slog.LevelError
	if errors.Is(err, skill.ErrNoHandler) {
		level = slog.LevelWarn
	}
	slog.Log(in.Ctx, level, "Unhandled skill error",
		"request_type", in.RequestType(),
		"intent", in.Envelope.IntentName(),
		"error", err)

	lang := languageOf(in)
	// Start from a clean builder; the failed handler may have left partial output.
	return alexa.NewResponseBuilder().
		Speak(messages.GenericError.For(lang)).
		Reprompt(messages.LaunchReprompt.For(lang)).
		GetResponse(), nil
}
