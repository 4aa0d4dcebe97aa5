package handlers

import (
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/display"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/messages"
	"github.com/ashureev/color-magic/internal/skill"
)

// WelcomeDisplayFunc builds the launch visual.
type WelcomeDisplayFunc func(lang domain.Language, greeting string, hasHistory bool) (alexa.Directive, error)

// LaunchHandler greets the user when the skill is opened.
type LaunchHandler struct {
	sessions       SessionStore
	errors         ErrorState
	welcomeDisplay WelcomeDisplayFunc
}

// NewLaunchHandler creates a launch handler using the standard welcome display.
func NewLaunchHandler(sessions SessionStore, errors ErrorState) *LaunchHandler {
	return &LaunchHandler{
		sessions:       sessions,
		errors:         errors,
		welcomeDisplay: display.CreateWelcomeDisplay,
	}
}

// WithWelcomeDisplay replaces the welcome display builder.
func (h *LaunchHandler) WithWelcomeDisplay(fn WelcomeDisplayFunc) *LaunchHandler {
	h.welcomeDisplay = fn
	return h
}

// CanHandle implements skill.Handler.
func (h *LaunchHandler) CanHandle(in *skill.Input) bool {
	return in.RequestType() == alexa.RequestTypeLaunch
}

// Handle implements skill.Handler.
func (h *LaunchHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	env := in.Envelope
	lang := languageOf(in)

	// Coloring pages need a screen.
	if !env.SupportsAPL() {
		slog.Info("Launch declined on device without display", "user_id", env.UserID(), "locale", env.Locale())
		return in.ResponseBuilder.Speak(messages.NoDisplay.For(lang)).GetResponse(), nil
	}

	h.errors.ClearRetryState(in)

	sess, err := h.sessions.GetOrCreate(in.Ctx, env)
	if err != nil {
		slog.Error("Error in launch handler", "user_id", env.UserID(), "error", err)
		return h.errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}

	mirrorSession(in, sess)

	greeting := messages.Greeting(lang, env.GivenName())
	hasHistory := sess.HasHistory()
	speech := messages.Welcome(lang, greeting, hasHistory)

	in.ResponseBuilder.
		Speak(speech).
		Reprompt(messages.LaunchReprompt.For(lang))

	display.SafeCreateAPLDirective(in, func() (alexa.Directive, error) {
		return h.welcomeDisplay(sess.Language, greeting, hasHistory)
	}, speech)

	slog.Info("Launch handled", "user_id", sess.UserID, "session_id", sess.ID, "returning", hasHistory)
	return in.ResponseBuilder.GetResponse(), nil
}
