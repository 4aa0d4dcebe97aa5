// Package handlers implements the request and intent handlers of the skill
// and assembles them into the dispatch chain.
package handlers

import (
	"context"
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/display"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/imagegen"
	"github.com/ashureev/color-magic/internal/session"
	"github.com/ashureev/color-magic/internal/skill"
)

// Intent names.
const (
	IntentDescribePicture = "DescribePictureIntent"
	IntentModifyPicture   = "ModifyPictureIntent"
	IntentApproveImage    = "ApproveImageIntent"
	IntentPrintImage      = "PrintImageIntent"
	IntentStartOver       = "StartOverIntent"
	IntentHelp            = "AMAZON.HelpIntent"
	IntentCancel          = "AMAZON.CancelIntent"
	IntentStop            = "AMAZON.StopIntent"
	IntentYes             = "AMAZON.YesIntent"
	IntentBuiltinRestart  = "AMAZON.StartOverIntent"
)

// Slot names.
const (
	SlotDescription  = "description"
	SlotModification = "modification"
)

// SessionStore gets, creates and persists conversational sessions.
type SessionStore interface {
	GetOrCreate(ctx context.Context, env *alexa.RequestEnvelope) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session) error
	StartOver(ctx context.Context, sess *domain.Session) error
}

// ErrorState tracks failed operations and phrases recovery responses.
type ErrorState interface {
	ClearRetryState(in *skill.Input)
	HandleOperationFailure(in *skill.Input, category domain.OperationCategory, err error) *alexa.Response
}

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Sessions SessionStore
	Errors   ErrorState
	Images   imagegen.Generator
	Style    string
}

// NewRouter registers every handler in dispatch order. The unrecognized
// intent handler comes last so it only sees intents nobody else claimed.
func NewRouter(deps Deps, logger *slog.Logger) *skill.Router {
	return skill.NewRouter(logger).
		AddRequestHandlers(
			NewLaunchHandler(deps.Sessions, deps.Errors),
			&DescribePictureHandler{deps: deps},
			&ModifyPictureHandler{deps: deps},
			&ApproveImageHandler{deps: deps},
			&PrintImageHandler{deps: deps},
			&StartOverHandler{deps: deps},
			HelpHandler{},
			CancelAndStopHandler{},
			SessionEndedHandler{},
			display.RuntimeErrorHandler{},
			UnrecognizedHandler{},
		).
		AddRequestInterceptors(display.ErrorRequestInterceptor{}).
		AddResponseInterceptors(display.ErrorResponseInterceptor{}).
		AddErrorHandlers(ErrorHandler{})
}

func languageOf(in *skill.Input) domain.Language {
	return domain.LanguageFromLocale(in.Envelope.Locale())
}

func mirrorSession(in *skill.Input, sess *domain.Session) {
	attrs := in.Attributes.SessionAttributes()
	session.Mirror(attrs, sess)
	in.Attributes.SetSessionAttributes(attrs)
}
