package handlers

import (
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/display"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/imagegen"
	"github.com/ashureev/color-magic/internal/messages"
	"github.com/ashureev/color-magic/internal/session"
	"github.com/ashureev/color-magic/internal/skill"
)

// DescribePictureHandler draws a new coloring page from a description.
type DescribePictureHandler struct {
	deps Deps
}

// CanHandle implements skill.Handler.
func (h *DescribePictureHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentDescribePicture)
}

// Handle implements skill.Handler.
func (h *DescribePictureHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)

	sess, err := h.deps.Sessions.GetOrCreate(in.Ctx, in.Envelope)
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}

	description := in.Envelope.SlotValue(SlotDescription)
	prompt := imagegen.ColoringPagePrompt(description)
	if prompt == "" {
		sess.ConversationState = domain.StateAwaitingDescription
		if err := h.deps.Sessions.Save(in.Ctx, sess); err != nil {
			slog.Warn("Failed to save conversation state", "user_id", sess.UserID, "error", err)
		}
		mirrorSession(in, sess)
		return in.ResponseBuilder.
			Speak(messages.AskForDescription.For(lang)).
			Reprompt(messages.LaunchReprompt.For(lang)).
			GetResponse(), nil
	}

	img, err := h.deps.Images.Generate(in.Ctx, imagegen.Request{
		Prompt:   prompt,
		Style:    h.deps.Style,
		Language: sess.Language,
	})
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpImageGeneration, err), nil
	}

	return showImage(in, h.deps, sess, img, messages.ImageReady.Format(lang, description))
}

// ModifyPictureHandler redraws the last coloring page with a change.
type ModifyPictureHandler struct {
	deps Deps
}

// CanHandle implements skill.Handler.
func (h *ModifyPictureHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentModifyPicture)
}

// Handle implements skill.Handler.
func (h *ModifyPictureHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)

	sess, err := h.deps.Sessions.GetOrCreate(in.Ctx, in.Envelope)
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}

	last := sess.LastImage()
	if last == nil {
		return in.ResponseBuilder.
			Speak(messages.NothingToModify.For(lang)).
			Reprompt(messages.LaunchReprompt.For(lang)).
			GetResponse(), nil
	}

	modification := in.Envelope.SlotValue(SlotModification)
	if modification == "" {
		return in.ResponseBuilder.
			Speak(messages.AskForModification.For(lang)).
			Reprompt(messages.AskForModification.For(lang)).
			GetResponse(), nil
	}

	img, err := h.deps.Images.Generate(in.Ctx, imagegen.Request{
		Prompt:   imagegen.ModifiedPrompt(last.Prompt, modification),
		Style:    h.deps.Style,
		Language: sess.Language,
		ParentID: last.ID,
	})
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpImageModification, err), nil
	}

	return showImage(in, h.deps, sess, img, messages.ImageModified.For(lang))
}

// showImage records a freshly generated image and presents it.
func showImage(in *skill.Input, deps Deps, sess *domain.Session, img domain.ImageRef, speech string) (*alexa.Response, error) {
	lang := languageOf(in)

	sess.RecordImage(img)
	if err := deps.Sessions.Save(in.Ctx, sess); err != nil {
		return deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}
	deps.Errors.ClearRetryState(in)
	mirrorSession(in, sess)

	slog.Info("Image added to history", "user_id", sess.UserID, "image_id", img.ID, "history", len(sess.ImageHistory))

	in.ResponseBuilder.
		Speak(speech).
		Reprompt(messages.ImageReadyReprompt.For(lang))

	display.SafeCreateAPLDirective(in, func() (alexa.Directive, error) {
		return display.CreateImageDisplay(lang, img)
	}, speech)

	return in.ResponseBuilder.GetResponse(), nil
}

// ApproveImageHandler accepts the current picture.
type ApproveImageHandler struct {
	deps Deps
}

// CanHandle implements skill.Handler. A plain "yes" counts as approval
// while a picture is waiting for a verdict.
func (h *ApproveImageHandler) CanHandle(in *skill.Input) bool {
	if in.IsIntent(IntentApproveImage) {
		return true
	}
	if !in.IsIntent(IntentYes) {
		return false
	}
	state, _ := in.Attributes.SessionAttributes()[session.AttrConversationState].(string)
	return domain.ConversationState(state) == domain.StateAwaitingApproval
}

// Handle implements skill.Handler.
func (h *ApproveImageHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)

	sess, err := h.deps.Sessions.GetOrCreate(in.Ctx, in.Envelope)
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}

	if sess.LastImage() == nil {
		return in.ResponseBuilder.
			Speak(messages.NothingToApprove.For(lang)).
			Reprompt(messages.LaunchReprompt.For(lang)).
			GetResponse(), nil
	}

	sess.Approve()
	if err := h.deps.Sessions.Save(in.Ctx, sess); err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}
	mirrorSession(in, sess)

	return in.ResponseBuilder.
		Speak(messages.Approved.For(lang)).
		Reprompt(messages.ApprovedReprompt.For(lang)).
		GetResponse(), nil
}

// PrintImageHandler sends the current picture to the companion app.
type PrintImageHandler struct {
	deps Deps
}

// CanHandle implements skill.Handler.
func (h *PrintImageHandler) CanHandle(in *skill.Input) bool {
	return in.IsIntent(IntentPrintImage)
}

// Handle implements skill.Handler.
func (h *PrintImageHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	lang := languageOf(in)

	sess, err := h.deps.Sessions.GetOrCreate(in.Ctx, in.Envelope)
	if err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpSessionSave, err), nil
	}

	last := sess.LastImage()
	if last == nil {
		return in.ResponseBuilder.
			Speak(messages.NothingToPrint.For(lang)).
			Reprompt(messages.LaunchReprompt.For(lang)).
			GetResponse(), nil
	}
	img := *last

	sess.MarkLastPrinted()
	if err := h.deps.Sessions.Save(in.Ctx, sess); err != nil {
		return h.deps.Errors.HandleOperationFailure(in, domain.OpPrint, err), nil
	}
	mirrorSession(in, sess)

	slog.Info("Coloring page sent to companion app", "user_id", sess.UserID, "image_id", img.ID)

	return in.ResponseBuilder.
		Speak(messages.Printed.For(lang)).
		Reprompt(messages.PrintReprompt.For(lang)).
		WithStandardCard(messages.PrintCardTitle.For(lang), messages.SkillNameFor(lang), img.URL, img.URL).
		GetResponse(), nil
}
