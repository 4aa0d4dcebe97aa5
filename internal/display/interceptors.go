package display

import (
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/skill"
)

// ErrorRequestInterceptor clears any display failure state before dispatch.
type ErrorRequestInterceptor struct{}

// Process implements skill.RequestInterceptor.
func (ErrorRequestInterceptor) Process(in *skill.Input) error {
	reqAttrs := in.Attributes.RequestAttributes()
	delete(reqAttrs, attrDisplayError)
	delete(reqAttrs, attrFallbackSpeech)
	return nil
}

// ErrorResponseInterceptor strips APL directives that the device cannot
// render or that belong to a failed display, and restores speech when a
// display failure left the response silent.
type ErrorResponseInterceptor struct{}

// Process implements skill.ResponseInterceptor.
func (ErrorResponseInterceptor) Process(in *skill.Input, resp *alexa.Response) error {
	failed := HadError(in)

	if failed || !in.Envelope.SupportsAPL() {
		kept := resp.Directives[:0]
		for _, d := range resp.Directives {
			if d.Type != DirectiveRenderDocument {
				kept = append(kept, d)
			}
		}
		if len(kept) != len(resp.Directives) {
			slog.Debug("Removed APL directives from response", "removed", len(resp.Directives)-len(kept))
		}
		if len(kept) == 0 {
			kept = nil
		}
		resp.Directives = kept
	}

	if failed && resp.SpeechText() == "" {
		if fallback, _ := in.Attributes.RequestAttributes()[attrFallbackSpeech].(string); fallback != "" {
			resp.OutputSpeech = &alexa.OutputSpeech{Type: "PlainText", Text: fallback}
		}
	}
	return nil
}

// RuntimeErrorHandler acknowledges APL runtime error reports from the device.
type RuntimeErrorHandler struct{}

// CanHandle implements skill.Handler.
func (RuntimeErrorHandler) CanHandle(in *skill.Input) bool {
	return in.RequestType() == alexa.RequestTypeAPLRuntimeError
}

// Handle implements skill.Handler.
func (RuntimeErrorHandler) Handle(in *skill.Input) (*alexa.Response, error) {
	for _, e := range in.Envelope.Request.Errors {
		slog.Warn("APL runtime error reported by device", "type", e.Type, "message", e.Message)
	}
	return in.ResponseBuilder.GetResponse(), nil
}
