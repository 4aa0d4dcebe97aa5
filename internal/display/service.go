package display

import (
	"fmt"
	"log/slog"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/skill"
)

// Request attribute keys used to pass display failures to the response interceptor.
const (
	attrDisplayError   = "displayError"
	attrFallbackSpeech = "displayFallbackSpeech"
)

// Builder produces one APL directive.
type Builder func() (alexa.Directive, error)

// SafeCreateAPLDirective builds a directive and attaches it to the input's
// response builder. Builder errors and panics are logged and swallowed; the
// speech already on the builder is left untouched, and fallbackSpeech is
// remembered so the response interceptor can restore speech if it is missing.
// Returns true if a directive was attached.
func SafeCreateAPLDirective(in *skill.Input, build Builder, fallbackSpeech string) bool {
	if !in.Envelope.SupportsAPL() {
		return false
	}

	directive, err := runBuilder(build)
	if err != nil {
		slog.Warn("Failed to build APL directive, continuing with speech only",
			"request_type", in.RequestType(),
			"error", err)
		reqAttrs := in.Attributes.RequestAttributes()
		reqAttrs[attrDisplayError] = true
		reqAttrs[attrFallbackSpeech] = fallbackSpeech
		return false
	}

	in.ResponseBuilder.AddDirective(directive)
	return true
}

func runBuilder(build Builder) (d alexa.Directive, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("apl builder panicked: %v", p)
		}
	}()
	return build()
}

// HadError reports whether a display failure was recorded for this request.
func HadError(in *skill.Input) bool {
	v, _ := in.Attributes.RequestAttributes()[attrDisplayError].(bool)
	return v
}
