package alexa

// EnvelopeVersion is the response format version.
const EnvelopeVersion = "1.0"

// ResponseEnvelope is the JSON body returned to Alexa.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          *Response      `json:"response"`
}

// Response is speech, reprompt and optional visuals for one turn.
type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

// OutputSpeech is plain text speech.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reprompt is spoken when the user stays silent.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Card is shown in the companion app.
type Card struct {
	Type  string     `json:"type"`
	Title string     `json:"title,omitempty"`
	Text  string     `json:"text,omitempty"`
	Image *CardImage `json:"image,omitempty"`
}

// CardImage holds image URLs of a Standard card.
type CardImage struct {
	SmallImageURL string `json:"smallImageUrl,omitempty"`
	LargeImageURL string `json:"largeImageUrl,omitempty"`
}

// Directive is an instruction to the device, such as rendering an APL document.
type Directive struct {
	Type        string         `json:"type"`
	Token       string         `json:"token,omitempty"`
	Document    map[string]any `json:"document,omitempty"`
	Datasources map[string]any `json:"datasources,omitempty"`
}

// SpeechText returns the output speech text or "".
func (r *Response) SpeechText() string {
	if r == nil || r.OutputSpeech == nil {
		return ""
	}
	return r.OutputSpeech.Text
}

// RepromptText returns the reprompt text or "".
func (r *Response) RepromptText() string {
	if r == nil || r.Reprompt == nil {
		return ""
	}
	return r.Reprompt.OutputSpeech.Text
}

// HasDirective reports whether a directive of the given type is attached.
func (r *Response) HasDirective(directiveType string) bool {
	if r == nil {
		return false
	}
	for _, d := range r.Directives {
		if d.Type == directiveType {
			return true
		}
	}
	return false
}

// ResponseBuilder assembles a Response step by step.
type ResponseBuilder struct {
	resp Response
}

// NewResponseBuilder returns an empty builder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Speak sets the output speech. A reprompt keeps the session open.
func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	b.resp.OutputSpeech = &OutputSpeech{Type: "PlainText", Text: text}
	return b
}

// Reprompt sets the reprompt and keeps the session open.
func (b *ResponseBuilder) Reprompt(text string) *ResponseBuilder {
	b.resp.Reprompt = &Reprompt{OutputSpeech: OutputSpeech{Type: "PlainText", Text: text}}
	return b.WithShouldEndSession(false)
}

// WithStandardCard attaches a card with an image.
func (b *ResponseBuilder) WithStandardCard(title, text, smallImageURL, largeImageURL string) *ResponseBuilder {
	card := &Card{Type: "Standard", Title: title, Text: text}
	if smallImageURL != "" || largeImageURL != "" {
		card.Image = &CardImage{SmallImageURL: smallImageURL, LargeImageURL: largeImageURL}
	}
	b.resp.Card = card
	return b
}

// AddDirective appends a directive.
func (b *ResponseBuilder) AddDirective(d Directive) *ResponseBuilder {
	b.resp.Directives = append(b.resp.Directives, d)
	return b
}

// WithShouldEndSession sets whether the session ends after this turn.
func (b *ResponseBuilder) WithShouldEndSession(end bool) *ResponseBuilder {
	b.resp.ShouldEndSession = &end
	return b
}

// GetResponse returns a copy of the assembled response.
func (b *ResponseBuilder) GetResponse() *Response {
	resp := b.resp
	if len(b.resp.Directives) > 0 {
		resp.Directives = append([]Directive(nil), b.resp.Directives...)
	}
	return &resp
}
