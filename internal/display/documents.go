// Package display builds APL visuals and attaches them to responses without
// ever letting a visual failure break the spoken response.
package display

import (
	"errors"
	"fmt"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/ashureev/color-magic/internal/domain"
	"github.com/ashureev/color-magic/internal/messages"
)

// DirectiveRenderDocument is the APL render directive type.
const DirectiveRenderDocument = "Alexa.Presentation.APL.RenderDocument"

const (
	aplVersion    = "2023.3"
	welcomeToken  = "welcomeToken"
	imageToken    = "coloringPageToken"
	backgroundHex = "#FFF8E7"
)

// ErrMissingImage is returned when an image display has nothing to show.
var ErrMissingImage = errors.New("image reference has no URL")

var (
	welcomeSubtitle = messages.Text{
		EN: "Describe a picture and I'll draw a coloring page for you.",
		DE: "Beschreibe ein Bild und ich zeichne dir eine Malvorlage.",
	}
	welcomeBackSubtitle = messages.Text{
		EN: "Create a new picture or continue with your last one.",
		DE: "Erstelle ein neues Bild oder arbeite an deinem letzten weiter.",
	}
	imageHint = messages.Text{
		EN: "Try \"I like it\" or \"make it bigger\"",
		DE: "Sag \"Das gefällt mir\" oder \"mach es größer\"",
	}
)

// CreateWelcomeDisplay builds the launch screen.
func CreateWelcomeDisplay(lang domain.Language, greeting string, hasHistory bool) (alexa.Directive, error) {
	if !lang.Valid() {
		return alexa.Directive{}, fmt.Errorf("unsupported language %q", lang)
	}

	subtitle := welcomeSubtitle.For(lang)
	if hasHistory {
		subtitle = welcomeBackSubtitle.For(lang)
	}

	return alexa.Directive{
		Type:  DirectiveRenderDocument,
		Token: welcomeToken,
		Document: document(
			textItem("${payload.welcome.title}", "80dp", "bold"),
			textItem("${payload.welcome.greeting}", "48dp", "normal"),
			textItem("${payload.welcome.subtitle}", "36dp", "normal"),
		),
		Datasources: map[string]any{
			"welcome": map[string]any{
				"title":      messages.SkillNameFor(lang),
				"greeting":   greeting,
				"subtitle":   subtitle,
				"hasHistory": hasHistory,
			},
		},
	}, nil
}

// CreateImageDisplay builds the screen showing a generated coloring page.
func CreateImageDisplay(lang domain.Language, img domain.ImageRef) (alexa.Directive, error) {
	if img.URL == "" {
		return alexa.Directive{}, ErrMissingImage
	}

	return alexa.Directive{
		Type:  DirectiveRenderDocument,
		Token: imageToken,
		Document: document(
			map[string]any{
				"type":      "Image",
				"source":    "${payload.image.url}",
				"width":     "100%",
				"height":    "85%",
				"scale":     "best-fit",
				"alignSelf": "center",
			},
			textItem("${payload.image.hint}", "28dp", "normal"),
		),
		Datasources: map[string]any{
			"image": map[string]any{
				"id":     img.ID,
				"url":    img.URL,
				"prompt": img.Prompt,
				"hint":   imageHint.For(lang),
			},
		},
	}, nil
}

func document(items ...map[string]any) map[string]any {
	return map[string]any{
		"type":    "APL",
		"version": aplVersion,
		"mainTemplate": map[string]any{
			"parameters": []string{"payload"},
			"items": []any{
				map[string]any{
					"type":           "Container",
					"width":          "100vw",
					"height":         "100vh",
					"justifyContent": "center",
					"alignItems":     "center",
					"items":          items,
					"background":     backgroundHex,
				},
			},
		},
	}
}

func textItem(text, fontSize, fontWeight string) map[string]any {
	return map[string]any{
		"type":       "Text",
		"text":       text,
		"fontSize":   fontSize,
		"fontWeight": fontWeight,
		"textAlign":  "center",
		"color":      "#333333",
	}
}
