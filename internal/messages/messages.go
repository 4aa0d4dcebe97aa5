// Package messages holds the localized speech strings of the skill.
package messages

import (
	"fmt"

	"github.com/ashureev/color-magic/internal/domain"
)

const (
	SkillName   = "Color Magic"
	SkillNameDE = "Malbuch Zauberer"
)

// Text is a string available in every supported language.
type Text struct {
	EN string
	DE string
}

// For returns the variant for lang, defaulting to English.
func (t Text) For(lang domain.Language) string {
	if lang.IsGerman() {
		return t.DE
	}
	return t.EN
}

// Format renders the variant for lang with fmt.Sprintf.
func (t Text) Format(lang domain.Language, args ...any) string {
	return fmt.Sprintf(t.For(lang), args...)
}

// SkillNameFor returns the localized skill name.
func SkillNameFor(lang domain.Language) string {
	return Text{EN: SkillName, DE: SkillNameDE}.For(lang)
}

var (
	NoDisplay = Text{
		EN: "Sorry, but Color Magic only works on devices with screens like the Echo Show. You need a screen to see your coloring pages!",
		DE: "Entschuldigung, aber Malbuch Zauberer funktioniert nur auf Geräten mit Bildschirm wie dem Echo Show. Du brauchst einen Bildschirm, um deine Malvorlagen zu sehen!",
	}

	namedGreeting   = Text{EN: "Hi %s!", DE: "Hallo %s!"}
	genericGreeting = Text{EN: "Hi there!", DE: "Hallo!"}

	welcomeBack = Text{
		EN: "%s Welcome back to %s! I see you've been here before. Would you like to create a new picture or continue with your last one?",
		DE: "%s Willkommen zurück bei %s! Ich sehe, du warst schon mal hier. Möchtest du ein neues Bild erstellen oder an deinem letzten Bild weiterarbeiten?",
	}

	onboarding = Text{
		EN: `%s Welcome to %s! I'm your magical assistant for creating coloring pages. Just tell me what you'd like to draw, and I'll show it on the screen. For example, say "I want a picture of a unicorn" or "Draw me a dinosaur". What would you like to create today?`,
		DE: `%s Willkommen bei %s! Ich bin dein magischer Assistent zum Erstellen von Malvorlagen. Du kannst mir einfach beschreiben, was du zeichnen möchtest, und ich zeige es dir auf dem Bildschirm. Zum Beispiel: "Ich möchte ein Bild von einem Einhorn" oder "Zeichne mir einen Dinosaurier". Was möchtest du heute malen?`,
	}

	LaunchReprompt = Text{
		EN: `Tell me what you'd like me to draw. You can say something like "I want a cat".`,
		DE: `Beschreibe mir, was ich für dich zeichnen soll. Du kannst zum Beispiel sagen: "Ich möchte eine Katze".`,
	}
)

// Greeting personalizes the opening line when a given name is known.
func Greeting(lang domain.Language, givenName string) string {
	if givenName != "" {
		return namedGreeting.Format(lang, givenName)
	}
	return genericGreeting.For(lang)
}

// Welcome returns the launch speech: a welcome back for returning users,
// onboarding with examples for first-time users.
func Welcome(lang domain.Language, greeting string, hasHistory bool) string {
	if hasHistory {
		return welcomeBack.Format(lang, greeting, SkillNameFor(lang))
	}
	return onboarding.Format(lang, greeting, SkillNameFor(lang))
}

// Conversation strings used by the intent handlers.
var (
	AskForDescription = Text{
		EN: "What would you like me to draw? Describe a picture, for example a castle with a dragon.",
		DE: "Was soll ich für dich zeichnen? Beschreibe mir ein Bild, zum Beispiel eine Burg mit einem Drachen.",
	}
	ImageReady = Text{
		EN: "Here is your coloring page of %s! Do you like it? You can say \"I like it\" or tell me what to change.",
		DE: "Hier ist deine Malvorlage von %s! Gefällt sie dir? Du kannst sagen \"Das gefällt mir\" oder mir sagen, was ich ändern soll.",
	}
	ImageReadyReprompt = Text{
		EN: "Do you like your picture, or should I change something?",
		DE: "Gefällt dir dein Bild, oder soll ich etwas ändern?",
	}
	ImageModified = Text{
		EN: "Here is your changed picture! Do you like it now?",
		DE: "Hier ist dein geändertes Bild! Gefällt es dir jetzt?",
	}
	NothingToModify = Text{
		EN: "We haven't drawn anything yet. Tell me what you'd like me to draw first.",
		DE: "Wir haben noch nichts gezeichnet. Sag mir zuerst, was ich zeichnen soll.",
	}
	AskForModification = Text{
		EN: "What should I change on your picture?",
		DE: "Was soll ich an deinem Bild ändern?",
	}
	Approved = Text{
		EN: "Wonderful, I'm glad you like it! Say \"print\" to get your coloring page, or describe a new picture.",
		DE: "Wunderbar, schön dass es dir gefällt! Sag \"drucken\", um deine Malvorlage zu bekommen, oder beschreibe ein neues Bild.",
	}
	ApprovedReprompt = Text{
		EN: "Say \"print\" or describe a new picture.",
		DE: "Sag \"drucken\" oder beschreibe ein neues Bild.",
	}
	NothingToApprove = Text{
		EN: "There is no picture to look at yet. What would you like me to draw?",
		DE: "Es gibt noch kein Bild. Was soll ich für dich zeichnen?",
	}
	Printed = Text{
		EN: "I've sent your coloring page to the Alexa app. You can open it there and print it. Would you like to draw something else?",
		DE: "Ich habe deine Malvorlage an die Alexa App geschickt. Dort kannst du sie öffnen und ausdrucken. Möchtest du noch etwas malen?",
	}
	PrintCardTitle = Text{EN: "Your coloring page", DE: "Deine Malvorlage"}
	PrintReprompt  = Text{
		EN: "Would you like to draw something else?",
		DE: "Möchtest du noch etwas malen?",
	}
	NothingToPrint = Text{
		EN: "There is nothing to print yet. Describe a picture and I'll draw it for you.",
		DE: "Es gibt noch nichts zum Drucken. Beschreibe mir ein Bild und ich zeichne es für dich.",
	}
	StartOver = Text{
		EN: "Okay, let's start fresh! What would you like me to draw?",
		DE: "Okay, wir fangen von vorne an! Was soll ich für dich zeichnen?",
	}
	Help = Text{
		EN: "With Color Magic you describe a picture and I turn it into a coloring page on your screen. Say for example \"draw a fox in the forest\". You can ask me to change it, say \"I like it\" to keep it, or \"print\" to get it in the Alexa app. What would you like to draw?",
		DE: "Mit Malbuch Zauberer beschreibst du ein Bild und ich mache daraus eine Malvorlage auf deinem Bildschirm. Sag zum Beispiel \"Zeichne einen Fuchs im Wald\". Du kannst mich bitten, es zu ändern, sagen \"Das gefällt mir\", um es zu behalten, oder \"drucken\", um es in der Alexa App zu bekommen. Was möchtest du malen?",
	}
	Goodbye = Text{
		EN: "Goodbye, and have fun coloring!",
		DE: "Tschüss und viel Spaß beim Ausmalen!",
	}
	Unrecognized = Text{
		EN: "Sorry, I didn't understand that. You can describe a picture, for example \"draw a happy whale\".",
		DE: "Entschuldigung, das habe ich nicht verstanden. Du kannst mir ein Bild beschreiben, zum Beispiel \"Zeichne einen fröhlichen Wal\".",
	}
	GenericError = Text{
		EN: "Sorry, something went wrong. Please try that again.",
		DE: "Entschuldigung, da ist etwas schiefgelaufen. Bitte versuche es noch einmal.",
	}
)
