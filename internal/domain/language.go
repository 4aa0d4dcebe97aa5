// Package domain contains core domain types for the Color Magic skill.
package domain

import "strings"

// DefaultLocale is assumed when a request carries no locale.
const DefaultLocale = "en-US"

// Language is a supported speech language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
)

// LanguageFromLocale maps a request locale to a Language.
// Any locale starting with "de" selects German; everything else is English.
func LanguageFromLocale(locale string) Language {
	if locale == "" {
		locale = DefaultLocale
	}
	if strings.HasPrefix(locale, "de") {
		return LanguageGerman
	}
	return LanguageEnglish
}

// IsGerman returns true for LanguageGerman.
func (l Language) IsGerman() bool {
	return l == LanguageGerman
}

// Valid returns true if l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageGerman
}
