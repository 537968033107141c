package content

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type Language string

const (
	English Language = "en"
	Russian Language = "ru"
)

// Languages lists every supported language in display order. The first one
// is the fallback.
var Languages = []Language{English, Russian}

// ResolveLanguage maps a route segment to a supported language.
func ResolveLanguage(value string) (Language, bool) {
	for _, lang := range Languages {
		if string(lang) == value {
			return lang, true
		}
	}
	return "", false
}

// DetectLanguage picks the site language for a browser's preferred language
// tag: Russian for any tag starting with "ru" (any case), English otherwise,
// including when no preference is known. The root redirect script applies
// the same rule in the browser.
func DetectLanguage(preferred string) Language {
	if strings.HasPrefix(strings.ToLower(preferred), "ru") {
		return Russian
	}
	return English
}

// NegotiateLanguage applies DetectLanguage to the most preferred tag of an
// Accept-Language header. An empty or malformed header yields the fallback.
func NegotiateLanguage(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DetectLanguage("")
	}
	return DetectLanguage(tags[0].String())
}

// Other returns the language the switch link in the header points to.
func (l Language) Other() Language {
	if l == Russian {
		return English
	}
	return Russian
}

// Tag returns the BCP 47 tag, used for lang and hreflang attributes.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// SelfName is the language's name in itself, capitalized ("English",
// "Русский").
func (l Language) SelfName() string {
	tag := l.Tag()
	return cases.Title(tag).String(display.Self.Name(tag))
}
