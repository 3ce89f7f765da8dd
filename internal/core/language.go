package core

import (
	"strings"
	"unicode"
)

// Language is one of a small closed set of tags. Detection is pure and
// total: every input maps to exactly one tag, defaulting to English.
type Language string

const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
	LangBengali Language = "bn"
	LangArabic  Language = "ar"
	LangSpanish Language = "es"
)

var spanishKeywords = []string{
	"hola", "gracias", "cuánto", "cuanto", "precio", "comprar",
}

// DetectLanguage classifies the dominant language of a message. Script
// ranges take priority over keyword matching: a single Devanagari,
// Bengali or Arabic rune is an unambiguous signal, while Latin text
// needs the Spanish keyword list to leave the English default.
func DetectLanguage(text string) Language {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			return LangHindi
		case unicode.Is(unicode.Bengali, r):
			return LangBengali
		case unicode.Is(unicode.Arabic, r):
			return LangArabic
		}
	}

	lower := strings.ToLower(text)
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, kw := range spanishKeywords {
			if word == kw {
				return LangSpanish
			}
		}
	}

	return LangEnglish
}
