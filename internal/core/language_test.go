package core

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Language
	}{
		{"plain english", "Hi, do you ship to Canada?", LangEnglish},
		{"empty", "", LangEnglish},
		{"hindi script", "नमस्ते, कीमत क्या है?", LangHindi},
		{"bengali script", "এটার দাম কত?", LangBengali},
		{"arabic script", "كم السعر؟", LangArabic},
		{"spanish keyword", "hola, cuánto cuesta", LangSpanish},
		{"spanish price", "cual es el precio de esto", LangSpanish},
		{"spanish word inside english stays english", "I stayed at Hotel Granada", LangEnglish},
		{"script beats keywords", "hola कीमत", LangHindi},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLanguage(tc.text); got != tc.want {
				t.Fatalf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestDetectLanguageDeterministic(t *testing.T) {
	text := "hola gracias"
	first := DetectLanguage(text)
	for i := 0; i < 10; i++ {
		if got := DetectLanguage(text); got != first {
			t.Fatalf("detection not deterministic: %q then %q", first, got)
		}
	}
}
