package core

import (
	"strings"

	"github.com/Conversly/support-orchestrator/internal/types"
)

const fallbackPickLimit = 3

type fallbackTemplates struct {
	greeting        string // takes business name
	recommendations string
	tellMe          string
	helpToday       string // takes business name
}

// Localized template sets. Languages without a set fall back to English.
var fallbackByLanguage = map[Language]fallbackTemplates{
	LangEnglish: {
		greeting:        "Thanks for reaching out to %s!",
		recommendations: "Here are a few recommendations:",
		tellMe:          "Tell me what you're looking for and I'll tailor suggestions.",
		helpToday:       "Thanks for contacting %s! How can I help?",
	},
	LangSpanish: {
		greeting:        "¡Gracias por contactar a %s!",
		recommendations: "Aquí tienes algunas recomendaciones:",
		tellMe:          "Dime qué estás buscando y te daré sugerencias.",
		helpToday:       "¡Gracias por contactar a %s! ¿Cómo puedo ayudarte?",
	},
	LangBengali: {
		greeting:        "%s এ যোগাযোগ করার জন্য ধন্যবাদ!",
		recommendations: "এখানে কিছু সুপারিশ রয়েছে:",
		tellMe:          "আপনি কী খুঁজছেন তা আমাকে বলুন এবং আমি সুপারিশ করব।",
		helpToday:       "%s এ যোগাযোগ করার জন্য ধন্যবাদ! আমি কিভাবে সাহায্য করতে পারি?",
	},
}

// ComposeFallback builds the deterministic local reply used when every
// provider fails or is rejected. Pure function of its inputs; this path
// has no failure mode.
func ComposeFallback(lang Language, businessName string, products []types.Product) string {
	tmpl, ok := fallbackByLanguage[lang]
	if !ok {
		tmpl = fallbackByLanguage[LangEnglish]
	}

	if len(products) == 0 {
		return strings.Replace(tmpl.helpToday, "%s", businessName, 1)
	}

	picks := products
	if len(picks) > fallbackPickLimit {
		picks = picks[:fallbackPickLimit]
	}

	var b strings.Builder
	b.WriteString(strings.Replace(tmpl.greeting, "%s", businessName, 1))
	b.WriteString(" ")
	b.WriteString(tmpl.recommendations)
	b.WriteString("\n\n")
	for i, p := range picks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + p.Name)
		if p.Price != nil {
			b.WriteString(" – " + FormatPrice(*p.Price))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(tmpl.tellMe)
	return b.String()
}
