package core

import (
	"strings"
	"testing"

	"github.com/Conversly/support-orchestrator/internal/types"
)

func price(v float64) *float64 { return &v }

func TestComposeFallbackWithProducts(t *testing.T) {
	products := []types.Product{
		{Name: "Widget", Price: price(9.99)},
		{Name: "Gadget", Price: price(24.50)},
		{Name: "Sprocket"},
		{Name: "Doohickey", Price: price(3)},
	}

	out := ComposeFallback(LangEnglish, "Acme", products)

	if !strings.Contains(out, "Thanks for reaching out to Acme!") {
		t.Fatalf("missing greeting: %q", out)
	}
	if !strings.Contains(out, "• Widget – $9.99") {
		t.Fatalf("missing priced pick: %q", out)
	}
	if !strings.Contains(out, "• Sprocket") || strings.Contains(out, "Sprocket – $") {
		t.Fatalf("price suffix wrong for unpriced product: %q", out)
	}
	// only the top 3 picks are rendered
	if strings.Contains(out, "Doohickey") {
		t.Fatalf("expected at most 3 picks: %q", out)
	}
}

func TestComposeFallbackNoProducts(t *testing.T) {
	out := ComposeFallback(LangEnglish, "Acme", nil)
	if out != "Thanks for contacting Acme! How can I help?" {
		t.Fatalf("unexpected generic greeting: %q", out)
	}
}

func TestComposeFallbackLocalized(t *testing.T) {
	es := ComposeFallback(LangSpanish, "Acme", nil)
	if !strings.Contains(es, "¡Gracias por contactar a Acme!") {
		t.Fatalf("expected Spanish template: %q", es)
	}

	bn := ComposeFallback(LangBengali, "Acme", nil)
	if !strings.Contains(bn, "ধন্যবাদ") {
		t.Fatalf("expected Bengali template: %q", bn)
	}

	// Languages without a template set fall back to English.
	hi := ComposeFallback(LangHindi, "Acme", nil)
	if hi != ComposeFallback(LangEnglish, "Acme", nil) {
		t.Fatalf("expected English fallback for hi: %q", hi)
	}
}

func TestComposeFallbackDeterministic(t *testing.T) {
	products := []types.Product{{Name: "Widget", Price: price(9.99)}}
	first := ComposeFallback(LangEnglish, "Acme", products)
	for i := 0; i < 5; i++ {
		if got := ComposeFallback(LangEnglish, "Acme", products); got != first {
			t.Fatalf("fallback not deterministic")
		}
	}
}
