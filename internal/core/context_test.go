package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Conversly/support-orchestrator/internal/types"
)

func strptr(s string) *string { return &s }

func TestAssembleCapsCatalogAndHistory(t *testing.T) {
	biz := &types.Business{ID: "b1", Name: "Acme"}
	for i := 0; i < 30; i++ {
		biz.Products = append(biz.Products, types.Product{Name: "P"})
	}

	var history []types.ChatMessage
	for i := 0; i < 25; i++ {
		history = append(history, types.ChatMessage{ID: "m", Content: "hello"})
	}

	a := NewAssembler(20, 10)
	pc := a.Assemble(biz, history, "hi", nil, nil)

	assert.Len(t, pc.Catalog, 20)
	assert.Len(t, pc.History, 10)
}

func TestAssembleNormalizesOptionalFields(t *testing.T) {
	long := strings.Repeat("x", 500)
	biz := &types.Business{
		ID:   "b1",
		Name: "Acme",
		Products: []types.Product{
			{Name: "Widget"},
			{Name: "Gadget", Category: strptr("Tools"), Description: &long},
		},
	}

	a := NewAssembler(0, 0)
	pc := a.Assemble(biz, nil, "hi", nil, nil)

	assert.Equal(t, "General", *pc.Catalog[0].Category)
	assert.Nil(t, pc.Catalog[0].Price)
	assert.Equal(t, "Tools", *pc.Catalog[1].Category)
	assert.Len(t, *pc.Catalog[1].Description, 200)
}

func TestRenderCatalog(t *testing.T) {
	products := []types.Product{
		{Name: "Widget", Category: strptr("Tools"), Price: price(9.99)},
		{Name: "Gadget", Category: strptr("General")},
	}

	out := RenderCatalog(products)
	assert.Contains(t, out, "Widget (Tools) – $9.99")
	assert.Contains(t, out, "Gadget (General)")
	assert.NotContains(t, out, "Gadget (General) –")

	assert.Equal(t, "No products available", RenderCatalog(nil))
}

func TestSystemPromptPlaceholders(t *testing.T) {
	biz := &types.Business{ID: "b1", Name: "Acme"}
	a := NewAssembler(0, 0)
	pc := a.Assemble(biz, nil, "hola precio", nil, nil)

	prompt := pc.SystemPrompt()
	assert.Contains(t, prompt, "Customer Support assistant for Acme")
	assert.Contains(t, prompt, "Standard policies apply.")
	assert.Contains(t, prompt, "Be friendly, helpful, and professional.")
	assert.Contains(t, prompt, "detected: es")
	assert.Contains(t, prompt, "No products available")
}

func TestSystemPromptIncludesSnippetsAndImage(t *testing.T) {
	biz := &types.Business{ID: "b1", Name: "Acme"}
	a := NewAssembler(0, 0)
	snippets := []types.KnowledgeSnippet{{Text: "Returns accepted within 30 days."}}
	pc := a.Assemble(biz, nil, "hi", strptr("https://cdn.example/img.png"), snippets)

	prompt := pc.SystemPrompt()
	assert.Contains(t, prompt, "Returns accepted within 30 days.")
	assert.Contains(t, prompt, "https://cdn.example/img.png")
}
