package core

import (
	"fmt"
	"strings"

	"github.com/Conversly/support-orchestrator/internal/types"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

const (
	// Prompt-size bounds. Catalog and description caps keep the system
	// prompt within a predictable token budget regardless of tenant data.
	DefaultCatalogLimit    = 20
	DefaultHistoryWindow   = 10
	descriptionCharBudget  = 200
	placeholderPolicies    = "Standard policies apply."
	placeholderInstruction = "Be friendly, helpful, and professional."
	placeholderCategory    = "General"
)

// PromptContext is the immutable bundle handed to the provider chain.
type PromptContext struct {
	Business types.Business
	Catalog  []types.Product
	History  []types.ChatMessage
	Snippets []types.KnowledgeSnippet
	Language Language
	ImageURL *string
}

// Assembler builds prompt contexts with fixed caps. Zero values fall back
// to the defaults above.
type Assembler struct {
	CatalogLimit  int
	HistoryWindow int
}

func NewAssembler(catalogLimit, historyWindow int) *Assembler {
	if catalogLimit <= 0 {
		catalogLimit = DefaultCatalogLimit
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Assembler{CatalogLimit: catalogLimit, HistoryWindow: historyWindow}
}

// Assemble caps the catalog and history and normalizes optional product
// fields. It never fails: absent fields degrade to explicit placeholders.
func (a *Assembler) Assemble(biz *types.Business, history []types.ChatMessage, message string, imageURL *string, snippets []types.KnowledgeSnippet) PromptContext {
	catalog := biz.Products
	if len(catalog) > a.CatalogLimit {
		catalog = catalog[:a.CatalogLimit]
	}

	normalized := make([]types.Product, len(catalog))
	for i, p := range catalog {
		if p.Category == nil || strings.TrimSpace(*p.Category) == "" {
			cat := placeholderCategory
			p.Category = &cat
		}
		if p.Description != nil {
			desc := utils.TruncateRunes(*p.Description, descriptionCharBudget)
			p.Description = &desc
		}
		normalized[i] = p
	}

	if len(history) > a.HistoryWindow {
		// keep the most recent window, oldest-first order preserved
		history = history[len(history)-a.HistoryWindow:]
	}

	return PromptContext{
		Business: *biz,
		Catalog:  normalized,
		History:  history,
		Snippets: snippets,
		Language: DetectLanguage(message),
		ImageURL: imageURL,
	}
}

// FormatPrice renders a price for prompt and fallback use.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// RenderCatalog produces the product listing block of the system prompt.
// Products without a price render without a price suffix.
func RenderCatalog(products []types.Product) string {
	if len(products) == 0 {
		return "No products available"
	}

	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Name)
		if p.Category != nil {
			b.WriteString(" (" + *p.Category + ")")
		}
		if p.Price != nil {
			b.WriteString(" – " + FormatPrice(*p.Price))
		}
		if p.Description != nil && *p.Description != "" {
			b.WriteString(": " + *p.Description)
		}
	}
	return b.String()
}

// SystemPrompt renders the full instruction block for the providers.
func (pc *PromptContext) SystemPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a helpful, sales-focused Customer Support assistant for %s.\n\n", pc.Business.Name)
	fmt.Fprintf(&b, "Business:\n- Name: %s\n", pc.Business.Name)
	fmt.Fprintf(&b, "- Description: %s\n", utils.FirstNonEmpty("not set", pc.Business.Description))
	fmt.Fprintf(&b, "- Policies: %s\n\n", utils.FirstNonEmpty(placeholderPolicies, pc.Business.Policies))
	fmt.Fprintf(&b, "Instructions: %s\n\n", utils.FirstNonEmpty(placeholderInstruction, pc.Business.AIInstructions))

	b.WriteString("Rules:\n")
	b.WriteString("- Never mention being AI or a bot\n")
	fmt.Fprintf(&b, "- Respond in the same language (detected: %s)\n", pc.Language)
	b.WriteString("- Recommend products with prices when relevant\n")
	b.WriteString("- Escalate only if user requests a human agent or serious issue\n")
	b.WriteString("- Focus on helping the customer quickly\n\n")

	fmt.Fprintf(&b, "Available Products:\n%s\n", RenderCatalog(pc.Catalog))

	if len(pc.Snippets) > 0 {
		b.WriteString("\nRelevant knowledge:\n")
		for _, s := range pc.Snippets {
			b.WriteString("- " + s.Text + "\n")
		}
	}

	if pc.ImageURL != nil && *pc.ImageURL != "" {
		fmt.Fprintf(&b, "\nThe customer attached an image: %s\n", *pc.ImageURL)
	}

	return b.String()
}
