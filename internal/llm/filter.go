package llm

import "strings"

// denylist holds self-identifying phrases that make an answer unusable in
// a branded support conversation. Matching is case-insensitive substring.
var denylist = []string{
	"as an ai",
	"i am an ai",
	"i'm an ai",
	"as a language model",
	"language model",
	"i don't have",
}

// QualityFilter rejects answers that are empty or leak disallowed phrasing.
type QualityFilter struct {
	phrases []string
}

func NewQualityFilter() *QualityFilter {
	return &QualityFilter{phrases: denylist}
}

// Check returns a rejection reason, or "" when the text is acceptable.
func (f *QualityFilter) Check(text string) string {
	if strings.TrimSpace(text) == "" {
		return "empty answer"
	}
	lower := strings.ToLower(text)
	for _, phrase := range f.phrases {
		if strings.Contains(lower, phrase) {
			return "contains disallowed phrase: " + phrase
		}
	}
	return ""
}
