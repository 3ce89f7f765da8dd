package core

import (
	"regexp"
	"strings"
)

const triggerMatchThreshold = 0.6

var tokenSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// tokenize splits text into words
func tokenize(text string) []string {
	words := tokenSplit.Split(text, -1)
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			result = append(result, w)
		}
	}
	return result
}

// matchTrigger compares message tokens against configured policy trigger
// phrases. Exact word hits win; otherwise containment and bigram
// similarity catch close variants ("refunds" still trips a "refund"
// trigger).
func matchTrigger(words []string, triggers []string) string {
	if len(triggers) == 0 || len(words) == 0 {
		return ""
	}

	for _, trigger := range triggers {
		triggerWords := tokenize(strings.ToLower(trigger))
		if len(triggerWords) == 0 {
			continue
		}

		matched := 0
		for _, tw := range triggerWords {
			for _, w := range words {
				if w == tw || wordSimilarity(w, tw) >= triggerMatchThreshold {
					matched++
					break
				}
			}
		}

		// every word of a multi-word trigger must be present
		if matched == len(triggerWords) {
			return trigger
		}
	}
	return ""
}

// wordSimilarity scores two words in [0,1] using character bigrams.
func wordSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		shorter, longer := len(s2), len(s1)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return 0.8 * (float64(shorter) / float64(longer))
	}
	return jaccardBigrams(s1, s2)
}

func jaccardBigrams(s1, s2 string) float64 {
	ngrams1 := extractBigrams(s1)
	ngrams2 := extractBigrams(s2)
	if len(ngrams1) == 0 || len(ngrams2) == 0 {
		return 0.0
	}

	intersection := 0
	for ng := range ngrams1 {
		if ngrams2[ng] {
			intersection++
		}
	}

	union := len(ngrams1) + len(ngrams2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func extractBigrams(s string) map[string]bool {
	ngrams := make(map[string]bool)
	runes := []rune(s)
	for i := 0; i+2 <= len(runes); i++ {
		ngrams[string(runes[i:i+2])] = true
	}
	return ngrams
}
