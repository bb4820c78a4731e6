package textproc

import "strings"

// sentence-terminating punctuation. A boundary is a terminator immediately
// followed by whitespace; this is a heuristic, not a grammar, so
// abbreviations like "e.g. " split too. Deterministic and documented is the
// contract here, not linguistic correctness.
func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits normalized text into ordered sentence-like units.
//
// A sentence ends at a '.', '!' or '?' that is followed by whitespace; the
// terminator stays with the sentence and the whitespace is consumed. Empty
// and whitespace-only fragments are discarded. The same input always yields
// the same output, and sentences are never reordered or merged.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	var (
		sentences []string
		start     int
		prev      rune
	)

	runes := []rune(text)
	for i, r := range runes {
		if i > 0 && isTerminator(prev) && isWhitespace(r) {
			if s := strings.TrimSpace(string(runes[start:i])); s != "" {
				sentences = append(sentences, s)
			}
			start = i
		}
		prev = r
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
