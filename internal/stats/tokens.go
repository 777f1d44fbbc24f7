package stats

import "math"

// Characters per token for the two script classes.
const (
	cjkCharsPerToken   = 1.5
	otherCharsPerToken = 3.5
)

// isCJK reports whether a rune falls into the Unicode ranges billed at
// the denser chars-per-token rate.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul Syllables
		return true
	}
	return false
}

// countScripts splits a text's characters into CJK and everything else.
func countScripts(text string) (cjk, other int) {
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	return cjk, other
}

// EstimateTokens approximates a language-model token count when no
// authoritative count is available. The two partial counts are rounded
// up separately before summing; cached snapshots depend on this exact
// rounding policy, so it must not collapse into a single rounding.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	cjk, other := countScripts(text)
	return int(math.Ceil(float64(cjk)/cjkCharsPerToken)) +
		int(math.Ceil(float64(other)/otherCharsPerToken))
}
