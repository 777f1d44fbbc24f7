package stats

import (
	"math"
	"strings"
	"testing"
)

func TestEstimateTokens_PureCJK(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 100} {
		text := strings.Repeat("你", n)
		want := int(math.Ceil(float64(n) / 1.5))
		if got := EstimateTokens(text); got != want {
			t.Errorf("cjk n=%d: expected %d, got %d", n, want, got)
		}
	}
}

func TestEstimateTokens_PureLatin(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7, 35} {
		text := strings.Repeat("a", n)
		want := int(math.Ceil(float64(n) / 3.5))
		if got := EstimateTokens(text); got != want {
			t.Errorf("latin n=%d: expected %d, got %d", n, want, got)
		}
	}
}

func TestEstimateTokens_MixedRoundsSeparately(t *testing.T) {
	// One CJK char and one Latin char each round up to a full token.
	if got := EstimateTokens("你a"); got != 2 {
		t.Errorf("expected separate rounding to yield 2, got %d", got)
	}
}

func TestEstimateTokens_Empty(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %d", got)
	}
}

func TestEstimateTokens_Scripts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"hiragana", "ひらがな", 3},      // ceil(4/1.5)
		{"katakana", "カタカナ", 3},      // ceil(4/1.5)
		{"hangul", "한국어", 2},          // ceil(3/1.5)
		{"punctuation", "hello, world!", 4}, // ceil(13/3.5)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
