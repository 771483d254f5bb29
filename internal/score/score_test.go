package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreqScore(t *testing.T) {
	assert.Equal(t, 0.0, FreqScore(0))
	assert.Equal(t, 0.0, FreqScore(-3))
	assert.InDelta(t, math.Log(201)/10, FreqScore(200), 1e-12)
	// ln(x)/10 reaches the cap at x = e^25.
	assert.Equal(t, 2.5, FreqScore(math.MaxInt))
}

func TestLengthScore(t *testing.T) {
	cases := map[int]float64{0: 1.0, 1: 0.5, 2: 1.4, 3: 1.8, 4: 1.6, 5: 1.4, 9: 1.4}
	for length, want := range cases {
		assert.Equal(t, want, LengthScore(length), "length %d", length)
	}
}

func TestPOSScore(t *testing.T) {
	assert.Equal(t, 1.5, POSScore("nr"))
	assert.Equal(t, 0.8, POSScore("r"))
	assert.Equal(t, 1.0, POSScore("zzz"))
	assert.Equal(t, 1.0, POSScore(""))
	assert.Equal(t, 1.0, POSScore("n v"))
}

func TestWordScore(t *testing.T) {
	got := WordScore(200, 2, "v")
	want := math.Log(201) / 10 * 1.4 * 1.2
	assert.InDelta(t, want, got, 1e-12)
	assert.False(t, math.IsNaN(WordScore(0, 1, "")))
	assert.GreaterOrEqual(t, WordScore(0, 1, ""), 0.0)
}

func TestFallbackScore(t *testing.T) {
	cases := map[int]float64{1: 0.4, 2: 0.05, 3: 0.03, 4: 0.02, 5: 0.01, 8: 0.01}
	for length, want := range cases {
		assert.Equal(t, want, FallbackScore(length), "length %d", length)
	}
	// Two single characters always beat an unknown bigram.
	assert.Greater(t, 2*SingleCharScore, FallbackScore(2))
}

func TestLengthBonus(t *testing.T) {
	assert.Equal(t, 1.0, LengthBonus(2))
	assert.Equal(t, 3.0, LengthBonus(3))
	assert.Equal(t, 5.0, LengthBonus(4))
	assert.Equal(t, 4.0, LengthBonus(5))
	assert.Equal(t, 4.0, LengthBonus(8))
}

func TestMatchScore(t *testing.T) {
	assert.InDelta(t, (1.0+LexiconBonus)*5.0, MatchScore(1.0, 4), 1e-12)
	// Any dictionary bigram beats two single characters.
	assert.Greater(t, MatchScore(0, 2), 2*SingleCharScore)
}
