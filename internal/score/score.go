// Package score converts raw lexicon data into the numeric weights used by the segmenter.
// Every function here is pure.
package score

import "math"

// Constants for the segmentation search.
const (
	// SingleCharScore is added for every one-character step, punctuation included.
	SingleCharScore = 0.8
	// LexiconBonus is the flat bonus added to a dictionary word before its length multiplier.
	LexiconBonus = 5.0
	// MaxWordLen is the longest span (in characters) the search will ever consider.
	MaxWordLen = 8

	maxFreqScore = 2.5
)

var posScores = map[string]float64{
	"n":  1.3,
	"v":  1.2,
	"a":  1.1,
	"nr": 1.5,
	"d":  0.9,
	"r":  0.8,
	"t":  1.2,
	"s":  1.2,
}

// WordScore returns the precomputed score of a lexicon word.
func WordScore(freq, length int, pos string) float64 {
	return FreqScore(freq) * LengthScore(length) * POSScore(pos)
}

// FreqScore is ln(freq+1)/10 capped at 2.5. Negative frequencies count as zero.
func FreqScore(freq int) float64 {
	if freq < 0 {
		freq = 0
	}
	return math.Min(math.Log(float64(freq)+1)/10.0, maxFreqScore)
}

// LengthScore favours three-character words.
func LengthScore(length int) float64 {
	switch {
	case length == 1:
		return 0.5
	case length == 2:
		return 1.4
	case length == 3:
		return 1.8
	case length == 4:
		return 1.6
	case length >= 5:
		return 1.4
	default:
		return 1.0
	}
}

// POSScore returns the multiplier for a part-of-speech tag, 1.0 for unknown tags.
func POSScore(pos string) float64 {
	if s, ok := posScores[pos]; ok {
		return s
	}
	return 1.0
}

// FallbackScore scores a span that is not in the lexicon. The values sit far below
// SingleCharScore so unknown multi-character spans almost never win.
func FallbackScore(length int) float64 {
	switch {
	case length == 1:
		return 0.4
	case length == 2:
		return 0.05
	case length == 3:
		return 0.03
	case length == 4:
		return 0.02
	default:
		return 0.01
	}
}

// LengthBonus is the multiplier applied to a matched dictionary word of the given length.
func LengthBonus(length int) float64 {
	switch {
	case length == 4:
		return 5.0
	case length == 3:
		return 3.0
	case length >= 5:
		return 4.0
	default:
		return 1.0
	}
}

// MatchScore is the contribution of a dictionary word with precomputed score wordScore.
func MatchScore(wordScore float64, length int) float64 {
	return (wordScore + LexiconBonus) * LengthBonus(length)
}
