// Package quality computes the summary figures returned alongside a segmentation.
package quality

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LowConfidence is the threshold under which a result is flagged.
const LowConfidence = 0.8

// Statistics describes the size of a segmentation. Lengths are in characters.
type Statistics struct {
	TotalWords    int     `json:"total_words"`
	TotalChars    int     `json:"total_chars"`
	AvgWordLength float64 `json:"avg_word_length"`
}

// Report flags tokens that carry no content.
type Report struct {
	ValidWords        int      `json:"valid_words"`
	InvalidWords      int      `json:"invalid_words"`
	OverallConfidence float64  `json:"overall_confidence"`
	QualityIssues     []string `json:"quality_issues"`
}

// Compute returns the statistics for text split into words.
func Compute(text string, words []string) Statistics {
	st := Statistics{
		TotalWords: len(words),
		TotalChars: utf8.RuneCountInString(text),
	}
	if len(words) == 0 {
		return st
	}
	sum := 0
	for _, w := range words {
		sum += utf8.RuneCountInString(w)
	}
	st.AvgWordLength = float64(sum) / float64(len(words))
	return st
}

// Analyze checks every word. A word that is empty or whitespace only is invalid.
func Analyze(words []string) Report {
	r := Report{QualityIssues: []string{}}
	if len(words) == 0 {
		return r
	}
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			r.InvalidWords++
			r.QualityIssues = append(r.QualityIssues, fmt.Sprintf("blank token: '%s'", w))
			continue
		}
		r.ValidWords++
	}
	r.OverallConfidence = float64(r.ValidWords) / float64(len(words))
	if r.OverallConfidence < LowConfidence {
		r.QualityIssues = append(r.QualityIssues, "overall confidence is low")
	}
	return r
}
