// Package segmenter splits unsegmented Chinese text into words.
//
// Segment finds the maximum-score partition of the input with a dynamic-programming search
// over character offsets. Every offset may be reached by a one-character step, a dictionary
// word of 2..8 characters, or an unknown span of 2..8 characters scored with a deliberately
// poor fallback. Scores only improve on a strict increase, and candidates are evaluated in a
// fixed order (single character, then start offsets ascending), so equal-score ties always
// resolve the same way.
package segmenter

import (
	"math"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Manjussha/zhseg/internal/lexicon"
	"github.com/Manjussha/zhseg/internal/score"
)

// Observer receives every segmentation result. It is write-only from the search's point of
// view: nothing an Observer records is ever read back by the scoring rules.
type Observer interface {
	Observe(tokens []string)
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithObserver attaches a side-effect sink notified after every call to Segment.
func WithObserver(o Observer) Option {
	return func(s *Segmenter) { s.observer = o }
}

// WithCache keeps up to size recent results keyed by input text. size <= 0 disables caching.
func WithCache(size int) Option {
	return func(s *Segmenter) {
		if size <= 0 {
			s.cache = nil
			return
		}
		// lru.New only fails for a non-positive size.
		s.cache, _ = lru.New[string, []string](size)
	}
}

// Segmenter is safe for concurrent use. The lexicon is never modified.
type Segmenter struct {
	lex      *lexicon.Lexicon
	observer Observer
	cache    *lru.Cache[string, []string]
	// inflight collapses concurrent cache misses for the same text.
	inflight singleflight.Group
}

// New returns a Segmenter over lex. A nil lexicon is treated as empty.
func New(lex *lexicon.Lexicon, opts ...Option) *Segmenter {
	if lex == nil {
		lex = lexicon.Empty()
	}
	s := &Segmenter{lex: lex}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the dictionary at dictPath and builds a Segmenter over it.
// The returned Segmenter is always usable; a non-nil error is the soft warning from
// lexicon.Load (the lexicon is then empty).
func Initialize(dictPath string, opts ...Option) (*Segmenter, error) {
	lex, err := lexicon.Load(dictPath)
	return New(lex, opts...), err
}

// LexiconSize returns the number of dictionary words.
func (s *Segmenter) LexiconSize() int {
	return s.lex.Size()
}

// Lexicon returns the dictionary in use.
func (s *Segmenter) Lexicon() *lexicon.Lexicon {
	return s.lex
}

// Segment returns the tokens of text in order. Concatenating them reproduces text exactly.
// The empty string yields an empty slice.
func (s *Segmenter) Segment(text string) []string {
	tokens := s.lookup(text)

	out := make([]string, len(tokens))
	copy(out, tokens)
	if s.observer != nil {
		s.observer.Observe(out)
	}
	return out
}

func (s *Segmenter) lookup(text string) []string {
	if s.cache == nil {
		return s.search(text)
	}
	if cached, ok := s.cache.Get(text); ok {
		return cached
	}
	v, _, _ := s.inflight.Do(text, func() (any, error) {
		tokens := s.search(text)
		s.cache.Add(text, tokens)
		return tokens, nil
	})
	return v.([]string)
}

// cell is one lattice position: the best score for the prefix ending here and the
// character offset where its last token starts.
type cell struct {
	score float64
	from  int
}

func (s *Segmenter) search(text string) []string {
	// offsets[k] is the byte offset of character k; offsets[n] == len(text).
	offsets := charOffsets(text)
	n := len(offsets) - 1
	if n == 0 {
		return []string{}
	}

	lattice := make([]cell, n+1)
	for i := 1; i <= n; i++ {
		lattice[i] = cell{score: math.Inf(-1), from: -1}
	}

	for i := 1; i <= n; i++ {
		best := &lattice[i]

		if c := lattice[i-1].score + score.SingleCharScore; c > best.score {
			*best = cell{score: c, from: i - 1}
		}

		for j := max(0, i-score.MaxWordLen); j <= i-2; j++ {
			length := i - j
			word := text[offsets[j]:offsets[i]]

			var contribution float64
			if e, ok := s.lex.Lookup(word); ok {
				contribution = score.MatchScore(e.Score, length)
			} else {
				contribution = score.FallbackScore(length)
			}
			if c := lattice[j].score + contribution; c > best.score {
				*best = cell{score: c, from: j}
			}
		}
	}

	return backtrack(text, offsets, lattice)
}

func backtrack(text string, offsets []int, lattice []cell) []string {
	count := 0
	for i := len(lattice) - 1; i > 0; i = lattice[i].from {
		count++
	}
	tokens := make([]string, count)
	for i := len(lattice) - 1; i > 0; i = lattice[i].from {
		count--
		tokens[count] = text[offsets[lattice[i].from]:offsets[i]]
	}
	return tokens
}

// charOffsets decodes text once. An invalid byte counts as a one-byte character so that
// slicing by these offsets never loses or rewrites input bytes.
func charOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := 0; i < len(text); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return append(offsets, len(text))
}
