// Package lexicon loads the segmentation dictionary and answers word lookups.
//
// A Lexicon is built once and never mutated afterwards, so it can be shared by any number of
// goroutines without locking.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Manjussha/zhseg/internal/score"
)

// DefaultFrequency replaces a frequency field that is not a non-negative integer.
const DefaultFrequency = 50

// maxLineBytes bounds a single dictionary line.
const maxLineBytes = 1 << 20

// ErrSourceUnavailable reports that the dictionary could not be read. Callers treat it as a
// warning: the lexicon returned alongside it is empty (or partial) but usable.
var ErrSourceUnavailable = errors.New("dictionary source unavailable")

// Entry is one dictionary word.
type Entry struct {
	Word      string
	Frequency int
	POS       string
	// Score is derived from the three fields above when the lexicon is built.
	Score float64
}

// Lexicon maps words to entries.
type Lexicon struct {
	entries map[string]Entry
	maxLen  int
}

// Builder accumulates entries for a Lexicon. Later additions of the same word win.
type Builder struct {
	entries map[string]Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Entry)}
}

// Add records a word. Empty words are ignored.
func (b *Builder) Add(word string, freq int, pos string) {
	if word == "" {
		return
	}
	b.entries[word] = Entry{Word: word, Frequency: freq, POS: pos}
}

// Build scores every entry and returns the immutable Lexicon.
// The Builder must not be used afterwards.
func (b *Builder) Build() *Lexicon {
	lex := &Lexicon{entries: make(map[string]Entry, len(b.entries))}
	for word, e := range b.entries {
		n := utf8.RuneCountInString(word)
		e.Score = score.WordScore(e.Frequency, n, e.POS)
		lex.entries[word] = e
		if n > lex.maxLen {
			lex.maxLen = n
		}
	}
	b.entries = nil
	return lex
}

// Empty returns a lexicon with no words.
func Empty() *Lexicon {
	return &Lexicon{entries: map[string]Entry{}}
}

// Load reads a dictionary file. It never returns a nil Lexicon: when the file cannot be
// opened the result is empty and the error wraps ErrSourceUnavailable.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), fmt.Errorf("lexicon.Load: %w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads dictionary lines from r. A read error keeps whatever was parsed before it.
func Parse(r io.Reader) (*Lexicon, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		word, freq, pos, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		b.Add(word, freq, pos)
	}
	lex := b.Build()
	if err := scanner.Err(); err != nil {
		return lex, fmt.Errorf("lexicon.Parse: %w: %v", ErrSourceUnavailable, err)
	}
	return lex, nil
}

// parseLine splits "word frequency pos". The POS field is the raw remainder of the line.
func parseLine(line string) (word string, freq int, pos string, ok bool) {
	if strings.HasPrefix(line, "#") {
		return "", 0, "", false
	}
	rest := strings.TrimSpace(line)
	if rest == "" {
		return "", 0, "", false
	}
	word, rest = nextField(rest)
	freqField, rest := nextField(rest)
	if freqField == "" || rest == "" {
		return "", 0, "", false
	}
	return word, parseFrequency(freqField), rest, true
}

// nextField returns the leading non-space run of s and the remainder with its leading
// whitespace removed.
func nextField(s string) (field, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func parseFrequency(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return DefaultFrequency
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > math.MaxInt {
		// Only overflow can fail here.
		return math.MaxInt
	}
	return int(n)
}

// Lookup returns the entry for word.
func (l *Lexicon) Lookup(word string) (Entry, bool) {
	e, ok := l.entries[word]
	return e, ok
}

// Contains reports whether word is in the lexicon.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.entries[word]
	return ok
}

// Size returns the number of distinct words.
func (l *Lexicon) Size() int {
	return len(l.entries)
}

// MaxWordLen returns the length in characters of the longest word.
func (l *Lexicon) MaxWordLen() int {
	return l.maxLen
}
