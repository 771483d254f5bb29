// Package learning keeps a running weight for every multi-character word the segmenter emits.
// The table is an observer only: segmentation never reads it.
package learning

import (
	"sort"
	"sync"
	"unicode/utf8"
)

const (
	// Increment is added to a word's weight each time it is observed.
	Increment = 0.05
	// MaxEntries triggers a prune once exceeded.
	MaxEntries = 15000
	// KeepEntries is the table size after a prune.
	KeepEntries = 12000
)

// WordWeight is one row of the table.
type WordWeight struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// Table is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	weights map[string]float64
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{weights: make(map[string]float64)}
}

// Observe records one segmentation result. Single-character tokens are ignored.
func (t *Table) Observe(tokens []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		t.weights[tok] += Increment
	}
	if len(t.weights) > MaxEntries {
		t.pruneLocked(KeepEntries)
	}
}

func (t *Table) pruneLocked(keep int) {
	kept := make(map[string]float64, keep)
	for _, ww := range sortedLocked(t.weights)[:keep] {
		kept[ww.Word] = ww.Weight
	}
	t.weights = kept
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.weights)
}

// Weight returns the accumulated weight of word, 0 if unseen.
func (t *Table) Weight(word string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.weights[word]
}

// Top returns up to n rows ordered by weight descending, then word ascending.
// n <= 0 returns every row.
func (t *Table) Top(n int) []WordWeight {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := sortedLocked(t.weights)
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Snapshot returns a copy of the table.
func (t *Table) Snapshot() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.weights))
	for w, v := range t.weights {
		out[w] = v
	}
	return out
}

// Restore replaces the table contents with weights, pruning if it is too large.
func (t *Table) Restore(weights map[string]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.weights = make(map[string]float64, len(weights))
	for w, v := range weights {
		t.weights[w] = v
	}
	if len(t.weights) > MaxEntries {
		t.pruneLocked(KeepEntries)
	}
}

func sortedLocked(weights map[string]float64) []WordWeight {
	rows := make([]WordWeight, 0, len(weights))
	for w, v := range weights {
		rows = append(rows, WordWeight{Word: w, Weight: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Weight != rows[j].Weight {
			return rows[i].Weight > rows[j].Weight
		}
		return rows[i].Word < rows[j].Word
	})
	return rows
}
