package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Manjussha/zhseg/internal/db"
	"github.com/Manjussha/zhseg/internal/quality"
)

const (
	algorithmAdvanced = "advanced"
	// resultConfidence is the fixed confidence reported for the dictionary search.
	resultConfidence = 0.95
	sourceHTTP       = "http"
)

type segmentRequest struct {
	Text      *string `json:"text"`
	Algorithm string  `json:"algorithm"`
}

type segmentResult struct {
	OriginalText    string             `json:"original_text"`
	SegmentedText   string             `json:"segmented_text"`
	WordList        []string           `json:"word_list"`
	Confidence      float64            `json:"confidence"`
	ProcessingTime  float64            `json:"processing_time"`
	Statistics      quality.Statistics `json:"statistics"`
	QualityAnalysis quality.Report     `json:"quality_analysis"`
	RequestID       string             `json:"request_id,omitempty"`
}

type segmentResponse struct {
	Success   bool          `json:"success"`
	Algorithm string        `json:"algorithm"`
	Data      segmentResult `json:"data"`
}

// Segment handles POST /api/segment.
func (h *Handler) Segment(w http.ResponseWriter, r *http.Request) {
	if h.seg == nil {
		fail(w, http.StatusInternalServerError, "segmenter is not initialized")
		return
	}

	var req segmentRequest
	if err := decode(r, &req); err != nil || req.Text == nil {
		h.metrics.IncRejected(sourceHTTP, "bad_request")
		fail(w, http.StatusBadRequest, "text is required")
		return
	}
	text := strings.TrimSpace(*req.Text)
	if text == "" {
		h.metrics.IncRejected(sourceHTTP, "empty")
		fail(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if max := h.maxTextChars(); max > 0 && utf8.RuneCountInString(text) > max {
		h.metrics.IncRejected(sourceHTTP, "too_long")
		fail(w, http.StatusRequestEntityTooLarge, "text is too long")
		return
	}

	// Every algorithm name maps to the dictionary search.
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = algorithmAdvanced
	}

	start := time.Now()
	words := h.seg.Segment(text)
	elapsed := time.Since(start)
	h.metrics.ObserveSegment(sourceHTTP, len(words), elapsed)

	result := segmentResult{
		OriginalText:    text,
		SegmentedText:   strings.Join(words, " "),
		WordList:        words,
		Confidence:      resultConfidence,
		ProcessingTime:  elapsed.Seconds(),
		Statistics:      quality.Compute(text, words),
		QualityAnalysis: quality.Analyze(words),
	}

	if h.history != nil {
		seg := &db.Segmentation{Source: sourceHTTP, Text: text, Tokens: words, ElapsedUS: elapsed.Microseconds()}
		if _, err := h.history.Record(r.Context(), seg); err != nil {
			log.Printf("handlers.Segment: record history: %v", err)
		} else {
			result.RequestID = seg.RequestID
		}
	}
	if h.table != nil {
		h.metrics.SetLearnedWords(h.table.Len())
	}
	h.hub.BroadcastSegment(result.RequestID, sourceHTTP, words)

	writeJSON(w, http.StatusOK, segmentResponse{Success: true, Algorithm: algorithm, Data: result})
}

type dictionaryStats struct {
	TotalWords   int    `json:"total_words"`
	LearnedWords int    `json:"learned_words"`
	Status       string `json:"status"`
}

// DictionaryStats handles GET /api/dictionary/stats.
func (h *Handler) DictionaryStats(w http.ResponseWriter, r *http.Request) {
	if h.seg == nil {
		fail(w, http.StatusInternalServerError, "segmenter is not initialized")
		return
	}
	stats := dictionaryStats{TotalWords: h.seg.LexiconSize(), Status: "ok"}
	if h.table != nil {
		stats.LearnedWords = h.table.Len()
	}
	ok(w, stats)
}

func (h *Handler) maxTextChars() int {
	if h.config == nil {
		return 0
	}
	return h.config.MaxTextChars
}
