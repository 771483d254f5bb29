// Package handlers provides HTTP handler implementations for the zhseg REST API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Manjussha/zhseg/internal/config"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/metrics"
	"github.com/Manjussha/zhseg/internal/scheduler"
	"github.com/Manjussha/zhseg/internal/segmenter"
	"github.com/Manjussha/zhseg/internal/ws"
)

// Handler holds all shared dependencies for API handler methods.
type Handler struct {
	seg       *segmenter.Segmenter
	history   *history.Store
	table     *learning.Table
	metrics   *metrics.Metrics
	hub       *ws.Hub
	scheduler *scheduler.Engine
	config    *config.Config
}

// New creates a Handler with all dependencies. Everything except seg and cfg may be nil;
// the matching routes then report the feature as unavailable.
func New(
	seg *segmenter.Segmenter,
	hist *history.Store,
	table *learning.Table,
	m *metrics.Metrics,
	hub *ws.Hub,
	sched *scheduler.Engine,
	cfg *config.Config,
) *Handler {
	return &Handler{
		seg:       seg,
		history:   hist,
		table:     table,
		metrics:   m,
		hub:       hub,
		scheduler: sched,
		config:    cfg,
	}
}

// ── Response helpers ──────────────────────────────────────────────────────────

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type paginatedResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data"`
	Meta    pageMeta `json:"meta"`
}

type pageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func okPaginated(w http.ResponseWriter, data any, total, page, limit int) {
	writeJSON(w, http.StatusOK, paginatedResponse{
		Success: true,
		Data:    data,
		Meta:    pageMeta{Total: total, Page: page, Limit: limit},
	})
}

func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, response{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt reads a positive integer query parameter, clamped to max.
func queryInt(r *http.Request, name string, fallback, max int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	if max > 0 && n > max {
		return max
	}
	return n
}
