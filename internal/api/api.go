// Package api sets up the HTTP routes and middleware for zhseg's REST API.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Manjussha/zhseg/internal/api/handlers"
	"github.com/Manjussha/zhseg/internal/auth"
	"github.com/Manjussha/zhseg/internal/config"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/metrics"
	"github.com/Manjussha/zhseg/internal/scheduler"
	"github.com/Manjussha/zhseg/internal/segmenter"
	"github.com/Manjussha/zhseg/internal/ws"
	"github.com/Manjussha/zhseg/web"
)

// Deps holds all dependencies injected into the API handlers.
type Deps struct {
	Segmenter *segmenter.Segmenter
	History   *history.Store
	Learning  *learning.Table
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Hub       *ws.Hub
	Scheduler *scheduler.Engine
	Guard     *auth.Guard
	Config    *config.Config
}

// SetupRoutes registers all HTTP routes on the given ServeMux.
// Uses Go 1.22 method+pattern routing syntax.
func SetupRoutes(mux *http.ServeMux, deps *Deps) {
	h := handlers.New(deps.Segmenter, deps.History, deps.Learning, deps.Metrics,
		deps.Hub, deps.Scheduler, deps.Config)

	requireAdmin := func(next http.HandlerFunc) http.Handler {
		return deps.Guard.RequireAdmin(next)
	}

	// ── Public routes ────────────────────────────────────────────────────────
	mux.HandleFunc("GET /health", health)
	mux.HandleFunc("POST /api/segment", h.Segment)
	mux.HandleFunc("GET /api/dictionary/stats", h.DictionaryStats)

	// History
	mux.HandleFunc("GET /api/v1/history", h.ListHistory)
	mux.HandleFunc("GET /api/v1/history/{id}", h.GetHistory)
	mux.Handle("DELETE /api/v1/history", requireAdmin(h.ClearHistory))

	// Learning
	mux.HandleFunc("GET /api/v1/learning", h.ListLearning)
	mux.Handle("POST /api/v1/learning/snapshot", requireAdmin(h.SnapshotLearning))

	// Metrics
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// WebSocket endpoint.
	if deps.Hub != nil {
		mux.HandleFunc("GET /ws", deps.Hub.ServeWS)
	}

	// Frontend — serve the embedded page.
	mux.HandleFunc("GET /{$}", serveIndex)
}

// NewRouter returns the full handler with recovery and logging middleware applied.
func NewRouter(deps *Deps) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, deps)
	return LoggingMiddleware(RecoveryMiddleware(mux))
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func serveIndex(w http.ResponseWriter, _ *http.Request) {
	content, err := web.Files.ReadFile("index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

// LoggingMiddleware logs each request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// RecoveryMiddleware recovers from panics and returns 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.Printf("panic: %v", rv)
				http.Error(w, `{"success":false,"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
