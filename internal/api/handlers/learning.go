package handlers

import (
	"net/http"
)

// ListLearning handles GET /api/v1/learning.
// Query params: limit.
func (h *Handler) ListLearning(w http.ResponseWriter, r *http.Request) {
	if h.table == nil {
		fail(w, http.StatusServiceUnavailable, "learning is disabled")
		return
	}
	limit := queryInt(r, "limit", 50, 1000)
	ok(w, map[string]any{
		"total": h.table.Len(),
		"words": h.table.Top(limit),
	})
}

// SnapshotLearning handles POST /api/v1/learning/snapshot.
func (h *Handler) SnapshotLearning(w http.ResponseWriter, r *http.Request) {
	if h.table == nil || h.scheduler == nil {
		fail(w, http.StatusServiceUnavailable, "learning is disabled")
		return
	}
	n, err := h.scheduler.RunSnapshot(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, map[string]int{"saved": n})
}
