package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Manjussha/zhseg/internal/history"
)

// ListHistory handles GET /api/v1/history.
// Query params: page, limit.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		fail(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	page := queryInt(r, "page", 1, 0)
	limit := queryInt(r, "limit", 20, 200)

	items, total, err := h.history.List(r.Context(), page, limit)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	okPaginated(w, items, total, page, limit)
}

// GetHistory handles GET /api/v1/history/{id}.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		fail(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	seg, err := h.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		fail(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, seg)
}

// ClearHistory handles DELETE /api/v1/history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		fail(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	n, err := h.history.Clear(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, map[string]int64{"deleted": n})
}
