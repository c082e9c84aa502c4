package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"tour-solver-service/internal/api/dto"
	"tour-solver-service/internal/ports"
)

const (
	defaultJournalLimit = 20
	maxJournalLimit     = 500
)

// JournalHandler exposes read-only access to recently computed solves.
type JournalHandler struct {
	Journal ports.SolveJournal
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.Journal == nil {
		writeError(w, r, http.StatusNotFound, "journal disabled")
		return
	}

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxJournalLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	entries, err := h.Journal.Recent(r.Context(), limit)
	if err != nil {
		zap.L().Error("list journal failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListJournalResponse{
		Entries: make([]dto.JournalEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, dto.JournalEntryResponse{
			ID:                e.ID,
			Fingerprint:       e.Fingerprint,
			CityCount:         e.CityCount,
			InitialDistance:   e.InitialDistance,
			OptimizedDistance: e.OptimizedDistance,
			OptimizationMs:    e.OptimizationMs,
			Transport:         e.Transport,
			CreatedAt:         e.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
