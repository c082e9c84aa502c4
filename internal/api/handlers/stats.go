package handlers

import (
	"net/http"

	"tour-solver-service/internal/adapters/cache"
	"tour-solver-service/internal/api/dto"
)

type CacheStatsSource interface {
	Stats() cache.CacheStats
}

type QueueStatsSource interface {
	QueueDepth() int
}

// StatsHandler reports result cache and queue counters.
type StatsHandler struct {
	Cache   CacheStatsSource
	Queue   QueueStatsSource
	Workers int
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cs := h.Cache.Stats()
	res := dto.StatsResponse{
		CacheEntries:   cs.Entries,
		CacheCapacity:  cs.Capacity,
		CacheHits:      cs.Hits,
		CacheMisses:    cs.Misses,
		CacheEvictions: cs.Evictions,
		Workers:        h.Workers,
	}
	if h.Queue != nil {
		res.QueueDepth = h.Queue.QueueDepth()
	}

	writeJSON(w, r, http.StatusOK, res)
}
