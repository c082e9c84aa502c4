package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tour-solver-service/internal/api/handlers"
	"tour-solver-service/internal/ports"
)

// Deps are the collaborators of the admin surface. Journal and Gatherer
// are optional.
type Deps struct {
	Dispatcher   handlers.RequestHandler
	Cache        handlers.CacheStatsSource
	Queue        handlers.QueueStatsSource
	Journal      ports.SolveJournal
	Gatherer     prometheus.Gatherer
	Workers      int
	MaxBodyBytes int64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 4096
	}

	statsHandler := &handlers.StatsHandler{
		Cache:   deps.Cache,
		Queue:   deps.Queue,
		Workers: deps.Workers,
	}
	journalHandler := &handlers.JournalHandler{Journal: deps.Journal}
	solveHandler := &handlers.SolveHandler{
		Dispatcher:   deps.Dispatcher,
		MaxBodyBytes: deps.MaxBodyBytes,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stats", statsHandler.Get)
	mux.HandleFunc("/journal", journalHandler.List)
	mux.HandleFunc("/solve", solveHandler.Solve)

	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return loggingMiddleware(mux)
}
