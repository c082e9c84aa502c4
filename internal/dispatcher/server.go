package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tour-solver-service/internal/api/dto"
	"tour-solver-service/internal/domain"
	"tour-solver-service/internal/integrity"
	"tour-solver-service/internal/platform/obs"
	"tour-solver-service/internal/ports"
)

const (
	TransportTCP  = "tcp"
	TransportUDP  = "udp"
	TransportHTTP = "http"
)

const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxMessageBytes = 4096
	DefaultQueueSize       = 128

	journalTimeout = 5 * time.Second
)

type Options struct {
	// Reject bare arrays and envelopes without a hash.
	RequireChecksum bool
	// Include initial_path, initial_distance and initial_time in replies.
	Verbose bool
	// Block on the admission policy instead of rejecting.
	WaitForAdmission bool
	RequestTimeout   time.Duration
	MaxMessageBytes  int
	Workers          int
	QueueSize        int
}

// Deps are the collaborators of a Server. Solver and Cache are required.
type Deps struct {
	Solver    ports.TourSolver
	Cache     ports.ResultCache
	Verifier  integrity.Verifier
	Admission ports.AdmissionPolicy
	Journal   ports.SolveJournal
	Metrics   *obs.Metrics
}

// Server owns the request pipeline shared by every transport:
// decode, admit, verify, cache lookup, solve, store, journal, reply.
type Server struct {
	solver    ports.TourSolver
	cache     ports.ResultCache
	verifier  integrity.Verifier
	admission ports.AdmissionPolicy
	journal   ports.SolveJournal
	metrics   *obs.Metrics
	opts      Options

	inflight singleflight.Group
	storeMu  sync.Mutex
	queued   atomic.Int64

	// queue is the running Serve's job channel, nil otherwise.
	queueMu sync.RWMutex
	queue   chan<- job
	submits sync.WaitGroup
}

func NewServer(deps Deps, opts Options) (*Server, error) {
	if deps.Solver == nil {
		return nil, errors.New("new server: solver is nil")
	}
	if deps.Cache == nil {
		return nil, errors.New("new server: cache is nil")
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = DefaultQueueSize
	}

	return &Server{
		solver:    deps.Solver,
		cache:     deps.Cache,
		verifier:  deps.Verifier,
		admission: deps.Admission,
		journal:   deps.Journal,
		metrics:   deps.Metrics,
		opts:      opts,
	}, nil
}

func (s *Server) Options() Options { return s.opts }

// QueueDepth reports requests received but not yet picked up by a worker.
func (s *Server) QueueDepth() int { return int(s.queued.Load()) }

// Handle runs one request through the pipeline and returns the reply body.
// It never fails: every error becomes an {"error": msg} object.
// When ctx has no deadline the configured request timeout applies.
func (s *Server) Handle(ctx context.Context, payload []byte, transport string) []byte {
	ctx, reqID := obs.WithRequestID(ctx)
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	res, err := s.process(ctx, payload, transport)
	if err != nil {
		return s.reject(reqID, transport, err)
	}

	body, err := json.Marshal(dto.NewSolveResponse(res, s.opts.Verbose))
	if err != nil {
		return s.reject(reqID, transport, fmt.Errorf("encode reply: %w", err))
	}

	s.metrics.ObserveRequest(transport, "ok")
	return body
}

func (s *Server) reject(reqID, transport string, err error) []byte {
	outcome := outcomeOf(err)
	s.metrics.ObserveRequest(transport, outcome)

	zap.L().Info("request rejected",
		zap.String("req_id", reqID),
		zap.String("transport", transport),
		zap.String("outcome", outcome),
		zap.Error(err),
	)

	body, _ := json.Marshal(dto.ErrorResponse{Error: domain.PublicMessage(err)})
	return body
}

func (s *Server) process(ctx context.Context, payload []byte, transport string) (_ *domain.SolveResult, err error) {
	defer obs.Time(ctx, "dispatcher.process")(&err)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: %w before start: %v", domain.ErrTimeout, err)
	}

	req, err := decodeRequest(payload)
	if err != nil {
		return nil, err
	}

	if err := s.admit(ctx); err != nil {
		return nil, err
	}

	fingerprint, err := s.fingerprint(req)
	if err != nil {
		return nil, err
	}

	if res, ok := s.cache.Get(fingerprint); ok {
		s.metrics.ObserveLookup(true)
		return res, nil
	}
	s.metrics.ObserveLookup(false)

	// Concurrent misses on one fingerprint share the leader's computation.
	v, err, _ := s.inflight.Do(fingerprint, func() (any, error) {
		// A previous leader may have stored the result after our lookup.
		if res, ok := s.cache.Get(fingerprint); ok {
			return res, nil
		}
		return s.solve(ctx, req.cities, fingerprint, transport)
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.SolveResult), nil
}

func (s *Server) admit(ctx context.Context) error {
	if s.admission == nil {
		return nil
	}

	if !s.opts.WaitForAdmission {
		if !s.admission.Allow() {
			return fmt.Errorf("admit: %w", domain.ErrRateLimited)
		}
		return nil
	}

	if err := s.admission.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("admit: %w: %v", domain.ErrTimeout, err)
		}
		return fmt.Errorf("admit: %w: %v", domain.ErrRateLimited, err)
	}
	return nil
}

// fingerprint verifies a client checksum and returns it, or derives one
// from the canonical data when the request carries none.
func (s *Server) fingerprint(req request) (string, error) {
	if req.hasHash {
		if err := s.verifier.Verify(req.data, req.hash); err != nil {
			return "", err
		}
		return req.hash, nil
	}

	if s.opts.RequireChecksum {
		return "", fmt.Errorf("verify: %w: missing hash", domain.ErrDecode)
	}

	return s.verifier.Fingerprint(req.data)
}

func (s *Server) solve(ctx context.Context, cities []domain.City, fingerprint, transport string) (*domain.SolveResult, error) {
	start := time.Now()
	res, err := s.solver.Solve(ctx, cities)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSolve(time.Since(start))

	s.storeMu.Lock()
	s.cache.Put(fingerprint, res)
	n := s.cache.Len()
	s.storeMu.Unlock()
	s.metrics.SetCacheEntries(n)

	s.record(ctx, ports.JournalEntry{
		Fingerprint:       fingerprint,
		CityCount:         len(cities),
		InitialDistance:   res.InitialDistance,
		OptimizedDistance: res.OptimizedDistance,
		OptimizationMs:    res.OptimizationTimeMs,
		Transport:         transport,
	})

	return res, nil
}

// record appends to the journal. Failures are logged and never reach the
// client; the write gets its own deadline so a nearly expired request can
// still be journaled.
func (s *Server) record(ctx context.Context, entry ports.JournalEntry) {
	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := s.journal.Record(ctx, entry); err != nil {
		zap.L().Error("journal write failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("fingerprint", entry.Fingerprint),
			zap.Error(err),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrDecode):
		return "decode_error"
	case errors.Is(err, domain.ErrIntegrity):
		return "integrity_error"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	default:
		return "internal_error"
	}
}
