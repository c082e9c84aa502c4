package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tour-solver-service/internal/adapters/admission"
	"tour-solver-service/internal/adapters/cache"
	"tour-solver-service/internal/adapters/journal"
	"tour-solver-service/internal/api"
	"tour-solver-service/internal/config"
	"tour-solver-service/internal/dispatcher"
	"tour-solver-service/internal/integrity"
	"tour-solver-service/internal/platform/db"
	"tour-solver-service/internal/platform/obs"
	"tour-solver-service/internal/ports"
	"tour-solver-service/internal/services"
)

// main is the application composition root.
// It wires the solver, cache, admission policy and journal behind ports and
// serves TCP, UDP and the optional admin HTTP surface until signalled.
func main() {
	os.Exit(serve())
}

// serve returns the process exit code once every deferred cleanup has run.
func serve() int {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Println(err)
		return 1
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server failed", zap.Error(err))
		return 1
	}
	logger.Info("server stopped")
	return 0
}

func run(ctx context.Context, cfg config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := obs.NewMetrics(reg)

	solverOpts := services.SolverOptions{Strategy: services.Strategy(cfg.Optimizer)}
	if cfg.SharedDistanceMemo {
		solverOpts.Oracle = services.NewDistanceOracle()
	}
	solver, err := services.NewSolver(solverOpts)
	if err != nil {
		return err
	}

	resultCache, err := cache.NewResultCache(cfg.CacheSize)
	if err != nil {
		return err
	}

	// RATE_LIMIT=0 disables admission control.
	var limiter ports.AdmissionPolicy = admission.Unlimited{}
	if cfg.RateLimit > 0 {
		if limiter, err = admission.NewRateLimiter(cfg.RateLimit, cfg.RatePeriod); err != nil {
			return err
		}
	}

	solveJournal, closeJournal, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	srv, err := dispatcher.NewServer(dispatcher.Deps{
		Solver:    solver,
		Cache:     resultCache,
		Verifier:  integrity.Verifier{Salt: cfg.ChecksumSalt},
		Admission: limiter,
		Journal:   solveJournal,
		Metrics:   metrics,
	}, dispatcher.Options{
		RequireChecksum:  cfg.RequireChecksum,
		Verbose:          cfg.ResponseSchema == config.SchemaVerbose,
		WaitForAdmission: cfg.AdmissionMode == config.AdmissionWait,
		RequestTimeout:   cfg.RequestTimeout,
		MaxMessageBytes:  cfg.MaxMessageBytes,
		Workers:          cfg.Workers,
		QueueSize:        cfg.QueueSize,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.ListenAddr)
	})

	if cfg.AdminAddr != "" {
		admin := &http.Server{
			Addr: cfg.AdminAddr,
			Handler: api.NewRouter(api.Deps{
				Dispatcher:   srv,
				Cache:        resultCache,
				Queue:        srv,
				Journal:      solveJournal,
				Gatherer:     reg,
				Workers:      cfg.Workers,
				MaxBodyBytes: int64(cfg.MaxMessageBytes),
			}),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
			IdleTimeout:       60 * time.Second,
		}

		g.Go(func() error {
			zap.L().Info("admin listening", zap.String("addr", cfg.AdminAddr))
			if err := admin.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return admin.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// openJournal returns a nil journal when JOURNAL_DRIVER is unset.
func openJournal(ctx context.Context, cfg config.Config) (ports.SolveJournal, func(), error) {
	switch cfg.JournalDriver {
	case "sqlite":
		j, conn, err := journal.OpenSqlite(ctx, cfg.JournalDSN)
		if err != nil {
			return nil, nil, err
		}
		zap.L().Info("solve journal enabled", zap.String("driver", "sqlite"))
		return j, func() { conn.Close() }, nil

	case "pgx":
		conn, err := db.Open(ctx, cfg.JournalDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := journal.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		zap.L().Info("solve journal enabled", zap.String("driver", "pgx"))
		return journal.NewSQLJournal(conn, journal.DialectPostgres), func() { conn.Close() }, nil

	default:
		return nil, func() {}, nil
	}
}
