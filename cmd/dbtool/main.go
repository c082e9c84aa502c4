package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tour-solver-service/internal/adapters/journal"
	"tour-solver-service/internal/config"
	"tour-solver-service/internal/platform/db"
	"tour-solver-service/internal/platform/obs"
)

func main() {
	os.Exit(initAndList())
}

// initAndList returns the process exit code once every deferred cleanup
// has run.
func initAndList() int {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"), "console")
	if err != nil {
		log.Println(err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		return 1
	}

	limit, err := strconv.Atoi(config.Get("DBTOOL_RECENT", "20"))
	if err != nil || limit < 0 {
		logger.Error("DBTOOL_RECENT must be a non-negative integer", zap.String("value", config.Get("DBTOOL_RECENT", "")))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return 1
	}
	defer conn.Close()

	logger.Info("Initializing journal schema...")
	if err := journal.InitSchema(ctx, conn); err != nil {
		logger.Error("schema initialization failed", zap.Error(err))
		return 1
	}
	logger.Info("Schema ready.")

	if err := printRecent(ctx, journal.NewSQLJournal(conn, journal.DialectPostgres), limit); err != nil {
		logger.Error("list journal failed", zap.Error(err))
		return 1
	}
	return 0
}

func printRecent(ctx context.Context, j *journal.SQLJournal, limit int) error {
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tFINGERPRINT\tCITIES\tINITIAL\tOPTIMIZED\tMS\tTRANSPORT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%.3f\t%.2f\t%s\n",
			e.CreatedAt.Format(time.RFC3339),
			e.Fingerprint,
			e.CityCount,
			e.InitialDistance,
			e.OptimizedDistance,
			e.OptimizationMs,
			e.Transport,
		)
	}
	return tw.Flush()
}
