package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SchemaMinimal = "minimal"
	SchemaVerbose = "verbose"

	OptimizerIncremental = "incremental"
	OptimizerFull        = "full"

	AdmissionReject = "reject"
	AdmissionWait   = "wait"
)

// Config is the server configuration, read from the environment
// (optionally seeded from a .env file by the caller).
type Config struct {
	ListenAddr         string
	AdminAddr          string
	CacheSize          int
	Workers            int
	QueueSize          int
	RequestTimeout     time.Duration
	MaxMessageBytes    int
	RateLimit          int
	RatePeriod         time.Duration
	AdmissionMode      string
	RequireChecksum    bool
	ChecksumSalt       string
	ResponseSchema     string
	Optimizer          string
	SharedDistanceMemo bool
	JournalDriver      string
	JournalDSN         string
	LogLevel           string
	LogFormat          string
}

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var errs []error

	intVar := func(key string, fallback int) int {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return n
	}
	durVar := func(key string, fallback time.Duration) time.Duration {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return d
	}
	boolVar := func(key string, fallback bool) bool {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return b
	}

	cfg := Config{
		ListenAddr:         Get("LISTEN_ADDR", "127.0.0.1:3000"),
		AdminAddr:          Get("ADMIN_ADDR", ""),
		CacheSize:          intVar("CACHE_SIZE", 1000),
		Workers:            intVar("WORKERS", 1),
		QueueSize:          intVar("QUEUE_SIZE", 128),
		RequestTimeout:     durVar("REQUEST_TIMEOUT", 30*time.Second),
		MaxMessageBytes:    intVar("MAX_MESSAGE_BYTES", 4096),
		RateLimit:          intVar("RATE_LIMIT", 500),
		RatePeriod:         durVar("RATE_PERIOD", 60*time.Second),
		AdmissionMode:      strings.ToLower(Get("ADMISSION_MODE", AdmissionReject)),
		RequireChecksum:    boolVar("REQUIRE_CHECKSUM", false),
		ChecksumSalt:       os.Getenv("CHECKSUM_SALT"),
		ResponseSchema:     strings.ToLower(Get("RESPONSE_SCHEMA", SchemaMinimal)),
		Optimizer:          strings.ToLower(Get("OPTIMIZER", OptimizerIncremental)),
		SharedDistanceMemo: boolVar("SHARED_DISTANCE_MEMO", false),
		JournalDriver:      strings.ToLower(Get("JOURNAL_DRIVER", "")),
		JournalDSN:         Get("JOURNAL_DSN", ""),
		LogLevel:           Get("LOG_LEVEL", "info"),
		LogFormat:          Get("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// Validate reports the first group of invalid settings.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("LISTEN_ADDR must not be empty"))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize))
	}
	if c.Workers < 1 || c.Workers > 256 {
		errs = append(errs, fmt.Errorf("WORKERS must be between 1 and 256, got %d", c.Workers))
	}
	if c.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must not be negative, got %d", c.QueueSize))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.MaxMessageBytes < 64 || c.MaxMessageBytes > 65507 {
		errs = append(errs, fmt.Errorf("MAX_MESSAGE_BYTES must be between 64 and 65507, got %d", c.MaxMessageBytes))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must not be negative, got %d", c.RateLimit))
	}
	if c.RatePeriod <= 0 {
		errs = append(errs, fmt.Errorf("RATE_PERIOD must be positive, got %s", c.RatePeriod))
	}

	switch c.AdmissionMode {
	case AdmissionReject, AdmissionWait:
	default:
		errs = append(errs, fmt.Errorf("ADMISSION_MODE must be %q or %q, got %q", AdmissionReject, AdmissionWait, c.AdmissionMode))
	}
	switch c.ResponseSchema {
	case SchemaMinimal, SchemaVerbose:
	default:
		errs = append(errs, fmt.Errorf("RESPONSE_SCHEMA must be %q or %q, got %q", SchemaMinimal, SchemaVerbose, c.ResponseSchema))
	}
	switch c.Optimizer {
	case OptimizerIncremental, OptimizerFull:
	default:
		errs = append(errs, fmt.Errorf("OPTIMIZER must be %q or %q, got %q", OptimizerIncremental, OptimizerFull, c.Optimizer))
	}
	switch c.JournalDriver {
	case "":
	case "sqlite", "pgx":
		if strings.TrimSpace(c.JournalDSN) == "" {
			errs = append(errs, errors.New("JOURNAL_DSN is required when JOURNAL_DRIVER is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("JOURNAL_DRIVER must be sqlite or pgx, got %q", c.JournalDriver))
	}

	return errors.Join(errs...)
}
