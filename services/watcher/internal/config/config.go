package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultCoordEpsilon   = 1e-6
)

// Config holds runtime configuration for the location loader.
type Config struct {
	DatabaseURL    string
	FeedURL        string
	FeedFile       string
	RequestTimeout time.Duration
	CoordEpsilon   float64
	Prune          bool
	DryRun         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.FeedURL = strings.TrimSpace(os.Getenv("FEED_URL"))
	cfg.FeedFile = strings.TrimSpace(os.Getenv("FEED_FILE"))
	if cfg.FeedURL == "" && cfg.FeedFile == "" {
		return cfg, errors.New("FEED_URL or FEED_FILE is required")
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("WATCHER_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.CoordEpsilon = defaultCoordEpsilon
	if v := strings.TrimSpace(os.Getenv("WATCHER_COORD_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return cfg, fmt.Errorf("invalid WATCHER_COORD_EPSILON: %s", v)
		}
		cfg.CoordEpsilon = f
	}

	cfg.Prune = flag("WATCHER_PRUNE", true)
	cfg.DryRun = flag("DRY_RUN", false)

	return cfg, nil
}

func flag(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}
