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
	defaultLocationsFile  = "data/locations.json"
	defaultWeatherAPIURL  = "https://api.openweathermap.org/data/2.5"
	defaultWeatherUnits   = "imperial"
	defaultImageryAPIURL  = "https://maps.googleapis.com/maps/api/streetview/metadata"
	defaultImageryRadiusM = 50
	defaultRequestTimeout = 30 * time.Second
	defaultMapZoom        = 7
	defaultSessionIdle    = 30 * time.Minute
)

// Location source kinds accepted in LOCATIONS_SOURCE.
const (
	SourceFile     = "file"
	SourceURL      = "url"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds environment-driven settings for the map API.
type Config struct {
	Port        int
	BearerToken string

	LocationsSource string
	LocationsFile   string
	LocationsURL    string
	DatabaseURL     string
	SQLitePath      string

	WeatherAPIURL string
	WeatherAPIKey string
	WeatherUnits  string

	ImageryAPIURL  string
	ImageryAPIKey  string
	ImageryRadiusM int

	RequestTimeout     time.Duration
	MapZoom            int
	SessionIdleTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:               8080,
		LocationsSource:    SourceFile,
		LocationsFile:      defaultLocationsFile,
		WeatherAPIURL:      defaultWeatherAPIURL,
		WeatherUnits:       defaultWeatherUnits,
		ImageryAPIURL:      defaultImageryAPIURL,
		ImageryRadiusM:     defaultImageryRadiusM,
		RequestTimeout:     defaultRequestTimeout,
		MapZoom:            defaultMapZoom,
		SessionIdleTimeout: defaultSessionIdle,
	}

	if portStr := env("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := env("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	cfg.BearerToken = env("API_BEARER_TOKEN")

	if src := strings.ToLower(env("LOCATIONS_SOURCE")); src != "" {
		cfg.LocationsSource = src
	}
	if v := env("LOCATIONS_FILE"); v != "" {
		cfg.LocationsFile = v
	}
	cfg.LocationsURL = env("LOCATIONS_URL")
	cfg.DatabaseURL = env("DATABASE_URL")
	cfg.SQLitePath = env("SQLITE_PATH")

	switch cfg.LocationsSource {
	case SourceFile:
	case SourceURL:
		if cfg.LocationsURL == "" {
			return cfg, errors.New("LOCATIONS_URL is required when LOCATIONS_SOURCE=url")
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required when LOCATIONS_SOURCE=postgres")
		}
	case SourceSQLite:
		if cfg.SQLitePath == "" {
			return cfg, errors.New("SQLITE_PATH is required when LOCATIONS_SOURCE=sqlite")
		}
	default:
		return cfg, fmt.Errorf("invalid LOCATIONS_SOURCE: %s", cfg.LocationsSource)
	}

	if v := env("WEATHER_API_URL"); v != "" {
		cfg.WeatherAPIURL = v
	}
	cfg.WeatherAPIKey = env("WEATHER_API_KEY")
	if v := env("WEATHER_UNITS"); v != "" {
		cfg.WeatherUnits = v
	}

	if v := env("IMAGERY_API_URL"); v != "" {
		cfg.ImageryAPIURL = v
	}
	cfg.ImageryAPIKey = env("IMAGERY_API_KEY")
	if v := env("IMAGERY_RADIUS_M"); v != "" {
		radius, err := strconv.Atoi(v)
		if err != nil || radius <= 0 {
			return cfg, fmt.Errorf("invalid IMAGERY_RADIUS_M: %s", v)
		}
		cfg.ImageryRadiusM = radius
	}

	if v := env("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := env("MAP_ZOOM"); v != "" {
		zoom, err := strconv.Atoi(v)
		if err != nil || zoom < 0 || zoom > 22 {
			return cfg, fmt.Errorf("invalid MAP_ZOOM: %s", v)
		}
		cfg.MapZoom = zoom
	}

	if v := env("SESSION_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
		}
		cfg.SessionIdleTimeout = d
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
