package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HeaderLines     int
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional rotating log file; empty means stderr.
	LogFile      string
	LogMaxSizeMB int

	// Map image size in pixels.
	MapWidth  int
	MapHeight int

	// Mapbox static map configuration.
	MapboxToken   string
	MapboxEnabled bool
	MapboxStyle   string
	MapboxTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	headerLines, err := parseInt("HURRICANE_HEADER_LINES", 2, 0, 100)
	if err != nil {
		return nil, err
	}
	logMaxSize, err := parseInt("LOG_MAX_SIZE_MB", 64, 1, 4096)
	if err != nil {
		return nil, err
	}
	mapWidth, err := parseInt("MAP_WIDTH", 800, 100, 1280)
	if err != nil {
		return nil, err
	}
	mapHeight, err := parseInt("MAP_HEIGHT", 500, 100, 1280)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("HURRICANE_DATA_PATH", "data/Hurricane_Data.csv"),
		HeaderLines:     headerLines,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		LogFile:      os.Getenv("LOG_FILE"),
		LogMaxSizeMB: logMaxSize,

		MapWidth:  mapWidth,
		MapHeight: mapHeight,

		MapboxToken:   mapboxToken,
		MapboxEnabled: mapboxEnabled,
		MapboxStyle:   sharedcfg.EnvOrDefault("MAPBOX_STYLE", "mapbox/outdoors-v12"),
		MapboxTimeout: mapboxTimeout,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("HURRICANE_DATA_PATH is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// parseInt reads an integer env var bounded to [lo, hi], returning def when unset.
func parseInt(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}
