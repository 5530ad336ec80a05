package config

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultTrackBaseURL is the NHC best-track archive root.
const DefaultTrackBaseURL = "http://ftp.nhc.noaa.gov/atcf/archive"

var sha256Hex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Config holds all settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// OutputDir receives the solver data files and the storm file. BathyDir
	// is where the run's topography rasters are expected.
	OutputDir string
	BathyDir  string

	// Best-track download configuration.
	TrackBaseURL string
	TrackSHA256  string
	FetchTimeout time.Duration

	PlotLayoutFile string
	GaugeCacheSize int

	// Run-manifest publishing (feature-flagged via KAFKA_ENABLED).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "60s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	gaugeCacheSize, err := parseGaugeCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		OutputDir: sharedcfg.EnvOrDefault("OUTPUT_DIR", "_output"),
		BathyDir:  sharedcfg.EnvOrDefault("BATHY_DIR", "bathy"),

		TrackBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("TRACK_BASE_URL", DefaultTrackBaseURL), "/"),
		TrackSHA256:  strings.ToLower(os.Getenv("TRACK_SHA256")),
		FetchTimeout: fetchTimeout,

		PlotLayoutFile: os.Getenv("PLOT_LAYOUT_FILE"),
		GaugeCacheSize: gaugeCacheSize,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "surge-run-manifests"),
	}

	if cfg.TrackSHA256 != "" && !sha256Hex.MatchString(cfg.TrackSHA256) {
		return nil, errors.New("invalid TRACK_SHA256: must be 64 hex characters")
	}
	if !strings.HasPrefix(cfg.TrackBaseURL, "http://") && !strings.HasPrefix(cfg.TrackBaseURL, "https://") {
		return nil, errors.New("invalid TRACK_BASE_URL: must be an http or https URL")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseGaugeCacheSize() (int, error) {
	s := os.Getenv("GAUGE_CACHE_SIZE")
	if s == "" {
		return 64, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("invalid GAUGE_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
