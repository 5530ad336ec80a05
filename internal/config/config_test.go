package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSHA = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "_output", cfg.OutputDir)
	assert.Equal(t, "bathy", cfg.BathyDir)
	assert.Equal(t, DefaultTrackBaseURL, cfg.TrackBaseURL)
	assert.Empty(t, cfg.TrackSHA256)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Empty(t, cfg.PlotLayoutFile)
	assert.Equal(t, 64, cfg.GaugeCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "surge-run-manifests", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OUTPUT_DIR", "/runs/sandy")
	t.Setenv("BATHY_DIR", "/data/bathy")
	t.Setenv("TRACK_BASE_URL", "https://mirror.example.com/atcf/")
	t.Setenv("TRACK_SHA256", "9F86D081884C7D659A2FEAA0C55AD015A3BF4F1B2B0B822CD15D6C15B0F00A08")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("PLOT_LAYOUT_FILE", "plots.yaml")
	t.Setenv("GAUGE_CACHE_SIZE", "8")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "manifests")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/runs/sandy", cfg.OutputDir)
	assert.Equal(t, "/data/bathy", cfg.BathyDir)
	assert.Equal(t, "https://mirror.example.com/atcf", cfg.TrackBaseURL, "trailing slash is trimmed")
	assert.Equal(t, testSHA, cfg.TrackSHA256, "checksum is lower-cased")
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "plots.yaml", cfg.PlotLayoutFile)
	assert.Equal(t, 8, cfg.GaugeCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "manifests", cfg.KafkaTopic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"shutdown timeout", "SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"fetch timeout", "FETCH_TIMEOUT", "soon", "FETCH_TIMEOUT"},
		{"zero fetch timeout", "FETCH_TIMEOUT", "0s", "FETCH_TIMEOUT"},
		{"gauge cache size", "GAUGE_CACHE_SIZE", "0", "GAUGE_CACHE_SIZE"},
		{"gauge cache not a number", "GAUGE_CACHE_SIZE", "many", "GAUGE_CACHE_SIZE"},
		{"short checksum", "TRACK_SHA256", "abc123", "TRACK_SHA256"},
		{"ftp base url", "TRACK_BASE_URL", "ftp://ftp.nhc.noaa.gov/atcf/archive", "TRACK_BASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersIgnoredWhenDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}
