package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surge_setup"

// Metrics holds the Prometheus counters, histograms, and gauges for run setup,
// track ingest, and plot serving.
type Metrics struct {
	// Best-track download metrics.
	TrackDownloads        *prometheus.CounterVec // labels: outcome={fetched,cached,error}
	TrackDownloadBytes    prometheus.Counter
	TrackDownloadDuration prometheus.Histogram
	TrackRecordsParsed    prometheus.Counter

	// Output metrics.
	DataFilesWritten   prometheus.Counter
	FiguresBuilt       prometheus.Counter
	ManifestsPublished *prometheus.CounterVec // labels: outcome={success,error}

	// Plot server metrics.
	GaugeCache    *prometheus.CounterVec // labels: result={hit,miss}
	ServerRunning prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.TrackDownloads,
		m.TrackDownloadBytes,
		m.TrackDownloadDuration,
		m.TrackRecordsParsed,
		m.DataFilesWritten,
		m.FiguresBuilt,
		m.ManifestsPublished,
		m.GaugeCache,
		m.ServerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		TrackDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_downloads_total",
			Help:      help("Best-track archive fetches by outcome."),
		}, []string{"outcome"}),
		TrackDownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_download_bytes_total",
			Help:      help("Bytes downloaded from best-track archives."),
		}),
		TrackDownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "track_download_duration_seconds",
			Help:      help("Duration of best-track archive downloads."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		TrackRecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_records_parsed_total",
			Help:      help("Storm-track records parsed from best-track files."),
		}),
		DataFilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_files_written_total",
			Help:      help("Solver data files written."),
		}),
		FiguresBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_built_total",
			Help:      help("Figure descriptors built."),
		}),
		ManifestsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifests_published_total",
			Help:      help("Run manifests published by outcome."),
		}, []string{"outcome"}),
		GaugeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gauge_cache_total",
			Help:      help("Gauge series cache lookups by result."),
		}, []string{"result"}),
		ServerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_running",
			Help:      help("1 while the plot server is serving, 0 otherwise."),
		}),
	}
}
