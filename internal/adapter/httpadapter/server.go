package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// PlotCatalog supplies the figure list and gauge series being served.
type PlotCatalog interface {
	Plots(ctx context.Context) (domain.PlotData, error)
	GaugeSeries(ctx context.Context, id int) (domain.GaugeSeries, error)
}

// Server exposes figure descriptors and gauge series to an external renderer,
// plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	catalog    PlotCatalog
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /plots,
// and /gauges/{id} routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, catalog PlotCatalog, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		catalog: catalog,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /plots", s.handlePlots)
	mux.HandleFunc("GET /gauges/{id}", s.handleGauge)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePlots(w http.ResponseWriter, r *http.Request) {
	pd, err := s.catalog.Plots(r.Context())
	if err != nil {
		s.logger.Warn("plots unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, pd)
}

func (s *Server) handleGauge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, errors.New("gauge id must be a non-negative integer"))
		return
	}
	series, err := s.catalog.GaugeSeries(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrGaugeNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.logger.Error("gauge series failed", "gauge", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
	default:
		sharedobs.WriteJSON(w, http.StatusOK, series)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
