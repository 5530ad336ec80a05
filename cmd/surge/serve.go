package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/gauges"
	"github.com/couchcryptid/storm-surge-setup/internal/adapter/httpadapter"
	"github.com/couchcryptid/storm-surge-setup/internal/pipeline"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [outdir]",
		Short: "Serve a run's figure descriptors and gauge series over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	outDir := argOr(args, e.cfg.OutputDir)
	ctx := cmd.Context()

	store := gauges.NewCachedSource(gauges.NewFileStore(outDir), e.cfg.GaugeCacheSize, e.metrics)
	catalog := pipeline.NewCatalog(pipeline.NewPlotter(e.logger, e.metrics), store, outDir, e.cfg.PlotLayoutFile, e.logger)
	srv := httpadapter.NewServer(e.cfg.HTTPAddr, catalog, catalog, e.logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()
	e.metrics.ServerRunning.Set(1)
	defer e.metrics.ServerRunning.Set(0)

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go refreshUntilBuilt(refreshCtx, catalog, e.logger)

	if err := waitForShutdown(ctx, serveErr); err != nil {
		e.logger.Error("http server error", "error", err)
		return err
	}
	e.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		e.logger.Error("http server shutdown error", "error", err)
		return err
	}
	e.logger.Info("shutdown complete")
	return nil
}

// waitForShutdown blocks until ctx is done or the server stops on its own. It
// returns the server's error unless it stopped because of Shutdown.
func waitForShutdown(ctx context.Context, serveErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return errors.New("http server stopped unexpectedly")
		}
		return fmt.Errorf("http server: %w", err)
	}
}

// refreshUntilBuilt retries the first catalog build while the solver has not
// yet written the run's output.
func refreshUntilBuilt(ctx context.Context, c *pipeline.Catalog, logger *slog.Logger) {
	backoff := time.Second
	maxBackoff := 30 * time.Second
	for {
		err := c.Refresh()
		if err == nil {
			return
		}
		logger.Warn("plot catalog not built, retrying", "error", err, "backoff", backoff)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}
