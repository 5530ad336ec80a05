// Command surge prepares storm-surge runs: it writes the solver's data files,
// ingests best-track storms, and builds and serves plot descriptors.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/config"
	"github.com/couchcryptid/storm-surge-setup/internal/observability"
)

func main() {
	root := &cobra.Command{
		Use:           "surge",
		Short:         "Storm-surge run setup and plot descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(setrunCmd())
	root.AddCommand(setplotCmd())
	root.AddCommand(trackCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// env loads configuration and builds the logger and metrics every
// subcommand shares.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func loadEnv() (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	return env{
		cfg:     cfg,
		logger:  observability.NewLogger(cfg),
		metrics: observability.NewMetrics(),
	}, nil
}

// argOr returns the first positional argument, or fallback when none is given.
func argOr(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
