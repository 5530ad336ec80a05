package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/pipeline"
)

func setplotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setplot [outdir]",
		Short: "Build the figure descriptors for a run's output",
		Long:  "Reads the run's data files and track echo from outdir and writes plots.yaml there.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSetplot,
	}
}

func runSetplot(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	outDir := argOr(args, e.cfg.OutputDir)

	pd, err := pipeline.NewPlotter(e.logger, e.metrics).SetPlot(outDir, e.cfg.PlotLayoutFile)
	if err != nil {
		return err
	}
	for _, f := range pd.Figures {
		state := "hidden"
		if f.Show {
			state = "shown"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-10s %s\n", f.Name, f.Type, state)
	}
	return nil
}
