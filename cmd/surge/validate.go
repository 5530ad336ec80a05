package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/clawdata"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Read a run's data files back and check them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	dir := argOr(args, e.cfg.OutputDir)

	rd, err := clawdata.ReadDir(dir)
	if err != nil {
		return err
	}
	if _, err := rd.Finalize(); err != nil {
		return fmt.Errorf("validate %s: %w", dir, err)
	}
	e.logger.Info("run data valid", "dir", dir, "gauges", len(rd.Gauges), "topo_files", len(rd.Topo))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d data files valid\n", dir, len(clawdata.Files))
	return nil
}
