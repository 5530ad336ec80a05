package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/kafka"
	"github.com/couchcryptid/storm-surge-setup/internal/adapter/noaa"
	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/pipeline"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

func setrunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setrun [claw_pkg]",
		Short: "Write the Hurricane Sandy run's data files",
		Long: "Downloads the Sandy best track, writes it in the solver's storm format, " +
			"and writes every data file the solver reads into OUTPUT_DIR.",
		Args: cobra.MaximumNArgs(1),
		RunE: runSetrun,
	}
}

func runSetrun(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	var publisher pipeline.ManifestPublisher
	if e.cfg.KafkaEnabled {
		w := kafka.NewWriter(e.cfg, e.logger)
		defer w.Close()
		publisher = w
		e.logger.Info("run manifest publishing enabled", "topic", e.cfg.KafkaTopic)
	}

	storm := scenario.Sandy
	fetcher := noaa.NewClient(e.cfg.FetchTimeout, e.cfg.TrackSHA256, e.logger, e.metrics)
	runner := pipeline.NewRunner(fetcher, publisher, e.logger, e.metrics)

	m, err := runner.SetRun(cmd.Context(), pipeline.RunOptions{
		Package:   argOr(args, domain.PackageGeoClaw),
		OutputDir: e.cfg.OutputDir,
		BathyDir:  e.cfg.BathyDir,
		TrackURL:  noaa.BestTrackURL(e.cfg.TrackBaseURL, storm.Year, storm.Basin, storm.Number),
		Storm:     storm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d files written to %s\n", m.RunID, len(m.Files), m.OutputDir)
	return nil
}
