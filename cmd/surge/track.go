package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/noaa"
	"github.com/couchcryptid/storm-surge-setup/internal/pipeline"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track [year basin number]",
		Short: "Fetch and summarize a best-track storm",
		Long:  "Downloads a best-track archive into OUTPUT_DIR and prints a summary. Defaults to Hurricane Sandy.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("accepts 0 or 3 args, received %d", len(args))
			}
			return nil
		},
		RunE: runTrack,
	}
}

func parseStorm(args []string) (scenario.Storm, error) {
	if len(args) == 0 {
		return scenario.Sandy, nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1851 {
		return scenario.Storm{}, fmt.Errorf("invalid year %q", args[0])
	}
	number, err := strconv.Atoi(args[2])
	if err != nil || number < 1 || number > 99 {
		return scenario.Storm{}, fmt.Errorf("invalid storm number %q", args[2])
	}
	if len(args[1]) != 2 {
		return scenario.Storm{}, fmt.Errorf("invalid basin %q", args[1])
	}
	return scenario.Storm{Year: year, Basin: args[1], Number: number}, nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	storm, err := parseStorm(args)
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}

	fetcher := noaa.NewClient(e.cfg.FetchTimeout, e.cfg.TrackSHA256, e.logger, e.metrics)
	runner := pipeline.NewRunner(fetcher, nil, e.logger, e.metrics)
	url := noaa.BestTrackURL(e.cfg.TrackBaseURL, storm.Year, storm.Basin, storm.Number)

	track, err := runner.IngestTrack(cmd.Context(), url, e.cfg.OutputDir, storm.Landfall)
	if err != nil {
		return err
	}
	if storm.Landfall.IsZero() {
		track.Offset = track.Records[0].Time
	}

	s := track.Summarize()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "storm:        %s %s\n", s.ID, s.Name)
	fmt.Fprintf(out, "records:      %d\n", s.Records)
	fmt.Fprintf(out, "first:        %s\n", s.First.Format("2006-01-02T15:04Z"))
	fmt.Fprintf(out, "last:         %s\n", s.Last.Format("2006-01-02T15:04Z"))
	fmt.Fprintf(out, "offset:       %s\n", s.Landfall.Format("2006-01-02T15:04Z"))
	fmt.Fprintf(out, "min pressure: %.0f mb\n", float64(s.MinPressure)/100)
	return nil
}
