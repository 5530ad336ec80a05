// Package pipeline wires the one-shot setup jobs: building and writing a
// run's data files, building its plot descriptors, and serving them.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/clawdata"
	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/observability"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

// TrackFetcher downloads a compressed best-track archive and unpacks it.
type TrackFetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
	Decompress(gzPath string) (string, error)
}

// ManifestPublisher announces a finished run.
type ManifestPublisher interface {
	PublishManifest(ctx context.Context, m domain.RunManifest) error
}

// RunOptions describe one setrun invocation.
type RunOptions struct {
	Package   string
	OutputDir string
	BathyDir  string
	// TrackURL is the best-track archive for Storm.
	TrackURL string
	Storm    scenario.Storm
}

// Runner builds a run's configuration and writes it to disk.
type Runner struct {
	fetcher   TrackFetcher
	publisher ManifestPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRunner creates a Runner. Pass a nil publisher to skip manifest publishing.
func NewRunner(f TrackFetcher, p ManifestPublisher, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		fetcher:   f,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// SetRun ingests the storm track, builds the run configuration and writes the
// storm file plus every data file into the output directory. Nothing is
// written unless the whole configuration validates and renders.
func (r *Runner) SetRun(ctx context.Context, opts RunOptions) (domain.RunManifest, error) {
	if err := domain.ValidatePackage(opts.Package); err != nil {
		return domain.RunManifest{}, err
	}
	start := time.Now()

	outDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return domain.RunManifest{}, fmt.Errorf("resolve output dir: %w", err)
	}
	bathyDir, err := filepath.Abs(opts.BathyDir)
	if err != nil {
		return domain.RunManifest{}, fmt.Errorf("resolve bathymetry dir: %w", err)
	}

	track, err := r.IngestTrack(ctx, opts.TrackURL, outDir, opts.Storm.Landfall)
	if err != nil {
		return domain.RunManifest{}, err
	}
	var storm bytes.Buffer
	if err := domain.WriteGeoClawStorm(&storm, track); err != nil {
		return domain.RunManifest{}, err
	}

	final, err := scenario.BuildSandy(opts.Package, scenario.SandyParams{
		StormFile: filepath.Join(outDir, scenario.SandyStormFile),
		BathyDir:  bathyDir,
	})
	if err != nil {
		return domain.RunManifest{}, err
	}
	files, err := clawdata.Render(final)
	if err != nil {
		return domain.RunManifest{}, err
	}
	files[scenario.SandyStormFile] = storm.Bytes()

	if err := clawdata.WriteAll(outDir, files); err != nil {
		return domain.RunManifest{}, err
	}
	r.metrics.DataFilesWritten.Add(float64(len(files)))

	summary := track.Summarize()
	manifest := domain.NewRunManifest(opts.Package, outDir, files, &summary)
	r.logger.Info("run configuration written",
		"run_id", manifest.RunID,
		"dir", outDir,
		"files", len(files),
		"storm", summary.ID,
		"duration", time.Since(start),
	)

	if err := r.publish(ctx, manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

// IngestTrack fetches, unpacks and parses a best-track archive into dir and
// aligns it so landfall is simulated time zero.
func (r *Runner) IngestTrack(ctx context.Context, trackURL, dir string, landfall time.Time) (domain.StormTrack, error) {
	gz, err := r.fetcher.Fetch(ctx, trackURL, dir)
	if err != nil {
		return domain.StormTrack{}, fmt.Errorf("fetch best track: %w", err)
	}
	dat, err := r.fetcher.Decompress(gz)
	if err != nil {
		return domain.StormTrack{}, err
	}

	var track domain.StormTrack
	err = clawdata.ReadFile(dat, func(in io.Reader, source string) error {
		var perr error
		track, perr = domain.ParseATCF(in, source)
		return perr
	})
	if err != nil {
		return domain.StormTrack{}, err
	}
	r.metrics.TrackRecordsParsed.Add(float64(len(track.Records)))
	r.logger.Info("best track parsed", "storm", track.ID(), "name", track.Name, "records", len(track.Records))

	return track.AlignLandfall(landfall), nil
}

func (r *Runner) publish(ctx context.Context, m domain.RunManifest) error {
	if r.publisher == nil {
		return nil
	}
	if err := r.publisher.PublishManifest(ctx, m); err != nil {
		r.metrics.ManifestsPublished.WithLabelValues("error").Inc()
		r.logger.Error("publish run manifest failed", "run_id", m.RunID, "error", err)
		return err
	}
	r.metrics.ManifestsPublished.WithLabelValues("success").Inc()
	return nil
}
