package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/clawdata"
	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/observability"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

const (
	// TrackEchoFile is the storm track the solver echoes into its output.
	TrackEchoFile = "fort.track"
	// PlotsFile holds the figure descriptors setplot writes.
	PlotsFile = "plots.yaml"
)

// Plotter builds figure descriptors for a run's output directory.
type Plotter struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPlotter creates a Plotter.
func NewPlotter(logger *slog.Logger, metrics *observability.Metrics) *Plotter {
	return &Plotter{logger: logger, metrics: metrics}
}

// Build reads the run's parameters back from outDir and assembles its figure
// list with the layout in layoutFile, or the default layout when empty.
func (p *Plotter) Build(outDir, layoutFile string) (domain.PlotData, error) {
	in, err := p.LoadInputs(outDir)
	if err != nil {
		return domain.PlotData{}, err
	}
	return p.BuildFrom(in, layoutFile)
}

// BuildFrom assembles the figure list from inputs already read.
func (p *Plotter) BuildFrom(in domain.PlotInputs, layoutFile string) (domain.PlotData, error) {
	layout, err := scenario.LoadLayout(layoutFile)
	if err != nil {
		return domain.PlotData{}, err
	}
	pd, err := domain.BuildPlotData(in, layout)
	if err != nil {
		return domain.PlotData{}, err
	}
	p.metrics.FiguresBuilt.Add(float64(len(pd.Figures)))
	return pd, nil
}

// SetPlot builds the figure list for outDir and writes it to plots.yaml there.
func (p *Plotter) SetPlot(outDir, layoutFile string) (domain.PlotData, error) {
	pd, err := p.Build(outDir, layoutFile)
	if err != nil {
		return domain.PlotData{}, err
	}
	out, err := yaml.Marshal(pd)
	if err != nil {
		return domain.PlotData{}, fmt.Errorf("encode plot data: %w", err)
	}
	if err := clawdata.WriteAll(outDir, map[string][]byte{PlotsFile: out}); err != nil {
		return domain.PlotData{}, err
	}
	p.logger.Info("plot descriptors written",
		"path", filepath.Join(outDir, PlotsFile),
		"figures", len(pd.Figures),
	)
	return pd, nil
}

// LoadInputs reads the parameter files and the echoed track a figure list is
// built from. A missing track echo yields an empty track, since setplot may
// run before the solver has produced any output.
func (p *Plotter) LoadInputs(outDir string) (domain.PlotInputs, error) {
	in := domain.PlotInputs{OutDir: outDir}
	read := []struct {
		name string
		fn   func(io.Reader, string) error
	}{
		{clawdata.ClawFile, func(r io.Reader, src string) (err error) { in.Claw, err = clawdata.ReadClaw(r, src); return }},
		{clawdata.GeoClawFile, func(r io.Reader, src string) (err error) { in.Geo, err = clawdata.ReadGeoClaw(r, src); return }},
		{clawdata.SurgeFile, func(r io.Reader, src string) (err error) { in.Surge, err = clawdata.ReadSurge(r, src); return }},
		{clawdata.FrictionFile, func(r io.Reader, src string) (err error) {
			in.Friction, err = clawdata.ReadFriction(r, src)
			return
		}},
		{clawdata.GaugesFile, func(r io.Reader, src string) (err error) { in.Gauges, err = clawdata.ReadGauges(r, src); return }},
	}
	for _, f := range read {
		if err := clawdata.ReadFile(filepath.Join(outDir, f.name), f.fn); err != nil {
			return domain.PlotInputs{}, err
		}
	}

	err := clawdata.ReadFile(filepath.Join(outDir, TrackEchoFile), func(r io.Reader, src string) (err error) {
		in.Track, err = domain.ReadTrackEcho(r, src)
		return
	})
	switch {
	case errors.Is(err, fs.ErrNotExist):
		p.logger.Warn("no storm track echo, plotting without track", "dir", outDir)
	case err != nil:
		return domain.PlotInputs{}, err
	}
	return in, nil
}
