package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// ErrNotBuilt is returned while a catalog has no figure list yet.
var ErrNotBuilt = errors.New("plot data has not been built")

type snapshot struct {
	plots    domain.PlotData
	landfall domain.Seconds
}

// Catalog serves one output directory's figure list and gauge series.
type Catalog struct {
	plotter    *Plotter
	gauges     domain.GaugeSource
	outDir     string
	layoutFile string
	logger     *slog.Logger
	current    atomic.Pointer[snapshot]
}

// NewCatalog creates a catalog over outDir. Call Refresh before serving.
func NewCatalog(p *Plotter, gauges domain.GaugeSource, outDir, layoutFile string, logger *slog.Logger) *Catalog {
	return &Catalog{
		plotter:    p,
		gauges:     gauges,
		outDir:     outDir,
		layoutFile: layoutFile,
		logger:     logger,
	}
}

// Refresh rebuilds the figure list from disk. On failure the previous list,
// if any, keeps being served.
func (c *Catalog) Refresh() error {
	in, err := c.plotter.LoadInputs(c.outDir)
	if err != nil {
		return err
	}
	pd, err := c.plotter.BuildFrom(in, c.layoutFile)
	if err != nil {
		return err
	}
	c.current.Store(&snapshot{plots: pd, landfall: in.Surge.Landfall})
	c.logger.Info("plot catalog refreshed", "dir", c.outDir, "figures", len(pd.Figures))
	return nil
}

// CheckReadiness reports ready once a figure list has been built.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	if c.current.Load() == nil {
		return ErrNotBuilt
	}
	return nil
}

// Plots returns the current figure list.
func (c *Catalog) Plots(_ context.Context) (domain.PlotData, error) {
	snap := c.current.Load()
	if snap == nil {
		return domain.PlotData{}, ErrNotBuilt
	}
	return snap.plots, nil
}

// GaugeSeries returns gauge id's surface series on a landfall-relative axis.
func (c *Catalog) GaugeSeries(ctx context.Context, id int) (domain.GaugeSeries, error) {
	snap := c.current.Load()
	if snap == nil {
		return domain.GaugeSeries{}, ErrNotBuilt
	}
	g, err := c.gauges.Gauge(ctx, id)
	if err != nil {
		return domain.GaugeSeries{}, err
	}
	return g.Series(snap.landfall), nil
}
