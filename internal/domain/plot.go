package domain

import "encoding/json"

// Limits is a closed [min, max] interval on one axis or colour scale.
type Limits [2]float64

// Figure types understood by the external plotting library.
const (
	FigureEachFrame = "each_frame"
	FigureEachGauge = "each_gauge"
)

// Plot item types.
const (
	PlotPcolor = "2d_pcolor"
	PlotImshow = "2d_imshow"
	Plot1D     = "1d_plot"
)

// Item is one layer drawn on an axes, e.g. the surface field or land mask.
type Item struct {
	Name               string    `json:"name" yaml:"name"`
	PlotType           string    `json:"plot_type" yaml:"plot_type"`
	Field              string    `json:"field,omitempty" yaml:"field,omitempty"`
	Bounds             *Limits   `json:"bounds,omitempty" yaml:"bounds,omitempty,flow"`
	ColorbarTicks      []float64 `json:"colorbar_ticks,omitempty" yaml:"colorbar_ticks,omitempty,flow"`
	ColorbarTickLabels []string  `json:"colorbar_tick_labels,omitempty" yaml:"colorbar_tick_labels,omitempty,flow"`
	AMRPatchEdgesShow  []int     `json:"amr_patchedges_show,omitempty" yaml:"amr_patchedges_show,omitempty,flow"`
}

// Axes binds a bounding box to a list of items and an optional hook run
// after the axes are drawn.
type Axes struct {
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	XLimits   Limits `json:"xlimits" yaml:"xlimits,flow"`
	YLimits   Limits `json:"ylimits" yaml:"ylimits,flow"`
	Scaled    bool   `json:"scaled,omitempty" yaml:"scaled,omitempty"`
	AfterAxes Hook   `json:"afteraxes,omitempty" yaml:"afteraxes,omitempty"`
	Items     []Item `json:"items" yaml:"items"`
}

// Item returns the item with the given name.
func (a *Axes) Item(name string) (*Item, bool) {
	for i := range a.Items {
		if a.Items[i].Name == name {
			return &a.Items[i], true
		}
	}
	return nil, false
}

// SetColorbarTicks overrides the colorbar ticks and labels of a named item.
// It reports whether the item exists.
func (a *Axes) SetColorbarTicks(name string, ticks []float64, labels []string) bool {
	it, ok := a.Item(name)
	if !ok {
		return false
	}
	it.ColorbarTicks = ticks
	it.ColorbarTickLabels = labels
	return true
}

// Figure is one output figure descriptor.
type Figure struct {
	Name         string      `json:"name" yaml:"name"`
	Number       int         `json:"figno,omitempty" yaml:"figno,omitempty"`
	Type         string      `json:"type" yaml:"type"`
	Show         bool        `json:"show" yaml:"show"`
	FigSize      *[2]float64 `json:"figsize,omitempty" yaml:"figsize,omitempty,flow"`
	ClfEachGauge bool        `json:"clf_each_gauge,omitempty" yaml:"clf_each_gauge,omitempty"`
	Axes         []Axes      `json:"axes" yaml:"axes"`
}

// PrintSettings controls hardcopy output (images, HTML index, LaTeX).
type PrintSettings struct {
	PrintFigs          bool   `json:"printfigs" yaml:"printfigs"`
	Format             string `json:"print_format" yaml:"print_format"`
	FrameNos           string `json:"print_framenos" yaml:"print_framenos"`
	GaugeNos           []int  `json:"print_gaugenos" yaml:"print_gaugenos,flow"`
	FigNos             string `json:"print_fignos" yaml:"print_fignos"`
	HTML               bool   `json:"html" yaml:"html"`
	LaTeX              bool   `json:"latex" yaml:"latex"`
	LaTeXFigsPerLine   int    `json:"latex_figsperline" yaml:"latex_figsperline"`
	LaTeXFramesPerLine int    `json:"latex_framesperline" yaml:"latex_framesperline"`
	LaTeXMakePDF       bool   `json:"latex_makepdf" yaml:"latex_makepdf"`
	// Parallel is passed through to the renderer as a hint.
	Parallel bool `json:"parallel" yaml:"parallel"`
}

// PlotData is the complete ordered figure list for one run's output.
type PlotData struct {
	OutDir  string        `json:"outdir" yaml:"outdir"`
	Format  string        `json:"format" yaml:"format"`
	Print   PrintSettings `json:"print" yaml:"print"`
	Figures []Figure      `json:"figures" yaml:"figures"`
}

// Figure returns the figure with the given name.
func (p *PlotData) Figure(name string) (*Figure, bool) {
	for i := range p.Figures {
		if p.Figures[i].Name == name {
			return &p.Figures[i], true
		}
	}
	return nil, false
}

// AxesView is the renderer's view of a drawn axes that hooks decorate.
type AxesView struct {
	Title         string         `json:"title,omitempty"`
	XLabel        string         `json:"xlabel,omitempty"`
	YLabel        string         `json:"ylabel,omitempty"`
	XLimits       Limits         `json:"xlimits"`
	YLimits       Limits         `json:"ylimits"`
	XTicks        []float64      `json:"xticks,omitempty"`
	XTickLabels   []string       `json:"xticklabels,omitempty"`
	Grid          bool           `json:"grid,omitempty"`
	SubplotAdjust *SubplotAdjust `json:"subplots_adjust,omitempty"`
	Lines         []Line         `json:"lines,omitempty"`
	Markers       []Marker       `json:"markers,omitempty"`
}

// SubplotAdjust sets figure margins as fractions of the canvas.
type SubplotAdjust struct {
	Left, Bottom, Right, Top float64
}

// Line is a polyline overlay.
type Line struct {
	Label string    `json:"label,omitempty"`
	Style string    `json:"style,omitempty"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Marker is a single labelled point overlay.
type Marker struct {
	Label string  `json:"label,omitempty"`
	Style string  `json:"style,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
}

// FrameContext is what the renderer knows when it runs a hook: the frame time
// for field plots, or the gauge number and solution for gauge plots.
type FrameContext struct {
	Frame   int
	T       Seconds
	GaugeNo int
	Gauge   *GaugeSolution
}

// Hook is a named, pure decoration applied to an axes after it is drawn.
// Only the name is serialized; the renderer resolves it by name.
type Hook struct {
	Name  string
	Apply func(AxesView, FrameContext) AxesView
}

// Run applies the hook, or returns the view unchanged when there is none.
func (h Hook) Run(v AxesView, ctx FrameContext) AxesView {
	if h.Apply == nil {
		return v
	}
	return h.Apply(v, ctx)
}

// IsZero reports whether no hook is set.
func (h Hook) IsZero() bool { return h.Name == "" }

func (h Hook) MarshalYAML() (any, error) { return h.Name, nil }

func (h Hook) MarshalJSON() ([]byte, error) { return json.Marshal(h.Name) }

func (h *Hook) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &h.Name)
}
