package domain

import "fmt"

// PlotRegion is a named bounding box with a canvas size. A region with Domain
// set takes its bounds from the run's computational domain.
type PlotRegion struct {
	Name    string     `yaml:"name"`
	Domain  bool       `yaml:"domain,omitempty"`
	XLimits Limits     `yaml:"xlimits,flow"`
	YLimits Limits     `yaml:"ylimits,flow"`
	FigSize [2]float64 `yaml:"figsize,flow"`
}

// GaugeWindow is the fixed axis window for gauge figures, in days relative to
// landfall and meters.
type GaugeWindow struct {
	Number  int       `yaml:"figno"`
	XLimits Limits    `yaml:"xlimits,flow"`
	YLimits Limits    `yaml:"ylimits,flow"`
	XTicks  []float64 `yaml:"xticks,flow"`
}

// LocationWindow is the bounding box of the gauge-location map.
type LocationWindow struct {
	XLimits       Limits        `yaml:"xlimits,flow"`
	YLimits       Limits        `yaml:"ylimits,flow"`
	SubplotAdjust SubplotAdjust `yaml:"subplots_adjust,flow"`
}

// ColorScales holds the colour limits and colorbar ticks per field. The
// surface scale is centred on the run's sea level.
type ColorScales struct {
	SurfaceHalfRange float64   `yaml:"surface_half_range"`
	SurfaceTicks     []float64 `yaml:"surface_ticks,flow"`
	Speed            Limits    `yaml:"speed,flow"`
	SpeedTicks       []float64 `yaml:"speed_ticks,flow"`
	Wind             Limits    `yaml:"wind,flow"`
	Pressure         Limits    `yaml:"pressure,flow"`
	Friction         Limits    `yaml:"friction,flow"`
}

// PlotLayout is everything about the figure list that is not read from the
// run's output: regions, windows, colour scales and print settings.
type PlotLayout struct {
	Format         string         `yaml:"format"`
	Regions        []PlotRegion   `yaml:"regions"`
	Gauge          GaugeWindow    `yaml:"gauge"`
	GaugeLocations LocationWindow `yaml:"gauge_locations"`
	Colors         ColorScales    `yaml:"colors"`
	// PatchEdges is copied to every field item's AMR patch-edge flags.
	PatchEdges []int         `yaml:"amr_patchedges_show,flow"`
	Print      PrintSettings `yaml:"print"`
}

// Validate checks that the layout can produce a figure list.
func (l PlotLayout) Validate() error {
	if len(l.Regions) == 0 {
		return configErrorf("plot.regions", "at least one region is required")
	}
	seen := make(map[string]bool, len(l.Regions))
	for _, r := range l.Regions {
		if r.Name == "" {
			return configErrorf("plot.regions", "region name is empty")
		}
		if seen[r.Name] {
			return configErrorf("plot.regions", "duplicate region %q", r.Name)
		}
		seen[r.Name] = true
		if !r.Domain && (r.XLimits[0] >= r.XLimits[1] || r.YLimits[0] >= r.YLimits[1]) {
			return configErrorf("plot.regions", "region %q has empty bounds", r.Name)
		}
	}
	if l.Gauge.XLimits[0] >= l.Gauge.XLimits[1] || l.Gauge.YLimits[0] >= l.Gauge.YLimits[1] {
		return configErrorf("plot.gauge", "window is empty")
	}
	if l.Colors.SurfaceHalfRange <= 0 {
		return configErrorf("plot.colors.surface_half_range", "must be positive")
	}
	return nil
}

// PlotInputs is what the figure list is built from: parameter sections read
// back from a run's output directory plus the echoed storm track.
type PlotInputs struct {
	OutDir   string
	Claw     ClawData
	Geo      GeoData
	Surge    SurgeData
	Friction FrictionData
	Gauges   []Gauge
	Track    []TrackPoint
}

// BuildPlotData assembles the ordered figure list. Region figures come first
// in layout order, followed by the forcing, friction and gauge figures.
func BuildPlotData(in PlotInputs, layout PlotLayout) (PlotData, error) {
	if err := layout.Validate(); err != nil {
		return PlotData{}, err
	}
	surge := SurgeHook(in.Track)
	surfaceBounds := Limits{float64(in.Geo.SeaLevel) - layout.Colors.SurfaceHalfRange,
		float64(in.Geo.SeaLevel) + layout.Colors.SurfaceHalfRange}
	domainX := Limits{float64(in.Claw.Lower[0]), float64(in.Claw.Upper[0])}
	domainY := Limits{float64(in.Claw.Lower[1]), float64(in.Claw.Upper[1])}

	pd := PlotData{OutDir: in.OutDir, Format: layout.Format, Print: layout.Print}
	pd.Print.GaugeNos = append([]int(nil), layout.Print.GaugeNos...)

	for _, r := range layout.Regions {
		x, y := r.XLimits, r.YLimits
		if r.Domain {
			x, y = domainX, domainY
		}
		size := r.FigSize

		surface := Axes{Title: "Surface", XLimits: x, YLimits: y, AfterAxes: surge,
			Items: []Item{
				fieldItem("surface", &surfaceBounds, layout.PatchEdges),
				fieldItem("land", nil, layout.PatchEdges),
			}}
		surface.SetColorbarTicks("surface", cloneFloats(layout.Colors.SurfaceTicks), numberLabels(layout.Colors.SurfaceTicks))
		pd.Figures = append(pd.Figures, Figure{Name: "Surface - " + r.Name, Type: FigureEachFrame, Show: true,
			FigSize: &size, Axes: []Axes{surface}})

		speed := layout.Colors.Speed
		currents := Axes{Title: "Currents", XLimits: x, YLimits: y, AfterAxes: surge,
			Items: []Item{
				fieldItem("speed", &speed, layout.PatchEdges),
				fieldItem("land", nil, layout.PatchEdges),
			}}
		currents.SetColorbarTicks("speed", cloneFloats(layout.Colors.SpeedTicks), numberLabels(layout.Colors.SpeedTicks))
		pd.Figures = append(pd.Figures, Figure{Name: "Currents - " + r.Name, Type: FigureEachFrame, Show: true,
			FigSize: &size, Axes: []Axes{currents}})
	}

	pressure, wind, friction := layout.Colors.Pressure, layout.Colors.Wind, layout.Colors.Friction
	pd.Figures = append(pd.Figures,
		forcingFigure("Pressure", "Pressure Field", in.Surge.PressureForcing, domainX, domainY, surge,
			Item{Name: "pressure", PlotType: PlotImshow, Field: "pressure", Bounds: &pressure}),
		forcingFigure("Wind Speed", "Wind Field", in.Surge.WindForcing, domainX, domainY, surge,
			Item{Name: "wind", PlotType: PlotImshow, Field: "wind", Bounds: &wind}),
		forcingFigure("Friction", "Manning's n", in.Friction.VariableFriction, domainX, domainY, FrictionHook(),
			Item{Name: "friction", PlotType: PlotImshow, Field: "friction", Bounds: &friction}),
	)

	pd.Figures = append(pd.Figures, Figure{
		Name: "Gauge Surfaces", Number: layout.Gauge.Number, Type: FigureEachGauge, Show: true, ClfEachGauge: true,
		Axes: []Axes{{
			Title:     "Surface",
			XLimits:   layout.Gauge.XLimits,
			YLimits:   layout.Gauge.YLimits,
			AfterAxes: GaugeHook(in.Surge.Landfall, layout.Gauge),
			Items:     []Item{{Name: "surface", PlotType: Plot1D, Field: "surface"}},
		}},
	})

	pd.Figures = append(pd.Figures, Figure{
		Name: "Gauge Locations", Type: FigureEachFrame, Show: true,
		Axes: []Axes{{
			Title:     "Gauge Locations",
			Scaled:    true,
			XLimits:   layout.GaugeLocations.XLimits,
			YLimits:   layout.GaugeLocations.YLimits,
			AfterAxes: GaugeLocationsHook(in.Track, in.Gauges, layout.GaugeLocations.SubplotAdjust),
			Items: []Item{
				fieldItem("surface", &surfaceBounds, layout.PatchEdges),
				fieldItem("land", nil, layout.PatchEdges),
			},
		}},
	})

	if err := checkFigureNames(pd.Figures); err != nil {
		return PlotData{}, err
	}
	return pd, nil
}

func forcingFigure(name, title string, show bool, x, y Limits, hook Hook, field Item) Figure {
	return Figure{Name: name, Type: FigureEachFrame, Show: show, Axes: []Axes{{
		Title: title, XLimits: x, YLimits: y, Scaled: true, AfterAxes: hook,
		Items: []Item{field, {Name: "land", PlotType: PlotPcolor, Field: "land"}},
	}}}
}

func fieldItem(name string, bounds *Limits, patchEdges []int) Item {
	it := Item{Name: name, PlotType: PlotPcolor, Field: name, AMRPatchEdgesShow: append([]int(nil), patchEdges...)}
	if bounds != nil {
		b := *bounds
		it.Bounds = &b
	}
	return it
}

func checkFigureNames(figs []Figure) error {
	seen := make(map[string]bool, len(figs))
	for _, f := range figs {
		if seen[f.Name] {
			return configErrorf("plot.figures", "duplicate figure %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func numberLabels(ticks []float64) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = fmt.Sprint(t)
	}
	return out
}

func cloneFloats(f []float64) []float64 {
	return append([]float64(nil), f...)
}
