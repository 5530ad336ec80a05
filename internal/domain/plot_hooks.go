package domain

import "strconv"

// Hook names resolved by the renderer.
const (
	HookSurge          = "surge"
	HookGauge          = "gauge"
	HookGaugeLocations = "gauge_locations"
	HookFriction       = "friction"
)

// SurgeHook overlays the storm track up to the frame time and marks the
// storm's current position.
func SurgeHook(track []TrackPoint) Hook {
	return Hook{Name: HookSurge, Apply: func(v AxesView, ctx FrameContext) AxesView {
		return overlayTrack(v, track, ctx.T)
	}}
}

func overlayTrack(v AxesView, track []TrackPoint, t Seconds) AxesView {
	path := Line{Label: "track", Style: "k--"}
	var last *TrackPoint
	for i := range track {
		if track[i].T > t {
			break
		}
		path.X = append(path.X, float64(track[i].Lon))
		path.Y = append(path.Y, float64(track[i].Lat))
		last = &track[i]
	}
	if last == nil {
		return v
	}
	v.Lines = append(cloneLines(v.Lines), path)
	v.Markers = append(cloneMarkers(v.Markers),
		Marker{Label: "storm", Style: "ro", X: float64(last.Lon), Y: float64(last.Lat), Size: 4})
	return v
}

// GaugeHook draws a gauge's surface series against days relative to landfall
// inside a fixed window.
func GaugeHook(landfall Seconds, window GaugeWindow) Hook {
	return Hook{Name: HookGauge, Apply: func(v AxesView, ctx FrameContext) AxesView {
		v.Title = "Station " + strconv.Itoa(ctx.GaugeNo)
		v.XLabel = "Days relative to landfall"
		v.YLabel = "Surface (m)"
		v.XLimits = window.XLimits
		v.YLimits = window.YLimits
		v.XTicks = append([]float64(nil), window.XTicks...)
		v.XTickLabels = tickLabels(window.XTicks)
		v.Grid = true
		if ctx.Gauge != nil {
			series := ctx.Gauge.LandfallSeries(landfall)
			l := Line{Label: "surface", Style: "b-", X: make([]float64, len(series)), Y: make([]float64, len(series))}
			for i, p := range series {
				l.X[i] = p.Days
				l.Y[i] = float64(p.Surface)
			}
			v.Lines = append(cloneLines(v.Lines), l)
		}
		return v
	}}
}

// GaugeLocationsHook adjusts margins, overlays the storm track and marks every
// gauge with its id.
func GaugeLocationsHook(track []TrackPoint, gauges []Gauge, adjust SubplotAdjust) Hook {
	return Hook{Name: HookGaugeLocations, Apply: func(v AxesView, ctx FrameContext) AxesView {
		a := adjust
		v.SubplotAdjust = &a
		v = overlayTrack(v, track, ctx.T)
		markers := cloneMarkers(v.Markers)
		for _, g := range gauges {
			markers = append(markers, Marker{Label: strconv.Itoa(g.ID), Style: "ko", X: float64(g.X), Y: float64(g.Y)})
		}
		v.Markers = markers
		return v
	}}
}

// FrictionHook titles the Manning's n figure.
func FrictionHook() Hook {
	return Hook{Name: HookFriction, Apply: func(v AxesView, _ FrameContext) AxesView {
		v.Title = "Manning's $n$ Coefficient"
		return v
	}}
}

func tickLabels(ticks []float64) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = "$" + formatFloat(t) + "$"
	}
	return out
}

func cloneLines(l []Line) []Line {
	return append([]Line(nil), l...)
}

func cloneMarkers(m []Marker) []Marker {
	return append([]Marker(nil), m...)
}
