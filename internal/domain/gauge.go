package domain

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// GaugeSolution is the time series recorded by one gauge during a run.
type GaugeSolution struct {
	ID      int
	X, Y    Degrees
	Levels  []int
	Times   []Seconds
	Surface []Meters
}

// SeriesPoint is one sample of a gauge series on a landfall-relative axis.
type SeriesPoint struct {
	Days    float64 `json:"days"`
	Surface Meters  `json:"surface"`
}

// GaugeFileName returns the solver's file name for a gauge, e.g. gauge00001.txt.
func GaugeFileName(id int) string {
	return fmt.Sprintf("gauge%05d.txt", id)
}

var (
	gaugeIDPattern       = regexp.MustCompile(`gauge_id=\s*(\d+)`)
	gaugeLocationPattern = regexp.MustCompile(`location=\(\s*(\S+)\s+(\S+)\s*\)`)
)

// ReadGaugeSolution parses a gauge output file. Header lines start with '#'
// and carry gauge_id and location; data rows are "level t q... eta", of which
// only level, t and the final column (surface elevation) are kept.
func ReadGaugeSolution(r io.Reader, source string) (GaugeSolution, error) {
	var g GaugeSolution
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			if m := gaugeIDPattern.FindStringSubmatch(text); m != nil {
				g.ID, _ = strconv.Atoi(m[1])
			}
			if m := gaugeLocationPattern.FindStringSubmatch(text); m != nil {
				x, xerr := parseFortranFloat(m[1])
				y, yerr := parseFortranFloat(m[2])
				if xerr != nil || yerr != nil {
					return GaugeSolution{}, &FormatError{Source: source, Line: line, Reason: "gauge location"}
				}
				g.X, g.Y = Degrees(x), Degrees(y)
			}
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return GaugeSolution{}, &FormatError{Source: source, Line: line,
				Reason: fmt.Sprintf("expected at least 3 columns, got %d", len(fields))}
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil {
			return GaugeSolution{}, &FormatError{Source: source, Line: line, Column: 1, Reason: "level", Err: err}
		}
		t, err := parseFortranFloat(fields[1])
		if err != nil {
			return GaugeSolution{}, &FormatError{Source: source, Line: line, Column: 2, Reason: "time", Err: err}
		}
		eta, err := parseFortranFloat(fields[len(fields)-1])
		if err != nil {
			return GaugeSolution{}, &FormatError{Source: source, Line: line, Column: len(fields), Reason: "surface", Err: err}
		}
		g.Levels = append(g.Levels, level)
		g.Times = append(g.Times, Seconds(t))
		g.Surface = append(g.Surface, Meters(eta))
	}
	if err := scanner.Err(); err != nil {
		return GaugeSolution{}, fmt.Errorf("read %s: %w", source, err)
	}
	return g, nil
}

// LandfallSeries returns the surface series with time expressed in days
// relative to landfall.
func (g GaugeSolution) LandfallSeries(landfall Seconds) []SeriesPoint {
	out := make([]SeriesPoint, len(g.Times))
	for i, t := range g.Times {
		out[i] = SeriesPoint{Days: float64(t-landfall) / SecondsPerDay, Surface: g.Surface[i]}
	}
	return out
}

// GaugeSeries is a gauge's location and its landfall-relative surface series.
type GaugeSeries struct {
	ID     int           `json:"id"`
	X      Degrees       `json:"x"`
	Y      Degrees       `json:"y"`
	Points []SeriesPoint `json:"points"`
}

// Series pairs the gauge location with LandfallSeries.
func (g GaugeSolution) Series(landfall Seconds) GaugeSeries {
	return GaugeSeries{ID: g.ID, X: g.X, Y: g.Y, Points: g.LandfallSeries(landfall)}
}

func parseFortranFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}
