package domain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WriteGeoClawStorm writes a track in the solver's storm-forcing format:
//
//	<record count> <offset RFC3339>
//	<blank>
//	t lon lat max_wind_radius max_wind_speed central_pressure storm_radius
//
// with t in seconds relative to the track offset.
func WriteGeoClawStorm(w io.Writer, s StormTrack) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %s\n\n", len(s.Records), s.Offset.UTC().Format(time.RFC3339))
	for i, r := range s.Records {
		fields := []float64{
			float64(s.RelativeTime(i)),
			float64(r.Lon),
			float64(r.Lat),
			float64(r.MaxWindRadius),
			float64(r.MaxWindSpeed),
			float64(r.CentralPressure),
			float64(r.StormRadius),
		}
		for j, f := range fields {
			if j > 0 {
				bw.WriteString("  ")
			}
			bw.WriteString(formatFloat(f))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// maxPreallocRecords caps the capacity reserved from an untrusted header count.
const maxPreallocRecords = 4096

// ReadGeoClawStorm parses the format written by WriteGeoClawStorm. Record times
// are rebuilt as offset + t.
func ReadGeoClawStorm(r io.Reader, source string) (StormTrack, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	var track StormTrack
	want := -1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if want < 0 {
			if len(fields) != 2 {
				return StormTrack{}, &FormatError{Source: source, Line: line, Reason: "header must be '<count> <offset>'"}
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return StormTrack{}, &FormatError{Source: source, Line: line, Column: 1, Reason: "record count", Err: err}
			}
			if n < 0 {
				return StormTrack{}, &FormatError{Source: source, Line: line, Column: 1, Reason: fmt.Sprintf("negative record count %d", n)}
			}
			offset, err := time.Parse(time.RFC3339, fields[1])
			if err != nil {
				return StormTrack{}, &FormatError{Source: source, Line: line, Column: 2, Reason: "offset", Err: err}
			}
			want = n
			track.Offset = offset.UTC()
			track.Records = make([]TrackRecord, 0, min(n, maxPreallocRecords))
			continue
		}
		vals, ferr := parseFloatFields(fields, 7, source, line)
		if ferr != nil {
			return StormTrack{}, ferr
		}
		track.Records = append(track.Records, TrackRecord{
			Time:            track.Offset.Add(time.Duration(vals[0] * float64(time.Second))),
			Lon:             Degrees(vals[1]),
			Lat:             Degrees(vals[2]),
			MaxWindRadius:   Meters(vals[3]),
			MaxWindSpeed:    MetersPerSecond(vals[4]),
			CentralPressure: Pascals(vals[5]),
			StormRadius:     Meters(vals[6]),
		})
	}
	if err := scanner.Err(); err != nil {
		return StormTrack{}, fmt.Errorf("read %s: %w", source, err)
	}
	if want < 0 {
		return StormTrack{}, &FormatError{Source: source, Line: line, Reason: "missing header"}
	}
	if len(track.Records) != want {
		return StormTrack{}, &FormatError{Source: source, Line: line,
			Reason: fmt.Sprintf("header declares %d records, found %d", want, len(track.Records))}
	}
	return track, nil
}

// TrackPoint is one row of the solver's echoed storm track (fort.track).
type TrackPoint struct {
	T   Seconds `json:"t" yaml:"t"`
	Lon Degrees `json:"lon" yaml:"lon"`
	Lat Degrees `json:"lat" yaml:"lat"`
}

// ReadTrackEcho parses the solver's fort.track file: whitespace-separated rows
// whose first three columns are t, lon, lat. Extra columns are ignored.
func ReadTrackEcho(r io.Reader, source string) ([]TrackPoint, error) {
	scanner := bufio.NewScanner(r)
	var points []TrackPoint
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		vals, err := parseFloatFields(strings.Fields(text), 3, source, line)
		if err != nil {
			return nil, err
		}
		points = append(points, TrackPoint{T: Seconds(vals[0]), Lon: Degrees(vals[1]), Lat: Degrees(vals[2])})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return points, nil
}

// parseFloatFields parses at least minCols leading fields as floats.
func parseFloatFields(fields []string, minCols int, source string, line int) ([]float64, error) {
	if len(fields) < minCols {
		return nil, &FormatError{Source: source, Line: line,
			Reason: fmt.Sprintf("expected at least %d columns, got %d", minCols, len(fields))}
	}
	vals := make([]float64, minCols)
	for i := range minCols {
		v, err := strconv.ParseFloat(strings.ReplaceAll(fields[i], "D", "E"), 64)
		if err != nil {
			return nil, &FormatError{Source: source, Line: line, Column: i + 1, Reason: "number", Err: err}
		}
		vals[i] = v
	}
	return vals, nil
}

// formatFloat renders the shortest representation that parses back exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
