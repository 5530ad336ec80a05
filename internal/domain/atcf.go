package domain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ATCF b-deck column indexes (0-based).
const (
	atcfBasin    = 0
	atcfNumber   = 1
	atcfDateTime = 2
	atcfMinutes  = 3
	atcfLat      = 6
	atcfLon      = 7
	atcfVMax     = 8
	atcfMSLP     = 9
	atcfClass    = 10
	atcfRad      = 11
	atcfRad1     = 13
	atcfROuter   = 18
	atcfRMW      = 19
	atcfName     = 27

	atcfMinColumns = atcfRMW + 1
)

// ParseATCF reads an ATCF best-track (b-deck) file into a StormTrack.
// Rows sharing a synoptic time (one per wind-radius threshold) collapse into a
// single record; the 34 kt row supplies the quadrant wind radii. source names
// the input in FormatError messages.
func ParseATCF(r io.Reader, source string) (StormTrack, error) {
	var track StormTrack
	index := make(map[time.Time]int)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		cols := strings.Split(text, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if len(cols) < atcfMinColumns {
			return StormTrack{}, &FormatError{Source: source, Line: line,
				Reason: fmt.Sprintf("expected at least %d columns, got %d", atcfMinColumns, len(cols))}
		}

		rec, err := parseATCFRow(cols)
		if err != nil {
			err.Source = source
			err.Line = line
			return StormTrack{}, err
		}

		if track.Basin == "" {
			track.Basin = strings.ToUpper(cols[atcfBasin])
			n, convErr := strconv.Atoi(cols[atcfNumber])
			if convErr != nil {
				return StormTrack{}, &FormatError{Source: source, Line: line, Column: atcfNumber + 1,
					Reason: "storm number", Err: convErr}
			}
			track.Number = n
		}
		if len(cols) > atcfName {
			if name := cols[atcfName]; name != "" {
				track.Name = name
			}
		}

		rad := parseIntOrZero(cols[atcfRad])
		if i, seen := index[rec.Time]; seen {
			if rad == 34 {
				track.Records[i].WindRadii = rec.WindRadii
			}
			continue
		}
		if rad != 34 {
			rec.WindRadii = [4]Meters{}
		}
		index[rec.Time] = len(track.Records)
		track.Records = append(track.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return StormTrack{}, fmt.Errorf("read %s: %w", source, err)
	}
	if len(track.Records) == 0 {
		return StormTrack{}, &FormatError{Source: source, Line: line, Reason: "no track records"}
	}
	track.Offset = track.Records[0].Time
	return track, nil
}

func parseATCFRow(cols []string) (TrackRecord, *FormatError) {
	t, err := time.ParseInLocation("2006010215", cols[atcfDateTime], time.UTC)
	if err != nil {
		return TrackRecord{}, &FormatError{Column: atcfDateTime + 1, Reason: "synoptic time", Err: err}
	}
	if m := parseIntOrZero(cols[atcfMinutes]); m > 0 && m < 60 {
		t = t.Add(time.Duration(m) * time.Minute)
	}

	lat, err := parseHemisphere(cols[atcfLat], 'N', 'S')
	if err != nil {
		return TrackRecord{}, &FormatError{Column: atcfLat + 1, Reason: "latitude", Err: err}
	}
	lon, err := parseHemisphere(cols[atcfLon], 'E', 'W')
	if err != nil {
		return TrackRecord{}, &FormatError{Column: atcfLon + 1, Reason: "longitude", Err: err}
	}

	numeric := [4]int{atcfVMax, atcfMSLP, atcfROuter, atcfRMW}
	var vals [4]float64
	for i, col := range numeric {
		v, err := parseBlankAsZero(cols[col])
		if err != nil {
			return TrackRecord{}, &FormatError{Column: col + 1, Reason: "numeric field", Err: err}
		}
		vals[i] = v
	}

	var radii [4]Meters
	for q := range 4 {
		v, err := parseBlankAsZero(cols[atcfRad1+q])
		if err != nil {
			return TrackRecord{}, &FormatError{Column: atcfRad1 + q + 1, Reason: "wind radius", Err: err}
		}
		radii[q] = Meters(v * nauticalMilesToMeters)
	}

	return TrackRecord{
		Time:            t,
		Lat:             Degrees(lat),
		Lon:             Degrees(lon),
		MaxWindSpeed:    MetersPerSecond(vals[0] * knotsToMetersPerSecond),
		CentralPressure: Pascals(vals[1] * millibarsToPascals),
		StormRadius:     Meters(vals[2] * nauticalMilesToMeters),
		MaxWindRadius:   Meters(vals[3] * nauticalMilesToMeters),
		WindRadii:       radii,
		Class:           cols[atcfClass],
	}, nil
}

// parseHemisphere decodes ATCF tenths-of-degree coordinates such as "130N" or
// "781W". neg is the hemisphere letter that makes the value negative.
func parseHemisphere(s string, pos, neg byte) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("coordinate %q too short", s)
	}
	hemi := s[len(s)-1]
	if hemi != pos && hemi != neg {
		return 0, fmt.Errorf("coordinate %q: hemisphere must be %c or %c", s, pos, neg)
	}
	tenths, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	v := float64(tenths) / 10.0
	if hemi == neg {
		v = -v
	}
	return v, nil
}

func parseBlankAsZero(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func fmtStormID(basin string, number, year int) string {
	return fmt.Sprintf("%s%02d%04d", strings.ToUpper(basin), number, year)
}
