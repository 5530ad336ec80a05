package domain

import (
	"slices"
	"time"
)

// TrackRecord is one synoptic fix of a storm: position and intensity at Time.
type TrackRecord struct {
	Time            time.Time       `json:"time"`
	Lon             Degrees         `json:"lon"`
	Lat             Degrees         `json:"lat"`
	MaxWindSpeed    MetersPerSecond `json:"max_wind_speed"`
	CentralPressure Pascals         `json:"central_pressure"`
	MaxWindRadius   Meters          `json:"max_wind_radius"`
	StormRadius     Meters          `json:"storm_radius"`
	// WindRadii holds the 34 kt wind radii by quadrant (NE, SE, SW, NW).
	WindRadii [4]Meters `json:"wind_radii"`
	Class     string    `json:"class,omitempty"`
}

// StormTrack is a storm's best-track time series plus the landfall offset
// used to express record times relative to landfall.
type StormTrack struct {
	Basin   string        `json:"basin"`
	Number  int           `json:"number"`
	Name    string        `json:"name,omitempty"`
	Records []TrackRecord `json:"records"`
	// Offset is the wall-clock instant that maps to simulated time zero.
	Offset time.Time `json:"offset"`
}

// Shift moves every record time by d. It is a pure shift: the record count and
// spacing are unchanged and nothing is interpolated.
func (s StormTrack) Shift(d time.Duration) StormTrack {
	out := s
	out.Records = slices.Clone(s.Records)
	for i := range out.Records {
		out.Records[i].Time = out.Records[i].Time.Add(d)
	}
	return out
}

// AlignLandfall sets the offset so that landfall is simulated time zero.
func (s StormTrack) AlignLandfall(landfall time.Time) StormTrack {
	out := s
	out.Records = slices.Clone(s.Records)
	out.Offset = landfall.UTC()
	return out
}

// RelativeTime returns a record's time in simulated seconds from the offset.
func (s StormTrack) RelativeTime(i int) Seconds {
	return Seconds(s.Records[i].Time.Sub(s.Offset).Seconds())
}

// RelativeTimes returns every record's time in simulated seconds.
func (s StormTrack) RelativeTimes() []Seconds {
	out := make([]Seconds, len(s.Records))
	for i := range s.Records {
		out[i] = s.RelativeTime(i)
	}
	return out
}

// ID returns the ATCF storm identifier, e.g. "AL182012".
func (s StormTrack) ID() string {
	year := 0
	if len(s.Records) > 0 {
		year = s.Records[0].Time.Year()
	}
	return fmtStormID(s.Basin, s.Number, year)
}

// StormSummary describes a storm track for manifests and logs.
type StormSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Records  int       `json:"records"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	Landfall time.Time `json:"landfall"`
	// MinPressure is the deepest central pressure in the track.
	MinPressure Pascals `json:"min_pressure"`
}

// Summarize reduces a track to its StormSummary.
func (s StormTrack) Summarize() StormSummary {
	sum := StormSummary{ID: s.ID(), Name: s.Name, Records: len(s.Records), Landfall: s.Offset}
	for i, r := range s.Records {
		if i == 0 || r.Time.Before(sum.First) {
			sum.First = r.Time
		}
		if i == 0 || r.Time.After(sum.Last) {
			sum.Last = r.Time
		}
		if r.CentralPressure > 0 && (sum.MinPressure == 0 || r.CentralPressure < sum.MinPressure) {
			sum.MinPressure = r.CentralPressure
		}
	}
	return sum
}
