package domain

// SecondsPerDay is the number of simulated seconds in one day.
const SecondsPerDay = 60.0 * 60.0 * 24.0

// Seconds is simulated time in seconds, relative to the solver's clock origin.
type Seconds float64

// Days converts a number of days into simulated seconds.
func Days(d float64) Seconds {
	return Seconds(d * SecondsPerDay)
}

// Days returns the value expressed in days.
func (s Seconds) Days() float64 {
	return float64(s) / SecondsPerDay
}

// Degrees is a longitude or latitude in decimal degrees.
type Degrees float64

// Meters is a length in meters.
type Meters float64

// MetersPerSecond is a speed in meters per second.
type MetersPerSecond float64

// Pascals is a pressure in pascals.
type Pascals float64

// Ratio is a dimensionless quantity (Courant number, cutoff fraction, Manning's n).
type Ratio float64

// Unit conversions used when reading best-track data.
const (
	knotsToMetersPerSecond = 0.514444
	millibarsToPascals     = 100.0
	nauticalMilesToMeters  = 1852.0
)
