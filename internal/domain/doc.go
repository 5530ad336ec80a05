// Package domain models storm-surge run configuration, best-track storm data
// and plot descriptors for a GeoClaw-style adaptive-mesh solver.
//
// # Run Configuration
//
// A run is described by [RunData], an immutable aggregate of one struct per
// solver data file (claw, amr, regions, gauges, geoclaw, refinement, topo,
// qinit, fixed grids, surge, friction). Values are transformed by
// value-receiver With methods and [Step] functions; every list is cloned on
// append so two RunData values never share backing arrays. [RunData.Finalize]
// validates the whole configuration once and returns a [FinalRunData], the
// only type the data-file writer accepts.
//
// Geophysical sections exist only for the geoclaw package. Steps that need
// them call [RunData.GeoClaw] and fail with a [ConfigurationError] naming
// geo_data when it reports false.
//
// # Units
//
// Fields carry semantic types rather than bare floats:
//
//	Seconds          simulated time, relative to the solver's clock origin
//	Degrees          longitude/latitude in decimal degrees
//	Meters           lengths and depths
//	MetersPerSecond  speeds
//	Pascals          pressures
//	Ratio            dimensionless (CFL numbers, cutoffs, Manning's n)
//
// # ATCF Best Track
//
// Best-track (b-deck) files are comma separated, one row per synoptic time
// and wind-radius threshold:
//
//	AL, 18, 2012102200,   , BEST,   0, 130N,  781W,  25, 1003, TD,  34, NEQ, ...
//
// Coordinates are tenths of a degree with a hemisphere suffix ("781W" is
// -78.1). Speeds are knots, pressures millibars and radii nautical miles;
// they are converted to m/s, Pa and m on read. Rows for the 50 and 64 kt
// thresholds repeat the synoptic time and are folded into the 34 kt record.
// A zero radius of maximum winds means "not reported" and is kept as zero.
//
// # Storm Forcing File
//
// The solver reads the track as:
//
//	<record count> <landfall RFC3339>
//
//	t lon lat max_wind_radius max_wind_speed central_pressure storm_radius
//
// with t in seconds relative to landfall, so landfall is simulated time zero.
//
// # Plot Descriptors
//
// [BuildPlotData] turns the parameter files read back from a finished run
// and the solver's echoed track into an ordered [PlotData]. Figure order is
// the layout's region order; hooks are named pure functions over an
// [AxesView] and serialize by name only.
package domain
