// Package scenario holds the concrete storm runs and plot layouts this tool
// ships with.
package scenario

import (
	"math"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// Storm identifies a best-track archive entry.
type Storm struct {
	Year   int
	Basin  string
	Number int
	// Landfall aligns the track: it becomes simulated time zero.
	Landfall time.Time
}

// Sandy is Hurricane Sandy (AL18, 2012), landfall near Brigantine, NJ.
var Sandy = Storm{
	Year:     2012,
	Basin:    "al",
	Number:   18,
	Landfall: time.Date(2012, 10, 30, 0, 0, 0, 0, time.UTC),
}

// SandyStormFile is the storm-forcing file name written next to the data files.
const SandyStormFile = "sandy.storm"

// SandyParams are the filesystem locations the Sandy run depends on.
type SandyParams struct {
	// StormFile is the absolute path of the storm-forcing file.
	StormFile string
	// BathyDir holds the topography rasters.
	BathyDir string
}

const (
	sandyDensity    = 4
	sandyRecurrence = 24.0
)

// SandySteps returns the build steps for the Sandy surge run.
func SandySteps(p SandyParams) []domain.Step {
	return []domain.Step{
		sandyClaw,
		sandyAMR,
		sandyRegions,
		sandyGauges,
		sandyGeo,
		sandyRefinement,
		sandyTopo(p.BathyDir),
		sandySurge(p.StormFile),
		sandyFriction,
	}
}

// BuildSandy builds and validates the Sandy run for the given solver package.
func BuildSandy(pkg string, p SandyParams) (domain.FinalRunData, error) {
	rd, err := domain.NewRunData(pkg)
	if err != nil {
		return domain.FinalRunData{}, err
	}
	rd, err = rd.Apply(SandySteps(p)...)
	if err != nil {
		return domain.FinalRunData{}, err
	}
	return rd.Finalize()
}

func sandyClaw(rd domain.RunData) (domain.RunData, error) {
	c := rd.Claw
	c.NumDim = 2
	c.Lower = [2]domain.Degrees{-88.0, 15.0}
	c.Upper = [2]domain.Degrees{-55.0, 45.0}
	c.NumCells = [2]int{
		domain.NumCells(c.Lower[0], c.Upper[0], sandyDensity),
		domain.NumCells(c.Lower[1], c.Upper[1], sandyDensity),
	}
	c.NumEqn = 3
	// Three bathymetry/capacity terms, one friction coefficient, three storm fields.
	c.NumAux = 3 + 1 + 3
	c.CapaIndex = 2

	c.T0 = domain.Days(-2)
	c.Restart = false
	c.RestartFile = "fort.chk00043"

	c.OutputStyle = 1
	c.TFinal = domain.Days(1)
	c.NumOutputTimes = domain.NumOutputTimes(c.T0, c.TFinal, sandyRecurrence)
	c.OutputT0 = true
	c.OutputFormat = "ascii"
	c.OutputQComponents = "all"
	c.OutputAuxComponents = "all"
	c.OutputAuxOnlyOnce = false

	c.Verbosity = 4
	c.DtVariable = true
	c.DtInitial = 0.016
	c.DtMax = 1e99
	c.CFLDesired = 0.75
	c.CFLMax = 1.0
	c.StepsMax = 1 << 16

	c.Order = 1
	c.DimensionalSplit = "unsplit"
	c.TransverseWaves = domain.TransverseAll
	c.NumWaves = 3
	c.Limiter = []domain.Limiter{domain.LimiterMC, domain.LimiterMC, domain.LimiterMC}
	c.UseFWaves = true
	c.SourceSplit = domain.SourceSplitGodunov

	c.NumGhost = 2
	c.BCLower = [2]domain.BoundaryCondition{domain.BCExtrap, domain.BCExtrap}
	c.BCUpper = [2]domain.BoundaryCondition{domain.BCExtrap, domain.BCExtrap}

	c.CheckptStyle = 0
	return rd.WithClaw(c), nil
}

func sandyAMR(rd domain.RunData) (domain.RunData, error) {
	ratios := []int{2, 2, 2, 6, 8}
	a := domain.AMRData{
		LevelsMax:         6,
		RefinementRatiosX: ratios,
		RefinementRatiosY: ratios,
		RefinementRatiosT: ratios,
		AuxType: []domain.AuxType{
			domain.AuxCenter, domain.AuxCapacity, domain.AuxYLeft,
			domain.AuxCenter, domain.AuxCenter, domain.AuxCenter, domain.AuxCenter,
		},
		FlagRichardson:    false,
		FlagRichardsonTol: rd.AMR.FlagRichardsonTol,
		Flag2Refine:       true,
		Flag2RefineTol:    rd.AMR.Flag2RefineTol,
		RegridInterval:    4,
		RegridBufferWidth: 2,
		ClusteringCutoff:  0.7,
		VerbosityRegrid:   0,
	}
	return rd.WithAMR(a), nil
}

func sandyRegions(rd domain.RunData) (domain.RunData, error) {
	return rd.
		WithRegion(domain.Region{MinLevel: 1, MaxLevel: 6, T1: domain.Days(-0.45), T2: domain.Days(0.10),
			X1: -74.1, X2: -73.7, Y1: 40.55, Y2: 48.5}).
		WithRegion(domain.Region{MinLevel: 1, MaxLevel: 5, T1: domain.Days(0.10), T2: domain.Days(1),
			X1: -74.2, X2: -73.7, Y1: 40.55, Y2: 48.5}), nil
}

// Tide stations around New York Harbor.
func sandyGauges(rd domain.RunData) (domain.RunData, error) {
	t1, t2 := rd.Claw.T0, rd.Claw.TFinal
	return rd.
		WithGauge(domain.Gauge{ID: 1, X: -74.013, Y: 40.7, T1: t1, T2: t2}).     // Battery
		WithGauge(domain.Gauge{ID: 2, X: -73.77, Y: 40.81, T1: t1, T2: t2}).     // Kings Point
		WithGauge(domain.Gauge{ID: 3, X: -74.14166, Y: 40.6367, T1: t1, T2: t2}), // Bergen Point West Reach
		nil
}

func sandyGeo(rd domain.RunData) (domain.RunData, error) {
	geo, ok := rd.GeoClaw()
	if !ok {
		return rd, &domain.ConfigurationError{Field: "geo_data", Reason: "missing geodata section", Err: domain.ErrNotGeoClaw}
	}
	geo.Gravity = 9.81
	geo.CoordinateSystem = 2
	geo.EarthRadius = 6367.5e3
	geo.Rho = 1025.0
	geo.RhoAir = 1.15
	geo.AmbientPressure = 101.3e3
	geo.CoriolisForcing = true
	geo.FrictionForcing = true
	geo.FrictionDepth = 1e10
	geo.SeaLevel = 0.33
	geo.DryTolerance = 1e-2
	return rd.WithGeoClaw(geo)
}

func sandyRefinement(rd domain.RunData) (domain.RunData, error) {
	return rd.WithRefinement(domain.RefinementData{
		WaveTolerance:              1.0,
		SpeedTolerance:             []domain.MetersPerSecond{1, 2, 3, 4},
		DeepDepth:                  300,
		MaxLevelDeep:               4,
		VariableDtRefinementRatios: true,
	}), nil
}

func sandyTopo(bathyDir string) domain.Step {
	return func(rd domain.RunData) (domain.RunData, error) {
		if _, ok := rd.GeoClaw(); !ok {
			return rd, &domain.ConfigurationError{Field: "topo_data", Reason: "missing geodata section", Err: domain.ErrNotGeoClaw}
		}
		whole := func(name string) domain.TopoFile {
			return domain.TopoFile{TopoType: 3, MinLevel: 1, MaxLevel: 3,
				T1: domain.Days(-2), T2: domain.Days(1), Path: filepath.Join(bathyDir, name)}
		}
		harbor := func(name string) domain.TopoFile {
			return domain.TopoFile{TopoType: 4, MinLevel: 1, MaxLevel: 6,
				T1: domain.Days(-0.45), T2: domain.Days(0.46), Path: filepath.Join(bathyDir, name)}
		}
		return rd.
			WithTopo(whole("atlantic_1min.tt3")).
			WithTopo(whole("newyork_3s.tt3")).
			WithTopo(harbor("nc41x00_74x00.nc")).
			WithTopo(harbor("nc40x75_74x00.nc")).
			WithTopo(harbor("nc40x50_74x00.nc")).
			WithTopo(harbor("nc40x75_73x75.nc")), nil
	}
}

func sandySurge(stormFile string) domain.Step {
	return func(rd domain.RunData) (domain.RunData, error) {
		if _, ok := rd.GeoClaw(); !ok {
			return rd, &domain.ConfigurationError{Field: "surge_data", Reason: "missing geodata section", Err: domain.ErrNotGeoClaw}
		}
		return rd.WithSurge(domain.SurgeData{
			WindForcing:         true,
			DragLaw:             1,
			PressureForcing:     true,
			DisplayLandfallTime: true,
			WindRefine:          []domain.MetersPerSecond{20, 40, 60},
			RRefine:             []domain.Meters{60e3, 40e3, 20e3},
			StormModel:          domain.StormHolland80,
			StormFile:           stormFile,
			Landfall:            0,
		}), nil
	}
}

// sandyFriction applies one whole-domain region: n = 0.025 below sea level
// and 0.050 on land.
func sandyFriction(rd domain.RunData) (domain.RunData, error) {
	return rd.WithFriction(true).WithFrictionRegion(domain.FrictionRegion{
		Lower:        rd.Claw.Lower,
		Upper:        rd.Claw.Upper,
		Depths:       []domain.Meters{domain.Meters(math.Inf(1)), 0, domain.Meters(math.Inf(-1))},
		Coefficients: []domain.Ratio{0.050, 0.025},
	}), nil
}
