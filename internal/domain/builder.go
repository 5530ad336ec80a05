package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// RunData is the aggregate run configuration. It is a value: every With method
// and Step returns a modified copy and never touches the receiver's slices.
type RunData struct {
	Package    string
	Claw       ClawData
	AMR        AMRData
	Regions    []Region
	Gauges     []Gauge
	Refinement RefinementData
	Topo       []TopoFile
	Qinit      QinitData
	FixedGrids int
	Surge      SurgeData
	Friction   FrictionData

	geo *GeoData
}

// Step is one pure transformation in a run-configuration build.
type Step func(RunData) (RunData, error)

// ValidatePackage checks that the target solver package is geoclaw.
func ValidatePackage(name string) error {
	if strings.ToLower(name) != PackageGeoClaw {
		return configErrorf("claw_pkg", "expected %q, got %q", PackageGeoClaw, name)
	}
	return nil
}

// NewRunData returns solver defaults for the given package. Only the geoclaw
// package carries GeoClaw sections.
func NewRunData(pkg string) (RunData, error) {
	if err := ValidatePackage(pkg); err != nil {
		return RunData{}, err
	}
	rd := RunData{
		Package: strings.ToLower(pkg),
		Claw: ClawData{
			NumDim:              2,
			NumEqn:              3,
			NumAux:              3,
			CapaIndex:           2,
			OutputStyle:         1,
			OutputT0:            true,
			OutputFormat:        "ascii",
			OutputQComponents:   "all",
			OutputAuxComponents: "none",
			DtVariable:          true,
			DtInitial:           1e-5,
			DtMax:               1e99,
			CFLDesired:          0.9,
			CFLMax:              1.0,
			StepsMax:            50000,
			Order:               2,
			DimensionalSplit:    "unsplit",
			TransverseWaves:     TransverseIncrement,
			NumWaves:            3,
			Limiter:             []Limiter{LimiterMC, LimiterMC, LimiterMC},
			UseFWaves:           true,
			SourceSplit:         SourceSplitGodunov,
			NumGhost:            2,
			BCLower:             [2]BoundaryCondition{BCExtrap, BCExtrap},
			BCUpper:             [2]BoundaryCondition{BCExtrap, BCExtrap},
		},
		AMR: AMRData{
			LevelsMax:         1,
			AuxType:           []AuxType{AuxCenter, AuxCapacity, AuxYLeft},
			Flag2Refine:       true,
			Flag2RefineTol:    0.05,
			FlagRichardsonTol: 0.05,
			RegridInterval:    2,
			RegridBufferWidth: 3,
			ClusteringCutoff:  0.7,
		},
		Refinement: RefinementData{
			WaveTolerance:              0.1,
			DeepDepth:                  100.0,
			MaxLevelDeep:               3,
			VariableDtRefinementRatios: false,
		},
		Surge: SurgeData{
			DragLaw:    1,
			StormModel: StormHolland80,
		},
	}
	rd.geo = &GeoData{
		Gravity:          9.81,
		CoordinateSystem: 2,
		EarthRadius:      6367.5e3,
		Rho:              1025.0,
		RhoAir:           1.15,
		AmbientPressure:  101.3e3,
		CoriolisForcing:  true,
		FrictionForcing:  true,
		FrictionDepth:    1e6,
		DryTolerance:     1e-3,
	}
	return rd, nil
}

// GeoClaw returns the GeoClaw physics section and whether it is present.
func (r RunData) GeoClaw() (GeoData, bool) {
	if r.geo == nil {
		return GeoData{}, false
	}
	return *r.geo, true
}

// WithGeoClaw replaces the GeoClaw physics section. It fails when the run data
// was not built for the geoclaw package.
func (r RunData) WithGeoClaw(g GeoData) (RunData, error) {
	if r.geo == nil {
		return r, &ConfigurationError{Field: "geo_data", Reason: "missing geodata section", Err: ErrNotGeoClaw}
	}
	r.geo = &g
	return r, nil
}

// WithClaw replaces the single-grid parameters.
func (r RunData) WithClaw(c ClawData) RunData {
	c.Limiter = slices.Clone(c.Limiter)
	c.OutputTimes = slices.Clone(c.OutputTimes)
	c.CheckptTimes = slices.Clone(c.CheckptTimes)
	r.Claw = c
	return r
}

// WithAMR replaces the refinement parameters.
func (r RunData) WithAMR(a AMRData) RunData {
	a.RefinementRatiosX = slices.Clone(a.RefinementRatiosX)
	a.RefinementRatiosY = slices.Clone(a.RefinementRatiosY)
	a.RefinementRatiosT = slices.Clone(a.RefinementRatiosT)
	a.AuxType = slices.Clone(a.AuxType)
	r.AMR = a
	return r
}

// WithRegion appends a refinement region. Order is significant.
func (r RunData) WithRegion(reg Region) RunData {
	r.Regions = appendClone(r.Regions, reg)
	return r
}

// WithGauge appends a gauge. Order is significant.
func (r RunData) WithGauge(g Gauge) RunData {
	r.Gauges = appendClone(r.Gauges, g)
	return r
}

// WithTopo appends a topography file reference.
func (r RunData) WithTopo(t TopoFile) RunData {
	r.Topo = appendClone(r.Topo, t)
	return r
}

// WithRefinement replaces the GeoClaw flagging criteria.
func (r RunData) WithRefinement(rf RefinementData) RunData {
	rf.SpeedTolerance = slices.Clone(rf.SpeedTolerance)
	r.Refinement = rf
	return r
}

// WithSurge replaces the storm-forcing parameters.
func (r RunData) WithSurge(s SurgeData) RunData {
	s.WindRefine = slices.Clone(s.WindRefine)
	s.RRefine = slices.Clone(s.RRefine)
	r.Surge = s
	return r
}

// WithFriction sets the variable-friction switch and clears the region list.
func (r RunData) WithFriction(variable bool) RunData {
	r.Friction = FrictionData{VariableFriction: variable}
	return r
}

// WithFrictionRegion appends a friction region.
func (r RunData) WithFrictionRegion(fr FrictionRegion) RunData {
	fr.Depths = slices.Clone(fr.Depths)
	fr.Coefficients = slices.Clone(fr.Coefficients)
	regions := appendClone(r.Friction.Regions, fr)
	r.Friction = FrictionData{VariableFriction: r.Friction.VariableFriction, Regions: regions}
	return r
}

// Apply runs steps in order, stopping at the first error.
func (r RunData) Apply(steps ...Step) (RunData, error) {
	var err error
	for _, step := range steps {
		r, err = step(r)
		if err != nil {
			return RunData{}, err
		}
	}
	return r, nil
}

func appendClone[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// NumCells returns the cell count along one axis: the whole-degree extent
// times the cells-per-degree density.
func NumCells(lower, upper Degrees, density int) int {
	return int(math.Floor(float64(upper-lower))) * density
}

// NumOutputTimes returns the frame count for recurrence frames per day over
// the simulated window.
func NumOutputTimes(t0, tfinal Seconds, recurrence float64) int {
	return int(math.Floor(float64(tfinal-t0) * recurrence / SecondsPerDay))
}

// FinalRunData is run data that passed validation. It is the only input the
// data-file writer accepts.
type FinalRunData struct {
	data RunData
}

// Data returns a copy of the validated run data.
func (f FinalRunData) Data() RunData {
	return f.data.clone()
}

// Geo returns the validated GeoClaw physics section. The zero FinalRunData
// has none and reports ErrNotGeoClaw.
func (f FinalRunData) Geo() (GeoData, error) {
	if f.data.geo == nil {
		return GeoData{}, &ConfigurationError{Field: "geo_data", Reason: "missing geodata section", Err: ErrNotGeoClaw}
	}
	return *f.data.geo, nil
}

func (r RunData) clone() RunData {
	out := r.WithClaw(r.Claw).WithAMR(r.AMR).WithRefinement(r.Refinement).WithSurge(r.Surge)
	out.Regions = slices.Clone(r.Regions)
	out.Gauges = slices.Clone(r.Gauges)
	out.Topo = slices.Clone(r.Topo)
	out.Qinit.QinitFiles = slices.Clone(r.Qinit.QinitFiles)
	out.Friction = FrictionData{VariableFriction: r.Friction.VariableFriction}
	for _, fr := range r.Friction.Regions {
		out = out.WithFrictionRegion(fr)
	}
	if r.geo != nil {
		g := *r.geo
		out.geo = &g
	}
	return out
}

// Finalize validates the run data and freezes it for serialization.
func (r RunData) Finalize() (FinalRunData, error) {
	if err := ValidatePackage(r.Package); err != nil {
		return FinalRunData{}, err
	}
	if r.geo == nil {
		return FinalRunData{}, &ConfigurationError{Field: "geo_data", Reason: "missing geodata section", Err: ErrNotGeoClaw}
	}
	checks := []func() error{
		r.validateClaw,
		r.validateAMR,
		r.validateRegions,
		r.validateGauges,
		r.validateTopo,
		r.validateSurge,
		r.validateFriction,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return FinalRunData{}, err
		}
	}
	return FinalRunData{data: r.clone()}, nil
}

func (r RunData) validateClaw() error {
	c := r.Claw
	if c.NumDim != 2 {
		return configErrorf("num_dim", "must be 2, got %d", c.NumDim)
	}
	for i := range 2 {
		if c.Lower[i] >= c.Upper[i] {
			return configErrorf("lower", "axis %d: lower %g is not below upper %g", i, c.Lower[i], c.Upper[i])
		}
		if c.NumCells[i] <= 0 {
			return configErrorf("num_cells", "axis %d: must be positive, got %d", i, c.NumCells[i])
		}
		if c.BCLower[i].Code() < 0 || c.BCUpper[i].Code() < 0 {
			return configErrorf("bc_lower", "axis %d: unknown boundary condition", i)
		}
	}
	if c.TFinal <= c.T0 && c.OutputStyle == 1 {
		return configErrorf("tfinal", "%g is not after t0 %g", c.TFinal, c.T0)
	}
	switch c.OutputStyle {
	case 1:
		if c.NumOutputTimes < 0 {
			return configErrorf("num_output_times", "must not be negative")
		}
	case 2:
		if len(c.OutputTimes) == 0 {
			return configErrorf("output_times", "required for output_style 2")
		}
	case 3:
		if c.OutputStepInterval <= 0 || c.TotalSteps <= 0 {
			return configErrorf("output_step_interval", "positive interval and total_steps required for output_style 3")
		}
	default:
		return configErrorf("output_style", "unknown style %d", c.OutputStyle)
	}
	switch c.OutputFormat {
	case "ascii", "netcdf", "binary":
	default:
		return configErrorf("output_format", "unknown format %q", c.OutputFormat)
	}
	if !validComponents(c.OutputQComponents) {
		return configErrorf("output_q_components", "must be all or none, got %q", c.OutputQComponents)
	}
	if !validComponents(c.OutputAuxComponents) {
		return configErrorf("output_aux_components", "must be all or none, got %q", c.OutputAuxComponents)
	}
	switch c.DimensionalSplit {
	case "unsplit", "godunov", "strang":
	default:
		return configErrorf("dimensional_split", "unknown splitting %q", c.DimensionalSplit)
	}
	if len(c.Limiter) != c.NumWaves {
		return configErrorf("limiter", "need %d entries (num_waves), got %d", c.NumWaves, len(c.Limiter))
	}
	for _, l := range c.Limiter {
		if l.Code() < 0 {
			return configErrorf("limiter", "unknown limiter %q", l)
		}
	}
	if c.SourceSplit.Code() < 0 {
		return configErrorf("source_split", "unknown splitting %q", c.SourceSplit)
	}
	if c.TransverseWaves.Code() < 0 {
		return configErrorf("transverse_waves", "unknown value %q", c.TransverseWaves)
	}
	if c.Order != 1 && c.Order != 2 {
		return configErrorf("order", "must be 1 or 2, got %d", c.Order)
	}
	if c.CFLDesired > c.CFLMax {
		return configErrorf("cfl_desired", "%g exceeds cfl_max %g", c.CFLDesired, c.CFLMax)
	}
	switch c.CheckptStyle {
	case 0, 1:
	case 2:
		if len(c.CheckptTimes) == 0 {
			return configErrorf("checkpt_times", "required for checkpt_style 2")
		}
	case 3:
		if c.CheckptInterval <= 0 {
			return configErrorf("checkpt_interval", "must be positive for checkpt_style 3")
		}
	default:
		return configErrorf("checkpt_style", "unknown style %d", c.CheckptStyle)
	}
	return nil
}

func validComponents(s string) bool {
	return s == "all" || s == "none"
}

func (r RunData) validateAMR() error {
	a := r.AMR
	if a.LevelsMax < 1 {
		return configErrorf("amr_levels_max", "must be at least 1, got %d", a.LevelsMax)
	}
	need := a.LevelsMax - 1
	ratios := []struct {
		name   string
		values []int
	}{
		{"refinement_ratios_x", a.RefinementRatiosX},
		{"refinement_ratios_y", a.RefinementRatiosY},
		{"refinement_ratios_t", a.RefinementRatiosT},
	}
	for _, rr := range ratios {
		if len(rr.values) < need {
			return configErrorf(rr.name, "need at least %d entries, got %d", need, len(rr.values))
		}
		for _, v := range rr.values {
			if v < 1 {
				return configErrorf(rr.name, "ratios must be positive, got %d", v)
			}
		}
	}
	if len(a.AuxType) != r.Claw.NumAux {
		return configErrorf("aux_type", "need %d entries (num_aux), got %d", r.Claw.NumAux, len(a.AuxType))
	}
	if a.ClusteringCutoff <= 0 || a.ClusteringCutoff > 1 {
		return configErrorf("clustering_cutoff", "must be in (0, 1], got %g", a.ClusteringCutoff)
	}
	return nil
}

func (r RunData) validateLevels(field string, i, minLevel, maxLevel int, t1, t2 Seconds) error {
	if minLevel < 1 || maxLevel > r.AMR.LevelsMax || minLevel > maxLevel {
		return configErrorf(field, "entry %d: levels %d..%d outside 1..%d", i, minLevel, maxLevel, r.AMR.LevelsMax)
	}
	if t1 > t2 {
		return configErrorf(field, "entry %d: t1 %g is after t2 %g", i, t1, t2)
	}
	return nil
}

func (r RunData) validateRegions() error {
	for i, reg := range r.Regions {
		if err := r.validateLevels("regions", i, reg.MinLevel, reg.MaxLevel, reg.T1, reg.T2); err != nil {
			return err
		}
		if reg.X1 > reg.X2 || reg.Y1 > reg.Y2 {
			return configErrorf("regions", "entry %d: inverted box", i)
		}
	}
	return nil
}

func (r RunData) validateGauges() error {
	seen := make(map[int]struct{}, len(r.Gauges))
	for i, g := range r.Gauges {
		if _, dup := seen[g.ID]; dup {
			return configErrorf("gauges", "entry %d: duplicate gauge id %d", i, g.ID)
		}
		seen[g.ID] = struct{}{}
		if g.T1 > g.T2 {
			return configErrorf("gauges", "entry %d: t1 %g is after t2 %g", i, g.T1, g.T2)
		}
	}
	return nil
}

func (r RunData) validateTopo() error {
	for i, t := range r.Topo {
		if strings.TrimSpace(t.Path) == "" {
			return configErrorf("topofiles", "entry %d: path is required", i)
		}
		if err := r.validateLevels("topofiles", i, t.MinLevel, t.MaxLevel, t.T1, t.T2); err != nil {
			return err
		}
	}
	return nil
}

func (r RunData) validateSurge() error {
	s := r.Surge
	if _, ok := s.StormModel.Code(); !ok {
		return configErrorf("storm_specification_type", "unknown storm model %q", s.StormModel)
	}
	if (s.WindForcing || s.PressureForcing) && strings.TrimSpace(s.StormFile) == "" {
		return configErrorf("storm_file", "required when wind or pressure forcing is on")
	}
	return nil
}

func (r RunData) validateFriction() error {
	for i, fr := range r.Friction.Regions {
		if len(fr.Coefficients) != len(fr.Depths)-1 {
			return configErrorf("friction_regions",
				"entry %d: %d coefficients for %d depths", i, len(fr.Coefficients), len(fr.Depths))
		}
		for j := 1; j < len(fr.Depths); j++ {
			if fr.Depths[j] > fr.Depths[j-1] {
				return configErrorf("friction_regions", "entry %d: depths must be descending", i)
			}
		}
	}
	return nil
}

// String summarizes the run data for logs.
func (r RunData) String() string {
	return fmt.Sprintf("%s %dx%d cells, %d levels, %d regions, %d gauges, %d topo files",
		r.Package, r.Claw.NumCells[0], r.Claw.NumCells[1], r.AMR.LevelsMax,
		len(r.Regions), len(r.Gauges), len(r.Topo))
}
