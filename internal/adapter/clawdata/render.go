// Package clawdata renders validated run data into the solver's .data files
// and reads them back.
package clawdata

import (
	"strconv"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// Data file names, in the order they are written.
const (
	ClawFile       = "claw.data"
	AMRFile        = "amr.data"
	RegionsFile    = "regions.data"
	GaugesFile     = "gauges.data"
	GeoClawFile    = "geoclaw.data"
	RefinementFile = "refinement.data"
	TopoFile       = "topo.data"
	QinitFile      = "qinit.data"
	FixedGridsFile = "fgout_grids.data"
	SurgeFile      = "surge.data"
	FrictionFile   = "friction.data"
)

// Files lists every data file a run needs, in write order.
var Files = []string{
	ClawFile, AMRFile, RegionsFile, GaugesFile, GeoClawFile, RefinementFile,
	TopoFile, QinitFile, FixedGridsFile, SurgeFile, FrictionFile,
}

var (
	outputFormatCodes     = map[string]int{"ascii": 1, "netcdf": 2, "binary": 3}
	dimensionalSplitCodes = map[string]int{"unsplit": 0, "godunov": 1, "strang": 2}
)

type renderFunc func(f *dataFile, rd domain.RunData, geo domain.GeoData)

var renderers = map[string]renderFunc{
	ClawFile:       renderClaw,
	AMRFile:        renderAMR,
	RegionsFile:    renderRegions,
	GaugesFile:     renderGauges,
	GeoClawFile:    renderGeo,
	RefinementFile: renderRefinement,
	TopoFile:       renderTopo,
	QinitFile:      renderQinit,
	FixedGridsFile: renderFixedGrids,
	SurgeFile:      renderSurge,
	FrictionFile:   renderFriction,
}

// Render produces every data file in memory, keyed by file name. Nothing is
// returned unless all files render.
func Render(final domain.FinalRunData) (map[string][]byte, error) {
	geo, err := final.Geo()
	if err != nil {
		return nil, err
	}
	rd := final.Data()
	stamp := domain.Now()
	out := make(map[string][]byte, len(Files))
	for _, name := range Files {
		f := newDataFile(name, stamp)
		renderers[name](f, rd, geo)
		b, err := f.bytes()
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}

func renderClaw(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	c := rd.Claw
	f.int("num_dim", c.NumDim)
	f.floats("lower", toFloats(c.Lower[:]))
	f.floats("upper", toFloats(c.Upper[:]))
	f.ints("num_cells", c.NumCells[:])
	f.int("num_eqn", c.NumEqn)
	f.int("num_aux", c.NumAux)
	f.int("capa_index", c.CapaIndex)
	f.blank()

	f.float("t0", float64(c.T0))
	f.blank()

	f.int("output_style", c.OutputStyle)
	switch c.OutputStyle {
	case 1:
		f.int("num_output_times", c.NumOutputTimes)
		f.float("tfinal", float64(c.TFinal))
		f.bool("output_t0", c.OutputT0)
	case 2:
		f.int("num_output_times", len(c.OutputTimes))
		f.floats("output_times", toFloats(c.OutputTimes))
	case 3:
		f.int("output_step_interval", c.OutputStepInterval)
		f.int("total_steps", c.TotalSteps)
		f.bool("output_t0", c.OutputT0)
	}
	f.blank()

	code, ok := outputFormatCodes[c.OutputFormat]
	if !ok {
		f.fail("output_format", "unknown format %q", c.OutputFormat)
	}
	f.int("output_format", code)
	f.ints("output_q_components", componentFlags(c.OutputQComponents, c.NumEqn))
	f.ints("output_aux_components", componentFlags(c.OutputAuxComponents, c.NumAux))
	f.bool("output_aux_onlyonce", c.OutputAuxOnlyOnce)
	f.blank()

	f.float("dt_initial", float64(c.DtInitial))
	f.float("dt_max", float64(c.DtMax))
	f.float("cfl_max", float64(c.CFLMax))
	f.float("cfl_desired", float64(c.CFLDesired))
	f.int("steps_max", c.StepsMax)
	f.blank()

	f.bool("dt_variable", c.DtVariable)
	f.int("order", c.Order)
	split, ok := dimensionalSplitCodes[c.DimensionalSplit]
	if !ok {
		f.fail("dimensional_split", "unknown splitting %q", c.DimensionalSplit)
	}
	f.int("dimensional_split", split)
	f.int("verbosity", c.Verbosity)
	f.int("source_split", c.SourceSplit.Code())
	f.bool("use_fwaves", c.UseFWaves)
	f.int("transverse_waves", c.TransverseWaves.Code())
	f.int("num_waves", c.NumWaves)
	f.ints("limiter", mapSlice(c.Limiter, domain.Limiter.Code))
	f.blank()

	f.int("num_ghost", c.NumGhost)
	f.ints("bc_lower", []int{c.BCLower[0].Code(), c.BCLower[1].Code()})
	f.ints("bc_upper", []int{c.BCUpper[0].Code(), c.BCUpper[1].Code()})
	f.blank()

	f.bool("restart", c.Restart)
	f.str("restart_file", c.RestartFile)
	f.int("checkpt_style", c.CheckptStyle)
	switch c.CheckptStyle {
	case 2:
		f.int("num_checkpt_times", len(c.CheckptTimes))
		f.floats("checkpt_times", toFloats(c.CheckptTimes))
	case 3:
		f.int("checkpt_interval", c.CheckptInterval)
	}
}

// componentFlags expands "all"/"none" into one 1/0 flag per component.
func componentFlags(which string, n int) []int {
	flags := make([]int, n)
	if which == "all" {
		for i := range flags {
			flags[i] = 1
		}
	}
	return flags
}

func renderAMR(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	a := rd.AMR
	f.int("amr_levels_max", a.LevelsMax)
	f.ints("refinement_ratios_x", a.RefinementRatiosX)
	f.ints("refinement_ratios_y", a.RefinementRatiosY)
	f.ints("refinement_ratios_t", a.RefinementRatiosT)
	f.strs("aux_type", mapSlice(a.AuxType, func(t domain.AuxType) string { return string(t) }))
	f.blank()

	f.bool("flag_richardson", a.FlagRichardson)
	f.float("flag_richardson_tol", a.FlagRichardsonTol)
	f.bool("flag2refine", a.Flag2Refine)
	f.float("flag2refine_tol", a.Flag2RefineTol)
	f.int("regrid_interval", a.RegridInterval)
	f.int("regrid_buffer_width", a.RegridBufferWidth)
	f.float("clustering_cutoff", float64(a.ClusteringCutoff))
	f.int("verbosity_regrid", a.VerbosityRegrid)
	f.blank()

	d := a.Debug
	f.bool("dprint", d.DPrint)
	f.bool("eprint", d.EPrint)
	f.bool("edebug", d.EDebug)
	f.bool("gprint", d.GPrint)
	f.bool("nprint", d.NPrint)
	f.bool("pprint", d.PPrint)
	f.bool("rprint", d.RPrint)
	f.bool("sprint", d.SPrint)
	f.bool("tprint", d.TPrint)
	f.bool("uprint", d.UPrint)
}

func renderRegions(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	f.int("num_regions", len(rd.Regions))
	for _, r := range rd.Regions {
		f.row(strconv.Itoa(r.MinLevel), strconv.Itoa(r.MaxLevel),
			fmtFloat(float64(r.T1)), fmtFloat(float64(r.T2)),
			fmtFloat(float64(r.X1)), fmtFloat(float64(r.X2)),
			fmtFloat(float64(r.Y1)), fmtFloat(float64(r.Y2)))
	}
}

func renderGauges(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	f.int("num_gauges", len(rd.Gauges))
	for _, g := range rd.Gauges {
		f.row(strconv.Itoa(g.ID), fmtFloat(float64(g.X)), fmtFloat(float64(g.Y)),
			fmtFloat(float64(g.T1)), fmtFloat(float64(g.T2)))
	}
}

func renderGeo(f *dataFile, _ domain.RunData, g domain.GeoData) {
	f.float("gravity", g.Gravity)
	f.float("rho", g.Rho)
	f.float("rho_air", g.RhoAir)
	f.float("ambient_pressure", float64(g.AmbientPressure))
	f.float("earth_radius", float64(g.EarthRadius))
	f.int("coordinate_system", g.CoordinateSystem)
	f.float("sea_level", float64(g.SeaLevel))
	f.blank()

	f.bool("coriolis_forcing", g.CoriolisForcing)
	f.bool("friction_forcing", g.FrictionForcing)
	f.float("friction_depth", float64(g.FrictionDepth))
	f.blank()

	f.float("dry_tolerance", float64(g.DryTolerance))
}

func renderRefinement(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	r := rd.Refinement
	f.float("wave_tolerance", float64(r.WaveTolerance))
	f.floats("speed_tolerance", toFloats(r.SpeedTolerance))
	f.float("deep_depth", float64(r.DeepDepth))
	f.int("max_level_deep", r.MaxLevelDeep)
	f.bool("variable_dt_refinement_ratios", r.VariableDtRefinementRatios)
}

func renderTopo(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	f.int("num_topo_files", len(rd.Topo))
	for _, t := range rd.Topo {
		f.row(quote(t.Path))
		f.row(strconv.Itoa(t.TopoType), strconv.Itoa(t.MinLevel), strconv.Itoa(t.MaxLevel),
			fmtFloat(float64(t.T1)), fmtFloat(float64(t.T2)))
	}
}

func renderQinit(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	f.int("qinit_type", rd.Qinit.QinitType)
	f.int("num_qinit_files", len(rd.Qinit.QinitFiles))
	for _, path := range rd.Qinit.QinitFiles {
		f.row(quote(path))
	}
}

func renderFixedGrids(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	f.int("num_fgout_grids", rd.FixedGrids)
}

func renderSurge(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	s := rd.Surge
	f.bool("wind_forcing", s.WindForcing)
	f.int("drag_law", s.DragLaw)
	f.bool("pressure_forcing", s.PressureForcing)
	f.blank()

	f.floats("wind_refine", toFloats(s.WindRefine))
	f.floats("R_refine", toFloats(s.RRefine))
	f.blank()

	code, ok := s.StormModel.Code()
	if !ok {
		f.fail("storm_specification_type", "unknown storm model %q", s.StormModel)
	}
	f.int("storm_specification_type", code)
	f.str("storm_file", s.StormFile)
	f.bool("display_landfall_time", s.DisplayLandfallTime)
	f.float("landfall", float64(s.Landfall))
}

func renderFriction(f *dataFile, rd domain.RunData, _ domain.GeoData) {
	fr := rd.Friction
	f.bool("variable_friction", fr.VariableFriction)
	f.int("num_friction_regions", len(fr.Regions))
	for _, r := range fr.Regions {
		f.blank()
		f.floats("lower", toFloats(r.Lower[:]))
		f.floats("upper", toFloats(r.Upper[:]))
		f.floats("depths", toFloats(r.Depths))
		f.floats("manning_coefficients", toFloats(r.Coefficients))
	}
}
