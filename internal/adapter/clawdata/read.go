package clawdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

var (
	outputFormatNames     = invert(outputFormatCodes)
	dimensionalSplitNames = invert(dimensionalSplitCodes)
)

func lookup(m map[int]string) func(int) (string, bool) {
	return func(c int) (string, bool) {
		v, ok := m[c]
		return v, ok
	}
}

func invert(m map[string]int) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ReadDir reads every data file in dir back into run data.
func ReadDir(dir string) (domain.RunData, error) {
	rd, err := domain.NewRunData(domain.PackageGeoClaw)
	if err != nil {
		return domain.RunData{}, err
	}
	var geo domain.GeoData
	steps := []func() error{
		func() error { return readInto(dir, ClawFile, &rd.Claw, ReadClaw) },
		func() error { return readInto(dir, AMRFile, &rd.AMR, ReadAMR) },
		func() error { return readInto(dir, RegionsFile, &rd.Regions, ReadRegions) },
		func() error { return readInto(dir, GaugesFile, &rd.Gauges, ReadGauges) },
		func() error { return readInto(dir, GeoClawFile, &geo, ReadGeoClaw) },
		func() error { return readInto(dir, RefinementFile, &rd.Refinement, ReadRefinement) },
		func() error { return readInto(dir, TopoFile, &rd.Topo, ReadTopo) },
		func() error { return readInto(dir, QinitFile, &rd.Qinit, ReadQinit) },
		func() error { return readInto(dir, FixedGridsFile, &rd.FixedGrids, ReadFixedGrids) },
		func() error { return readInto(dir, SurgeFile, &rd.Surge, ReadSurge) },
		func() error { return readInto(dir, FrictionFile, &rd.Friction, ReadFriction) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return domain.RunData{}, err
		}
	}
	return rd.WithGeoClaw(geo)
}

// readInto reads one file of dir with read and stores the result in dst.
func readInto[T any](dir, name string, dst *T, read func(io.Reader, string) (T, error)) error {
	return ReadFile(filepath.Join(dir, name), func(r io.Reader, source string) error {
		v, err := read(r, source)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

// ReadFile opens path and hands it to read, naming the file in errors.
func ReadFile(path string, read func(io.Reader, string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return read(f, filepath.Base(path))
}

// ReadClaw parses claw.data.
func ReadClaw(in io.Reader, source string) (domain.ClawData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.ClawData{}, err
	}
	var c domain.ClawData
	c.NumDim = r.int("num_dim")
	lower, upper := r.pair("lower"), r.pair("upper")
	c.Lower = [2]domain.Degrees{domain.Degrees(lower[0]), domain.Degrees(lower[1])}
	c.Upper = [2]domain.Degrees{domain.Degrees(upper[0]), domain.Degrees(upper[1])}
	if cells := r.ints("num_cells"); len(cells) == 2 {
		c.NumCells = [2]int{cells[0], cells[1]}
	} else if r.err == nil {
		r.err = &domain.FormatError{Source: source, Reason: "num_cells: expected 2 values"}
	}
	c.NumEqn = r.int("num_eqn")
	c.NumAux = r.int("num_aux")
	c.CapaIndex = r.int("capa_index")
	c.T0 = domain.Seconds(r.float("t0"))

	c.OutputStyle = r.int("output_style")
	switch c.OutputStyle {
	case 1:
		c.NumOutputTimes = r.int("num_output_times")
		c.TFinal = domain.Seconds(r.float("tfinal"))
		c.OutputT0 = r.bool("output_t0")
	case 2:
		r.int("num_output_times")
		c.OutputTimes = fromFloats[domain.Seconds](r.floats("output_times"))
	case 3:
		c.OutputStepInterval = r.int("output_step_interval")
		c.TotalSteps = r.int("total_steps")
		c.OutputT0 = r.bool("output_t0")
	}

	c.OutputFormat = decode(r, "output_format", lookup(outputFormatNames))
	c.OutputQComponents = componentName(r.ints("output_q_components"))
	c.OutputAuxComponents = componentName(r.ints("output_aux_components"))
	c.OutputAuxOnlyOnce = r.bool("output_aux_onlyonce")

	c.DtInitial = domain.Seconds(r.float("dt_initial"))
	c.DtMax = domain.Seconds(r.float("dt_max"))
	c.CFLMax = domain.Ratio(r.float("cfl_max"))
	c.CFLDesired = domain.Ratio(r.float("cfl_desired"))
	c.StepsMax = r.int("steps_max")

	c.DtVariable = r.bool("dt_variable")
	c.Order = r.int("order")
	c.DimensionalSplit = decode(r, "dimensional_split", lookup(dimensionalSplitNames))
	c.Verbosity = r.int("verbosity")
	c.SourceSplit = decode(r, "source_split", domain.SourceSplitFromCode)
	c.UseFWaves = r.bool("use_fwaves")
	c.TransverseWaves = decode(r, "transverse_waves", domain.TransverseWavesFromCode)
	c.NumWaves = r.int("num_waves")
	c.Limiter = decodeAll(r, "limiter", domain.LimiterFromCode)

	c.NumGhost = r.int("num_ghost")
	lo := decodeAll(r, "bc_lower", domain.BoundaryConditionFromCode)
	hi := decodeAll(r, "bc_upper", domain.BoundaryConditionFromCode)
	if len(lo) == 2 && len(hi) == 2 {
		c.BCLower = [2]domain.BoundaryCondition(lo)
		c.BCUpper = [2]domain.BoundaryCondition(hi)
	}

	c.Restart = r.bool("restart")
	c.RestartFile = r.str("restart_file")
	c.CheckptStyle = r.int("checkpt_style")
	switch c.CheckptStyle {
	case 2:
		r.int("num_checkpt_times")
		c.CheckptTimes = fromFloats[domain.Seconds](r.floats("checkpt_times"))
	case 3:
		c.CheckptInterval = r.int("checkpt_interval")
	}
	return c, r.finish()
}

func componentName(flags []int) string {
	if len(flags) == 0 {
		return "none"
	}
	for _, f := range flags {
		if f == 0 {
			return "none"
		}
	}
	return "all"
}

// ReadAMR parses amr.data.
func ReadAMR(in io.Reader, source string) (domain.AMRData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.AMRData{}, err
	}
	var a domain.AMRData
	a.LevelsMax = r.int("amr_levels_max")
	a.RefinementRatiosX = r.ints("refinement_ratios_x")
	a.RefinementRatiosY = r.ints("refinement_ratios_y")
	a.RefinementRatiosT = r.ints("refinement_ratios_t")
	for _, s := range r.strs("aux_type") {
		a.AuxType = append(a.AuxType, domain.AuxType(s))
	}
	a.FlagRichardson = r.bool("flag_richardson")
	a.FlagRichardsonTol = r.float("flag_richardson_tol")
	a.Flag2Refine = r.bool("flag2refine")
	a.Flag2RefineTol = r.float("flag2refine_tol")
	a.RegridInterval = r.int("regrid_interval")
	a.RegridBufferWidth = r.int("regrid_buffer_width")
	a.ClusteringCutoff = domain.Ratio(r.float("clustering_cutoff"))
	a.VerbosityRegrid = r.int("verbosity_regrid")

	d := &a.Debug
	d.DPrint = r.bool("dprint")
	d.EPrint = r.bool("eprint")
	d.EDebug = r.bool("edebug")
	d.GPrint = r.bool("gprint")
	d.NPrint = r.bool("nprint")
	d.PPrint = r.bool("pprint")
	d.RPrint = r.bool("rprint")
	d.SPrint = r.bool("sprint")
	d.TPrint = r.bool("tprint")
	d.UPrint = r.bool("uprint")
	return a, r.finish()
}

// ReadRegions parses regions.data.
func ReadRegions(in io.Reader, source string) ([]domain.Region, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return nil, err
	}
	n := r.int("num_regions")
	var regions []domain.Region
	for range n {
		v := r.row("region", 8)
		if r.err != nil {
			break
		}
		regions = append(regions, domain.Region{
			MinLevel: int(v[0]), MaxLevel: int(v[1]),
			T1: domain.Seconds(v[2]), T2: domain.Seconds(v[3]),
			X1: domain.Degrees(v[4]), X2: domain.Degrees(v[5]),
			Y1: domain.Degrees(v[6]), Y2: domain.Degrees(v[7]),
		})
	}
	return regions, r.finish()
}

// ReadGauges parses gauges.data.
func ReadGauges(in io.Reader, source string) ([]domain.Gauge, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return nil, err
	}
	n := r.int("num_gauges")
	var gauges []domain.Gauge
	for range n {
		v := r.row("gauge", 5)
		if r.err != nil {
			break
		}
		gauges = append(gauges, domain.Gauge{
			ID: int(v[0]),
			X:  domain.Degrees(v[1]), Y: domain.Degrees(v[2]),
			T1: domain.Seconds(v[3]), T2: domain.Seconds(v[4]),
		})
	}
	return gauges, r.finish()
}

// ReadGeoClaw parses geoclaw.data.
func ReadGeoClaw(in io.Reader, source string) (domain.GeoData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.GeoData{}, err
	}
	var g domain.GeoData
	g.Gravity = r.float("gravity")
	g.Rho = r.float("rho")
	g.RhoAir = r.float("rho_air")
	g.AmbientPressure = domain.Pascals(r.float("ambient_pressure"))
	g.EarthRadius = domain.Meters(r.float("earth_radius"))
	g.CoordinateSystem = r.int("coordinate_system")
	g.SeaLevel = domain.Meters(r.float("sea_level"))
	g.CoriolisForcing = r.bool("coriolis_forcing")
	g.FrictionForcing = r.bool("friction_forcing")
	g.FrictionDepth = domain.Meters(r.float("friction_depth"))
	g.DryTolerance = domain.Meters(r.float("dry_tolerance"))
	return g, r.finish()
}

// ReadRefinement parses refinement.data.
func ReadRefinement(in io.Reader, source string) (domain.RefinementData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.RefinementData{}, err
	}
	var rf domain.RefinementData
	rf.WaveTolerance = domain.Meters(r.float("wave_tolerance"))
	rf.SpeedTolerance = fromFloats[domain.MetersPerSecond](r.floats("speed_tolerance"))
	rf.DeepDepth = domain.Meters(r.float("deep_depth"))
	rf.MaxLevelDeep = r.int("max_level_deep")
	rf.VariableDtRefinementRatios = r.bool("variable_dt_refinement_ratios")
	return rf, r.finish()
}

// ReadTopo parses topo.data.
func ReadTopo(in io.Reader, source string) ([]domain.TopoFile, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return nil, err
	}
	n := r.int("num_topo_files")
	var files []domain.TopoFile
	for range n {
		path := r.quoted("topo path")
		v := r.row("topo", 5)
		if r.err != nil {
			break
		}
		files = append(files, domain.TopoFile{
			Path:     path,
			TopoType: int(v[0]), MinLevel: int(v[1]), MaxLevel: int(v[2]),
			T1: domain.Seconds(v[3]), T2: domain.Seconds(v[4]),
		})
	}
	return files, r.finish()
}

// ReadQinit parses qinit.data.
func ReadQinit(in io.Reader, source string) (domain.QinitData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.QinitData{}, err
	}
	var q domain.QinitData
	q.QinitType = r.int("qinit_type")
	n := r.int("num_qinit_files")
	for range n {
		path := r.quoted("qinit path")
		if r.err != nil {
			break
		}
		q.QinitFiles = append(q.QinitFiles, path)
	}
	return q, r.finish()
}

// ReadFixedGrids parses fgout_grids.data and returns the grid count.
func ReadFixedGrids(in io.Reader, source string) (int, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return 0, err
	}
	n := r.int("num_fgout_grids")
	return n, r.finish()
}

// ReadSurge parses surge.data.
func ReadSurge(in io.Reader, source string) (domain.SurgeData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.SurgeData{}, err
	}
	var s domain.SurgeData
	s.WindForcing = r.bool("wind_forcing")
	s.DragLaw = r.int("drag_law")
	s.PressureForcing = r.bool("pressure_forcing")
	s.WindRefine = fromFloats[domain.MetersPerSecond](r.floats("wind_refine"))
	s.RRefine = fromFloats[domain.Meters](r.floats("R_refine"))
	code := r.int("storm_specification_type")
	if m, ok := domain.StormModelFromCode(code); ok {
		s.StormModel = m
	} else if r.err == nil {
		r.err = &domain.FormatError{Source: source, Reason: fmt.Sprintf("unknown storm_specification_type %d", code)}
	}
	s.StormFile = r.str("storm_file")
	s.DisplayLandfallTime = r.bool("display_landfall_time")
	s.Landfall = domain.Seconds(r.float("landfall"))
	return s, r.finish()
}

// ReadFriction parses friction.data.
func ReadFriction(in io.Reader, source string) (domain.FrictionData, error) {
	r, err := newRecordReader(in, source)
	if err != nil {
		return domain.FrictionData{}, err
	}
	var fd domain.FrictionData
	fd.VariableFriction = r.bool("variable_friction")
	n := r.int("num_friction_regions")
	for range n {
		lower, upper := r.pair("lower"), r.pair("upper")
		region := domain.FrictionRegion{
			Lower:        [2]domain.Degrees{domain.Degrees(lower[0]), domain.Degrees(lower[1])},
			Upper:        [2]domain.Degrees{domain.Degrees(upper[0]), domain.Degrees(upper[1])},
			Depths:       fromFloats[domain.Meters](r.floats("depths")),
			Coefficients: fromFloats[domain.Ratio](r.floats("manning_coefficients")),
		}
		if r.err != nil {
			break
		}
		fd.Regions = append(fd.Regions, region)
	}
	return fd, r.finish()
}
