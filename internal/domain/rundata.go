package domain

// PackageGeoClaw is the only solver package this setup targets.
const PackageGeoClaw = "geoclaw"

// Limiter names a wave limiter applied per wave family.
type Limiter string

const (
	LimiterNone     Limiter = "none"
	LimiterMinmod   Limiter = "minmod"
	LimiterSuperbee Limiter = "superbee"
	LimiterMC       Limiter = "mc"
	LimiterVanLeer  Limiter = "vanleer"
)

// Code returns the solver's integer code for the limiter, or -1 if unknown.
func (l Limiter) Code() int {
	return codeOf(limiterNames, string(l))
}

var limiterNames = []string{"none", "minmod", "superbee", "mc", "vanleer"}

// BoundaryCondition names a boundary treatment for one domain edge.
type BoundaryCondition string

const (
	BCUser     BoundaryCondition = "user"
	BCExtrap   BoundaryCondition = "extrap"
	BCPeriodic BoundaryCondition = "periodic"
	BCWall     BoundaryCondition = "wall"
)

// Code returns the solver's integer code for the boundary condition, or -1.
func (b BoundaryCondition) Code() int {
	return codeOf(bcNames, string(b))
}

var bcNames = []string{"user", "extrap", "periodic", "wall"}

// SourceSplit names the splitting used for source terms.
type SourceSplit string

const (
	SourceSplitNone    SourceSplit = "none"
	SourceSplitGodunov SourceSplit = "godunov"
	SourceSplitStrang  SourceSplit = "strang"
)

// Code returns the solver's integer code for the splitting, or -1.
func (s SourceSplit) Code() int {
	return codeOf(sourceSplitNames, string(s))
}

var sourceSplitNames = []string{"none", "godunov", "strang"}

// TransverseWaves names the transverse propagation used by the unsplit method.
type TransverseWaves string

const (
	TransverseNone      TransverseWaves = "none"
	TransverseIncrement TransverseWaves = "increment"
	TransverseAll       TransverseWaves = "all"
)

// Code returns the solver's integer code, or -1.
func (t TransverseWaves) Code() int {
	return codeOf(transverseNames, string(t))
}

var transverseNames = []string{"none", "increment", "all"}

// AuxType names the staggering of one aux array component.
type AuxType string

const (
	AuxCenter   AuxType = "center"
	AuxCapacity AuxType = "capacity"
	AuxXLeft    AuxType = "xleft"
	AuxYLeft    AuxType = "yleft"
)

// StormModel selects the parametric wind/pressure model.
type StormModel string

const (
	StormHolland80       StormModel = "holland80"
	StormHolland08       StormModel = "holland08"
	StormHolland10       StormModel = "holland10"
	StormCLE             StormModel = "CLE"
	StormSLOSH           StormModel = "SLOSH"
	StormRankine         StormModel = "rankine"
	StormModifiedRankine StormModel = "modified-rankine"
	StormDeMaria         StormModel = "DeMaria"
	StormData            StormModel = "data"
)

// stormModelCodes maps storm models to the solver's integer selector.
// The data-derived field uses -1.
var stormModelCodes = map[StormModel]int{
	StormHolland80:       1,
	StormHolland08:       2,
	StormHolland10:       3,
	StormCLE:             4,
	StormSLOSH:           5,
	StormRankine:         6,
	StormModifiedRankine: 7,
	StormDeMaria:         8,
	StormData:            -1,
}

// Code returns the solver's integer selector and whether the model is known.
func (m StormModel) Code() (int, bool) {
	c, ok := stormModelCodes[m]
	return c, ok
}

// StormModelFromCode reverses StormModel.Code.
func StormModelFromCode(code int) (StormModel, bool) {
	for m, c := range stormModelCodes {
		if c == code {
			return m, true
		}
	}
	return "", false
}

// LimiterFromCode reverses Limiter.Code.
func LimiterFromCode(code int) (Limiter, bool) {
	return nameOf[Limiter](limiterNames, code)
}

// BoundaryConditionFromCode reverses BoundaryCondition.Code.
func BoundaryConditionFromCode(code int) (BoundaryCondition, bool) {
	return nameOf[BoundaryCondition](bcNames, code)
}

// SourceSplitFromCode reverses SourceSplit.Code.
func SourceSplitFromCode(code int) (SourceSplit, bool) {
	return nameOf[SourceSplit](sourceSplitNames, code)
}

// TransverseWavesFromCode reverses TransverseWaves.Code.
func TransverseWavesFromCode(code int) (TransverseWaves, bool) {
	return nameOf[TransverseWaves](transverseNames, code)
}

func codeOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func nameOf[T ~string](names []string, code int) (T, bool) {
	if code < 0 || code >= len(names) {
		return "", false
	}
	return T(names[code]), true
}

// ClawData holds the single-grid solver parameters written to claw.data.
type ClawData struct {
	NumDim    int
	Lower     [2]Degrees
	Upper     [2]Degrees
	NumCells  [2]int
	NumEqn    int
	NumAux    int
	CapaIndex int

	T0          Seconds
	Restart     bool
	RestartFile string

	// OutputStyle 1 writes NumOutputTimes frames up to TFinal, 2 writes at
	// OutputTimes, 3 writes every OutputStepInterval steps up to TotalSteps.
	OutputStyle         int
	TFinal              Seconds
	NumOutputTimes      int
	OutputTimes         []Seconds
	OutputStepInterval  int
	TotalSteps          int
	OutputT0            bool
	OutputFormat        string
	OutputQComponents   string
	OutputAuxComponents string
	OutputAuxOnlyOnce   bool

	Verbosity  int
	DtVariable bool
	DtInitial  Seconds
	DtMax      Seconds
	CFLDesired Ratio
	CFLMax     Ratio
	StepsMax   int

	Order            int
	DimensionalSplit string
	TransverseWaves  TransverseWaves
	NumWaves         int
	Limiter          []Limiter
	UseFWaves        bool
	SourceSplit      SourceSplit

	NumGhost int
	BCLower  [2]BoundaryCondition
	BCUpper  [2]BoundaryCondition

	// CheckptStyle 0 disables checkpoints, 1 writes at TFinal only, 2 at
	// CheckptTimes, 3 every CheckptInterval level-1 steps.
	CheckptStyle    int
	CheckptTimes    []Seconds
	CheckptInterval int
}

// AMRData holds adaptive-refinement parameters written to amr.data.
type AMRData struct {
	LevelsMax         int
	RefinementRatiosX []int
	RefinementRatiosY []int
	RefinementRatiosT []int
	AuxType           []AuxType
	FlagRichardson    bool
	FlagRichardsonTol float64
	Flag2Refine       bool
	Flag2RefineTol    float64
	RegridInterval    int
	RegridBufferWidth int
	ClusteringCutoff  Ratio
	VerbosityRegrid   int
	Debug             AMRDebug
}

// AMRDebug toggles the solver's developer print statements.
type AMRDebug struct {
	DPrint bool // domain flags
	EPrint bool // error estimation flags
	EDebug bool // verbose error estimation
	GPrint bool // grid bisection and clustering
	NPrint bool // proper nesting
	PPrint bool // projection of tagged points
	RPrint bool // regridding summary
	SPrint bool // space/memory
	TPrint bool // per-level time steps
	UPrint bool // update/upbnd
}

// Region constrains refinement levels inside a space-time box.
type Region struct {
	MinLevel int
	MaxLevel int
	T1, T2   Seconds
	X1, X2   Degrees
	Y1, Y2   Degrees
}

// Gauge is a point probe recording the solution over a time window.
type Gauge struct {
	ID     int
	X, Y   Degrees
	T1, T2 Seconds
}

// GeoData holds the physical constants and forcing switches for geoclaw.data.
type GeoData struct {
	Gravity          float64
	CoordinateSystem int
	EarthRadius      Meters
	Rho              float64
	RhoAir           float64
	AmbientPressure  Pascals
	CoriolisForcing  bool
	FrictionForcing  bool
	FrictionDepth    Meters
	SeaLevel         Meters
	DryTolerance     Meters
}

// RefinementData holds the GeoClaw flagging criteria.
type RefinementData struct {
	WaveTolerance              Meters
	SpeedTolerance             []MetersPerSecond
	DeepDepth                  Meters
	MaxLevelDeep               int
	VariableDtRefinementRatios bool
}

// TopoFile references an external bathymetry/topography raster.
type TopoFile struct {
	TopoType int
	MinLevel int
	MaxLevel int
	T1, T2   Seconds
	Path     string
}

// QinitData selects an initial-condition perturbation. Only type 0 (none) is
// used by the surge runs.
type QinitData struct {
	QinitType  int
	QinitFiles []string
}

// SurgeData holds storm-forcing parameters written to surge.data.
type SurgeData struct {
	WindForcing         bool
	DragLaw             int
	PressureForcing     bool
	DisplayLandfallTime bool
	WindRefine          []MetersPerSecond
	RRefine             []Meters
	StormModel          StormModel
	StormFile           string
	// Landfall is the simulated time of landfall; gauge plots are drawn
	// relative to it.
	Landfall Seconds
}

// FrictionRegion overrides Manning's n inside a box, banded by depth.
// Depths are listed from shallow limit to deep limit (descending values);
// Coefficients[i] applies between Depths[i] and Depths[i+1].
type FrictionRegion struct {
	Lower        [2]Degrees
	Upper        [2]Degrees
	Depths       []Meters
	Coefficients []Ratio
}

// FrictionData holds variable-friction settings written to friction.data.
type FrictionData struct {
	VariableFriction bool
	Regions          []FrictionRegion
}
