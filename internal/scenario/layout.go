package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// DefaultLayout returns the stock figure layout: the whole domain plus three
// zoomed coastal regions, a gauge window spanning landfall and the usual
// colour scales.
func DefaultLayout() domain.PlotLayout {
	return domain.PlotLayout{
		Format: "binary",
		Regions: []domain.PlotRegion{
			{Name: "Coast", Domain: true, FigSize: [2]float64{8, 7.5}},
			{
				Name:    "Zhapo Station",
				XLimits: domain.Limits{111.71666667, 111.91666667},
				YLimits: domain.Limits{21.48333333, 21.68333333},
				FigSize: [2]float64{6, 6},
			},
			{
				Name:    "Landfall",
				XLimits: domain.Limits{112.26, 112.86},
				YLimits: domain.Limits{21.3, 21.7},
				FigSize: [2]float64{6, 4},
			},
			{
				Name:    "Quarry Bay",
				XLimits: domain.Limits{114.11333333, 114.31333333},
				YLimits: domain.Limits{22.19111111, 22.39111111},
				FigSize: [2]float64{6, 6},
			},
		},
		Gauge: domain.GaugeWindow{
			Number:  300,
			XLimits: domain.Limits{-2.25, 0.75},
			YLimits: domain.Limits{-1, 4},
			XTicks:  []float64{-2.25, -1.25, -0.25, 0.75},
		},
		GaugeLocations: domain.LocationWindow{
			XLimits:       domain.Limits{111, 115},
			YLimits:       domain.Limits{21, 22.5},
			SubplotAdjust: domain.SubplotAdjust{Left: 0.12, Bottom: 0.06, Right: 0.97, Top: 0.92},
		},
		Colors: domain.ColorScales{
			SurfaceHalfRange: 5,
			SurfaceTicks:     []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5},
			Speed:            domain.Limits{0, 3},
			SpeedTicks:       []float64{0, 1, 2, 3},
			Wind:             domain.Limits{0, 66},
			Pressure:         domain.Limits{909, 1013},
			Friction:         domain.Limits{0.01, 0.04},
		},
		PatchEdges: []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		Print: domain.PrintSettings{
			PrintFigs:          true,
			Format:             "png",
			FrameNos:           "all",
			GaugeNos:           []int{1, 2},
			FigNos:             "all",
			HTML:               true,
			LaTeX:              true,
			LaTeXFigsPerLine:   2,
			LaTeXFramesPerLine: 1,
			LaTeXMakePDF:       false,
			Parallel:           true,
		},
	}
}

// LoadLayout reads a YAML layout file over DefaultLayout. Keys missing from
// the file keep their defaults; lists given in the file replace the default
// lists whole. An empty path returns the defaults.
func LoadLayout(path string) (domain.PlotLayout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PlotLayout{}, fmt.Errorf("loading plot layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return domain.PlotLayout{}, fmt.Errorf("loading plot layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return domain.PlotLayout{}, fmt.Errorf("loading plot layout: %w", err)
	}
	return layout, nil
}
