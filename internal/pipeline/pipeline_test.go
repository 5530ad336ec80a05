package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-surge-setup/internal/adapter/clawdata"
	"github.com/couchcryptid/storm-surge-setup/internal/adapter/gauges"
	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/observability"
	"github.com/couchcryptid/storm-surge-setup/internal/pipeline"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

const bDeck = `AL, 18, 2012102900,   , BEST,   0, 385N,  710W,  80,  945, HU,  34, NEQ,  450,  420,  330,  420, 1010,  500,  90,   0,   0,   L,   0,    ,   0,   0,      SANDY, M,
AL, 18, 2012102906,   , BEST,   0, 387N,  722W,  80,  943, HU,  34, NEQ,  450,  420,  330,  420, 1010,  500,  90,   0,   0,   L,   0,    ,   0,   0,      SANDY, M,
AL, 18, 2012102912,   , BEST,   0, 389N,  735W,  80,  940, HU,  34, NEQ,  450,  420,  330,  420, 1010,  500,  90,   0,   0,   L,   0,    ,   0,   0,      SANDY, M,
AL, 18, 2012102918,   , BEST,   0, 393N,  743W,  75,  943, HU,  34, NEQ,  450,  420,  330,  420, 1010,  500,  90,   0,   0,   L,   0,    ,   0,   0,      SANDY, M,
AL, 18, 2012103000,   , BEST,   0, 395N,  755W,  65,  952, EX,  34, NEQ,  450,  420,  330,  420, 1010,  500,  90,   0,   0,   L,   0,    ,   0,   0,      SANDY, M,
`

// --- mocks ---

type fakeFetcher struct {
	body     string
	fetchErr error
	fetched  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL, dir string) (string, error) {
	f.fetched = append(f.fetched, rawURL)
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	gz := filepath.Join(dir, "bal182012.dat.gz")
	return gz, os.WriteFile(gz, []byte("compressed"), 0o644)
}

func (f *fakeFetcher) Decompress(gzPath string) (string, error) {
	dat := strings.TrimSuffix(gzPath, ".gz")
	return dat, os.WriteFile(dat, []byte(f.body), 0o644)
}

type fakePublisher struct {
	published []domain.RunManifest
	err       error
}

func (p *fakePublisher) PublishManifest(_ context.Context, m domain.RunManifest) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, m)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func runOptions(dir string) pipeline.RunOptions {
	return pipeline.RunOptions{
		Package:   "GeoClaw",
		OutputDir: dir,
		BathyDir:  filepath.Join(dir, "bathy"),
		TrackURL:  "http://archive.test/2012/bal182012.dat.gz",
		Storm:     scenario.Sandy,
	}
}

// setRun writes a complete Sandy run into a fresh directory.
func setRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	r := pipeline.NewRunner(&fakeFetcher{body: bDeck}, nil, testLogger(), observability.NewMetricsForTesting())
	_, err := r.SetRun(context.Background(), runOptions(dir))
	require.NoError(t, err)
	return dir
}

// --- SetRun tests ---

func TestRunner_SetRun(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	fetcher := &fakeFetcher{body: bDeck}
	pub := &fakePublisher{}
	r := pipeline.NewRunner(fetcher, pub, testLogger(), observability.NewMetricsForTesting())

	m, err := r.SetRun(context.Background(), runOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://archive.test/2012/bal182012.dat.gz"}, fetcher.fetched)
	assert.Equal(t, "geoclaw", m.Package)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), m.CreatedAt)
	require.NotNil(t, m.Storm)
	assert.Equal(t, "AL182012", m.Storm.ID)
	assert.Equal(t, 5, m.Storm.Records)
	assert.Equal(t, scenario.Sandy.Landfall, m.Storm.Landfall)

	for _, name := range append(slices.Clone(clawdata.Files), scenario.SandyStormFile) {
		_, ok := m.File(name)
		assert.True(t, ok, "manifest lists %s", name)
		assert.FileExists(t, filepath.Join(dir, name))
	}
	require.Len(t, pub.published, 1)
	assert.Equal(t, m.RunID, pub.published[0].RunID)

	rd, err := clawdata.ReadDir(dir)
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(abs, scenario.SandyStormFile), rd.Surge.StormFile)
}

func TestRunner_SetRun_StormFileIsLandfallRelative(t *testing.T) {
	dir := setRun(t)

	f, err := os.Open(filepath.Join(dir, scenario.SandyStormFile))
	require.NoError(t, err)
	defer f.Close()

	track, err := domain.ReadGeoClawStorm(f, scenario.SandyStormFile)
	require.NoError(t, err)
	require.Len(t, track.Records, 5)
	assert.Equal(t, scenario.Sandy.Landfall, track.Offset)
	assert.Equal(t, domain.Days(-1), track.RelativeTime(0))
	assert.Equal(t, domain.Seconds(0), track.RelativeTime(4))
}

func TestRunner_SetRun_RejectsOtherPackages(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{body: bDeck}
	r := pipeline.NewRunner(fetcher, nil, testLogger(), observability.NewMetricsForTesting())

	opts := runOptions(dir)
	opts.Package = "amrclaw"
	_, err := r.SetRun(context.Background(), opts)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, fetcher.fetched, "nothing is fetched for an invalid package")
}

func TestRunner_SetRun_FetchErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	r := pipeline.NewRunner(&fakeFetcher{fetchErr: errors.New("connection refused")}, nil,
		testLogger(), observability.NewMetricsForTesting())

	_, err := r.SetRun(context.Background(), runOptions(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch best track")
	assert.NoFileExists(t, filepath.Join(dir, clawdata.ClawFile))
}

func TestRunner_SetRun_MalformedTrackWritesNothing(t *testing.T) {
	dir := t.TempDir()
	r := pipeline.NewRunner(&fakeFetcher{body: "AL, 18, 2012102900\n"}, nil,
		testLogger(), observability.NewMetricsForTesting())

	_, err := r.SetRun(context.Background(), runOptions(dir))
	var fmtErr *domain.FormatError
	require.True(t, errors.As(err, &fmtErr))
	assert.Equal(t, "bal182012.dat", fmtErr.Source)
	assert.NoFileExists(t, filepath.Join(dir, clawdata.ClawFile))
}

func TestRunner_SetRun_PublishError(t *testing.T) {
	dir := t.TempDir()
	r := pipeline.NewRunner(&fakeFetcher{body: bDeck}, &fakePublisher{err: errors.New("broker down")},
		testLogger(), observability.NewMetricsForTesting())

	m, err := r.SetRun(context.Background(), runOptions(dir))
	require.Error(t, err)
	assert.NotEmpty(t, m.RunID, "manifest is still returned")
	assert.FileExists(t, filepath.Join(dir, clawdata.ClawFile), "files stay written")
}

// --- SetPlot tests ---

func TestPlotter_SetPlot(t *testing.T) {
	dir := setRun(t)
	echo := "0.0 -74.0 39.5 0 0\n3600.0 -74.5 39.7 0 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, pipeline.TrackEchoFile), []byte(echo), 0o644))

	p := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting())
	pd, err := p.SetPlot(dir, "")
	require.NoError(t, err)

	names := make([]string, len(pd.Figures))
	for i, f := range pd.Figures {
		names[i] = f.Name
	}
	assert.Equal(t, "Surface - Coast", names[0])
	assert.Equal(t, "Gauge Locations", names[len(names)-1])
	assert.Contains(t, names, "Friction")

	fric, ok := pd.Figure("Friction")
	require.True(t, ok)
	assert.True(t, fric.Show, "sandy uses variable friction")

	data, err := os.ReadFile(filepath.Join(dir, pipeline.PlotsFile))
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, dir, back["outdir"])
	assert.Len(t, back["figures"], len(pd.Figures))
}

func TestPlotter_LoadInputs_MissingTrackEcho(t *testing.T) {
	dir := setRun(t)

	in, err := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting()).LoadInputs(dir)
	require.NoError(t, err)
	assert.Empty(t, in.Track)
	assert.Len(t, in.Gauges, 3)
	assert.True(t, in.Surge.WindForcing)
}

func TestPlotter_LoadInputs_MissingDataFile(t *testing.T) {
	_, err := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting()).LoadInputs(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), clawdata.ClawFile)
}

func TestPlotter_SetPlot_BadLayout(t *testing.T) {
	dir := setRun(t)
	layout := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(layout, []byte("regions: [\n"), 0o644))

	_, err := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting()).SetPlot(dir, layout)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, pipeline.PlotsFile))
}

// --- Catalog tests ---

const gauge1 = `# gauge_id=     1 location=(  -0.7401300000E+02   0.4070000000E+02 ) num_eqn=  4
   01  0.0000000E+00  0.7000000E+01  0.2000000E+00  0.0000000E+00  0.2330000E+01
   01  0.4320000E+05  0.7000000E+01  0.2000000E+00  0.0000000E+00  0.1330000E+01
`

func TestCatalog(t *testing.T) {
	dir := setRun(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.GaugeFileName(1)), []byte(gauge1), 0o644))

	plotter := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting())
	c := pipeline.NewCatalog(plotter, gauges.NewFileStore(dir), dir, "", testLogger())
	ctx := context.Background()

	require.ErrorIs(t, c.CheckReadiness(ctx), pipeline.ErrNotBuilt)
	_, err := c.Plots(ctx)
	require.ErrorIs(t, err, pipeline.ErrNotBuilt)

	require.NoError(t, c.Refresh())
	require.NoError(t, c.CheckReadiness(ctx))

	pd, err := c.Plots(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, pd.Figures)

	s, err := c.GaugeSeries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ID)
	require.Len(t, s.Points, 2)
	assert.InDelta(t, 0.5, s.Points[1].Days, 1e-12)

	_, err = c.GaugeSeries(ctx, 2)
	require.ErrorIs(t, err, domain.ErrGaugeNotFound)
}

func TestCatalog_RefreshFailureKeepsPrevious(t *testing.T) {
	dir := setRun(t)
	plotter := pipeline.NewPlotter(testLogger(), observability.NewMetricsForTesting())
	c := pipeline.NewCatalog(plotter, gauges.NewFileStore(dir), dir, "", testLogger())
	require.NoError(t, c.Refresh())

	require.NoError(t, os.Remove(filepath.Join(dir, clawdata.ClawFile)))
	require.Error(t, c.Refresh())
	assert.NoError(t, c.CheckReadiness(context.Background()))
}
