package clawdata

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/scenario"
)

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func sandy(t *testing.T) domain.FinalRunData {
	t.Helper()
	final, err := scenario.BuildSandy("geoclaw", scenario.SandyParams{
		StormFile: "/runs/sandy/sandy.storm",
		BathyDir:  "/data/bathy",
	})
	require.NoError(t, err)
	return final
}

func TestRender_AllFiles(t *testing.T) {
	freezeClock(t)
	files, err := Render(sandy(t))
	require.NoError(t, err)
	require.Len(t, files, len(Files))

	for _, name := range Files {
		body := string(files[name])
		assert.True(t, strings.HasPrefix(body,
			"# "+name+": solver input, do not edit by hand\n# generated 2026-03-01T12:00:00Z\n\n"), name)
	}
}

func TestRender_ZeroRunData(t *testing.T) {
	_, err := Render(domain.FinalRunData{})
	require.ErrorIs(t, err, domain.ErrNotGeoClaw)
}

func TestRender_Claw(t *testing.T) {
	freezeClock(t)
	files, err := Render(sandy(t))
	require.NoError(t, err)
	claw := string(files[ClawFile])

	for _, want := range []string{
		"2                          =: num_dim\n",
		"-88 15                     =: lower\n",
		"132 120                    =: num_cells\n",
		"-172800                    =: t0\n",
		"72                         =: num_output_times\n",
		"1                          =: output_format\n",
		"1 1 1                      =: output_q_components\n",
		"1 1 1 1 1 1 1              =: output_aux_components\n",
		"1e+99                      =: dt_max\n",
		"0                          =: dimensional_split\n",
		"2                          =: transverse_waves\n",
		"3 3 3                      =: limiter\n",
		"1 1                        =: bc_lower\n",
		"'fort.chk00043'            =: restart_file\n",
	} {
		assert.Contains(t, claw, want)
	}
	assert.NotContains(t, claw, "checkpt_interval", "checkpoint style 0 writes no schedule")
}

func TestRender_ListFiles(t *testing.T) {
	freezeClock(t)
	files, err := Render(sandy(t))
	require.NoError(t, err)

	gauges := string(files[GaugesFile])
	assert.Contains(t, gauges, "3                          =: num_gauges\n")
	assert.Contains(t, gauges, "1  -74.013  40.7  -172800  86400\n")

	topo := string(files[TopoFile])
	assert.Contains(t, topo, "'/data/bathy/atlantic_1min.tt3'\n3  1  3  -172800  86400\n")

	amr := string(files[AMRFile])
	assert.Contains(t, amr, "'center' 'capacity' 'yleft' 'center' 'center' 'center' 'center' =: aux_type\n")

	friction := string(files[FrictionFile])
	assert.Contains(t, friction, "inf 0 -inf                 =: depths\n")
	assert.Contains(t, friction, "0.05 0.025                 =: manning_coefficients\n")

	surge := string(files[SurgeFile])
	assert.Contains(t, surge, "1                          =: storm_specification_type\n")
	assert.Contains(t, surge, "'/runs/sandy/sandy.storm'  =: storm_file\n")
}

func TestDataFile_FirstErrorSticks(t *testing.T) {
	f := newDataFile(ClawFile, time.Now())
	f.int("num_dim", 2)
	f.fail("output_format", "unknown format %q", "hdf5")
	f.int("num_eqn", 3)
	_, err := f.bytes()

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "output_format", cfgErr.Field)
	assert.Contains(t, err.Error(), "render claw.data")
}

func TestWrite_RoundTrip(t *testing.T) {
	freezeClock(t)
	final := sandy(t)
	dir := filepath.Join(t.TempDir(), "_output")

	written, err := Write(dir, final)
	require.NoError(t, err)

	for name, want := range written {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(Files), "no temp files are left behind")

	back, err := ReadDir(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(final.Data(), back, cmp.AllowUnexported(domain.RunData{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_RoundTripMarkerInPath(t *testing.T) {
	freezeClock(t)
	final, err := scenario.BuildSandy("geoclaw", scenario.SandyParams{
		StormFile: "/runs/a=:b/sandy.storm",
		BathyDir:  "/data/bathy",
	})
	require.NoError(t, err)
	dir := t.TempDir()

	_, err = Write(dir, final)
	require.NoError(t, err)

	back, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "/runs/a=:b/sandy.storm", back.Surge.StormFile)
	if diff := cmp.Diff(final.Data(), back, cmp.AllowUnexported(domain.RunData{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_IsRepeatable(t *testing.T) {
	freezeClock(t)
	final := sandy(t)
	dir := t.TempDir()

	first, err := Write(dir, final)
	require.NoError(t, err)
	second, err := Write(dir, final)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteAll_RemovesCreatedFilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the last name makes its rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "z.data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.data"), []byte("old"), 0o644))

	err := WriteAll(dir, map[string][]byte{
		"a.data": []byte("a"),
		"b.data": []byte("b"),
		"z.data": []byte("z"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write z.data")

	_, statErr := os.Stat(filepath.Join(dir, "a.data"))
	assert.True(t, os.IsNotExist(statErr), "created file is removed")
	got, err := os.ReadFile(filepath.Join(dir, "b.data"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got), "replaced file keeps new contents")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file %s left behind", e.Name())
	}
}

func TestReadDir_MissingFile(t *testing.T) {
	_, err := ReadDir(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "claw.data")
}

func TestReadGeoClaw_FormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		line   int
		column int
		reason string
	}{
		{
			name:   "wrong record name",
			body:   "9.81 =: gravity\n1025 =: rho_water\n",
			line:   2,
			reason: `expected record "rho"`,
		},
		{
			name:   "bad number",
			body:   "# header\n\nnine =: gravity\n",
			line:   3,
			column: 1,
			reason: "gravity",
		},
		{
			name:   "too many values",
			body:   "9.81 9.80 =: gravity\n",
			line:   1,
			reason: "expected one value",
		},
		{
			name:   "missing records",
			body:   "9.81 =: gravity\n",
			line:   1,
			reason: `missing record "rho"`,
		},
		{
			name:   "unterminated string",
			body:   "'abc =: gravity\n",
			line:   1,
			reason: "values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGeoClaw(strings.NewReader(tt.body), "geoclaw.data")
			var fmtErr *domain.FormatError
			require.True(t, errors.As(err, &fmtErr), "got %v", err)
			assert.Equal(t, "geoclaw.data", fmtErr.Source)
			assert.Equal(t, tt.line, fmtErr.Line)
			assert.Equal(t, tt.column, fmtErr.Column)
			assert.Contains(t, fmtErr.Reason, tt.reason)
		})
	}
}

func TestReadClaw_UnknownCodes(t *testing.T) {
	freezeClock(t)
	files, err := Render(sandy(t))
	require.NoError(t, err)

	tests := []struct {
		record string
		value  string
		column int
	}{
		{"output_format", "9", 1},
		{"dimensional_split", "7", 1},
		{"source_split", "5", 1},
		{"transverse_waves", "4", 1},
		{"limiter", "4 4 9", 3},
		{"bc_lower", "1 8", 2},
	}
	for _, tt := range tests {
		t.Run(tt.record, func(t *testing.T) {
			lines := strings.Split(string(files[ClawFile]), "\n")
			line := 0
			for i, l := range lines {
				if strings.HasSuffix(l, "=: "+tt.record) {
					lines[i] = fmt.Sprintf("%-26s =: %s", tt.value, tt.record)
					line = i + 1
				}
			}
			require.NotZero(t, line)

			_, err := ReadClaw(strings.NewReader(strings.Join(lines, "\n")), ClawFile)
			var fmtErr *domain.FormatError
			require.True(t, errors.As(err, &fmtErr), "got %v", err)
			assert.Equal(t, line, fmtErr.Line)
			assert.Equal(t, tt.column, fmtErr.Column)
			assert.Contains(t, fmtErr.Reason, "unknown code")
		})
	}
}

func TestReadFixedGrids_TrailingRecord(t *testing.T) {
	_, err := ReadFixedGrids(strings.NewReader("0 =: num_fgout_grids\n1 =: extra\n"), "fgout_grids.data")
	var fmtErr *domain.FormatError
	require.True(t, errors.As(err, &fmtErr))
	assert.Equal(t, 2, fmtErr.Line)
	assert.Contains(t, fmtErr.Reason, "unexpected record")
}

func TestTokenize(t *testing.T) {
	got, err := tokenize(`'it''s here' 1.5  'two words'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"it's here", "1.5", "two words"}, got)

	got, err = tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseFloat(t *testing.T) {
	v, err := parseFloat("1.5D+03")
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, v, 1e-9)

	v, err = parseFloat("-inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, -1))

	_, err = parseFloat("x")
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"T": true, "F": false, ".TRUE.": true, ".false.": false} {
		got, err := parseBool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseBool("yes")
	require.Error(t, err)
}

func TestComponentFlags(t *testing.T) {
	assert.Equal(t, []int{1, 1, 1}, componentFlags("all", 3))
	assert.Equal(t, []int{0, 0}, componentFlags("none", 2))
	assert.Equal(t, "all", componentName([]int{1, 1}))
	assert.Equal(t, "none", componentName([]int{1, 0}))
	assert.Equal(t, "none", componentName(nil))
}
