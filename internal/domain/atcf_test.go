package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sandyBDeck = `AL, 18, 2012102200,   , BEST,   0, 130N,  781W,  25, 1003, TD,  34, NEQ,    0,    0,    0,    0, 1008,  180,  50,   0,   0,   L,   0,    ,   0,   0,  EIGHTEEN, D,
AL, 18, 2012102206,   , BEST,   0, 125N,  783W,  30, 1002, TS,  34, NEQ,   60,    0,    0,   30, 1008,  180,  40,   0,   0,   L,   0,    ,   0,   0,      SANDY, S,
AL, 18, 2012102206,   , BEST,   0, 125N,  783W,  30, 1002, TS,  50, NEQ,   20,    0,    0,    0, 1008,  180,  40,   0,   0,   L,   0,    ,   0,   0,      SANDY, S,
AL, 18, 2012102212,   , BEST,   0, 124N,  784W,  35, 1000, TS,  50, NEQ,   10,    0,    0,    0, 1008,  200,    ,   0,   0,   L,   0,    ,   0,   0,      SANDY, S,
AL, 18, 2012102212,   , BEST,   0, 124N,  784W,  35, 1000, TS,  34, NEQ,   80,   40,    0,   60, 1008,  200,    ,   0,   0,   L,   0,    ,   0,   0,      SANDY, S,
`

func TestParseATCF(t *testing.T) {
	track, err := ParseATCF(strings.NewReader(sandyBDeck), "bal182012.dat")
	require.NoError(t, err)

	assert.Equal(t, "AL", track.Basin)
	assert.Equal(t, 18, track.Number)
	assert.Equal(t, "SANDY", track.Name)
	assert.Equal(t, "AL182012", track.ID())
	require.Len(t, track.Records, 3, "rows sharing a synoptic time collapse")

	first := track.Records[0]
	assert.Equal(t, time.Date(2012, 10, 22, 0, 0, 0, 0, time.UTC), first.Time)
	assert.InDelta(t, 13.0, float64(first.Lat), 1e-9)
	assert.InDelta(t, -78.1, float64(first.Lon), 1e-9)
	assert.InDelta(t, 25*0.514444, float64(first.MaxWindSpeed), 1e-9)
	assert.InDelta(t, 100300.0, float64(first.CentralPressure), 1e-9)
	assert.InDelta(t, 180*1852.0, float64(first.StormRadius), 1e-9)
	assert.InDelta(t, 50*1852.0, float64(first.MaxWindRadius), 1e-9)
	assert.Equal(t, "TD", first.Class)
	assert.Equal(t, track.Records[0].Time, track.Offset)

	t.Run("34 kt row supplies radii", func(t *testing.T) {
		second := track.Records[1]
		assert.Equal(t, [4]Meters{60 * 1852, 0, 0, 30 * 1852}, second.WindRadii)
	})

	t.Run("34 kt row after a higher threshold", func(t *testing.T) {
		third := track.Records[2]
		assert.Equal(t, [4]Meters{80 * 1852, 40 * 1852, 0, 60 * 1852}, third.WindRadii)
	})

	t.Run("missing radius of max winds stays zero", func(t *testing.T) {
		assert.Equal(t, Meters(0), track.Records[2].MaxWindRadius)
	})
}

func TestParseATCF_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{
			name:  "too few columns",
			input: "AL, 18, 2012102200,   , BEST,   0, 130N,  781W\n",
			line:  1,
		},
		{
			name:   "bad latitude",
			input:  strings.Replace(strings.SplitN(sandyBDeck, "\n", 2)[0], "130N", "13XN", 1) + "\n",
			line:   1,
			column: 7,
		},
		{
			name:   "bad hemisphere",
			input:  strings.Replace(strings.SplitN(sandyBDeck, "\n", 2)[0], "781W", "781N", 1) + "\n",
			line:   1,
			column: 8,
		},
		{
			name:   "bad pressure on second line",
			input:  strings.SplitN(sandyBDeck, "\n", 2)[0] + "\n" + strings.Replace(strings.Split(sandyBDeck, "\n")[1], "1002", "10x2", 1) + "\n",
			line:   2,
			column: 10,
		},
		{
			name:   "bad synoptic time",
			input:  strings.Replace(strings.SplitN(sandyBDeck, "\n", 2)[0], "2012102200", "20121022", 1) + "\n",
			line:   1,
			column: 3,
		},
		{
			name:  "empty",
			input: "\n\n",
			line:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseATCF(strings.NewReader(tt.input), "test.dat")
			require.Error(t, err)
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %T: %v", err, err)
			assert.Equal(t, "test.dat", fe.Source)
			assert.Equal(t, tt.line, fe.Line)
			assert.Equal(t, tt.column, fe.Column)
		})
	}
}

func TestParseHemisphere(t *testing.T) {
	v, err := parseHemisphere("781W", 'E', 'W')
	require.NoError(t, err)
	assert.InDelta(t, -78.1, v, 1e-9)

	v, err = parseHemisphere("1202E", 'E', 'W')
	require.NoError(t, err)
	assert.InDelta(t, 120.2, v, 1e-9)

	_, err = parseHemisphere("W", 'E', 'W')
	assert.Error(t, err)
}
