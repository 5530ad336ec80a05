package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunManifest(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	files := map[string][]byte{
		"surge.data": []byte("abc"),
		"claw.data":  []byte(""),
	}
	sum := testTrack().Summarize()
	m := NewRunManifest("GeoClaw", "/tmp/run", files, &sum)

	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)
	assert.Equal(t, "geoclaw", m.Package)
	assert.Equal(t, fixed, m.CreatedAt)
	assert.Equal(t, "/tmp/run", m.OutputDir)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "claw.data", m.Files[0].Name, "files are sorted by name")

	f, ok := m.File("surge.data")
	require.True(t, ok)
	assert.Equal(t, 3, f.Bytes)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", f.SHA256)

	_, ok = m.File("missing.data")
	assert.False(t, ok)
	assert.Equal(t, "AL182012", m.Storm.ID)

	other := NewRunManifest("geoclaw", "/tmp/run", files, nil)
	assert.NotEqual(t, m.RunID, other.RunID)
	assert.Nil(t, other.Storm)
}

func TestSetClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("EST", -5*3600)))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, time.UTC, Now().Location())
	assert.Equal(t, 5, Now().Hour())

	SetClock(nil)
	assert.WithinDuration(t, time.Now(), Now(), time.Minute)
}
