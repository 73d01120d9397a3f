package midi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/phrasekit/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func oneNote() *smf.SMF {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(96, gomidi.NoteOff(0, 60))
	tr.Close(0)
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)
	s.Add(tr)
	return s
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clip.mid")
	require.NoError(t, WriteMidiFile(path, oneNote()))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	tpq, err := TicksPerQuarter(s)
	require.NoError(t, err)
	assert.Equal(t, 96, tpq)
	require.Len(t, s.Tracks, 1)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadMidiFile(filepath.Join(dir, "missing.mid"))
	assert.ErrorIs(t, err, errs.ErrSourceNotFound)

	_, err = ReadMidiFile(dir)
	assert.ErrorIs(t, err, errs.ErrSourceUnreadable)

	garbage := filepath.Join(dir, "garbage.mid")
	require.NoError(t, os.WriteFile(garbage, []byte("MThd garbage"), 0644))
	_, err = ReadMidiFile(garbage)
	assert.ErrorIs(t, err, errs.ErrAnalysisUnavailable)
}

func TestTicksPerQuarterRejectsSMPTE(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.SMPTE25(40)
	_, err := TicksPerQuarter(s)
	assert.ErrorIs(t, err, errs.ErrAnalysisUnavailable)
}
