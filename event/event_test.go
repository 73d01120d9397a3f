package event

import (
	"errors"
	"testing"

	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func raw(delta int64, msg midi.Message) model.RawEvent {
	return model.RawEvent{Delta: delta, Message: smf.Message(msg)}
}

func cumulative(raws []model.RawEvent) []int64 {
	var res []int64
	var t int64
	for _, r := range raws {
		t += r.Delta
		if !IsEndOfTrack(r.Message) {
			res = append(res, t)
		}
	}
	return res
}

func TestRoundTripReproducesTimestamps(t *testing.T) {
	cases := map[string][]model.RawEvent{
		"sequential notes": {
			raw(0, midi.NoteOn(0, 60, 100)),
			raw(240, midi.NoteOff(0, 60)),
			raw(0, midi.NoteOn(0, 62, 90)),
			raw(240, midi.NoteOff(0, 62)),
		},
		"gaps and chords": {
			raw(10, midi.NoteOn(0, 60, 100)),
			raw(0, midi.NoteOn(0, 64, 100)),
			raw(0, midi.NoteOn(0, 67, 100)),
			raw(960, midi.NoteOff(0, 60)),
			raw(0, midi.NoteOff(0, 64)),
			raw(0, midi.NoteOff(0, 67)),
			raw(1, midi.ControlChange(0, 64, 0)),
		},
		"empty": {},
	}

	for name, events := range cases {
		t.Run(name, func(t *testing.T) {
			abs, err := ToAbsolute(events)
			require.NoError(t, err)
			back := ToRelative(abs)
			assert.Equal(t, cumulative(events), cumulative(back))
			assert.True(t, IsEndOfTrack(back[len(back)-1].Message))
		})
	}
}

func TestToAbsoluteAccumulates(t *testing.T) {
	abs, err := ToAbsolute([]model.RawEvent{
		raw(5, midi.NoteOn(0, 60, 100)),
		raw(10, midi.NoteOff(0, 60)),
		raw(0, midi.NoteOn(1, 61, 100)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), abs[0].Time)
	assert.Equal(t, int64(15), abs[1].Time)
	assert.Equal(t, int64(15), abs[2].Time)
}

func TestToAbsoluteRejectsNegativeDelta(t *testing.T) {
	_, err := ToAbsolute([]model.RawEvent{
		raw(5, midi.NoteOn(0, 60, 100)),
		raw(-1, midi.NoteOff(0, 60)),
	})
	assert.True(t, errors.Is(err, errs.ErrCorruptTiming))
}

func TestNoteStartWinsTieAtSameTick(t *testing.T) {
	events := []model.AbsoluteEvent{
		{Time: 0, Message: smf.Message(midi.NoteOn(0, 60, 100))},
		{Time: 480, Message: smf.Message(midi.NoteOff(0, 60))},
		{Time: 480, Message: smf.Message(midi.ControlChange(0, 1, 10))},
		{Time: 480, Message: smf.Message(midi.NoteOn(0, 62, 100))},
	}
	back := ToRelative(events)

	var ch, key, vel uint8
	require.Len(t, back, 5)
	assert.True(t, back[1].Message.GetNoteStart(&ch, &key, &vel))
	assert.Equal(t, uint8(62), key)
	assert.Equal(t, int64(480), back[1].Delta)
	assert.True(t, back[2].Message.GetNoteEnd(&ch, &key))
	assert.Equal(t, uint8(60), key)
	assert.Equal(t, int64(0), back[2].Delta)
	// the controller keeps its place behind the note off
	assert.True(t, midi.Message(back[3].Message).GetControlChange(&ch, &key, &vel))
}

func TestToRelativeClampsNegativeTimes(t *testing.T) {
	back := ToRelative([]model.AbsoluteEvent{
		{Time: -20, Message: smf.Message(midi.NoteOn(0, 60, 100))},
		{Time: 100, Message: smf.Message(midi.NoteOff(0, 60))},
	})
	for _, r := range back {
		assert.GreaterOrEqual(t, r.Delta, int64(0))
	}
	assert.Equal(t, int64(0), back[0].Delta)
	assert.Equal(t, int64(100), back[1].Delta)
}

func TestToRelativeKeepsTrailingEndOfTrack(t *testing.T) {
	back := ToRelative([]model.AbsoluteEvent{
		{Time: 0, Message: smf.Message(midi.NoteOn(0, 60, 100))},
		{Time: 1920, Message: EndOfTrack()},
		{Time: 480, Message: smf.Message(midi.NoteOff(0, 60))},
	})
	require.Len(t, back, 3)
	assert.Equal(t, int64(1440), back[2].Delta)
	assert.True(t, IsEndOfTrack(back[2].Message))
}

func TestToTrackCloses(t *testing.T) {
	track := ToTrack([]model.RawEvent{raw(10, midi.NoteOn(0, 60, 100)), raw(10, midi.NoteOff(0, 60))})
	require.Len(t, track, 3)
	assert.True(t, IsEndOfTrack(track[2].Message))
	assert.Equal(t, uint32(10), track[1].Delta)

	closed := ToTrack(ToRelative(nil))
	assert.Len(t, closed, 1)
}

func TestFromTrack(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(100))
	track.Add(96, midi.NoteOn(2, 40, 80))
	track.Close(0)

	raws := FromTrack(track)
	require.Len(t, raws, 3)
	assert.Equal(t, int64(96), raws[1].Delta)
	assert.True(t, IsChannelMessage(raws[1].Message))
	assert.False(t, IsChannelMessage(raws[0].Message))
}

func TestMetaClassifiers(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsEndOfTrack(EndOfTrack()))
	assert.True(IsEndOfTrack(smf.EOT))
	assert.True(IsTrackName(smf.MetaTrackSequenceName("bass")))
	assert.True(IsTempo(smf.MetaTempo(90)))
	assert.True(IsMeter(smf.MetaMeter(3, 4)))

	assert.False(IsTempo(smf.MetaMeter(3, 4)))
	assert.False(IsTrackName(smf.MetaLyric("bass")))
	assert.False(IsEndOfTrack(smf.Message(midi.NoteOn(0, 60, 100))))
	assert.False(IsMeter(smf.Message(nil)))
}

func TestEndOfTrackReturnsCopy(t *testing.T) {
	eot := EndOfTrack()
	eot[1] = 0x51
	assert.True(t, IsEndOfTrack(EndOfTrack()))
	assert.True(t, IsEndOfTrack(smf.EOT))
}
