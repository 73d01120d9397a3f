package rewrite

import (
	"fmt"
	"math"

	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/event"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Context carries the per-track facts the rewriter cannot derive from the
// events alone.
type Context struct {
	// ticks per bar at the target resolution
	BarTicks int64
	// loudest note start in the source track
	MaxVelocity uint8
}

type noteKey struct {
	channel uint8
	pitch   uint8
}

func Validate(spec model.TrackTransformSpec, ctx Context) error {
	f := spec.TickRescaleFactor
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("tick rescale factor %v: %w", f, errs.ErrInvalidSpec)
	}
	if math.IsNaN(spec.MaxBars) || math.IsInf(spec.MaxBars, 0) || spec.MaxBars < 0 {
		return fmt.Errorf("max bars %v: %w", spec.MaxBars, errs.ErrInvalidSpec)
	}
	if spec.MaxBars > 0 && ctx.BarTicks <= 0 {
		return fmt.Errorf("bar ticks %v: %w", ctx.BarTicks, errs.ErrInvalidSpec)
	}
	if spec.VelocityTarget > 127 {
		return fmt.Errorf("velocity target %v: %w", spec.VelocityTarget, errs.ErrInvalidSpec)
	}
	if spec.OutputChannel != nil && *spec.OutputChannel > 15 {
		return fmt.Errorf("output channel %v: %w", *spec.OutputChannel, errs.ErrInvalidSpec)
	}
	return nil
}

func clone(msg smf.Message) smf.Message {
	return append(smf.Message(nil), msg...)
}

func isNoteMessage(msg smf.Message) bool {
	if len(msg) < 3 {
		return false
	}
	status := msg[0] & 0xF0
	return status == 0x80 || status == 0x90
}

func transpose(msg smf.Message, semitones int) smf.Message {
	if semitones == 0 || !isNoteMessage(msg) {
		return msg
	}
	res := clone(msg)
	res[1] = uint8(util.Mod(int(msg[1])+semitones, 128))
	return res
}

func scaleVelocity(msg smf.Message, target uint8, peak uint8) smf.Message {
	if target == 0 || peak == 0 || len(msg) < 3 || msg[0]&0xF0 != 0x90 || msg[2] == 0 {
		return msg
	}
	scaled := util.Round(float64(msg[2]) * float64(target) / float64(peak))
	res := clone(msg)
	res[2] = uint8(util.Clamp(scaled, 1, 127))
	return res
}

func remapChannel(msg smf.Message, channel uint8) smf.Message {
	if !event.IsChannelMessage(msg) {
		return msg
	}
	res := clone(msg)
	res[0] = (msg[0] & 0xF0) | (channel & 0x0F)
	return res
}

// Track rescales, transposes, rescales velocities, truncates and remaps the
// channel of one track, in that order, and returns the events sorted for
// re-encoding. Truncation closes every start still sounding at the limit
// with its own note-off, so nothing is left hanging. events are not
// modified.
func Track(events []model.AbsoluteEvent, spec model.TrackTransformSpec, ctx Context) ([]model.AbsoluteEvent, error) {
	if err := Validate(spec, ctx); err != nil {
		return nil, err
	}

	semitones := 0
	if !spec.SuppressPitchShift {
		semitones = util.Mod(spec.TransposeSemitones, 12)
	}
	work := make([]model.AbsoluteEvent, 0, len(events))
	for _, e := range events {
		t := e.Time
		if spec.TickRescaleFactor != 1 {
			t = util.Round(float64(e.Time) * spec.TickRescaleFactor)
		}
		msg := transpose(e.Message, semitones)
		msg = scaleVelocity(msg, spec.VelocityTarget, ctx.MaxVelocity)
		work = append(work, model.AbsoluteEvent{Time: t, Message: msg})
	}
	// walk in output order so note pairing matches what a player sees
	event.Sort(work)

	out := work
	if spec.MaxBars > 0 {
		out = truncate(work, int64(math.Floor(spec.MaxBars*float64(ctx.BarTicks))))
	}

	if spec.OutputChannel != nil {
		for i := range out {
			out[i].Message = remapChannel(out[i].Message, *spec.OutputChannel)
		}
	}

	event.Sort(out)
	return out, nil
}

// truncate drops everything after limit. Starts still pending per key are
// counted so overlapping retriggers of one pitch each get closed.
func truncate(events []model.AbsoluteEvent, limit int64) []model.AbsoluteEvent {
	active := make(map[noteKey]int)
	var order []noteKey
	endDropped := false
	out := make([]model.AbsoluteEvent, 0, len(events))
	for _, e := range events {
		if e.Time > limit {
			if event.IsEndOfTrack(e.Message) {
				endDropped = true
			}
			continue
		}
		var ch, key, vel uint8
		switch {
		case e.Message.GetNoteStart(&ch, &key, &vel):
			k := noteKey{ch, key}
			if _, ok := active[k]; !ok {
				order = append(order, k)
			}
			active[k]++
		case e.Message.GetNoteEnd(&ch, &key):
			if k := (noteKey{ch, key}); active[k] > 0 {
				active[k]--
			}
		}
		out = append(out, e)
	}

	for _, k := range order {
		for n := active[k]; n > 0; n-- {
			out = append(out, model.AbsoluteEvent{Time: limit, Message: smf.Message(gomidi.NoteOff(k.channel, k.pitch))})
		}
	}
	// keep the clip exactly max bars long
	if endDropped {
		out = append(out, model.AbsoluteEvent{Time: limit, Message: smf.EOT})
	}
	return out
}

func Encode(events []model.AbsoluteEvent) smf.Track {
	return event.ToTrack(event.ToRelative(events))
}
