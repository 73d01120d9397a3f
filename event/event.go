package event

import (
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// EndOfTrack returns a fresh copy of the end-of-track meta so callers may
// modify it.
func EndOfTrack() smf.Message {
	return append(smf.Message(nil), smf.EOT...)
}

func IsEndOfTrack(msg smf.Message) bool {
	return msg.Is(smf.MetaEndOfTrackMsg)
}

func IsTrackName(msg smf.Message) bool {
	return msg.Is(smf.MetaTrackNameMsg)
}

func IsTempo(msg smf.Message) bool {
	return msg.Is(smf.MetaTempoMsg)
}

func IsMeter(msg smf.Message) bool {
	return msg.Is(smf.MetaTimeSigMsg)
}

// IsChannelMessage reports whether msg carries a channel nibble (0x80-0xEF).
func IsChannelMessage(msg smf.Message) bool {
	return len(msg) >= 1 && msg[0] >= 0x80 && msg[0] <= 0xEF
}

func IsNoteStart(msg smf.Message) bool {
	var ch, key, vel uint8
	return msg.GetNoteStart(&ch, &key, &vel)
}

func FromTrack(track smf.Track) []model.RawEvent {
	res := make([]model.RawEvent, 0, len(track))
	for _, ev := range track {
		res = append(res, model.RawEvent{Delta: int64(ev.Delta), Message: ev.Message})
	}
	return res
}

// ToTrack builds an smf.Track, closing it when raws lack a trailing end-of-track.
func ToTrack(raws []model.RawEvent) smf.Track {
	var track smf.Track
	for _, r := range raws {
		delta := r.Delta
		if delta < 0 {
			delta = 0
		}
		if delta > math.MaxUint32 {
			delta = math.MaxUint32
		}
		track = append(track, smf.Event{Delta: uint32(delta), Message: r.Message})
	}
	if len(track) == 0 || !IsEndOfTrack(track[len(track)-1].Message) {
		track.Close(0)
	}
	return track
}

func ToAbsolute(raws []model.RawEvent) ([]model.AbsoluteEvent, error) {
	res := make([]model.AbsoluteEvent, 0, len(raws))
	var absTicks int64
	for i, r := range raws {
		if r.Delta < 0 {
			return nil, fmt.Errorf("event %d has delta %d: %w", i, r.Delta, errs.ErrCorruptTiming)
		}
		absTicks += r.Delta
		res = append(res, model.AbsoluteEvent{Time: absTicks, Message: r.Message})
	}
	return res, nil
}

func tieRank(msg smf.Message) int {
	if IsNoteStart(msg) {
		return 0
	}
	return 1
}

// Sort orders events by time; at a shared tick note starts come before
// everything else, otherwise the original order is kept.
func Sort(events []model.AbsoluteEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return tieRank(events[i].Message) < tieRank(events[j].Message)
	})
}

// ToRelative sorts a copy of events and converts it back to delta time.
// End-of-track markers inside the list are dropped and a single one is
// appended, placed at the latest dropped marker when that lies after the
// last event.
func ToRelative(events []model.AbsoluteEvent) []model.RawEvent {
	sorted := make([]model.AbsoluteEvent, len(events))
	copy(sorted, events)
	Sort(sorted)

	res := make([]model.RawEvent, 0, len(sorted)+1)
	var last int64
	eot := int64(-1)
	for _, e := range sorted {
		if IsEndOfTrack(e.Message) {
			if e.Time > eot {
				eot = e.Time
			}
			continue
		}
		delta := e.Time - last
		if delta < 0 {
			delta = 0
		} else {
			last = e.Time
		}
		res = append(res, model.RawEvent{Delta: delta, Message: e.Message})
	}

	var eotDelta int64
	if eot > last {
		eotDelta = eot - last
	}
	return append(res, model.RawEvent{Delta: eotDelta, Message: EndOfTrack()})
}
