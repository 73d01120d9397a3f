package note

import (
	"sort"

	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
)

type noteKey struct {
	channel uint8
	pitch   uint8
}

type pending struct {
	start    int64
	velocity uint8
}

// Match pairs note starts with note ends per (channel, pitch), oldest start
// first, so overlapping retriggers of one pitch resolve in order. Ends with
// nothing pending are dropped, as are zero-length notes. Notes come out in
// the order they complete.
func Match(events []model.AbsoluteEvent) []model.Note {
	queues := make(map[noteKey][]pending)
	var notes []model.Note
	for _, e := range events {
		var ch, key, vel uint8
		switch {
		case e.Message.GetNoteStart(&ch, &key, &vel):
			k := noteKey{ch, key}
			queues[k] = append(queues[k], pending{start: e.Time, velocity: vel})
		case e.Message.GetNoteEnd(&ch, &key):
			k := noteKey{ch, key}
			q := queues[k]
			if len(q) == 0 {
				continue
			}
			p := q[0]
			queues[k] = q[1:]
			if e.Time > p.start {
				notes = append(notes, model.Note{
					Start:    p.start,
					End:      e.Time,
					Pitch:    key,
					Velocity: p.velocity,
					Channel:  ch,
				})
			}
		}
	}
	return notes
}

func SortByStart(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
}

// Pitches collects every pitch that is struck, matched or not.
func Pitches(events []model.AbsoluteEvent) map[uint8]bool {
	res := make(map[uint8]bool)
	for _, e := range events {
		var ch, key, vel uint8
		if e.Message.GetNoteStart(&ch, &key, &vel) {
			res[key] = true
		}
	}
	return res
}

func Channels(events []model.AbsoluteEvent) []int {
	seen := make(map[int]bool)
	for _, e := range events {
		var ch, key, vel uint8
		if e.Message.GetNoteStart(&ch, &key, &vel) {
			seen[int(ch)] = true
		}
	}
	return util.SortedKeys(seen)
}

func MaxVelocity(events []model.AbsoluteEvent) uint8 {
	var res uint8
	for _, e := range events {
		var ch, key, vel uint8
		if e.Message.GetNoteStart(&ch, &key, &vel) {
			res = util.Max(res, vel)
		}
	}
	return res
}
