package model

import "gitlab.com/gomidi/midi/v2/smf"

// RawEvent is a delta-time event as stored in a track.
type RawEvent struct {
	Delta   int64
	Message smf.Message
}

// AbsoluteEvent carries the cumulative tick position of an event within its track.
type AbsoluteEvent struct {
	Time    int64
	Message smf.Message
}

type Note struct {
	Start    int64
	End      int64
	Pitch    uint8
	Velocity uint8
	Channel  uint8
}

func (n Note) Duration() int64 {
	return n.End - n.Start
}
