package texture

import (
	"sort"

	"github.com/jsphweid/phrasekit/model"
)

type Class string

const (
	SingleNote Class = "single_note"
	Monophonic Class = "monophonic"
	Polyphonic Class = "polyphonic"
)

// Tag is the short label used in output file names.
func (c Class) Tag() string {
	switch c {
	case SingleNote:
		return "Rhythmic"
	case Monophonic:
		return "Mono"
	case Polyphonic:
		return "Poly"
	}
	return ""
}

type edge struct {
	time  int64
	delta int
}

// MaxPolyphony is the largest number of notes sounding at once. A note
// starting on the tick another ends counts as overlapping it.
func MaxPolyphony(notes []model.Note) int {
	edges := make([]edge, 0, len(notes)*2)
	for _, n := range notes {
		edges = append(edges, edge{n.Start, +1}, edge{n.End, -1})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].time != edges[j].time {
			return edges[i].time < edges[j].time
		}
		return edges[i].delta > edges[j].delta
	})

	var cur, max int
	for _, e := range edges {
		cur += e.delta
		if cur > max {
			max = cur
		}
	}
	return max
}

func Classify(uniquePitchCount int, maxPolyphony int) Class {
	switch {
	case uniquePitchCount <= 1:
		return SingleNote
	case maxPolyphony <= 1:
		return Monophonic
	default:
		return Polyphonic
	}
}
