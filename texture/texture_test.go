package texture

import (
	"testing"

	"github.com/jsphweid/phrasekit/model"
	"github.com/stretchr/testify/assert"
)

func TestMaxPolyphony(t *testing.T) {
	tests := []struct {
		name  string
		notes []model.Note
		want  int
	}{
		{name: "empty", notes: nil, want: 0},
		{name: "sequential", notes: []model.Note{{Start: 0, End: 10}, {Start: 20, End: 30}}, want: 1},
		{name: "triad", notes: []model.Note{{Start: 0, End: 10}, {Start: 0, End: 10}, {Start: 0, End: 10}}, want: 3},
		{name: "overlapping tails", notes: []model.Note{{Start: 0, End: 10}, {Start: 5, End: 15}, {Start: 12, End: 20}}, want: 2},
		// starts are counted before ends at a shared tick
		{name: "legato handoff", notes: []model.Note{{Start: 0, End: 10}, {Start: 10, End: 20}}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxPolyphony(tt.notes))
		})
	}
}

func TestClassify(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(SingleNote, Classify(1, 1))
	assert.Equal(SingleNote, Classify(0, 0))
	assert.Equal(SingleNote, Classify(1, 4))
	assert.Equal(Monophonic, Classify(5, 1))
	assert.Equal(Polyphonic, Classify(3, 2))
}

func TestPolyphonicAndSingleNoteScenarios(t *testing.T) {
	two := []model.Note{{Start: 0, End: 480, Pitch: 60}, {Start: 240, End: 720, Pitch: 64}}
	assert.Equal(t, Polyphonic, Classify(2, MaxPolyphony(two)))

	repeated := []model.Note{{Start: 0, End: 100, Pitch: 36}, {Start: 200, End: 300, Pitch: 36}}
	assert.Equal(t, SingleNote, Classify(1, MaxPolyphony(repeated)))
}

func TestTag(t *testing.T) {
	assert.Equal(t, "Poly", Polyphonic.Tag())
	assert.Equal(t, "", Class("").Tag())
}
