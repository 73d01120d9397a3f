package analysis

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/event"
	"github.com/jsphweid/phrasekit/key"
	"github.com/jsphweid/phrasekit/midi"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/note"
	"github.com/jsphweid/phrasekit/texture"
	"github.com/jsphweid/phrasekit/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Clip is a parsed source file together with its analysis.
type Clip struct {
	Path   string
	Name   string
	SMF    *smf.SMF
	Tracks [][]model.AbsoluteEvent
	Record model.AnalysisRecord
	Key    key.Key
}

func BarTicks(ticksPerQuarter int, numerator, denominator uint8) int64 {
	if denominator == 0 {
		return 0
	}
	return util.Round(float64(numerator) * float64(ticksPerQuarter) * 4 / float64(denominator))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Tempo returns the first tempo found scanning tracks in order.
func Tempo(s *smf.SMF) float64 {
	for _, track := range s.Tracks {
		for _, ev := range track {
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				return bpm
			}
		}
	}
	return constants.DefaultTempoBPM
}

// Meter returns the first time signature found scanning tracks in order.
func Meter(s *smf.SMF) (uint8, uint8) {
	for _, track := range s.Tracks {
		for _, ev := range track {
			var num, denom, cpt, dsqpq uint8
			if ev.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq) && num > 0 && denom > 0 {
				return num, denom
			}
		}
	}
	return constants.DefaultNumerator, constants.DefaultDenominator
}

// TrackName returns the text of the first track name meta event.
func TrackName(events []model.AbsoluteEvent) string {
	for _, e := range events {
		var text string
		if e.Message.GetMetaTrackName(&text) {
			return text
		}
	}
	return ""
}

func summarize(name string, notes []model.Note, pitches map[uint8]bool, channels []int) (model.Summary, key.Key) {
	k := key.Resolve(name, notes)
	maxPoly := texture.MaxPolyphony(notes)
	s := model.Summary{
		NoteCount:        len(notes),
		KeySource:        string(k.Source),
		UniquePitchCount: len(pitches),
		Over16Unique:     len(pitches) > 16,
		MaxPolyphony:     maxPoly,
		Classification:   string(texture.Classify(len(pitches), maxPoly)),
		Channels:         channels,
		Notes:            notes,
	}
	for _, ch := range channels {
		if ch == constants.DrumChannel {
			s.UsesCh10 = true
		}
	}
	if k.Known() {
		root, pc, mode, toC := k.Root, k.RootPC, k.Mode, key.TransposeToC(k.RootPC)
		s.Root, s.RootPC, s.Mode, s.TransposeToC = &root, &pc, &mode, &toC
	}
	return s, k
}

// Analyze builds the analysis record for a parsed file. name is the clip's
// display name and feeds the filename key heuristic.
func Analyze(name string, s *smf.SMF) (*Clip, error) {
	tpq, err := midi.TicksPerQuarter(s)
	if err != nil {
		return nil, err
	}

	clip := &Clip{Name: name, SMF: s}
	num, denom := Meter(s)
	rec := model.AnalysisRecord{
		Filename:        name,
		TempoBPM:        roundTo(Tempo(s), 2),
		TimeSignature:   fmt.Sprintf("%d/%d", num, denom),
		Numerator:       num,
		Denominator:     denom,
		TicksPerQuarter: tpq,
		BarTicks:        BarTicks(tpq, num, denom),
	}

	var allNotes []model.Note
	allPitches := make(map[uint8]bool)
	allChannels := make(map[int]bool)
	for i, track := range s.Tracks {
		abs, err := event.ToAbsolute(event.FromTrack(track))
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		clip.Tracks = append(clip.Tracks, abs)

		notes := note.Match(abs)
		note.SortByStart(notes)
		pitches := note.Pitches(abs)
		channels := note.Channels(abs)
		summary, _ := summarize(name, notes, pitches, channels)
		rec.Tracks = append(rec.Tracks, model.TrackAnalysis{
			Index:       i,
			Name:        TrackName(abs),
			MaxVelocity: note.MaxVelocity(abs),
			Summary:     summary,
		})

		allNotes = append(allNotes, notes...)
		for p := range pitches {
			allPitches[p] = true
		}
		for _, ch := range channels {
			allChannels[ch] = true
		}
	}
	note.SortByStart(allNotes)

	rec.Summary, clip.Key = summarize(name, allNotes, allPitches, util.SortedKeys(allChannels))
	var endTicks int64
	for _, n := range allNotes {
		endTicks = util.Max(endTicks, n.End)
	}
	if rec.BarTicks > 0 {
		rec.BarsEstimate = roundTo(float64(endTicks)/float64(rec.BarTicks), 3)
	}
	clip.Record = rec
	return clip, nil
}

func Load(path string) (*Clip, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	clip, err := Analyze(filepath.Base(path), s)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	clip.Path = path
	return clip, nil
}

// AnalyzeFile never fails; an unreadable source yields a record carrying
// only its file name and the error.
func AnalyzeFile(path string) model.AnalysisRecord {
	clip, err := Load(path)
	if err != nil {
		return model.AnalysisRecord{Filename: filepath.Base(path), Error: err.Error()}
	}
	return clip.Record
}
