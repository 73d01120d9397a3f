package key

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
)

type Source string

const (
	SourceFilename Source = "filename"
	SourceInferred Source = "inferred"
	SourceUnknown  Source = "unknown"
)

const (
	Ionian     = "ionian"
	Dorian     = "dorian"
	Phrygian   = "phrygian"
	Lydian     = "lydian"
	Mixolydian = "mixolydian"
	Aeolian    = "aeolian"
	Locrian    = "locrian"
)

var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type Key struct {
	Root   string
	RootPC int
	Mode   string
	Source Source
}

func (k Key) Known() bool {
	return k.Source != SourceUnknown && k.Source != ""
}

// TransposeToC is the upward shift in semitones (0-11) that moves pc onto C.
func TransposeToC(pc int) int {
	return util.Mod(0-pc, 12)
}

const (
	rootPattern  = `(?P<root>[A-G](?:#|(?-i:b))?)`
	before       = `(?:^|[^A-Za-z])`
	after        = `(?:$|[^A-Za-z])`
	fullModes    = `(?P<mode>mixolydian|lydian|dorian|phrygian|ionian|aeolian|locrian|major|minor)`
	abbreviation = `(?P<mode>maj|min|m)`
	spacing      = `[\s_-]+`
)

// Most specific first. Letters match in either case but a flat is always
// a lower-case b.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + before + rootPattern + spacing + fullModes + after),
	regexp.MustCompile(`(?i)` + before + rootPattern + fullModes + after),
	regexp.MustCompile(`(?i)` + before + rootPattern + spacing + abbreviation + after),
	regexp.MustCompile(`(?i)` + before + rootPattern + abbreviation + after),
	regexp.MustCompile(`(?i)` + before + rootPattern + `\s*$`),
}

var parenthesized = regexp.MustCompile(`\(.*?\)`)

func normalizeMode(s string) string {
	s = strings.ToLower(s)
	switch s {
	case "maj", "major":
		return Ionian
	case "min", "minor", "m":
		return Aeolian
	}
	return s
}

var letterPC = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

func rootPitchClass(root string) (string, int) {
	name := strings.ToUpper(root[:1]) + root[1:]
	pc := letterPC[name[0]]
	if len(name) > 1 {
		switch name[1] {
		case '#':
			pc++
		case 'b':
			pc--
		}
	}
	return name, util.Mod(pc, 12)
}

func stripName(name string) string {
	base := filepath.Base(name)
	if util.IsMidiPath(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = parenthesized.ReplaceAllString(base, "")
	return strings.TrimSpace(base)
}

// FromName reads a key from a clip name such as "Bass Eb minor (take 2).mid".
func FromName(name string) (Key, bool) {
	base := stripName(name)
	for _, pat := range namePatterns {
		m := pat.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		root := m[pat.SubexpIndex("root")]
		mode := Ionian
		if i := pat.SubexpIndex("mode"); i >= 0 && m[i] != "" {
			mode = normalizeMode(m[i])
		}
		rootName, pc := rootPitchClass(root)
		return Key{Root: rootName, RootPC: pc, Mode: mode, Source: SourceFilename}, true
	}
	return Key{Source: SourceUnknown}, false
}

// Krumhansl-Schmuckler key profiles, indexed from the tonic.
var (
	MajorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	MinorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// Histogram returns the duration-weighted pitch class distribution of notes,
// normalized to sum to 1.
func Histogram(notes []model.Note) [12]float64 {
	var hist [12]float64
	var total float64
	for _, n := range notes {
		d := float64(util.Max(1, n.Duration()))
		hist[n.Pitch%12] += d
		total += d
	}
	if total == 0 {
		return hist
	}
	for i := range hist {
		hist[i] /= total
	}
	return hist
}

func correlate(hist [12]float64, profile [12]float64) (float64, int) {
	bestScore, bestRoot := -1.0, 0
	for r := 0; r < 12; r++ {
		var score float64
		for pc, w := range hist {
			score += w * profile[util.Mod(pc-r, 12)]
		}
		if score > bestScore {
			bestScore, bestRoot = score, r
		}
	}
	return bestScore, bestRoot
}

// Infer correlates notes against the major and minor profiles in all twelve
// rotations. A major result wins ties.
func Infer(notes []model.Note) (Key, bool) {
	if len(notes) == 0 {
		return Key{Source: SourceUnknown}, false
	}
	hist := Histogram(notes)
	majScore, majRoot := correlate(hist, MajorProfile)
	minScore, minRoot := correlate(hist, MinorProfile)
	if majScore >= minScore {
		return Key{Root: NoteNames[majRoot], RootPC: majRoot, Mode: Ionian, Source: SourceInferred}, true
	}
	return Key{Root: NoteNames[minRoot], RootPC: minRoot, Mode: Aeolian, Source: SourceInferred}, true
}

func Resolve(name string, notes []model.Note) Key {
	if k, ok := FromName(name); ok {
		return k
	}
	if k, ok := Infer(notes); ok {
		return k
	}
	return Key{Source: SourceUnknown}
}
