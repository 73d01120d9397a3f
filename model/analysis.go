package model

// Summary holds the note-derived fields shared by the file-level record
// and each per-track breakdown.
type Summary struct {
	NoteCount        int     `json:"note_count"`
	Root             *string `json:"root"`
	RootPC           *int    `json:"root_pc"`
	Mode             *string `json:"mode"`
	KeySource        string  `json:"key_source"`
	TransposeToC     *int    `json:"transpose_to_C_same_mode"`
	UniquePitchCount int     `json:"unique_pitch_count"`
	Over16Unique     bool    `json:"over16_unique"`
	MaxPolyphony     int     `json:"max_polyphony"`
	Classification   string  `json:"classification"`
	Channels         []int   `json:"channels"`
	UsesCh10         bool    `json:"uses_ch10"`

	// NOTE: kept in memory only, ordered by start tick
	Notes []Note `json:"-"`
}

type TrackAnalysis struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	MaxVelocity uint8  `json:"max_velocity"`
	Summary
}

// AnalysisRecord is computed per source file on every request and never cached.
type AnalysisRecord struct {
	Filename        string  `json:"filename"`
	TempoBPM        float64 `json:"tempo_bpm"`
	TimeSignature   string  `json:"time_signature"`
	Numerator       uint8   `json:"-"`
	Denominator     uint8   `json:"-"`
	TicksPerQuarter int     `json:"ticks_per_quarter"`
	BarTicks        int64   `json:"bar_ticks"`
	BarsEstimate    float64 `json:"bars_estimate"`
	Summary
	Tracks []TrackAnalysis `json:"tracks"`

	// Set when the source could not be parsed; every other field is then zero.
	Error string `json:"error,omitempty"`
}

func (r AnalysisRecord) Failed() bool {
	return r.Error != ""
}
