package model

// TrackTransformSpec is the fully resolved set of operations applied to one track.
type TrackTransformSpec struct {
	// Combined key-normalization and manual offset, already reduced to [0,11].
	TransposeSemitones int
	// Target resolution divided by source resolution.
	TickRescaleFactor float64
	// Zero disables truncation. Fractional bars are allowed.
	MaxBars float64
	// Zero disables velocity rescaling.
	VelocityTarget     uint8
	OutputChannel      *uint8
	SuppressPitchShift bool
}

// TransformOptions are the request-wide options shared by every track.
type TransformOptions struct {
	Normalize             bool    `json:"normalize"`
	TransposeSemitones    int     `json:"transpose_semitones"`
	TargetTicksPerQuarter int     `json:"target_ticks_per_quarter"`
	MaxBars               float64 `json:"max_bars"`
	VelocityTarget        int     `json:"velocity_target"`
	OutputChannel         *int    `json:"output_channel"`
	SuppressPitchShift    bool    `json:"suppress_pitch_shift"`
	AutoDrums             bool    `json:"auto_drums"`
}

// TrackOverride replaces individual options for a single output track.
// Nil fields fall back to the request-wide options.
type TrackOverride struct {
	TransposeSemitones *int  `json:"transpose_semitones"`
	VelocityTarget     *int  `json:"velocity_target"`
	OutputChannel      *int  `json:"output_channel"`
	SuppressPitchShift *bool `json:"suppress_pitch_shift"`
}

type TransformRequest struct {
	Files   []string         `json:"files"`
	Options TransformOptions `json:"options"`
	// keyed by output track index
	Tracks map[int]TrackOverride `json:"tracks"`
	Merge  bool                  `json:"merge"`
}

type FileError struct {
	File  string `json:"file"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type BatchResult struct {
	Written []string    `json:"written"`
	Errors  []FileError `json:"errors"`
}
