package compose

import (
	"fmt"
	"math"

	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
)

const maxManualTranspose = 24

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%v: %w", fmt.Sprintf(format, a...), errs.ErrInvalidSpec)
}

func validTranspose(v int) bool {
	return v >= -maxManualTranspose && v <= maxManualTranspose
}

func validVelocity(v int) bool {
	return v >= 0 && v <= 127
}

func validChannel(ch *int) bool {
	return ch == nil || (*ch >= 0 && *ch <= 15)
}

func validateOptions(o model.TransformOptions) error {
	if !validTranspose(o.TransposeSemitones) {
		return invalid("transpose_semitones %d outside [-%d,%d]", o.TransposeSemitones, maxManualTranspose, maxManualTranspose)
	}
	if o.TargetTicksPerQuarter < 0 || o.TargetTicksPerQuarter > constants.MaxTicksPerQuarter {
		return invalid("target_ticks_per_quarter %d", o.TargetTicksPerQuarter)
	}
	if math.IsNaN(o.MaxBars) || math.IsInf(o.MaxBars, 0) || o.MaxBars < 0 {
		return invalid("max_bars %v", o.MaxBars)
	}
	if !validVelocity(o.VelocityTarget) {
		return invalid("velocity_target %d outside [0,127]", o.VelocityTarget)
	}
	if !validChannel(o.OutputChannel) {
		return invalid("output_channel %d outside [0,15]", *o.OutputChannel)
	}
	return nil
}

func validateOverride(idx int, o model.TrackOverride) error {
	if o.TransposeSemitones != nil && !validTranspose(*o.TransposeSemitones) {
		return invalid("track %d: transpose_semitones %d", idx, *o.TransposeSemitones)
	}
	if o.VelocityTarget != nil && !validVelocity(*o.VelocityTarget) {
		return invalid("track %d: velocity_target %d", idx, *o.VelocityTarget)
	}
	if !validChannel(o.OutputChannel) {
		return invalid("track %d: output_channel %d", idx, *o.OutputChannel)
	}
	return nil
}

// Validate rejects a request before any source is opened. maxTracks bounds
// the override indices of a merge; zero means the default capacity.
func Validate(req model.TransformRequest, maxTracks int) error {
	if len(req.Files) == 0 {
		return invalid("no files")
	}
	if err := validateOptions(req.Options); err != nil {
		return err
	}
	if maxTracks <= 0 {
		maxTracks = constants.MaxMergeTracks
	}
	for _, idx := range util.SortedKeys(req.Tracks) {
		if idx < 0 || (req.Merge && idx >= maxTracks) {
			return invalid("track override index %d", idx)
		}
		if err := validateOverride(idx, req.Tracks[idx]); err != nil {
			return err
		}
	}
	return nil
}

func drumsOnly(channels []int) bool {
	return len(channels) == 1 && channels[0] == constants.DrumChannel
}

// Resolve folds request options, an optional per-track override and the
// source's key offset into the spec for one track. keyOffset is the
// transpose-to-C shift of the source when normalizing and zero otherwise.
func Resolve(opts model.TransformOptions, override model.TrackOverride, keyOffset int, track model.TrackAnalysis, factor float64) model.TrackTransformSpec {
	manual := opts.TransposeSemitones
	if override.TransposeSemitones != nil {
		manual = *override.TransposeSemitones
	}
	velocity := opts.VelocityTarget
	if override.VelocityTarget != nil {
		velocity = *override.VelocityTarget
	}
	channel := opts.OutputChannel
	if override.OutputChannel != nil {
		channel = override.OutputChannel
	}
	suppress := opts.SuppressPitchShift || (opts.AutoDrums && drumsOnly(track.Channels))
	if override.SuppressPitchShift != nil {
		suppress = *override.SuppressPitchShift
	}

	spec := model.TrackTransformSpec{
		TransposeSemitones: util.Mod(keyOffset+manual, 12),
		TickRescaleFactor:  factor,
		MaxBars:            opts.MaxBars,
		VelocityTarget:     uint8(util.Clamp(velocity, 0, 127)),
		SuppressPitchShift: suppress,
	}
	if channel != nil {
		ch := uint8(util.Clamp(*channel, 0, 15))
		spec.OutputChannel = &ch
	}
	return spec
}
