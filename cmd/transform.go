package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/phrasekit/compose"
	"github.com/jsphweid/phrasekit/model"
	"github.com/spf13/cobra"
)

type transformFlags struct {
	opts       model.TransformOptions
	channel    int
	tracksFile string
}

func addTransformFlags(cmd *cobra.Command, f *transformFlags) {
	fl := cmd.Flags()
	fl.BoolVar(&f.opts.Normalize, "normalize", false, "transpose each clip to C, keeping its mode")
	fl.IntVar(&f.opts.TransposeSemitones, "transpose", 0, "extra semitones applied on top of normalization (-24..24)")
	fl.IntVar(&f.opts.TargetTicksPerQuarter, "tpq", 0, "output ticks per quarter note (default $PHRASEKIT_TARGET_TPQ)")
	fl.Float64Var(&f.opts.MaxBars, "max-bars", 0, "truncate to this many bars, fractions allowed; 0 keeps everything")
	fl.IntVar(&f.opts.VelocityTarget, "velocity", 0, "rescale so each track's loudest note hits this velocity")
	fl.IntVar(&f.channel, "channel", 0, "move every track to this channel (0-15)")
	fl.BoolVar(&f.opts.SuppressPitchShift, "suppress-pitch", false, "never transpose")
	fl.BoolVar(&f.opts.AutoDrums, "auto-drums", false, "leave tracks that only use channel 10 untransposed")
	fl.StringVar(&f.tracksFile, "tracks", "", "JSON file of per-track overrides keyed by output track index")
}

// loadTrackOverrides reads {"<index>": {...}, ...} from filename
func loadTrackOverrides(filename string) (map[int]model.TrackOverride, error) {
	if filename == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracks file: %w", err)
	}
	var tracks map[int]model.TrackOverride
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracks file: %w", err)
	}
	return tracks, nil
}

func (f *transformFlags) request(cmd *cobra.Command, args []string, merge bool) (model.TransformRequest, error) {
	opts := f.opts
	if cmd.Flags().Changed("channel") {
		ch := f.channel
		opts.OutputChannel = &ch
	}
	tracks, err := loadTrackOverrides(f.tracksFile)
	if err != nil {
		return model.TransformRequest{}, err
	}
	files := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return model.TransformRequest{}, err
		}
		files = append(files, abs)
	}
	return model.TransformRequest{Files: files, Options: opts, Tracks: tracks, Merge: merge}, nil
}

func runTransform(w io.Writer, req model.TransformRequest) error {
	c := compose.New(cfg)
	// paths on the command line are taken as given
	c.Root = ""
	res, err := c.Run(req)
	if err != nil {
		return err
	}
	if err := writeJSON(w, res); err != nil {
		return err
	}
	if len(res.Written) == 0 {
		return fmt.Errorf("nothing written, %d file(s) failed", len(res.Errors))
	}
	return nil
}
