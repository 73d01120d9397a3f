package compose

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/phrasekit/analysis"
	"github.com/jsphweid/phrasekit/config"
	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/event"
	"github.com/jsphweid/phrasekit/logger"
	"github.com/jsphweid/phrasekit/midi"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/rewrite"
	"github.com/jsphweid/phrasekit/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Composer writes rewritten copies of source clips into DestDir, either one
// file per source or a single merged pack.
type Composer struct {
	// When set, requested files are resolved under Root and may not escape it.
	Root    string
	DestDir string
	// Used when a request does not name a resolution. Zero keeps the source's.
	TargetTicksPerQuarter int
	MaxMergeTracks        int
}

func New(cfg *config.Config) *Composer {
	return &Composer{
		Root:                  cfg.Root,
		DestDir:               cfg.Dest,
		TargetTicksPerQuarter: cfg.TargetTicksPerQuarter,
		MaxMergeTracks:        cfg.MaxMergeTracks,
	}
}

func (c *Composer) maxTracks() int {
	if c.MaxMergeTracks > 0 {
		return c.MaxMergeTracks
	}
	return constants.MaxMergeTracks
}

func (c *Composer) targetTicks(opts model.TransformOptions, source int) int {
	if opts.TargetTicksPerQuarter > 0 {
		return opts.TargetTicksPerQuarter
	}
	if c.TargetTicksPerQuarter > 0 && c.TargetTicksPerQuarter <= constants.MaxTicksPerQuarter {
		return c.TargetTicksPerQuarter
	}
	return source
}

func (c *Composer) load(file string) (*analysis.Clip, error) {
	path := file
	if c.Root != "" {
		p, err := util.ResolveUnder(c.Root, file)
		if err != nil {
			return nil, err
		}
		path = p
	}
	if !util.IsMidiPath(path) {
		return nil, fmt.Errorf("%v: not a midi file: %w", file, errs.ErrSourceUnreadable)
	}
	return analysis.Load(path)
}

// rewriteClip rewrites every track of clip at the target resolution.
// firstIndex is the output index of the clip's first track, used to look up
// per-track overrides.
func rewriteClip(clip *analysis.Clip, opts model.TransformOptions, overrides map[int]model.TrackOverride, firstIndex int, target int) ([][]model.AbsoluteEvent, error) {
	rec := clip.Record
	factor := float64(target) / float64(rec.TicksPerQuarter)
	ctx := rewrite.Context{BarTicks: analysis.BarTicks(target, rec.Numerator, rec.Denominator)}
	offset := KeyOffset(rec, opts)

	res := make([][]model.AbsoluteEvent, 0, len(clip.Tracks))
	for i, events := range clip.Tracks {
		track := rec.Tracks[i]
		spec := Resolve(opts, overrides[firstIndex+i], offset, track, factor)
		ctx.MaxVelocity = track.MaxVelocity
		out, err := rewrite.Track(events, spec, ctx)
		if err != nil {
			return nil, fmt.Errorf("%v track %d: %w", rec.Filename, i, err)
		}
		logger.Debug("Rewrote track", logger.Fields{
			"file":      rec.Filename,
			"track":     firstIndex + i,
			"transpose": spec.TransposeSemitones,
			"factor":    spec.TickRescaleFactor,
			"events":    len(out),
		})
		res = append(res, out)
	}
	return res, nil
}

func newContainer(target int, tracks [][]model.AbsoluteEvent) (*smf.SMF, error) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(uint16(target))
	for i, events := range tracks {
		if err := s.Add(rewrite.Encode(events)); err != nil {
			return nil, fmt.Errorf("adding track %d: %w", i, err)
		}
	}
	return s, nil
}

func (c *Composer) exportFile(file string, req model.TransformRequest) (string, error) {
	clip, err := c.load(file)
	if err != nil {
		return "", err
	}
	target := c.targetTicks(req.Options, clip.Record.TicksPerQuarter)
	tracks, err := rewriteClip(clip, req.Options, req.Tracks, 0, target)
	if err != nil {
		return "", err
	}
	s, err := newContainer(target, tracks)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(c.DestDir, FileName(clip.Record, req.Options))
	if err := midi.WriteMidiFile(dst, s); err != nil {
		return "", err
	}
	return dst, nil
}

// ExportFile rewrites a single source and returns the written path.
func (c *Composer) ExportFile(file string, req model.TransformRequest) (string, error) {
	if err := Validate(model.TransformRequest{Files: []string{file}, Options: req.Options, Tracks: req.Tracks}, c.maxTracks()); err != nil {
		return "", err
	}
	return c.exportFile(file, req)
}

func newBatchResult() model.BatchResult {
	return model.BatchResult{Written: []string{}, Errors: []model.FileError{}}
}

func fail(res *model.BatchResult, file string, err error) {
	kind := errs.Kind(err)
	logger.Warn("Skipping file", logger.Fields{"file": file, "kind": kind, "error": err.Error()})
	res.Errors = append(res.Errors, model.FileError{File: file, Kind: kind, Error: err.Error()})
}

// Export writes one rewritten file per source. A failing source is
// reported in the result and the rest of the batch carries on.
func (c *Composer) Export(req model.TransformRequest) (model.BatchResult, error) {
	if err := Validate(req, c.maxTracks()); err != nil {
		return model.BatchResult{}, err
	}
	res := newBatchResult()
	for _, file := range req.Files {
		dst, err := c.exportFile(file, req)
		if err != nil {
			fail(&res, file, err)
			continue
		}
		logger.Info("Wrote file", logger.Fields{"file": file, "dest": dst})
		res.Written = append(res.Written, dst)
	}
	return res, nil
}

// packTrack names a merged track and, for every source after the first,
// drops the tempo and meter so the pack has a single timing map.
func packTrack(events []model.AbsoluteEvent, name string, keepTiming bool) []model.AbsoluteEvent {
	res := make([]model.AbsoluteEvent, 0, len(events)+1)
	res = append(res, model.AbsoluteEvent{Time: 0, Message: smf.MetaTrackSequenceName(name)})
	for _, e := range events {
		if event.IsTrackName(e.Message) {
			continue
		}
		if !keepTiming && (event.IsTempo(e.Message) || event.IsMeter(e.Message)) {
			continue
		}
		res = append(res, e)
	}
	return res
}

// Merge rewrites every track of every source into one pack. All tracks
// share the resolution chosen for the first readable source. A source whose
// tracks would not fit under the capacity is skipped and reported.
func (c *Composer) Merge(req model.TransformRequest) (model.BatchResult, error) {
	req.Merge = true
	if err := Validate(req, c.maxTracks()); err != nil {
		return model.BatchResult{}, err
	}
	res := newBatchResult()

	var (
		packed      [][]model.AbsoluteEvent
		descriptors []string
		target      int
	)
	for _, file := range req.Files {
		clip, err := c.load(file)
		if err != nil {
			fail(&res, file, err)
			continue
		}
		if n := len(packed) + len(clip.Tracks); n > c.maxTracks() {
			fail(&res, file, fmt.Errorf("%v: %d tracks > %d: %w", file, n, c.maxTracks(), errs.ErrCapacity))
			continue
		}
		t := target
		if t == 0 {
			t = c.targetTicks(req.Options, clip.Record.TicksPerQuarter)
		}
		tracks, err := rewriteClip(clip, req.Options, req.Tracks, len(packed), t)
		if err != nil {
			fail(&res, file, err)
			continue
		}

		target = t
		desc := Descriptor(clip.Record, req.Options)
		keepTiming := len(packed) == 0
		for i, events := range tracks {
			name := desc
			if len(tracks) > 1 {
				name = fmt.Sprintf("%s #%d", desc, i+1)
			}
			packed = append(packed, packTrack(events, name, keepTiming))
		}
		descriptors = append(descriptors, desc)
	}

	if len(descriptors) == 0 {
		return res, nil
	}
	s, err := newContainer(target, packed)
	if err != nil {
		return res, err
	}
	dst := filepath.Join(c.DestDir, PackName(descriptors))
	if err := midi.WriteMidiFile(dst, s); err != nil {
		return res, err
	}
	logger.Info("Wrote pack", logger.Fields{"dest": dst, "sources": len(descriptors), "tracks": len(packed)})
	res.Written = append(res.Written, dst)
	return res, nil
}

func (c *Composer) Run(req model.TransformRequest) (model.BatchResult, error) {
	if req.Merge {
		return c.Merge(req)
	}
	return c.Export(req)
}
