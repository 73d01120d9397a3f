package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/phrasekit/errs"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%v: %w", path, errs.ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %v: %w", path, err, errs.ErrSourceUnreadable)
	}
	return Parse(dat)
}

func Parse(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("Error parsing midi file... %v: %w", r, errs.ErrAnalysisUnavailable)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("Error parsing midi file... %v: %w", err, errs.ErrAnalysisUnavailable)
	}
	return res, nil
}

// TicksPerQuarter returns the metric resolution of s. SMPTE-timed files
// carry no musical resolution and are rejected.
func TicksPerQuarter(s *smf.SMF) (int, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return 0, fmt.Errorf("unsupported time format %v: %w", s.TimeFormat, errs.ErrAnalysisUnavailable)
	}
	return int(mt), nil
}

func Encode(s *smf.SMF) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMidiFile writes s next to path under a temporary name and renames
// it into place, so readers never see a half-written file.
func WriteMidiFile(path string, s *smf.SMF) error {
	dat, err := Encode(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %v: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, dat, 0644); err != nil {
		return fmt.Errorf("Write failed for file: %v: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("Write failed for file: %v: %w", path, err)
	}
	return nil
}
