package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PHRASEKIT_ROOT", root)
	t.Setenv("PHRASEKIT_DEST", "")
	t.Setenv("PHRASEKIT_TARGET_TPQ", "")
	t.Setenv("PHRASEKIT_MAX_MERGE_TRACKS", "")
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")

	cfg := Load()
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "selected"), cfg.Dest)
	assert.Equal(t, 480, cfg.TargetTicksPerQuarter)
	assert.Equal(t, 16, cfg.MaxMergeTracks)
	assert.Equal(t, "8765", cfg.Port)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PHRASEKIT_ROOT", t.TempDir())
	t.Setenv("PHRASEKIT_DEST", "/tmp/out")
	t.Setenv("PHRASEKIT_TARGET_TPQ", "96")
	t.Setenv("PHRASEKIT_MAX_MERGE_TRACKS", "nope")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()
	assert.Equal(t, "/tmp/out", cfg.Dest)
	assert.Equal(t, 96, cfg.TargetTicksPerQuarter)
	assert.Equal(t, 16, cfg.MaxMergeTracks)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsOutOfRangeNumbers(t *testing.T) {
	t.Setenv("PHRASEKIT_ROOT", t.TempDir())
	cases := map[string]struct {
		tpq, tracks string
	}{
		"smpte bit":   {tpq: "40000", tracks: "0"},
		"largest + 1": {tpq: "32768", tracks: "-3"},
		"zero":        {tpq: "0", tracks: "0"},
		"negative":    {tpq: "-480", tracks: "-1"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PHRASEKIT_TARGET_TPQ", c.tpq)
			t.Setenv("PHRASEKIT_MAX_MERGE_TRACKS", c.tracks)
			cfg := Load()
			assert.Equal(t, 480, cfg.TargetTicksPerQuarter)
			assert.Equal(t, 16, cfg.MaxMergeTracks)
		})
	}

	t.Setenv("PHRASEKIT_TARGET_TPQ", "32767")
	assert.Equal(t, 32767, Load().TargetTicksPerQuarter)
}
