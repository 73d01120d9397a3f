package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/phrasekit/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestGatherAllMidiPaths(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.mid"))
	touch(t, filepath.Join(root, "a.MIDI"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "c.mid"))
	touch(t, filepath.Join(root, ".cache", "d.mid"))

	paths, err := GatherAllMidiPaths(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.MIDI", "b.mid", filepath.Join("sub", "c.mid")}, paths)

	paths, err = GatherAllMidiPaths(root, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherAllMidiPaths(filepath.Join(root, "missing"), 0)
	assert.Error(t, err)
}

func TestGatherAllMidiPathsSkipsDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mid"))
	touch(t, filepath.Join(root, "selected", "a_C.mid"))
	touch(t, filepath.Join(root, "selected", "deep", "b_C.mid"))
	touch(t, filepath.Join(root, "sub", "selected.mid"))

	paths, err := GatherAllMidiPaths(root, 0, filepath.Join(root, "selected"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mid", filepath.Join("sub", "selected.mid")}, paths)

	// a destination outside root changes nothing
	paths, err = GatherAllMidiPaths(root, 0, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func TestResolveUnder(t *testing.T) {
	root := t.TempDir()

	p, err := ResolveUnder(root, "sub/a.mid")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "a.mid"), p)

	_, err = ResolveUnder(root, "../a.mid")
	assert.ErrorIs(t, err, errs.ErrOutsideRoot)

	_, err = ResolveUnder(root, "sub/../../a.mid")
	assert.ErrorIs(t, err, errs.ErrOutsideRoot)

	_, err = ResolveUnder(root, "/etc/passwd")
	assert.ErrorIs(t, err, errs.ErrOutsideRoot)
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, 3, Min(3, 7))
	assert.Equal(t, 7, Max(3, 7))
	assert.Equal(t, int64(127), Clamp(int64(300), 1, 127))
	assert.Equal(t, int64(1), Clamp(int64(0), 1, 127))

	assert.Equal(t, int64(3), Round(2.5))
	assert.Equal(t, int64(-3), Round(-2.5))
	assert.Equal(t, int64(2), Round(2.4999))

	assert.Equal(t, 10, Mod(-2, 12))
	assert.Equal(t, 0, Mod(24, 12))
	assert.Equal(t, 2, Mod(130, 128))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []int{0, 3, 9}, SortedKeys(map[int]bool{9: true, 0: true, 3: true}))
	assert.Empty(t, SortedKeys(map[string]int{}))
}
