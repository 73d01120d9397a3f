package util

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/phrasekit/errs"
	"golang.org/x/exp/constraints"
)

func IsMidiPath(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".mid" || ext == ".midi"
}

// GatherAllMidiPaths walks root and returns every midi file below it,
// relative to root, in lexical order. maxNum of 0 means no limit. Hidden
// folders and any of skipDirs (usually the export destination) are not
// entered.
func GatherAllMidiPaths(root string, maxNum int, skipDirs ...string) ([]string, error) {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, err
		}
		skip[abs] = true
	}

	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if s == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(s); err == nil && skip[abs] {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMidiPath(s) && (maxNum == 0 || len(res) < maxNum) {
			rel, err := filepath.Rel(root, s)
			if err != nil {
				return err
			}
			res = append(res, rel)
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, fmt.Errorf("walking %v: %w", root, err)
	}
	return res, nil
}

// ResolveUnder joins rel onto root and refuses anything that escapes root.
func ResolveUnder(root string, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(absRoot, rel)
	}
	p = filepath.Clean(p)
	if p != absRoot && !strings.HasPrefix(p, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("%v: %w", rel, errs.ErrOutsideRoot)
	}
	return p, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

// Round rounds half away from zero. Tick rescaling and velocity scaling
// both depend on this exact rule.
func Round[A constraints.Float](v A) int64 {
	return int64(math.Round(float64(v)))
}

// Mod returns a non-negative remainder.
func Mod[A constraints.Integer](a, m A) A {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
