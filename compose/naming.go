package compose

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/texture"
)

func stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func normalized(rec model.AnalysisRecord, opts model.TransformOptions) bool {
	return opts.Normalize && rec.TransposeToC != nil
}

// KeyOffset is the shift applied to every track of rec before any manual
// transpose.
func KeyOffset(rec model.AnalysisRecord, opts model.TransformOptions) int {
	if normalized(rec, opts) {
		return *rec.TransposeToC
	}
	return 0
}

// orgRoot is the root the output ends up in: C once normalized, otherwise
// whatever the source was in.
func orgRoot(rec model.AnalysisRecord, opts model.TransformOptions) string {
	if normalized(rec, opts) {
		return "C"
	}
	if rec.Root != nil {
		return *rec.Root
	}
	return ""
}

func formatBars(bars float64) string {
	return strconv.FormatFloat(bars, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FileName builds "<stem> - <parts><ext>" for a per-file export, e.g.
// "Lead - C Aeolian max2bar Mono OrgRoot=C VelMax=100.mid".
func FileName(rec model.AnalysisRecord, opts model.TransformOptions) string {
	var parts []string
	if normalized(rec, opts) {
		if rec.Mode != nil {
			parts = append(parts, "C "+capitalize(*rec.Mode))
		} else {
			parts = append(parts, "C")
		}
	}
	if opts.MaxBars > 0 {
		parts = append(parts, fmt.Sprintf("max%vbar", formatBars(opts.MaxBars)))
	}
	if tag := texture.Class(rec.Classification).Tag(); tag != "" {
		parts = append(parts, tag)
	}
	if root := orgRoot(rec, opts); root != "" {
		parts = append(parts, "OrgRoot="+root)
	}
	if opts.VelocityTarget > 0 {
		parts = append(parts, fmt.Sprintf("VelMax=%d", opts.VelocityTarget))
	}

	ext := filepath.Ext(rec.Filename)
	if ext == "" {
		ext = ".mid"
	}
	if len(parts) == 0 {
		return stem(rec.Filename) + ext
	}
	return stem(rec.Filename) + " - " + strings.Join(parts, " ") + ext
}

// Descriptor identifies one source inside a pack name and its track names.
func Descriptor(rec model.AnalysisRecord, opts model.TransformOptions) string {
	parts := []string{stem(rec.Filename)}
	if tag := texture.Class(rec.Classification).Tag(); tag != "" {
		parts = append(parts, tag)
	}
	if root := orgRoot(rec, opts); root != "" {
		parts = append(parts, "OrgRoot="+root)
	}
	return strings.Join(parts, "_")
}

func PackName(descriptors []string) string {
	body := "untitled"
	if len(descriptors) > 0 {
		body = strings.Join(descriptors, "+")
	}
	name := "PACK_" + body + ".mid"
	if len(name) <= constants.MaxPackNameLength {
		return name
	}
	head := name[:constants.MaxPackNameLength-len(".mid")]
	for !utf8.ValidString(head) {
		head = head[:len(head)-1]
	}
	return head + ".mid"
}
