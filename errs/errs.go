package errs

import "errors"

var (
	ErrCorruptTiming       = errors.New("corrupt timing")
	ErrInvalidSpec         = errors.New("invalid transform spec")
	ErrSourceNotFound      = errors.New("source not found")
	ErrSourceUnreadable    = errors.New("source unreadable")
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	ErrCapacity            = errors.New("track capacity exceeded")
	ErrOutsideRoot         = errors.New("outside root")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrCorruptTiming, "corrupt_timing"},
	{ErrInvalidSpec, "invalid_spec"},
	{ErrSourceNotFound, "source_not_found"},
	{ErrSourceUnreadable, "source_unreadable"},
	{ErrAnalysisUnavailable, "analysis_unavailable"},
	{ErrCapacity, "capacity"},
	{ErrOutsideRoot, "outside_root"},
}

// Kind returns the stable name reported for err in batch results.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
