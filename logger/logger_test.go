package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	fn()
	return buf.String()
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "{bars=1.50, count=3, file=a.mid}", formatFields(Fields{
		"file":  "a.mid",
		"count": 3,
		"bars":  1.5,
	}))
}

func TestLevels(t *testing.T) {
	out := captureLog(t, func() {
		Info("wrote", Fields{"file": "a.mid"})
		Warn("skipped", Fields{"kind": "capacity"})
		Debug("rewrote", Fields{"track": 2})
		Error("failed", errors.New("boom"), Fields{"file": "b.mid"})
	})
	assert.Contains(t, out, "[INFO] wrote {file=a.mid}")
	assert.Contains(t, out, "[WARN] skipped {kind=capacity}")
	assert.Contains(t, out, "[DEBUG] rewrote {track=2}")
	assert.Contains(t, out, "[ERROR] failed: boom {file=b.mid}")
}
