package config

import (
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/logger"
)

// Config holds the application configuration. Values come from the
// environment (optionally seeded from a .env file) and are passed
// explicitly to the composer and the server.
type Config struct {
	Environment string
	Port        string

	// Library of source clips and where rewritten files go
	Root string
	Dest string

	TargetTicksPerQuarter int
	MaxMergeTracks        int

	SentryDSN string
}

func Load() *Config {
	root := getEnv("PHRASEKIT_ROOT", ".")
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Config{
		Environment:           getEnv("ENVIRONMENT", "development"),
		Port:                  getEnv("PORT", constants.DefaultPort),
		Root:                  root,
		Dest:                  getEnv("PHRASEKIT_DEST", filepath.Join(root, constants.DefaultDestDirName)),
		TargetTicksPerQuarter: getEnvIntInRange("PHRASEKIT_TARGET_TPQ", constants.DefaultTargetTicksPerQuarter, 1, constants.MaxTicksPerQuarter),
		MaxMergeTracks:        getEnvIntInRange("PHRASEKIT_MAX_MERGE_TRACKS", constants.MaxMergeTracks, 1, math.MaxInt),
		SentryDSN:             getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

// getEnvIntInRange falls back to defaultValue when the value is outside
// [lo, hi].
func getEnvIntInRange(key string, defaultValue, lo, hi int) int {
	n := getEnvInt(key, defaultValue)
	if n < lo || n > hi {
		logger.Warn("Ignoring out of range setting", logger.Fields{"key": key, "value": n, "default": defaultValue})
		return defaultValue
	}
	return n
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
