package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("tracker", DefaultTracker, "")
	fs.String("db", "", "")
	fs.Bool("wal", false, "")
	fs.String("sync", "FULL", "")
	fs.String("log-level", "INFO", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithEnvFile(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "drama", cfg.Tracker)
	assert.Equal(t, "", cfg.Database.Path)
	assert.False(t, cfg.Database.WAL)
	assert.Equal(t, "FULL", cfg.Database.Sync)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TRACKER_NAME", "kpop")
	t.Setenv("TRACKER_DB", "/tmp/from-env.db")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--db", "/tmp/from-flag.db", "--sync", "normal"}))

	cfg, err := LoadWithEnvFile(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "kpop", cfg.Tracker, "unchanged flag falls back to env")
	assert.Equal(t, "/tmp/from-flag.db", cfg.Database.Path)
	assert.Equal(t, "NORMAL", cfg.Database.Sync)
}

func TestLoadReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRACKER_NAME=contacts\nTRACKER_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("TRACKER_NAME")
		os.Unsetenv("TRACKER_LOG_LEVEL")
	})

	cfg, err := LoadWithEnvFile(nil, envFile)
	require.NoError(t, err)

	assert.Equal(t, "contacts", cfg.Tracker)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoadRejectsBadSync(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--sync", "sometimes"}))

	_, err := LoadWithEnvFile(fs, "")
	assert.ErrorContains(t, err, "invalid sync mode")
}
