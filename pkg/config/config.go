package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iloveparkjisung/Database-Assesment/pkg/logging"
)

// EnvPrefix namespaces every environment variable read by Load, e.g. TRACKER_DB.
const EnvPrefix = "TRACKER"

// DefaultEnvFile is loaded into the environment when present.
const DefaultEnvFile = ".env"

const DefaultTracker = "drama"

var validSyncModes = []string{"OFF", "NORMAL", "FULL", "EXTRA"}

type (
	Config struct {
		Tracker  string // drama, kpop or contacts
		Database Database
		Log      Log
	}

	Database struct {
		Path string // empty means the per-tracker default location
		WAL  bool
		Sync string
	}

	Log struct {
		Level string
	}
)

// flagKeys maps command line flag names to their config keys.
var flagKeys = map[string]string{
	"tracker":   "name",
	"db":        "db",
	"wal":       "wal",
	"sync":      "sync",
	"log-level": "log_level",
}

// Load assembles the configuration from defaults, an optional .env file,
// TRACKER_* environment variables and flags, in increasing precedence.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	return LoadWithEnvFile(flags, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit .env path; a missing file is ignored.
func LoadWithEnvFile(flags *pflag.FlagSet, envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", DefaultTracker)
	v.SetDefault("db", "")
	v.SetDefault("wal", false)
	v.SetDefault("sync", "FULL")
	v.SetDefault("log_level", logging.DefaultLevel)

	if flags != nil {
		for flagName, key := range flagKeys {
			f := flags.Lookup(flagName)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", flagName, err)
			}
		}
	}

	cfg := &Config{
		Tracker: strings.ToLower(strings.TrimSpace(v.GetString("name"))),
		Database: Database{
			Path: v.GetString("db"),
			WAL:  v.GetBool("wal"),
			Sync: strings.ToUpper(v.GetString("sync")),
		},
		Log: Log{
			Level: strings.ToUpper(v.GetString("log_level")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that do not depend on other packages.
func (c *Config) Validate() error {
	if c.Tracker == "" {
		return errors.New("tracker name cannot be empty")
	}
	if c.Database.Sync != "" {
		ok := false
		for _, m := range validSyncModes {
			if c.Database.Sync == m {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("invalid sync mode %q. Must be one of %s", c.Database.Sync, strings.Join(validSyncModes, ", "))
		}
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}
