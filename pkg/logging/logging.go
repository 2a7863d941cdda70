// Package logging provides the leveled loggers used across the trackers.
//
// Messages carry their level as a bracketed prefix, e.g.
//
//	logger.Printf("[INFO] Opened %s\n", path)
//
// and anything below the configured minimum level is dropped.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hashicorp/logutils"
)

// Levels lists the recognized log levels, lowest first.
var Levels = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}

// DefaultLevel is used when no level is configured.
const DefaultLevel = "INFO"

// ValidLevel reports whether level names one of Levels (case-insensitive).
func ValidLevel(level string) bool {
	level = strings.ToUpper(level)
	for _, l := range Levels {
		if string(l) == level {
			return true
		}
	}
	return false
}

// New returns a logger writing to w that drops messages below minLevel.
// name is used as the logger prefix.
func New(w io.Writer, name, minLevel string) (*log.Logger, error) {
	if minLevel == "" {
		minLevel = DefaultLevel
	}
	if !ValidLevel(minLevel) {
		return nil, fmt.Errorf("invalid log level %q", minLevel)
	}

	filter := &logutils.LevelFilter{
		Levels:   Levels,
		MinLevel: logutils.LogLevel(strings.ToUpper(minLevel)),
		Writer:   w,
	}

	return log.New(filter, name+" ", log.LstdFlags), nil
}

// Discard returns a logger that writes nowhere.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
