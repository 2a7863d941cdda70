package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppDirName is the directory under the user data dir holding all tracker databases.
const AppDirName = "trackers"

// GetDefaultDBPathOnly returns a system-appropriate default path for the named database file.
func GetDefaultDBPathOnly(fileName string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", AppDirName, fileName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", AppDirName, fileName)
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", AppDirName, fileName)
	}
}

// ResolveAndEnsureDBPath expands providedPath (falling back to the default
// location of defaultFileName), makes it absolute and creates its directory.
// ":memory:" is passed through untouched.
func ResolveAndEnsureDBPath(providedPath, defaultFileName string) (string, error) {
	if providedPath == ":memory:" {
		return providedPath, nil
	}

	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly(defaultFileName)
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}
