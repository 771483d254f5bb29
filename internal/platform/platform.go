// Package platform provides OS-aware helpers for paths.
// All code that needs to behave differently per OS must use this package.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultWorkDir returns the OS-appropriate data directory for zhseg.
//
//	Linux:   ~/.local/share/zhseg
//	macOS:   ~/Library/Application Support/zhseg
//	Windows: %APPDATA%\zhseg
//
// If WORK_DIR env var is set, that takes priority (used in Docker).
func DefaultWorkDir() string {
	if env := os.Getenv("WORK_DIR"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "zhseg")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "zhseg")
	default:
		return filepath.Join(home, ".local", "share", "zhseg")
	}
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// EnsureParent creates the directory that will hold file.
func EnsureParent(file string) error {
	return EnsureDir(filepath.Dir(file))
}
