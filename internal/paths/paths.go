// Package paths resolves the configuration directory and the data file.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Names used below the working directory and the config directory.
const (
	AppName         = "sakuraflow"
	DataDirName     = "sf_tasks"
	DataFileName    = "tasks.json"
	ConfigFileName  = "config.yaml"
	discoveryLevels = 2
)

// Environment variable names for location overrides.
const (
	EnvConfigDir = "SAKURAFLOW_CONFIG_DIR"
	EnvDataPath  = "SAKURAFLOW_DATA"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/sakuraflow (fallback ~/.config/sakuraflow)
// macOS:   ~/Library/Application Support/sakuraflow
// Windows: %APPDATA%/sakuraflow
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SAKURAFLOW_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataPath returns the data file following the precedence chain:
// flag > config value > SAKURAFLOW_DATA > discovered file > default.
//
// Discovery looks for an existing sf_tasks/tasks.json in the working
// directory and up to two of its parents, so the tool finds the task file of
// a server root from inside its plugin directories. With nothing found the
// default is sf_tasks/tasks.json below the working directory.
func ResolveDataPath(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataPath); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	if found, ok := discover(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, DataDirName, DataFileName), nil
}

func discover(start string) (string, bool) {
	dir := start
	for range discoveryLevels + 1 {
		candidate := filepath.Join(dir, DataDirName, DataFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
