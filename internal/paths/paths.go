// Package paths resolves configuration and data directory locations and the
// files docket keeps in them.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config locations.
const AppName = "docket"

// CWD-relative data directory name.
const DefaultDataDirName = ".docket-db"

// Environment variable names for overrides.
const (
	EnvConfigDir = "DOCKET_CONFIG_DIR"
	EnvDataDir   = "DOCKET_DATA_DIR"
	EnvAPIURL    = "DOCKET_API_URL"
)

// File names inside the config and data directories.
const (
	ConfigFileName  = "config.yaml"
	SessionFileName = "session.json"
	LogFileName     = "docket.log"
)

// DefaultAPIURL is used when no flag, config value or environment
// variable names the API.
const DefaultAPIURL = "http://localhost:3001"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/docket (fallback ~/.config/docket)
// macOS:   ~/Library/Application Support/docket
// Windows: %APPDATA%/docket
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

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > DOCKET_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > DOCKET_DATA_DIR env > $(CWD)/.docket-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveAPIURL returns the API base URL following the precedence chain:
// flag > configYAMLValue > DOCKET_API_URL env > DefaultAPIURL.
func ResolveAPIURL(flag, configYAMLValue string) string {
	switch {
	case flag != "":
		return flag
	case configYAMLValue != "":
		return configYAMLValue
	}
	if env := os.Getenv(EnvAPIURL); env != "" {
		return env
	}
	return DefaultAPIURL
}

// ConfigFile returns the path of config.yaml in configDir.
func ConfigFile(configDir string) string { return filepath.Join(configDir, ConfigFileName) }

// SessionFile returns the path of the persisted login session in configDir.
func SessionFile(configDir string) string { return filepath.Join(configDir, SessionFileName) }

// LogFile returns the path of the terminal dashboard log in dataDir.
func LogFile(dataDir string) string { return filepath.Join(dataDir, LogFileName) }
