package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the configuration file name looked up in each location.
const FileName = "config.toml"

// Loader finds and loads the configuration file.
type Loader struct {
	Version      string // build version; "dev" also searches the working directory
	OverridePath string // explicit path, from --config
}

// NewLoader creates a Loader.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the configuration, or returns the defaults when no file exists.
// An explicit path that cannot be read is an error.
func (l *Loader) Load() (*Config, error) {
	path, err := l.Path()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Path returns the configuration file to load, or "" if there is none.
func (l *Loader) Path() (string, error) {
	// 1. Explicit override
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return l.OverridePath, nil
	}

	// 2. Working directory (dev builds)
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			local := filepath.Join(wd, "psfview.toml")
			if exists(local) {
				return local, nil
			}
		}
	}

	// 3. Platform config directory
	if dir := configDir(); dir != "" {
		p := filepath.Join(dir, "psfview", FileName)
		if exists(p) {
			return p, nil
		}
	}
	return "", nil
}

// configDir is %APPDATA% on Windows, $XDG_CONFIG_HOME or ~/.config elsewhere.
func configDir() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return appData
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
