package config

import (
	"os"
	"path/filepath"
)

// PathEnv overrides the config file location when set.
const PathEnv = "PITCHTRAINER_CONFIG"

// ConfigDir returns pitchtrainer's directory under $XDG_CONFIG_HOME, falling
// back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "."
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "pitchtrainer")
}

// DefaultConfigPath returns the TOML config path, honouring PathEnv.
func DefaultConfigPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}
