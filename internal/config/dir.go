// Package config resolves issuelinks settings from defaults, config files
// and the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the issuelinks configuration directory.
//
// Resolution:
//   - $ISSUELINKS_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/issuelinks if set (respects XDG on any platform)
//   - %AppData%/issuelinks on Windows
//   - ~/.config/issuelinks on macOS and Linux
func Dir() string {
	if dir := os.Getenv("ISSUELINKS_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "issuelinks")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "issuelinks")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "issuelinks")
}

// UserConfigPath returns the path of the user-level config file, or "" when
// no config directory can be determined.
func UserConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
