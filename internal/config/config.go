package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gorewood/issuelinks/internal/changelog"
	"github.com/gorewood/issuelinks/internal/envfile"
	"github.com/gorewood/issuelinks/internal/output"
	"github.com/gorewood/issuelinks/internal/tracker"
)

// ProjectFile is the per-repository config file, relative to the working directory.
const ProjectFile = ".issuelinks.yaml"

// EnvFile holds ISSUELINKS_* overrides for a checkout, relative to the working directory.
const EnvFile = ".env"

// EnvPrefix prefixes environment overrides, e.g. ISSUELINKS_TRACKER.
const EnvPrefix = "ISSUELINKS_"

// Config is the effective issuelinks configuration.
type Config struct {
	// Changelog is the file processed when no path is given.
	Changelog string `koanf:"changelog" yaml:"changelog" json:"changelog"`
	// Tracker is a repository URL or "org/repo". Empty means detect or default.
	Tracker string `koanf:"tracker" yaml:"tracker,omitempty" json:"tracker,omitempty"`
	// DetectRemote derives the tracker from a git remote when Tracker is empty.
	DetectRemote bool   `koanf:"detect_remote" yaml:"detect_remote" json:"detect_remote"`
	Remote       string `koanf:"remote" yaml:"remote" json:"remote"`
	Prune        bool   `koanf:"prune" yaml:"prune" json:"prune"`

	// Sources lists the config files that were loaded, lowest priority first.
	Sources []string `koanf:"-" yaml:"-" json:"sources,omitempty"`
}

// LoadOptions overrides file locations. Empty fields use the defaults.
type LoadOptions struct {
	UserPath    string
	ProjectPath string
	EnvFile     string
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"changelog":     changelog.DefaultFile,
		"tracker":       "",
		"detect_remote": false,
		"remote":        "origin",
		"prune":         false,
	}
}

// Load resolves configuration from defaults, the user config file, the
// project config file, ISSUELINKS_* entries of .env and ISSUELINKS_*
// environment variables, in that order of increasing priority.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	userPath := opts.UserPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = ProjectFile
	}

	var sources []string
	for _, path := range []string{userPath, projectPath} {
		loaded, err := loadFile(k, path)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, path)
		}
	}

	envPath := opts.EnvFile
	if envPath == "" {
		envPath = EnvFile
	}
	dotenv, err := envfile.Read(envPath, EnvPrefix)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read "+envPath, err)
	}
	for key, value := range dotenv {
		if err := k.Set(envTransform(key), value); err != nil {
			return nil, output.NewUserErrorWithCause("invalid value for "+key, err)
		}
	}
	if len(dotenv) > 0 {
		sources = append(sources, envPath)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, output.NewUserErrorWithCause("failed to load environment config", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, output.NewUserErrorWithCause("invalid configuration", err)
	}
	cfg.Sources = sources
	return &cfg, nil
}

// loadFile merges a YAML file into k. Missing files are skipped.
func loadFile(k *koanf.Koanf, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, output.NewSystemErrorWithCause("failed to read config "+path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return false, output.NewUserErrorWithCause("failed to parse config "+path, err)
	}
	return true, nil
}

// envTransform maps ISSUELINKS_DETECT_REMOTE to detect_remote.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// ResolveTracker picks the tracker: the explicit Tracker value, then the git
// remote of dir when DetectRemote is set, then tracker.Default. The second
// return value names the source.
func (c *Config) ResolveTracker(dir string) (tracker.Tracker, string, error) {
	if c.Tracker != "" {
		tr, err := tracker.Parse(c.Tracker)
		if err != nil {
			return tracker.Tracker{}, "", output.NewUserErrorWithCause("invalid tracker", err)
		}
		return tr, "config", nil
	}

	if c.DetectRemote {
		tr, err := tracker.FromRemote(dir, c.Remote)
		if err != nil {
			return tracker.Tracker{}, "", output.NewUserErrorWithCause("cannot detect tracker from git remote", err)
		}
		return tr, "remote " + c.Remote, nil
	}

	return tracker.MustParse(tracker.Default), "default", nil
}
