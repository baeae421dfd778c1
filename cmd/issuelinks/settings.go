package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/issuelinks/internal/config"
	"github.com/gorewood/issuelinks/internal/tracker"
)

// settings is the configuration after command-line flags are applied.
type settings struct {
	cfg           *config.Config
	tracker       tracker.Tracker
	trackerSource string
}

// loadSettings loads the layered config and applies --tracker, --from-remote
// and --remote on top of it.
func loadSettings(cmd *cobra.Command, logger *slog.Logger) (*settings, error) {
	opts := config.LoadOptions{}
	if flag := lookupFlag(cmd, "config"); flag != nil {
		opts.ProjectPath = flag.Value.String()
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "sources", cfg.Sources, "changelog", cfg.Changelog)

	if flag := lookupFlag(cmd, "from-remote"); flag != nil && flag.Changed && flag.Value.String() == "true" {
		cfg.DetectRemote = true
		cfg.Tracker = ""
	}
	if flag := lookupFlag(cmd, "remote"); flag != nil && flag.Changed {
		cfg.Remote = flag.Value.String()
	}
	if flag := lookupFlag(cmd, "tracker"); flag != nil && flag.Changed {
		cfg.Tracker = flag.Value.String()
	}

	tr, source, err := cfg.ResolveTracker("")
	if err != nil {
		return nil, err
	}
	logger.Debug("tracker resolved", "tracker", tr.String(), "source", source)

	return &settings{cfg: cfg, tracker: tr, trackerSource: source}, nil
}

// targetFiles returns the cleaned, de-duplicated paths from args, or the
// configured changelog when args is empty.
func (s *settings) targetFiles(args []string) []string {
	if len(args) == 0 {
		return []string{s.cfg.Changelog}
	}
	seen := make(map[string]bool, len(args))
	var paths []string
	for _, arg := range args {
		path := filepath.Clean(arg)
		if seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	return paths
}
