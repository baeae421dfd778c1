package main

import (
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/issuelinks/internal/config"
	"github.com/gorewood/issuelinks/internal/output"
)

// configView is the effective configuration plus the resolved tracker.
type configView struct {
	config.Config `yaml:",inline"`
	IssueTracker  string `json:"resolved_tracker" yaml:"resolved_tracker"`
	TrackerSource string `json:"tracker_source" yaml:"tracker_source"`
	UserConfig    string `json:"user_config" yaml:"-"`
}

// newConfigCmd creates the config command.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging defaults, the user config file,
the project config file (.issuelinks.yaml), ISSUELINKS_* environment
variables and flags, together with the tracker that will be used.

Example .issuelinks.yaml:
  changelog: CHANGELOG.md
  tracker: nipy/heudiconv
  prune: false`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
}

// runConfig executes the config command.
func runConfig(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	cfg, err := loadSettings(cmd, newLogger(cmd))
	if err != nil {
		printer.Error(err)
		return err
	}

	view := configView{
		Config:        *cfg.cfg,
		IssueTracker:  cfg.tracker.String(),
		TrackerSource: cfg.trackerSource,
		UserConfig:    config.UserConfigPath(),
	}

	if printer.IsJSON() {
		return printer.WriteJSON(view)
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to encode config", err)
		printer.Error(sysErr)
		return sysErr
	}

	printer.Print("%s", data)
	printer.Section("Sources")
	printer.KeyValue("User config", view.UserConfig)
	if len(view.Sources) == 0 {
		printer.KeyValue("Loaded", "none (defaults and environment only)")
	} else {
		printer.KeyValue("Loaded", strings.Join(view.Sources, ", "))
	}
	return nil
}
