package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/issuelinks/internal/changelog"
	"github.com/gorewood/issuelinks/internal/output"
)

// checkResult is the outcome of checking one file.
type checkResult struct {
	Path        string           `json:"path"`
	NeedsUpdate bool             `json:"needs_update"`
	OK          bool             `json:"ok"`
	Report      changelog.Report `json:"report"`
}

// newCheckCmd creates the check command.
func newCheckCmd() *cobra.Command {
	var strict, prune bool
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Verify that issue links are up to date",
		Long: `Check that a changelog is already in the state update would leave it in,
without writing anything. The file is parsed as Markdown to confirm that
every "[#N][]" resolves to exactly one definition pointing at the tracker.

Exits with code 3 when a file needs updating, so it can guard CI.

Examples:
  issuelinks check            # Check CHANGELOG.md
  issuelinks check --strict   # Also fail on definitions nothing references
  issuelinks check --json     # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, strict, prune)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on definitions without references")
	cmd.Flags().BoolVar(&prune, "prune", false, "Expect orphan definitions to be pruned")
	return cmd
}

// runCheck executes the check command.
func runCheck(cmd *cobra.Command, args []string, strict, prune bool) error {
	printer := newPrinter(cmd)
	logger := newLogger(cmd)

	cfg, err := loadSettings(cmd, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	opts := changelog.FileOptions{
		Options: changelog.Options{Prune: prune || cfg.cfg.Prune},
		DryRun:  true,
	}

	paths := cfg.targetFiles(args)
	results, err := updateFiles(cmd.Context(), paths, cfg.tracker, opts, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	checks := make([]checkResult, len(results))
	failing := 0
	for i, res := range results {
		report := changelog.Verify(res.Original, cfg.tracker)
		checks[i] = checkResult{
			Path:        res.Path,
			NeedsUpdate: res.Changed,
			OK:          !res.Changed && report.OK(strict),
			Report:      report,
		}
		if !checks[i].OK {
			failing++
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{
			"tracker": cfg.tracker.String(),
			"ok":      failing == 0,
			"files":   checks,
		}); err != nil {
			return err
		}
	} else {
		for _, check := range checks {
			printCheckResult(printer, check)
		}
	}

	if failing > 0 {
		err := output.NewConflictError(fmt.Sprintf("%s out of date", pluralize(failing, "changelog")))
		if !printer.IsJSON() {
			printer.Error(err)
		}
		return err
	}
	return nil
}

// printCheckResult writes the human-readable findings for one file.
func printCheckResult(printer *output.Printer, check checkResult) {
	if check.OK {
		_ = printer.Success(map[string]any{"message": check.Path + ": ok"})
		if len(check.Report.Orphans) > 0 {
			printer.Warn("%s: definitions without references: %s", check.Path, formatIDs(check.Report.Orphans))
		}
		return
	}

	printer.Section(check.Path)
	report := check.Report
	if check.NeedsUpdate {
		printer.KeyValue("Status", "needs update (run issuelinks update)")
	}
	if len(report.Pending) > 0 {
		printer.KeyValue("Unlinked", formatIDs(report.Pending))
	}
	if len(report.Missing) > 0 {
		printer.KeyValue("Unresolved", formatIDs(report.Missing))
	}
	if len(report.Duplicates) > 0 {
		printer.KeyValue("Duplicated", formatIDs(report.Duplicates))
	}
	for _, m := range report.Mismatched {
		printer.KeyValue("Mismatched #"+m.ID, m.Got+" (want "+m.Want+")")
	}
	if len(report.Orphans) > 0 {
		printer.KeyValue("Orphaned", formatIDs(report.Orphans))
	}
}
