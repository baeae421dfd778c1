package main

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/gorewood/issuelinks/internal/changelog"
)

// issueRow describes one referenced issue.
type issueRow struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [FILE]",
		Short: "List referenced issues",
		Long: `List every issue referenced in a changelog, in numeric order, with the
URL its definition will point to and its current state:

  ok        linked and defined
  unlinked  still written as "(#N)"
  missing   linked but no definition resolves
  mismatch  defined with a different URL

Examples:
  issuelinks list
  issuelinks list --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}
}

// runList executes the list command.
func runList(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	logger := newLogger(cmd)

	cfg, err := loadSettings(cmd, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	path := cfg.targetFiles(args)[0]
	doc, err := changelog.Load(path)
	if err != nil {
		printer.Error(err)
		return err
	}

	report := changelog.Verify(doc, cfg.tracker)
	ids := changelog.Collect(changelog.Rewrite(doc))

	rows := make([]issueRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, issueRow{
			ID:     id,
			URL:    cfg.tracker.IssueURL(id),
			Status: issueStatus(id, report),
		})
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"path":    path,
			"tracker": cfg.tracker.String(),
			"issues":  rows,
		})
	}

	if len(rows) == 0 {
		printer.Muted(path + ": no issue references")
		return nil
	}

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{"#" + row.ID, row.Status, row.URL}
	}
	printer.Table([]string{"ISSUE", "STATUS", "URL"}, table)
	return nil
}

// issueStatus classifies id using a Verify report.
func issueStatus(id string, report changelog.Report) string {
	switch {
	case slices.Contains(report.Pending, id):
		return "unlinked"
	case slices.Contains(report.Missing, id):
		return "missing"
	case slices.ContainsFunc(report.Mismatched, func(m changelog.Mismatch) bool { return m.ID == id }):
		return "mismatch"
	default:
		return "ok"
	}
}
