package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gorewood/issuelinks/internal/changelog"
	"github.com/gorewood/issuelinks/internal/output"
	"github.com/gorewood/issuelinks/internal/tracker"
)

// updateOptions holds update command flags.
type updateOptions struct {
	prune  bool
	dryRun bool
	diff   bool
}

// newUpdateCmd creates the update command.
func newUpdateCmd() *cobra.Command {
	var opts updateOptions
	cmd := &cobra.Command{
		Use:   "update [FILE...]",
		Short: "Link issue references and refresh their definitions",
		Long: `Rewrite every "(#N)" into "([#N][])", then replace the link definitions
of all referenced issues with fresh ones appended to the end of the file.

Each file is written once, atomically, and only if its content changed.
Several files are processed concurrently.

Examples:
  issuelinks update                          # Update CHANGELOG.md
  issuelinks update docs/CHANGES.md          # Update another file
  issuelinks update --tracker org/repo       # Link to a different repository
  issuelinks update --from-remote            # Link to the repository of the origin remote
  issuelinks update --dry-run --diff         # Show what would change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.prune, "prune", false, "Remove issue definitions that nothing references")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report changes without writing files")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show removed and added lines")
	return cmd
}

// runUpdate executes the update command.
func runUpdate(cmd *cobra.Command, args []string, opts updateOptions) error {
	printer := newPrinter(cmd)
	logger := newLogger(cmd)

	cfg, err := loadSettings(cmd, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	fileOpts := changelog.FileOptions{
		Options: changelog.Options{Prune: opts.prune || cfg.cfg.Prune},
		DryRun:  opts.dryRun,
	}

	results, err := updateFiles(cmd.Context(), cfg.targetFiles(args), cfg.tracker, fileOpts, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"tracker": cfg.tracker.String(),
			"dry_run": opts.dryRun,
			"files":   results,
		})
	}

	for _, res := range results {
		printUpdateResult(printer, res, fileOpts, opts.diff)
	}
	return nil
}

// updateFiles runs UpdateFile for every path, at most GOMAXPROCS at a time.
// Results keep the order of paths.
func updateFiles(
	ctx context.Context,
	paths []string,
	tr tracker.Tracker,
	opts changelog.FileOptions,
	logger *slog.Logger,
) ([]*changelog.FileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]*changelog.FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Debug("processing changelog", "path", path)
			res, err := changelog.UpdateFile(path, tr, opts)
			if err != nil {
				return err
			}
			logger.Debug("processed changelog", "path", path, "ids", len(res.IDs),
				"changed", res.Changed, "written", res.Written)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printUpdateResult writes the human-readable summary for one file.
func printUpdateResult(printer *output.Printer, res *changelog.FileResult, opts changelog.FileOptions, showDiff bool) {
	switch {
	case !res.Changed:
		printer.Muted(fmt.Sprintf("%s: up to date (%s)", res.Path, pluralize(len(res.IDs), "issue")))
	case opts.DryRun:
		printer.Println(fmt.Sprintf("%s: would link %s (%d rewritten, %d refreshed)",
			res.Path, pluralize(len(res.IDs), "issue"), res.Rewritten, res.Replaced))
	default:
		_ = printer.Success(map[string]any{
			"message": fmt.Sprintf("%s: linked %s (%d rewritten, %d refreshed)",
				res.Path, pluralize(len(res.IDs), "issue"), res.Rewritten, res.Replaced),
		})
	}

	if showDiff && res.Changed {
		removed, added := changedLines(res.Original, res.Document)
		for _, line := range removed {
			printer.Removed(line)
		}
		for _, line := range added {
			printer.Added(line)
		}
	}

	switch {
	case res.Pruned > 0:
		printer.Muted(fmt.Sprintf("%s: pruned %s", res.Path, pluralize(res.Pruned, "orphan definition")))
	case len(res.Orphans) > 0:
		printer.Warn("%s: %s without references: %s (use --prune to remove)",
			res.Path, pluralize(len(res.Orphans), "definition"), formatIDs(res.Orphans))
	}
}

// changedLines returns the lines only in before and the lines only in after,
// counting repeated lines.
func changedLines(before, after string) (removed, added []string) {
	counts := make(map[string]int)
	for _, line := range splitLines(after) {
		counts[line]++
	}
	for _, line := range splitLines(before) {
		if counts[line] > 0 {
			counts[line]--
			continue
		}
		removed = append(removed, line)
	}

	counts = make(map[string]int)
	for _, line := range splitLines(before) {
		counts[line]++
	}
	for _, line := range splitLines(after) {
		if counts[line] > 0 {
			counts[line]--
			continue
		}
		added = append(added, line)
	}
	return removed, added
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// formatIDs renders ids as "#1, #2".
func formatIDs(ids []string) string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = "#" + id
	}
	return strings.Join(labels, ", ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
