// Package main provides the entry point for the issuelinks CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gorewood/issuelinks/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// lookupFlag finds a flag on cmd or, failing that, on the root's persistent flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := lookupFlag(cmd, "json")
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves --color against TTY detection of the command output.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := lookupFlag(cmd, "color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter builds the printer every command writes through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// newLogger returns a debug logger on stderr when --verbose is set and a
// discarding logger otherwise.
func newLogger(cmd *cobra.Command) *slog.Logger {
	flag := lookupFlag(cmd, "verbose")
	if flag == nil || flag.Value.String() != "true" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the issuelinks CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuelinks",
		Short: "Link issue references in a changelog",
		Long: `issuelinks turns inline issue references in a changelog into Markdown
reference-style links and keeps the link definitions at the end of the file.

  Fixed bug (#42).   becomes   Fixed bug ([#42][]).
                               ...
                               [#42]: https://github.com/nipy/heudiconv/issues/42

Running issuelinks without a command updates CHANGELOG.md in the current
directory. Running it again changes nothing.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, nil, updateOptions{})
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Colorize output: auto, always, never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
	cmd.PersistentFlags().String("config", "", "Project config file (default .issuelinks.yaml)")
	cmd.PersistentFlags().String("tracker", "", "Issue tracker: repository URL or org/repo")
	cmd.PersistentFlags().Bool("from-remote", false, "Derive the tracker from a git remote")
	cmd.PersistentFlags().String("remote", "", "Git remote used with --from-remote (default origin)")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
