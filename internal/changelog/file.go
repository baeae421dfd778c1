package changelog

import (
	"errors"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/gorewood/issuelinks/internal/output"
	"github.com/gorewood/issuelinks/internal/tracker"
)

// DefaultFile is the changelog processed when no path is given.
const DefaultFile = "CHANGELOG.md"

// Load reads the changelog at path.
// A missing or unreadable file is a system error.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", output.NewSystemErrorWithCause("changelog not found: "+path, err)
		}
		return "", output.NewSystemErrorWithCause("failed to read changelog: "+path, err)
	}
	return string(data), nil
}

// Save replaces the file at path with content in a single atomic rename.
// The mode of an existing file is preserved.
func Save(path string, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return output.NewSystemErrorWithCause("failed to write changelog: "+path, err)
	}

	// new files get the temp file default mode otherwise
	if err := os.Chmod(path, mode); err != nil {
		return output.NewSystemErrorWithCause("failed to set changelog permissions: "+path, err)
	}
	return nil
}

// FileOptions extends Options for UpdateFile.
type FileOptions struct {
	Options
	// DryRun processes the file without writing it back.
	DryRun bool
}

// FileResult is the outcome of UpdateFile for one path.
type FileResult struct {
	Result
	Path     string `json:"path"`
	Original string `json:"-"`
	Written  bool   `json:"written"`
}

// UpdateFile loads path, processes it and writes it back if it changed.
func UpdateFile(path string, tr tracker.Tracker, opts FileOptions) (*FileResult, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	res := &FileResult{
		Result:   Process(doc, tr, opts.Options),
		Path:     path,
		Original: doc,
	}
	if !res.Changed || opts.DryRun {
		return res, nil
	}

	if err := Save(path, res.Document); err != nil {
		return nil, err
	}
	res.Written = true
	return res, nil
}
