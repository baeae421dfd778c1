// Package tracker builds issue URLs for link-reference definitions.
package tracker

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Default is the tracker used when nothing else is configured.
const Default = "https://github.com/nipy/heudiconv"

// ErrInvalid is returned for tracker values that cannot be turned into issue URLs.
var ErrInvalid = errors.New("invalid tracker")

// Tracker points at the issue tracker of a single repository.
type Tracker struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// IssueURL returns the URL of issue id.
func (t Tracker) IssueURL(id string) string {
	return strings.TrimRight(t.BaseURL, "/") + "/issues/" + id
}

// String implements fmt.Stringer.
func (t Tracker) String() string {
	return strings.TrimRight(t.BaseURL, "/")
}

// Parse accepts either a full http(s) URL or an "org/repo" shorthand,
// which is expanded to a GitHub repository.
func Parse(value string) (Tracker, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Tracker{}, fmt.Errorf("%w: empty value", ErrInvalid)
	}

	if !strings.Contains(value, "://") {
		return fromShorthand(value)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return Tracker{}, fmt.Errorf("%w: %q: %w", ErrInvalid, value, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Tracker{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalid, parsed.Scheme)
	}
	if parsed.Host == "" {
		return Tracker{}, fmt.Errorf("%w: %q has no host", ErrInvalid, value)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(strings.TrimRight(parsed.Path, "/"), ".git")
	parsed.Path = strings.TrimSuffix(parsed.Path, "/issues")
	return Tracker{BaseURL: parsed.String()}, nil
}

// fromShorthand expands "org/repo" to a GitHub URL.
func fromShorthand(value string) (Tracker, error) {
	org, repo, ok := strings.Cut(strings.Trim(value, "/"), "/")
	if !ok || org == "" || repo == "" || strings.Contains(repo, "/") {
		return Tracker{}, fmt.Errorf("%w: %q is neither a URL nor org/repo", ErrInvalid, value)
	}
	repo = strings.TrimSuffix(repo, ".git")
	return Tracker{BaseURL: "https://github.com/" + org + "/" + repo}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(value string) Tracker {
	t, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return t
}
