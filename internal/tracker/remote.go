package tracker

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// FromRemote derives the tracker from a remote of the git repository
// enclosing dir. The repository is read locally; nothing is fetched.
// An empty dir means the current working directory.
func FromRemote(dir, remote string) (Tracker, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Tracker{}, fmt.Errorf("getting current directory: %w", err)
		}
		dir = wd
	}
	if remote == "" {
		remote = "origin"
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return Tracker{}, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	rem, err := repo.Remote(remote)
	if err != nil {
		return Tracker{}, fmt.Errorf("reading remote %q: %w", remote, err)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return Tracker{}, fmt.Errorf("%w: remote %q has no URL", ErrInvalid, remote)
	}
	return FromRemoteURL(urls[0])
}

// FromRemoteURL converts a git remote URL into a tracker. It understands
// scp-like SSH addresses (git@host:org/repo.git) as well as ssh://, git://
// and http(s):// URLs.
func FromRemoteURL(raw string) (Tracker, error) {
	raw = strings.TrimSpace(raw)

	// scp-like syntax has no scheme and a colon before the first slash
	if !strings.Contains(raw, "://") {
		hostPart, path, ok := strings.Cut(raw, ":")
		if !ok || strings.Contains(hostPart, "/") {
			return Tracker{}, fmt.Errorf("%w: unrecognized remote %q", ErrInvalid, raw)
		}
		if _, host, found := strings.Cut(hostPart, "@"); found {
			hostPart = host
		}
		return fromHostPath(hostPart, path, raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Tracker{}, fmt.Errorf("%w: %q: %w", ErrInvalid, raw, err)
	}
	switch parsed.Scheme {
	case "http", "https", "ssh", "git", "git+ssh":
	default:
		return Tracker{}, fmt.Errorf("%w: unsupported remote scheme %q", ErrInvalid, parsed.Scheme)
	}
	return fromHostPath(parsed.Hostname(), parsed.Path, raw)
}

func fromHostPath(host, path, raw string) (Tracker, error) {
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if host == "" || strings.Count(path, "/") != 1 {
		return Tracker{}, fmt.Errorf("%w: remote %q is not an org/repo address", ErrInvalid, raw)
	}
	return Tracker{BaseURL: "https://" + host + "/" + path}, nil
}
