package changelog

import (
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/gorewood/issuelinks/internal/tracker"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
)

// Mismatch is a definition whose destination is not the tracker URL.
type Mismatch struct {
	ID   string `json:"id"`
	Got  string `json:"got"`
	Want string `json:"want"`
}

// Report lists problems found by Verify.
type Report struct {
	// Missing holds referenced ids that no recognized definition resolves.
	Missing []string `json:"missing,omitempty"`
	// Duplicates holds ids with more than one definition line.
	Duplicates []string   `json:"duplicates,omitempty"`
	Mismatched []Mismatch `json:"mismatched,omitempty"`
	// Orphans holds defined ids without an inline reference.
	Orphans []string `json:"orphans,omitempty"`
	// Pending holds ids still written as bare "(#N)" references.
	Pending []string `json:"pending,omitempty"`
}

// OK reports whether the document needs no changes. Orphans only count
// when strict is set.
func (r Report) OK(strict bool) bool {
	if len(r.Missing)+len(r.Duplicates)+len(r.Mismatched)+len(r.Pending) > 0 {
		return false
	}
	return !strict || len(r.Orphans) == 0
}

// Verify checks doc as a Markdown parser sees it: every "[#N][]" must
// resolve to exactly one definition pointing at tr.
func Verify(doc string, tr tracker.Tracker) Report {
	ids := Collect(doc)

	pc := parser.NewContext()
	md.Parser().Parse(text.NewReader([]byte(doc)), parser.WithContext(pc))

	resolved := make(map[string]string)
	for _, ref := range pc.References() {
		label := strings.TrimSpace(string(ref.Label()))
		id, ok := strings.CutPrefix(label, "#")
		if !ok {
			continue
		}
		resolved[id] = string(ref.Destination())
	}

	var report Report
	for _, id := range ids {
		dest, ok := resolved[id]
		if !ok {
			report.Missing = append(report.Missing, id)
			continue
		}
		if want := tr.IssueURL(id); dest != want {
			report.Mismatched = append(report.Mismatched, Mismatch{ID: id, Got: dest, Want: want})
		}
	}

	counts := make(map[string]int)
	for _, id := range definedIDs(doc) {
		counts[id]++
		if counts[id] == 2 {
			report.Duplicates = append(report.Duplicates, id)
		}
	}
	slices.SortFunc(report.Duplicates, compareIDs)

	report.Orphans = Orphans(doc, ids)
	report.Pending = pendingIDs(doc)
	return report
}

// pendingIDs returns the unique ids of bare "(#N)" references.
func pendingIDs(doc string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range bareRefPattern.FindAllStringSubmatch(doc, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}
