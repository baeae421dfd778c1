package changelog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gorewood/issuelinks/internal/tracker"
)

var (
	// bareRefPattern matches "(#123)".
	bareRefPattern = regexp.MustCompile(`\(#(\d+)\)`)

	// inlineRefPattern matches "[#123][]".
	inlineRefPattern = regexp.MustCompile(`\[#(\d+)\]\[\]`)

	// definitionPattern matches a whole "[#123]: url" line including its newline.
	definitionPattern = regexp.MustCompile(`(?m)^\[#(\d+)\]: .*(?:\n|$)`)
)

// Options controls optional behavior of Process.
type Options struct {
	// Prune removes issue definitions that no inline reference uses.
	Prune bool
}

// Result describes the outcome of Process.
type Result struct {
	Document string   `json:"-"`
	IDs      []string `json:"ids"`
	// Rewritten counts "(#N)" references turned into "([#N][])".
	Rewritten int `json:"rewritten"`
	// Replaced counts definition lines removed before re-adding them.
	Replaced int `json:"replaced"`
	// Orphans lists ids that are defined but never referenced inline.
	Orphans []string `json:"orphans,omitempty"`
	Pruned  int      `json:"pruned,omitempty"`
	Changed bool     `json:"changed"`
}

// Rewrite replaces every "(#N)" with "([#N][])".
func Rewrite(doc string) string {
	return bareRefPattern.ReplaceAllString(doc, "([#$1][])")
}

// Collect returns the unique ids of all "[#N][]" markers in doc, sorted
// numerically. Definition lines are not markers and are ignored.
func Collect(doc string) []string {
	matches := inlineRefPattern.FindAllStringSubmatch(doc, -1)
	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

// compareIDs orders digit strings by numeric value. Equal values that differ
// only in leading zeros fall back to string order.
func compareIDs(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// UpdateDefinitions removes existing definition lines for ids and appends
// one fresh definition per id, in the order given.
func UpdateDefinitions(doc string, ids []string, tr tracker.Tracker) string {
	updated, _, _ := updateDefinitions(doc, ids, nil, tr)
	return updated
}

// updateDefinitions removes the definition lines of ids and drop in one
// pass, then appends definitions for ids. It returns the new document and
// the number of lines removed for ids and for drop.
func updateDefinitions(doc string, ids []string, drop map[string]bool, tr tracker.Tracker) (string, int, int) {
	if len(ids) == 0 && len(drop) == 0 {
		return doc, 0, 0
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	doc, replaced, pruned := removeDefinitions(doc, wanted, drop)
	if len(ids) == 0 {
		return doc, replaced, pruned
	}

	eol := lineEnding(doc)
	var builder strings.Builder
	builder.WriteString(doc)
	if doc != "" && !strings.HasSuffix(doc, "\n") {
		builder.WriteString(eol)
	}
	if needsSeparator(doc) {
		builder.WriteString(eol)
	}
	for _, id := range ids {
		builder.WriteString(Definition(id, tr))
		builder.WriteString(eol)
	}
	return builder.String(), replaced, pruned
}

// lineEnding returns "\r\n" for documents that use it and "\n" otherwise.
func lineEnding(doc string) string {
	if strings.Contains(doc, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// needsSeparator reports whether a blank line must precede the appended
// definitions. A definition cannot interrupt a paragraph, so a trailing run
// of definition lines only counts as a block when a blank line or the start
// of the document comes before it.
func needsSeparator(doc string) bool {
	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	i := len(lines) - 1
	for i >= 0 && definitionPattern.MatchString(lines[i]) {
		i--
	}
	if i < 0 {
		return false
	}
	return strings.TrimSpace(lines[i]) != ""
}

// Definition formats the link-reference definition line for id, without
// a trailing newline.
func Definition(id string, tr tracker.Tracker) string {
	return "[#" + id + "]: " + tr.IssueURL(id)
}

// removeDefinitions deletes every definition line whose id is in replace
// or drop and counts the removed lines of each set.
func removeDefinitions(doc string, replace, drop map[string]bool) (string, int, int) {
	replaced, dropped := 0, 0
	out := definitionPattern.ReplaceAllStringFunc(doc, func(line string) string {
		id := definitionPattern.FindStringSubmatch(line)[1]
		switch {
		case replace[id]:
			replaced++
		case drop[id]:
			dropped++
		default:
			return line
		}
		return ""
	})
	return out, replaced, dropped
}

// definedIDs returns the ids of all definition lines in doc, in document order,
// one entry per line.
func definedIDs(doc string) []string {
	var ids []string
	for _, m := range definitionPattern.FindAllStringSubmatch(doc, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

// Orphans returns the ids that have a definition line in doc but are not
// in referenced, sorted numerically.
func Orphans(doc string, referenced []string) []string {
	used := make(map[string]bool, len(referenced))
	for _, id := range referenced {
		used[id] = true
	}
	seen := make(map[string]bool)
	var orphans []string
	for _, id := range definedIDs(doc) {
		if used[id] || seen[id] {
			continue
		}
		seen[id] = true
		orphans = append(orphans, id)
	}
	slices.SortFunc(orphans, compareIDs)
	return orphans
}

// Process rewrites bare references, collects the ids and refreshes their
// definitions. With opts.Prune, orphan definitions are removed in the same
// pass, before the appended block is placed.
func Process(doc string, tr tracker.Tracker, opts Options) Result {
	rewritten := Rewrite(doc)
	ids := Collect(rewritten)
	orphans := Orphans(rewritten, ids)

	var drop map[string]bool
	if opts.Prune {
		drop = make(map[string]bool, len(orphans))
		for _, id := range orphans {
			drop[id] = true
		}
	}

	updated, replaced, pruned := updateDefinitions(rewritten, ids, drop, tr)
	return Result{
		Document:  updated,
		IDs:       ids,
		Rewritten: len(bareRefPattern.FindAllStringIndex(doc, -1)),
		Replaced:  replaced,
		Orphans:   orphans,
		Pruned:    pruned,
		Changed:   updated != doc,
	}
}
