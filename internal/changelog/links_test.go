package changelog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gorewood/issuelinks/internal/tracker"
)

var heudiconv = tracker.Tracker{BaseURL: tracker.Default}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single reference",
			input: "Fixed bug (#42).",
			want:  "Fixed bug ([#42][]).",
		},
		{
			name:  "several on one line",
			input: "(#7) and (#3) and (#7)",
			want:  "([#7][]) and ([#3][]) and ([#7][])",
		},
		{
			name:  "already rewritten",
			input: "Fixed bug ([#42][]).",
			want:  "Fixed bug ([#42][]).",
		},
		{
			name:  "malformed markers untouched",
			input: "(#) (#abc) #12 ( #12) (#12a)",
			want:  "(#) (#abc) #12 ( #12) (#12a)",
		},
		{
			name:  "no references",
			input: "Just text\n",
			want:  "Just text\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Rewrite(tt.input)); diff != "" {
				t.Errorf("Rewrite() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "deduplicates",
			input: "([#7][]) and ([#3][]) and ([#7][])",
			want:  []string{"3", "7"},
		},
		{
			name:  "numeric order",
			input: "([#10][]) ([#2][]) ([#100][]) ([#9][])",
			want:  []string{"2", "9", "10", "100"},
		},
		{
			name:  "adjacent punctuation",
			input: "see [#5][];[#6][].[#4][]",
			want:  []string{"4", "5", "6"},
		},
		{
			name:  "definition lines ignored",
			input: "body ([#1][])\n[#1]: https://x/issues/1\n[#2]: https://x/issues/2\n",
			want:  []string{"1"},
		},
		{
			name:  "leading zeros kept distinct",
			input: "[#7][] [#007][]",
			want:  []string{"007", "7"},
		},
		{
			name:  "none",
			input: "nothing here (#abc)",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Collect(tt.input)); diff != "" {
				t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareIDs(t *testing.T) {
	if compareIDs("2", "10") >= 0 {
		t.Error("2 should sort before 10")
	}
	if compareIDs("10", "9") <= 0 {
		t.Error("10 should sort after 9")
	}
	if compareIDs("42", "42") != 0 {
		t.Error("equal ids should compare equal")
	}
}

func TestUpdateDefinitions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ids   []string
		want  string
	}{
		{
			name:  "appends after paragraph",
			input: "Fixed bug ([#42][]).\n",
			ids:   []string{"42"},
			want:  "Fixed bug ([#42][]).\n\n[#42]: https://github.com/nipy/heudiconv/issues/42\n",
		},
		{
			name:  "missing final newline",
			input: "Fixed bug ([#42][]).",
			ids:   []string{"42"},
			want:  "Fixed bug ([#42][]).\n\n[#42]: https://github.com/nipy/heudiconv/issues/42\n",
		},
		{
			name:  "replaces stale definition",
			input: "Item ([#5][])\n\n[#5]: https://old-url\n",
			ids:   []string{"5"},
			want:  "Item ([#5][])\n\n[#5]: https://github.com/nipy/heudiconv/issues/5\n",
		},
		{
			name:  "moves definition from the middle",
			input: "[#5]: https://old-url\n\nItem ([#5][])\n",
			ids:   []string{"5"},
			want:  "\nItem ([#5][])\n\n[#5]: https://github.com/nipy/heudiconv/issues/5\n",
		},
		{
			name:  "continues an existing block",
			input: "Item ([#2][]) ([#1][])\n\n[#9]: https://keep\n",
			ids:   []string{"1", "2"},
			want: "Item ([#2][]) ([#1][])\n\n[#9]: https://keep\n" +
				"[#1]: https://github.com/nipy/heudiconv/issues/1\n" +
				"[#2]: https://github.com/nipy/heudiconv/issues/2\n",
		},
		{
			name:  "similar ids untouched",
			input: "x ([#4][])\n\n[#44]: https://keep\n[#4]: https://old\n",
			ids:   []string{"4"},
			want:  "x ([#4][])\n\n[#44]: https://keep\n[#4]: https://github.com/nipy/heudiconv/issues/4\n",
		},
		{
			name:  "definition glued to a paragraph is not a block",
			input: "- item ([#5][])\n[#9]: https://orphan\n",
			ids:   []string{"5"},
			want:  "- item ([#5][])\n[#9]: https://orphan\n\n[#5]: https://github.com/nipy/heudiconv/issues/5\n",
		},
		{
			name:  "block at start of document",
			input: "[#9]: https://keep\n",
			ids:   []string{"5"},
			want:  "[#9]: https://keep\n[#5]: https://github.com/nipy/heudiconv/issues/5\n",
		},
		{
			name:  "keeps CRLF line endings",
			input: "- fix ([#2][])\r\n\r\n[#2]: https://old\r\n",
			ids:   []string{"1", "2"},
			want: "- fix ([#2][])\r\n\r\n" +
				"[#1]: https://github.com/nipy/heudiconv/issues/1\r\n" +
				"[#2]: https://github.com/nipy/heudiconv/issues/2\r\n",
		},
		{
			name:  "CRLF paragraph gets a CRLF separator",
			input: "# Changes\r\n- fix ([#3][])",
			ids:   []string{"3"},
			want:  "# Changes\r\n- fix ([#3][])\r\n\r\n[#3]: https://github.com/nipy/heudiconv/issues/3\r\n",
		},
		{
			name:  "no ids",
			input: "unchanged",
			ids:   nil,
			want:  "unchanged",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateDefinitions(tt.input, tt.ids, heudiconv)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("UpdateDefinitions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcess_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantIDs   []string
		wantCount int
	}{
		{
			name:      "single reference",
			input:     "- Fixed bug (#42).\n",
			want:      "- Fixed bug ([#42][]).\n\n[#42]: https://github.com/nipy/heudiconv/issues/42\n",
			wantIDs:   []string{"42"},
			wantCount: 1,
		},
		{
			name:  "duplicates collapse",
			input: "(#7) and (#3) and (#7)\n",
			want: "([#7][]) and ([#3][]) and ([#7][])\n\n" +
				"[#3]: https://github.com/nipy/heudiconv/issues/3\n" +
				"[#7]: https://github.com/nipy/heudiconv/issues/7\n",
			wantIDs:   []string{"3", "7"},
			wantCount: 3,
		},
		{
			name:      "stale definition refreshed",
			input:     "Item ([#5][])\n\n[#5]: https://old-url\n",
			want:      "Item ([#5][])\n\n[#5]: https://github.com/nipy/heudiconv/issues/5\n",
			wantIDs:   []string{"5"},
			wantCount: 0,
		},
		{
			name:      "no references",
			input:     "# Changelog\n\nNothing to link.\n",
			want:      "# Changelog\n\nNothing to link.\n",
			wantIDs:   nil,
			wantCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Process(tt.input, heudiconv, Options{})
			if diff := cmp.Diff(tt.want, res.Document); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantIDs, res.IDs); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if res.Rewritten != tt.wantCount {
				t.Errorf("Rewritten = %d, want %d", res.Rewritten, tt.wantCount)
			}
			if res.Changed != (tt.input != tt.want) {
				t.Errorf("Changed = %v, want %v", res.Changed, tt.input != tt.want)
			}
		})
	}
}

func TestProcess_Idempotent(t *testing.T) {
	inputs := []string{
		"- Fixed bug (#42).\n",
		"- Fixed bug (#42).",
		"(#7) and (#3) and (#7)\n- more (#10), (#2)\n",
		"Item ([#5][])\n[#5]: https://old-url\n",
		"[#1]: https://orphan\n\nbody (#2)\n",
		"- item ([#5][])\n[#9]: https://orphan\n",
		"- item (#5)\n[#9]: https://orphan\n[#5]: https://old\n",
		"[#9]: https://orphan\n",
		"- fix (#2)\r\n[#1]: https://orphan\r\n",
		"",
		"no refs",
	}
	for _, input := range inputs {
		for _, prune := range []bool{false, true} {
			once := Process(input, heudiconv, Options{Prune: prune})
			twice := Process(once.Document, heudiconv, Options{Prune: prune})
			if diff := cmp.Diff(once.Document, twice.Document); diff != "" {
				t.Errorf("Process(%q, prune=%v) not idempotent (-once +twice):\n%s", input, prune, diff)
			}
			if twice.Changed {
				t.Errorf("second run on %q reported a change", input)
			}
		}
	}
}

func TestProcess_Coverage(t *testing.T) {
	input := "## 1.0\n- a (#12)\n- b (#3), c (#12)\n- d ([#8][])\n\n[#8]: https://old\n[#8]: https://older\n"
	res := Process(input, heudiconv, Options{})

	for _, id := range res.IDs {
		line := Definition(id, heudiconv) + "\n"
		if n := strings.Count(res.Document, line); n != 1 {
			t.Errorf("definition for %s appears %d times, want 1", id, n)
		}
	}
	if diff := cmp.Diff([]string{"3", "8", "12"}, res.IDs); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if res.Replaced != 2 {
		t.Errorf("Replaced = %d, want 2", res.Replaced)
	}
	if !strings.HasSuffix(res.Document,
		"[#3]: https://github.com/nipy/heudiconv/issues/3\n"+
			"[#8]: https://github.com/nipy/heudiconv/issues/8\n"+
			"[#12]: https://github.com/nipy/heudiconv/issues/12\n") {
		t.Errorf("definitions not appended in numeric order:\n%s", res.Document)
	}
}

func TestProcess_Orphans(t *testing.T) {
	input := "body ([#2][])\n\n[#1]: https://orphan\n[#2]: https://old\n"

	t.Run("kept by default", func(t *testing.T) {
		res := Process(input, heudiconv, Options{})
		if diff := cmp.Diff([]string{"1"}, res.Orphans); diff != "" {
			t.Errorf("orphans mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(res.Document, "[#1]: https://orphan\n") {
			t.Errorf("orphan definition removed without Prune:\n%s", res.Document)
		}
		if res.Pruned != 0 {
			t.Errorf("Pruned = %d, want 0", res.Pruned)
		}
	})

	t.Run("pruned", func(t *testing.T) {
		res := Process(input, heudiconv, Options{Prune: true})
		want := "body ([#2][])\n\n[#2]: https://github.com/nipy/heudiconv/issues/2\n"
		if diff := cmp.Diff(want, res.Document); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
		if res.Pruned != 1 {
			t.Errorf("Pruned = %d, want 1", res.Pruned)
		}
		if res.Replaced != 1 {
			t.Errorf("Replaced = %d, want 1", res.Replaced)
		}
	})

	t.Run("pruned after a paragraph", func(t *testing.T) {
		res := Process("- item ([#5][])\n[#9]: https://orphan\n", heudiconv, Options{Prune: true})
		want := "- item ([#5][])\n\n[#5]: https://github.com/nipy/heudiconv/issues/5\n"
		if diff := cmp.Diff(want, res.Document); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
		if res.Pruned != 1 {
			t.Errorf("Pruned = %d, want 1", res.Pruned)
		}
	})

	t.Run("pruned without references", func(t *testing.T) {
		res := Process("# Changelog\n\n[#9]: https://orphan\n", heudiconv, Options{Prune: true})
		if diff := cmp.Diff("# Changelog\n\n", res.Document); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
		if !res.Changed {
			t.Error("Changed = false, want true")
		}
	})
}

func TestProcess_CustomTracker(t *testing.T) {
	tr := tracker.MustParse("gorewood/issuelinks")
	res := Process("fix (#9)\n", tr, Options{})
	want := "fix ([#9][])\n\n[#9]: https://github.com/gorewood/issuelinks/issues/9\n"
	if diff := cmp.Diff(want, res.Document); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}
