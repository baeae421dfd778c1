package main

import (
	"strings"
	"testing"
)

func TestList_JSON(t *testing.T) {
	content := "- a (#10)\n- b ([#2][]) ([#7][])\n\n[#7]: https://old\n"
	dir := setupWorkspace(t, map[string]string{"CHANGELOG.md": content})

	runInDir(t, dir, func() {
		out, _, err := execute(t, "list", "--json")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}

		result := decodeJSON(t, out)
		issues := result["issues"].([]any)
		want := []struct{ id, status string }{
			{"2", "missing"},
			{"7", "mismatch"},
			{"10", "unlinked"},
		}
		if len(issues) != len(want) {
			t.Fatalf("issues = %v", issues)
		}
		for i, w := range want {
			issue := issues[i].(map[string]any)
			if issue["id"] != w.id || issue["status"] != w.status {
				t.Errorf("issue %d = %v, want id=%s status=%s", i, issue, w.id, w.status)
			}
			if issue["url"] != "https://github.com/nipy/heudiconv/issues/"+w.id {
				t.Errorf("issue %d url = %v", i, issue["url"])
			}
		}
	})
}

func TestList_Table(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"CHANGELOG.md": sampleLinked})

	runInDir(t, dir, func() {
		out, _, err := execute(t, "list", "--color", "never")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header and 3 rows, got:\n%s", out)
		}
		if !strings.HasPrefix(lines[1], "#3 ") || !strings.HasPrefix(lines[3], "#42") {
			t.Errorf("rows not in numeric order:\n%s", out)
		}
		if !strings.Contains(lines[3], "ok") {
			t.Errorf("expected ok status:\n%s", out)
		}
	})
}

func TestList_Empty(t *testing.T) {
	dir := setupWorkspace(t, map[string]string{"CHANGELOG.md": "# Changelog\n"})

	runInDir(t, dir, func() {
		out, _, err := execute(t, "list")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "no issue references") {
			t.Errorf("unexpected output: %q", out)
		}
	})
}
