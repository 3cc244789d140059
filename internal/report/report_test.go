// File path: internal/report/report_test.go
package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

func seededStore(t *testing.T) *tracker.Store {
	t.Helper()
	store, err := tracker.Load(filepath.Join(t.TempDir(), "migration.json"))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	add := func(id, name string, status component.Status, migrated string) {
		store.Add(component.Metadata{
			ID:           id,
			Name:         name,
			FilePath:     "src/" + name + ".jsx",
			Type:         component.TypeReact,
			Status:       component.NotStarted(),
			Complexity:   5,
			MigratedPath: migrated,
		})
		store.UpdateStatus(id, status)
		if migrated != "" {
			store.UpdateMigratedPath(id, migrated)
		}
	}
	add("aaa", "UserCard", component.Completed(), "out/components/react/user_card.rs")
	add("bbb", "Broken", component.Failed("parse error | details"), "")
	add("ccc", "Pending", component.NotStarted(), "")
	store.SetEdges("aaa", []string{"ccc"}, nil)
	store.SetEdges("ccc", nil, []string{"aaa"})
	return store
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(seededStore(t))
	for _, want := range []string{
		"# Migration Report",
		"## Progress Summary",
		"## Completed Components",
		"| UserCard | React | src/UserCard.jsx | out/components/react/user_card.rs |",
		"## Failed Components",
		"| Broken | React | parse error \\| details |",
		"## Dependency Graph",
		"```mermaid",
		"aaa[UserCard] --> ccc[Pending];",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownEmptyStore(t *testing.T) {
	store, err := tracker.Load(filepath.Join(t.TempDir(), "migration.json"))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	out := Markdown(store)
	if !strings.Contains(out, "No components have been completed yet.") {
		t.Fatalf("empty-store report missing placeholder:\n%s", out)
	}
	if !strings.Contains(out, "No components have failed migration.") {
		t.Fatalf("empty-store report missing failed placeholder:\n%s", out)
	}
	if strings.Contains(out, "## Skipped Components") {
		t.Fatal("skipped section rendered with no skipped components")
	}
}

func TestProgressLine(t *testing.T) {
	got := Progress(tracker.Stats{
		Total: 4, Completed: 2, Failed: 1, NotStarted: 1, CompletionPercent: 50,
	})
	if !strings.Contains(got, "2/4 completed (50.0%)") {
		t.Fatalf("progress = %q", got)
	}
}
