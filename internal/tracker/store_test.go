// File path: internal/tracker/store_test.go
package tracker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/frameshift-dev/frameshift/internal/component"
)

func testMeta(id, name string) component.Metadata {
	return component.Metadata{
		ID:         id,
		Name:       name,
		FilePath:   "src/" + name + ".jsx",
		Type:       component.TypeReact,
		Status:     component.NotStarted(),
		Complexity: 3,
	}
}

func TestLoadMissingFile(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d components", store.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("corrupt file must not fail load: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d components", store.Len())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "migration.json")
	store, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Add(testMeta("aaa", "UserCard")) {
		t.Fatal("add failed")
	}
	if err := store.UpdateStatus("aaa", component.Failed("generator exploded")); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	meta, ok := reloaded.Get("aaa")
	if !ok {
		t.Fatal("component lost in round trip")
	}
	if !meta.Status.Is(component.PhaseFailed) || meta.Status.Reason != "generator exploded" {
		t.Fatalf("status lost in round trip: %+v", meta.Status)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp file left behind after save")
	}
}

func TestAddRefusesDuplicateID(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	if !store.Add(testMeta("dup", "First")) {
		t.Fatal("first add failed")
	}
	if err := store.UpdateMigratedPath("dup", "out/first.rs"); err != nil {
		t.Fatalf("update migrated path: %v", err)
	}
	if store.Add(testMeta("dup", "Second")) {
		t.Fatal("duplicate add succeeded")
	}
	meta, _ := store.Get("dup")
	if meta.Name != "First" || meta.MigratedPath != "out/first.rs" {
		t.Fatalf("duplicate add clobbered record: %+v", meta)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	err := store.UpdateStatus("nope", component.Completed())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestByPhase(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	store.Add(testMeta("a", "A"))
	store.Add(testMeta("b", "B"))
	store.Add(testMeta("c", "C"))
	store.UpdateStatus("b", component.Completed())
	store.UpdateStatus("c", component.Skipped("blocked dependency"))

	if got := store.ByPhase(component.PhaseNotStarted); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("not_started = %+v", got)
	}
	if got := store.ByPhase(component.PhaseSkipped); len(got) != 1 || got[0].Status.Reason != "blocked dependency" {
		t.Fatalf("skipped = %+v", got)
	}
}

func TestSetEdgesNormalizes(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	store.Add(testMeta("a", "A"))
	if err := store.SetEdges("a", []string{"z", "b", "b", " ", "z"}, nil); err != nil {
		t.Fatalf("set edges: %v", err)
	}
	meta, _ := store.Get("a")
	if len(meta.Dependencies) != 2 || meta.Dependencies[0] != "b" || meta.Dependencies[1] != "z" {
		t.Fatalf("dependencies = %v, want [b z]", meta.Dependencies)
	}
	if meta.Dependents != nil {
		t.Fatalf("dependents = %v, want nil", meta.Dependents)
	}
}

func TestResetStale(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	store.Add(testMeta("a", "A"))
	store.Add(testMeta("b", "B"))
	store.UpdateStatus("a", component.InProgress())
	store.UpdateStatus("b", component.Completed())

	reset := store.ResetStale()
	if len(reset) != 1 || reset[0] != "a" {
		t.Fatalf("reset = %v, want [a]", reset)
	}
	meta, _ := store.Get("a")
	if !meta.Status.Is(component.PhaseNotStarted) {
		t.Fatalf("phase = %q, want not_started", meta.Status.Phase)
	}
	if meta.Notes == "" {
		t.Fatal("reset left no trace in notes")
	}
	if other, _ := store.Get("b"); !other.Status.Is(component.PhaseCompleted) {
		t.Fatal("completed component touched by reset")
	}
}

func TestStats(t *testing.T) {
	store, _ := Load(filepath.Join(t.TempDir(), "s.json"))
	for _, id := range []string{"a", "b", "c", "d"} {
		store.Add(testMeta(id, id))
	}
	store.UpdateStatus("a", component.Completed())
	store.UpdateStatus("b", component.Completed())
	store.UpdateStatus("c", component.Failed("boom"))

	stats := store.Stats()
	if stats.Total != 4 || stats.Completed != 2 || stats.Failed != 1 || stats.NotStarted != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.CompletionPercent != 50 {
		t.Fatalf("completion = %v, want 50", stats.CompletionPercent)
	}
}

func TestSaveFailureWrapsErrSave(t *testing.T) {
	// A directory at the store path makes the finalizing rename fail.
	path := filepath.Join(t.TempDir(), "state")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store.Add(testMeta("a1", "Alpha"))
	if err := store.Save(); !errors.Is(err, ErrSave) {
		t.Fatalf("save err = %v, want ErrSave", err)
	}
}
