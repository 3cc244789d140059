// File path: internal/planner/prioritizer_test.go
package planner

import (
	"path/filepath"
	"testing"

	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

func newStore(t *testing.T) *tracker.Store {
	t.Helper()
	store, err := tracker.Load(filepath.Join(t.TempDir(), "migration.json"))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func add(t *testing.T, store *tracker.Store, id string, complexity int, deps, dependents []string) {
	t.Helper()
	ok := store.Add(component.Metadata{
		ID:         id,
		Name:       id,
		FilePath:   "src/" + id,
		Type:       component.TypeReact,
		Status:     component.NotStarted(),
		Complexity: complexity,
	})
	if !ok {
		t.Fatalf("add %s failed", id)
	}
	if err := store.SetEdges(id, deps, dependents); err != nil {
		t.Fatalf("set edges %s: %v", id, err)
	}
}

func position(plan []component.Metadata, id string) int {
	for i, meta := range plan {
		if meta.ID == id {
			return i
		}
	}
	return -1
}

func TestPlanOnlyNotStarted(t *testing.T) {
	store := newStore(t)
	add(t, store, "a", 5, nil, nil)
	add(t, store, "b", 5, nil, nil)
	add(t, store, "c", 5, nil, nil)
	store.UpdateStatus("b", component.Completed())
	store.UpdateStatus("c", component.Failed("boom"))

	plan := Plan(store, DefaultFactors())
	if len(plan) != 1 || plan[0].ID != "a" {
		t.Fatalf("plan = %+v, want just a", plan)
	}
}

func TestPlanRespectsDependencyOrder(t *testing.T) {
	store := newStore(t)
	// x depends on y; y has nothing. y must come first even though x has
	// the higher raw score from its dependent count.
	add(t, store, "x", 2, []string{"y"}, nil)
	add(t, store, "y", 90, nil, []string{"x"})

	plan := Plan(store, DefaultFactors())
	if len(plan) != 2 {
		t.Fatalf("plan has %d entries, want 2", len(plan))
	}
	if position(plan, "y") > position(plan, "x") {
		t.Fatalf("dependency y planned after dependent x: %v", planIDs(plan))
	}
}

func TestPlanSettledDependenciesDoNotBlock(t *testing.T) {
	store := newStore(t)
	add(t, store, "a", 5, []string{"done", "dead"}, nil)
	add(t, store, "done", 5, nil, []string{"a"})
	add(t, store, "dead", 5, nil, []string{"a"})
	store.UpdateStatus("done", component.Completed())
	store.UpdateStatus("dead", component.Failed("unparseable"))

	plan := Plan(store, DefaultFactors())
	if len(plan) != 1 || plan[0].ID != "a" {
		t.Fatalf("plan = %v, want [a]", planIDs(plan))
	}
}

func TestPlanPrefersDependentsAndQuickWins(t *testing.T) {
	store := newStore(t)
	// All independent. "hub" unblocks two others; "easy" and "hard" differ
	// only in complexity.
	add(t, store, "easy", 5, nil, nil)
	add(t, store, "hard", 95, nil, nil)
	add(t, store, "hub", 50, nil, []string{"p", "q"})
	add(t, store, "p", 10, []string{"hub"}, nil)
	add(t, store, "q", 10, []string{"hub"}, nil)

	plan := Plan(store, DefaultFactors())
	if plan[0].ID != "hub" {
		t.Fatalf("first = %s, want hub (most dependents): %v", plan[0].ID, planIDs(plan))
	}
	if position(plan, "easy") > position(plan, "hard") {
		t.Fatalf("lower complexity did not rank first: %v", planIDs(plan))
	}
}

func TestPlanDeterministicTiebreak(t *testing.T) {
	store := newStore(t)
	add(t, store, "bbb", 10, nil, nil)
	add(t, store, "aaa", 10, nil, nil)

	first := planIDs(Plan(store, DefaultFactors()))
	second := planIDs(Plan(store, DefaultFactors()))
	if first[0] != "aaa" || first[1] != "bbb" {
		t.Fatalf("tie not broken by ID: %v", first)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("plan not deterministic: %v vs %v", first, second)
		}
	}
}

func TestPlanCycleStillTotal(t *testing.T) {
	store := newStore(t)
	add(t, store, "a", 5, []string{"b"}, []string{"b"})
	add(t, store, "b", 5, []string{"a"}, []string{"a"})
	add(t, store, "free", 5, nil, nil)

	plan := Plan(store, DefaultFactors())
	if len(plan) != 3 {
		t.Fatalf("cycle members missing from plan: %v", planIDs(plan))
	}
	if plan[0].ID != "free" {
		t.Fatalf("unconstrained component not planned first: %v", planIDs(plan))
	}
}

func TestPlanEmptyStore(t *testing.T) {
	store := newStore(t)
	if plan := Plan(store, DefaultFactors()); plan != nil {
		t.Fatalf("plan = %v, want nil", planIDs(plan))
	}
}

func planIDs(plan []component.Metadata) []string {
	ids := make([]string, len(plan))
	for i, meta := range plan {
		ids[i] = meta.ID
	}
	return ids
}
