// File path: internal/depgraph/builder.go
package depgraph

import (
	"sort"

	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// Builder resolves raw dependency hints into component edges. Edges are a
// pure function of the hints handed to Rebuild: every call clears previously
// derived edges before writing new ones, so stale edges never accumulate
// across runs.
type Builder struct {
	store *tracker.Store
}

func NewBuilder(store *tracker.Store) *Builder {
	return &Builder{store: store}
}

// Rebuild resolves hints (component ID -> raw name mentions) against the
// tracked components and writes symmetric dependencies/dependents to the
// store. roots maps component IDs to their source root; when two components
// share a folded name, the candidate from the referencing component's own
// root wins. Unresolvable hints are dropped silently.
func (b *Builder) Rebuild(hints map[string][]string, roots map[string]string) error {
	all := b.store.All()

	index := make(map[string][]component.Metadata)
	for _, meta := range all {
		key := analyzer.FoldName(meta.Name)
		if key == "" {
			continue
		}
		index[key] = append(index[key], meta)
	}

	ids := make([]string, 0, len(hints))
	for id := range hints {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dependencies := make(map[string]map[string]struct{})
	dependents := make(map[string]map[string]struct{})
	resolved, dropped := 0, 0
	for _, id := range ids {
		meta, ok := b.store.Get(id)
		if !ok {
			continue
		}
		for _, hint := range hints[id] {
			target, ok := resolve(index[analyzer.FoldName(hint)], meta, roots)
			if !ok {
				dropped++
				continue
			}
			addEdge(dependencies, id, target)
			addEdge(dependents, target, id)
			resolved++
		}
	}

	for _, meta := range all {
		err := b.store.SetEdges(meta.ID,
			sortedKeys(dependencies[meta.ID]),
			sortedKeys(dependents[meta.ID]))
		if err != nil {
			return err
		}
	}
	common.Logger().Info("depgraph: edges rebuilt",
		"components", len(all), "resolved", resolved, "dropped", dropped)
	return nil
}

// resolve picks the component a hint refers to. Self-references are dropped;
// ties between same-named components go to the candidate sharing the
// referencing component's source root, then to the matching component type,
// then to the smallest ID.
func resolve(candidates []component.Metadata, from component.Metadata, roots map[string]string) (string, bool) {
	fromRoot := roots[from.ID]
	found := false
	var best component.Metadata
	for _, c := range candidates {
		if c.ID == from.ID {
			continue
		}
		if !found || better(c, best, fromRoot, from.Type, roots) {
			best = c
			found = true
		}
	}
	if !found {
		return "", false
	}
	return best.ID, true
}

func better(c, best component.Metadata, fromRoot string, fromType component.Type, roots map[string]string) bool {
	cRoot := roots[c.ID] == fromRoot && fromRoot != ""
	bestRoot := roots[best.ID] == fromRoot && fromRoot != ""
	if cRoot != bestRoot {
		return cRoot
	}
	cType := c.Type == fromType && fromType != ""
	bestType := best.Type == fromType && fromType != ""
	if cType != bestType {
		return cType
	}
	return c.ID < best.ID
}

func addEdge(edges map[string]map[string]struct{}, from, to string) {
	set, ok := edges[from]
	if !ok {
		set = make(map[string]struct{})
		edges[from] = set
	}
	set[to] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
