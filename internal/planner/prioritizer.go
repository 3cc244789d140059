// File path: internal/planner/prioritizer.go
package planner

import (
	"sort"

	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// Factors are the tunable weights behind plan ordering. Dependents raise a
// component's priority (finishing it unblocks more downstream work), lower
// complexity raises it (quick wins surface early), and outstanding
// dependencies lower it. LeafBonus rewards components with no dependencies at
// all; RootBonus rewards components nothing else depends on. TypeWeights is
// an optional per-framework nudge used as a tiebreaker.
type Factors struct {
	DependentsWeight   float64                    `json:"dependents_weight"`
	ComplexityWeight   float64                    `json:"complexity_weight"`
	DependenciesWeight float64                    `json:"dependencies_weight"`
	LeafBonus          float64                    `json:"leaf_bonus"`
	RootBonus          float64                    `json:"root_bonus"`
	TypeWeights        map[component.Type]float64 `json:"type_weights,omitempty"`
}

// DefaultFactors returns the stock weighting.
func DefaultFactors() Factors {
	return Factors{
		DependentsWeight:   0.4,
		ComplexityWeight:   0.3,
		DependenciesWeight: 0.2,
		LeafBonus:          10,
		RootBonus:          5,
	}
}

// scorer rates components on a 0-100 scale per weighted term. Edge counts
// are normalized against the largest count in the candidate set so the
// configured weights express relative importance rather than absolute edge
// counts.
type scorer struct {
	factors         Factors
	maxDependents   float64
	maxDependencies float64
}

func newScorer(factors Factors, candidates map[string]component.Metadata) scorer {
	s := scorer{factors: factors}
	for _, meta := range candidates {
		if n := float64(len(meta.Dependents)); n > s.maxDependents {
			s.maxDependents = n
		}
		if n := float64(len(meta.Dependencies)); n > s.maxDependencies {
			s.maxDependencies = n
		}
	}
	return s
}

func (s scorer) score(meta component.Metadata) float64 {
	f := s.factors
	v := 0.0
	if s.maxDependents > 0 {
		v += f.DependentsWeight * 100 * float64(len(meta.Dependents)) / s.maxDependents
	}
	v += f.ComplexityWeight * float64(100-meta.Complexity)
	if s.maxDependencies > 0 {
		v -= f.DependenciesWeight * 100 * float64(len(meta.Dependencies)) / s.maxDependencies
	}
	if len(meta.Dependencies) == 0 {
		v += f.LeafBonus
	}
	if len(meta.Dependents) == 0 {
		v += f.RootBonus
	}
	if f.TypeWeights != nil {
		v += f.TypeWeights[meta.Type.Normalize()]
	}
	return v
}

// Plan computes the ordered migration plan: only components still NotStarted
// appear, and a component never appears before a dependency of its own that
// is also still NotStarted. Dependencies in any other phase are settled as
// far as ordering is concerned; they either already migrated or already
// reached a terminal failure, and holding their dependents hostage would
// deadlock the run. Within those constraints components drain by descending
// weighted score, then ascending ID. An empty plan signals completion.
func Plan(store *tracker.Store, factors Factors) []component.Metadata {
	pending := make(map[string]component.Metadata)
	for _, meta := range store.ByPhase(component.PhaseNotStarted) {
		pending[meta.ID] = meta
	}
	if len(pending) == 0 {
		return nil
	}

	rank := newScorer(factors, pending)

	// Kahn's algorithm over the pending-only subgraph.
	indegree := make(map[string]int, len(pending))
	for id, meta := range pending {
		count := 0
		for _, dep := range meta.Dependencies {
			if _, waiting := pending[dep]; waiting {
				count++
			}
		}
		indegree[id] = count
	}

	var ready []component.Metadata
	for id, meta := range pending {
		if indegree[id] == 0 {
			ready = append(ready, meta)
		}
	}

	plan := make([]component.Metadata, 0, len(pending))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return rank.less(ready[j], ready[i]) })
		next := ready[0]
		ready = ready[1:]
		plan = append(plan, next)
		delete(pending, next.ID)
		for _, dependent := range next.Dependents {
			if _, waiting := pending[dependent]; !waiting {
				continue
			}
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, pending[dependent])
			}
		}
	}

	// Anything left is part of a dependency cycle; order by score so the
	// plan stays total and the run can still make progress.
	if len(pending) > 0 {
		rest := make([]component.Metadata, 0, len(pending))
		for _, meta := range pending {
			rest = append(rest, meta)
		}
		sort.Slice(rest, func(i, j int) bool { return rank.less(rest[j], rest[i]) })
		common.Logger().Warn("planner: dependency cycle detected, degrading to priority order",
			"components", len(rest))
		plan = append(plan, rest...)
	}
	return plan
}

// less orders a before b: lower score first, ID as the final tiebreak. The
// plan drains in reverse of this ordering (highest score first).
func (s scorer) less(a, b component.Metadata) bool {
	sa, sb := s.score(a), s.score(b)
	if sa != sb {
		return sa < sb
	}
	return a.ID > b.ID
}
