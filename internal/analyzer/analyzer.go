// File path: internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/frameshift-dev/frameshift/internal/component"
)

// Discovered is a single component surfaced by an analyzer: its identity, the
// raw source text (used by the complexity scorer), and the textual dependency
// hints extracted from that source. Hints are candidate component names only;
// resolving them against tracked components is the graph builder's job.
type Discovered struct {
	Name   string
	Path   string
	Source string
	Hints  []string
}

// Analyzer parses components of one source framework. Implementations must
// tolerate malformed files: a file that cannot be understood is reported via
// the Parse error and skipped by callers, never fatal to a discovery pass.
type Analyzer interface {
	Type() component.Type
	Match(path string, data []byte) bool
	Parse(ctx context.Context, path string, data []byte) ([]Discovered, error)
}

// Registry maps component types to their analyzers.
type Registry struct {
	analyzers map[component.Type]Analyzer
}

// NewRegistry builds a registry from the provided analyzers. Later entries
// with a duplicate type replace earlier ones.
func NewRegistry(analyzers ...Analyzer) *Registry {
	reg := &Registry{analyzers: make(map[component.Type]Analyzer, len(analyzers))}
	for _, a := range analyzers {
		if a == nil {
			continue
		}
		reg.analyzers[a.Type().Normalize()] = a
	}
	return reg
}

// Default returns the registry of built-in framework analyzers.
func Default() *Registry {
	return NewRegistry(
		&reactAnalyzer{},
		&emberAnalyzer{},
		&vueAnalyzer{},
		&angularAnalyzer{},
	)
}

// For returns the analyzer registered for the given component type.
func (r *Registry) For(typ component.Type) (Analyzer, bool) {
	a, ok := r.analyzers[typ.Normalize()]
	return a, ok
}

// All returns the registered analyzers ordered by type for deterministic
// iteration.
func (r *Registry) All() []Analyzer {
	out := make([]Analyzer, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}

// ParseFile re-analyzes a single component file with the analyzer registered
// for its type. Used by the batch executor to pick up the current source just
// before generation.
func (r *Registry) ParseFile(ctx context.Context, typ component.Type, path string) ([]Discovered, error) {
	a, ok := r.For(typ)
	if !ok {
		return nil, fmt.Errorf("no analyzer registered for type %q", typ)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read component file: %w", err)
	}
	return a.Parse(ctx, path, data)
}
