// File path: internal/discovery/discovery.go
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/complexity"
	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// skipDirs are directory names that never contain first-party components.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	"vendor":       {},
}

// Result summarizes one discovery pass. Hints carries the raw dependency
// mentions per component ID for the graph builder; Roots records which source
// root each component came from so name collisions can prefer neighbours.
type Result struct {
	Added  int
	Known  int
	Failed int
	Hints  map[string][]string
	Roots  map[string]string
}

// Discoverer walks configured source roots and registers every component the
// analyzers recognize with the tracker store.
type Discoverer struct {
	registry *analyzer.Registry
	store    *tracker.Store
}

func New(registry *analyzer.Registry, store *tracker.Store) *Discoverer {
	return &Discoverer{registry: registry, store: store}
}

// Run scans every source root. A root that cannot be walked, or a file that
// cannot be parsed, is logged and skipped; discovery only fails as a whole
// when the context is cancelled. Components whose derived ID is already
// tracked keep their existing record untouched, so re-running discovery is
// safe at any point in a migration.
func (d *Discoverer) Run(ctx context.Context, roots []string) (*Result, error) {
	logger := common.Logger()
	result := &Result{
		Hints: make(map[string][]string),
		Roots: make(map[string]string),
	}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.walkRoot(ctx, root, result); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("discovery: source root skipped", "root", root, "error", err)
		}
	}
	logger.Info("discovery: pass complete",
		"roots", len(roots),
		"added", result.Added,
		"known", result.Known,
		"failed", result.Failed)
	return result, nil
}

func (d *Discoverer) walkRoot(ctx context.Context, root string, result *Result) error {
	logger := common.Logger()
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}
			if name != "." && strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("discovery: unreadable file skipped", "path", path, "error", readErr)
			result.Failed++
			return nil
		}
		for _, a := range d.registry.All() {
			if !a.Match(path, data) {
				continue
			}
			found, parseErr := a.Parse(ctx, path, data)
			if parseErr != nil {
				if ctx.Err() != nil {
					return parseErr
				}
				logger.Warn("discovery: file skipped",
					"path", path, "type", a.Type(), "error", parseErr)
				result.Failed++
				continue
			}
			for _, disc := range found {
				d.record(a.Type(), root, disc, result)
			}
		}
		return nil
	})
}

func (d *Discoverer) record(typ component.Type, root string, disc analyzer.Discovered, result *Result) {
	id := component.DeriveID(disc.Name, disc.Path, typ)
	meta := component.Metadata{
		ID:          id,
		Name:        disc.Name,
		FilePath:    disc.Path,
		Type:        typ.Normalize(),
		Status:      component.NotStarted(),
		Complexity:  complexity.Score(disc.Source, typ),
		LastUpdated: time.Now().UTC(),
	}
	if d.store.Add(meta) {
		result.Added++
		common.Logger().Debug("discovery: component tracked",
			"id", id, "name", disc.Name, "type", typ, "complexity", meta.Complexity)
	} else {
		result.Known++
	}
	// Hints are refreshed even for already-tracked components so the graph
	// builder always works from the current source text.
	result.Hints[id] = append([]string(nil), disc.Hints...)
	result.Roots[id] = filepath.Clean(root)
}

// Describe renders a short human-readable summary of a pass.
func (r *Result) Describe() string {
	return fmt.Sprintf("%d new, %d already tracked, %d files skipped", r.Added, r.Known, r.Failed)
}
