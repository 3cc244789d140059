// File path: internal/tracker/store.go
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
)

// ErrNotFound is returned when an operation references an unknown component.
var ErrNotFound = errors.New("component not found")

// ErrSave wraps every Save failure. Callers use it to tell a broken state
// file apart from a per-component migration error: the former must stop a
// run, the latter is recorded on the component and the run continues.
var ErrSave = errors.New("store save failed")

// Stats aggregates per-phase counts across the store.
type Stats struct {
	Total             int     `json:"total_components"`
	NotStarted        int     `json:"not_started"`
	InProgress        int     `json:"in_progress"`
	Completed         int     `json:"completed"`
	Failed            int     `json:"failed"`
	Skipped           int     `json:"skipped"`
	CompletionPercent float64 `json:"completion_percentage"`
}

// Store holds the component metadata map and persists it as a single JSON
// document. All mutations happen under the write lock; Save holds the same
// lock through the final rename so a concurrent API reader never observes a
// half-applied batch and overlapping saves cannot reorder snapshots.
type Store struct {
	mu   sync.RWMutex
	path string

	components map[string]component.Metadata
	startedAt  time.Time
	updatedAt  time.Time
}

type storeDocument struct {
	StartedAt   time.Time                     `json:"started_at"`
	LastUpdated time.Time                     `json:"last_updated"`
	Stats       Stats                         `json:"stats"`
	Components  map[string]component.Metadata `json:"components"`
}

// Load reads the store file at path. A missing file yields an empty store; a
// corrupt file is logged and also yields an empty store so a damaged state
// file never blocks a fresh run.
func Load(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path required")
	}
	store := &Store{
		path:       path,
		components: make(map[string]component.Metadata),
		startedAt:  time.Now().UTC(),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		common.Logger().Warn("tracker: state file unreadable, starting empty", "path", path, "error", err)
		return store, nil
	}
	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		common.Logger().Warn("tracker: state file corrupt, starting empty", "path", path, "error", err)
		return store, nil
	}
	if !doc.StartedAt.IsZero() {
		store.startedAt = doc.StartedAt
	}
	store.updatedAt = doc.LastUpdated
	for id, meta := range doc.Components {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if meta.ID == "" {
			meta.ID = id
		}
		if meta.Status.Phase == "" {
			meta.Status = component.NotStarted()
		}
		store.components[id] = meta
	}
	return store, nil
}

// Save writes the full store document to disk, via a temp file and rename so
// an interrupted save never corrupts a previously valid file. The lock is
// held through the rename: two overlapping saves could otherwise move an
// older snapshot over a newer one. Failures are wrapped in ErrSave.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

func (s *Store) saveLocked() error {
	s.updatedAt = time.Now().UTC()
	doc := storeDocument{
		StartedAt:   s.startedAt,
		LastUpdated: s.updatedAt,
		Stats:       s.statsLocked(),
		Components:  make(map[string]component.Metadata, len(s.components)),
	}
	for id, meta := range s.components {
		doc.Components[id] = meta.Clone()
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize store: %w", err)
	}
	return nil
}

// Path returns the file backing this store.
func (s *Store) Path() string { return s.path }

// Add inserts a new component. It returns false and leaves the store
// untouched when the ID is already tracked so re-discovery never clobbers
// recorded progress.
func (s *Store) Add(meta component.Metadata) bool {
	if strings.TrimSpace(meta.ID) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.components[meta.ID]; exists {
		return false
	}
	if meta.Status.Phase == "" {
		meta.Status = component.NotStarted()
	}
	if meta.LastUpdated.IsZero() {
		meta.LastUpdated = time.Now().UTC()
	}
	s.components[meta.ID] = meta.Clone()
	return true
}

// Get returns a snapshot of a single component.
func (s *Store) Get(id string) (component.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.components[id]
	if !ok {
		return component.Metadata{}, false
	}
	return meta.Clone(), true
}

// Len reports the number of tracked components.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.components)
}

// All returns every component ordered by ID for deterministic iteration.
func (s *Store) All() []component.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]component.Metadata, 0, len(s.components))
	for _, meta := range s.components {
		out = append(out, meta.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByPhase returns the components currently in the given lifecycle phase,
// ordered by ID.
func (s *Store) ByPhase(phase component.Phase) []component.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []component.Metadata
	for _, meta := range s.components {
		if meta.Status.Phase == phase {
			out = append(out, meta.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateStatus transitions a component to the given status and refreshes its
// last-updated timestamp.
func (s *Store) UpdateStatus(id string, status component.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.components[id]
	if !ok {
		return fmt.Errorf("update status %s: %w", id, ErrNotFound)
	}
	meta.Status = status
	meta.LastUpdated = time.Now().UTC()
	s.components[id] = meta
	return nil
}

// UpdateMigratedPath records the emitted output location for a component.
func (s *Store) UpdateMigratedPath(id, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.components[id]
	if !ok {
		return fmt.Errorf("update migrated path %s: %w", id, ErrNotFound)
	}
	meta.MigratedPath = path
	meta.LastUpdated = time.Now().UTC()
	s.components[id] = meta
	return nil
}

// AppendNote attaches free-form text to a component, preserving prior notes.
func (s *Store) AppendNote(id, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.components[id]
	if !ok {
		return fmt.Errorf("append note %s: %w", id, ErrNotFound)
	}
	if meta.Notes == "" {
		meta.Notes = note
	} else {
		meta.Notes = meta.Notes + "\n" + note
	}
	meta.LastUpdated = time.Now().UTC()
	s.components[id] = meta
	return nil
}

// SetEdges replaces the derived dependency/dependent edge sets of a
// component. Edge slices are sorted and de-duplicated so persisted state is
// stable across runs.
func (s *Store) SetEdges(id string, dependencies, dependents []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.components[id]
	if !ok {
		return fmt.Errorf("set edges %s: %w", id, ErrNotFound)
	}
	meta.Dependencies = normalizeIDs(dependencies)
	meta.Dependents = normalizeIDs(dependents)
	s.components[id] = meta
	return nil
}

// ResetStale downgrades components stuck InProgress (left behind by an
// unclean shutdown) back to NotStarted. Migration is re-entrant, so the reset
// is safe; the affected IDs are returned so callers can log them.
func (s *Store) ResetStale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reset []string
	for id, meta := range s.components {
		if meta.Status.Phase != component.PhaseInProgress {
			continue
		}
		meta.Status = component.NotStarted()
		meta.LastUpdated = time.Now().UTC()
		if meta.Notes == "" {
			meta.Notes = "reset to not_started after unclean shutdown"
		} else {
			meta.Notes += "\nreset to not_started after unclean shutdown"
		}
		s.components[id] = meta
		reset = append(reset, id)
	}
	sort.Strings(reset)
	return reset
}

// Stats computes aggregate counts across the store.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

func (s *Store) statsLocked() Stats {
	stats := Stats{Total: len(s.components)}
	for _, meta := range s.components {
		switch meta.Status.Phase {
		case component.PhaseNotStarted:
			stats.NotStarted++
		case component.PhaseInProgress:
			stats.InProgress++
		case component.PhaseCompleted:
			stats.Completed++
		case component.PhaseFailed:
			stats.Failed++
		case component.PhaseSkipped:
			stats.Skipped++
		}
	}
	if stats.Total > 0 {
		stats.CompletionPercent = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

func normalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
