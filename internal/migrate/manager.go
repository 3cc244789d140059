// File path: internal/migrate/manager.go
package migrate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frameshift-dev/frameshift/internal/advisor"
	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/catalog"
	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/depgraph"
	"github.com/frameshift-dev/frameshift/internal/discovery"
	"github.com/frameshift-dev/frameshift/internal/generator"
	"github.com/frameshift-dev/frameshift/internal/planner"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// Manager drives the migration: discovery, graph building, planning and
// batch execution against one tracker store. A run mutex serializes all
// mutating operations, so concurrent API callers cannot race the same
// component through its status checks. Components are processed strictly
// one at a time and the store is persisted after every status transition,
// so the process can be killed between components and resumed without
// losing progress.
type Manager struct {
	mu         sync.Mutex
	cfg        Config
	store      *tracker.Store
	analyzers  *analyzer.Registry
	generators *generator.Registry
	catalog    *catalog.Store
	advisor    advisor.Advisor
}

// Options overrides the manager's collaborators; zero fields fall back to
// the built-in registries. Catalog stays disabled when nil.
type Options struct {
	Analyzers  *analyzer.Registry
	Generators *generator.Registry
	Catalog    *catalog.Store
	Advisor    advisor.Advisor
}

func NewManager(cfg Config, store *tracker.Store, opts Options) *Manager {
	m := &Manager{
		cfg:        cfg,
		store:      store,
		analyzers:  opts.Analyzers,
		generators: opts.Generators,
		catalog:    opts.Catalog,
		advisor:    opts.Advisor,
	}
	if m.analyzers == nil {
		m.analyzers = analyzer.Default()
	}
	if m.generators == nil {
		m.generators = generator.Default()
	}
	if m.advisor == nil {
		m.advisor = advisor.LocalAdvisor{}
	}
	return m
}

// Store exposes the tracker backing this manager.
func (m *Manager) Store() *tracker.Store { return m.store }

// BatchResult summarizes one executed batch.
type BatchResult struct {
	Planned   int  `json:"planned"`
	Completed int  `json:"completed"`
	Failed    int  `json:"failed"`
	Skipped   int  `json:"skipped"`
	Done      bool `json:"done"`
}

// RunResult summarizes a full run to completion.
type RunResult struct {
	Batches   int `json:"batches"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Discover walks the configured source roots, registers new components, and
// (when enabled) rebuilds the dependency graph from the hints gathered on
// the way. Components left InProgress by an unclean shutdown are reset to
// NotStarted first so they get re-planned.
func (m *Manager) Discover(ctx context.Context) (*discovery.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger := common.Logger()
	if reset := m.store.ResetStale(); len(reset) > 0 {
		logger.Warn("migrate: stale in_progress components reset", "ids", reset)
	}
	result, err := discovery.New(m.analyzers, m.store).Run(ctx, m.cfg.SourceRoots)
	if err != nil {
		return nil, err
	}
	if m.cfg.AutoDetectDependencies {
		if err := depgraph.NewBuilder(m.store).Rebuild(result.Hints, result.Roots); err != nil {
			return nil, fmt.Errorf("rebuild dependency graph: %w", err)
		}
	}
	if err := m.store.Save(); err != nil {
		return nil, err
	}
	m.syncCatalog(ctx)
	return result, nil
}

// Plan returns the current migration plan.
func (m *Manager) Plan() []component.Metadata {
	return planner.Plan(m.store, m.cfg.Factors)
}

// MigrateComponent migrates a single component by ID. An unknown ID is a
// not-found error with no store mutation; a component past NotStarted is
// refused so the state machine never moves backward. A generation failure is
// recorded as Failed or Skipped per SkipOnError and returned to the caller
// either way.
func (m *Manager) MigrateComponent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migrateComponent(ctx, id)
}

func (m *Manager) migrateComponent(ctx context.Context, id string) error {
	meta, ok := m.store.Get(id)
	if !ok {
		return fmt.Errorf("migrate %s: %w", id, tracker.ErrNotFound)
	}
	if !meta.Status.Is(component.PhaseNotStarted) {
		return fmt.Errorf("migrate %s: component is %s, expected not_started", id, meta.Status.Phase)
	}
	logger := common.Logger()
	logger.Info("migrate: starting component", "id", id, "name", meta.Name, "type", meta.Type)

	if err := m.transition(ctx, id, component.InProgress(), ""); err != nil {
		return err
	}
	migratedPath, migErr := m.generate(ctx, meta)
	if migErr != nil {
		return m.recordFailure(ctx, meta, migErr)
	}
	if err := m.store.UpdateMigratedPath(id, migratedPath); err != nil {
		return err
	}
	if err := m.transition(ctx, id, component.Completed(), migratedPath); err != nil {
		return err
	}
	logger.Info("migrate: component completed", "id", id, "name", meta.Name, "path", migratedPath)
	return nil
}

// generate re-parses the component's current source and emits the target
// file, returning the output path.
func (m *Manager) generate(ctx context.Context, meta component.Metadata) (string, error) {
	found, err := m.analyzers.ParseFile(ctx, meta.Type, meta.FilePath)
	if err != nil {
		return "", err
	}
	gen, ok := m.generators.For(meta.Type)
	if !ok {
		return "", fmt.Errorf("no generator registered for type %q", meta.Type)
	}
	for _, disc := range found {
		if disc.Name == meta.Name || len(found) == 1 {
			return gen.Generate(disc, m.cfg.OutputDir)
		}
	}
	return "", fmt.Errorf("component %s not found in %s", meta.Name, meta.FilePath)
}

func (m *Manager) recordFailure(ctx context.Context, meta component.Metadata, cause error) error {
	status := component.Failed(cause.Error())
	if m.cfg.SkipOnError {
		status = component.Skipped(cause.Error())
	}
	common.Logger().Error("migrate: component failed",
		"id", meta.ID, "name", meta.Name, "phase", status.Phase, "error", cause)
	if advice, err := m.advisor.Advise(ctx, meta, cause.Error()); err == nil && advice != "" {
		if err := m.store.AppendNote(meta.ID, advice); err != nil {
			return err
		}
	} else if err != nil {
		common.Logger().Warn("migrate: advisor unavailable", "id", meta.ID, "error", err)
	}
	if err := m.transition(ctx, meta.ID, status, cause.Error()); err != nil {
		return err
	}
	return fmt.Errorf("migrate %s: %w", meta.ID, cause)
}

// transition applies a status change, persists the store immediately, and
// mirrors the change into the catalog.
func (m *Manager) transition(ctx context.Context, id string, status component.Status, detail string) error {
	if err := m.store.UpdateStatus(id, status); err != nil {
		return err
	}
	if err := m.store.Save(); err != nil {
		return err
	}
	if m.catalog != nil {
		if err := m.catalog.RecordEvent(ctx, id, string(status.Phase), detail); err != nil {
			common.Logger().Warn("migrate: catalog event dropped", "id", id, "error", err)
		}
		if meta, ok := m.store.Get(id); ok {
			if err := m.catalog.SyncComponent(ctx, meta); err != nil {
				common.Logger().Warn("migrate: catalog sync dropped", "id", id, "error", err)
			}
		}
	}
	return nil
}

func (m *Manager) syncCatalog(ctx context.Context) {
	if m.catalog == nil {
		return
	}
	for _, meta := range m.store.All() {
		if err := m.catalog.SyncComponent(ctx, meta); err != nil {
			common.Logger().Warn("migrate: catalog sync dropped", "id", meta.ID, "error", err)
			return
		}
	}
}

// MigrateBatch executes up to BatchSize components off the front of the
// current plan. With SkipOnError set, one failing component never stops the
// batch; without it, the first failure aborts and propagates. Store save
// failures are never absorbed into a skip: a tracker that cannot persist
// makes every recorded status a lie, so the batch aborts immediately.
func (m *Manager) MigrateBatch(ctx context.Context) (*BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migrateBatch(ctx)
}

func (m *Manager) migrateBatch(ctx context.Context) (*BatchResult, error) {
	plan := m.Plan()
	if len(plan) == 0 {
		return &BatchResult{Done: true}, nil
	}
	batch := plan
	if len(batch) > m.cfg.BatchSize {
		batch = batch[:m.cfg.BatchSize]
	}
	result := &BatchResult{Planned: len(batch)}
	for _, meta := range batch {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		err := m.migrateComponent(ctx, meta.ID)
		if err == nil {
			result.Completed++
			continue
		}
		if errors.Is(err, tracker.ErrNotFound) || errors.Is(err, tracker.ErrSave) {
			return result, err
		}
		if m.cfg.SkipOnError {
			result.Skipped++
			continue
		}
		result.Failed++
		return result, err
	}
	return result, nil
}

// Run executes batches until the plan is empty. Every batch strictly shrinks
// the NotStarted set, so the loop always terminates; interrupting it between
// components is safe and a re-run resumes from the persisted state.
func (m *Manager) Run(ctx context.Context) (*RunResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := &RunResult{}
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch, err := m.migrateBatch(ctx)
		total.Completed += batch.Completed
		total.Failed += batch.Failed
		total.Skipped += batch.Skipped
		if err != nil {
			return total, err
		}
		if batch.Done {
			common.Logger().Info("migrate: run complete",
				"batches", total.Batches,
				"completed", total.Completed,
				"failed", total.Failed,
				"skipped", total.Skipped)
			return total, nil
		}
		total.Batches++
	}
}
