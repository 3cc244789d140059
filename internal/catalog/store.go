// File path: internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/frameshift-dev/frameshift/internal/component"
)

// Store is the SQLite migration catalog: a queryable audit trail of every
// status transition plus the latest snapshot of each component. The JSON
// tracker file stays the source of truth; the catalog exists for inspection
// and reporting, so catalog writes are best-effort from the executor's point
// of view.
type Store struct {
	db *sqlx.DB
}

// Event is one recorded migration action.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	ComponentID string    `db:"component_id" json:"component_id"`
	Action      string    `db:"action" json:"action"`
	Detail      string    `db:"detail" json:"detail,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Open connects to the SQLite catalog at path, creating and migrating the
// schema on first use.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	// journal_mode must be set per-connection and cannot change inside a
	// transaction, so it lives in the DSN rather than schemaStatements.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)", abs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin catalog migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog migration: %w", err)
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS components (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL,
                file_path TEXT NOT NULL,
                component_type TEXT NOT NULL,
                phase TEXT NOT NULL,
                reason TEXT,
                complexity INTEGER NOT NULL DEFAULT 1,
                migrated_path TEXT,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS events (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                component_id TEXT NOT NULL,
                action TEXT NOT NULL,
                detail TEXT,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE INDEX IF NOT EXISTS idx_events_component ON events(component_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_components_phase ON components(phase);`,
}

// SyncComponent upserts the latest snapshot of a component.
func (s *Store) SyncComponent(ctx context.Context, meta component.Metadata) error {
	const query = `INSERT INTO components
                (id, name, file_path, component_type, phase, reason, complexity, migrated_path, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
                ON CONFLICT(id) DO UPDATE SET
                        phase = excluded.phase,
                        reason = excluded.reason,
                        complexity = excluded.complexity,
                        migrated_path = excluded.migrated_path,
                        updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		meta.ID, meta.Name, meta.FilePath, string(meta.Type.Normalize()),
		string(meta.Status.Phase), meta.Status.Reason, meta.Complexity,
		meta.MigratedPath, meta.LastUpdated.UTC())
	if err != nil {
		return fmt.Errorf("sync component %s: %w", meta.ID, err)
	}
	return nil
}

// RecordEvent appends one audit entry for a component.
func (s *Store) RecordEvent(ctx context.Context, componentID, action, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (component_id, action, detail, created_at) VALUES (?, ?, ?, ?)`,
		componentID, action, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record event %s/%s: %w", componentID, action, err)
	}
	return nil
}

// Events returns the most recent audit entries, newest first. componentID
// narrows the listing to one component when non-empty.
func (s *Store) Events(ctx context.Context, componentID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows []Event
		err  error
	)
	if componentID != "" {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, component_id, action, COALESCE(detail, '') AS detail, created_at
                         FROM events WHERE component_id = ? ORDER BY id DESC LIMIT ?`,
			componentID, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, component_id, action, COALESCE(detail, '') AS detail, created_at
                         FROM events ORDER BY id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return rows, nil
}

// PhaseCounts aggregates snapshot rows per lifecycle phase.
func (s *Store) PhaseCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Phase string `db:"phase"`
		Count int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT phase, COUNT(*) AS count FROM components GROUP BY phase`)
	if err != nil {
		return nil, fmt.Errorf("count phases: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Phase] = row.Count
	}
	return out, nil
}
