// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frameshift-dev/frameshift/internal/migrate"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

func newTestServer(t *testing.T, sources map[string]string) (*Server, *migrate.Manager) {
	t.Helper()
	root := t.TempDir()
	for name, body := range sources {
		path := filepath.Join(root, "src", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	dir := t.TempDir()
	cfg := migrate.DefaultConfig()
	cfg.StorePath = filepath.Join(dir, "migration_tracker.json")
	cfg.OutputDir = filepath.Join(dir, "generated")
	cfg.SourceRoots = []string{root}

	store, err := tracker.Load(cfg.StorePath)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	manager := migrate.NewManager(cfg, store, migrate.Options{})
	server, err := NewServer(manager, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server, manager
}

func doJSON(t *testing.T, server *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t, nil)
	rec := doJSON(t, server, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDiscoverAndStatusFlow(t *testing.T) {
	server, _ := newTestServer(t, map[string]string{
		"UserCard.jsx": "import React from 'react';\nexport default function UserCard() { return null; }\n",
		"NavBar.jsx":   "import React from 'react';\nexport default function NavBar() { return null; }\n",
	})

	rec := doJSON(t, server, http.MethodPost, "/v1/discover", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("discover = %d: %s", rec.Code, rec.Body.String())
	}
	var discoverResp struct {
		Added int `json:"added"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &discoverResp); err != nil {
		t.Fatalf("decode discover: %v", err)
	}
	if discoverResp.Added != 2 {
		t.Fatalf("added = %d, want 2", discoverResp.Added)
	}

	rec = doJSON(t, server, http.MethodGet, "/v1/components", "")
	var listResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode components: %v", err)
	}
	if listResp.Count != 2 {
		t.Fatalf("count = %d, want 2", listResp.Count)
	}

	rec = doJSON(t, server, http.MethodGet, "/v1/plan", "")
	var planResp struct {
		Done bool `json:"done"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &planResp); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if planResp.Done {
		t.Fatal("plan reported done before migration")
	}
}

func TestMigrateBatchAndReport(t *testing.T) {
	server, manager := newTestServer(t, map[string]string{
		"Widget.jsx": "import React from 'react';\nexport default function Widget() { return null; }\n",
	})
	if rec := doJSON(t, server, http.MethodPost, "/v1/discover", ""); rec.Code != http.StatusOK {
		t.Fatalf("discover = %d", rec.Code)
	}

	rec := doJSON(t, server, http.MethodPost, "/v1/migrate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("migrate = %d: %s", rec.Code, rec.Body.String())
	}
	var batch migrate.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &batch); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if batch.Completed != 1 {
		t.Fatalf("batch = %+v, want one completed", batch)
	}
	if stats := manager.Store().Stats(); stats.Completed != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	rec = doJSON(t, server, http.MethodGet, "/v1/report", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# Migration Report") {
		t.Fatalf("report = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Widget") {
		t.Fatal("report missing migrated component")
	}
}

func TestMigrateUnknownComponent(t *testing.T) {
	server, _ := newTestServer(t, nil)
	rec := doJSON(t, server, http.MethodPost, "/v1/migrate", `{"id":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestComponentNotFound(t *testing.T) {
	server, _ := newTestServer(t, nil)
	rec := doJSON(t, server, http.MethodGet, "/v1/components/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEventsWithoutCatalog(t *testing.T) {
	server, _ := newTestServer(t, nil)
	rec := doJSON(t, server, http.MethodGet, "/v1/events", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
