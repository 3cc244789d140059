// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/frameshift-dev/frameshift/internal/catalog"
	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/migrate"
	"github.com/frameshift-dev/frameshift/internal/report"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// Server exposes the migration orchestrator over HTTP for dashboards and
// scripting. All mutating endpoints delegate to the manager, which serializes
// store access, so handlers can run concurrently.
type Server struct {
	router  chi.Router
	manager *migrate.Manager
	catalog *catalog.Store
}

// NewServer wires the routes. catalog may be nil, in which case the audit
// endpoints report the catalog as disabled.
func NewServer(manager *migrate.Manager, cat *catalog.Store) (*Server, error) {
	if manager == nil {
		return nil, errors.New("manager required")
	}
	s := &Server{
		router:  chi.NewRouter(),
		manager: manager,
		catalog: cat,
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/components", s.handleComponents)
	s.router.Get("/v1/components/{id}", s.handleComponent)
	s.router.Get("/v1/status", s.handleStatus)
	s.router.Get("/v1/plan", s.handlePlan)
	s.router.Get("/v1/report", s.handleReport)
	s.router.Get("/v1/events", s.handleEvents)
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Post("/v1/discover", s.handleDiscover)
	s.router.Post("/v1/migrate", s.handleMigrate)
	s.router.Post("/v1/run", s.handleRun)
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	store := s.manager.Store()
	var list []component.Metadata
	if phase := strings.TrimSpace(r.URL.Query().Get("phase")); phase != "" {
		list = store.ByPhase(component.Phase(phase))
	} else {
		list = store.All()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"components": list,
		"count":      len(list),
	})
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	meta, ok := s.manager.Store().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("component %s: %w", id, tracker.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.manager.Store().Stats()
	payload := map[string]interface{}{
		"stats":    stats,
		"progress": report.Progress(stats),
	}
	if s.catalog != nil {
		if counts, err := s.catalog.PhaseCounts(r.Context()); err == nil {
			payload["catalog_phases"] = counts
		} else {
			common.Logger().Warn("status: catalog counts unavailable", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan := s.manager.Plan()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan": plan,
		"done": len(plan) == 0,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Markdown(s.manager.Store())))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("catalog disabled"))
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse limit: %w", err))
			return
		}
		limit = parsed
	}
	events, err := s.catalog.Events(r.Context(), strings.TrimSpace(r.URL.Query().Get("component")), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Discover(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":   result.Added,
		"known":   result.Known,
		"failed":  result.Failed,
		"summary": result.Describe(),
	})
}

type migrateRequest struct {
	ID string `json:"id"`
}

// handleMigrate migrates one component when an ID is supplied, otherwise
// executes the next batch. An empty body means "next batch".
func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.ID) != "" {
		if err := s.manager.MigrateComponent(r.Context(), req.ID); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, tracker.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err)
			return
		}
		meta, _ := s.manager.Store().Get(req.ID)
		writeJSON(w, http.StatusOK, meta)
		return
	}
	result, err := s.manager.MigrateBatch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
