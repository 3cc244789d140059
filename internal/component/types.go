// File path: internal/component/types.go
package component

import (
	"strings"
	"time"
)

// Type tags the source technology a component was authored in. The well-known
// frameworks get constants; anything else travels as its raw lowercase name so
// new analyzers can be registered without touching this package.
type Type string

const (
	TypeReact   Type = "react"
	TypeEmber   Type = "ember"
	TypeVue     Type = "vue"
	TypeAngular Type = "angular"
	TypeRuby    Type = "ruby"
)

// Normalize returns the canonical lowercase form of a type tag.
func (t Type) Normalize() Type {
	return Type(strings.ToLower(strings.TrimSpace(string(t))))
}

// Phase enumerates the lifecycle states of a component migration.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
	PhaseSkipped    Phase = "skipped"
)

// Status is the authoritative lifecycle state of a component. Failed and
// Skipped carry the reason that put the component there.
type Status struct {
	Phase  Phase  `json:"phase"`
	Reason string `json:"reason,omitempty"`
}

func NotStarted() Status          { return Status{Phase: PhaseNotStarted} }
func InProgress() Status          { return Status{Phase: PhaseInProgress} }
func Completed() Status           { return Status{Phase: PhaseCompleted} }
func Failed(reason string) Status { return Status{Phase: PhaseFailed, Reason: reason} }
func Skipped(reason string) Status {
	return Status{Phase: PhaseSkipped, Reason: reason}
}

// Is reports whether the status is in the given phase.
func (s Status) Is(phase Phase) bool { return s.Phase == phase }

// Terminal reports whether the status is an end state for this run.
func (s Status) Terminal() bool {
	switch s.Phase {
	case PhaseCompleted, PhaseFailed, PhaseSkipped:
		return true
	}
	return false
}

// Metadata is the central record tracked per discovered component. ID, Name,
// FilePath and Type are immutable after creation; everything else is mutated
// by the graph builder and the batch executor.
type Metadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FilePath     string    `json:"file_path"`
	Type         Type      `json:"component_type"`
	Status       Status    `json:"status"`
	Complexity   int       `json:"complexity"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Dependents   []string  `json:"dependents,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
	MigratedPath string    `json:"migrated_path,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// Clone returns a deep copy so callers can hold snapshots without aliasing
// the store's slices.
func (m Metadata) Clone() Metadata {
	out := m
	if len(m.Dependencies) > 0 {
		out.Dependencies = append([]string(nil), m.Dependencies...)
	}
	if len(m.Dependents) > 0 {
		out.Dependents = append([]string(nil), m.Dependents...)
	}
	return out
}
