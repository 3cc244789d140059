// File path: internal/report/report.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/frameshift-dev/frameshift/internal/component"
	"github.com/frameshift-dev/frameshift/internal/tracker"
)

// Markdown renders the current migration state as a markdown report:
// progress counts, completed and failed component tables, and the dependency
// graph as a mermaid diagram. It reads the store and changes nothing.
func Markdown(store *tracker.Store) string {
	var b strings.Builder
	b.WriteString("# Migration Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	writeSummary(&b, store.Stats())
	writeCompleted(&b, store.ByPhase(component.PhaseCompleted))
	writeFailed(&b, store.ByPhase(component.PhaseFailed))
	writeSkipped(&b, store.ByPhase(component.PhaseSkipped))
	writeGraph(&b, store.All())
	return b.String()
}

// Progress renders the one-paragraph progress summary used after each batch.
func Progress(stats tracker.Stats) string {
	return fmt.Sprintf(
		"Migration progress: %d/%d completed (%.1f%%), %d in progress, %d failed, %d skipped, %d not started",
		stats.Completed, stats.Total, stats.CompletionPercent,
		stats.InProgress, stats.Failed, stats.Skipped, stats.NotStarted)
}

func writeSummary(b *strings.Builder, stats tracker.Stats) {
	b.WriteString("## Progress Summary\n\n")
	fmt.Fprintf(b, "%s\n\n", Progress(stats))
}

func writeCompleted(b *strings.Builder, completed []component.Metadata) {
	b.WriteString("## Completed Components\n\n")
	if len(completed) == 0 {
		b.WriteString("No components have been completed yet.\n\n")
		return
	}
	b.WriteString("| Component | Type | Original Path | Migrated Path |\n")
	b.WriteString("|-----------|------|---------------|---------------|\n")
	for _, meta := range completed {
		migrated := meta.MigratedPath
		if migrated == "" {
			migrated = "N/A"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			meta.Name, typeLabel(meta.Type), meta.FilePath, migrated)
	}
	b.WriteString("\n")
}

func writeFailed(b *strings.Builder, failed []component.Metadata) {
	b.WriteString("## Failed Components\n\n")
	if len(failed) == 0 {
		b.WriteString("No components have failed migration.\n\n")
		return
	}
	b.WriteString("| Component | Type | Error |\n")
	b.WriteString("|-----------|------|-------|\n")
	for _, meta := range failed {
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			meta.Name, typeLabel(meta.Type), cell(meta.Status.Reason))
	}
	b.WriteString("\n")
}

func writeSkipped(b *strings.Builder, skipped []component.Metadata) {
	if len(skipped) == 0 {
		return
	}
	b.WriteString("## Skipped Components\n\n")
	b.WriteString("| Component | Type | Reason |\n")
	b.WriteString("|-----------|------|--------|\n")
	for _, meta := range skipped {
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			meta.Name, typeLabel(meta.Type), cell(meta.Status.Reason))
	}
	b.WriteString("\n")
}

func writeGraph(b *strings.Builder, all []component.Metadata) {
	b.WriteString("## Dependency Graph\n\n")
	b.WriteString("```mermaid\ngraph TD;\n")
	names := make(map[string]string, len(all))
	for _, meta := range all {
		names[meta.ID] = meta.Name
	}
	for _, meta := range all {
		for _, dep := range meta.Dependencies {
			target, ok := names[dep]
			if !ok {
				continue
			}
			fmt.Fprintf(b, "    %s[%s] --> %s[%s];\n", meta.ID, meta.Name, dep, target)
		}
	}
	b.WriteString("```\n")
}

func typeLabel(typ component.Type) string {
	switch typ.Normalize() {
	case component.TypeReact:
		return "React"
	case component.TypeEmber:
		return "Ember"
	case component.TypeVue:
		return "Vue"
	case component.TypeAngular:
		return "Angular"
	case component.TypeRuby:
		return "Ruby"
	default:
		return string(typ)
	}
}

// cell keeps multi-line reasons from breaking the markdown table.
func cell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}
