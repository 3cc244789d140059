// File path: internal/analyzer/angular.go
package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/component"
)

type angularAnalyzer struct{}

var (
	angularClassRe    = regexp.MustCompile(`export\s+class\s+([A-Z][A-Za-z0-9_]*)`)
	angularSelectorRe = regexp.MustCompile(`selector\s*:\s*['"]([a-z][a-z0-9-]*)['"]`)
	angularTagRe      = regexp.MustCompile(`<([a-z][a-z0-9]*(?:-[a-z0-9]+)+)[\s/>]`)
)

func (angularAnalyzer) Type() component.Type { return component.TypeAngular }

func (angularAnalyzer) Match(path string, data []byte) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".component.ts") {
		return true
	}
	if !strings.HasSuffix(lower, ".ts") && !strings.HasSuffix(lower, ".html") {
		return false
	}
	source := string(data)
	return strings.Contains(source, "@Component(") ||
		strings.Contains(source, "@angular/core")
}

func (a angularAnalyzer) Parse(ctx context.Context, path string, data []byte) ([]Discovered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := string(data)
	name := ""
	if m := angularClassRe.FindStringSubmatch(source); m != nil {
		name = m[1]
	} else if m := angularSelectorRe.FindStringSubmatch(source); m != nil {
		name = pascalFromFile(m[1]+".ts") + "Component"
	}
	if name == "" {
		name = pascalFromFile(path)
	}
	hints := importHints(source)
	// Dasherized selector usage is recorded both verbatim and as the
	// conventional class name (app-user-card -> AppUserCardComponent)
	// so edge resolution can match either registration style.
	for _, m := range angularTagRe.FindAllStringSubmatch(source, -1) {
		hints = append(hints, m[1])
		hints = append(hints, pascalFromFile(m[1]+".ts")+"Component")
	}
	return []Discovered{{
		Name:   name,
		Path:   path,
		Source: source,
		Hints:  dedupeHints(hints, name),
	}}, nil
}
