// File path: internal/analyzer/ember.go
package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/component"
)

type emberAnalyzer struct{}

var (
	emberClassRe    = regexp.MustCompile(`export\s+default\s+class\s+([A-Z][A-Za-z0-9_]*)`)
	emberCurlyTagRe = regexp.MustCompile(`\{\{#?([A-Za-z][A-Za-z0-9]*(?:[-/][A-Za-z0-9]+)+)`)
	emberAngleRe    = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*(?:::[A-Z][A-Za-z0-9]*)*)[\s/>]`)
	emberHelperRe   = regexp.MustCompile(`\{\{component\s+['"]([A-Za-z][A-Za-z0-9/-]*)['"]`)
)

func (emberAnalyzer) Type() component.Type { return component.TypeEmber }

func (emberAnalyzer) Match(path string, data []byte) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".hbs") {
		return true
	}
	if !strings.HasSuffix(lower, ".js") && !strings.HasSuffix(lower, ".ts") {
		return false
	}
	source := string(data)
	return strings.Contains(source, "@ember/component") ||
		strings.Contains(source, "@glimmer/component") ||
		strings.Contains(source, "ember-cli")
}

func (a emberAnalyzer) Parse(ctx context.Context, path string, data []byte) ([]Discovered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := string(data)
	name := ""
	if m := emberClassRe.FindStringSubmatch(source); m != nil {
		name = m[1]
	}
	if name == "" {
		name = pascalFromFile(path)
	}
	hints := importHints(source)
	hints = append(hints, tagHints(source, emberAngleRe)...)
	// Curly invocations like {{user-card}} or {{#nested/list-item}} only
	// count when the name is dasherized or nested, so plain helpers such
	// as {{if}} and {{each}} stay out of the hint set.
	for _, m := range emberCurlyTagRe.FindAllStringSubmatch(source, -1) {
		hints = append(hints, m[1])
	}
	for _, m := range emberHelperRe.FindAllStringSubmatch(source, -1) {
		hints = append(hints, m[1])
	}
	return []Discovered{{
		Name:   name,
		Path:   path,
		Source: source,
		Hints:  dedupeHints(hints, name),
	}}, nil
}
