// File path: internal/analyzer/vue.go
package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/component"
)

type vueAnalyzer struct{}

var (
	vueNameRe          = regexp.MustCompile(`name\s*:\s*['"]([A-Za-z][A-Za-z0-9-]*)['"]`)
	vueRegistrationRe  = regexp.MustCompile(`components\s*:\s*\{([^}]*)\}`)
	vueTemplateTagRe   = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9]*(?:-[A-Za-z0-9]+)+|[A-Z][A-Za-z0-9]*)[\s/>]`)
	vueRegistrationKey = regexp.MustCompile(`([A-Za-z][A-Za-z0-9-]*)`)
)

func (vueAnalyzer) Type() component.Type { return component.TypeVue }

func (vueAnalyzer) Match(path string, data []byte) bool {
	return strings.HasSuffix(strings.ToLower(path), ".vue")
}

func (a vueAnalyzer) Parse(ctx context.Context, path string, data []byte) ([]Discovered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := string(data)
	name := ""
	if m := vueNameRe.FindStringSubmatch(source); m != nil {
		name = pascalFromFile(m[1] + ".vue")
	}
	if name == "" {
		name = pascalFromFile(path)
	}
	hints := importHints(source)
	// Local registration map: components: { UserCard, 'user-list': UserList }
	if m := vueRegistrationRe.FindStringSubmatch(source); m != nil {
		for _, entry := range strings.Split(m[1], ",") {
			key := entry
			if idx := strings.Index(entry, ":"); idx >= 0 {
				key = entry[:idx]
			}
			key = strings.Trim(strings.TrimSpace(key), `'"`)
			if km := vueRegistrationKey.FindString(key); km != "" {
				hints = append(hints, km)
			}
		}
	}
	hints = append(hints, tagHints(source, vueTemplateTagRe)...)
	return []Discovered{{
		Name:   name,
		Path:   path,
		Source: source,
		Hints:  dedupeHints(hints, name),
	}}, nil
}
