// File path: internal/generator/leptos.go
package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/component"
)

// leptosGenerator emits a Leptos component scaffold for one source
// component: the function shell, a kebab-cased CSS class taken from the
// original name, and a checklist of the child components the source
// referenced so the port can be completed by hand.
type leptosGenerator struct {
	typ    component.Type
	origin string
}

func (g *leptosGenerator) Type() component.Type { return g.typ }

func (g *leptosGenerator) Generate(disc analyzer.Discovered, outputRoot string) (string, error) {
	name := strings.TrimSpace(disc.Name)
	if name == "" {
		return "", fmt.Errorf("generate %s component: empty name", g.origin)
	}
	path := OutputPath(outputRoot, g.typ, disc.Path)
	if err := writeOutput(path, g.render(name, disc)); err != nil {
		return "", err
	}
	return path, nil
}

func (g *leptosGenerator) render(name string, disc analyzer.Discovered) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Migrated from %s component: %s\n", g.origin, disc.Path)
	if children := childList(disc.Hints); len(children) > 0 {
		fmt.Fprintf(&b, "// Referenced components to port: %s\n", strings.Join(children, ", "))
	}
	b.WriteString("\nuse leptos::*;\n\n")
	fmt.Fprintf(&b, "#[component]\npub fn %s() -> impl IntoView {\n", identFor(name))
	fmt.Fprintf(&b, "    view! {\n        <div class=%q>\n", snakeToKebab(snakeCase(name)))
	fmt.Fprintf(&b, "            // TODO: port %s template\n", name)
	b.WriteString("        </div>\n    }\n}\n")
	return b.String()
}

func childList(hints []string) []string {
	if len(hints) == 0 {
		return nil
	}
	out := append([]string(nil), hints...)
	sort.Strings(out)
	return out
}

// identFor turns any recorded component name into a valid PascalCase Rust
// identifier.
func identFor(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' ' || r == '/'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		if len(part) > 1 {
			b.WriteString(part[1:])
		}
	}
	if b.Len() == 0 {
		return "Component"
	}
	return b.String()
}

func snakeToKebab(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
