// File path: internal/generator/generator.go
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/component"
)

// Generator emits target-framework source for one parsed component. The
// returned path is where the output landed; generation is deterministic for
// a given component and output root.
type Generator interface {
	Type() component.Type
	Generate(disc analyzer.Discovered, outputRoot string) (string, error)
}

// Registry maps component types to their generators.
type Registry struct {
	generators map[component.Type]Generator
}

func NewRegistry(generators ...Generator) *Registry {
	reg := &Registry{generators: make(map[component.Type]Generator, len(generators))}
	for _, g := range generators {
		if g == nil {
			continue
		}
		reg.generators[g.Type().Normalize()] = g
	}
	return reg
}

// Default returns the built-in Leptos generators, one per source framework.
func Default() *Registry {
	return NewRegistry(
		&leptosGenerator{typ: component.TypeReact, origin: "React"},
		&leptosGenerator{typ: component.TypeEmber, origin: "Ember"},
		&leptosGenerator{typ: component.TypeVue, origin: "Vue"},
		&leptosGenerator{typ: component.TypeAngular, origin: "Angular"},
	)
}

// For returns the generator registered for the given component type.
func (r *Registry) For(typ component.Type) (Generator, bool) {
	g, ok := r.generators[typ.Normalize()]
	return g, ok
}

// OutputPath derives the target file for a component: the source file stem,
// snake_cased, under components/<type>/ inside the output root.
func OutputPath(outputRoot string, typ component.Type, sourcePath string) string {
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	stem = strings.TrimSuffix(stem, ".component")
	return filepath.Join(outputRoot, "components", string(typ.Normalize()), snakeCase(stem)+".rs")
}

func writeOutput(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write generated component: %w", err)
	}
	return nil
}

// snakeCase converts UserCard, user-card and user_card alike to user_card.
func snakeCase(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case r == '-' || r == '.' || r == ' ' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
