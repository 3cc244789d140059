// File path: internal/analyzer/hints.go
package analyzer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	defaultImportRe = regexp.MustCompile(`import\s+([A-Z][A-Za-z0-9_]*)\s+from\s+['"]`)
	namedImportRe   = regexp.MustCompile(`import\s*\{([^}]+)\}\s*from\s+['"]`)
)

// importHints pulls component-like names out of ES import statements. Only
// identifiers starting with an uppercase letter are kept; lowercase imports
// are almost always libraries or helpers.
func importHints(source string) []string {
	var hints []string
	for _, m := range defaultImportRe.FindAllStringSubmatch(source, -1) {
		hints = append(hints, m[1])
	}
	for _, m := range namedImportRe.FindAllStringSubmatch(source, -1) {
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(part)
			if idx := strings.Index(name, " as "); idx >= 0 {
				name = strings.TrimSpace(name[:idx])
			}
			if name == "" || name[0] < 'A' || name[0] > 'Z' {
				continue
			}
			hints = append(hints, name)
		}
	}
	return hints
}

// tagHints pulls element names used in markup, e.g. <UserCard ...> or
// <app-user-card>.
func tagHints(source string, re *regexp.Regexp) []string {
	var hints []string
	for _, m := range re.FindAllStringSubmatch(source, -1) {
		hints = append(hints, m[1])
	}
	return hints
}

// dedupeHints trims, drops empties and self-references, and sorts the hint
// list so analyzer output is deterministic.
func dedupeHints(hints []string, self string) []string {
	seen := make(map[string]struct{}, len(hints))
	out := make([]string, 0, len(hints))
	selfKey := foldName(self)
	for _, h := range hints {
		trimmed := strings.TrimSpace(h)
		if trimmed == "" {
			continue
		}
		key := foldName(trimmed)
		if key == "" || key == selfKey {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// foldName reduces a component name or tag to a comparable key: lowercase
// with separators stripped, so UserCard, user-card and user_card all fold to
// the same value.
func foldName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32)
		}
	}
	return b.String()
}

// FoldName exposes the hint key normalization for dependency resolution.
func FoldName(name string) string { return foldName(name) }

// pascalFromFile derives a PascalCase component name from a file path, e.g.
// user-card.vue -> UserCard.
func pascalFromFile(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.TrimSuffix(stem, ".component")
	parts := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		if len(part) > 1 {
			b.WriteString(part[1:])
		}
	}
	return b.String()
}
