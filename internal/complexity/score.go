// File path: internal/complexity/score.go
package complexity

import (
	"strings"

	"github.com/frameshift-dev/frameshift/internal/component"
)

// Score rates how much effort a component is likely to take to migrate.
// The result is deterministic for a given source text and always lands
// in [1,100]. Adding lines, declarations, or branches to a source never
// lowers its score.
func Score(source string, typ component.Type) int {
	score := 1
	score += len(source) / 1000
	score += lineCount(source) / 50
	score += methodCount(source, typ)
	score += stateCount(source, typ)
	score += conditionalCount(source) / 5
	if score > 100 {
		score = 100
	}
	return score
}

func lineCount(source string) int {
	if source == "" {
		return 0
	}
	return strings.Count(source, "\n") + 1
}

func methodCount(source string, typ component.Type) int {
	switch typ.Normalize() {
	case component.TypeReact:
		return strings.Count(source, "function") + strings.Count(source, "=>")
	case component.TypeEmber:
		return strings.Count(source, "actions:")*3 + strings.Count(source, "function")
	case component.TypeVue:
		return strings.Count(source, "methods:")*3 + strings.Count(source, "function")
	case component.TypeAngular:
		return strings.Count(source, "ngOn")*2 + strings.Count(source, "function")
	default:
		return strings.Count(source, "function")
	}
}

func stateCount(source string, typ component.Type) int {
	switch typ.Normalize() {
	case component.TypeReact:
		return strings.Count(source, "useState")*2 + strings.Count(source, "useReducer")*3
	case component.TypeVue:
		return strings.Count(source, "data:")*2 + strings.Count(source, "computed:")*2
	case component.TypeAngular:
		return strings.Count(source, "@Input") + strings.Count(source, "@Output")
	default:
		return 0
	}
}

func conditionalCount(source string) int {
	return strings.Count(source, "if") + strings.Count(source, "? :")*2
}
