// File path: internal/analyzer/react.go
package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/frameshift-dev/frameshift/internal/component"
)

type reactAnalyzer struct{}

var (
	reactComponentRe = []*regexp.Regexp{
		regexp.MustCompile(`export\s+default\s+function\s+([A-Z][A-Za-z0-9_]*)`),
		regexp.MustCompile(`function\s+([A-Z][A-Za-z0-9_]*)\s*\(`),
		regexp.MustCompile(`const\s+([A-Z][A-Za-z0-9_]*)\s*=\s*(?:\([^)]*\)|[A-Za-z0-9_]+)\s*=>`),
		regexp.MustCompile(`class\s+([A-Z][A-Za-z0-9_]*)\s+extends\s+(?:React\.)?(?:Pure)?Component`),
	}
	jsxTagRe = regexp.MustCompile(`<([A-Z][A-Za-z0-9_]*)[\s/>]`)
)

func (reactAnalyzer) Type() component.Type { return component.TypeReact }

func (reactAnalyzer) Match(path string, data []byte) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".jsx") || strings.HasSuffix(lower, ".tsx") {
		return true
	}
	if !strings.HasSuffix(lower, ".js") && !strings.HasSuffix(lower, ".ts") {
		return false
	}
	content := string(data)
	return strings.Contains(content, "from 'react'") ||
		strings.Contains(content, `from "react"`) ||
		strings.Contains(content, "React.Component")
}

func (a reactAnalyzer) Parse(ctx context.Context, path string, data []byte) ([]Discovered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := string(data)
	name := firstMatch(source, reactComponentRe)
	if name == "" {
		name = pascalFromFile(path)
	}
	if name == "" {
		return nil, fmt.Errorf("no component declaration in %s", path)
	}
	hints := append(importHints(source), tagHints(source, jsxTagRe)...)
	return []Discovered{{
		Name:   name,
		Path:   path,
		Source: source,
		Hints:  dedupeHints(hints, name),
	}}, nil
}

func firstMatch(source string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(source); m != nil {
			return m[1]
		}
	}
	return ""
}
