// File path: internal/generator/generator_test.go
package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frameshift-dev/frameshift/internal/analyzer"
	"github.com/frameshift-dev/frameshift/internal/component"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"UserCard":      "user_card",
		"user-card":     "user_card",
		"user_card":     "user_card",
		"APIClient":     "apiclient",
		"NavBar2":       "nav_bar2",
		"user.profile":  "user_profile",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Fatalf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("out", component.TypeAngular, "src/app/user-profile.component.ts")
	want := filepath.Join("out", "components", "angular", "user_profile.rs")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}
}

func TestGenerateWritesScaffold(t *testing.T) {
	out := t.TempDir()
	reg := Default()
	gen, ok := reg.For(component.TypeReact)
	if !ok {
		t.Fatal("no react generator")
	}
	disc := analyzer.Discovered{
		Name:   "UserCard",
		Path:   "src/UserCard.jsx",
		Source: "export default function UserCard() {}",
		Hints:  []string{"Avatar", "Badge"},
	}
	path, err := gen.Generate(disc, out)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if path != filepath.Join(out, "components", "react", "user_card.rs") {
		t.Fatalf("unexpected output path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	for _, want := range []string{"pub fn UserCard()", "use leptos::*;", "Avatar, Badge", "src/UserCard.jsx"} {
		if !strings.Contains(content, want) {
			t.Fatalf("output missing %q:\n%s", want, content)
		}
	}

	// Deterministic: a second run produces identical bytes.
	if _, err := gen.Generate(disc, out); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	again, _ := os.ReadFile(path)
	if string(again) != content {
		t.Fatal("regeneration changed output")
	}
}

func TestGenerateEmptyName(t *testing.T) {
	gen, _ := Default().For(component.TypeVue)
	if _, err := gen.Generate(analyzer.Discovered{Path: "x.vue"}, t.TempDir()); err == nil {
		t.Fatal("expected error for empty name")
	}
}
