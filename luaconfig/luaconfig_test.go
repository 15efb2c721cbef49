package luaconfig

import (
	"testing"

	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/infer"
)

func TestParseAppliesDefaults(t *testing.T) {
	s, err := Parse([]byte(`{}`), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Runtime.ParseVersion() != infer.Latest {
		t.Fatalf("expected default runtime version Latest, got %v", s.Runtime.ParseVersion())
	}
	if got := s.Runtime.RequireLikeNames(); len(got) != 1 || got[0] != "require" {
		t.Fatalf("expected default require-like names [require], got %v", got)
	}
	if s.Workspace.Encoding != "utf-8" {
		t.Fatalf("expected default encoding utf-8, got %q", s.Workspace.Encoding)
	}
}

func TestParseReadsKnobs(t *testing.T) {
	doc := `
runtime:
  version: Lua53
  require_like_function: [require, import]
workspace:
  ignore_globs: ["**/vendor/**", "*.gen.lua"]
diagnostics:
  enable: true
  disable: [duplicate-type]
strict:
  type_call: true
`
	s, err := Parse([]byte(doc), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Runtime.ParseVersion() != infer.Lua53 {
		t.Fatalf("expected Lua53, got %v", s.Runtime.ParseVersion())
	}
	if !s.Diagnostics.Disabled(diagnostics.DuplicateType) {
		t.Fatal("expected duplicate-type to be disabled")
	}
	if !s.Strict.TypeCall {
		t.Fatal("expected strict.type_call to be true")
	}
}

func TestMatchIgnoreGlobAndDir(t *testing.T) {
	w := WorkspaceSettings{
		IgnoreGlobs: []string{"*.gen.lua", "vendor/**/*.lua"},
		IgnoreDir:   []string{"build"},
	}
	if !w.MatchIgnore("foo.gen.lua") {
		t.Fatal("expected foo.gen.lua to match the extension glob")
	}
	if !w.MatchIgnore("vendor/pkg/init.lua") {
		t.Fatal("expected vendor/pkg/init.lua to match the recursive glob")
	}
	if w.MatchIgnore("src/main.lua") {
		t.Fatal("expected src/main.lua not to be ignored")
	}
	if !w.MatchIgnore("build/out.lua") {
		t.Fatal("expected a file under build/ to be ignored by ignore_dir")
	}
}
