// Package luaconfig loads the configuration knobs spec.md §6 lists as
// "recognized options" from an external collaborator's YAML document,
// the same way funxy's internal/ext package loads funxy.yaml.
//
// The core itself never reads this package; a driver/query caller
// loads Settings once per workspace and threads the fields it cares
// about (RuntimeVersion into driver.New, ignore globs into its own
// file-discovery walk) into the core's own entry points.
package luaconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/infer"
)

// Settings is the top-level document a `.emmyrc.yaml` (or similarly
// named workspace file) unmarshals into, covering every knob spec.md
// §6 names.
type Settings struct {
	Runtime        RuntimeSettings        `yaml:"runtime"`
	Workspace      WorkspaceSettings      `yaml:"workspace"`
	Diagnostics    DiagnosticsSettings    `yaml:"diagnostics"`
	Strict         StrictSettings         `yaml:"strict"`
	Completion     CompletionSettings     `yaml:"completion"`
	Hint           HintSettings           `yaml:"hint"`
	SemanticTokens SemanticTokensSettings `yaml:"semantic_tokens"`
}

// RuntimeSettings is spec.md §6's `runtime.*` group.
type RuntimeSettings struct {
	// Version names the language level gating C6's literal-arithmetic
	// table (SPEC_FULL.md §4.6.1): one of Lua51, Lua52, Lua53, Lua54,
	// LuaJIT, Latest.
	Version string `yaml:"version"`

	// RequireLikeFunction lists call names that behave as module-import
	// calls (SPEC_FULL.md §3.1's ModuleInfo). It is exposed through
	// RequireLikeNames, which defaults to ["require"] when empty; the
	// driver takes no such list and recognizes no require-shaped calls.
	RequireLikeFunction []string `yaml:"require_like_function"`
}

// ParseVersion resolves Version to an infer.RuntimeVersion, defaulting
// to infer.Latest for an empty or unrecognized string rather than
// failing the whole config load over one bad knob.
func (r RuntimeSettings) ParseVersion() infer.RuntimeVersion {
	switch strings.ToLower(r.Version) {
	case "lua51":
		return infer.Lua51
	case "lua52":
		return infer.Lua52
	case "lua53":
		return infer.Lua53
	case "lua54":
		return infer.Lua54
	case "luajit":
		return infer.LuaJIT
	default:
		return infer.Latest
	}
}

// RequireLikeNames returns RequireLikeFunction, defaulting to the bare
// Lua `require` builtin when the workspace names none explicitly.
func (r RuntimeSettings) RequireLikeNames() []string {
	if len(r.RequireLikeFunction) == 0 {
		return []string{"require"}
	}
	return r.RequireLikeFunction
}

// WorkspaceSettings is spec.md §6's `workspace.*` group.
type WorkspaceSettings struct {
	Library            []string `yaml:"library"`
	IgnoreDir          []string `yaml:"ignore_dir"`
	IgnoreGlobs        []string `yaml:"ignore_globs"`
	Encoding           string   `yaml:"encoding"`
	PreloadFileSize    int      `yaml:"preload_file_size"`
}

// DiagnosticsSettings is spec.md §6's `diagnostics.*` group.
type DiagnosticsSettings struct {
	Enable      bool                          `yaml:"enable"`
	Disable     []string                      `yaml:"disable"`
	Enables     []string                      `yaml:"enables"`
	Globals     []string                      `yaml:"globals"`
	GlobalsRegex string                       `yaml:"globals_regex"`
	Severity    map[string]string             `yaml:"severity"`
}

// Disabled reports whether code is listed under diagnostics.disable.
func (d DiagnosticsSettings) Disabled(code diagnostics.ErrorCode) bool {
	for _, c := range d.Disable {
		if c == string(code) {
			return true
		}
	}
	return false
}

// SeverityFor returns the per-code severity override for code, and
// whether one was configured.
func (d DiagnosticsSettings) SeverityFor(code diagnostics.ErrorCode) (string, bool) {
	s, ok := d.Severity[string(code)]
	return s, ok
}

// StrictSettings is spec.md §6's `strict.*` group.
type StrictSettings struct {
	RequirePath bool `yaml:"require_path"`
	TypeCall    bool `yaml:"type_call"`
	ArrayIndex  bool `yaml:"array_index"`
}

// CompletionSettings, HintSettings, SemanticTokensSettings are
// exposed verbatim per spec.md §6 ("not part of core but exposed") —
// the core never reads these fields itself, they only pass through
// Settings for a collaborator (an LSP front end) to consume.
type CompletionSettings struct {
	CallSnippet  bool `yaml:"call_snippet"`
	AutoRequire  bool `yaml:"auto_require"`
}

type HintSettings struct {
	ParamHint  bool `yaml:"param_hint"`
	IndexHint  bool `yaml:"index_hint"`
	LocalHint  bool `yaml:"local_hint"`
}

type SemanticTokensSettings struct {
	Enable bool `yaml:"enable"`
}

// Load reads and parses a workspace config file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses workspace config content from bytes, applying defaults
// to fields the document omits. The path argument is used only for
// error messages.
func Parse(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	return &s, nil
}

func (s *Settings) setDefaults() {
	if s.Runtime.Version == "" {
		s.Runtime.Version = "Latest"
	}
	if s.Workspace.Encoding == "" {
		s.Workspace.Encoding = "utf-8"
	}
}

// Find searches for a workspace config file starting from dir and
// walking up to parent directories, the same upward search funxy's
// own FindConfig performs for funxy.yaml, generalized to this core's
// two accepted filenames. Returns "" with a nil error when none is
// found anywhere up to the filesystem root.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{".emmyrc.yaml", ".emmyrc.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// MatchIgnore reports whether path matches any of workspace.ignore_globs,
// implementing that knob. doublestar's `**`-aware PathMatch handles the
// glob syntax directly; a plain basename fallback additionally matches
// extension-only patterns like "*.tmp.lua" against files nested under
// directories the pattern itself never names, mirroring the scanner
// idiom termfx-morfx's matchPattern follows for the same two-tier check.
func (w WorkspaceSettings) MatchIgnore(path string) bool {
	for _, pattern := range w.IgnoreGlobs {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	for _, dir := range w.IgnoreDir {
		if dir == "" {
			continue
		}
		rel, err := filepath.Rel(dir, path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}
