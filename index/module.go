package index

import "github.com/emmylua-go/luacore/ids"

// ModuleInfo is the per-FileId `require`-link record SPEC_FULL.md §3.1
// supplements. ModuleStore holds and evicts these records; no analysis
// pass of this module calls Set, so it stays empty unless a caller
// fills it. Grounded on funxy's own internal/modules package
// (LoadedModule's GetExports()/GetFiles() playing the same cross-
// file-linking role Lua's `require` plays here).
type ModuleInfo struct {
	File          ids.FileId
	ModulePath    []string
	ExportedNames map[string]ids.DeclId
	IsVisible     bool
	WorkspaceId   string
}

type ModuleStore struct {
	byFile map[ids.FileId]*ModuleInfo
	byPath map[string]ids.FileId
}

func NewModuleStore() *ModuleStore {
	return &ModuleStore{byFile: make(map[ids.FileId]*ModuleInfo), byPath: make(map[string]ids.FileId)}
}

func modulePathKey(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func (s *ModuleStore) Set(info *ModuleInfo) {
	s.byFile[info.File] = info
	s.byPath[modulePathKey(info.ModulePath)] = info.File
}

func (s *ModuleStore) Get(file ids.FileId) (*ModuleInfo, bool) {
	m, ok := s.byFile[file]
	return m, ok
}

func (s *ModuleStore) Resolve(path []string) (*ModuleInfo, bool) {
	file, ok := s.byPath[modulePathKey(path)]
	if !ok {
		return nil, false
	}
	return s.Get(file)
}

func (s *ModuleStore) Remove(file ids.FileId) {
	if m, ok := s.byFile[file]; ok {
		delete(s.byPath, modulePathKey(m.ModulePath))
	}
	delete(s.byFile, file)
}
