package index

import "github.com/emmylua-go/luacore/ids"

// LocalRef is one use of a local declaration.
type LocalRef struct {
	Range   ids.Range
	IsWrite bool
}

// ReferenceStore tracks two shapes (spec.md §3 "Reference index"): per-
// file local references keyed by DeclId, and global-and-index
// references keyed by a logical member/global key across files.
type ReferenceStore struct {
	locals     map[ids.DeclId][]LocalRef
	localFile  map[ids.FileId][]ids.DeclId

	// globals maps a global-or-member name to the set of (file, syntax
	// occurrence) references, spec.md's "MemberKey -> map<FileId,
	// set<syntax_id>>" — syntax occurrences are identified by their
	// starting Pos, which is stable across re-analysis of unchanged
	// source (same rationale as posId in package ids).
	globals     map[string]map[ids.FileId]map[ids.Pos]bool
	globalFile  map[ids.FileId][]globalEntry

	// strings is the interned string-literal reference map (spec.md §3
	// "Plus a string-literal reference map (interned)").
	strings     map[string]map[ids.FileId]map[ids.Pos]bool
	stringFile  map[ids.FileId][]stringEntry
}

type globalEntry struct {
	name string
	pos  ids.Pos
}

type stringEntry struct {
	value string
	pos   ids.Pos
}

func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		locals:     make(map[ids.DeclId][]LocalRef),
		localFile:  make(map[ids.FileId][]ids.DeclId),
		globals:    make(map[string]map[ids.FileId]map[ids.Pos]bool),
		globalFile: make(map[ids.FileId][]globalEntry),
		strings:    make(map[string]map[ids.FileId]map[ids.Pos]bool),
		stringFile: make(map[ids.FileId][]stringEntry),
	}
}

func (s *ReferenceStore) AddLocal(file ids.FileId, decl ids.DeclId, r ids.Range, isWrite bool) {
	s.locals[decl] = append(s.locals[decl], LocalRef{Range: r, IsWrite: isWrite})
	s.localFile[file] = append(s.localFile[file], decl)
}

func (s *ReferenceStore) LocalRefs(decl ids.DeclId) []LocalRef {
	return s.locals[decl]
}

// AddGlobal records a reference to a global name (or a literal-keyed
// member access, which shares the same key shape per spec.md §3) at
// the given file+position.
func (s *ReferenceStore) AddGlobal(name string, file ids.FileId, pos ids.Pos) {
	byFile := s.globals[name]
	if byFile == nil {
		byFile = make(map[ids.FileId]map[ids.Pos]bool)
		s.globals[name] = byFile
	}
	positions := byFile[file]
	if positions == nil {
		positions = make(map[ids.Pos]bool)
		byFile[file] = positions
	}
	positions[pos] = true
	s.globalFile[file] = append(s.globalFile[file], globalEntry{name: name, pos: pos})
}

// GlobalRefs returns every (file, position) pair referencing name.
func (s *ReferenceStore) GlobalRefs(name string) map[ids.FileId]map[ids.Pos]bool {
	return s.globals[name]
}

func (s *ReferenceStore) AddStringLiteral(value string, file ids.FileId, pos ids.Pos) {
	byFile := s.strings[value]
	if byFile == nil {
		byFile = make(map[ids.FileId]map[ids.Pos]bool)
		s.strings[value] = byFile
	}
	positions := byFile[file]
	if positions == nil {
		positions = make(map[ids.Pos]bool)
		byFile[file] = positions
	}
	positions[pos] = true
	s.stringFile[file] = append(s.stringFile[file], stringEntry{value: value, pos: pos})
}

func (s *ReferenceStore) StringRefs(value string) map[ids.FileId]map[ids.Pos]bool {
	return s.strings[value]
}

func (s *ReferenceStore) Remove(file ids.FileId) {
	for _, decl := range s.localFile[file] {
		delete(s.locals, decl)
	}
	delete(s.localFile, file)

	for _, e := range s.globalFile[file] {
		if byFile, ok := s.globals[e.name]; ok {
			delete(byFile, file)
			if len(byFile) == 0 {
				delete(s.globals, e.name)
			}
		}
	}
	delete(s.globalFile, file)

	for _, e := range s.stringFile[file] {
		if byFile, ok := s.strings[e.value]; ok {
			delete(byFile, file)
			if len(byFile) == 0 {
				delete(s.strings, e.value)
			}
		}
	}
	delete(s.stringFile, file)
}
