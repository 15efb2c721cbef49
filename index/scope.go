package index

import "github.com/emmylua-go/luacore/ids"

// Scope is one node of the lexical scope tree rooted at a file's chunk
// (spec.md §3 "Scope"). Children are kept in lexical (source) order so
// find_decl's innermost-to-outermost walk matches Lua's own shadowing
// rules.
type Scope struct {
	Range    ids.Range
	Parent   *Scope
	Children []*Scope
	Decls    []*Decl // locals declared directly in this scope, in lexical order
}

// NewScope allocates a child scope of parent (nil for a file's root
// chunk scope) covering r.
func NewScope(parent *Scope, r ids.Range) *Scope {
	s := &Scope{Range: r, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// AddDecl attaches a local declaration to this scope in lexical order.
func (s *Scope) AddDecl(d *Decl) {
	s.Decls = append(s.Decls, d)
}

// innermost returns the deepest child scope (or s itself) whose range
// contains pos.
func (s *Scope) innermost(pos ids.Pos) *Scope {
	for _, c := range s.Children {
		if c.Range.Contains(pos) {
			return c.innermost(pos)
		}
	}
	return s
}

// FindDecl walks from the innermost scope containing pos outwards,
// returning the first local declaration named name whose defining
// statement started strictly before pos (spec.md §3 "find_decl ...
// honoring Lua-like forward-declaration-of-block semantics"; Universal
// invariant 2: `D.range.start < pos`).
//
// Parameters and ForRange/For induction variables are recorded at their
// own name's position, which precedes every use inside their owning
// closure/loop body, so the same start-position test applies to them
// uniformly; the implicit `self` of a colon method is recorded at the
// closure's own start.
func (s *Scope) FindDecl(name string, pos ids.Pos) (*Decl, bool) {
	for scope := s.innermost(pos); scope != nil; scope = scope.Parent {
		for i := len(scope.Decls) - 1; i >= 0; i-- {
			d := scope.Decls[i]
			if d.Name == name && d.Range.Before(pos) {
				return d, true
			}
		}
	}
	return nil, false
}

// Root walks up to the outermost (chunk) scope.
func (s *Scope) Root() *Scope {
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// DeclTree is the per-file scope tree, stored so Remove(file) can
// evict the whole tree in one step.
type DeclTree struct {
	File ids.FileId
	Root *Scope
}

// ScopeStore holds one DeclTree per file.
type ScopeStore struct {
	byFile map[ids.FileId]*DeclTree
}

func NewScopeStore() *ScopeStore {
	return &ScopeStore{byFile: make(map[ids.FileId]*DeclTree)}
}

func (s *ScopeStore) Set(file ids.FileId, tree *DeclTree) {
	s.byFile[file] = tree
}

func (s *ScopeStore) Get(file ids.FileId) (*DeclTree, bool) {
	t, ok := s.byFile[file]
	return t, ok
}

func (s *ScopeStore) Remove(file ids.FileId) {
	delete(s.byFile, file)
}
