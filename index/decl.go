// Package index is the C3 Index Store: a bundle of independently
// invalidatable sub-indices keyed by the handles in package ids. Each
// sub-index tracks which entries were contributed by which FileId so
// Remove(file) stays O(contributions-of-file) (spec.md §4.3, Universal
// invariant 1).
//
// The per-kind-file split (one source file per sub-index) follows
// funxy's internal/symbols/symbol_table_*.go layout (symbol_table_core,
// _aliases, _operations, _resolution, _traits each owning one slice of
// the logical SymbolTable) generalized to the sub-indices spec.md §4.3
// names.
package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// LocalAttribute mirrors astshape.LocalAttribute without importing the
// AST package, keeping index free of a dependency on the parser
// contract it only stores handles into.
type LocalAttribute int

const (
	AttrNone LocalAttribute = iota
	AttrConst
	AttrClose
	AttrIterConst
	AttrParam
	AttrForRange
)

// DeclKind distinguishes a Local binding (scoped) from a Global one
// (name+file keyed on write, name-queried cross-file) per spec.md §3.
type DeclKind int

const (
	DeclLocal DeclKind = iota
	DeclGlobal
)

// Decl is one declaration occurrence (spec.md §3 "Declaration").
type Decl struct {
	Id        ids.DeclId
	Kind      DeclKind
	Name      string
	File      ids.FileId
	Range     ids.Range
	Attribute LocalAttribute
	Type      luatype.Type // resolved type, nil until inference/doc-binding sets it
}

// DeclStore holds every Decl, keyed by id, plus a per-file contribution
// set so Remove is cheap.
type DeclStore struct {
	byId   map[ids.DeclId]*Decl
	byFile map[ids.FileId][]ids.DeclId
}

func NewDeclStore() *DeclStore {
	return &DeclStore{byId: make(map[ids.DeclId]*Decl), byFile: make(map[ids.FileId][]ids.DeclId)}
}

func (s *DeclStore) Add(d *Decl) {
	s.byId[d.Id] = d
	s.byFile[d.File] = append(s.byFile[d.File], d.Id)
}

func (s *DeclStore) Get(id ids.DeclId) (*Decl, bool) {
	d, ok := s.byId[id]
	return d, ok
}

// Remove evicts every Decl contributed by file (spec.md Universal
// invariant 1).
func (s *DeclStore) Remove(file ids.FileId) {
	for _, id := range s.byFile[file] {
		delete(s.byId, id)
	}
	delete(s.byFile, file)
}

// Globals returns every global Decl with the given name across the
// whole workspace (spec.md §3: "globals ... queried cross-file by
// name").
func (s *DeclStore) Globals(name string) []*Decl {
	var out []*Decl
	for _, d := range s.byId {
		if d.Kind == DeclGlobal && d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// SetType updates a decl's resolved type in place, used by the flow
// and resolve passes (C9) once inference determines it.
func (s *DeclStore) SetType(id ids.DeclId, t luatype.Type) {
	if d, ok := s.byId[id]; ok {
		d.Type = t
	}
}
