package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// TypeDeclKind distinguishes class | enum | alias nominal types.
type TypeDeclKind int

const (
	KindClass TypeDeclKind = iota
	KindEnum
	KindAlias
)

// TypeDeclAttr is a bitset of the class/enum/alias attribute flags
// (spec.md §3 "TypeDecl", Glossary "Attribute").
type TypeDeclAttr int

const (
	AttrPartial TypeDeclAttr = 1 << iota
	AttrKey
	AttrExact
	AttrGlobal
	AttrConstructor
	AttrMeta
	AttrEnumKey
)

func (a TypeDeclAttr) Has(flag TypeDeclAttr) bool { return a&flag != 0 }

// GenericParam is one `<T: Bound>` entry of a class/alias/function
// generic parameter list.
type GenericParam struct {
	Id    ids.GenericTplId
	Name  string
	Bound luatype.Type // nil if unbounded
}

// superContribution is one file's addition to a Partial type decl's
// super list, kept so Remove(file) can subtract exactly that file's
// contribution back out (spec.md §4.3 "Type decls ... Partial ...
// merge ... across files").
type superContribution struct {
	file   ids.FileId
	supers []luatype.Type
}

type genericContribution struct {
	file   ids.FileId
	params []GenericParam
}

// TypeDecl is a named nominal type (spec.md §3 "TypeDecl").
type TypeDecl struct {
	Id         ids.TypeDeclId
	Kind       TypeDeclKind
	Attributes TypeDeclAttr

	supersByFile   []superContribution
	genericsByFile []genericContribution

	// AliasOrigin is the single-origin-type form of an alias
	// (`@alias Name = body`); mutually exclusive with AliasMembers.
	AliasOrigin luatype.Type
	// AliasMembers is the union-member-list form
	// (`@alias Name | T1 -- desc | T2 -- desc`).
	AliasMembers []ids.MemberId

	// EnumBase is the enum's optional base type.
	EnumBase luatype.Type

	// contributingFiles tracks every file that has ever added a super,
	// generic param, or was the sole definer, so a Partial decl with no
	// remaining contributor can be pruned entirely (spec.md §3
	// Lifecycles: "A type decl whose every contributing file is gone is
	// removed").
	contributingFiles map[ids.FileId]bool
}

func newTypeDecl(id ids.TypeDeclId, kind TypeDeclKind) *TypeDecl {
	return &TypeDecl{Id: id, Kind: kind, contributingFiles: make(map[ids.FileId]bool)}
}

// Supers returns the merged super-type list: the concatenation of
// per-file contributions in discovery order, deduplicated by
// structural equality (spec.md §4.3 invariant, Universal invariant 3).
func (t *TypeDecl) Supers() []luatype.Type {
	var out []luatype.Type
	for _, c := range t.supersByFile {
		for _, s := range c.supers {
			dup := false
			for _, existing := range out {
				if luatype.Equal(existing, s) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, s)
			}
		}
	}
	return out
}

// Generics returns the merged generic parameter list across
// contributing files, in discovery order.
func (t *TypeDecl) Generics() []GenericParam {
	var out []GenericParam
	for _, c := range t.genericsByFile {
		out = append(out, c.params...)
	}
	return out
}

func (t *TypeDecl) addSupers(file ids.FileId, supers []luatype.Type) {
	if len(supers) == 0 {
		return
	}
	t.supersByFile = append(t.supersByFile, superContribution{file: file, supers: supers})
	t.contributingFiles[file] = true
}

func (t *TypeDecl) addGenerics(file ids.FileId, params []GenericParam) {
	if len(params) == 0 {
		return
	}
	t.genericsByFile = append(t.genericsByFile, genericContribution{file: file, params: params})
	t.contributingFiles[file] = true
}

func (t *TypeDecl) markContributor(file ids.FileId) {
	t.contributingFiles[file] = true
}

func (t *TypeDecl) removeFile(file ids.FileId) {
	supers := t.supersByFile[:0]
	for _, c := range t.supersByFile {
		if c.file != file {
			supers = append(supers, c)
		}
	}
	t.supersByFile = supers

	generics := t.genericsByFile[:0]
	for _, c := range t.genericsByFile {
		if c.file != file {
			generics = append(generics, c)
		}
	}
	t.genericsByFile = generics

	delete(t.contributingFiles, file)
}

func (t *TypeDecl) hasContributors() bool { return len(t.contributingFiles) > 0 }

// TypeDeclStore holds every nominal TypeDecl, keyed by TypeDeclId.
type TypeDeclStore struct {
	byId map[ids.TypeDeclId]*TypeDecl
}

func NewTypeDeclStore() *TypeDeclStore {
	return &TypeDeclStore{byId: make(map[ids.TypeDeclId]*TypeDecl)}
}

func (s *TypeDeclStore) Get(id ids.TypeDeclId) (*TypeDecl, bool) {
	d, ok := s.byId[id]
	return d, ok
}

// AddSupers contributes file's super-type list to id's merged Supers()
// (spec.md §4.3 "Type decls ... merge ... across files"); a no-op if id
// has not been created yet via EnsureMerged.
func (s *TypeDeclStore) AddSupers(id ids.TypeDeclId, file ids.FileId, supers []luatype.Type) {
	if d, ok := s.byId[id]; ok {
		d.addSupers(file, supers)
	}
}

// AddGenerics contributes file's generic parameter list to id's merged
// Generics().
func (s *TypeDeclStore) AddGenerics(id ids.TypeDeclId, file ids.FileId, params []GenericParam) {
	if d, ok := s.byId[id]; ok {
		d.addGenerics(file, params)
	}
}

// EnsureMerged fetches or creates the TypeDecl for id, applying the
// Partial-merge rule: if a decl with the same name already exists from
// a different file and either declaration lacks the Partial attribute,
// the caller (docanalyzer) must emit DuplicateType and keep only the
// first — EnsureMerged itself just reports whether it found an
// existing, non-Partial decl from a different file via collided==true
// so the caller can decide (spec.md §3 TypeDecl
// invariant).
func (s *TypeDeclStore) EnsureMerged(id ids.TypeDeclId, kind TypeDeclKind, file ids.FileId, partial bool) (decl *TypeDecl, collided bool) {
	existing, ok := s.byId[id]
	if !ok {
		d := newTypeDecl(id, kind)
		if partial {
			d.Attributes |= AttrPartial
		}
		d.markContributor(file)
		s.byId[id] = d
		return d, false
	}
	if existing.contributingFiles[file] {
		return existing, false
	}
	if !partial || !existing.Attributes.Has(AttrPartial) {
		existing.markContributor(file)
		return existing, true
	}
	existing.markContributor(file)
	return existing, false
}

func (s *TypeDeclStore) Remove(file ids.FileId) {
	for id, d := range s.byId {
		d.removeFile(file)
		if !d.hasContributors() {
			delete(s.byId, id)
		}
	}
}

func (s *TypeDeclStore) All() []*TypeDecl {
	out := make([]*TypeDecl, 0, len(s.byId))
	for _, d := range s.byId {
		out = append(out, d)
	}
	return out
}
