package index

import "github.com/emmylua-go/luacore/ids"

// Store bundles every sub-index C9's pipeline reads and writes
// (spec.md §4.3). Passes hold a *Store directly during a C9 run;
// read-only collaborators (C10) see it through a narrower facade.
type Store struct {
	Decls       *DeclStore
	Scopes      *ScopeStore
	TypeDecls   *TypeDeclStore
	Members     *MemberStore
	Signatures  *SignatureStore
	Operators   *OperatorStore
	References  *ReferenceStore
	Descriptions *DescriptionStore
	Modules     *ModuleStore
	Metatables  *MetatableStore
	Flow        *FlowStore
}

func NewStore() *Store {
	return &Store{
		Decls:        NewDeclStore(),
		Scopes:       NewScopeStore(),
		TypeDecls:    NewTypeDeclStore(),
		Members:      NewMemberStore(),
		Signatures:   NewSignatureStore(),
		Operators:    NewOperatorStore(),
		References:   NewReferenceStore(),
		Descriptions: NewDescriptionStore(),
		Modules:      NewModuleStore(),
		Metatables:   NewMetatableStore(),
		Flow:         NewFlowStore(),
	}
}

// Remove evicts every entry contributed by file across every
// sub-index (spec.md Universal invariant 1).
func (s *Store) Remove(file ids.FileId) {
	s.Decls.Remove(file)
	s.Scopes.Remove(file)
	s.TypeDecls.Remove(file)
	s.Members.Remove(file)
	s.Signatures.Remove(file)
	s.Operators.Remove(file)
	s.References.Remove(file)
	s.Descriptions.Remove(file)
	s.Modules.Remove(file)
	s.Metatables.Remove(file)
	s.Flow.Remove(file)
}
