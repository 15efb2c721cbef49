package index

import "github.com/emmylua-go/luacore/ids"

// Metatable is SPEC_FULL.md §3.1's per-TypeDecl or per-TableConst
// metamethod-name -> OperatorId record, consulted by member
// resolution's "by operator" strategy (spec.md §4.7) and C6's
// binary/unary dispatch.
type Metatable struct {
	Owner   ids.OwnerId
	File    ids.FileId
	Methods map[string]ids.OperatorId
}

type MetatableStore struct {
	byOwner map[ids.OwnerId]*Metatable
	byFile  map[ids.FileId][]ids.OwnerId
}

func NewMetatableStore() *MetatableStore {
	return &MetatableStore{byOwner: make(map[ids.OwnerId]*Metatable), byFile: make(map[ids.FileId][]ids.OwnerId)}
}

func (s *MetatableStore) Ensure(owner ids.OwnerId, file ids.FileId) *Metatable {
	mt, ok := s.byOwner[owner]
	if !ok {
		mt = &Metatable{Owner: owner, File: file, Methods: make(map[string]ids.OperatorId)}
		s.byOwner[owner] = mt
		s.byFile[file] = append(s.byFile[file], owner)
	}
	return mt
}

func (s *MetatableStore) Get(owner ids.OwnerId) (*Metatable, bool) {
	mt, ok := s.byOwner[owner]
	return mt, ok
}

func (s *MetatableStore) SetMethod(owner ids.OwnerId, file ids.FileId, name string, op ids.OperatorId) {
	mt := s.Ensure(owner, file)
	mt.Methods[name] = op
}

func (s *MetatableStore) Remove(file ids.FileId) {
	for _, owner := range s.byFile[file] {
		delete(s.byOwner, owner)
	}
	delete(s.byFile, file)
}
