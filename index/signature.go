package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// Signature is per-function-closure metadata (spec.md §3 "Signature").
type Signature struct {
	Id            ids.SignatureId
	File          ids.FileId
	Params        []luatype.Param
	Declared      *luatype.DocFunction // from @param/@return tags, nil if undocumented
	Overloads     []luatype.DocFunction
	ReturnDesc    string
	IsColonDefine bool
	// ResolveReturn is set once the return type has been fully resolved
	// (spec.md §3 Signature "resolve_return"); before that, callers must
	// treat Declared.Return as provisional.
	ResolveReturn bool
}

type SignatureStore struct {
	byId   map[ids.SignatureId]*Signature
	byFile map[ids.FileId][]ids.SignatureId
}

func NewSignatureStore() *SignatureStore {
	return &SignatureStore{byId: make(map[ids.SignatureId]*Signature), byFile: make(map[ids.FileId][]ids.SignatureId)}
}

func (s *SignatureStore) Add(sig *Signature) {
	s.byId[sig.Id] = sig
	s.byFile[sig.File] = append(s.byFile[sig.File], sig.Id)
}

func (s *SignatureStore) Get(id ids.SignatureId) (*Signature, bool) {
	sig, ok := s.byId[id]
	return sig, ok
}

func (s *SignatureStore) Remove(file ids.FileId) {
	for _, id := range s.byFile[file] {
		delete(s.byId, id)
	}
	delete(s.byFile, file)
}
