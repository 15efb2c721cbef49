package index

import "github.com/emmylua-go/luacore/ids"

// Description is the opaque file+range+raw-text record a `@field`/
// `@param`/`@return` tag's trailing text becomes (SPEC_FULL.md §4.5.1:
// rendering stays out of scope, the core only stores the raw text for
// a hover collaborator to fetch).
type Description struct {
	Owner ids.PropertyOwnerId
	File  ids.FileId
	Range ids.Range
	Text  string
}

type DescriptionStore struct {
	byOwner map[ids.PropertyOwnerId]*Description
	byFile  map[ids.FileId][]ids.PropertyOwnerId
}

func NewDescriptionStore() *DescriptionStore {
	return &DescriptionStore{byOwner: make(map[ids.PropertyOwnerId]*Description), byFile: make(map[ids.FileId][]ids.PropertyOwnerId)}
}

func (s *DescriptionStore) Add(d *Description) {
	s.byOwner[d.Owner] = d
	s.byFile[d.File] = append(s.byFile[d.File], d.Owner)
}

func (s *DescriptionStore) Get(owner ids.PropertyOwnerId) (*Description, bool) {
	d, ok := s.byOwner[owner]
	return d, ok
}

func (s *DescriptionStore) Remove(file ids.FileId) {
	for _, owner := range s.byFile[file] {
		delete(s.byOwner, owner)
	}
	delete(s.byFile, file)
}
