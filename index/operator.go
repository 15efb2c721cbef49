package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// Operator is an overloaded metamethod on a TypeDecl (spec.md §3
// "Operator").
type Operator struct {
	Id       ids.OperatorId
	Owner    ids.TypeDeclId
	File     ids.FileId
	Name     string // "__add", "__index", ...
	Operands []luatype.Type
	Result   luatype.Type
}

type OperatorStore struct {
	byId       map[ids.OperatorId]*Operator
	byOwner    map[ids.TypeDeclId]map[string][]*Operator
	byFile     map[ids.FileId][]ids.OperatorId
}

func NewOperatorStore() *OperatorStore {
	return &OperatorStore{
		byId:    make(map[ids.OperatorId]*Operator),
		byOwner: make(map[ids.TypeDeclId]map[string][]*Operator),
		byFile:  make(map[ids.FileId][]ids.OperatorId),
	}
}

func (s *OperatorStore) Add(op *Operator) {
	s.byId[op.Id] = op
	s.byFile[op.File] = append(s.byFile[op.File], op.Id)
	byName := s.byOwner[op.Owner]
	if byName == nil {
		byName = make(map[string][]*Operator)
		s.byOwner[op.Owner] = byName
	}
	byName[op.Name] = append(byName[op.Name], op)
}

// Lookup returns every overload of metamethod name declared on owner.
func (s *OperatorStore) Lookup(owner ids.TypeDeclId, name string) []*Operator {
	return s.byOwner[owner][name]
}

func (s *OperatorStore) Remove(file ids.FileId) {
	for _, id := range s.byFile[file] {
		op, ok := s.byId[id]
		if !ok {
			continue
		}
		delete(s.byId, id)
		if byName, ok := s.byOwner[op.Owner]; ok {
			list := byName[op.Name]
			out := list[:0]
			for _, o := range list {
				if o != op {
					out = append(out, o)
				}
			}
			if len(out) == 0 {
				delete(byName, op.Name)
			} else {
				byName[op.Name] = out
			}
			if len(byName) == 0 {
				delete(s.byOwner, op.Owner)
			}
		}
	}
	delete(s.byFile, file)
}
