package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// FlowAssertion is a single `@cast`/`@as` narrowing recorded at the
// expression position it annotates (spec.md §4.5 "@cast expr, op1,
// op2 ..., @as ... emit a flow type-assertion anchored at the
// expression position"). C6's flow-assertion overlay (spec.md §4.6)
// consults these when narrowing a name's type at a later read.
type FlowAssertion struct {
	File ids.FileId
	At   ids.Range
	Expr string       // raw expression text the assertion narrows; "" for a bare @as on the owning decl
	Ops  []string     // +Type / -Type / Type narrowing operators, as written
	Type luatype.Type // resolved type for the primary operator, or the @as type
}

type FlowStore struct {
	byFile map[ids.FileId][]*FlowAssertion
}

func NewFlowStore() *FlowStore {
	return &FlowStore{byFile: make(map[ids.FileId][]*FlowAssertion)}
}

func (s *FlowStore) Add(a *FlowAssertion) {
	s.byFile[a.File] = append(s.byFile[a.File], a)
}

// InFile returns every flow assertion recorded for file, in source
// order, for C6 to apply when narrowing reads at or after each anchor.
func (s *FlowStore) InFile(file ids.FileId) []*FlowAssertion {
	return s.byFile[file]
}

func (s *FlowStore) Remove(file ids.FileId) {
	delete(s.byFile, file)
}
