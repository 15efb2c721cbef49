package docanalyzer

import "github.com/emmylua-go/luacore/ids"

// GenericIndex binds template-parameter names to GenericTplIds over a
// lexical span of doc-tag processing (spec.md §4.5: "a template
// parameter name found inside a GenericIndex scope ... resolves as
// TplRef; otherwise the name resolves to a nominal Ref"). Frames nest
// the way declanalyzer's Scope does, inner bindings shadowing outer
// ones of the same name.
type GenericIndex struct {
	Parent *GenericIndex
	Params map[string]ids.GenericTplId
}

func NewGenericIndex(parent *GenericIndex) *GenericIndex {
	return &GenericIndex{Parent: parent, Params: make(map[string]ids.GenericTplId)}
}

func (g *GenericIndex) Bind(name string, id ids.GenericTplId) {
	g.Params[name] = id
}

// Resolve walks from g outward, nil-safe so a comment with no active
// generic frame simply never resolves a TplRef.
func (g *GenericIndex) Resolve(name string) (ids.GenericTplId, bool) {
	for s := g; s != nil; s = s.Parent {
		if id, ok := s.Params[name]; ok {
			return id, true
		}
	}
	return ids.GenericTplId{}, false
}
