// Package declanalyzer is the C4 Declaration Analyzer: it walks one
// file's parsed chunk, building the lexical scope tree, local/global
// declarations, and local/global reference edges spec.md §4.4
// describes.
//
// Grounded on funxy's internal/analyzer/declarations.go +
// declarations_helpers.go: a single walker struct carrying the current
// scope/file state, visiting statement kinds in source order and
// calling one addDecl-shaped helper per bound name — generalized here
// from funxy's own module/trait-declaration grammar to the Lua-family
// scope-owning node kinds spec.md §4.4 names (Chunk, Block, ClosureExpr,
// Repeat, For, ForRange).
package declanalyzer

import (
	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
)

// Walker holds the per-file state threaded through one Analyze call.
type Walker struct {
	file  ids.FileId
	store *index.Store

	// handled marks every *astshape.NameExpr pointer already processed by
	// a statement-level visit (declaration sites, assignment targets,
	// dot/colon index keys) so the generic NameExpr dispatch in
	// visitEnter — which also reaches these nodes via Children() during
	// the same walk — does not additionally record them as references.
	handled map[*astshape.NameExpr]bool
}

func New(file ids.FileId, store *index.Store) *Walker {
	return &Walker{file: file, store: store, handled: make(map[*astshape.NameExpr]bool)}
}

// scopeCursor pairs the live *index.Scope with the astshape node that
// opened it, used only to know when to pop back to the parent on
// Leave.
type scopeCursor struct {
	scope *index.Scope
	node  astshape.Node
}

// Analyze walks chunk (the file's root Block, astshape.KindChunk),
// populating the store's DeclStore/ScopeStore/ReferenceStore for w's
// file. It is the sole C4 entry point the driver (C9) calls.
func (w *Walker) Analyze(chunk *astshape.Block) {
	root := index.NewScope(nil, chunk.Range())
	w.store.Scopes.Set(w.file, &index.DeclTree{File: w.file, Root: root})

	stack := []scopeCursor{{scope: root, node: chunk}}
	current := func() *index.Scope { return stack[len(stack)-1].scope }

	astshape.WalkDescendants(chunk, func(event astshape.WalkEvent, n astshape.Node) {
		if event == astshape.Enter {
			if n != chunk && astshape.IsScopeOwning(n.Kind()) {
				child := index.NewScope(current(), n.Range())
				stack = append(stack, scopeCursor{scope: child, node: n})
			}
			w.visitEnter(current(), n)
			return
		}
		// Leave
		if len(stack) > 1 && stack[len(stack)-1].node == n {
			stack = stack[:len(stack)-1]
		}
	})
}

func (w *Walker) visitEnter(scope *index.Scope, n astshape.Node) {
	switch node := n.(type) {
	case *astshape.LocalStat:
		w.walkLocalStat(scope, node)
	case *astshape.LocalFuncStat:
		w.walkLocalFuncStat(scope, node)
	case *astshape.FuncStat:
		w.walkFuncStat(scope, node)
	case *astshape.AssignStat:
		w.walkAssignStat(scope, node)
	case *astshape.ForStat:
		w.walkForStat(scope, node)
	case *astshape.ForRangeStat:
		w.walkForRangeStat(scope, node)
	case *astshape.ClosureExpr:
		w.walkClosureParams(scope, node)
	case *astshape.NameExpr:
		if !w.handled[node] {
			w.walkNameReference(scope, node, false)
		}
	case *astshape.IndexExpr:
		w.walkIndexReference(scope, node)
	}
}

func (w *Walker) addLocal(scope *index.Scope, name *astshape.NameExpr, attr index.LocalAttribute) *index.Decl {
	w.handled[name] = true
	d := &index.Decl{
		Id:        ids.NewDeclId(w.file, name.Range().Start),
		Kind:      index.DeclLocal,
		Name:      name.Name,
		File:      w.file,
		Range:     name.Range(),
		Attribute: attr,
	}
	w.store.Decls.Add(d)
	scope.AddDecl(d)
	return d
}

func (w *Walker) addGlobal(name *astshape.NameExpr) *index.Decl {
	d := &index.Decl{
		Id:    ids.NewDeclId(w.file, name.Range().Start),
		Kind:  index.DeclGlobal,
		Name:  name.Name,
		File:  w.file,
		Range: name.Range(),
	}
	w.store.Decls.Add(d)
	return d
}

func (w *Walker) walkLocalStat(scope *index.Scope, s *astshape.LocalStat) {
	for i, name := range s.Names {
		attr := index.AttrNone
		if i < len(s.Attributes) {
			switch s.Attributes[i] {
			case astshape.AttrConst:
				attr = index.AttrConst
			case astshape.AttrClose:
				attr = index.AttrClose
			}
		}
		w.addLocal(scope, name, attr)
	}
}

func (w *Walker) walkLocalFuncStat(scope *index.Scope, s *astshape.LocalFuncStat) {
	w.addLocal(scope, s.Name, index.AttrNone)
}

// walkFuncStat handles `function M.f() ... end` / `function f() ...
// end` / `function M:f() ... end`. A bare-name target that resolves to
// no visible decl becomes a new global function declaration (spec.md
// §4.4 "FuncStat ... record as function declaration (local or global,
// index-expression target if any)"); an index-expression target is
// recorded as a reference on its prefix, not a new decl (the member
// itself is the doc analyzer's concern via @field/table assignment).
func (w *Walker) walkFuncStat(scope *index.Scope, s *astshape.FuncStat) {
	if s.Target.IsMethod {
		s.Func.IsColonDefine = true
	}
	if s.Target.Object != nil {
		// `function M.f()` / `function M:f()` — M is a reference, not a
		// new declaration.
		return
	}
	name := astshape.NewNameExpr(s.Target.Range(), s.Target.Name)
	if _, ok := scope.FindDecl(name.Name, name.Range().Start); ok {
		w.walkNameReference(scope, name, true)
		return
	}
	w.addGlobal(name)
}

// walkAssignStat handles `name = expr` / `prefix.k = expr`: a bare
// name with no visible local declaration becomes a new global
// (spec.md §4.4 "Assignment").
func (w *Walker) walkAssignStat(scope *index.Scope, s *astshape.AssignStat) {
	for _, target := range s.Targets {
		name, ok := target.(*astshape.NameExpr)
		if !ok {
			continue // IndexExpr targets are handled by the generic IndexExpr visit
		}
		w.handled[name] = true
		if name.Name == "self" {
			continue
		}
		if _, found := scope.FindDecl(name.Name, name.Range().Start); found {
			w.walkNameReference(scope, name, true)
			continue
		}
		if w.globalAlreadyDeclared(name.Name) {
			w.walkNameReference(scope, name, true)
			continue
		}
		w.addGlobal(name)
	}
}

func (w *Walker) globalAlreadyDeclared(name string) bool {
	return len(w.store.Decls.Globals(name)) > 0
}

// walkForStat creates one IterConst-attributed local for the numeric
// for-loop's induction variable (spec.md §4.4 "For / ForRange"). scope
// here is already the new scope WalkDescendants pushed for this
// ForStat node itself (ForStat is scope-owning per astshape.IsScopeOwning),
// so the induction variable is visible for the Start/Stop/Step bound
// exprs the way a forward reference would require, and throughout Body.
func (w *Walker) walkForStat(scope *index.Scope, s *astshape.ForStat) {
	w.addLocal(scope, s.Var, index.AttrIterConst)
}

// walkForRangeStat attaches one IterConst local per loop variable name
// before the `in` keyword (SPEC_FULL.md §4.4.1 expansion: `for k, v in pairs(t) do`
// must produce one Decl per name, not one Decl for the whole clause).
func (w *Walker) walkForRangeStat(scope *index.Scope, s *astshape.ForRangeStat) {
	for _, name := range s.Names {
		w.addLocal(scope, name, index.AttrIterConst)
	}
}

// walkClosureParams adds one Param-attributed local per formal
// parameter, plus an implicit "self" for colon-defined methods. scope
// is already the ClosureExpr's own freshly pushed scope.
func (w *Walker) walkClosureParams(scope *index.Scope, c *astshape.ClosureExpr) {
	if c.IsColonDefine {
		selfRange := ids.Range{Start: c.Range().Start, End: c.Range().Start}
		w.addLocal(scope, astshape.NewNameExpr(selfRange, "self"), index.AttrParam)
	}
	for _, p := range c.Params {
		if p.Name == "..." {
			continue
		}
		w.addLocal(scope, astshape.NewNameExpr(p.Rng, p.Name), index.AttrParam)
	}
}

// walkNameReference resolves name against the live scope: a visible
// local produces a local reference edge; otherwise it is a global
// reference by name (spec.md §4.4 "Name / Index reference"). "self" is
// never treated as a free global (spec.md §4.4 "Self-references").
func (w *Walker) walkNameReference(scope *index.Scope, n *astshape.NameExpr, isWrite bool) {
	if n.Name == "self" {
		return
	}
	if decl, ok := scope.FindDecl(n.Name, n.Range().Start); ok {
		w.store.References.AddLocal(w.file, decl.Id, n.Range(), isWrite)
		return
	}
	w.store.References.AddGlobal(n.Name, w.file, n.Range().Start)
}

// walkIndexReference records a reference on an index expression's
// literal key under its MemberKey, per spec.md §4.4 "An index reference
// with a literal key is added under the corresponding MemberKey."
func (w *Walker) walkIndexReference(scope *index.Scope, e *astshape.IndexExpr) {
	name, ok := e.Key.(*astshape.NameExpr)
	if !ok || e.Op == astshape.IndexBracket {
		return
	}
	w.handled[name] = true
	w.store.References.AddGlobal(name.Name, w.file, e.Range().Start)
}
