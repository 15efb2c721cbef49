package driver

import (
	"context"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

// scopeAt finds the innermost Scope in tree containing pos, the same
// innermost-scope search index.Scope.FindDecl performs internally,
// reimplemented here against Scope's exported fields since the Member
// pass needs the Scope value itself (to pass to infer.InferExpr), not
// just a resolved Decl.
func scopeAt(root *index.Scope, pos ids.Pos) *index.Scope {
	for _, c := range root.Children {
		if c.Range.Contains(pos) {
			return scopeAt(c, pos)
		}
	}
	return root
}

// metamethodNames lists the field names materialized into an
// index.Metatable when a table literal assigned via setmetatable
// carries them (spec.md §4.10 "materialize metatables").
var metamethodNames = map[string]bool{
	"__index": true, "__newindex": true, "__add": true, "__sub": true,
	"__mul": true, "__div": true, "__mod": true, "__pow": true,
	"__unm": true, "__concat": true, "__len": true, "__eq": true,
	"__lt": true, "__le": true, "__call": true, "__tostring": true,
}

// runMemberPass resolves the types spec.md §4.10 step 5 names for one
// file: undocumented local/assignment declarations get their RHS type
// inferred, undocumented function closures get a Signature built from
// their actual parameter list (rather than `@param` tags), and
// `setmetatable(value, { ... })` calls materialize an index.Metatable
// for member resolution's "by operator" strategy (spec.md §4.7).
func (d *Driver) runMemberPass(file ids.FileId, chunk *astshape.Block) {
	tree, ok := d.Store.Scopes.Get(file)
	if !ok {
		return
	}

	astshape.WalkDescendants(chunk, func(event astshape.WalkEvent, n astshape.Node) {
		if event != astshape.Enter {
			return
		}
		switch s := n.(type) {
		case *astshape.LocalStat:
			d.resolveBindingTargets(file, tree.Root, s.Names, s.Exprs)
		case *astshape.AssignStat:
			d.resolveAssignTargets(file, tree.Root, s.Targets, s.Exprs)
		case *astshape.LocalFuncStat:
			d.ensureRuntimeSignature(file, s.Func)
		case *astshape.FuncStat:
			d.ensureRuntimeSignature(file, s.Func)
		case *astshape.CallExpr:
			d.maybeMaterializeMetatable(file, tree.Root, s)
		}
	})
}

func (d *Driver) resolveBindingTargets(file ids.FileId, root *index.Scope, names []*astshape.NameExpr, exprs []astshape.Node) bool {
	resolved := false
	for i, name := range names {
		if i >= len(exprs) {
			return resolved
		}
		if d.resolveDeclType(file, root, ids.NewDeclId(file, name.Range().Start), exprs[i]) {
			resolved = true
		}
	}
	return resolved
}

func (d *Driver) resolveAssignTargets(file ids.FileId, root *index.Scope, targets []astshape.Node, exprs []astshape.Node) bool {
	resolved := false
	for i, target := range targets {
		if i >= len(exprs) {
			return resolved
		}
		name, ok := target.(*astshape.NameExpr)
		if !ok {
			continue
		}
		if d.resolveDeclType(file, root, ids.NewDeclId(file, name.Range().Start), exprs[i]) {
			resolved = true
		}
	}
	return resolved
}

// resolveDeclType leaves a doc-bound type (set by docanalyzer) alone;
// it only fills in a Decl whose type is still nil, the undocumented
// case spec.md §4.10 step 5 covers. Reports whether it newly resolved
// a type, so the Resolve pass can detect a fix point.
func (d *Driver) resolveDeclType(file ids.FileId, root *index.Scope, declId ids.DeclId, rhs astshape.Node) bool {
	decl, ok := d.Store.Decls.Get(declId)
	if !ok || decl.Type != nil {
		return false
	}
	scope := scopeAt(root, rhs.Range().Start)
	t, fail := d.Infer.InferExpr(file, rhs, scope)
	if fail != nil {
		return false
	}
	d.Store.Decls.SetType(declId, t)
	return true
}

// ensureRuntimeSignature materializes a Signature with a real
// parameter list for a closure docanalyzer never saw a `@param` tag
// for, so Signature.Params (otherwise populated only from doc tags)
// reflects the function's actual written parameters.
func (d *Driver) ensureRuntimeSignature(file ids.FileId, fn *astshape.ClosureExpr) {
	sigId := ids.NewSignatureId(file, fn.Range().Start)
	if _, ok := d.Store.Signatures.Get(sigId); ok {
		return
	}
	params := make([]luatype.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = luatype.Param{Name: p.Name}
	}
	d.Store.Signatures.Add(&index.Signature{
		Id:            sigId,
		File:          file,
		Params:        params,
		IsColonDefine: fn.IsColonDefine,
	})
}

// maybeMaterializeMetatable recognizes `setmetatable(value, mt)` where
// mt is a table literal carrying metamethod-named fields, and
// registers an index.Metatable for value's resolved type so C6's
// operator dispatch and C5/C8's "by operator" member strategy can find
// it (spec.md §4.10 step 5 "materialize metatables").
func (d *Driver) maybeMaterializeMetatable(file ids.FileId, root *index.Scope, call *astshape.CallExpr) {
	callee, ok := call.Callee.(*astshape.NameExpr)
	if !ok || callee.Name != "setmetatable" || len(call.Args) < 2 {
		return
	}
	mtTable, ok := call.Args[1].(*astshape.TableObjectExpr)
	if !ok {
		return
	}
	scope := scopeAt(root, call.Range().Start)
	valueType, fail := d.Infer.InferExpr(file, call.Args[0], scope)
	if fail != nil {
		return
	}
	var owner ids.OwnerId
	var typeDeclId ids.TypeDeclId
	var hasTypeDecl bool
	switch vt := valueType.(type) {
	case luatype.Def:
		owner, typeDeclId, hasTypeDecl = ids.NewTypeOwnerId(vt.Id), vt.Id, true
	case luatype.Ref:
		owner, typeDeclId, hasTypeDecl = ids.NewTypeOwnerId(vt.Id), vt.Id, true
	default:
		owner = ids.NewElementOwnerId(file, call.Args[0].Range())
	}
	for _, field := range mtTable.Fields {
		if !metamethodNames[field.Name] {
			continue
		}
		opId := ids.NewOperatorId(file, field.Range().Start)
		// Operator.Owner only models a nominal TypeDecl owner (spec.md
		// §3 "Operator"); an ad-hoc table's metatable is still recorded
		// in the Metatable record below, but with no OperatorStore entry
		// of its own, member resolution's by-operator strategy does not
		// resolve anything through it.
		if hasTypeDecl {
			d.Store.Operators.Add(&index.Operator{Id: opId, Owner: typeDeclId, File: file, Name: field.Name})
		}
		d.Store.Metatables.SetMethod(owner, file, field.Name, opId)
	}
}

// runResolvePass re-attempts inference for Decls left unresolved after
// the Member pass (spec.md §4.10 step 6: "members whose type depended
// on another file's not-yet-indexed symbol"), iterating to a fix point
// bounded at a small constant since each round can only ever resolve
// previously-nil decls, never un-resolve one — so the loop is
// monotonically shrinking and cannot oscillate.
const maxResolveRounds = 5

func (d *Driver) runResolvePass(ctx context.Context, sources []FileSource) {
	for round := 0; round < maxResolveRounds; round++ {
		if ctx.Err() != nil {
			return
		}
		resolvedAny := false
		for _, src := range sources {
			tree, ok := d.Store.Scopes.Get(src.File)
			if !ok {
				continue
			}
			astshape.WalkDescendants(src.Chunk, func(event astshape.WalkEvent, n astshape.Node) {
				if event != astshape.Enter {
					return
				}
				switch s := n.(type) {
				case *astshape.LocalStat:
					if d.resolveBindingTargets(src.File, tree.Root, s.Names, s.Exprs) {
						resolvedAny = true
					}
				case *astshape.AssignStat:
					if d.resolveAssignTargets(src.File, tree.Root, s.Targets, s.Exprs) {
						resolvedAny = true
					}
				}
			})
		}
		if !resolvedAny {
			return
		}
	}
}
