// Package query is the C10 Semantic Query Facade: a read-only view
// over a Store that a hover/completion/definition front end pulls
// through C6/C7/C8, pulled out of a protocol-specific handler into a
// reusable, protocol-free surface.
//
// Grounded on funxy's cmd/lsp handler_hover.go/handler_completion.go/
// handler_definition.go: each handler's real work is "find the node at
// this position, resolve what it names, infer or look up its type,
// render it" with the LSP marshaling stripped away — that shape is
// reproduced here as standalone functions and Facade methods.
package query

import (
	"context"
	"sort"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/infer"
	"github.com/emmylua-go/luacore/luatype"
)

// Facade bundles the read-only collaborators a query needs: the index
// store plus the C6 inferencer that can still compute a type for an
// expression the Member pass never touched (spec.md §4.10 step 5 only
// runs eagerly over top-level decls, not every sub-expression).
type Facade struct {
	Store *index.Store
	Infer *infer.Inferencer
}

func New(store *index.Store, inferencer *infer.Inferencer) *Facade {
	return &Facade{Store: store, Infer: inferencer}
}

// NodeAt returns the innermost node of root whose Range contains pos,
// the shared first step of hover/completion/definition: funxy's
// handlers instead walk line/column text state (isInsideComment's
// state machine) since funxy source is re-parsed per request; this
// core indexes by byte offset and keeps the AST around, so a plain
// range-containment descent replaces that scan.
func NodeAt(root astshape.Node, pos ids.Pos) astshape.Node {
	if !root.Range().Contains(pos) {
		return nil
	}
	best := root
	for _, child := range root.Children() {
		if child == nil {
			continue
		}
		if found := NodeAt(child, pos); found != nil {
			best = found
			break
		}
	}
	return best
}

// ResolveName resolves a *astshape.NameExpr occurrence to the Decl it
// names: a local lookup through scope first (spec.md §4.4's lexical
// shadowing), falling back to the last of the matching global Decls
// that store.Decls.Globals returns (that order is not defined).
func ResolveName(store *index.Store, file ids.FileId, name *astshape.NameExpr, scope *index.Scope) (*index.Decl, bool) {
	if scope != nil {
		if decl, ok := scope.FindDecl(name.Name, name.Range().Start); ok {
			return decl, true
		}
	}
	globals := store.Decls.Globals(name.Name)
	if len(globals) == 0 {
		return nil, false
	}
	return globals[len(globals)-1], true
}

// ResolveMember resolves `prefix.key`/`prefix[key]` (an *astshape.
// IndexExpr) to the index.Member it names, inferring prefix's type
// first and then looking the key up directly in the member map of
// that type when it is a nominal Def/Ref. Supers, table literals,
// Expr keys and `__index` operators are not searched.
func (f *Facade) ResolveMember(file ids.FileId, expr *astshape.IndexExpr, scope *index.Scope) (*index.Member, luatype.Type, bool) {
	prefixType, failure := f.Infer.InferExpr(file, expr.Prefix, scope)
	if failure != nil {
		return nil, nil, false
	}
	key, ok := memberKeyOf(expr)
	if !ok {
		return nil, prefixType, false
	}
	owner, ok := ownerOf(prefixType)
	if !ok {
		return nil, prefixType, false
	}
	mm := f.Store.Members.GetMemberMap(owner)
	member, ok := mm[key]
	return member, prefixType, ok
}

func memberKeyOf(expr *astshape.IndexExpr) (index.MemberKey, bool) {
	if expr.Op == astshape.IndexDot {
		if name, ok := expr.Key.(*astshape.NameExpr); ok {
			return index.NameKey(name.Name), true
		}
		return index.MemberKey{}, false
	}
	if lit, ok := expr.Key.(*astshape.LiteralExpr); ok && lit.LitKind == astshape.LiteralString {
		return index.NameKey(lit.StrValue), true
	}
	return index.MemberKey{}, false
}

func ownerOf(t luatype.Type) (ids.OwnerId, bool) {
	switch v := t.(type) {
	case luatype.Def:
		return ids.NewTypeOwnerId(v.Id), true
	case luatype.Ref:
		return ids.NewTypeOwnerId(v.Id), true
	default:
		return ids.OwnerId{}, false
	}
}

// TypeAt infers the type of any expression node, the shared backing
// of hover-over-expression and completion's "what members does the
// thing before the dot have" step.
func (f *Facade) TypeAt(file ids.FileId, node astshape.Node, scope *index.Scope) (luatype.Type, bool) {
	t, failure := f.Infer.InferExpr(file, node, scope)
	if failure != nil {
		return nil, false
	}
	return t, true
}

// CompletionCandidate is one member offered after `prefix.`, sorted by
// name for deterministic output (funxy's getCompletionItems sorts its
// own candidate list the same way before returning it over the wire).
type CompletionCandidate struct {
	Name string
	Type luatype.Type
}

// CompletionsFor lists every member a query facade can offer for
// `prefixType.`, sorted by name.
func (f *Facade) CompletionsFor(prefixType luatype.Type) []CompletionCandidate {
	owner, ok := ownerOf(prefixType)
	if !ok {
		return nil
	}
	mm := f.Store.Members.GetMemberMap(owner)
	out := make([]CompletionCandidate, 0, len(mm))
	for key, m := range mm {
		if key.Kind != index.KeyName {
			continue
		}
		out = append(out, CompletionCandidate{Name: key.Name, Type: m.DeclaredType})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ReferencesOf returns every local reference range to decl. Cross-file
// global references are looked up separately via store.References.
// GlobalRefs(name), since global/member references are keyed by name
// rather than by Decl (spec.md §3's reference index shape).
func ReferencesOf(store *index.Store, decl ids.DeclId) []index.LocalRef {
	return store.References.LocalRefs(decl)
}

// Humanize renders a type for display (hover text, inlay hints).
// funxy's PrettifyType additionally renames HM-inference-internal type
// variables (`t17`, `gen_t3`, `$skolem_4`) to short letters before
// stringifying, because its unifier can leave an unbound TVar in a
// finished inference result; this core's C6 never does — InferExpr
// always returns either a concrete structural Type or luatype.Unknown,
// so Humanize only needs String() with no variable-renaming pass.
func Humanize(t luatype.Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

// CancelCheck is a convenience helper query callers use in a long-
// running workspace-wide operation (e.g. "find all references" across
// every open file), matching driver.Run's own ctx.Err() polling idiom
// (spec.md §5's cancel-predicate design, SPEC_FULL.md §5.1).
func CancelCheck(ctx context.Context) bool {
	return ctx.Err() != nil
}
