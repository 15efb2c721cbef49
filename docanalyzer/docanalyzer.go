// Package docanalyzer is the C5 Doc Analyzer: it walks the doc
// comments a file's declaration-analyzer pass (C4) left attached to
// each Block, parses their `---@xxx` tags via the type grammar in
// grammar.go, and populates the nominal-type, member, signature,
// operator and flow-assertion sub-indices spec.md §4.5 describes.
//
// Grounded on declanalyzer.Walker's shape (a per-file walker struct
// driven by astshape.WalkDescendants, one addXxx-style helper per
// concrete statement/tag kind) applied to doc tags instead of bare
// syntax, per funxy's internal/parser/types.go recursive-descent style
// carried into grammar.go already in this package.
package docanalyzer

import (
	"strings"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

// genericScope pairs a file range with the GenericIndex frame active
// within it, so a doc comment's template names resolve against the
// nearest enclosing `@class`/`@alias`/`@generic` binding (spec.md §4.5
// "a template parameter name found inside a GenericIndex scope ...").
type genericScope struct {
	rng ids.Range
	idx *GenericIndex
}

// Walker holds the per-file state threaded through one Analyze call.
type Walker struct {
	file  ids.FileId
	store *index.Store
	diags *diagnostics.Collector

	namespace string // active @namespace scope, "" for the global namespace
	scopes    []genericScope
	chunkEnd  ids.Pos
}

func New(file ids.FileId, store *index.Store, diags *diagnostics.Collector) *Walker {
	return &Walker{file: file, store: store, diags: diags}
}

// Analyze walks chunk, the same root Block C4 already processed,
// pairing every doc comment with its owning statement and dispatching
// each tag it carries. It is the sole C5 entry point the driver (C9)
// calls, run after Declaration and before Flow/Member.
func (w *Walker) Analyze(chunk *astshape.Block) {
	w.chunkEnd = chunk.Range().End
	astshape.WalkDescendants(chunk, func(event astshape.WalkEvent, n astshape.Node) {
		if event != astshape.Enter {
			return
		}
		if b, ok := n.(*astshape.Block); ok {
			w.processBlockComments(b)
		}
	})
}

func (w *Walker) processBlockComments(b *astshape.Block) {
	for _, c := range b.Comments {
		w.processComment(c, findOwningStmt(c, b.Stmts))
	}
}

// findOwningStmt returns the nearest statement starting at or after
// c's end (spec.md §4.5 "the owning statement" of a doc comment is the
// declaration it immediately precedes).
func findOwningStmt(c *astshape.Comment, stmts []astshape.Node) astshape.Node {
	var best astshape.Node
	for _, s := range stmts {
		if s.Range().Start < c.Range().End {
			continue
		}
		if best == nil || s.Range().Start < best.Range().Start {
			best = s
		}
	}
	return best
}

// activeGeneric returns the innermost registered GenericIndex whose
// range contains pos, nil if none is active there.
func (w *Walker) activeGeneric(pos ids.Pos) *GenericIndex {
	var best *genericScope
	for i := range w.scopes {
		s := &w.scopes[i]
		if !s.rng.Contains(pos) {
			continue
		}
		if best == nil || (s.rng.End-s.rng.Start) < (best.rng.End-best.rng.Start) {
			best = s
		}
	}
	if best == nil {
		return nil
	}
	return best.idx
}

// processComment dispatches every tag on one doc comment. Nominal-type
// tags (@class/@enum/@alias) and @generic run first so the @field/
// @param/@return/@type tags sharing the same comment see the owner and
// generic frame they just introduced (spec.md §4.5's tags are written
// together on one doc-comment block in source order, but @class always
// conceptually scopes its own @field lines regardless of line order).
func (w *Walker) processComment(c *astshape.Comment, owner astshape.Node) {
	generic := w.activeGeneric(c.Range().Start)
	var currentOwner ids.OwnerId
	var hasOwner bool

	for _, tag := range c.Tags {
		switch t := tag.(type) {
		case *astshape.DocClassTag:
			id := w.processClassTag(c, t, owner, generic)
			currentOwner, hasOwner = ids.NewTypeOwnerId(id), true
		case *astshape.DocEnumTag:
			id := w.processEnumTag(c, t, owner, generic)
			currentOwner, hasOwner = ids.NewTypeOwnerId(id), true
		case *astshape.DocAliasTag:
			w.processAliasTag(c, t, owner, generic)
		case *astshape.DocGenericTag:
			generic = w.processGenericTag(c, t, owner, generic)
		case *astshape.DocNamespaceTag:
			w.namespace = t.Name
		}
	}

	for _, tag := range c.Tags {
		switch t := tag.(type) {
		case *astshape.DocFieldTag:
			if hasOwner {
				w.processFieldTag(t, currentOwner, generic)
			}
		case *astshape.DocTypeTag:
			w.processTypeTag(t, owner, generic)
		case *astshape.DocParamTag:
			w.processParamTag(t, owner, generic)
		case *astshape.DocReturnTag:
			w.processReturnTag(t, owner, generic)
		case *astshape.DocOverloadTag:
			w.processOverloadTag(t, owner, generic)
		case *astshape.DocCastTag:
			w.processCastTag(t, generic)
		case *astshape.DocAsTag:
			w.processAsTag(t, generic)
		case *astshape.DocUsingTag, *astshape.DocExportTag:
			// @using/@export only scope name resolution/visibility for a
			// hover or completion collaborator; the core has nothing
			// further to record for them.
		}
	}
}

func hasAttr(attrs []string, name string) bool {
	for _, a := range attrs {
		if a == name {
			return true
		}
	}
	return false
}

// attrsFromNames maps a @class tag's raw attribute-name list to the
// index package's TypeDeclAttr bitset.
func attrsFromNames(attrs []string) index.TypeDeclAttr {
	var out index.TypeDeclAttr
	for _, a := range attrs {
		switch a {
		case "key":
			out |= index.AttrKey
		case "exact":
			out |= index.AttrExact
		case "global":
			out |= index.AttrGlobal
		case "constructor":
			out |= index.AttrConstructor
		case "meta":
			out |= index.AttrMeta
		}
	}
	return out
}

func (w *Walker) processClassTag(c *astshape.Comment, t *astshape.DocClassTag, owner astshape.Node, parent *GenericIndex) ids.TypeDeclId {
	id := ids.NewTypeDeclId(w.namespace, t.Name)
	partial := hasAttr(t.Attributes, "partial")
	decl, collided := w.store.TypeDecls.EnsureMerged(id, index.KindClass, w.file, partial)
	if collided {
		w.diags.Add(diagnostics.New(diagnostics.DuplicateType, w.file, t.Range(), "duplicate class '"+id.String()+"'"))
	}
	decl.Attributes |= attrsFromNames(t.Attributes)

	genIdx := w.bindGenericParams(t.Generics, parent, ids.GenericTplType, id, t.Range().Start)

	var supers []luatype.Type
	for _, superExpr := range t.Supers {
		supers = append(supers, parseDocType(superExpr, w.file, t.Range(), genIdx, w.diags))
	}
	w.store.TypeDecls.AddSupers(id, w.file, supers)

	w.bindTypeToOwner(owner, luatype.Def{Id: id})
	return id
}

func (w *Walker) processEnumTag(c *astshape.Comment, t *astshape.DocEnumTag, owner astshape.Node, generic *GenericIndex) ids.TypeDeclId {
	id := ids.NewTypeDeclId(w.namespace, t.Name)
	decl, collided := w.store.TypeDecls.EnsureMerged(id, index.KindEnum, w.file, false)
	if collided {
		w.diags.Add(diagnostics.New(diagnostics.DuplicateType, w.file, t.Range(), "duplicate enum '"+id.String()+"'"))
	}
	if t.BaseType != "" {
		decl.EnumBase = parseDocType(t.BaseType, w.file, t.Range(), generic, w.diags)
	}
	w.bindTypeToOwner(owner, luatype.Def{Id: id})
	return id
}

func (w *Walker) processAliasTag(c *astshape.Comment, t *astshape.DocAliasTag, owner astshape.Node, parent *GenericIndex) {
	id := ids.NewTypeDeclId(w.namespace, t.Name)
	decl, collided := w.store.TypeDecls.EnsureMerged(id, index.KindAlias, w.file, false)
	if collided {
		w.diags.Add(diagnostics.New(diagnostics.DuplicateType, w.file, t.Range(), "duplicate alias '"+id.String()+"'"))
	}

	genIdx := w.bindGenericParams(t.Generics, parent, ids.GenericTplType, id, t.Range().Start)

	if t.Origin != "" {
		decl.AliasOrigin = parseDocType(t.Origin, w.file, t.Range(), genIdx, w.diags)
	}
	if len(t.Members) > 0 {
		owner := ids.NewTypeOwnerId(id)
		memberIds := make([]ids.MemberId, 0, len(t.Members))
		for i, m := range t.Members {
			// Synthetic offsets: @alias union branches carry no position of
			// their own (astshape.DocAliasMember is text-only), so each
			// branch is pinned to the tag's own start plus its index,
			// distinct within this one tag's span.
			mid := ids.NewMemberId(w.file, t.Range().Start+ids.Pos(i))
			member := &index.Member{
				Id:           mid,
				Owner:        owner,
				Key:          index.MemberKey{Kind: index.KeyNone},
				File:         w.file,
				DeclaredType: parseDocType(m.TypeExpr, w.file, t.Range(), genIdx, w.diags),
			}
			w.store.Members.Add(member)
			memberIds = append(memberIds, mid)
			if m.Description != "" {
				w.store.Descriptions.Add(&index.Description{
					Owner: ids.PropertyOwnerId{Kind: ids.PropertyOwnerMember, Inner: mid.String()},
					File:  w.file,
					Range: t.Range(),
					Text:  m.Description,
				})
			}
		}
		decl.AliasMembers = memberIds
	}

	w.bindTypeToOwner(owner, luatype.Def{Id: id})
}

// bindGenericParams registers one new GenericIndex frame under parent,
// binding each raw DocGenericParam and, when owner is a TypeDeclId,
// contributing the resulting []index.GenericParam to its merged
// Generics() list. The frame's covering range runs from the tag's own
// position to the end of the chunk, since a class/alias generic
// parameter stays visible for every downstream reference to that name
// in the rest of the file (method defs, further field/index-expression
// assignments on the same value).
func (w *Walker) bindGenericParams(raw []astshape.DocGenericParam, parent *GenericIndex, kind ids.GenericTplKind, owner ids.TypeDeclId, start ids.Pos) *GenericIndex {
	if len(raw) == 0 {
		return parent
	}
	genIdx := NewGenericIndex(parent)
	params := make([]index.GenericParam, 0, len(raw))
	for i, g := range raw {
		tplId := ids.GenericTplId{Kind: kind, Idx: i, Name: g.Name}
		genIdx.Bind(g.Name, tplId)
	}
	for i, g := range raw {
		tplId := ids.GenericTplId{Kind: kind, Idx: i, Name: g.Name}
		var bound luatype.Type
		if g.Bound != "" {
			bound = parseDocType(g.Bound, w.file, ids.Range{Start: start, End: start}, genIdx, w.diags)
		}
		params = append(params, index.GenericParam{Id: tplId, Name: g.Name, Bound: bound})
	}
	w.store.TypeDecls.AddGenerics(owner, w.file, params)
	w.scopes = append(w.scopes, genericScope{rng: ids.Range{Start: start, End: w.chunkEnd}, idx: genIdx})
	return genIdx
}

func (w *Walker) processFieldTag(t *astshape.DocFieldTag, owner ids.OwnerId, generic *GenericIndex) {
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	if t.Optional {
		typ = luatype.Union{Types: []luatype.Type{typ, luatype.Nil}}
	}
	m := &index.Member{
		Id:           ids.NewMemberId(w.file, t.Range().Start),
		Owner:        owner,
		Key:          index.NameKey(t.Name),
		File:         w.file,
		DeclaredType: typ,
	}
	w.store.Members.Add(m)
	if t.Description != "" {
		w.store.Descriptions.Add(&index.Description{
			Owner: ids.PropertyOwnerId{Kind: ids.PropertyOwnerMember, Inner: m.Id.String()},
			File:  w.file,
			Range: t.Range(),
			Text:  t.Description,
		})
	}
}

func (w *Walker) processTypeTag(t *astshape.DocTypeTag, owner astshape.Node, generic *GenericIndex) {
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	w.bindTypeToOwner(owner, typ)
}

// closureOf finds the ClosureExpr a @param/@return/@overload/@generic
// tag's owning statement defines, the value whose Signature those tags
// describe (spec.md §4.5 "@param/@return ... attach to the owning
// function's Signature").
func closureOf(owner astshape.Node) *astshape.ClosureExpr {
	switch s := owner.(type) {
	case *astshape.LocalFuncStat:
		return s.Func
	case *astshape.FuncStat:
		return s.Func
	case *astshape.LocalStat:
		if len(s.Exprs) > 0 {
			if cl, ok := s.Exprs[0].(*astshape.ClosureExpr); ok {
				return cl
			}
		}
	case *astshape.AssignStat:
		if len(s.Exprs) > 0 {
			if cl, ok := s.Exprs[0].(*astshape.ClosureExpr); ok {
				return cl
			}
		}
	}
	return nil
}

func (w *Walker) ensureSignature(owner astshape.Node) (*index.Signature, bool) {
	cl := closureOf(owner)
	if cl == nil {
		return nil, false
	}
	id := ids.NewSignatureId(w.file, cl.Range().Start)
	if sig, ok := w.store.Signatures.Get(id); ok {
		return sig, true
	}
	sig := &index.Signature{Id: id, File: w.file, IsColonDefine: cl.IsColonDefine}
	w.store.Signatures.Add(sig)
	return sig, true
}

func (w *Walker) processParamTag(t *astshape.DocParamTag, owner astshape.Node, generic *GenericIndex) {
	sig, ok := w.ensureSignature(owner)
	if !ok {
		return
	}
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	if t.Optional {
		typ = luatype.Union{Types: []luatype.Type{typ, luatype.Nil}}
	}
	if sig.Declared == nil {
		sig.Declared = &luatype.DocFunction{IsColon: sig.IsColonDefine}
	}
	sig.Declared.Params = append(sig.Declared.Params, luatype.Param{Name: t.Name, Type: typ})
	if t.Description != "" {
		w.store.Descriptions.Add(&index.Description{
			Owner: ids.PropertyOwnerId{Kind: ids.PropertyOwnerSignature, Inner: sig.Id.String() + "#" + t.Name},
			File:  w.file,
			Range: t.Range(),
			Text:  t.Description,
		})
	}
}

func (w *Walker) processReturnTag(t *astshape.DocReturnTag, owner astshape.Node, generic *GenericIndex) {
	sig, ok := w.ensureSignature(owner)
	if !ok {
		return
	}
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	if sig.Declared == nil {
		sig.Declared = &luatype.DocFunction{IsColon: sig.IsColonDefine}
	}
	switch existing := sig.Declared.Return.(type) {
	case nil:
		sig.Declared.Return = typ
	case luatype.Tuple:
		existing.Elems = append(existing.Elems, typ)
		sig.Declared.Return = existing
	default:
		sig.Declared.Return = luatype.Tuple{Elems: []luatype.Type{existing, typ}}
	}
	sig.ResolveReturn = true
	if t.Description != "" {
		key := "#return"
		if t.Name != "" {
			key = "#return:" + t.Name
		}
		w.store.Descriptions.Add(&index.Description{
			Owner: ids.PropertyOwnerId{Kind: ids.PropertyOwnerSignature, Inner: sig.Id.String() + key},
			File:  w.file,
			Range: t.Range(),
			Text:  t.Description,
		})
	}
}

func (w *Walker) processOverloadTag(t *astshape.DocOverloadTag, owner astshape.Node, generic *GenericIndex) {
	sig, ok := w.ensureSignature(owner)
	if !ok {
		return
	}
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	if fn, ok := typ.(luatype.DocFunction); ok {
		sig.Overloads = append(sig.Overloads, fn)
	}
}

// processGenericTag binds a function-level `@generic T[: Bound], ...`
// tag into a fresh frame nested under the active one, scoped to cover
// the owning closure's whole body so param/return tags on the same
// signature, plus references inside the function, all resolve T as a
// TplRef (spec.md §4.5).
func (w *Walker) processGenericTag(c *astshape.Comment, t *astshape.DocGenericTag, owner astshape.Node, parent *GenericIndex) *GenericIndex {
	idx := NewGenericIndex(parent)
	for i, g := range t.Params {
		idx.Bind(g.Name, ids.GenericTplId{Kind: ids.GenericTplFunc, Idx: i, Name: g.Name})
	}
	for _, g := range t.Params {
		if g.Bound != "" {
			parseDocType(g.Bound, w.file, t.Range(), idx, w.diags)
		}
	}
	end := w.chunkEnd
	if cl := closureOf(owner); cl != nil {
		end = cl.Range().End
	}
	w.scopes = append(w.scopes, genericScope{rng: ids.Range{Start: c.Range().Start, End: end}, idx: idx})
	return idx
}

// processCastTag records a `@cast expr, op1, op2 ...` flow assertion
// anchored at the tag's own position (spec.md §4.5/§4.6): the primary
// operator (the first, stripped of its leading +/-) is resolved to a
// concrete Type for the flow pass's narrowing overlay.
func (w *Walker) processCastTag(t *astshape.DocCastTag, generic *GenericIndex) {
	var primary luatype.Type
	if len(t.Ops) > 0 {
		primary = parseDocType(strings.TrimLeft(t.Ops[0], "+-"), w.file, t.Range(), generic, w.diags)
	}
	w.store.Flow.Add(&index.FlowAssertion{
		File: w.file,
		At:   t.Range(),
		Expr: t.Expr,
		Ops:  t.Ops,
		Type: primary,
	})
}

// processAsTag records a bare `@as Type` narrowing, anchored at the
// tag's own position with no target expression (spec.md §4.5 "@as ...
// emit a flow type-assertion" on the owning expression itself).
func (w *Walker) processAsTag(t *astshape.DocAsTag, generic *GenericIndex) {
	typ := parseDocType(t.TypeExpr, w.file, t.Range(), generic, w.diags)
	w.store.Flow.Add(&index.FlowAssertion{
		File: w.file,
		At:   t.Range(),
		Type: typ,
	})
}

// bindTypeToOwner attaches t as the resolved type of owner's bound
// name, the decl-site half of @class/@enum/@alias/@type processing
// (spec.md §4.5). Owner shapes follow declanalyzer's own decl-id
// scheme exactly (name.Range().Start), so the Decl this writes into
// was already created by C4's earlier pass over the same file.
func (w *Walker) bindTypeToOwner(owner astshape.Node, t luatype.Type) {
	switch s := owner.(type) {
	case *astshape.LocalStat:
		if len(s.Names) > 0 {
			w.setDeclType(s.Names[0], t)
		}
	case *astshape.LocalFuncStat:
		w.setDeclType(s.Name, t)
	case *astshape.AssignStat:
		if len(s.Targets) > 0 {
			w.bindAssignTarget(s.Targets[0], t)
		}
	case *astshape.FuncStat:
		if s.Target.Object == nil {
			w.setDeclType(astshape.NewNameExpr(s.Target.Range(), s.Target.Name), t)
		}
	}
}

func (w *Walker) setDeclType(name *astshape.NameExpr, t luatype.Type) {
	w.store.Decls.SetType(ids.NewDeclId(w.file, name.Range().Start), t)
}

func (w *Walker) bindAssignTarget(target astshape.Node, t luatype.Type) {
	switch n := target.(type) {
	case *astshape.NameExpr:
		w.setDeclType(n, t)
	case *astshape.IndexExpr:
		w.addFieldMember(n, t)
	}
}

// addFieldMember handles `@class`/`@type` binding onto a
// `prefix.key = ...` assignment target: when prefix is itself a
// previously-typed nominal value, key becomes a Member of that
// TypeDecl rather than a Decl. Files are processed top-to-bottom, so a
// `prefix` already carrying a Def from an earlier statement in this
// same pass (a visible local, or a typed global of that name) resolves
// correctly; a forward reference does not.
func (w *Walker) addFieldMember(e *astshape.IndexExpr, t luatype.Type) {
	name, ok := e.Key.(*astshape.NameExpr)
	if !ok || e.Op == astshape.IndexBracket {
		return
	}
	prefixName, ok := e.Prefix.(*astshape.NameExpr)
	if !ok {
		return
	}
	prefixId := ids.NewDeclId(w.file, prefixName.Range().Start)
	decl, found := w.store.Decls.Get(prefixId)
	if !found {
		if tree, ok := w.store.Scopes.Get(w.file); ok && tree.Root != nil {
			decl, found = tree.Root.FindDecl(prefixName.Name, prefixName.Range().Start)
		}
	}
	if !found {
		for _, g := range w.store.Decls.Globals(prefixName.Name) {
			if g.Type != nil {
				decl, found = g, true
				break
			}
		}
	}
	if !found || decl.Type == nil {
		return
	}
	var declId ids.TypeDeclId
	switch pt := decl.Type.(type) {
	case luatype.Def:
		declId = pt.Id
	case luatype.Ref:
		declId = pt.Id
	default:
		return
	}
	w.store.Members.Add(&index.Member{
		Id:           ids.NewMemberId(w.file, name.Range().Start),
		Owner:        ids.NewTypeOwnerId(declId),
		Key:          index.NameKey(name.Name),
		File:         w.file,
		DeclaredType: t,
	})
}
