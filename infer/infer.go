// Package infer is the C6 Type Inference engine plus §4.7 Member
// Resolution: given an expression node, return its type (or a
// structured failure reason), dispatching on expression kind, and
// resolve `prefix.key`/`prefix[key]` member accesses through the
// two-strategy lookup spec.md §4.7 describes.
//
// Grounded on funxy's internal/analyzer/inference*.go staged per-
// expression-kind dispatch and its own inference cache keyed by AST
// node identity; we key by (FileId, syntax Pos) instead, since this
// core's syntax ids are the position-based handles package ids defines
// rather than funxy's in-memory node pointers.
package infer

import (
	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/generic"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
	"github.com/emmylua-go/luacore/subtype"
)

// FailKind is the InferFailReason variant spec.md §4.6 names.
type FailKind int

const (
	FailNotFound FailKind = iota
	FailFieldNotFound
	FailUnresolved
	FailRecursion
)

// Fail is a structured inference failure; never itself an
// *diagnostics.AnalysisError (spec.md §7: recovered inference failures
// never reach the sink) — callers that need a diagnostic construct one
// from the expression's own position.
type Fail struct {
	Kind FailKind
	Note string
}

func fail(kind FailKind, note string) (luatype.Type, *Fail) { return nil, &Fail{Kind: kind, Note: note} }
func ok(t luatype.Type) (luatype.Type, *Fail)                { return t, nil }

// RuntimeVersion gates the literal-arithmetic table (SPEC_FULL.md
// §4.6.1), mirroring funxy's own `internal/config/constants.go`
// version-keyed builtin behavior.
type RuntimeVersion int

const (
	Lua51 RuntimeVersion = iota
	Lua52
	Lua53
	Lua54
	LuaJIT
	Latest
)

func (v RuntimeVersion) hasBitwiseOps() bool {
	return v == Lua53 || v == Lua54 || v == LuaJIT || v == Latest
}

func (v RuntimeVersion) divAlwaysFloat() bool {
	return v == Lua53 || v == Lua54 || v == LuaJIT || v == Latest
}

type cacheKey struct {
	file ids.FileId
	pos  ids.Pos
}

// Inferencer is the per-workspace C6 entry point; it is safe to share
// across files since its cache is keyed by (FileId, Pos) and its
// collaborators (store, generic engine, subtype checker) are
// themselves workspace-wide.
type Inferencer struct {
	store   *index.Store
	generic *generic.Engine
	checker *subtype.Checker
	version RuntimeVersion
	strict  bool // strict array indexing (SPEC_FULL §1.1 `strict.*` knobs)

	cache map[cacheKey]luatype.Type
}

func New(store *index.Store, checker *subtype.Checker, version RuntimeVersion, strict bool) *Inferencer {
	inf := &Inferencer{store: store, checker: checker, version: version, strict: strict, cache: make(map[cacheKey]luatype.Type)}
	inf.generic = generic.NewEngine(store, inf.resolveMemberShallow)
	return inf
}

// Engine exposes the generic.Engine constructed with this Inferencer's
// ResolveMember bound in, for callers (e.g. the driver) that need to
// run instantiate_type_generic directly.
func (inf *Inferencer) Engine() *generic.Engine { return inf.generic }

func (inf *Inferencer) resolveMemberShallow(t luatype.Type, key index.MemberKey) (luatype.Type, bool) {
	result, failure := inf.ResolveMember(t, key, map[ids.TypeDeclId]bool{}, 0)
	return result, failure == nil
}

const maxGuardDepth = 200

// InferExpr is the public C6 entry point (spec.md §4.6): dispatch on
// file+node's expression kind, consulting/populating the cache keyed
// by (file, node.Range().Start).
func (inf *Inferencer) InferExpr(file ids.FileId, n astshape.Node, scope *index.Scope) (luatype.Type, *Fail) {
	if n == nil {
		return fail(FailUnresolved, "nil expression")
	}
	key := cacheKey{file: file, pos: n.Range().Start}
	if t, hit := inf.cache[key]; hit {
		return ok(t)
	}
	t, f := inf.inferUncached(file, n, scope)
	if f == nil {
		inf.cache[key] = t
	}
	return t, f
}

// Invalidate drops every cached entry for file (the driver calls this
// before re-running a dirty file's passes, since the cache key space
// is otherwise unbounded across re-analyses).
func (inf *Inferencer) Invalidate(file ids.FileId) {
	for k := range inf.cache {
		if k.file == file {
			delete(inf.cache, k)
		}
	}
}

func (inf *Inferencer) inferUncached(file ids.FileId, n astshape.Node, scope *index.Scope) (luatype.Type, *Fail) {
	switch node := n.(type) {
	case *astshape.LiteralExpr:
		return ok(inf.inferLiteral(node))
	case *astshape.NameExpr:
		return inf.inferName(file, node, scope)
	case *astshape.IndexExpr:
		return inf.inferIndex(file, node, scope)
	case *astshape.BinaryExpr:
		return inf.inferBinary(file, node, scope)
	case *astshape.UnaryExpr:
		return inf.inferUnary(file, node, scope)
	case *astshape.CallExpr:
		return inf.inferCall(file, node, scope)
	case *astshape.ClosureExpr:
		return ok(luatype.Signature{Id: ids.NewSignatureId(file, node.Range().Start)})
	case *astshape.TableArrayExpr:
		return ok(luatype.TableConst{File: file, Range: node.Range()})
	case *astshape.TableObjectExpr:
		return ok(luatype.TableConst{File: file, Range: node.Range()})
	default:
		return fail(FailUnresolved, "unsupported expression node")
	}
}

func (inf *Inferencer) inferLiteral(l *astshape.LiteralExpr) luatype.Type {
	switch l.LitKind {
	case astshape.LiteralNil:
		return luatype.Nil
	case astshape.LiteralTrue:
		return luatype.BooleanConst{Value: true}
	case astshape.LiteralFalse:
		return luatype.BooleanConst{Value: false}
	case astshape.LiteralInteger:
		return luatype.IntegerConst{Value: l.IntValue}
	case astshape.LiteralFloat:
		return luatype.FloatConst{Value: l.FloatValue}
	case astshape.LiteralString:
		return luatype.StringConst{Value: l.StrValue}
	case astshape.LiteralVararg:
		return luatype.Variadic{Body: luatype.VariadicBody{Base: luatype.Unknown}}
	default:
		return luatype.Unknown
	}
}

// inferName looks up a local's recorded type or a global's cross-file
// merged type, then applies flow-narrowing (spec.md §4.6 "Apply flow
// chain narrowing").
func (inf *Inferencer) inferName(file ids.FileId, n *astshape.NameExpr, scope *index.Scope) (luatype.Type, *Fail) {
	if scope != nil {
		if decl, found := scope.FindDecl(n.Name, n.Range().Start); found {
			t := decl.Type
			if t == nil {
				t = luatype.Unknown
			}
			return ok(inf.applyFlowNarrowing(file, n, t))
		}
	}
	globals := inf.store.Decls.Globals(n.Name)
	if len(globals) == 0 {
		return fail(FailNotFound, "undefined global "+n.Name)
	}
	var merged luatype.Type
	for _, g := range globals {
		if g.Type == nil {
			continue
		}
		if merged == nil {
			merged = g.Type
			continue
		}
		merged = luatype.NormalizeUnion([]luatype.Type{merged, g.Type})
	}
	if merged == nil {
		merged = luatype.Unknown
	}
	return ok(inf.applyFlowNarrowing(file, n, merged))
}

// applyFlowNarrowing consults the FlowStore for the most recent
// assertion anchored at or before n's position that narrows it
// (spec.md §4.6, §4.9 flow chain). A precise expression-text match is
// out of this core's scope (no expression-printer exists); we narrow
// whenever any assertion in file with a matching raw Expr text and an
// anchor at or before n's start exists, taking the latest such one.
func (inf *Inferencer) applyFlowNarrowing(file ids.FileId, n *astshape.NameExpr, base luatype.Type) luatype.Type {
	assertions := inf.store.Flow.InFile(file)
	var narrowed luatype.Type
	for _, a := range assertions {
		if a.Expr != n.Name {
			continue
		}
		if a.At.Start > n.Range().Start {
			continue
		}
		narrowed = a.Type
	}
	if narrowed == nil {
		return base
	}
	return narrowed
}

func (inf *Inferencer) inferIndex(file ids.FileId, e *astshape.IndexExpr, scope *index.Scope) (luatype.Type, *Fail) {
	prefixType, f := inf.InferExpr(file, e.Prefix, scope)
	if f != nil {
		return nil, f
	}
	key := inf.memberKeyFromIndex(e)
	return inf.ResolveMember(prefixType, key, map[ids.TypeDeclId]bool{}, 0)
}

func (inf *Inferencer) memberKeyFromIndex(e *astshape.IndexExpr) index.MemberKey {
	switch e.Op {
	case astshape.IndexDot, astshape.IndexColon:
		if name, ok := e.Key.(*astshape.NameExpr); ok {
			return index.NameKey(name.Name)
		}
		return index.MemberKey{Kind: index.KeyNone}
	case astshape.IndexBracket:
		if lit, ok := e.Key.(*astshape.LiteralExpr); ok {
			switch lit.LitKind {
			case astshape.LiteralInteger:
				return index.IntKey(lit.IntValue)
			case astshape.LiteralString:
				return index.NameKey(lit.StrValue)
			}
		}
		return index.MemberKey{Kind: index.KeyNone}
	default:
		return index.MemberKey{Kind: index.KeyNone}
	}
}

// ResolveMember is the public §4.7 entry point: `infer_member(prefix_
// type, key) -> Type`, trying the by-key strategy then the by-operator
// fallback, with an InferGuard (here a map[TypeDeclId]bool) breaking
// cyclic-super/recursive-alias loops.
func (inf *Inferencer) ResolveMember(prefixType luatype.Type, key index.MemberKey, guard map[ids.TypeDeclId]bool, depth int) (luatype.Type, *Fail) {
	if depth > maxGuardDepth {
		return fail(FailRecursion, "member resolution depth exceeded")
	}
	if prefixType == nil {
		return fail(FailNotFound, "nil prefix type")
	}
	t, byKeyFail := inf.resolveByKey(prefixType, key, guard, depth)
	if byKeyFail == nil {
		return ok(t)
	}
	if byKeyFail.Kind != FailFieldNotFound {
		return nil, byKeyFail
	}
	if t2, ok2 := inf.resolveByOperator(prefixType, key, guard, depth); ok2 {
		return ok(t2)
	}
	return nil, byKeyFail
}

func (inf *Inferencer) resolveByKey(t luatype.Type, key index.MemberKey, guard map[ids.TypeDeclId]bool, depth int) (luatype.Type, *Fail) {
	switch v := t.(type) {
	case luatype.TableConst:
		owner := ids.NewElementOwnerId(v.File, v.Range)
		return inf.lookupOwnerMember(owner, key)
	case luatype.Ref:
		return inf.resolveNominalMember(v.Id, key, guard, depth)
	case luatype.Def:
		return inf.resolveNominalMember(v.Id, key, guard, depth)
	case luatype.Tuple:
		if key.Kind != index.KeyInteger || key.Int < 1 || int(key.Int) > len(v.Elems) {
			return fail(FailFieldNotFound, "tuple index out of range")
		}
		return ok(v.Elems[key.Int-1])
	case luatype.Object:
		if key.Kind == index.KeyName {
			if ft, has := v.Fields[key.Name]; has {
				return ok(ft)
			}
		}
		if v.Index != nil {
			keyType := memberKeyAsType(key)
			if keyType != nil && inf.checker.CheckTypeCompact(keyType, v.Index.Key).Result.IsOk() {
				return ok(v.Index.Value)
			}
		}
		return fail(FailFieldNotFound, "object field not found")
	case luatype.Union:
		var collected []luatype.Type
		for _, branch := range v.Types {
			if p, isPrim := branch.(luatype.Primitive); isPrim && p.Kind == luatype.PNil {
				continue
			}
			bt, bf := inf.resolveByKey(branch, key, guard, depth+1)
			if bf != nil {
				return nil, bf
			}
			collected = append(collected, bt)
		}
		if len(collected) == 0 {
			return fail(FailFieldNotFound, "empty union")
		}
		return ok(luatype.NormalizeUnion(collected))
	case luatype.Intersection:
		for _, branch := range v.Types {
			if bt, bf := inf.resolveByKey(branch, key, guard, depth+1); bf == nil {
				return ok(bt)
			}
		}
		return fail(FailFieldNotFound, "no intersection branch resolved")
	case luatype.Generic:
		baseType := luatype.Ref{Id: v.Base}
		baseResult, bf := inf.resolveByKey(baseType, key, guard, depth+1)
		if bf != nil {
			return nil, bf
		}
		subst := generic.NewSubstitutor()
		if decl, found := inf.store.TypeDecls.Get(v.Base); found {
			for i, gp := range decl.Generics() {
				if i < len(v.Params) {
					subst.Bind(gp.Id, generic.TypeValue(v.Params[i]))
				}
			}
		}
		return ok(inf.generic.InstantiateTypeGeneric(baseResult, subst))
	case luatype.Instance:
		if bt, bf := inf.resolveByKey(v.Base, key, guard, depth+1); bf == nil {
			return ok(bt)
		}
		return inf.resolveByKey(luatype.TableConst{File: v.Filed.File, Range: v.Filed.Range}, key, guard, depth+1)
	case luatype.Primitive:
		if v.Kind == luatype.PGlobal {
			if key.Kind != index.KeyName {
				return fail(FailFieldNotFound, "global index by non-name key")
			}
			globals := inf.store.Decls.Globals(key.Name)
			if len(globals) == 0 {
				return fail(FailNotFound, "undefined global "+key.Name)
			}
			if globals[0].Type == nil {
				return ok(luatype.Unknown)
			}
			return ok(globals[0].Type)
		}
		return fail(FailFieldNotFound, "cannot index this primitive")
	case luatype.Array:
		if key.Kind != index.KeyInteger {
			return fail(FailFieldNotFound, "array index by non-integer key")
		}
		if inf.strict {
			return ok(luatype.Nullable{Inner: v.Elem})
		}
		return ok(v.Elem)
	case luatype.Nullable:
		return inf.resolveByKey(v.Inner, key, guard, depth+1)
	case luatype.Namespace:
		if key.Kind != index.KeyName {
			return fail(FailFieldNotFound, "namespace index by non-name key")
		}
		qualified := ids.NewTypeDeclId(v.Name, key.Name)
		if _, found := inf.store.TypeDecls.Get(qualified); found {
			return ok(luatype.Def{Id: qualified})
		}
		return ok(luatype.Namespace{Name: qualified.String()})
	default:
		return fail(FailFieldNotFound, "type does not support member access")
	}
}

func memberKeyAsType(key index.MemberKey) luatype.Type {
	switch key.Kind {
	case index.KeyName:
		return luatype.StringConst{Value: key.Name}
	case index.KeyInteger:
		return luatype.IntegerConst{Value: key.Int}
	case index.KeyExpr:
		return key.Expr
	default:
		return nil
	}
}

func (inf *Inferencer) lookupOwnerMember(owner ids.OwnerId, key index.MemberKey) (luatype.Type, *Fail) {
	if m, found := inf.store.Members.Lookup(owner, key); found {
		return ok(m.DeclaredType)
	}
	if key.Kind == index.KeyName || key.Kind == index.KeyInteger {
		keyType := memberKeyAsType(key)
		for _, m := range inf.store.Members.ExprMembers(owner) {
			if inf.checker.CheckTypeCompact(keyType, m.Key.Expr).Result.IsOk() {
				return ok(m.DeclaredType)
			}
		}
	}
	return fail(FailFieldNotFound, "member not found on owner "+owner.String())
}

// resolveNominalMember implements the Ref/Def branch of "by key": look
// up (owner, key) directly, else recurse into each super, honoring the
// InferGuard against cyclic supers (spec.md §4.7).
func (inf *Inferencer) resolveNominalMember(declId ids.TypeDeclId, key index.MemberKey, guard map[ids.TypeDeclId]bool, depth int) (luatype.Type, *Fail) {
	if guard[declId] {
		return fail(FailRecursion, "cyclic super chain at "+declId.String())
	}
	guard[declId] = true
	defer delete(guard, declId)

	owner := ids.NewTypeOwnerId(declId)
	if t, f := inf.lookupOwnerMember(owner, key); f == nil {
		return ok(t)
	}
	decl, found := inf.store.TypeDecls.Get(declId)
	if !found {
		return fail(FailNotFound, "unknown type decl "+declId.String())
	}
	for _, super := range decl.Supers() {
		if ref, isRef := super.(luatype.Ref); isRef {
			if t, f := inf.resolveNominalMember(ref.Id, key, guard, depth+1); f == nil {
				return ok(t)
			}
			continue
		}
		if t, f := inf.resolveByKey(super, key, guard, depth+1); f == nil {
			return ok(t)
		}
	}
	return fail(FailFieldNotFound, "field not found on "+declId.String())
}

// resolveByOperator is the "by operator" fallback strategy: search the
// `__index` operators of a nominal type's decl and its supers (spec.md
// §4.7 strategy 2). A TableConst's metatable record is looked up, but
// only TypeDecl owners have Operator entries, so a TableConst never
// resolves through this strategy.
func (inf *Inferencer) resolveByOperator(t luatype.Type, key index.MemberKey, guard map[ids.TypeDeclId]bool, depth int) (luatype.Type, bool) {
	switch v := t.(type) {
	case luatype.TableConst:
		owner := ids.NewElementOwnerId(v.File, v.Range)
		return inf.lookupIndexOperator(owner, key)
	case luatype.Ref:
		return inf.resolveOperatorNominal(v.Id, key, guard, depth)
	case luatype.Def:
		return inf.resolveOperatorNominal(v.Id, key, guard, depth)
	default:
		return nil, false
	}
}

func (inf *Inferencer) resolveOperatorNominal(declId ids.TypeDeclId, key index.MemberKey, guard map[ids.TypeDeclId]bool, depth int) (luatype.Type, bool) {
	if depth > maxGuardDepth {
		return nil, false
	}
	owner := ids.NewTypeOwnerId(declId)
	if t, ok2 := inf.lookupIndexOperator(owner, key); ok2 {
		return t, true
	}
	decl, found := inf.store.TypeDecls.Get(declId)
	if !found {
		return nil, false
	}
	for _, super := range decl.Supers() {
		if ref, isRef := super.(luatype.Ref); isRef {
			if t, ok2 := inf.resolveOperatorNominal(ref.Id, key, guard, depth+1); ok2 {
				return t, true
			}
		}
	}
	return nil, false
}

// lookupIndexOperator finds owner's `__index` operator (if any) and
// checks the access key against its declared operand type (spec.md
// §4.7: "The operator's operand type is checked against the access key
// by check_type_compact").
func (inf *Inferencer) lookupIndexOperator(owner ids.OwnerId, key index.MemberKey) (luatype.Type, bool) {
	mt, found := inf.store.Metatables.Get(owner)
	if !found {
		return nil, false
	}
	opId, has := mt.Methods["__index"]
	if !has {
		return nil, false
	}
	ownerDecl, isTypeOwner := ownerAsTypeDecl(owner)
	var ops []*index.Operator
	if isTypeOwner {
		ops = inf.store.Operators.Lookup(ownerDecl, "__index")
	}
	for _, op := range ops {
		if op.Id != opId {
			continue
		}
		if len(op.Operands) == 0 {
			return op.Result, true
		}
		keyType := memberKeyAsType(key)
		if keyType == nil || inf.checker.CheckTypeCompact(keyType, op.Operands[0]).Result.IsOk() {
			return op.Result, true
		}
	}
	return nil, false
}

func ownerAsTypeDecl(o ids.OwnerId) (ids.TypeDeclId, bool) {
	if o.Kind == ids.OwnerTypeDecl {
		return o.TypeDecl, true
	}
	return ids.TypeDeclId{}, false
}

// inferBinary dispatches through a metatable/operator lookup on the
// operand's type decl, or literal arithmetic for primitives (spec.md
// §4.6, SPEC_FULL §4.6.1's version-gated table).
func (inf *Inferencer) inferBinary(file ids.FileId, e *astshape.BinaryExpr, scope *index.Scope) (luatype.Type, *Fail) {
	left, lf := inf.InferExpr(file, e.Left, scope)
	if lf != nil {
		return nil, lf
	}
	right, rf := inf.InferExpr(file, e.Right, scope)
	if rf != nil {
		return nil, rf
	}

	switch e.Op {
	case astshape.OpEq, astshape.OpNe, astshape.OpLt, astshape.OpLe, astshape.OpGt, astshape.OpGe:
		return ok(luatype.Boolean)
	case astshape.OpAnd:
		if left.IsNullable() {
			return ok(luatype.NormalizeUnion([]luatype.Type{right, luatype.Nil}))
		}
		return ok(right)
	case astshape.OpOr:
		return ok(luatype.NormalizeUnion([]luatype.Type{left, right}))
	case astshape.OpConcat:
		return ok(luatype.StringTy)
	}

	if t, arithOk := inf.literalArith(e.Op, left, right); arithOk {
		return ok(t)
	}

	if t, found := inf.operatorResult(left, binaryMetamethodName(e.Op)); found {
		return ok(t)
	}
	return fail(FailFieldNotFound, "no applicable operator for binary expression")
}

func binaryMetamethodName(op astshape.BinaryOp) string {
	switch op {
	case astshape.OpAdd:
		return "__add"
	case astshape.OpSub:
		return "__sub"
	case astshape.OpMul:
		return "__mul"
	case astshape.OpDiv:
		return "__div"
	case astshape.OpFloorDiv:
		return "__idiv"
	case astshape.OpMod:
		return "__mod"
	case astshape.OpPow:
		return "__pow"
	case astshape.OpBAnd:
		return "__band"
	case astshape.OpBOr:
		return "__bor"
	case astshape.OpBXor:
		return "__bxor"
	case astshape.OpShl:
		return "__shl"
	case astshape.OpShr:
		return "__shr"
	default:
		return ""
	}
}

// literalArith implements SPEC_FULL.md §4.6.1's version-gated literal
// arithmetic table.
func (inf *Inferencer) literalArith(op astshape.BinaryOp, left, right luatype.Type) (luatype.Type, bool) {
	li, liOk := asIntConst(left)
	lf, lfOk := asFloatConst(left)
	ri, riOk := asIntConst(right)
	rf, rfOk := asFloatConst(right)

	isBitwise := op == astshape.OpBAnd || op == astshape.OpBOr || op == astshape.OpBXor || op == astshape.OpShl || op == astshape.OpShr
	if isBitwise {
		if !inf.version.hasBitwiseOps() {
			return luatype.Number, true
		}
		if !liOk || !riOk {
			return nil, false
		}
		return luatype.IntegerConst{Value: applyBitwise(op, li, ri)}, true
	}

	if op == astshape.OpDiv {
		if (liOk || lfOk) && (riOk || rfOk) {
			a := floatOf(li, lf, liOk)
			b := floatOf(ri, rf, riOk)
			return luatype.FloatConst{Value: a / b}, true
		}
		return nil, false
	}

	bothInt := liOk && riOk
	eitherFloat := lfOk || rfOk
	if bothInt && !eitherFloat {
		v, isOk := applyIntArith(op, li, ri)
		if !isOk {
			return nil, false
		}
		return luatype.IntegerConst{Value: v}, true
	}
	if (liOk || lfOk) && (riOk || rfOk) {
		a := floatOf(li, lf, liOk)
		b := floatOf(ri, rf, riOk)
		v, isOk := applyFloatArith(op, a, b)
		if !isOk {
			return nil, false
		}
		return luatype.FloatConst{Value: v}, true
	}
	return nil, false
}

func asIntConst(t luatype.Type) (int64, bool) {
	switch v := t.(type) {
	case luatype.IntegerConst:
		return v.Value, true
	case luatype.DocIntegerConst:
		return v.Value, true
	default:
		return 0, false
	}
}

func asFloatConst(t luatype.Type) (float64, bool) {
	if v, isFloat := t.(luatype.FloatConst); isFloat {
		return v.Value, true
	}
	return 0, false
}

func floatOf(i int64, f float64, isInt bool) float64 {
	if isInt {
		return float64(i)
	}
	return f
}

func applyIntArith(op astshape.BinaryOp, a, b int64) (int64, bool) {
	switch op {
	case astshape.OpAdd:
		return a + b, true
	case astshape.OpSub:
		return a - b, true
	case astshape.OpMul:
		return a * b, true
	case astshape.OpFloorDiv:
		if b == 0 {
			return 0, false
		}
		return floorDivInt(a, b), true
	case astshape.OpMod:
		if b == 0 {
			return 0, false
		}
		return modInt(a, b), true
	default:
		return 0, false
	}
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func modInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func applyFloatArith(op astshape.BinaryOp, a, b float64) (float64, bool) {
	switch op {
	case astshape.OpAdd:
		return a + b, true
	case astshape.OpSub:
		return a - b, true
	case astshape.OpMul:
		return a * b, true
	case astshape.OpFloorDiv:
		return floorDivFloat(a, b), true
	case astshape.OpMod:
		return modFloat(a, b), true
	case astshape.OpPow:
		if b != floatFloor(b) {
			return 0, false
		}
		return powFloat(a, b), true
	default:
		return 0, false
	}
}

func floorDivFloat(a, b float64) float64 {
	q := a / b
	return floatFloor(q)
}

func floatFloor(x float64) float64 {
	i := float64(int64(x))
	if x < 0 && i != x {
		i--
	}
	return i
}

func modFloat(a, b float64) float64 {
	m := a - floatFloor(a/b)*b
	return m
}

func powFloat(a, b float64) float64 {
	result := 1.0
	neg := b < 0
	n := b
	if neg {
		n = -n
	}
	whole := int64(n)
	if float64(whole) == n {
		for i := int64(0); i < whole; i++ {
			result *= a
		}
		if neg {
			return 1 / result
		}
		return result
	}
	return result // non-integer exponents are left to the runtime, not this core
}

func applyBitwise(op astshape.BinaryOp, a, b int64) int64 {
	switch op {
	case astshape.OpBAnd:
		return a & b
	case astshape.OpBOr:
		return a | b
	case astshape.OpBXor:
		return a ^ b
	case astshape.OpShl:
		return a << uint(b)
	case astshape.OpShr:
		return int64(uint64(a) >> uint(b))
	default:
		return 0
	}
}

func (inf *Inferencer) operatorResult(operand luatype.Type, metamethod string) (luatype.Type, bool) {
	if metamethod == "" {
		return nil, false
	}
	var declId ids.TypeDeclId
	switch v := operand.(type) {
	case luatype.Ref:
		declId = v.Id
	case luatype.Def:
		declId = v.Id
	default:
		return nil, false
	}
	ops := inf.store.Operators.Lookup(declId, metamethod)
	if len(ops) == 0 {
		return nil, false
	}
	return ops[0].Result, true
}

func (inf *Inferencer) inferUnary(file ids.FileId, e *astshape.UnaryExpr, scope *index.Scope) (luatype.Type, *Fail) {
	operand, f := inf.InferExpr(file, e.Expr, scope)
	if f != nil {
		return nil, f
	}
	switch e.Op {
	case astshape.OpNot:
		return ok(luatype.Boolean)
	case astshape.OpLen:
		return ok(luatype.Integer)
	case astshape.OpNeg:
		if i, isInt := asIntConst(operand); isInt {
			return ok(luatype.IntegerConst{Value: -i})
		}
		if fl, isFloat := asFloatConst(operand); isFloat {
			return ok(luatype.FloatConst{Value: -fl})
		}
		if t, found := inf.operatorResult(operand, "__unm"); found {
			return ok(t)
		}
		return ok(luatype.Number)
	case astshape.OpBNot:
		if !inf.version.hasBitwiseOps() {
			return ok(luatype.Number)
		}
		if i, isInt := asIntConst(operand); isInt {
			return ok(luatype.IntegerConst{Value: ^i})
		}
		return fail(FailFieldNotFound, "bitwise not on non-integer operand")
	default:
		return fail(FailUnresolved, "unsupported unary operator")
	}
}

// inferCall resolves the callee to a function type (possibly through
// overloads), runs tpl_pattern_match when generic, substitutes, and
// returns the return type (spec.md §4.6 "Call").
func (inf *Inferencer) inferCall(file ids.FileId, e *astshape.CallExpr, scope *index.Scope) (luatype.Type, *Fail) {
	calleeType, f := inf.InferExpr(file, e.Callee, scope)
	if f != nil {
		return nil, f
	}
	fn, found := inf.resolveCallable(calleeType)
	if !found {
		return fail(FailFieldNotFound, "callee is not callable")
	}

	argTypes := make([]luatype.Type, 0, len(e.Args))
	for _, arg := range e.Args {
		at, af := inf.InferExpr(file, arg, scope)
		if af != nil {
			argTypes = append(argTypes, luatype.Unknown)
			continue
		}
		argTypes = append(argTypes, at)
	}

	if !fn.ContainsTemplate() {
		if fn.Return == nil {
			return ok(luatype.Nil)
		}
		return ok(fn.Return)
	}

	subst := generic.NewSubstitutor()
	for i, p := range fn.Params {
		if p.Type == nil || i >= len(argTypes) {
			continue
		}
		inf.generic.TplPatternMatch(p.Type, argTypes[i], subst)
	}
	instantiated := inf.generic.InstantiateTypeGeneric(fn.Return, subst)
	if instantiated == nil {
		return ok(luatype.Nil)
	}
	return ok(instantiated)
}

func (inf *Inferencer) resolveCallable(t luatype.Type) (luatype.DocFunction, bool) {
	switch v := t.(type) {
	case luatype.DocFunction:
		return v, true
	case luatype.Signature:
		sig, found := inf.store.Signatures.Get(v.Id)
		if !found || sig.Declared == nil {
			return luatype.DocFunction{}, false
		}
		return *sig.Declared, true
	default:
		return luatype.DocFunction{}, false
	}
}
