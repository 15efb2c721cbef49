// Package generic is the C7 Generic Machinery: substitution of bound
// template parameters through a type tree (`instantiate_type_generic`),
// evaluation of alias-call operators (`keyof`, `extends`, literal
// arithmetic), and argument -> parameter unification at a call site
// (`tpl_pattern_match`).
//
// Grounded on funxy's internal/typesystem/replace.go (`Subst`/`Apply`
// — a structural walk substituting one named form for another) and
// unify.go's co-inductive "track visited pairs" recursion guard,
// repurposed from funxy's bidirectional Hindley-Milner unification
// into the one-directional pattern-match + substitution spec.md §4.8
// describes.
package generic

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
	"github.com/emmylua-go/luacore/subtype"
)

// SubstValueKind distinguishes the shapes a bound template parameter's
// replacement value may take (spec.md §4.8 "SubstitutorValue").
type SubstValueKind int

const (
	SubstNone SubstValueKind = iota
	SubstType
	SubstMultiTypes
	SubstMultiBase
	SubstParams
)

// SubstValue is one binding's replacement payload.
type SubstValue struct {
	Kind   SubstValueKind
	Type   luatype.Type       // SubstType, SubstMultiBase
	Multi  []luatype.Type     // SubstMultiTypes
	Params []luatype.Param    // SubstParams
}

func TypeValue(t luatype.Type) SubstValue          { return SubstValue{Kind: SubstType, Type: t} }
func MultiTypesValue(ts []luatype.Type) SubstValue { return SubstValue{Kind: SubstMultiTypes, Multi: ts} }
func MultiBaseValue(t luatype.Type) SubstValue     { return SubstValue{Kind: SubstMultiBase, Type: t} }
func ParamsValue(p []luatype.Param) SubstValue     { return SubstValue{Kind: SubstParams, Params: p} }

// Substitutor is a map from generic-template ids to replacement values
// (spec.md §4.8 "TypeSubstitutor"), carrying an optional self-type
// binding and a recursion guard of the alias TypeDeclIds currently
// being expanded.
type Substitutor struct {
	bindings  map[ids.GenericTplId]SubstValue
	Self      luatype.Type
	recursion map[ids.TypeDeclId]bool
}

func NewSubstitutor() *Substitutor {
	return &Substitutor{bindings: make(map[ids.GenericTplId]SubstValue), recursion: make(map[ids.TypeDeclId]bool)}
}

func (s *Substitutor) Bind(id ids.GenericTplId, v SubstValue) { s.bindings[id] = v }

func (s *Substitutor) Lookup(id ids.GenericTplId) (SubstValue, bool) {
	v, ok := s.bindings[id]
	return v, ok
}

func (s *Substitutor) IsEmpty() bool { return len(s.bindings) == 0 && s.Self == nil }

// checkShapeConsistent enforces spec.md §4.8's variadic shape-
// consistency rule: every Multi-valued binding accumulated within one
// pattern-match call must agree in length (MultiTypes) or all be
// MultiBase; a length or kind mismatch across two pack bindings fails
// the whole match.
func (s *Substitutor) checkShapeConsistent(v SubstValue) bool {
	for _, existing := range s.bindings {
		switch existing.Kind {
		case SubstMultiTypes:
			if v.Kind == SubstMultiBase {
				return false
			}
			if v.Kind == SubstMultiTypes && len(v.Multi) != len(existing.Multi) {
				return false
			}
		case SubstMultiBase:
			if v.Kind == SubstMultiTypes {
				return false
			}
		}
	}
	return true
}

// Engine bundles the read-only collaborators InstantiateTypeGeneric
// needs beyond pure substitution: an index.Store to resolve alias
// origins and member lookups for AliasIndex, and a subtype.Checker to
// evaluate AliasExtends.
type Engine struct {
	store   *index.Store
	checker *subtype.Checker
	// resolveMember, when set, backs the AliasIndex alias-call
	// evaluation (spec.md §4.8 "Index(T, K) -> member resolution on T
	// with key K"). It is supplied by the infer package's full member
	// resolver rather than imported directly, since infer in turn
	// depends on this package for call-site instantiation — a direct
	// import would cycle. nil means AliasIndex is left unevaluated.
	resolveMember func(t luatype.Type, key index.MemberKey) (luatype.Type, bool)
}

// MemberResolver is the function shape infer.ResolveMember satisfies.
type MemberResolver func(t luatype.Type, key index.MemberKey) (luatype.Type, bool)

func NewEngine(store *index.Store, resolveMember MemberResolver) *Engine {
	return &Engine{store: store, checker: subtype.New(store), resolveMember: resolveMember}
}

const maxDepth = 100

// InstantiateTypeGeneric is the package's central entry point (spec.md
// §4.8): a structural walk over t substituting TplRef/StrTplRef leaves
// and evaluating alias-call types via subst.
func (e *Engine) InstantiateTypeGeneric(t luatype.Type, subst *Substitutor) luatype.Type {
	return e.instantiate(t, subst, 0)
}

func (e *Engine) instantiate(t luatype.Type, subst *Substitutor, depth int) luatype.Type {
	if t == nil || depth > maxDepth {
		return t
	}
	if !t.ContainsTemplate() {
		if _, isCall := t.(luatype.Call); !isCall {
			return t
		}
	}

	switch v := t.(type) {
	case luatype.TplRef:
		if val, ok := subst.Lookup(v.Id); ok {
			return e.substValueAsType(val)
		}
		return v
	case luatype.StrTplRef:
		if val, ok := subst.Lookup(v.Id); ok {
			if sv, isString := asStringValue(val); isString {
				return luatype.Ref{Id: ids.NewTypeDeclId("", v.Prefix+sv+v.Suffix)}
			}
		}
		return v
	case luatype.Primitive, luatype.BooleanConst, luatype.IntegerConst, luatype.FloatConst,
		luatype.StringConst, luatype.DocIntegerConst, luatype.DocStringConst, luatype.DocBooleanConst,
		luatype.TableConst, luatype.Ref, luatype.Def:
		return v

	case luatype.Array:
		return luatype.Array{Elem: e.instantiate(v.Elem, subst, depth+1)}
	case luatype.Nullable:
		return luatype.Nullable{Inner: e.instantiate(v.Inner, subst, depth+1)}
	case luatype.Tuple:
		out := make([]luatype.Type, len(v.Elems))
		for i, el := range v.Elems {
			out[i] = e.instantiate(el, subst, depth+1)
		}
		return luatype.Tuple{Elems: out}
	case luatype.Object:
		fields := make(map[string]luatype.Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = e.instantiate(ft, subst, depth+1)
		}
		obj := luatype.Object{Fields: fields}
		if v.Index != nil {
			obj.Index = &luatype.IndexAccess{
				Key:   e.instantiate(v.Index.Key, subst, depth+1),
				Value: e.instantiate(v.Index.Value, subst, depth+1),
			}
		}
		return obj
	case luatype.Union:
		return luatype.Union{Types: e.instantiateSeq(v.Types, subst, depth)}
	case luatype.Intersection:
		return luatype.Intersection{Types: e.instantiateSeq(v.Types, subst, depth)}
	case luatype.MultiLineUnion:
		branches := make([]luatype.UnionBranch, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = luatype.UnionBranch{Type: e.instantiate(b.Type, subst, depth+1), Description: b.Description}
		}
		return luatype.MultiLineUnion{Branches: branches}

	case luatype.Generic:
		return e.instantiateGenericApp(v, subst, depth)
	case luatype.TableGeneric:
		return luatype.TableGeneric{Key: e.instantiate(v.Key, subst, depth+1), Value: e.instantiate(v.Value, subst, depth+1)}

	case luatype.Variadic:
		return e.instantiateVariadic(v, subst, depth)

	case luatype.DocFunction:
		return e.instantiateFunction(v, subst, depth)
	case luatype.Signature:
		return e.instantiateSignature(v, subst, depth)

	case luatype.Call:
		return e.evaluateCall(v, subst, depth)

	case luatype.TypeGuard:
		return luatype.TypeGuard{Inner: e.instantiate(v.Inner, subst, depth+1)}
	case luatype.Instance:
		return luatype.Instance{Base: e.instantiate(v.Base, subst, depth+1), Filed: v.Filed}
	default:
		return t
	}
}

func (e *Engine) instantiateSeq(ts []luatype.Type, subst *Substitutor, depth int) []luatype.Type {
	out := make([]luatype.Type, len(ts))
	for i, t := range ts {
		out[i] = e.instantiate(t, subst, depth+1)
	}
	return out
}

func (e *Engine) substValueAsType(v SubstValue) luatype.Type {
	switch v.Kind {
	case SubstType, SubstMultiBase:
		return v.Type
	case SubstMultiTypes:
		if len(v.Multi) == 1 {
			return v.Multi[0]
		}
		return luatype.Variadic{Body: luatype.VariadicBody{Multi: v.Multi}}
	default:
		return luatype.Unknown
	}
}

func asStringValue(v SubstValue) (string, bool) {
	if v.Kind != SubstType {
		return "", false
	}
	switch s := v.Type.(type) {
	case luatype.StringConst:
		return s.Value, true
	case luatype.DocStringConst:
		return s.Value, true
	}
	return "", false
}

// instantiateGenericApp implements spec.md §4.8 "Generic(base, args)
// -> if base is an alias whose origin is known, substitute into its
// origin; otherwise keep as Generic".
func (e *Engine) instantiateGenericApp(g luatype.Generic, subst *Substitutor, depth int) luatype.Type {
	args := e.instantiateSeq(g.Params, subst, depth)
	if e.store == nil || subst.recursion[g.Base] {
		return luatype.Generic{Base: g.Base, Params: args}
	}
	decl, found := e.store.TypeDecls.Get(g.Base)
	if !found || decl.Kind != index.KindAlias || decl.AliasOrigin == nil {
		return luatype.Generic{Base: g.Base, Params: args}
	}
	inner := NewSubstitutor()
	inner.Self = subst.Self
	for k, v := range subst.recursion {
		inner.recursion[k] = v
	}
	inner.recursion[g.Base] = true
	for i, gp := range decl.Generics() {
		if i < len(args) {
			inner.Bind(gp.Id, TypeValue(args[i]))
		}
	}
	return e.instantiate(decl.AliasOrigin, inner, depth+1)
}

// instantiateVariadic implements spec.md §4.8's variadic expansion:
// a Variadic(Base(T)) whose T contains a template bound to a multi-
// valued substitution expands into a Multi pack; otherwise the base-
// variadic shape is preserved.
func (e *Engine) instantiateVariadic(v luatype.Variadic, subst *Substitutor, depth int) luatype.Type {
	if v.Body.IsMulti() {
		return luatype.Variadic{Body: luatype.VariadicBody{Multi: e.instantiateSeq(v.Body.Multi, subst, depth)}}
	}
	if tpl, isTpl := v.Body.Base.(luatype.TplRef); isTpl {
		if val, ok := subst.Lookup(tpl.Id); ok {
			switch val.Kind {
			case SubstMultiTypes:
				return luatype.Variadic{Body: luatype.VariadicBody{Multi: val.Multi}}
			case SubstMultiBase:
				return luatype.Variadic{Body: luatype.VariadicBody{Base: val.Type}}
			case SubstType:
				return luatype.Variadic{Body: luatype.VariadicBody{Base: val.Type}}
			}
		}
	}
	return luatype.Variadic{Body: luatype.VariadicBody{Base: e.instantiate(v.Body.Base, subst, depth+1)}}
}

// instantiateFunction substitutes each parameter type; a variadic
// parameter bound to MultiTypes expands into distinct named parameters
// (spec.md §4.8 "Function types: ... a variadic parameter bound to
// MultiTypes expands into distinct parameters preserving any supplied
// parameter names").
func (e *Engine) instantiateFunction(f luatype.DocFunction, subst *Substitutor, depth int) luatype.Type {
	var params []luatype.Param
	for _, p := range f.Params {
		if variadic, isVariadic := p.Type.(luatype.Variadic); isVariadic {
			if tpl, isTpl := variadic.Body.Base.(luatype.TplRef); isTpl {
				if val, ok := subst.Lookup(tpl.Id); ok && val.Kind == SubstMultiTypes {
					for i, mt := range val.Multi {
						params = append(params, luatype.Param{Name: syntheticParamName(p.Name, i), Type: mt})
					}
					continue
				}
				if val, ok := subst.Lookup(tpl.Id); ok && val.Kind == SubstParams {
					params = append(params, val.Params...)
					continue
				}
			}
		}
		params = append(params, luatype.Param{Name: p.Name, Type: e.instantiate(p.Type, subst, depth+1)})
	}
	ret := e.instantiate(f.Return, subst, depth+1)
	return luatype.DocFunction{Params: params, Return: ret, IsAsync: f.IsAsync, IsColon: f.IsColon}
}

func syntheticParamName(base string, i int) string {
	if i == 0 {
		return base
	}
	return base + itoaSmall(i)
}

func itoaSmall(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return "N"
}

// instantiateSignature substitutes into the Signature's declared
// DocFunction and returns that instantiated function alone; the
// Signature's overloads are not instantiated and the original
// Signature is not appended to the result.
func (e *Engine) instantiateSignature(s luatype.Signature, subst *Substitutor, depth int) luatype.Type {
	if e.store == nil {
		return s
	}
	sig, found := e.store.Signatures.Get(s.Id)
	if !found || sig.Declared == nil {
		return s
	}
	instantiated := e.instantiate(*sig.Declared, subst, depth+1)
	return instantiated
}

// evaluateCall evaluates an alias-call type (spec.md §4.8 "Call(alias_
// call) -> evaluate the alias call").
func (e *Engine) evaluateCall(c luatype.Call, subst *Substitutor, depth int) luatype.Type {
	source := e.instantiate(c.Source, subst, depth+1)
	var operand luatype.Type
	if c.Operand != nil {
		operand = e.instantiate(c.Operand, subst, depth+1)
	}
	switch c.Kind {
	case luatype.AliasKeyOf:
		return e.evaluateKeyOf(source)
	case luatype.AliasExtends:
		if e.checker.CheckTypeCompact(source, operand).Result.IsOk() {
			return luatype.DocBooleanConst{Value: true}
		}
		return luatype.DocBooleanConst{Value: false}
	case luatype.AliasAdd:
		return evaluateArith(source, operand, func(a, b int64) int64 { return a + b })
	case luatype.AliasSub:
		return evaluateArith(source, operand, func(a, b int64) int64 { return a - b })
	case luatype.AliasIndex:
		if e.resolveMember == nil {
			return luatype.Unknown
		}
		key := keyFromType(operand)
		if t, ok := e.resolveMember(source, key); ok {
			return t
		}
		return luatype.Unknown
	default:
		return luatype.Unknown
	}
}

// evaluateKeyOf unions the legal member keys of t (spec.md §4.8
// "KeyOf T -> union of legal member keys of T").
func (e *Engine) evaluateKeyOf(t luatype.Type) luatype.Type {
	var declId ids.TypeDeclId
	switch v := t.(type) {
	case luatype.Ref:
		declId = v.Id
	case luatype.Def:
		declId = v.Id
	default:
		return luatype.Unknown
	}
	if e.store == nil {
		return luatype.Unknown
	}
	names := map[string]bool{}
	var collect func(id ids.TypeDeclId, guard map[ids.TypeDeclId]bool)
	collect = func(id ids.TypeDeclId, guard map[ids.TypeDeclId]bool) {
		if guard[id] {
			return
		}
		guard[id] = true
		for key := range e.store.Members.GetMemberMap(ids.NewTypeOwnerId(id)) {
			if key.Kind == index.KeyName {
				names[key.Name] = true
			}
		}
		if decl, found := e.store.TypeDecls.Get(id); found {
			for _, super := range decl.Supers() {
				if ref, isRef := super.(luatype.Ref); isRef {
					collect(ref.Id, guard)
				}
			}
		}
	}
	collect(declId, map[ids.TypeDeclId]bool{})
	if len(names) == 0 {
		return luatype.Unknown
	}
	types := make([]luatype.Type, 0, len(names))
	for n := range names {
		types = append(types, luatype.DocStringConst{Value: n})
	}
	return luatype.NormalizeUnion(types)
}

func keyFromType(t luatype.Type) index.MemberKey {
	switch v := t.(type) {
	case luatype.StringConst:
		return index.NameKey(v.Value)
	case luatype.DocStringConst:
		return index.NameKey(v.Value)
	case luatype.IntegerConst:
		return index.IntKey(v.Value)
	case luatype.DocIntegerConst:
		return index.IntKey(v.Value)
	default:
		return index.ExprKey(t)
	}
}

func evaluateArith(a, b luatype.Type, op func(int64, int64) int64) luatype.Type {
	av, aok := intLiteralValue(a)
	bv, bok := intLiteralValue(b)
	if !aok || !bok {
		return luatype.Unknown
	}
	return luatype.DocIntegerConst{Value: op(av, bv)}
}

func intLiteralValue(t luatype.Type) (int64, bool) {
	switch v := t.(type) {
	case luatype.IntegerConst:
		return v.Value, true
	case luatype.DocIntegerConst:
		return v.Value, true
	default:
		return 0, false
	}
}

// TplPatternMatch implements spec.md §4.8 "Pattern matching
// (tpl_pattern_match)": given a function-signature parameter's pattern
// type and a concrete call-site argument type, it accumulates bindings
// into subst. It reports false when the shapes are incompatible
// outright (pattern match failure does not prevent the caller from
// still substituting whatever bindings other parameters contributed).
func (e *Engine) TplPatternMatch(pattern, arg luatype.Type, subst *Substitutor) bool {
	if pattern == nil || arg == nil {
		return false
	}
	switch p := pattern.(type) {
	case luatype.TplRef:
		if existing, ok := subst.Lookup(p.Id); ok {
			return e.checker.CheckTypeCompact(arg, e.substValueAsType(existing)).Result.IsOk()
		}
		subst.Bind(p.Id, TypeValue(arg))
		return true
	case luatype.StrTplRef:
		s, ok := stringLiteralValue(arg)
		if !ok {
			return false
		}
		subst.Bind(p.Id, TypeValue(luatype.DocStringConst{Value: s}))
		return true
	case luatype.Array:
		return e.matchArrayPattern(p, arg, subst)
	case luatype.TableGeneric:
		return e.matchTableGenericPattern(p, arg, subst)
	case luatype.Generic:
		ag, ok := arg.(luatype.Generic)
		if !ok || ag.Base != p.Base || len(ag.Params) != len(p.Params) {
			return false
		}
		ok2 := true
		for i := range p.Params {
			if !e.TplPatternMatch(p.Params[i], ag.Params[i], subst) {
				ok2 = false
			}
		}
		return ok2
	case luatype.Union:
		matched := false
		for _, branch := range p.Types {
			if e.TplPatternMatch(branch, arg, subst) {
				matched = true
			}
		}
		return matched
	case luatype.DocFunction:
		af, ok := asDocFunctionValue(arg)
		if !ok {
			return false
		}
		return e.matchFunctionPattern(p, af, subst)
	case luatype.Tuple:
		return e.matchTuplePattern(p, arg, subst)
	default:
		return true
	}
}

func stringLiteralValue(t luatype.Type) (string, bool) {
	switch v := t.(type) {
	case luatype.StringConst:
		return v.Value, true
	case luatype.DocStringConst:
		return v.Value, true
	}
	return "", false
}

func asDocFunctionValue(t luatype.Type) (luatype.DocFunction, bool) {
	f, ok := t.(luatype.DocFunction)
	return f, ok
}

// matchArrayPattern handles Array(T) against Array(U), a Tuple (cast:
// collapse element types to a union base), or an Object whose integer-
// keyed fields collapse to a base (spec.md §4.8 Array(T) matching).
func (e *Engine) matchArrayPattern(p luatype.Array, arg luatype.Type, subst *Substitutor) bool {
	switch a := arg.(type) {
	case luatype.Array:
		return e.TplPatternMatch(p.Elem, a.Elem, subst)
	case luatype.Tuple:
		return e.TplPatternMatch(p.Elem, luatype.NormalizeUnion(a.Elems), subst)
	case luatype.Object:
		var elems []luatype.Type
		for _, v := range a.Fields {
			elems = append(elems, v)
		}
		if a.Index != nil {
			elems = append(elems, a.Index.Value)
		}
		if len(elems) == 0 {
			return false
		}
		return e.TplPatternMatch(p.Elem, luatype.NormalizeUnion(elems), subst)
	default:
		return false
	}
}

// matchTableGenericPattern destructures maps, arrays, tuples, objects,
// TableConst, and nominal types into their key/value unions (spec.md
// §4.8 TableGeneric(K, V) matching).
func (e *Engine) matchTableGenericPattern(p luatype.TableGeneric, arg luatype.Type, subst *Substitutor) bool {
	switch a := arg.(type) {
	case luatype.TableGeneric:
		keyOk := e.TplPatternMatch(p.Key, a.Key, subst)
		valOk := e.TplPatternMatch(p.Value, a.Value, subst)
		return keyOk && valOk
	case luatype.Array:
		keyOk := e.TplPatternMatch(p.Key, luatype.Integer, subst)
		valOk := e.TplPatternMatch(p.Value, a.Elem, subst)
		return keyOk && valOk
	case luatype.Tuple:
		keyOk := e.TplPatternMatch(p.Key, luatype.Integer, subst)
		valOk := e.TplPatternMatch(p.Value, luatype.NormalizeUnion(a.Elems), subst)
		return keyOk && valOk
	case luatype.Object:
		var vals []luatype.Type
		for _, v := range a.Fields {
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			return false
		}
		keyOk := e.TplPatternMatch(p.Key, luatype.StringTy, subst)
		valOk := e.TplPatternMatch(p.Value, luatype.NormalizeUnion(vals), subst)
		return keyOk && valOk
	case luatype.TableConst:
		return e.matchMemberOwnerTableGeneric(p, ids.NewElementOwnerId(a.File, a.Range), subst)
	case luatype.Ref:
		return e.matchMemberOwnerTableGeneric(p, ids.NewTypeOwnerId(a.Id), subst)
	case luatype.Def:
		return e.matchMemberOwnerTableGeneric(p, ids.NewTypeOwnerId(a.Id), subst)
	default:
		return false
	}
}

func (e *Engine) matchMemberOwnerTableGeneric(p luatype.TableGeneric, owner ids.OwnerId, subst *Substitutor) bool {
	if e.store == nil {
		return false
	}
	var keys, vals []luatype.Type
	for key, m := range e.store.Members.GetMemberMap(owner) {
		vals = append(vals, m.DeclaredType)
		switch key.Kind {
		case index.KeyName:
			keys = append(keys, luatype.StringConst{Value: key.Name})
		case index.KeyInteger:
			keys = append(keys, luatype.IntegerConst{Value: key.Int})
		}
	}
	if len(vals) == 0 {
		return false
	}
	keyOk := true
	if len(keys) > 0 {
		keyOk = e.TplPatternMatch(p.Key, luatype.NormalizeUnion(keys), subst)
	}
	valOk := e.TplPatternMatch(p.Value, luatype.NormalizeUnion(vals), subst)
	return keyOk && valOk
}

// multiValueOf builds the pack substitution for a matched variadic
// tail, preserving each argument's own position instead of merging
// the whole tail into one flattened union (spec.md §4.8 "expand to a
// Multi pack when any bound substitution is multi-valued"). A tail of
// exactly one still-open Variadic(Base) argument is a pack being
// forwarded untouched (e.g. `f(...)` passing a caller's own `...`
// straight through) and is kept as MultiBase rather than wrapped as a
// one-element MultiTypes.
func multiValueOf(rest []luatype.Type) SubstValue {
	if len(rest) == 1 {
		if v, ok := rest[0].(luatype.Variadic); ok && !v.Body.IsMulti() {
			return MultiBaseValue(v.Body.Base)
		}
	}
	return MultiTypesValue(rest)
}

// bindVariadicTail binds a trailing Variadic template parameter
// directly to its matched argument pack rather than routing it through
// TplPatternMatch's generic TplRef case (which would always bind a
// single merged Type, losing positional arity), then enforces spec.md
// §4.8's cross-binding shape-consistency rule before accepting it.
func bindVariadicTail(tplId ids.GenericTplId, rest []luatype.Type, subst *Substitutor) bool {
	value := multiValueOf(rest)
	if !subst.checkShapeConsistent(value) {
		return false
	}
	subst.Bind(tplId, value)
	return true
}

// matchFunctionPattern matches params pairwise and the return type,
// pairing a trailing Variadic parameter with the remaining argument
// params (spec.md §4.8 "pairs Variadic correctly").
func (e *Engine) matchFunctionPattern(p, arg luatype.DocFunction, subst *Substitutor) bool {
	ok := true
	for i, pp := range p.Params {
		if i >= len(arg.Params) {
			break
		}
		if pp.Type == nil || arg.Params[i].Type == nil {
			continue
		}
		if variadic, isVariadic := pp.Type.(luatype.Variadic); isVariadic && !variadic.Body.IsMulti() {
			rest := make([]luatype.Type, 0, len(arg.Params)-i)
			for _, rp := range arg.Params[i:] {
				rest = append(rest, rp.Type)
			}
			if tpl, isTpl := variadic.Body.Base.(luatype.TplRef); isTpl {
				if !bindVariadicTail(tpl.Id, rest, subst) {
					ok = false
				}
			} else if !e.TplPatternMatch(variadic.Body.Base, luatype.NormalizeUnion(rest), subst) {
				ok = false
			}
			break
		}
		if !e.TplPatternMatch(pp.Type, arg.Params[i].Type, subst) {
			ok = false
		}
	}
	if p.Return != nil && arg.Return != nil {
		if !e.TplPatternMatch(p.Return, arg.Return, subst) {
			ok = false
		}
	}
	return ok
}

// matchTuplePattern matches positionally, with a trailing Variadic
// element consuming the remaining argument elements.
func (e *Engine) matchTuplePattern(p luatype.Tuple, arg luatype.Type, subst *Substitutor) bool {
	a, ok := arg.(luatype.Tuple)
	if !ok {
		return false
	}
	matched := true
	for i, pe := range p.Elems {
		if variadic, isVariadic := pe.(luatype.Variadic); isVariadic && !variadic.Body.IsMulti() {
			var rest []luatype.Type
			if i < len(a.Elems) {
				rest = a.Elems[i:]
			}
			if tpl, isTpl := variadic.Body.Base.(luatype.TplRef); isTpl {
				if !bindVariadicTail(tpl.Id, rest, subst) {
					matched = false
				}
			} else if !e.TplPatternMatch(variadic.Body.Base, luatype.NormalizeUnion(rest), subst) {
				matched = false
			}
			break
		}
		if i >= len(a.Elems) {
			matched = false
			break
		}
		if !e.TplPatternMatch(pe, a.Elems[i], subst) {
			matched = false
		}
	}
	return matched
}
