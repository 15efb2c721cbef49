// Package subtype is the C8 Subtype / Assignability engine:
// `check_type_compact(source, compact)` decides whether a value of
// type `source` may be used where `compact` is expected, following the
// structural/nominal rules spec.md §4.9 lists in order.
//
// Grounded on funxy's internal/typesystem/kind_checker.go and
// unify.go's structural-compatibility walks (a result-returning
// recursive walk over a shared "unify one side against the other"
// shape) adapted from Hindley-Milner unification to one-directional
// duck-typing assignability, since spec.md §4.9's rules are
// deliberately asymmetric (source may be wider than compact).
package subtype

import (
	"fmt"

	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

// Result is the outcome of a single check_type_compact call (spec.md
// §4.9 "Ok | TypeNotMatch | TypeNotMatchWithReason(str) | TypeRecursion").
type Result int

const (
	Ok Result = iota
	NotMatch
	NotMatchWithReason
	Recursion
)

func (r Result) IsOk() bool { return r == Ok }

// Outcome pairs a Result with the optional reason string
// TypeNotMatchWithReason carries (e.g. a missing Object field name).
type Outcome struct {
	Result Result
	Reason string
}

func ok() Outcome                    { return Outcome{Result: Ok} }
func notMatch() Outcome              { return Outcome{Result: NotMatch} }
func withReason(reason string) Outcome { return Outcome{Result: NotMatchWithReason, Reason: reason} }
func recursion() Outcome             { return Outcome{Result: Recursion} }

// maxDepth caps recursion nesting (spec.md §5 "Recursion discipline":
// "100 for assignability").
const maxDepth = 100

// Checker carries the read-only index.Store a check needs to expand
// alias origins and walk nominal super-type chains; it holds no
// mutable state of its own, so a single Checker is safely reused
// across many CheckTypeCompact calls (spec.md §5: reads via C10 may be
// interleaved with other reads).
type Checker struct {
	store *index.Store
}

func New(store *index.Store) *Checker {
	return &Checker{store: store}
}

// CheckTypeCompact is the package's single public entry point (spec.md
// §4.9 "check_type_compact(source, compact)"). guard tracks the
// TypeDeclIds currently being expanded on this call stack, breaking
// cycles in alias-origin or super-type graphs (spec.md §9 "Cyclic
// structures").
func (c *Checker) CheckTypeCompact(source, compact luatype.Type) Outcome {
	return c.check(source, compact, map[ids.TypeDeclId]bool{}, 0)
}

func (c *Checker) check(source, compact luatype.Type, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	if depth > maxDepth {
		return recursion()
	}
	if source == nil || compact == nil {
		return notMatch()
	}

	// Rule 1: compact is Any/Unknown/TplRef/StrTplRef -> Ok.
	switch compact.(type) {
	case luatype.TplRef, luatype.StrTplRef:
		return ok()
	}
	if isAnyOrUnknown(compact) {
		return ok()
	}

	// Rule 2: compact is an alias -> expand to its origin and retry.
	if expanded, isAlias := c.expandAlias(compact, guard); isAlias {
		return c.check(source, expanded, guard, depth+1)
	}

	// Rule 3: source is Any/Unknown -> Ok.
	if isAnyOrUnknown(source) {
		return ok()
	}
	if sourceAlias, isAlias := c.expandAlias(source, guard); isAlias {
		return c.check(sourceAlias, compact, guard, depth+1)
	}

	// Rule 7 (partial): compact Union/Intersection are handled before
	// the primitive/nominal dispatch since they quantify over branches
	// regardless of source's shape. source being a Union is decomposed
	// first: each of its branches must independently satisfy compact
	// (which may itself still be a Union), via a recursive check() call
	// rather than checkAgainstUnion directly — a source branch that is
	// itself further decomposed needs to see compact in its original,
	// not-yet-decomposed shape so the OR-over-compact-branches rule
	// still applies per branch. Checking compact-is-Union first instead
	// would make checkAgainstUnion hand each compact branch a whole
	// union source, which then wrongly demands that branch satisfy
	// *every* source branch (reflexivity check_type_compact(T,T)==Ok
	// fails for any Union T otherwise).
	if su, isUnion := source.(luatype.Union); isUnion {
		return c.checkUnionSource(su, compact, guard, depth)
	}
	if cu, isUnion := compact.(luatype.Union); isUnion {
		return c.checkAgainstUnion(source, cu, guard, depth)
	}
	if ci, isInter := compact.(luatype.Intersection); isInter {
		return c.checkAgainstIntersection(source, ci, guard, depth)
	}

	// Rule 4: primitive pairs.
	if out, matched := c.checkPrimitivePair(source, compact); matched {
		return out
	}

	// Rule 5: nominal Ref.
	if cref, isRef := compact.(luatype.Ref); isRef {
		return c.checkNominal(source, cref.Id, guard, depth)
	}
	if cdef, isDef := compact.(luatype.Def); isDef {
		return c.checkNominal(source, cdef.Id, guard, depth)
	}

	// Rule 6: functions.
	if cf, isFn := asDocFunction(compact); isFn {
		if sf, isFn2 := asDocFunction(source); isFn2 {
			return c.checkFunction(sf, cf, guard, depth)
		}
		return notMatch()
	}

	// Rule 7: complex containers.
	switch cv := compact.(type) {
	case luatype.Array:
		return c.checkArray(source, cv, guard, depth)
	case luatype.Tuple:
		return c.checkTuple(source, cv, guard, depth)
	case luatype.Object:
		return c.checkObject(source, cv, guard, depth)
	case luatype.TableGeneric:
		return c.checkTableGeneric(source, cv, guard, depth)
	case luatype.Nullable:
		if luatype.Equal(source, luatype.Nil) {
			return ok()
		}
		return c.check(source, cv.Inner, guard, depth+1)
	}

	// Rule 8: Generic on either side requires base equality and
	// pairwise parameter compatibility.
	if cg, isGeneric := compact.(luatype.Generic); isGeneric {
		return c.checkGeneric(source, cg, guard, depth)
	}

	if luatype.Equal(source, compact) {
		return ok()
	}
	return notMatch()
}

func isAnyOrUnknown(t luatype.Type) bool {
	p, ok := t.(luatype.Primitive)
	return ok && (p.Kind == luatype.PAny || p.Kind == luatype.PUnknown)
}

// expandAlias resolves compact to its TypeDecl and, if it is an alias
// with a single origin type, returns that origin (spec.md §4.9 rule 2
// / rule 5 "an alias expands"). Union-of-members aliases are expanded
// to their plain Union form instead, since assignability treats them
// identically to an ordinary union (spec.md §3 "for aliases: ... or a
// union of alias member decls").
func (c *Checker) expandAlias(t luatype.Type, guard map[ids.TypeDeclId]bool) (luatype.Type, bool) {
	var declId ids.TypeDeclId
	switch v := t.(type) {
	case luatype.Ref:
		declId = v.Id
	case luatype.Def:
		declId = v.Id
	default:
		return nil, false
	}
	if c.store == nil || guard[declId] {
		return nil, false
	}
	decl, found := c.store.TypeDecls.Get(declId)
	if !found || decl.Kind != index.KindAlias {
		return nil, false
	}
	guard[declId] = true
	defer delete(guard, declId)
	if decl.AliasOrigin != nil {
		return decl.AliasOrigin, true
	}
	if len(decl.AliasMembers) > 0 {
		types := make([]luatype.Type, 0, len(decl.AliasMembers))
		for _, mid := range decl.AliasMembers {
			if m, ok := c.store.Members.Get(mid); ok {
				types = append(types, m.DeclaredType)
			}
		}
		if len(types) > 0 {
			return luatype.Union{Types: types}, true
		}
	}
	return nil, false
}

func (c *Checker) checkPrimitivePair(source, compact luatype.Type) (Outcome, bool) {
	cp, isPrim := compact.(luatype.Primitive)
	if !isPrim {
		return Outcome{}, false
	}
	switch cp.Kind {
	case luatype.PInteger:
		switch s := source.(type) {
		case luatype.IntegerConst, luatype.DocIntegerConst:
			_ = s
			return ok(), true
		case luatype.Primitive:
			return boolOutcome(s.Kind == luatype.PInteger), true
		}
		return notMatch(), true
	case luatype.PNumber:
		switch source.(type) {
		case luatype.IntegerConst, luatype.DocIntegerConst, luatype.FloatConst:
			return ok(), true
		case luatype.Primitive:
			sp := source.(luatype.Primitive)
			return boolOutcome(sp.Kind == luatype.PInteger || sp.Kind == luatype.PNumber), true
		}
		return notMatch(), true
	case luatype.PString:
		switch source.(type) {
		case luatype.StringConst, luatype.DocStringConst:
			return ok(), true
		case luatype.Primitive:
			sp := source.(luatype.Primitive)
			return boolOutcome(sp.Kind == luatype.PString), true
		}
		return notMatch(), true
	case luatype.PBoolean:
		switch source.(type) {
		case luatype.BooleanConst, luatype.DocBooleanConst:
			return ok(), true
		case luatype.Primitive:
			sp := source.(luatype.Primitive)
			return boolOutcome(sp.Kind == luatype.PBoolean), true
		}
		return notMatch(), true
	case luatype.PNil:
		return boolOutcome(luatype.Equal(source, luatype.Nil)), true
	case luatype.PTable:
		switch source.(type) {
		case luatype.TableConst, luatype.TableGeneric, luatype.Object, luatype.Array, luatype.Tuple:
			return ok(), true
		case luatype.Primitive:
			sp := source.(luatype.Primitive)
			return boolOutcome(sp.Kind == luatype.PTable), true
		}
		return notMatch(), true
	case luatype.PFunction:
		return boolOutcome(source.IsFunction()), true
	case luatype.PThread, luatype.PUserdata, luatype.PIo, luatype.PGlobal, luatype.PSelfInfer:
		sp, isPrim2 := source.(luatype.Primitive)
		return boolOutcome(isPrim2 && sp.Kind == cp.Kind), true
	}
	return Outcome{}, false
}

func boolOutcome(b bool) Outcome {
	if b {
		return ok()
	}
	return notMatch()
}

// checkNominal implements rule 5: a class is compatible with itself
// and its ancestors (traverse supers); an enum with its base type; an
// alias expands (handled earlier by expandAlias).
func (c *Checker) checkNominal(source luatype.Type, compactId ids.TypeDeclId, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	var sourceId ids.TypeDeclId
	switch s := source.(type) {
	case luatype.Ref:
		sourceId = s.Id
	case luatype.Def:
		sourceId = s.Id
	case luatype.TableConst:
		return c.checkTableConstAgainstNominal(s, compactId, guard, depth)
	default:
		return notMatch()
	}

	if sourceId == compactId {
		return ok()
	}
	if c.store == nil {
		return notMatch()
	}
	if guard[sourceId] {
		return recursion()
	}
	decl, found := c.store.TypeDecls.Get(sourceId)
	if !found {
		return notMatch()
	}
	if decl.Kind == index.KindEnum && decl.EnumBase != nil {
		if luatype.Equal(decl.EnumBase, luatype.Ref{Id: compactId}) {
			return ok()
		}
	}
	guard[sourceId] = true
	defer delete(guard, sourceId)
	for _, super := range decl.Supers() {
		if out := c.check(super, luatype.Ref{Id: compactId}, guard, depth+1); out.Result == Ok {
			return ok()
		}
	}
	return notMatch()
}

// checkTableConstAgainstNominal: a TableConst is assignable to a
// nominal class iff every field in the class's own (cross-file merged)
// member map resolves through the TableConst's own member map and is
// itself assignable. Fields inherited from the class's supers are not
// checked.
func (c *Checker) checkTableConstAgainstNominal(t luatype.TableConst, compactId ids.TypeDeclId, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	if c.store == nil {
		return notMatch()
	}
	if _, found := c.store.TypeDecls.Get(compactId); !found {
		return notMatch()
	}
	owner := ids.NewElementOwnerId(t.File, t.Range)
	fields := c.store.Members.GetMemberMap(owner)
	for key, m := range c.store.Members.GetMemberMap(ids.NewTypeOwnerId(compactId)) {
		have, present := fields[key]
		if !present {
			return withReason(fmt.Sprintf("missing field %q", memberKeyLabel(key)))
		}
		if out := c.check(have.DeclaredType, m.DeclaredType, guard, depth+1); out.Result != Ok {
			return out
		}
	}
	return ok()
}

func memberKeyLabel(k index.MemberKey) string {
	switch k.Kind {
	case index.KeyName:
		return k.Name
	case index.KeyInteger:
		return fmt.Sprintf("[%d]", k.Int)
	default:
		return "?"
	}
}

func asDocFunction(t luatype.Type) (luatype.DocFunction, bool) {
	f, ok := t.(luatype.DocFunction)
	return f, ok
}

// checkFunction implements rule 6: parameter contravariance, return
// covariance, with a colon-definition adjustment for self (spec.md
// §4.9 rule 6) — when exactly one side is colon-defined, its leading
// implicit self parameter is skipped before comparing the rest
// positionally.
func (c *Checker) checkFunction(source, compact luatype.DocFunction, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	sp := source.Params
	cp := compact.Params
	if source.IsColon && !compact.IsColon && len(sp) > 0 {
		sp = sp[1:]
	}
	if compact.IsColon && !source.IsColon && len(cp) > 0 {
		cp = cp[1:]
	}
	for i := 0; i < len(cp); i++ {
		if i >= len(sp) {
			break // fewer source params than compact: compact may ignore trailing args
		}
		if sp[i].Type == nil || cp[i].Type == nil {
			continue
		}
		// Contravariance: the compact (expected) function's param type
		// must accept what the source function declares it receives —
		// i.e. we check compact's param is assignable to source's param.
		if out := c.check(cp[i].Type, sp[i].Type, guard, depth+1); out.Result != Ok {
			return out
		}
	}
	if source.Return == nil || compact.Return == nil {
		return ok()
	}
	return c.check(source.Return, compact.Return, guard, depth+1)
}

func (c *Checker) checkArray(source luatype.Type, compact luatype.Array, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	switch s := source.(type) {
	case luatype.Array:
		return c.check(s.Elem, compact.Elem, guard, depth+1)
	case luatype.Tuple:
		for _, e := range s.Elems {
			if out := c.check(e, compact.Elem, guard, depth+1); out.Result != Ok {
				return out
			}
		}
		return ok()
	}
	return notMatch()
}

func (c *Checker) checkTuple(source luatype.Type, compact luatype.Tuple, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	s, isTuple := source.(luatype.Tuple)
	if !isTuple {
		return notMatch()
	}
	// Arity must match, except optional-typed tail entries (Nullable or
	// a Union containing Nil) may be omitted from source (spec.md §4.9
	// rule 7 "Tuple requires matching arity (with optional-typed tail
	// entries)").
	if len(s.Elems) > len(compact.Elems) {
		return notMatch()
	}
	for i, ce := range compact.Elems {
		if i >= len(s.Elems) {
			if ce.IsNullable() {
				continue
			}
			return notMatch()
		}
		if out := c.check(s.Elems[i], ce, guard, depth+1); out.Result != Ok {
			return out
		}
	}
	return ok()
}

// checkObject implements rule 7's Object duck-typing: every compact
// field must exist in source and be assignable; a missing field is
// reported by name (spec.md §4.9 rule 7).
func (c *Checker) checkObject(source luatype.Type, compact luatype.Object, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	switch s := source.(type) {
	case luatype.Object:
		for name, ct := range compact.Fields {
			sf, present := s.Fields[name]
			if !present {
				return withReason(fmt.Sprintf("missing field %q", name))
			}
			if out := c.check(sf, ct, guard, depth+1); out.Result != Ok {
				return out
			}
		}
		return ok()
	case luatype.TableConst:
		if c.store == nil {
			return notMatch()
		}
		owner := ids.NewElementOwnerId(s.File, s.Range)
		fields := c.store.Members.GetMemberMap(owner)
		for name, ct := range compact.Fields {
			m, present := fields[index.NameKey(name)]
			if !present {
				return withReason(fmt.Sprintf("missing field %q", name))
			}
			if out := c.check(m.DeclaredType, ct, guard, depth+1); out.Result != Ok {
				return out
			}
		}
		return ok()
	}
	return notMatch()
}

func (c *Checker) checkTableGeneric(source luatype.Type, compact luatype.TableGeneric, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	switch s := source.(type) {
	case luatype.TableGeneric:
		if out := c.check(s.Key, compact.Key, guard, depth+1); out.Result != Ok {
			return out
		}
		return c.check(s.Value, compact.Value, guard, depth+1)
	case luatype.Array:
		if out := c.check(luatype.Integer, compact.Key, guard, depth+1); out.Result != Ok {
			return out
		}
		return c.check(s.Elem, compact.Value, guard, depth+1)
	case luatype.Object:
		for _, ft := range s.Fields {
			if out := c.check(ft, compact.Value, guard, depth+1); out.Result != Ok {
				return out
			}
		}
		return ok()
	}
	return notMatch()
}

func (c *Checker) checkGeneric(source luatype.Type, compact luatype.Generic, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	s, isGeneric := source.(luatype.Generic)
	if !isGeneric || s.Base != compact.Base || len(s.Params) != len(compact.Params) {
		return notMatch()
	}
	for i := range s.Params {
		if out := c.check(s.Params[i], compact.Params[i], guard, depth+1); out.Result != Ok {
			return out
		}
	}
	return ok()
}

// checkAgainstUnion implements rule 7's "Unions are compatible iff
// every compact branch is assignable to some source branch" when
// compact is itself the union (a query like check(X, A|B) asks "is X
// one of A or B", so we flip the usual direction for this shape:
// source must satisfy at least one branch).
func (c *Checker) checkAgainstUnion(source luatype.Type, compact luatype.Union, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	var last Outcome = notMatch()
	for _, branch := range compact.Types {
		out := c.check(source, branch, guard, depth+1)
		if out.Result == Ok {
			return ok()
		}
		last = out
	}
	return last
}

// checkUnionSource handles a Union source against a non-union compact:
// every branch of source must be assignable to compact (spec.md §4.9
// rule 7, read for the source side: an assignment from `A|B` is only
// safe if both A and B satisfy the target).
func (c *Checker) checkUnionSource(source luatype.Union, compact luatype.Type, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	for _, branch := range source.Types {
		if out := c.check(branch, compact, guard, depth+1); out.Result != Ok {
			return out
		}
	}
	return ok()
}

func (c *Checker) checkAgainstIntersection(source luatype.Type, compact luatype.Intersection, guard map[ids.TypeDeclId]bool, depth int) Outcome {
	for _, branch := range compact.Types {
		if out := c.check(source, branch, guard, depth+1); out.Result != Ok {
			return out
		}
	}
	return ok()
}
