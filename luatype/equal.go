package luatype

import "hash/fnv"

// Equal is structural equality over the type tree (spec.md §4.2
// "Equality ... structural"). Union/Intersection member order matters
// here; canonicalization (dedup + sort) before comparing is a
// consumer's job when order-insensitive comparison is wanted (see
// NormalizeUnion and EqualUnordered).
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.Kind == bv.Kind
	case BooleanConst:
		bv, ok := b.(BooleanConst)
		return ok && av.Value == bv.Value
	case IntegerConst:
		bv, ok := b.(IntegerConst)
		return ok && av.Value == bv.Value
	case FloatConst:
		bv, ok := b.(FloatConst)
		return ok && av.Value == bv.Value
	case StringConst:
		bv, ok := b.(StringConst)
		return ok && av.Value == bv.Value
	case DocIntegerConst:
		bv, ok := b.(DocIntegerConst)
		return ok && av.Value == bv.Value
	case DocStringConst:
		bv, ok := b.(DocStringConst)
		return ok && av.Value == bv.Value
	case DocBooleanConst:
		bv, ok := b.(DocBooleanConst)
		return ok && av.Value == bv.Value
	case TableConst:
		bv, ok := b.(TableConst)
		return ok && av.File == bv.File && av.Range == bv.Range
	case Ref:
		bv, ok := b.(Ref)
		return ok && av.Id == bv.Id
	case Def:
		bv, ok := b.(Def)
		return ok && av.Id == bv.Id
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Elem, bv.Elem)
	case Nullable:
		bv, ok := b.(Nullable)
		return ok && Equal(av.Inner, bv.Inner)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			bf, ok := bv.Fields[k]
			if !ok || !Equal(v, bf) {
				return false
			}
		}
		if (av.Index == nil) != (bv.Index == nil) {
			return false
		}
		if av.Index != nil {
			return Equal(av.Index.Key, bv.Index.Key) && Equal(av.Index.Value, bv.Index.Value)
		}
		return true
	case Union:
		bv, ok := b.(Union)
		return ok && equalSeq(av.Types, bv.Types)
	case Intersection:
		bv, ok := b.(Intersection)
		return ok && equalSeq(av.Types, bv.Types)
	case Generic:
		bv, ok := b.(Generic)
		return ok && av.Base == bv.Base && equalSeq(av.Params, bv.Params)
	case TableGeneric:
		bv, ok := b.(TableGeneric)
		return ok && Equal(av.Key, bv.Key) && Equal(av.Value, bv.Value)
	case TplRef:
		bv, ok := b.(TplRef)
		return ok && av.Id == bv.Id
	case StrTplRef:
		bv, ok := b.(StrTplRef)
		return ok && av.Id == bv.Id && av.Prefix == bv.Prefix && av.Suffix == bv.Suffix
	case Variadic:
		bv, ok := b.(Variadic)
		if !ok {
			return false
		}
		if av.Body.IsMulti() != bv.Body.IsMulti() {
			return false
		}
		if av.Body.IsMulti() {
			return equalSeq(av.Body.Multi, bv.Body.Multi)
		}
		return Equal(av.Body.Base, bv.Body.Base)
	case MultiLineUnion:
		bv, ok := b.(MultiLineUnion)
		if !ok || len(av.Branches) != len(bv.Branches) {
			return false
		}
		for i := range av.Branches {
			if !Equal(av.Branches[i].Type, bv.Branches[i].Type) {
				return false
			}
		}
		return true
	case DocFunction:
		bv, ok := b.(DocFunction)
		if !ok || len(av.Params) != len(bv.Params) || av.IsAsync != bv.IsAsync || av.IsColon != bv.IsColon {
			return false
		}
		for i := range av.Params {
			if av.Params[i].Name != bv.Params[i].Name || !Equal(av.Params[i].Type, bv.Params[i].Type) {
				return false
			}
		}
		return Equal(av.Return, bv.Return)
	case Signature:
		bv, ok := b.(Signature)
		return ok && av.Id == bv.Id
	case Call:
		bv, ok := b.(Call)
		return ok && av.Kind == bv.Kind && Equal(av.Source, bv.Source) && Equal(av.Operand, bv.Operand)
	case TypeGuard:
		bv, ok := b.(TypeGuard)
		return ok && Equal(av.Inner, bv.Inner)
	case Instance:
		bv, ok := b.(Instance)
		return ok && Equal(av.Base, bv.Base) && av.Filed == bv.Filed
	default:
		return false
	}
}

func equalSeq(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal (spec.md §4.2 "Hash"): equal types
// always produce equal hashes. We hash the String() form rather than
// maintaining a parallel structural hash, since Equal types always
// render the same String() (sorted object field names, ordered union
// members, etc.). The converse does not hold: some distinct types
// render alike (e.g. two TableConsts of one file, or IntegerConst and
// DocIntegerConst of one value) and so share a hash.
func Hash(t Type) uint64 {
	if t == nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.String()))
	return h.Sum64()
}
