package luatype

import "sort"

// NormalizeUnion flattens nested unions, deduplicates members by
// structural equality, and sorts the remainder by display string for
// a deterministic order. Consumers that need order-insensitive union
// comparison (e.g. S4's "order-insensitive by equality" expectation)
// should compare through this function rather than raw Equal, which
// treats Union member order as significant — grounded directly on
// funxy's typesystem.NormalizeUnion (internal/typesystem/types.go).
func NormalizeUnion(types []Type) Type {
	flat := make([]Type, 0, len(types))
	for _, t := range types {
		if u, ok := t.(Union); ok {
			flat = append(flat, u.Types...)
			continue
		}
		flat = append(flat, t)
	}

	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, u := range unique {
			if Equal(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, t)
		}
	}

	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return Union{Types: unique}
}

// EqualUnordered compares two types treating direct Union/Intersection
// members as an unordered set (used by S4: the type of `v.x` for
// `{x:integer}|{x:string}` must equal `integer|string` regardless of
// branch-discovery order).
func EqualUnordered(a, b Type) bool {
	au, aIsUnion := a.(Union)
	bu, bIsUnion := b.(Union)
	if aIsUnion && bIsUnion {
		return unorderedSeqEqual(au.Types, bu.Types)
	}
	ai, aIsInter := a.(Intersection)
	bi, bIsInter := b.(Intersection)
	if aIsInter && bIsInter {
		return unorderedSeqEqual(ai.Types, bi.Types)
	}
	return Equal(a, b)
}

func unorderedSeqEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, at := range a {
		matched := false
		for i, bt := range b {
			if used[i] {
				continue
			}
			if Equal(at, bt) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
