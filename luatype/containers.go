package luatype

import (
	"sort"
	"strings"
)

// Array is a homogeneous sequence type `T[]`.
type Array struct{ Elem Type }

func (a Array) String() string            { return a.Elem.String() + "[]" }
func (a Array) ContainsTemplate() bool     { return a.Elem.ContainsTemplate() }
func (Array) IsNullable() bool             { return false }
func (Array) IsFunction() bool             { return false }

// Nullable wraps a type that may additionally hold nil. The doc-type
// grammar mostly produces this as sugar via Union(T, Nil) (spec.md
// §4.5), but some internal computations (e.g. strict array indexing,
// §4.7) build it directly.
type Nullable struct{ Inner Type }

func (n Nullable) String() string        { return n.Inner.String() + "?" }
func (n Nullable) ContainsTemplate() bool { return n.Inner.ContainsTemplate() }
func (Nullable) IsNullable() bool         { return true }
func (Nullable) IsFunction() bool         { return false }

// Tuple is a fixed-arity heterogeneous sequence `(T1, T2, ...)`.
type Tuple struct{ Elems []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (t Tuple) ContainsTemplate() bool {
	for _, e := range t.Elems {
		if e.ContainsTemplate() {
			return true
		}
	}
	return false
}
func (Tuple) IsNullable() bool { return false }
func (Tuple) IsFunction() bool { return false }

// IndexAccess is an Object's `[K]: V` index signature, used for
// enum-indexed or string-indexed ad-hoc table shapes.
type IndexAccess struct {
	Key   Type
	Value Type
}

// Object is a structural object type: a set of named fields plus an
// optional index-access signature (spec.md §4.2 "Object(fields+index-access)").
type Object struct {
	Fields map[string]Type
	Index  *IndexAccess // nil if this object has no index signature
}

func (o Object) String() string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+": "+o.Fields[k].String())
	}
	if o.Index != nil {
		parts = append(parts, "["+o.Index.Key.String()+"]: "+o.Index.Value.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (o Object) ContainsTemplate() bool {
	for _, v := range o.Fields {
		if v.ContainsTemplate() {
			return true
		}
	}
	if o.Index != nil {
		return o.Index.Key.ContainsTemplate() || o.Index.Value.ContainsTemplate()
	}
	return false
}
func (Object) IsNullable() bool { return false }
func (Object) IsFunction() bool { return false }

// Union is an ordered list of alternative types. Storage order is
// preserved; deduplication/sorting for display is a consumer concern
// (spec.md §4.2 "Equality").
type Union struct{ Types []Type }

func (u Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

func (u Union) ContainsTemplate() bool {
	for _, t := range u.Types {
		if t.ContainsTemplate() {
			return true
		}
	}
	return false
}

func (u Union) IsNullable() bool {
	for _, t := range u.Types {
		if p, ok := t.(Primitive); ok && p.Kind == PNil {
			return true
		}
	}
	return false
}
func (Union) IsFunction() bool { return false }

// Intersection is an ordered list of types that must all hold
// simultaneously; member resolution tries each branch in order and the
// first successful lookup wins (spec.md §4.7).
type Intersection struct{ Types []Type }

func (i Intersection) String() string {
	parts := make([]string, len(i.Types))
	for idx, t := range i.Types {
		parts[idx] = t.String()
	}
	return strings.Join(parts, " & ")
}

func (i Intersection) ContainsTemplate() bool {
	for _, t := range i.Types {
		if t.ContainsTemplate() {
			return true
		}
	}
	return false
}
func (Intersection) IsNullable() bool { return false }
func (Intersection) IsFunction() bool { return false }
