package luatype

import "strings"

// VariadicBody is the payload of a Variadic type: either a homogeneous
// tail (Base set, Multi nil) or a fixed heterogeneous pack (Multi set,
// Base nil). Exactly one of the two is populated (spec.md Glossary
// "Variadic pack").
type VariadicBody struct {
	Base  Type   // homogeneous tail element type
	Multi []Type // fixed heterogeneous pack
}

func (v VariadicBody) IsMulti() bool { return v.Multi != nil }

func (v VariadicBody) String() string {
	if v.IsMulti() {
		parts := make([]string, len(v.Multi))
		for i, t := range v.Multi {
			parts[i] = t.String()
		}
		return strings.Join(parts, ", ")
	}
	if v.Base != nil {
		return v.Base.String() + "..."
	}
	return "..."
}

// Variadic wraps a VariadicBody as a first-class Type, used for
// multi-value returns and `...: T` parameter packs.
type Variadic struct{ Body VariadicBody }

func (v Variadic) String() string { return v.Body.String() }

func (v Variadic) ContainsTemplate() bool {
	if v.Body.IsMulti() {
		for _, t := range v.Body.Multi {
			if t.ContainsTemplate() {
				return true
			}
		}
		return false
	}
	return v.Body.Base != nil && v.Body.Base.ContainsTemplate()
}
func (Variadic) IsNullable() bool { return false }
func (Variadic) IsFunction() bool { return false }

// UnionBranch pairs one member of a MultiLineUnion with the doc
// description written on its own line (spec.md §4.5 `@alias` union
// form: `| T1 -- desc`).
type UnionBranch struct {
	Type        Type
	Description string
}

// MultiLineUnion is a union whose members each carry an independent
// description, as opposed to a plain Union built from `|` operators in
// a single type expression.
type MultiLineUnion struct{ Branches []UnionBranch }

func (m MultiLineUnion) String() string {
	parts := make([]string, len(m.Branches))
	for i, b := range m.Branches {
		parts[i] = b.Type.String()
	}
	return strings.Join(parts, " | ")
}

func (m MultiLineUnion) ContainsTemplate() bool {
	for _, b := range m.Branches {
		if b.Type.ContainsTemplate() {
			return true
		}
	}
	return false
}

func (m MultiLineUnion) IsNullable() bool {
	for _, b := range m.Branches {
		if p, ok := b.Type.(Primitive); ok && p.Kind == PNil {
			return true
		}
	}
	return false
}
func (MultiLineUnion) IsFunction() bool { return false }

// AsUnion drops per-branch descriptions, yielding the plain Union this
// MultiLineUnion is assignability-equivalent to (spec.md: aliases whose
// body is "a list of union-member Members" are otherwise ordinary
// unions for subtyping purposes).
func (m MultiLineUnion) AsUnion() Union {
	types := make([]Type, len(m.Branches))
	for i, b := range m.Branches {
		types[i] = b.Type
	}
	return Union{Types: types}
}
