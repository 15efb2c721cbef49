package luatype

import (
	"strings"

	"github.com/emmylua-go/luacore/ids"
)

// Generic is an application of a nominal generic type to concrete (or
// still-templated) arguments, e.g. `Map<string, integer>`.
type Generic struct {
	Base   ids.TypeDeclId
	Params []Type
}

func (g Generic) String() string {
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = p.String()
	}
	return g.Base.String() + "<" + strings.Join(parts, ", ") + ">"
}

func (g Generic) ContainsTemplate() bool {
	for _, p := range g.Params {
		if p.ContainsTemplate() {
			return true
		}
	}
	return false
}
func (Generic) IsNullable() bool { return false }
func (Generic) IsFunction() bool { return false }

// TableGeneric is the built-in `table<K, V>` generic form, handled
// ahead of the general nominal-generic path (spec.md §4.5) because
// `table` is not itself a TypeDecl.
type TableGeneric struct {
	Key   Type
	Value Type
}

func (t TableGeneric) String() string {
	return "table<" + t.Key.String() + ", " + t.Value.String() + ">"
}

func (t TableGeneric) ContainsTemplate() bool {
	return t.Key.ContainsTemplate() || t.Value.ContainsTemplate()
}
func (TableGeneric) IsNullable() bool { return false }
func (TableGeneric) IsFunction() bool { return false }

// TplRef is a reference to a bound template parameter inside a
// GenericIndex scope (e.g. `T` inside `@generic T`).
type TplRef struct{ Id ids.GenericTplId }

func (t TplRef) String() string        { return t.Id.Name }
func (TplRef) ContainsTemplate() bool  { return true }
func (TplRef) IsNullable() bool        { return false }
func (TplRef) IsFunction() bool        { return false }

// StrTplRef is a string-template type: a pattern that renders a
// concrete type name by splicing in a string-literal argument, e.g.
// `` `Get{T}` `` resolving to type `GetFoo` when T = "Foo".
type StrTplRef struct {
	Prefix string
	Id     ids.GenericTplId
	Suffix string
}

func (s StrTplRef) String() string {
	return s.Prefix + "`" + s.Id.Name + "`" + s.Suffix
}
func (StrTplRef) ContainsTemplate() bool { return true }
func (StrTplRef) IsNullable() bool       { return false }
func (StrTplRef) IsFunction() bool       { return false }
