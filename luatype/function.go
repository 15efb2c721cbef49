package luatype

import (
	"strings"

	"github.com/emmylua-go/luacore/ids"
)

// Param is one parameter of a DocFunction type: a name (for display
// and pattern-matching against call sites) plus an optional type.
type Param struct {
	Name string
	Type Type // nil means unannotated / Unknown
}

// DocFunction is a structural function type built from `fun(a: T): R`
// doc syntax or synthesized from a Signature's declared parameter list.
type DocFunction struct {
	Params  []Param
	Return  Type
	IsAsync bool
	IsColon bool // true if this is a `:` method-style signature (implicit self)
}

func (f DocFunction) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Type != nil {
			parts[i] = p.Name + ": " + p.Type.String()
		} else {
			parts[i] = p.Name
		}
	}
	ret := "nil"
	if f.Return != nil {
		ret = f.Return.String()
	}
	prefix := "fun"
	if f.IsAsync {
		prefix = "async fun"
	}
	return prefix + "(" + strings.Join(parts, ", ") + "): " + ret
}

func (f DocFunction) ContainsTemplate() bool {
	for _, p := range f.Params {
		if p.Type != nil && p.Type.ContainsTemplate() {
			return true
		}
	}
	return f.Return != nil && f.Return.ContainsTemplate()
}
func (DocFunction) IsNullable() bool { return false }
func (DocFunction) IsFunction() bool { return true }

// Signature is a reference to a per-closure Signature record in the
// index store (spec.md §3 Signature) rather than an inline structural
// function type; resolving it requires looking up the SignatureId.
type Signature struct{ Id ids.SignatureId }

func (s Signature) String() string        { return "fun(" + s.Id.String() + ")" }
func (Signature) ContainsTemplate() bool  { return false }
func (Signature) IsNullable() bool        { return false }
func (Signature) IsFunction() bool        { return true }

// AliasCallKind enumerates the operators an alias "call" type may
// apply to its operand(s) (spec.md §4.2 "Alias calls").
type AliasCallKind int

const (
	AliasKeyOf AliasCallKind = iota
	AliasIndex
	AliasExtends
	AliasAdd
	AliasSub
)

func (k AliasCallKind) String() string {
	switch k {
	case AliasKeyOf:
		return "keyof"
	case AliasIndex:
		return "index"
	case AliasExtends:
		return "extends"
	case AliasAdd:
		return "add"
	case AliasSub:
		return "sub"
	default:
		return "?"
	}
}

// Call represents an unevaluated alias-call expression embedded in a
// type position, e.g. `keyof Pt` or `Extends<A, B>`. The generic
// machinery (C7) evaluates these during instantiation; outside of
// instantiation they are opaque placeholders.
type Call struct {
	Source  Type
	Kind    AliasCallKind
	Operand Type // nil for unary operators (KeyOf)
}

func (c Call) String() string {
	if c.Operand == nil {
		return c.Kind.String() + " " + c.Source.String()
	}
	return c.Kind.String() + "(" + c.Source.String() + ", " + c.Operand.String() + ")"
}

func (c Call) ContainsTemplate() bool {
	if c.Source.ContainsTemplate() {
		return true
	}
	return c.Operand != nil && c.Operand.ContainsTemplate()
}
func (Call) IsNullable() bool { return false }
func (Call) IsFunction() bool { return false }
