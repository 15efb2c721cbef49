// Package luatype is the C2 Type Model: a single closed sum type
// representing every type form the analyzer deals with — primitive
// leaves, literal constants, structural containers, nominal
// references, generics, multi-value packs, function types and alias
// "call" operators.
//
// The interface shape (String/ContainsTemplate/IsNullable/IsFunction,
// one struct per variant) follows funxy's internal/typesystem.Type,
// which keeps a uniform method set across TVar/TCon/TApp/TFunc/TRecord/
// TUnion/TForall/TType. We drop funxy's Apply/FreeTypeVariables (those
// belong to Hindley-Milner unification, not this structural model) in
// favor of the predicates spec.md §4.2 names.
package luatype

import (
	"strconv"

	"github.com/emmylua-go/luacore/ids"
)

func itoa(v int64) string   { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Type is the interface every variant below implements. Equality and
// hashing live in equal.go as free functions operating over
// this interface (a double-dispatch type switch), matching the
// structural-equality rule from spec.md §4.2.
type Type interface {
	// String renders a human-readable form. Unions are rendered in
	// stored (not canonicalized) order; canonicalization for display
	// is a consumer concern (spec.md §4.2 "Equality").
	String() string

	// ContainsTemplate reports whether this type's tree contains a
	// TplRef or StrTplRef anywhere, used by the instantiation engine
	// (C7) to skip inert subtrees cheaply.
	ContainsTemplate() bool

	// IsNullable reports whether nil is a legal value of this type
	// (Nullable(_), or a Union containing Nil).
	IsNullable() bool

	// IsFunction reports whether this type denotes a callable value
	// (DocFunction or Signature), used by call-expression inference
	// (C6) before attempting overload resolution.
	IsFunction() bool
}

// ---- Primitive leaves ----

// Primitive is shared by every leaf that carries no payload.
type Primitive struct{ Kind PrimitiveKind }

type PrimitiveKind int

const (
	PUnknown PrimitiveKind = iota
	PAny
	PNil
	PBoolean
	PNumber
	PInteger
	PString
	PTable
	PFunction
	PThread
	PUserdata
	PIo
	PGlobal
	PSelfInfer
)

var primitiveNames = map[PrimitiveKind]string{
	PUnknown:   "unknown",
	PAny:       "any",
	PNil:       "nil",
	PBoolean:   "boolean",
	PNumber:    "number",
	PInteger:   "integer",
	PString:    "string",
	PTable:     "table",
	PFunction:  "function",
	PThread:    "thread",
	PUserdata:  "userdata",
	PIo:        "io",
	PGlobal:    "global",
	PSelfInfer: "self",
}

func (p Primitive) String() string            { return primitiveNames[p.Kind] }
func (p Primitive) ContainsTemplate() bool     { return false }
func (p Primitive) IsNullable() bool           { return p.Kind == PNil || p.Kind == PAny || p.Kind == PUnknown }
func (p Primitive) IsFunction() bool           { return p.Kind == PFunction }

var (
	Unknown   Type = Primitive{PUnknown}
	Any       Type = Primitive{PAny}
	Nil       Type = Primitive{PNil}
	Boolean   Type = Primitive{PBoolean}
	Number    Type = Primitive{PNumber}
	Integer   Type = Primitive{PInteger}
	StringTy  Type = Primitive{PString}
	Table     Type = Primitive{PTable}
	Function  Type = Primitive{PFunction}
	Thread    Type = Primitive{PThread}
	Userdata  Type = Primitive{PUserdata}
	Io        Type = Primitive{PIo}
	Global    Type = Primitive{PGlobal}
	SelfInfer Type = Primitive{PSelfInfer}
)

// ---- Literal constants ----

// BooleanConst is a runtime boolean-literal singleton type.
type BooleanConst struct{ Value bool }

func (b BooleanConst) String() string { return boolString(b.Value) }
func (BooleanConst) ContainsTemplate() bool { return false }
func (BooleanConst) IsNullable() bool       { return false }
func (BooleanConst) IsFunction() bool       { return false }

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// IntegerConst is a runtime integer-literal singleton type.
type IntegerConst struct{ Value int64 }

func (i IntegerConst) String() string       { return itoa(i.Value) }
func (IntegerConst) ContainsTemplate() bool { return false }
func (IntegerConst) IsNullable() bool       { return false }
func (IntegerConst) IsFunction() bool       { return false }

// FloatConst is a runtime float-literal singleton type.
type FloatConst struct{ Value float64 }

func (f FloatConst) String() string       { return ftoa(f.Value) }
func (FloatConst) ContainsTemplate() bool { return false }
func (FloatConst) IsNullable() bool       { return false }
func (FloatConst) IsFunction() bool       { return false }

// StringConst is a runtime string-literal singleton type, interned by
// value so equal strings compare `==` as Go values.
type StringConst struct{ Value string }

func (s StringConst) String() string       { return "\"" + s.Value + "\"" }
func (StringConst) ContainsTemplate() bool { return false }
func (StringConst) IsNullable() bool       { return false }
func (StringConst) IsFunction() bool       { return false }

// DocIntegerConst/DocStringConst/DocBooleanConst originate in
// documentation (`---@type 1`) rather than runtime literal expressions.
// They are distinct variants because their assignability rules differ
// subtly from the runtime-literal versions (spec.md §4.2): a doc literal
// type never widens implicitly the way inferred runtime literals do
// when assigned into a `local` without an explicit `@type`.
type DocIntegerConst struct{ Value int64 }

func (d DocIntegerConst) String() string       { return itoa(d.Value) }
func (DocIntegerConst) ContainsTemplate() bool { return false }
func (DocIntegerConst) IsNullable() bool       { return false }
func (DocIntegerConst) IsFunction() bool       { return false }

type DocStringConst struct{ Value string }

func (d DocStringConst) String() string       { return "\"" + d.Value + "\"" }
func (DocStringConst) ContainsTemplate() bool { return false }
func (DocStringConst) IsNullable() bool       { return false }
func (DocStringConst) IsFunction() bool       { return false }

type DocBooleanConst struct{ Value bool }

func (d DocBooleanConst) String() string       { return boolString(d.Value) }
func (DocBooleanConst) ContainsTemplate() bool { return false }
func (DocBooleanConst) IsNullable() bool       { return false }
func (DocBooleanConst) IsFunction() bool       { return false }

// ---- Table literal handle ----

// TableConst is a handle into the member index for an ad-hoc table
// literal's shape: `{ x = 1, y = "a" }` has no nominal type, but its
// fields are still resolvable through member_index.get_member_map.
type TableConst struct {
	File  ids.FileId
	Range ids.Range
}

func (t TableConst) String() string       { return "table@" + t.File.String() }
func (TableConst) ContainsTemplate() bool { return false }
func (TableConst) IsNullable() bool       { return false }
func (TableConst) IsFunction() bool       { return false }

// ---- Named references ----

// Ref is a use-site reference to a nominal type by id.
type Ref struct{ Id ids.TypeDeclId }

func (r Ref) String() string       { return r.Id.String() }
func (Ref) ContainsTemplate() bool { return false }
func (Ref) IsNullable() bool       { return false }
func (Ref) IsFunction() bool       { return false }

// Def is the definition-site form of a nominal type reference, bound
// to the owning declaration as a side effect of processing `@class`/
// `@enum`/`@alias` (spec.md §4.5).
type Def struct{ Id ids.TypeDeclId }

func (d Def) String() string       { return d.Id.String() }
func (Def) ContainsTemplate() bool { return false }
func (Def) IsNullable() bool       { return false }
func (Def) IsFunction() bool       { return false }

// Namespace is the type of a bare `@namespace`/`@using` name that has
// not (or not yet) been declared as a class/enum/alias of the same
// name — member resolution tries the matching TypeDecl first and falls
// back to this opaque handle otherwise (spec.md §4.7 "Namespace(ns) ->
// either Def(ns.name) ... or Namespace(ns.name)").
type Namespace struct{ Name string }

func (n Namespace) String() string       { return n.Name }
func (Namespace) ContainsTemplate() bool { return false }
func (Namespace) IsNullable() bool       { return false }
func (Namespace) IsFunction() bool       { return false }
