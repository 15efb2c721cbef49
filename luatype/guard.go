package luatype

import "github.com/emmylua-go/luacore/ids"

// TypeGuard marks a parameter/return type as a user-defined type guard
// (`---@return boolean` with a `@cast`-style narrowing contract), so
// call sites narrow the guarded argument's flow type instead of just
// receiving `boolean` (spec.md §4.2 "Guard / range").
type TypeGuard struct{ Inner Type }

func (g TypeGuard) String() string       { return "TypeGuard<" + g.Inner.String() + ">" }
func (g TypeGuard) ContainsTemplate() bool { return g.Inner.ContainsTemplate() }
func (TypeGuard) IsNullable() bool       { return false }
func (TypeGuard) IsFunction() bool       { return false }

// InFiled pins a range to the file it was written in — used when a
// type needs to carry a source location (e.g. Instance's underlying
// table range) independent of the index store's handle machinery.
type InFiled struct {
	File  ids.FileId
	Range ids.Range
}

// Instance represents a value known to be "an instance of" a base type
// while also retaining a concrete underlying table range to fall back
// to during member resolution (spec.md §4.7: "Instance → try base
// first, then underlying table range").
type Instance struct {
	Base   Type
	Filed  InFiled
}

func (i Instance) String() string       { return i.Base.String() }
func (i Instance) ContainsTemplate() bool { return i.Base.ContainsTemplate() }
func (Instance) IsNullable() bool       { return false }
func (Instance) IsFunction() bool       { return false }
