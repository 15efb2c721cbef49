package astshape

import "github.com/emmylua-go/luacore/ids"

// Comment is a doc-comment block attached to the statement that
// follows it, carrying the raw tag lines the doc analyzer (C5) will
// parse. The parser collaborator splits `---@tag ...` lines into
// DocTags; plain `--` text lines are kept as free text for hover
// rendering (out of this core's scope beyond storing the raw text).
type Comment struct {
	Base
	Tags []DocTag
	Text string // free-text portion, unparsed
}

func (c *Comment) Children() []Node {
	out := make([]Node, len(c.Tags))
	for i, t := range c.Tags {
		out[i] = t
	}
	return out
}

// DocTag is any `---@xxx` tag node. Each concrete tag type below
// carries exactly the fields spec.md §4.5 lists for that tag; the
// unparsed type-expression text a tag refers to is carried as a raw
// string (TypeExpr) for docanalyzer's grammar to parse, keeping this
// package free of any dependency on the type grammar itself.
type DocTag interface {
	Node
	docTag()
}

type docTagBase struct{ Base }

func (docTagBase) docTag() {}
func (d docTagBase) Children() []Node { return nil }

// DocClassTag models `@class Name[(attrs)] : Super1, Super2`.
type DocClassTag struct {
	docTagBase
	Name       string
	Attributes []string // raw attribute names: partial, exact, key, global, constructor, meta
	Supers     []string // raw super type-expression text, one per super
	Generics   []DocGenericParam
}

// DocGenericParam is one `<T: Bound>` entry in a class/alias/function
// generic parameter list.
type DocGenericParam struct {
	Name  string
	Bound string // raw type-expression text, "" if unbounded
}

// DocEnumTag models `@enum Name`.
type DocEnumTag struct {
	docTagBase
	Name     string
	BaseType string // raw type-expression text, "" if absent
}

// DocAliasTag models `@alias Name[<params>] = body` or the
// multi-line union form (the latter carries its members via following
// `@alias`-continuation comment lines, captured as Members).
type DocAliasTag struct {
	docTagBase
	Name     string
	Generics []DocGenericParam
	Origin   string // raw type-expression text for the `= body` form
	Members  []DocAliasMember // populated for the `| T -- desc` form instead of Origin
}

type DocAliasMember struct {
	TypeExpr    string
	Description string
}

// DocFieldTag models `@field [visibility] name[?]: type [desc]`.
type DocFieldTag struct {
	docTagBase
	Visibility  string // "", "public", "private", "protected", "package"
	Name        string
	Optional    bool
	TypeExpr    string
	Description string
}

// DocTypeTag models `@type type`.
type DocTypeTag struct {
	docTagBase
	TypeExpr string
}

// DocParamTag models `@param name[?] type [desc]`.
type DocParamTag struct {
	docTagBase
	Name        string
	Optional    bool
	TypeExpr    string
	Description string
}

// DocReturnTag models `@return type [name] [desc]`.
type DocReturnTag struct {
	docTagBase
	TypeExpr    string
	Name        string
	Description string
}

// DocOverloadTag models `@overload fun(...)`.
type DocOverloadTag struct {
	docTagBase
	TypeExpr string
}

// DocGenericTag models `@generic T[: Bound][, U...]`.
type DocGenericTag struct {
	docTagBase
	Params []DocGenericParam
}

// DocCastTag models `@cast expr, op1, op2 ...`.
type DocCastTag struct {
	docTagBase
	Expr string // raw expression text the cast narrows
	Ops  []string
}

// DocAsTag models `@as type`, a shorthand single-type cast.
type DocAsTag struct {
	docTagBase
	TypeExpr string
}

// DocNamespaceTag/DocUsingTag/DocExportTag model `@namespace N`,
// `@using N`, `@export N`, which scope subsequent name lookups.
type DocNamespaceTag struct {
	docTagBase
	Name string
}

type DocUsingTag struct {
	docTagBase
	Name string
}

type DocExportTag struct {
	docTagBase
	Name string
}

// the constructors below stamp Base.NodeKind = KindDocTag uniformly;
// callers distinguish concrete tag kinds via a type switch.

func newDocTagBase(r ids.Range) docTagBase {
	return docTagBase{Base{NodeKind: KindDocTag, Rng: r}}
}

func NewDocClassTag(r ids.Range, name string, attrs, supers []string, generics []DocGenericParam) *DocClassTag {
	return &DocClassTag{newDocTagBase(r), name, attrs, supers, generics}
}

func NewDocEnumTag(r ids.Range, name, base string) *DocEnumTag {
	return &DocEnumTag{newDocTagBase(r), name, base}
}

func NewDocAliasTag(r ids.Range, name string, generics []DocGenericParam, origin string, members []DocAliasMember) *DocAliasTag {
	return &DocAliasTag{newDocTagBase(r), name, generics, origin, members}
}

func NewDocFieldTag(r ids.Range, visibility, name string, optional bool, typeExpr, desc string) *DocFieldTag {
	return &DocFieldTag{newDocTagBase(r), visibility, name, optional, typeExpr, desc}
}

func NewDocTypeTag(r ids.Range, typeExpr string) *DocTypeTag {
	return &DocTypeTag{newDocTagBase(r), typeExpr}
}

func NewDocParamTag(r ids.Range, name string, optional bool, typeExpr, desc string) *DocParamTag {
	return &DocParamTag{newDocTagBase(r), name, optional, typeExpr, desc}
}

func NewDocReturnTag(r ids.Range, typeExpr, name, desc string) *DocReturnTag {
	return &DocReturnTag{newDocTagBase(r), typeExpr, name, desc}
}

func NewDocOverloadTag(r ids.Range, typeExpr string) *DocOverloadTag {
	return &DocOverloadTag{newDocTagBase(r), typeExpr}
}

func NewDocGenericTag(r ids.Range, params []DocGenericParam) *DocGenericTag {
	return &DocGenericTag{newDocTagBase(r), params}
}

func NewDocCastTag(r ids.Range, expr string, ops []string) *DocCastTag {
	return &DocCastTag{newDocTagBase(r), expr, ops}
}

func NewDocAsTag(r ids.Range, typeExpr string) *DocAsTag {
	return &DocAsTag{newDocTagBase(r), typeExpr}
}

func NewDocNamespaceTag(r ids.Range, name string) *DocNamespaceTag {
	return &DocNamespaceTag{newDocTagBase(r), name}
}

func NewDocUsingTag(r ids.Range, name string) *DocUsingTag {
	return &DocUsingTag{newDocTagBase(r), name}
}

func NewDocExportTag(r ids.Range, name string) *DocExportTag {
	return &DocExportTag{newDocTagBase(r), name}
}
