package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// posId is the common "<file>|<byte-offset>" shape shared by DeclId,
// MemberId, SignatureId and OperatorId (spec.md §6). The offset is the
// start of the identifier occurrence the handle names, so re-running
// the analyzer over unchanged source regenerates an identical id.
type posId struct {
	File   FileId
	Offset Pos
}

func (h posId) String() string {
	return h.File.String() + "|" + strconv.Itoa(int(h.Offset))
}

func parsePosId(kind, s string) (posId, error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return posId{}, fmt.Errorf("ids: invalid %s %q", kind, s)
	}
	file, err := ParseFileId(parts[0])
	if err != nil {
		return posId{}, fmt.Errorf("ids: invalid %s %q: %w", kind, s, err)
	}
	off, err := strconv.Atoi(parts[1])
	if err != nil {
		return posId{}, fmt.Errorf("ids: invalid %s %q: %w", kind, s, err)
	}
	return posId{File: file, Offset: Pos(off)}, nil
}

// DeclId identifies a Local or Global declaration by the position of
// its defining name occurrence.
type DeclId struct{ posId }

func NewDeclId(file FileId, offset Pos) DeclId { return DeclId{posId{file, offset}} }

func ParseDeclId(s string) (DeclId, error) {
	p, err := parsePosId("DeclId", s)
	return DeclId{p}, err
}

// MemberId identifies a field of a TypeDecl or table literal by the
// position of its declaring syntax node.
type MemberId struct{ posId }

func NewMemberId(file FileId, offset Pos) MemberId { return MemberId{posId{file, offset}} }

func ParseMemberId(s string) (MemberId, error) {
	p, err := parsePosId("MemberId", s)
	return MemberId{p}, err
}

// SignatureId identifies a function-closure value by the position of
// its defining token (the `function` keyword or closure-expr start).
type SignatureId struct{ posId }

func NewSignatureId(file FileId, offset Pos) SignatureId { return SignatureId{posId{file, offset}} }

func ParseSignatureId(s string) (SignatureId, error) {
	p, err := parsePosId("SignatureId", s)
	return SignatureId{p}, err
}

// OperatorId identifies an overloaded metamethod declaration by the
// position of its `@operator`/`function __add` tag.
type OperatorId struct{ posId }

func NewOperatorId(file FileId, offset Pos) OperatorId { return OperatorId{posId{file, offset}} }

func ParseOperatorId(s string) (OperatorId, error) {
	p, err := parsePosId("OperatorId", s)
	return OperatorId{p}, err
}

// TypeDeclId identifies a nominal type (class | enum | alias) by its
// namespace-qualified name. Unlike the position-keyed handles above,
// this id must stay identical across files that contribute to the same
// `partial` class, so it is name-keyed rather than position-keyed.
type TypeDeclId struct {
	Namespace string // "" for the global namespace
	Name      string
}

func NewTypeDeclId(namespace, name string) TypeDeclId {
	return TypeDeclId{Namespace: namespace, Name: name}
}

func (t TypeDeclId) String() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func ParseTypeDeclId(s string) (TypeDeclId, error) {
	if s == "" {
		return TypeDeclId{}, fmt.Errorf("ids: empty TypeDeclId")
	}
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return TypeDeclId{Name: s}, nil
	}
	return TypeDeclId{Namespace: s[:idx], Name: s[idx+1:]}, nil
}

// GenericTplKind distinguishes the two disjoint template-id namespaces
// a scope may carry: type-level generic parameters (`@class Foo<T>`)
// and function-level ones (`@generic T`).
type GenericTplKind int

const (
	GenericTplType GenericTplKind = iota
	GenericTplFunc
)

func (k GenericTplKind) String() string {
	if k == GenericTplFunc {
		return "Func"
	}
	return "Type"
}

// GenericTplId identifies a bound template parameter within a
// GenericIndex scope (spec.md §4.5, Glossary "Generic template id").
type GenericTplId struct {
	Kind GenericTplKind
	Idx  int
	Name string
}

func (g GenericTplId) String() string {
	return fmt.Sprintf("%s(%d):%s", g.Kind, g.Idx, g.Name)
}

// OwnerKind distinguishes the two shapes a Member owner may take
// (spec.md §3 Member): a nominal TypeDecl, or an ad-hoc table literal
// pinned to a file+range.
type OwnerKind int

const (
	OwnerTypeDecl OwnerKind = iota
	OwnerElement
)

// OwnerId is the key of the member index's owner-keyed map
// (`member_index.get_member_map(owner)`).
type OwnerId struct {
	Kind    OwnerKind
	TypeDecl TypeDeclId // valid when Kind == OwnerTypeDecl
	Element  Range      // valid when Kind == OwnerElement
	File     FileId      // valid when Kind == OwnerElement
}

func NewTypeOwnerId(id TypeDeclId) OwnerId {
	return OwnerId{Kind: OwnerTypeDecl, TypeDecl: id}
}

func NewElementOwnerId(file FileId, r Range) OwnerId {
	return OwnerId{Kind: OwnerElement, File: file, Element: r}
}

func (o OwnerId) String() string {
	switch o.Kind {
	case OwnerTypeDecl:
		return "Type:" + o.TypeDecl.String()
	case OwnerElement:
		return fmt.Sprintf("Element:%s|%d|%d", o.File, o.Element.Start, o.Element.End)
	default:
		return "Owner:?"
	}
}

// PropertyOwnerKind is the `<kind>` half of a PropertyOwnerId
// (spec.md §6: "<kind>:<inner>" with kind in
// {TypeDecl, Member, LuaDecl, Signature}).
type PropertyOwnerKind int

const (
	PropertyOwnerTypeDecl PropertyOwnerKind = iota
	PropertyOwnerMember
	PropertyOwnerLuaDecl
	PropertyOwnerSignature
)

func (k PropertyOwnerKind) String() string {
	switch k {
	case PropertyOwnerTypeDecl:
		return "TypeDecl"
	case PropertyOwnerMember:
		return "Member"
	case PropertyOwnerLuaDecl:
		return "LuaDecl"
	case PropertyOwnerSignature:
		return "Signature"
	default:
		return "Unknown"
	}
}

// PropertyOwnerId serializes a property owner (the thing a description
// or visibility/deprecation annotation is attached to) into the stable
// "<kind>:<inner>" format used when persisting descriptions across a
// collaborator boundary.
type PropertyOwnerId struct {
	Kind  PropertyOwnerKind
	Inner string // the wrapped handle's own .String()
}

func (p PropertyOwnerId) String() string {
	return p.Kind.String() + ":" + p.Inner
}

func ParsePropertyOwnerId(s string) (PropertyOwnerId, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return PropertyOwnerId{}, fmt.Errorf("ids: invalid PropertyOwnerId %q", s)
	}
	var kind PropertyOwnerKind
	switch parts[0] {
	case "TypeDecl":
		kind = PropertyOwnerTypeDecl
	case "Member":
		kind = PropertyOwnerMember
	case "LuaDecl":
		kind = PropertyOwnerLuaDecl
	case "Signature":
		kind = PropertyOwnerSignature
	default:
		return PropertyOwnerId{}, fmt.Errorf("ids: invalid PropertyOwnerId kind %q", parts[0])
	}
	return PropertyOwnerId{Kind: kind, Inner: parts[1]}, nil
}
