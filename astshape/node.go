// Package astshape is the read-only AST contract the core consumes
// from its parser collaborator (spec.md §6): node kinds, positions,
// token categories, and a walk_descendants iterator. The core never
// constructs these nodes from source text — that is the parser's job,
// explicitly out of scope (spec.md §1 Non-goals) — it only walks a
// tree handed to it.
//
// The interface shape (a Node with Accept/Kind plus position-carrying
// embedding) follows funxy's internal/ast package (Node/Statement/
// Expression interfaces, TokenProvider, struct-per-node-kind layout),
// generalized from funxy's own ML-family grammar to the Lua-family
// statement/expression kinds spec.md §6 names.
package astshape

import "github.com/emmylua-go/luacore/ids"

// NodeKind identifies the syntactic category of a Node without a type
// assertion, used by the declaration analyzer's scope-owning dispatch
// (spec.md §4.4) and by generic tree walks that only care about kind.
type NodeKind int

const (
	KindBlock NodeKind = iota
	KindChunk
	KindIfStat
	KindForStat
	KindForRangeStat
	KindFuncStat
	KindLocalFuncStat
	KindLocalStat
	KindAssignStat
	KindRepeatStat
	KindCallExpr
	KindClosureExpr
	KindTableObjectExpr
	KindTableArrayExpr
	KindTableFieldAssign
	KindTableFieldValue
	KindNameExpr
	KindIndexExpr
	KindLiteralExpr
	KindBinaryExpr
	KindUnaryExpr
	KindComment
	KindDocTag
)

var nodeKindNames = map[NodeKind]string{
	KindBlock:            "Block",
	KindChunk:            "Chunk",
	KindIfStat:           "IfStat",
	KindForStat:          "ForStat",
	KindForRangeStat:     "ForRangeStat",
	KindFuncStat:         "FuncStat",
	KindLocalFuncStat:    "LocalFuncStat",
	KindLocalStat:        "LocalStat",
	KindAssignStat:       "AssignStat",
	KindRepeatStat:       "RepeatStat",
	KindCallExpr:         "CallExpr",
	KindClosureExpr:      "ClosureExpr",
	KindTableObjectExpr:  "TableObjectExpr",
	KindTableArrayExpr:   "TableArrayExpr",
	KindTableFieldAssign: "TableFieldAssign",
	KindTableFieldValue:  "TableFieldValue",
	KindNameExpr:         "NameExpr",
	KindIndexExpr:        "IndexExpr",
	KindLiteralExpr:      "LiteralExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindComment:          "Comment",
	KindDocTag:           "DocTag",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// scopeOwningKinds are the node kinds the declaration analyzer treats
// as scope boundaries (spec.md §4.4: "Chunk, Block, ClosureExpr,
// Repeat, For, ForRange").
var scopeOwningKinds = map[NodeKind]bool{
	KindChunk:        true,
	KindBlock:        true,
	KindClosureExpr:  true,
	KindRepeatStat:   true,
	KindForStat:      true,
	KindForRangeStat: true,
}

// IsScopeOwning reports whether k is one of the scope-owning node
// kinds the declaration analyzer pushes a new Scope for.
func IsScopeOwning(k NodeKind) bool { return scopeOwningKinds[k] }

// Node is the base interface every syntax node implements.
type Node interface {
	Kind() NodeKind
	Range() ids.Range
	Children() []Node
}

// Base is embedded by every concrete node below to provide the
// Kind/Range half of the Node interface; Children is implemented
// per-kind since each node's child set differs.
type Base struct {
	NodeKind NodeKind
	Rng      ids.Range
}

func (b Base) Kind() NodeKind  { return b.NodeKind }
func (b Base) Range() ids.Range { return b.Rng }

// WalkEvent distinguishes the two events WalkDescendants emits per
// node, matching spec.md §6's "walk_descendants iterator emitting
// Enter/Leave events in source order".
type WalkEvent int

const (
	Enter WalkEvent = iota
	Leave
)

// WalkDescendants performs a pre/post-order traversal of root,
// invoking visit(Enter, n) before n's children and visit(Leave, n)
// after, in source order. The declaration analyzer (C4) uses this to
// push/pop scopes exactly at scope-owning node boundaries.
func WalkDescendants(root Node, visit func(event WalkEvent, node Node)) {
	if root == nil {
		return
	}
	visit(Enter, root)
	for _, child := range root.Children() {
		WalkDescendants(child, visit)
	}
	visit(Leave, root)
}
