package astshape

import "github.com/emmylua-go/luacore/ids"

// NameExpr is a bare identifier occurrence, either a reference or a
// declaration-site name (the declaration analyzer, not the parser,
// decides which).
type NameExpr struct {
	Base
	Name string
}

func (n *NameExpr) Children() []Node { return nil }

// IndexExpr is `prefix.k` (Dot) or `prefix[k]` (Bracket).
type IndexExprOp int

const (
	IndexDot IndexExprOp = iota
	IndexBracket
	IndexColon // `prefix:k(...)`, method-call sugar; Key is always a literal name
)

type IndexExpr struct {
	Base
	Prefix Node
	Op     IndexExprOp
	Key    Node // *NameExpr for Dot/Colon, arbitrary Node for Bracket
}

func (e *IndexExpr) Children() []Node { return []Node{e.Prefix, e.Key} }

// LiteralKind distinguishes the runtime-literal expression forms.
type LiteralKind int

const (
	LiteralNil LiteralKind = iota
	LiteralTrue
	LiteralFalse
	LiteralInteger
	LiteralFloat
	LiteralString
	LiteralVararg // `...`
)

// LiteralExpr is any literal token: nil/true/false/number/string/....
type LiteralExpr struct {
	Base
	LitKind    LiteralKind
	IntValue   int64
	FloatValue float64
	StrValue   string
}

func (e *LiteralExpr) Children() []Node { return nil }

// BinaryOp enumerates the binary operator spellings the inference
// engine dispatches on (spec.md §4.6 "Binary/unary").
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBAnd
	OpBOr
	OpBXor
	OpShl
	OpShr
)

type BinaryExpr struct {
	Base
	Op          BinaryOp
	Left, Right Node
}

func (e *BinaryExpr) Children() []Node { return []Node{e.Left, e.Right} }

// UnaryOp enumerates the unary operator spellings.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpLen
	OpBNot
)

type UnaryExpr struct {
	Base
	Op   UnaryOp
	Expr Node
}

func (e *UnaryExpr) Children() []Node { return []Node{e.Expr} }

// CallExpr is `callee(args)` or the `callee:method(args)` sugar, the
// latter represented with Callee as an IndexExpr{Op: IndexColon}.
type CallExpr struct {
	Base
	Callee Node
	Args   []Node
}

func (e *CallExpr) Children() []Node {
	out := make([]Node, 0, len(e.Args)+1)
	out = append(out, e.Callee)
	return append(out, e.Args...)
}

// Param is one formal parameter of a ClosureExpr, including Lua's
// trailing `...` vararg parameter (Name == "...").
type Param struct {
	Name string
	Rng  ids.Range
}

// ClosureExpr is a function literal `function(params) ... end`,
// scope-owning (spec.md §4.4).
type ClosureExpr struct {
	Base
	Params   []Param
	IsVararg bool
	Body     *Block
	// IsColonDefine is true when this closure is the right-hand side of
	// a `:`-defined method (spec.md §3 Signature "is_colon_define"); the
	// doc/declaration analyzers set this when building the owning
	// FuncStat, since the parser only sees `function M:f(...)`.
	IsColonDefine bool
}

func (e *ClosureExpr) Children() []Node { return []Node{e.Body} }

// TableFieldValue is a positional array-style entry: `{ v1, v2 }`.
type TableFieldValue struct {
	Base
	Value Node
}

func (f *TableFieldValue) Children() []Node { return []Node{f.Value} }

// TableFieldAssign is a named or computed-key entry:
// `{ x = 1 }` (Name set) or `{ [expr] = 1 }` (Name empty, KeyExpr set).
type TableFieldAssign struct {
	Base
	Name    string // "" when KeyExpr is used instead
	KeyExpr Node   // non-nil for `[expr] = value` entries
	Value   Node
}

func (f *TableFieldAssign) Children() []Node {
	if f.KeyExpr != nil {
		return []Node{f.KeyExpr, f.Value}
	}
	return []Node{f.Value}
}

// TableArrayExpr is a table literal containing only positional
// entries; kept distinct from TableObjectExpr because the member
// index models array-shaped table literals differently (integer keys
// via Tuple-like positional access) from object-shaped ones.
type TableArrayExpr struct {
	Base
	Elems []*TableFieldValue
}

func (e *TableArrayExpr) Children() []Node {
	out := make([]Node, len(e.Elems))
	for i, el := range e.Elems {
		out[i] = el
	}
	return out
}

// TableObjectExpr is a table literal containing named/computed-key
// entries (or a mix, in which case positional entries are hoisted
// into synthesized integer-keyed TableFieldAssign entries by the
// declaration analyzer).
type TableObjectExpr struct {
	Base
	Fields []*TableFieldAssign
}

func (e *TableObjectExpr) Children() []Node {
	out := make([]Node, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f
	}
	return out
}
