package astshape

import "github.com/emmylua-go/luacore/ids"

// Block is a lexical block: the body of an if/for/while/do/function,
// or a file's top-level chunk (Kind distinguishes KindBlock vs
// KindChunk; both are scope-owning).
type Block struct {
	Base
	Stmts    []Node
	Comments []*Comment // doc comments attached to statements in this block
}

func (b *Block) Children() []Node {
	out := make([]Node, 0, len(b.Stmts)+len(b.Comments))
	for _, c := range b.Comments {
		out = append(out, c)
	}
	out = append(out, b.Stmts...)
	return out
}

// NewChunk builds the root Block of a file, tagged KindChunk so the
// declaration analyzer treats it as the outermost scope.
func NewChunk(r ids.Range, stmts []Node, comments []*Comment) *Block {
	return &Block{Base: Base{NodeKind: KindChunk, Rng: r}, Stmts: stmts, Comments: comments}
}

func NewBlock(r ids.Range, stmts []Node) *Block {
	return &Block{Base: Base{NodeKind: KindBlock, Rng: r}, Stmts: stmts}
}

// IfStat is `if cond then block [elseif ...] [else block] end`.
type IfStat struct {
	Base
	Cond Node
	Then *Block
	Else Node // *Block or *IfStat (elseif chain), or nil
}

func (s *IfStat) Children() []Node {
	out := []Node{s.Cond, s.Then}
	if s.Else != nil {
		out = append(out, s.Else)
	}
	return out
}

// ForStat is the numeric `for i = start, stop[, step] do ... end`.
type ForStat struct {
	Base
	Var        *NameExpr
	Start, Stop, Step Node
	Body       *Block
}

func (s *ForStat) Children() []Node {
	out := []Node{s.Var, s.Start, s.Stop}
	if s.Step != nil {
		out = append(out, s.Step)
	}
	return append(out, s.Body)
}

// ForRangeStat is `for k, v in iter do ... end` (generic for).
type ForRangeStat struct {
	Base
	Names []*NameExpr
	Exprs []Node // the `in` clause expression list
	Body  *Block
}

func (s *ForRangeStat) Children() []Node {
	out := make([]Node, 0, len(s.Names)+len(s.Exprs)+1)
	for _, n := range s.Names {
		out = append(out, n)
	}
	out = append(out, s.Exprs...)
	return append(out, s.Body)
}

// RepeatStat is `repeat ... until cond` (the condition can see locals
// declared in the body, unlike `while`).
type RepeatStat struct {
	Base
	Body *Block
	Cond Node
}

func (s *RepeatStat) Children() []Node { return []Node{s.Body, s.Cond} }

// FuncTarget identifies the name/index-expression a FuncStat assigns
// to: `function M.f()`, `function M:f()`, `function f()`.
type FuncTarget struct {
	Base
	Object   Node // nil for a bare name target
	Name     string
	IsMethod bool // true for `:`-defined methods (implicit self)
}

func (t *FuncTarget) Children() []Node {
	if t.Object != nil {
		return []Node{t.Object}
	}
	return nil
}

// FuncStat is `function <target>(params) ... end`.
type FuncStat struct {
	Base
	Target *FuncTarget
	Func   *ClosureExpr
}

func (s *FuncStat) Children() []Node { return []Node{s.Target, s.Func} }

// LocalFuncStat is `local function name(params) ... end`.
type LocalFuncStat struct {
	Base
	Name *NameExpr
	Func *ClosureExpr
}

func (s *LocalFuncStat) Children() []Node { return []Node{s.Name, s.Func} }

// LocalAttribute is the optional Lua 5.4 `<const>`/`<close>` local
// attribute, plus the core's own synthetic attributes for induction
// variables and parameters (spec.md §3 Declaration).
type LocalAttribute int

const (
	AttrNone LocalAttribute = iota
	AttrConst
	AttrClose
	AttrIterConst
	AttrParam
	AttrForRange
)

// LocalStat is `local a, b <const> = expr, expr`.
type LocalStat struct {
	Base
	Names      []*NameExpr
	Attributes []LocalAttribute // parallel to Names
	Exprs      []Node
}

func (s *LocalStat) Children() []Node {
	out := make([]Node, 0, len(s.Names)+len(s.Exprs))
	for _, n := range s.Names {
		out = append(out, n)
	}
	return append(out, s.Exprs...)
}

// AssignStat is `lhs1, lhs2 = rhs1, rhs2`, where each lhs is a
// NameExpr or IndexExpr.
type AssignStat struct {
	Base
	Targets []Node
	Exprs   []Node
}

func (s *AssignStat) Children() []Node {
	out := make([]Node, 0, len(s.Targets)+len(s.Exprs))
	out = append(out, s.Targets...)
	return append(out, s.Exprs...)
}
