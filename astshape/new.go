package astshape

import "github.com/emmylua-go/luacore/ids"

// The constructors below exist purely to keep test fixtures and the
// (external) parser's tree-building code from having to spell out
// `Base{NodeKind: ..., Rng: ...}` at every call site.

func NewNameExpr(r ids.Range, name string) *NameExpr {
	return &NameExpr{Base: Base{NodeKind: KindNameExpr, Rng: r}, Name: name}
}

func NewIndexExpr(r ids.Range, prefix Node, op IndexExprOp, key Node) *IndexExpr {
	return &IndexExpr{Base: Base{NodeKind: KindIndexExpr, Rng: r}, Prefix: prefix, Op: op, Key: key}
}

func NewLiteral(r ids.Range, kind LiteralKind) *LiteralExpr {
	return &LiteralExpr{Base: Base{NodeKind: KindLiteralExpr, Rng: r}, LitKind: kind}
}

func NewIntLiteral(r ids.Range, v int64) *LiteralExpr {
	l := NewLiteral(r, LiteralInteger)
	l.IntValue = v
	return l
}

func NewFloatLiteral(r ids.Range, v float64) *LiteralExpr {
	l := NewLiteral(r, LiteralFloat)
	l.FloatValue = v
	return l
}

func NewStringLiteral(r ids.Range, v string) *LiteralExpr {
	l := NewLiteral(r, LiteralString)
	l.StrValue = v
	return l
}

func NewBinaryExpr(r ids.Range, op BinaryOp, left, right Node) *BinaryExpr {
	return &BinaryExpr{Base: Base{NodeKind: KindBinaryExpr, Rng: r}, Op: op, Left: left, Right: right}
}

func NewUnaryExpr(r ids.Range, op UnaryOp, expr Node) *UnaryExpr {
	return &UnaryExpr{Base: Base{NodeKind: KindUnaryExpr, Rng: r}, Op: op, Expr: expr}
}

func NewCallExpr(r ids.Range, callee Node, args ...Node) *CallExpr {
	return &CallExpr{Base: Base{NodeKind: KindCallExpr, Rng: r}, Callee: callee, Args: args}
}

func NewClosureExpr(r ids.Range, params []Param, body *Block) *ClosureExpr {
	return &ClosureExpr{Base: Base{NodeKind: KindClosureExpr, Rng: r}, Params: params, Body: body}
}

func NewLocalStat(r ids.Range, names []*NameExpr, attrs []LocalAttribute, exprs []Node) *LocalStat {
	return &LocalStat{Base: Base{NodeKind: KindLocalStat, Rng: r}, Names: names, Attributes: attrs, Exprs: exprs}
}

func NewAssignStat(r ids.Range, targets, exprs []Node) *AssignStat {
	return &AssignStat{Base: Base{NodeKind: KindAssignStat, Rng: r}, Targets: targets, Exprs: exprs}
}

func NewIfStat(r ids.Range, cond Node, then *Block, els Node) *IfStat {
	return &IfStat{Base: Base{NodeKind: KindIfStat, Rng: r}, Cond: cond, Then: then, Else: els}
}

func NewForStat(r ids.Range, v *NameExpr, start, stop, step Node, body *Block) *ForStat {
	return &ForStat{Base: Base{NodeKind: KindForStat, Rng: r}, Var: v, Start: start, Stop: stop, Step: step, Body: body}
}

func NewForRangeStat(r ids.Range, names []*NameExpr, exprs []Node, body *Block) *ForRangeStat {
	return &ForRangeStat{Base: Base{NodeKind: KindForRangeStat, Rng: r}, Names: names, Exprs: exprs, Body: body}
}

func NewFuncStat(r ids.Range, target *FuncTarget, fn *ClosureExpr) *FuncStat {
	return &FuncStat{Base: Base{NodeKind: KindFuncStat, Rng: r}, Target: target, Func: fn}
}

func NewLocalFuncStat(r ids.Range, name *NameExpr, fn *ClosureExpr) *LocalFuncStat {
	return &LocalFuncStat{Base: Base{NodeKind: KindLocalFuncStat, Rng: r}, Name: name, Func: fn}
}
