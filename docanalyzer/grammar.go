package docanalyzer

import (
	"strconv"
	"strings"

	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// typeParser parses one doc-type-grammar expression out of the raw
// TypeExpr text a DocTag carries (spec.md §4.5: "Type parsing proceeds
// by structural recursion over the doc-type grammar"), grounded in
// funxy's internal/parser/types.go recursive-descent shape
// (parseType -> parseNonUnionType -> parseTypeApplication, curToken/
// peekToken cursor) applied to the doc-comment type syntax instead of
// funxy's own source-level type syntax.
type typeParser struct {
	toks    []token
	pos     int
	file    ids.FileId
	at      ids.Range
	generic *GenericIndex
	diags   *diagnostics.Collector
}

// parseDocType parses src against generic (the active GenericIndex
// frame, nil if none) and returns the resulting Type. Unknown nominal
// names are reported to diags anchored at at (spec.md §4.5 "unknown
// names emit a diagnostic TypeNotFound").
func parseDocType(src string, file ids.FileId, at ids.Range, generic *GenericIndex, diags *diagnostics.Collector) luatype.Type {
	p := &typeParser{toks: lexTypeExpr(src), file: file, at: at, generic: generic, diags: diags}
	if p.cur().kind == tEOF {
		return luatype.Unknown
	}
	t := p.parseUnion()
	if t == nil {
		return luatype.Unknown
	}
	return t
}

func (p *typeParser) cur() token { return p.toks[p.pos] }

func (p *typeParser) peek() token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return token{tEOF, ""}
}

func (p *typeParser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *typeParser) curIs(k tokKind) bool { return p.cur().kind == k }

// parseUnion is the lowest-precedence production: `|` union over
// parseIntersection branches (spec.md §4.5 "binary | / & / extends").
func (p *typeParser) parseUnion() luatype.Type {
	left := p.parseIntersection()
	if left == nil || !p.curIs(tPipe) {
		return left
	}
	types := []luatype.Type{left}
	for p.curIs(tPipe) {
		p.advance()
		next := p.parseIntersection()
		if next == nil {
			break
		}
		types = append(types, next)
	}
	return luatype.Union{Types: types}
}

func (p *typeParser) parseIntersection() luatype.Type {
	left := p.parseExtends()
	if left == nil || !p.curIs(tAmp) {
		return left
	}
	types := []luatype.Type{left}
	for p.curIs(tAmp) {
		p.advance()
		next := p.parseExtends()
		if next == nil {
			break
		}
		types = append(types, next)
	}
	return luatype.Intersection{Types: types}
}

// parseExtends handles `T extends U`, the binary alias-call form
// spec.md §4.2 lists as Call(AliasCallType{kind: Extends}).
func (p *typeParser) parseExtends() luatype.Type {
	left := p.parseArithmetic()
	if left == nil {
		return nil
	}
	if p.curIs(tIdent) && p.cur().text == "extends" {
		p.advance()
		right := p.parseArithmetic()
		if right == nil {
			return left
		}
		return luatype.Call{Source: left, Kind: luatype.AliasExtends, Operand: right}
	}
	return left
}

// parseArithmetic handles literal `+`/`-` alias-call arithmetic
// (spec.md §4.5 "binary ... arithmetic").
func (p *typeParser) parseArithmetic() luatype.Type {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for p.curIs(tPlus) || p.curIs(tMinus) {
		op := p.advance()
		right := p.parseUnary()
		if right == nil {
			break
		}
		kind := luatype.AliasAdd
		if op.kind == tMinus {
			kind = luatype.AliasSub
		}
		left = luatype.Call{Source: left, Kind: kind, Operand: right}
	}
	return left
}

// parseUnary handles `keyof T` (spec.md §4.5 "unary keyof"); the other
// unary form, a negative integer literal, is recognized directly in
// parsePrimary since it binds tighter than any operator.
func (p *typeParser) parseUnary() luatype.Type {
	if p.curIs(tIdent) && p.cur().text == "keyof" {
		p.advance()
		inner := p.parseUnary()
		if inner == nil {
			return nil
		}
		return luatype.Call{Source: inner, Kind: luatype.AliasKeyOf}
	}
	return p.parsePostfix()
}

// parsePostfix applies the repeatable suffixes `T[]`, `T?`, `T...`
// left-to-right (spec.md §4.5 "T[]; ... variadic").
func (p *typeParser) parsePostfix() luatype.Type {
	t := p.parsePrimary()
	if t == nil {
		return nil
	}
	for {
		switch {
		case p.curIs(tLBracket) && p.peek().kind == tRBracket:
			p.advance()
			p.advance()
			t = luatype.Array{Elem: t}
		case p.curIs(tQuestion):
			p.advance()
			t = luatype.Union{Types: []luatype.Type{t, luatype.Nil}}
		case p.curIs(tEllipsis):
			p.advance()
			t = luatype.Variadic{Body: luatype.VariadicBody{Base: t}}
		default:
			return t
		}
	}
}

func (p *typeParser) parsePrimary() luatype.Type {
	switch {
	case p.curIs(tMinus) && p.peek().kind == tInt:
		p.advance()
		v := p.advance()
		n, _ := strconv.ParseInt(v.text, 10, 64)
		return luatype.DocIntegerConst{Value: -n}
	case p.curIs(tInt):
		v := p.advance()
		if strings.Contains(v.text, ".") {
			f, _ := strconv.ParseFloat(v.text, 64)
			return luatype.FloatConst{Value: f}
		}
		n, _ := strconv.ParseInt(v.text, 10, 64)
		return luatype.DocIntegerConst{Value: n}
	case p.curIs(tString):
		v := p.advance()
		return luatype.DocStringConst{Value: v.text}
	case p.curIs(tLParen):
		return p.parseParenOrTuple()
	case p.curIs(tLBrace):
		return p.parseObjectType()
	case p.curIs(tBacktick):
		p.advance()
		return p.parseStringTemplate("")
	case p.curIs(tIdent) && p.peek().kind == tBacktick:
		prefix := p.advance().text
		p.advance()
		return p.parseStringTemplate(prefix)
	case p.curIs(tIdent):
		return p.parseNamedOrApplication()
	default:
		return nil
	}
}

// parseParenOrTuple handles both a parenthesized grouping `(T)` and a
// tuple `(T1, T2)` (spec.md §4.2 "Tuple(types)").
func (p *typeParser) parseParenOrTuple() luatype.Type {
	p.advance() // consume '('
	var elems []luatype.Type
	for !p.curIs(tRParen) && !p.curIs(tEOF) {
		t := p.parseUnion()
		if t == nil {
			break
		}
		elems = append(elems, t)
		if p.curIs(tComma) {
			p.advance()
			continue
		}
		break
	}
	if p.curIs(tRParen) {
		p.advance()
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return luatype.Tuple{Elems: elems}
}

// parseFunctionType handles `fun(a: T, b: T2): R1, R2` and its
// `async fun(...)` variant.
func (p *typeParser) parseFunctionType(isAsync bool) luatype.Type {
	if !p.curIs(tLParen) {
		return luatype.DocFunction{IsAsync: isAsync}
	}
	p.advance()
	var params []luatype.Param
	for !p.curIs(tRParen) && !p.curIs(tEOF) {
		if !p.curIs(tIdent) {
			break
		}
		name := p.advance().text
		var ptype luatype.Type
		if p.curIs(tColon) {
			p.advance()
			ptype = p.parseUnion()
		}
		params = append(params, luatype.Param{Name: name, Type: ptype})
		if p.curIs(tComma) {
			p.advance()
			continue
		}
		break
	}
	if p.curIs(tRParen) {
		p.advance()
	}
	var ret luatype.Type
	if p.curIs(tColon) {
		p.advance()
		rets := []luatype.Type{p.parseUnion()}
		for p.curIs(tComma) {
			p.advance()
			rets = append(rets, p.parseUnion())
		}
		if len(rets) == 1 {
			ret = rets[0]
		} else {
			ret = luatype.Tuple{Elems: rets}
		}
	}
	return luatype.DocFunction{Params: params, Return: ret, IsAsync: isAsync}
}

// parseObjectType handles `{ field: T, field2: T2 }` and the
// index-signature form `{ [K]: V }` (spec.md §4.2 "Object(fields+
// index-access)").
func (p *typeParser) parseObjectType() luatype.Type {
	p.advance() // consume '{'
	obj := luatype.Object{Fields: make(map[string]luatype.Type)}
	for !p.curIs(tRBrace) && !p.curIs(tEOF) {
		switch {
		case p.curIs(tLBracket):
			p.advance()
			key := p.parseUnion()
			if p.curIs(tRBracket) {
				p.advance()
			}
			if p.curIs(tColon) {
				p.advance()
			}
			value := p.parseUnion()
			obj.Index = &luatype.IndexAccess{Key: key, Value: value}
		case p.curIs(tIdent):
			name := p.advance().text
			if p.curIs(tColon) {
				p.advance()
			}
			obj.Fields[name] = p.parseUnion()
		default:
			p.advance()
			continue
		}
		if p.curIs(tComma) {
			p.advance()
		}
	}
	if p.curIs(tRBrace) {
		p.advance()
	}
	return obj
}

// parseStringTemplate handles the `` `T` `` / `` Prefix`T`Suffix ``
// string-template form (spec.md §4.2 "StrTplRef(prefix, name, suffix,
// id)"), the opening backtick already consumed by the caller.
func (p *typeParser) parseStringTemplate(prefix string) luatype.Type {
	var name string
	if p.curIs(tIdent) {
		name = p.advance().text
	}
	if p.curIs(tBacktick) {
		p.advance()
	}
	suffix := ""
	if p.curIs(tIdent) {
		suffix = p.advance().text
	}
	id, ok := p.generic.Resolve(name)
	if !ok {
		id = ids.GenericTplId{Kind: ids.GenericTplType, Name: name}
	}
	return luatype.StrTplRef{Prefix: prefix, Id: id, Suffix: suffix}
}

// primitiveBuiltins maps the grammar's bare primitive-leaf names to
// their singleton Type values (spec.md §4.2 "Primitive leaves").
var primitiveBuiltins = map[string]luatype.Type{
	"unknown":  luatype.Unknown,
	"any":      luatype.Any,
	"nil":      luatype.Nil,
	"boolean":  luatype.Boolean,
	"number":   luatype.Number,
	"integer":  luatype.Integer,
	"string":   luatype.StringTy,
	"function": luatype.Function,
	"thread":   luatype.Thread,
	"userdata": luatype.Userdata,
	"io":       luatype.Io,
	"global":   luatype.Global,
	"self":     luatype.SelfInfer,
}

// parseNamedOrApplication handles a bare or dotted name, its optional
// `<Args>` generic application, and the handful of forms spec.md §4.5
// says are "handled ahead of the general path": table, namespace,
// std.Select, std.Unpack, TypeGuard.
func (p *typeParser) parseNamedOrApplication() luatype.Type {
	first := p.advance().text
	switch first {
	case "true":
		return luatype.DocBooleanConst{Value: true}
	case "false":
		return luatype.DocBooleanConst{Value: false}
	case "fun", "async":
		return p.parseFunctionType(first == "async")
	}

	namespace, name := "", first
	for p.curIs(tDot) {
		p.advance()
		if !p.curIs(tIdent) {
			break
		}
		if namespace == "" {
			namespace = name
		} else {
			namespace = namespace + "." + name
		}
		name = p.advance().text
	}
	fullName := name
	if namespace != "" {
		fullName = namespace + "." + name
	}

	if namespace == "" && name == "table" {
		if p.curIs(tLT) {
			args := p.parseGenericArgs()
			if len(args) == 2 {
				return luatype.TableGeneric{Key: args[0], Value: args[1]}
			}
		}
		return luatype.Table
	}

	specialized := fullName == "namespace" || fullName == "std.Select" || fullName == "std.Unpack" || fullName == "TypeGuard"

	if fullName == "TypeGuard" && p.curIs(tLT) {
		args := p.parseGenericArgs()
		if len(args) == 1 {
			return luatype.TypeGuard{Inner: args[0]}
		}
	}

	if tplId, ok := p.generic.Resolve(fullName); ok && !specialized {
		return luatype.TplRef{Id: tplId}
	}

	if namespace == "" {
		if prim, ok := primitiveBuiltins[name]; ok {
			return prim
		}
	}

	if p.curIs(tLT) {
		args := p.parseGenericArgs()
		return luatype.Generic{Base: ids.NewTypeDeclId(namespace, name), Params: args}
	}

	if !specialized {
		p.reportUnknown(fullName)
	}
	return luatype.Ref{Id: ids.NewTypeDeclId(namespace, name)}
}

func (p *typeParser) parseGenericArgs() []luatype.Type {
	if !p.curIs(tLT) {
		return nil
	}
	p.advance()
	var args []luatype.Type
	for !p.curIs(tGT) && !p.curIs(tEOF) {
		t := p.parseUnion()
		if t == nil {
			break
		}
		args = append(args, t)
		if p.curIs(tComma) {
			p.advance()
			continue
		}
		break
	}
	if p.curIs(tGT) {
		p.advance()
	}
	return args
}

// reportUnknown emits TypeNotFound for a nominal name that resolved to
// neither a template parameter nor a builtin (spec.md §4.5 "unknown
// names emit a diagnostic TypeNotFound; the placeholder type is
// Ref(new_id(name))" — the Ref is still returned by the caller so
// downstream inference keeps a handle).
func (p *typeParser) reportUnknown(name string) {
	if p.diags == nil {
		return
	}
	p.diags.Add(diagnostics.New(diagnostics.TypeNotFound, p.file, p.at, "unknown type '"+name+"'"))
}
