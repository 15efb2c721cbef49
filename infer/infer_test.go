package infer

import (
	"testing"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
	"github.com/emmylua-go/luacore/subtype"
)

func rng(start, end int) ids.Range { return ids.Range{Start: ids.Pos(start), End: ids.Pos(end)} }

func newInferencer(store *index.Store, version RuntimeVersion) *Inferencer {
	return New(store, subtype.New(store), version, false)
}

func TestInferLiteralKinds(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	intLit := astshape.NewIntLiteral(rng(0, 1), 3)
	strLit := astshape.NewStringLiteral(rng(2, 5), "hi")

	it, fail := inf.InferExpr(file, intLit, nil)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	if ic, ok := it.(luatype.IntegerConst); !ok || ic.Value != 3 {
		t.Fatalf("expected IntegerConst(3), got %v", it)
	}

	st, fail := inf.InferExpr(file, strLit, nil)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	if sc, ok := st.(luatype.StringConst); !ok || sc.Value != "hi" {
		t.Fatalf("expected StringConst(\"hi\"), got %v", st)
	}
}

// TestDivisionAlwaysPromotesToFloatUnderLua53Plus exercises
// SPEC_FULL.md §4.6.1's literal-arithmetic table: `/` always yields a
// FloatConst from Lua53 on, even for two integer operands.
func TestDivisionAlwaysPromotesToFloatUnderLua53Plus(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	expr := astshape.NewBinaryExpr(rng(0, 5), astshape.OpDiv, astshape.NewIntLiteral(rng(0, 1), 6), astshape.NewIntLiteral(rng(4, 5), 2))
	got, fail := inf.InferExpr(file, expr, nil)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	if _, ok := got.(luatype.FloatConst); !ok {
		t.Fatalf("expected a FloatConst result for integer division, got %v", got)
	}
}

// TestFloorDivKeepsOperandKind checks `//` stays on IntegerConst for
// two integer operands, unlike `/`.
func TestFloorDivKeepsOperandKind(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	expr := astshape.NewBinaryExpr(rng(0, 5), astshape.OpFloorDiv, astshape.NewIntLiteral(rng(0, 1), 7), astshape.NewIntLiteral(rng(4, 5), 2))
	got, fail := inf.InferExpr(file, expr, nil)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	ic, ok := got.(luatype.IntegerConst)
	if !ok || ic.Value != 3 {
		t.Fatalf("expected IntegerConst(3), got %v", got)
	}
}

func TestInferNameResolvesLocalThenFallsBackToGlobal(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	root := index.NewScope(nil, rng(0, 100))
	declId := ids.NewDeclId(file, ids.Pos(0))
	root.Decls = append(root.Decls, &index.Decl{Id: declId, Kind: index.DeclLocal, Name: "x", Range: rng(0, 1), Type: luatype.Integer})
	store.Decls.Add(&index.Decl{Id: declId, Kind: index.DeclLocal, Name: "x", Range: rng(0, 1), Type: luatype.Integer})

	name := astshape.NewNameExpr(rng(10, 11), "x")
	got, fail := inf.InferExpr(file, name, root)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	if got != luatype.Integer {
		t.Fatalf("expected Integer from local decl, got %v", got)
	}

	undeclared := astshape.NewNameExpr(rng(20, 25), "undeclared")
	_, fail = inf.InferExpr(file, undeclared, root)
	if fail == nil || fail.Kind != FailNotFound {
		t.Fatalf("expected FailNotFound for an undeclared global, got %v", fail)
	}
}

func TestResolveMemberByKeyOnNominalType(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	typeDeclId := ids.NewTypeDeclId("", "Point")
	store.TypeDecls.EnsureMerged(typeDeclId, index.KindClass, file, false)
	member := &index.Member{Id: ids.NewMemberId(file, ids.Pos(5)), Owner: ids.NewTypeOwnerId(typeDeclId), Key: index.NameKey("x"), File: file, DeclaredType: luatype.Integer}
	store.Members.Add(member)

	got, fail := inf.ResolveMember(luatype.Def{Id: typeDeclId}, index.NameKey("x"), map[ids.TypeDeclId]bool{}, 0)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	if got != luatype.Integer {
		t.Fatalf("expected Integer member type, got %v", got)
	}

	_, fail = inf.ResolveMember(luatype.Def{Id: typeDeclId}, index.NameKey("missing"), map[ids.TypeDeclId]bool{}, 0)
	if fail == nil {
		t.Fatal("expected a fail for a nonexistent member")
	}
}

func TestInferUnaryNegationOfIntegerConst(t *testing.T) {
	store := index.NewStore()
	inf := newInferencer(store, Lua54)
	file := ids.FileId(1)

	expr := astshape.NewUnaryExpr(rng(0, 2), astshape.OpNeg, astshape.NewIntLiteral(rng(1, 2), 5))
	got, fail := inf.InferExpr(file, expr, nil)
	if fail != nil {
		t.Fatalf("unexpected fail: %v", fail)
	}
	ic, ok := got.(luatype.IntegerConst)
	if !ok || ic.Value != -5 {
		t.Fatalf("expected IntegerConst(-5), got %v", got)
	}
}
