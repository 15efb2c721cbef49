package declanalyzer

import (
	"testing"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
)

func rng(start, end int) ids.Range { return ids.Range{Start: ids.Pos(start), End: ids.Pos(end)} }

// The fixture is `local a = 1` followed by a bare reference to `a`
// (a name expression, not a call, to keep it minimal).
func TestLocalDeclVisibleAfterItsOwnStatement(t *testing.T) {
	file := ids.FileId(7)
	store := index.NewStore()

	nameDecl := astshape.NewNameExpr(rng(6, 7), "a")
	localStat := astshape.NewLocalStat(rng(0, 8), []*astshape.NameExpr{nameDecl}, nil, []astshape.Node{astshape.NewIntLiteral(rng(10, 11), 1)})

	refA := astshape.NewNameExpr(rng(20, 21), "a")
	chunk := astshape.NewChunk(rng(0, 30), []astshape.Node{localStat, refA}, nil)

	New(file, store).Analyze(chunk)

	tree, ok := store.Scopes.Get(file)
	if !ok {
		t.Fatal("expected a scope tree for the analyzed file")
	}
	decl, found := tree.Root.FindDecl("a", 20)
	if !found {
		t.Fatal("expected local 'a' visible after its defining statement")
	}
	refs := store.References.LocalRefs(decl.Id)
	if len(refs) != 1 || refs[0].Range != refA.Range() {
		t.Fatalf("expected one local reference at the reference's range, got %v", refs)
	}
}

func TestUndeclaredAssignmentBecomesGlobal(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	target := astshape.NewNameExpr(rng(0, 3), "foo")
	assign := astshape.NewAssignStat(rng(0, 10), []astshape.Node{target}, []astshape.Node{astshape.NewIntLiteral(rng(6, 7), 1)})
	chunk := astshape.NewChunk(rng(0, 10), []astshape.Node{assign}, nil)

	New(file, store).Analyze(chunk)

	globals := store.Decls.Globals("foo")
	if len(globals) != 1 {
		t.Fatalf("expected exactly one global decl for 'foo', got %d", len(globals))
	}
}

func TestForRangeCreatesOneIterConstDeclPerName(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	k := astshape.NewNameExpr(rng(10, 11), "k")
	v := astshape.NewNameExpr(rng(13, 14), "v")
	body := astshape.NewBlock(rng(20, 30), nil)
	forRange := astshape.NewForRangeStat(rng(0, 30), []*astshape.NameExpr{k, v}, []astshape.Node{astshape.NewNameExpr(rng(16, 21), "pairs")}, body)
	chunk := astshape.NewChunk(rng(0, 30), []astshape.Node{forRange}, nil)

	New(file, store).Analyze(chunk)

	tree, _ := store.Scopes.Get(file)
	forScope := tree.Root.Children[0]
	if len(forScope.Decls) != 2 {
		t.Fatalf("expected two IterConst decls (k, v), got %d", len(forScope.Decls))
	}
	for _, d := range forScope.Decls {
		if d.Attribute != index.AttrIterConst {
			t.Fatalf("expected IterConst attribute, got %v", d.Attribute)
		}
	}
}

func TestSelfNeverBecomesAGlobal(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	self := astshape.NewNameExpr(rng(0, 4), "self")
	chunk := astshape.NewChunk(rng(0, 10), []astshape.Node{self}, nil)

	New(file, store).Analyze(chunk)

	if globals := store.Decls.Globals("self"); len(globals) != 0 {
		t.Fatal("expected 'self' to never be treated as a free global")
	}
}

func TestClosureParamsScopedToClosureBody(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	param := astshape.Param{Name: "x", Rng: rng(9, 10)}
	body := astshape.NewBlock(rng(12, 20), nil)
	closure := astshape.NewClosureExpr(rng(0, 20), []astshape.Param{param}, body)
	local := astshape.NewLocalFuncStat(rng(0, 20), astshape.NewNameExpr(rng(15, 16), "f"), closure)
	chunk := astshape.NewChunk(rng(0, 20), []astshape.Node{local}, nil)

	New(file, store).Analyze(chunk)

	tree, _ := store.Scopes.Get(file)
	closureScope := tree.Root.Children[0]
	if len(closureScope.Decls) != 1 || closureScope.Decls[0].Name != "x" {
		t.Fatalf("expected the closure's own scope to carry the param decl, got %v", closureScope.Decls)
	}
}
