package driver

import (
	"context"
	"testing"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/infer"
	"github.com/emmylua-go/luacore/luatype"
)

func rng(start, end int) ids.Range { return ids.Range{Start: ids.Pos(start), End: ids.Pos(end)} }

func newDriver() (*Driver, *index.Store) {
	store := index.NewStore()
	return New(store, infer.Lua54, false), store
}

// TestMemberPassInfersUndocumentedLocal builds `local x = 1` with no
// doc comment and checks the Member pass fills in x's Decl.Type from
// its RHS, rather than leaving it nil forever.
func TestMemberPassInfersUndocumentedLocal(t *testing.T) {
	d, store := newDriver()
	file := ids.FileId(1)

	xName := astshape.NewNameExpr(rng(6, 7), "x")
	localStat := astshape.NewLocalStat(rng(0, 10), []*astshape.NameExpr{xName}, nil, []astshape.Node{astshape.NewIntLiteral(rng(9, 10), 1)})
	chunk := astshape.NewChunk(rng(0, 10), []astshape.Node{localStat}, nil)

	d.Run(context.Background(), []FileSource{{File: file, Chunk: chunk}})

	declId := ids.NewDeclId(file, xName.Range().Start)
	decl, ok := store.Decls.Get(declId)
	if !ok || decl.Type == nil {
		t.Fatal("expected x's decl type to be inferred by the Member pass")
	}
	if _, ok := decl.Type.(luatype.IntegerConst); !ok {
		t.Fatalf("expected x's inferred type to be an IntegerConst, got %v", decl.Type)
	}
}

// TestMemberPassBuildsRuntimeSignatureForUndocumentedFunction builds
// `local function f(a, b) end` with no @param tags and checks a
// Signature with a two-name parameter list is still materialized.
func TestMemberPassBuildsRuntimeSignatureForUndocumentedFunction(t *testing.T) {
	d, store := newDriver()
	file := ids.FileId(1)

	body := astshape.NewBlock(rng(20, 22), nil)
	closure := astshape.NewClosureExpr(rng(10, 22), []astshape.Param{{Name: "a"}, {Name: "b"}}, body)
	fnName := astshape.NewNameExpr(rng(5, 6), "f")
	localFunc := astshape.NewLocalFuncStat(rng(0, 22), fnName, closure)
	chunk := astshape.NewChunk(rng(0, 22), []astshape.Node{localFunc}, nil)

	d.Run(context.Background(), []FileSource{{File: file, Chunk: chunk}})

	sigId := ids.NewSignatureId(file, closure.Range().Start)
	sig, ok := store.Signatures.Get(sigId)
	if !ok {
		t.Fatal("expected a runtime Signature for the undocumented function")
	}
	if len(sig.Params) != 2 || sig.Params[0].Name != "a" || sig.Params[1].Name != "b" {
		t.Fatalf("expected params [a b], got %v", sig.Params)
	}
}

// TestRunMergesPartialClassAcrossFiles drives two files through one
// Run, each declaring `---@class (partial) Foo : SuperN`, and checks
// the driver merges their supers without a collision diagnostic —
// the end-to-end version of docanalyzer's own cross-file partial-merge
// test.
func TestRunMergesPartialClassAcrossFiles(t *testing.T) {
	d, store := newDriver()

	file1 := ids.FileId(1)
	tag1 := astshape.NewDocClassTag(rng(0, 10), "Foo", []string{"partial"}, []string{"Super1"}, nil)
	comment1 := &astshape.Comment{Base: astshape.Base{NodeKind: astshape.KindComment, Rng: rng(0, 10)}, Tags: []astshape.DocTag{tag1}}
	chunk1 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment1})

	file2 := ids.FileId(2)
	tag2 := astshape.NewDocClassTag(rng(0, 10), "Foo", []string{"partial"}, []string{"Super2"}, nil)
	comment2 := &astshape.Comment{Base: astshape.Base{NodeKind: astshape.KindComment, Rng: rng(0, 10)}, Tags: []astshape.DocTag{tag2}}
	chunk2 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment2})

	result := d.Run(context.Background(), []FileSource{
		{File: file1, Chunk: chunk1},
		{File: file2, Chunk: chunk2},
	})

	for _, e := range result.Diags.Errors() {
		if e.Code == diagnostics.DuplicateType {
			t.Fatalf("expected no collision diagnostic from merging two partial classes, got %v", result.Diags.Errors())
		}
	}
	decl, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Foo"))
	if !ok || len(decl.Supers()) != 2 {
		t.Fatalf("expected Foo's supers to merge from both files, got %v", decl)
	}
}

// TestRunSecondPassReRemovesStaleContributions checks that re-running
// Run with an updated chunk for the same FileId replaces rather than
// duplicates that file's TypeDecl-affecting contributions: a second
// Run with Foo renamed to Bar leaves no trace of Foo.
func TestRunSecondPassReRemovesStaleContributions(t *testing.T) {
	d, store := newDriver()
	file := ids.FileId(1)

	tag := astshape.NewDocClassTag(rng(0, 10), "Foo", nil, nil, nil)
	comment := &astshape.Comment{Base: astshape.Base{NodeKind: astshape.KindComment, Rng: rng(0, 10)}, Tags: []astshape.DocTag{tag}}
	chunk := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment})
	d.Run(context.Background(), []FileSource{{File: file, Chunk: chunk}})

	if _, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Foo")); !ok {
		t.Fatal("expected Foo to be registered after the first run")
	}

	tag2 := astshape.NewDocClassTag(rng(0, 10), "Bar", nil, nil, nil)
	comment2 := &astshape.Comment{Base: astshape.Base{NodeKind: astshape.KindComment, Rng: rng(0, 10)}, Tags: []astshape.DocTag{tag2}}
	chunk2 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment2})
	d.Run(context.Background(), []FileSource{{File: file, Chunk: chunk2}})

	if _, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Foo")); ok {
		t.Fatal("expected Foo to be removed once its file no longer declares it")
	}
	if _, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Bar")); !ok {
		t.Fatal("expected Bar to be registered after the second run")
	}
}

// TestRunCancelledContextStopsEarly checks that a context cancelled
// before Run starts leaves no Declaration-pass contributions behind.
func TestRunCancelledContextStopsEarly(t *testing.T) {
	d, store := newDriver()
	file := ids.FileId(1)

	xName := astshape.NewNameExpr(rng(6, 7), "x")
	localStat := astshape.NewLocalStat(rng(0, 10), []*astshape.NameExpr{xName}, nil, []astshape.Node{astshape.NewIntLiteral(rng(9, 10), 1)})
	chunk := astshape.NewChunk(rng(0, 10), []astshape.Node{localStat}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx, []FileSource{{File: file, Chunk: chunk}})

	if _, ok := store.Scopes.Get(file); ok {
		t.Fatal("expected no scope tree to be built once the context was already cancelled")
	}
}
