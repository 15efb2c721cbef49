package docanalyzer

import (
	"testing"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/diagnostics"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

func rng(start, end int) ids.Range { return ids.Range{Start: ids.Pos(start), End: ids.Pos(end)} }

func newComment(r ids.Range, tags ...astshape.DocTag) *astshape.Comment {
	return &astshape.Comment{Base: astshape.Base{NodeKind: astshape.KindComment, Rng: r}, Tags: tags}
}

// TestClassFieldBindsOwnerAndDeclType builds:
//
//	---@class Point
//	---@field x integer
//	---@field y integer
//	local p = {}
//
// and checks that Point gets two members and the local p's Decl
// resolves to Def(Point).
func TestClassFieldBindsOwnerAndDeclType(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()
	diags := diagnostics.NewCollector()

	classTag := astshape.NewDocClassTag(rng(3, 15), "Point", nil, nil, nil)
	fieldX := astshape.NewDocFieldTag(rng(18, 30), "", "x", false, "integer", "")
	fieldY := astshape.NewDocFieldTag(rng(33, 45), "", "y", false, "integer", "")
	comment := newComment(rng(0, 45), classTag, fieldX, fieldY)

	pName := astshape.NewNameExpr(rng(56, 57), "p")
	localStat := astshape.NewLocalStat(rng(50, 60), []*astshape.NameExpr{pName}, nil, []astshape.Node{astshape.NewCallExpr(rng(59, 61), astshape.NewNameExpr(rng(59, 60), "table"))})
	chunk := astshape.NewChunk(rng(0, 70), []astshape.Node{localStat}, []*astshape.Comment{comment})

	// Decl must already exist for SetType to take effect, mirroring what
	// the declaration pass creates before docanalyzer runs.
	declId := ids.NewDeclId(file, pName.Range().Start)
	store.Decls.Add(&index.Decl{Id: declId, Kind: index.DeclLocal, Name: "p", File: file, Range: pName.Range()})

	New(file, store, diags).Analyze(chunk)

	decl, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Point"))
	if !ok {
		t.Fatal("expected Point type decl")
	}
	mm := store.Members.GetMemberMap(ids.NewTypeOwnerId(decl.Id))
	if len(mm) != 2 {
		t.Fatalf("expected 2 members on Point, got %d", len(mm))
	}
	if _, ok := mm[index.NameKey("x")]; !ok {
		t.Fatal("expected member 'x'")
	}

	pd, ok := store.Decls.Get(declId)
	if !ok || pd.Type == nil {
		t.Fatal("expected p's decl type to be set")
	}
	def, ok := pd.Type.(luatype.Def)
	if !ok || def.Id.Name != "Point" {
		t.Fatalf("expected p's type to be Def(Point), got %v", pd.Type)
	}
}

// TestPartialClassMergeAcrossFilesFlagsCollision mirrors spec.md S2:
// two non-partial `@class Foo` decls in different files collide.
func TestPartialClassMergeAcrossFilesFlagsCollision(t *testing.T) {
	store := index.NewStore()

	file1 := ids.FileId(1)
	diags1 := diagnostics.NewCollector()
	tag1 := astshape.NewDocClassTag(rng(0, 10), "Foo", nil, nil, nil)
	comment1 := newComment(rng(0, 10), tag1)
	chunk1 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment1})
	New(file1, store, diags1).Analyze(chunk1)

	file2 := ids.FileId(2)
	diags2 := diagnostics.NewCollector()
	tag2 := astshape.NewDocClassTag(rng(0, 10), "Foo", nil, nil, nil)
	comment2 := newComment(rng(0, 10), tag2)
	chunk2 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment2})
	New(file2, store, diags2).Analyze(chunk2)

	if len(diags2.Errors()) != 1 || diags2.Errors()[0].Code != diagnostics.DuplicateType {
		t.Fatalf("expected a DuplicateType diagnostic from the second file, got %v", diags2.Errors())
	}
}

// TestPartialClassMergesSupersAcrossFiles checks that two `@class
// (partial) Foo : Super1`/`: Super2` decls in different files merge
// their super lists without a collision diagnostic.
func TestPartialClassMergesSupersAcrossFiles(t *testing.T) {
	store := index.NewStore()

	file1 := ids.FileId(1)
	tag1 := astshape.NewDocClassTag(rng(0, 10), "Foo", []string{"partial"}, []string{"Super1"}, nil)
	comment1 := newComment(rng(0, 10), tag1)
	chunk1 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment1})
	New(file1, store, diagnostics.NewCollector()).Analyze(chunk1)

	file2 := ids.FileId(2)
	tag2 := astshape.NewDocClassTag(rng(0, 10), "Foo", []string{"partial"}, []string{"Super2"}, nil)
	comment2 := newComment(rng(0, 10), tag2)
	chunk2 := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment2})
	diags2 := diagnostics.NewCollector()
	New(file2, store, diags2).Analyze(chunk2)

	for _, e := range diags2.Errors() {
		if e.Code == diagnostics.DuplicateType {
			t.Fatalf("expected no collision for partial merge, got %v", diags2.Errors())
		}
	}
	decl, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Foo"))
	if !ok || len(decl.Supers()) != 2 {
		t.Fatalf("expected Foo's supers to merge from both files, got %v", decl)
	}
}

// TestAliasUnionMembersRecorded builds a multi-branch alias:
//
//	---@alias Shape
//	---| "circle"
//	---| "square"
func TestAliasUnionMembersRecorded(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	tag := astshape.NewDocAliasTag(rng(0, 20), "Shape", nil, "", []astshape.DocAliasMember{
		{TypeExpr: `"circle"`},
		{TypeExpr: `"square"`},
	})
	comment := newComment(rng(0, 20), tag)
	chunk := astshape.NewChunk(rng(0, 30), nil, []*astshape.Comment{comment})

	New(file, store, diagnostics.NewCollector()).Analyze(chunk)

	decl, ok := store.TypeDecls.Get(ids.NewTypeDeclId("", "Shape"))
	if !ok {
		t.Fatal("expected Shape alias decl")
	}
	if len(decl.AliasMembers) != 2 {
		t.Fatalf("expected 2 alias members, got %d", len(decl.AliasMembers))
	}
	for _, mid := range decl.AliasMembers {
		if _, ok := store.Members.Get(mid); !ok {
			t.Fatalf("expected alias member %v to resolve via Members.Get", mid)
		}
	}
}

// TestParamAndReturnTagsBuildSignature builds:
//
//	---@param a integer
//	---@param b string?
//	---@return boolean
//	local function f(a, b) end
func TestParamAndReturnTagsBuildSignature(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	paramA := astshape.NewDocParamTag(rng(0, 10), "a", false, "integer", "")
	paramB := astshape.NewDocParamTag(rng(11, 25), "b", true, "string", "")
	ret := astshape.NewDocReturnTag(rng(26, 40), "boolean", "", "")
	comment := newComment(rng(0, 40), paramA, paramB, ret)

	body := astshape.NewBlock(rng(60, 62), nil)
	closure := astshape.NewClosureExpr(rng(50, 62), nil, body)
	fnName := astshape.NewNameExpr(rng(45, 46), "f")
	localFunc := astshape.NewLocalFuncStat(rng(41, 62), fnName, closure)
	chunk := astshape.NewChunk(rng(0, 70), []astshape.Node{localFunc}, []*astshape.Comment{comment})

	New(file, store, diagnostics.NewCollector()).Analyze(chunk)

	sigId := ids.NewSignatureId(file, closure.Range().Start)
	sig, ok := store.Signatures.Get(sigId)
	if !ok || sig.Declared == nil {
		t.Fatal("expected a Signature with Declared set")
	}
	if len(sig.Declared.Params) != 2 {
		t.Fatalf("expected 2 declared params, got %d", len(sig.Declared.Params))
	}
	if union, ok := sig.Declared.Params[1].Type.(luatype.Union); !ok || !union.IsNullable() {
		t.Fatalf("expected optional param 'b' to widen to a nullable union, got %v", sig.Declared.Params[1].Type)
	}
	if sig.Declared.Return == nil {
		t.Fatal("expected a declared return type")
	}
}

// TestCastTagRecordsFlowAssertion builds `---@cast v Foo` and checks
// the resulting FlowAssertion.
func TestCastTagRecordsFlowAssertion(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	castTag := astshape.NewDocCastTag(rng(0, 15), "v", []string{"Foo"})
	comment := newComment(rng(0, 15), castTag)
	chunk := astshape.NewChunk(rng(0, 20), nil, []*astshape.Comment{comment})

	New(file, store, diagnostics.NewCollector()).Analyze(chunk)

	assertions := store.Flow.InFile(file)
	if len(assertions) != 1 {
		t.Fatalf("expected 1 flow assertion, got %d", len(assertions))
	}
	if assertions[0].Expr != "v" || assertions[0].Type == nil {
		t.Fatalf("expected a resolved cast assertion for 'v', got %+v", assertions[0])
	}
}

// TestNamespaceTagQualifiesSubsequentClass checks that a `@namespace`
// tag earlier in the file causes a later `@class` to be registered
// under the qualified name.
func TestNamespaceTagQualifiesSubsequentClass(t *testing.T) {
	file := ids.FileId(1)
	store := index.NewStore()

	nsTag := astshape.NewDocNamespaceTag(rng(0, 10), "mymod")
	nsComment := newComment(rng(0, 10), nsTag)

	classTag := astshape.NewDocClassTag(rng(12, 25), "Widget", nil, nil, nil)
	classComment := newComment(rng(12, 25), classTag)

	chunk := astshape.NewChunk(rng(0, 30), nil, []*astshape.Comment{nsComment, classComment})

	New(file, store, diagnostics.NewCollector()).Analyze(chunk)

	if _, ok := store.TypeDecls.Get(ids.NewTypeDeclId("mymod", "Widget")); !ok {
		t.Fatal("expected Widget to be registered under the 'mymod' namespace")
	}
}
