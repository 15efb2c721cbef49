package query

import (
	"testing"

	"github.com/emmylua-go/luacore/astshape"
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/infer"
	"github.com/emmylua-go/luacore/luatype"
	"github.com/emmylua-go/luacore/subtype"
)

func rng(start, end int) ids.Range { return ids.Range{Start: ids.Pos(start), End: ids.Pos(end)} }

func newFacade(store *index.Store) *Facade {
	checker := subtype.New(store)
	return New(store, infer.New(store, checker, infer.Lua54, false))
}

func TestNodeAtFindsInnermostMatch(t *testing.T) {
	inner := astshape.NewNameExpr(rng(5, 6), "x")
	call := astshape.NewCallExpr(rng(0, 10), astshape.NewNameExpr(rng(0, 4), "fn"), inner)

	found := NodeAt(call, ids.Pos(5))
	if found != inner {
		t.Fatalf("expected the inner name expr, got %v", found)
	}
}

func TestResolveNameFindsLocalThenGlobal(t *testing.T) {
	store := index.NewStore()
	root := index.NewScope(nil, rng(0, 100))
	declId := ids.NewDeclId(ids.FileId(1), ids.Pos(0))
	decl := &index.Decl{Id: declId, Kind: index.DeclLocal, Name: "x", Range: rng(0, 1)}
	root.Decls = append(root.Decls, decl)
	store.Decls.Add(decl)

	name := astshape.NewNameExpr(rng(10, 11), "x")
	found, ok := ResolveName(store, ids.FileId(1), name, root)
	if !ok || found.Id != declId {
		t.Fatal("expected to resolve x to its local decl")
	}

	globalDecl := &index.Decl{Id: ids.NewDeclId(ids.FileId(1), ids.Pos(50)), Kind: index.DeclGlobal, Name: "g"}
	store.Decls.Add(globalDecl)
	gName := astshape.NewNameExpr(rng(60, 61), "g")
	foundG, ok := ResolveName(store, ids.FileId(1), gName, root)
	if !ok || foundG.Id != globalDecl.Id {
		t.Fatal("expected to fall back to the global decl for g")
	}
}

func TestResolveMemberAndCompletions(t *testing.T) {
	store := index.NewStore()
	f := newFacade(store)
	file := ids.FileId(1)

	typeDeclId := ids.NewTypeDeclId("", "Point")
	store.TypeDecls.EnsureMerged(typeDeclId, index.KindClass, file, false)
	xMember := &index.Member{Id: ids.NewMemberId(file, ids.Pos(5)), Owner: ids.NewTypeOwnerId(typeDeclId), Key: index.NameKey("x"), File: file, DeclaredType: luatype.Integer}
	store.Members.Add(xMember)

	declId := ids.NewDeclId(file, ids.Pos(0))
	store.Decls.Add(&index.Decl{Id: declId, Kind: index.DeclLocal, Name: "p", Range: rng(0, 1), Type: luatype.Def{Id: typeDeclId}})

	root := index.NewScope(nil, rng(0, 100))
	root.Decls = append(root.Decls, &index.Decl{Id: declId, Kind: index.DeclLocal, Name: "p", Range: rng(0, 1), Type: luatype.Def{Id: typeDeclId}})

	prefix := astshape.NewNameExpr(rng(10, 11), "p")
	key := astshape.NewNameExpr(rng(13, 14), "x")
	idxExpr := &astshape.IndexExpr{Base: astshape.Base{NodeKind: astshape.KindIndexExpr, Rng: rng(10, 14)}, Prefix: prefix, Op: astshape.IndexDot, Key: key}

	member, prefixType, ok := f.ResolveMember(file, idxExpr, root)
	if !ok || member.Id != xMember.Id {
		t.Fatalf("expected to resolve p.x to the x member, got %v", member)
	}
	if _, ok := prefixType.(luatype.Def); !ok {
		t.Fatalf("expected p's inferred type to be Def(Point), got %v", prefixType)
	}

	completions := f.CompletionsFor(prefixType)
	if len(completions) != 1 || completions[0].Name != "x" {
		t.Fatalf("expected one completion candidate 'x', got %v", completions)
	}
}

func TestHumanizeRendersTypeString(t *testing.T) {
	if got := Humanize(luatype.Integer); got != luatype.Integer.String() {
		t.Fatalf("expected Humanize to match String(), got %q vs %q", got, luatype.Integer.String())
	}
	if got := Humanize(nil); got != "unknown" {
		t.Fatalf("expected nil to humanize to 'unknown', got %q", got)
	}
}
