package index

import (
	"testing"

	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

func TestDeclStoreRemoveEvictsOnlyThatFile(t *testing.T) {
	s := NewDeclStore()
	f1, f2 := ids.FileId(1), ids.FileId(2)
	d1 := &Decl{Id: ids.NewDeclId(f1, 0), Kind: DeclLocal, Name: "a", File: f1}
	d2 := &Decl{Id: ids.NewDeclId(f2, 0), Kind: DeclLocal, Name: "b", File: f2}
	s.Add(d1)
	s.Add(d2)

	s.Remove(f1)

	if _, ok := s.Get(d1.Id); ok {
		t.Fatal("expected decl from removed file to be evicted")
	}
	if _, ok := s.Get(d2.Id); !ok {
		t.Fatal("expected decl from other file to survive Remove")
	}
}

func TestScopeFindDeclRequiresStrictlyBeforePosition(t *testing.T) {
	file := ids.FileId(1)
	root := NewScope(nil, ids.Range{Start: 0, End: 100})
	d := &Decl{Id: ids.NewDeclId(file, 10), Kind: DeclLocal, Name: "a", File: file, Range: ids.Range{Start: 10, End: 11}}
	root.AddDecl(d)

	if _, ok := root.FindDecl("a", 10); ok {
		t.Fatal("expected no visible decl exactly at its own defining position")
	}
	if got, ok := root.FindDecl("a", 11); !ok || got != d {
		t.Fatal("expected decl visible strictly after its defining position")
	}
}

func TestScopeFindDeclShadowingInnermostWins(t *testing.T) {
	file := ids.FileId(1)
	root := NewScope(nil, ids.Range{Start: 0, End: 100})
	outer := &Decl{Id: ids.NewDeclId(file, 0), Kind: DeclLocal, Name: "x", File: file, Range: ids.Range{Start: 0, End: 1}}
	root.AddDecl(outer)

	inner := NewScope(root, ids.Range{Start: 10, End: 50})
	shadow := &Decl{Id: ids.NewDeclId(file, 12), Kind: DeclLocal, Name: "x", File: file, Range: ids.Range{Start: 12, End: 13}}
	inner.AddDecl(shadow)

	got, ok := inner.FindDecl("x", 20)
	if !ok || got != shadow {
		t.Fatal("expected the innermost-scope decl to shadow the outer one")
	}
}

func TestTypeDeclPartialMergeAcrossFilesAndRemove(t *testing.T) {
	store := NewTypeDeclStore()
	id := ids.NewTypeDeclId("", "Foo")
	f1, f2 := ids.FileId(1), ids.FileId(2)

	d, collided := store.EnsureMerged(id, KindClass, f1, true)
	if collided {
		t.Fatal("first declaration must not collide")
	}
	d.addSupers(f1, []luatype.Type{luatype.Ref{Id: ids.NewTypeDeclId("", "Base1")}})

	d2, collided := store.EnsureMerged(id, KindClass, f2, true)
	if collided {
		t.Fatal("partial-flagged second declaration must not collide")
	}
	d2.addSupers(f2, []luatype.Type{luatype.Ref{Id: ids.NewTypeDeclId("", "Base2")}})

	supers := d.Supers()
	if len(supers) != 2 {
		t.Fatalf("expected merged supers from both files, got %d", len(supers))
	}

	store.Remove(f1)
	remaining, ok := store.Get(id)
	if !ok {
		t.Fatal("expected TypeDecl to survive while file 2 still contributes")
	}
	supers = remaining.Supers()
	if len(supers) != 1 || !luatype.Equal(supers[0], luatype.Ref{Id: ids.NewTypeDeclId("", "Base2")}) {
		t.Fatalf("expected only file 2's super to remain, got %v", supers)
	}

	store.Remove(f2)
	if _, ok := store.Get(id); ok {
		t.Fatal("expected TypeDecl to be pruned once every contributor is gone")
	}
}

func TestTypeDeclCollisionWithoutPartial(t *testing.T) {
	store := NewTypeDeclStore()
	id := ids.NewTypeDeclId("", "Foo")
	f1, f2 := ids.FileId(1), ids.FileId(2)

	store.EnsureMerged(id, KindClass, f1, false)
	_, collided := store.EnsureMerged(id, KindClass, f2, false)
	if !collided {
		t.Fatal("expected a collision when neither declaration is Partial")
	}
}

func TestMemberStoreFastPathAndRemove(t *testing.T) {
	s := NewMemberStore()
	owner := ids.NewTypeOwnerId(ids.NewTypeDeclId("", "Foo"))
	file := ids.FileId(1)
	m := &Member{Id: ids.NewMemberId(file, 5), Owner: owner, Key: NameKey("x"), File: file, DeclaredType: luatype.Integer}
	s.Add(m)

	got, ok := s.Lookup(owner, NameKey("x"))
	if !ok || got != m {
		t.Fatal("expected fast-path lookup to find the member")
	}

	s.Remove(file)
	if _, ok := s.Lookup(owner, NameKey("x")); ok {
		t.Fatal("expected member removed along with its file")
	}
}

func TestMemberStoreExprKeyFallbackBucket(t *testing.T) {
	s := NewMemberStore()
	owner := ids.NewTypeOwnerId(ids.NewTypeDeclId("", "Pt"))
	file := ids.FileId(1)
	m := &Member{Id: ids.NewMemberId(file, 5), Owner: owner, Key: ExprKey(luatype.StringTy), File: file}
	s.Add(m)

	exprs := s.ExprMembers(owner)
	if len(exprs) != 1 || exprs[0] != m {
		t.Fatal("expected the Expr-keyed member to land in the fallback bucket, not the fast map")
	}
	if _, ok := s.Lookup(owner, ExprKey(luatype.StringTy)); ok {
		t.Fatal("Expr keys must never be found by the fast-path map")
	}
}

func TestReferenceStoreRemoveIsolatesFiles(t *testing.T) {
	s := NewReferenceStore()
	f1, f2 := ids.FileId(1), ids.FileId(2)
	decl := ids.NewDeclId(f1, 0)
	s.AddLocal(f1, decl, ids.Range{Start: 5, End: 6}, false)
	s.AddGlobal("print", f1, 10)
	s.AddGlobal("print", f2, 20)

	s.Remove(f1)

	if refs := s.LocalRefs(decl); len(refs) != 0 {
		t.Fatal("expected local refs evicted with their file")
	}
	byFile := s.GlobalRefs("print")
	if _, ok := byFile[f1]; ok {
		t.Fatal("expected file 1's global ref evicted")
	}
	if _, ok := byFile[f2]; !ok {
		t.Fatal("expected file 2's global ref to survive")
	}
}
