package luatype

import (
	"testing"

	"github.com/emmylua-go/luacore/ids"
)

func TestEqualReflexive(t *testing.T) {
	// spec.md §8 invariant 4 depends on reflexivity of the type model
	// itself holding first: check_type_compact(T, T) == Ok assumes
	// Equal(T, T) for every well-formed T.
	samples := []Type{
		Unknown, Any, Nil, Boolean, Number, Integer, StringTy,
		IntegerConst{Value: 3},
		StringConst{Value: "x"},
		Array{Elem: Integer},
		Nullable{Inner: StringTy},
		Tuple{Elems: []Type{Integer, StringTy}},
		Object{Fields: map[string]Type{"x": Integer}},
		Union{Types: []Type{Integer, Nil}},
		Generic{Base: ids.NewTypeDeclId("", "Map"), Params: []Type{StringTy, Integer}},
		TplRef{Id: ids.GenericTplId{Kind: ids.GenericTplType, Idx: 0, Name: "T"}},
		DocFunction{Params: []Param{{Name: "a", Type: Integer}}, Return: StringTy},
	}
	for _, s := range samples {
		if !Equal(s, s) {
			t.Errorf("Equal(%v, %v) = false, want true", s, s)
		}
		if Hash(s) != Hash(s) {
			t.Errorf("Hash not stable for %v", s)
		}
	}
}

func TestNormalizeUnionDedup(t *testing.T) {
	u := NormalizeUnion([]Type{Integer, StringTy, Integer})
	union, ok := u.(Union)
	if !ok || len(union.Types) != 2 {
		t.Fatalf("expected deduplicated 2-member union, got %v", u)
	}
}

func TestNormalizeUnionSingleton(t *testing.T) {
	u := NormalizeUnion([]Type{Integer, Integer})
	if !Equal(u, Integer) {
		t.Fatalf("expected singleton Integer, got %v", u)
	}
}

func TestEqualUnorderedUnion(t *testing.T) {
	a := Union{Types: []Type{Integer, StringTy}}
	b := Union{Types: []Type{StringTy, Integer}}
	if Equal(a, b) {
		t.Errorf("Equal should be order-sensitive for raw unions")
	}
	if !EqualUnordered(a, b) {
		t.Errorf("EqualUnordered should treat member order as insignificant")
	}
}

func TestContainsTemplate(t *testing.T) {
	tpl := TplRef{Id: ids.GenericTplId{Kind: ids.GenericTplFunc, Idx: 0, Name: "T"}}
	arr := Array{Elem: tpl}
	if !arr.ContainsTemplate() {
		t.Errorf("Array containing a TplRef should report ContainsTemplate() == true")
	}
	if Integer.ContainsTemplate() {
		t.Errorf("Integer should never contain a template")
	}
}

func TestIsNullable(t *testing.T) {
	if !(Union{Types: []Type{Integer, Nil}}).IsNullable() {
		t.Errorf("Union containing Nil should be nullable")
	}
	if Integer.IsNullable() {
		t.Errorf("Integer alone should not be nullable")
	}
	if !(Nullable{Inner: Integer}).IsNullable() {
		t.Errorf("Nullable(Integer) should be nullable")
	}
}
