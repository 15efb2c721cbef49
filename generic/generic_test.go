package generic

import (
	"testing"

	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

// TestInstantiateTemplatelessIsIdentity exercises Universal invariant 5
// (spec.md §8): instantiate_type_generic(T, empty_subst) == T for any T
// containing no template reference.
func TestInstantiateTemplatelessIsIdentity(t *testing.T) {
	e := NewEngine(index.NewStore(), nil)
	subst := NewSubstitutor()
	samples := []luatype.Type{
		luatype.Integer,
		luatype.StringTy,
		luatype.Array{Elem: luatype.Integer},
		luatype.Object{Fields: map[string]luatype.Type{"x": luatype.Integer}},
		luatype.Union{Types: []luatype.Type{luatype.Integer, luatype.StringTy}},
	}
	for _, s := range samples {
		out := e.InstantiateTypeGeneric(s, subst)
		if !luatype.Equal(out, s) {
			t.Errorf("expected InstantiateTypeGeneric(%s, empty) == %s, got %s", s, s, out.String())
		}
	}
}

// TestInstantiateSubstitutesTplRef checks the basic substitution path:
// a bound TplRef resolves to its Substitutor binding.
func TestInstantiateSubstitutesTplRef(t *testing.T) {
	e := NewEngine(index.NewStore(), nil)
	tplId := fakeTplId("T")
	subst := NewSubstitutor()
	subst.Bind(tplId, TypeValue(luatype.Integer))

	out := e.InstantiateTypeGeneric(luatype.TplRef{Id: tplId}, subst)
	if !luatype.Equal(out, luatype.Integer) {
		t.Fatalf("expected TplRef substituted to Integer, got %s", out.String())
	}
}

// TestInstantiateArrayOfTplRef verifies substitution recurses into
// structural containers.
func TestInstantiateArrayOfTplRef(t *testing.T) {
	e := NewEngine(index.NewStore(), nil)
	tplId := fakeTplId("T")
	subst := NewSubstitutor()
	subst.Bind(tplId, TypeValue(luatype.StringTy))

	arr := luatype.Array{Elem: luatype.TplRef{Id: tplId}}
	out := e.InstantiateTypeGeneric(arr, subst)
	got, ok := out.(luatype.Array)
	if !ok {
		t.Fatalf("expected Array, got %T", out)
	}
	if !luatype.Equal(got.Elem, luatype.StringTy) {
		t.Fatalf("expected Array elem substituted to string, got %s", got.Elem.String())
	}
}

// TestInstantiateVariadicMultiExpansion checks that a variadic
// parameter bound to MultiTypes expands into distinct parameters
// (spec.md §4.8 function-type substitution rule).
func TestInstantiateVariadicMultiExpansion(t *testing.T) {
	e := NewEngine(index.NewStore(), nil)
	tplId := fakeTplId("A")
	subst := NewSubstitutor()
	subst.Bind(tplId, MultiTypesValue([]luatype.Type{luatype.Integer, luatype.StringTy}))

	fn := luatype.DocFunction{
		Params: []luatype.Param{{Name: "...", Type: luatype.Variadic{Body: luatype.VariadicBody{Base: luatype.TplRef{Id: tplId}}}}},
		Return: luatype.Nil,
	}
	out := e.InstantiateTypeGeneric(fn, subst)
	got, ok := out.(luatype.DocFunction)
	if !ok {
		t.Fatalf("expected DocFunction, got %T", out)
	}
	if len(got.Params) != 2 {
		t.Fatalf("expected 2 expanded params, got %d", len(got.Params))
	}
}

// TestEvaluateAddArith checks the literal-arithmetic alias-call
// evaluation path (spec.md §4.8 "Add(a, b) -> literal arithmetic").
func TestEvaluateAddArith(t *testing.T) {
	e := NewEngine(index.NewStore(), nil)
	subst := NewSubstitutor()
	call := luatype.Call{
		Source:  luatype.DocIntegerConst{Value: 2},
		Kind:    luatype.AliasAdd,
		Operand: luatype.DocIntegerConst{Value: 3},
	}
	out := e.InstantiateTypeGeneric(call, subst)
	got, ok := out.(luatype.DocIntegerConst)
	if !ok {
		t.Fatalf("expected DocIntegerConst, got %T", out)
	}
	if got.Value != 5 {
		t.Fatalf("expected 2+3=5, got %d", got.Value)
	}
}

func fakeTplId(name string) ids.GenericTplId {
	return ids.GenericTplId{Kind: ids.GenericTplFunc, Idx: 0, Name: name}
}
