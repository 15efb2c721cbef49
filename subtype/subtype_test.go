package subtype

import (
	"testing"

	"github.com/emmylua-go/luacore/index"
	"github.com/emmylua-go/luacore/luatype"
)

// TestReflexivity exercises Universal invariant 4 (spec.md §8):
// check_type_compact(T, T) == Ok for every well-formed T.
func TestReflexivity(t *testing.T) {
	c := New(index.NewStore())
	samples := []luatype.Type{
		luatype.Integer,
		luatype.StringTy,
		luatype.IntegerConst{Value: 5},
		luatype.Array{Elem: luatype.StringTy},
		luatype.Tuple{Elems: []luatype.Type{luatype.Integer, luatype.StringTy}},
		luatype.Object{Fields: map[string]luatype.Type{"x": luatype.Integer}},
		luatype.Union{Types: []luatype.Type{luatype.Integer, luatype.StringTy}},
	}
	for _, s := range samples {
		if out := c.CheckTypeCompact(s, s); out.Result != Ok {
			t.Errorf("expected CheckTypeCompact(%s, %s) == Ok, got %v", s, s, out.Result)
		}
	}
}

func TestIntegerConstAssignableToInteger(t *testing.T) {
	c := New(index.NewStore())
	if out := c.CheckTypeCompact(luatype.IntegerConst{Value: 5}, luatype.Integer); out.Result != Ok {
		t.Fatalf("expected IntegerConst assignable to Integer, got %v", out.Result)
	}
}

func TestIntegerNotAssignableToString(t *testing.T) {
	c := New(index.NewStore())
	if out := c.CheckTypeCompact(luatype.Integer, luatype.StringTy); out.Result == Ok {
		t.Fatal("expected Integer not assignable to String")
	}
}

func TestAnyAcceptsAnything(t *testing.T) {
	c := New(index.NewStore())
	if out := c.CheckTypeCompact(luatype.Integer, luatype.Any); out.Result != Ok {
		t.Fatalf("expected anything assignable to Any, got %v", out.Result)
	}
	if out := c.CheckTypeCompact(luatype.Any, luatype.Integer); out.Result != Ok {
		t.Fatalf("expected Any assignable to anything (source unknown), got %v", out.Result)
	}
}

func TestObjectDuckTypingReportsMissingField(t *testing.T) {
	c := New(index.NewStore())
	compact := luatype.Object{Fields: map[string]luatype.Type{"x": luatype.Integer, "y": luatype.StringTy}}
	source := luatype.Object{Fields: map[string]luatype.Type{"x": luatype.Integer}}
	out := c.CheckTypeCompact(source, compact)
	if out.Result != NotMatchWithReason {
		t.Fatalf("expected NotMatchWithReason for missing field, got %v", out.Result)
	}
}

func TestUnionCompactAcceptsAnyMatchingBranch(t *testing.T) {
	c := New(index.NewStore())
	compact := luatype.Union{Types: []luatype.Type{luatype.Integer, luatype.StringTy}}
	if out := c.CheckTypeCompact(luatype.StringTy, compact); out.Result != Ok {
		t.Fatalf("expected String assignable to Integer|String, got %v", out.Result)
	}
}

func TestTupleArityMismatchFails(t *testing.T) {
	c := New(index.NewStore())
	compact := luatype.Tuple{Elems: []luatype.Type{luatype.Integer, luatype.StringTy}}
	source := luatype.Tuple{Elems: []luatype.Type{luatype.Integer, luatype.StringTy, luatype.Boolean}}
	if out := c.CheckTypeCompact(source, compact); out.Result == Ok {
		t.Fatal("expected arity mismatch (extra source element) to fail")
	}
}
