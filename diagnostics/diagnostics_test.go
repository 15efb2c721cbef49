package diagnostics

import (
	"testing"

	"github.com/emmylua-go/luacore/ids"
)

func TestCollectorDedupes(t *testing.T) {
	c := NewCollector()
	e1 := New(TypeNotFound, 1, ids.Range{Start: 5, End: 8}, "unknown type Foo")
	e2 := New(TypeNotFound, 1, ids.Range{Start: 5, End: 9}, "unknown type Foo (again)")
	c.Add(e1)
	c.Add(e2)
	if len(c.Errors()) != 1 {
		t.Fatalf("expected dedup by (file,start,code), got %d errors", len(c.Errors()))
	}
}

func TestCollectorDistinctPositions(t *testing.T) {
	c := NewCollector()
	c.Add(New(TypeNotFound, 1, ids.Range{Start: 5, End: 8}, "a"))
	c.Add(New(TypeNotFound, 1, ids.Range{Start: 50, End: 58}, "b"))
	if len(c.Errors()) != 2 {
		t.Fatalf("expected 2 distinct errors, got %d", len(c.Errors()))
	}
}

func TestEmitRespectsDisable(t *testing.T) {
	c := NewCollector()
	c.Add(New(TypeNotFound, 1, ids.Range{Start: 1, End: 2}, "x"))
	var got []ErrorCode
	c.Emit(func(e *AnalysisError) { got = append(got, e.Code) }, nil, map[ErrorCode]bool{TypeNotFound: true})
	if len(got) != 0 {
		t.Fatalf("expected diagnostic to be suppressed by disable set, got %v", got)
	}
}

func TestEmitRespectsExplicitEnable(t *testing.T) {
	c := NewCollector()
	c.Add(New(Unused, 1, ids.Range{Start: 1, End: 2}, "x unused"))
	var got []ErrorCode
	c.Emit(func(e *AnalysisError) { got = append(got, e.Code) }, map[ErrorCode]bool{Unused: true}, nil)
	if len(got) != 1 {
		t.Fatalf("expected default-off code to fire once explicitly enabled, got %v", got)
	}
}

func TestEffectiveSeverityOverride(t *testing.T) {
	e := New(TypeNotFound, 1, ids.Range{}, "x")
	if e.EffectiveSeverity() != SeverityWarning {
		t.Fatalf("expected default severity warning, got %v", e.EffectiveSeverity())
	}
	hint := SeverityHint
	e.Severity = &hint
	if e.EffectiveSeverity() != SeverityHint {
		t.Fatalf("expected overridden severity hint, got %v", e.EffectiveSeverity())
	}
}
