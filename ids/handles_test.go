package ids

import "testing"

// TestFileIdRoundTrip and the other *RoundTrip tests exercise spec.md §8 invariant 8: parse(to_string(id)) == id.
func TestFileIdRoundTrip(t *testing.T) {
	ids := []FileId{0, 1, 42, 9999}
	for _, id := range ids {
		parsed, err := ParseFileId(id.String())
		if err != nil {
			t.Fatalf("ParseFileId(%q): %v", id.String(), err)
		}
		if parsed != id {
			t.Errorf("round-trip mismatch: got %v, want %v", parsed, id)
		}
	}
}

func TestDeclIdRoundTrip(t *testing.T) {
	id := NewDeclId(3, 128)
	parsed, err := ParseDeclId(id.String())
	if err != nil {
		t.Fatalf("ParseDeclId(%q): %v", id.String(), err)
	}
	if parsed != id {
		t.Errorf("round-trip mismatch: got %v, want %v", parsed, id)
	}
}

func TestMemberSignatureOperatorIdRoundTrip(t *testing.T) {
	m := NewMemberId(1, 10)
	if parsed, err := ParseMemberId(m.String()); err != nil || parsed != m {
		t.Errorf("MemberId round-trip failed: %v %v", parsed, err)
	}
	sig := NewSignatureId(1, 20)
	if parsed, err := ParseSignatureId(sig.String()); err != nil || parsed != sig {
		t.Errorf("SignatureId round-trip failed: %v %v", parsed, err)
	}
	op := NewOperatorId(1, 30)
	if parsed, err := ParseOperatorId(op.String()); err != nil || parsed != op {
		t.Errorf("OperatorId round-trip failed: %v %v", parsed, err)
	}
}

func TestTypeDeclIdRoundTrip(t *testing.T) {
	cases := []TypeDeclId{
		NewTypeDeclId("", "Foo"),
		NewTypeDeclId("ns.sub", "Bar"),
	}
	for _, id := range cases {
		parsed, err := ParseTypeDeclId(id.String())
		if err != nil {
			t.Fatalf("ParseTypeDeclId(%q): %v", id.String(), err)
		}
		if parsed != id {
			t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, id)
		}
	}
}

func TestPropertyOwnerIdRoundTrip(t *testing.T) {
	owner := PropertyOwnerId{Kind: PropertyOwnerMember, Inner: NewMemberId(1, 5).String()}
	parsed, err := ParsePropertyOwnerId(owner.String())
	if err != nil {
		t.Fatalf("ParsePropertyOwnerId(%q): %v", owner.String(), err)
	}
	if parsed != owner {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, owner)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: 10, End: 20}
	if r.Contains(9) || r.Contains(20) {
		t.Errorf("range should be half-open [10,20)")
	}
	if !r.Contains(10) || !r.Contains(19) {
		t.Errorf("range should contain its boundary start and last element")
	}
}
