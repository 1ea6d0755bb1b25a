package types

import "testing"

func TestAssignable(t *testing.T) {
	nat := &Named{Module: "std/types", Name: "nat", Base: Int}
	pos := &Named{Module: "main", Name: "pos", Base: nat}
	flag := &Named{Module: "main", Name: "flag", Base: Bool}

	tests := []struct {
		from, to Type
		want     bool
	}{
		{Int, Int, true},
		{Int, nat, true},
		{nat, Int, true},
		{pos, nat, true},
		{Bool, nat, false},
		{flag, Bool, true},
		{Void, Void, true},
		{Void, Int, false},
		{nil, Int, false},
	}
	for _, tt := range tests {
		if got := AssignableTo(tt.from, tt.to); got != tt.want {
			t.Errorf("AssignableTo(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if Underlying(pos) != Int {
		t.Errorf("Underlying(pos) = %v", Underlying(pos))
	}
	if !Identical(nat, &Named{Module: "std/types", Name: "nat", Base: Int}) {
		t.Errorf("named types with the same name must be identical")
	}
	if nat.String() != "std/types::nat" {
		t.Errorf("String() = %q", nat.String())
	}
}
