package token_test

import (
	"testing"

	"wyweb/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for _, kw := range []string{"function", "requires", "ensures", "where", "result", "assume"} {
		k, ok := token.LookupKeyword(kw)
		if !ok {
			t.Fatalf("%q should be a keyword", kw)
		}
		if k.String() != kw {
			t.Fatalf("String() = %q, want %q", k.String(), kw)
		}
		if !(token.Token{Kind: k}).IsKeyword() {
			t.Fatalf("%v should report IsKeyword", k)
		}
	}
	for _, id := range []string{"int", "bool", "nat", "Function"} {
		if _, ok := token.LookupKeyword(id); ok {
			t.Fatalf("%q must stay an identifier", id)
		}
	}
}

func TestKindQuoted(t *testing.T) {
	if got := token.Semicolon.Quoted(); got != "';'" {
		t.Fatalf("Quoted = %q", got)
	}
	if got := token.EOF.Quoted(); got != "end of input" {
		t.Fatalf("Quoted = %q", got)
	}
}

func TestIsBinaryOp(t *testing.T) {
	ops := []token.Kind{token.Plus, token.Implies, token.AndAnd, token.LtEq}
	for _, k := range ops {
		if !(token.Token{Kind: k}).IsBinaryOp() {
			t.Fatalf("%v should be binary", k)
		}
	}
	for _, k := range []token.Kind{token.Bang, token.Assign, token.Arrow, token.Ident} {
		if (token.Token{Kind: k}).IsBinaryOp() {
			t.Fatalf("%v must not be binary", k)
		}
	}
}
