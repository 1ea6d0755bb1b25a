package lexer

import (
	"testing"

	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeProgram(t *testing.T) {
	src := "function f(int x) -> int requires x >= 0 ==> true { return x % 2; } // tail\n/* c */ std::math"
	toks, err := Tokenize(source.NewFile("main.wy", []byte(src)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.KwFunction, token.Ident, token.LParen, token.Ident, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.KwRequires, token.Ident, token.GtEq, token.IntLit,
		token.Implies, token.KwTrue, token.LBrace, token.KwReturn, token.Ident, token.Percent,
		token.IntLit, token.Semicolon, token.RBrace, token.Ident, token.ColonColon, token.Ident,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenSpansMatchText(t *testing.T) {
	src := "int  total_1 = 1_000;"
	f := source.NewFile("main.wy", []byte(src))
	toks, err := Tokenize(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		if got := f.Text(tok.Span); got != tok.Text {
			t.Errorf("%v: span text %q != token text %q", tok.Kind, got, tok.Text)
		}
	}
	if toks[3].Value != "1000" {
		t.Errorf("literal value = %q, want 1000", toks[3].Value)
	}
}

func TestIdentifiersAreNormalized(t *testing.T) {
	decomposed := "cafe\u0301"
	toks, err := Tokenize(source.NewFile("main.wy", []byte(decomposed)))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != token.Ident {
		t.Fatalf("kind = %v", toks[0].Kind)
	}
	if toks[0].Value != "caf\u00e9" {
		t.Errorf("Value = %q, want NFC form", toks[0].Value)
	}
	if toks[0].Text != decomposed {
		t.Errorf("Text must keep the source bytes, got %q", toks[0].Text)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		span source.Span
	}{
		{"int x = $;", source.Span{Start: 8, End: 9}},
		{"x = 1 /* open", source.Span{Start: 6, End: 8}},
		{"x = 12abc;", source.Span{Start: 4, End: 9}},
		{"x = 99999999999999999999;", source.Span{Start: 4, End: 24}},
		{"a & b", source.Span{Start: 2, End: 3}},
	}
	for _, tt := range tests {
		toks, err := Tokenize(source.NewFile("main.wy", []byte(tt.src)))
		if err == nil {
			t.Fatalf("%q: expected error", tt.src)
		}
		sp, shape := syntax.Locate(err)
		if shape != syntax.ShapeSpan {
			t.Fatalf("%q: shape = %v, want span", tt.src, shape)
		}
		if sp != tt.span {
			t.Errorf("%q: span = %v, want %v", tt.src, sp, tt.span)
		}
		if toks[len(toks)-1].Kind != token.EOF {
			t.Errorf("%q: token stream must end with EOF", tt.src)
		}
	}
}
