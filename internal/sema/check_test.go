package sema

import (
	"strings"
	"testing"

	"wyweb/internal/ir"
	"wyweb/internal/parser"
	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

const mathSrc = `
type nat is (int n) where n >= 0;

function abs(int x) -> nat
ensures result >= 0
{
    if x < 0 { return -x; }
    return x;
}
`

func checkSrc(t *testing.T, path, src string, imports Imports) (*ir.Module, error) {
	t.Helper()
	f, err := parser.ParseFile(source.NewFile(path+".wy", []byte(src)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return Check(f, path, imports)
}

func stdlib(t *testing.T) ImportMap {
	t.Helper()
	mod, err := checkSrc(t, "std/math", mathSrc, nil)
	if err != nil {
		t.Fatalf("std/math: %v", err)
	}
	return ImportMap{"std/math": mod}
}

func TestCheckProgram(t *testing.T) {
	src := `import std::math;
function double(nat x) -> int
requires x < 1000
ensures result == 2 * x
{
    return x + x;
}
int i = 0;
nat total = math::abs(-3);
while i < 3 where i >= 0 {
    total = total + double(i);
    i = i + 1;
}
assert total >= 3 ==> true;
print total;
`
	mod, err := checkSrc(t, "main", src, stdlib(t))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if mod.Main == nil || !mod.Main.Main {
		t.Fatal("implicit main missing")
	}
	if len(mod.Funcs) != 1 || mod.Funcs[0].Name != "double" {
		t.Fatalf("funcs = %v", mod.Funcs)
	}
	p := mod.Funcs[0].Params[0]
	if n, ok := p.Type.(*types.Named); !ok || n.Module != "std/math" || n.Name != "nat" {
		t.Fatalf("param type = %v", p.Type)
	}
	var loop *ir.While
	for _, s := range mod.Main.Body {
		if w, ok := s.(*ir.While); ok {
			loop = w
		}
	}
	if loop == nil {
		t.Fatal("while not lowered")
	}
	names := []string{}
	for _, v := range loop.Modified {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "total,i" {
		t.Fatalf("modified = %v", names)
	}
	call := mod.Main.Body[1].(*ir.Decl).Init.(*ir.Call)
	if call.Func.QualifiedName() != "std/math::abs" {
		t.Fatalf("call resolved to %s", call.Func.QualifiedName())
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		src  string
		msg  string
		text string // source text of the blamed node
	}{
		{"int x = true;", "expected int, found bool", "true"},
		{"print y;", "unknown variable y", "y"},
		{"int x = 1;\nint x = 2;", "variable x already declared", "int x = 2;"},
		{"bool b = 1 ==> 2;", "==> is only allowed in specifications", "1 ==> 2"},
		{"assert 1 ==> true;", "expected bool, found int", "1"},
		{"function f(int x) -> int { if x > 0 { return 1; } }", "missing return statement in function f", "function f(int x) -> int { if x > 0 { return 1; } }"},
		{"function f(int x) -> int requires g(x) > 0 { return x; }\nfunction g(int x) -> int { return x; }", "function calls are not allowed in contracts", "g(x)"},
		{"function f() -> int { return 1; }\nprint f(2);", "function f expects 0 arguments, found 1", "f(2)"},
		{"import std::nope;", "unknown module std/nope", "import std::nope;"},
		{"type t is (int v) where v + 1;", "expected bool, found int", "v + 1"},
		{"print result;", "result is only allowed in ensures clauses", "result"},
		{"return 1;", "return outside of a function", "return 1;"},
		{"function p(int x) { print x; }\nint y = p(1);", "function p does not return a value", "p(1)"},
		{"function f(int x) -> int { return x; }\nfunction f(int y) -> int { return y; }", "function f already declared", "function f(int y) -> int { return y; }"},
		{"int x = 1;\nwhile x > 0 where result { x = x - 1; }", "result is only allowed in ensures clauses", "result"},
		{"bool b = true == 1;", "cannot compare bool with int", "true == 1"},
	}
	for _, tt := range tests {
		f, err := parser.ParseFile(source.NewFile("main.wy", []byte(tt.src)))
		if err != nil {
			t.Fatalf("%q: parse: %v", tt.src, err)
		}
		_, err = Check(f, "main", ImportMap{})
		if err == nil {
			t.Fatalf("%q: expected error %q", tt.src, tt.msg)
		}
		if err.Error() != tt.msg {
			t.Errorf("%q: msg = %q, want %q", tt.src, err.Error(), tt.msg)
			continue
		}
		sp, shape := syntax.Locate(err)
		if shape != syntax.ShapeHeap {
			t.Errorf("%q: shape = %v, want heap", tt.src, shape)
			continue
		}
		if got := tt.src[sp.Start:sp.End]; got != tt.text {
			t.Errorf("%q: blamed %q, want %q", tt.src, got, tt.text)
		}
	}
}

func TestIRNodesLocateThroughOrigin(t *testing.T) {
	mod, err := checkSrc(t, "main", "int x = 40 + 2;", nil)
	if err != nil {
		t.Fatal(err)
	}
	decl := mod.Main.Body[0].(*ir.Decl)
	lit := decl.Init.(*ir.Binary).Y
	sp, shape := syntax.Locate(syntax.Errorf(lit, mod.Heap, "x"))
	if shape != syntax.ShapeHeap || sp != (source.Span{Start: 13, End: 14}) {
		t.Fatalf("locate = %v %v", sp, shape)
	}
}
