package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wyweb/internal/ir"
	"wyweb/internal/parser"
	"wyweb/internal/sema"
	"wyweb/internal/source"
	"wyweb/internal/syntax"
)

func check(t *testing.T, path, src string, imports sema.ImportMap) *ir.Module {
	t.Helper()
	f, err := parser.ParseFile(source.NewFile(path+".wy", []byte(src)))
	require.NoError(t, err)
	mod, err := sema.Check(f, path, imports)
	require.NoError(t, err)
	return mod
}

func TestEmitProgram(t *testing.T) {
	mod := check(t, "main", `function inc(int x) -> int
requires x >= 0
{
    return x + 1;
}
int y = inc(2);
assert y == 3;
print y / 2;
`, nil)
	out, err := Emit(mod, nil)
	require.NoError(t, err)
	assert.Equal(t, `"use strict";
function $div(a, b) {
  if (b === 0) throw new Error("division by zero");
  return Math.trunc(a / b);
}
function main$inc(x) {
  if (!(x >= 0)) throw new Error("precondition not satisfied");
  return (x + 1);
}
(function () {
  let y = main$inc(2);
  if (!(y === 3)) throw new Error("assertion failed");
  console.log($div(y, 2));
})();
`, out)
}

func TestEmitControlFlow(t *testing.T) {
	mod := check(t, "main", `int x = 1;
bool b = !(x < 0);
if x > 0 { print 1; } else if x < 0 { print 2; } else { print 3; }
while x < 10 where x >= 0 {
    x = x * 2;
}
assert b ==> x >= 10;
`, nil)
	out, err := Emit(mod, nil)
	require.NoError(t, err)
	assert.Equal(t, `"use strict";
(function () {
  let x = 1;
  let b = !(x < 0);
  if (x > 0) {
    console.log(1);
  } else if (x < 0) {
    console.log(2);
  } else {
    console.log(3);
  }
  while (x < 10) {
    x = (x * 2);
  }
  if (!(!b || (x >= 10))) throw new Error("assertion failed");
})();
`, out)
}

func TestEmitReachableLibraryOnly(t *testing.T) {
	lib := check(t, "std/math", `function abs(int x) -> int
{
    if x < 0 { return -x; }
    return x;
}
function unused() -> int
{
    return 0;
}
`, nil)
	imports := sema.ImportMap{"std/math": lib}
	mod := check(t, "main", "import std::math;\nprint math::abs(-3);\n", imports)

	out, err := Emit(mod, imports)
	require.NoError(t, err)
	assert.Contains(t, out, "function std$math$abs(x) {\n  if (x < 0) {\n    return -x;\n  }\n  return x;\n}\n")
	assert.Contains(t, out, "console.log(std$math$abs(-3));")
	assert.NotContains(t, out, "unused")
}

func TestEmitEscapesReservedNames(t *testing.T) {
	mod := check(t, "main", "int let = 1;\nprint let;\n", nil)
	out, err := Emit(mod, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "let let$ = 1;")
	assert.Contains(t, out, "console.log(let$);")
}

func TestEmitRejectsUnsafeInteger(t *testing.T) {
	mod := check(t, "main", "int x = 9007199254740993;\n", nil)
	_, err := Emit(mod, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "integer 9007199254740993 cannot be represented in JavaScript")

	sp, shape := syntax.Locate(err)
	assert.Equal(t, syntax.ShapeHeap, shape)
	assert.Equal(t, source.Span{Start: 8, End: 24}, sp)
}

func TestMangle(t *testing.T) {
	assert.Equal(t, "main$f", Mangle("main", "f"))
	assert.Equal(t, "std$math$abs", Mangle("std/math", "abs"))
}
