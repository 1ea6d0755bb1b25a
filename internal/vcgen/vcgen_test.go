package vcgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wyweb/internal/parser"
	"wyweb/internal/sema"
	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/vform"
)

func generate(t *testing.T, src string) *vform.File {
	t.Helper()
	f, err := parser.ParseFile(source.NewFile("main.wy", []byte(src)))
	require.NoError(t, err)
	mod, err := sema.Check(f, "main", sema.ImportMap{})
	require.NoError(t, err)
	file, err := Generate(mod, sema.ImportMap{})
	require.NoError(t, err)
	return file
}

type summary struct {
	Kind vform.Kind
	Body string
}

func summarize(f *vform.File) []summary {
	out := make([]summary, len(f.Asserts))
	for i, a := range f.Asserts {
		out[i] = summary{Kind: a.Kind, Body: vform.Format(a.Body)}
	}
	return out
}

func TestCallContracts(t *testing.T) {
	src := `function f(int x) -> int
requires x > 0
ensures result > x
{
    return x + 1;
}
int y = f(0);
assert y > 0;
`
	file := generate(t, src)
	assert.Equal(t, []summary{
		{vform.KindPostcondition, "x > 0 ==> x + 1 > x"},
		{vform.KindPrecondition, "0 > 0"},
		{vform.KindAssert, "f#1 > 0 ==> f#1 > 0"},
	}, summarize(file))

	last := file.Asserts[2]
	require.Len(t, last.Vars, 1)
	assert.Equal(t, "f#1", last.Vars[0].Name)
	assert.Equal(t, "main", last.Module)
	assert.Equal(t, "main::1", last.Name)

	sp, shape := syntax.Locate(syntax.Errorf(last, nil, "%s", last.Message()))
	assert.Equal(t, syntax.ShapeAttribute, shape)
	assert.Equal(t, "y > 0", src[sp.Start:sp.End])

	sp, _ = syntax.Locate(syntax.Errorf(file.Asserts[1], nil, ""))
	assert.Equal(t, "f(0)", src[sp.Start:sp.End])
}

func TestLoopInvariant(t *testing.T) {
	src := `int i = 0;
while i < 5 where i >= 0 {
    i = i + 1;
}
assert i == 5;
`
	file := generate(t, src)
	assert.Equal(t, []summary{
		{vform.KindInvariantEntry, "0 >= 0"},
		{vform.KindInvariantPreserved, "i#1 >= 0 && i#1 < 5 ==> i#1 + 1 >= 0"},
		{vform.KindAssert, "i#1 >= 0 && !(i#1 < 5) ==> i#1 == 5"},
	}, summarize(file))
}

func TestBranchesAndReturns(t *testing.T) {
	src := `function abs(int x) -> int
ensures result >= 0
{
    if x < 0 {
        return -x;
    }
    return x;
}
`
	file := generate(t, src)
	assert.Equal(t, []summary{
		{vform.KindPostcondition, "x < 0 ==> -x >= 0"},
		{vform.KindPostcondition, "!(x < 0) ==> x >= 0"},
	}, summarize(file))
}

func TestDivisionAndTypeInvariant(t *testing.T) {
	src := `type nat is (int n) where n >= 0;
function g(int y) -> int {
    return 10 / y;
}
nat k = 0 - 1;
bool b = k == 0 || 10 / k > 1;
`
	file := generate(t, src)
	assert.Equal(t, []summary{
		{vform.KindDivision, "y != 0"},
		{vform.KindTypeInvariant, "0 - 1 is main::nat"},
		{vform.KindDivision, "!(0 - 1 == 0) ==> 0 - 1 != 0"},
	}, summarize(file))
	require.Len(t, file.Types, 1)
	assert.Equal(t, "n >= 0", vform.Format(file.Types[0].Where))
	decl, ok := file.TypeDecl(file.Types[0].Type)
	assert.True(t, ok)
	assert.Equal(t, "n", decl.Var)
}

func TestProcedurePostcondition(t *testing.T) {
	src := `function p(int x)
ensures x > 0
{
    x = x - 1;
}
`
	file := generate(t, src)
	assert.Equal(t, []summary{
		{vform.KindPostcondition, "x > 0"},
	}, summarize(file))
	sp, _ := syntax.Locate(syntax.Errorf(file.Asserts[0], nil, ""))
	assert.Equal(t, uint32(0), sp.Start)
}
