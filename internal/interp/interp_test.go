package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wyweb/internal/syntax"
	"wyweb/internal/token"
	"wyweb/internal/types"
	"wyweb/internal/vform"
)

var nat = &types.Named{Module: "main", Name: "nat", Base: types.Int}

func natFile() *vform.File {
	return &vform.File{
		Module: "main",
		Types: []*vform.TypeDecl{{
			Type:  nat,
			Var:   "n",
			Where: &vform.Binary{Op: token.GtEq, X: &vform.Ref{Name: "n", Type: types.Int}, Y: &vform.Int{Value: 0}},
		}},
	}
}

func ref(name string, t types.Type) *vform.Ref { return &vform.Ref{Name: name, Type: t} }

func bin(op token.Kind, x, y vform.Expr) vform.Expr { return &vform.Binary{Op: op, X: x, Y: y} }

func TestSmallWorldOrder(t *testing.T) {
	vals := DefaultSmallWorld.Values(types.Int)
	got := make([]int64, len(vals))
	for i, v := range vals {
		got[i] = v.Int()
	}
	assert.Equal(t, []int64{0, 1, -1, 2, -2, 3, -3}, got)
	assert.Len(t, DefaultSmallWorld.Values(types.Bool), 2)
}

func TestEvalUndefined(t *testing.T) {
	in := New(nil, nil)
	div := bin(token.Slash, &vform.Int{Value: 1}, ref("x", types.Int))

	_, err := in.Eval(div, Env{"x": Int(0)})
	assert.ErrorIs(t, err, ErrUndefined)

	// правый операнд импликации не вычисляется
	guarded := vform.Implies(bin(token.BangEq, ref("x", types.Int), &vform.Int{Value: 0}), bin(token.GtEq, div, &vform.Int{Value: 0}))
	v, err := in.Eval(guarded, Env{"x": Int(0)})
	require.NoError(t, err)
	assert.True(t, v.Bool())

	_, err = in.Eval(ref("missing", types.Int), Env{})
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestCounterexample(t *testing.T) {
	in := New(natFile(), nil)
	// forall(int x, int y): x + y > x
	a := vform.NewAssert("main", "main::0", vform.KindAssert,
		[]vform.Var{{Name: "x", Type: types.Int}, {Name: "y", Type: types.Int}},
		bin(token.Gt, bin(token.Plus, ref("x", types.Int), ref("y", types.Int)), ref("x", types.Int)),
		syntax.Source{})

	bs, err := in.Counterexample(a, 0)
	require.NoError(t, err)
	assert.Equal(t, "{x=0, y=0}", bs.String())
}

func TestCounterexampleRespectsTypeConstraint(t *testing.T) {
	in := New(natFile(), nil)
	// forall(nat x): x > -1  holds for every nat
	a := vform.NewAssert("main", "main::0", vform.KindAssert,
		[]vform.Var{{Name: "x", Type: nat}},
		bin(token.Gt, ref("x", nat), &vform.Int{Value: -1}),
		syntax.Source{})
	_, err := in.Counterexample(a, 0)
	assert.ErrorIs(t, err, ErrNoCounterexample)

	// forall(nat x): x != 2
	b := vform.NewAssert("main", "main::1", vform.KindAssert,
		[]vform.Var{{Name: "x", Type: nat}},
		bin(token.BangEq, ref("x", nat), &vform.Int{Value: 2}),
		syntax.Source{})
	bs, err := in.Counterexample(b, 0)
	require.NoError(t, err)
	assert.Equal(t, "{x=2}", bs.String())
}

func TestCounterexampleUndefinedAborts(t *testing.T) {
	in := New(nil, nil)
	// forall(int x): 6 / x > 100, undefined at x=0 which is tried first
	a := vform.NewAssert("main", "main::0", vform.KindAssert,
		[]vform.Var{{Name: "x", Type: types.Int}},
		bin(token.Gt, bin(token.Slash, &vform.Int{Value: 6}, ref("x", types.Int)), &vform.Int{Value: 100}),
		syntax.Source{})
	_, err := in.Counterexample(a, 0)
	assert.True(t, errors.Is(err, ErrUndefined))
}

func TestIsWithoutDeclaration(t *testing.T) {
	in := New(&vform.File{}, nil)
	_, err := in.Eval(&vform.Is{X: &vform.Int{Value: 1}, Type: nat}, Env{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUndefined))
}

func TestOverflowIsUndefined(t *testing.T) {
	in := New(nil, nil)
	big := &vform.Int{Value: 1 << 62}
	_, err := in.Eval(bin(token.Plus, big, big), Env{})
	assert.ErrorIs(t, err, ErrUndefined)
	_, err = in.Eval(bin(token.Star, big, &vform.Int{Value: 4}), Env{})
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestEnumerateLimit(t *testing.T) {
	vars := []vform.Var{{Name: "a", Type: types.Int}, {Name: "b", Type: types.Int}}
	domains := [][]Value{{Int(0), Int(1)}, {Int(0), Int(1), Int(2)}}
	var seen []string
	Enumerate(vars, domains, 100, func(bs Bindings) bool {
		seen = append(seen, bs.String())
		return true
	})
	assert.Equal(t, []string{
		"{a=0, b=0}", "{a=0, b=1}", "{a=0, b=2}",
		"{a=1, b=0}", "{a=1, b=1}", "{a=1, b=2}",
	}, seen)

	n := 0
	Enumerate(vars, domains, 4, func(Bindings) bool { n++; return true })
	assert.Equal(t, 4, n)
}
