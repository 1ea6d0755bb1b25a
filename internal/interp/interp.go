package interp

import (
	"fmt"
	"math"

	"wyweb/internal/token"
	"wyweb/internal/types"
	"wyweb/internal/vform"
)

// TypeResolver finds the declaration of a named type.
type TypeResolver interface {
	TypeDecl(t *types.Named) (*vform.TypeDecl, bool)
}

// Interpreter evaluates terms. Types is needed only for `is` tests and for
// domains of named types.
type Interpreter struct {
	Types  TypeResolver
	Domain Domain
}

// New creates an interpreter over the given resolver and domain.
func New(resolver TypeResolver, domain Domain) *Interpreter {
	if domain == nil {
		domain = DefaultSmallWorld
	}
	return &Interpreter{Types: resolver, Domain: domain}
}

// Eval evaluates e under env.
func (in *Interpreter) Eval(e vform.Expr, env Env) (Value, error) {
	switch x := e.(type) {
	case *vform.Int:
		return Int(x.Value), nil
	case *vform.Bool:
		return Bool(x.Value), nil
	case *vform.Ref:
		v, ok := env[x.Name]
		if !ok {
			return Value{}, fmt.Errorf("%w: variable %s has no value", ErrUndefined, x.Name)
		}
		return v, nil
	case *vform.Unary:
		v, err := in.Eval(x.X, env)
		if err != nil {
			return Value{}, err
		}
		if x.Op == token.Bang {
			return Bool(!v.Bool()), nil
		}
		if v.Int() == math.MinInt64 {
			return Value{}, ErrUndefined
		}
		return Int(-v.Int()), nil
	case *vform.Binary:
		return in.binary(x, env)
	case *vform.Is:
		v, err := in.Eval(x.X, env)
		if err != nil {
			return Value{}, err
		}
		ok, err := in.Satisfies(v, x.Type)
		return Bool(ok), err
	}
	return Value{}, fmt.Errorf("cannot evaluate %T", e)
}

func (in *Interpreter) binary(x *vform.Binary, env Env) (Value, error) {
	l, err := in.Eval(x.X, env)
	if err != nil {
		return Value{}, err
	}
	// короткое замыкание: правый операнд может быть не определён
	switch x.Op {
	case token.AndAnd:
		if !l.Bool() {
			return Bool(false), nil
		}
		return in.Eval(x.Y, env)
	case token.OrOr:
		if l.Bool() {
			return Bool(true), nil
		}
		return in.Eval(x.Y, env)
	case token.Implies:
		if !l.Bool() {
			return Bool(true), nil
		}
		return in.Eval(x.Y, env)
	}

	r, err := in.Eval(x.Y, env)
	if err != nil {
		return Value{}, err
	}
	a, b := l.Int(), r.Int()
	switch x.Op {
	case token.EqEq:
		return Bool(l == r), nil
	case token.BangEq:
		return Bool(l != r), nil
	case token.Lt:
		return Bool(a < b), nil
	case token.LtEq:
		return Bool(a <= b), nil
	case token.Gt:
		return Bool(a > b), nil
	case token.GtEq:
		return Bool(a >= b), nil
	case token.Plus:
		s := a + b
		if (s > a) != (b > 0) {
			return Value{}, ErrUndefined
		}
		return Int(s), nil
	case token.Minus:
		d := a - b
		if (d < a) != (b > 0) {
			return Value{}, ErrUndefined
		}
		return Int(d), nil
	case token.Star:
		if a != 0 && b != 0 {
			p := a * b
			if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
				return Value{}, ErrUndefined
			}
			return Int(p), nil
		}
		return Int(0), nil
	case token.Slash, token.Percent:
		if b == 0 || (a == math.MinInt64 && b == -1) {
			return Value{}, ErrUndefined
		}
		if x.Op == token.Slash {
			return Int(a / b), nil
		}
		return Int(a % b), nil
	}
	return Value{}, fmt.Errorf("unsupported operator %s", x.Op)
}

// Satisfies reports whether v meets the constraint of t and of its named
// bases.
func (in *Interpreter) Satisfies(v Value, t *types.Named) (bool, error) {
	if base, ok := t.Base.(*types.Named); ok {
		held, err := in.Satisfies(v, base)
		if err != nil || !held {
			return held, err
		}
	}
	if in.Types == nil {
		return false, fmt.Errorf("no declaration for type %s", t)
	}
	decl, ok := in.Types.TypeDecl(t)
	if !ok {
		return false, fmt.Errorf("no declaration for type %s", t)
	}
	if decl.Where == nil {
		return true, nil
	}
	res, err := in.Eval(decl.Where, Env{decl.Var: v})
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}
