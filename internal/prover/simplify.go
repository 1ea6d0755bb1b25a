package prover

import (
	"wyweb/internal/interp"
	"wyweb/internal/token"
	"wyweb/internal/vform"
)

// Simplify folds constants and removes trivial boolean structure. Terms
// whose value is undefined are left as they are.
func Simplify(e vform.Expr) vform.Expr {
	switch x := e.(type) {
	case *vform.Unary:
		inner := Simplify(x.X)
		if x.Op == token.Bang {
			if b, ok := inner.(*vform.Bool); ok {
				return &vform.Bool{Value: !b.Value}
			}
			if u, ok := inner.(*vform.Unary); ok && u.Op == token.Bang {
				return u.X
			}
		}
		return fold(&vform.Unary{Op: x.Op, X: inner})

	case *vform.Binary:
		l, r := Simplify(x.X), Simplify(x.Y)
		lb, lok := l.(*vform.Bool)
		rb, rok := r.(*vform.Bool)
		switch x.Op {
		case token.AndAnd:
			switch {
			case lok && !lb.Value, rok && !rb.Value:
				return vform.False
			case lok:
				return r
			case rok:
				return l
			}
		case token.OrOr:
			switch {
			case lok && lb.Value, rok && rb.Value:
				return vform.True
			case lok:
				return r
			case rok:
				return l
			}
		case token.Implies:
			switch {
			case lok && !lb.Value, rok && rb.Value:
				return vform.True
			case lok:
				return r
			}
		}
		return fold(&vform.Binary{Op: x.Op, X: l, Y: r})

	case *vform.Is:
		return &vform.Is{X: Simplify(x.X), Type: x.Type}
	}
	return e
}

// fold evaluates e when it has no variables and a defined value.
func fold(e vform.Expr) vform.Expr {
	if len(vform.FreeRefs(e)) > 0 {
		return e
	}
	v, err := interp.New(nil, nil).Eval(e, nil)
	if err != nil {
		return e
	}
	if v.IsBool() {
		return &vform.Bool{Value: v.Bool()}
	}
	return &vform.Int{Value: v.Int()}
}
