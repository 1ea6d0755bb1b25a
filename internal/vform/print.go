package vform

import (
	"strconv"
	"strings"

	"wyweb/internal/token"
)

var precedence = map[token.Kind]int{
	token.Implies: 1,
	token.OrOr:    2,
	token.AndAnd:  3,
	token.EqEq:    4,
	token.BangEq:  4,
	token.Lt:      5,
	token.LtEq:    5,
	token.Gt:      5,
	token.GtEq:    5,
	token.Plus:    6,
	token.Minus:   6,
	token.Star:    7,
	token.Slash:   7,
	token.Percent: 7,
}

// Format renders e with minimal parentheses.
func Format(e Expr) string {
	var b strings.Builder
	format(&b, e, 0)
	return b.String()
}

func format(b *strings.Builder, e Expr, outer int) {
	switch x := e.(type) {
	case *Int:
		b.WriteString(strconv.FormatInt(x.Value, 10))
	case *Bool:
		b.WriteString(strconv.FormatBool(x.Value))
	case *Ref:
		b.WriteString(x.Name)
	case *Unary:
		b.WriteString(x.Op.String())
		format(b, x.X, 8)
	case *Is:
		if outer > 4 {
			b.WriteByte('(')
		}
		format(b, x.X, 5)
		b.WriteString(" is ")
		b.WriteString(x.Type.String())
		if outer > 4 {
			b.WriteByte(')')
		}
	case *Binary:
		p := precedence[x.Op]
		if p < outer {
			b.WriteByte('(')
		}
		left, right := p, p+1
		if x.Op == token.Implies {
			left, right = p+1, p
		}
		format(b, x.X, left)
		b.WriteString(" " + x.Op.String() + " ")
		format(b, x.Y, right)
		if p < outer {
			b.WriteByte(')')
		}
	default:
		b.WriteString("?")
	}
}

// String renders the file in a readable text form.
func (f *File) String() string {
	var b strings.Builder
	for _, t := range f.Types {
		b.WriteString("type " + t.Type.String() + " is (" + t.Type.Base.String() + " " + t.Var + ")")
		if t.Where != nil {
			b.WriteString(" where " + Format(t.Where))
		}
		b.WriteString("\n")
	}
	for _, a := range f.Asserts {
		b.WriteString("assert " + strconv.Quote(a.Message()) + " " + a.Name + ":\n    ")
		if len(a.Vars) > 0 {
			b.WriteString("forall(")
			for i, v := range a.Vars {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(v.Type.String() + " " + v.Name)
			}
			b.WriteString("): ")
		}
		b.WriteString(Format(a.Body))
		b.WriteString("\n")
	}
	return b.String()
}
