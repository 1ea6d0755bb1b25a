package js

import (
	"fmt"
	"strconv"
	"strings"

	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
	"wyweb/internal/types"
)

var jsOps = map[token.Kind]string{
	token.Plus:   "+",
	token.Minus:  "-",
	token.Star:   "*",
	token.EqEq:   "===",
	token.BangEq: "!==",
	token.Lt:     "<",
	token.LtEq:   "<=",
	token.Gt:     ">",
	token.GtEq:   ">=",
	token.AndAnd: "&&",
	token.OrOr:   "||",
}

// wrapped renders e inside exactly one pair of parentheses.
func (fe *funcEmitter) wrapped(e ir.Expr) string {
	s := fe.expr(e)
	if _, ok := e.(*ir.Binary); ok {
		return s
	}
	return "(" + s + ")"
}

// expr renders e. Binary operations are always parenthesized.
func (fe *funcEmitter) expr(e ir.Expr) string {
	switch x := e.(type) {
	case *ir.Const:
		if types.IsBool(x.T) {
			return strconv.FormatBool(x.Bool)
		}
		if x.Int > MaxSafeInteger || x.Int < -MaxSafeInteger {
			panic(bailout{syntax.Errorf(x, fe.heap, "integer %d cannot be represented in JavaScript", x.Int)})
		}
		return strconv.FormatInt(x.Int, 10)
	case *ir.Ref:
		return fe.names[x.Var]
	case *ir.Unary:
		op := "-"
		if x.Op == token.Bang {
			op = "!"
		}
		return op + fe.operand(x.X)
	case *ir.Binary:
		l, r := fe.expr(x.X), fe.expr(x.Y)
		switch x.Op {
		case token.Slash:
			fe.e.helpers["$div"] = true
			return fmt.Sprintf("$div(%s, %s)", l, r)
		case token.Percent:
			fe.e.helpers["$rem"] = true
			return fmt.Sprintf("$rem(%s, %s)", l, r)
		case token.Implies:
			return fmt.Sprintf("(!%s || %s)", fe.operand(x.X), r)
		}
		op, ok := jsOps[x.Op]
		if !ok {
			panic(fmt.Sprintf("js: unexpected operator %s", x.Op))
		}
		return fmt.Sprintf("(%s %s %s)", l, op, r)
	case *ir.Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = fe.expr(a)
		}
		return fmt.Sprintf("%s(%s)", Mangle(x.Func.Module, x.Func.Name), strings.Join(args, ", "))
	case *ir.Result:
		panic("js: result outside of a postcondition")
	}
	panic(fmt.Sprintf("js: unexpected expression %T", e))
}

// operand renders e so that a prefix operator applies to all of it.
func (fe *funcEmitter) operand(e ir.Expr) string {
	s := fe.expr(e)
	switch x := e.(type) {
	case *ir.Unary:
		return "(" + s + ")"
	case *ir.Const:
		if !types.IsBool(x.T) && x.Int < 0 {
			return "(" + s + ")"
		}
	}
	return s
}
