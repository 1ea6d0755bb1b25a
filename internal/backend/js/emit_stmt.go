package js

import (
	"fmt"
	"strings"

	"wyweb/internal/ir"
)

func (fe *funcEmitter) line(b *strings.Builder, format string, args ...any) {
	b.WriteString(strings.Repeat("  ", fe.indent))
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func (fe *funcEmitter) check(b *strings.Builder, cond ir.Expr, msg string) {
	fe.line(b, "if (!%s) throw new Error(%q);", fe.wrapped(cond), msg)
}

func (fe *funcEmitter) stmts(b *strings.Builder, stmts []ir.Stmt) {
	for _, s := range stmts {
		fe.stmt(b, s)
	}
}

func (fe *funcEmitter) stmt(b *strings.Builder, s ir.Stmt) {
	switch s := s.(type) {
	case *ir.Decl:
		fe.line(b, "let %s = %s;", fe.names[s.Var], fe.expr(s.Init))
	case *ir.Assign:
		fe.line(b, "%s = %s;", fe.names[s.Var], fe.expr(s.Value))
	case *ir.Assert:
		fe.check(b, s.Cond, "assertion failed")
	case *ir.Assume:
		// only the verifier uses assumptions
	case *ir.Print:
		fe.line(b, "console.log(%s);", fe.expr(s.Value))
	case *ir.Return:
		if s.Value == nil {
			fe.line(b, "return;")
		} else {
			fe.line(b, "return %s;", fe.expr(s.Value))
		}
	case *ir.If:
		fe.line(b, "if %s {", fe.wrapped(s.Cond))
		fe.block(b, s.Then)
		for len(s.Else) > 0 {
			// else-if цепочки остаются плоскими
			if nested, ok := s.Else[0].(*ir.If); ok && len(s.Else) == 1 {
				fe.line(b, "} else if %s {", fe.wrapped(nested.Cond))
				fe.block(b, nested.Then)
				s = nested
				continue
			}
			fe.line(b, "} else {")
			fe.block(b, s.Else)
			break
		}
		fe.line(b, "}")
	case *ir.While:
		fe.line(b, "while %s {", fe.wrapped(s.Cond))
		fe.block(b, s.Body)
		fe.line(b, "}")
	case *ir.CallStmt:
		fe.line(b, "%s;", fe.expr(s.Call))
	default:
		panic(fmt.Sprintf("js: unexpected statement %T", s))
	}
}

func (fe *funcEmitter) block(b *strings.Builder, stmts []ir.Stmt) {
	fe.indent++
	fe.stmts(b, stmts)
	fe.indent--
}
