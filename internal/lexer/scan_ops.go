package lexer

import (
	"wyweb/internal/token"
)

// scanOperatorOrPunct: жадно, сначала длинные последовательности.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := token.Invalid

	switch {
	case lx.try3('=', '=', '>'):
		kind = token.Implies
	case lx.try2('=', '='):
		kind = token.EqEq
	case lx.try2('!', '='):
		kind = token.BangEq
	case lx.try2('<', '='):
		kind = token.LtEq
	case lx.try2('>', '='):
		kind = token.GtEq
	case lx.try2('&', '&'):
		kind = token.AndAnd
	case lx.try2('|', '|'):
		kind = token.OrOr
	case lx.try2('-', '>'):
		kind = token.Arrow
	case lx.try2(':', ':'):
		kind = token.ColonColon
	default:
		kind = single[lx.cursor.Peek()]
		if kind == token.Invalid {
			lx.bumpRune()
			sp := lx.cursor.SpanFrom(start)
			return lx.fail(sp, "unexpected character %q", string(lx.file.Content[sp.Start:sp.End]))
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	return token.Token{Kind: kind, Span: sp, Text: text, Value: text}
}

var single = [256]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	';': token.Semicolon,
	',': token.Comma,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
}
