package token

import (
	"wyweb/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value string // NFC form of identifiers; equal to Text otherwise
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwImport && t.Kind <= KwResult
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsBinaryOp reports whether the token can join two operands.
func (t Token) IsBinaryOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, EqEq, BangEq, Lt, LtEq, Gt, GtEq,
		AndAnd, OrOr, Implies:
		return true
	}
	return false
}
