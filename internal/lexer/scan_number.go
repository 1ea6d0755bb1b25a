package lexer

import (
	"strconv"

	"wyweb/internal/token"
)

// scanNumber: только десятичные целые, '_' допускается между цифрами.
// Значение должно помещаться в int64.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.fail(lx.cursor.SpanFrom(start), "malformed number")
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	digits := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '_' {
			digits = append(digits, text[i])
		}
	}
	if text[len(text)-1] == '_' {
		return lx.fail(sp, "malformed number")
	}
	if _, err := strconv.ParseInt(string(digits), 10, 64); err != nil {
		return lx.fail(sp, "integer literal %s out of range", text)
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text, Value: string(digits)}
}
