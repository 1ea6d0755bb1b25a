package lexer

import (
	"wyweb/internal/source"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии.
// Незакрытый блочный комментарий — ошибка, указывающая на его начало.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			lx.cursor.Bump()
			continue
		case '/':
			start := lx.cursor.Mark()
			if lx.try2('/', '/') {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				continue
			}
			if lx.try2('/', '*') {
				if !lx.skipBlockComment() {
					sp := source.Span{Start: uint32(start), End: uint32(start) + 2}
					lx.fail(sp, "unterminated block comment")
					return
				}
				continue
			}
		}
		return
	}
}

func (lx *Lexer) skipBlockComment() bool {
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return true
		}
		lx.cursor.Bump()
	}
	return false
}
