// Package lexer turns Wy source text into tokens.
//
// The lexer stops at the first malformed token: the error is a
// *syntax.Error located directly at the offending bytes, and every later call
// to Next returns EOF.
package lexer

import (
	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	err    *syntax.Error
}

func New(file *source.File) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file)}
}

// Err returns the first lexical error, if any.
func (lx *Lexer) Err() error {
	if lx.err == nil {
		return nil
	}
	return lx.err
}

// Next возвращает следующий значимый токен. После EOF или ошибки всегда EOF.
func (lx *Lexer) Next() token.Token {
	if lx.err != nil {
		return lx.eof()
	}
	lx.skipTrivia()
	if lx.err != nil || lx.cursor.EOF() {
		return lx.eof()
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) eof() token.Token {
	sp := source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
	return token.Token{Kind: token.EOF, Span: sp}
}

func (lx *Lexer) fail(sp source.Span, format string, args ...any) token.Token {
	if lx.err == nil {
		lx.err = syntax.SpanError(sp, format, args...)
	}
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Tokenize scans the whole file. The returned slice always ends with EOF.
func Tokenize(file *source.File) ([]token.Token, error) {
	lx := New(file)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		if tok.Kind == token.Invalid {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, lx.Err()
}
