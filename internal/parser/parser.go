// Package parser builds the Wy syntax tree.
//
// Parsing stops at the first error. Syntax errors are located directly at the
// offending token (a *syntax.Error whose item is a *syntax.Span).
package parser

import (
	"slices"

	"wyweb/internal/ast"
	"wyweb/internal/lexer"
	"wyweb/internal/source"
	"wyweb/internal/syntax"
	"wyweb/internal/token"
)

// Parser — состояние парсера на один файл
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	// lastEnd — конец последнего съеденного токена, для спанов узлов
	lastEnd uint32
}

// bailout прерывает разбор на первой ошибке.
type bailout struct{ err *syntax.Error }

// ParseFile — входная точка для разбора одного файла.
func ParseFile(file *source.File) (f *ast.File, err error) {
	toks, lexErr := lexer.Tokenize(file)
	p := &Parser{file: file, toks: toks}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			f, err = nil, firstError(b.err, lexErr)
		}
	}()

	f = p.parseFile()
	if lexErr != nil {
		return nil, lexErr
	}
	link(f)
	return f, nil
}

// firstError выбирает ошибку, стоящую раньше в тексте. Поток токенов после
// лексической ошибки обрывается на EOF, так что ошибка парсера на этом месте
// или дальше — следствие, а не причина.
func firstError(parseErr *syntax.Error, lexErr error) error {
	if lexErr == nil {
		return parseErr
	}
	ps, _ := parseErr.Locate()
	ls, _ := syntax.Locate(lexErr)
	if ps.Start < ls.Start {
		return parseErr
	}
	return lexErr
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance — съедает текущий токен
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastEnd = tok.Span.End
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect — ожидаем конкретный токен, иначе ошибка на текущем
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf("expected %s, found %s", k.Quoted(), describe(p.peek()))
	panic("unreachable")
}

func (p *Parser) expectIdent(what string) token.Token {
	if p.at(token.Ident) {
		return p.advance()
	}
	p.errorf("expected %s, found %s", what, describe(p.peek()))
	panic("unreachable")
}

// errorf репортует ошибку на текущем токене и прерывает разбор.
// EOF получает спан в один байт за концом текста.
func (p *Parser) errorf(format string, args ...any) {
	tok := p.peek()
	sp := tok.Span
	if tok.Kind == token.EOF {
		sp = source.Span{Start: sp.Start, End: sp.Start + 1}
	}
	panic(bailout{err: syntax.SpanError(sp, format, args...)})
}

func (p *Parser) errorAt(sp source.Span, format string, args ...any) {
	panic(bailout{err: syntax.SpanError(sp, format, args...)})
}

// spanFrom — от начала start до конца последнего съеденного токена
func (p *Parser) spanFrom(start uint32) source.Span {
	return source.Span{Start: start, End: max(p.lastEnd, start)}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.IntLit:
		return tok.Kind.String() + " '" + tok.Text + "'"
	}
	return tok.Kind.Quoted()
}
