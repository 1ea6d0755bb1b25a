package parser

import (
	"strconv"

	"wyweb/internal/ast"
	"wyweb/internal/source"
	"wyweb/internal/token"
)

// приоритеты бинарных операторов; ==> правоассоциативен
var binaryPrec = map[token.Kind]int{
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

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	x := p.parseUnary()
	for {
		op := p.peek().Kind
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return x
		}
		p.advance()
		next := prec + 1
		if op == token.Implies {
			next = prec
		}
		y := p.parseBinary(next)
		x = &ast.BinaryExpr{
			Span: source.Span{Start: x.Pos().Start, End: y.Pos().End},
			Op:   op,
			X:    x,
			Y:    y,
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.atOr(token.Minus, token.Bang) {
		tok := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{
			Span: source.Span{Start: tok.Span.Start, End: x.Pos().End},
			Op:   tok.Kind,
			X:    x,
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.errorAt(tok.Span, "integer literal %s out of range", tok.Text)
		}
		return &ast.IntLit{Span: tok.Span, Value: v}
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.BoolLit{Span: tok.Span, Value: tok.Kind == token.KwTrue}
	case token.KwResult:
		p.advance()
		return &ast.ResultExpr{Span: tok.Span}
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen)
		return x
	case token.Ident:
		return p.parseNameOrCall()
	}
	p.errorf("expected expression, found %s", describe(tok))
	return nil
}

func (p *Parser) parseNameOrCall() ast.Expr {
	first := p.advance()
	qualifier, name := "", first.Value
	if p.eat(token.ColonColon) {
		qualifier, name = name, p.expectIdent("function name").Value
		if !p.at(token.LParen) {
			p.errorf("expected '(', found %s", describe(p.peek()))
		}
	}
	if !p.at(token.LParen) {
		return &ast.Ident{Span: first.Span, Name: name}
	}
	p.advance()
	call := &ast.CallExpr{Qualifier: qualifier, Name: name}
	if !p.at(token.RParen) {
		for {
			call.Args = append(call.Args, p.parseExpr())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen)
	call.Span = p.spanFrom(first.Span.Start)
	return call
}
