package parser

import (
	"wyweb/internal/ast"
	"wyweb/internal/token"
)

func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace).Span.Start
	b := &ast.Block{}
	for !p.atOr(token.RBrace, token.EOF) {
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	p.expect(token.RBrace)
	b.Span = p.spanFrom(start)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	start := tok.Span.Start
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwAssert:
		p.advance()
		s := &ast.AssertStmt{Cond: p.parseExpr()}
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	case token.KwAssume:
		p.advance()
		s := &ast.AssumeStmt{Cond: p.parseExpr()}
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	case token.KwPrint:
		p.advance()
		s := &ast.PrintStmt{Value: p.parseExpr()}
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	case token.KwReturn:
		p.advance()
		s := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) {
			s.Value = p.parseExpr()
		}
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.Ident:
		return p.parseIdentStmt()
	}
	p.errorf("expected statement, found %s", describe(tok))
	return nil
}

func (p *Parser) parseIf() *ast.IfStmt {
	start := p.expect(token.KwIf).Span.Start
	s := &ast.IfStmt{Cond: p.parseExpr()}
	s.Then = p.parseBlock()
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			s.Else = p.parseIf()
		} else {
			s.Else = p.parseBlock()
		}
	}
	s.Span = p.spanFrom(start)
	return s
}

// while i < n where i >= 0 where i <= n { ... }
func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.expect(token.KwWhile).Span.Start
	s := &ast.WhileStmt{Cond: p.parseExpr()}
	for p.eat(token.KwWhere) {
		s.Invariants = append(s.Invariants, p.parseExpr())
	}
	s.Body = p.parseBlock()
	s.Span = p.spanFrom(start)
	return s
}

// parseIdentStmt различает объявление, присваивание и вызов:
//
//	int x = e;   nat::t x = e;   x = e;   f(a);   m::f(a);
func (p *Parser) parseIdentStmt() ast.Stmt {
	start := p.peek().Span.Start
	next := p.peekN(1).Kind
	isDecl := next == token.Ident ||
		(next == token.ColonColon && p.peekN(2).Kind == token.Ident && p.peekN(3).Kind == token.Ident)

	switch {
	case isDecl:
		s := &ast.DeclStmt{Type: p.parseType()}
		s.Name = p.expectIdent("variable name").Value
		p.expect(token.Assign)
		s.Init = p.parseExpr()
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	case next == token.Assign:
		s := &ast.AssignStmt{Name: p.advance().Value}
		p.advance()
		s.Value = p.parseExpr()
		p.expect(token.Semicolon)
		s.Span = p.spanFrom(start)
		return s
	}

	e := p.parseExpr()
	call, ok := e.(*ast.CallExpr)
	if !ok {
		p.errorAt(e.Pos(), "expression is not a statement")
	}
	p.expect(token.Semicolon)
	return &ast.CallStmt{Span: p.spanFrom(start), Call: call}
}
