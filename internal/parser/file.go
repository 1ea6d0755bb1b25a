package parser

import (
	"wyweb/internal/ast"
	"wyweb/internal/source"
	"wyweb/internal/token"
)

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{
		Path: p.file.Path,
		Span: source.Span{Start: 0, End: p.file.Len()},
	}
	mainStart := uint32(0)
	main := &ast.FuncDecl{Name: "main", Body: &ast.Block{}, Implicit: true}

	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwImport:
			f.Imports = append(f.Imports, p.parseImport())
		case token.KwType:
			f.Types = append(f.Types, p.parseTypeDecl())
		case token.KwFunction:
			f.Funcs = append(f.Funcs, p.parseFunc())
		default:
			st := p.parseStmt()
			if len(main.Body.Stmts) == 0 {
				mainStart = st.Pos().Start
			}
			main.Body.Stmts = append(main.Body.Stmts, st)
		}
	}
	if n := len(main.Body.Stmts); n > 0 {
		sp := source.Span{Start: mainStart, End: main.Body.Stmts[n-1].Pos().End}
		main.Span, main.Body.Span = sp, sp
	}
	f.Main = main
	return f
}

// import std::math;
func (p *Parser) parseImport() *ast.Import {
	start := p.expect(token.KwImport).Span.Start
	imp := &ast.Import{}
	imp.Segments = append(imp.Segments, p.expectIdent("module name").Value)
	for p.eat(token.ColonColon) {
		imp.Segments = append(imp.Segments, p.expectIdent("module name").Value)
	}
	p.expect(token.Semicolon)
	imp.Span = p.spanFrom(start)
	return imp
}

// type nat is (int n) where n >= 0;
func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	start := p.expect(token.KwType).Span.Start
	td := &ast.TypeDecl{}
	td.Name = p.expectIdent("type name").Value
	p.expect(token.KwIs)
	p.expect(token.LParen)
	td.Base = p.parseType()
	td.Var = p.expectIdent("variable name").Value
	p.expect(token.RParen)
	if p.eat(token.KwWhere) {
		td.Where = p.parseExpr()
	}
	p.expect(token.Semicolon)
	td.Span = p.spanFrom(start)
	return td
}

func (p *Parser) parseType() *ast.TypeExpr {
	first := p.expectIdent("type")
	te := &ast.TypeExpr{Name: first.Value}
	if p.eat(token.ColonColon) {
		te.Qualifier = te.Name
		te.Name = p.expectIdent("type name").Value
	}
	te.Span = p.spanFrom(first.Span.Start)
	return te
}

func (p *Parser) parseFunc() *ast.FuncDecl {
	start := p.expect(token.KwFunction).Span.Start
	fn := &ast.FuncDecl{}
	fn.Name = p.expectIdent("function name").Value
	p.expect(token.LParen)
	if !p.at(token.RParen) {
		for {
			ps := p.peek().Span.Start
			param := &ast.Param{Type: p.parseType()}
			param.Name = p.expectIdent("parameter name").Value
			param.Span = p.spanFrom(ps)
			fn.Params = append(fn.Params, param)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen)
	if p.eat(token.Arrow) {
		fn.Result = p.parseType()
	}
	for p.atOr(token.KwRequires, token.KwEnsures) {
		if p.advance().Kind == token.KwRequires {
			fn.Requires = append(fn.Requires, p.parseExpr())
		} else {
			fn.Ensures = append(fn.Ensures, p.parseExpr())
		}
	}
	fn.Body = p.parseBlock()
	fn.Span = p.spanFrom(start)
	return fn
}
