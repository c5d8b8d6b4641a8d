package parser

import (
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/span"
	"github.com/tsubalang/tsuba/internal/token"
)

// parseType parses the surface type grammar described in spec.md §3
// (Ownership markers) and §4.4 (Type lowering): primitives, generics,
// ref<T>/mutref<T>/mut<T> and their lifetime-parameterized variants,
// Option<T>/Result<T,E>, tuples, and anonymous object shapes.
func (p *Parser) parseType() *ast.TypeExpr {
	start := p.cur.Start

	if p.curIs(token.LBRACE) {
		return p.parseAnonShape(start)
	}

	if p.curIs(token.LPAREN) {
		return p.parseTupleType(start)
	}

	name := p.expect(token.IDENT).Literal

	switch name {
	case "ref", "mutref":
		p.expect(token.LT)
		lifetime := ""
		if p.curIs(token.IDENT) && p.peekIs(token.COMMA) {
			lifetime = p.cur.Literal
			p.next()
			p.expect(token.COMMA)
		}
		inner := p.parseType()
		p.expect(token.GT)
		kind := "ref"
		if name == "mutref" {
			kind = "mutref"
		}
		if lifetime != "" {
			kind += "Lt"
		}
		return &ast.TypeExpr{Kind: kind, Args: []*ast.TypeExpr{inner}, Lifetime: lifetime,
			Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
	case "mut":
		p.expect(token.LT)
		inner := p.parseType()
		p.expect(token.GT)
		return &ast.TypeExpr{Kind: "mut", Args: []*ast.TypeExpr{inner},
			Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
	case "Option":
		p.expect(token.LT)
		inner := p.parseType()
		p.expect(token.GT)
		return &ast.TypeExpr{Kind: "option", Args: []*ast.TypeExpr{inner},
			Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
	case "Result":
		p.expect(token.LT)
		ok := p.parseType()
		p.expect(token.COMMA)
		errT := p.parseType()
		p.expect(token.GT)
		return &ast.TypeExpr{Kind: "result", Args: []*ast.TypeExpr{ok, errT},
			Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
	}

	path := []string{name}
	var args []*ast.TypeExpr
	if p.curIs(token.LT) {
		p.next()
		for !p.curIs(token.GT) {
			args = append(args, p.parseType())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.GT)
	}
	return &ast.TypeExpr{Kind: "path", Path: path, Args: args,
		Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
}

func (p *Parser) parseTupleType(start int) *ast.TypeExpr {
	p.expect(token.LPAREN)
	var args []*ast.TypeExpr
	for !p.curIs(token.RPAREN) {
		args = append(args, p.parseType())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.TypeExpr{Kind: "tuple", Args: args,
		Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
}

func (p *Parser) parseAnonShape(start int) *ast.TypeExpr {
	p.expect(token.LBRACE)
	var fields []ast.Field
	for !p.curIs(token.RBRACE) {
		fstart := p.cur.Start
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		ftype := p.parseType()
		fields = append(fields, ast.Field{Name: fname, Type: ftype,
			Pos: span.Span{FileName: p.fileName, Start: fstart, End: p.cur.End}})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.TypeExpr{Kind: "anon", AnonShape: fields,
		Pos: span.Span{FileName: p.fileName, Start: start, End: p.cur.End}}
}
