package parser

import (
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/token"
)

// Operator precedence levels, lowest to highest (standard Pratt-parser
// ladder).
const (
	LOWEST int = iota
	OR_PREC
	AND_PREC
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	CAST
	UNARY
	CALL
)

var precedences = map[token.Kind]int{
	token.OR:      OR_PREC,
	token.AND:     AND_PREC,
	token.EQ:      EQUALITY,
	token.NEQ:     EQUALITY,
	token.LT:      COMPARISON,
	token.GT:      COMPARISON,
	token.LTE:     COMPARISON,
	token.GTE:     COMPARISON,
	token.PLUS:    ADDITIVE,
	token.MINUS:   ADDITIVE,
	token.STAR:    MULTIPLICATIVE,
	token.SLASH:   MULTIPLICATIVE,
	token.PERCENT: MULTIPLICATIVE,
	token.AS:      CAST,
	token.LPAREN:  CALL,
	token.DOT:     CALL,
	token.LBRACKET: CALL,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

// parseExpr is the Pratt entry point: parse a prefix expression, then fold
// in infix/postfix operators while their precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()
	for minPrec < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.cur.Start
	switch p.cur.Kind {
	case token.INT:
		v := p.cur.Literal
		p.next()
		return &ast.IntLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Value: v}
	case token.FLOAT:
		v := p.cur.Literal
		p.next()
		return &ast.FloatLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Value: v}
	case token.STRING:
		v := p.cur.Literal
		p.next()
		return &ast.StringLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Value: v}
	case token.TRUE, token.FALSE:
		v := p.cur.Kind == token.TRUE
		p.next()
		return &ast.BoolLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Value: v}
	case token.MINUS, token.NOT:
		op := p.cur.Literal
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.Unary{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Op: op, Operand: operand}
	case token.AMP:
		p.next()
		mut := false
		if p.curIs(token.IDENT) && p.cur.Literal == "mut" {
			mut = true
			p.next()
		}
		operand := p.parseExpr(UNARY)
		return &ast.Borrow{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Mut: mut, Operand: operand}
	case token.AWAIT:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.Await{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Operand: operand}
	case token.LPAREN:
		return p.parseParenOrClosure(start)
	case token.LBRACE:
		return p.parseStructLit(start)
	case token.LBRACKET:
		return p.parseArrayLit(start)
	case token.SWITCH:
		return p.parseSwitchExpr(start)
	case token.IDENT:
		return p.parseIdentOrMarker(start)
	default:
		p.errorf(p.curSpan(), "unexpected token in expression: %s %q", p.cur.Kind, p.cur.Literal)
		tok := p.cur
		p.next()
		return &ast.Ident{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Name: tok.Literal}
	}
}

func (p *Parser) parseIdentOrMarker(start int) ast.Expr {
	name := p.cur.Literal
	p.next()

	switch name {
	case "q":
		if p.curIs(token.LPAREN) {
			p.next()
			inner := p.parseExpr(LOWEST)
			p.expect(token.RPAREN)
			return &ast.Question{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Operand: inner}
		}
	case "unsafe":
		if p.curIs(token.LPAREN) {
			p.next()
			body := p.parseExpr(LOWEST)
			p.expect(token.RPAREN)
			return &ast.UnsafeExpr{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Body: body}
		}
	case "move":
		if p.curIs(token.LPAREN) {
			p.next()
			closure := p.parseExpr(LOWEST)
			p.expect(token.RPAREN)
			if c, ok := closure.(*ast.Closure); ok {
				c.Move = true
				return c
			}
			return closure
		}
	case "new":
		if p.curIs(token.IDENT) {
			typeName := p.cur.Literal
			p.next()
			p.expect(token.LPAREN)
			var arg ast.Expr
			if !p.curIs(token.RPAREN) {
				arg = p.parseExpr(LOWEST)
			}
			p.expect(token.RPAREN)
			return &ast.NewE{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), TypeName: typeName, Arg: arg}
		}
	}

	return &ast.Ident{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Name: name}
}

// parseParenOrClosure disambiguates `(expr)` from `(params) => body`.
func (p *Parser) parseParenOrClosure(start int) ast.Expr {
	save := *p
	saveLex := *p.l
	p.next() // consume '('

	// Try to parse as a closure parameter list.
	if ok, params := p.tryParseClosureParams(); ok {
		if p.accept(token.ARROW) {
			if p.curIs(token.LBRACE) {
				block := p.parseBlock()
				return &ast.Closure{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Params: params, Block: block}
			}
			body := p.parseExpr(LOWEST)
			return &ast.Closure{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Params: params, Body: body}
		}
	}

	// Not a closure: restore and parse a parenthesized expression.
	*p = save
	*p.l = saveLex
	p.next()
	inner := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	return inner
}

// tryParseClosureParams attempts `name[: T][= default], ...)` starting
// right after the opening '('. On success it consumes through the closing
// ')'; on failure the caller restores the saved parser state.
func (p *Parser) tryParseClosureParams() (bool, []ast.Param) {
	var params []ast.Param
	for !p.curIs(token.RPAREN) {
		if !p.curIs(token.IDENT) {
			return false, nil
		}
		pstart := p.cur.Start
		name := p.cur.Literal
		p.next()
		var typ *ast.TypeExpr
		if p.accept(token.COLON) {
			typ = p.parseType()
		}
		var def ast.Expr
		if p.accept(token.ASSIGN) {
			def = p.parseExpr(LOWEST)
		}
		params = append(params, ast.Param{Name: name, Type: typ, Default: def, Pos: p.sp(pstart)})
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.curIs(token.RPAREN) {
		return false, nil
	}
	p.next() // consume ')'
	return p.curIs(token.ARROW), params
}

func (p *Parser) parseStructLit(start int) ast.Expr {
	p.expect(token.LBRACE)
	var fields []ast.StructLitField
	for !p.curIs(token.RBRACE) {
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr(LOWEST)
		fields = append(fields, ast.StructLitField{Name: name, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Fields: fields}
}

func (p *Parser) parseArrayLit(start int) ast.Expr {
	p.expect(token.LBRACKET)
	var elems []ast.Expr
	for !p.curIs(token.RBRACKET) {
		elems = append(elems, p.parseExpr(LOWEST))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Elements: elems}
}

// parseSwitchExpr parses `switch (scrutinee) { case "v": stmt*; default: stmt* }`
// used in expression position (spec.md §4.3 Match from switch).
func (p *Parser) parseSwitchExpr(start int) ast.Expr {
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	scrutinee := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	cases := p.parseSwitchCases()
	return &ast.SwitchExpr{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Scrutinee: scrutinee, Cases: cases}
}

func (p *Parser) parseSwitchCases() []ast.SwitchCase {
	p.expect(token.LBRACE)
	var cases []ast.SwitchCase
	for !p.curIs(token.RBRACE) {
		cstart := p.cur.Start
		var c ast.SwitchCase
		if p.curIs(token.DEFAULT) {
			p.next()
			c.IsDefault = true
		} else {
			p.expect(token.CASE)
			c.Value = p.expect(token.STRING).Literal
		}
		p.expect(token.COLON)
		for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) {
			c.Body = append(c.Body, p.parseStmt())
		}
		c.Pos = p.sp(cstart)
		cases = append(cases, c)
	}
	p.expect(token.RBRACE)
	return cases
}

func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	start := leftStart(left)
	switch p.cur.Kind {
	case token.LPAREN:
		return p.parseCall(left, start)
	case token.DOT:
		p.next()
		name := p.expect(token.IDENT).Literal
		return &ast.Field{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Receiver: left, Name: name}
	case token.LBRACKET:
		p.next()
		idx := p.parseExpr(LOWEST)
		p.expect(token.RBRACKET)
		return &ast.Index{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Receiver: left, Index: idx}
	case token.AS:
		p.next()
		typ := p.parseType()
		return &ast.Cast{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Operand: left, Type: typ}
	default:
		op := p.cur.Literal
		prec := p.curPrecedence()
		p.next()
		right := p.parseExpr(prec)
		return &ast.Binary{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseCall(callee ast.Expr, start int) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpr(LOWEST))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{ExprBase: ast.NewExprBase(p.fileName, start, p.cur.End), Callee: callee, Args: args}
}

func leftStart(e ast.Expr) int {
	return e.Position().Start
}
