package parser

import (
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/token"
)

// parseBlock parses a `{ stmt* }` block.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Start
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	// `function` cannot start a statement, so an unclosed block ends there
	// and the next top-level declaration is still parsed.
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) && !p.curIs(token.FUNCTION) {
		stmts = append(stmts, p.parseStmt())
	}
	if p.curIs(token.FUNCTION) {
		p.errorf(p.curSpan(), "expected %s before %q", token.RBRACE, p.cur.Literal)
	} else {
		p.expect(token.RBRACE)
	}
	return &ast.Block{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Stmts: stmts}
}

// parseStmt dispatches on the current token to parse a single statement.
func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur.Start
	switch {
	case p.curIs(token.LET):
		return p.parseLetStmt(start)
	case p.curIs(token.RETURN):
		return p.parseReturnStmt(start)
	case p.curIs(token.IF):
		return p.parseIfStmt(start)
	case p.curIs(token.WHILE):
		return p.parseWhileStmt(start)
	case p.curIs(token.LOOP):
		return p.parseLoopStmt(start)
	case p.curIs(token.BREAK):
		p.next()
		p.accept(token.SEMI)
		return &ast.BreakStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End)}
	case p.curIs(token.CONTINUE):
		p.next()
		p.accept(token.SEMI)
		return &ast.ContinueStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End)}
	case p.curIs(token.SWITCH):
		return p.parseSwitchStmt(start)
	case p.curIs(token.MATCH):
		return p.parseMatchStmt(start)
	case p.curIs(token.LBRACE):
		return p.parseBlock()
	default:
		x := p.parseExpr(LOWEST)
		p.accept(token.SEMI)
		return &ast.ExprStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), X: x}
	}
}

// parseLetStmt parses `let [mut] name[: T] = expr;`.
func (p *Parser) parseLetStmt(start int) ast.Stmt {
	p.expect(token.LET)
	mut := false
	if p.curIs(token.IDENT) && p.cur.Literal == "mut" {
		mut = true
		p.next()
	}
	name := p.expect(token.IDENT).Literal
	var typ *ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	init := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.LetStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Name: name, Mut: mut, Type: typ, Init: init}
}

// parseReturnStmt parses `return [expr];`.
func (p *Parser) parseReturnStmt(start int) ast.Stmt {
	p.expect(token.RETURN)
	var val ast.Expr
	if !p.curIs(token.SEMI) && !p.curIs(token.RBRACE) {
		val = p.parseExpr(LOWEST)
	}
	p.accept(token.SEMI)
	return &ast.ReturnStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Value: val}
}

// parseIfStmt parses `if (cond) { ... } [else (if (...) {...} | { ... })]`.
func (p *Parser) parseIfStmt(start int) ast.Stmt {
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	then := p.parseBlock()
	var els ast.Stmt
	if p.curIs(token.ELSE) {
		p.next()
		if p.curIs(token.IF) {
			els = p.parseIfStmt(p.cur.Start)
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Cond: cond, Then: then, Else: els}
}

// parseWhileStmt parses `while (cond) { ... }`.
func (p *Parser) parseWhileStmt(start int) ast.Stmt {
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Cond: cond, Body: body}
}

// parseLoopStmt parses `loop { ... }`.
func (p *Parser) parseLoopStmt(start int) ast.Stmt {
	p.expect(token.LOOP)
	body := p.parseBlock()
	return &ast.LoopStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Body: body}
}

// parseSwitchStmt parses a `switch (scrutinee) { case "v": stmt*; default: stmt* }`
// statement, lowered to `match` by internal/lower (spec.md §4.3).
func (p *Parser) parseSwitchStmt(start int) ast.Stmt {
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	scrutinee := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	cases := p.parseSwitchCases()
	return &ast.SwitchStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Scrutinee: scrutinee, Cases: cases}
}

// parseMatchStmt parses a native `match (scrutinee) { pattern => { stmt* } ... }`
// statement.
func (p *Parser) parseMatchStmt(start int) ast.Stmt {
	p.expect(token.MATCH)
	p.expect(token.LPAREN)
	scrutinee := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		astart := p.cur.Start
		pat := p.parsePattern()
		p.expect(token.ARROW)
		var body []ast.Stmt
		if p.curIs(token.LBRACE) {
			body = p.parseBlock().Stmts
		} else {
			body = append(body, p.parseStmt())
		}
		p.accept(token.COMMA)
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body, Pos: p.sp(astart)})
	}
	p.expect(token.RBRACE)
	return &ast.MatchStmt{StmtBase: ast.NewStmtBase(p.fileName, start, p.cur.End), Scrutinee: scrutinee, Arms: arms}
}

// parsePattern parses a minimal match-pattern: `_`, a bound identifier, or a
// variant pattern `Tag { a, b }` / `Tag(a, b)`.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur.Start
	if p.curIs(token.IDENT) && p.cur.Literal == "_" {
		p.next()
		return ast.Pattern{Kind: "wildcard", Pos: p.sp(start)}
	}
	name := p.expect(token.IDENT).Literal
	if p.curIs(token.LBRACE) {
		p.next()
		var bindings []string
		for !p.curIs(token.RBRACE) {
			bindings = append(bindings, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		return ast.Pattern{Kind: "variant", Variant: name, Shape: "struct", Bindings: bindings, Pos: p.sp(start)}
	}
	if p.curIs(token.LPAREN) {
		p.next()
		var bindings []string
		for !p.curIs(token.RPAREN) {
			bindings = append(bindings, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		return ast.Pattern{Kind: "variant", Variant: name, Shape: "tuple", Bindings: bindings, Pos: p.sp(start)}
	}
	return ast.Pattern{Kind: "ident", Name: name, Pos: p.sp(start)}
}
