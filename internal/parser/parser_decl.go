package parser

import (
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/span"
	"github.com/tsubalang/tsuba/internal/token"
)

func (p *Parser) sp(start int) span.Span {
	return span.Span{FileName: p.fileName, Start: start, End: p.cur.End}
}

// parseImport parses `import { a, b as c } from "specifier";`.
func (p *Parser) parseImport() *ast.Import {
	start := p.cur.Start
	p.expect(token.IMPORT)
	var bindings []ast.ImportBinding
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) {
		name := p.expect(token.IDENT).Literal
		alias := ""
		if p.curIs(token.AS) {
			p.next()
			alias = p.expect(token.IDENT).Literal
		}
		bindings = append(bindings, ast.ImportBinding{Name: name, Alias: alias})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	p.expect(token.FROM)
	specTok := p.expect(token.STRING)
	p.accept(token.SEMI)
	return &ast.Import{Specifier: specTok.Literal, Bindings: bindings, Span: p.sp(start)}
}

// parseTypeAlias parses `type Name = variant ('|' variant)*;`.
func (p *Parser) parseTypeAlias() *ast.TypeAlias {
	start := p.cur.Start
	p.expect(token.TYPE)
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)

	var variants []ast.UnionVariant
	for {
		variants = append(variants, p.parseUnionVariant())
		if !p.accept(token.PIPE) {
			break
		}
	}
	p.accept(token.SEMI)
	return &ast.TypeAlias{Name: name, Variants: variants, Pos: p.sp(start)}
}

// parseUnionVariant parses one `{kind: "tag", field: T, ...}` object-type
// literal. A variant with no `kind` field is treated as a plain struct
// alias (Tag == "").
func (p *Parser) parseUnionVariant() ast.UnionVariant {
	start := p.cur.Start
	p.expect(token.LBRACE)
	var fields []ast.Field
	tag := ""
	for !p.curIs(token.RBRACE) {
		fstart := p.cur.Start
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		if fname == "kind" && p.curIs(token.STRING) {
			tag = p.cur.Literal
			p.next()
		} else {
			ftype := p.parseType()
			fields = append(fields, ast.Field{Name: fname, Type: ftype,
				Pos: span.Span{FileName: p.fileName, Start: fstart, End: p.cur.End}})
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return ast.UnionVariant{Tag: tag, Fields: fields, Pos: p.sp(start)}
}

// parseInterface parses `interface Name [extends A, B] { methodSig* }`.
func (p *Parser) parseInterface() *ast.Interface {
	start := p.cur.Start
	p.expect(token.INTERFACE)
	name := p.expect(token.IDENT).Literal
	var extends []string
	if p.curIs(token.EXTENDS) {
		p.next()
		for {
			extends = append(extends, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.LBRACE)
	var methods []*ast.MethodSig
	for !p.curIs(token.RBRACE) {
		methods = append(methods, p.parseMethodSig())
		p.accept(token.SEMI)
		p.accept(token.COMMA)
	}
	p.expect(token.RBRACE)
	return &ast.Interface{Name: name, Extends: extends, Methods: methods, Pos: p.sp(start)}
}

func (p *Parser) parseMethodSig() *ast.MethodSig {
	start := p.cur.Start
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	recv, params := p.parseParamListWithReceiver()
	p.expect(token.RPAREN)
	var ret *ast.TypeExpr
	if p.accept(token.COLON) {
		ret = p.parseType()
	}
	return &ast.MethodSig{Name: name, Receiver: recv, Params: params, Ret: ret, Pos: p.sp(start)}
}

// parseParamListWithReceiver parses a parameter list whose first parameter
// may be `this: ref<Self>` / `this: mutref<Self>` / `this: Self`, inferring
// the method's receiver kind from it (spec.md §4.2 Interfaces).
func (p *Parser) parseParamListWithReceiver() (ast.ReceiverKind, []ast.Param) {
	recv := ast.ReceiverNone
	var params []ast.Param
	first := true
	for !p.curIs(token.RPAREN) {
		pstart := p.cur.Start
		name := p.expect(token.IDENT).Literal
		var typ *ast.TypeExpr
		if p.accept(token.COLON) {
			typ = p.parseType()
		}
		if first && name == "this" {
			first = false
			recv = receiverKindOf(typ)
			if !p.accept(token.COMMA) {
				break
			}
			continue
		}
		first = false
		var def ast.Expr
		if p.accept(token.ASSIGN) {
			def = p.parseExpr(LOWEST)
		}
		params = append(params, ast.Param{Name: name, Type: typ, Default: def, Pos: p.sp(pstart)})
		if !p.accept(token.COMMA) {
			break
		}
	}
	return recv, params
}

func receiverKindOf(t *ast.TypeExpr) ast.ReceiverKind {
	if t == nil {
		return ast.ReceiverOwned
	}
	switch t.Kind {
	case "ref", "refLt":
		return ast.ReceiverRef
	case "mutref", "mutrefLt":
		return ast.ReceiverMutRef
	default:
		return ast.ReceiverOwned
	}
}

// parseClass parses `class Name [extends X] [implements A, B] { fields; methods }`.
func (p *Parser) parseClass() *ast.Class {
	start := p.cur.Start
	p.expect(token.CLASS)
	name := p.expect(token.IDENT).Literal
	var implements []string
	extends := ""
	if p.curIs(token.EXTENDS) {
		p.next()
		extends = p.expect(token.IDENT).Literal
	}
	if p.curIs(token.IMPLEMENTS) {
		p.next()
		for {
			implements = append(implements, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.LBRACE)
	var fields []ast.Field
	var methods []*ast.Method
	for !p.curIs(token.RBRACE) {
		static := false
		if p.curIs(token.IDENT) && p.cur.Literal == "static" && p.peekIs(token.IDENT) {
			p.next()
			static = true
		}
		if p.curIs(token.ASYNC) || looksLikeMethod(p) {
			m := p.parseMethod()
			m.Static = static
			methods = append(methods, m)
			continue
		}
		fstart := p.cur.Start
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		ftype := p.parseType()
		p.accept(token.SEMI)
		fields = append(fields, ast.Field{Name: fname, Type: ftype, Pos: p.sp(fstart)})
	}
	p.expect(token.RBRACE)
	return &ast.Class{Name: name, Implements: implements, Extends: extends, Fields: fields, Methods: methods, Pos: p.sp(start)}
}

// looksLikeMethod disambiguates `name(` (method) from `name:` (field) by
// peeking one token ahead.
func looksLikeMethod(p *Parser) bool {
	return p.curIs(token.IDENT) && p.peekIs(token.LPAREN)
}

func (p *Parser) parseMethod() *ast.Method {
	start := p.cur.Start
	async := p.accept(token.ASYNC)
	name := p.expect(token.IDENT).Literal
	typeParams := p.maybeParseTypeParams()
	p.expect(token.LPAREN)
	recv, params := p.parseParamListWithReceiver()
	p.expect(token.RPAREN)
	var ret *ast.TypeExpr
	if p.accept(token.COLON) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.Method{Name: name, Receiver: recv, TypeParams: typeParams, Params: params, Ret: ret, Async: async, Body: body, Pos: p.sp(start)}
}

// parseFunction parses `[async] function name[<T extends B>](params): Ret { body }`.
func (p *Parser) parseFunction() *ast.Function {
	start := p.cur.Start
	async := p.accept(token.ASYNC)
	p.expect(token.FUNCTION)
	name := p.expect(token.IDENT).Literal
	typeParams := p.maybeParseTypeParams()
	p.expect(token.LPAREN)
	_, params := p.parseParamListWithReceiver()
	p.expect(token.RPAREN)
	var ret *ast.TypeExpr
	if p.accept(token.COLON) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.Function{Name: name, TypeParams: typeParams, Params: params, Ret: ret, Async: async, Body: body, Pos: p.sp(start)}
}

func (p *Parser) maybeParseTypeParams() []ast.TypeParam {
	if !p.curIs(token.LT) {
		return nil
	}
	p.next()
	var tps []ast.TypeParam
	for !p.curIs(token.GT) {
		name := p.expect(token.IDENT).Literal
		bound := ""
		if p.curIs(token.EXTENDS) {
			p.next()
			bound = p.expect(token.IDENT).Literal
		}
		tps = append(tps, ast.TypeParam{Name: name, Bound: bound})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return tps
}

// parseAnnotate parses `annotate(target, attr("name", tokens`...`, ...), ...);`.
func (p *Parser) parseAnnotate() *ast.Annotate {
	start := p.cur.Start
	p.next() // `annotate` identifier
	p.expect(token.LPAREN)
	target := p.expect(token.IDENT).Literal
	var attrs []ast.AttrExpr
	for p.accept(token.COMMA) {
		attrs = append(attrs, p.parseAttrExpr())
	}
	p.expect(token.RPAREN)
	p.accept(token.SEMI)
	return &ast.Annotate{Target: target, Attrs: attrs, Pos: p.sp(start)}
}

func (p *Parser) parseAttrExpr() ast.AttrExpr {
	start := p.cur.Start
	// Accept a dotted path of identifiers, e.g. `derive(Clone)` or
	// `serde::rename(...)`.
	name := p.expect(token.IDENT).Literal
	for p.curIs(token.DOT) || p.curIs(token.DCOLON) {
		p.next()
		name += "::" + p.expect(token.IDENT).Literal
	}
	kind := "path"
	if name == "attr" {
		kind = "attr"
	} else if name == "derive" {
		kind = "derive"
	}
	var args []string
	var attrName string
	p.expect(token.LPAREN)
	if kind == "attr" {
		attrName = p.expect(token.STRING).Literal
		for p.accept(token.COMMA) {
			args = append(args, p.parseTokenArg())
		}
	} else {
		for !p.curIs(token.RPAREN) {
			args = append(args, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	if kind == "attr" {
		name = attrName
	}
	return ast.AttrExpr{Kind: kind, Name: name, Args: args, Pos: p.sp(start)}
}

// parseTokenArg parses one `tokens\`...\`` argument to `attr`, returning its
// raw token text. Only single-line, non-substituted templates are valid
// here (spec.md §4.5); neither the parser nor any later pass in this tree
// checks that constraint (TSB3302/TSB3303 are registered but not raised).
func (p *Parser) parseTokenArg() string {
	if p.curIs(token.IDENT) && p.cur.Literal == "tokens" && p.peekIs(token.TEMPLATE) {
		p.next()
		lit := p.cur.Literal
		p.next()
		return lit
	}
	lit := p.cur.Literal
	p.next()
	return lit
}
