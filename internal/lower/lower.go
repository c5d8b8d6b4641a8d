// Package lower translates the surface AST produced by internal/parser into
// the target-language Abstract Item Tree defined by internal/ait, resolving
// ownership markers via internal/borrow and anonymous/union/trait shapes via
// internal/typemodel along the way (spec.md §2 steps 4-7, §4.3 Expression &
// statement lowering).
package lower

import (
	"fmt"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/borrow"
	"github.com/tsubalang/tsuba/internal/span"
	"github.com/tsubalang/tsuba/internal/typemodel"
)

// Lowerer holds the state shared across one file's lowering: the type model
// registry (shared across the whole compile), the file name used to key
// anonymous-shape interning, and the free-function signature table used for
// call-site receiver insertion (spec.md §4.3). Sigs is optional — nil means
// no insertion is performed, which is only correct for tests that lower a
// single function in isolation.
type Lowerer struct {
	Types    *typemodel.Registry
	FileName string
	Sigs     *borrow.SigTable
}

// New returns a Lowerer that interns anonymous shapes and resolves named
// types against types.
func New(types *typemodel.Registry, fileName string) *Lowerer {
	return &Lowerer{Types: types, FileName: fileName}
}

// LowerType resolves a surface TypeExpr, first interning any anonymous
// shapes nested within it under keyHint so borrow.LowerType never sees an
// "anon" TypeExpr kind.
func (l *Lowerer) LowerType(t *ast.TypeExpr, keyHint string) (*borrow.LoweredType, error) {
	resolved := l.resolveAnon(t, keyHint)
	return borrow.LowerType(resolved, nil)
}

// resolveAnon walks t, replacing every "anon" node with a "path" node
// pointing at its interned struct name. Nested anon shapes (e.g.
// `ref<{x: i32}>`) get distinct keys by suffixing keyHint with their
// argument index at each level so they don't collide with the outer
// shape's key.
func (l *Lowerer) resolveAnon(t *ast.TypeExpr, keyHint string) *ast.TypeExpr {
	if t == nil {
		return nil
	}
	if t.Kind == "anon" {
		def := l.Types.InternStruct(keyHint, t.AnonShape, t.Pos)
		return &ast.TypeExpr{Kind: "path", Path: []string{def.Name}, Pos: t.Pos}
	}
	if len(t.Args) == 0 {
		return t
	}
	out := *t
	out.Args = make([]*ast.TypeExpr, len(t.Args))
	for i, a := range t.Args {
		out.Args[i] = l.resolveAnon(a, fmt.Sprintf("%s/%d", keyHint, i))
	}
	return &out
}

// LowerParams lowers a function/method parameter list, keying anonymous
// shapes off the owning declaration's keyHint and each parameter's name.
func (l *Lowerer) LowerParams(params []ast.Param, keyHint string) ([]ait.Param, error) {
	out := make([]ait.Param, 0, len(params))
	for _, p := range params {
		lt, err := l.LowerType(p.Type, keyHint+"/param/"+p.Name)
		if err != nil {
			return nil, fmt.Errorf("lower: param %q: %w", p.Name, err)
		}
		out = append(out, ait.Param{Name: p.Name, Type: lt.Type})
	}
	return out, nil
}

// LowerFunction lowers a top-level free function declaration.
func (l *Lowerer) LowerFunction(fn *ast.Function) (*ait.Fn, error) {
	keyHint := "fn:" + fn.Name
	params, err := l.LowerParams(fn.Params, keyHint)
	if err != nil {
		return nil, err
	}
	ret, err := l.LowerType(fn.Ret, keyHint+"/ret")
	if err != nil {
		return nil, fmt.Errorf("lower: %s return type: %w", fn.Name, err)
	}
	body, err := l.LowerBlock(fn.Body)
	if err != nil {
		return nil, fmt.Errorf("lower: %s body: %w", fn.Name, err)
	}
	return &ait.Fn{
		Vis:    "pub",
		Async:  fn.Async,
		Name:   fn.Name,
		Params: params,
		Ret:    ret.Type,
		Body:   body,
		Span:   fn.Pos,
	}, nil
}

// LowerMethod lowers one class method; typeName scopes anonymous-shape keys
// so two classes' same-named methods don't collide.
func (l *Lowerer) LowerMethod(m *ast.Method, typeName string) (*ait.Fn, error) {
	keyHint := "method:" + typeName + "." + m.Name
	params, err := l.LowerParams(m.Params, keyHint)
	if err != nil {
		return nil, err
	}
	ret, err := l.LowerType(m.Ret, keyHint+"/ret")
	if err != nil {
		return nil, fmt.Errorf("lower: %s.%s return type: %w", typeName, m.Name, err)
	}
	body, err := l.LowerBlock(m.Body)
	if err != nil {
		return nil, fmt.Errorf("lower: %s.%s body: %w", typeName, m.Name, err)
	}
	return &ait.Fn{
		Vis:      "pub",
		Async:    m.Async,
		Receiver: borrow.ReceiverFor(m.Receiver),
		Name:     m.Name,
		Params:   params,
		Ret:      ret.Type,
		Body:     body,
		Span:     m.Pos,
	}, nil
}

// LowerBlock lowers every statement of a block in order.
func (l *Lowerer) LowerBlock(b *ast.Block) ([]ait.Stmt, error) {
	if b == nil {
		return nil, nil
	}
	out := make([]ait.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		lowered, err := l.LowerStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

// LowerStmt lowers one surface statement.
func (l *Lowerer) LowerStmt(s ast.Stmt) (ait.Stmt, error) {
	switch st := s.(type) {
	case *ast.Block:
		stmts, err := l.LowerBlock(st)
		if err != nil {
			return nil, err
		}
		return &ait.BlockStmt{Stmts: stmts, Span: st.Pos}, nil

	case *ast.LetStmt:
		init, err := l.LowerExpr(st.Init)
		if err != nil {
			return nil, err
		}
		mut := st.Mut
		var rt *ait.RustType
		if st.Type != nil {
			lt, err := l.LowerType(st.Type, "let:"+st.Name+":"+st.Pos.String())
			if err != nil {
				return nil, fmt.Errorf("lower: let %s: %w", st.Name, err)
			}
			rt = lt.Type
			mut = mut || lt.LocalMut
		}
		return &ait.LetStmt{Name: st.Name, Mut: mut, Type: rt, Init: init, Span: st.Pos}, nil

	case *ast.ReturnStmt:
		var v ait.Expr
		if st.Value != nil {
			var err error
			v, err = l.LowerExpr(st.Value)
			if err != nil {
				return nil, err
			}
		}
		return &ait.ReturnStmt{Value: v, Span: st.Pos}, nil

	case *ast.ExprStmt:
		x, err := l.LowerExpr(st.X)
		if err != nil {
			return nil, err
		}
		return &ait.ExprStmt{X: x, Span: st.Pos}, nil

	case *ast.IfStmt:
		return l.lowerIf(st)

	case *ast.WhileStmt:
		cond, err := l.LowerExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.LowerBlock(st.Body)
		if err != nil {
			return nil, err
		}
		return &ait.WhileStmt{Cond: cond, Body: body, Span: st.Pos}, nil

	case *ast.LoopStmt:
		body, err := l.LowerBlock(st.Body)
		if err != nil {
			return nil, err
		}
		return &ait.LoopStmt{Body: body, Span: st.Pos}, nil

	case *ast.BreakStmt:
		return &ait.BreakStmt{Span: st.Pos}, nil

	case *ast.ContinueStmt:
		return &ait.ContinueStmt{Span: st.Pos}, nil

	case *ast.SwitchStmt:
		return l.lowerSwitch(st.Scrutinee, st.Cases, st.Pos)

	case *ast.MatchStmt:
		return l.lowerMatch(st.Scrutinee, st.Arms, st.Pos)

	default:
		return nil, fmt.Errorf("lower: unhandled statement %T", s)
	}
}

// lowerIf flattens the surface's recursive `else if` chain into an
// ait.IfStmt, recursing through Else when it holds another *ast.IfStmt.
func (l *Lowerer) lowerIf(st *ast.IfStmt) (ait.Stmt, error) {
	cond, err := l.LowerExpr(st.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.LowerBlock(st.Then)
	if err != nil {
		return nil, err
	}
	var els []ait.Stmt
	switch e := st.Else.(type) {
	case nil:
	case *ast.Block:
		els, err = l.LowerBlock(e)
		if err != nil {
			return nil, err
		}
	case *ast.IfStmt:
		nested, err := l.lowerIf(e)
		if err != nil {
			return nil, err
		}
		els = []ait.Stmt{nested}
	default:
		return nil, fmt.Errorf("lower: unhandled if-else arm %T", st.Else)
	}
	return &ait.IfStmt{Cond: cond, Then: then, Else: els, Span: st.Pos}, nil
}

// lowerSwitch lowers a string-discriminated `switch` into a `match` over the
// scrutinee's string value, preserving case order (including the default
// arm's original position) exactly: spec.md §9 Open Question (a) resolves
// in favor of positional fidelity over hoisting default to the end.
func (l *Lowerer) lowerSwitch(scrutinee ast.Expr, cases []ast.SwitchCase, pos span.Span) (ait.Stmt, error) {
	scr, err := l.LowerExpr(scrutinee)
	if err != nil {
		return nil, err
	}
	arms := make([]ait.MatchArm, 0, len(cases))
	for _, c := range cases {
		body, err := l.lowerStmtList(c.Body)
		if err != nil {
			return nil, err
		}
		pattern := "_"
		if !c.IsDefault {
			pattern = fmt.Sprintf("%q", c.Value)
		}
		arms = append(arms, ait.MatchArm{Pattern: pattern, Body: body})
	}
	return &ait.MatchStmt{Scrutinee: scr, Arms: arms, Span: pos}, nil
}

// lowerMatch lowers a native `match` statement's arms, rendering each
// surface Pattern to its Rust pattern text.
func (l *Lowerer) lowerMatch(scrutinee ast.Expr, armsIn []ast.MatchArm, pos span.Span) (ait.Stmt, error) {
	scr, err := l.LowerExpr(scrutinee)
	if err != nil {
		return nil, err
	}
	arms := make([]ait.MatchArm, 0, len(armsIn))
	for _, a := range armsIn {
		body, err := l.lowerStmtList(a.Body)
		if err != nil {
			return nil, err
		}
		pattern, bindings := RenderPattern(a.Pattern)
		arms = append(arms, ait.MatchArm{Pattern: pattern, Bindings: bindings, Body: body})
	}
	return &ait.MatchStmt{Scrutinee: scr, Arms: arms, Span: pos}, nil
}

func (l *Lowerer) lowerStmtList(stmts []ast.Stmt) ([]ait.Stmt, error) {
	out := make([]ait.Stmt, 0, len(stmts))
	for _, s := range stmts {
		lowered, err := l.LowerStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

// RenderPattern renders a surface Pattern to Rust pattern syntax and the
// variable names it binds.
func RenderPattern(p ast.Pattern) (string, []string) {
	switch p.Kind {
	case "wildcard":
		return "_", nil
	case "ident":
		return p.Name, []string{p.Name}
	case "variant":
		switch p.Shape {
		case "tuple":
			return fmt.Sprintf("%s(%s)", p.Variant, joinComma(p.Bindings)), p.Bindings
		case "struct":
			if len(p.Bindings) == 0 {
				return p.Variant, nil
			}
			return fmt.Sprintf("%s { %s }", p.Variant, joinComma(p.Bindings)), p.Bindings
		default:
			return p.Variant, nil
		}
	default:
		return "_", nil
	}
}

func joinComma(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ", "
		}
		out += x
	}
	return out
}
