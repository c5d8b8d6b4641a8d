package lower

import (
	"fmt"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/borrow"
)

// LowerExpr lowers one surface expression to its AIT equivalent.
func (l *Lowerer) LowerExpr(e ast.Expr) (ait.Expr, error) {
	switch ex := e.(type) {
	case nil:
		return nil, nil

	case *ast.Ident:
		return &ait.PathExpr{Segments: []string{ex.Name}}, nil

	case *ast.IntLit:
		return &ait.LiteralExpr{Kind: "int", Value: ex.Value}, nil

	case *ast.FloatLit:
		return &ait.LiteralExpr{Kind: "float", Value: ex.Value}, nil

	case *ast.StringLit:
		return &ait.LiteralExpr{Kind: "string", Value: ex.Value}, nil

	case *ast.BoolLit:
		v := "false"
		if ex.Value {
			v = "true"
		}
		return &ait.LiteralExpr{Kind: "bool", Value: v}, nil

	case *ast.Binary:
		left, err := l.LowerExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.LowerExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return &ait.BinaryExpr{Op: ex.Op, Left: left, Right: right}, nil

	case *ast.Unary:
		operand, err := l.LowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		return &ait.UnaryExpr{Op: ex.Op, Operand: operand}, nil

	case *ast.Borrow:
		operand, err := l.LowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		return &ait.BorrowExpr{Mut: ex.Mut, Operand: operand}, nil

	case *ast.Call:
		return l.lowerCall(ex)

	case *ast.Field:
		recv, err := l.LowerExpr(ex.Receiver)
		if err != nil {
			return nil, err
		}
		return &ait.FieldExpr{Receiver: recv, Name: ex.Name}, nil

	case *ast.Index:
		recv, err := l.LowerExpr(ex.Receiver)
		if err != nil {
			return nil, err
		}
		idx, err := l.LowerExpr(ex.Index)
		if err != nil {
			return nil, err
		}
		return &ait.IndexExpr{Receiver: recv, Index: idx}, nil

	case *ast.Cast:
		operand, err := l.LowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		lt, err := l.LowerType(ex.Type, "cast:"+ex.Pos.String())
		if err != nil {
			return nil, fmt.Errorf("lower: cast type: %w", err)
		}
		return &ait.CastExpr{Operand: operand, Type: lt.Type}, nil

	case *ast.Closure:
		return l.lowerClosure(ex)

	case *ast.Await:
		operand, err := l.LowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		return &ait.AwaitExpr{Operand: operand}, nil

	case *ast.Question:
		operand, err := l.LowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		return &ait.TryExpr{Operand: operand}, nil

	case *ast.UnsafeExpr:
		body, err := l.LowerExpr(ex.Body)
		if err != nil {
			return nil, err
		}
		return &ait.UnsafeExpr{Body: body}, nil

	case *ast.SwitchExpr:
		stmt, err := l.lowerSwitch(ex.Scrutinee, ex.Cases, ex.Pos)
		if err != nil {
			return nil, err
		}
		ms := stmt.(*ait.MatchStmt)
		return &ait.MatchExpr{Scrutinee: ms.Scrutinee, Arms: ms.Arms}, nil

	case *ast.StructLit:
		return l.lowerStructLit(ex)

	case *ast.ArrayLit:
		elems := make([]ait.Expr, 0, len(ex.Elements))
		for _, el := range ex.Elements {
			le, err := l.LowerExpr(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, le)
		}
		return &ait.ArrayLitExpr{Elements: elems}, nil

	case *ast.NewE:
		return l.lowerNew(ex)

	default:
		return nil, fmt.Errorf("lower: unhandled expression %T", e)
	}
}

// lowerCall distinguishes a method call (`recv.method(args)`, whose Callee
// is a *ast.Field) from a free-function call so the AIT keeps them as
// distinct node kinds for rendering (spec.md §4.3 Receiver insertion).
func (l *Lowerer) lowerCall(c *ast.Call) (ait.Expr, error) {
	args := make([]ait.Expr, 0, len(c.Args))
	for _, a := range c.Args {
		la, err := l.LowerExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, la)
	}
	if field, ok := c.Callee.(*ast.Field); ok {
		recv, err := l.LowerExpr(field.Receiver)
		if err != nil {
			return nil, err
		}
		return &ait.MethodCallExpr{Receiver: recv, Method: field.Name, Args: args}, nil
	}
	callee, err := l.LowerExpr(c.Callee)
	if err != nil {
		return nil, err
	}
	if ident, ok := c.Callee.(*ast.Ident); ok && l.Sigs != nil {
		if sig, found := l.Sigs.Funcs[ident.Name]; found {
			l.insertCallBorrows(args, c.Args, sig)
		}
	}
	return &ait.CallExpr{Callee: callee, Args: args}, nil
}

// insertCallBorrows applies spec.md §4.3's receiver-insertion rule in
// place: a free-function parameter declared `ref<T>`/`mutref<T>` makes the
// caller insert `&(x)`/`&mut (x)` around the already-lowered argument,
// unless the surface argument was already an explicit borrow.
func (l *Lowerer) insertCallBorrows(args []ait.Expr, rawArgs []ast.Expr, sig borrow.Signature) {
	for i := range args {
		if i >= len(sig.Params) {
			return
		}
		kind := sig.Params[i]
		if kind == borrow.ParamOwned {
			continue
		}
		if _, already := rawArgs[i].(*ast.Borrow); already {
			continue
		}
		args[i] = &ait.BorrowExpr{Mut: kind == borrow.ParamMutRef, Inserted: true, Operand: args[i]}
	}
}

// lowerClosure lowers `(params) => expr` and `(params) => { stmts }` alike
// to a single-shaped ClosureExpr body (expression bodies are wrapped as an
// implicit trailing ExprStmt, matching the surface's expression-as-value
// convention).
func (l *Lowerer) lowerClosure(c *ast.Closure) (ait.Expr, error) {
	keyHint := fmt.Sprintf("closure:%s", c.Pos.String())
	params, err := l.LowerParams(c.Params, keyHint)
	if err != nil {
		return nil, err
	}
	var body []ait.Stmt
	if c.Block != nil {
		body, err = l.LowerBlock(c.Block)
		if err != nil {
			return nil, err
		}
	} else if c.Body != nil {
		x, err := l.LowerExpr(c.Body)
		if err != nil {
			return nil, err
		}
		body = []ait.Stmt{&ait.ExprStmt{X: x}}
	}
	return &ait.ClosureExpr{Move: c.Move, Params: params, Body: body}, nil
}

// lowerStructLit lowers a surface record literal. Anonymous literals
// (TypeName == "") get their type name from the typemodel registry, keyed
// on the literal's field names in written order, so every anonymous literal
// with the same field-name list, at any call site, resolves to the same
// interned shape.
func (l *Lowerer) lowerStructLit(s *ast.StructLit) (ait.Expr, error) {
	fields := make(map[string]ait.Expr, len(s.Fields))
	order := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		fv, err := l.LowerExpr(f.Value)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = fv
		order = append(order, f.Name)
	}
	typeName := s.TypeName
	if typeName == "" {
		var astFields []ast.Field
		for _, f := range s.Fields {
			astFields = append(astFields, ast.Field{Name: f.Name})
		}
		key := "structlit:" + structLitShapeKey(order)
		typeName = l.Types.InternStruct(key, astFields, s.Pos).Name
	}
	return &ait.StructLitExpr{TypeName: typeName, Fields: fields, FieldOrder: order}, nil
}

func structLitShapeKey(fieldNames []string) string {
	key := ""
	for i, n := range fieldNames {
		if i > 0 {
			key += ","
		}
		key += n
	}
	return key
}

// lowerNew lowers `new Type(arg)`. When arg is itself a record literal its
// fields are hoisted directly into the StructLitExpr under the named type
// (the common case); otherwise the construction is rendered as a plain
// call to Type's constructor, since the surface gives no literal fields to
// hoist.
func (l *Lowerer) lowerNew(n *ast.NewE) (ait.Expr, error) {
	if lit, ok := n.Arg.(*ast.StructLit); ok {
		withName := *lit
		withName.TypeName = n.TypeName
		return l.lowerStructLit(&withName)
	}
	arg, err := l.LowerExpr(n.Arg)
	if err != nil {
		return nil, err
	}
	return &ait.CallExpr{
		Callee: &ait.PathExpr{Segments: []string{n.TypeName, "new"}},
		Args:   []ait.Expr{arg},
	}, nil
}
