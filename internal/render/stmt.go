package render

import (
	"fmt"
	"strings"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/span"
)

// renderStmts renders a statement list, prefixing each statement that
// carries a real (non-synthetic, non-zero) span with a `// tsuba-span`
// comment line for internal/sourcemap to pick up afterward.
func renderStmts(b *strings.Builder, indent string, stmts []ait.Stmt) {
	for _, s := range stmts {
		renderSpanComment(b, indent, stmtSpan(s))
		renderStmt(b, indent, s)
	}
}

func renderSpanComment(b *strings.Builder, indent string, sp span.Span) {
	if !sp.Valid() || sp.IsSynthetic() {
		return
	}
	fmt.Fprintf(b, "%s// tsuba-span: %s:%d:%d\n", indent, sp.FileName, sp.Start, sp.End)
}

func stmtSpan(s ait.Stmt) span.Span {
	switch v := s.(type) {
	case *ait.LetStmt:
		return v.Span
	case *ait.ReturnStmt:
		return v.Span
	case *ait.ExprStmt:
		return v.Span
	case *ait.IfStmt:
		return v.Span
	case *ait.WhileStmt:
		return v.Span
	case *ait.LoopStmt:
		return v.Span
	case *ait.BreakStmt:
		return v.Span
	case *ait.ContinueStmt:
		return v.Span
	case *ait.MatchStmt:
		return v.Span
	case *ait.BlockStmt:
		return v.Span
	default:
		return span.Span{}
	}
}

func renderStmt(b *strings.Builder, indent string, s ait.Stmt) {
	switch v := s.(type) {
	case *ait.LetStmt:
		mut := ""
		if v.Mut {
			mut = "mut "
		}
		ty := ""
		if v.Type != nil {
			ty = ": " + RenderType(v.Type)
		}
		if v.Init != nil {
			fmt.Fprintf(b, "%slet %s%s%s = %s;\n", indent, mut, v.Name, ty, renderExpr(v.Init))
		} else {
			fmt.Fprintf(b, "%slet %s%s%s;\n", indent, mut, v.Name, ty)
		}

	case *ait.ReturnStmt:
		if v.Value != nil {
			fmt.Fprintf(b, "%sreturn %s;\n", indent, renderExpr(v.Value))
		} else {
			fmt.Fprintf(b, "%sreturn;\n", indent)
		}

	case *ait.ExprStmt:
		fmt.Fprintf(b, "%s%s;\n", indent, renderExpr(v.X))

	case *ait.IfStmt:
		fmt.Fprintf(b, "%sif %s {\n", indent, renderExpr(v.Cond))
		renderStmts(b, indent+"    ", v.Then)
		if len(v.Else) > 0 {
			fmt.Fprintf(b, "%s} else {\n", indent)
			renderStmts(b, indent+"    ", v.Else)
		}
		fmt.Fprintf(b, "%s}\n", indent)

	case *ait.WhileStmt:
		fmt.Fprintf(b, "%swhile %s {\n", indent, renderExpr(v.Cond))
		renderStmts(b, indent+"    ", v.Body)
		fmt.Fprintf(b, "%s}\n", indent)

	case *ait.LoopStmt:
		fmt.Fprintf(b, "%sloop {\n", indent)
		renderStmts(b, indent+"    ", v.Body)
		fmt.Fprintf(b, "%s}\n", indent)

	case *ait.BreakStmt:
		fmt.Fprintf(b, "%sbreak;\n", indent)

	case *ait.ContinueStmt:
		fmt.Fprintf(b, "%scontinue;\n", indent)

	case *ait.MatchStmt:
		renderMatch(b, indent, v.Scrutinee, v.Arms)

	case *ait.BlockStmt:
		fmt.Fprintf(b, "%s{\n", indent)
		renderStmts(b, indent+"    ", v.Stmts)
		fmt.Fprintf(b, "%s}\n", indent)

	default:
		fmt.Fprintf(b, "%s// render: unhandled statement %T\n", indent, s)
	}
}

func renderMatch(b *strings.Builder, indent string, scrutinee ait.Expr, arms []ait.MatchArm) {
	fmt.Fprintf(b, "%smatch %s {\n", indent, renderExpr(scrutinee))
	for _, a := range arms {
		fmt.Fprintf(b, "%s    %s => {\n", indent, a.Pattern)
		renderStmts(b, indent+"        ", a.Body)
		fmt.Fprintf(b, "%s    }\n", indent)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

// renderExpr renders one AIT expression to its Rust source text.
func renderExpr(e ait.Expr) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *ait.PathExpr:
		return strings.Join(v.Segments, "::")
	case *ait.LiteralExpr:
		if v.Kind == "string" {
			return fmt.Sprintf("%q", v.Value)
		}
		return v.Value
	case *ait.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", renderExpr(v.Left), v.Op, renderExpr(v.Right))
	case *ait.UnaryExpr:
		return fmt.Sprintf("%s%s", v.Op, renderExpr(v.Operand))
	case *ait.BorrowExpr:
		inner := renderExpr(v.Operand)
		if v.Inserted {
			inner = "(" + inner + ")"
		}
		if v.Mut {
			return "&mut " + inner
		}
		return "&" + inner
	case *ait.CallExpr:
		return fmt.Sprintf("%s(%s)", renderExpr(v.Callee), renderExprList(v.Args))
	case *ait.MethodCallExpr:
		return fmt.Sprintf("%s.%s(%s)", renderExpr(v.Receiver), v.Method, renderExprList(v.Args))
	case *ait.FieldExpr:
		return fmt.Sprintf("%s.%s", renderExpr(v.Receiver), v.Name)
	case *ait.IndexExpr:
		return fmt.Sprintf("%s[%s]", renderExpr(v.Receiver), renderExpr(v.Index))
	case *ait.CastExpr:
		return fmt.Sprintf("(%s as %s)", renderExpr(v.Operand), RenderType(v.Type))
	case *ait.AwaitExpr:
		return renderExpr(v.Operand) + ".await"
	case *ait.TryExpr:
		return renderExpr(v.Operand) + "?"
	case *ait.UnsafeExpr:
		return fmt.Sprintf("unsafe { %s }", renderExpr(v.Body))
	case *ait.ClosureExpr:
		return renderClosure(v)
	case *ait.MatchExpr:
		var b strings.Builder
		renderMatch(&b, "", v.Scrutinee, v.Arms)
		return strings.TrimRight(b.String(), "\n")
	case *ait.StructLitExpr:
		return renderStructLit(v)
	case *ait.ArrayLitExpr:
		return fmt.Sprintf("[%s]", renderExprList(v.Elements))
	default:
		return fmt.Sprintf("/* render: unhandled expr %T */", e)
	}
}

func renderExprList(es []ait.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = renderExpr(e)
	}
	return strings.Join(parts, ", ")
}

func renderClosure(c *ait.ClosureExpr) string {
	var params []string
	for _, p := range c.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, RenderType(p.Type)))
	}
	mv := ""
	if c.Move {
		mv = "move "
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s| {\n", mv, strings.Join(params, ", "))
	renderStmts(&b, "    ", c.Body)
	b.WriteString("}")
	return b.String()
}

func renderStructLit(s *ait.StructLitExpr) string {
	var parts []string
	for _, name := range s.FieldOrder {
		parts = append(parts, fmt.Sprintf("%s: %s", name, renderExpr(s.Fields[name])))
	}
	return fmt.Sprintf("%s { %s }", s.TypeName, strings.Join(parts, ", "))
}
