package ast

import "github.com/tsubalang/tsuba/internal/span"

// Expr is the base interface for surface expressions.
type Expr interface {
	Node
	exprNode()
}

type ExprBase struct{ Pos span.Span }

func (b ExprBase) Position() span.Span { return b.Pos }
func (ExprBase) exprNode()             {}

// NewExprBase constructs the embeddable base shared by all Expr nodes.
func NewExprBase(fileName string, start, end int) ExprBase {
	return ExprBase{Pos: span.Span{FileName: fileName, Start: start, End: end}}
}

// Ident is a bare identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// IntLit, FloatLit, StringLit, BoolLit are literal expressions.
type IntLit struct {
	ExprBase
	Value string
}

type FloatLit struct {
	ExprBase
	Value string
}

type StringLit struct {
	ExprBase
	Value string
}

type BoolLit struct {
	ExprBase
	Value bool
}

// Binary is a binary operator expression.
type Binary struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a unary operator expression (`-x`, `!x`).
type Unary struct {
	ExprBase
	Op      string
	Operand Expr
}

// Borrow is an explicit `&x` / `&mut x` borrow expression. Borrows the
// lowering pass inserts at call sites (spec.md §4.3 Receiver insertion) are
// ait.BorrowExpr values with Inserted set, not Borrow nodes.
type Borrow struct {
	ExprBase
	Mut     bool
	Operand Expr
}

// Call is a function/method call. Callee is either an Ident (free
// function), a Field (method call `recv.method(...)`), or another Expr.
type Call struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// Field is a member access `recv.name`.
type Field struct {
	ExprBase
	Receiver Expr
	Name     string
}

// Index is an indexing expression `recv[idx]`.
type Index struct {
	ExprBase
	Receiver Expr
	Index    Expr
}

// Cast is a surface `x as T` numeric/primitive cast.
type Cast struct {
	ExprBase
	Operand Expr
	Type    *TypeExpr
}

// Closure is `(params) => body`, possibly `move`-marked.
type Closure struct {
	ExprBase
	Params []Param
	Move   bool
	Body   Expr  // non-nil for expression-bodied closures
	Block  *Block // non-nil for block-bodied closures
}

// Await is `await expr`.
type Await struct {
	ExprBase
	Operand Expr
}

// Question is the `q(expr)` marker call, lowered to `expr?`.
type Question struct {
	ExprBase
	Operand Expr
}

// UnsafeExpr is the `unsafe(() => expr)` marker call.
type UnsafeExpr struct {
	ExprBase
	Body Expr
}

// SwitchExpr models `switch (scrutinee) { case "a": ...; default: ... }`
// used as an expression (most commonly inside a match-shaped statement;
// see internal/lower for the switch→match lowering, spec.md §4.3).
type SwitchExpr struct {
	ExprBase
	Scrutinee Expr
	Cases     []SwitchCase
}

// SwitchCase is one `case <value>:` or `default:` arm. IsDefault is true
// for the bare `default:` arm; its position in Cases is preserved as its
// position in the emitted match (spec.md §9 Open Question (a)).
type SwitchCase struct {
	Value     string // string literal discriminant, empty for default
	IsDefault bool
	Body      []Stmt
	Pos       span.Span
}

// StructLit is an anonymous or named record literal `{ field: value, ... }`.
type StructLit struct {
	ExprBase
	TypeName string // "" for anonymous literals (named via typemodel hashing)
	Fields   []StructLitField
}

type StructLitField struct {
	Name  string
	Value Expr
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	ExprBase
	Elements []Expr
}

// NewE wraps construction of a record value via a named type, e.g.
// `new Counter({ n: 0 })`.
type NewE struct {
	ExprBase
	TypeName string
	Arg      Expr
}
