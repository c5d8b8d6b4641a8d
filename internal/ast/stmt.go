package ast

import "github.com/tsubalang/tsuba/internal/span"

// Stmt is the base interface for surface statements.
type Stmt interface {
	Node
	stmtNode()
}

type StmtBase struct{ Pos span.Span }

func (b StmtBase) Position() span.Span { return b.Pos }
func (StmtBase) stmtNode()             {}

// NewStmtBase constructs the embeddable base shared by all Stmt nodes.
func NewStmtBase(fileName string, start, end int) StmtBase {
	return StmtBase{Pos: span.Span{FileName: fileName, Start: start, End: end}}
}

// Block is a `{ ... }` statement sequence.
type Block struct {
	StmtBase
	Stmts []Stmt
}

// LetStmt is `let [mut] name[: T] = expr;`.
type LetStmt struct {
	StmtBase
	Name string
	Mut  bool
	Type *TypeExpr // nil if elided
	Init Expr
}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	StmtBase
	Value Expr // nil for bare `return;`
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	StmtBase
	X Expr
}

// IfStmt is `if (cond) { ... } else { ... }`.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then *Block
	Else Stmt // *Block or *IfStmt, nil if no else
}

// WhileStmt is `while (cond) { ... }`.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body *Block
}

// LoopStmt is `loop { ... }`.
type LoopStmt struct {
	StmtBase
	Body *Block
}

// BreakStmt and ContinueStmt are `break;` / `continue;`.
type BreakStmt struct{ StmtBase }
type ContinueStmt struct{ StmtBase }

// SwitchStmt is a `switch (scrutinee) { case ...: ...; default: ... }`
// statement, lowered to a `match` (spec.md §4.3).
type SwitchStmt struct {
	StmtBase
	Scrutinee Expr
	Cases     []SwitchCase
}

// MatchStmt is a native surface `match` expression used as a statement
// (distinct from the desugared `switch`; both funnel into the same
// internal/lower match builder).
type MatchStmt struct {
	StmtBase
	Scrutinee Expr
	Arms      []MatchArm
}

type MatchArm struct {
	Pattern Pattern
	Body    []Stmt
	Pos     span.Span
}

// Pattern is a minimal match-pattern grammar: a bound variable, a wildcard
// `_`, or a variant pattern `Tag { fields }` / `Tag(...)`.
type Pattern struct {
	// Kind is one of "wildcard", "ident", "variant".
	Kind    string
	Name    string
	Variant string
	// Shape distinguishes `Tag { a, b }` ("struct") from `Tag(a, b)`
	// ("tuple") for Kind == "variant"; unused otherwise.
	Shape    string
	Bindings []string
	Pos      span.Span
}
