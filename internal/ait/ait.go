// Package ait defines the target-language Abstract Item Tree: a minimal
// model of idiomatic Rust source, built by internal/lower and internal/emit
// and serialized by internal/render (spec.md §3 Target-language IR).
package ait

import "github.com/tsubalang/tsuba/internal/span"

// RustType is the tagged-variant type model RustType from spec.md §3. Kind
// selects which fields are meaningful; the zero value of unused fields is
// never read.
type RustType struct {
	Kind RustTypeKind

	Name    string      // primitive(name)
	Mut     bool        // ref{mut, inner}
	Inner   *RustType   // ref/option inner
	Path    []string    // generic{path}/path(segments)
	Args    []*RustType // generic{args}
	Ok, Err *RustType   // result(ok, err)
	Tuple   []*RustType // tuple(types)
}

type RustTypeKind string

const (
	RTPrimitive RustTypeKind = "primitive"
	RTRef       RustTypeKind = "ref"
	RTGeneric   RustTypeKind = "generic"
	RTPath      RustTypeKind = "path"
	RTOption    RustTypeKind = "option"
	RTResult    RustTypeKind = "result"
	RTTuple     RustTypeKind = "tuple"
	RTNever     RustTypeKind = "never"
	RTUnit      RustTypeKind = "unit"
)

// Item is any top-level or module-level AIT item.
type Item interface{ itemNode() }

// Mod is `mod name { items }`.
type Mod struct {
	Name  string
	Items []Item
}

func (*Mod) itemNode() {}

// Use is a `use path;` item.
type Use struct {
	Path  string
	Alias string
}

func (*Use) itemNode() {}

// Receiver classifies a Fn's `self` parameter.
type Receiver string

const (
	RecvNone   Receiver = ""
	RecvRef    Receiver = "&self"
	RecvMutRef Receiver = "&mut self"
	RecvOwned  Receiver = "self"
)

// Param is one Fn parameter (excluding the receiver).
type Param struct {
	Name string
	Type *RustType
}

// Fn is a free function, method, or the synthesized `main`.
type Fn struct {
	Attrs      []string
	Vis        string // "pub" or ""
	Async      bool
	TypeParams []string
	Receiver   Receiver
	Name       string
	Params     []Param
	Ret        *RustType
	Body       []Stmt
	Span       span.Span
}

func (*Fn) itemNode() {}

// StructField is one field of a Struct item.
type StructField struct {
	Name string
	Type *RustType
}

// Struct is a `struct Name { fields }` or unit/tuple struct item.
type Struct struct {
	Attrs  []string
	Name   string
	Fields []StructField
	Span   span.Span
}

func (*Struct) itemNode() {}

// EnumVariant is one arm of an Enum.
type EnumVariant struct {
	Name   string
	Shape  string // "unit" | "tuple" | "struct"
	Fields []StructField
}

// Enum is a discriminated-union type lowered from a UnionDef.
type Enum struct {
	Attrs    []string
	Name     string
	Variants []EnumVariant
	Span     span.Span
}

func (*Enum) itemNode() {}

// Trait is lowered from a TraitDef.
type Trait struct {
	Name        string
	Supertraits []string
	Methods     []*Fn
	Span        span.Span
}

func (*Trait) itemNode() {}

// Impl is `impl [Trait for] Type { methods }`.
type Impl struct {
	Trait   string // "" for an inherent impl
	ForType string
	Methods []*Fn
}

func (*Impl) itemNode() {}

// Stmt is any statement inside a Fn body.
type Stmt interface{ stmtNode() }

// Span is the originating source position of a statement, used to place
// `// tsuba-span` comments at statement boundaries (spec.md §4.10). It is
// the zero value (span.Span{}) for statements synthesized by a pass rather
// than lowered directly from a surface statement.
type LetStmt struct {
	Name string
	Mut  bool
	Type *RustType
	Init Expr
	Span span.Span
}

func (*LetStmt) stmtNode() {}

type ReturnStmt struct {
	Value Expr
	Span  span.Span
}

func (*ReturnStmt) stmtNode() {}

type ExprStmt struct {
	X    Expr
	Span span.Span
}

func (*ExprStmt) stmtNode() {}

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Span span.Span
}

func (*IfStmt) stmtNode() {}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Span span.Span
}

func (*WhileStmt) stmtNode() {}

type LoopStmt struct {
	Body []Stmt
	Span span.Span
}

func (*LoopStmt) stmtNode() {}

type BreakStmt struct{ Span span.Span }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ Span span.Span }

func (*ContinueStmt) stmtNode() {}

// MatchArm is one `pattern => { body }` arm of a MatchStmt/MatchExpr.
type MatchArm struct {
	Pattern  string // rendered pattern text, e.g. "Shape::Circle { radius }"
	Bindings []string
	Body     []Stmt
}

type MatchStmt struct {
	Scrutinee Expr
	Arms      []MatchArm
	Span      span.Span
}

func (*MatchStmt) stmtNode() {}

type BlockStmt struct {
	Stmts []Stmt
	Span  span.Span
}

func (*BlockStmt) stmtNode() {}

// Expr is any expression.
type Expr interface{ exprNode() }

type PathExpr struct{ Segments []string }

func (*PathExpr) exprNode() {}

type LiteralExpr struct {
	Kind  string // "int" | "float" | "string" | "bool"
	Value string
}

func (*LiteralExpr) exprNode() {}

type BinaryExpr struct {
	Op          string
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BorrowExpr is `&expr` / `&mut expr`. Inserted marks a call-site borrow
// the compiler added (rather than one the user wrote explicitly), which
// renders with its operand parenthesized: `&mut (x)` (spec.md §4.3 Receiver
// insertion, §9 "mut<T> local binding + call to mutref<T> parameter ->
// &mut (x)").
type BorrowExpr struct {
	Mut      bool
	Inserted bool
	Operand  Expr
}

func (*BorrowExpr) exprNode() {}

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// MethodCallExpr is `recv.method(args)`.
type MethodCallExpr struct {
	Receiver Expr
	Method   string
	Args     []Expr
}

func (*MethodCallExpr) exprNode() {}

type FieldExpr struct {
	Receiver Expr
	Name     string
}

func (*FieldExpr) exprNode() {}

type IndexExpr struct {
	Receiver Expr
	Index    Expr
}

func (*IndexExpr) exprNode() {}

type CastExpr struct {
	Operand Expr
	Type    *RustType
}

func (*CastExpr) exprNode() {}

type AwaitExpr struct{ Operand Expr }

func (*AwaitExpr) exprNode() {}

// TryExpr is the lowered `expr?` (from the surface `q(expr)` marker).
type TryExpr struct{ Operand Expr }

func (*TryExpr) exprNode() {}

// UnsafeExpr is `unsafe { body }` (from the surface `unsafe(() => body)` marker).
type UnsafeExpr struct{ Body Expr }

func (*UnsafeExpr) exprNode() {}

// ClosureExpr is `[move] |params| body`.
type ClosureExpr struct {
	Move   bool
	Params []Param
	Body   []Stmt
}

func (*ClosureExpr) exprNode() {}

type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) exprNode() {}

// StructLitExpr is `TypeName { field: value, ... }`.
type StructLitExpr struct {
	TypeName string
	Fields   map[string]Expr
	// FieldOrder preserves declared field order for deterministic rendering.
	FieldOrder []string
}

func (*StructLitExpr) exprNode() {}

type ArrayLitExpr struct{ Elements []Expr }

func (*ArrayLitExpr) exprNode() {}
