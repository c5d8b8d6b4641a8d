// Package ast defines the surface-language AST produced by internal/parser:
// a strict, Rust-flavored subset of a structurally typed language (spec.md
// §1, §3, §4.2).
package ast

import "github.com/tsubalang/tsuba/internal/span"

// Node is the base interface every AST node implements.
type Node interface {
	Position() span.Span
}

// File is one user source file: its imports, declarations (in source
// order), and annotate statements.
type File struct {
	FileName    string
	Imports     []*Import
	TypeAliases []*TypeAlias
	Interfaces  []*Interface
	Classes     []*Class
	Functions   []*Function
	Annotations []*Annotate
	Span        span.Span
}

func (f *File) Position() span.Span { return f.Span }

// Import is a surface `import { a, b } from "specifier"` statement.
type Import struct {
	Specifier string
	Bindings  []ImportBinding
	Span      span.Span
}

func (n *Import) Position() span.Span { return n.Span }

// ImportBinding is one named import, optionally aliased.
type ImportBinding struct {
	Name  string
	Alias string // "" if not aliased
}

// TypeParam is a generic type parameter with an optional trait bound
// (`T extends Bound`).
type TypeParam struct {
	Name  string
	Bound string // "" if unbounded
}

// TypeExpr is the surface type grammar: primitives, generics, unions,
// ownership markers (ref/mutref/mut and their lifetime variants), and
// anonymous object-literal types.
type TypeExpr struct {
	// Kind is one of: "path", "ref", "mutref", "mut", "refLt", "mutrefLt",
	// "option", "result", "tuple", "anon".
	Kind      string
	Path      []string // for Kind == "path": dotted/segmented name
	Args      []*TypeExpr
	Lifetime  string // for refLt/mutrefLt
	AnonShape []Field
	Pos       span.Span
}

func (t *TypeExpr) Position() span.Span { return t.Pos }

// Field is a struct/interface/anonymous-shape member.
type Field struct {
	Name string
	Type *TypeExpr
	Pos  span.Span
}

// TypeAlias is `type Name = <union or object type>`.
type TypeAlias struct {
	Name     string
	Variants []UnionVariant // len==1 with no "kind" discriminant => plain struct alias
	Pos      span.Span
}

func (n *TypeAlias) Position() span.Span { return n.Pos }

// UnionVariant is one arm of a string-discriminated union
// `{kind: "tag"; ...fields}`.
type UnionVariant struct {
	Tag    string
	Fields []Field
	Pos    span.Span
}

// Interface is a surface `interface` declaration, lowered to a trait.
type Interface struct {
	Name       string
	Extends    []string
	Methods    []*MethodSig
	Pos        span.Span
}

func (n *Interface) Position() span.Span { return n.Pos }

// MethodSig is one interface method signature.
type MethodSig struct {
	Name     string
	Receiver ReceiverKind
	Params   []Param
	Ret      *TypeExpr
	Pos      span.Span
}

// ReceiverKind classifies how a method's `this` parameter was declared.
type ReceiverKind int

const (
	ReceiverNone ReceiverKind = iota // static method, no `this`
	ReceiverRef                      // this: ref<Self>
	ReceiverMutRef                   // this: mutref<Self>
	ReceiverOwned                    // this: Self
)

// Param is one function/method parameter.
type Param struct {
	Name     string
	Type     *TypeExpr
	Default  Expr // nil if no default value
	Pos      span.Span
}

// Class is a surface `class` declaration, lowered to a struct + impl blocks.
type Class struct {
	Name       string
	Implements []string
	Extends    string // "" unless present; rejected with a stable diagnostic
	Fields     []Field
	Methods    []*Method
	Pos        span.Span
}

func (n *Class) Position() span.Span { return n.Pos }

// Method is a class method declaration.
type Method struct {
	Name     string
	Receiver ReceiverKind
	Static   bool
	TypeParams []TypeParam
	Params   []Param
	Ret      *TypeExpr
	Async    bool
	Body     *Block
	Pos      span.Span
}

// Function is a top-level free function declaration.
type Function struct {
	Name       string
	TypeParams []TypeParam
	Params     []Param
	Ret        *TypeExpr
	Async      bool
	Body       *Block
	Pos        span.Span
}

func (n *Function) Position() span.Span { return n.Pos }

// Annotate is a surface `annotate(target, attr(...), ...)` statement.
type Annotate struct {
	Target string
	Attrs  []AttrExpr
	Pos    span.Span
}

func (n *Annotate) Position() span.Span { return n.Pos }

// AttrExpr is one argument to `annotate`: an `attr("name", tokens`...`, ...)`
// call, a derive-branded expression, or another attr-macro-branded call.
type AttrExpr struct {
	// Kind is one of "attr", "derive", "path".
	Kind string
	Name string   // attribute name, or derive-macro name, or dotted path
	Args []string // raw token text of each additional argument
	Pos  span.Span
}
