// Package borrow models the surface ownership markers (ref<T>, mutref<T>,
// mut<T>, and their lifetime-parameterized variants) and infers the local
// mutability a `let` binding needs from its declared type (spec.md §3
// Ownership markers, §4.1 Classify main / receiver inference).
package borrow

import (
	"fmt"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
)

// LoweredType is the result of resolving a surface TypeExpr: the RustType it
// lowers to, plus whether a `let` binding of this type should be declared
// `mut` (set only by the `mut<T>` marker, which is local-binding mutability,
// not a type-level wrapper — spec.md §3).
type LoweredType struct {
	Type      *ait.RustType
	LocalMut  bool
	Lifetime  string // non-empty for refLt/mutrefLt
}

// TypeNamer resolves a bare path type name to its RustType, consulting the
// type model registry for user-defined unions/structs/traits. internal/lower
// supplies the concrete implementation; borrow only needs the seam.
type TypeNamer func(path []string) *ait.RustType

// LowerType resolves one surface TypeExpr into a LoweredType.
func LowerType(t *ast.TypeExpr, namer TypeNamer) (*LoweredType, error) {
	if t == nil {
		return &LoweredType{Type: &ait.RustType{Kind: ait.RTUnit}}, nil
	}
	switch t.Kind {
	case "ref", "refLt":
		inner, err := LowerType(t.Args[0], namer)
		if err != nil {
			return nil, err
		}
		if inner.LocalMut {
			return nil, fmt.Errorf("borrow: ref<mut<T>> is not a supported ownership combination")
		}
		return &LoweredType{
			Type:     &ait.RustType{Kind: ait.RTRef, Mut: false, Inner: inner.Type},
			Lifetime: t.Lifetime,
		}, nil
	case "mutref", "mutrefLt":
		inner, err := LowerType(t.Args[0], namer)
		if err != nil {
			return nil, err
		}
		return &LoweredType{
			Type:     &ait.RustType{Kind: ait.RTRef, Mut: true, Inner: inner.Type},
			Lifetime: t.Lifetime,
		}, nil
	case "mut":
		inner, err := LowerType(t.Args[0], namer)
		if err != nil {
			return nil, err
		}
		if inner.Type.Kind == ait.RTRef {
			return nil, fmt.Errorf("borrow: mut<ref<T>> is not a supported ownership combination")
		}
		inner.LocalMut = true
		return inner, nil
	case "option":
		inner, err := LowerType(t.Args[0], namer)
		if err != nil {
			return nil, err
		}
		return &LoweredType{Type: &ait.RustType{Kind: ait.RTOption, Inner: inner.Type}}, nil
	case "result":
		ok, err := LowerType(t.Args[0], namer)
		if err != nil {
			return nil, err
		}
		errT, err := LowerType(t.Args[1], namer)
		if err != nil {
			return nil, err
		}
		return &LoweredType{Type: &ait.RustType{Kind: ait.RTResult, Ok: ok.Type, Err: errT.Type}}, nil
	case "tuple":
		var elems []*ait.RustType
		for _, a := range t.Args {
			lt, err := LowerType(a, namer)
			if err != nil {
				return nil, err
			}
			elems = append(elems, lt.Type)
		}
		return &LoweredType{Type: &ait.RustType{Kind: ait.RTTuple, Tuple: elems}}, nil
	case "path":
		if rt := primitiveRustType(t.Path); rt != nil {
			return &LoweredType{Type: rt}, nil
		}
		var args []*ait.RustType
		for _, a := range t.Args {
			lt, err := LowerType(a, namer)
			if err != nil {
				return nil, err
			}
			args = append(args, lt.Type)
		}
		if namer != nil {
			if rt := namer(t.Path); rt != nil {
				if len(args) > 0 {
					rt = &ait.RustType{Kind: ait.RTGeneric, Path: t.Path, Args: args}
				}
				return &LoweredType{Type: rt}, nil
			}
		}
		return &LoweredType{Type: &ait.RustType{Kind: ait.RTGeneric, Path: t.Path, Args: args}}, nil
	case "anon":
		// Anonymous shapes resolve to a named interned struct; the caller
		// (internal/lower) supplies that name via namer keyed on the
		// declaration site, since borrow has no access to the registry key.
		return nil, fmt.Errorf("borrow: anonymous shape types must be interned by the caller before LowerType")
	default:
		return nil, fmt.Errorf("borrow: unknown type-expr kind %q", t.Kind)
	}
}

// numericAliases maps the surface's numeric type aliases onto Rust
// primitive names (spec.md §4.4 numeric type aliases).
var numericAliases = map[string]string{
	"i8": "i8", "i16": "i16", "i32": "i32", "i64": "i64",
	"u8": "u8", "u16": "u16", "u32": "u32", "u64": "u64",
	"f32": "f32", "f64": "f64",
	"bool": "bool", "string": "String", "void": "()",
}

func primitiveRustType(path []string) *ait.RustType {
	if len(path) != 1 {
		return nil
	}
	name, ok := numericAliases[path[0]]
	if !ok {
		return nil
	}
	if name == "()" {
		return &ait.RustType{Kind: ait.RTUnit}
	}
	return &ait.RustType{Kind: ait.RTPrimitive, Name: name}
}

// ParamKind classifies a declared parameter's borrow requirement at the
// call site (spec.md §4.3 Receiver insertion).
type ParamKind int

const (
	ParamOwned ParamKind = iota
	ParamRef
	ParamMutRef
)

// ParamKindFor derives a ParamKind from a parameter's declared TypeExpr.
func ParamKindFor(t *ast.TypeExpr) ParamKind {
	if t == nil {
		return ParamOwned
	}
	switch t.Kind {
	case "ref", "refLt":
		return ParamRef
	case "mutref", "mutrefLt":
		return ParamMutRef
	default:
		return ParamOwned
	}
}

// Signature is a free function's positional borrow requirements, derived
// from its declared parameter types.
type Signature struct {
	Params []ParamKind
}

// SigTable maps free-function names to their declared signatures. It is
// built once per compile from every user file (spec.md §4.3: the caller
// inserts `&`/`&mut` at a call site whose target parameter is `ref<T>`/
// `mutref<T>`, regardless of which file declares that target) and consulted
// by internal/lower when lowering a call to a bare identifier.
type SigTable struct {
	Funcs map[string]Signature
}

// NewSigTable returns an empty SigTable ready for AddFunction calls.
func NewSigTable() *SigTable {
	return &SigTable{Funcs: make(map[string]Signature)}
}

// AddFunction records fn's declared parameter borrow kinds.
func (s *SigTable) AddFunction(fn *ast.Function) {
	params := make([]ParamKind, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ParamKindFor(p.Type)
	}
	s.Funcs[fn.Name] = Signature{Params: params}
}

// ReceiverFor maps a surface ReceiverKind to the target-language Receiver
// (spec.md §4.2 Interfaces: this: ref<Self>/mutref<Self>/Self).
func ReceiverFor(k ast.ReceiverKind) ait.Receiver {
	switch k {
	case ast.ReceiverRef:
		return ait.RecvRef
	case ast.ReceiverMutRef:
		return ait.RecvMutRef
	case ast.ReceiverOwned:
		return ait.RecvOwned
	default:
		return ait.RecvNone
	}
}
