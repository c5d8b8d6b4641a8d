package emit

import (
	"fmt"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/borrow"
	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/hir"
	"github.com/tsubalang/tsuba/internal/lower"
)

// emitDecl lowers one declaration to its AIT item(s) — a class lowers to a
// Struct plus one or more Impl blocks — along with the identifier annotate
// targets resolve the primary item by. Only the first returned item
// receives bound annotate attributes (a class's Impl blocks are not
// independently annotatable targets in the surface grammar).
func (e *Emitter) emitDecl(decl hir.Decl, l *lower.Lowerer, normFile string) ([]ait.Item, string, error) {
	switch decl.Kind {
	case hir.DeclTypeAlias:
		item, name, err := e.emitTypeAlias(decl.Node.(*ast.TypeAlias), l, normFile)
		if err != nil {
			return nil, "", err
		}
		return []ait.Item{item}, name, nil
	case hir.DeclInterface:
		item, name, err := e.emitInterface(decl.Node.(*ast.Interface), l)
		if err != nil {
			return nil, "", err
		}
		return []ait.Item{item}, name, nil
	case hir.DeclClass:
		return e.emitClass(decl.Node.(*ast.Class), l)
	case hir.DeclFunction:
		fn := decl.Node.(*ast.Function)
		out, err := l.LowerFunction(fn)
		if err != nil {
			return nil, "", err
		}
		return []ait.Item{out}, fn.Name, nil
	default:
		return nil, "", fmt.Errorf("emit: unhandled decl kind %q", decl.Kind)
	}
}

// emitTypeAlias emits either an Enum (when the alias was registered as a
// discriminated union) or a plain Struct (a single-shape alias with no
// `kind` discriminant).
func (e *Emitter) emitTypeAlias(alias *ast.TypeAlias, l *lower.Lowerer, normFile string) (ait.Item, string, error) {
	key := normFile + "::" + alias.Name
	if union, ok := e.Types.Union(key); ok {
		en := &ait.Enum{Name: alias.Name, Span: alias.Pos}
		for _, v := range union.Variants {
			ev := ait.EnumVariant{Name: v.Tag, Shape: v.Shape}
			for _, f := range v.Fields {
				lt, err := l.LowerType(f.Type, key+"/"+v.Tag+"/"+f.Name)
				if err != nil {
					return nil, "", fmt.Errorf("emit: union %s variant %s field %s: %w", alias.Name, v.Tag, f.Name, err)
				}
				ev.Fields = append(ev.Fields, ait.StructField{Name: f.Name, Type: lt.Type})
			}
			en.Variants = append(en.Variants, ev)
		}
		return en, alias.Name, nil
	}

	s := &ait.Struct{Name: alias.Name, Span: alias.Pos}
	if len(alias.Variants) > 0 {
		for _, f := range alias.Variants[0].Fields {
			lt, err := l.LowerType(f.Type, key+"/"+f.Name)
			if err != nil {
				return nil, "", fmt.Errorf("emit: alias %s field %s: %w", alias.Name, f.Name, err)
			}
			s.Fields = append(s.Fields, ait.StructField{Name: f.Name, Type: lt.Type})
		}
	}
	return s, alias.Name, nil
}

// emitInterface lowers an interface declaration to a Trait item with
// bodyless method signatures.
func (e *Emitter) emitInterface(iface *ast.Interface, l *lower.Lowerer) (ait.Item, string, error) {
	tr := &ait.Trait{Name: iface.Name, Supertraits: iface.Extends, Span: iface.Pos}
	for _, m := range iface.Methods {
		keyHint := "iface:" + iface.Name + "." + m.Name
		params, err := l.LowerParams(m.Params, keyHint)
		if err != nil {
			return nil, "", fmt.Errorf("emit: %s.%s: %w", iface.Name, m.Name, err)
		}
		ret, err := l.LowerType(m.Ret, keyHint+"/ret")
		if err != nil {
			return nil, "", fmt.Errorf("emit: %s.%s return type: %w", iface.Name, m.Name, err)
		}
		tr.Methods = append(tr.Methods, &ait.Fn{
			Name:     m.Name,
			Receiver: borrow.ReceiverFor(m.Receiver),
			Params:   params,
			Ret:      ret.Type,
			Span:     m.Pos,
		})
	}
	return tr, iface.Name, nil
}

// emitClass lowers a class declaration to a Struct plus its Impl blocks:
// one Impl per implemented interface (carrying every declared method, since
// the surface grammar doesn't partition methods by the trait they satisfy),
// or a single inherent Impl when the class implements nothing. A class that
// declares `extends` is rejected with TSB3001.
func (e *Emitter) emitClass(c *ast.Class, l *lower.Lowerer) ([]ait.Item, string, error) {
	if c.Extends != "" {
		return nil, "", diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB3001, "declAndMainEmission",
			fmt.Sprintf("class %s extends %s: class inheritance is not supported", c.Name, c.Extends),
			c.Pos, nil,
		))
	}
	s := &ait.Struct{Name: c.Name, Span: c.Pos}
	for _, f := range c.Fields {
		lt, err := l.LowerType(f.Type, "class:"+c.Name+"/"+f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("emit: class %s field %s: %w", c.Name, f.Name, err)
		}
		s.Fields = append(s.Fields, ait.StructField{Name: f.Name, Type: lt.Type})
	}

	var methods []*ait.Fn
	for _, m := range c.Methods {
		fn, err := l.LowerMethod(m, c.Name)
		if err != nil {
			return nil, "", err
		}
		methods = append(methods, fn)
	}

	items := append([]ait.Item{s}, classImpls(c, methods)...)
	return items, c.Name, nil
}

func classImpls(c *ast.Class, methods []*ait.Fn) []ait.Item {
	if len(c.Implements) == 0 {
		return []ait.Item{&ait.Impl{ForType: c.Name, Methods: methods}}
	}
	out := make([]ait.Item, 0, len(c.Implements))
	for _, trait := range c.Implements {
		out = append(out, &ait.Impl{Trait: trait, ForType: c.Name, Methods: methods})
	}
	return out
}

