// Package render serializes the target-language Abstract Item Tree built by
// internal/lower and internal/emit into Rust source text, interleaving
// `// tsuba-span: <file>:<start>:<end>` comments at statement boundaries for
// internal/sourcemap to recover afterward (spec.md §4.10, §2 step 9).
package render

import (
	"fmt"
	"strings"

	"github.com/tsubalang/tsuba/internal/ait"
)

// ModuleUnit is one non-root user file, rendered as `mod <Name> { ... }`.
type ModuleUnit struct {
	Name  string
	Items []ait.Item
}

// Program is the whole compile's output: every non-root module (in the
// order the caller already sorted them — spec.md §4.6 file-path order),
// the root file's crate-level items, and its `main` function.
type Program struct {
	Modules   []ModuleUnit
	RootItems []ait.Item
	Main      *ait.Fn
}

// Render serializes a Program to one Rust source string.
func Render(p *Program) string {
	var b strings.Builder
	for _, m := range p.Modules {
		fmt.Fprintf(&b, "mod %s {\n", m.Name)
		renderItems(&b, "    ", m.Items)
		b.WriteString("}\n\n")
	}
	renderItems(&b, "", p.RootItems)
	if p.Main != nil {
		if len(p.RootItems) > 0 {
			b.WriteString("\n")
		}
		renderFn(&b, "", p.Main)
	}
	return b.String()
}

func renderItems(b *strings.Builder, indent string, items []ait.Item) {
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		renderItem(b, indent, it)
	}
}

func renderItem(b *strings.Builder, indent string, it ait.Item) {
	switch v := it.(type) {
	case *ait.Use:
		renderAttrs(b, indent, nil)
		if v.Alias != "" && v.Alias != lastSegment(v.Path) {
			fmt.Fprintf(b, "%suse %s as %s;\n", indent, v.Path, v.Alias)
		} else {
			fmt.Fprintf(b, "%suse %s;\n", indent, v.Path)
		}
	case *ait.Struct:
		renderStruct(b, indent, v)
	case *ait.Enum:
		renderEnum(b, indent, v)
	case *ait.Trait:
		renderTrait(b, indent, v)
	case *ait.Impl:
		renderImpl(b, indent, v)
	case *ait.Fn:
		renderFn(b, indent, v)
	case *ait.Mod:
		fmt.Fprintf(b, "%smod %s {\n", indent, v.Name)
		renderItems(b, indent+"    ", v.Items)
		fmt.Fprintf(b, "%s}\n", indent)
	default:
		fmt.Fprintf(b, "%s// render: unhandled item %T\n", indent, it)
	}
}

func lastSegment(path string) string {
	i := strings.LastIndex(path, "::")
	if i < 0 {
		return path
	}
	return path[i+2:]
}

func renderAttrs(b *strings.Builder, indent string, attrs []string) {
	for _, a := range attrs {
		fmt.Fprintf(b, "%s#[%s]\n", indent, a)
	}
}

func renderStruct(b *strings.Builder, indent string, s *ait.Struct) {
	renderAttrs(b, indent, s.Attrs)
	if len(s.Fields) == 0 {
		fmt.Fprintf(b, "%spub struct %s;\n", indent, s.Name)
		return
	}
	fmt.Fprintf(b, "%spub struct %s {\n", indent, s.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(b, "%s    pub %s: %s,\n", indent, f.Name, RenderType(f.Type))
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func renderEnum(b *strings.Builder, indent string, e *ait.Enum) {
	renderAttrs(b, indent, e.Attrs)
	fmt.Fprintf(b, "%spub enum %s {\n", indent, e.Name)
	for _, v := range e.Variants {
		switch v.Shape {
		case "unit":
			fmt.Fprintf(b, "%s    %s,\n", indent, v.Name)
		case "tuple":
			var types []string
			for _, f := range v.Fields {
				types = append(types, RenderType(f.Type))
			}
			fmt.Fprintf(b, "%s    %s(%s),\n", indent, v.Name, strings.Join(types, ", "))
		default: // "struct"
			fmt.Fprintf(b, "%s    %s {\n", indent, v.Name)
			for _, f := range v.Fields {
				fmt.Fprintf(b, "%s        %s: %s,\n", indent, f.Name, RenderType(f.Type))
			}
			fmt.Fprintf(b, "%s    },\n", indent)
		}
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func renderTrait(b *strings.Builder, indent string, t *ait.Trait) {
	decl := fmt.Sprintf("%spub trait %s", indent, t.Name)
	if len(t.Supertraits) > 0 {
		decl += ": " + strings.Join(t.Supertraits, " + ")
	}
	fmt.Fprintf(b, "%s {\n", decl)
	for _, m := range t.Methods {
		fmt.Fprintf(b, "%s    fn %s;\n", indent, fnSignature(m))
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func renderImpl(b *strings.Builder, indent string, im *ait.Impl) {
	if im.Trait != "" {
		fmt.Fprintf(b, "%simpl %s for %s {\n", indent, im.Trait, im.ForType)
	} else {
		fmt.Fprintf(b, "%simpl %s {\n", indent, im.ForType)
	}
	for i, m := range im.Methods {
		if i > 0 {
			b.WriteString("\n")
		}
		renderFn(b, indent+"    ", m)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func renderFn(b *strings.Builder, indent string, f *ait.Fn) {
	renderAttrs(b, indent, f.Attrs)
	vis := ""
	if f.Vis != "" {
		vis = f.Vis + " "
	}
	async := ""
	if f.Async {
		async = "async "
	}
	fmt.Fprintf(b, "%s%s%sfn %s {\n", indent, vis, async, fnSignature(f))
	renderStmts(b, indent+"    ", f.Body)
	fmt.Fprintf(b, "%s}\n", indent)
}

func fnSignature(f *ait.Fn) string {
	var params []string
	if f.Receiver != ait.RecvNone {
		params = append(params, string(f.Receiver))
	}
	for _, p := range f.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, RenderType(p.Type)))
	}
	sig := fmt.Sprintf("%s(%s)", f.Name, strings.Join(params, ", "))
	if f.Ret != nil && f.Ret.Kind != ait.RTUnit {
		sig += " -> " + RenderType(f.Ret)
	}
	return sig
}

// RenderType renders one RustType to its Rust source text.
func RenderType(t *ait.RustType) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case ait.RTPrimitive:
		return t.Name
	case ait.RTUnit:
		return "()"
	case ait.RTNever:
		return "!"
	case ait.RTRef:
		if t.Mut {
			return "&mut " + RenderType(t.Inner)
		}
		return "&" + RenderType(t.Inner)
	case ait.RTOption:
		return "Option<" + RenderType(t.Inner) + ">"
	case ait.RTResult:
		return fmt.Sprintf("Result<%s, %s>", RenderType(t.Ok), RenderType(t.Err))
	case ait.RTTuple:
		var parts []string
		for _, e := range t.Tuple {
			parts = append(parts, RenderType(e))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ait.RTGeneric:
		name := strings.Join(t.Path, "::")
		if len(t.Args) == 0 {
			return name
		}
		var parts []string
		for _, a := range t.Args {
			parts = append(parts, RenderType(a))
		}
		return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
	case ait.RTPath:
		return strings.Join(t.Path, "::")
	default:
		return "()"
	}
}
