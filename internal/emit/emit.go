// Package emit turns one file's hir.FileLowered (declarations already
// pos-sorted) into ait.Item values, applying module ordering, use sorting,
// anonymous-struct placement, and the root file's main-function emission
// rules (spec.md §4.6 Declaration & main emission). Type aliases and
// interfaces must already be registered with internal/typemodel (unions via
// RegisterUnion, interfaces via RegisterTrait) before EmitFile is called;
// internal/compile owns that registration step.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/hir"
	"github.com/tsubalang/tsuba/internal/lower"
	"github.com/tsubalang/tsuba/internal/typemodel"
)

// Emitter carries the state shared across every file of one compile: the
// frozen type model registry, so anonymous struct placement and
// union/trait lookups are consistent across modules.
type Emitter struct {
	Types *typemodel.Registry
}

// New returns an Emitter bound to a (by-then fully populated) type registry.
func New(types *typemodel.Registry) *Emitter {
	return &Emitter{Types: types}
}

// FileOutput is one file's emitted items, with main (if this is the root
// file and it declares one) split out since the root places it after every
// other crate-root item rather than inline among the file's declarations.
type FileOutput struct {
	Items []ait.Item
	Main  *ait.Fn
}

// EmitFile lowers every use, anonymous struct, and declaration of fl into
// ait.Items in the order spec.md §4.6 requires: uses first (sorted), then
// anonymous struct shapes homed to this file (by span start, key tie-break),
// then declarations in source order. If isRoot and fl declares a top-level
// `main`, it is lowered separately and returned via FileOutput.Main rather
// than included in Items.
func (e *Emitter) EmitFile(fl *hir.FileLowered, l *lower.Lowerer, normFile string, isRoot, mainIsAsync bool, runtimeKind string) (*FileOutput, error) {
	out := &FileOutput{}

	out.Items = append(out.Items, emitUses(fl.Uses)...)

	annotationsByTarget := indexAnnotations(fl.Annotations)
	var declItems []ait.Item

	for _, decl := range fl.Decls {
		if isRoot {
			if fn, ok := decl.Node.(*ast.Function); ok && fn.Name == "main" {
				main, err := e.emitMain(fn, l, mainIsAsync, runtimeKind, annotationsByTarget["main"])
				if err != nil {
					return nil, err
				}
				out.Main = main
				continue
			}
		}
		items, name, err := e.emitDecl(decl, l, normFile)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		applyAttrs(items[0], annotationsByTarget[name])
		declItems = append(declItems, items...)
	}

	// Anonymous shapes are interned while the declarations above are
	// lowered, so they are collected only now, then placed ahead of them.
	for _, def := range e.anonStructsFor(fl.FileName) {
		out.Items = append(out.Items, structItemFromDef(def))
	}
	out.Items = append(out.Items, declItems...)

	return out, nil
}

// emitUses sorts `use` items by path then imported identifier, stably, and
// drops exact duplicates (spec.md §4.6 "Use sorting").
func emitUses(uses []hir.UseItem) []ait.Item {
	sorted := make([]hir.UseItem, len(uses))
	copy(sorted, uses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Name < sorted[j].Name
	})
	out := make([]ait.Item, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, u := range sorted {
		key := u.Path + "#" + u.Name + "#" + u.Alias
		if seen[key] {
			continue
		}
		seen[key] = true
		alias := u.Alias
		if alias == "" {
			alias = u.Name
		}
		out = append(out, &ait.Use{Path: u.Path + "::" + u.Name, Alias: alias})
	}
	return out
}

// anonStructsFor returns every anonymous struct shape whose first interning
// site belongs to fileName, already ordered by span start then key.
func (e *Emitter) anonStructsFor(fileName string) []*typemodel.StructDef {
	var out []*typemodel.StructDef
	for _, def := range e.Types.Structs() {
		if def.Span.FileName == fileName {
			out = append(out, def)
		}
	}
	return out
}

func structItemFromDef(def *typemodel.StructDef) ait.Item {
	s := &ait.Struct{Name: def.Name, Span: def.Span}
	for _, f := range def.Fields {
		s.Fields = append(s.Fields, ait.StructField{Name: f.Name})
	}
	return s
}

// indexAnnotations groups bound annotate attributes by target identifier,
// preserving declared order within each target.
func indexAnnotations(bindings []hir.AnnotationBinding) map[string][]ast.AttrExpr {
	out := make(map[string][]ast.AttrExpr, len(bindings))
	for _, b := range bindings {
		out[b.Target] = append(out[b.Target], b.Attrs...)
	}
	return out
}

// renderAttr renders one surface AttrExpr to its Rust inner-attribute text
// (without the surrounding `#[...]`).
func renderAttr(a ast.AttrExpr) string {
	switch a.Kind {
	case "derive":
		return "derive(" + a.Name + ")"
	case "attr":
		if len(a.Args) == 0 {
			return a.Name
		}
		return fmt.Sprintf("%s(%s)", a.Name, strings.Join(a.Args, ", "))
	default: // "path"
		return a.Name
	}
}

// applyAttrs attaches rendered attribute strings to the item kinds that
// carry an Attrs slice; other item kinds silently ignore annotations.
// Annotate targets are not validated before emission: an annotation whose
// target names no emitted declaration is dropped without a diagnostic
// (TSB3310/TSB3311 are registered but not raised).
func applyAttrs(item ait.Item, attrs []ast.AttrExpr) {
	if len(attrs) == 0 {
		return
	}
	rendered := make([]string, len(attrs))
	for i, a := range attrs {
		rendered[i] = renderAttr(a)
	}
	switch it := item.(type) {
	case *ait.Fn:
		it.Attrs = append(it.Attrs, rendered...)
	case *ait.Struct:
		it.Attrs = append(it.Attrs, rendered...)
	case *ait.Enum:
		it.Attrs = append(it.Attrs, rendered...)
	}
}

// emitMain lowers the root file's `main` function, prepending the runtime
// attribute when mainIsAsync calls for it and appending any annotate(main,
// ...) attributes afterward, in declared order (spec.md §4.6).
func (e *Emitter) emitMain(fn *ast.Function, l *lower.Lowerer, mainIsAsync bool, runtimeKind string, attrs []ast.AttrExpr) (*ait.Fn, error) {
	lowered, err := l.LowerFunction(fn)
	if err != nil {
		return nil, fmt.Errorf("emit: main: %w", err)
	}
	lowered.Vis = ""
	lowered.Async = mainIsAsync
	if mainIsAsync && runtimeKind == "tokio" {
		lowered.Attrs = append(lowered.Attrs, "tokio::main")
	}
	for _, a := range attrs {
		lowered.Attrs = append(lowered.Attrs, renderAttr(a))
	}
	return lowered, nil
}
