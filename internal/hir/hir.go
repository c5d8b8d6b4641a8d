// Package hir assembles the per-file lowered records produced by parsing
// into the pos-sorted declaration lists the rest of the compiler consumes
// (spec.md §3 FileLowered / HirModule).
package hir

import (
	"sort"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/span"
)

// DeclKind tags one entry of a HirModule's merged declaration list.
type DeclKind string

const (
	DeclTypeAlias DeclKind = "typeAlias"
	DeclInterface DeclKind = "interface"
	DeclClass     DeclKind = "class"
	DeclFunction  DeclKind = "function"
)

// Decl is one declaration in source-position order, tagged with its kind so
// downstream passes can type-switch without re-deriving the kind from the
// underlying node.
type Decl struct {
	Kind DeclKind
	Pos  span.Span
	Node interface{}
}

// FileLowered is the per-user-file lowered record (spec.md §3).
type FileLowered struct {
	FileName    string
	SourceFile  *ast.File
	Uses        []UseItem
	Annotations []AnnotationBinding
	Decls       []Decl // pos-sorted, stable secondary key = declaration order in Decls before sort
}

// UseItem is one `use` item to be emitted from an import.
type UseItem struct {
	Path  string
	Name  string
	Alias string // "" if not aliased
}

// AnnotationBinding binds one `annotate(target, ...)` statement to the
// declaration it targets, once resolved.
type AnnotationBinding struct {
	Pos    span.Span
	Target string
	Attrs  []ast.AttrExpr
}

// BuildFileLowered assembles a FileLowered from a parsed ast.File. It does
// not resolve imports against the bindings manifest (see ResolveImports)
// or check annotate targets against the declarations: annotations are kept
// as written, and internal/emit matches them to declarations by name. It
// only collects and orders the raw declaration list.
func BuildFileLowered(f *ast.File) *FileLowered {
	fl := &FileLowered{FileName: f.FileName, SourceFile: f}

	for _, imp := range f.Imports {
		for _, b := range imp.Bindings {
			fl.Uses = append(fl.Uses, UseItem{Path: imp.Specifier, Name: b.Name, Alias: b.Alias})
		}
	}

	for i, ta := range f.TypeAliases {
		fl.Decls = append(fl.Decls, Decl{Kind: DeclTypeAlias, Pos: ta.Pos, Node: f.TypeAliases[i]})
	}
	for i, ifc := range f.Interfaces {
		fl.Decls = append(fl.Decls, Decl{Kind: DeclInterface, Pos: ifc.Pos, Node: f.Interfaces[i]})
	}
	for i, c := range f.Classes {
		fl.Decls = append(fl.Decls, Decl{Kind: DeclClass, Pos: c.Pos, Node: f.Classes[i]})
	}
	for i, fn := range f.Functions {
		fl.Decls = append(fl.Decls, Decl{Kind: DeclFunction, Pos: fn.Pos, Node: f.Functions[i]})
	}

	// Stable sort: ties (same Pos, which shouldn't occur for real source but
	// can for synthetic declarations) keep their original relative order.
	sort.SliceStable(fl.Decls, func(i, j int) bool {
		return fl.Decls[i].Pos.Start < fl.Decls[j].Pos.Start
	})

	for _, an := range f.Annotations {
		fl.Annotations = append(fl.Annotations, AnnotationBinding{Pos: an.Pos, Target: an.Target, Attrs: an.Attrs})
	}

	return fl
}

// Module is the whole-compile collection of every user file's lowered
// record, keyed by module identifier (internal/compile's buildModuleIndex
// derives these from file paths).
type Module struct {
	Files map[string]*FileLowered
}

// NewModule builds a Module from a set of already-built FileLowered records
// keyed by module identifier.
func NewModule(files map[string]*FileLowered) *Module {
	return &Module{Files: files}
}

// SortedModuleNames returns every module identifier in deterministic order.
func (m *Module) SortedModuleNames() []string {
	names := make([]string, 0, len(m.Files))
	for n := range m.Files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
