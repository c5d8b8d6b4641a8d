// Package compile wires every pass into the single entry point a CLI layer
// calls: hostls (bootstrap) -> kernelcollect -> hir -> typemodel ->
// lower/emit -> render -> sourcemap (spec.md §2, §6 Entry API). Project
// config file parsing and downstream Rust toolchain invocation are owned by
// a CLI layer outside this package.
package compile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/borrow"
	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/emit"
	"github.com/tsubalang/tsuba/internal/hir"
	"github.com/tsubalang/tsuba/internal/hostls"
	"github.com/tsubalang/tsuba/internal/kernelcollect"
	"github.com/tsubalang/tsuba/internal/lower"
	"github.com/tsubalang/tsuba/internal/render"
	"github.com/tsubalang/tsuba/internal/sourcemap"
	"github.com/tsubalang/tsuba/internal/span"
	"github.com/tsubalang/tsuba/internal/typemodel"
)

// Config is the entry API's input (spec.md §6 compileHostToRust).
type Config struct {
	EntryFile   string
	RuntimeKind hostls.RuntimeKind

	// GpuBackend is the workspace's configured gpu.backend ("none" | "cuda"),
	// supplied by the CLI layer from tsuba.workspace.json. Left "" when no
	// workspace config applies, in which case kernel collection is never
	// gated (spec.md §8 testable property #8 only fires when a workspace
	// explicitly declares "none").
	GpuBackend string
}

// KernelDecl is one collected GPU kernel, surfaced to the caller for
// codegen outside this package's scope.
type KernelDecl struct {
	Name       string
	BindingVar string
	FileName   string
}

// CargoDep is a `Cargo.toml` dependency entry, mirroring tsuba.json's
// `deps.crates[]` shape (spec.md §6). This core never populates it itself —
// dependency-list derivation belongs to the CLI/config layer that owns
// tsuba.json — but the Result shape carries the field so a caller can
// merge its own crate list in.
type CargoDep struct {
	ID       string
	Version  string
	Path     string
	Features []string
}

// Result is the entry API's output (spec.md §6 compileHostToRust).
type Result struct {
	MainRs       string
	Kernels      []KernelDecl
	Crates       []CargoDep
	SourceMap    *sourcemap.SourceMap
	PhaseTimings map[string]int64
}

// CompileHostToRust runs the full pipeline over sources (fileName -> source
// text) and returns the rendered Rust unit, its kernel inventory, and its
// source map. Bootstrap, import-resolution, union-registration, GPU-gating
// and class-inheritance failures return an error that unwraps to a
// *diagnostics.Report via diagnostics.AsReport; kernel-collection errors and
// type-lowering errors raised while emitting declarations are plain errors
// that carry no Report.
func CompileHostToRust(sources map[string]string, cfg Config) (*Result, error) {
	timings := make(map[string]int64)

	start := time.Now()
	boot, err := hostls.Bootstrap(cfg.EntryFile, sources, cfg.RuntimeKind)
	if err != nil {
		return nil, err
	}
	timings["bootstrap"] = time.Since(start).Milliseconds()

	start = time.Now()
	kernels, err := collectKernels(sources, boot.UserFiles)
	if err != nil {
		return nil, err
	}
	timings["kernelCollect"] = time.Since(start).Milliseconds()

	if cfg.GpuBackend == "none" && len(kernels) > 0 {
		k := kernels[0]
		return nil, diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB1005, "kernelCollect",
			fmt.Sprintf("kernel(%q) collected but gpu.backend='none'", k.Name),
			span.Span{FileName: k.FileName, Start: k.Start, End: k.Start},
			nil,
		))
	}

	start = time.Now()
	moduleOf := buildModuleIndex(boot.UserFiles)
	timings["moduleIndex"] = time.Since(start).Milliseconds()

	start = time.Now()
	lowered := make(map[string]*hir.FileLowered, len(boot.UserFiles))
	for _, f := range boot.UserFiles {
		fl := hir.BuildFileLowered(boot.Files[f])
		if err := hir.ResolveImports(fl, moduleOf); err != nil {
			return nil, err
		}
		lowered[f] = fl
	}
	timings["fileLowering"] = time.Since(start).Milliseconds()

	start = time.Now()
	types := typemodel.NewRegistry()
	for _, f := range boot.UserFiles {
		normFile := moduleOf[f]
		sf := boot.Files[f]
		for _, ta := range sf.TypeAliases {
			if isUnionAlias(ta) {
				if _, err := types.RegisterUnion(normFile, ta); err != nil {
					return nil, diagnostics.WrapReport(diagnostics.New(
						diagnostics.TSB4001, "typeModel", err.Error(), ta.Pos, nil,
					))
				}
			}
		}
		for _, ifc := range sf.Interfaces {
			types.RegisterTrait(ifc)
		}
	}
	timings["typeModel"] = time.Since(start).Milliseconds()

	sigs := borrow.NewSigTable()
	for _, f := range boot.UserFiles {
		for _, fn := range boot.Files[f].Functions {
			sigs.AddFunction(fn)
		}
	}

	start = time.Now()
	program := &render.Program{}
	for _, f := range boot.UserFiles {
		isRoot := f == boot.EntryFile
		l := lower.New(types, f)
		l.Sigs = sigs
		e := emit.New(types)
		out, err := e.EmitFile(lowered[f], l, moduleOf[f], isRoot, boot.MainIsAsync, string(boot.RuntimeKind))
		if err != nil {
			return nil, err
		}
		if isRoot {
			program.RootItems = out.Items
			program.Main = out.Main
		} else {
			program.Modules = append(program.Modules, render.ModuleUnit{Name: moduleOf[f], Items: out.Items})
		}
	}
	sort.Slice(program.Modules, func(i, j int) bool { return program.Modules[i].Name < program.Modules[j].Name })
	timings["declAndMainEmission"] = time.Since(start).Milliseconds()

	start = time.Now()
	mainRs := render.Render(program)
	timings["rendering"] = time.Since(start).Milliseconds()

	start = time.Now()
	sm := sourcemap.Build(mainRs)
	timings["sourceMap"] = time.Since(start).Milliseconds()

	return &Result{
		MainRs:       mainRs,
		Kernels:      toKernelDecls(kernels),
		SourceMap:    sm,
		PhaseTimings: timings,
	}, nil
}

func collectKernels(sources map[string]string, userFiles []string) ([]kernelcollect.Descriptor, error) {
	perFile := make(map[string][]kernelcollect.Descriptor, len(userFiles))
	for _, f := range userFiles {
		ds, err := kernelcollect.Collect([]byte(sources[f]), f)
		if err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
		perFile[f] = ds
	}
	return kernelcollect.MergeSorted(perFile), nil
}

func toKernelDecls(ds []kernelcollect.Descriptor) []KernelDecl {
	out := make([]KernelDecl, len(ds))
	for i, d := range ds {
		out[i] = KernelDecl{Name: d.Name, BindingVar: d.BindingVar, FileName: d.FileName}
	}
	return out
}

// isUnionAlias reports whether a type alias was declared with string-tagged
// variants (`{kind: "a", ...} | {kind: "b", ...}`) rather than as a plain
// single-shape alias.
func isUnionAlias(ta *ast.TypeAlias) bool {
	if len(ta.Variants) < 2 {
		return false
	}
	for _, v := range ta.Variants {
		if v.Tag == "" {
			return false
		}
	}
	return true
}

var identNonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// moduleIdentifier derives a lower-snake-case module identifier from a file
// path's stem, prefixing a leading underscore when the stem starts with a
// digit (spec.md §4.1/§2 step 3).
func moduleIdentifier(fileName string) string {
	base := fileName
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	ident := strings.ToLower(identNonAlnum.ReplaceAllString(base, "_"))
	if ident == "" {
		ident = "_"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "_" + ident
	}
	return ident
}

// buildModuleIndex builds the file->module-identifier mapping (spec.md §2
// step 3, a bidirectional mapping — the reverse direction is recovered by
// indexing the returned map's entries, since file paths are already the
// keys callers hold). The entry file gets an identifier too even though it
// is emitted at the crate root rather than under a `mod` block.
func buildModuleIndex(userFiles []string) map[string]string {
	out := make(map[string]string, len(userFiles))
	used := make(map[string]int)
	for _, f := range userFiles {
		name := moduleIdentifier(f)
		if n := used[name]; n > 0 {
			out[f] = fmt.Sprintf("%s_%d", name, n)
		} else {
			out[f] = name
		}
		used[name]++
	}
	return out
}
