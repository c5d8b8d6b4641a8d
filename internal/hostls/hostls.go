// Package hostls assembles CompileBootstrap: it parses the user's source
// fileset, classifies the entry file's `main` (sync/async, return shape,
// runtime kind), and filters the fileset down to the files later passes
// should actually walk (spec.md §4.1).
package hostls

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/lexer"
	"github.com/tsubalang/tsuba/internal/parser"
	"github.com/tsubalang/tsuba/internal/span"
)

// RuntimeKind is the declared async runtime, or its absence.
type RuntimeKind string

const (
	RuntimeNone  RuntimeKind = "none"
	RuntimeTokio RuntimeKind = "tokio"
)

// ReturnKind classifies main's permitted return shape.
type ReturnKind string

const (
	ReturnUnit   ReturnKind = "unit"
	ReturnResult ReturnKind = "result"
)

// CompileBootstrap is the frozen output of Bootstrap: every parsed user
// file, the entry file's classified main, and the fileset later passes
// should walk (declaration files and host-package-cache files excluded).
type CompileBootstrap struct {
	Files       map[string]*ast.File
	EntryFile   string
	EntrySource string
	MainFile    string
	Main        *ast.Function
	RuntimeKind RuntimeKind
	ReturnKind  ReturnKind
	MainIsAsync bool
	UserFiles   []string
}

// Bootstrap parses every file in sources (fileName -> source text),
// classifies the entry file's main function, and filters the fileset to
// the files later passes should walk (spec.md §4.1).
func Bootstrap(entryFile string, sources map[string]string, runtimeKind RuntimeKind) (*CompileBootstrap, error) {
	entrySrc, ok := sources[entryFile]
	if !ok {
		return nil, diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB0001, "bootstrap",
			fmt.Sprintf("entry file %q not found", entryFile),
			span.Synthetic(entryFile), nil,
		))
	}

	files := make(map[string]*ast.File, len(sources))
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := parseOne(name, sources[name])
		if err != nil {
			return nil, err
		}
		files[name] = f
	}

	entryAST := files[entryFile]
	main, mainIsAsync, err := findMain(entryFile, entryAST)
	if err != nil {
		return nil, err
	}

	returnKind, err := classifyReturn(entryFile, main, mainIsAsync, runtimeKind)
	if err != nil {
		return nil, err
	}

	return &CompileBootstrap{
		Files:       files,
		EntryFile:   entryFile,
		EntrySource: entrySrc,
		MainFile:    entryFile,
		Main:        main,
		RuntimeKind: runtimeKind,
		ReturnKind:  returnKind,
		MainIsAsync: mainIsAsync,
		UserFiles:   filterUserFiles(names),
	}, nil
}

func parseOne(fileName, src string) (*ast.File, error) {
	l := lexer.New([]byte(src), fileName)
	p := parser.New(l, fileName)
	f := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB0002, "bootstrap",
			fmt.Sprintf("%s: %s", fileName, errs[0]),
			span.Synthetic(fileName), nil,
		))
	}
	return f, nil
}

func findMain(fileName string, f *ast.File) (*ast.Function, bool, error) {
	for _, fn := range f.Functions {
		if fn.Name == "main" {
			return fn, fn.Async, nil
		}
	}
	return nil, false, diagnostics.WrapReport(diagnostics.New(
		diagnostics.TSB0001, "bootstrap",
		fmt.Sprintf("%s: no main function declared", fileName),
		span.Synthetic(fileName), nil,
	))
}

// classifyReturn applies spec.md §4.1's main-shape rules: async main
// requires runtimeKind == tokio; both sync and async main accept a bare
// unit return or Result<void, E>, nothing else.
func classifyReturn(fileName string, main *ast.Function, isAsync bool, runtimeKind RuntimeKind) (ReturnKind, error) {
	ret := main.Ret
	if isAsync {
		if runtimeKind != RuntimeTokio {
			return "", diagnostics.WrapReport(diagnostics.New(
				diagnostics.TSB1004, "bootstrap",
				"async main requires runtimeKind == tokio",
				main.Pos, nil,
			))
		}
		if ret == nil || ret.Kind != "path" || len(ret.Path) != 1 || ret.Path[0] != "Promise" || len(ret.Args) != 1 {
			return "", unsupportedMainReturn(fileName, main)
		}
		ret = ret.Args[0]
	}

	switch {
	case ret == nil:
		return ReturnUnit, nil
	case ret.Kind == "path" && len(ret.Path) == 1 && ret.Path[0] == "void":
		return ReturnUnit, nil
	case ret.Kind == "result" && len(ret.Args) == 2 && isVoid(ret.Args[0]):
		return ReturnResult, nil
	default:
		return "", unsupportedMainReturn(fileName, main)
	}
}

func isVoid(t *ast.TypeExpr) bool {
	return t != nil && t.Kind == "path" && len(t.Path) == 1 && t.Path[0] == "void"
}

func unsupportedMainReturn(fileName string, main *ast.Function) error {
	return diagnostics.WrapReport(diagnostics.New(
		diagnostics.TSB1003, "bootstrap",
		fmt.Sprintf("%s: main has an unsupported return shape", fileName),
		main.Pos, nil,
	))
}

// filterUserFiles drops declaration files (`*.d.tsb`) and anything under a
// host-package-cache directory (`node_modules` equivalent), returning the
// rest sorted.
func filterUserFiles(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasSuffix(n, ".d.tsb") {
			continue
		}
		if strings.Contains(n, "node_modules/") || strings.Contains(n, "/node_modules") {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
