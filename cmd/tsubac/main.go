// Command tsubac is a debug driver over internal/compile: it reads a
// single entry file plus its sibling .tsb files from a directory, runs
// CompileHostToRust, and prints the rendered Rust unit (or the diagnostic
// that failed it). It is not a build orchestrator — locating an entry file
// from tsuba.json, invoking cargo, and watching for changes are a CLI
// layer's job, out of scope here.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/tsubalang/tsuba/internal/compile"
	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/hostls"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		runtime   = pflag.String("runtime", "none", "runtime kind: none or tokio")
		dumpMap   = pflag.Bool("sourcemap", false, "print the recovered source map after the rendered unit")
		showTimes = pflag.Bool("phase-times", false, "print per-phase timings in milliseconds")
		helpFlag  = pflag.BoolP("help", "h", false, "show this help message")
	)
	pflag.Parse()

	if *helpFlag || pflag.NArg() != 1 {
		printUsage()
		if *helpFlag {
			return
		}
		os.Exit(1)
	}

	entryFile := pflag.Arg(0)
	runtimeKind := hostls.RuntimeNone
	switch strings.ToLower(*runtime) {
	case "none", "":
	case "tokio":
		runtimeKind = hostls.RuntimeTokio
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown --runtime %q (want none|tokio)\n", red("Error"), *runtime)
		os.Exit(1)
	}

	sources, err := loadSiblingSources(entryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	res, err := compile.CompileHostToRust(sources, compile.Config{
		EntryFile:   entryFile,
		RuntimeKind: runtimeKind,
	})
	if err != nil {
		printCompileError(err)
		os.Exit(1)
	}

	fmt.Print(res.MainRs)

	if len(res.Kernels) > 0 {
		fmt.Fprintln(os.Stderr, bold("\n-- kernels --"))
		for _, k := range res.Kernels {
			fmt.Fprintf(os.Stderr, "  %s (%s:%s)\n", k.Name, k.FileName, k.BindingVar)
		}
	}

	if *dumpMap && res.SourceMap != nil {
		fmt.Fprintln(os.Stderr, bold("\n-- source map --"))
		for _, e := range res.SourceMap.Entries {
			fmt.Fprintf(os.Stderr, "  rust:%d:%d -> %s:%d:%d\n", e.RustLine, e.RustColumn, e.TSFileName, e.TSStart, e.TSEnd)
		}
	}

	if *showTimes {
		fmt.Fprintln(os.Stderr, bold("\n-- phase timings (ms) --"))
		for _, phase := range []string{"bootstrap", "kernelCollect", "moduleIndex", "fileLowering", "typeModel", "declAndMainEmission", "rendering", "sourceMap"} {
			fmt.Fprintf(os.Stderr, "  %-20s %dms\n", phase, res.PhaseTimings[phase])
		}
	}
}

// loadSiblingSources reads entryFile and every other `.tsb` file in its
// directory, keyed by that directory joined with the file name, in
// forward-slash form — the fileset internal/hostls expects to walk and
// filter.
func loadSiblingSources(entryFile string) (map[string]string, error) {
	dir := filepath.Dir(entryFile)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tsb") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		out[filepath.ToSlash(path)] = string(data)
	}
	key := filepath.ToSlash(entryFile)
	if _, ok := out[key]; !ok {
		return nil, fmt.Errorf("entry file %s not found among %s/*.tsb", entryFile, dir)
	}
	return out, nil
}

func printCompileError(err error) {
	if rep, ok := diagnostics.AsReport(err); ok {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", red(rep.Code), yellow(rep.Phase), rep.Message)
		if rep.Span != nil {
			fmt.Fprintf(os.Stderr, "  at %s\n", rep.Span)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
}

func printUsage() {
	fmt.Println(bold("tsubac") + " - debug driver for the host-to-Rust transpiler core")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tsubac [flags] <entry-file.tsb>")
	fmt.Println()
	fmt.Println("Flags:")
	pflag.PrintDefaults()
	fmt.Println()
	fmt.Printf("  %s prints the rendered main.rs to stdout; diagnostics go to stderr.\n", green("tsubac"))
}
