package hir

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/tsubalang/tsuba/internal/bindings"
	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/span"
)

// ResolveImports rewrites fl.Uses in place per spec.md §4.2 "Imports -> use":
//   - a marker-package specifier is erased entirely;
//   - a `std/...` specifier passes through as a literal Rust path;
//   - a relative specifier (`./...`/`../...`) becomes `use super::<module>`,
//     with moduleOf supplying the file -> module-identifier mapping built
//     by internal/compile;
//   - any other (bare) specifier resolves against its bindings manifest
//     (internal/bindings), rewriting to the manifest's target module path.
//
// An unresolved specifier fails with TSB2201.
func ResolveImports(fl *FileLowered, moduleOf map[string]string) error {
	raw := fl.Uses
	fl.Uses = make([]UseItem, 0, len(raw))
	for _, u := range raw {
		target, drop, err := resolveSpecifier(fl.FileName, u.Path, moduleOf)
		if err != nil {
			return err
		}
		if drop {
			continue
		}
		u.Path = target
		fl.Uses = append(fl.Uses, u)
	}
	return nil
}

func resolveSpecifier(fromFile, specifier string, moduleOf map[string]string) (target string, drop bool, err error) {
	switch {
	case specifier == bindings.MarkerPackage:
		return "", true, nil

	case strings.HasPrefix(specifier, "std/"):
		return strings.ReplaceAll(specifier, "/", "::"), false, nil

	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		tsFile := relativeTarget(fromFile, specifier)
		mod, ok := moduleOf[tsFile]
		if !ok {
			return "", false, unresolvedImport(fromFile, specifier)
		}
		return "super::" + mod, false, nil

	default:
		dir := filepath.Dir(fromFile)
		manifest, rerr := bindings.Resolve(dir, bindings.PackageNameOf(specifier))
		if rerr != nil {
			return "", false, unresolvedImport(fromFile, specifier)
		}
		mod, ok := manifest.TargetModule(specifier)
		if !ok {
			return "", false, unresolvedImport(fromFile, specifier)
		}
		return mod, false, nil
	}
}

// relativeTarget resolves a relative import specifier against the
// importing file's own path to the (logical or on-disk) file key it names,
// the same key the file's entry appears under in the sources map.
func relativeTarget(fromFile, specifier string) string {
	joined := path.Clean(path.Join(path.Dir(fromFile), specifier))
	if !strings.HasSuffix(joined, ".tsb") {
		joined += ".tsb"
	}
	return joined
}

func unresolvedImport(fileName, specifier string) error {
	return diagnostics.WrapReport(diagnostics.New(
		diagnostics.TSB2201, "fileLowering",
		fmt.Sprintf("%s: import %q does not resolve", fileName, specifier),
		span.Synthetic(fileName), nil,
	))
}
