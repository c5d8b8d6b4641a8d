// Package bindings resolves the bindings-manifest for an external native
// package: an ascending directory search for node_modules/<package>, then
// the manifest describing how its module specifiers map onto target-language
// crate paths (spec.md §3 Bindings manifest, §4.5).
package bindings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsubalang/tsuba/internal/diagnostics"
	"github.com/tsubalang/tsuba/internal/span"
)

// MarkerPackage is the core marker package specifier; imports from it are
// erased entirely during import lowering rather than resolved (spec.md
// §4.2 "a marker module specifier ... is erased entirely").
const MarkerPackage = "tsuba:core"

// Crate describes the target-language crate a bindings manifest vendors.
type Crate struct {
	Name     string   `json:"name"`
	Package  string   `json:"package,omitempty"`
	Version  string   `json:"version,omitempty"`
	Path     string   `json:"path,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Manifest is one bindings manifest (tsuba.bindings.json), schema version 1.
type Manifest struct {
	Schema  int               `json:"schema"`
	Kind    string            `json:"kind"`
	Crate   Crate             `json:"crate"`
	Modules map[string]string `json:"modules"`

	// dir is the directory the manifest was loaded from, used to resolve a
	// relative Crate.Path.
	dir string

	// path is the manifest file itself, used only to span diagnostics.
	path string
}

// Validate enforces the manifest invariants (spec.md §3, §4.7, §7 TSB3222…):
// schema == 1, kind == "crate", and version XOR path on the crate entry.
// Every failure carries a synthetic span over the manifest file, matching
// spec.md §7's "a synthetic span with start=end=0 and the file name" rule
// for whole-file-level errors.
func (m *Manifest) Validate() error {
	if m.Schema != 1 || m.Kind != "crate" {
		return diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB3222, "bindings",
			fmt.Sprintf("%s: unsupported schema %d / kind %q", m.path, m.Schema, m.Kind),
			span.Synthetic(m.path), nil,
		))
	}
	hasVersion := m.Crate.Version != ""
	hasPath := m.Crate.Path != ""
	if hasVersion == hasPath {
		return diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB3223, "bindings",
			fmt.Sprintf("%s: crate %q must set exactly one of version or path", m.path, m.Crate.Name),
			span.Synthetic(m.path), nil,
		))
	}
	return nil
}

// ResolvedCratePath returns the crate's on-disk path normalized to forward
// slashes and relative to the manifest's directory, or "" if this crate is
// version-pinned rather than path-pinned.
func (m *Manifest) ResolvedCratePath() string {
	if m.Crate.Path == "" {
		return ""
	}
	joined := filepath.Join(m.dir, m.Crate.Path)
	return filepath.ToSlash(joined)
}

// TargetModule maps a source import specifier to its target-language module
// path, or "" with ok=false if the manifest doesn't cover it.
func (m *Manifest) TargetModule(specifier string) (string, bool) {
	target, ok := m.Modules[specifier]
	return target, ok
}

// Resolve ascends from startDir looking for node_modules/<pkgName> and loads
// its tsuba.bindings.json. It stops at the filesystem root.
func Resolve(startDir, pkgName string) (*Manifest, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "node_modules", pkgName)
		manifestPath := filepath.Join(candidate, "tsuba.bindings.json")
		if data, err := os.ReadFile(manifestPath); err == nil {
			m, parseErr := parseManifest(data, candidate, manifestPath)
			if parseErr != nil {
				return nil, parseErr
			}
			return m, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, diagnostics.WrapReport(diagnostics.New(
		diagnostics.TSB2201, "bindings",
		fmt.Sprintf("no node_modules/%s found above %s", pkgName, startDir),
		span.Synthetic(startDir), nil,
	))
}

func parseManifest(data []byte, dir, manifestPath string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, diagnostics.WrapReport(diagnostics.New(
			diagnostics.TSB3222, "bindings",
			fmt.Sprintf("%s: %v", manifestPath, err),
			span.Synthetic(manifestPath), nil,
		))
	}
	m.dir = dir
	m.path = manifestPath
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// IsBareSpecifier reports whether specifier names an external package
// (rather than a relative path or a stdlib-shaped specifier), the only kind
// of import bindings resolution applies to.
func IsBareSpecifier(specifier string) bool {
	if specifier == MarkerPackage {
		return false
	}
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return false
	}
	if strings.HasPrefix(specifier, "std/") {
		return false
	}
	return true
}

// PackageNameOf extracts the package name a bare import specifier names —
// the scope+name pair for a scoped package (`@scope/pkg/mod.js` ->
// `@scope/pkg`), or the first path segment otherwise (spec.md §8 testable
// property #9).
func PackageNameOf(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
