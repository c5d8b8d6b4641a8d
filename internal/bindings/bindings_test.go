package bindings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsubalang/tsuba/internal/diagnostics"
)

func TestResolveAscendsDirectories(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "node_modules", "fast-math")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := `{
		"schema": 1,
		"kind": "crate",
		"crate": {"name": "fast_math", "version": "1.2.3"},
		"modules": {"fast-math": "fast_math"}
	}`
	if err := os.WriteFile(filepath.Join(pkgDir, "tsuba.bindings.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(root, "src", "deep", "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Resolve(nested, "fast-math")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Crate.Name != "fast_math" {
		t.Errorf("Crate.Name = %q", m.Crate.Name)
	}
	target, ok := m.TargetModule("fast-math")
	if !ok || target != "fast_math" {
		t.Errorf("TargetModule = (%q, %v)", target, ok)
	}
}

func TestValidateRejectsVersionAndPathBothSet(t *testing.T) {
	m := &Manifest{
		Schema: 1,
		Kind:   "crate",
		Crate:  Crate{Name: "x", Version: "1.0.0", Path: "../vendor/x"},
	}
	err := m.Validate()
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB3223 {
		t.Fatalf("err = %v, want TSB3223", err)
	}
}

func TestValidateRejectsNeitherVersionNorPath(t *testing.T) {
	m := &Manifest{Schema: 1, Kind: "crate", Crate: Crate{Name: "x"}}
	err := m.Validate()
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB3223 {
		t.Fatalf("err = %v, want TSB3223", err)
	}
}

func TestValidateRejectsBadSchema(t *testing.T) {
	m := &Manifest{Schema: 2, Kind: "crate", Crate: Crate{Name: "x", Version: "1.0.0"}}
	err := m.Validate()
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB3222 {
		t.Fatalf("err = %v, want TSB3222", err)
	}
}

func TestResolveMissingManifestReportsUnresolvedImport(t *testing.T) {
	root := t.TempDir()
	_, err := Resolve(root, "nonexistent-pkg")
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB2201 {
		t.Fatalf("err = %v, want TSB2201", err)
	}
}

func TestPackageNameOf(t *testing.T) {
	cases := map[string]string{
		"fast-math":          "fast-math",
		"fast-math/sub":      "fast-math",
		"@scope/pkg":         "@scope/pkg",
		"@scope/pkg/mod.js":  "@scope/pkg",
	}
	for spec, want := range cases {
		if got := PackageNameOf(spec); got != want {
			t.Errorf("PackageNameOf(%q) = %q, want %q", spec, got, want)
		}
	}
}

func TestIsBareSpecifier(t *testing.T) {
	cases := map[string]bool{
		"./local":      false,
		"../local":     false,
		"std/io":       false,
		MarkerPackage:  false,
		"fast-math":    true,
		"@scope/pkg":   true,
	}
	for spec, want := range cases {
		if got := IsBareSpecifier(spec); got != want {
			t.Errorf("IsBareSpecifier(%q) = %v, want %v", spec, got, want)
		}
	}
}
