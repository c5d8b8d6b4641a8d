package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectRoundTrips(t *testing.T) {
	path := writeTemp(t, "tsuba.json", `{
		"schema": 1,
		"name": "demo",
		"kind": "bin",
		"entry": "src/main.tsb",
		"gpu": {"enabled": true},
		"crate": {"name": "demo_crate"},
		"deps": {"crates": [{"id": "serde", "version": "1.0.0"}]}
	}`)
	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if p.Name != "demo" || p.Kind != "bin" || p.Entry != "src/main.tsb" {
		t.Errorf("unexpected decode: %+v", p)
	}
	if !p.Gpu.Enabled {
		t.Errorf("Gpu.Enabled = false, want true")
	}
	if p.Crate.Name != "demo_crate" {
		t.Errorf("Crate.Name = %q", p.Crate.Name)
	}
	if len(p.Deps.Crates) != 1 || p.Deps.Crates[0].ID != "serde" || p.Deps.Crates[0].Version != "1.0.0" {
		t.Fatalf("Deps.Crates = %+v", p.Deps.Crates)
	}

	again, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var p2 Project
	if err := json.Unmarshal(again, &p2); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(p2, *p) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", p2, *p)
	}
}

func TestLoadProjectRejectsUnknownField(t *testing.T) {
	path := writeTemp(t, "tsuba.json", `{"schema":1,"name":"demo","kind":"bin","entry":"src/main.tsb","bogus":true}`)
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadProjectRejectsBadKind(t *testing.T) {
	path := writeTemp(t, "tsuba.json", `{"schema":1,"name":"demo","kind":"lib3","entry":"src/main.tsb"}`)
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected error for invalid kind")
	}
}

func TestLoadProjectRejectsCrateDepWithBothVersionAndPath(t *testing.T) {
	path := writeTemp(t, "tsuba.json", `{
		"schema": 1, "name": "demo", "kind": "bin", "entry": "src/main.tsb",
		"deps": {"crates": [{"id": "serde", "version": "1.0.0", "path": "../vendor/serde"}]}
	}`)
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected error for crate dep with both version and path")
	}
}

func TestAddCrateDepSimpleName(t *testing.T) {
	p := &Project{Schema: 1, Name: "demo", Kind: "bin", Entry: "src/main.tsb"}
	if err := AddCrateDep(p, "serde@1.0.0"); err != nil {
		t.Fatalf("AddCrateDep: %v", err)
	}
	want := CrateDep{ID: "serde", Version: "1.0.0"}
	if len(p.Deps.Crates) != 1 || !reflect.DeepEqual(p.Deps.Crates[0], want) {
		t.Fatalf("Deps.Crates = %+v, want [%+v]", p.Deps.Crates, want)
	}
}

func TestAddCrateDepDashedNameGetsPackageField(t *testing.T) {
	p := &Project{Schema: 1, Name: "demo", Kind: "bin", Entry: "src/main.tsb"}
	if err := AddCrateDep(p, "simple-crate@1.2.3"); err != nil {
		t.Fatalf("AddCrateDep: %v", err)
	}
	want := CrateDep{ID: "simple_crate", Package: "simple-crate", Version: "1.2.3"}
	if len(p.Deps.Crates) != 1 || !reflect.DeepEqual(p.Deps.Crates[0], want) {
		t.Fatalf("Deps.Crates = %+v, want [%+v]", p.Deps.Crates, want)
	}
}

func TestLoadWorkspaceRoundTrips(t *testing.T) {
	path := writeTemp(t, "tsuba.workspace.json", `{
		"schema": 1,
		"rustEdition": "2021",
		"packagesDir": "packages",
		"generatedDirName": "generated",
		"cargoTargetDir": "target",
		"gpu": {"backend": "none"},
		"runtime": {"kind": "tokio"}
	}`)
	w, err := LoadWorkspace(path)
	if err != nil {
		t.Fatalf("LoadWorkspace: %v", err)
	}
	if w.RustEdition != "2021" || w.Gpu.Backend != "none" || w.Runtime.Kind != "tokio" {
		t.Fatalf("unexpected decode: %+v", w)
	}

	again, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var w2 Workspace
	if err := json.Unmarshal(again, &w2); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(w2, *w) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", w2, *w)
	}
}

func TestLoadWorkspaceRejectsBadRustEdition(t *testing.T) {
	path := writeTemp(t, "tsuba.workspace.json", `{
		"schema": 1, "rustEdition": "2018", "packagesDir": "p", "generatedDirName": "g",
		"cargoTargetDir": "t", "gpu": {"backend": "none"}, "runtime": {"kind": "none"}
	}`)
	if _, err := LoadWorkspace(path); err == nil {
		t.Fatalf("expected error for invalid rustEdition")
	}
}

func TestLoadWorkspaceRequiresCudaFieldWhenBackendIsCuda(t *testing.T) {
	path := writeTemp(t, "tsuba.workspace.json", `{
		"schema": 1, "rustEdition": "2021", "packagesDir": "p", "generatedDirName": "g",
		"cargoTargetDir": "t", "gpu": {"backend": "cuda"}, "runtime": {"kind": "none"}
	}`)
	if _, err := LoadWorkspace(path); err == nil {
		t.Fatalf("expected error: gpu.cuda required when backend is cuda")
	}
}

func TestLoadWorkspaceAcceptsCudaBackendWithCudaField(t *testing.T) {
	path := writeTemp(t, "tsuba.workspace.json", `{
		"schema": 1, "rustEdition": "2024", "packagesDir": "p", "generatedDirName": "g",
		"cargoTargetDir": "t", "gpu": {"backend": "cuda", "cuda": "12.0"}, "runtime": {"kind": "none"}
	}`)
	w, err := LoadWorkspace(path)
	if err != nil {
		t.Fatalf("LoadWorkspace: %v", err)
	}
	if w.Gpu.Cuda != "12.0" {
		t.Errorf("Gpu.Cuda = %q", w.Gpu.Cuda)
	}
}
