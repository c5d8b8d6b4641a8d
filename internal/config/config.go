// Package config loads the two project-level configuration files the core
// reads: tsuba.json (single project) and tsuba.workspace.json (multi-member
// workspace). CLI orchestration and the rest of the filesystem project
// layout are out of scope (spec.md §1); this package only covers the shapes
// the core itself consults to build a Bootstrap, per spec.md §6's literal
// schemas.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CrateDep is one entry of Project.Deps.Crates. Exactly one of Version/Path
// must be set.
type CrateDep struct {
	ID       string   `json:"id"`
	Version  string   `json:"version,omitempty"`
	Path     string   `json:"path,omitempty"`
	Package  string   `json:"package,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Project is the decoded shape of tsuba.json, schema 1.
type Project struct {
	Schema int    `json:"schema"`
	Name   string `json:"name"`
	Kind   string `json:"kind"` // "bin" | "lib"; only "bin" is compiled in v0
	Entry  string `json:"entry"`
	Gpu    struct {
		Enabled bool `json:"enabled"`
	} `json:"gpu"`
	Crate struct {
		Name string `json:"name,omitempty"`
	} `json:"crate"`
	Deps struct {
		Crates []CrateDep `json:"crates"`
	} `json:"deps"`
}

// Workspace is the decoded shape of tsuba.workspace.json, schema 1.
type Workspace struct {
	Schema           int    `json:"schema"`
	RustEdition      string `json:"rustEdition"` // "2021" | "2024"
	PackagesDir      string `json:"packagesDir"`
	GeneratedDirName string `json:"generatedDirName"`
	CargoTargetDir   string `json:"cargoTargetDir"`
	Gpu              struct {
		Backend string `json:"backend"` // "none" | "cuda"
		Cuda    string `json:"cuda,omitempty"`
	} `json:"gpu"`
	Runtime struct {
		Kind string `json:"kind"` // "none" | "tokio"
	} `json:"runtime"`
}

// LoadProject reads and strictly decodes a tsuba.json file, rejecting
// unknown top-level fields (the additionalProperties: false constraint
// documented in ProjectSchemaJSON).
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := decodeStrict(data, &p); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &p, nil
}

// Validate enforces tsuba.json's invariants: schema == 1, kind ∈ {bin, lib},
// entry required, and every deps.crates entry sets exactly one of
// version/path (spec.md §6).
func (p *Project) Validate() error {
	if p.Schema != 1 {
		return fmt.Errorf("unsupported schema %d, want 1", p.Schema)
	}
	if p.Kind != "bin" && p.Kind != "lib" {
		return fmt.Errorf("kind must be \"bin\" or \"lib\", got %q", p.Kind)
	}
	if p.Entry == "" {
		return fmt.Errorf("entry is required")
	}
	for _, dep := range p.Deps.Crates {
		hasVersion := dep.Version != ""
		hasPath := dep.Path != ""
		if hasVersion == hasPath {
			return fmt.Errorf("deps.crates %q must set exactly one of version or path", dep.ID)
		}
	}
	return nil
}

// AddCrateDep adds a `name@version` dependency to p.Deps.Crates the way the
// bindgen CLI command does (spec.md §6 scenario S7): the crate id is the
// package name with `-` normalized to `_`; when that differs from the
// package name, Package records the original so Cargo.toml can emit
// `package = "..."`.
func AddCrateDep(p *Project, nameAtVersion string) error {
	name, version, ok := strings.Cut(nameAtVersion, "@")
	if !ok || name == "" || version == "" {
		return fmt.Errorf("config: bindgen spec %q must be \"name@version\"", nameAtVersion)
	}
	id := strings.ReplaceAll(name, "-", "_")
	dep := CrateDep{ID: id, Version: version}
	if id != name {
		dep.Package = name
	}
	p.Deps.Crates = append(p.Deps.Crates, dep)
	return nil
}

// LoadWorkspace reads and strictly decodes a tsuba.workspace.json file.
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w Workspace
	if err := decodeStrict(data, &w); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &w, nil
}

// Validate enforces tsuba.workspace.json's invariants: schema == 1,
// rustEdition ∈ {2021, 2024}, gpu.backend ∈ {none, cuda} with gpu.cuda
// required iff backend == "cuda", and runtime.kind ∈ {none, tokio}
// (spec.md §6).
func (w *Workspace) Validate() error {
	if w.Schema != 1 {
		return fmt.Errorf("unsupported schema %d, want 1", w.Schema)
	}
	if w.RustEdition != "2021" && w.RustEdition != "2024" {
		return fmt.Errorf("rustEdition must be \"2021\" or \"2024\", got %q", w.RustEdition)
	}
	switch w.Gpu.Backend {
	case "none":
		if w.Gpu.Cuda != "" {
			return fmt.Errorf("gpu.cuda must be unset when gpu.backend is \"none\"")
		}
	case "cuda":
		if w.Gpu.Cuda == "" {
			return fmt.Errorf("gpu.cuda is required when gpu.backend is \"cuda\"")
		}
	default:
		return fmt.Errorf("gpu.backend must be \"none\" or \"cuda\", got %q", w.Gpu.Backend)
	}
	if w.Runtime.Kind != "none" && w.Runtime.Kind != "tokio" {
		return fmt.Errorf("runtime.kind must be \"none\" or \"tokio\", got %q", w.Runtime.Kind)
	}
	return nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
