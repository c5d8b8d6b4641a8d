// Package typemodel registers the sum, struct, and trait definitions the
// rest of the compiler needs to lower expressions and infer borrows
// (spec.md §3 Type models, §4.4).
package typemodel

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/span"
)

// UnionDef is a discriminated-union type discovered from a `type X = {kind:
// "a", ...} | {kind: "b", ...}` alias.
type UnionDef struct {
	Key      string // normalize(file) + "::" + aliasName
	Variants []VariantDef
}

// VariantDef is one arm of a UnionDef.
type VariantDef struct {
	Tag    string
	Shape  string // "unit" | "tuple" | "struct"
	Fields []ast.Field
}

// StructDef is an anonymous record type, canonicalized to a stable name the
// first time its shape is observed.
type StructDef struct {
	Name   string // __Anon_<fnv1a32(key).hex(8)>
	Fields []ast.Field
	// Span is the position of the first site this shape was interned at,
	// used to order anonymous shapes within a module (spec.md §4.6).
	Span span.Span
}

// TraitDef is derived from an `interface` declaration.
type TraitDef struct {
	Name        string
	Supertraits []string
	Methods     []*ast.MethodSig
}

// Registry accumulates every type model discovered while lowering a
// compile's user files. It is built once per compile and frozen afterward;
// there is no process-wide mutable state (spec.md §3 Lifecycles).
type Registry struct {
	unions  map[string]*UnionDef
	structs map[string]*StructDef
	traits  map[string]*TraitDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		unions:  make(map[string]*UnionDef),
		structs: make(map[string]*StructDef),
		traits:  make(map[string]*TraitDef),
	}
}

// RegisterUnion records a union-typed alias. normFile must already be the
// normalized (lower-snake-case) module identifier for the declaring file.
func (r *Registry) RegisterUnion(normFile string, alias *ast.TypeAlias) (*UnionDef, error) {
	key := normFile + "::" + alias.Name
	seen := make(map[string]bool, len(alias.Variants))
	def := &UnionDef{Key: key}
	for _, v := range alias.Variants {
		if v.Tag != "" {
			if seen[v.Tag] {
				return nil, fmt.Errorf("duplicate union tag %q in %s", v.Tag, key)
			}
			seen[v.Tag] = true
		}
		def.Variants = append(def.Variants, VariantDef{
			Tag:    v.Tag,
			Shape:  shapeOf(v.Fields),
			Fields: v.Fields,
		})
	}
	r.unions[key] = def
	return def, nil
}

func shapeOf(fields []ast.Field) string {
	if len(fields) == 0 {
		return "unit"
	}
	return "struct"
}

// InternStruct canonicalizes an anonymous record shape to a stable name,
// returning the existing StructDef if key was already interned (the fields
// passed on a later call are not compared). key is caller-supplied context (e.g. the call
// site or declared return position) so identical shapes used in different
// roles still get distinct names when the caller wants that; callers that
// want structural dedup pass the same key for the same shape.
func (r *Registry) InternStruct(key string, fields []ast.Field, sp span.Span) *StructDef {
	if existing, ok := r.structs[key]; ok {
		return existing
	}
	name := fmt.Sprintf("__Anon_%08x", fnv1a32(key))
	def := &StructDef{Name: name, Fields: fields, Span: sp}
	r.structs[key] = def
	return def
}

// Structs returns every interned anonymous shape, ordered by the span of
// its first interning site and tie-broken by key (spec.md §4.6 anonymous
// struct shape ordering within a module).
func (r *Registry) Structs() []*StructDef {
	keys := make([]string, 0, len(r.structs))
	for k := range r.structs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := r.structs[keys[i]], r.structs[keys[j]]
		if si.Span.Start != sj.Span.Start {
			return si.Span.Start < sj.Span.Start
		}
		return keys[i] < keys[j]
	})
	out := make([]*StructDef, len(keys))
	for i, k := range keys {
		out[i] = r.structs[k]
	}
	return out
}

func fnv1a32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// RegisterTrait records an interface-derived trait definition.
func (r *Registry) RegisterTrait(iface *ast.Interface) *TraitDef {
	def := &TraitDef{Name: iface.Name, Supertraits: iface.Extends, Methods: iface.Methods}
	r.traits[iface.Name] = def
	return def
}

// Union, Struct, Trait look up a previously registered definition.
func (r *Registry) Union(key string) (*UnionDef, bool) {
	d, ok := r.unions[key]
	return d, ok
}

func (r *Registry) Struct(key string) (*StructDef, bool) {
	d, ok := r.structs[key]
	return d, ok
}

func (r *Registry) Trait(name string) (*TraitDef, bool) {
	d, ok := r.traits[name]
	return d, ok
}

// UnionKeys returns every registered union key in sorted order, for
// deterministic declaration emission.
func (r *Registry) UnionKeys() []string {
	keys := make([]string, 0, len(r.unions))
	for k := range r.unions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TraitNames returns every registered trait name in sorted order.
func (r *Registry) TraitNames() []string {
	names := make([]string, 0, len(r.traits))
	for n := range r.traits {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
