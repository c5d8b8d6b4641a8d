package typemodel

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/span"
)

func TestRegisterUnionRejectsDuplicateTags(t *testing.T) {
	r := NewRegistry()
	alias := &ast.TypeAlias{
		Name: "Shape",
		Variants: []ast.UnionVariant{
			{Tag: "circle"},
			{Tag: "circle"},
		},
	}
	if _, err := r.RegisterUnion("shapes", alias); err == nil {
		t.Fatalf("expected duplicate-tag error")
	}
}

func TestRegisterUnionShapeClassification(t *testing.T) {
	r := NewRegistry()
	alias := &ast.TypeAlias{
		Name: "Shape",
		Variants: []ast.UnionVariant{
			{Tag: "point"},
			{Tag: "circle", Fields: []ast.Field{{Name: "radius"}}},
		},
	}
	def, err := r.RegisterUnion("shapes", alias)
	if err != nil {
		t.Fatalf("RegisterUnion: %v", err)
	}
	if def.Key != "shapes::Shape" {
		t.Fatalf("def.Key = %q", def.Key)
	}
	if def.Variants[0].Shape != "unit" {
		t.Errorf("variant 0 shape = %q, want unit", def.Variants[0].Shape)
	}
	if def.Variants[1].Shape != "struct" {
		t.Errorf("variant 1 shape = %q, want struct", def.Variants[1].Shape)
	}
}

func TestInternStructIsStableAndDeduped(t *testing.T) {
	r := NewRegistry()
	fields := []ast.Field{{Name: "len"}}
	a := r.InternStruct("key1", fields, span.Synthetic("t.tsb"))
	b := r.InternStruct("key1", fields, span.Synthetic("t.tsb"))
	if a.Name != b.Name {
		t.Fatalf("same key interned twice produced different names: %q vs %q", a.Name, b.Name)
	}
	c := r.InternStruct("key2", fields, span.Synthetic("t.tsb"))
	if c.Name == a.Name {
		t.Fatalf("different keys produced the same anon struct name %q", a.Name)
	}
}

func TestStructsOrderedBySpanThenKey(t *testing.T) {
	r := NewRegistry()
	r.InternStruct("b", nil, span.Span{FileName: "t.tsb", Start: 5, End: 5})
	r.InternStruct("a", nil, span.Span{FileName: "t.tsb", Start: 5, End: 5})
	r.InternStruct("z", nil, span.Span{FileName: "t.tsb", Start: 1, End: 1})
	defs := r.Structs()
	if len(defs) != 3 {
		t.Fatalf("got %d structs, want 3", len(defs))
	}
	if defs[0].Span.Start != 1 {
		t.Fatalf("defs[0] = %+v, want the Start:1 entry first", defs[0])
	}
	if defs[1].Name == defs[2].Name {
		t.Fatalf("tie-break key ordering produced duplicate names")
	}
}

func TestTraitNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterTrait(&ast.Interface{Name: "Zeta"})
	r.RegisterTrait(&ast.Interface{Name: "Alpha"})
	names := r.TraitNames()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Zeta" {
		t.Fatalf("TraitNames() = %v", names)
	}
}
