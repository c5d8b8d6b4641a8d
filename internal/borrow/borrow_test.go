package borrow

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
)

func TestLowerTypeRefAndMutref(t *testing.T) {
	refType := &ast.TypeExpr{Kind: "ref", Args: []*ast.TypeExpr{
		{Kind: "path", Path: []string{"i32"}},
	}}
	lt, err := LowerType(refType, nil)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if lt.Type.Kind != ait.RTRef || lt.Type.Mut {
		t.Fatalf("ref<i32> lowered to %+v", lt.Type)
	}

	mutrefType := &ast.TypeExpr{Kind: "mutref", Args: []*ast.TypeExpr{
		{Kind: "path", Path: []string{"i32"}},
	}}
	lt2, err := LowerType(mutrefType, nil)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if lt2.Type.Kind != ait.RTRef || !lt2.Type.Mut {
		t.Fatalf("mutref<i32> lowered to %+v", lt2.Type)
	}
}

func TestLowerTypeMutMarksLocalMutability(t *testing.T) {
	mutType := &ast.TypeExpr{Kind: "mut", Args: []*ast.TypeExpr{
		{Kind: "path", Path: []string{"i32"}},
	}}
	lt, err := LowerType(mutType, nil)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if !lt.LocalMut {
		t.Errorf("mut<i32> should set LocalMut")
	}
	if lt.Type.Kind != ait.RTPrimitive || lt.Type.Name != "i32" {
		t.Errorf("mut<i32> underlying type = %+v", lt.Type)
	}
}

func TestLowerTypeRejectsRefOfMut(t *testing.T) {
	bad := &ast.TypeExpr{Kind: "ref", Args: []*ast.TypeExpr{
		{Kind: "mut", Args: []*ast.TypeExpr{{Kind: "path", Path: []string{"i32"}}}},
	}}
	if _, err := LowerType(bad, nil); err == nil {
		t.Fatalf("expected error for ref<mut<T>>")
	}
}

func TestLowerTypeRejectsMutOfRef(t *testing.T) {
	bad := &ast.TypeExpr{Kind: "mut", Args: []*ast.TypeExpr{
		{Kind: "ref", Args: []*ast.TypeExpr{{Kind: "path", Path: []string{"i32"}}}},
	}}
	if _, err := LowerType(bad, nil); err == nil {
		t.Fatalf("expected error for mut<ref<T>>")
	}
}

func TestLowerTypeNumericAliasesAndVoid(t *testing.T) {
	voidType := &ast.TypeExpr{Kind: "path", Path: []string{"void"}}
	lt, err := LowerType(voidType, nil)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if lt.Type.Kind != ait.RTUnit {
		t.Fatalf("void lowered to %+v, want unit", lt.Type)
	}

	strType := &ast.TypeExpr{Kind: "path", Path: []string{"string"}}
	lt2, _ := LowerType(strType, nil)
	if lt2.Type.Name != "String" {
		t.Fatalf("string lowered to %+v, want String", lt2.Type)
	}
}

func TestLowerTypeResultAndOption(t *testing.T) {
	resultType := &ast.TypeExpr{Kind: "result", Args: []*ast.TypeExpr{
		{Kind: "path", Path: []string{"void"}},
		{Kind: "path", Path: []string{"string"}},
	}}
	lt, err := LowerType(resultType, nil)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if lt.Type.Kind != ait.RTResult || lt.Type.Ok.Kind != ait.RTUnit || lt.Type.Err.Name != "String" {
		t.Fatalf("result lowered to %+v", lt.Type)
	}
}

func TestReceiverForMapping(t *testing.T) {
	cases := []struct {
		in  ast.ReceiverKind
		out ait.Receiver
	}{
		{ast.ReceiverNone, ait.RecvNone},
		{ast.ReceiverRef, ait.RecvRef},
		{ast.ReceiverMutRef, ait.RecvMutRef},
		{ast.ReceiverOwned, ait.RecvOwned},
	}
	for _, c := range cases {
		if got := ReceiverFor(c.in); got != c.out {
			t.Errorf("ReceiverFor(%v) = %v, want %v", c.in, got, c.out)
		}
	}
}
