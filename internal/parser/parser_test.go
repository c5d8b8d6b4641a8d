package parser

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New([]byte(src), "test.tsb")
	p := New(l, "test.tsb")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		for _, e := range p.Errors() {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}
	return f
}

func TestParseFunction(t *testing.T) {
	src := `
function add(a: i32, b: i32): i32 {
  return a + b;
}
`
	f := parseSource(t, src)
	if len(f.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(f.Functions))
	}
	fn := f.Functions[0]
	if fn.Name != "add" {
		t.Fatalf("fn.Name = %q, want add", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if fn.Ret == nil || fn.Ret.Kind != "path" || fn.Ret.Path[0] != "i32" {
		t.Fatalf("fn.Ret = %+v", fn.Ret)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("got %d body stmts, want 1", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *ast.ReturnStmt", fn.Body.Stmts[0])
	}
	bin, ok := ret.Value.(*ast.Binary)
	if !ok {
		t.Fatalf("return value is %T, want *ast.Binary", ret.Value)
	}
	if bin.Op != "+" {
		t.Fatalf("bin.Op = %q, want +", bin.Op)
	}
}

func TestParseClassWithReceiverKinds(t *testing.T) {
	src := `
class Counter implements Incrementable {
  n: i32;
  function get(this: ref<Self>): i32 {
    return this.n;
  }
  function bump(this: mutref<Self>): void {
    this.n = this.n + 1;
  }
  function consume(this: Self): i32 {
    return this.n;
  }
}
`
	f := parseSource(t, src)
	if len(f.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(f.Classes))
	}
	c := f.Classes[0]
	if c.Name != "Counter" {
		t.Fatalf("c.Name = %q", c.Name)
	}
	if len(c.Implements) != 1 || c.Implements[0] != "Incrementable" {
		t.Fatalf("c.Implements = %v", c.Implements)
	}
	if len(c.Methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(c.Methods))
	}
	wantRecv := []ast.ReceiverKind{ast.ReceiverRef, ast.ReceiverMutRef, ast.ReceiverOwned}
	for i, m := range c.Methods {
		if m.Receiver != wantRecv[i] {
			t.Errorf("method %d (%s) receiver = %v, want %v", i, m.Name, m.Receiver, wantRecv[i])
		}
	}
}

func TestParseTypeAliasUnion(t *testing.T) {
	src := `
type Shape = {kind: "circle", radius: f64} | {kind: "square", side: f64};
`
	f := parseSource(t, src)
	if len(f.TypeAliases) != 1 {
		t.Fatalf("got %d type aliases, want 1", len(f.TypeAliases))
	}
	alias := f.TypeAliases[0]
	if len(alias.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(alias.Variants))
	}
	if alias.Variants[0].Tag != "circle" || alias.Variants[1].Tag != "square" {
		t.Fatalf("variant tags = %q, %q", alias.Variants[0].Tag, alias.Variants[1].Tag)
	}
}

func TestParseOwnershipMarkers(t *testing.T) {
	src := `
function touch(a: ref<i32>, b: mutref<'x, Buffer>, c: mut<i32>): void {
  return;
}
`
	f := parseSource(t, src)
	fn := f.Functions[0]
	if fn.Params[0].Type.Kind != "ref" {
		t.Errorf("param 0 kind = %q, want ref", fn.Params[0].Type.Kind)
	}
	if fn.Params[1].Type.Kind != "mutrefLt" || fn.Params[1].Type.Lifetime != "'x" {
		t.Errorf("param 1 = %+v", fn.Params[1].Type)
	}
	if fn.Params[2].Type.Kind != "mut" {
		t.Errorf("param 2 kind = %q, want mut", fn.Params[2].Type.Kind)
	}
}

func TestParseSwitchStatementPreservesDefaultPosition(t *testing.T) {
	src := `
function classify(s: string): i32 {
  switch (s) {
    case "a": return 1;
    default: return 0;
    case "b": return 2;
  }
}
`
	f := parseSource(t, src)
	sw, ok := f.Functions[0].Body.Stmts[0].(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *ast.SwitchStmt", f.Functions[0].Body.Stmts[0])
	}
	if len(sw.Cases) != 3 {
		t.Fatalf("got %d cases, want 3", len(sw.Cases))
	}
	if sw.Cases[0].IsDefault || sw.Cases[0].Value != "a" {
		t.Errorf("case 0 = %+v", sw.Cases[0])
	}
	if !sw.Cases[1].IsDefault {
		t.Errorf("case 1 should be the default arm, kept in source position")
	}
	if sw.Cases[2].IsDefault || sw.Cases[2].Value != "b" {
		t.Errorf("case 2 = %+v", sw.Cases[2])
	}
}

func TestParseMatchStatement(t *testing.T) {
	src := `
function describe(x: Shape): string {
  match (x) {
    Circle { radius } => { return "circle"; },
    _ => { return "other"; },
  }
}
`
	f := parseSource(t, src)
	m, ok := f.Functions[0].Body.Stmts[0].(*ast.MatchStmt)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *ast.MatchStmt", f.Functions[0].Body.Stmts[0])
	}
	if len(m.Arms) != 2 {
		t.Fatalf("got %d arms, want 2", len(m.Arms))
	}
	if m.Arms[0].Pattern.Kind != "variant" || m.Arms[0].Pattern.Variant != "Circle" {
		t.Errorf("arm 0 pattern = %+v", m.Arms[0].Pattern)
	}
	if len(m.Arms[0].Pattern.Bindings) != 1 || m.Arms[0].Pattern.Bindings[0] != "radius" {
		t.Errorf("arm 0 bindings = %v", m.Arms[0].Pattern.Bindings)
	}
	if m.Arms[1].Pattern.Kind != "wildcard" {
		t.Errorf("arm 1 pattern = %+v", m.Arms[1].Pattern)
	}
}

func TestParseMarkerConstructs(t *testing.T) {
	src := `
async function load(p: ref<Path>): Result<Buffer, IoError> {
  let data = q(readAll(p));
  let safe = unsafe(() => rawRead(p));
  let f = move((x: i32) => x + 1);
  let obj = new Buffer({ len: 0 });
  return data;
}
`
	f := parseSource(t, src)
	fn := f.Functions[0]
	if !fn.Async {
		t.Fatalf("fn.Async = false, want true")
	}
	let0 := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let0.Init.(*ast.Question); !ok {
		t.Errorf("data init is %T, want *ast.Question", let0.Init)
	}
	let1 := fn.Body.Stmts[1].(*ast.LetStmt)
	if _, ok := let1.Init.(*ast.UnsafeExpr); !ok {
		t.Errorf("safe init is %T, want *ast.UnsafeExpr", let1.Init)
	}
	let2 := fn.Body.Stmts[2].(*ast.LetStmt)
	closure, ok := let2.Init.(*ast.Closure)
	if !ok {
		t.Fatalf("f init is %T, want *ast.Closure", let2.Init)
	}
	if !closure.Move {
		t.Errorf("closure.Move = false, want true")
	}
	let3 := fn.Body.Stmts[3].(*ast.LetStmt)
	newE, ok := let3.Init.(*ast.NewE)
	if !ok {
		t.Fatalf("obj init is %T, want *ast.NewE", let3.Init)
	}
	if newE.TypeName != "Buffer" {
		t.Errorf("newE.TypeName = %q, want Buffer", newE.TypeName)
	}
}

func TestParseAnnotate(t *testing.T) {
	src := `
annotate(MyStruct, derive(Clone, Debug), attr("repr", tokens` + "`C`" + `));
`
	f := parseSource(t, src)
	if len(f.Annotations) != 1 {
		t.Fatalf("got %d annotations, want 1", len(f.Annotations))
	}
	an := f.Annotations[0]
	if an.Target != "MyStruct" {
		t.Fatalf("an.Target = %q", an.Target)
	}
	if len(an.Attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(an.Attrs))
	}
	if an.Attrs[0].Kind != "derive" || len(an.Attrs[0].Args) != 2 {
		t.Errorf("attr 0 = %+v", an.Attrs[0])
	}
	if an.Attrs[1].Kind != "attr" || an.Attrs[1].Name != "repr" {
		t.Errorf("attr 1 = %+v", an.Attrs[1])
	}
}

func TestParseImportAndInterface(t *testing.T) {
	src := `
import { Reader, Writer as W } from "std/io";

interface Incrementable extends Comparable {
  bump(this: mutref<Self>): void;
}
`
	f := parseSource(t, src)
	if len(f.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(f.Imports))
	}
	if f.Imports[0].Specifier != "std/io" {
		t.Fatalf("specifier = %q", f.Imports[0].Specifier)
	}
	if len(f.Imports[0].Bindings) != 2 || f.Imports[0].Bindings[1].Alias != "W" {
		t.Fatalf("bindings = %+v", f.Imports[0].Bindings)
	}
	if len(f.Interfaces) != 1 || len(f.Interfaces[0].Extends) != 1 {
		t.Fatalf("interfaces = %+v", f.Interfaces)
	}
	if f.Interfaces[0].Methods[0].Receiver != ast.ReceiverMutRef {
		t.Errorf("method receiver = %v, want ReceiverMutRef", f.Interfaces[0].Methods[0].Receiver)
	}
}

func TestSyntaxErrorsAreRecoverable(t *testing.T) {
	src := `
function broken(: i32) {
  let x = ;
}
function ok(a: i32): i32 {
  return a;
}
`
	l := lexer.New([]byte(src), "test.tsb")
	p := New(l, "test.tsb")
	f := p.ParseFile()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected syntax errors, got none")
	}
	found := false
	for _, fn := range f.Functions {
		if fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("parser did not recover and parse the trailing valid function")
	}
}
