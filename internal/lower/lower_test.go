package lower

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/ait"
	"github.com/tsubalang/tsuba/internal/ast"
	"github.com/tsubalang/tsuba/internal/borrow"
	"github.com/tsubalang/tsuba/internal/lexer"
	"github.com/tsubalang/tsuba/internal/parser"
	"github.com/tsubalang/tsuba/internal/typemodel"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New([]byte(src), "t.tsb")
	p := parser.New(l, "t.tsb")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	return f
}

func parseFunc(t *testing.T, src string) *ast.Function {
	t.Helper()
	f := parseFile(t, src)
	if len(f.Functions) == 0 {
		t.Fatalf("no functions parsed")
	}
	return f.Functions[0]
}

func TestLowerFunctionBasics(t *testing.T) {
	fn := parseFunc(t, `
function add(a: i32, b: i32): i32 {
  return a + b;
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	if out.Name != "add" || len(out.Params) != 2 {
		t.Fatalf("lowered fn = %+v", out)
	}
	if out.Ret.Kind != ait.RTPrimitive || out.Ret.Name != "i32" {
		t.Fatalf("ret type = %+v", out.Ret)
	}
	if len(out.Body) != 1 {
		t.Fatalf("body = %+v", out.Body)
	}
	ret, ok := out.Body[0].(*ait.ReturnStmt)
	if !ok {
		t.Fatalf("body[0] = %T", out.Body[0])
	}
	bin, ok := ret.Value.(*ait.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("return value = %+v", ret.Value)
	}
}

func TestLowerTypeInternsAnonShape(t *testing.T) {
	fn := parseFunc(t, `
function make(): void {
  let p: { x: i32, y: i32 } = p;
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	let := out.Body[0].(*ait.LetStmt)
	if let.Type.Kind != ait.RTGeneric {
		t.Fatalf("let type = %+v", let.Type)
	}
	if len(let.Type.Path) != 1 || let.Type.Path[0][:7] != "__Anon_" {
		t.Fatalf("interned name = %v", let.Type.Path)
	}
}

func TestLowerSwitchPreservesDefaultPosition(t *testing.T) {
	fn := parseFunc(t, `
function f(s: string): void {
  switch (s) {
    case "a":
      return;
    default:
      return;
    case "b":
      return;
  }
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	m, ok := out.Body[0].(*ait.MatchStmt)
	if !ok {
		t.Fatalf("body[0] = %T", out.Body[0])
	}
	if len(m.Arms) != 3 {
		t.Fatalf("got %d arms, want 3", len(m.Arms))
	}
	if m.Arms[0].Pattern != `"a"` || m.Arms[1].Pattern != "_" || m.Arms[2].Pattern != `"b"` {
		t.Fatalf("arm order/patterns = %+v", m.Arms)
	}
}

func TestLowerMatchVariantPatterns(t *testing.T) {
	fn := parseFunc(t, `
function describe(x: Shape): string {
  match (x) {
    Circle { radius } => { return "circle"; },
    Point(x, y) => { return "point"; },
    _ => { return "other"; },
  }
  return "";
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	m, ok := out.Body[0].(*ait.MatchStmt)
	if !ok {
		t.Fatalf("body[0] = %T", out.Body[0])
	}
	if m.Arms[0].Pattern != "Circle { radius }" {
		t.Errorf("arm 0 pattern = %q", m.Arms[0].Pattern)
	}
	if m.Arms[1].Pattern != "Point(x, y)" {
		t.Errorf("arm 1 pattern = %q", m.Arms[1].Pattern)
	}
	if m.Arms[2].Pattern != "_" {
		t.Errorf("arm 2 pattern = %q", m.Arms[2].Pattern)
	}
}

func TestLowerCallDistinguishesMethodFromFreeFunction(t *testing.T) {
	fn := parseFunc(t, `
function run(buf: mutref<Buffer>): void {
  buf.push(1);
  helper(buf);
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	s0 := out.Body[0].(*ait.ExprStmt)
	if _, ok := s0.X.(*ait.MethodCallExpr); !ok {
		t.Fatalf("expr 0 = %T, want MethodCallExpr", s0.X)
	}
	s1 := out.Body[1].(*ait.ExprStmt)
	if _, ok := s1.X.(*ait.CallExpr); !ok {
		t.Fatalf("expr 1 = %T, want CallExpr", s1.X)
	}
}

func TestLowerCallInsertsMutRefBorrowAtCallSite(t *testing.T) {
	f := parseFile(t, `
function touch(c: mutref<Counter>): void {
  return;
}
function main(): void {
  touch(counter);
}
`)
	sigs := borrow.NewSigTable()
	for _, fn := range f.Functions {
		sigs.AddFunction(fn)
	}
	l := New(typemodel.NewRegistry(), "t.tsb")
	l.Sigs = sigs
	out, err := l.LowerFunction(f.Functions[1])
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	call := out.Body[0].(*ait.ExprStmt).X.(*ait.CallExpr)
	b, ok := call.Args[0].(*ait.BorrowExpr)
	if !ok {
		t.Fatalf("arg 0 = %T, want BorrowExpr", call.Args[0])
	}
	if !b.Mut || !b.Inserted {
		t.Fatalf("borrow = %+v, want Mut+Inserted", b)
	}
}

func TestLowerCallLeavesOwnedParamsUnwrapped(t *testing.T) {
	f := parseFile(t, `
function add(a: i32, b: i32): i32 {
  return a + b;
}
function main(): i32 {
  return add(1, 2);
}
`)
	sigs := borrow.NewSigTable()
	for _, fn := range f.Functions {
		sigs.AddFunction(fn)
	}
	l := New(typemodel.NewRegistry(), "t.tsb")
	l.Sigs = sigs
	out, err := l.LowerFunction(f.Functions[1])
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	call := out.Body[0].(*ait.ReturnStmt).Value.(*ait.CallExpr)
	if _, ok := call.Args[0].(*ait.BorrowExpr); ok {
		t.Fatalf("arg 0 should not be wrapped in a borrow: %+v", call.Args[0])
	}
}

func TestLowerNewHoistsStructLitFields(t *testing.T) {
	fn := parseFunc(t, `
function make(): Counter {
  return new Counter({ n: 0 });
}
`)
	l := New(typemodel.NewRegistry(), "t.tsb")
	out, err := l.LowerFunction(fn)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	ret := out.Body[0].(*ait.ReturnStmt)
	sl, ok := ret.Value.(*ait.StructLitExpr)
	if !ok {
		t.Fatalf("return value = %T", ret.Value)
	}
	if sl.TypeName != "Counter" {
		t.Fatalf("TypeName = %q", sl.TypeName)
	}
	if _, ok := sl.Fields["n"]; !ok {
		t.Fatalf("fields = %+v", sl.Fields)
	}
}

func TestRenderPatternShapes(t *testing.T) {
	cases := []struct {
		p    ast.Pattern
		want string
	}{
		{ast.Pattern{Kind: "wildcard"}, "_"},
		{ast.Pattern{Kind: "ident", Name: "x"}, "x"},
		{ast.Pattern{Kind: "variant", Variant: "None", Shape: "struct"}, "None"},
		{ast.Pattern{Kind: "variant", Variant: "Some", Shape: "tuple", Bindings: []string{"v"}}, "Some(v)"},
	}
	for _, c := range cases {
		got, _ := RenderPattern(c.p)
		if got != c.want {
			t.Errorf("RenderPattern(%+v) = %q, want %q", c.p, got, c.want)
		}
	}
}
