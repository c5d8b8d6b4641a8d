package lexer

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `function main(): void {
  let x: i32 = 5 + 10;
  println("hello");
}`

	tests := []struct {
		kind    token.Kind
		literal string
	}{
		{token.FUNCTION, "function"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.IDENT, "void"},
		{token.LBRACE, "{"},
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "i32"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.PLUS, "+"},
		{token.INT, "10"},
		{token.SEMI, ";"},
		{token.IDENT, "println"},
		{token.LPAREN, "("},
		{token.STRING, "hello"},
		{token.RPAREN, ")"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(Normalize([]byte(input)), "main.ts")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("test[%d] - wrong kind. expected=%s, got=%s (%q)", i, tt.kind, tok.Kind, tok.Literal)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("test[%d] - wrong literal. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
		if tok.FileName != "main.ts" {
			t.Fatalf("test[%d] - wrong file name: %q", i, tok.FileName)
		}
	}
}

func TestSpansAreUTF16CodeUnits(t *testing.T) {
	// "é" is a single UTF-16 code unit but two UTF-8 bytes; offsets must
	// track the former, not the latter (spec.md §3 Source span).
	input := "café x"
	l := New(Normalize([]byte(input)), "f.ts")
	first := l.NextToken()
	if first.Literal != "café" {
		t.Fatalf("expected café, got %q", first.Literal)
	}
	if first.Start != 0 || first.End != 4 {
		t.Fatalf("expected utf16 span [0,4), got [%d,%d)", first.Start, first.End)
	}
	second := l.NextToken()
	if second.Literal != "x" || second.Start != 5 {
		t.Fatalf("expected x at utf16 offset 5, got %q at %d", second.Literal, second.Start)
	}
}

func TestTemplateLiteral(t *testing.T) {
	l := New(Normalize([]byte("`C`")), "f.ts")
	tok := l.NextToken()
	if tok.Kind != token.TEMPLATE || tok.Literal != "C" {
		t.Fatalf("expected template C, got %v", tok)
	}
}
