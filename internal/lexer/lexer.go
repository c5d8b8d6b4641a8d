// Package lexer tokenizes the surface language accepted by the core: a
// strict, Rust-flavored subset of a structurally typed language (spec.md
// §1). Offsets are tracked in UTF-16 code units, matching the position
// encoding carried verbatim from the host language service (spec.md §3).
package lexer

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tsubalang/tsuba/internal/token"
)

// Lexer tokenizes source text for a single file.
type Lexer struct {
	input        string
	fileName     string
	position     int // byte offset of ch
	readPosition int // byte offset after ch
	utf16Offset  int // UTF-16 code-unit offset of ch
	ch           rune
}

// New creates a Lexer over src as given; it does not strip a BOM or
// normalize. Callers that want that pass src through Normalize first.
func New(src []byte, fileName string) *Lexer {
	l := &Lexer{input: string(src), fileName: fileName}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch != 0 {
		l.utf16Offset += utf16RuneLen(l.ch)
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = ch
	l.position = l.readPosition
	l.readPosition += size
}

func utf16RuneLen(r rune) int {
	if r == 0 {
		return 0
	}
	return len(utf16.Encode([]rune{r}))
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return ch
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return
		}
	}
}

// NextToken scans and returns the next token, advancing the lexer.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.utf16Offset

	mk := func(k token.Kind, lit string) token.Token {
		return token.Token{Kind: k, Literal: lit, FileName: l.fileName, Start: start, End: l.utf16Offset}
	}

	switch ch := l.ch; {
	case ch == 0:
		return mk(token.EOF, "")
	case isIdentStart(ch):
		lit := l.readIdentifier()
		if kw, ok := token.Keywords[lit]; ok {
			return mk(kw, lit)
		}
		return mk(token.IDENT, lit)
	case isDigit(ch):
		return l.readNumber(start)
	case ch == '"':
		return l.readString(start)
	case ch == '`':
		return l.readTemplate(start)
	case ch == '\'' && isIdentStart(l.peekChar()):
		// A lifetime name such as 'a lexes as one IDENT, quote included.
		startByte := l.position
		l.readChar()
		l.readIdentifier()
		return mk(token.IDENT, l.input[startByte:l.position])
	}

	two := func(next rune, twoLit string, twoKind token.Kind, oneKind token.Kind) token.Token {
		if l.peekChar() == next {
			l.readChar()
			l.readChar()
			return token.Token{Kind: twoKind, Literal: twoLit, FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		ch := l.ch
		l.readChar()
		return token.Token{Kind: oneKind, Literal: string(ch), FileName: l.fileName, Start: start, End: l.utf16Offset}
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.EQ, Literal: "==", FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.ARROW, Literal: "=>", FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		l.readChar()
		return token.Token{Kind: token.ASSIGN, Literal: "=", FileName: l.fileName, Start: start, End: l.utf16Offset}
	case '!':
		return two('=', "!=", token.NEQ, token.NOT)
	case '<':
		return two('=', "<=", token.LTE, token.LT)
	case '>':
		return two('=', ">=", token.GTE, token.GT)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.AND, Literal: "&&", FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		l.readChar()
		return token.Token{Kind: token.AMP, Literal: "&", FileName: l.fileName, Start: start, End: l.utf16Offset}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.OR, Literal: "||", FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		l.readChar()
		return token.Token{Kind: token.PIPE, Literal: "|", FileName: l.fileName, Start: start, End: l.utf16Offset}
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.DCOLON, Literal: "::", FileName: l.fileName, Start: start, End: l.utf16Offset}
		}
		l.readChar()
		return token.Token{Kind: token.COLON, Literal: ":", FileName: l.fileName, Start: start, End: l.utf16Offset}
	}

	single := map[rune]token.Kind{
		'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH,
		'%': token.PERCENT, ';': token.SEMI, ',': token.COMMA, '.': token.DOT,
		'?': token.QUESTION, '(': token.LPAREN, ')': token.RPAREN,
		'{': token.LBRACE, '}': token.RBRACE, '[': token.LBRACKET, ']': token.RBRACKET,
	}
	if k, ok := single[l.ch]; ok {
		ch := l.ch
		l.readChar()
		return token.Token{Kind: k, Literal: string(ch), FileName: l.fileName, Start: start, End: l.utf16Offset}
	}

	ch := l.ch
	l.readChar()
	return token.Token{Kind: token.ILLEGAL, Literal: string(ch), FileName: l.fileName, Start: start, End: l.utf16Offset}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch > 127
}

func isIdentCont(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	startByte := l.position
	for isIdentCont(l.ch) {
		l.readChar()
	}
	return l.input[startByte:l.position]
}

func (l *Lexer) readNumber(start int) token.Token {
	startByte := l.position
	kind := token.INT
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		kind = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Kind: kind, Literal: l.input[startByte:l.position], FileName: l.fileName, Start: start, End: l.utf16Offset}
}

func (l *Lexer) readString(start int) token.Token {
	l.readChar() // consume opening quote
	startByte := l.position
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	lit := l.input[startByte:l.position]
	l.readChar() // consume closing quote
	return token.Token{Kind: token.STRING, Literal: lit, FileName: l.fileName, Start: start, End: l.utf16Offset}
}

// readTemplate scans a backtick template literal. The core only accepts
// single-line, non-substituted templates (spec.md §4.5 tokens``); here a
// template spanning lines or containing `${` still lexes successfully, and
// no later pass in this tree rejects it (TSB3302/TSB3303 are registered but
// not raised): its raw text is passed through as written.
func (l *Lexer) readTemplate(start int) token.Token {
	l.readChar() // consume opening backtick
	startByte := l.position
	for l.ch != '`' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	lit := l.input[startByte:l.position]
	l.readChar() // consume closing backtick
	return token.Token{Kind: token.TEMPLATE, Literal: lit, FileName: l.fileName, Start: start, End: l.utf16Offset}
}
