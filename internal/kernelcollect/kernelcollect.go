// Package kernelcollect walks user source files collecting `kernel({name},
// fn)` value declarations in deterministic order (spec.md §2 step 2,
// §4 kernel markers). The surface grammar doesn't carve out a dedicated AST
// node for `const K = kernel(...)` (see internal/parser's top-level `const`
// handling), so collection works directly off the token stream rather than
// re-parsing the whole expression grammar for this one marker shape.
package kernelcollect

import (
	"fmt"
	"sort"

	"github.com/tsubalang/tsuba/internal/lexer"
	"github.com/tsubalang/tsuba/internal/token"
)

// Descriptor is one collected kernel: the GPU-facing name it was declared
// with and the source file/const binding it came from.
type Descriptor struct {
	Name       string
	BindingVar string
	FileName   string
	Start      int
}

// Collect scans src's token stream for every `const <ident> = kernel(<name>, ...)`
// declaration, where <name> is a string literal or an object literal whose
// first entry is `name: "<string>"`, and returns one Descriptor per
// occurrence in source-position order. MergeSorted combines the per-file
// results of a whole compile by file name, then by position.
func Collect(src []byte, fileName string) ([]Descriptor, error) {
	l := lexer.New(src, fileName)
	var out []Descriptor

	tok := l.NextToken()
	for tok.Kind != token.EOF {
		if tok.Kind == token.CONST {
			start := tok.Start
			bindingTok := l.NextToken()
			if bindingTok.Kind != token.IDENT {
				tok = bindingTok
				continue
			}
			assignTok := l.NextToken()
			if assignTok.Kind != token.ASSIGN {
				tok = assignTok
				continue
			}
			kernelTok := l.NextToken()
			if kernelTok.Kind != token.IDENT || kernelTok.Literal != "kernel" {
				tok = kernelTok
				continue
			}
			lparenTok := l.NextToken()
			if lparenTok.Kind != token.LPAREN {
				tok = lparenTok
				continue
			}
			nameTok := l.NextToken()
			if nameTok.Kind == token.LBRACE {
				// `{name: "<string>"}` form: read through to the string.
				if keyTok := l.NextToken(); keyTok.Kind == token.IDENT && keyTok.Literal == "name" {
					if colonTok := l.NextToken(); colonTok.Kind == token.COLON {
						nameTok = l.NextToken()
					}
				}
			}
			if nameTok.Kind != token.STRING {
				return nil, fmt.Errorf("kernelcollect: %s:%d: kernel() first argument must be a string literal or {name: <string>}", fileName, start)
			}
			out = append(out, Descriptor{
				Name:       nameTok.Literal,
				BindingVar: bindingTok.Literal,
				FileName:   fileName,
				Start:      start,
			})
		}
		tok = l.NextToken()
	}

	return out, nil
}

// MergeSorted combines per-file kernel lists into one deterministically
// ordered list: by file name, then by source position within the file.
func MergeSorted(perFile map[string][]Descriptor) []Descriptor {
	var files []string
	for f := range perFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []Descriptor
	for _, f := range files {
		ds := append([]Descriptor(nil), perFile[f]...)
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Start < ds[j].Start })
		out = append(out, ds...)
	}
	return out
}
