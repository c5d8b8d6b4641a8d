// Package span defines the source location type threaded through every
// compiler pass, from lexing to diagnostics to the rendered source map.
package span

import "fmt"

// Span is a half-open interval of source offsets in a named file.
//
// Start and End are 0-indexed UTF-16 code-unit offsets, carried verbatim
// from the host language service's own position encoding rather than
// recomputed — this keeps span arithmetic a pure pass-through all the way
// to the source map.
type Span struct {
	FileName string
	Start    int
	End      int
}

// Synthetic reports a span with Start == End == 0, used when a diagnostic
// or AIT node has no real originating source position (e.g. a synthesized
// shape struct, or an error about a missing file).
func Synthetic(fileName string) Span {
	return Span{FileName: fileName, Start: 0, End: 0}
}

// IsSynthetic reports whether s was produced by Synthetic.
func (s Span) IsSynthetic() bool {
	return s.Start == 0 && s.End == 0
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.FileName, s.Start, s.End)
}

// Valid reports the data-model invariant every emitted span must satisfy:
// end >= start >= 0.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End >= s.Start
}
