package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tsubalang/tsuba/internal/span"
)

// Report is the structured diagnostic every pass produces. It carries a
// stable code (TSBdddd), the span of the offending construct, and enough
// structured data for the CLI layer (out of scope here) to render it.
type Report struct {
	Schema  string         `json:"schema"` // always "tsuba.diagnostic/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *span.Span     `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// CompileError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling plumbing.
type CompileError struct {
	Rep *Report
}

func (e *CompileError) Error() string {
	if e.Rep == nil {
		return "unknown compile error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a Report from an error chain produced by WrapReport.
func AsReport(err error) (*Report, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error. Call sites propagate diagnostics
// with `return nil, WrapReport(r)` to keep the structured payload intact.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &CompileError{Rep: r}
}

// New builds a Report for a registered code, panicking if the code was
// never added to the registry — every diagnostic the core emits must be a
// compile-time-constant member of the closed set (spec.md §3).
func New(code, phase, message string, sp span.Span, data map[string]any) *Report {
	if _, ok := DomainOf(code); !ok {
		panic("diagnostics: unregistered code " + code)
	}
	return &Report{
		Schema:  "tsuba.diagnostic/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    &sp,
		Data:    data,
	}
}

// ToJSON serializes the Report deterministically (sorted map keys, per
// encoding/json's default behavior for map[string]any).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
