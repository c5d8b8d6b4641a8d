package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errCode = color.New(color.FgRed, color.Bold).SprintFunc()
	errLoc  = color.New(color.FgCyan).SprintFunc()
	errMsg  = color.New(color.FgWhite).SprintFunc()
)

// Render formats a Report as a single human-readable line, colorized the way
// the debug driver prints it to a terminal.
func Render(r *Report) string {
	var b strings.Builder
	b.WriteString(errCode(r.Code))
	if r.Span != nil {
		fmt.Fprintf(&b, " %s", errLoc(r.Span.String()))
	}
	fmt.Fprintf(&b, " %s", errMsg(r.Message))
	return b.String()
}
