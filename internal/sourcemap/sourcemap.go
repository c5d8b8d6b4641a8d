// Package sourcemap recovers a Rust source map from the `// tsuba-span`
// comments internal/render interleaves into the rendered output, and
// resolves a rendered-source line back to its originating surface position
// (spec.md §4.10).
package sourcemap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SourceMap is the `*.rsmap.json` document shape.
type SourceMap struct {
	Schema  int     `json:"schema"`
	Kind    string  `json:"kind"`
	Entries []Entry `json:"entries"`
}

// Entry maps one rendered-output position to its originating span.
type Entry struct {
	RustLine   int    `json:"rustLine"`
	RustColumn int    `json:"rustColumn"`
	TSFileName string `json:"tsFileName"`
	TSStart    int    `json:"tsStart"`
	TSEnd      int    `json:"tsEnd"`
}

var spanComment = regexp.MustCompile(`^(\s*)// tsuba-span: (.+):(\d+):(\d+)\s*$`)

// Build scans rendered Rust source text for `// tsuba-span` comments and
// produces the source map entry for the statement immediately following
// each one. Lines are 1-based, matching spec.md's documented format.
func Build(rendered string) *SourceMap {
	lines := strings.Split(rendered, "\n")
	sm := &SourceMap{Schema: 1, Kind: "rust-source-map"}
	for i, line := range lines {
		m := spanComment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if i+1 >= len(lines) {
			continue
		}
		stmtLine := lines[i+1]
		start, err1 := strconv.Atoi(m[3])
		end, err2 := strconv.Atoi(m[4])
		if err1 != nil || err2 != nil {
			continue
		}
		sm.Entries = append(sm.Entries, Entry{
			RustLine:   i + 2, // 1-based line of the statement, one past the comment
			RustColumn: indentWidth(stmtLine) + 1,
			TSFileName: m[2],
			TSStart:    start,
			TSEnd:      end,
		})
	}
	sort.SliceStable(sm.Entries, func(i, j int) bool { return sm.Entries[i].RustLine < sm.Entries[j].RustLine })
	return sm
}

func indentWidth(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// Lookup returns the entry for the most recent rustLine at or before line,
// or ok == false if line precedes every recorded entry.
func Lookup(sm *SourceMap, line int) (Entry, bool) {
	var best Entry
	found := false
	for _, e := range sm.Entries {
		if e.RustLine > line {
			break
		}
		best = e
		found = true
	}
	return best, found
}
