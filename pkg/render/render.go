// Package render converts the collector's raw debug buffer into a
// nested HTML list. Nesting depth is inferred from each line's leading
// whitespace; an explicit stack of open list levels tracks the
// indent/dedent/same-level transitions.
package render

import (
	"regexp"
	"strings"

	"github.com/debugpanel/debugpanel/pkg/htmlutil"
)

// timestampRE matches the optional timing token some debug lines carry
// at the start: seconds with fraction, whitespace, a memory figure with
// an optional decimal megabyte suffix, then exactly two spaces. The
// token is stripped before indentation is measured and reattached to
// the visible text.
var timestampRE = regexp.MustCompile(`^\d+\.\d+\s+-?\d+(?:\.\d+)?M?\s{2}`)

// Scope-marker prefixes excluded from the flattening exception. A
// dedent to column zero that starts with one of these is a genuine
// scope boundary, not a stray line.
const (
	enteringPrefix = "Entering "
	exitingPrefix  = "Exiting "
)

// listStack tracks the open nested-list levels while the fragment is
// emitted. Each push opens <ul><li>, each pop closes them.
type listStack struct {
	b    strings.Builder
	open int
}

func (s *listStack) push(n int) {
	for i := 0; i < n; i++ {
		s.b.WriteString("<ul><li>\n")
	}
	s.open += n
}

func (s *listStack) pop(n int) {
	for i := 0; i < n; i++ {
		s.b.WriteString("</li></ul>\n")
	}
	s.open -= n
}

// next closes the current list item and opens a sibling.
func (s *listStack) next() {
	s.b.WriteString("</li><li>\n")
}

// DebugLogHTML renders the raw debug lines as a header plus a nested
// unordered list, one monospace item per line. It returns "" when
// there is nothing to show. The renderer never fails on arbitrary
// input; whitespace counts only approximate the nesting.
func DebugLogHTML(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	s := &listStack{}
	s.b.WriteString("<hr />\n<strong>Debug data:</strong>\n")
	s.b.WriteString("<ul id=\"debug-log\">\n<li>\n")
	s.open = 1

	curIndent := 0
	for i, line := range lines {
		timestamp := timestampRE.FindString(line)
		rest := line[len(timestamp):]
		trimmed := strings.TrimLeft(rest, " \t")
		indent := len(rest) - len(trimmed)
		display := timestamp + trimmed
		diff := indent - curIndent

		if diff < 0 && indent == 0 &&
			!strings.HasPrefix(display, enteringPrefix) &&
			!strings.HasPrefix(display, exitingPrefix) {
			// A stray top-level line inside a nested run: keep it at the
			// current depth and highlight it instead of unwinding.
			indent = curIndent
			diff = 0
			display = "<span style=\"background-color: #fe0\">" +
				htmlutil.Nl2br(htmlutil.Escape(display)) + "</span>"
		} else {
			display = htmlutil.Nl2br(htmlutil.Escape(display))
		}

		switch {
		case diff < 0:
			s.pop(-diff)
			s.next()
		case diff == 0:
			if i > 0 {
				s.next()
			}
		default:
			s.push(diff)
		}

		if display == "" {
			display = "&#160;"
		}
		s.b.WriteString("<code>" + display + "</code>\n")
		curIndent = indent
	}

	s.pop(s.open)
	return s.b.String()
}
