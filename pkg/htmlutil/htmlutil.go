// Package htmlutil provides the small markup helpers shared by the
// collector and its render surfaces: HTML escaping, tag stripping, and
// newline conversion.
package htmlutil

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Escape HTML-escapes arbitrary text for safe inclusion in markup.
func Escape(s string) string {
	return html.EscapeString(s)
}

// StripTags removes all markup tags from text, keeping only the visible
// character data. Entities in the input are decoded.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}
	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			b.Write(z.Text())
		}
	}
}

// Nl2br converts newlines in already-escaped text to <br /> elements.
func Nl2br(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "<br />")
	return strings.ReplaceAll(s, "\n", "<br />")
}
