package snapshot

import (
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/debugpanel/debugpanel/pkg/collector"
	"github.com/debugpanel/debugpanel/pkg/htmlutil"
)

// PanelModule is the client-side module that renders the debug panel
// from the embedded configuration.
const PanelModule = "debugpanel.panel"

// configKey is the client-side variable the snapshot is published
// under.
const configKey = "debugInfo"

// PageSink receives the panel artifacts for inclusion in a rendered
// page. The host page object satisfies this.
type PageSink interface {
	// AddModule registers a client-side resource module by name.
	AddModule(name string)

	// AddInlineScript appends a raw HTML fragment to the page body.
	AddInlineScript(fragment string)
}

// RenderPanel produces the inline HTML fragment for the request: a
// script publishing the snapshot when the collector is enabled, and
// the raw-buffer HTML comment when the always-show-comment toggle is
// set. The comment is independent of the enabled flag. Returns "" when
// neither applies.
func RenderPanel(c *collector.Collector, env Env) string {
	var b strings.Builder
	if c.Enabled() {
		snap := Build(c, env)
		b.WriteString("<script id=\"debugpanel-config\">var ")
		b.WriteString(configKey)
		b.WriteString(" = ")
		b.WriteString(scriptSafeJSON(&snap))
		b.WriteString(";</script>")
	}
	if c.AlwaysShowComment() {
		b.WriteString(commentBlock(c.RawLines()))
	}
	return b.String()
}

// InstallPanel registers the panel module and pushes the inline
// fragment into the page sink.
func InstallPanel(sink PageSink, c *collector.Collector, env Env) {
	fragment := RenderPanel(c, env)
	if fragment == "" {
		return
	}
	if c.Enabled() {
		sink.AddModule(PanelModule)
	}
	sink.AddInlineScript(fragment)
}

// scriptSafeJSON serializes v and defuses any "</" sequence so the
// result cannot terminate the surrounding script element.
func scriptSafeJSON(v any) string {
	data, err := oj.Marshal(v)
	if err != nil {
		return "null"
	}
	return strings.ReplaceAll(string(data), "</", `<\/`)
}

// commentBlock renders the raw debug lines as an HTML comment.
// Occurrences of "--" are broken up; a comment must not contain them.
func commentBlock(lines []string) string {
	var b strings.Builder
	b.WriteString("\n<!-- Debug output:\n")
	for _, line := range lines {
		b.WriteString(strings.ReplaceAll(htmlutil.Escape(line), "--", "- -"))
		b.WriteString("\n")
	}
	b.WriteString("-->\n")
	return b.String()
}
