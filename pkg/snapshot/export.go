package snapshot

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/debugpanel/debugpanel/pkg/collector"
	"github.com/debugpanel/debugpanel/pkg/htmlutil"
)

// Fixed element names of the structured export. The includes list
// keeps its historical "queries" item tag; consumers of the wire
// format depend on it.
const (
	tagDebugInfo  = "debuginfo"
	tagLogLine    = "line"
	tagDebugMsg   = "msg"
	tagQuery      = "query"
	tagIncludeRow = "queries"
)

// ExportToResult grafts the debug snapshot into an API result tree.
// Buffered response output (warnings and notices emitted by the
// surrounding runtime) is stripped of markup and folded into the raw
// debug buffer first, one line per non-blank fragment. No-op while the
// collector is disabled.
func ExportToResult(c *collector.Collector, env Env, result *etree.Element, buffered string) {
	if !c.Enabled() {
		return
	}

	for _, line := range strings.Split(buffered, "\n") {
		if text := strings.TrimSpace(htmlutil.StripTags(line)); text != "" {
			c.CaptureLine(text)
		}
	}

	snap := Build(c, env)
	d := result.CreateElement(tagDebugInfo)

	d.CreateElement("requestId").SetText(snap.RequestID)
	d.CreateElement("appVersion").SetText(snap.AppVersion)
	d.CreateElement("goVersion").SetText(snap.GoVersion)
	d.CreateElement("gitRevision").SetText(snap.GitRevision)
	d.CreateElement("gitBranch").SetText(snap.GitBranch)
	d.CreateElement("gitViewUrl").SetText(snap.GitViewURL)
	d.CreateElement("time").SetText(formatSeconds(snap.Time))
	d.CreateElement("memory").SetText(snap.Memory)
	d.CreateElement("memoryPeak").SetText(snap.MemoryPeak)

	logEl := d.CreateElement("log")
	for _, entry := range snap.Log {
		line := logEl.CreateElement(tagLogLine)
		line.CreateAttr("type", string(entry.Kind))
		line.CreateAttr("caller", entry.Caller)
		line.SetText(entry.Message)
	}

	debugEl := d.CreateElement("debugLog")
	for _, line := range snap.DebugLog {
		debugEl.CreateElement(tagDebugMsg).SetText(line)
	}

	queriesEl := d.CreateElement("queries")
	for _, q := range snap.Queries {
		query := queriesEl.CreateElement(tagQuery)
		query.CreateAttr("function", q.Function)
		query.CreateAttr("master", strconv.FormatBool(q.Master))
		query.CreateAttr("time", formatSeconds(q.Time))
		query.SetText(q.SQL)
	}

	includesEl := d.CreateElement("includes")
	for _, file := range snap.Includes {
		row := includesEl.CreateElement(tagIncludeRow)
		row.CreateAttr("name", file.Name)
		row.CreateAttr("size", file.Size)
	}

	reqEl := d.CreateElement("request")
	reqEl.CreateAttr("method", snap.Request.Method)
	reqEl.CreateAttr("url", snap.Request.URL)
	headersEl := reqEl.CreateElement("headers")
	for name, value := range snap.Request.Headers {
		h := headersEl.CreateElement("header")
		h.CreateAttr("name", name)
		h.SetText(value)
	}
	paramsEl := reqEl.CreateElement("params")
	for name, value := range snap.Request.Params {
		p := paramsEl.CreateElement("param")
		p.CreateAttr("name", name)
		p.SetText(value)
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 6, 64)
}
