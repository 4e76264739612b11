package collector

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/debugpanel/debugpanel/pkg/caller"
	"github.com/debugpanel/debugpanel/pkg/htmlutil"
)

// Placeholders used when a deprecation notice omits optional facts.
const (
	unknownComponent = "UnknownApp"
	unknownVersion   = "(unknown version)"
)

// backtraceBytes caps the stack capture attached to deprecation notices.
const backtraceBytes = 4096

// Config configures a new Collector. The zero value is valid: all
// toggles off and the real stack-based caller resolver.
type Config struct {
	// RequestID identifies the request this collector belongs to.
	RequestID string

	// AlwaysShowText keeps CaptureLine active even while the collector
	// is disabled, so the debug-text list can be rendered into every
	// page.
	AlwaysShowText bool

	// AlwaysShowComment keeps CaptureLine active for the HTML-comment
	// rendition, independent of the enabled flag.
	AlwaysShowComment bool

	// ResolveCaller overrides stack-based caller resolution. Nil means
	// caller.Resolve.
	ResolveCaller caller.Resolver
}

// Collector accumulates debug state for a single request. It is not
// safe for concurrent use; each request owns exactly one.
type Collector struct {
	cfg     Config
	started time.Time
	enabled bool

	entries    []Entry
	deprecated map[string]struct{}
	rawLines   []string
	queries    []Query

	includes     []string
	includesSeen map[string]struct{}

	resolve caller.Resolver
}

// New creates a collector for one request. Collection stays disabled
// until Enable is called.
func New(cfg Config) *Collector {
	resolve := cfg.ResolveCaller
	if resolve == nil {
		resolve = caller.Resolve
	}
	return &Collector{
		cfg:          cfg,
		started:      time.Now(),
		deprecated:   make(map[string]struct{}),
		includesSeen: make(map[string]struct{}),
		resolve:      resolve,
	}
}

// Enable turns on collection for this request. Idempotent.
func (c *Collector) Enable() {
	if c == nil {
		return
	}
	c.enabled = true
}

// Enabled reports whether collection is active.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// RequestID returns the identifier assigned at creation.
func (c *Collector) RequestID() string {
	if c == nil {
		return ""
	}
	return c.cfg.RequestID
}

// StartedAt returns the collector's creation time, used for the
// request's elapsed wall time.
func (c *Collector) StartedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.started
}

// AlwaysShowText reports the debug-text page toggle.
func (c *Collector) AlwaysShowText() bool {
	return c != nil && c.cfg.AlwaysShowText
}

// AlwaysShowComment reports the HTML-comment toggle.
func (c *Collector) AlwaysShowComment() bool {
	return c != nil && c.cfg.AlwaysShowComment
}

// Log appends an informational entry attributed to the given caller
// label. The message is HTML-escaped before storage. No-op while
// disabled.
func (c *Collector) Log(message, from string) {
	if !c.Enabled() {
		return
	}
	c.entries = append(c.entries, Entry{
		Message: htmlutil.Escape(message),
		Kind:    KindLog,
		Caller:  from,
	})
}

// Warn appends a warning entry. The originating function is resolved
// callerOffset frames above the function that invoked Warn, so offset
// 0 names Warn's direct caller.
//
// A warning is dropped when the most recently appended entry is a
// deprecation notice from the same caller: the notice already covers
// it. Only the latest entry is inspected; an unrelated entry in
// between lets the warning through.
func (c *Collector) Warn(message string, callerOffset int) {
	if !c.Enabled() {
		return
	}
	from := c.resolve(callerOffset + caller.SkipDirect)
	if n := len(c.entries); n > 0 {
		if last := c.entries[n-1]; last.Kind == KindDeprecated && last.Caller == from {
			return
		}
	}
	c.entries = append(c.entries, Entry{
		Message: htmlutil.Escape(message),
		Kind:    KindWarn,
		Caller:  from,
	})
}

// Deprecated records a deprecation notice for function. Call it from
// inside the deprecated function, via the package-level context
// helper, so the fixed frame skip lands on the offending call site.
// version and component may be empty. No-op while disabled.
//
// Each function + call site pair is recorded once per request;
// repeats are suppressed for the collector's lifetime, unlike the
// warning dedup which only looks at the latest entry.
func (c *Collector) Deprecated(function, version, component string) {
	if !c.Enabled() {
		return
	}
	c.deprecate(function, version, component)
}

func (c *Collector) deprecate(function, version, component string) {
	from := c.resolve(caller.SkipDeprecation)
	key := function + "-" + from
	if _, seen := c.deprecated[key]; seen {
		return
	}
	c.deprecated[key] = struct{}{}

	if component == "" {
		component = unknownComponent
	}
	if version == "" {
		version = unknownVersion
	}
	msg := fmt.Sprintf("Use of function %s was deprecated in %s %s",
		htmlutil.Escape(function), htmlutil.Escape(component), htmlutil.Escape(version))
	c.entries = append(c.entries, Entry{
		Message: msg + backtrace(),
		Kind:    KindDeprecated,
		Caller:  from,
	})
}

// backtrace captures the current goroutine stack as a collapsible
// markup block.
func backtrace() string {
	buf := make([]byte, backtraceBytes)
	n := runtime.Stack(buf, false)
	return "<details class=\"debug-backtrace\"><summary>Backtrace</summary><pre>" +
		htmlutil.Escape(string(buf[:n])) + "</pre></details>"
}

// Entries returns the recorded entries in insertion order.
func (c *Collector) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// CaptureLine appends one free-text line to the raw debug buffer with
// trailing whitespace removed. Unlike the structured entry methods it
// also runs while either always-show toggle is set, so those
// renditions see debug text even when the panel is off.
func (c *Collector) CaptureLine(text string) {
	if c == nil {
		return
	}
	if !c.enabled && !c.cfg.AlwaysShowText && !c.cfg.AlwaysShowComment {
		return
	}
	c.rawLines = append(c.rawLines, strings.TrimRight(text, " \t\r\n"))
}

// RawLines returns the raw debug buffer in capture order.
func (c *Collector) RawLines() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.rawLines))
	copy(out, c.rawLines)
	return out
}

// RecordInclude notes a file loaded while serving the request. Each
// path is kept once, in first-seen order. No-op while disabled.
func (c *Collector) RecordInclude(path string) {
	if !c.Enabled() {
		return
	}
	if _, seen := c.includesSeen[path]; seen {
		return
	}
	c.includesSeen[path] = struct{}{}
	c.includes = append(c.includes, path)
}

// Includes returns the recorded file paths in first-seen order.
func (c *Collector) Includes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.includes))
	copy(out, c.includes)
	return out
}

// Reset clears recorded entries and the deprecation-suppression set,
// allowing a previously suppressed notice to be recorded again. The
// enabled flag, raw buffer, and query ledger are untouched.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.entries = nil
	c.deprecated = make(map[string]struct{})
}
