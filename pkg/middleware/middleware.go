// Package middleware wires the debug collector into an HTTP server.
// It creates a fresh collector per request, threads it through the
// request context, and injects the rendered panel artifacts into HTML
// responses at finalization time. This is the request-local lifecycle
// the collector requires: no state survives the response.
package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/debugpanel/debugpanel/pkg/collector"
	"github.com/debugpanel/debugpanel/pkg/logging"
	"github.com/debugpanel/debugpanel/pkg/render"
	"github.com/debugpanel/debugpanel/pkg/snapshot"
	"github.com/debugpanel/debugpanel/pkg/vcs"
)

// Options configures the middleware.
type Options struct {
	// Enabled turns on collection for every request.
	Enabled bool

	// AlwaysShowText renders the nested debug-text list into HTML
	// responses even while collection is off.
	AlwaysShowText bool

	// AlwaysShowComment appends the raw-buffer HTML comment even while
	// collection is off.
	AlwaysShowComment bool

	// AppVersion is reported in snapshots.
	AppVersion string

	// VCS describes the running checkout.
	VCS vcs.Info

	// Logger receives operational events. Nil means no logging.
	Logger *slog.Logger
}

// Middleware wraps an http.Handler with the collector lifecycle.
type Middleware struct {
	next   http.Handler
	opts   Options
	logger *slog.Logger
}

// New creates the middleware around next.
func New(next http.Handler, opts Options) *Middleware {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Middleware{next: next, opts: opts, logger: logger}
}

// ServeHTTP implements http.Handler.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := collector.New(collector.Config{
		RequestID:         uuid.New().String(),
		AlwaysShowText:    m.opts.AlwaysShowText,
		AlwaysShowComment: m.opts.AlwaysShowComment,
	})
	if m.opts.Enabled {
		c.Enable()
	}

	rec := newRecorder()
	m.next.ServeHTTP(rec, r.WithContext(collector.WithCollector(r.Context(), c)))

	body := rec.body.Bytes()
	if m.shouldDecorate(c, rec) {
		body = inject(body, m.fragment(c, r))
		m.logger.Debug("debug panel rendered",
			"requestID", c.RequestID(),
			"entries", len(c.Entries()),
			"queries", len(c.Queries()))
	}

	h := w.Header()
	for name, values := range rec.header {
		h[name] = values
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(rec.status)
	_, _ = w.Write(body)
}

// fragment assembles everything appended to the page: the nested
// debug-text list when always-on, then the panel script and comment.
func (m *Middleware) fragment(c *collector.Collector, r *http.Request) []byte {
	var b strings.Builder
	if c.AlwaysShowText() {
		b.WriteString(render.DebugLogHTML(c.RawLines()))
	}
	b.WriteString(snapshot.RenderPanel(c, snapshot.Env{
		AppVersion: m.opts.AppVersion,
		VCS:        m.opts.VCS,
		Request:    r,
	}))
	return []byte(b.String())
}

// shouldDecorate reports whether the response gets panel artifacts:
// only HTML responses, and only when something would be rendered.
func (m *Middleware) shouldDecorate(c *collector.Collector, rec *recorder) bool {
	if !c.Enabled() && !c.AlwaysShowText() && !c.AlwaysShowComment() {
		return false
	}
	ct := rec.header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(rec.body.Bytes())
	}
	return strings.HasPrefix(ct, "text/html")
}

// inject places the fragment before the closing body tag, or appends
// it when the response has none.
func inject(body, fragment []byte) []byte {
	if len(fragment) == 0 {
		return body
	}
	if i := bytes.LastIndex(body, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(body)+len(fragment))
		out = append(out, body[:i]...)
		out = append(out, fragment...)
		out = append(out, body[i:]...)
		return out
	}
	return append(body, fragment...)
}

// recorder buffers the wrapped handler's response so the panel can be
// injected before anything reaches the client.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header), status: http.StatusOK}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) { r.status = status }

func (r *recorder) Write(b []byte) (int, error) { return r.body.Write(b) }
