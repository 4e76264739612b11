package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debugpanel/debugpanel/pkg/collector"
)

const page = "<html><body><h1>demo</h1></body></html>"

func htmlHandler(instrument func(c *collector.Collector)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := collector.FromContext(r.Context())
		if instrument != nil {
			instrument(c)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
}

func serve(t *testing.T, h http.Handler, opts Options) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	New(h, opts).ServeHTTP(w, httptest.NewRequest("GET", "http://example.org/", nil))
	return w
}

func TestPanelInjectedBeforeBodyClose(t *testing.T) {
	w := serve(t, htmlHandler(func(c *collector.Collector) {
		c.Log("handler ran", "demo.handler")
	}), Options{Enabled: true, AppVersion: "1.0"})

	body := w.Body.String()
	script := "<script id=\"debugpanel-config\">"
	require.Contains(t, body, script)
	assert.Less(t, strings.Index(body, script), strings.Index(body, "</body>"),
		"panel must sit inside the body element")
	assert.Contains(t, body, `"appVersion":"1.0"`)
}

func TestDisabledResponseUntouched(t *testing.T) {
	w := serve(t, htmlHandler(nil), Options{})
	assert.Equal(t, page, w.Body.String())
}

func TestNonHTMLUntouched(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	})
	w := serve(t, h, Options{Enabled: true})
	assert.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestAlwaysShowTextWhileDisabled(t *testing.T) {
	w := serve(t, htmlHandler(func(c *collector.Collector) {
		c.CaptureLine("Entering handler")
		c.CaptureLine("  working")
	}), Options{AlwaysShowText: true})

	body := w.Body.String()
	assert.Contains(t, body, "<strong>Debug data:</strong>")
	assert.Contains(t, body, "<code>Entering handler</code>")
	assert.NotContains(t, body, "debugpanel-config", "no script without the enabled flag")
}

func TestAlwaysShowCommentWhileDisabled(t *testing.T) {
	w := serve(t, htmlHandler(func(c *collector.Collector) {
		c.CaptureLine("quiet note")
	}), Options{AlwaysShowComment: true})

	assert.Contains(t, w.Body.String(), "<!-- Debug output:")
	assert.Contains(t, w.Body.String(), "quiet note")
}

func TestFreshCollectorPerRequest(t *testing.T) {
	var ids []string
	h := htmlHandler(func(c *collector.Collector) {
		ids = append(ids, c.RequestID())
		c.Deprecated("oldFn", "1.0", "App")
	})
	mw := New(h, Options{Enabled: true})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest("GET", "http://example.org/", nil))
		// Dedup state must not leak: each request records its notice.
		assert.Contains(t, w.Body.String(), "was deprecated", "request %d", i)
	}

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
}

func TestContentLengthRewritten(t *testing.T) {
	w := serve(t, htmlHandler(nil), Options{Enabled: true})
	n, err := strconv.Atoi(w.Header().Get("Content-Length"))
	require.NoError(t, err)
	assert.Equal(t, w.Body.Len(), n)
}

func TestStatusPreserved(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html><body>missing</body></html>")
	})
	w := serve(t, h, Options{Enabled: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
