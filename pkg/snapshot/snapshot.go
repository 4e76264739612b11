package snapshot

import (
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/debugpanel/debugpanel/pkg/collector"
	"github.com/debugpanel/debugpanel/pkg/vcs"
)

// completeMessage is the synthetic entry appended by Build to mark
// render time; it is always the last entry of an enabled snapshot.
const completeMessage = "Debug output complete"

// Env bundles the environment facts Build folds into the snapshot.
// Zero-valued fields surface as placeholders, never as errors.
type Env struct {
	// AppVersion is the host application version string.
	AppVersion string

	// VCS describes the checked-out head, if any.
	VCS vcs.Info

	// Request is the request being served. May be nil.
	Request *http.Request
}

// RequestInfo is the request-context portion of a snapshot.
type RequestInfo struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Params  map[string]string `json:"params"`
}

// QueryInfo is one ledger entry with its elapsed time in seconds.
type QueryInfo struct {
	SQL      string  `json:"sql"`
	Function string  `json:"function"`
	Master   bool    `json:"master"`
	Time     float64 `json:"time"`
}

// IncludedFile is one file loaded during the request, with its size
// already formatted for display.
type IncludedFile struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// Snapshot is the complete export of collector state and environment
// facts for one request.
type Snapshot struct {
	RequestID   string            `json:"requestId,omitempty"`
	AppVersion  string            `json:"appVersion"`
	GoVersion   string            `json:"goVersion"`
	GitRevision string            `json:"gitRevision"`
	GitBranch   string            `json:"gitBranch"`
	GitViewURL  string            `json:"gitViewUrl"`
	Time        float64           `json:"time"`
	Log         []collector.Entry `json:"log"`
	DebugLog    []string          `json:"debugLog"`
	Queries     []QueryInfo       `json:"queries"`
	Request     RequestInfo       `json:"request"`
	Memory      string            `json:"memory"`
	MemoryPeak  string            `json:"memoryPeak"`
	Includes    []IncludedFile    `json:"includes"`
}

// Build assembles the snapshot for an enabled collector. It appends
// the final synthetic "output complete" entry first, so that entry is
// always last in the exported log. A disabled collector yields the
// zero Snapshot.
func Build(c *collector.Collector, env Env) Snapshot {
	if !c.Enabled() {
		return Snapshot{}
	}

	c.Log(completeMessage, "snapshot.Build")

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	queries := make([]QueryInfo, 0, len(c.Queries()))
	for _, q := range c.Queries() {
		queries = append(queries, QueryInfo{
			SQL:      q.SQL,
			Function: q.Function,
			Master:   q.Master,
			Time:     q.Elapsed.Seconds(),
		})
	}

	return Snapshot{
		RequestID:   c.RequestID(),
		AppVersion:  env.AppVersion,
		GoVersion:   runtime.Version(),
		GitRevision: env.VCS.Commit,
		GitBranch:   env.VCS.Branch,
		GitViewURL:  env.VCS.ViewURL,
		Time:        time.Since(c.StartedAt()).Seconds(),
		Log:         c.Entries(),
		DebugLog:    c.RawLines(),
		Queries:     queries,
		Request:     requestInfo(env.Request),
		Memory:      humanize.IBytes(mem.HeapAlloc),
		MemoryPeak:  humanize.IBytes(mem.Sys),
		Includes:    includedFiles(c.Includes()),
	}
}

// requestInfo flattens the request facts. Multi-valued headers and
// parameters are joined for display.
func requestInfo(r *http.Request) RequestInfo {
	if r == nil {
		return RequestInfo{}
	}
	info := RequestInfo{
		Method:  r.Method,
		URL:     r.URL.String(),
		Headers: make(map[string]string, len(r.Header)),
		Params:  make(map[string]string),
	}
	for name, values := range r.Header {
		info.Headers[name] = strings.Join(values, ", ")
	}
	for name, values := range r.URL.Query() {
		info.Params[name] = strings.Join(values, ", ")
	}
	return info
}

// includedFiles stats each recorded path and formats its size. Files
// that vanished since being recorded keep a placeholder size.
func includedFiles(paths []string) []IncludedFile {
	files := make([]IncludedFile, 0, len(paths))
	for _, path := range paths {
		size := "unknown"
		if fi, err := os.Stat(path); err == nil {
			size = humanize.IBytes(uint64(fi.Size()))
		}
		files = append(files, IncludedFile{Name: path, Size: size})
	}
	return files
}
