// Package collector implements the per-request debug collector: an
// ordered store of log, warning, and deprecation entries, a free-text
// debug buffer, a query-timing ledger, and a record of files loaded
// while serving the request.
//
// A Collector is created fresh for each request, usually by the
// middleware package, and threaded through the request's
// context.Context. Every collection method is a no-op until Enable is
// called, so instrumented code can call into the collector
// unconditionally.
//
// Key behaviors:
//
//   - Warnings are suppressed when they immediately follow a
//     deprecation notice from the same caller.
//   - Deprecation notices are recorded at most once per function and
//     call site for the life of the request.
//   - StartQuery returns the sentinel handle -1 while disabled;
//     FinishQuery treats -1 as inert.
//
// State never leaks across requests: the middleware discards the
// Collector when the response is written, and Reset clears recorded
// entries for callers that reuse one explicitly.
package collector
