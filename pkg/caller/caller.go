// Package caller resolves human-readable names for functions on the
// call stack. It is the canonical source for the frame-skip constants
// used by the debug collector's warning and deprecation paths.
package caller

import (
	"runtime"
	"strings"
)

// Frame-skip constants for Resolve.
const (
	// SkipDirect steps over a single intermediate frame. The collector's
	// Warn adds this to the caller-supplied offset so that offset 0 names
	// the function that invoked Warn.
	SkipDirect = 1

	// SkipDeprecation compensates for the deprecation-notice helper
	// chain: deprecate -> (*Collector).Deprecated -> collector.Deprecated
	// (the context helper) -> the deprecated function itself. The fifth
	// frame up is the call site being warned about.
	SkipDeprecation = 4
)

// Unknown is returned when the stack cannot be resolved at the
// requested depth.
const Unknown = "unknown"

// Resolver is the injectable caller-resolution capability. Resolve
// satisfies it; tests substitute a fixed-value implementation.
type Resolver func(skip int) string

// Resolve returns a short label for the function skip frames above the
// function that invoked Resolve. Skip 0 names the invoking function
// itself, 1 its caller, and so on. The label has the module path
// trimmed, e.g. "collector.(*Collector).Warn".
func Resolve(skip int) string {
	pc := make([]uintptr, 1)
	// +2 steps over runtime.Callers and Resolve itself.
	if runtime.Callers(skip+2, pc) == 0 {
		return Unknown
	}
	frame, _ := runtime.CallersFrames(pc).Next()
	if frame.Function == "" {
		return Unknown
	}
	return shorten(frame.Function)
}

// shorten trims the package import path, keeping the package name and
// the function (or method) identifier.
func shorten(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
