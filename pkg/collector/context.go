package collector

import "context"

type ctxKey struct{}

// WithCollector returns a context carrying the collector.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the collector carried by the context, or nil
// when none is present. Every Collector method treats a nil receiver
// as a no-op, so instrumented code can call collection methods on the
// result unconditionally.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(ctxKey{}).(*Collector)
	return c
}

// Deprecated records a deprecation notice on the context's collector.
// It is the canonical entry point: call it from inside the deprecated
// function, and the notice is attributed to that function's call site.
func Deprecated(ctx context.Context, function, version, component string) {
	FromContext(ctx).Deprecated(function, version, component)
}
