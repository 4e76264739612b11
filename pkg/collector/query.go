package collector

import "time"

// Untracked is the sentinel handle returned by StartQuery while the
// collector is disabled. FinishQuery treats it as inert; it is never a
// valid ledger index.
const Untracked = -1

// Query is one tracked database query. It is created by StartQuery
// with the elapsed time unset and finalized by FinishQuery.
type Query struct {
	// SQL is the query text.
	SQL string `json:"sql"`

	// Function is the label of the function that issued the query.
	Function string `json:"function"`

	// Master reports whether the query ran against the primary.
	Master bool `json:"master"`

	// Elapsed is the measured duration. Zero until FinishQuery runs.
	Elapsed time.Duration `json:"-"`

	// started is held only between StartQuery and FinishQuery.
	started time.Time
}

// StartQuery records the start of a query and returns its handle.
// Handles are assigned sequentially from 0 and stay stable for the
// life of the request. While disabled it returns Untracked.
func (c *Collector) StartQuery(sql, function string, master bool) int {
	if c == nil || !c.enabled {
		return Untracked
	}
	c.queries = append(c.queries, Query{
		SQL:      sql,
		Function: function,
		Master:   master,
		started:  time.Now(),
	})
	return len(c.queries) - 1
}

// FinishQuery records the elapsed time for a started query. A handle
// of Untracked, a disabled collector, or an out-of-range handle is a
// no-op. Finishing the same handle twice overwrites the measurement;
// the ledger does not guard against it.
func (c *Collector) FinishQuery(handle int) {
	if c == nil || !c.enabled || handle == Untracked {
		return
	}
	if handle < 0 || handle >= len(c.queries) {
		return
	}
	q := &c.queries[handle]
	q.Elapsed = time.Since(q.started)
	q.started = time.Time{}
}

// Queries returns a snapshot of the query ledger in handle order.
func (c *Collector) Queries() []Query {
	if c == nil {
		return nil
	}
	out := make([]Query, len(c.queries))
	copy(out, c.queries)
	return out
}
