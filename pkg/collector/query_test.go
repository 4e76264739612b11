package collector

import (
	"testing"
	"time"
)

func TestQueryHandlesSequential(t *testing.T) {
	c := New(Config{})
	c.Enable()
	for i := 0; i < 3; i++ {
		if h := c.StartQuery("SELECT 1", "pkg.fn", false); h != i {
			t.Errorf("handle = %d, want %d", h, i)
		}
	}
}

func TestFinishQuery(t *testing.T) {
	c := New(Config{})
	c.Enable()
	h0 := c.StartQuery("SELECT a FROM t", "pkg.fn", false)
	h1 := c.StartQuery("UPDATE t SET a = 1", "pkg.fn", true)

	time.Sleep(time.Millisecond)
	c.FinishQuery(h1)

	queries := c.Queries()
	if queries[h1].Elapsed <= 0 {
		t.Errorf("finished query elapsed = %v, want > 0", queries[h1].Elapsed)
	}
	if queries[h0].Elapsed != 0 {
		t.Errorf("unfinished query elapsed = %v, want 0", queries[h0].Elapsed)
	}
	if !queries[h1].Master {
		t.Error("master flag lost")
	}
}

func TestFinishQueryUntracked(t *testing.T) {
	c := New(Config{})
	c.Enable()
	c.StartQuery("SELECT 1", "pkg.fn", false)

	c.FinishQuery(Untracked)
	c.FinishQuery(99)

	if got := c.Queries()[0].Elapsed; got != 0 {
		t.Errorf("elapsed = %v, want 0 after inert finishes", got)
	}
}

func TestFinishQueryTwiceOverwrites(t *testing.T) {
	c := New(Config{})
	c.Enable()
	h := c.StartQuery("SELECT 1", "pkg.fn", false)
	c.FinishQuery(h)
	first := c.Queries()[h].Elapsed
	time.Sleep(time.Millisecond)
	c.FinishQuery(h)
	second := c.Queries()[h].Elapsed
	if second < first {
		t.Errorf("second measurement %v < first %v", second, first)
	}
}

func TestQueriesSnapshotIsCopy(t *testing.T) {
	c := New(Config{})
	c.Enable()
	c.StartQuery("SELECT 1", "pkg.fn", false)
	snap := c.Queries()
	snap[0].SQL = "mutated"
	if c.Queries()[0].SQL != "SELECT 1" {
		t.Error("Queries returned shared backing storage")
	}
}
