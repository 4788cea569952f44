package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "2 files")
	tm.End(42, "ignored")
	tm.Observe("parse a.em", 3*time.Millisecond, "")

	r := tm.Report()
	// observed phase started 3ms ago, so it sorts first
	if len(r.Phases) != 2 || r.Phases[0].DurationMS != 3 || r.Phases[1].Note != "2 files" {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS < 3 {
		t.Fatalf("total %v must cover the observed phase", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "load") || !strings.Contains(s, "// 2 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary = %q", s)
	}
}

func TestTimerEmpty(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	tm.Observe("y", time.Second, "")
	if r := tm.Report(); r.Phases != nil || !strings.Contains(tm.Summary(), "total") {
		t.Fatalf("nil timer report = %+v", r)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("worker"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 8 {
		t.Fatalf("phases = %d, want 8", n)
	}
}
