package trace

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// spansEnded counts finished spans process-wide; heartbeats report how many
// ended since the previous beat.
var spansEnded atomic.Uint64

// Heartbeat emits a driver-scope event every interval until stopped. A run
// of heartbeats with "+0 spans" points at a file that is not making progress.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat returns nil when tracing is off or interval is not positive;
// Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, interval: interval, done: make(chan struct{})}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	beat := 0
	last := spansEnded.Load()
	for {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			beat++
			ended := spansEnded.Load()
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat) + " +" + strconv.FormatUint(ended-last, 10) + " spans",
			})
			last = ended
		}
	}
}

// Stop ends the heartbeat goroutine and waits for it. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.done) })
	h.wg.Wait()
}
