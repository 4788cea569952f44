package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, true},
		{LevelError, ScopePass, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopeDriver, "parse")
	_, inner := Start(ctx, ScopeFile, "file:a.em")
	Point(ring, ScopeNode, "stop", "1:1")
	inner.WithExtra("stmts", "2").End("ok")
	outer.End("")

	evs := ring.Snapshot()
	if len(evs) != 5 {
		t.Fatalf("got %d events, want 5", len(evs))
	}
	if evs[1].ParentID != outer.ID() || evs[1].Name != "file:a.em" {
		t.Fatalf("inner begin = %+v, want parent %d", evs[1], outer.ID())
	}
	if evs[2].Kind != KindPoint || evs[2].Detail != "1:1" {
		t.Fatalf("point = %+v", evs[2])
	}
	if evs[3].Extra["stmts"] != "2" || evs[3].Kind != KindSpanEnd {
		t.Fatalf("inner end = %+v", evs[3])
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Seq <= evs[i-1].Seq {
			t.Fatal("sequence numbers must increase")
		}
	}
}

func TestDisabledTracerIsInert(t *testing.T) {
	ctx, sp := Start(context.Background(), ScopeDriver, "x")
	if sp.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("nop span must not get an ID")
	}
	if sp.WithExtra("k", "v").End("") != 0 {
		t.Fatal("nop span has no duration")
	}
	Point(nil, ScopeNode, "x", "")
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "")
	}
	evs := ring.Snapshot()
	if len(evs) != 2 || evs[0].Name != "b" || evs[1].Name != "c" {
		t.Fatalf("snapshot = %+v", evs)
	}
	if ring.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", ring.Dropped())
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "tokenize", 0).WithExtra("tokens", "3").End("done")
	Point(tr, ScopeNode, "filtered", "")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var ev struct {
		Kind   string            `json:"kind"`
		Scope  string            `json:"scope"`
		Name   string            `json:"name"`
		Detail string            `json:"detail"`
		Extra  map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Scope != "pass" || ev.Name != "tokenize" || ev.Detail != "done" || ev.Extra["tokens"] != "3" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Seq: 7, Kind: KindSpanEnd, Scope: ScopeFile, Name: "file:x", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "← file:x {a=1, b=2}") {
		t.Fatalf("text = %q", got)
	}
}

func TestMultiTracer(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Format: FormatText, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeNode, "p", "")
	m, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("got %T, want *MultiTracer", tr)
	}
	if len(m.Ring().Snapshot()) != 1 || !strings.Contains(buf.String(), "• p") {
		t.Fatalf("fan-out failed: ring=%d stream=%q", len(m.Ring().Snapshot()), buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestHeartbeatReportsProgress(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat must not start on a disabled tracer")
	}
	ring := NewRingTracer(64, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	evs := ring.Snapshot()
	if len(evs) == 0 {
		t.Fatal("no heartbeat within 5s")
	}
	if evs[0].Kind != KindHeartbeat || !strings.HasPrefix(evs[0].Detail, "#1 +") || !strings.HasSuffix(evs[0].Detail, " spans") {
		t.Fatalf("first beat = %+v", evs[0])
	}
}

func TestFileOutputIsBufferedUntilClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelDebug, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeNode, "stop", "1:3")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ev map[string]any
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("auto format must pick NDJSON for .ndjson: %v\n%s", err, data)
	}
	if ev["name"] != "stop" || ev["detail"] != "1:3" {
		t.Fatalf("event = %v", ev)
	}
}

func TestParseModeAndResolveFormat(t *testing.T) {
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode(Both) = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if ResolveFormat(FormatAuto, "-") != FormatText || ResolveFormat(FormatAuto, "x.JSONL") != FormatNDJSON {
		t.Fatal("auto format resolution")
	}
	if ResolveFormat(FormatText, "x.ndjson") != FormatText {
		t.Fatal("explicit format must win")
	}
}
