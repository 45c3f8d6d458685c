package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeRecord, true},
		{LevelError, ScopeRule, false},
		{LevelPhase, ScopeBatch, true},
		{LevelPhase, ScopeRecord, false},
		{LevelDetail, ScopeRecord, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "PHASE", "detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON, "run-1")
	ctx := WithTracer(context.Background(), tr)

	ctx, run := Start(ctx, ScopeRun, "run")
	rctx, rec := Start(ctx, ScopeRecord, "record:Foo")
	if CurrentSpan(rctx).SpanID != rec.ID() {
		t.Fatalf("context does not carry the record span")
	}
	rec.SetInt("diagnostics", 2).End("")
	run.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var begin, end jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &begin); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &end); err != nil {
		t.Fatal(err)
	}
	if begin.ParentID != run.ID() || begin.Run != "run-1" || begin.Scope != "record" {
		t.Errorf("unexpected begin event: %+v", begin)
	}
	if end.Kind != "end" || end.Attrs["diagnostics"] != "2" {
		t.Errorf("unexpected end event: %+v", end)
	}
}

func TestDisabledSpansAreFree(t *testing.T) {
	ctx := WithTracer(context.Background(), Nop)
	ctx2, s := Start(ctx, ScopeRun, "run")
	if ctx2 != ctx || s.ID() != 0 || s.End("") != 0 {
		t.Error("nop tracer must not create spans")
	}
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer must fall back to Nop")
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug, "r")
	for i := range 5 {
		r.Emit(&Event{Time: time.Now(), Seq: uint64(i), Kind: KindPoint, Scope: ScopeRecord, Name: "p"})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Seq != 2 || snap[2].Seq != 4 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap[0].Run != "r" {
		t.Errorf("run id not stamped: %q", snap[0].Run)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "* p") != 3 {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewAtErrorLevelIsRingOnly(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatal("expected a ring tracer")
	}
	Point(tr, ScopeRecord, "record:Foo", "", 0)
	if buf.Len() != 0 {
		t.Errorf("error level must not stream, got %q", buf.String())
	}
	if n := len(Ring(tr).Snapshot()); n != 1 {
		t.Errorf("expected 1 ring event, got %d", n)
	}
}

func TestMultiTracerFindsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeBatch, "batch:library", "3 records", 0)
	if !strings.Contains(buf.String(), "batch:library (3 records)") {
		t.Errorf("unexpected stream output %q", buf.String())
	}
	if Ring(tr) == nil || len(Ring(tr).Snapshot()) != 1 {
		t.Error("ring of a multi tracer not reachable")
	}
}

func TestRecordSpansInFlight(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText, "")
	before := InFlight()

	a := Begin(tr, ScopeRecord, "record:A", 0)
	b := Begin(tr, ScopeRecord, "record:B", 0)
	batch := Begin(tr, ScopeBatch, "batch:library", 0)
	if got := InFlight() - before; got != 2 {
		t.Fatalf("in flight = %d, want 2", got)
	}
	a.Set("rule", "no-implicit-globals").End("")
	a.End("")
	b.End("")
	batch.End("")
	if got := InFlight() - before; got != 0 {
		t.Fatalf("in flight after End = %d, want 0", got)
	}
	if strings.Count(buf.String(), "< record:A") != 1 {
		t.Errorf("span ended twice:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "< record:A rule=no-implicit-globals") {
		t.Errorf("attrs not rendered:\n%s", buf.String())
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase, "")
	h := StartHeartbeat(r, time.Millisecond)
	if h == nil {
		t.Fatal("heartbeat not started")
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	snap := r.Snapshot()
	if len(snap) == 0 || snap[0].Kind != KindHeartbeat || !strings.Contains(snap[0].Detail, "in flight") {
		t.Fatalf("unexpected events: %+v", snap)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil || StartHeartbeat(r, 0) != nil {
		t.Error("disabled heartbeat must be nil")
	}
	var none *Heartbeat
	none.Stop()
}
