package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory, for a dump when the
// run panics.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  uint64 // total events written; next slot is next % len(buf)
	level Level
	run   string
}

// NewRingTracer creates a ring of capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level, run string) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level, run: run}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	if stored.Run == "" {
		stored.Run = t.run
	}
	stored.Attrs = append([]Attr(nil), ev.Attrs...)

	t.mu.Lock()
	t.buf[t.next%uint64(len(t.buf))] = stored
	t.next++
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := uint64(len(t.buf))
	if t.next <= size {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	start := t.next % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[start:]...)
	return append(out, t.buf[:start]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
