package trace

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seq      atomic.Uint64
	spanIDs  atomic.Uint64
	inFlight atomic.Int64 // открытые спаны уровня record
)

func nextSeq() uint64 { return seq.Add(1) }

// InFlight returns the number of record spans begun and not yet ended.
func InFlight() int64 {
	return inFlight.Load()
}

// Span tracks one begin/end pair. The zero Span, and any span begun on a
// disabled tracer, is inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
	ended   bool
}

// Begin emits a begin event and returns the span. parent is 0 for a root.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}

	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if scope == ScopeRecord {
		inFlight.Add(1)
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// Set attaches key=value to the end event. Setting a key twice keeps both.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// SetInt is Set for counters.
func (s *Span) SetInt(key string, n int) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	return s.Set(key, strconv.Itoa(n))
}

// End emits the end event once and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || s.ended {
		return 0
	}
	s.ended = true
	if s.scope == ScopeRecord {
		inFlight.Add(-1)
	}

	now := time.Now()
	s.tracer.Emit(&Event{
		Time:     now,
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Attrs:    s.attrs,
	})
	return now.Sub(s.started)
}

// ID returns the span id, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Start begins a span under the span carried by ctx, using the tracer from
// ctx, and returns a context carrying the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if s.id == 0 {
		return ctx, s
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id}), s
}
