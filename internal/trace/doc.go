// Package trace records what a lint run is doing while it does it.
//
// A run is traced as nested spans: the run itself, each batch (library and
// trigger), and each record inside a batch. Spans carry the record name and
// the number of findings, so a slow or hung lint call shows up as a record
// span that begins and never ends.
//
// # Usage
//
//	scriptlint check --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a panic
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped on panic
//   - LevelPhase: run and batch boundaries
//   - LevelDetail: per-record spans
//   - LevelDebug: everything, including per-rule events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeBatch, "batch:library", parentID)
//	defer span.End("")
package trace
