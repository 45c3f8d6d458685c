package driver

import (
	"time"

	"scriptlint/internal/record"
)

// Status captures the progress state of one record.
type Status string

const (
	// StatusQueued indicates the record is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the record is being linted.
	StatusWorking Status = "working"
	// StatusDone indicates the record was linted.
	StatusDone Status = "done"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the lint pass failed for the record.
	StatusError Status = "error"
)

// Event reports progress for a record (or for the whole batch when Record
// is empty).
type Event struct {
	Record  string
	Kind    record.Kind
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Batch reports whether the event describes a whole batch.
func (e Event) Batch() bool {
	return e.Record == ""
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: events of one batch arrive from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}

func emitQueued(sink ProgressSink, kind record.Kind, records []record.Record) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Kind: kind, Status: StatusQueued})
	for _, r := range records {
		sink.OnEvent(Event{Record: r.Name, Kind: kind, Status: StatusQueued})
	}
}
