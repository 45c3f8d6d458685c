// Package observ measures the phases of one run.
package observ

import (
	"sync"
	"time"
)

// Phase is one measured step of a run: load, lint:library, lint:trigger,
// correlate, report.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Note   string
	Failed bool
}

// Timer collects phases in the order they started. Safe for concurrent use;
// a nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Start opens a phase. The returned stop function closes it with a note;
// calls after the first are ignored.
func (t *Timer) Start(name string) (stop func(note string)) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	t.mu.Unlock()

	var once sync.Once
	return func(note string) {
		once.Do(func() { t.finish(idx, note, false) })
	}
}

func (t *Timer) finish(idx int, note string, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
	p.Failed = failed
}

// Measure runs fn as a phase named name and returns its error. A failed
// phase without a note is noted with the error text.
func (t *Timer) Measure(name string, fn func() (note string, err error)) error {
	if t == nil {
		_, err := fn()
		return err
	}
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	t.mu.Unlock()

	note, err := fn()
	if err != nil && note == "" {
		note = "failed: " + err.Error()
	}
	t.finish(idx, note, err != nil)
	return err
}

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Failed     bool    `json:"failed,omitempty"`
}

// Report is the timer state at one point in time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Slowest string        `json:"slowest,omitempty"`
	Phases  []PhaseReport `json:"phases"`
}

// Report copies the phases out. Phases still open report a zero duration.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var rep Report
	var total, slowest time.Duration
	for _, p := range t.phases {
		total += p.Dur
		if p.Dur > slowest {
			slowest = p.Dur
			rep.Slowest = p.Name
		}
		rep.Phases = append(rep.Phases, PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			Note:       p.Note,
			Failed:     p.Failed,
		})
	}
	rep.TotalMS = millis(total)
	return rep
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
