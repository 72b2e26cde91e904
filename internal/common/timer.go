// Package common provides small helpers shared across commands.
package common

import (
	"fmt"
	"log/slog"
	"time"
)

// Timer measures one named stage of work.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer creates a new timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return fmt.Sprintf("%v", t.duration)
}

// Stages collects the timers of a multi-step operation. It renders as a
// group of name=duration attributes when logged with slog.
type Stages struct {
	timers []*Timer
}

// Start begins timing a new stage. Call Stop on the result when it ends.
func (s *Stages) Start(name string) *Timer {
	t := NewNamedTimer(name)
	s.timers = append(s.timers, t)
	return t
}

// Total is the sum of all stopped stages.
func (s *Stages) Total() time.Duration {
	var total time.Duration
	for _, t := range s.timers {
		total += t.duration
	}
	return total
}

// LogValue implements slog.LogValuer.
func (s *Stages) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(s.timers))
	for _, t := range s.timers {
		attrs = append(attrs, slog.Duration(t.name, t.duration))
	}
	return slog.GroupValue(attrs...)
}
