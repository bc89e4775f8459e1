package utils

import "time"

// Timer measures elapsed wall-clock time between a start and stop event.
// Create one with [NewTimer], which starts the timer immediately.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer creates a Timer started at the current instant.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Stop records and returns the time elapsed since [NewTimer]. Later calls
// overwrite the recorded duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.startTime)
	return t.duration
}

// GetDuration returns the duration captured by the most recent call to
// [Timer.Stop], or zero if Stop has not been called.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
