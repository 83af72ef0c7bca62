package data

import "time"

// TimeProvider provides time-related functionality that can be mocked for testing.
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using real system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FixedTimeProvider returns a fixed time, useful for deterministic tests.
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	return f.Time
}
