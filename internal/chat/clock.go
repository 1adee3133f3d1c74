package chat

import "time"

// Clock abstracts time so the engine's scripted delays can be driven by
// tests without real time passing.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules f to run after d. The returned cancel function
	// stops the callback if it has not fired yet.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// realClock is the production Clock backed by the time package.
type realClock struct{}

// NewRealClock returns a Clock backed by real timers.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) func() {
	timer := time.AfterFunc(d, f)
	return func() { timer.Stop() }
}
