package mocks

import (
	"time"

	"github.com/quizhaus/quizhaus/internal/dependencies/sched"
)

// ScheduledCall records a callback registered with the MockScheduler
type ScheduledCall struct {
	Delay     time.Duration
	Repeating bool
	Fn        func()

	stopped bool
}

// Stopped reports whether the call's handle has been stopped
func (c *ScheduledCall) Stopped() bool {
	return c.stopped
}

// MockScheduler is a mock implementation of Scheduler for testing.
// Callbacks never fire on their own; tests fire them explicitly,
// which makes it possible to exercise stale-callback races on purpose.
type MockScheduler struct {
	Calls []*ScheduledCall
}

// Ensure MockScheduler implements Scheduler
var _ sched.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// AfterFunc records a one-shot callback
func (s *MockScheduler) AfterFunc(d time.Duration, f func()) sched.Handle {
	call := &ScheduledCall{Delay: d, Fn: f}
	s.Calls = append(s.Calls, call)
	return &mockHandle{call: call}
}

// Every records a repeating callback
func (s *MockScheduler) Every(d time.Duration, f func()) sched.Handle {
	call := &ScheduledCall{Delay: d, Repeating: true, Fn: f}
	s.Calls = append(s.Calls, call)
	return &mockHandle{call: call}
}

// Fire invokes the i-th recorded callback even if it was stopped,
// so tests can simulate a timer that was already queued when its
// handle was cancelled
func (s *MockScheduler) Fire(i int) {
	s.Calls[i].Fn()
}

// FirePending invokes every recorded callback that has not been
// stopped, in registration order, and returns how many fired
func (s *MockScheduler) FirePending() int {
	fired := 0
	for _, call := range s.Calls {
		if !call.stopped {
			call.Fn()
			fired++
		}
	}
	return fired
}

// Pending returns the recorded calls that have not been stopped
func (s *MockScheduler) Pending() []*ScheduledCall {
	var pending []*ScheduledCall
	for _, call := range s.Calls {
		if !call.stopped {
			pending = append(pending, call)
		}
	}
	return pending
}

// Reset clears all recorded calls
func (s *MockScheduler) Reset() {
	s.Calls = nil
}

type mockHandle struct {
	call *ScheduledCall
}

func (h *mockHandle) Stop() {
	h.call.stopped = true
}
