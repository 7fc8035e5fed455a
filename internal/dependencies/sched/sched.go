package sched

import (
	"sync"
	"time"
)

// Handle controls a scheduled callback
type Handle interface {
	// Stop cancels the callback. Stopping twice is safe. A callback
	// already executing is not interrupted, which is why every timer
	// callback in this codebase re-validates state at fire time.
	Stop()
}

// Scheduler abstracts timer scheduling so game logic can be tested
// without waiting on real clocks
type Scheduler interface {
	// AfterFunc runs f once after d has elapsed
	AfterFunc(d time.Duration, f func()) Handle

	// Every runs f repeatedly with period d until stopped
	Every(d time.Duration, f func()) Handle
}

// RealScheduler implements Scheduler on top of the time package
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// AfterFunc runs f once after d
func (s *RealScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return &timerHandle{timer: time.AfterFunc(d, f)}
}

// Every runs f on a ticker with period d
func (s *RealScheduler) Every(d time.Duration, f func()) Handle {
	h := &tickerHandle{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f()
			case <-h.done:
				return
			}
		}
	}()
	return h
}

type timerHandle struct {
	timer *time.Timer
}

func (h *timerHandle) Stop() {
	h.timer.Stop()
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}
