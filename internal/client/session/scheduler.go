package session

import (
	"sync"
	"time"
)

type stopper interface {
	Stop() bool
}

// Scheduler holds at most one pending auto-logout timer.
type Scheduler struct {
	mu        sync.Mutex
	pending   stopper
	afterFunc func(time.Duration, func()) stopper
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		afterFunc: func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
	}
}

// Arm cancels any pending timer and schedules fire after remaining. A
// non-positive remaining runs fire synchronously on the caller's goroutine.
func (s *Scheduler) Arm(remaining time.Duration, fire func()) {
	s.mu.Lock()
	s.stopLocked()
	if remaining > 0 {
		var t stopper
		t = s.afterFunc(remaining, func() {
			s.mu.Lock()
			if s.pending == t {
				s.pending = nil
			}
			s.mu.Unlock()
			fire()
		})
		s.pending = t
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fire()
}

// Cancel stops the pending timer, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Pending reports whether a timer is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Scheduler) stopLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
