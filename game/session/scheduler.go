package session

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler is a start/stop tick source backed by a clock ticker.
//
// It is owned by the Manager goroutine and does no locking of its own.
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
	ticker   *clock.Ticker
}

// NewScheduler creates a stopped scheduler firing every interval
func NewScheduler(c clock.Clock, interval time.Duration) *Scheduler {
	return &Scheduler{
		clock:    c,
		interval: interval,
	}
}

// Start begins ticking. It returns false if the scheduler was already running.
func (s *Scheduler) Start() bool {
	if s.ticker != nil {
		return false
	}
	s.ticker = s.clock.Ticker(s.interval)
	return true
}

// Stop halts ticking. It returns false if the scheduler was not running.
func (s *Scheduler) Stop() bool {
	if s.ticker == nil {
		return false
	}
	s.ticker.Stop()
	s.ticker = nil
	return true
}

// C returns the tick channel, or nil when stopped so a select case on it never fires.
// A tick buffered by a previous ticker is dropped along with that ticker.
func (s *Scheduler) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C
}
