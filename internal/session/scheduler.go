package session

import (
	"sort"
	"time"
)

// Scheduler is a virtual clock with a queue of delayed callbacks. Nothing
// runs until the host calls Advance or Flush, so all callbacks execute on
// the caller's goroutine in (due time, insertion) order.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []task
}

type task struct {
	due time.Duration
	seq uint64
	fn  func()
}

// maxFlushSteps bounds Flush so a callback that keeps rescheduling itself
// cannot hang the caller.
const maxFlushSteps = 100000

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After queues fn to run once the clock has advanced by d.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := task{due: s.now + d, seq: s.seq, fn: fn}
	i := sort.Search(len(s.tasks), func(i int) bool {
		return s.tasks[i].due > t.due
	})
	s.tasks = append(s.tasks, task{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = t
}

// Pending returns the number of queued callbacks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by dt and runs every callback that falls
// due, including ones queued by earlier callbacks within the window.
// It returns how many callbacks ran.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	ran := 0
	for len(s.tasks) > 0 && s.tasks[0].due <= target {
		ran += s.runNext()
	}
	s.now = target
	return ran
}

// Flush runs callbacks until the queue is empty, jumping the clock to each
// due time. It returns how many callbacks ran.
func (s *Scheduler) Flush() int {
	ran := 0
	for len(s.tasks) > 0 && ran < maxFlushSteps {
		ran += s.runNext()
	}
	return ran
}

// Clear drops every queued callback.
func (s *Scheduler) Clear() {
	s.tasks = s.tasks[:0]
}

func (s *Scheduler) runNext() int {
	t := s.tasks[0]
	s.tasks = s.tasks[1:]
	if t.due > s.now {
		s.now = t.due
	}
	t.fn()
	return 1
}
