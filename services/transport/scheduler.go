package transport

import "time"

// TaskHandle is a cancellable scheduled task. Cancel is safe to call more
// than once and after the task has fired.
type TaskHandle interface {
	Cancel()
}

// Scheduler schedules one-shot tasks. Timers are never ambient: everything
// the transport and notification layers schedule goes through a Scheduler
// so teardown can deterministically prevent late callbacks.
type Scheduler interface {
	After(d time.Duration, fn func()) TaskHandle
}

type timerScheduler struct{}

// NewScheduler returns the production Scheduler backed by time.AfterFunc.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) After(d time.Duration, fn func()) TaskHandle {
	return timerHandle{time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() {
	h.t.Stop()
}
