package chathub

import "time"

// Scheduler runs fn after d has elapsed. Implementations used by the hub
// must run fn on the hub loop, never on a timer goroutine.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// loopScheduler arms a timer whose only job is to post fn back into the
// hub's task channel.
type loopScheduler struct {
	hub *ManagerService
}

func (s loopScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.hub.post(fn) })
}
