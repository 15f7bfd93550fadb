// Package sched owns every timer the motion runtime creates.
//
// Callbacks never run concurrently with each other: a Manual clock fires
// them on the goroutine that advances it, and a real clock hands them to a
// Loop that drains them one at a time. Types in this package other than
// Manual and Loop are not safe for concurrent use and must only be touched
// from the goroutine that runs the callbacks.
package sched

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped a callback that had not yet run.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
