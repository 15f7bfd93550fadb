package sched

import (
	"sync/atomic"
	"time"
)

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type realClock struct {
	loop *Loop
}

// RealClock returns a wall clock whose callbacks run on loop.
func RealClock(loop *Loop) Clock {
	return realClock{loop: loop}
}

func (c realClock) Now() time.Time { return time.Now() }

func (c realClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &realTimer{}
	t.timer = time.AfterFunc(d, func() {
		c.loop.Dispatch(func() {
			// A Stop that won the race on the loop already cancelled us.
			if !t.state.CompareAndSwap(timerPending, timerFired) {
				return
			}
			fn()
		})
	})
	return t
}

type realTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *realTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}
