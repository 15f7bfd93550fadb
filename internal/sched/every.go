package sched

import "time"

// Every runs fn every period until the returned timer is stopped. The next
// tick is armed only after fn returns, so ticks never overlap. A
// non-positive period yields a timer that never fires.
func Every(c Clock, period time.Duration, fn func()) Timer {
	if period <= 0 {
		return stoppedTimer{}
	}
	t := &ticker{clock: c, period: period, fn: fn}
	t.arm()
	return t
}

type ticker struct {
	clock   Clock
	period  time.Duration
	fn      func()
	current Timer
	stopped bool
}

func (t *ticker) arm() {
	t.current = t.clock.AfterFunc(t.period, t.tick)
}

func (t *ticker) tick() {
	if t.stopped {
		return
	}
	t.fn()
	if !t.stopped {
		t.arm()
	}
}

func (t *ticker) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.current.Stop()
	return true
}
