package sched

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a virtual clock. Time only moves when Advance is called, and
// due callbacks fire synchronously on the caller in deadline order. Ties
// fire in the order they were scheduled.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue timerQueue
}

// NewManual returns a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{clock: m, at: m.now.Add(d), seq: m.seq, fn: fn, index: -1}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves the clock forward by d, running every callback whose
// deadline falls inside the window, including callbacks scheduled by
// callbacks. It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	fired := 0
	for len(m.queue) > 0 && !m.queue[0].at.After(target) {
		t := heap.Pop(&m.queue).(*manualTimer)
		if t.at.After(m.now) {
			m.now = t.at
		}
		m.mu.Unlock()
		t.fn()
		fired++
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
	return fired
}

// Pending returns the number of callbacks waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

type manualTimer struct {
	clock *Manual
	at    time.Time
	seq   uint64
	fn    func()
	index int
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.clock.queue, t.index)
	return true
}

type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
