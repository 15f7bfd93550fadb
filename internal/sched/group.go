package sched

import (
	"sort"
	"time"
)

// Group is a set of named timers with a single owner. Scheduling under a
// name that is already active replaces the old timer, so a name never has
// two live tick sources.
type Group struct {
	clock  Clock
	timers map[string]*handle
	closed bool
}

type handle struct {
	timer Timer
}

// NewGroup returns an empty group scheduling on c.
func NewGroup(c Clock) *Group {
	return &Group{clock: c, timers: make(map[string]*handle)}
}

// After runs fn once after d under name.
func (g *Group) After(name string, d time.Duration, fn func()) {
	if g.closed {
		return
	}
	g.Stop(name)
	h := &handle{}
	h.timer = g.clock.AfterFunc(d, func() {
		if g.timers[name] == h {
			delete(g.timers, name)
		}
		fn()
	})
	g.timers[name] = h
}

// Every runs fn every period under name until stopped.
func (g *Group) Every(name string, period time.Duration, fn func()) {
	if g.closed {
		return
	}
	g.Stop(name)
	g.timers[name] = &handle{timer: Every(g.clock, period, fn)}
}

// Stop cancels the timer held under name and reports whether one was
// pending.
func (g *Group) Stop(name string) bool {
	h, ok := g.timers[name]
	if !ok {
		return false
	}
	delete(g.timers, name)
	return h.timer.Stop()
}

// Active reports whether a timer is pending under name.
func (g *Group) Active(name string) bool {
	_, ok := g.timers[name]
	return ok
}

// Names returns the pending timer names in sorted order.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.timers))
	for name := range g.timers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset cancels every pending timer but keeps the group usable.
func (g *Group) Reset() {
	for name := range g.timers {
		g.Stop(name)
	}
}

// Close cancels every pending timer. Later schedules are ignored.
func (g *Group) Close() {
	g.Reset()
	g.closed = true
}

// Closed reports whether Close has been called.
func (g *Group) Closed() bool {
	return g.closed
}

// Tokens tracks anonymous one-shot callbacks so they can be cancelled
// together. Fired callbacks drop out of the set on their own.
type Tokens struct {
	clock Clock
	set   map[*token]struct{}
}

type token struct {
	timer Timer
}

// NewTokens returns an empty token set scheduling on c.
func NewTokens(c Clock) *Tokens {
	return &Tokens{clock: c, set: make(map[*token]struct{})}
}

// After schedules fn after d and tracks it.
func (ts *Tokens) After(d time.Duration, fn func()) Timer {
	tok := &token{}
	tok.timer = ts.clock.AfterFunc(d, func() {
		delete(ts.set, tok)
		fn()
	})
	ts.set[tok] = struct{}{}
	return tok.timer
}

// Clear cancels every tracked callback and returns how many were pending.
func (ts *Tokens) Clear() int {
	n := 0
	for tok := range ts.set {
		if tok.timer.Stop() {
			n++
		}
		delete(ts.set, tok)
	}
	return n
}

// Len returns the number of tracked callbacks that have not fired.
func (ts *Tokens) Len() int {
	return len(ts.set)
}
