// Package visibility turns intersection measurements of a page region into
// a boolean visibility signal.
package visibility

import "math"

type observerState int

const (
	stateIdle observerState = iota
	stateDeferred
	stateObserving
	stateClosed
)

// Observer produces the visibility signal for one target.
type Observer struct {
	cfg     Config
	margin  Margin
	target  *Target
	state   observerState
	visible bool

	subs    map[int]func(bool)
	nextSub int
}

// NewObserver returns an observer for cfg. Invalid settings fall back to
// their defaults.
func NewObserver(cfg Config) *Observer {
	o := &Observer{subs: make(map[int]func(bool))}
	o.configure(cfg)
	return o
}

func (o *Observer) configure(cfg Config) {
	o.cfg = cfg.Normalize()
	o.margin = o.cfg.Margin()
}

// Config returns the effective configuration.
func (o *Observer) Config() Config { return o.cfg }

// Observe starts watching t. Observation of a target that is not mounted
// yet is deferred until it mounts.
func (o *Observer) Observe(t *Target) {
	if o.state == stateClosed || t == nil {
		return
	}
	if o.target != nil && o.target != t {
		o.target.unwatch(o)
	}
	o.target = t
	t.watch(o)
	if t.Mounted() {
		o.state = stateObserving
	} else {
		o.state = stateDeferred
	}
}

func (o *Observer) attach() {
	if o.state == stateDeferred {
		o.state = stateObserving
	}
}

// Observing reports whether measurements currently update the signal.
func (o *Observer) Observing() bool {
	return o.state == stateObserving
}

// Closed reports whether the observer has been discarded.
func (o *Observer) Closed() bool {
	return o.state == stateClosed
}

// Visible returns the current signal.
func (o *Observer) Visible() bool { return o.visible }

// Record applies an intersection ratio measured by the host. The signal
// becomes ratio >= threshold. Measurements are ignored unless observing.
func (o *Observer) Record(ratio float64) {
	if o.state != stateObserving {
		return
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	o.set(ratio >= o.cfg.Threshold)
}

// RecordRects measures target against viewport with the configured root
// margin and records the result.
func (o *Observer) RecordRects(target, viewport Rect) {
	o.Record(IntersectionRatio(target, viewport, o.margin))
}

func (o *Observer) set(v bool) {
	if v == o.visible {
		return
	}
	o.visible = v
	o.notify(v)
}

func (o *Observer) notify(v bool) {
	for id := 0; id < o.nextSub; id++ {
		if fn, ok := o.subs[id]; ok {
			fn(v)
		}
	}
}

// Subscribe registers fn for signal transitions. The returned func removes
// it.
func (o *Observer) Subscribe(fn func(bool)) (cancel func()) {
	if o.state == stateClosed {
		return func() {}
	}
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	return func() { delete(o.subs, id) }
}

// Reconfigure tears the observer down and rebuilds it with cfg. The signal
// returns to not-visible until the next measurement; subscribers see that
// transition. A config equal to the current one is a no-op.
func (o *Observer) Reconfigure(cfg Config) {
	if o.state == stateClosed {
		return
	}
	next := cfg.Normalize()
	if next == o.cfg {
		return
	}

	target := o.target
	if target != nil {
		target.unwatch(o)
	}
	o.target = nil
	o.state = stateIdle
	o.set(false)

	o.configure(next)
	if target != nil {
		o.Observe(target)
	}
}

// Close stops observation for good. No further signal updates or
// notifications happen.
func (o *Observer) Close() {
	if o.state == stateClosed {
		return
	}
	if o.target != nil {
		o.target.unwatch(o)
		o.target = nil
	}
	o.state = stateClosed
	o.visible = false
	o.subs = make(map[int]func(bool))
}
