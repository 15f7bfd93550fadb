// Package reveal drives the entrance effects of page regions from their
// visibility signal: one-shot fade/slide reveals, the count-up counters and
// the staged intro.
package reveal

import (
	"strconv"
	"time"

	"github.com/monarkh/site/internal/sched"
)

// TransitionDuration is the declared CSS transition of a reveal.
const TransitionDuration = 1000 * time.Millisecond

// Direction is where a hidden element sits before it is revealed.
type Direction string

const (
	FromBelow Direction = "up"
	FromLeft  Direction = "left"
	FromRight Direction = "right"
)

// Element is one revealed node within a region.
type Element struct {
	Name  string
	From  Direction
	Delay time.Duration
}

// Style is the CSS state of an element.
type Style struct {
	Opacity   float64
	Transform string
	Duration  time.Duration
}

func hiddenTransform(d Direction) string {
	switch d {
	case FromLeft:
		return "translateX(-50px)"
	case FromRight:
		return "translateX(50px)"
	default:
		return "translateY(20px)"
	}
}

// Reveal is the one-shot entrance of a region's elements.
type Reveal struct {
	elements []Element
	revealed []bool
	active   bool
	timers   *sched.Group
	onChange func()
}

// NewReveal returns a reveal with every element in its pre-reveal state.
func NewReveal(clock sched.Clock, elements ...Element) *Reveal {
	return &Reveal{
		elements: elements,
		revealed: make([]bool, len(elements)),
		timers:   sched.NewGroup(clock),
	}
}

// OnChange registers fn to run whenever an element changes state.
func (r *Reveal) OnChange(fn func()) { r.onChange = fn }

func (r *Reveal) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

// Set applies the region's visibility signal. A true signal while already
// revealing or revealed does nothing.
func (r *Reveal) Set(visible bool) {
	if r.timers.Closed() {
		return
	}
	if visible {
		r.show()
		return
	}
	r.hide()
}

func (r *Reveal) show() {
	if r.active {
		return
	}
	r.active = true

	changed := false
	for i, el := range r.elements {
		if el.Delay <= 0 {
			if !r.revealed[i] {
				r.revealed[i] = true
				changed = true
			}
			continue
		}
		i := i
		r.timers.After(strconv.Itoa(i), el.Delay, func() {
			r.revealed[i] = true
			r.changed()
		})
	}
	if changed {
		r.changed()
	}
}

func (r *Reveal) hide() {
	r.timers.Reset()
	wasShown := r.active
	r.active = false
	for i := range r.revealed {
		if r.revealed[i] {
			r.revealed[i] = false
			wasShown = true
		}
	}
	if wasShown {
		r.changed()
	}
}

// Len returns the number of elements.
func (r *Reveal) Len() int { return len(r.elements) }

// Revealed reports whether element i has reached its revealed state.
func (r *Reveal) Revealed(i int) bool {
	return i >= 0 && i < len(r.revealed) && r.revealed[i]
}

// States returns the revealed flag of every element.
func (r *Reveal) States() []bool {
	out := make([]bool, len(r.revealed))
	copy(out, r.revealed)
	return out
}

// Style returns the CSS state of element i.
func (r *Reveal) Style(i int) Style {
	if i < 0 || i >= len(r.elements) {
		return Style{}
	}
	if r.revealed[i] {
		return Style{Opacity: 1, Transform: "none", Duration: TransitionDuration}
	}
	return Style{Opacity: 0, Transform: hiddenTransform(r.elements[i].From), Duration: TransitionDuration}
}

// Pending returns the number of element reveals still waiting on a delay.
func (r *Reveal) Pending() int { return len(r.timers.Names()) }

// Unmount cancels pending reveals. Later signals are ignored.
func (r *Reveal) Unmount() {
	r.timers.Close()
	r.active = false
}
