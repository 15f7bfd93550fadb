package reveal

import "github.com/monarkh/site/internal/visibility"

// Animator feeds one observer's signal into a reveal and, optionally, a
// counter.
type Animator struct {
	reveal  *Reveal
	counter *Counter
	cancel  func()
}

// Bind subscribes r and c (which may be nil) to o. The current signal is
// applied straight away.
func Bind(o *visibility.Observer, r *Reveal, c *Counter) *Animator {
	a := &Animator{reveal: r, counter: c}
	a.cancel = o.Subscribe(a.apply)
	if o.Visible() {
		a.apply(true)
	}
	return a
}

func (a *Animator) apply(visible bool) {
	if a.reveal != nil {
		a.reveal.Set(visible)
	}
	if a.counter != nil {
		a.counter.Set(visible)
	}
}

// Unmount detaches from the observer and cancels every pending callback of
// the reveal and the counter.
func (a *Animator) Unmount() {
	a.cancel()
	if a.reveal != nil {
		a.reveal.Unmount()
	}
	if a.counter != nil {
		a.counter.Unmount()
	}
}
