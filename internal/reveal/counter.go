package reveal

import (
	"math"
	"time"

	"github.com/monarkh/site/internal/sched"
)

const (
	DefaultCountDuration = 2000 * time.Millisecond
	DefaultCountSteps    = 50
)

// PortfolioTargets are the stat tiles of the portfolio section.
var PortfolioTargets = []int{4, 20, 15, 30, 50}

// CounterConfig describes a count-up run.
type CounterConfig struct {
	Targets  []int
	Duration time.Duration
	Steps    int
	// Strict cancels step callbacks of an earlier run when the signal
	// drops. Without it those callbacks still fire and overwrite the
	// reset values.
	Strict bool
}

func (c CounterConfig) withDefaults() CounterConfig {
	if c.Targets == nil {
		c.Targets = PortfolioTargets
	}
	if c.Duration <= 0 {
		c.Duration = DefaultCountDuration
	}
	if c.Steps <= 0 {
		c.Steps = DefaultCountSteps
	}
	return c
}

// Interval returns the delay between two steps.
func (c CounterConfig) Interval() time.Duration {
	c = c.withDefaults()
	return c.Duration / time.Duration(c.Steps)
}

// Sample returns the values displayed elapsed after the run started.
func (c CounterConfig) Sample(elapsed time.Duration) []int {
	c = c.withDefaults()
	step := 0
	if elapsed > 0 {
		step = int(elapsed / c.Interval())
	}
	if step > c.Steps {
		step = c.Steps
	}
	return stepValues(c.Targets, step, c.Steps)
}

func stepValues(targets []int, step, steps int) []int {
	out := make([]int, len(targets))
	for i, target := range targets {
		// Half rounds up, matching the browser.
		out[i] = int(math.Floor(float64(target*step)/float64(steps) + 0.5))
	}
	return out
}

// Counter counts every target up from zero while its region is visible.
type Counter struct {
	cfg      CounterConfig
	values   []int
	armed    bool
	pending  *sched.Tokens
	closed   bool
	onChange func()
}

// NewCounter returns a counter showing zeros.
func NewCounter(clock sched.Clock, cfg CounterConfig) *Counter {
	cfg = cfg.withDefaults()
	return &Counter{
		cfg:     cfg,
		values:  make([]int, len(cfg.Targets)),
		pending: sched.NewTokens(clock),
	}
}

// OnChange registers fn to run after every value update.
func (c *Counter) OnChange(fn func()) { c.onChange = fn }

// Config returns the effective configuration.
func (c *Counter) Config() CounterConfig { return c.cfg }

// Set applies the region's visibility signal. On true every step callback
// is scheduled at once; on false the values drop to zero immediately.
func (c *Counter) Set(visible bool) {
	if c.closed || visible == c.armed {
		return
	}
	c.armed = visible
	if visible {
		c.start()
		return
	}
	c.reset()
}

func (c *Counter) start() {
	interval := c.cfg.Interval()
	for i := 0; i <= c.cfg.Steps; i++ {
		step := i
		c.pending.After(time.Duration(step)*interval, func() { c.apply(step) })
	}
}

func (c *Counter) apply(step int) {
	c.values = stepValues(c.cfg.Targets, step, c.cfg.Steps)
	c.changed()
}

func (c *Counter) reset() {
	if c.cfg.Strict {
		c.pending.Clear()
	}
	for i := range c.values {
		c.values[i] = 0
	}
	c.changed()
}

func (c *Counter) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Values returns the displayed values.
func (c *Counter) Values() []int {
	out := make([]int, len(c.values))
	copy(out, c.values)
	return out
}

// Pending returns the number of step callbacks that have not fired.
func (c *Counter) Pending() int { return c.pending.Len() }

// Unmount cancels every scheduled step. Later signals are ignored.
func (c *Counter) Unmount() {
	c.pending.Clear()
	c.closed = true
}
