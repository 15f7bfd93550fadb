package carousel

import "github.com/monarkh/site/internal/sched"

const (
	timerAdvance  = "advance"
	timerCooldown = "cooldown"
)

// Cycler is the paged carousel. It has two states: AUTO, where a recurring
// timer advances the page, and PAUSED, entered on manual navigation and
// left once the cooldown elapses without further navigation.
type Cycler struct {
	cfg      Config
	total    int
	current  int
	auto     bool
	ticks    int
	stopped  bool
	timers   *sched.Group
	onChange func()
}

// NewCycler returns a cycler on page 0 in the AUTO state.
func NewCycler(clock sched.Clock, cfg Config) *Cycler {
	cfg = cfg.withDefaults()
	cfg.Mode = ModePaged
	c := &Cycler{
		cfg:    cfg,
		total:  cfg.TotalPages(),
		timers: sched.NewGroup(clock),
	}
	c.setAuto(true)
	return c
}

func (c *Cycler) OnChange(fn func()) { c.onChange = fn }

func (c *Cycler) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// setAuto always clears the advance timer before arming a new one.
func (c *Cycler) setAuto(on bool) {
	c.auto = on
	c.timers.Stop(timerAdvance)
	if on {
		c.timers.Every(timerAdvance, c.cfg.Period, c.tick)
	}
}

func (c *Cycler) tick() {
	c.current = (c.current + 1) % c.total
	c.ticks++
	c.changed()
}

// Next moves one page forward, wrapping to the first page.
func (c *Cycler) Next() { c.navigate(1) }

// Prev moves one page back, wrapping to the last page.
func (c *Cycler) Prev() { c.navigate(-1) }

func (c *Cycler) navigate(delta int) {
	if c.stopped {
		return
	}
	c.current = ((c.current+delta)%c.total + c.total) % c.total
	c.setAuto(false)
	c.timers.After(timerCooldown, c.cfg.Cooldown, func() {
		c.setAuto(true)
		c.changed()
	})
	c.changed()
}

func (c *Cycler) CurrentPage() int { return c.current }

func (c *Cycler) TotalPages() int { return c.total }

func (c *Cycler) AutoAdvancing() bool { return c.auto }

// Ticks returns how many times the timer has advanced the page.
func (c *Cycler) Ticks() int { return c.ticks }

// OffsetPercent is the translation applied to the track so the current
// page is in view.
func (c *Cycler) OffsetPercent() float64 {
	return float64(c.current) * (100 / float64(c.total))
}

// PageRange returns the [start, end) item indexes of the current page.
func (c *Cycler) PageRange() (start, end int) {
	start = c.current * c.cfg.ItemsPerPage
	end = start + c.cfg.ItemsPerPage
	if end > c.cfg.ItemCount {
		end = c.cfg.ItemCount
	}
	if start > end {
		start = end
	}
	return start, end
}

func (c *Cycler) State() State {
	return State{
		Mode:          ModePaged,
		CurrentPage:   c.current,
		TotalPages:    c.total,
		AutoAdvancing: c.auto,
		OffsetPercent: c.OffsetPercent(),
	}
}

func (c *Cycler) Stop() {
	c.stopped = true
	c.auto = false
	c.timers.Close()
}
