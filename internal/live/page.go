// Package live runs the motion runtime of one page view and streams its
// state to the browser over a websocket.
package live

import (
	"time"

	"github.com/monarkh/site/internal/carousel"
	"github.com/monarkh/site/internal/reveal"
	"github.com/monarkh/site/internal/sched"
	"github.com/monarkh/site/internal/visibility"
)

// DefaultFlashTTL is how long a newsletter status stays on screen.
const DefaultFlashTTL = 3000 * time.Millisecond

// Flash statuses.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Options tune the motion runtime of a page.
type Options struct {
	Visibility visibility.Config
	Counter    reveal.CounterConfig
	Carousel   carousel.Config
	FlashTTL   time.Duration
}

// DefaultOptions match the original site: a 0.2 threshold on every region
// and the five-image slider four to a page.
func DefaultOptions() Options {
	return Options{
		Visibility: visibility.Config{Threshold: 0.2, RootMargin: visibility.DefaultRootMargin},
		Counter:    reveal.CounterConfig{Targets: reveal.PortfolioTargets},
		Carousel:   carousel.Config{Mode: carousel.ModePaged, ItemCount: 5, ItemsPerPage: 4},
		FlashTTL:   DefaultFlashTTL,
	}
}

// Direction is a carousel navigation request.
type Direction string

const (
	DirNext Direction = "next"
	DirPrev Direction = "prev"
)

// Snapshot is the rendered state of a page.
type Snapshot struct {
	Page     string            `json:"page"`
	Visible  map[Region]bool   `json:"visible"`
	Reveal   map[Region][]bool `json:"reveal"`
	Counters []int             `json:"counters,omitempty"`
	Carousel *carousel.State   `json:"carousel,omitempty"`
	Intro    map[string]bool   `json:"intro,omitempty"`
	Flash    string            `json:"flash,omitempty"`
}

type regionState struct {
	spec     RegionSpec
	target   *visibility.Target
	observer *visibility.Observer
	reveal   *reveal.Reveal
	animator *reveal.Animator
}

// Page owns every observer, animation and timer of one page view. It is
// not safe for concurrent use; a Session confines it to its loop.
type Page struct {
	clock  sched.Clock
	layout Layout
	opts   Options

	regions  map[Region]*regionState
	order    []Region
	counter  *reveal.Counter
	carousel carousel.Carousel
	intro    *reveal.Sequence
	timers   *sched.Group
	flash    string

	mounted  bool
	closed   bool
	onChange func()
}

// NewPage builds the runtime for layout. Nothing is scheduled until Mount.
func NewPage(clock sched.Clock, layout Layout, opts Options) *Page {
	if opts.FlashTTL <= 0 {
		opts.FlashTTL = DefaultFlashTTL
	}
	p := &Page{
		clock:   clock,
		layout:  layout,
		opts:    opts,
		regions: make(map[Region]*regionState, len(layout.Regions)),
		timers:  sched.NewGroup(clock),
	}

	if layout.Intro {
		p.intro = reveal.NewSequence(clock, reveal.IntroCues...)
		p.intro.OnChange(p.changed)
	}

	for _, spec := range layout.Regions {
		p.regions[spec.Region] = p.newRegion(spec)
		p.order = append(p.order, spec.Region)
	}
	return p
}

// newRegion builds an unmounted region. The counter region also gets a
// fresh counter.
func (p *Page) newRegion(spec RegionSpec) *regionState {
	rs := &regionState{
		spec:     spec,
		target:   visibility.NewTarget(string(spec.Region)),
		observer: visibility.NewObserver(p.opts.Visibility),
		reveal:   reveal.NewReveal(p.clock, spec.Elements...),
	}
	rs.reveal.OnChange(p.changed)
	rs.observer.Subscribe(func(bool) { p.changed() })
	rs.observer.Observe(rs.target)

	var counter *reveal.Counter
	if spec.Region == p.layout.CounterRegion {
		p.counter = reveal.NewCounter(p.clock, p.opts.Counter)
		p.counter.OnChange(p.changed)
		counter = p.counter
	}
	rs.animator = reveal.Bind(rs.observer, rs.reveal, counter)
	return rs
}

// release tears a region down for good.
func (rs *regionState) release() {
	rs.animator.Unmount()
	rs.target.Unmount()
	rs.observer.Close()
}

// OnChange registers fn to run after any visible state changes.
func (p *Page) OnChange(fn func()) { p.onChange = fn }

func (p *Page) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

// Layout returns the page layout.
func (p *Page) Layout() Layout { return p.layout }

// Mount starts the intro and the carousel.
func (p *Page) Mount() {
	if p.mounted || p.closed {
		return
	}
	p.mounted = true
	if p.intro != nil {
		p.intro.Start()
	}
	if p.layout.Carousel {
		p.carousel = carousel.New(p.clock, p.opts.Carousel)
		p.carousel.OnChange(p.changed)
	}
	p.changed()
}

// MountRegion reports that a region exists in the document. Unknown
// regions are ignored.
func (p *Page) MountRegion(r Region) bool {
	rs, ok := p.regions[r]
	if !ok || p.closed {
		return false
	}
	rs.target.Mount()
	return true
}

// UnmountRegion removes a region: its observer is discarded, its pending
// reveals and count-up steps are cancelled and it shows the pre-reveal
// state. A later MountRegion observes it afresh.
func (p *Page) UnmountRegion(r Region) bool {
	rs, ok := p.regions[r]
	if !ok || p.closed {
		return false
	}
	rs.release()
	p.regions[r] = p.newRegion(rs.spec)
	p.changed()
	return true
}

// Intersect records the intersection ratio the browser measured.
func (p *Page) Intersect(r Region, ratio float64) {
	if rs, ok := p.regions[r]; ok {
		rs.observer.Record(ratio)
	}
}

// RegionConfig returns the observer configuration of a region.
func (p *Page) RegionConfig(r Region) (visibility.Config, bool) {
	rs, ok := p.regions[r]
	if !ok {
		return visibility.Config{}, false
	}
	return rs.observer.Config(), true
}

// Reconfigure rebuilds a region's observer with cfg.
func (p *Page) Reconfigure(r Region, cfg visibility.Config) {
	if rs, ok := p.regions[r]; ok {
		rs.observer.Reconfigure(cfg)
	}
}

// Navigate moves the carousel.
func (p *Page) Navigate(d Direction) bool {
	if p.carousel == nil || p.closed {
		return false
	}
	switch d {
	case DirNext:
		p.carousel.Next()
	case DirPrev:
		p.carousel.Prev()
	default:
		return false
	}
	return true
}

// Flash shows a newsletter status until FlashTTL elapses.
func (p *Page) Flash(status string) {
	if p.closed {
		return
	}
	p.flash = status
	p.timers.After("flash", p.opts.FlashTTL, func() {
		p.flash = ""
		p.changed()
	})
	p.changed()
}

// Snapshot returns the current state.
func (p *Page) Snapshot() Snapshot {
	s := Snapshot{
		Page:    p.layout.Name,
		Visible: make(map[Region]bool, len(p.order)),
		Reveal:  make(map[Region][]bool, len(p.order)),
		Flash:   p.flash,
	}
	for _, r := range p.order {
		rs := p.regions[r]
		s.Visible[r] = rs.observer.Visible()
		s.Reveal[r] = rs.reveal.States()
	}
	if p.counter != nil {
		s.Counters = p.counter.Values()
	}
	if p.carousel != nil {
		st := p.carousel.State()
		s.Carousel = &st
	}
	if p.intro != nil {
		s.Intro = p.intro.Snapshot()
	}
	return s
}

// Unmount releases every timer and observer the page owns. It is safe to
// call more than once.
func (p *Page) Unmount() {
	if p.closed {
		return
	}
	p.closed = true
	for _, r := range p.order {
		p.regions[r].release()
	}
	if p.counter != nil {
		p.counter.Unmount()
	}
	if p.carousel != nil {
		p.carousel.Stop()
	}
	if p.intro != nil {
		p.intro.Stop()
	}
	p.timers.Close()
}
