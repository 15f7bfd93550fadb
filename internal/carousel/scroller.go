package carousel

import "math"

// Scroller is the scroll-based slider. Each click moves the strip by one
// step; a step that would leave the scrollable range jumps to the other
// end instead.
type Scroller struct {
	cfg      Config
	position float64
	stopped  bool
	onChange func()
}

func NewScroller(cfg Config) *Scroller {
	cfg = cfg.withDefaults()
	cfg.Mode = ModeScroll
	return &Scroller{cfg: cfg}
}

func (s *Scroller) OnChange(fn func()) { s.onChange = fn }

// ContentWidth is the width of the item strip.
func (s *Scroller) ContentWidth() float64 {
	n := float64(s.cfg.ItemCount)
	if n == 0 {
		return 0
	}
	return n*s.cfg.ItemWidth + (n-1)*s.cfg.Gap
}

// MaxScroll is the largest scroll offset.
func (s *Scroller) MaxScroll() float64 {
	return math.Max(0, s.ContentWidth()-s.cfg.ViewportWidth)
}

func (s *Scroller) Next() { s.slide(1) }

func (s *Scroller) Prev() { s.slide(-1) }

func (s *Scroller) slide(dir float64) {
	if s.stopped {
		return
	}
	limit := s.MaxScroll()
	next := s.position + dir*s.cfg.ScrollStep
	switch {
	case next >= 0 && next <= limit:
		s.position = next
	case dir < 0:
		s.position = limit
	default:
		s.position = 0
	}
	if s.onChange != nil {
		s.onChange()
	}
}

// ScrollLeft is the current scroll offset in pixels.
func (s *Scroller) ScrollLeft() float64 { return s.position }

func (s *Scroller) State() State {
	total := int(math.Ceil(s.MaxScroll()/s.cfg.ScrollStep)) + 1
	page := int(math.Ceil(s.position / s.cfg.ScrollStep))
	if page >= total {
		page = total - 1
	}
	offset := 0.0
	if w := s.ContentWidth(); w > 0 {
		offset = s.position / w * 100
	}
	return State{
		Mode:          ModeScroll,
		CurrentPage:   page,
		TotalPages:    total,
		OffsetPercent: offset,
		ScrollLeft:    s.position,
	}
}

func (s *Scroller) Stop() { s.stopped = true }
