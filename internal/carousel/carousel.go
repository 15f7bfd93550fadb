// Package carousel implements the portfolio image carousel: a paged cycler
// that advances on a timer and pauses after manual navigation, and a
// scroll-based slider. Both sit behind the Carousel interface so a page
// picks one by configuration.
package carousel

import (
	"fmt"
	"time"

	"github.com/monarkh/site/internal/sched"
)

const (
	DefaultPeriod     = 5000 * time.Millisecond
	DefaultCooldown   = 7000 * time.Millisecond
	DefaultScrollStep = 288
	DefaultItemWidth  = 288
	DefaultGap        = 16
	DefaultViewport   = 1280
)

// Mode selects the carousel implementation.
type Mode string

const (
	ModePaged  Mode = "paged"
	ModeScroll Mode = "scroll"
)

// ParseMode validates a mode name. The empty string selects ModePaged.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModePaged:
		return ModePaged, nil
	case ModeScroll:
		return ModeScroll, nil
	}
	return "", fmt.Errorf("unknown carousel mode %q", s)
}

// Config describes a carousel.
type Config struct {
	Mode         Mode
	ItemCount    int
	ItemsPerPage int

	// Paged mode.
	Period   time.Duration
	Cooldown time.Duration

	// Scroll mode, in CSS pixels.
	ScrollStep    float64
	ItemWidth     float64
	Gap           float64
	ViewportWidth float64
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModePaged
	}
	if c.ItemCount < 0 {
		c.ItemCount = 0
	}
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = 1
	}
	if c.Period <= 0 {
		c.Period = DefaultPeriod
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.ScrollStep <= 0 {
		c.ScrollStep = DefaultScrollStep
	}
	if c.ItemWidth <= 0 {
		c.ItemWidth = DefaultItemWidth
	}
	if c.Gap < 0 {
		c.Gap = 0
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = DefaultViewport
	}
	return c
}

// TotalPages returns ceil(ItemCount / ItemsPerPage), and at least one page
// so an empty carousel still has a valid index.
func (c Config) TotalPages() int {
	c = c.withDefaults()
	pages := (c.ItemCount + c.ItemsPerPage - 1) / c.ItemsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// State is what a page renders.
type State struct {
	Mode          Mode    `json:"mode"`
	CurrentPage   int     `json:"page"`
	TotalPages    int     `json:"total"`
	AutoAdvancing bool    `json:"auto"`
	OffsetPercent float64 `json:"offset"`
	ScrollLeft    float64 `json:"scroll_left,omitempty"`
}

// Carousel is the contract between a page and either implementation.
type Carousel interface {
	Next()
	Prev()
	State() State
	OnChange(fn func())
	// Stop releases every timer. The carousel ignores navigation after.
	Stop()
}

// New builds the carousel selected by cfg.Mode. The paged carousel starts
// auto-advancing immediately.
func New(clock sched.Clock, cfg Config) Carousel {
	if cfg.Mode == ModeScroll {
		return NewScroller(cfg)
	}
	return NewCycler(clock, cfg)
}

// PageItems returns the items shown on page. A short final page returns
// only the items that exist.
func PageItems[T any](items []T, page, perPage int) []T {
	if perPage <= 0 || page < 0 {
		return nil
	}
	start := page * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
