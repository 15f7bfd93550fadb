package visibility

import "math"

const (
	DefaultThreshold  = 0.1
	DefaultRootMargin = "0px"
)

// Config controls when an observed target counts as visible.
type Config struct {
	// Threshold is the fraction of the target's area, in [0,1], that must
	// be inside the viewport.
	Threshold float64
	// RootMargin grows the viewport before measuring, in CSS margin syntax.
	RootMargin string
}

// DefaultConfig returns the documented fallback configuration.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, RootMargin: DefaultRootMargin}
}

// Normalize replaces an out-of-range threshold or a malformed root margin
// with its default.
func (c Config) Normalize() Config {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		c.Threshold = DefaultThreshold
	}
	if _, err := ParseMargin(c.RootMargin); err != nil {
		c.RootMargin = DefaultRootMargin
	}
	return c
}

// Margin returns the parsed root margin of a normalized config.
func (c Config) Margin() Margin {
	m, err := ParseMargin(c.Normalize().RootMargin)
	if err != nil {
		return Margin{}
	}
	return m
}
