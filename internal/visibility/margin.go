package visibility

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidMargin is returned for root margins that are not 1 to 4
// space-separated px or % lengths.
var ErrInvalidMargin = errors.New("invalid root margin")

// Length is a margin component in pixels or percent of the viewport.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) resolve(base float64) float64 {
	if l.Percent {
		return base * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	unit := "px"
	if l.Percent {
		unit = "%"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + unit
}

// Margin grows (or, with negative lengths, shrinks) the viewport before
// intersections are measured.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// ParseMargin parses CSS margin shorthand such as "20%" or "10px 0px".
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
	}

	lengths := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
		}
		lengths[i] = l
	}

	switch len(lengths) {
	case 1:
		return Margin{lengths[0], lengths[0], lengths[0], lengths[0]}, nil
	case 2:
		return Margin{lengths[0], lengths[1], lengths[0], lengths[1]}, nil
	case 3:
		return Margin{lengths[0], lengths[1], lengths[2], lengths[1]}, nil
	default:
		return Margin{lengths[0], lengths[1], lengths[2], lengths[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var (
		num     string
		percent bool
	)
	switch {
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		num = strings.TrimSuffix(s, "%")
		percent = true
	default:
		return Length{}, ErrInvalidMargin
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, ErrInvalidMargin
	}
	return Length{Value: v, Percent: percent}, nil
}

func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// Expand applies the margin to viewport. Vertical percentages resolve
// against the viewport height, horizontal ones against its width.
func (m Margin) Expand(viewport Rect) Rect {
	top := m.Top.resolve(viewport.Height)
	bottom := m.Bottom.resolve(viewport.Height)
	left := m.Left.resolve(viewport.Width)
	right := m.Right.resolve(viewport.Width)

	return Rect{
		X:      viewport.X - left,
		Y:      viewport.Y - top,
		Width:  viewport.Width + left + right,
		Height: viewport.Height + top + bottom,
	}
}
