package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension is one side of a size or position, either absolute pixels or a
// percentage of the output's span.
type Dimension struct {
	Value   int
	Percent bool
}

// Resolve converts the dimension to pixels against the given span.
func (d Dimension) Resolve(span int) int {
	if d.Percent {
		return span * d.Value / 100
	}
	return d.Value
}

func parseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	if pct {
		s = strings.TrimSuffix(s, "%")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Dimension{}, fmt.Errorf("invalid dimension %q", s)
	}
	if v < 0 {
		return Dimension{}, fmt.Errorf("dimension %q must not be negative", s)
	}
	return Dimension{Value: v, Percent: pct}, nil
}

// Size is a parsed "WxH" value.
type Size struct {
	Width  Dimension
	Height Dimension
}

// ParseSize parses strings like "80%x60%" or "1200x800".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return Size{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	width, err := parseDimension(w)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	height, err := parseDimension(h)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return Size{Width: width, Height: height}, nil
}

// Placement is a parsed position value: centered, or explicit coordinates.
type Placement struct {
	Center bool
	X, Y   Dimension
}

// ParsePlacement parses "center" or "x,y" with px or % coordinates.
func ParsePlacement(s string) (Placement, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "center") {
		return Placement{Center: true}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Placement{}, fmt.Errorf("invalid position %q, want \"center\" or \"x,y\"", s)
	}
	x, err := parseDimension(xs)
	if err != nil {
		return Placement{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	y, err := parseDimension(ys)
	if err != nil {
		return Placement{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return Placement{X: x, Y: y}, nil
}
