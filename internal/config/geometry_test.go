package config

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func formatDimension(d Dimension) string {
	if d.Percent {
		return fmt.Sprintf("%d%%", d.Value)
	}
	return fmt.Sprintf("%d", d.Value)
}

func generateDimension(t *rapid.T, label string) Dimension {
	return Dimension{
		Value:   rapid.IntRange(0, 10000).Draw(t, label+"Value"),
		Percent: rapid.Bool().Draw(t, label+"Percent"),
	}
}

// Any formatted size string parses back to the same dimensions.
func TestParseSizeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		want := Size{
			Width:  generateDimension(t, "width"),
			Height: generateDimension(t, "height"),
		}
		s := formatDimension(want.Width) + "x" + formatDimension(want.Height)

		got, err := ParseSize(s)
		if err != nil {
			t.Fatalf("ParseSize(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseSize(%q): want %+v, got %+v", s, want, got)
		}
	})
}

func TestParseSizeRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "80%", "x60", "80x", "axb", "-5x10", "80%%x60"} {
		if _, err := ParseSize(s); err == nil {
			t.Errorf("ParseSize(%q): expected error", s)
		}
	}
}

func TestParsePlacementForms(t *testing.T) {
	tests := []struct {
		in   string
		want Placement
	}{
		{"center", Placement{Center: true}},
		{"Center", Placement{Center: true}},
		{" center ", Placement{Center: true}},
		{"10,20", Placement{X: Dimension{Value: 10}, Y: Dimension{Value: 20}}},
		{"50%,100", Placement{X: Dimension{Value: 50, Percent: true}, Y: Dimension{Value: 100}}},
		{"0%,0%", Placement{X: Dimension{Percent: true}, Y: Dimension{Percent: true}}},
	}
	for _, tt := range tests {
		got, err := ParsePlacement(tt.in)
		if err != nil {
			t.Errorf("ParsePlacement(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePlacement(%q): want %+v, got %+v", tt.in, tt.want, got)
		}
	}

	for _, s := range []string{"", "middle", "10", "10,", ",20", "a,b"} {
		if _, err := ParsePlacement(s); err == nil {
			t.Errorf("ParsePlacement(%q): expected error", s)
		}
	}
}

func TestDimensionResolve(t *testing.T) {
	tests := []struct {
		d    Dimension
		span int
		want int
	}{
		{Dimension{Value: 800}, 2560, 800},
		{Dimension{Value: 50, Percent: true}, 2560, 1280},
		{Dimension{Value: 100, Percent: true}, 1440, 1440},
		{Dimension{Value: 0, Percent: true}, 1440, 0},
		{Dimension{Value: 33, Percent: true}, 100, 33},
	}
	for _, tt := range tests {
		if got := tt.d.Resolve(tt.span); got != tt.want {
			t.Errorf("Resolve(%+v, %d): want %d, got %d", tt.d, tt.span, tt.want, got)
		}
	}
}
