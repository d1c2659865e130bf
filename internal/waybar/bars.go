package waybar

import "fmt"

// Pango colors shared by the tooltip renderers.
const (
	ColorSubdued = "#c3bae6"
	ColorDim     = "#61557d"
	ColorShadow  = "#3a3148"
)

// Rounded progress bar segments (nerd font).
const (
	barEmptyLeft  = ""
	barEmptyMid   = ""
	barEmptyRight = ""
	barFullLeft   = ""
	barFullMid    = ""
	barFullRight  = ""
)

// RGB is a gradient color stop. Duplicate a stop to make it hold longer.
type RGB struct {
	R, G, B uint8
}

// Gradient maps a 0.0-1.0 position onto evenly spaced color stops.
type Gradient []RGB

// Color interpolates linearly between the two stops surrounding position and
// returns a Pango hex color.
func (g Gradient) Color(position float64) string {
	if position < 0 {
		position = 0
	}
	if position > 1 {
		position = 1
	}
	n := len(g)
	if n == 0 {
		return "#FFFFFF"
	}
	if n == 1 {
		return fmt.Sprintf("#%02X%02X%02X", g[0].R, g[0].G, g[0].B)
	}

	scaled := position * float64(n-1)
	i := int(scaled)
	if i > n-2 {
		i = n - 2
	}
	t := scaled - float64(i)
	c0, c1 := g[i], g[i+1]
	r := int(float64(c0.R) + (float64(c1.R)-float64(c0.R))*t)
	gr := int(float64(c0.G) + (float64(c1.G)-float64(c0.G))*t)
	b := int(float64(c0.B) + (float64(c1.B)-float64(c0.B))*t)
	return fmt.Sprintf("#%02X%02X%02X", r, gr, b)
}

// UsageGradient colors usage bars: pale green through amber to red.
var UsageGradient = Gradient{
	{0xDB, 0xFF, 0xB3},
	{0xDB, 0xFF, 0xB3},
	{0xDB, 0xFF, 0xB3},
	{0xDB, 0xFF, 0xB3},
	{0xC4, 0xAE, 0x7A},
	{0xC4, 0xAE, 0x7A},
	{0xF7, 0x95, 0x68},
	{0xF7, 0x95, 0x68},
	{0xED, 0x6E, 0x86},
}

// TimeGradient colors elapsed-time bars: lavender through rose to coral.
var TimeGradient = Gradient{
	{0xA5, 0x93, 0xEA},
	{0xA5, 0x93, 0xEA},
	{0xA5, 0x93, 0xEA},
	{0xA5, 0x93, 0xEA},
	{0xA5, 0x93, 0xEA},
	{0xDA, 0xAC, 0xC5},
	{0xDA, 0xAC, 0xC5},
	{0xDA, 0xAC, 0xC5},
	{0xF5, 0x94, 0x67},
	{0xF5, 0x94, 0x67},
	{0xEF, 0x6F, 0x88},
}

// ProgressBar renders a plain rounded progress bar of the given width.
func ProgressBar(percentage, width int) string {
	if width < 2 {
		width = 2
	}
	middle := width - 2
	filled := percentage * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	switch {
	case filled == 0:
		return barEmptyLeft + repeat(barEmptyMid, middle) + barEmptyRight
	case filled >= width:
		return barFullLeft + repeat(barFullMid, middle) + barFullRight
	case filled == 1:
		return barFullLeft + repeat(barEmptyMid, middle) + barEmptyRight
	case filled == width-1:
		return barFullLeft + repeat(barFullMid, middle) + barEmptyRight
	default:
		filledMid := filled - 1
		return barFullLeft + repeat(barFullMid, filledMid) +
			repeat(barEmptyMid, middle-filledMid) + barEmptyRight
	}
}

// ProgressBarColored renders a progress bar with a Pango gradient over the
// filled segments and dim empty segments.
func ProgressBarColored(percentage, width int, g Gradient) string {
	if width < 2 {
		width = 2
	}
	filled := percentage * width / 100
	if filled > width {
		filled = width
	}

	out := make([]byte, 0, width*48)
	for i := 0; i < width; i++ {
		isFilled := i < filled
		var ch string
		switch {
		case i == 0:
			ch = pick(isFilled, barFullLeft, barEmptyLeft)
		case i == width-1:
			ch = pick(isFilled, barFullRight, barEmptyRight)
		default:
			ch = pick(isFilled, barFullMid, barEmptyMid)
		}
		if isFilled {
			pos := float64(i) / float64(max(width-1, 1))
			out = fmt.Appendf(out, `<span color="%s" alpha="70%%">%s</span>`, g.Color(pos), ch)
		} else {
			out = fmt.Appendf(out, `<span color="%s">%s</span>`, ColorDim, ch)
		}
	}
	return string(out)
}

// TimeBar renders a plain ▰▱ bar of the given width.
func TimeBar(percentage, width int) string {
	filled := (percentage*width + 50) / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return repeat("▰", filled) + repeat("▱", width-filled)
}

// TimeBarColored renders a ▰▱ bar with a Pango gradient over the filled part.
func TimeBarColored(percentage, width int, g Gradient) string {
	filled := (percentage*width + 50) / 100
	if filled > width {
		filled = width
	}

	out := make([]byte, 0, width*48)
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i) / float64(max(width-1, 1))
			out = fmt.Appendf(out, `<span color="%s" alpha="70%%">▰</span>`, g.Color(pos))
		} else {
			out = fmt.Appendf(out, `<span color="%s">▱</span>`, ColorDim)
		}
	}
	return string(out)
}

// Hourglass animation frames (nerd font hourglass states, weighted so the
// middle state lingers).
var hourglassFrames = []string{
	"",
	"", "", "", "", "",
	"", "", "", "", "", "", "", "",
	"", "", "", "", "",
}

// Hourglass returns the animation frame for an elapsed percentage (0-100).
func Hourglass(elapsedPercentage float64) string {
	n := len(hourglassFrames)
	idx := int(elapsedPercentage * float64(n) / 100)
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return hourglassFrames[idx]
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
