package waybar_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pgregory.net/rapid"

	"github.com/palegrave/nirikit/internal/waybar"
)

func TestOutputJSONShape(t *testing.T) {
	out := waybar.Output{
		Text:       "42%",
		Tooltip:    "details",
		Percentage: waybar.Percent(42),
		Class:      "med",
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"text", "tooltip", "percentage", "class"} {
		if _, ok := m[key]; !ok {
			t.Errorf("marshaled output missing %q: %s", key, data)
		}
	}

	data, err = json.Marshal(waybar.Output{Text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "percentage") {
		t.Errorf("nil percentage should be omitted: %s", data)
	}
}

func TestEmitterSkipsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	em := waybar.NewEmitter(&buf)

	wrote, err := em.Emit(waybar.Output{Text: "a"})
	if err != nil || !wrote {
		t.Fatalf("first emit: wrote=%v err=%v", wrote, err)
	}
	wrote, err = em.Emit(waybar.Output{Text: "a"})
	if err != nil || wrote {
		t.Fatalf("identical emit: wrote=%v err=%v", wrote, err)
	}
	wrote, err = em.Emit(waybar.Output{Text: "b"})
	if err != nil || !wrote {
		t.Fatalf("changed emit: wrote=%v err=%v", wrote, err)
	}

	em.Reset()
	wrote, err = em.Emit(waybar.Output{Text: "b"})
	if err != nil || !wrote {
		t.Fatalf("emit after reset: wrote=%v err=%v", wrote, err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 output lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		var out waybar.Output
		if err := json.Unmarshal([]byte(line), &out); err != nil {
			t.Errorf("line %q is not valid JSON: %v", line, err)
		}
	}
}

func TestEscapePango(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a & b", "a &amp; b"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := waybar.EscapePango(tt.in); got != tt.want {
			t.Errorf("EscapePango(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDeltaShortTiers(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-5 * time.Second, "0m"},
		{0, "0m"},
		{42 * time.Second, "42s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m"},
		{59*time.Minute + 59*time.Second, "59m"},
		{time.Hour, "1h"},
		{23 * time.Hour, "23h"},
		{24 * time.Hour, "1d"},
		{49 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := waybar.DeltaShort(tt.d); got != tt.want {
			t.Errorf("DeltaShort(%v): want %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestDeltaHM(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "0m"},
		{45 * time.Minute, "45m"},
		{3 * time.Hour, "3h"},
		{8*time.Hour + 32*time.Minute, "8h 32m"},
	}
	for _, tt := range tests {
		if got := waybar.DeltaHM(tt.d); got != tt.want {
			t.Errorf("DeltaHM(%v): want %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestRelativeFormats(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := waybar.RelativeShort(now.Add(-30*time.Minute), now); got != "30m ago" {
		t.Errorf("RelativeShort past: got %q", got)
	}
	if got := waybar.RelativeShort(now.Add(2*time.Hour), now); got != "2h" {
		t.Errorf("RelativeShort future: got %q", got)
	}
	if got := waybar.RelativeLong(now.Add(-(8*time.Hour + 32*time.Minute)), now); got != "8h 32m ago" {
		t.Errorf("RelativeLong past: got %q", got)
	}
	if got := waybar.RelativeLong(now.Add(90*time.Minute), now); got != "in 1h 30m" {
		t.Errorf("RelativeLong future: got %q", got)
	}
}

// A bar is always exactly width glyphs regardless of percentage.
func TestProgressBarWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pct := rapid.IntRange(0, 100).Draw(t, "pct")
		width := rapid.IntRange(2, 46).Draw(t, "width")

		bar := waybar.ProgressBar(pct, width)
		if n := utf8.RuneCountInString(bar); n != width {
			t.Fatalf("ProgressBar(%d, %d): want %d runes, got %d", pct, width, width, n)
		}
	})
}

func TestProgressBarExtremesDiffer(t *testing.T) {
	empty := waybar.ProgressBar(0, 10)
	full := waybar.ProgressBar(100, 10)
	if empty == full {
		t.Error("empty and full bars should differ")
	}
	if waybar.ProgressBar(50, 10) == empty {
		t.Error("half bar should differ from empty")
	}
}

func TestTimeBarRounding(t *testing.T) {
	tests := []struct {
		pct, width int
		filled     int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{54, 10, 5},
		{55, 10, 6},
		{100, 10, 10},
		{110, 10, 10},
	}
	for _, tt := range tests {
		bar := waybar.TimeBar(tt.pct, tt.width)
		if got := strings.Count(bar, "▰"); got != tt.filled {
			t.Errorf("TimeBar(%d, %d): want %d filled, got %d (%q)", tt.pct, tt.width, tt.filled, got, bar)
		}
		if n := utf8.RuneCountInString(bar); n != tt.width {
			t.Errorf("TimeBar(%d, %d): want %d runes, got %d", tt.pct, tt.width, tt.width, n)
		}
	}
}

func TestGradientColorEndpoints(t *testing.T) {
	g := waybar.Gradient{{R: 0xDB, G: 0xFF, B: 0xB3}, {R: 0xED, G: 0x6E, B: 0x86}}

	if got := g.Color(0); got != "#DBFFB3" {
		t.Errorf("Color(0): got %q", got)
	}
	if got := g.Color(1); got != "#ED6E86" {
		t.Errorf("Color(1): got %q", got)
	}
	if got := g.Color(-0.5); got != g.Color(0) {
		t.Errorf("Color(-0.5): want clamp to start, got %q", got)
	}
	if got := g.Color(1.5); got != g.Color(1) {
		t.Errorf("Color(1.5): want clamp to end, got %q", got)
	}
	mid := g.Color(0.5)
	if mid == g.Color(0) || mid == g.Color(1) {
		t.Errorf("Color(0.5): want an intermediate color, got %q", mid)
	}
}

func TestHourglassClamps(t *testing.T) {
	first := waybar.Hourglass(0)
	last := waybar.Hourglass(100)
	if first == "" || last == "" {
		t.Fatal("hourglass frames must not be empty")
	}
	if waybar.Hourglass(-10) != first {
		t.Error("negative percentage should clamp to the first frame")
	}
	if waybar.Hourglass(150) != last {
		t.Error("overshoot should clamp to the last frame")
	}
	if first == last {
		t.Error("first and last frames should differ")
	}
}
