// Package waybar emits custom-module JSON for waybar and carries the shared
// rendering helpers (Pango markup, gradients, bars, relative times) that the
// status modules build their output from.
package waybar

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output is one waybar custom-module update. Tooltip may contain Pango markup.
type Output struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip,omitempty"`
	Percentage *int   `json:"percentage,omitempty"`
	Class      string `json:"class,omitempty"`
}

// Percent returns a pointer suitable for Output.Percentage.
func Percent(v int) *int {
	return &v
}

// Emitter writes Output values as JSON lines, suppressing consecutive
// duplicates. Waybar redraws on every line it reads, so modules only emit
// when something changed.
type Emitter struct {
	w    io.Writer
	last string
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit marshals o and writes it if it differs from the previously written
// line. Reports whether a line was written.
func (e *Emitter) Emit(o Output) (bool, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return false, fmt.Errorf("encoding waybar output: %w", err)
	}
	line := string(data)
	if line == e.last {
		return false, nil
	}
	if _, err := io.WriteString(e.w, line+"\n"); err != nil {
		return false, err
	}
	e.last = line
	return true, nil
}

// Reset clears the duplicate-suppression state so the next Emit always writes.
func (e *Emitter) Reset() {
	e.last = ""
}

var pangoEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapePango escapes markup-significant characters for Pango tooltips.
func EscapePango(s string) string {
	return pangoEscaper.Replace(s)
}
