// Package focus wraps an interactive command in a PTY and publishes whether
// its terminal window has focus, combining the terminal's own focus reports
// with compositor events.
package focus

const (
	esc = 0x1b
	csi = '['
)

// Scanner extracts terminal focus reports (CSI I for focus-in, CSI O for
// focus-out) from an input stream. Every byte is passed through to the child
// unmodified; only an incomplete escape tail at the end of a chunk is held
// back until the next chunk resolves it.
type Scanner struct {
	held []byte
}

// Feed consumes one chunk and returns the bytes that are safe to forward
// now. onEvent fires once per focus report, in stream order.
func (s *Scanner) Feed(chunk []byte, onEvent func(focused bool)) []byte {
	data := make([]byte, 0, len(s.held)+len(chunk))
	data = append(data, s.held...)
	data = append(data, chunk...)
	s.held = s.held[:0]

	for i := 0; i+2 < len(data); i++ {
		if data[i] != esc || data[i+1] != csi {
			continue
		}
		switch data[i+2] {
		case 'I':
			onEvent(true)
		case 'O':
			onEvent(false)
		}
	}

	// Hold a tail that could still turn into a focus report.
	n := len(data)
	switch {
	case n >= 2 && data[n-2] == esc && data[n-1] == csi:
		s.held = append(s.held, data[n-2:]...)
		return data[:n-2]
	case n >= 1 && data[n-1] == esc:
		s.held = append(s.held, data[n-1:]...)
		return data[:n-1]
	}
	return data
}

// Flush returns any held bytes. Call on EOF so the child sees the full
// stream.
func (s *Scanner) Flush() []byte {
	out := s.held
	s.held = nil
	return out
}
