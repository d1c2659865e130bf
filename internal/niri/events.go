package niri

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
)

// Event is one line of the niri event stream. Exactly one field is non-nil;
// event kinds this package does not model leave all fields nil.
type Event struct {
	WorkspacesChanged     *WorkspacesChanged     `json:"WorkspacesChanged,omitempty"`
	WorkspaceActivated    *WorkspaceActivated    `json:"WorkspaceActivated,omitempty"`
	WindowsChanged        *WindowsChanged        `json:"WindowsChanged,omitempty"`
	WindowOpenedOrChanged *WindowOpenedOrChanged `json:"WindowOpenedOrChanged,omitempty"`
	WindowClosed          *WindowClosed          `json:"WindowClosed,omitempty"`
	WindowFocusChanged    *WindowFocusChanged    `json:"WindowFocusChanged,omitempty"`
	WindowUrgencyChanged  *WindowUrgencyChanged  `json:"WindowUrgencyChanged,omitempty"`
	OutputsChanged        *OutputsChanged        `json:"OutputsChanged,omitempty"`
}

// WorkspacesChanged carries the full new workspace list.
type WorkspacesChanged struct {
	Workspaces []Workspace `json:"workspaces"`
}

// WorkspaceActivated reports a workspace becoming active on its output.
type WorkspaceActivated struct {
	ID      uint64 `json:"id"`
	Focused bool   `json:"focused"`
}

// WindowsChanged carries the full new window list.
type WindowsChanged struct {
	Windows []Window `json:"windows"`
}

// WindowOpenedOrChanged reports a new or changed window.
type WindowOpenedOrChanged struct {
	Window Window `json:"window"`
}

// WindowClosed reports a closed window.
type WindowClosed struct {
	ID uint64 `json:"id"`
}

// WindowFocusChanged reports the new focused window, if any.
type WindowFocusChanged struct {
	ID *uint64 `json:"id"`
}

// WindowUrgencyChanged reports a window's urgency flag flipping.
type WindowUrgencyChanged struct {
	ID     uint64 `json:"id"`
	Urgent bool   `json:"urgent"`
}

// OutputsChanged carries the full new output map.
type OutputsChanged struct {
	Outputs map[string]Output `json:"outputs"`
}

// StreamEvents launches `niri msg -j event-stream` and delivers parsed events
// on the returned channel until ctx is cancelled or the stream ends. The
// channel is closed when the stream terminates; lines that fail to parse are
// skipped.
func StreamEvents(ctx context.Context) (<-chan Event, error) {
	cmd := exec.CommandContext(ctx, "niri", "msg", "-j", "event-stream")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("event stream pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting event stream: %w", err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer cmd.Wait()
		readEvents(ctx, stdout, events)
	}()
	return events, nil
}

// readEvents parses newline-delimited event JSON from r into out.
func readEvents(ctx context.Context, r io.Reader, out chan<- Event) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
