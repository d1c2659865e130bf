// Package screenshot captures the screen with grim and routes the result
// to disk, the clipboard or a notification.
package screenshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/palegrave/nirikit/internal/niri"
)

// Mode selects what gets captured.
type Mode string

const (
	ModeRegion Mode = "region"
	ModeOutput Mode = "output"
	ModeWindow Mode = "window"
)

// ParseMode validates a mode argument.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRegion, ModeOutput, ModeWindow:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown capture mode %q (want region, output or window)", s)
}

// Runner executes one of the capture tools and returns its stdout. stdin
// may be nil. This abstraction allows mocking in tests.
type Runner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Options route the capture after it lands on disk. Copy wins over Notify
// when both are set.
type Options struct {
	Copy   bool
	Notify bool
}

// Capturer shoots region, output or window captures.
type Capturer struct {
	Niri *niri.Client
	Run  Runner // if nil, uses the real tools
	Dir  string
	Now  func() time.Time // if nil, time.Now
}

// NewCapturer returns a capturer saving into dir.
func NewCapturer(dir string) *Capturer {
	return &Capturer{Niri: niri.NewClient(), Dir: dir}
}

// Capture takes one screenshot and returns the saved path. Window mode
// delegates to the compositor's own screenshot action, because window
// rects never leave niri; it returns an empty path since niri decides
// where that capture lands.
func (c *Capturer) Capture(ctx context.Context, mode Mode, opts Options) (string, error) {
	if mode == ModeWindow {
		w, err := c.Niri.FocusedWindow(ctx)
		if err != nil {
			return "", err
		}
		if w == nil {
			return "", errors.New("no focused window to capture")
		}
		return "", c.Niri.Action(ctx, niri.ScreenshotWindow(w.ID))
	}

	run := c.Run
	if run == nil {
		run = defaultRunner
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", err
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	path := filepath.Join(c.Dir, "shot-"+now().Format("20060102-150405")+".png")

	switch mode {
	case ModeRegion:
		sel, err := run(ctx, nil, "slurp")
		if err != nil {
			return "", fmt.Errorf("selecting region: %w", err)
		}
		geometry := strings.TrimSpace(string(sel))
		if geometry == "" {
			return "", errors.New("selection cancelled")
		}
		if _, err := run(ctx, nil, "grim", "-g", geometry, path); err != nil {
			return "", err
		}

	case ModeOutput:
		output, err := c.Niri.FocusedOutput(ctx)
		if err != nil {
			return "", err
		}
		if output == nil || output.Name == "" {
			return "", errors.New("no focused output to capture")
		}
		if _, err := run(ctx, nil, "grim", "-o", output.Name, path); err != nil {
			return "", err
		}
	}

	switch {
	case opts.Copy:
		data, err := os.ReadFile(path)
		if err != nil {
			return path, err
		}
		if _, err := run(ctx, data, "wl-copy", "--type", "image/png"); err != nil {
			return path, err
		}
	case opts.Notify:
		if _, err := run(ctx, nil, "notify-send", "-a", "nirikit", "-i", path, "Screenshot saved", path); err != nil {
			return path, err
		}
	}
	return path, nil
}
