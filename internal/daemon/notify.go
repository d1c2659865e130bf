package daemon

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/niri"
)

// NotifyRunner runs notify-send with the given arguments, streaming each
// stdout line to onLine. The real implementation blocks until the
// notification is acted on or dismissed, so callers run it in a goroutine.
type NotifyRunner func(ctx context.Context, onLine func(line string), args ...string) error

func defaultNotifyRunner(ctx context.Context, onLine func(string), args ...string) error {
	cmd := exec.CommandContext(ctx, "notify-send", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		onLine(strings.TrimSpace(scanner.Text()))
	}
	return cmd.Wait()
}

// Notifier posts desktop notifications, honoring the configured notify level
// ("none", "error", or "all"). Urgent-window notifications carry a Focus
// action and are tracked so they can be dismissed when the urgency clears.
type Notifier struct {
	Run NotifyRunner

	mu     sync.Mutex
	level  string
	active map[uint64]string // window id → notification id
}

// NewNotifier returns a notifier at the given level.
func NewNotifier(level string) *Notifier {
	return &Notifier{
		Run:    defaultNotifyRunner,
		level:  level,
		active: make(map[uint64]string),
	}
}

// SetLevel changes the notify level, typically after a config reload.
func (n *Notifier) SetLevel(level string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.level = level
}

func (n *Notifier) levelAtLeast(want string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.level {
	case "all":
		return true
	case "error":
		return want == "error"
	default:
		return false
	}
}

// WindowUrgent posts a critical notification for an urgent window. onFocus
// runs if the user picks the Focus action. Suppressed at level "none".
func (n *Notifier) WindowUrgent(ctx context.Context, w niri.Window, onFocus func()) {
	if !n.levelAtLeast("error") {
		return
	}

	title := w.Title
	if title == "" {
		title = w.AppID
	}
	if title == "" {
		title = "window"
	}

	go func() {
		err := n.Run(ctx, func(line string) {
			if line == "default" {
				onFocus()
				return
			}
			if _, err := strconv.Atoi(line); err == nil {
				n.mu.Lock()
				n.active[w.ID] = line
				n.mu.Unlock()
			}
		}, "-p", "-A", "default=Focus", "-u", "critical", "-a", "nirikit", title, "window demands attention")
		if err != nil {
			logging.Get().Warn().Err(err).Msg("urgency notification failed")
		}
	}()
}

// WindowCalmed dismisses the window's urgency notification, if one is up.
func (n *Notifier) WindowCalmed(ctx context.Context, id uint64) {
	n.mu.Lock()
	nid, ok := n.active[id]
	delete(n.active, id)
	n.mu.Unlock()
	if !ok {
		return
	}

	// Replacing with a 1ms timeout makes the server drop it immediately.
	go func() {
		err := n.Run(ctx, func(string) {}, "-r", nid, "-t", "1", "-u", "low", "-a", "nirikit", " ")
		if err != nil {
			logging.Get().Warn().Err(err).Str("id", nid).Msg("dismissing notification failed")
		}
	}()
}

// Error posts an error notification at level "error" or "all".
func (n *Notifier) Error(ctx context.Context, summary, body string) {
	if !n.levelAtLeast("error") {
		return
	}
	go func() {
		err := n.Run(ctx, func(string) {}, "-u", "critical", "-a", "nirikit", summary, body)
		if err != nil {
			logging.Get().Warn().Err(err).Msg("error notification failed")
		}
	}()
}

// Info posts an informational notification at level "all" only.
func (n *Notifier) Info(ctx context.Context, summary, body string) {
	if !n.levelAtLeast("all") {
		return
	}
	go func() {
		err := n.Run(ctx, func(string) {}, "-u", "normal", "-a", "nirikit", summary, body)
		if err != nil {
			logging.Get().Warn().Err(err).Msg("notification failed")
		}
	}()
}
