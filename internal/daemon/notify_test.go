package daemon_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/palegrave/nirikit/internal/daemon"
	"github.com/palegrave/nirikit/internal/niri"
)

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestWindowUrgentFocusAction(t *testing.T) {
	n := daemon.NewNotifier("error")
	focused := make(chan struct{}, 1)
	calls := make(chan []string, 2)
	n.Run = func(ctx context.Context, onLine func(string), args ...string) error {
		calls <- args
		onLine("42")
		onLine("default")
		return nil
	}

	n.WindowUrgent(context.Background(), niri.Window{ID: 7, Title: "irc"}, func() {
		focused <- struct{}{}
	})

	select {
	case <-focused:
	case <-time.After(time.Second):
		t.Fatal("focus callback not invoked")
	}

	args := <-calls
	if !hasArgPair(args, "-A", "default=Focus") {
		t.Errorf("missing focus action in %v", args)
	}
	if !hasArgPair(args, "-u", "critical") {
		t.Errorf("missing critical urgency in %v", args)
	}

	n.WindowCalmed(context.Background(), 7)
	select {
	case args = <-calls:
	case <-time.After(time.Second):
		t.Fatal("dismiss not sent")
	}
	if !hasArgPair(args, "-r", "42") || !hasArgPair(args, "-t", "1") {
		t.Errorf("dismiss should replace id 42 with a 1ms timeout, got %v", args)
	}
}

func TestWindowCalmedWithoutNotification(t *testing.T) {
	n := daemon.NewNotifier("all")
	var count atomic.Int32
	n.Run = func(ctx context.Context, onLine func(string), args ...string) error {
		count.Add(1)
		return nil
	}

	n.WindowCalmed(context.Background(), 99)
	time.Sleep(50 * time.Millisecond)
	if count.Load() != 0 {
		t.Error("calming an untracked window should not run notify-send")
	}
}

func TestNotifyLevels(t *testing.T) {
	tests := []struct {
		level     string
		urgent    bool
		errorSent bool
		infoSent  bool
	}{
		{"none", false, false, false},
		{"error", true, true, false},
		{"all", true, true, true},
	}
	for _, tt := range tests {
		n := daemon.NewNotifier(tt.level)
		var count atomic.Int32
		n.Run = func(ctx context.Context, onLine func(string), args ...string) error {
			count.Add(1)
			return nil
		}

		n.WindowUrgent(context.Background(), niri.Window{ID: 1, Title: "x"}, func() {})
		time.Sleep(20 * time.Millisecond)
		if got := count.Load() > 0; got != tt.urgent {
			t.Errorf("level %s: urgent sent=%v, want %v", tt.level, got, tt.urgent)
		}

		count.Store(0)
		n.Error(context.Background(), "nirikit", "boom")
		time.Sleep(20 * time.Millisecond)
		if got := count.Load() > 0; got != tt.errorSent {
			t.Errorf("level %s: error sent=%v, want %v", tt.level, got, tt.errorSent)
		}

		count.Store(0)
		n.Info(context.Background(), "nirikit", "hello")
		time.Sleep(20 * time.Millisecond)
		if got := count.Load() > 0; got != tt.infoSent {
			t.Errorf("level %s: info sent=%v, want %v", tt.level, got, tt.infoSent)
		}
	}
}
