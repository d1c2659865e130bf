package daemon_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/palegrave/nirikit/internal/daemon"
)

func TestPickScratchpad(t *testing.T) {
	items := []daemon.MenuItem{{Name: "term"}, {Name: "music", Bound: true, Visible: true}}

	var gotStdin string
	var gotArgs []string
	run := func(ctx context.Context, stdin string, args ...string) ([]byte, error) {
		gotStdin = stdin
		gotArgs = args
		return []byte("music\n"), nil
	}

	name, err := daemon.PickScratchpad(context.Background(), run, items)
	if err != nil {
		t.Fatalf("PickScratchpad: %v", err)
	}
	if name != "music" {
		t.Errorf("name = %q, want music", name)
	}
	if gotStdin != "term\nmusic\n" {
		t.Errorf("stdin = %q", gotStdin)
	}
	if len(gotArgs) != 3 || gotArgs[0] != "-dmenu" || gotArgs[1] != "-p" || gotArgs[2] != "scratchpads" {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestPickScratchpadDismissed(t *testing.T) {
	run := func(ctx context.Context, stdin string, args ...string) ([]byte, error) {
		return nil, &exec.ExitError{}
	}
	name, err := daemon.PickScratchpad(context.Background(), run, []daemon.MenuItem{{Name: "term"}})
	if err != nil {
		t.Fatalf("dismissed menu should not error, got %v", err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
}

func TestPickScratchpadMissingRofi(t *testing.T) {
	run := func(ctx context.Context, stdin string, args ...string) ([]byte, error) {
		return nil, &exec.Error{Name: "rofi", Err: exec.ErrNotFound}
	}
	name, err := daemon.PickScratchpad(context.Background(), run, []daemon.MenuItem{{Name: "term"}})
	if err != nil {
		t.Fatalf("missing rofi should not error, got %v", err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
}

func TestPickScratchpadNoItems(t *testing.T) {
	called := false
	run := func(ctx context.Context, stdin string, args ...string) ([]byte, error) {
		called = true
		return []byte("x"), nil
	}
	name, err := daemon.PickScratchpad(context.Background(), run, nil)
	if err != nil || name != "" {
		t.Fatalf("got %q, %v", name, err)
	}
	if called {
		t.Error("picker ran with no items")
	}
}
