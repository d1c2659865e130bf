package focus_test

import (
	"os"
	"sync"
	"testing"

	"github.com/palegrave/nirikit/internal/focus"
)

func TestStateFileRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)

	f, err := focus.NewFile(12345)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := f.Write(true, focus.SourceTerminal); err != nil {
		t.Fatalf("Write: %v", err)
	}
	state, err := focus.ReadState(f.Path())
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if !state.Focused || state.Source != focus.SourceTerminal {
		t.Errorf("state: got %+v", state)
	}
	if state.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	if err := f.Write(false, focus.SourceCompositor); err != nil {
		t.Fatalf("Write: %v", err)
	}
	state, err = focus.ReadState(f.Path())
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if state.Focused || state.Source != focus.SourceCompositor {
		t.Errorf("state after update: got %+v", state)
	}
}

// Concurrent writers must never leave a torn file behind.
func TestStateFileConcurrentWrites(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)

	f, err := focus.NewFile(1)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(focused bool) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := f.Write(focused, focus.SourceTerminal); err != nil {
					t.Errorf("Write: %v", err)
					return
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()

	if _, err := focus.ReadState(f.Path()); err != nil {
		t.Fatalf("state unreadable after concurrent writes: %v", err)
	}
}

func TestStateFileRemove(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)

	f, err := focus.NewFile(2)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Write(true, focus.SourceTerminal); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Errorf("file should be gone, stat: %v", err)
	}
	if err := f.Remove(); err != nil {
		t.Errorf("removing twice should be fine: %v", err)
	}
}
