package niri_test

import (
	"reflect"
	"testing"

	"github.com/palegrave/nirikit/internal/niri"
)

func TestSpawn(t *testing.T) {
	got := niri.Spawn("alacritty", "--class", "scratch-term")
	want := []string{"spawn", "--", "alacritty", "--class", "scratch-term"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Spawn mismatch: got %#v want %#v", got, want)
	}
}

func TestFocusWindow(t *testing.T) {
	got := niri.FocusWindow(42)
	want := []string{"focus-window", "--id", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FocusWindow mismatch: got %#v want %#v", got, want)
	}
}

func TestMoveWindowToWorkspace(t *testing.T) {
	got := niri.MoveWindowToWorkspace(7, "󰪷")
	want := []string{"move-window-to-workspace", "--window-id", "7", "--focus", "false", "󰪷"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MoveWindowToWorkspace mismatch: got %#v want %#v", got, want)
	}
}

func TestMoveFloatingWindow(t *testing.T) {
	got := niri.MoveFloatingWindow(3, 120, -40)
	want := []string{"move-floating-window", "--id", "3", "--x", "120", "--y", "-40"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MoveFloatingWindow mismatch: got %#v want %#v", got, want)
	}
}

func TestSetWindowSize(t *testing.T) {
	gotW := niri.SetWindowWidth(9, 1536)
	wantW := []string{"set-window-width", "--id", "9", "1536"}
	if !reflect.DeepEqual(gotW, wantW) {
		t.Fatalf("SetWindowWidth mismatch: got %#v want %#v", gotW, wantW)
	}

	gotH := niri.SetWindowHeight(9, 864)
	wantH := []string{"set-window-height", "--id", "9", "864"}
	if !reflect.DeepEqual(gotH, wantH) {
		t.Fatalf("SetWindowHeight mismatch: got %#v want %#v", gotH, wantH)
	}
}
