package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/palegrave/nirikit/internal/waybar"
)

func TestSunOnceEmitsOneFrame(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "status", "sun",
		"--location", "40.7,-74.0", "--at", "2026-08-21T12:00:00Z")
	if err != nil {
		t.Fatalf("sun: %v", err)
	}

	line := strings.TrimSpace(out)
	if strings.Contains(line, "\n") {
		t.Fatalf("expected a single line, got %q", out)
	}
	var o waybar.Output
	if err := json.Unmarshal([]byte(line), &o); err != nil {
		t.Fatalf("not a JSON frame: %v\n%s", err, out)
	}
	if o.Text == "" || o.Tooltip == "" {
		t.Errorf("empty frame: %+v", o)
	}
}

func TestSunRejectsBadLocation(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "status", "sun", "--once", "--location", "atlantis!")
	if err == nil {
		t.Fatal("expected an error for a bad location")
	}
}

func TestSunRejectsBadAt(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "status", "sun", "--location", "40.7,-74.0", "--at", "noonish")
	if err == nil || !strings.Contains(err.Error(), "invalid time") {
		t.Fatalf("err = %v", err)
	}
}
