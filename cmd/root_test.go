package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points every base directory the commands touch at a temp dir so
// tests never read or write real state.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(tmp, "run"))
	t.Setenv("NIRI_SOCKET", filepath.Join(tmp, "niri.sock"))
	return tmp
}

func TestCurrentProfileFallsBackToDefaults(t *testing.T) {
	isolate(t)
	activeProfile = nil

	p := currentProfile()
	if p.ClaudeSource != "auto" {
		t.Errorf("ClaudeSource = %q, want auto", p.ClaudeSource)
	}
	if p.DisplayMode != "compact" {
		t.Errorf("DisplayMode = %q, want compact", p.DisplayMode)
	}
	if p.ScreenshotDir == "" {
		t.Error("ScreenshotDir is empty")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	isolate(t)
	if _, err := executeCommand(rootCmd, "no-such-command"); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}
