package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palegrave/nirikit/internal/shell"
)

func TestWrapRequiresCommand(t *testing.T) {
	isolate(t)

	if _, err := executeCommand(rootCmd, "wrap"); err == nil {
		t.Fatal("expected an error without a command")
	}
}

func TestWrapExportsFocusFileToChild(t *testing.T) {
	tmp := isolate(t)
	focusFile := filepath.Join(tmp, "focus.json")
	envFile := filepath.Join(tmp, "env.txt")

	// Non-interactive stdin, so the child runs as a plain passthrough; the
	// focus file env var must still point at the override.
	_, err := executeCommand(rootCmd, "wrap", "--focus-file", focusFile, "--",
		"sh", "-c", "printf '%s' \"$NIRIKIT_FOCUS_FILE\" > "+envFile)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	data, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("child never ran: %v", err)
	}
	if string(data) != focusFile {
		t.Errorf("NIRIKIT_FOCUS_FILE = %q, want %q", data, focusFile)
	}
}

func TestWrapInstallNoShellConfigured(t *testing.T) {
	isolate(t)
	wrapShell = ""
	activeProfile = nil

	_, err := executeCommand(rootCmd, "wrap", "install")
	if err == nil || !strings.Contains(err.Error(), "no shell configured") {
		t.Fatalf("err = %v", err)
	}
}

func TestWrapInstallWritesPlugin(t *testing.T) {
	isolate(t)

	if _, err := executeCommand(rootCmd, "wrap", "install", "--shell", "zsh"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !shell.IsInstalled("zsh") {
		t.Error("plugin file missing after install")
	}
}

func TestWrapInstallRejectsUnsupportedShell(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "wrap", "install", "--shell", "fish")
	if err == nil || !strings.Contains(err.Error(), "unsupported shell") {
		t.Fatalf("err = %v", err)
	}
}
