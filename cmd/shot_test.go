package cmd

import (
	"strings"
	"testing"
)

func TestShotRejectsUnknownMode(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "shot", "banner")
	if err == nil || !strings.Contains(err.Error(), "unknown capture mode") {
		t.Fatalf("err = %v", err)
	}
}

func TestShotRequiresMode(t *testing.T) {
	isolate(t)

	if _, err := executeCommand(rootCmd, "shot"); err == nil {
		t.Fatal("expected an argument error")
	}
}
