package cmd

import (
	"strings"
	"testing"

	"github.com/palegrave/nirikit/internal/claude"
)

func TestUsagePlainEmptyHistory(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "usage", "--plain")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if !strings.Contains(out, "no usage recorded yet") {
		t.Errorf("output = %q", out)
	}
}

func TestUsagePlainListsAccounts(t *testing.T) {
	isolate(t)

	store, err := claude.NewHistoryStore()
	if err != nil {
		t.Fatalf("NewHistoryStore: %v", err)
	}
	h, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	acct := h.Account("11111111-1111-1111-1111-111111111111")
	acct.Email = "dev@example.com"
	acct.OrganizationType = "claude_max"
	if err := store.Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := executeCommand(rootCmd, "usage", "--plain")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if !strings.Contains(out, "dev@example.com") {
		t.Errorf("missing account email: %q", out)
	}
	if !strings.Contains(out, "Max") {
		t.Errorf("missing plan label: %q", out)
	}
}
