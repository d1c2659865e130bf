package daemon_test

import (
	"testing"

	"github.com/palegrave/nirikit/internal/config"
	"github.com/palegrave/nirikit/internal/daemon"
	"github.com/palegrave/nirikit/internal/niri"
)

func TestMatcherExactAppID(t *testing.T) {
	m, err := daemon.NewMatcher(config.Match{AppID: "scratch-term"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.Matches(niri.Window{AppID: "scratch-term"}) {
		t.Error("exact app_id should match")
	}
	if m.Matches(niri.Window{AppID: "scratch-term-2"}) {
		t.Error("exact match must not be a prefix match")
	}
}

func TestMatcherRegexTitle(t *testing.T) {
	m, err := daemon.NewMatcher(config.Match{Title: "/^scratch:"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.Matches(niri.Window{Title: "scratch: notes"}) {
		t.Error("regex should match")
	}
	if m.Matches(niri.Window{Title: "my scratch: notes"}) {
		t.Error("anchored regex must not match mid-string")
	}
}

func TestMatcherBothFieldsMustMatch(t *testing.T) {
	m, err := daemon.NewMatcher(config.Match{AppID: "foot", Title: "/notes"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.Matches(niri.Window{AppID: "foot", Title: "my notes"}) {
		t.Error("window satisfying both rules should match")
	}
	if m.Matches(niri.Window{AppID: "foot", Title: "shell"}) {
		t.Error("title rule ignored")
	}
	if m.Matches(niri.Window{AppID: "kitty", Title: "my notes"}) {
		t.Error("app_id rule ignored")
	}
}

func TestMatcherRejectsBadInput(t *testing.T) {
	if _, err := daemon.NewMatcher(config.Match{}); err == nil {
		t.Error("empty rule should be rejected")
	}
	if _, err := daemon.NewMatcher(config.Match{AppID: "/["}); err == nil {
		t.Error("invalid regex should be rejected")
	}
}
