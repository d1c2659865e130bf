package claude_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/palegrave/nirikit/internal/claude"
)

type waybarLine struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip"`
	Percentage int    `json:"percentage"`
	Class      string `json:"class"`
}

func parseWaybarLines(t *testing.T, raw string) []waybarLine {
	t.Helper()
	var lines []waybarLine
	for _, l := range strings.Split(strings.TrimSpace(raw), "\n") {
		if l == "" {
			continue
		}
		var line waybarLine
		if err := json.Unmarshal([]byte(l), &line); err != nil {
			t.Fatalf("parsing emitted line %q: %v", l, err)
		}
		lines = append(lines, line)
	}
	return lines
}

// usageServer serves the probe, profile, and token endpoints, counting
// probes so tests can watch the check cadence.
func usageServer(t *testing.T, probes *atomic.Int64) *httptest.Server {
	t.Helper()
	reset5h := time.Now().Add(2 * time.Hour).Unix()
	reset7d := time.Now().Add(3 * 24 * time.Hour).Unix()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		h := w.Header()
		h.Set("anthropic-ratelimit-unified-status", "allowed")
		h.Set("anthropic-ratelimit-unified-representative-claim", "five_hour")
		h.Set("anthropic-ratelimit-unified-5h-status", "allowed")
		h.Set("anthropic-ratelimit-unified-5h-utilization", "0.42")
		h.Set("anthropic-ratelimit-unified-5h-reset", fmt.Sprint(reset5h))
		h.Set("anthropic-ratelimit-unified-7d-status", "allowed")
		h.Set("anthropic-ratelimit-unified-7d-utilization", "0.10")
		h.Set("anthropic-ratelimit-unified-7d-reset", fmt.Sprint(reset7d))
		fmt.Fprint(w, `{"type":"message"}`)
	})
	mux.HandleFunc("/api/oauth/profile", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"account": {"uuid": "acct-uuid-1", "email": "dev@example.com"},
			"organization": {"name": "Personal", "organization_type": "claude_max", "rate_limit_tier": "default_claude_max_5x"}
		}`)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token": "rotated", "refresh_token": "rotated-r", "expires_in": 3600}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestMonitor(t *testing.T, srv *httptest.Server, out *bytes.Buffer) *claude.Monitor {
	t.Helper()
	client := claude.NewClient()
	client.HTTPClient = srv.Client()
	client.ProbeURL = srv.URL + "/v1/messages"
	client.ProfileURL = srv.URL + "/api/oauth/profile"
	client.TokenURL = srv.URL + "/token"

	store, err := claude.NewHistoryStore()
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	return &claude.Monitor{
		Client:         client,
		Store:          store,
		Out:            out,
		CheckInterval:  50 * time.Millisecond,
		OutputInterval: 5 * time.Millisecond,
	}
}

func TestMonitorEmitsUsageFrames(t *testing.T) {
	home := isolateHome(t)
	writeClaudeCreds(t, home, "access-token", "refresh-token", time.Now().Add(6*time.Hour))
	var probes atomic.Int64
	srv := usageServer(t, &probes)
	var buf bytes.Buffer
	mon := newTestMonitor(t, srv, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := parseWaybarLines(t, buf.String())
	if len(lines) == 0 {
		t.Fatal("monitor emitted nothing")
	}
	last := lines[len(lines)-1]
	if last.Class != "med" {
		t.Errorf("Class = %q, want med at 42%%", last.Class)
	}
	if last.Percentage != 42 {
		t.Errorf("Percentage = %d, want 42", last.Percentage)
	}
	if !strings.Contains(last.Text, "42%") {
		t.Errorf("Text = %q, want the usage percentage", last.Text)
	}
	if !strings.Contains(last.Tooltip, "dev@example.com") {
		t.Errorf("Tooltip missing the account email: %q", last.Tooltip)
	}

	h, err := mon.Store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h.ActiveAccount != "acct-uuid-1" {
		t.Errorf("ActiveAccount = %q, want acct-uuid-1", h.ActiveAccount)
	}
	acct := h.Accounts["acct-uuid-1"]
	if acct == nil {
		t.Fatal("probe was not recorded into the history")
	}
	if acct.Email != "dev@example.com" {
		t.Errorf("recorded Email = %q, want dev@example.com", acct.Email)
	}
	if acct.Current.Session5h.Utilization != 0.42 {
		t.Errorf("recorded utilization = %v, want 0.42", acct.Current.Session5h.Utilization)
	}
	if len(acct.Snapshots) == 0 {
		t.Error("no snapshots recorded")
	}
	if h.PID != 0 {
		t.Errorf("claim not released after Run: PID = %d", h.PID)
	}
}

func TestMonitorNoCredentials(t *testing.T) {
	isolateHome(t)
	var probes atomic.Int64
	srv := usageServer(t, &probes)
	var buf bytes.Buffer
	mon := newTestMonitor(t, srv, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := parseWaybarLines(t, buf.String())
	if len(lines) == 0 {
		t.Fatal("monitor emitted nothing without credentials")
	}
	last := lines[len(lines)-1]
	if last.Class != "inactive" {
		t.Errorf("Class = %q, want inactive", last.Class)
	}
	if !strings.Contains(last.Tooltip, "No active token") {
		t.Errorf("Tooltip = %q, want a no-token notice", last.Tooltip)
	}
	if probes.Load() != 0 {
		t.Errorf("probe endpoint hit %d times with no credentials", probes.Load())
	}
}

func TestMonitorRefusesSecondInstance(t *testing.T) {
	home := isolateHome(t)
	writeClaudeCreds(t, home, "access-token", "refresh-token", time.Now().Add(6*time.Hour))
	var probes atomic.Int64
	srv := usageServer(t, &probes)
	var buf bytes.Buffer
	mon := newTestMonitor(t, srv, &buf)

	h := claude.NewHistory()
	h.PID = os.Getppid()
	if err := mon.Store.Save(h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	err := mon.Run(context.Background())
	if err == nil {
		t.Fatal("Run() succeeded while another instance holds the claim")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Errorf("Run() error = %v, want an already-running message", err)
	}

	got, loadErr := mon.Store.Load()
	if loadErr != nil {
		t.Fatalf("Load() error = %v", loadErr)
	}
	if got.PID != os.Getppid() {
		t.Errorf("claim holder changed: PID = %d, want %d", got.PID, os.Getppid())
	}
}

func TestMonitorSignalForcesRefresh(t *testing.T) {
	home := isolateHome(t)
	writeClaudeCreds(t, home, "access-token", "refresh-token", time.Now().Add(6*time.Hour))
	var probes atomic.Int64
	srv := usageServer(t, &probes)
	var buf bytes.Buffer
	mon := newTestMonitor(t, srv, &buf)
	mon.CheckInterval = time.Hour // only a signal can trigger the second probe

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for probes.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("first probe never ran")
		}
		time.Sleep(time.Millisecond)
	}
	// The signal is ignored while a check is in flight, so keep nudging.
	for probes.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("SIGUSR1 did not trigger a probe, count = %d", probes.Load())
		}
		if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
			t.Fatalf("sending SIGUSR1: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
