package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/palegrave/nirikit/internal/daemon"
)

func echoHandler(ctx context.Context, req daemon.Request) daemon.Response {
	switch req.Op {
	case daemon.OpMenu:
		return daemon.Response{OK: true, Items: []daemon.MenuItem{{Name: "term", Bound: true, Visible: true}}}
	case daemon.OpToggle:
		if req.Name == "" {
			return daemon.Response{Error: "missing name"}
		}
		return daemon.Response{OK: true}
	default:
		return daemon.Response{Error: "unknown op"}
	}
}

// startServer binds a server on a per-test socket and routes client calls to
// it via the environment.
func startServer(t *testing.T) *daemon.Server {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)
	niriSocket := filepath.Join(tmp, "niri.sock")
	t.Setenv("NIRI_SOCKET", niriSocket)

	srv, err := daemon.NewServer(daemon.SocketPath(niriSocket), echoHandler)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx)
	return srv
}

func TestServerAnswersRequests(t *testing.T) {
	startServer(t)

	resp, err := daemon.CallExisting(context.Background(), daemon.Request{Op: daemon.OpMenu})
	if err != nil {
		t.Fatalf("CallExisting: %v", err)
	}
	if !resp.OK || len(resp.Items) != 1 || resp.Items[0].Name != "term" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerErrorResponseBecomesError(t *testing.T) {
	startServer(t)

	resp, err := daemon.CallExisting(context.Background(), daemon.Request{Op: daemon.OpToggle})
	if err == nil {
		t.Fatal("expected error from error response")
	}
	if resp == nil || resp.OK {
		t.Fatalf("error response should come back with OK=false: %+v", resp)
	}
}

func TestCallExistingFailsWithoutDaemon(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)
	t.Setenv("NIRI_SOCKET", filepath.Join(tmp, "niri.sock"))

	if _, err := daemon.CallExisting(context.Background(), daemon.Request{Op: daemon.OpStatus}); err == nil {
		t.Fatal("expected connection error with no daemon")
	}
}

func TestNewServerReplacesStaleSocket(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "daemon.sock")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	srv, err := daemon.NewServer(path, echoHandler)
	if err != nil {
		t.Fatalf("NewServer should replace a dead socket file: %v", err)
	}
	srv.Close()
}

func TestNewServerRefusesLiveSocket(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "daemon.sock")

	srv, err := daemon.NewServer(path, echoHandler)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	if _, err := daemon.NewServer(path, echoHandler); err == nil {
		t.Fatal("second server on a live socket should fail")
	}
}

func TestServerCloseRemovesSocketFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "daemon.sock")

	srv, err := daemon.NewServer(path, echoHandler)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("socket file should be gone after Close, stat: %v", err)
	}
}
