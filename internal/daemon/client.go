package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/palegrave/nirikit/internal/niri"
)

const (
	spawnRetries  = 10
	spawnInterval = 100 * time.Millisecond
)

// ErrNotRunning reports that no daemon answers on the session socket.
var ErrNotRunning = errors.New("daemon not running")

// Call sends one request to the session's daemon, starting it through niri
// when it is not running yet. A response carrying an error message comes
// back as an error alongside the response.
func Call(ctx context.Context, req Request) (*Response, error) {
	return call(ctx, req, true)
}

// CallExisting is Call without the auto-start, for ops like status and stop
// that should not bring a daemon up just to answer.
func CallExisting(ctx context.Context, req Request) (*Response, error) {
	return call(ctx, req, false)
}

func call(ctx context.Context, req Request, spawn bool) (*Response, error) {
	niriSocket, err := niri.SocketPath()
	if err != nil {
		return nil, err
	}
	path := SocketPath(niriSocket)

	conn, err := dial(ctx, path, spawn)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("writing to daemon: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading daemon response: %w", err)
		}
		return nil, errors.New("daemon closed the connection without answering")
	}
	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decoding daemon response: %w", err)
	}
	if !resp.OK && resp.Error != "" {
		return &resp, errors.New(resp.Error)
	}
	return &resp, nil
}

// dial connects to the daemon socket, optionally spawning the daemon inside
// the niri session and retrying while it starts up.
func dial(ctx context.Context, path string, spawn bool) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err == nil {
		return conn, nil
	}
	if !spawn {
		return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}

	exe, exeErr := os.Executable()
	if exeErr != nil {
		exe = "nirikit"
	}
	client := niri.NewClient()
	if err := client.Action(ctx, niri.Spawn(exe, "daemon", "run")); err != nil {
		return nil, fmt.Errorf("starting daemon: %w", err)
	}

	for i := 0; i < spawnRetries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(spawnInterval):
		}
		conn, err = d.DialContext(ctx, "unix", path)
		if err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("daemon did not come up: %w", err)
}
