// Package niri talks to the niri compositor through its msg CLI.
package niri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoSession is returned when NIRI_SOCKET is not set in the environment.
var ErrNoSession = errors.New("no niri session (NIRI_SOCKET unset)")

// Runner executes the niri binary with the given arguments and returns its
// stdout. This abstraction allows mocking in tests.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// defaultRunner runs niri as a real subprocess.
func defaultRunner(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "niri", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("niri %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return nil, fmt.Errorf("niri %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Window is one toplevel window as reported by niri.
type Window struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	AppID       string  `json:"app_id"`
	PID         int     `json:"pid"`
	WorkspaceID *uint64 `json:"workspace_id"`
	IsFocused   bool    `json:"is_focused"`
	IsFloating  bool    `json:"is_floating"`
	IsUrgent    bool    `json:"is_urgent"`
}

// Workspace is one niri workspace.
type Workspace struct {
	ID             uint64  `json:"id"`
	Idx            uint8   `json:"idx"`
	Name           string  `json:"name"`
	Output         string  `json:"output"`
	IsActive       bool    `json:"is_active"`
	IsFocused      bool    `json:"is_focused"`
	ActiveWindowID *uint64 `json:"active_window_id"`
}

// LogicalOutput is the logical geometry of a connected output.
type LogicalOutput struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

// Output is one connected output.
type Output struct {
	Name    string         `json:"name"`
	Make    string         `json:"make"`
	Model   string         `json:"model"`
	Logical *LogicalOutput `json:"logical"`
}

// Client queries and drives a niri session.
type Client struct {
	Runner Runner // if nil, uses the real niri subprocess
}

// NewClient returns a Client backed by the real niri binary.
func NewClient() *Client {
	return &Client{}
}

// SocketPath returns the value of NIRI_SOCKET, or ErrNoSession when unset.
// The socket path identifies the compositor session.
func SocketPath() (string, error) {
	sock := os.Getenv("NIRI_SOCKET")
	if sock == "" {
		return "", ErrNoSession
	}
	return sock, nil
}

// Available reports whether a niri session is reachable from this process.
func Available() bool {
	_, err := SocketPath()
	return err == nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	runner := c.Runner
	if runner == nil {
		runner = defaultRunner
	}
	return runner(ctx, args...)
}

func (c *Client) query(ctx context.Context, target string, v any) error {
	out, err := c.run(ctx, "msg", "-j", target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("parsing niri %s reply: %w", target, err)
	}
	return nil
}

// Windows returns all toplevel windows.
func (c *Client) Windows(ctx context.Context) ([]Window, error) {
	var windows []Window
	if err := c.query(ctx, "windows", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// FocusedWindow returns the focused window, or nil when nothing is focused.
func (c *Client) FocusedWindow(ctx context.Context) (*Window, error) {
	windows, err := c.Windows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].IsFocused {
			return &windows[i], nil
		}
	}
	return nil, nil
}

// Workspaces returns all workspaces.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.query(ctx, "workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Outputs returns connected outputs keyed by connector name.
func (c *Client) Outputs(ctx context.Context) (map[string]Output, error) {
	var outputs map[string]Output
	if err := c.query(ctx, "outputs", &outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

// FocusedOutput returns the output holding the focused workspace.
func (c *Client) FocusedOutput(ctx context.Context) (*Output, error) {
	var output Output
	if err := c.query(ctx, "focused-output", &output); err != nil {
		return nil, err
	}
	return &output, nil
}

// Action runs a compositor action built by one of the arg builders.
func (c *Client) Action(ctx context.Context, action []string) error {
	args := append([]string{"msg", "action"}, action...)
	_, err := c.run(ctx, args...)
	return err
}
