package focus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/creack/pty"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/niri"
)

// Focus reporting control sequences for the real terminal.
const (
	focusReportOn  = "\x1b[?1004h"
	focusReportOff = "\x1b[?1004l"
)

// Options configures a wrapped run.
type Options struct {
	Command         []string
	WatchCompositor bool
	StatePath       string // overrides the per-pid focus file location
}

// Run executes the command under a PTY, publishing focus transitions to the
// state file exported as NIRIKIT_FOCUS_FILE. It returns the child's exit
// code, using 128+signal when the child dies to a signal.
func Run(ctx context.Context, opts Options) (int, error) {
	if len(opts.Command) == 0 {
		return 0, errors.New("no command to wrap")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stateFile, err := NewFile(os.Getpid())
	if opts.StatePath != "" {
		stateFile, err = NewFileAt(opts.StatePath)
	}
	if err != nil {
		return 0, err
	}
	defer stateFile.Remove()

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Env = append(os.Environ(), EnvFocusFile+"="+stateFile.Path())

	stdinFd := os.Stdin.Fd()
	if !term.IsTerminal(stdinFd) {
		// Not interactive: no terminal to watch, just run the command.
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := cmd.Start(); err != nil {
			return 0, fmt.Errorf("starting %s: %w", opts.Command[0], err)
		}
		return exitCode(cmd.Wait()), nil
	}

	var ptmx *os.File
	if ws, err := pty.GetsizeFull(os.Stdin); err == nil {
		ptmx, err = pty.StartWithSize(cmd, ws)
		if err != nil {
			return 0, fmt.Errorf("starting %s: %w", opts.Command[0], err)
		}
	} else {
		ptmx, err = pty.Start(cmd)
		if err != nil {
			return 0, fmt.Errorf("starting %s: %w", opts.Command[0], err)
		}
	}
	defer ptmx.Close()

	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return 0, fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(stdinFd, oldState)

	os.Stdout.WriteString(focusReportOn)
	defer os.Stdout.WriteString(focusReportOff)

	publish := func(focused bool, source string) {
		if err := stateFile.Write(focused, source); err != nil {
			logging.Get().Warn().Err(err).Msg("writing focus state failed")
		}
	}
	// The wrapper starts inside the focused terminal.
	publish(true, SourceTerminal)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logging.Get().Warn().Err(err).Msg("resizing pty failed")
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for sig := range sigCh {
			if cmd.Process != nil {
				cmd.Process.Signal(sig)
			}
		}
	}()

	// Real stdin → child, watching for focus reports on the way through.
	go func() {
		var scanner Scanner
		buf := make([]byte, 4096)
		for {
			n, rerr := os.Stdin.Read(buf)
			if n > 0 {
				out := scanner.Feed(buf[:n], func(focused bool) {
					publish(focused, SourceTerminal)
				})
				if len(out) > 0 {
					if _, werr := ptmx.Write(out); werr != nil {
						return
					}
				}
			}
			if rerr != nil {
				if out := scanner.Flush(); len(out) > 0 {
					ptmx.Write(out)
				}
				return
			}
		}
	}()

	if opts.WatchCompositor && niri.Available() {
		go watchCompositor(ctx, publish)
	}

	// Child output → real terminal. Read fails with EIO once the child is
	// gone, which ends the loop.
	buf := make([]byte, 4096)
	for {
		n, rerr := ptmx.Read(buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				break
			}
		}
		if rerr != nil {
			break
		}
	}

	return exitCode(cmd.Wait()), nil
}

// watchCompositor publishes focus from niri's point of view. The wrapper
// starts inside the focused window, so the window focused now is ours.
func watchCompositor(ctx context.Context, publish func(bool, string)) {
	client := niri.NewClient()
	self, err := client.FocusedWindow(ctx)
	if err != nil || self == nil {
		logging.Get().Debug().Msg("compositor focus source unavailable")
		return
	}

	events, err := niri.StreamEvents(ctx)
	if err != nil {
		logging.Get().Debug().Err(err).Msg("compositor event stream unavailable")
		return
	}
	for ev := range events {
		if ev.WindowFocusChanged == nil {
			continue
		}
		focused := ev.WindowFocusChanged.ID != nil && *ev.WindowFocusChanged.ID == self.ID
		publish(focused, SourceCompositor)
	}
}

// exitCode mirrors the shell convention: the child's exit status, or
// 128+signal when it died to one.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}
