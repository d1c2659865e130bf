package daemon

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// MenuRunner invokes the dmenu-style picker with the candidate names on
// stdin and returns the chosen line. Tests swap in a fake.
type MenuRunner func(ctx context.Context, stdin string, args ...string) ([]byte, error)

func rofiRunner(ctx context.Context, stdin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "rofi", args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Output()
}

// PickScratchpad shows a rofi dmenu over the items and returns the chosen
// name. A missing rofi binary or a dismissed menu picks nothing, which is
// not an error.
func PickScratchpad(ctx context.Context, run MenuRunner, items []MenuItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	if run == nil {
		run = rofiRunner
	}
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(it.Name)
		sb.WriteByte('\n')
	}
	out, err := run(ctx, sb.String(), "-dmenu", "-p", "scratchpads")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.Is(err, exec.ErrNotFound) || errors.As(err, &exitErr) {
			return "", nil
		}
		return "", err
	}
	return string(bytes.TrimSpace(out)), nil
}
