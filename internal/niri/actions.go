package niri

import "strconv"

// Arg builders for niri msg action invocations. Kept as pure functions so
// tests can assert the exact argv without a compositor.

// Spawn builds args for: niri msg action spawn -- <command...>
func Spawn(command ...string) []string {
	return append([]string{"spawn", "--"}, command...)
}

// FocusWindow builds args to focus the window with the given id.
func FocusWindow(id uint64) []string {
	return []string{"focus-window", "--id", formatID(id)}
}

// CloseWindow builds args to close the window with the given id.
func CloseWindow(id uint64) []string {
	return []string{"close-window", "--id", formatID(id)}
}

// MoveWindowToWorkspace builds args to move a window to a named workspace
// without following it.
func MoveWindowToWorkspace(id uint64, workspace string) []string {
	return []string{"move-window-to-workspace", "--window-id", formatID(id), "--focus", "false", workspace}
}

// MoveWindowToMonitor builds args to move a window to the given output.
func MoveWindowToMonitor(id uint64, output string) []string {
	return []string{"move-window-to-monitor", "--id", formatID(id), output}
}

// MoveWindowToFloating builds args to float the window.
func MoveWindowToFloating(id uint64) []string {
	return []string{"move-window-to-floating", "--id", formatID(id)}
}

// MoveWindowToTiling builds args to tile the window.
func MoveWindowToTiling(id uint64) []string {
	return []string{"move-window-to-tiling", "--id", formatID(id)}
}

// ToggleWindowFloating builds args to toggle the window's floating state.
func ToggleWindowFloating(id uint64) []string {
	return []string{"toggle-window-floating", "--id", formatID(id)}
}

// SetWindowWidth builds args to set a window's width in pixels.
func SetWindowWidth(id uint64, px int) []string {
	return []string{"set-window-width", "--id", formatID(id), strconv.Itoa(px)}
}

// SetWindowHeight builds args to set a window's height in pixels.
func SetWindowHeight(id uint64, px int) []string {
	return []string{"set-window-height", "--id", formatID(id), strconv.Itoa(px)}
}

// MoveFloatingWindow builds args to place a floating window at x,y.
func MoveFloatingWindow(id uint64, x, y int) []string {
	return []string{"move-floating-window", "--id", formatID(id), "--x", strconv.Itoa(x), "--y", strconv.Itoa(y)}
}

// CenterWindow builds args to center the window on its output.
func CenterWindow(id uint64) []string {
	return []string{"center-window", "--id", formatID(id)}
}

// ScreenshotWindow builds args to have the compositor capture one window.
// Window rects never leave niri, so this is the only way to shoot one.
func ScreenshotWindow(id uint64) []string {
	return []string{"screenshot-window", "--id", formatID(id)}
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
