package cmd

import (
	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/daemon"
)

// menuRunner is swapped by tests to avoid running rofi.
var menuRunner daemon.MenuRunner

var scratchpadCmd = &cobra.Command{
	Use:     "scratchpad",
	Aliases: []string{"pad"},
	Short:   "Drop-down windows bound to names",
}

// namedOp returns a subcommand sending op with a scratchpad name argument.
// The daemon is started on demand, so these work straight from keybinds.
func namedOp(use, short, op string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := daemon.Call(cmd.Context(), daemon.Request{Op: op, Name: args[0]})
			return err
		},
	}
}

// focusedOp returns a subcommand sending op for the focused window.
func focusedOp(use, short, op string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := daemon.Call(cmd.Context(), daemon.Request{Op: op})
			return err
		},
	}
}

var scratchpadMenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a scratchpad with rofi and toggle it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		resp, err := daemon.Call(ctx, daemon.Request{Op: daemon.OpMenu})
		if err != nil {
			return err
		}
		name, err := daemon.PickScratchpad(ctx, menuRunner, resp.Items)
		if err != nil || name == "" {
			return err
		}
		_, err = daemon.Call(ctx, daemon.Request{Op: daemon.OpToggle, Name: name})
		return err
	},
}

func init() {
	scratchpadCmd.AddCommand(
		namedOp("toggle", "Show the named scratchpad, or hide it when visible", daemon.OpToggle),
		namedOp("show", "Bring the named scratchpad to the focused workspace", daemon.OpShow),
		namedOp("hide", "Park the named scratchpad on the hide workspace", daemon.OpHide),
		namedOp("adopt", "Bind the focused window to the named scratchpad", daemon.OpAdopt),
		namedOp("disown", "Release the named scratchpad's window back to tiling", daemon.OpDisown),
		namedOp("close", "Close the named scratchpad's window", daemon.OpClose),
		focusedOp("smart-toggle", "Hide the focused scratchpad, or show the last used one", daemon.OpSmartToggle),
		focusedOp("float", "Move the focused window to the floating layer", daemon.OpFloat),
		focusedOp("tile", "Move the focused window back to tiling", daemon.OpTile),
		focusedOp("toggle-float", "Flip the focused window between floating and tiled", daemon.OpToggleFloat),
		scratchpadMenuCmd,
	)
	rootCmd.AddCommand(scratchpadCmd)
}
