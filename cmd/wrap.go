package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/focus"
	"github.com/palegrave/nirikit/internal/shell"
)

var (
	wrapFocusFile string
	wrapShell     string
)

var wrapCmd = &cobra.Command{
	Use:   "wrap [flags] -- <command> [args...]",
	Short: "Run a command under a PTY, publishing terminal focus for agents",
	Long: `Wrap runs a command under a pseudo-terminal and tracks whether its
terminal has focus, combining the terminal's own focus reports with the
compositor's view of the window. The child finds the current state in the
file named by NIRIKIT_FOCUS_FILE.

The wrapper exits with the child's exit code.`,
	Args: cobra.MinimumNArgs(1),
	// A child failing is its own report; cobra usage text would bury it.
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := focus.Run(cmd.Context(), focus.Options{
			Command:         args,
			WatchCompositor: true,
			StatePath:       wrapFocusFile,
		})
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var wrapInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write the shell plugin that wraps interactive agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := wrapShell
		if sh == "" {
			sh = currentProfile().WrapperShell
		}
		if sh == "" {
			return errors.New("no shell configured, pass --shell zsh or --shell bash")
		}
		return shell.Install(sh)
	},
}

func init() {
	// Flags after the wrapped command belong to the child.
	wrapCmd.Flags().SetInterspersed(false)
	wrapCmd.Flags().StringVar(&wrapFocusFile, "focus-file", "", "write focus state here instead of the per-pid default")
	wrapInstallCmd.Flags().StringVar(&wrapShell, "shell", "", "shell to install the plugin for (zsh, bash)")
	wrapCmd.AddCommand(wrapInstallCmd)
	rootCmd.AddCommand(wrapCmd)
}
