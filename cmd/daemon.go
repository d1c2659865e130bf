package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/daemon"
	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/niri"
	"github.com/palegrave/nirikit/internal/waybar"
)

// daemonConfig is the --config override shared by the daemon subcommands.
var daemonConfig string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the per-session scratchpad daemon",
}

var daemonRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon in the foreground (niri spawns this)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout and stderr go nowhere useful under niri spawn; log to file.
		logging.SetupFile("daemon", logLevel)
		defer logging.Stop()

		d, err := daemon.New(daemonConfig)
		if err != nil {
			return err
		}
		return d.Run(cmd.Context())
	},
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon for this niri session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if resp, err := daemon.CallExisting(ctx, daemon.Request{Op: daemon.OpStatus}); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "daemon already running (pid %d)\n", resp.Status.PID)
			return nil
		}

		// Spawn through niri so the daemon belongs to the session, not to
		// this terminal.
		exe, err := os.Executable()
		if err != nil {
			exe = "nirikit"
		}
		spawnArgs := []string{exe, "daemon", "run"}
		if daemonConfig != "" {
			spawnArgs = append(spawnArgs, "--config", daemonConfig)
		}
		if err := niri.NewClient().Action(ctx, niri.Spawn(spawnArgs...)); err != nil {
			return fmt.Errorf("starting daemon: %w", err)
		}

		for i := 0; i < 20; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
			if resp, err := daemon.CallExisting(ctx, daemon.Request{Op: daemon.OpStatus}); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "daemon running (pid %d)\n", resp.Status.PID)
				return nil
			}
		}
		return errors.New("daemon did not come up, check the daemon log")
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := daemon.CallExisting(cmd.Context(), daemon.Request{Op: daemon.OpStop}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "daemon stopped")
		return nil
	},
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the daemon, reloading everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := daemon.CallExisting(cmd.Context(), daemon.Request{Op: daemon.OpRestart})
		if errors.Is(err, daemon.ErrNotRunning) {
			// Nothing to restart; bring one up instead.
			return daemonStartCmd.RunE(cmd, args)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "daemon restarting")
		return nil
	},
}

var daemonReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the scratchpad config now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := daemon.CallExisting(cmd.Context(), daemon.Request{Op: daemon.OpReload}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
		return nil
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon state and scratchpad bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		resp, err := daemon.CallExisting(cmd.Context(), daemon.Request{Op: daemon.OpStatus})
		if errors.Is(err, daemon.ErrNotRunning) {
			// The socket is dead. A recorded pid that still looks like a
			// daemon means it is wedged rather than stopped.
			if pid := daemon.RecordedPID(); pid > 0 {
				return fmt.Errorf("daemon unresponsive: pid %d is alive but its socket does not answer", pid)
			}
			fmt.Fprintln(out, "daemon not running")
			return nil
		}
		if err != nil {
			return err
		}

		st := resp.Status
		fmt.Fprintf(out, "daemon running (pid %d)\n", st.PID)
		fmt.Fprintf(out, "  socket:      %s\n", st.Socket)
		fmt.Fprintf(out, "  niri socket: %s\n", st.NiriSocket)
		fmt.Fprintf(out, "  started:     %s (%s ago)\n",
			st.StartedAt.Format("2006-01-02 15:04:05"), waybar.DeltaHM(time.Since(st.StartedAt)))
		for _, f := range st.ConfigFiles {
			fmt.Fprintf(out, "  config:      %s\n", f)
		}
		for _, w := range st.Warnings {
			fmt.Fprintf(out, "  warning:     %s\n", w)
		}
		if len(st.Scratchpads) > 0 {
			fmt.Fprintln(out, "  scratchpads:")
			for _, it := range st.Scratchpads {
				state := "unbound"
				if it.Bound {
					state = "hidden"
					if it.Visible {
						state = "visible"
					}
				}
				fmt.Fprintf(out, "    %-12s %s\n", it.Name, state)
			}
		}
		return nil
	},
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&daemonConfig, "config", "", "scratchpad config path (default ~/.config/nirikit/scratchpads.yaml)")
	daemonCmd.AddCommand(daemonRunCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonRestartCmd)
	daemonCmd.AddCommand(daemonReloadCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	rootCmd.AddCommand(daemonCmd)
}
