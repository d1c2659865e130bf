package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/claude"
	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/profile"
)

var (
	claudeOnce   bool
	claudeSource string
)

var statusClaudeCmd = &cobra.Command{
	Use:   "claude",
	Short: "Claude rate-limit monitor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout belongs to waybar, so logs go to a file.
		logging.SetupFile("claude", logLevel)
		defer logging.Stop()

		prefer, err := claude.ParseSource(claudeSource)
		if err != nil {
			return err
		}
		mon, err := claude.NewMonitor(prefer)
		if err != nil {
			return err
		}
		seedClaudeConfig(mon.Store, currentProfile())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if claudeOnce {
			return mon.Once(ctx)
		}
		return mon.Run(ctx)
	},
}

// seedClaudeConfig copies the wizard preferences into the history config the
// first time the monitor runs. After that the one-shot source and mode
// commands own the persisted values.
func seedClaudeConfig(store *claude.HistoryStore, prof *profile.Profile) {
	h, err := store.Load()
	if err != nil || h.Config.PreferSource != "" || h.Config.DisplayMode != "" {
		return
	}
	src := prof.ClaudeSource
	if src == "auto" {
		src = ""
	}
	if src == "" && prof.DisplayMode == "" {
		return
	}
	err = store.UpdateConfig(func(c *claude.HistoryConfig) {
		c.PreferSource = src
		c.DisplayMode = prof.DisplayMode
	})
	if err != nil {
		logging.Get().Warn().Err(err).Msg("seeding monitor config")
	}
}

var claudeSourceCmd = &cobra.Command{
	Use:   "source <auto|claude-code|opencode>",
	Short: "Persist which credentials the monitor prefers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := claude.ParseSource(args[0])
		if err != nil {
			return err
		}
		store, err := claude.NewHistoryStore()
		if err != nil {
			return err
		}
		if err := store.UpdateConfig(func(c *claude.HistoryConfig) {
			c.PreferSource = string(src)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "credential source set to %s\n", src)
		return nil
	},
}

var claudeModeCmd = &cobra.Command{
	Use:   "mode <compact|normal|expanded|up|down>",
	Short: "Set or cycle the tooltip display mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := claude.NewHistoryStore()
		if err != nil {
			return err
		}

		var next claude.DisplayMode
		switch args[0] {
		case "up", "down":
			h, err := store.Load()
			if err != nil {
				return err
			}
			delta := 1
			if args[0] == "down" {
				delta = -1
			}
			next = claude.CycleDisplayMode(claude.ParseDisplayMode(h.Config.DisplayMode), delta)
		default:
			ok := false
			for _, m := range claude.DisplayModes {
				if string(m) == args[0] {
					ok = true
				}
			}
			if !ok {
				return fmt.Errorf("unknown display mode %q (want compact, normal, expanded, up or down)", args[0])
			}
			next = claude.DisplayMode(args[0])
		}

		if err := store.UpdateConfig(func(c *claude.HistoryConfig) {
			c.DisplayMode = string(next)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "display mode set to %s\n", next)
		return nil
	},
}

var claudeRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the running monitor to probe right now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := claude.NewHistoryStore()
		if err != nil {
			return err
		}
		h, err := store.Load()
		if err != nil {
			return err
		}
		if !store.SignalRunning(h) {
			return fmt.Errorf("no monitor running (start one with 'nirikit status claude')")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "refresh requested")
		return nil
	},
}

func init() {
	statusClaudeCmd.Flags().BoolVar(&claudeOnce, "once", false, "probe once, print one JSON line and exit")
	statusClaudeCmd.Flags().StringVar(&claudeSource, "source", "", "credential source override for this run")
	statusClaudeCmd.AddCommand(claudeSourceCmd)
	statusClaudeCmd.AddCommand(claudeModeCmd)
	statusClaudeCmd.AddCommand(claudeRefreshCmd)
	statusCmd.AddCommand(statusClaudeCmd)
}
