package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/claude"
	"github.com/palegrave/nirikit/internal/tui"
)

var usagePlain bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Browse recorded Claude usage in a terminal UI",
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

		if usagePlain {
			fmt.Fprint(cmd.OutOrStdout(), tui.Plain(h, time.Now()))
			return nil
		}
		return tui.Run(h, store.Path())
	},
}

func init() {
	usageCmd.Flags().BoolVar(&usagePlain, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(usageCmd)
}
